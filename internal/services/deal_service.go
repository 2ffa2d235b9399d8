package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/versin01/vertical-systems-crm/internal/metrics"
	"github.com/versin01/vertical-systems-crm/internal/models"
	"github.com/versin01/vertical-systems-crm/internal/pipeline"
	"github.com/versin01/vertical-systems-crm/internal/repositories"
)

var (
	ErrUnknownStage     = errors.New("unknown stage")
	ErrTransitionDenied = errors.New("stage transition not allowed")
	ErrDealNameRequired = errors.New("deal name is required")
	ErrEmptyUpdate      = errors.New("no fields to update")
)

// StageListener observes every successful stage change, e.g. live board subscribers.
type StageListener interface {
	DealMoved(ctx context.Context, deal models.Deal, from models.Stage)
}

type DealService struct {
	repo      repositories.DealRepository
	notifier  Notifier
	listeners []StageListener
	metrics   *metrics.Recorder
	logger    *zap.Logger
	policy    pipeline.Policy
	now       func() time.Time
}

type DealServiceOption func(*DealService)

func WithNotifier(n Notifier) DealServiceOption {
	return func(s *DealService) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithStageListener(l StageListener) DealServiceOption {
	return func(s *DealService) {
		if l != nil {
			s.listeners = append(s.listeners, l)
		}
	}
}

func WithMetrics(m *metrics.Recorder) DealServiceOption {
	return func(s *DealService) { s.metrics = m }
}

func WithPolicy(p pipeline.Policy) DealServiceOption {
	return func(s *DealService) { s.policy = p }
}

func WithClock(now func() time.Time) DealServiceOption {
	return func(s *DealService) { s.now = now }
}

func NewDealService(repo repositories.DealRepository, logger *zap.Logger, opts ...DealServiceOption) *DealService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &DealService{
		repo:     repo,
		notifier: NopNotifier{},
		logger:   logger,
		policy:   pipeline.PolicyAny,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DealService) List(ctx context.Context, filter pipeline.Filter) ([]models.Deal, error) {
	deals, err := s.repo.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(deals), nil
}

func (s *DealService) Get(ctx context.Context, id string) (*models.Deal, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DealService) Create(ctx context.Context, deal *models.Deal) error {
	if deal.Name == "" {
		return ErrDealNameRequired
	}
	if deal.Stage == "" {
		deal.Stage = models.StageNewOpportunity
	}
	if !pipeline.IsKnown(deal.Stage) {
		return fmt.Errorf("%w: %s", ErrUnknownStage, deal.Stage)
	}
	if deal.ID == "" {
		deal.ID = uuid.NewString()
	}
	now := s.now()
	deal.CreatedAt = now
	deal.UpdatedAt = now

	// Deals created straight into a closing stage get the same stamps as a move would.
	pipeline.TransitionFields(deal.Stage, now).Apply(deal)

	if err := s.repo.Create(ctx, deal); err != nil {
		return err
	}
	s.logger.Info("deal created", zap.String("deal_id", deal.ID), zap.String("stage", string(deal.Stage)))
	return nil
}

// Update writes a generic partial update. A stage change is checked first and
// then saved together with the other fields and its transition stamps.
func (s *DealService) Update(ctx context.Context, id string, fields models.DealUpdate, actorID string) (*models.Deal, error) {
	if fields.Stage == nil {
		if fields.IsEmpty() {
			return nil, ErrEmptyUpdate
		}
		return s.repo.Update(ctx, id, fields)
	}

	target := *fields.Stage
	from, err := s.checkMove(ctx, id, target)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, id, fields.Merge(pipeline.StageChange(target, s.now())))
	if err != nil {
		return nil, err
	}
	s.afterMove(ctx, *updated, from, actorID)
	return updated, nil
}

func (s *DealService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deal deleted", zap.String("deal_id", id))
	return nil
}

// MoveStage moves a deal to target, stamping won/lost dates as needed.
func (s *DealService) MoveStage(ctx context.Context, id string, target models.Stage, actorID string) (*models.Deal, error) {
	from, err := s.checkMove(ctx, id, target)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, id, pipeline.StageChange(target, s.now()))
	if err != nil {
		return nil, err
	}
	s.afterMove(ctx, *updated, from, actorID)
	return updated, nil
}

// checkMove returns the deal's current stage if moving it to target is allowed.
func (s *DealService) checkMove(ctx context.Context, id string, target models.Stage) (models.Stage, error) {
	if !pipeline.IsKnown(target) {
		return "", fmt.Errorf("%w: %s", ErrUnknownStage, target)
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !pipeline.CanTransition(current.Stage, target, s.policy) {
		return "", fmt.Errorf("%w: %s -> %s", ErrTransitionDenied, current.Stage, target)
	}
	return current.Stage, nil
}

func (s *DealService) afterMove(ctx context.Context, deal models.Deal, from models.Stage, actorID string) {
	s.metrics.RecordStageMove(deal.Stage)
	s.logger.Info("deal stage changed",
		zap.String("deal_id", deal.ID),
		zap.String("from", string(from)),
		zap.String("to", string(deal.Stage)),
		zap.String("actor_id", actorID),
	)

	for _, l := range s.listeners {
		l.DealMoved(ctx, deal, from)
	}

	if from != deal.Stage && (deal.Stage == models.StageContractSigned || deal.Stage == models.StageLost) {
		if err := s.notifier.DealClosed(ctx, deal, from); err != nil {
			s.logger.Warn("deal notification failed", zap.String("deal_id", deal.ID), zap.Error(err))
		}
	}
}

func (s *DealService) Board(ctx context.Context, filter pipeline.Filter) (pipeline.Board, error) {
	deals, err := s.List(ctx, filter)
	if err != nil {
		return pipeline.Board{}, err
	}
	return pipeline.GroupByStage(deals), nil
}

func (s *DealService) Summary(ctx context.Context, filter pipeline.Filter) (pipeline.Metrics, error) {
	deals, err := s.List(ctx, filter)
	if err != nil {
		return pipeline.Metrics{}, err
	}
	m := pipeline.Calculate(deals)
	if filter == (pipeline.Filter{}) {
		s.metrics.ObservePipeline(m)
	}
	return m, nil
}
