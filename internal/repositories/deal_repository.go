package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/versin01/vertical-systems-crm/internal/models"
)

var ErrDealNotFound = errors.New("deal not found")

// DealRepository is the store of record for deals. Updates are last-write-wins.
type DealRepository interface {
	FetchAll(ctx context.Context) ([]models.Deal, error)
	GetByID(ctx context.Context, id string) (*models.Deal, error)
	Create(ctx context.Context, deal *models.Deal) error
	Update(ctx context.Context, id string, fields models.DealUpdate) (*models.Deal, error)
	Delete(ctx context.Context, id string) error
}

const dealColumns = `id, name, deal_value, probability, stage, owner_id, service_type, source, notes, lead_id,
	created_at, updated_at, won_date, lost_date, expected_close_date, actual_close_date`

type dealRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewDealRepository(db *sql.DB) DealRepository {
	return &dealRepository{db: db, now: time.Now}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeal(row rowScanner) (*models.Deal, error) {
	d := &models.Deal{}
	err := row.Scan(
		&d.ID, &d.Name, &d.DealValue, &d.Probability, &d.Stage,
		&d.OwnerID, &d.ServiceType, &d.Source, &d.Notes, &d.LeadID,
		&d.CreatedAt, &d.UpdatedAt, &d.WonDate, &d.LostDate, &d.ExpectedCloseDate, &d.ActualCloseDate,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// FetchAll returns every deal, oldest first.
func (r *dealRepository) FetchAll(ctx context.Context) ([]models.Deal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+dealColumns+` FROM deals ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	deals := []models.Deal{}
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		deals = append(deals, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	return deals, nil
}

func (r *dealRepository) GetByID(ctx context.Context, id string) (*models.Deal, error) {
	d, err := scanDeal(r.db.QueryRowContext(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDealNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get deal %s: %w", id, err)
	}
	return d, nil
}

func (r *dealRepository) Create(ctx context.Context, deal *models.Deal) error {
	const query = `
		INSERT INTO deals (` + dealColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	_, err := r.db.ExecContext(ctx, query,
		deal.ID, deal.Name, deal.DealValue, deal.Probability, deal.Stage,
		deal.OwnerID, deal.ServiceType, deal.Source, deal.Notes, deal.LeadID,
		deal.CreatedAt, deal.UpdatedAt, deal.WonDate, deal.LostDate, deal.ExpectedCloseDate, deal.ActualCloseDate,
	)
	if err != nil {
		return fmt.Errorf("create deal: %w", err)
	}
	return nil
}

// Update writes only the fields set in fields and always bumps updated_at.
func (r *dealRepository) Update(ctx context.Context, id string, fields models.DealUpdate) (*models.Deal, error) {
	sets, args := updateClauses(fields)
	args = append(args, r.now())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE deals SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), dealColumns)

	d, err := scanDeal(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDealNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update deal %s: %w", id, err)
	}
	return d, nil
}

func updateClauses(f models.DealUpdate) ([]string, []any) {
	var sets []string
	var args []any
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if f.Name != nil {
		add("name", *f.Name)
	}
	if f.DealValue != nil {
		add("deal_value", *f.DealValue)
	}
	if f.Probability != nil {
		add("probability", *f.Probability)
	}
	if f.Stage != nil {
		add("stage", *f.Stage)
	}
	if f.OwnerID != nil {
		add("owner_id", *f.OwnerID)
	}
	if f.ServiceType != nil {
		add("service_type", *f.ServiceType)
	}
	if f.Source != nil {
		add("source", *f.Source)
	}
	if f.Notes != nil {
		add("notes", *f.Notes)
	}
	if f.LeadID != nil {
		add("lead_id", *f.LeadID)
	}
	if f.WonDate != nil {
		add("won_date", *f.WonDate)
	}
	if f.LostDate != nil {
		add("lost_date", *f.LostDate)
	}
	if f.ExpectedCloseDate != nil {
		add("expected_close_date", *f.ExpectedCloseDate)
	}
	if f.ActualCloseDate != nil {
		add("actual_close_date", *f.ActualCloseDate)
	}
	return sets, args
}

func (r *dealRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete deal %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete deal %s: %w", id, err)
	}
	if affected == 0 {
		return ErrDealNotFound
	}
	return nil
}
