package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/versin01/vertical-systems-crm/internal/models"
)

var ErrLeadNotFound = errors.New("lead not found")

type LeadRepository interface {
	List(ctx context.Context) ([]models.Lead, error)
	GetByID(ctx context.Context, id string) (*models.Lead, error)
	Create(ctx context.Context, lead *models.Lead) error
}

type leadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) LeadRepository {
	return &leadRepository{db: db}
}

const leadColumns = `id, name, company, email, phone, status, source, owner_id, created_at`

func scanLead(row rowScanner) (*models.Lead, error) {
	l := &models.Lead{}
	if err := row.Scan(&l.ID, &l.Name, &l.Company, &l.Email, &l.Phone, &l.Status, &l.Source, &l.OwnerID, &l.CreatedAt); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *leadRepository) List(ctx context.Context) ([]models.Lead, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := []models.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *l)
	}
	return leads, rows.Err()
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	l, err := scanLead(r.db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lead %s: %w", id, err)
	}
	return l, nil
}

func (r *leadRepository) Create(ctx context.Context, lead *models.Lead) error {
	const query = `INSERT INTO leads (` + leadColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.db.ExecContext(ctx, query,
		lead.ID, lead.Name, lead.Company, lead.Email, lead.Phone, lead.Status, lead.Source, lead.OwnerID, lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

// MemoryLeadRepository is the in-process lead store, newest first.
type MemoryLeadRepository struct {
	mu    sync.RWMutex
	leads []models.Lead
}

func NewMemoryLeadRepository() *MemoryLeadRepository {
	return &MemoryLeadRepository{}
}

func (r *MemoryLeadRepository) List(_ context.Context) ([]models.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Lead, len(r.leads))
	for i := range r.leads {
		out[i] = r.leads[len(r.leads)-1-i]
	}
	return out, nil
}

func (r *MemoryLeadRepository) GetByID(_ context.Context, id string) (*models.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.leads {
		if l.ID == id {
			l := l
			return &l, nil
		}
	}
	return nil, ErrLeadNotFound
}

func (r *MemoryLeadRepository) Create(_ context.Context, lead *models.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads = append(r.leads, *lead)
	return nil
}
