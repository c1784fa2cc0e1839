package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/factumhumanum/registry-backend/internal/model"
	"github.com/factumhumanum/registry-backend/internal/repository"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repositories mirroring the storage contracts: conditional debit,
// unique session ids, exactly-once fulfillment.

func newID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

type mockCreatorRepo struct {
	byID map[uuid.UUID]*model.Creator
}

func newMockCreatorRepo() *mockCreatorRepo {
	return &mockCreatorRepo{byID: make(map[uuid.UUID]*model.Creator)}
}

func (m *mockCreatorRepo) add(c *model.Creator) *model.Creator {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.byID[c.ID] = c
	return c
}

func (m *mockCreatorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Creator, error) {
	if c, ok := m.byID[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCreatorRepo) FindByEmail(ctx context.Context, email string) (*model.Creator, error) {
	for _, c := range m.byID {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCreatorRepo) FindOrCreateByEmail(ctx context.Context, email, name string) (*model.Creator, error) {
	if c, err := m.FindByEmail(ctx, email); err == nil {
		return c, nil
	}
	return m.add(&model.Creator{Name: name, Email: email}), nil
}

func (m *mockCreatorRepo) AddCredits(ctx context.Context, id uuid.UUID, amount int) error {
	if c, ok := m.byID[id]; ok {
		c.Credits += amount
	}
	return nil
}

func (m *mockCreatorRepo) ResetCredits(ctx context.Context, id uuid.UUID) error {
	if c, ok := m.byID[id]; ok {
		c.Credits = 0
	}
	return nil
}

func (m *mockCreatorRepo) List(ctx context.Context, email string, limit, offset int) ([]model.Creator, int64, error) {
	var out []model.Creator
	for _, c := range m.byID {
		if email == "" || strings.Contains(c.Email, email) {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

type mockWorkRepo struct {
	creators *mockCreatorRepo
	works    map[uuid.UUID]*model.Work
}

func newMockWorkRepo(creators *mockCreatorRepo) *mockWorkRepo {
	return &mockWorkRepo{creators: creators, works: make(map[uuid.UUID]*model.Work)}
}

func (m *mockWorkRepo) CreateWithDebit(ctx context.Context, w *model.Work) error {
	c, ok := m.creators.byID[w.CreatorID]
	if !ok || c.Credits <= 0 {
		return repository.ErrNoCredits
	}
	c.Credits--
	cp := *w
	cp.RegisteredAt = time.Now()
	m.works[w.ID] = &cp
	return nil
}

func (m *mockWorkRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Work, error) {
	w, ok := m.works[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *w
	if c, ok := m.creators.byID[w.CreatorID]; ok {
		cp.Creator = c
	}
	return &cp, nil
}

func (m *mockWorkRepo) Search(ctx context.Context, query string, category model.WorkCategory, status model.WorkStatus, limit, offset int) ([]model.Work, int64, error) {
	var out []model.Work
	for _, w := range m.works {
		if status != "" && w.Status != status {
			continue
		}
		if category != "" && w.Category != category {
			continue
		}
		if query != "" && !strings.Contains(w.Title, query) && !strings.Contains(w.Description, query) {
			continue
		}
		out = append(out, *w)
	}
	return out, int64(len(out)), nil
}

func (m *mockWorkRepo) MarkReviewedIfPending(ctx context.Context, id uuid.UUID, status model.WorkStatus, notes *string) (int64, error) {
	w, ok := m.works[id]
	if !ok || w.Status != model.WorkStatusPendingReview {
		return 0, nil
	}
	now := time.Now()
	w.Status = status
	w.ReviewedAt = &now
	if notes != nil {
		w.ReviewerNotes = notes
	}
	return 1, nil
}

type mockPaymentRepo struct {
	creators  *mockCreatorRepo
	bySession map[string]*model.Payment
}

func newMockPaymentRepo(creators *mockCreatorRepo) *mockPaymentRepo {
	return &mockPaymentRepo{creators: creators, bySession: make(map[string]*model.Payment)}
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	if _, ok := m.bySession[p.StripeSessionID]; ok {
		return &mysql.MySQLError{Number: 1062, Message: "duplicate entry"}
	}
	cp := *p
	m.bySession[p.StripeSessionID] = &cp
	return nil
}

func (m *mockPaymentRepo) FindBySessionID(ctx context.Context, sessionID string) (*model.Payment, error) {
	if p, ok := m.bySession[sessionID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepo) FulfillBySession(ctx context.Context, sessionID string) (*model.Payment, bool, error) {
	p, ok := m.bySession[sessionID]
	if !ok {
		return nil, false, gorm.ErrRecordNotFound
	}
	if p.Fulfilled {
		cp := *p
		return &cp, false, nil
	}
	if c, ok := m.creators.byID[*p.CreatorID]; ok {
		c.Credits += p.CreditsGranted
	}
	now := time.Now()
	p.Fulfilled = true
	p.FulfilledAt = &now
	cp := *p
	return &cp, true, nil
}
