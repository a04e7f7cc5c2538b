package application

import (
	"context"
	"sync"

	"github.com/oksasatya/passvault/internal/domain/entity"
	repo "github.com/oksasatya/passvault/internal/domain/repository"
)

type userRepoMock struct {
	CreateFunc         func(ctx context.Context, u *entity.User) error
	GetByIDFunc        func(ctx context.Context, id string) (*entity.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*entity.User, error)
	UpdateFunc         func(ctx context.Context, u *entity.User) error
	UpdatePasswordFunc func(ctx context.Context, id, hash string) error
	ListFunc           func(ctx context.Context, limit, offset int) ([]entity.User, error)
	DeleteFunc         func(ctx context.Context, id string) error
	SetRoleFunc        func(ctx context.Context, id, role string) error
}

func (m *userRepoMock) Create(ctx context.Context, u *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	u.ID = "00000000-0000-0000-0000-000000000001"
	return nil
}

func (m *userRepoMock) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repo.ErrNotFound
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, repo.ErrNotFound
}

func (m *userRepoMock) Update(ctx context.Context, u *entity.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, u)
	}
	return nil
}

func (m *userRepoMock) UpdatePassword(ctx context.Context, id, hash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, hash)
	}
	return nil
}

func (m *userRepoMock) IsVerified(context.Context, string) (bool, error) { return false, nil }
func (m *userRepoMock) SetVerified(context.Context, string) error        { return nil }

func (m *userRepoMock) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *userRepoMock) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *userRepoMock) SetRole(ctx context.Context, id, role string) error {
	if m.SetRoleFunc != nil {
		return m.SetRoleFunc(ctx, id, role)
	}
	return nil
}

type passwordRepoMock struct {
	ListByUserFunc        func(ctx context.Context, userID string) ([]entity.PasswordRecord, error)
	GetByIDFunc           func(ctx context.Context, userID, id string) (*entity.PasswordRecord, error)
	CreateFunc            func(ctx context.Context, rec *entity.PasswordRecord) error
	UpdateFunc            func(ctx context.Context, userID, id string, patch repo.PasswordPatch) error
	DeleteFunc            func(ctx context.Context, userID, id string) error
	UpdateWithHistoryFunc func(ctx context.Context, userID, id string, patch repo.PasswordPatch, h entity.PasswordHistory) error
}

func (m *passwordRepoMock) ListByUser(ctx context.Context, userID string) ([]entity.PasswordRecord, error) {
	return m.ListByUserFunc(ctx, userID)
}

func (m *passwordRepoMock) GetByID(ctx context.Context, userID, id string) (*entity.PasswordRecord, error) {
	return m.GetByIDFunc(ctx, userID, id)
}

func (m *passwordRepoMock) Create(ctx context.Context, rec *entity.PasswordRecord) error {
	return m.CreateFunc(ctx, rec)
}

func (m *passwordRepoMock) Update(ctx context.Context, userID, id string, patch repo.PasswordPatch) error {
	return m.UpdateFunc(ctx, userID, id, patch)
}

func (m *passwordRepoMock) Delete(ctx context.Context, userID, id string) error {
	return m.DeleteFunc(ctx, userID, id)
}

func (m *passwordRepoMock) UpdateWithHistory(ctx context.Context, userID, id string, patch repo.PasswordPatch, h entity.PasswordHistory) error {
	return m.UpdateWithHistoryFunc(ctx, userID, id, patch, h)
}

type catalogRepoMock struct {
	CategoriesFunc        func(ctx context.Context, activeOnly bool) ([]entity.Category, error)
	AccountTypesFunc      func(ctx context.Context, activeOnly bool) ([]entity.AccountType, error)
	SubcategoriesFunc     func(ctx context.Context, accountTypeID string, activeOnly bool) ([]entity.Subcategory, error)
	CreateCategoryFunc    func(ctx context.Context, name, icon string) (*entity.Category, error)
	SetCategoryActiveFunc func(ctx context.Context, id string, active bool) error
}

func (m *catalogRepoMock) Categories(ctx context.Context, activeOnly bool) ([]entity.Category, error) {
	return m.CategoriesFunc(ctx, activeOnly)
}

func (m *catalogRepoMock) AccountTypes(ctx context.Context, activeOnly bool) ([]entity.AccountType, error) {
	return m.AccountTypesFunc(ctx, activeOnly)
}

func (m *catalogRepoMock) Subcategories(ctx context.Context, accountTypeID string, activeOnly bool) ([]entity.Subcategory, error) {
	return m.SubcategoriesFunc(ctx, accountTypeID, activeOnly)
}

func (m *catalogRepoMock) CreateCategory(ctx context.Context, name, icon string) (*entity.Category, error) {
	return m.CreateCategoryFunc(ctx, name, icon)
}

func (m *catalogRepoMock) SetCategoryActive(ctx context.Context, id string, active bool) error {
	return m.SetCategoryActiveFunc(ctx, id, active)
}

type recordingPublisher struct {
	mu   sync.Mutex
	jobs []any
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, body)
	return nil
}

type recordingNotifier struct {
	events []ChangeEvent
}

func (n *recordingNotifier) Publish(_ context.Context, _ string, ev ChangeEvent) error {
	n.events = append(n.events, ev)
	return nil
}
