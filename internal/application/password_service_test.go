package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/passvault/internal/domain/entity"
	repo "github.com/oksasatya/passvault/internal/domain/repository"
	"github.com/oksasatya/passvault/internal/domain/vault"
	"github.com/oksasatya/passvault/pkg/generator"
)

const (
	ownerID = "11111111-1111-1111-1111-111111111111"
	recID   = "22222222-2222-2222-2222-222222222222"
	catID   = "33333333-3333-3333-3333-333333333333"
	typeID  = "44444444-4444-4444-4444-444444444444"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func storedRecord() *entity.PasswordRecord {
	return &entity.PasswordRecord{
		ID:              recID,
		UserID:          ownerID,
		Title:           "GitHub",
		Email:           "dev@example.com",
		Secret:          "hunter2hunter2",
		CategoryID:      catID,
		CategoryName:    "Work",
		AccountTypeID:   typeID,
		AccountTypeName: "Developer",
		CreatedAt:       fixedNow.AddDate(0, 0, -2),
	}
}

func newPasswordService(r *passwordRepoMock, n Notifier) *PasswordService {
	s := NewPasswordService(r, n, nil)
	s.Now = func() time.Time { return fixedNow }
	return s
}

func TestPasswordService_List(t *testing.T) {
	records := []entity.PasswordRecord{
		{ID: "a", Title: "GitHub", Secret: "averyveryverylongone", CategoryName: "Work", AccountTypeName: "Developer", CreatedAt: fixedNow},
		{ID: "b", Title: "Bank", Secret: "short", CategoryName: "Finance", AccountTypeName: "Bank", CreatedAt: fixedNow.AddDate(0, 0, -30)},
	}
	r := &passwordRepoMock{
		ListByUserFunc: func(_ context.Context, userID string) ([]entity.PasswordRecord, error) {
			assert.Equal(t, ownerID, userID)
			return records, nil
		},
	}
	s := newPasswordService(r, nil)

	res, err := s.List(context.Background(), ownerID, vault.Criteria{Strength: vault.StrengthWeak})
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, "b", res.Items[0].ID)
	// views cover the whole snapshot, not just the filtered items
	assert.Equal(t, vault.Stats{Total: 2, Strong: 1, Weak: 1, Recent: 1}, res.Stats)
	assert.Equal(t, []string{"Finance", "Work"}, res.Categories)
	assert.Equal(t, []string{"Bank", "Developer"}, res.AccountTypes)
}

func TestPasswordService_List_UsesServiceClock(t *testing.T) {
	records := []entity.PasswordRecord{
		{ID: "a", Title: "GitHub", Secret: "averyveryverylongone", CreatedAt: fixedNow},
	}
	r := &passwordRepoMock{
		ListByUserFunc: func(context.Context, string) ([]entity.PasswordRecord, error) { return records, nil },
	}
	s := newPasswordService(r, nil)

	res, err := s.List(context.Background(), ownerID, vault.Criteria{Age: vault.AgeRecent})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	s.Now = func() time.Time { return fixedNow.AddDate(0, 0, 8) }
	res, err = s.List(context.Background(), ownerID, vault.Criteria{Age: vault.AgeRecent})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.Stats.Recent)
}

func TestPasswordService_List_RepoError(t *testing.T) {
	boom := errors.New("db down")
	r := &passwordRepoMock{
		ListByUserFunc: func(context.Context, string) ([]entity.PasswordRecord, error) { return nil, boom },
	}
	_, err := newPasswordService(r, nil).List(context.Background(), ownerID, vault.Criteria{})
	assert.ErrorIs(t, err, boom)
}

func TestPasswordService_Get_MalformedID(t *testing.T) {
	s := newPasswordService(&passwordRepoMock{}, nil)
	_, err := s.Get(context.Background(), ownerID, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPasswordService_Create(t *testing.T) {
	n := &recordingNotifier{}
	var created *entity.PasswordRecord
	r := &passwordRepoMock{
		CreateFunc: func(_ context.Context, rec *entity.PasswordRecord) error {
			rec.ID = recID
			created = rec
			return nil
		},
		GetByIDFunc: func(_ context.Context, userID, id string) (*entity.PasswordRecord, error) {
			return storedRecord(), nil
		},
	}
	s := newPasswordService(r, n)

	got, err := s.Create(context.Background(), ownerID, PasswordInput{
		Title:         "  GitHub ",
		Email:         "dev@example.com",
		Secret:        "hunter2hunter2",
		CategoryID:    catID,
		AccountTypeID: typeID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Work", got.CategoryName)
	assert.Equal(t, "GitHub", created.Title)
	assert.Equal(t, ownerID, created.UserID)

	require.Len(t, n.events, 1)
	assert.Equal(t, ChangeEvent{Type: ChangeCreated, ID: recID, At: fixedNow}, n.events[0])
}

func TestPasswordService_Create_Validation(t *testing.T) {
	valid := PasswordInput{Title: "t", Email: "e", Secret: "s", CategoryID: catID, AccountTypeID: typeID}
	cases := map[string]func(in *PasswordInput){
		"missing title":         func(in *PasswordInput) { in.Title = "  " },
		"missing email":         func(in *PasswordInput) { in.Email = "" },
		"missing secret":        func(in *PasswordInput) { in.Secret = " " },
		"missing category":      func(in *PasswordInput) { in.CategoryID = "" },
		"bad account type":      func(in *PasswordInput) { in.AccountTypeID = "bank" },
		"malformed subcategory": func(in *PasswordInput) { in.SubcategoryID = "x" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := valid
			mutate(&in)
			_, err := newPasswordService(&passwordRepoMock{}, nil).Create(context.Background(), ownerID, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestPasswordService_Create_UnknownReference(t *testing.T) {
	r := &passwordRepoMock{
		CreateFunc: func(context.Context, *entity.PasswordRecord) error { return repo.ErrInvalidReference },
	}
	_, err := newPasswordService(r, nil).Create(context.Background(), ownerID, PasswordInput{
		Title: "t", Email: "e", Secret: "s", CategoryID: catID, AccountTypeID: typeID,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPasswordService_Update_NoChanges(t *testing.T) {
	n := &recordingNotifier{}
	r := &passwordRepoMock{
		GetByIDFunc: func(context.Context, string, string) (*entity.PasswordRecord, error) { return storedRecord(), nil },
		UpdateFunc: func(context.Context, string, string, repo.PasswordPatch) error {
			t.Fatal("update must not be called for an unchanged record")
			return nil
		},
	}
	s := newPasswordService(r, n)

	got, err := s.Update(context.Background(), ownerID, recID, PasswordUpdate{
		Title:  strPtr("GitHub "),
		Secret: strPtr("hunter2hunter2"),
	})
	require.NoError(t, err)
	assert.Equal(t, "GitHub", got.Title)
	assert.Empty(t, n.events)
}

func TestPasswordService_Update_ChangedSecretKeepsHistory(t *testing.T) {
	n := &recordingNotifier{}
	var (
		history []entity.PasswordHistory
		patch   repo.PasswordPatch
	)
	r := &passwordRepoMock{
		GetByIDFunc: func(context.Context, string, string) (*entity.PasswordRecord, error) { return storedRecord(), nil },
		UpdateWithHistoryFunc: func(_ context.Context, userID, id string, p repo.PasswordPatch, h entity.PasswordHistory) error {
			assert.Equal(t, ownerID, userID)
			assert.Equal(t, recID, id)
			patch = p
			history = append(history, h)
			return nil
		},
		UpdateFunc: func(context.Context, string, string, repo.PasswordPatch) error {
			t.Fatal("secret change must go through the history-preserving update")
			return nil
		},
	}
	s := newPasswordService(r, n)

	_, err := s.Update(context.Background(), ownerID, recID, PasswordUpdate{
		Title:  strPtr("GitHub"),
		Secret: strPtr("brand-new-secret"),
	})
	require.NoError(t, err)

	require.Len(t, history, 1)
	assert.Equal(t, "hunter2hunter2", history[0].OldPassword)
	assert.Equal(t, recID, history[0].PasswordID)
	assert.Nil(t, patch.Title)
	require.NotNil(t, patch.Secret)
	assert.Equal(t, "brand-new-secret", *patch.Secret)
	require.Len(t, n.events, 1)
	assert.Equal(t, ChangeUpdated, n.events[0].Type)
}

func TestPasswordService_Update_FailedSecretChangeIsNotAnnounced(t *testing.T) {
	n := &recordingNotifier{}
	r := &passwordRepoMock{
		GetByIDFunc: func(context.Context, string, string) (*entity.PasswordRecord, error) { return storedRecord(), nil },
		UpdateWithHistoryFunc: func(context.Context, string, string, repo.PasswordPatch, entity.PasswordHistory) error {
			return repo.ErrInvalidReference
		},
		UpdateFunc: func(context.Context, string, string, repo.PasswordPatch) error {
			t.Fatal("no separate write may follow a failed secret change")
			return nil
		},
	}
	s := newPasswordService(r, n)

	_, err := s.Update(context.Background(), ownerID, recID, PasswordUpdate{
		Secret:     strPtr("brand-new-secret"),
		CategoryID: strPtr("77777777-7777-7777-7777-777777777777"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, n.events)
}

func TestPasswordService_Update_TitleOnlySkipsHistory(t *testing.T) {
	var called bool
	r := &passwordRepoMock{
		GetByIDFunc: func(context.Context, string, string) (*entity.PasswordRecord, error) { return storedRecord(), nil },
		UpdateFunc: func(context.Context, string, string, repo.PasswordPatch) error {
			called = true
			return nil
		},
	}
	_, err := newPasswordService(r, nil).Update(context.Background(), ownerID, recID, PasswordUpdate{Title: strPtr("GitLab")})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestPasswordService_Update_ClearsSubcategory(t *testing.T) {
	stored := storedRecord()
	stored.SubcategoryID = "55555555-5555-5555-5555-555555555555"
	var patch repo.PasswordPatch
	r := &passwordRepoMock{
		GetByIDFunc: func(context.Context, string, string) (*entity.PasswordRecord, error) { return stored, nil },
		UpdateFunc: func(_ context.Context, _, _ string, p repo.PasswordPatch) error {
			patch = p
			return nil
		},
	}
	_, err := newPasswordService(r, nil).Update(context.Background(), ownerID, recID, PasswordUpdate{SubcategoryID: strPtr("")})
	require.NoError(t, err)
	require.NotNil(t, patch.SubcategoryID)
	assert.Equal(t, "", *patch.SubcategoryID)
}

func TestPasswordService_Update_Invalid(t *testing.T) {
	r := &passwordRepoMock{
		GetByIDFunc: func(context.Context, string, string) (*entity.PasswordRecord, error) { return storedRecord(), nil },
	}
	s := newPasswordService(r, nil)

	_, err := s.Update(context.Background(), ownerID, recID, PasswordUpdate{Title: strPtr("   ")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Update(context.Background(), ownerID, recID, PasswordUpdate{CategoryID: strPtr("")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPasswordService_Update_Missing(t *testing.T) {
	r := &passwordRepoMock{
		GetByIDFunc: func(context.Context, string, string) (*entity.PasswordRecord, error) { return nil, repo.ErrNotFound },
	}
	_, err := newPasswordService(r, nil).Update(context.Background(), ownerID, recID, PasswordUpdate{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPasswordService_Delete(t *testing.T) {
	n := &recordingNotifier{}
	r := &passwordRepoMock{
		DeleteFunc: func(_ context.Context, userID, id string) error {
			if id != recID {
				return repo.ErrNotFound
			}
			return nil
		},
	}
	s := newPasswordService(r, n)

	require.NoError(t, s.Delete(context.Background(), ownerID, recID))
	require.Len(t, n.events, 1)
	assert.Equal(t, ChangeDeleted, n.events[0].Type)

	err := s.Delete(context.Background(), ownerID, "66666666-6666-6666-6666-666666666666")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Delete(context.Background(), ownerID, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, n.events, 1)
}

func TestPasswordService_Generate(t *testing.T) {
	s := newPasswordService(&passwordRepoMock{}, nil)

	got, err := s.Generate(generator.Policy{Length: 20, Lowercase: true, Digits: true})
	require.NoError(t, err)
	assert.Len(t, got.Password, 20)
	assert.Equal(t, 36, got.AlphabetSize)
	assert.Equal(t, generator.ClassifyStrength(got.Password), got.Strength)

	_, err = s.Generate(generator.Policy{Length: 3, Lowercase: true})
	assert.ErrorIs(t, err, generator.ErrInvalidPolicy)

	_, err = s.Generate(generator.Policy{Length: 12})
	assert.ErrorIs(t, err, generator.ErrInvalidPolicy)
}

func TestPasswordService_Classify(t *testing.T) {
	s := newPasswordService(&passwordRepoMock{}, nil)
	assert.Equal(t, generator.Strength{Score: 0, Label: generator.LabelNone}, s.Classify(""))
	assert.Equal(t, generator.LabelVeryStrong, s.Classify("Correct-Horse-Battery-9").Label)
}
