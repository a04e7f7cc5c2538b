package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/passvault/internal/domain/entity"
	repo "github.com/oksasatya/passvault/internal/domain/repository"
	"github.com/oksasatya/passvault/internal/domain/vault"
	"github.com/oksasatya/passvault/pkg/generator"
)

// PasswordService manages a user's vault records.
type PasswordService struct {
	Repo     repo.PasswordRepository
	Notifier Notifier
	Logger   *logrus.Logger
	Now      func() time.Time
}

func NewPasswordService(r repo.PasswordRepository, n Notifier, logger *logrus.Logger) *PasswordService {
	return &PasswordService{Repo: r, Notifier: n, Logger: logger, Now: time.Now}
}

func (s *PasswordService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ListResult is the filtered list plus views computed over the full snapshot.
type ListResult struct {
	Items        []entity.PasswordRecord
	Stats        vault.Stats
	Categories   []string
	AccountTypes []string
}

// List fetches a fresh snapshot and applies c as of the service clock.
func (s *PasswordService) List(ctx context.Context, userID string, c vault.Criteria) (ListResult, error) {
	records, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return ListResult{}, err
	}
	now := s.now()
	return ListResult{
		Items:        vault.Filter(records, c, now),
		Stats:        vault.Summarize(records, now),
		Categories:   vault.CategoryNames(records),
		AccountTypes: vault.AccountTypeNames(records),
	}, nil
}

func (s *PasswordService) Get(ctx context.Context, userID, id string) (*entity.PasswordRecord, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	rec, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return rec, nil
}

// PasswordInput is a full record as submitted by the owner.
type PasswordInput struct {
	Title         string
	Email         string
	Secret        string
	Description   string
	CategoryID    string
	AccountTypeID string
	SubcategoryID string
}

func (in PasswordInput) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	case strings.TrimSpace(in.Email) == "":
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	case strings.TrimSpace(in.Secret) == "":
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	case !isUUID(in.CategoryID):
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	case !isUUID(in.AccountTypeID):
		return fmt.Errorf("%w: account type is required", ErrInvalidInput)
	case in.SubcategoryID != "" && !isUUID(in.SubcategoryID):
		return fmt.Errorf("%w: unknown subcategory", ErrInvalidInput)
	}
	return nil
}

func (s *PasswordService) Create(ctx context.Context, userID string, in PasswordInput) (*entity.PasswordRecord, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	rec := &entity.PasswordRecord{
		UserID:        userID,
		Title:         strings.TrimSpace(in.Title),
		Email:         strings.TrimSpace(in.Email),
		Secret:        in.Secret,
		Description:   strings.TrimSpace(in.Description),
		CategoryID:    in.CategoryID,
		AccountTypeID: in.AccountTypeID,
		SubcategoryID: in.SubcategoryID,
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return nil, referenceErr(err)
	}
	metricRecordsCreated.Add(1)
	s.publish(ctx, userID, ChangeCreated, rec.ID)

	// reload for the joined names
	full, err := s.Repo.GetByID(ctx, userID, rec.ID)
	if err != nil {
		return rec, nil
	}
	return full, nil
}

// PasswordUpdate carries an edit form. Nil fields were not submitted.
type PasswordUpdate struct {
	Title         *string
	Email         *string
	Secret        *string
	Description   *string
	CategoryID    *string
	AccountTypeID *string
	SubcategoryID *string
}

// Update writes only the fields that differ from the stored record. An edit
// that changes nothing returns the stored record untouched. A changed secret
// keeps the previous one in history.
func (s *PasswordService) Update(ctx context.Context, userID, id string, in PasswordUpdate) (*entity.PasswordRecord, error) {
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	patch, err := diff(current, in)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	if patch.Secret != nil {
		h := entity.PasswordHistory{PasswordID: current.ID, UserID: userID, OldPassword: current.Secret}
		err = s.Repo.UpdateWithHistory(ctx, userID, id, patch, h)
	} else {
		err = s.Repo.Update(ctx, userID, id, patch)
	}
	if err != nil {
		return nil, referenceErr(notFound(err, ErrNotFound))
	}
	metricRecordsUpdated.Add(1)
	s.publish(ctx, userID, ChangeUpdated, id)
	return s.Get(ctx, userID, id)
}

func diff(cur *entity.PasswordRecord, in PasswordUpdate) (repo.PasswordPatch, error) {
	var p repo.PasswordPatch

	required := func(field string, v *string, old string, dst **string) error {
		if v == nil {
			return nil
		}
		val := strings.TrimSpace(*v)
		if val == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
		}
		if val != old {
			*dst = &val
		}
		return nil
	}
	if err := required("title", in.Title, cur.Title, &p.Title); err != nil {
		return p, err
	}
	if err := required("email", in.Email, cur.Email, &p.Email); err != nil {
		return p, err
	}
	if in.Secret != nil {
		if strings.TrimSpace(*in.Secret) == "" {
			return p, fmt.Errorf("%w: password is required", ErrInvalidInput)
		}
		if *in.Secret != cur.Secret {
			v := *in.Secret
			p.Secret = &v
		}
	}
	if in.Description != nil {
		if d := strings.TrimSpace(*in.Description); d != cur.Description {
			p.Description = &d
		}
	}
	ref := func(field string, v *string, old string, optional bool, dst **string) error {
		if v == nil || *v == old {
			return nil
		}
		if !(optional && *v == "") && !isUUID(*v) {
			return fmt.Errorf("%w: unknown %s", ErrInvalidInput, field)
		}
		val := *v
		*dst = &val
		return nil
	}
	if err := ref("category", in.CategoryID, cur.CategoryID, false, &p.CategoryID); err != nil {
		return p, err
	}
	if err := ref("account type", in.AccountTypeID, cur.AccountTypeID, false, &p.AccountTypeID); err != nil {
		return p, err
	}
	if err := ref("subcategory", in.SubcategoryID, cur.SubcategoryID, true, &p.SubcategoryID); err != nil {
		return p, err
	}
	return p, nil
}

func (s *PasswordService) Delete(ctx context.Context, userID, id string) error {
	if !isUUID(id) {
		return ErrNotFound
	}
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return notFound(err, ErrNotFound)
	}
	metricRecordsDeleted.Add(1)
	s.publish(ctx, userID, ChangeDeleted, id)
	return nil
}

// GeneratedPassword is a fresh password with its classification.
type GeneratedPassword struct {
	Password     string             `json:"password"`
	Strength     generator.Strength `json:"strength"`
	AlphabetSize int                `json:"alphabet_size"`
}

func (s *PasswordService) Generate(p generator.Policy) (GeneratedPassword, error) {
	if err := p.Validate(); err != nil {
		return GeneratedPassword{}, err
	}
	pw, err := generator.Generate(p)
	if err != nil {
		return GeneratedPassword{}, err
	}
	metricGenerated.Add(1)
	return GeneratedPassword{
		Password:     pw,
		Strength:     generator.ClassifyStrength(pw),
		AlphabetSize: len(generator.Alphabet(p)),
	}, nil
}

func (s *PasswordService) Classify(secret string) generator.Strength {
	return generator.ClassifyStrength(secret)
}

func (s *PasswordService) publish(ctx context.Context, userID, typ, id string) {
	if s.Notifier == nil {
		return
	}
	ev := ChangeEvent{Type: typ, ID: id, At: s.now().UTC()}
	if err := s.Notifier.Publish(ctx, userID, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": userID, "type": typ}).Warn("change publish failed")
	}
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func referenceErr(err error) error {
	if errors.Is(err, repo.ErrInvalidReference) {
		return fmt.Errorf("%w: referenced catalog entry does not exist", ErrInvalidInput)
	}
	return err
}
