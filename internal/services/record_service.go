package services

import (
	"errors"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"registro/internal/models"
	"registro/internal/repositories"
)

// emailPattern is the full-match rule applied after trimming and
// lowercasing: local@domain.tld with a 2+ letter TLD.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

const (
	defaultPerPage = 10
	maxPerPage     = 100
	minSearchTerm  = 2
)

// EventPublisher publishes record lifecycle events. A nil publisher disables
// events; a publish failure is logged and never fails the operation.
type EventPublisher interface {
	PublishRecordEvent(event string, payload map[string]interface{}) error
}

// CreateRecordInput is the payload for Create. Phone is optional.
type CreateRecordInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// UpdateRecordInput carries a partial update; nil fields were absent from
// the request and stay untouched.
type UpdateRecordInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Password *string
}

// ListResult is one page of active records plus the pagination math.
type ListResult struct {
	Records []models.Record
	Total   int64
	Page    int
	PerPage int
	Pages   int
}

// RecordService orchestrates validation, credential hashing and the record
// store. Writes and point reads go through the repository; list and search
// go through the reader, which may be the direct SQL path or the bulk
// adapter.
type RecordService struct {
	repo     repositories.RecordRepository
	reader   repositories.RecordReader
	events   EventPublisher
	validate *validator.Validate
}

// NewRecordService creates a new RecordService. events may be nil.
func NewRecordService(repo repositories.RecordRepository, reader repositories.RecordReader, events EventPublisher) *RecordService {
	v := validator.New()
	_ = v.RegisterValidation("record_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return &RecordService{
		repo:     repo,
		reader:   reader,
		events:   events,
		validate: v,
	}
}

// Create validates and normalizes the input, hashes the password and inserts
// the record. Validation checks name, email and password in that order and
// stops at the first failure. The stored email is trimmed and lowercased;
// comparisons against existing rows happen on that normalized form.
func (s *RecordService) Create(input CreateRecordInput) (*models.Record, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if err := s.validate.Var(name, "min=2"); err != nil {
		return nil, ErrNameTooShort
	}
	if err := s.validate.Var(email, "record_email"); err != nil {
		return nil, ErrInvalidEmail
	}
	if err := s.validate.Var(input.Password, "min=6"); err != nil {
		return nil, ErrPasswordTooShort
	}

	record := &models.Record{
		Name:     name,
		Email:    email,
		Password: HashPassword(input.Password),
		Phone:    strings.TrimSpace(input.Phone),
	}
	if err := s.repo.Create(record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.publishEvent("record.created", record.ID, record.Email)
	return record, nil
}

// Get retrieves an active record by id.
func (s *RecordService) Get(id uint) (*models.Record, error) {
	record, err := s.repo.GetActiveByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return record, nil
}

// List returns one page of active records, newest first. Page defaults to 1,
// per-page defaults to 10 and is clamped to 100.
func (s *RecordService) List(page, perPage int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	offset := (page - 1) * perPage

	total, err := s.reader.CountActive()
	if err != nil {
		return nil, err
	}
	records, err := s.reader.ListActive(perPage, offset)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Records: records,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   int((total + int64(perPage) - 1) / int64(perPage)),
	}, nil
}

// Update applies a partial update to an active record. Each supplied field
// is validated and normalized exactly as in Create; if any supplied field is
// invalid nothing is applied. Returns the full record as stored afterwards.
func (s *RecordService) Update(id uint, input UpdateRecordInput) (*models.Record, error) {
	if input.Name == nil && input.Email == nil && input.Phone == nil && input.Password == nil {
		return nil, ErrNoUpdateFields
	}

	var update repositories.RecordUpdate
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := s.validate.Var(name, "min=2"); err != nil {
			return nil, ErrNameTooShort
		}
		update.Name = &name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if err := s.validate.Var(email, "record_email"); err != nil {
			return nil, ErrInvalidEmail
		}
		update.Email = &email
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		update.Phone = &phone
	}
	if input.Password != nil {
		if err := s.validate.Var(*input.Password, "min=6"); err != nil {
			return nil, ErrPasswordTooShort
		}
		digest := HashPassword(*input.Password)
		update.Password = &digest
	}

	record, err := s.repo.UpdateFields(id, update)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return record, nil
}

// Delete soft-deletes an active record. A second delete of the same id
// reports not-found, since the record is no longer visible as active.
func (s *RecordService) Delete(id uint) error {
	if err := s.repo.SoftDelete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	s.publishEvent("record.deleted", id, "")
	return nil
}

// Search returns active records whose name or email contains the trimmed
// term, capped at the store's search limit.
func (s *RecordService) Search(term string) ([]models.Record, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrSearchTermEmpty
	}
	if utf8.RuneCountInString(term) < minSearchTerm {
		return nil, ErrSearchTermShort
	}
	return s.reader.SearchActive(term)
}

// publishEvent emits a lifecycle event when a publisher is configured.
// Event delivery is best-effort: a failure is logged, not returned.
func (s *RecordService) publishEvent(event string, id uint, email string) {
	if s.events == nil {
		return
	}
	payload := map[string]interface{}{
		"event_id":  uuid.New().String(),
		"record_id": id,
		"occurred":  time.Now().UTC().Format(time.RFC3339),
	}
	if email != "" {
		payload["email"] = email
	}
	if err := s.events.PublishRecordEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event for record %d: %v", event, id, err)
	}
}
