package repositories

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"registro/internal/models"
)

// GORMRecordRepository is the direct GORM implementation of both
// RecordRepository and RecordReader.
type GORMRecordRepository struct {
	db *gorm.DB
}

// NewGORMRecordRepository creates a new instance of GORMRecordRepository.
func NewGORMRecordRepository(db *gorm.DB) *GORMRecordRepository {
	return &GORMRecordRepository{
		db: db,
	}
}

// Create inserts a new record. The id is assigned by the database and is
// monotonically increasing; the creation timestamp and active flag are set
// here and never change afterwards. A duplicate email, active or not,
// surfaces as gorm.ErrDuplicatedKey.
func (r *GORMRecordRepository) Create(record *models.Record) error {
	record.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	record.Active = true
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

// GetActiveByID retrieves a record by id, treating inactive rows as absent.
func (r *GORMRecordRepository) GetActiveByID(id uint) (*models.Record, error) {
	var record models.Record
	if err := r.db.First(&record, "id = ? AND active = ?", id, true).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateFields applies the non-nil fields of update to an active record in a
// single UPDATE statement, so concurrent readers never observe a
// half-applied change. The column set comes only from the RecordUpdate
// fields themselves. Returns the full record as stored after the update.
func (r *GORMRecordRepository) UpdateFields(id uint, update RecordUpdate) (*models.Record, error) {
	if _, err := r.GetActiveByID(id); err != nil {
		return nil, err
	}

	columns := map[string]interface{}{}
	if update.Name != nil {
		columns["name"] = *update.Name
	}
	if update.Email != nil {
		columns["email"] = *update.Email
	}
	if update.Phone != nil {
		columns["phone"] = *update.Phone
	}
	if update.Password != nil {
		columns["credential"] = *update.Password
	}

	if err := r.db.Model(&models.Record{}).Where("id = ?", id).Updates(columns).Error; err != nil {
		return nil, fmt.Errorf("failed to update record %d: %w", id, err)
	}

	return r.GetActiveByID(id)
}

// SoftDelete flips the active flag of an active record to false. Once a
// record is inactive it is invisible here too, so a repeated delete reports
// gorm.ErrRecordNotFound.
func (r *GORMRecordRepository) SoftDelete(id uint) error {
	res := r.db.Model(&models.Record{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to delete record %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountActive returns the number of active records.
func (r *GORMRecordRepository) CountActive() (int64, error) {
	var total int64
	if err := r.db.Model(&models.Record{}).Where("active = ?", true).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return total, nil
}

// ListActive returns a page of active records, newest first. Records created
// within the same second keep their insertion order.
func (r *GORMRecordRepository) ListActive(limit, offset int) ([]models.Record, error) {
	var records []models.Record
	err := r.db.Where("active = ?", true).
		Order("created_at DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// SearchActive returns active records whose name or email contains term,
// ordered by name, capped at SearchLimit rows.
func (r *GORMRecordRepository) SearchActive(term string) ([]models.Record, error) {
	var records []models.Record
	pattern := "%" + term + "%"
	err := r.db.Where("active = ? AND (name LIKE ? OR email LIKE ?)", true, pattern, pattern).
		Order("name ASC").
		Limit(SearchLimit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search records: %w", err)
	}
	return records, nil
}
