package repositories

import "registro/internal/models"

// SearchLimit caps the number of rows a substring search may return.
const SearchLimit = 20

// RecordUpdate carries the fields of a partial update. Nil fields are left
// untouched; the storage layer only ever maps these four fields to columns,
// so no request input can name a column.
type RecordUpdate struct {
	Name     *string
	Email    *string
	Phone    *string
	Password *string
}

// Empty reports whether the update names no fields at all.
func (u RecordUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil && u.Password == nil
}

// RecordRepository defines the write and point-read operations of the record
// store. Implementations return gorm.ErrRecordNotFound for missing or
// inactive rows and gorm.ErrDuplicatedKey for email collisions.
type RecordRepository interface {
	Create(record *models.Record) error
	GetActiveByID(id uint) (*models.Record, error)
	UpdateFields(id uint, update RecordUpdate) (*models.Record, error)
	SoftDelete(id uint) error
}

// RecordReader is the bulk read path behind list and search. It is a separate
// interface so the direct SQL reader can be swapped for the bulk adapter
// without touching the service.
type RecordReader interface {
	CountActive() (int64, error)
	ListActive(limit, offset int) ([]models.Record, error)
	SearchActive(term string) ([]models.Record, error)
}
