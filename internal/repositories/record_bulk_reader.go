package repositories

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"registro/internal/models"
)

// BulkRecordReader is the alternate read path behind list and search. It
// pulls the whole active set out of the table and counts, filters, sorts and
// paginates in memory, the way a dataframe engine would after loading the
// table. Its output is field-identical to GORMRecordRepository's, including
// ordering and the limit+offset pagination math.
type BulkRecordReader struct {
	db *gorm.DB
}

// NewBulkRecordReader creates a new instance of BulkRecordReader.
func NewBulkRecordReader(db *gorm.DB) *BulkRecordReader {
	return &BulkRecordReader{
		db: db,
	}
}

// loadActive fetches every active record in insertion order.
func (r *BulkRecordReader) loadActive() ([]models.Record, error) {
	var records []models.Record
	if err := r.db.Where("active = ?", true).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	return records, nil
}

// CountActive returns the number of active records.
func (r *BulkRecordReader) CountActive() (int64, error) {
	records, err := r.loadActive()
	if err != nil {
		return 0, err
	}
	return int64(len(records)), nil
}

// ListActive returns a page of active records, newest first, with ties on
// the second-granularity timestamp kept in insertion order.
func (r *BulkRecordReader) ListActive(limit, offset int) ([]models.Record, error) {
	records, err := r.loadActive()
	if err != nil {
		return nil, err
	}

	// Stable sort on a set already in insertion order: equal timestamps
	// keep ascending ids, matching the direct reader's ordering.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt > records[j].CreatedAt
	})

	if offset >= len(records) {
		return []models.Record{}, nil
	}
	end := offset + limit
	if end > len(records) {
		end = len(records)
	}
	return records[offset:end], nil
}

// SearchActive returns active records whose name or email contains term,
// compared case-insensitively to match the direct reader's LIKE semantics,
// ordered by name and capped at SearchLimit rows.
func (r *BulkRecordReader) SearchActive(term string) ([]models.Record, error) {
	records, err := r.loadActive()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	matches := make([]models.Record, 0, SearchLimit)
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.Name), needle) ||
			strings.Contains(strings.ToLower(record.Email), needle) {
			matches = append(matches, record)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Name < matches[j].Name
	})

	if len(matches) > SearchLimit {
		matches = matches[:SearchLimit]
	}
	return matches, nil
}
