package repositories_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registro/internal/repositories"
)

func TestBulkRecordReader_MatchesDirectReader(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMRecordRepository(db)
	bulk := repositories.NewBulkRecordReader(db)

	for i := 0; i < 12; i++ {
		createRecord(t, repo, fmt.Sprintf("Person %02d", i), fmt.Sprintf("person%02d@mail.com", i))
	}
	deleted := createRecord(t, repo, "Gone Person", "gone@mail.com")
	require.NoError(t, repo.SoftDelete(deleted.ID))

	// Spread timestamps, with a tie in the middle.
	for i := 0; i < 12; i++ {
		setCreatedAt(t, db, uint(i+1), fmt.Sprintf("2025-01-01T10:00:%02dZ", i/2))
	}

	directTotal, err := repo.CountActive()
	require.NoError(t, err)
	bulkTotal, err := bulk.CountActive()
	require.NoError(t, err)
	assert.Equal(t, directTotal, bulkTotal)

	// Every page must be field-identical between the two read paths.
	for offset := 0; offset < 15; offset += 5 {
		direct, err := repo.ListActive(5, offset)
		require.NoError(t, err)
		fromBulk, err := bulk.ListActive(5, offset)
		require.NoError(t, err)
		assert.Equal(t, direct, fromBulk, "page at offset %d", offset)
	}

	directSearch, err := repo.SearchActive("person")
	require.NoError(t, err)
	bulkSearch, err := bulk.SearchActive("person")
	require.NoError(t, err)
	assert.Equal(t, directSearch, bulkSearch)
}

func TestBulkRecordReader_ListOffsetPastEnd(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMRecordRepository(db)
	bulk := repositories.NewBulkRecordReader(db)

	createRecord(t, repo, "Ana Lima", "ana@mail.com")

	records, err := bulk.ListActive(10, 50)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestBulkRecordReader_SearchCaseInsensitiveAndCapped(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMRecordRepository(db)
	bulk := repositories.NewBulkRecordReader(db)

	for i := 0; i < 25; i++ {
		createRecord(t, repo, fmt.Sprintf("Joana %02d", i), fmt.Sprintf("joana%02d@mail.com", i))
	}

	records, err := bulk.SearchActive("JOANA")
	require.NoError(t, err)
	assert.Len(t, records, repositories.SearchLimit)
}
