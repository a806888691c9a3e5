package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vouchwall/testimonial-service/internal/domain"
	"github.com/vouchwall/testimonial-service/internal/repository"
	"github.com/vouchwall/testimonial-service/pkg/database"
	apperrors "github.com/vouchwall/testimonial-service/pkg/errors"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func setupTestimonialRepo(t *testing.T) (*TestimonialRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewTestimonialRepository(mock)
	return repo, mock
}

func sampleRecord() *domain.Testimonial {
	author := "Ada Lovelace"
	rating := 5
	customerID := "c0a80001-0000-4000-8000-000000000002"
	now := time.Date(2025, 7, 10, 9, 30, 0, 0, time.UTC)
	return &domain.Testimonial{
		ID:         "c0a80001-0000-4000-8000-000000000001",
		OwnerID:    "c0a80001-0000-4000-8000-0000000000aa",
		ProjectID:  "c0a80001-0000-4000-8000-0000000000bb",
		CustomerID: &customerID,
		Type:       domain.TypeText,
		Status:     domain.StatusPublic,
		Document: domain.Document{
			AuthorName: &author,
			Rating:     &rating,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testimonialCols() []string {
	return []string{
		"id", "owner_id", "project_id", "customer_id", "type", "status",
		"document", "created_at", "updated_at",
	}
}

func testimonialRow(rec *domain.Testimonial) *pgxmock.Rows {
	documentJSON, _ := json.Marshal(rec.Document)
	return pgxmock.NewRows(testimonialCols()).
		AddRow(
			rec.ID, rec.OwnerID, rec.ProjectID, rec.CustomerID, rec.Type,
			rec.Status, documentJSON, rec.CreatedAt, rec.UpdatedAt,
		)
}

func testimonialListRow(rec *domain.Testimonial, totalCount int) *pgxmock.Rows {
	documentJSON, _ := json.Marshal(rec.Document)
	return pgxmock.NewRows(append(testimonialCols(), "total_count")).
		AddRow(
			rec.ID, rec.OwnerID, rec.ProjectID, rec.CustomerID, rec.Type,
			rec.Status, documentJSON, rec.CreatedAt, rec.UpdatedAt,
			totalCount,
		)
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestTestimonialRepository_Create_Success(t *testing.T) {
	repo, mock := setupTestimonialRepo(t)
	defer mock.Close()

	rec := sampleRecord()
	documentJSON, _ := json.Marshal(rec.Document)

	mock.ExpectExec("INSERT INTO testimonials").
		WithArgs(
			rec.ID, rec.OwnerID, rec.ProjectID, rec.CustomerID, rec.Type,
			rec.Status, documentJSON, rec.CreatedAt, rec.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), rec)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestimonialRepository_Create_ExecError(t *testing.T) {
	repo, mock := setupTestimonialRepo(t)
	defer mock.Close()

	rec := sampleRecord()
	documentJSON, _ := json.Marshal(rec.Document)

	mock.ExpectExec("INSERT INTO testimonials").
		WithArgs(
			rec.ID, rec.OwnerID, rec.ProjectID, rec.CustomerID, rec.Type,
			rec.Status, documentJSON, rec.CreatedAt, rec.UpdatedAt,
		).
		WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), rec)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert testimonial")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByID
// ---------------------------------------------------------------------------

func TestTestimonialRepository_GetByID_Success(t *testing.T) {
	repo, mock := setupTestimonialRepo(t)
	defer mock.Close()

	rec := sampleRecord()

	mock.ExpectQuery("SELECT .+ FROM testimonials WHERE project_id").
		WithArgs(rec.ProjectID, rec.ID).
		WillReturnRows(testimonialRow(rec))

	result, err := repo.GetByID(context.Background(), rec.ProjectID, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, rec.ID, result.ID)
	assert.Equal(t, rec.OwnerID, result.OwnerID)
	assert.Equal(t, rec.ProjectID, result.ProjectID)
	require.NotNil(t, result.CustomerID)
	assert.Equal(t, *rec.CustomerID, *result.CustomerID)
	assert.Equal(t, rec.Type, result.Type)
	assert.Equal(t, rec.Status, result.Status)

	// Document survives the JSONB round trip.
	require.NotNil(t, result.Document.AuthorName)
	assert.Equal(t, "Ada Lovelace", *result.Document.AuthorName)
	require.NotNil(t, result.Document.Rating)
	assert.Equal(t, 5, *result.Document.Rating)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestimonialRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupTestimonialRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM testimonials WHERE project_id").
		WithArgs("proj-1", "missing-id").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "proj-1", "missing-id")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByIDs
// ---------------------------------------------------------------------------

func TestTestimonialRepository_GetByIDs_Success(t *testing.T) {
	repo, mock := setupTestimonialRepo(t)
	defer mock.Close()

	rec := sampleRecord()
	ids := []string{rec.ID, "missing-id"}

	mock.ExpectQuery("SELECT .+ FROM testimonials WHERE project_id = .+ AND id = ANY").
		WithArgs(rec.ProjectID, ids).
		WillReturnRows(testimonialRow(rec))

	result, err := repo.GetByIDs(context.Background(), rec.ProjectID, ids)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, rec.ID, result[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestimonialRepository_GetByIDs_EmptyInput(t *testing.T) {
	repo, mock := setupTestimonialRepo(t)
	defer mock.Close()

	result, err := repo.GetByIDs(context.Background(), "proj-1", nil)
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestTestimonialRepository_List_Defaults(t *testing.T) {
	repo, mock := setupTestimonialRepo(t)
	defer mock.Close()

	rec := sampleRecord()

	mock.ExpectQuery("SELECT .+ count\\(\\*\\) OVER\\(\\) AS total_count FROM testimonials").
		WithArgs(rec.ProjectID, 20, 0).
		WillReturnRows(testimonialListRow(rec, 42))

	result, total, err := repo.List(context.Background(), repository.TestimonialFilter{
		ProjectID: rec.ProjectID,
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, rec.ID, result[0].ID)
	assert.Equal(t, 42, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestimonialRepository_List_WithFilters(t *testing.T) {
	repo, mock := setupTestimonialRepo(t)
	defer mock.Close()

	rec := sampleRecord()
	recType := domain.TypeVideo
	source := "twitter"
	search := "great"

	mock.ExpectQuery("SELECT .+ FROM testimonials").
		WithArgs(rec.ProjectID, recType, source, "%great%", 10, 10).
		WillReturnRows(testimonialListRow(rec, 21))

	result, total, err := repo.List(context.Background(), repository.TestimonialFilter{
		ProjectID: rec.ProjectID,
		Type:      &recType,
		Source:    &source,
		Search:    &search,
		SortBy:    repository.SortByRating,
		SortOrder: "asc",
		Page:      2,
		PerPage:   10,
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 21, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestimonialRepository_List_EmptyPage(t *testing.T) {
	repo, mock := setupTestimonialRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM testimonials").
		WithArgs("proj-1", 20, 0).
		WillReturnRows(pgxmock.NewRows(append(testimonialCols(), "total_count")))

	result, total, err := repo.List(context.Background(), repository.TestimonialFilter{
		ProjectID: "proj-1",
	})
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		want      string
	}{
		{"default descending", "", "", "created_at DESC, id ASC"},
		{"created ascending", repository.SortByCreatedAt, "asc", "created_at ASC, id ASC"},
		{"rating descending", repository.SortByRating, "desc", "(document->>'rating')::int DESC NULLS LAST, id ASC"},
		{"rating ascending", repository.SortByRating, "ASC", "(document->>'rating')::int ASC NULLS LAST, id ASC"},
		{"author name", repository.SortByAuthorName, "asc", "document->>'author_name' ASC NULLS LAST, id ASC"},
		{"unknown key falls back", "owner_id; DROP TABLE", "desc", "created_at DESC, id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderClause(tt.sortBy, tt.sortOrder))
		})
	}
}

// ---------------------------------------------------------------------------
// ListRecent
// ---------------------------------------------------------------------------

func TestTestimonialRepository_ListRecent(t *testing.T) {
	repo, mock := setupTestimonialRepo(t)
	defer mock.Close()

	rec := sampleRecord()

	mock.ExpectQuery("SELECT .+ FROM testimonials WHERE project_id .+ ORDER BY created_at DESC").
		WithArgs(rec.ProjectID, 5).
		WillReturnRows(testimonialRow(rec))

	result, err := repo.ListRecent(context.Background(), rec.ProjectID, 5)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, rec.ID, result[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestTestimonialRepository_Update_Success(t *testing.T) {
	repo, mock := setupTestimonialRepo(t)
	defer mock.Close()

	rec := sampleRecord()
	documentJSON, _ := json.Marshal(rec.Document)

	mock.ExpectExec("UPDATE testimonials SET").
		WithArgs(
			rec.CustomerID, rec.Type, rec.Status, documentJSON,
			pgxmock.AnyArg(), rec.ProjectID, rec.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	before := rec.UpdatedAt
	err := repo.Update(context.Background(), rec)
	assert.NoError(t, err)
	assert.True(t, rec.UpdatedAt.After(before))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestimonialRepository_Update_NotFound(t *testing.T) {
	repo, mock := setupTestimonialRepo(t)
	defer mock.Close()

	rec := sampleRecord()
	documentJSON, _ := json.Marshal(rec.Document)

	mock.ExpectExec("UPDATE testimonials SET").
		WithArgs(
			rec.CustomerID, rec.Type, rec.Status, documentJSON,
			pgxmock.AnyArg(), rec.ProjectID, rec.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), rec)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// UpdateStatus
// ---------------------------------------------------------------------------

func TestTestimonialRepository_UpdateStatus_Success(t *testing.T) {
	repo, mock := setupTestimonialRepo(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE testimonials SET status").
		WithArgs(domain.StatusHidden, pgxmock.AnyArg(), "proj-1", "rec-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateStatus(context.Background(), "proj-1", "rec-1", domain.StatusHidden)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestimonialRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := setupTestimonialRepo(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE testimonials SET status").
		WithArgs(domain.StatusPublic, pgxmock.AnyArg(), "proj-1", "missing-id").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), "proj-1", "missing-id", domain.StatusPublic)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestTestimonialRepository_Delete_Success(t *testing.T) {
	repo, mock := setupTestimonialRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM testimonials WHERE owner_id").
		WithArgs("owner-1", "rec-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "owner-1", "rec-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestimonialRepository_Delete_WrongOwner(t *testing.T) {
	repo, mock := setupTestimonialRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM testimonials WHERE owner_id").
		WithArgs("other-owner", "rec-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "other-owner", "rec-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// CountByVideoRef
// ---------------------------------------------------------------------------

func TestTestimonialRepository_CountByVideoRef(t *testing.T) {
	repo, mock := setupTestimonialRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM testimonials").
		WithArgs("proj-1", "rec-1", "abc123videoUID").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountByVideoRef(context.Background(), "proj-1", "abc123videoUID", "rec-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestimonialRepository_CountByVideoRef_QueryError(t *testing.T) {
	repo, mock := setupTestimonialRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM testimonials").
		WithArgs("proj-1", "rec-1", "abc123videoUID").
		WillReturnError(errors.New("connection reset"))

	count, err := repo.CountByVideoRef(context.Background(), "proj-1", "abc123videoUID", "rec-1")
	assert.Error(t, err)
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
