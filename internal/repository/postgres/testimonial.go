package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/vouchwall/testimonial-service/pkg/errors"
	"github.com/vouchwall/testimonial-service/pkg/database"

	"github.com/vouchwall/testimonial-service/internal/domain"
	"github.com/vouchwall/testimonial-service/internal/repository"
)

const testimonialColumns = "id, owner_id, project_id, customer_id, type, status, document, created_at, updated_at"

// TestimonialRepository implements repository.TestimonialRepository using PostgreSQL.
type TestimonialRepository struct {
	db database.DBTX
}

// NewTestimonialRepository creates a new PostgreSQL-backed testimonial repository.
func NewTestimonialRepository(db database.DBTX) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

// Create inserts a new testimonial record into the database.
func (r *TestimonialRepository) Create(ctx context.Context, t *domain.Testimonial) error {
	documentJSON, err := json.Marshal(t.Document)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	query := `
		INSERT INTO testimonials (id, owner_id, project_id, customer_id, type, status, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.Exec(ctx, query,
		t.ID,
		t.OwnerID,
		t.ProjectID,
		t.CustomerID,
		t.Type,
		t.Status,
		documentJSON,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert testimonial: %w", err)
	}

	return nil
}

// GetByID retrieves a testimonial by id within a project.
func (r *TestimonialRepository) GetByID(ctx context.Context, projectID, id string) (*domain.Testimonial, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM testimonials
		WHERE project_id = $1 AND id = $2`, testimonialColumns)

	return r.scanTestimonial(ctx, query, projectID, id)
}

// GetByIDs retrieves the testimonials matching the given ids within a project.
// Ids with no matching row are silently absent from the result.
func (r *TestimonialRepository) GetByIDs(ctx context.Context, projectID string, ids []string) ([]domain.Testimonial, error) {
	if len(ids) == 0 {
		return []domain.Testimonial{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM testimonials
		WHERE project_id = $1 AND id = ANY($2)`, testimonialColumns)

	rows, err := r.db.Query(ctx, query, projectID, ids)
	if err != nil {
		return nil, fmt.Errorf("get testimonials by ids: %w", err)
	}
	defer rows.Close()

	return scanTestimonialRows(rows)
}

// List returns testimonials matching the filter with the total count,
// computed with count(*) OVER() in a single query.
func (r *TestimonialRepository) List(ctx context.Context, filter repository.TestimonialFilter) ([]domain.Testimonial, int, error) {
	var (
		conditions = []string{"project_id = $1"}
		args       = []any{filter.ProjectID}
		argIndex   = 2
	)

	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIndex))
		args = append(args, *filter.Type)
		argIndex++
	}

	if filter.Source != nil {
		conditions = append(conditions, fmt.Sprintf("document->>'source' = $%d", argIndex))
		args = append(args, *filter.Source)
		argIndex++
	}

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(document->>'author_name' ILIKE $%d OR document->>'message' ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	query := fmt.Sprintf(`
		SELECT %s,
			   count(*) OVER() AS total_count
		FROM testimonials
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		testimonialColumns,
		strings.Join(conditions, " AND "),
		orderClause(filter.SortBy, filter.SortOrder),
		argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	var (
		testimonials []domain.Testimonial
		totalCount   int
	)

	for rows.Next() {
		var (
			t            domain.Testimonial
			documentJSON []byte
		)

		if err := rows.Scan(
			&t.ID,
			&t.OwnerID,
			&t.ProjectID,
			&t.CustomerID,
			&t.Type,
			&t.Status,
			&documentJSON,
			&t.CreatedAt,
			&t.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan testimonial row: %w", err)
		}

		if documentJSON != nil {
			if err := json.Unmarshal(documentJSON, &t.Document); err != nil {
				return nil, 0, fmt.Errorf("unmarshal document: %w", err)
			}
		}

		testimonials = append(testimonials, t)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate testimonial rows: %w", err)
	}

	if testimonials == nil {
		testimonials = []domain.Testimonial{}
	}

	return testimonials, totalCount, nil
}

// orderClause maps a sort key and direction to a deterministic ORDER BY.
// Document-embedded sorts put missing values last regardless of direction,
// and every ordering carries a secondary sort on id so repeated pages are
// stable across identical calls.
func orderClause(sortBy, sortOrder string) string {
	dir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "ASC"
	}

	switch sortBy {
	case repository.SortByRating:
		return fmt.Sprintf("(document->>'rating')::int %s NULLS LAST, id ASC", dir)
	case repository.SortByAuthorName:
		return fmt.Sprintf("document->>'author_name' %s NULLS LAST, id ASC", dir)
	default:
		return fmt.Sprintf("created_at %s, id ASC", dir)
	}
}

// ListRecent returns the most recently created testimonials for a project.
func (r *TestimonialRepository) ListRecent(ctx context.Context, projectID string, limit int) ([]domain.Testimonial, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM testimonials
		WHERE project_id = $1
		ORDER BY created_at DESC, id ASC
		LIMIT $2`, testimonialColumns)

	rows, err := r.db.Query(ctx, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent testimonials: %w", err)
	}
	defer rows.Close()

	return scanTestimonialRows(rows)
}

// Update modifies an existing testimonial record. Document updates are
// last-write-wins; no concurrency token is held.
func (r *TestimonialRepository) Update(ctx context.Context, t *domain.Testimonial) error {
	documentJSON, err := json.Marshal(t.Document)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	t.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE testimonials
		SET customer_id = $1, type = $2, status = $3, document = $4, updated_at = $5
		WHERE project_id = $6 AND id = $7`

	ct, err := r.db.Exec(ctx, query,
		t.CustomerID,
		t.Type,
		t.Status,
		documentJSON,
		t.UpdatedAt,
		t.ProjectID,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("update testimonial: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("testimonial", t.ID)
	}

	return nil
}

// UpdateStatus changes only the lifecycle status of a testimonial.
func (r *TestimonialRepository) UpdateStatus(ctx context.Context, projectID, id, status string) error {
	query := `
		UPDATE testimonials
		SET status = $1, updated_at = $2
		WHERE project_id = $3 AND id = $4`

	ct, err := r.db.Exec(ctx, query, status, time.Now().UTC(), projectID, id)
	if err != nil {
		return fmt.Errorf("update testimonial status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("testimonial", id)
	}

	return nil
}

// Delete removes a testimonial row scoped by id and owner.
func (r *TestimonialRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM testimonials WHERE owner_id = $1 AND id = $2`

	ct, err := r.db.Exec(ctx, query, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("testimonial", id)
	}

	return nil
}

// CountByVideoRef counts the testimonials in a project referencing the given
// video asset, excluding one record (the one being deleted).
func (r *TestimonialRepository) CountByVideoRef(ctx context.Context, projectID, videoRef, excludeID string) (int, error) {
	query := `
		SELECT count(*)
		FROM testimonials
		WHERE project_id = $1 AND id <> $2 AND document->'media'->>'video' = $3`

	var count int
	if err := r.db.QueryRow(ctx, query, projectID, excludeID, videoRef).Scan(&count); err != nil {
		return 0, fmt.Errorf("count video references: %w", err)
	}

	return count, nil
}

// scanTestimonial executes a query expected to return a single testimonial row.
func (r *TestimonialRepository) scanTestimonial(ctx context.Context, query string, args ...any) (*domain.Testimonial, error) {
	var (
		t            domain.Testimonial
		documentJSON []byte
	)

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&t.ID,
		&t.OwnerID,
		&t.ProjectID,
		&t.CustomerID,
		&t.Type,
		&t.Status,
		&documentJSON,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan testimonial: %w", err)
	}

	if documentJSON != nil {
		if err := json.Unmarshal(documentJSON, &t.Document); err != nil {
			return nil, fmt.Errorf("unmarshal document: %w", err)
		}
	}

	return &t, nil
}

// scanTestimonialRows drains a multi-row result set of testimonial columns.
func scanTestimonialRows(rows pgx.Rows) ([]domain.Testimonial, error) {
	var testimonials []domain.Testimonial

	for rows.Next() {
		var (
			t            domain.Testimonial
			documentJSON []byte
		)

		if err := rows.Scan(
			&t.ID,
			&t.OwnerID,
			&t.ProjectID,
			&t.CustomerID,
			&t.Type,
			&t.Status,
			&documentJSON,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan testimonial row: %w", err)
		}

		if documentJSON != nil {
			if err := json.Unmarshal(documentJSON, &t.Document); err != nil {
				return nil, fmt.Errorf("unmarshal document: %w", err)
			}
		}

		testimonials = append(testimonials, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate testimonial rows: %w", err)
	}

	if testimonials == nil {
		testimonials = []domain.Testimonial{}
	}

	return testimonials, nil
}
