// Package documents provides the PostgreSQL-backed repository for document
// metadata rows. The rows mirror objects living in the storage bucket; the
// table is the durable source of truth for reconciliation.
package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dishubaceh/damprah/internal/common"
	"github.com/dishubaceh/damprah/internal/dbx"
	"github.com/dishubaceh/damprah/internal/server/models"
)

// PostgresRepository implements document metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, port_id, template_id, file_name, path, uploaded_at, uploaded_by, status`

// Insert creates a metadata row for an uploaded object and writes the
// generated id and timestamp back into the returned model.
func (r *PostgresRepository) Insert(ctx context.Context, doc *models.Document) (*models.Document, error) {
	query := `
		INSERT INTO documents (port_id, template_id, file_name, path, uploaded_by, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, uploaded_at
	`
	err := r.db.QueryRowContext(ctx, query,
		doc.PortID, doc.TemplateID, doc.FileName, doc.Path, doc.UploadedBy, doc.Status).
		Scan(&doc.ID, &doc.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc, nil
}

// SelectByPort returns all rows for a port, newest first. This is the input
// of a full reconciliation pass.
func (r *PostgresRepository) SelectByPort(ctx context.Context, portID string) ([]*models.Document, error) {
	query := `SELECT ` + selectColumns + ` FROM documents
		WHERE port_id = $1
		ORDER BY uploaded_at DESC, id DESC
	`
	return r.selectMany(ctx, query, portID)
}

// SelectByPortAndTemplate returns one template's file group, newest first.
func (r *PostgresRepository) SelectByPortAndTemplate(ctx context.Context, portID, templateID string) ([]*models.Document, error) {
	query := `SELECT ` + selectColumns + ` FROM documents
		WHERE port_id = $1 AND template_id = $2
		ORDER BY uploaded_at DESC, id DESC
	`
	return r.selectMany(ctx, query, portID, templateID)
}

// GetByID returns a single row or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := `SELECT ` + selectColumns + ` FROM documents
		WHERE id = $1
	`
	doc := &models.Document{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID, &doc.PortID, &doc.TemplateID, &doc.FileName, &doc.Path,
		&doc.UploadedAt, &doc.UploadedBy, &doc.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc, nil
}

// DeleteByPath removes rows by storage path and reports how many went away.
// Zero is not an error; the caller falls back to DeleteByID.
func (r *PostgresRepository) DeleteByPath(ctx context.Context, path string) (int64, error) {
	query := `DELETE FROM documents WHERE path = $1`
	res, err := r.db.ExecContext(ctx, query, path)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

// DeleteByID removes a row by primary key and reports the affected count.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) (int64, error) {
	query := `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) selectMany(ctx context.Context, query string, args ...any) ([]*models.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		var item models.Document
		if err := rows.Scan(&item.ID, &item.PortID, &item.TemplateID, &item.FileName,
			&item.Path, &item.UploadedAt, &item.UploadedBy, &item.Status); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
