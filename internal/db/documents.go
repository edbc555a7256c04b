package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/ojt-matcher/internal/types"
)

// ListRequiredDocuments returns the document checklist in name order.
func (db *DB) ListRequiredDocuments(ctx context.Context) ([]types.RequiredDocument, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, description, is_required, template_file FROM required_documents ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list required documents: %w", err)
	}
	docs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[types.RequiredDocument])
	if err != nil {
		return nil, fmt.Errorf("failed to scan required documents: %w", err)
	}
	return docs, nil
}

// ListStudentDocuments returns a student's uploads.
func (db *DB) ListStudentDocuments(ctx context.Context, studentID uuid.UUID) ([]types.StudentDocument, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, student_id, document_type_id, file, uploaded_at, approved
		 FROM student_documents WHERE student_id = $1 ORDER BY uploaded_at`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list student documents: %w", err)
	}
	docs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[types.StudentDocument])
	if err != nil {
		return nil, fmt.Errorf("failed to scan student documents: %w", err)
	}
	return docs, nil
}

// SaveRequiredDocument inserts or updates a checklist entry.
func (db *DB) SaveRequiredDocument(ctx context.Context, d *types.RequiredDocument) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO required_documents (id, name, description, is_required, template_file)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,
			is_required = EXCLUDED.is_required, template_file = EXCLUDED.template_file`,
		d.ID, d.Name, d.Description, d.IsRequired, d.TemplateFile,
	)
	if err != nil {
		return fmt.Errorf("failed to save required document: %w", err)
	}
	return nil
}

// UploadStudentDocument records an upload, replacing an earlier file for the same document.
func (db *DB) UploadStudentDocument(ctx context.Context, d *types.StudentDocument) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO student_documents (id, student_id, document_type_id, file)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (student_id, document_type_id) DO UPDATE SET
			file = EXCLUDED.file, uploaded_at = NOW(), approved = FALSE
		 RETURNING id, uploaded_at`,
		d.ID, d.StudentID, d.DocumentTypeID, d.File,
	).Scan(&d.ID, &d.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to upload student document: %w", err)
	}
	return nil
}
