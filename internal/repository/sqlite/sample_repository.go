package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"research-samples/internal/domain"
	"research-samples/internal/repository"
)

const createSamplesTable = `
CREATE TABLE IF NOT EXISTS samples (
	sample_id TEXT PRIMARY KEY,
	sample_type TEXT NOT NULL,
	subject_id TEXT NOT NULL,
	collection_date DATETIME NOT NULL,
	status TEXT NOT NULL,
	storage_location TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_samples_type_status ON samples(sample_type, status);
`

const selectSampleColumns = `SELECT sample_id, sample_type, subject_id, collection_date, status, storage_location FROM samples`

type SampleRepository struct {
	db *sql.DB
}

func NewSampleRepository(db *sql.DB) repository.SampleRepository {
	return &SampleRepository{db: db}
}

func (r *SampleRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSamplesTable); err != nil {
		return fmt.Errorf("create samples table: %w", err)
	}
	return nil
}

func (r *SampleRepository) List(ctx context.Context, filter domain.SampleFilter) ([]domain.Sample, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.SampleType != "" {
		clauses = append(clauses, "sample_type = ?")
		args = append(args, string(filter.SampleType))
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}

	query := selectSampleColumns
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY collection_date ASC, sample_id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	samples := []domain.Sample{}
	for rows.Next() {
		sample, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, *sample)
	}

	return samples, rows.Err()
}

func (r *SampleRepository) Get(ctx context.Context, sampleID string) (*domain.Sample, error) {
	row := r.db.QueryRowContext(ctx, selectSampleColumns+` WHERE sample_id = ?`, sampleID)
	return scanSample(row)
}

func (r *SampleRepository) Create(ctx context.Context, sample *domain.Sample) error {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO samples (sample_id, sample_type, subject_id, collection_date, status, storage_location)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(sample_id) DO NOTHING`,
		sample.SampleID,
		string(sample.SampleType),
		sample.SubjectID,
		sample.CollectionDate.UTC(),
		string(sample.Status),
		sample.StorageLocation,
	)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sample insert rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("sample %q: %w", sample.SampleID, repository.ErrConflict)
	}
	return nil
}

func (r *SampleRepository) Update(ctx context.Context, sampleID string, update domain.SampleUpdate) (*domain.Sample, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	current, err := scanSample(tx.QueryRowContext(ctx, selectSampleColumns+` WHERE sample_id = ?`, sampleID))
	if err != nil {
		return nil, err
	}

	next := update.Apply(*current)
	if _, err := tx.ExecContext(ctx, `
UPDATE samples
SET sample_type=?, subject_id=?, collection_date=?, status=?, storage_location=?
WHERE sample_id=?`,
		string(next.SampleType),
		next.SubjectID,
		next.CollectionDate.UTC(),
		string(next.Status),
		next.StorageLocation,
		sampleID,
	); err != nil {
		return nil, fmt.Errorf("update sample: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit sample update: %w", err)
	}
	return &next, nil
}

func (r *SampleRepository) Delete(ctx context.Context, sampleID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM samples WHERE sample_id=?`, sampleID)
	if err != nil {
		return fmt.Errorf("delete sample: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sample delete rows affected: %w", err)
	}
	if aff == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanSample(row rowScanner) (*domain.Sample, error) {
	var (
		sample     domain.Sample
		sampleType string
		status     string
	)
	if err := row.Scan(
		&sample.SampleID,
		&sampleType,
		&sample.SubjectID,
		&sample.CollectionDate,
		&status,
		&sample.StorageLocation,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan sample: %w", err)
	}
	sample.SampleType = domain.SampleType(sampleType)
	sample.Status = domain.SampleStatus(status)
	sample.CollectionDate = sample.CollectionDate.UTC()
	return &sample, nil
}
