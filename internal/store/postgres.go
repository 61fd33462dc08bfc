package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/pharma-intel/internal/model"
)

// pgPool is the subset of pgxpool.Pool the store uses. Interface-typed so
// tests can inject pgxmock.
type pgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool pgPool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS reports (
	id           TEXT PRIMARY KEY,
	query        TEXT NOT NULL,
	report_type  TEXT NOT NULL,
	summary      TEXT NOT NULL DEFAULT '',
	body         BYTEA NOT NULL,
	metadata     JSONB NOT NULL,
	downloads    INTEGER NOT NULL DEFAULT 0,
	generated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
	doc_id      TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	content     TEXT NOT NULL,
	excerpt     TEXT NOT NULL,
	uploaded_by TEXT NOT NULL,
	uploaded_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_query ON reports(query);
CREATE INDEX IF NOT EXISTS idx_reports_generated_at ON reports(generated_at);
CREATE INDEX IF NOT EXISTS idx_documents_title ON documents(title);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveReport(ctx context.Context, artifact *model.ReportArtifact) error {
	metaJSON, err := json.Marshal(artifact.Metadata)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal metadata")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO reports (id, query, report_type, summary, body, metadata, generated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		artifact.ID, artifact.Query, string(artifact.Format), artifact.Summary,
		artifact.Body, metaJSON, artifact.Metadata.GeneratedAt.UTC(),
	)
	return eris.Wrapf(err, "postgres: insert report %s", artifact.ID)
}

func (s *PostgresStore) GetReport(ctx context.Context, reportID string) (*model.ReportArtifact, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, query, report_type, summary, body, metadata FROM reports WHERE id = $1`,
		reportID,
	)

	var a model.ReportArtifact
	var format string
	var metaJSON []byte
	err := row.Scan(&a.ID, &a.Query, &format, &a.Summary, &a.Body, &metaJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "report %s", reportID)
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan report")
	}

	a.Format = model.Format(format)
	if err := json.Unmarshal(metaJSON, &a.Metadata); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal metadata")
	}
	return &a, nil
}

func (s *PostgresStore) ListReports(ctx context.Context, filter ReportFilter) ([]model.ReportSummary, error) {
	query := `SELECT id, query, report_type, metadata, downloads, generated_at FROM reports WHERE 1=1`
	var args []any

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += ` AND query ILIKE $` + strconv.Itoa(len(args))
	}
	if filter.Format != "" {
		args = append(args, string(filter.Format))
		query += ` AND report_type = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY generated_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list reports")
	}
	defer rows.Close()

	var summaries []model.ReportSummary
	for rows.Next() {
		var sum model.ReportSummary
		var format string
		var metaJSON []byte
		if err := rows.Scan(&sum.ID, &sum.Query, &format, &metaJSON, &sum.Downloads, &sum.GeneratedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan report summary")
		}
		sum.Format = model.Format(format)
		if err := json.Unmarshal(metaJSON, &sum.Metadata); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal metadata")
		}
		summaries = append(summaries, sum)
	}
	return summaries, eris.Wrap(rows.Err(), "postgres: list reports iterate")
}

func (s *PostgresStore) IncrementDownloads(ctx context.Context, reportID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE reports SET downloads = downloads + 1 WHERE id = $1`,
		reportID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: increment downloads %s", reportID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "report %s", reportID)
	}
	return nil
}

func (s *PostgresStore) UploadDocument(ctx context.Context, doc model.InternalDoc, content string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO documents (doc_id, title, content, excerpt, uploaded_by, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (doc_id) DO UPDATE SET
		   title = EXCLUDED.title, content = EXCLUDED.content,
		   excerpt = EXCLUDED.excerpt, uploaded_by = EXCLUDED.uploaded_by,
		   uploaded_at = EXCLUDED.uploaded_at`,
		doc.DocID, doc.Title, content, doc.TextExcerpt, doc.UploadedBy, doc.UploadedAt,
	)
	return eris.Wrapf(err, "postgres: upload document %s", doc.DocID)
}

func (s *PostgresStore) SearchDocuments(ctx context.Context, term string, limit int) ([]model.InternalDoc, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT doc_id, title, excerpt, uploaded_by, uploaded_at FROM documents
		 WHERE title ILIKE $1 OR content ILIKE $1
		 ORDER BY uploaded_at DESC LIMIT $2`,
		"%"+term+"%", limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search documents")
	}
	defer rows.Close()

	var docs []model.InternalDoc
	for rows.Next() {
		var d model.InternalDoc
		if err := rows.Scan(&d.DocID, &d.Title, &d.TextExcerpt, &d.UploadedBy, &d.UploadedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan document")
		}
		docs = append(docs, d)
	}
	return docs, eris.Wrap(rows.Err(), "postgres: search documents iterate")
}
