package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/pharma-intel/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS reports (
	id           TEXT PRIMARY KEY,
	query        TEXT NOT NULL,
	report_type  TEXT NOT NULL,
	summary      TEXT NOT NULL DEFAULT '',
	body         BLOB NOT NULL,
	metadata     TEXT NOT NULL,
	downloads    INTEGER NOT NULL DEFAULT 0,
	generated_at DATETIME NOT NULL
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

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveReport(ctx context.Context, artifact *model.ReportArtifact) error {
	metaJSON, err := json.Marshal(artifact.Metadata)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal metadata")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, query, report_type, summary, body, metadata, generated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		artifact.ID, artifact.Query, string(artifact.Format), artifact.Summary,
		artifact.Body, string(metaJSON), artifact.Metadata.GeneratedAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: insert report %s", artifact.ID)
}

func (s *SQLiteStore) GetReport(ctx context.Context, reportID string) (*model.ReportArtifact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, query, report_type, summary, body, metadata FROM reports WHERE id = ?`,
		reportID,
	)
	return scanReport(row, reportID)
}

func (s *SQLiteStore) ListReports(ctx context.Context, filter ReportFilter) ([]model.ReportSummary, error) {
	query := `SELECT id, query, report_type, metadata, downloads, generated_at FROM reports WHERE 1=1`
	var args []any

	if filter.Query != "" {
		query += ` AND query LIKE ?`
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.Format != "" {
		query += ` AND report_type = ?`
		args = append(args, string(filter.Format))
	}
	query += ` ORDER BY generated_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list reports")
	}
	defer rows.Close()

	var summaries []model.ReportSummary
	for rows.Next() {
		var sum model.ReportSummary
		var format, metaJSON string
		if err := rows.Scan(&sum.ID, &sum.Query, &format, &metaJSON, &sum.Downloads, &sum.GeneratedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan report summary")
		}
		sum.Format = model.Format(format)
		if err := json.Unmarshal([]byte(metaJSON), &sum.Metadata); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal metadata")
		}
		summaries = append(summaries, sum)
	}
	return summaries, eris.Wrap(rows.Err(), "sqlite: list reports iterate")
}

func (s *SQLiteStore) IncrementDownloads(ctx context.Context, reportID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reports SET downloads = downloads + 1 WHERE id = ?`,
		reportID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: increment downloads %s", reportID)
	}
	return checkRowsAffected(res, "report", reportID)
}

func (s *SQLiteStore) UploadDocument(ctx context.Context, doc model.InternalDoc, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (doc_id, title, content, excerpt, uploaded_by, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(doc_id) DO UPDATE SET
		   title = excluded.title, content = excluded.content,
		   excerpt = excluded.excerpt, uploaded_by = excluded.uploaded_by,
		   uploaded_at = excluded.uploaded_at`,
		doc.DocID, doc.Title, content, doc.TextExcerpt, doc.UploadedBy, doc.UploadedAt,
	)
	return eris.Wrapf(err, "sqlite: upload document %s", doc.DocID)
}

func (s *SQLiteStore) SearchDocuments(ctx context.Context, term string, limit int) ([]model.InternalDoc, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_id, title, excerpt, uploaded_by, uploaded_at FROM documents
		 WHERE title LIKE ? OR content LIKE ?
		 ORDER BY uploaded_at DESC LIMIT ?`,
		"%"+term+"%", "%"+term+"%", limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search documents")
	}
	defer rows.Close()

	var docs []model.InternalDoc
	for rows.Next() {
		var d model.InternalDoc
		if err := rows.Scan(&d.DocID, &d.Title, &d.TextExcerpt, &d.UploadedBy, &d.UploadedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan document")
		}
		docs = append(docs, d)
	}
	return docs, eris.Wrap(rows.Err(), "sqlite: search documents iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanReport(row scannable, reportID string) (*model.ReportArtifact, error) {
	var a model.ReportArtifact
	var format, metaJSON string

	err := row.Scan(&a.ID, &a.Query, &format, &a.Summary, &a.Body, &metaJSON)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "report %s", reportID)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan report")
	}

	a.Format = model.Format(format)
	if err := json.Unmarshal([]byte(metaJSON), &a.Metadata); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal metadata")
	}
	return &a, nil
}
