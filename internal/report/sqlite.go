package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/RishiKendai/verbatim/internal/plagiarism"
	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS comparisons (
    comparison_id TEXT PRIMARY KEY,
    document_a TEXT,
    document_b TEXT,
    status TEXT,
    total_words INTEGER,
    source_words INTEGER,
    plagiarized_words INTEGER,
    percentage REAL,
    risk TEXT,
    reason TEXT,
    error TEXT,
    min_window_words INTEGER,
    created_at TEXT
);

CREATE TABLE IF NOT EXISTS matches (
    id INTEGER PRIMARY KEY,
    comparison_id TEXT,
    start_a INTEGER,
    start_b INTEGER,
    length INTEGER,
    text TEXT
);
`

// OpenSQLite opens the report database at path and applies the schema.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

// SQLiteSink buffers the matches of one comparison and writes them together
// with the summary in a single transaction.
type SQLiteSink struct {
	db           *sql.DB
	comparisonID string
	documentA    string
	documentB    string
	matches      []plagiarism.MatchSnippet
}

func NewSQLiteSink(db *sql.DB, comparisonID, documentA, documentB string) *SQLiteSink {
	return &SQLiteSink{db: db, comparisonID: comparisonID, documentA: documentA, documentB: documentB}
}

func (s *SQLiteSink) EmitMatch(_ context.Context, snippet plagiarism.MatchSnippet) error {
	s.matches = append(s.matches, snippet)
	return nil
}

func (s *SQLiteSink) EmitSummary(ctx context.Context, r *plagiarism.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.clear(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO comparisons(comparison_id, document_a, document_b, status, total_words, source_words, plagiarized_words, percentage, risk, reason, error, min_window_words, created_at) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.comparisonID,
		s.documentA,
		s.documentB,
		StatusCompleted,
		r.TotalWords,
		r.SourceWords,
		r.PlagiarizedWords,
		r.Percentage,
		r.Risk,
		r.Reason,
		"",
		r.MinWindowWords,
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert comparison: %w", err)
	}

	for _, m := range s.matches {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO matches(comparison_id, start_a, start_b, length, text) VALUES(?,?,?,?,?)`,
			s.comparisonID,
			m.Match.StartA,
			m.Match.StartB,
			m.Match.Length,
			m.Text,
		); err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	s.matches = nil
	return nil
}

func (s *SQLiteSink) EmitFailure(ctx context.Context, failure error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.clear(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO comparisons(comparison_id, document_a, document_b, status, error, created_at) VALUES(?,?,?,?,?,?)`,
		s.comparisonID,
		s.documentA,
		s.documentB,
		StatusFailed,
		failure.Error(),
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert comparison: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *SQLiteSink) clear(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE comparison_id = ?`, s.comparisonID); err != nil {
		return fmt.Errorf("clear matches: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM comparisons WHERE comparison_id = ?`, s.comparisonID); err != nil {
		return fmt.Errorf("clear comparison: %w", err)
	}
	return nil
}

// StoredComparison is a comparison row read back from SQLite.
type StoredComparison struct {
	ComparisonID     string
	Status           string
	TotalWords       int
	PlagiarizedWords int
	Percentage       float64
	Matches          int
}

// LoadComparison reads back the summary row of a comparison.
func LoadComparison(ctx context.Context, db *sql.DB, comparisonID string) (*StoredComparison, error) {
	row := db.QueryRowContext(ctx,
		`SELECT c.comparison_id, c.status, COALESCE(c.total_words, 0), COALESCE(c.plagiarized_words, 0), COALESCE(c.percentage, 0),
		        (SELECT COUNT(*) FROM matches m WHERE m.comparison_id = c.comparison_id)
		   FROM comparisons c WHERE c.comparison_id = ?`,
		comparisonID,
	)
	var sc StoredComparison
	if err := row.Scan(&sc.ComparisonID, &sc.Status, &sc.TotalWords, &sc.PlagiarizedWords, &sc.Percentage, &sc.Matches); err != nil {
		return nil, fmt.Errorf("scan comparison %q: %w", comparisonID, err)
	}
	return &sc, nil
}
