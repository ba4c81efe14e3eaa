// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

// catalog is the SQLite ledger recording paper metadata and conversion
// status transitions.
type catalog struct {
	db *sql.DB
}

func openCatalog(path string) (*catalog, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, goerr.Wrap(err, "opening catalog database", goerr.V("path", path))
	}

	c := &catalog{db: db}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *catalog) close() error {
	return c.db.Close()
}

func (c *catalog) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT,
			authors TEXT,
			published TEXT,
			abstract TEXT,
			categories TEXT,
			source_url TEXT,
			conversion_status TEXT NOT NULL DEFAULT 'pending',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_status ON papers(conversion_status)`,
	}
	for _, stmt := range statements {
		if _, err := c.db.Exec(stmt); err != nil {
			return goerr.Wrap(err, "executing schema statement")
		}
	}
	return nil
}

// status returns the recorded conversion status for id and whether the
// id is known to the ledger.
func (c *catalog) status(id string) (types.ConversionStatus, bool, error) {
	var s string
	err := c.db.QueryRow(
		`SELECT conversion_status FROM papers WHERE id = ?`, id,
	).Scan(&s)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, goerr.Wrap(err, "querying status", goerr.V("id", id))
	}
	return types.ConversionStatus(s), true, nil
}

// idsWithStatus returns the ids recorded with the given status.
func (c *catalog) idsWithStatus(status types.ConversionStatus) ([]string, error) {
	rows, err := c.db.Query(
		`SELECT id FROM papers WHERE conversion_status = ?`, string(status),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "querying ids by status", goerr.V("status", status))
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, goerr.Wrap(err, "scanning id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "iterating ids by status")
	}
	return ids, nil
}

// insertStatus creates a minimal ledger row for id.
func (c *catalog) insertStatus(id string, status types.ConversionStatus) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := c.db.Exec(
		`INSERT INTO papers (id, conversion_status, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		id, string(status), now, now,
	)
	if err != nil {
		return goerr.Wrap(err, "inserting status", goerr.V("id", id))
	}
	return nil
}

// forceStatus writes the status without a transition check. Callers
// enforce monotonicity.
func (c *catalog) forceStatus(id string, status types.ConversionStatus) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := c.db.Exec(
		`UPDATE papers SET conversion_status = ?, updated_at = ? WHERE id = ?`,
		string(status), now, id,
	)
	if err != nil {
		return goerr.Wrap(err, "updating status", goerr.V("id", id))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return c.insertStatus(id, status)
	}
	return nil
}

// upsertPaper writes the full metadata record, preserving an existing
// conversion status.
func (c *catalog) upsertPaper(p *types.Paper) error {
	authors, err := json.Marshal(p.Authors)
	if err != nil {
		return goerr.Wrap(err, "marshaling authors", goerr.V("id", p.ID))
	}
	categories, err := json.Marshal(p.Categories)
	if err != nil {
		return goerr.Wrap(err, "marshaling categories", goerr.V("id", p.ID))
	}

	status := p.ConversionStatus
	if status == "" {
		status = types.ConversionPending
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var published string
	if !p.Published.IsZero() {
		published = p.Published.UTC().Format(time.RFC3339)
	}

	_, err = c.db.Exec(
		`INSERT INTO papers
			(id, title, authors, published, abstract, categories, source_url,
			 conversion_status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			authors = excluded.authors,
			published = excluded.published,
			abstract = excluded.abstract,
			categories = excluded.categories,
			source_url = excluded.source_url,
			updated_at = excluded.updated_at`,
		p.ID, p.Title, string(authors), published, p.Abstract,
		string(categories), p.SourceURL, string(status), now, now,
	)
	if err != nil {
		return goerr.Wrap(err, "upserting paper", goerr.V("id", p.ID))
	}
	return nil
}
