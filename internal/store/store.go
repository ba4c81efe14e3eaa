// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store manages the local directory of downloaded papers. Each
// paper gets a subdirectory keyed by its identifier, holding the raw PDF,
// the converted text, and a YAML metadata record. Conversion status is
// tracked in a SQLite ledger at the store root; the filesystem remains
// the source of truth for artifacts.
package store

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

const (
	pdfFile     = "paper.pdf"
	textFile    = "paper.md"
	metaFile    = "metadata.yaml"
	catalogFile = "catalog.db"
)

// Store is a local paper store rooted at a configured directory. It is
// safe for use by request handlers racing with background conversion
// goroutines in a single process; it does not guard against multiple
// processes writing the same identifier.
type Store struct {
	root    string
	catalog *catalog

	// mu serializes status read-modify-write cycles.
	mu sync.Mutex
}

// Open creates the root directory if absent, opens the status ledger,
// and returns the store.
func Open(cfg types.StoreConfig) (*Store, error) {
	if cfg.RootDir == "" {
		return nil, goerr.New("store root directory is not configured")
	}
	if err := os.MkdirAll(cfg.RootDir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "creating store root", goerr.V("dir", cfg.RootDir))
	}

	cat, err := openCatalog(filepath.Join(cfg.RootDir, catalogFile))
	if err != nil {
		return nil, err
	}

	s := &Store{root: cfg.RootDir, catalog: cat}
	if err := s.reconcile(); err != nil {
		cat.close()
		return nil, err
	}
	return s, nil
}

// reconcile resets ledger rows left at in_progress by a previous process.
// No conversion goroutine survives a restart, so a row with a text
// artifact becomes completed and the rest go back to pending so the next
// download can retry.
func (s *Store) reconcile() error {
	ids, err := s.catalog.idsWithStatus(types.ConversionInProgress)
	if err != nil {
		return err
	}
	for _, id := range ids {
		next := types.ConversionPending
		if _, err := os.Stat(s.TextPath(id)); err == nil {
			next = types.ConversionCompleted
		}
		if err := s.catalog.forceStatus(id, next); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the status ledger.
func (s *Store) Close() error {
	return s.catalog.close()
}

// PDFPath returns the location of the raw PDF artifact for id.
func (s *Store) PDFPath(id string) string {
	return filepath.Join(s.root, id, pdfFile)
}

// TextPath returns the location of the converted text artifact for id.
func (s *Store) TextPath(id string) string {
	return filepath.Join(s.root, id, textFile)
}

func (s *Store) metaPath(id string) string {
	return filepath.Join(s.root, id, metaFile)
}

// Exists reports whether the store holds any artifact for id.
func (s *Store) Exists(id string) bool {
	if _, err := os.Stat(s.PDFPath(id)); err == nil {
		return true
	}
	_, err := os.Stat(s.TextPath(id))
	return err == nil
}

// SavePDF writes the raw PDF for id via a temporary file renamed into
// place, creating the paper directory as needed. The ledger entry is
// initialized to pending if absent.
func (s *Store) SavePDF(id string, r io.Reader) (string, error) {
	dir := filepath.Join(s.root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", goerr.Wrap(err, "creating paper directory", goerr.V("dir", dir))
	}

	dest := s.PDFPath(id)
	if err := writeAtomic(dest, r); err != nil {
		return "", goerr.Wrap(err, "writing PDF", goerr.V("id", id))
	}

	if _, ok, err := s.catalog.status(id); err != nil {
		return "", err
	} else if !ok {
		if err := s.catalog.insertStatus(id, types.ConversionPending); err != nil {
			return "", err
		}
	}
	return dest, nil
}

// SaveText writes the converted text for id and marks the conversion
// completed. The text is written first so the completed status never
// precedes its artifact.
func (s *Store) SaveText(id, text string) error {
	dir := filepath.Join(s.root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return goerr.Wrap(err, "creating paper directory", goerr.V("dir", dir))
	}
	if err := os.WriteFile(s.TextPath(id), []byte(text), 0o644); err != nil {
		return goerr.Wrap(err, "writing text", goerr.V("id", id))
	}
	return s.SetStatus(id, types.ConversionCompleted)
}

// WriteMetadata persists the paper record as YAML and mirrors it into
// the ledger.
func (s *Store) WriteMetadata(p *types.Paper) error {
	dir := filepath.Join(s.root, p.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return goerr.Wrap(err, "creating paper directory", goerr.V("dir", dir))
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return goerr.Wrap(err, "marshaling metadata", goerr.V("id", p.ID))
	}
	if err := os.WriteFile(s.metaPath(p.ID), data, 0o644); err != nil {
		return goerr.Wrap(err, "writing metadata", goerr.V("id", p.ID))
	}
	return s.catalog.upsertPaper(p)
}

// ReadMetadata loads the YAML paper record for id. Missing metadata
// yields a minimal record so listing keeps working for partially
// downloaded papers.
func (s *Store) ReadMetadata(id string) (*types.Paper, error) {
	data, err := os.ReadFile(s.metaPath(id))
	if os.IsNotExist(err) {
		status, statusErr := s.Status(id)
		if statusErr != nil {
			return nil, statusErr
		}
		return &types.Paper{ID: id, ConversionStatus: status}, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "reading metadata", goerr.V("id", id))
	}

	var p types.Paper
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, goerr.Wrap(err, "parsing metadata", goerr.V("id", id))
	}
	if status, err := s.Status(id); err == nil {
		p.ConversionStatus = status
	}
	return &p, nil
}

// Status returns the conversion status for id. A text artifact on disk
// always means completed, healing the ledger if it disagrees; an unknown
// id reports pending.
func (s *Store) Status(id string) (types.ConversionStatus, error) {
	if _, err := os.Stat(s.TextPath(id)); err == nil {
		status, ok, err := s.catalog.status(id)
		if err != nil {
			return "", err
		}
		if !ok || status != types.ConversionCompleted {
			s.mu.Lock()
			healErr := s.catalog.forceStatus(id, types.ConversionCompleted)
			s.mu.Unlock()
			if healErr != nil {
				return "", healErr
			}
		}
		return types.ConversionCompleted, nil
	}

	status, ok, err := s.catalog.status(id)
	if err != nil {
		return "", err
	}
	if !ok {
		return types.ConversionPending, nil
	}
	return status, nil
}

// SetStatus records a conversion status transition. Illegal transitions
// (any regression from a terminal status) fail.
func (s *Store) SetStatus(id string, next types.ConversionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok, err := s.catalog.status(id)
	if err != nil {
		return err
	}
	if !ok {
		return s.catalog.insertStatus(id, next)
	}
	if !current.CanTransition(next) {
		return goerr.New("illegal conversion status transition",
			goerr.V("id", id), goerr.V("from", current), goerr.V("to", next))
	}
	return s.catalog.forceStatus(id, next)
}

// ReadText returns the converted text for id. It fails with not_found
// unless a completed conversion exists.
func (s *Store) ReadText(id string) (string, error) {
	status, err := s.Status(id)
	if err != nil {
		return "", err
	}
	if status != types.ConversionCompleted {
		return "", goerr.New("no completed conversion for paper",
			goerr.T(types.TagNotFound), goerr.V("id", id), goerr.V("status", status))
	}

	data, err := os.ReadFile(s.TextPath(id))
	if err != nil {
		return "", goerr.Wrap(err, "reading text", goerr.V("id", id))
	}
	return string(data), nil
}

// List returns the sorted identifiers that have at least one artifact in
// the store, without duplicates.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, goerr.Wrap(err, "reading store root", goerr.V("dir", s.root))
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if s.Exists(entry.Name()) {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// writeAtomic streams r into dest via a temp file in the same directory.
func writeAtomic(dest string, r io.Reader) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(dest), ".store-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, r)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return copyErr
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return closeErr
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
