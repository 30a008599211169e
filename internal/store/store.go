// Package store persists audit records as a small key-value store of opaque
// ids, file-backed with a capped index.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"accesslens/internal/audit"

	"github.com/google/uuid"
)

// ErrNotFound reports an unknown audit id.
var ErrNotFound = errors.New("audit not found")

// Record is a persisted audit: the submitted payload, the normalized result,
// and bookkeeping.
type Record struct {
	AuditID   string        `json:"audit_id"`
	Input     audit.Request `json:"input"`
	Results   audit.Result  `json:"results"`
	CreatedAt string        `json:"created_at"`
}

// Store is the persistence collaborator the pipeline depends on.
type Store interface {
	Create(input audit.Request, results audit.Result) (Record, error)
	Get(id string) (Record, error)
}

// FileStore keeps one JSON file per audit under dir, plus a capped
// index.json of recent entries.
type FileStore struct {
	mu         sync.Mutex
	dir        string
	indexLimit int
	maxRecords int
}

func NewFileStore(dir string, indexLimit, maxRecords int) *FileStore {
	return &FileStore{dir: dir, indexLimit: indexLimit, maxRecords: maxRecords}
}

func (s *FileStore) Create(input audit.Request, results audit.Result) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Record{
		AuditID:   uuid.NewString(),
		Input:     input,
		Results:   results,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return Record{}, fmt.Errorf("create audits dir: %w", err)
	}
	if err := saveJSON(s.recordPath(rec.AuditID), rec); err != nil {
		return Record{}, fmt.Errorf("save audit: %w", err)
	}
	if err := s.updateIndex(IndexEntry{
		AuditID:    rec.AuditID,
		Timestamp:  time.Now().Unix(),
		IssueCount: len(results.Issues),
	}); err != nil {
		return Record{}, fmt.Errorf("update index: %w", err)
	}
	if err := s.prune(); err != nil {
		return Record{}, fmt.Errorf("prune audits: %w", err)
	}
	return rec, nil
}

func (s *FileStore) Get(id string) (Record, error) {
	// Ids are opaque uuids; anything else never names a record and must not
	// escape the store directory.
	if id == "" || strings.ContainsAny(id, "/\\.") {
		return Record{}, ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("read audit: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return Record{}, fmt.Errorf("decode audit: %w", err)
	}
	return rec, nil
}

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

type IndexEntry struct {
	AuditID    string `json:"audit_id"`
	Timestamp  int64  `json:"ts"`
	IssueCount int    `json:"issue_count"`
}

func (s *FileStore) updateIndex(entry IndexEntry) error {
	if s.indexLimit <= 0 {
		return nil
	}
	indexPath := filepath.Join(s.dir, "index.json")
	var entries []IndexEntry
	if b, err := os.ReadFile(indexPath); err == nil {
		_ = json.Unmarshal(b, &entries)
	}
	entries = append([]IndexEntry{entry}, entries...)
	if len(entries) > s.indexLimit {
		entries = entries[:s.indexLimit]
	}
	return saveJSON(indexPath, entries)
}

type recordFile struct {
	path    string
	modTime time.Time
}

func (s *FileStore) prune() error {
	if s.maxRecords <= 0 {
		return nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var records []recordFile
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == "index.json" {
			continue
		}
		if !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		records = append(records, recordFile{
			path:    filepath.Join(s.dir, entry.Name()),
			modTime: info.ModTime(),
		})
	}

	if len(records) <= s.maxRecords {
		return nil
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].modTime.After(records[j].modTime)
	})

	for i := s.maxRecords; i < len(records); i++ {
		if err := os.Remove(records[i].path); err != nil {
			return err
		}
	}
	return nil
}

func saveJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
