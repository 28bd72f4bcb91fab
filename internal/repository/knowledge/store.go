// Package knowledge is the record store: per-domain JSON knowledge bases
// loaded lazily from disk, cached in memory with a freshness window, and
// indexed on load. The record list and its TF-IDF index live in one cache
// entry that is replaced wholesale, so readers can never observe a list
// and an index that disagree.
package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bayoudata/houston-intel/internal/domain"
	"github.com/bayoudata/houston-intel/internal/domain/record"
	"github.com/bayoudata/houston-intel/internal/index"
	"github.com/bayoudata/houston-intel/internal/metrics"
)

// DefaultCacheTTL is the freshness window for a loaded domain.
const DefaultCacheTTL = 300 * time.Second

// Config holds the store settings.
type Config struct {
	// BasePath is the directory holding the per-domain knowledge files:
	// <base>/<domain>.json or <base>/<domain>/*.json.
	BasePath string
	// CacheTTL is the freshness window. Default 300s.
	CacheTTL time.Duration
	// VocabularyCap bounds the TF-IDF vocabulary per domain. Default 1000.
	VocabularyCap int
	// Domains overrides the canonical domain set (tests only).
	Domains []string
}

// Status describes one domain's loaded state for serving layers.
type Status struct {
	Domain     string    `json:"domain"`
	Label      string    `json:"label"`
	Records    int       `json:"records"`
	Indexed    bool      `json:"indexed"`
	LoadedAt   time.Time `json:"loaded_at"`
	Categories []string  `json:"categories,omitempty"`
}

type entry struct {
	records  []record.Record
	index    *index.Index // nil when the fit failed; keyword fallback applies
	loadedAt time.Time
	hasFiles bool
}

// Store owns the per-domain caches.
type Store struct {
	cfg    Config
	logger *zap.Logger
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]*entry
}

// New creates a Store.
func New(cfg Config, log *zap.Logger) *Store {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if len(cfg.Domains) == 0 {
		cfg.Domains = domain.AllDomains()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		cfg:     cfg,
		logger:  log,
		now:     time.Now,
		entries: make(map[string]*entry, len(cfg.Domains)),
	}
}

// WithClock overrides the time source (tests).
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Domains returns the configured domain names.
func (s *Store) Domains() []string {
	out := make([]string, len(s.cfg.Domains))
	copy(out, s.cfg.Domains)
	return out
}

// LoadDomain returns the domain's records, reading from disk on first use
// or after cache expiry. Unknown domains return nil. Never returns an error:
// malformed files are logged and skipped.
func (s *Store) LoadDomain(ctx context.Context, name string, force bool) []record.Record {
	records, _ := s.Snapshot(ctx, name, force)
	return records
}

// Snapshot returns the records and index of a domain as one consistent
// pair, loading if the cache is cold or stale.
func (s *Store) Snapshot(ctx context.Context, name string, force bool) ([]record.Record, *index.Index) {
	if !s.known(name) {
		return nil, nil
	}

	if !force {
		s.mu.RLock()
		e, ok := s.entries[name]
		s.mu.RUnlock()
		if ok && s.now().Sub(e.loadedAt) < s.cfg.CacheTTL {
			return e.records, e.index
		}
	}

	e := s.loadFromDisk(ctx, name)

	s.mu.Lock()
	s.entries[name] = e
	s.mu.Unlock()

	metrics.DomainRecords.WithLabelValues(name).Set(float64(len(e.records)))
	return e.records, e.index
}

// Status reports the loaded state of a domain, loading it first if needed.
// A domain with no files on disk yields ErrNoKnowledgeBase so callers can
// tell "no data yet" apart from "no matches". Unknown names yield
// ErrDomainUnknown.
func (s *Store) Status(ctx context.Context, name string) (Status, error) {
	if !s.known(name) {
		return Status{}, domain.ErrDomainUnknown
	}
	s.Snapshot(ctx, name, false)

	s.mu.RLock()
	e := s.entries[name]
	s.mu.RUnlock()

	if !e.hasFiles {
		return Status{}, domain.ErrNoKnowledgeBase
	}

	st := Status{
		Domain:   name,
		Label:    domain.DomainLabel(name),
		Records:  len(e.records),
		Indexed:  e.index != nil,
		LoadedAt: e.loadedAt,
	}
	cats := map[string]struct{}{}
	for i := range e.records {
		if c := e.records[i].Category(); c != "" {
			cats[c] = struct{}{}
		}
	}
	for c := range cats {
		st.Categories = append(st.Categories, c)
	}
	sort.Strings(st.Categories)
	return st, nil
}

// Ping reports whether the knowledge base path is reachable.
func (s *Store) Ping(_ context.Context) error {
	if _, err := os.Stat(s.cfg.BasePath); err != nil {
		return err //nolint:wrapcheck // stat error is the whole story
	}
	return nil
}

func (s *Store) known(name string) bool {
	for _, d := range s.cfg.Domains {
		if d == name {
			return true
		}
	}
	return false
}

// loadFromDisk builds a fresh entry: records from every parseable file,
// plus the index fitted against them. Runs outside the store lock.
func (s *Store) loadFromDisk(_ context.Context, name string) *entry {
	log := s.logger.With(zap.String("domain", name))

	files := s.domainFiles(name)
	e := &entry{loadedAt: s.now(), hasFiles: len(files) > 0}

	for _, path := range files {
		data, err := os.ReadFile(path) //nolint:gosec // paths come from our own directory walk
		if err != nil {
			log.Warn("skipping unreadable knowledge file", zap.String("file", path), zap.Error(err))
			metrics.DomainLoadsTotal.WithLabelValues(name, "file_error").Inc()
			continue
		}
		records, err := record.Parse(data)
		if err != nil {
			log.Warn("skipping malformed knowledge file", zap.String("file", path), zap.Error(err))
			metrics.DomainLoadsTotal.WithLabelValues(name, "parse_error").Inc()
			continue
		}
		e.records = append(e.records, records...)
	}

	if len(e.records) > 0 {
		corpus := make([]string, len(e.records))
		for i := range e.records {
			corpus[i] = e.records[i].SearchText()
		}
		ix, err := index.Fit(corpus, index.Options{MaxVocabulary: s.cfg.VocabularyCap})
		if err != nil {
			log.Info("index fit failed, domain falls back to keyword search", zap.Error(err))
			metrics.IndexFallbacksTotal.WithLabelValues(name).Inc()
		} else {
			e.index = ix
		}
	}

	metrics.DomainLoadsTotal.WithLabelValues(name, "ok").Inc()
	log.Debug("domain loaded",
		zap.Int("files", len(files)),
		zap.Int("records", len(e.records)),
		zap.Bool("indexed", e.index != nil),
	)
	return e
}

// domainFiles enumerates the JSON files for a domain: either the flat
// <base>/<domain>.json or everything under <base>/<domain>/, sorted.
func (s *Store) domainFiles(name string) []string {
	var files []string

	dir := filepath.Join(s.cfg.BasePath, name)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		matches, _ := filepath.Glob(filepath.Join(dir, "*.json"))
		files = append(files, matches...)
	}

	flat := filepath.Join(s.cfg.BasePath, name+".json")
	if _, err := os.Stat(flat); err == nil {
		files = append(files, flat)
	}

	sort.Strings(files)
	return files
}
