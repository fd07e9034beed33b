package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/phpwatch/phpwatch/internal/ignore"
)

// Project is the cached state for one project root: the loaded config
// and its compiled rule set. Immutable once published — Reload builds a
// fresh Project and swaps the reference, so concurrent readers always
// observe a consistent pair.
type Project struct {
	Config *ProjectConfig
	Rules  *ignore.RuleSet
	// LoadedAt is when this snapshot was built.
	LoadedAt time.Time

	// fingerprint of the raw config bytes, used to skip recompiling
	// when a reload finds identical content.
	fingerprint uint64
}

// LogFunc receives the store's warning lines (config degradation,
// skipped patterns). Printf semantics.
type LogFunc func(format string, v ...interface{})

// Store is the per-root config cache, the one piece of shared mutable
// state in the system. Loads for distinct roots run independently.
// For a single root, load+compile+publish runs under a per-root lock:
// a first-use load that raced an explicit reload can never publish its
// stale snapshot over the reloaded one, and once any load completes,
// every reader observes that same snapshot until the next reload.
type Store struct {
	mu       sync.RWMutex
	projects map[string]*Project

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex // per-root install serialization

	logf LogFunc
}

// NewStore creates an empty store. logf may be nil to discard warnings.
func NewStore(logf LogFunc) *Store {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return &Store{
		projects: make(map[string]*Project),
		locks:    make(map[string]*sync.Mutex),
		logf:     logf,
	}
}

// Get returns the cached Project for a root, loading it on first use.
func (s *Store) Get(root string) *Project {
	key := storeKey(root)

	s.mu.RLock()
	proj := s.projects[key]
	s.mu.RUnlock()
	if proj != nil {
		return proj
	}

	lock := s.rootLock(key)
	lock.Lock()
	defer lock.Unlock()

	// A racing caller may have finished while we queued; a Get must
	// never replace a snapshot that is already published.
	s.mu.RLock()
	proj = s.projects[key]
	s.mu.RUnlock()
	if proj != nil {
		return proj
	}
	return s.install(key, root, nil)
}

// Reload re-reads the config for a root and atomically replaces the
// cached Project. When the file content is byte-identical to the
// cached snapshot the existing Project is kept, so watcher-triggered
// touch events do not recompile anything.
func (s *Store) Reload(root string) *Project {
	key := storeKey(root)

	lock := s.rootLock(key)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	prev := s.projects[key]
	s.mu.RUnlock()
	return s.install(key, root, prev)
}

// Roots returns the roots currently cached, for watcher registration.
func (s *Store) Roots() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roots := make([]string, 0, len(s.projects))
	for key := range s.projects {
		roots = append(roots, key)
	}
	return roots
}

// rootLock returns the install lock for a root, creating it on first use.
func (s *Store) rootLock(key string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// install loads, compiles, and publishes a Project snapshot. The
// caller must hold the root's install lock. prev, when non-nil,
// enables the unchanged-content fast path.
func (s *Store) install(key, root string, prev *Project) *Project {
	res := load(root)
	for _, warning := range res.warnings {
		s.logf("config: %s", warning)
	}

	fingerprint := xxhash.Sum64(res.raw)
	if prev != nil && prev.fingerprint == fingerprint {
		return prev
	}

	rules, errs := ignore.CompileSet(res.cfg.Ignore)
	for _, err := range errs {
		s.logf("config: skipping pattern: %v", err)
	}

	proj := &Project{
		Config:      res.cfg,
		Rules:       rules,
		LoadedAt:    time.Now(),
		fingerprint: fingerprint,
	}

	s.mu.Lock()
	s.projects[key] = proj
	s.mu.Unlock()
	return proj
}

func storeKey(root string) string {
	return filepath.Clean(root)
}
