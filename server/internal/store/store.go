package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sliderstack/sliderstack/pkg/types"
)

// Entry is a live container together with the time it was last reported.
type Entry struct {
	Container types.ContainerStatus
	UpdatedAt time.Time
}

// Store is a thread-safe in-memory view of one application's status:
// liveness, components by name, live containers by id and named model
// documents. A background goroutine (Run) periodically evicts containers
// that have not been updated within the configured TTL.
type Store struct {
	mu         sync.RWMutex
	liveness   types.LivenessStatus
	components map[string]types.ComponentStatus
	containers map[string]*Entry
	models     map[string]string
	ttl        time.Duration
	now        func() time.Time // injectable for deterministic tests
}

// New creates a Store with the given container TTL.
func New(ttl time.Duration) *Store {
	return &Store{
		components: make(map[string]types.ComponentStatus),
		containers: make(map[string]*Entry),
		models:     make(map[string]string),
		ttl:        ttl,
		now:        time.Now,
	}
}

// SetLiveness replaces the application liveness.
func (s *Store) SetLiveness(l types.LivenessStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveness = l
}

// Liveness returns the last liveness reported. A fresh store reports the
// zero value.
func (s *Store) Liveness() types.LivenessStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.liveness
}

// PutComponent stores or replaces the component keyed by c.Name.
// Callers must not modify c's slices or pointers after calling PutComponent.
func (s *Store) PutComponent(c types.ComponentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.components[c.Name] = c
}

// Component returns the named component and whether it was found.
func (s *Store) Component(name string) (types.ComponentStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.components[name]
	return c, ok
}

// Components returns all components ordered by priority, then name.
func (s *Store) Components() []types.ComponentStatus {
	s.mu.RLock()
	out := make([]types.ComponentStatus, 0, len(s.components))
	for _, c := range s.components {
		out = append(out, c)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// PutContainer stores or replaces the container keyed by c.ContainerID.
// A container reported as released is removed from the live set instead.
// It returns false when the update removed the container.
func (s *Store) PutContainer(c types.ContainerStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.IsReleased() {
		delete(s.containers, c.ContainerID)
		return false
	}
	s.containers[c.ContainerID] = &Entry{
		Container: c,
		UpdatedAt: s.now(),
	}
	return true
}

// Container returns the Entry for the given container id. The entry may be
// stale if TTL has elapsed.
func (s *Store) Container(id string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.containers[id]
	return e, ok
}

// Containers returns the live containers whose UpdatedAt is within the TTL,
// ordered by creation time, then id. Stale entries that have not yet been
// evicted are excluded.
func (s *Store) Containers() []types.ContainerStatus {
	s.mu.RLock()
	cutoff := s.now().Add(-s.ttl)
	out := make([]types.ContainerStatus, 0, len(s.containers))
	for _, e := range s.containers {
		if e.UpdatedAt.After(cutoff) {
			out = append(out, e.Container)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreateTime != out[j].CreateTime {
			return out[i].CreateTime < out[j].CreateTime
		}
		return out[i].ContainerID < out[j].ContainerID
	})
	return out
}

// Count returns the number of containers currently held, including stale ones.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.containers)
}

// SetModel stores the JSON document for the named model. The document is
// kept verbatim; callers validate it before storing.
func (s *Store) SetModel(name, doc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[name] = doc
}

// Model returns the JSON document stored under name.
func (s *Store) Model(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.models[name]
	return doc, ok
}

// ModelNames returns the stored model names in sorted order.
func (s *Store) ModelNames() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.models))
	for name := range s.models {
		out = append(out, name)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Evict removes containers whose UpdatedAt is older than now minus TTL.
// It returns the number of containers removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := now.Add(-s.ttl)
	removed := 0
	for id, e := range s.containers {
		if !e.UpdatedAt.After(cutoff) {
			delete(s.containers, id)
			removed++
		}
	}
	return removed
}

// Run starts the background TTL eviction loop. It ticks at half the TTL interval
// (minimum 1 second) so containers are evicted promptly. Run blocks until ctx is
// cancelled.
func (s *Store) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 {
				slog.Debug("store: evicted stale containers", "count", n)
			}
		}
	}
}
