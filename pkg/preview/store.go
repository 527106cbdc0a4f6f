package preview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a reference is unknown or already revoked.
var ErrNotFound = errors.New("preview: reference not found")

// DefaultPrefix is the URL path prefix used when no prefix is configured.
const DefaultPrefix = "/previews/"

// Ref identifies one issued preview. URL is what views render.
type Ref struct {
	ID  string
	URL string
}

// Blob is the content behind a reference.
type Blob struct {
	Name        string
	ContentType string
	Data        []byte
}

// Store issues and revokes preview references.
type Store interface {
	Issue(ctx context.Context, blob Blob) (Ref, error)
	Open(id string) (Blob, error)
	Revoke(id string) bool
	Len() int
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithPrefix overrides the URL prefix used for issued references.
func WithPrefix(prefix string) Option {
	return func(s *MemoryStore) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed == "" {
			return
		}
		if !strings.HasSuffix(trimmed, "/") {
			trimmed += "/"
		}
		s.prefix = trimmed
	}
}

// WithIDGenerator swaps the reference id generator. Tests use it to get
// deterministic URLs.
func WithIDGenerator(fn func() string) Option {
	return func(s *MemoryStore) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// MemoryStore keeps preview blobs in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	blobs  map[string]Blob
	prefix string
	newID  func() string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore(options ...Option) *MemoryStore {
	store := &MemoryStore{
		blobs:  make(map[string]Blob),
		prefix: DefaultPrefix,
		newID:  uuid.NewString,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(store)
	}
	return store
}

// Issue stores a copy of the blob and returns a fresh reference.
func (s *MemoryStore) Issue(ctx context.Context, blob Blob) (Ref, error) {
	if err := ctx.Err(); err != nil {
		return Ref{}, fmt.Errorf("preview: issue %q: %w", blob.Name, err)
	}

	stored := Blob{
		Name:        blob.Name,
		ContentType: blob.ContentType,
		Data:        append([]byte(nil), blob.Data...),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	if _, exists := s.blobs[id]; exists {
		return Ref{}, fmt.Errorf("preview: duplicate reference id %q", id)
	}
	s.blobs[id] = stored
	return Ref{ID: id, URL: s.prefix + id}, nil
}

// Open returns the blob behind id.
func (s *MemoryStore) Open(id string) (Blob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.blobs[id]
	if !ok {
		return Blob{}, ErrNotFound
	}
	return blob, nil
}

// Revoke releases the reference. It reports whether anything was removed.
func (s *MemoryStore) Revoke(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[id]; !ok {
		return false
	}
	delete(s.blobs, id)
	return true
}

// Len reports how many references are currently live.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// RevokeAll revokes every ref in refs and returns how many were live.
func RevokeAll(store Store, refs []Ref) int {
	if store == nil {
		return 0
	}
	released := 0
	for _, ref := range refs {
		if store.Revoke(ref.ID) {
			released++
		}
	}
	return released
}
