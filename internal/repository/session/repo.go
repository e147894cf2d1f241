// Package session keeps each session's document set in process memory.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kailas-cloud/docsearch/internal/domain"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	domsession "github.com/kailas-cloud/docsearch/internal/domain/session"
	"github.com/kailas-cloud/docsearch/internal/metrics"
)

// Defaults applied when the repo is built with zero limits.
const (
	DefaultMaxSessions = 1024
	DefaultIdleTTL     = time.Hour
)

type state struct {
	mu        sync.Mutex
	docs      []domdoc.Document
	lastQuery string
	updatedAt time.Time
	removed   atomic.Bool // set once the state leaves the LRU
}

// Repo stores sessions in an expiring LRU. Every access renews a session's
// TTL, so only idle sessions expire; the least recently used one goes first
// when the LRU is full.
type Repo struct {
	mu       sync.Mutex // guards lookup, renewal and removal
	sessions *expirable.LRU[string, *state]
	now      func() time.Time
}

// New creates a session repo.
func New(maxSessions int, idleTTL time.Duration) *Repo {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Repo{
		sessions: expirable.NewLRU[string, *state](maxSessions, onEvict, idleTTL),
		now:      time.Now,
	}
}

// Replace swaps the session's document set wholesale.
func (r *Repo) Replace(_ context.Context, sessionID string, docs []domdoc.Document) error {
	r.update(sessionID, func(st *state) {
		st.docs = append([]domdoc.Document(nil), docs...)
	})
	return nil
}

// Append adds documents after the current ones. A document whose ID is
// already present replaces it at its existing position.
func (r *Repo) Append(_ context.Context, sessionID string, docs []domdoc.Document) error {
	r.update(sessionID, func(st *state) {
		for _, d := range docs {
			if i := indexOf(st.docs, d.ID()); i >= 0 {
				st.docs[i] = d
				continue
			}
			st.docs = append(st.docs, d)
		}
	})
	return nil
}

// Snapshot returns a copy of the session's documents in upload order.
// An unknown session has no documents.
func (r *Repo) Snapshot(_ context.Context, sessionID string) ([]domdoc.Document, error) {
	st, ok := r.lookup(sessionID)
	if !ok {
		return nil, nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	return append([]domdoc.Document(nil), st.docs...), nil
}

// Get returns one document by ID.
func (r *Repo) Get(_ context.Context, sessionID, id string) (domdoc.Document, error) {
	st, ok := r.lookup(sessionID)
	if !ok {
		return domdoc.Document{}, fmt.Errorf("document %q: %w", id, domain.ErrDocumentNotFound)
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	i := indexOf(st.docs, id)
	if i < 0 {
		return domdoc.Document{}, fmt.Errorf("document %q: %w", id, domain.ErrDocumentNotFound)
	}
	return st.docs[i], nil
}

// Delete removes one document, keeping the order of the rest.
func (r *Repo) Delete(_ context.Context, sessionID, id string) error {
	st, ok := r.lookup(sessionID)
	if !ok {
		return fmt.Errorf("document %q: %w", id, domain.ErrDocumentNotFound)
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	i := indexOf(st.docs, id)
	if i < 0 {
		return fmt.Errorf("document %q: %w", id, domain.ErrDocumentNotFound)
	}
	st.docs = append(st.docs[:i:i], st.docs[i+1:]...)
	st.updatedAt = r.now()
	return nil
}

// Clear drops the whole session.
func (r *Repo) Clear(_ context.Context, sessionID string) error {
	r.mu.Lock()
	st, ok := r.sessions.Peek(sessionID)
	r.sessions.Remove(sessionID)
	r.mu.Unlock()
	if ok {
		st.removed.Store(true)
	}
	metrics.SessionsActive.Set(float64(r.sessions.Len()))
	return nil
}

// RecordQuery stores the last query submitted in the session.
func (r *Repo) RecordQuery(_ context.Context, sessionID, query string) error {
	r.update(sessionID, func(st *state) {
		st.lastQuery = query
	})
	return nil
}

// Info reports the document count and last query of a session.
func (r *Repo) Info(_ context.Context, sessionID string) (domsession.Info, error) {
	st, ok := r.lookup(sessionID)
	if !ok {
		return domsession.Info{}, nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	return domsession.Info{Documents: len(st.docs), LastQuery: st.lastQuery, UpdatedAt: st.updatedAt}, nil
}

// Len returns the number of live sessions.
func (r *Repo) Len() int { return r.sessions.Len() }

// update applies fn to the live state of a session, creating it if needed.
// A state removed between lookup and lock is dropped and the lookup retried,
// so a write racing with Clear or expiry lands in the session that survives.
func (r *Repo) update(sessionID string, fn func(st *state)) {
	for {
		st := r.getOrCreate(sessionID)
		st.mu.Lock()
		if st.removed.Load() {
			st.mu.Unlock()
			continue
		}
		fn(st)
		st.updatedAt = r.now()
		st.mu.Unlock()
		return
	}
}

// lookup returns an existing session and renews its TTL.
func (r *Repo) lookup(sessionID string) (*state, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.sessions.Get(sessionID)
	if ok {
		r.sessions.Add(sessionID, st)
	}
	return st, ok
}

func (r *Repo) getOrCreate(sessionID string) *state {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ok := r.sessions.Get(sessionID); ok {
		r.sessions.Add(sessionID, st)
		return st
	}
	st := &state{updatedAt: r.now()}
	r.sessions.Add(sessionID, st)
	metrics.SessionsActive.Set(float64(r.sessions.Len()))
	return st
}

func onEvict(_ string, st *state) {
	st.removed.Store(true)
}

func indexOf(docs []domdoc.Document, id string) int {
	for i := range docs {
		if docs[i].ID() == id {
			return i
		}
	}
	return -1
}
