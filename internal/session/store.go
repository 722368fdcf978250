// Package session keeps server-held conversation state: a bounded history per
// session and idle eviction.
//
// Locking: the store RWMutex guards only map insert/delete/lookup; every record
// has its own mutex guarding its history and timestamps. Sweep holds the store
// lock and takes each record lock in turn, so it can never remove a record that
// is mid-append. A record removed by Sweep is flagged so a concurrent caller
// holding a stale pointer sees ErrSessionNotFound instead of writing into a
// detached record.
package session

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ashureev/mira-chat/internal/domain"
	"github.com/google/uuid"
)

const (
	// AnonymousUserID is recorded for sessions opened without a user identifier.
	AnonymousUserID = "anonymous"
	// DefaultHistoryCap is the system directive plus the 20 most recent turns.
	DefaultHistoryCap = 21
	// DefaultIdleTTL is how long a session may stay inactive before a sweep removes it.
	DefaultIdleTTL = 24 * time.Hour
	// DefaultSystemPrompt is the fixed system directive stored at index 0.
	DefaultSystemPrompt = "You are mira, a helpful assistant."
)

// ErrSessionNotFound is returned for unknown or swept session identifiers.
var ErrSessionNotFound = errors.New("session not found")

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// ValidID reports whether id may be used as a client-supplied session identifier.
func ValidID(id string) bool {
	return sessionIDPattern.MatchString(id)
}

// Config configures a Store.
type Config struct {
	HistoryCap   int
	SystemPrompt string
	// Now overrides the clock; tests use it to drive Sweep.
	Now func() time.Time
}

type record struct {
	mu           sync.Mutex
	id           string
	userID       string
	createdAt    time.Time
	lastActivity time.Time
	messages     []domain.Message
	removed      bool
}

// Store is a thread-safe mapping from session identifier to conversation record.
type Store struct {
	mu           sync.RWMutex
	records      map[string]*record
	historyCap   int
	systemPrompt string
	now          func() time.Time
}

// NewStore creates an empty store. Caps below 2 are raised to 2 so a session
// always holds the system directive plus at least one turn.
func NewStore(cfg Config) *Store {
	if cfg.HistoryCap <= 0 {
		cfg.HistoryCap = DefaultHistoryCap
	}
	if cfg.HistoryCap < 2 {
		cfg.HistoryCap = 2
	}
	if strings.TrimSpace(cfg.SystemPrompt) == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Store{
		records:      make(map[string]*record),
		historyCap:   cfg.HistoryCap,
		systemPrompt: cfg.SystemPrompt,
		now:          cfg.Now,
	}
}

// HistoryCap returns the configured maximum history length.
func (s *Store) HistoryCap() int {
	return s.historyCap
}

func newSessionID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (s *Store) lookup(id string) *record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[id]
}

// ResolveOrCreate returns the session identifier to use for a stream.
//
// A known candidate is returned unchanged and marked active. An unknown but
// valid candidate is created under that identifier so clients can resume after
// eviction or restart. An empty or invalid candidate yields a fresh UUIDv7.
// created reports whether a new record was inserted.
func (s *Store) ResolveOrCreate(candidateSessionID, candidateUserID string) (id string, created bool) {
	candidateSessionID = strings.TrimSpace(candidateSessionID)
	if candidateSessionID != "" && !ValidID(candidateSessionID) {
		candidateSessionID = ""
	}
	userID := strings.TrimSpace(candidateUserID)
	if userID == "" {
		userID = AnonymousUserID
	}

	if candidateSessionID != "" {
		if rec := s.lookup(candidateSessionID); rec != nil && s.touch(rec) {
			return candidateSessionID, false
		}
	} else {
		candidateSessionID = newSessionID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another stream may have created it between the lookup and the write lock.
	if rec, ok := s.records[candidateSessionID]; ok && s.touch(rec) {
		return candidateSessionID, false
	}

	now := s.now()
	s.records[candidateSessionID] = &record{
		id:           candidateSessionID,
		userID:       userID,
		createdAt:    now,
		lastActivity: now,
		messages:     []domain.Message{{Role: domain.RoleSystem, Content: s.systemPrompt}},
	}
	return candidateSessionID, true
}

func (s *Store) touch(rec *record) bool {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.removed {
		return false
	}
	rec.lastActivity = s.now()
	return true
}

// AppendAndTrim appends one message and, when the history exceeds the cap,
// keeps the system directive plus the most recent cap-1 entries.
func (s *Store) AppendAndTrim(id, role, content string) error {
	rec := s.lookup(id)
	if rec == nil {
		return ErrSessionNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.removed {
		return ErrSessionNotFound
	}

	rec.messages = append(rec.messages, domain.Message{Role: role, Content: content})
	if over := len(rec.messages) - s.historyCap; over > 0 {
		trimmed := make([]domain.Message, 0, s.historyCap)
		trimmed = append(trimmed, rec.messages[0])
		trimmed = append(trimmed, rec.messages[1+over:]...)
		rec.messages = trimmed
	}
	rec.lastActivity = s.now()
	return nil
}

// Snapshot returns a copy of the session history, safe to hand to a provider
// while other turns mutate the store.
func (s *Store) Snapshot(id string) ([]domain.Message, error) {
	rec := s.lookup(id)
	if rec == nil {
		return nil, ErrSessionNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.removed {
		return nil, ErrSessionNotFound
	}
	out := make([]domain.Message, len(rec.messages))
	copy(out, rec.messages)
	return out, nil
}

// Sweep removes every session whose inactivity at now is strictly greater than
// idleThreshold and returns the removed identifiers.
func (s *Store) Sweep(now time.Time, idleThreshold time.Duration) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for id, rec := range s.records {
		rec.mu.Lock()
		if now.Sub(rec.lastActivity) > idleThreshold {
			rec.removed = true
			delete(s.records, id)
			removed = append(removed, id)
		}
		rec.mu.Unlock()
	}
	sort.Strings(removed)
	return removed
}

// Get returns a copy of one session.
func (s *Store) Get(id string) (*domain.ChatSession, error) {
	rec := s.lookup(id)
	if rec == nil {
		return nil, ErrSessionNotFound
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.removed {
		return nil, ErrSessionNotFound
	}
	return rec.view(true), nil
}

// List returns session metadata without histories, ordered by identifier.
func (s *Store) List() []*domain.ChatSession {
	s.mu.RLock()
	recs := make([]*record, 0, len(s.records))
	for _, rec := range s.records {
		recs = append(recs, rec)
	}
	s.mu.RUnlock()

	out := make([]*domain.ChatSession, 0, len(recs))
	for _, rec := range recs {
		rec.mu.Lock()
		if !rec.removed {
			out = append(out, rec.view(false))
		}
		rec.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Restore inserts previously archived sessions that are not already present.
// Histories are re-anchored on the current system directive and trimmed to the cap.
func (s *Store) Restore(sessions []*domain.ChatSession) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	restored := 0
	for _, cs := range sessions {
		if cs == nil || !ValidID(cs.SessionID) {
			continue
		}
		if _, exists := s.records[cs.SessionID]; exists {
			continue
		}

		turns := cs.Messages
		if len(turns) > 0 && turns[0].Role == domain.RoleSystem {
			turns = turns[1:]
		}
		if keep := s.historyCap - 1; len(turns) > keep {
			turns = turns[len(turns)-keep:]
		}
		messages := make([]domain.Message, 0, len(turns)+1)
		messages = append(messages, domain.Message{Role: domain.RoleSystem, Content: s.systemPrompt})
		messages = append(messages, turns...)

		userID := cs.UserID
		if userID == "" {
			userID = AnonymousUserID
		}
		s.records[cs.SessionID] = &record{
			id:           cs.SessionID,
			userID:       userID,
			createdAt:    cs.CreatedAt,
			lastActivity: cs.LastActivity,
			messages:     messages,
		}
		restored++
	}
	return restored
}

// view must be called with rec.mu held.
func (r *record) view(withHistory bool) *domain.ChatSession {
	cs := &domain.ChatSession{
		SessionID:    r.id,
		UserID:       r.userID,
		CreatedAt:    r.createdAt,
		LastActivity: r.lastActivity,
		MessageCount: len(r.messages),
	}
	if withHistory {
		cs.Messages = make([]domain.Message, len(r.messages))
		copy(cs.Messages, r.messages)
	}
	return cs
}

// SystemPrompt returns the directive stored at index 0 of every session.
func (s *Store) SystemPrompt() string {
	return s.systemPrompt
}
