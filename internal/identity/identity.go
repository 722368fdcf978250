// Package identity persists the CLI's user identifier and last-known session
// identifier across process runs.
package identity

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AnonymousUserID is used when no identity file exists.
	AnonymousUserID = "anonymous"
	dirName         = ".mira"
	fileName        = "identity.yaml"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// Record is the content of the identity file.
type Record struct {
	UserID      string    `yaml:"user_id"`
	SessionID   string    `yaml:"session_id"`
	LastUpdated time.Time `yaml:"last_updated"`
}

// DefaultPath returns ~/.mira/identity.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, dirName, fileName), nil
}

// Store reads and writes one identity file. Every write replaces the whole
// file.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored record. A missing file yields the anonymous user
// with no session.
func (s *Store) Load() (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Record{UserID: AnonymousUserID}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("read identity file: %w", err)
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("parse identity file %s: %w", s.path, err)
	}
	rec.UserID = strings.TrimSpace(rec.UserID)
	if rec.UserID == "" {
		rec.UserID = AnonymousUserID
	}
	rec.SessionID = sanitizeSessionID(rec.SessionID)
	return rec, nil
}

// Save overwrites the file with rec, stamping LastUpdated.
func (s *Store) Save(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(rec)
}

func (s *Store) save(rec Record) error {
	rec.LastUpdated = s.now().UTC()
	data, err := yaml.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create identity dir: %w", err)
	}

	// Write to a sibling then rename so readers never see a partial file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write identity file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace identity file: %w", err)
	}
	return nil
}

// SetSession records sessionID as the last-known session, keeping the user.
func (s *Store) SetSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load()
	if err != nil {
		return err
	}
	rec.SessionID = sanitizeSessionID(sessionID)
	return s.save(rec)
}

// SetUser records userID and forgets the session, which belonged to the
// previous user.
func (s *Store) SetUser(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = AnonymousUserID
	}
	return s.save(Record{UserID: userID})
}

func sanitizeSessionID(id string) string {
	id = strings.TrimSpace(id)
	if !sessionIDPattern.MatchString(id) {
		return ""
	}
	return id
}
