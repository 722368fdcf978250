package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ashureev/mira-chat/internal/domain"
	"github.com/ashureev/mira-chat/internal/shared"
	_ "modernc.org/sqlite"
)

const (
	maxRetries     = 3
	retryBaseDelay = 100 * time.Millisecond
)

var _ Repository = (*SQLiteStore)(nil)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	writeMu sync.Mutex // serializes writers to avoid SQLITE_BUSY
	now     func() time.Time
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL lets readers proceed while a turn is being saved.
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS chat_sessions (
		session_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		messages_json TEXT NOT NULL,
		message_count INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		last_activity INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chat_sessions_last_activity ON chat_sessions(last_activity);
	CREATE INDEX IF NOT EXISTS idx_chat_sessions_user ON chat_sessions(user_id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// withRetry runs op, retrying SQLite lock conflicts with exponential backoff.
func (s *SQLiteStore) withRetry(ctx context.Context, name string, op func() error) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		s.writeMu.Lock()
		err = op()
		s.writeMu.Unlock()
		if err == nil || !shared.IsSQLiteConflictError(err) {
			return err
		}
		if i == maxRetries-1 {
			break
		}

		delay := retryBaseDelay * time.Duration(1<<i) // 100ms, 200ms
		slog.Debug("SQLite write conflict, retrying", "op", name, "attempt", i+1, "delay", delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", name, maxRetries, err)
}

// SaveChatSession creates or replaces a session row.
func (s *SQLiteStore) SaveChatSession(ctx context.Context, session *domain.ChatSession) error {
	if session == nil || session.SessionID == "" {
		return errors.New("session id is required")
	}
	messagesJSON, err := json.Marshal(session.Messages)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}

	query := `
	INSERT INTO chat_sessions (session_id, user_id, messages_json, message_count, created_at, last_activity, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(session_id) DO UPDATE SET
		user_id = excluded.user_id,
		messages_json = excluded.messages_json,
		message_count = excluded.message_count,
		last_activity = excluded.last_activity,
		updated_at = excluded.updated_at`

	return s.withRetry(ctx, "save chat session", func() error {
		_, err := s.db.ExecContext(ctx, query,
			session.SessionID, session.UserID, string(messagesJSON), len(session.Messages),
			session.CreatedAt.UnixMilli(), session.LastActivity.UnixMilli(), s.now().UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("upsert chat session: %w", err)
		}
		return nil
	})
}

const selectSession = `
	SELECT session_id, user_id, messages_json, created_at, last_activity
	FROM chat_sessions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.ChatSession, error) {
	var (
		session              domain.ChatSession
		messagesJSON         string
		createdAt, lastActiv int64
	)
	if err := row.Scan(&session.SessionID, &session.UserID, &messagesJSON, &createdAt, &lastActiv); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(messagesJSON), &session.Messages); err != nil {
		return nil, fmt.Errorf("decode messages of %s: %w", session.SessionID, err)
	}
	session.CreatedAt = time.UnixMilli(createdAt)
	session.LastActivity = time.UnixMilli(lastActiv)
	session.MessageCount = len(session.Messages)
	return &session, nil
}

// GetChatSession returns nil, nil for unknown sessions.
func (s *SQLiteStore) GetChatSession(ctx context.Context, sessionID string) (*domain.ChatSession, error) {
	row := s.db.QueryRowContext(ctx, selectSession+` WHERE session_id = ?`, sessionID)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan chat session: %w", err)
	}
	return session, nil
}

// LoadActiveSessions returns sessions active within ttl, oldest first.
func (s *SQLiteStore) LoadActiveSessions(ctx context.Context, ttl time.Duration) ([]*domain.ChatSession, error) {
	threshold := s.now().Add(-ttl).UnixMilli()
	rows, err := s.db.QueryContext(ctx, selectSession+` WHERE last_activity >= ? ORDER BY last_activity`, threshold)
	if err != nil {
		return nil, fmt.Errorf("query active sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close active sessions rows", "error", closeErr)
		}
	}()

	var sessions []*domain.ChatSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			slog.Warn("skipping unreadable archived session", "error", err)
			continue
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active sessions: %w", err)
	}
	return sessions, nil
}

// DeleteChatSessions removes the given sessions.
func (s *SQLiteStore) DeleteChatSessions(ctx context.Context, sessionIDs []string) (int64, error) {
	if len(sessionIDs) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(sessionIDs)), ",")
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		args[i] = id
	}

	var deleted int64
	err := s.withRetry(ctx, "delete chat sessions", func() error {
		result, err := s.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE session_id IN (`+placeholders+`)`, args...)
		if err != nil {
			return fmt.Errorf("delete chat sessions: %w", err)
		}
		deleted, err = result.RowsAffected()
		return err
	})
	return deleted, err
}

// CleanupExpiredSessions removes sessions idle longer than ttl.
func (s *SQLiteStore) CleanupExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error) {
	threshold := s.now().Add(-ttl).UnixMilli()

	var deleted int64
	err := s.withRetry(ctx, "cleanup expired sessions", func() error {
		result, err := s.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE last_activity < ?`, threshold)
		if err != nil {
			return fmt.Errorf("cleanup expired sessions: %w", err)
		}
		deleted, err = result.RowsAffected()
		return err
	})
	return deleted, err
}
