// Package store: SQLite-backed store for transcripts and audit records.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	"github.com/somOone/spa-assistant/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database
// directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN. The DSN is a
// file path to the SQLite database file; missing directories are created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.SQLiteDSN != "")

	dsn := cfg.SQLiteDSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	slog.Debug("SQLite database directory verified/created", "dir", dir)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}
	slog.Debug("SQLite ping successful")

	slog.Debug("Running SQLite migrations")
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) AddChatMessage(conversationID string, msg models.ChatMessage) error {
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO chat_messages (conversation_id, role, body, created_at) VALUES (?, ?, ?, ?)`,
		conversationID, string(msg.Role), msg.Text, ts.Unix())
	if err != nil {
		slog.Error("SQLiteStore AddChatMessage failed", "error", err, "conversation", conversationID)
		return fmt.Errorf("failed to insert chat message for %s: %w", conversationID, err)
	}
	slog.Debug("SQLiteStore AddChatMessage succeeded", "conversation", conversationID, "role", msg.Role)
	return nil
}

func (s *SQLiteStore) GetChatMessages(conversationID string) ([]models.ChatMessage, error) {
	rows, err := s.db.Query(`SELECT id, role, body, created_at FROM chat_messages WHERE conversation_id = ? ORDER BY id`,
		conversationID)
	if err != nil {
		slog.Error("SQLiteStore GetChatMessages query failed", "error", err, "conversation", conversationID)
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		var role string
		var createdAt int64
		if err := rows.Scan(&msg.ID, &role, &msg.Text, &createdAt); err != nil {
			slog.Error("SQLiteStore GetChatMessages scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan chat message row: %w", err)
		}
		msg.Role = models.Role(role)
		msg.Timestamp = time.Unix(createdAt, 0)
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		slog.Error("SQLiteStore GetChatMessages rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate chat message rows: %w", err)
	}
	slog.Debug("SQLiteStore GetChatMessages succeeded", "conversation", conversationID, "count", len(messages))
	return messages, nil
}

func (s *SQLiteStore) AddClassificationRecord(rec models.ClassificationRecord) error {
	_, err := s.db.Exec(`INSERT INTO classification_records (conversation_id, body, intent, intent_type, confidence, source, matched, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ConversationID, rec.Text, rec.Intent, string(rec.Type), rec.Confidence, string(rec.Source), rec.Matched, rec.Time)
	if err != nil {
		slog.Error("SQLiteStore AddClassificationRecord failed", "error", err, "conversation", rec.ConversationID)
		return fmt.Errorf("failed to insert classification record: %w", err)
	}
	slog.Debug("SQLiteStore AddClassificationRecord succeeded", "conversation", rec.ConversationID, "source", rec.Source)
	return nil
}

func (s *SQLiteStore) GetClassificationStats() ([]models.ClassificationStats, error) {
	rows, err := s.db.Query(`SELECT source, COUNT(*), AVG(confidence) FROM classification_records GROUP BY source ORDER BY source`)
	if err != nil {
		slog.Error("SQLiteStore GetClassificationStats query failed", "error", err)
		return nil, fmt.Errorf("failed to query classification stats: %w", err)
	}
	defer rows.Close()

	var stats []models.ClassificationStats
	for rows.Next() {
		var st models.ClassificationStats
		var source string
		if err := rows.Scan(&source, &st.Count, &st.AvgConfidence); err != nil {
			slog.Error("SQLiteStore GetClassificationStats scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan classification stats row: %w", err)
		}
		st.Source = models.IntentSource(source)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		slog.Error("SQLiteStore GetClassificationStats rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate classification stats rows: %w", err)
	}
	slog.Debug("SQLiteStore GetClassificationStats succeeded", "sources", len(stats))
	return stats, nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close SQLite database", "error", err)
	}
	return err
}
