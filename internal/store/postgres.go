// Package store: PostgreSQL-backed store for transcripts and audit records.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/somOone/spa-assistant/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants.
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("PostgresStore.NewPostgresStore: creating Postgres store", "DSN_set", cfg.PostgresDSN != "")

	dsn := cfg.PostgresDSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}
	slog.Debug("Postgres ping successful")

	slog.Debug("Running Postgres migrations")
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) AddChatMessage(conversationID string, msg models.ChatMessage) error {
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO chat_messages (conversation_id, role, body, created_at) VALUES ($1, $2, $3, $4)`,
		conversationID, string(msg.Role), msg.Text, ts.Unix())
	if err != nil {
		slog.Error("PostgresStore AddChatMessage failed", "error", err, "conversation", conversationID)
		return fmt.Errorf("failed to insert chat message for %s: %w", conversationID, err)
	}
	slog.Debug("PostgresStore AddChatMessage succeeded", "conversation", conversationID, "role", msg.Role)
	return nil
}

func (s *PostgresStore) GetChatMessages(conversationID string) ([]models.ChatMessage, error) {
	rows, err := s.db.Query(`SELECT id, role, body, created_at FROM chat_messages WHERE conversation_id = $1 ORDER BY id`,
		conversationID)
	if err != nil {
		slog.Error("PostgresStore GetChatMessages query failed", "error", err, "conversation", conversationID)
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		var role string
		var createdAt int64
		if err := rows.Scan(&msg.ID, &role, &msg.Text, &createdAt); err != nil {
			slog.Error("PostgresStore GetChatMessages scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan chat message row: %w", err)
		}
		msg.Role = models.Role(role)
		msg.Timestamp = time.Unix(createdAt, 0)
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		slog.Error("PostgresStore GetChatMessages rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate chat message rows: %w", err)
	}
	slog.Debug("PostgresStore GetChatMessages succeeded", "conversation", conversationID, "count", len(messages))
	return messages, nil
}

func (s *PostgresStore) AddClassificationRecord(rec models.ClassificationRecord) error {
	_, err := s.db.Exec(`INSERT INTO classification_records (conversation_id, body, intent, intent_type, confidence, source, matched, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ConversationID, rec.Text, rec.Intent, string(rec.Type), rec.Confidence, string(rec.Source), rec.Matched, rec.Time)
	if err != nil {
		slog.Error("PostgresStore AddClassificationRecord failed", "error", err, "conversation", rec.ConversationID)
		return fmt.Errorf("failed to insert classification record: %w", err)
	}
	slog.Debug("PostgresStore AddClassificationRecord succeeded", "conversation", rec.ConversationID, "source", rec.Source)
	return nil
}

func (s *PostgresStore) GetClassificationStats() ([]models.ClassificationStats, error) {
	rows, err := s.db.Query(`SELECT source, COUNT(*), AVG(confidence) FROM classification_records GROUP BY source ORDER BY source`)
	if err != nil {
		slog.Error("PostgresStore GetClassificationStats query failed", "error", err)
		return nil, fmt.Errorf("failed to query classification stats: %w", err)
	}
	defer rows.Close()

	var stats []models.ClassificationStats
	for rows.Next() {
		var st models.ClassificationStats
		var source string
		if err := rows.Scan(&source, &st.Count, &st.AvgConfidence); err != nil {
			slog.Error("PostgresStore GetClassificationStats scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan classification stats row: %w", err)
		}
		st.Source = models.IntentSource(source)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		slog.Error("PostgresStore GetClassificationStats rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate classification stats rows: %w", err)
	}
	slog.Debug("PostgresStore GetClassificationStats succeeded", "sources", len(stats))
	return stats, nil
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close Postgres database", "error", err)
	}
	return err
}
