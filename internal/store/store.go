// Package store provides storage backends for the spa assistant's chat
// transcripts and classification audit trail.
//
// It includes an in-memory store for tests and single-process deployments,
// plus SQLite and PostgreSQL backends selected by DSN.
package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/somOone/spa-assistant/internal/models"
)

// Store persists chat transcripts and per-turn classification outcomes.
type Store interface {
	// AddChatMessage appends one transcript message for a conversation.
	AddChatMessage(conversationID string, msg models.ChatMessage) error

	// GetChatMessages returns a conversation's transcript in insertion order.
	GetChatMessages(conversationID string) ([]models.ChatMessage, error)

	// AddClassificationRecord appends one classification audit record.
	AddClassificationRecord(rec models.ClassificationRecord) error

	// GetClassificationStats aggregates audit records per classifier source.
	GetClassificationStats() ([]models.ClassificationStats, error)

	// Close releases underlying resources.
	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	PostgresDSN string
	SQLiteDSN   string
}

// Option defines a configuration option for store backends.
type Option func(*Opts)

// WithPostgresDSN selects the PostgreSQL backend with the given connection
// string.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) { o.PostgresDSN = dsn }
}

// WithSQLiteDSN selects the SQLite backend with the given database file path.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) { o.SQLiteDSN = dsn }
}

// NewStore creates the store backend implied by the options: Postgres when a
// Postgres DSN is set, SQLite when a file path is set, otherwise in-memory.
func NewStore(opts ...Option) (Store, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	switch {
	case cfg.PostgresDSN != "":
		return NewPostgresStore(opts...)
	case cfg.SQLiteDSN != "":
		return NewSQLiteStore(opts...)
	default:
		return NewInMemoryStore(), nil
	}
}

// DetectDSNType reports the database driver implied by a DSN: "postgres"
// for URL or key=value Postgres connection strings, otherwise "sqlite3".
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	if strings.Contains(dsn, "host=") || strings.Contains(dsn, "dbname=") {
		return "postgres"
	}
	return "sqlite3"
}

// InMemoryStore keeps transcripts and audit records in process memory.
type InMemoryStore struct {
	mu       sync.RWMutex
	messages map[string][]models.ChatMessage
	records  []models.ClassificationRecord
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		messages: make(map[string][]models.ChatMessage),
	}
}

// AddChatMessage appends a message to the conversation's transcript.
func (s *InMemoryStore) AddChatMessage(conversationID string, msg models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	s.messages[conversationID] = append(s.messages[conversationID], msg)
	return nil
}

// GetChatMessages returns a copy of the conversation's transcript.
func (s *InMemoryStore) GetChatMessages(conversationID string) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.messages[conversationID]
	out := make([]models.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

// AddClassificationRecord appends an audit record.
func (s *InMemoryStore) AddClassificationRecord(rec models.ClassificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// GetClassificationStats aggregates records per source, sorted by source.
func (s *InMemoryStore) GetClassificationStats() ([]models.ClassificationStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type agg struct {
		count int
		sum   float64
	}
	bySource := make(map[models.IntentSource]*agg)
	for _, rec := range s.records {
		a, exists := bySource[rec.Source]
		if !exists {
			a = &agg{}
			bySource[rec.Source] = a
		}
		a.count++
		a.sum += rec.Confidence
	}

	stats := make([]models.ClassificationStats, 0, len(bySource))
	for source, a := range bySource {
		stats = append(stats, models.ClassificationStats{
			Source:        source,
			Count:         a.count,
			AvgConfidence: a.sum / float64(a.count),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Source < stats[j].Source })
	return stats, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}
