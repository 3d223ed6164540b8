// Package store persists finished conversation transcripts locally so a
// session survives in readable form after reset or quit.
package store

import (
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/workmate-dev/workmate/pkg/chat/config"
	"github.com/workmate-dev/workmate/pkg/chat/session"
)

// Transcript is one saved conversation.
type Transcript struct {
	ID        uint   `gorm:"primarykey"`
	UID       string `gorm:"uniqueIndex;size:27"`
	ServiceID string `gorm:"index"`
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  []TranscriptMessage
}

// TranscriptMessage is a single message within a transcript.
type TranscriptMessage struct {
	ID           uint `gorm:"primarykey"`
	TranscriptID uint `gorm:"index"`
	Role         string
	Text         string
	Failed       bool
	CreatedAt    time.Time
}

// Store wraps the transcript database.
type Store struct {
	db *gorm.DB
}

// Open connects to the configured database and migrates the schema. The
// sqlite driver derives a default path when the DSN is empty; postgres
// requires one.
func Open(cfg config.DatabaseConfig) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case config.DriverSQLite, "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = config.DefaultHistoryDSN()
		}
		if dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, errors.Wrap(err, "failed to create data directory")
			}
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open transcript database")
	}

	if err := db.AutoMigrate(&Transcript{}, &TranscriptMessage{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate transcript schema")
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to access underlying database")
	}
	return sqlDB.Close()
}

// SaveTranscript persists a session snapshot. Sessions without at least
// one user turn are skipped and return nil without error.
func (s *Store) SaveTranscript(state session.State) (*Transcript, error) {
	if !state.Active() || len(state.Messages) < 2 {
		return nil, nil
	}

	t := &Transcript{
		UID:       shortuuid.New(),
		ServiceID: state.Service,
		Email:     state.Email,
		Messages:  make([]TranscriptMessage, 0, len(state.Messages)),
	}
	for _, m := range state.Messages {
		t.Messages = append(t.Messages, TranscriptMessage{
			Role:      string(m.Role),
			Text:      m.Text,
			Failed:    m.Failed,
			CreatedAt: m.CreatedAt,
		})
	}

	if err := s.db.Create(t).Error; err != nil {
		return nil, errors.Wrap(err, "failed to save transcript")
	}
	return t, nil
}

// ListTranscripts returns the most recent transcripts with their messages,
// newest first. A non-positive limit returns everything.
func (s *Store) ListTranscripts(limit int) ([]Transcript, error) {
	q := s.db.Preload("Messages", messageOrder).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []Transcript
	if err := q.Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list transcripts")
	}
	return out, nil
}

// GetTranscript returns one transcript by UID with messages in insertion
// order.
func (s *Store) GetTranscript(uid string) (*Transcript, error) {
	var t Transcript
	err := s.db.Preload("Messages", messageOrder).Where("uid = ?", uid).First(&t).Error
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load transcript %s", uid)
	}
	return &t, nil
}

// DeleteTranscript removes a transcript and its messages.
func (s *Store) DeleteTranscript(uid string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var t Transcript
		if err := tx.Where("uid = ?", uid).First(&t).Error; err != nil {
			return errors.Wrapf(err, "failed to load transcript %s", uid)
		}
		if err := tx.Where("transcript_id = ?", t.ID).Delete(&TranscriptMessage{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete transcript messages")
		}
		if err := tx.Delete(&t).Error; err != nil {
			return errors.Wrap(err, "failed to delete transcript")
		}
		return nil
	})
}

func messageOrder(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}
