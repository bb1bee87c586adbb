package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"scan-sync/core/session"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is the relational shape of a stored session. The catalog and ledger
// travel as one JSON payload; only the lifecycle fields get columns.
type Record struct {
	Code      string    `gorm:"primaryKey;size:8"`
	Payload   []byte    `gorm:"type:json"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index"`
}

// TableName maps the record to the sessions table.
func (Record) TableName() string {
	return "sessions"
}

// Database stores sessions in MySQL through GORM. Update serializes writers
// with a SELECT ... FOR UPDATE row lock inside a transaction.
type Database struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDatabase migrates the sessions table and returns the store.
func NewDatabase(db *gorm.DB) (*Database, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sessions table: %w", err)
	}
	return &Database{db: db, now: time.Now}, nil
}

var _ session.Store = (*Database)(nil)

func (d *Database) Get(ctx context.Context, id string) (*session.Session, error) {
	var record Record
	err := d.db.WithContext(ctx).
		Where("code = ? AND expires_at > ?", id, d.now()).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session %s: %w", id, err)
	}
	return decodeSession(record.Payload)
}

func (d *Database) Put(ctx context.Context, s *session.Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	record := Record{Code: s.ID, Payload: payload, CreatedAt: s.CreatedAt, ExpiresAt: s.ExpiresAt}

	err = d.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to store session %s: %w", s.ID, err)
	}
	return nil
}

func (d *Database) Update(ctx context.Context, id string, fn func(*session.Session) error) (*session.Session, error) {
	var updated *session.Session

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record Record
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("code = ? AND expires_at > ?", id, d.now()).
			First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return session.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to fetch session %s: %w", id, err)
		}

		s, err := decodeSession(record.Payload)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}

		payload, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to encode session: %w", err)
		}
		record.Payload = payload
		record.ExpiresAt = s.ExpiresAt
		if err := tx.Save(&record).Error; err != nil {
			return fmt.Errorf("failed to update session %s: %w", id, err)
		}

		updated = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (d *Database) Delete(ctx context.Context, id string) error {
	err := d.db.WithContext(ctx).Where("code = ?", id).Delete(&Record{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

func (d *Database) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Record{}).
		Where("code = ? AND expires_at > ?", id, d.now()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check session %s: %w", id, err)
	}
	return count > 0, nil
}
