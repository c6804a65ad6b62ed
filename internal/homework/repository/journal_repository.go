package repository

import (
	"context"
	"fmt"
	"time"

	"hwbot/internal/common/db"
	"hwbot/internal/homework/model"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// Journal records delivered messages.
type Journal interface {
	Record(ctx context.Context, delivery model.Delivery) error
	Recent(ctx context.Context, limit int) ([]model.Delivery, error)
}

// NoopJournal is used when no journal database is configured.
type NoopJournal struct{}

func (NoopJournal) Record(context.Context, model.Delivery) error { return nil }

func (NoopJournal) Recent(context.Context, int) ([]model.Delivery, error) {
	return []model.Delivery{}, nil
}

// SQLJournal stores deliveries in the deliveries table.
type SQLJournal struct {
	db db.Database
}

// NewSQLJournal creates the deliveries table if needed.
func NewSQLJournal(ctx context.Context, database db.Database) (*SQLJournal, error) {
	j := &SQLJournal{db: database}
	if err := j.migrate(ctx); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *SQLJournal) migrate(ctx context.Context) error {
	nameType := "TEXT"
	if j.db.Driver() == db.DriverMySQL {
		nameType = "VARCHAR(255)"
	}
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS deliveries (
	id %s,
	kind VARCHAR(16) NOT NULL,
	homework_name %s NOT NULL,
	status VARCHAR(32) NOT NULL,
	text TEXT NOT NULL,
	cursor_value BIGINT NOT NULL,
	sent_at BIGINT NOT NULL
)`, db.AutoIncrementPrimaryKey(j.db.Driver()), nameType)
	if _, err := j.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create deliveries table failed: %w", err)
	}
	return nil
}

func (j *SQLJournal) Record(ctx context.Context, delivery model.Delivery) error {
	sentAt := delivery.SentAt
	if sentAt.IsZero() {
		sentAt = time.Now()
	}
	query := "INSERT INTO deliveries (kind, homework_name, status, text, cursor_value, sent_at) VALUES (?, ?, ?, ?, ?, ?)"
	_, err := j.db.Exec(ctx, query,
		string(delivery.Kind), delivery.HomeworkName, delivery.Status, delivery.Text,
		delivery.Cursor, sentAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("record delivery failed: %w", err)
	}
	return nil
}

// Recent returns the newest deliveries first.
func (j *SQLJournal) Recent(ctx context.Context, limit int) ([]model.Delivery, error) {
	limit = ClampLimit(limit)
	query := "SELECT id, kind, homework_name, status, text, cursor_value, sent_at FROM deliveries ORDER BY id DESC LIMIT ?"
	rows, err := j.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list deliveries failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]model.Delivery, 0, limit)
	for rows.Next() {
		var (
			d      model.Delivery
			kind   string
			sentAt int64
		)
		if err := rows.Scan(&d.ID, &kind, &d.HomeworkName, &d.Status, &d.Text, &d.Cursor, &sentAt); err != nil {
			return nil, fmt.Errorf("scan delivery failed: %w", err)
		}
		d.Kind = model.DeliveryKind(kind)
		d.SentAt = time.UnixMilli(sentAt).UTC()
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deliveries failed: %w", err)
	}
	return out, nil
}

// ClampLimit bounds a page size to 1..100; zero or less means the default.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return defaultRecentLimit
	}
	if limit > maxRecentLimit {
		return maxRecentLimit
	}
	return limit
}
