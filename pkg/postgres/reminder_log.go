package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mattdrummond/netroster/pkg/db"
)

// ReminderSent reports whether a reminder was already sent for the given
// (template, user, net date, type) combination
func (d *DB) ReminderSent(ctx context.Context, templateID, userID string, netDate time.Time, reminderType string) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reminder_log
			WHERE template_id = $1 AND user_id = $2 AND net_date = $3 AND reminder_type = $4
		)
	`, templateID, userID, netDate, reminderType).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check reminder log: %w", err)
	}
	return exists, nil
}

// InsertReminderLog records that a reminder was sent. Rows are append-only.
func (d *DB) InsertReminderLog(ctx context.Context, entry *db.ReminderLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now()
	}
	_, err := d.pool.Exec(ctx, `
		INSERT INTO reminder_log (id, template_id, user_id, net_date, reminder_type, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ID, entry.TemplateID, entry.UserID, entry.NetDate, entry.ReminderType, entry.SentAt)
	if err != nil {
		return fmt.Errorf("failed to insert reminder log: %w", err)
	}
	return nil
}
