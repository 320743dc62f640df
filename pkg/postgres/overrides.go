package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mattdrummond/netroster/pkg/db"
)

const overrideColumns = `
	o.id, o.template_id, o.scheduled_date,
	o.original_user_id, o.replacement_user_id, o.reason, o.created_by_id,
	COALESCE(r.name, ''), COALESCE(r.callsign, ''), COALESCE(r.email, '')
`

// GetOverrides retrieves all schedule overrides for a template with
// replacement user details
func (d *DB) GetOverrides(ctx context.Context, templateID string) ([]db.ScheduleOverride, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+overrideColumns+`
		FROM schedule_overrides o
		LEFT JOIN users r ON r.id = o.replacement_user_id
		WHERE o.template_id = $1
		ORDER BY o.scheduled_date
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query overrides: %w", err)
	}
	defer rows.Close()

	var overrides []db.ScheduleOverride
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overrides: %w", err)
	}

	return overrides, nil
}

// GetOverrideByDate retrieves the override for one occurrence, matched by
// calendar day, or nil when no override exists
func (d *DB) GetOverrideByDate(ctx context.Context, templateID string, scheduledDate time.Time) (*db.ScheduleOverride, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT `+overrideColumns+`
		FROM schedule_overrides o
		LEFT JOIN users r ON r.id = o.replacement_user_id
		WHERE o.template_id = $1
		  AND (o.scheduled_date AT TIME ZONE 'UTC')::date = ($2::timestamptz AT TIME ZONE 'UTC')::date
	`, templateID, scheduledDate)

	o, err := scanOverride(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

// InsertOverride inserts a new schedule override
func (d *DB) InsertOverride(ctx context.Context, override *db.ScheduleOverride) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO schedule_overrides
			(id, template_id, scheduled_date, original_user_id, replacement_user_id, reason, created_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, override.ID, override.TemplateID, override.ScheduledDate,
		override.OriginalUserID, override.ReplacementUserID, override.Reason, nullable(override.CreatedByID))
	if err != nil {
		return fmt.Errorf("failed to insert override: %w", err)
	}
	return nil
}

// UpdateOverride updates an existing override's replacement, reason, and
// original-user snapshot
func (d *DB) UpdateOverride(ctx context.Context, override *db.ScheduleOverride) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE schedule_overrides
		SET replacement_user_id = $2, reason = $3, original_user_id = $4
		WHERE id = $1
	`, override.ID, override.ReplacementUserID, override.Reason, override.OriginalUserID)
	if err != nil {
		return fmt.Errorf("failed to update override: %w", err)
	}
	return nil
}

// DeleteOverride removes an override, reverting the occurrence to the
// base rotation
func (d *DB) DeleteOverride(ctx context.Context, templateID, overrideID string) error {
	tag, err := d.pool.Exec(ctx, `
		DELETE FROM schedule_overrides WHERE id = $1 AND template_id = $2
	`, overrideID, templateID)
	if err != nil {
		return fmt.Errorf("failed to delete override: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", db.ErrOverrideNotFound, overrideID)
	}
	return nil
}

func scanOverride(row pgx.Row) (*db.ScheduleOverride, error) {
	var o db.ScheduleOverride
	var createdBy *string
	err := row.Scan(&o.ID, &o.TemplateID, &o.ScheduledDate,
		&o.OriginalUserID, &o.ReplacementUserID, &o.Reason, &createdBy,
		&o.ReplacementName, &o.ReplacementCallsign, &o.ReplacementEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan override: %w", err)
	}
	if createdBy != nil {
		o.CreatedByID = *createdBy
	}
	return &o, nil
}

// nullable maps an empty string to a SQL NULL for optional UUID columns
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
