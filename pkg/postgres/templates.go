package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mattdrummond/netroster/pkg/db"
)

// GetTemplate retrieves a single net template by id
func (d *DB) GetTemplate(ctx context.Context, templateID string) (*db.NetTemplate, error) {
	var t db.NetTemplate
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, owner_id, schedule_type, schedule_config, is_active
		FROM net_templates
		WHERE id = $1
	`, templateID).Scan(&t.ID, &t.Name, &t.OwnerID, &t.ScheduleType, &t.ScheduleConfig, &t.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", db.ErrTemplateNotFound, templateID)
		}
		return nil, fmt.Errorf("failed to query template: %w", err)
	}
	return &t, nil
}

// GetActiveTemplates retrieves every template with is_active set
func (d *DB) GetActiveTemplates(ctx context.Context) ([]db.NetTemplate, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, owner_id, schedule_type, schedule_config, is_active
		FROM net_templates
		WHERE is_active
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query active templates: %w", err)
	}
	defer rows.Close()

	var templates []db.NetTemplate
	for rows.Next() {
		var t db.NetTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.OwnerID, &t.ScheduleType, &t.ScheduleConfig, &t.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating templates: %w", err)
	}

	return templates, nil
}

// GetFrequencies retrieves the channels a template's net operates on
func (d *DB) GetFrequencies(ctx context.Context, templateID string) ([]db.Frequency, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, template_id, frequency, mode, talkgroup_name, talkgroup_id
		FROM template_frequencies
		WHERE template_id = $1
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query frequencies: %w", err)
	}
	defer rows.Close()

	var frequencies []db.Frequency
	for rows.Next() {
		var f db.Frequency
		if err := rows.Scan(&f.ID, &f.TemplateID, &f.Frequency, &f.Mode, &f.TalkgroupName, &f.TalkgroupID); err != nil {
			return nil, fmt.Errorf("failed to scan frequency: %w", err)
		}
		frequencies = append(frequencies, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating frequencies: %w", err)
	}

	return frequencies, nil
}
