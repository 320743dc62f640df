package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mattdrummond/netroster/pkg/core/recurrence"
	"github.com/mattdrummond/netroster/pkg/core/roster"
	"github.com/mattdrummond/netroster/pkg/db"
)

// ScheduleStore defines the database operations needed to compute a schedule
type ScheduleStore interface {
	GetTemplate(ctx context.Context, templateID string) (*db.NetTemplate, error)
	GetRotationMembers(ctx context.Context, templateID string) ([]db.RotationMember, error)
	GetOverrides(ctx context.Context, templateID string) ([]db.ScheduleOverride, error)
}

// ScheduleResult bundles the computed schedule with the rotation it was
// derived from
type ScheduleResult struct {
	TemplateID string
	Schedule   []roster.Entry
	Members    []db.RotationMember
}

// GetSchedule computes the NCS schedule for a template starting today
func GetSchedule(ctx context.Context, store ScheduleStore, logger *zap.Logger, templateID string, monthsAhead int) (*ScheduleResult, error) {
	return GetScheduleFrom(ctx, store, logger, templateID, startOfDay(time.Now()), monthsAhead)
}

// GetScheduleFrom computes the NCS schedule for a template over an explicit
// window: recurrence expansion, round-robin rotation, then the override
// overlay
func GetScheduleFrom(ctx context.Context, store ScheduleStore, logger *zap.Logger, templateID string, start time.Time, monthsAhead int) (*ScheduleResult, error) {
	template, err := store.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	dates, err := recurrence.Expand(template.ScheduleType, template.ScheduleConfig, start, monthsAhead)
	if err != nil {
		return nil, fmt.Errorf("failed to expand schedule for template %s: %w", templateID, err)
	}

	members, err := store.GetRotationMembers(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rotation members: %w", err)
	}

	overrides, err := store.GetOverrides(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overrides: %w", err)
	}

	schedule := roster.BuildSchedule(dates, members, overrides)

	logger.Debug("Computed schedule",
		zap.String("template_id", templateID),
		zap.Int("occurrences", len(dates)),
		zap.Int("entries", len(schedule)))

	return &ScheduleResult{
		TemplateID: templateID,
		Schedule:   schedule,
		Members:    roster.ActiveMembers(members),
	}, nil
}

// GetNext returns the assignment for the next scheduled net, or nil when
// the recurrence yields nothing in the next month (ad_hoc templates)
func GetNext(ctx context.Context, store ScheduleStore, logger *zap.Logger, templateID string) (*roster.Entry, error) {
	result, err := GetScheduleFrom(ctx, store, logger, templateID, startOfDay(time.Now()), 1)
	if err != nil {
		return nil, err
	}
	if len(result.Schedule) == 0 {
		return nil, nil
	}
	next := result.Schedule[0]
	return &next, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
