package db

import (
	"context"
	"time"
)

// TemplateStore defines template lookup operations
type TemplateStore interface {
	GetTemplate(ctx context.Context, templateID string) (*NetTemplate, error)
	GetActiveTemplates(ctx context.Context) ([]NetTemplate, error)
}

// MemberStore defines rotation member operations
type MemberStore interface {
	GetRotationMembers(ctx context.Context, templateID string) ([]RotationMember, error)
	InsertRotationMember(ctx context.Context, member *RotationMember) error
	DeleteRotationMember(ctx context.Context, templateID, memberID string) error
	SetMemberPosition(ctx context.Context, templateID, memberID string, position int) error
}

// OverrideStore defines schedule override operations
type OverrideStore interface {
	GetOverrides(ctx context.Context, templateID string) ([]ScheduleOverride, error)
	GetOverrideByDate(ctx context.Context, templateID string, scheduledDate time.Time) (*ScheduleOverride, error)
	InsertOverride(ctx context.Context, override *ScheduleOverride) error
	UpdateOverride(ctx context.Context, override *ScheduleOverride) error
	DeleteOverride(ctx context.Context, templateID, overrideID string) error
}

// ReminderLogStore defines dedup log operations for the reminder loop
type ReminderLogStore interface {
	ReminderSent(ctx context.Context, templateID, userID string, netDate time.Time, reminderType string) (bool, error)
	InsertReminderLog(ctx context.Context, entry *ReminderLog) error
}

// UserStore defines user lookup operations
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*User, error)
}

// SubscriptionStore lists users subscribed to a template's nets
type SubscriptionStore interface {
	GetSubscribers(ctx context.Context, templateID string) ([]User, error)
}

// FrequencyStore lists the channels a template's net operates on
type FrequencyStore interface {
	GetFrequencies(ctx context.Context, templateID string) ([]Frequency, error)
}

// Database is the full persistence surface implemented by postgres.DB
type Database interface {
	TemplateStore
	MemberStore
	OverrideStore
	ReminderLogStore
	UserStore
	SubscriptionStore
	FrequencyStore
}
