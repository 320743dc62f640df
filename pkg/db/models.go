package db

import "time"

// Schedule types supported by NetTemplate
const (
	ScheduleAdHoc   = "ad_hoc"
	ScheduleDaily   = "daily"
	ScheduleWeekly  = "weekly"
	ScheduleMonthly = "monthly"
)

// User represents a registered operator
type User struct {
	ID       string
	Name     string
	Callsign string
	Email    string
	Role     string
}

// NetTemplate represents a recurring net definition
type NetTemplate struct {
	ID             string
	Name           string
	OwnerID        string
	ScheduleType   string
	ScheduleConfig string // free-form JSON: time-of-day, weekday, week-of-month
	IsActive       bool
}

// RotationMember represents one entry in a template's NCS rotation
type RotationMember struct {
	ID         string
	TemplateID string
	UserID     string
	Position   int
	IsActive   bool

	// Denormalized user details, populated by list queries
	UserName     string
	UserCallsign string
	UserEmail    string
}

// ScheduleOverride represents a manual swap or cancellation for one occurrence.
// A nil ReplacementUserID means the net is cancelled on that date.
type ScheduleOverride struct {
	ID                string
	TemplateID        string
	ScheduledDate     time.Time
	OriginalUserID    *string
	ReplacementUserID *string
	Reason            string
	CreatedByID       string

	ReplacementName     string
	ReplacementCallsign string
	ReplacementEmail    string
}

// ReminderLog records that a specific duty reminder was sent.
// Existence of a row is the dedup signal; rows are never updated.
type ReminderLog struct {
	ID           string
	TemplateID   string
	UserID       string
	NetDate      time.Time // date only
	ReminderType string    // "24h", "1h"
	SentAt       time.Time
}

// Subscription marks a user as interested in a template's nets
type Subscription struct {
	ID         string
	TemplateID string
	UserID     string
}

// Frequency represents one channel a net operates on
type Frequency struct {
	ID            string
	TemplateID    string
	Frequency     string
	Mode          string
	TalkgroupName string
	TalkgroupID   string
}

// Label returns a displayable description of the channel
func (f Frequency) Label() string {
	if f.Frequency != "" {
		if f.Mode != "" {
			return f.Frequency + " " + f.Mode
		}
		return f.Frequency
	}
	if f.TalkgroupName != "" {
		if f.TalkgroupID != "" {
			return f.TalkgroupName + " (TG " + f.TalkgroupID + ")"
		}
		return f.TalkgroupName
	}
	return ""
}
