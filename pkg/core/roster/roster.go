package roster

import (
	"sort"
	"time"

	"github.com/mattdrummond/netroster/pkg/db"
)

// Entry is the resolved assignment for one occurrence. A nil UserID with
// IsCancelled set means the net was cancelled by an override; a nil UserID
// without IsCancelled means the rotation has no active members.
type Entry struct {
	Date           time.Time
	UserID         *string
	UserName       string
	UserCallsign   string
	UserEmail      string
	IsOverride     bool
	IsCancelled    bool
	OverrideReason string
}

// ActiveMembers filters to active members sorted by rotation position
func ActiveMembers(members []db.RotationMember) []db.RotationMember {
	active := make([]db.RotationMember, 0, len(members))
	for _, m := range members {
		if m.IsActive {
			active = append(active, m)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Position < active[j].Position })
	return active
}

// Resolve assigns one active member per date by round-robin position.
// The result is aligned 1:1 with dates. The rotation index advances once
// per generated occurrence; overrides are applied later as an overlay and
// never shift the base rotation.
func Resolve(dates []time.Time, active []db.RotationMember) []*db.RotationMember {
	assigned := make([]*db.RotationMember, len(dates))
	if len(active) == 0 {
		return assigned
	}
	for i := range dates {
		assigned[i] = &active[i%len(active)]
	}
	return assigned
}

// BuildSchedule computes the final schedule for the given dates: the base
// round-robin rotation with date-keyed overrides layered on top. Overrides
// are matched by calendar day.
func BuildSchedule(dates []time.Time, members []db.RotationMember, overrides []db.ScheduleOverride) []Entry {
	if len(dates) == 0 {
		return nil
	}

	active := ActiveMembers(members)
	if len(active) == 0 {
		return nil
	}
	assigned := Resolve(dates, active)

	byDay := make(map[string]*db.ScheduleOverride, len(overrides))
	for i := range overrides {
		byDay[dayKey(overrides[i].ScheduledDate)] = &overrides[i]
	}

	schedule := make([]Entry, 0, len(dates))
	for i, date := range dates {
		if ov, ok := byDay[dayKey(date)]; ok {
			schedule = append(schedule, overrideEntry(date, ov))
			continue
		}

		member := assigned[i]
		userID := member.UserID
		schedule = append(schedule, Entry{
			Date:         date,
			UserID:       &userID,
			UserName:     member.UserName,
			UserCallsign: member.UserCallsign,
			UserEmail:    member.UserEmail,
		})
	}

	return schedule
}

func overrideEntry(date time.Time, ov *db.ScheduleOverride) Entry {
	if ov.ReplacementUserID == nil {
		// Net is cancelled on this date
		return Entry{
			Date:           date,
			IsOverride:     true,
			IsCancelled:    true,
			OverrideReason: ov.Reason,
		}
	}
	return Entry{
		Date:           date,
		UserID:         ov.ReplacementUserID,
		UserName:       ov.ReplacementName,
		UserCallsign:   ov.ReplacementCallsign,
		UserEmail:      ov.ReplacementEmail,
		IsOverride:     true,
		OverrideReason: ov.Reason,
	}
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
