package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattdrummond/netroster/pkg/db"
)

func member(userID, name string, position int, active bool) db.RotationMember {
	return db.RotationMember{
		ID:         "rm-" + userID,
		TemplateID: "tpl-1",
		UserID:     userID,
		UserName:   name,
		Position:   position,
		IsActive:   active,
	}
}

func weeklyDates(n int) []time.Time {
	dates := make([]time.Time, n)
	first := time.Date(2025, 1, 7, 19, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = first.AddDate(0, 0, 7*i)
	}
	return dates
}

func TestActiveMembers_FiltersAndSortsByPosition(t *testing.T) {
	members := []db.RotationMember{
		member("u3", "Charlie", 3, true),
		member("u2", "Bravo", 2, false),
		member("u1", "Alpha", 1, true),
	}

	active := ActiveMembers(members)
	require.Len(t, active, 2)
	assert.Equal(t, "u1", active[0].UserID)
	assert.Equal(t, "u3", active[1].UserID)
}

func TestResolve_RoundRobinWrapsAround(t *testing.T) {
	active := []db.RotationMember{
		member("u1", "Alpha", 1, true),
		member("u2", "Bravo", 2, true),
		member("u3", "Charlie", 3, true),
	}
	dates := weeklyDates(7)

	assigned := Resolve(dates, active)
	require.Len(t, assigned, 7)

	want := []string{"u1", "u2", "u3", "u1", "u2", "u3", "u1"}
	for i, userID := range want {
		require.NotNil(t, assigned[i])
		assert.Equal(t, userID, assigned[i].UserID)
	}
}

func TestResolve_NoActiveMembers(t *testing.T) {
	assigned := Resolve(weeklyDates(3), nil)
	require.Len(t, assigned, 3)
	for _, a := range assigned {
		assert.Nil(t, a)
	}
}

func TestBuildSchedule_BaseRotation(t *testing.T) {
	members := []db.RotationMember{
		member("u2", "Bravo", 2, true),
		member("u1", "Alpha", 1, true),
	}
	dates := weeklyDates(4)

	schedule := BuildSchedule(dates, members, nil)
	require.Len(t, schedule, 4)

	assert.Equal(t, "u1", *schedule[0].UserID)
	assert.Equal(t, "u2", *schedule[1].UserID)
	assert.Equal(t, "u1", *schedule[2].UserID)
	assert.Equal(t, "u2", *schedule[3].UserID)
	for _, e := range schedule {
		assert.False(t, e.IsOverride)
		assert.False(t, e.IsCancelled)
	}
}

func TestBuildSchedule_InactiveMembersSkippedInModulus(t *testing.T) {
	members := []db.RotationMember{
		member("u1", "Alpha", 1, true),
		member("u2", "Bravo", 2, false),
		member("u3", "Charlie", 3, true),
	}
	dates := weeklyDates(4)

	schedule := BuildSchedule(dates, members, nil)
	require.Len(t, schedule, 4)

	assert.Equal(t, "u1", *schedule[0].UserID)
	assert.Equal(t, "u3", *schedule[1].UserID)
	assert.Equal(t, "u1", *schedule[2].UserID)
	assert.Equal(t, "u3", *schedule[3].UserID)
}

func TestBuildSchedule_CancellationDoesNotShiftRotation(t *testing.T) {
	members := []db.RotationMember{
		member("u1", "Alpha", 1, true),
		member("u2", "Bravo", 2, true),
		member("u3", "Charlie", 3, true),
	}
	dates := weeklyDates(5)

	overrides := []db.ScheduleOverride{{
		ID:            "ov-1",
		TemplateID:    "tpl-1",
		ScheduledDate: dates[1],
		Reason:        "band conditions",
	}}

	schedule := BuildSchedule(dates, members, overrides)
	require.Len(t, schedule, 5)

	assert.Equal(t, "u1", *schedule[0].UserID)

	assert.True(t, schedule[1].IsCancelled)
	assert.True(t, schedule[1].IsOverride)
	assert.Nil(t, schedule[1].UserID)
	assert.Equal(t, "band conditions", schedule[1].OverrideReason)

	// The cancelled week still consumed Bravo's turn
	assert.Equal(t, "u3", *schedule[2].UserID)
	assert.Equal(t, "u1", *schedule[3].UserID)
	assert.Equal(t, "u2", *schedule[4].UserID)
}

func TestBuildSchedule_SwapOverride(t *testing.T) {
	members := []db.RotationMember{
		member("u1", "Alpha", 1, true),
		member("u2", "Bravo", 2, true),
	}
	dates := weeklyDates(3)

	replacement := "u9"
	overrides := []db.ScheduleOverride{{
		ID:                  "ov-1",
		TemplateID:          "tpl-1",
		ScheduledDate:       dates[0],
		ReplacementUserID:   &replacement,
		ReplacementName:     "Ninebar",
		ReplacementCallsign: "N9XX",
		Reason:              "holiday cover",
	}}

	schedule := BuildSchedule(dates, members, overrides)
	require.Len(t, schedule, 3)

	assert.Equal(t, "u9", *schedule[0].UserID)
	assert.Equal(t, "Ninebar", schedule[0].UserName)
	assert.Equal(t, "N9XX", schedule[0].UserCallsign)
	assert.True(t, schedule[0].IsOverride)
	assert.False(t, schedule[0].IsCancelled)

	// Later weeks resume the untouched base rotation
	assert.Equal(t, "u2", *schedule[1].UserID)
	assert.Equal(t, "u1", *schedule[2].UserID)
}

func TestBuildSchedule_OverrideMatchesByCalendarDay(t *testing.T) {
	members := []db.RotationMember{member("u1", "Alpha", 1, true)}
	dates := weeklyDates(2)

	// Stored at midnight, occurrence at 19:00 on the same day
	overrides := []db.ScheduleOverride{{
		ID:            "ov-1",
		TemplateID:    "tpl-1",
		ScheduledDate: dates[0].Truncate(24 * time.Hour),
		Reason:        "maintenance",
	}}

	schedule := BuildSchedule(dates, members, overrides)
	require.Len(t, schedule, 2)
	assert.True(t, schedule[0].IsCancelled)
	assert.False(t, schedule[1].IsCancelled)
}

func TestBuildSchedule_EmptyInputs(t *testing.T) {
	members := []db.RotationMember{member("u1", "Alpha", 1, true)}

	assert.Nil(t, BuildSchedule(nil, members, nil))
	assert.Nil(t, BuildSchedule(weeklyDates(2), nil, nil))
	assert.Nil(t, BuildSchedule(weeklyDates(2), []db.RotationMember{member("u1", "Alpha", 1, false)}, nil))
}
