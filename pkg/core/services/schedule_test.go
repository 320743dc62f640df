package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mattdrummond/netroster/pkg/db"
)

func TestGetScheduleFrom_RoundRobin(t *testing.T) {
	store := &mockStore{
		template: weeklyTemplate("tpl-1"),
		members: []db.RotationMember{
			rotationMember("rm-1", "u1", "Alpha", 1, true),
			rotationMember("rm-2", "u2", "Bravo", 2, true),
			rotationMember("rm-3", "u3", "Charlie", 3, true),
		},
	}

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC) // a Monday
	result, err := GetScheduleFrom(context.Background(), store, zap.NewNop(), "tpl-1", start, 1)
	require.NoError(t, err)
	require.Len(t, result.Schedule, 5)

	want := []string{"u1", "u2", "u3", "u1", "u2"}
	for i, userID := range want {
		require.NotNil(t, result.Schedule[i].UserID)
		assert.Equal(t, userID, *result.Schedule[i].UserID)
		assert.Equal(t, time.Tuesday, result.Schedule[i].Date.Weekday())
	}
	assert.Len(t, result.Members, 3)
}

func TestGetScheduleFrom_CancelledWeekStillConsumesTurn(t *testing.T) {
	store := &mockStore{
		template: weeklyTemplate("tpl-1"),
		members: []db.RotationMember{
			rotationMember("rm-1", "u1", "Alpha", 1, true),
			rotationMember("rm-2", "u2", "Bravo", 2, true),
		},
		overrides: []db.ScheduleOverride{{
			ID:            "ov-1",
			TemplateID:    "tpl-1",
			ScheduledDate: time.Date(2025, 1, 14, 19, 0, 0, 0, time.UTC),
			Reason:        "repeater offline",
		}},
	}

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	result, err := GetScheduleFrom(context.Background(), store, zap.NewNop(), "tpl-1", start, 1)
	require.NoError(t, err)
	require.Len(t, result.Schedule, 5)

	assert.Equal(t, "u1", *result.Schedule[0].UserID)
	assert.True(t, result.Schedule[1].IsCancelled)
	// Bravo's turn was consumed by the cancelled week
	assert.Equal(t, "u1", *result.Schedule[2].UserID)
	assert.Equal(t, "u2", *result.Schedule[3].UserID)
}

func TestGetScheduleFrom_TemplateNotFound(t *testing.T) {
	store := &mockStore{}

	_, err := GetScheduleFrom(context.Background(), store, zap.NewNop(), "missing", time.Now(), 1)
	assert.ErrorIs(t, err, db.ErrTemplateNotFound)
}

func TestGetScheduleFrom_AdHocTemplateYieldsEmptySchedule(t *testing.T) {
	store := &mockStore{
		template: &db.NetTemplate{
			ID:           "tpl-1",
			Name:         "Field Day Net",
			ScheduleType: db.ScheduleAdHoc,
			IsActive:     true,
		},
		members: []db.RotationMember{rotationMember("rm-1", "u1", "Alpha", 1, true)},
	}

	result, err := GetScheduleFrom(context.Background(), store, zap.NewNop(), "tpl-1", time.Now(), 3)
	require.NoError(t, err)
	assert.Empty(t, result.Schedule)
	assert.Len(t, result.Members, 1)
}

func TestGetScheduleFrom_NoActiveMembers(t *testing.T) {
	store := &mockStore{
		template: weeklyTemplate("tpl-1"),
		members:  []db.RotationMember{rotationMember("rm-1", "u1", "Alpha", 1, false)},
	}

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	result, err := GetScheduleFrom(context.Background(), store, zap.NewNop(), "tpl-1", start, 1)
	require.NoError(t, err)
	assert.Empty(t, result.Schedule)
	assert.Empty(t, result.Members)
}
