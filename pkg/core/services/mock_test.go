package services

import (
	"context"
	"time"

	"github.com/mattdrummond/netroster/pkg/db"
)

// mockStore is an in-memory stand-in for the postgres store. Zero values
// behave like an empty database; tests populate only what they need.
type mockStore struct {
	template  *db.NetTemplate
	members   []db.RotationMember
	overrides []db.ScheduleOverride
	users     map[string]*db.User
	subs      []db.User

	inserted      []*db.RotationMember
	removed       []string
	positions     map[string]int
	insertedOv    []*db.ScheduleOverride
	updatedOv     []*db.ScheduleOverride
	deletedOv     []string
	templateErr   error
	insertMemErr  error
	overridesErr  error
	subscriberErr error
}

func (m *mockStore) GetTemplate(_ context.Context, templateID string) (*db.NetTemplate, error) {
	if m.templateErr != nil {
		return nil, m.templateErr
	}
	if m.template == nil || m.template.ID != templateID {
		return nil, db.ErrTemplateNotFound
	}
	return m.template, nil
}

func (m *mockStore) GetRotationMembers(_ context.Context, _ string) ([]db.RotationMember, error) {
	return m.members, nil
}

func (m *mockStore) GetOverrides(_ context.Context, _ string) ([]db.ScheduleOverride, error) {
	if m.overridesErr != nil {
		return nil, m.overridesErr
	}
	return m.overrides, nil
}

func (m *mockStore) GetOverrideByDate(_ context.Context, _ string, scheduledDate time.Time) (*db.ScheduleOverride, error) {
	day := scheduledDate.Format("2006-01-02")
	for i := range m.overrides {
		if m.overrides[i].ScheduledDate.Format("2006-01-02") == day {
			return &m.overrides[i], nil
		}
	}
	return nil, nil
}

func (m *mockStore) InsertRotationMember(_ context.Context, member *db.RotationMember) error {
	if m.insertMemErr != nil {
		return m.insertMemErr
	}
	m.inserted = append(m.inserted, member)
	m.members = append(m.members, *member)
	return nil
}

func (m *mockStore) DeleteRotationMember(_ context.Context, _, memberID string) error {
	for i, mem := range m.members {
		if mem.ID == memberID {
			m.members = append(m.members[:i], m.members[i+1:]...)
			m.removed = append(m.removed, memberID)
			return nil
		}
	}
	return db.ErrMemberNotFound
}

func (m *mockStore) SetMemberPosition(_ context.Context, _, memberID string, position int) error {
	if m.positions == nil {
		m.positions = make(map[string]int)
	}
	m.positions[memberID] = position
	for i := range m.members {
		if m.members[i].ID == memberID {
			m.members[i].Position = position
		}
	}
	return nil
}

func (m *mockStore) InsertOverride(_ context.Context, override *db.ScheduleOverride) error {
	m.insertedOv = append(m.insertedOv, override)
	m.overrides = append(m.overrides, *override)
	return nil
}

func (m *mockStore) UpdateOverride(_ context.Context, override *db.ScheduleOverride) error {
	m.updatedOv = append(m.updatedOv, override)
	for i := range m.overrides {
		if m.overrides[i].ID == override.ID {
			m.overrides[i] = *override
		}
	}
	return nil
}

func (m *mockStore) DeleteOverride(_ context.Context, _, overrideID string) error {
	for i, ov := range m.overrides {
		if ov.ID == overrideID {
			m.overrides = append(m.overrides[:i], m.overrides[i+1:]...)
			m.deletedOv = append(m.deletedOv, overrideID)
			return nil
		}
	}
	return db.ErrOverrideNotFound
}

func (m *mockStore) GetSubscribers(_ context.Context, _ string) ([]db.User, error) {
	if m.subscriberErr != nil {
		return nil, m.subscriberErr
	}
	return m.subs, nil
}

func (m *mockStore) GetUser(_ context.Context, userID string) (*db.User, error) {
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, db.ErrUserNotFound
}

// mockNotifier records every cancellation notice it is asked to send
type mockNotifier struct {
	notices []CancellationNotice
	err     error
}

func (n *mockNotifier) SendNetCancellation(_ context.Context, notice CancellationNotice) error {
	if n.err != nil {
		return n.err
	}
	n.notices = append(n.notices, notice)
	return nil
}

func weeklyTemplate(id string) *db.NetTemplate {
	return &db.NetTemplate{
		ID:             id,
		Name:           "Monday Night Net",
		OwnerID:        "owner-1",
		ScheduleType:   db.ScheduleWeekly,
		ScheduleConfig: `{"time":"19:00","day_of_week":2}`,
		IsActive:       true,
	}
}

func rotationMember(id, userID, name string, position int, active bool) db.RotationMember {
	return db.RotationMember{
		ID:         id,
		TemplateID: "tpl-1",
		UserID:     userID,
		UserName:   name,
		Position:   position,
		IsActive:   active,
	}
}
