package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mattdrummond/netroster/pkg/db"
)

// fakeStore serves one daily template with a single-member rotation
type fakeStore struct {
	templates   []db.NetTemplate
	members     []db.RotationMember
	overrides   []db.ScheduleOverride
	users       map[string]*db.User
	frequencies []db.Frequency

	alreadySent  bool
	sentChecks   []string
	inserted     []*db.ReminderLog
	insertErr    error
	templatesErr error
}

func (f *fakeStore) GetTemplate(_ context.Context, templateID string) (*db.NetTemplate, error) {
	for i := range f.templates {
		if f.templates[i].ID == templateID {
			return &f.templates[i], nil
		}
	}
	return nil, db.ErrTemplateNotFound
}

func (f *fakeStore) GetActiveTemplates(_ context.Context) ([]db.NetTemplate, error) {
	if f.templatesErr != nil {
		return nil, f.templatesErr
	}
	return f.templates, nil
}

func (f *fakeStore) GetRotationMembers(_ context.Context, _ string) ([]db.RotationMember, error) {
	return f.members, nil
}

func (f *fakeStore) GetOverrides(_ context.Context, _ string) ([]db.ScheduleOverride, error) {
	return f.overrides, nil
}

func (f *fakeStore) GetUser(_ context.Context, userID string) (*db.User, error) {
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, db.ErrUserNotFound
}

func (f *fakeStore) GetFrequencies(_ context.Context, _ string) ([]db.Frequency, error) {
	return f.frequencies, nil
}

func (f *fakeStore) ReminderSent(_ context.Context, templateID, userID string, netDate time.Time, reminderType string) (bool, error) {
	f.sentChecks = append(f.sentChecks, reminderType)
	return f.alreadySent, nil
}

func (f *fakeStore) InsertReminderLog(_ context.Context, entry *db.ReminderLog) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, entry)
	return nil
}

type fakeNotifier struct {
	reminders []DutyReminder
	err       error
}

func (n *fakeNotifier) SendDutyReminder(_ context.Context, reminder DutyReminder) error {
	if n.err != nil {
		return n.err
	}
	n.reminders = append(n.reminders, reminder)
	return nil
}

func dailyStore() *fakeStore {
	return &fakeStore{
		templates: []db.NetTemplate{{
			ID:             "tpl-1",
			Name:           "Evening Net",
			ScheduleType:   db.ScheduleDaily,
			ScheduleConfig: `{"time":"19:00"}`,
			IsActive:       true,
		}},
		members: []db.RotationMember{{
			ID:         "rm-1",
			TemplateID: "tpl-1",
			UserID:     "u1",
			UserName:   "Alpha",
			Position:   1,
			IsActive:   true,
		}},
		users: map[string]*db.User{
			"u1": {ID: "u1", Name: "Alpha", Callsign: "AA1AA", Email: "alpha@example.com"},
		},
		frequencies: []db.Frequency{{
			ID:         "fq-1",
			TemplateID: "tpl-1",
			Frequency:  "146.520 MHz",
			Mode:       "FM",
		}},
	}
}

func newTestScheduler(store *fakeStore, notifier *fakeNotifier, now time.Time) *Scheduler {
	s := New(store, notifier, zap.NewNop(), "https://example.com/scheduler")
	s.now = func() time.Time { return now }
	return s
}

func TestCheckAndSend_OneHourReminderWithinTolerance(t *testing.T) {
	store := dailyStore()
	notifier := &fakeNotifier{}

	// 54 minutes before the 19:00 net: within half an hour of the 1h
	// offset, well outside the 24h offset
	now := time.Date(2025, 1, 14, 18, 6, 0, 0, time.UTC)
	s := newTestScheduler(store, notifier, now)

	s.checkAndSend(context.Background())

	require.Len(t, notifier.reminders, 1)
	r := notifier.reminders[0]
	assert.Equal(t, "alpha@example.com", r.Email)
	assert.Equal(t, "Alpha", r.Name)
	assert.Equal(t, "Evening Net", r.NetName)
	assert.Equal(t, "Tuesday, January 14, 2025", r.NetDate)
	assert.Equal(t, "07:00 PM", r.NetTime)
	assert.Equal(t, 1, r.HoursUntil)
	assert.Equal(t, []string{"146.520 MHz FM"}, r.Channels)
	assert.Equal(t, "https://example.com/scheduler", r.SchedulerURL)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, "1h", store.inserted[0].ReminderType)
	assert.Equal(t, "u1", store.inserted[0].UserID)
	assert.Equal(t, time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC), store.inserted[0].NetDate)
}

func TestCheckAndSend_TwentyFourHourReminder(t *testing.T) {
	store := dailyStore()
	notifier := &fakeNotifier{}

	// Tonight's net has passed; tomorrow's is 23h50m away
	now := time.Date(2025, 1, 14, 19, 10, 0, 0, time.UTC)
	s := newTestScheduler(store, notifier, now)

	s.checkAndSend(context.Background())

	require.Len(t, notifier.reminders, 1)
	assert.Equal(t, 24, notifier.reminders[0].HoursUntil)
}

func TestCheckAndSend_NothingDueOutsideTolerance(t *testing.T) {
	store := dailyStore()
	notifier := &fakeNotifier{}

	// Two hours before the net: misses both offsets
	now := time.Date(2025, 1, 14, 17, 0, 0, 0, time.UTC)
	s := newTestScheduler(store, notifier, now)

	s.checkAndSend(context.Background())

	assert.Empty(t, notifier.reminders)
	assert.Empty(t, store.inserted)
}

func TestCheckAndSend_DedupViaReminderLog(t *testing.T) {
	store := dailyStore()
	store.alreadySent = true
	notifier := &fakeNotifier{}

	now := time.Date(2025, 1, 14, 18, 6, 0, 0, time.UTC)
	s := newTestScheduler(store, notifier, now)

	s.checkAndSend(context.Background())

	assert.Equal(t, []string{"1h"}, store.sentChecks)
	assert.Empty(t, notifier.reminders)
	assert.Empty(t, store.inserted)
}

func TestCheckAndSend_SendFailureLeavesLogUntouched(t *testing.T) {
	store := dailyStore()
	notifier := &fakeNotifier{err: errors.New("smtp down")}

	now := time.Date(2025, 1, 14, 18, 6, 0, 0, time.UTC)
	s := newTestScheduler(store, notifier, now)

	s.checkAndSend(context.Background())

	// No log row, so the next poll inside the window retries
	assert.Empty(t, store.inserted)
}

func TestCheckAndSend_SkipsCancelledOccurrences(t *testing.T) {
	store := dailyStore()
	store.overrides = []db.ScheduleOverride{{
		ID:            "ov-1",
		TemplateID:    "tpl-1",
		ScheduledDate: time.Date(2025, 1, 14, 19, 0, 0, 0, time.UTC),
		Reason:        "repeater offline",
	}}
	notifier := &fakeNotifier{}

	now := time.Date(2025, 1, 14, 18, 6, 0, 0, time.UTC)
	s := newTestScheduler(store, notifier, now)

	s.checkAndSend(context.Background())

	assert.Empty(t, notifier.reminders)
}

func TestCheckAndSend_ReminderGoesToReplacement(t *testing.T) {
	store := dailyStore()
	replacement := "u9"
	store.users["u9"] = &db.User{ID: "u9", Name: "Ninebar", Callsign: "N9XX", Email: "nine@example.com"}
	store.overrides = []db.ScheduleOverride{{
		ID:                "ov-1",
		TemplateID:        "tpl-1",
		ScheduledDate:     time.Date(2025, 1, 14, 19, 0, 0, 0, time.UTC),
		ReplacementUserID: &replacement,
		ReplacementName:   "Ninebar",
	}}
	notifier := &fakeNotifier{}

	now := time.Date(2025, 1, 14, 18, 6, 0, 0, time.UTC)
	s := newTestScheduler(store, notifier, now)

	s.checkAndSend(context.Background())

	require.Len(t, notifier.reminders, 1)
	assert.Equal(t, "nine@example.com", notifier.reminders[0].Email)
}

func TestCheckAndSend_SkipsUsersWithoutEmail(t *testing.T) {
	store := dailyStore()
	store.users["u1"].Email = ""
	notifier := &fakeNotifier{}

	now := time.Date(2025, 1, 14, 18, 6, 0, 0, time.UTC)
	s := newTestScheduler(store, notifier, now)

	s.checkAndSend(context.Background())

	assert.Empty(t, notifier.reminders)
	assert.Empty(t, store.inserted)
}

func TestCheckAndSend_TemplateFetchFailure(t *testing.T) {
	store := dailyStore()
	store.templatesErr = errors.New("connection refused")
	notifier := &fakeNotifier{}

	s := newTestScheduler(store, notifier, time.Now())
	s.checkAndSend(context.Background())

	assert.Empty(t, notifier.reminders)
}

func TestScheduler_StartAndStop(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}

	s := New(store, notifier, zap.NewNop(), "")
	s.SetInterval(10 * time.Millisecond)

	s.Start()
	s.Start() // second call is a warning, not a second loop
	time.Sleep(25 * time.Millisecond)
	s.Stop()
	s.Stop() // stopping a stopped scheduler is a no-op

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.False(t, s.running)
}

func TestScheduler_SetIntervalIgnoredWhileRunning(t *testing.T) {
	s := New(&fakeStore{}, &fakeNotifier{}, zap.NewNop(), "")
	s.SetInterval(time.Minute)
	s.Start()
	defer s.Stop()

	s.SetInterval(time.Second)

	s.mu.Lock()
	interval := s.interval
	s.mu.Unlock()
	assert.Equal(t, time.Minute, interval)
}
