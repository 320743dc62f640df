// Package reminder runs the background loop that emails NCS operators
// ahead of their scheduled nets. One instance runs per process; dedup is
// handled by the persisted reminder log, not by locking.
package reminder

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mattdrummond/netroster/pkg/core/services"
	"github.com/mattdrummond/netroster/pkg/db"
)

const (
	// DefaultInterval is how often the loop scans for reminders to send
	DefaultInterval = 15 * time.Minute

	// tolerance is the window around each reminder offset within which a
	// reminder is considered due. Half an hour covers the poll cadence so
	// no occurrence is missed.
	tolerance = 0.5
)

// DefaultOffsets are the lead times, in hours, at which reminders are sent
var DefaultOffsets = []int{24, 1}

// Store defines the database operations used by the reminder loop
type Store interface {
	GetTemplate(ctx context.Context, templateID string) (*db.NetTemplate, error)
	GetActiveTemplates(ctx context.Context) ([]db.NetTemplate, error)
	GetRotationMembers(ctx context.Context, templateID string) ([]db.RotationMember, error)
	GetOverrides(ctx context.Context, templateID string) ([]db.ScheduleOverride, error)
	GetUser(ctx context.Context, userID string) (*db.User, error)
	GetFrequencies(ctx context.Context, templateID string) ([]db.Frequency, error)
	ReminderSent(ctx context.Context, templateID, userID string, netDate time.Time, reminderType string) (bool, error)
	InsertReminderLog(ctx context.Context, entry *db.ReminderLog) error
}

// DutyReminder carries everything the mailer needs to remind an operator
// of upcoming NCS duty. The core never formats the message body.
type DutyReminder struct {
	Email        string
	Name         string
	Callsign     string
	NetName      string
	NetDate      string
	NetTime      string
	Channels     []string
	HoursUntil   int
	SchedulerURL string
}

// Notifier sends duty reminder emails
type Notifier interface {
	SendDutyReminder(ctx context.Context, reminder DutyReminder) error
}

// Scheduler owns the reminder loop lifecycle. Start and Stop are safe to
// call repeatedly; only one loop runs at a time.
type Scheduler struct {
	store        Store
	notifier     Notifier
	logger       *zap.Logger
	schedulerURL string
	interval     time.Duration
	offsets      []int
	now          func() time.Time

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a reminder scheduler with the default poll interval and
// reminder offsets
func New(store Store, notifier Notifier, logger *zap.Logger, schedulerURL string) *Scheduler {
	return &Scheduler{
		store:        store,
		notifier:     notifier,
		logger:       logger,
		schedulerURL: schedulerURL,
		interval:     DefaultInterval,
		offsets:      DefaultOffsets,
		now:          time.Now,
	}
}

// SetInterval overrides the poll cadence. Call before Start.
func (s *Scheduler) SetInterval(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running && interval > 0 {
		s.interval = interval
	}
}

// Start spawns the reminder loop. Calling Start while the loop is already
// running logs a warning and does nothing.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Warn("Reminder scheduler already running")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.run(ctx)

	s.logger.Info("Reminder scheduler started",
		zap.Duration("interval", s.interval),
		zap.Ints("offsets_hours", s.offsets))
}

// Stop signals the loop to exit and waits for it to finish. Calling Stop
// when the loop is not running is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.running = false
	s.mu.Unlock()

	cancel()
	<-done

	s.logger.Info("Reminder scheduler stopped")
}

// run checks immediately, then once per interval until cancelled
func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.checkAndSend(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// checkAndSend scans every active template's near-term schedule and sends
// whatever reminders are due. Per-template and per-send failures are
// isolated; one bad template never aborts the rest of the scan.
func (s *Scheduler) checkAndSend(ctx context.Context) {
	s.logger.Debug("Checking for NCS reminders to send")

	templates, err := s.store.GetActiveTemplates(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch active templates", zap.Error(err))
		return
	}

	now := s.now()
	sent := 0

	for i := range templates {
		template := &templates[i]

		result, err := services.GetScheduleFrom(ctx, s.store, s.logger, template.ID, now, 1)
		if err != nil {
			s.logger.Error("Failed to compute schedule",
				zap.String("template_id", template.ID), zap.Error(err))
			continue
		}

		for _, entry := range result.Schedule {
			if entry.UserID == nil || entry.IsCancelled {
				continue
			}

			hoursUntil := entry.Date.Sub(now).Hours()

			for _, offset := range s.offsets {
				if math.Abs(hoursUntil-float64(offset)) > tolerance {
					continue
				}
				if s.sendReminder(ctx, template, *entry.UserID, entry.Date, offset) {
					sent++
				}
			}
		}
	}

	if sent > 0 {
		s.logger.Info("Sent NCS reminders", zap.Int("count", sent))
	}
}

// sendReminder sends one reminder unless the log shows it already went
// out. The log row is only written after a successful send, so failed
// sends retry on the next poll while still inside the tolerance window.
func (s *Scheduler) sendReminder(ctx context.Context, template *db.NetTemplate, userID string, netTime time.Time, offsetHours int) bool {
	reminderType := fmt.Sprintf("%dh", offsetHours)
	netDate := time.Date(netTime.Year(), netTime.Month(), netTime.Day(), 0, 0, 0, 0, netTime.Location())

	alreadySent, err := s.store.ReminderSent(ctx, template.ID, userID, netDate, reminderType)
	if err != nil {
		s.logger.Error("Failed to check reminder log",
			zap.String("template_id", template.ID),
			zap.String("user_id", userID),
			zap.Error(err))
		return false
	}
	if alreadySent {
		return false
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to look up user for reminder",
			zap.String("user_id", userID), zap.Error(err))
		return false
	}
	if user.Email == "" {
		return false
	}

	channels := s.channelList(ctx, template.ID)

	name := user.Name
	if name == "" {
		name = user.Callsign
	}
	if name == "" {
		name = "Operator"
	}

	reminder := DutyReminder{
		Email:        user.Email,
		Name:         name,
		Callsign:     user.Callsign,
		NetName:      template.Name,
		NetDate:      netTime.Format(services.NoticeDateLayout),
		NetTime:      netTime.Format(services.NoticeTimeLayout),
		Channels:     channels,
		HoursUntil:   offsetHours,
		SchedulerURL: s.schedulerURL,
	}

	if err := s.notifier.SendDutyReminder(ctx, reminder); err != nil {
		s.logger.Error("Failed to send reminder",
			zap.String("email", user.Email),
			zap.String("net", template.Name),
			zap.Error(err))
		return false
	}

	entry := &db.ReminderLog{
		TemplateID:   template.ID,
		UserID:       userID,
		NetDate:      netDate,
		ReminderType: reminderType,
		SentAt:       s.now(),
	}
	if err := s.store.InsertReminderLog(ctx, entry); err != nil {
		// The reminder went out but the log write failed; the next poll
		// may send a duplicate, which beats silently dropping reminders
		s.logger.Error("Failed to record reminder log",
			zap.String("template_id", template.ID),
			zap.String("user_id", userID),
			zap.Error(err))
		return true
	}

	s.logger.Info("Sent NCS reminder",
		zap.String("email", user.Email),
		zap.String("net", template.Name),
		zap.String("reminder_type", reminderType),
		zap.Time("net_date", netDate))

	return true
}

// channelList formats the template's frequencies for the reminder email.
// Lookup failures degrade to an empty list.
func (s *Scheduler) channelList(ctx context.Context, templateID string) []string {
	frequencies, err := s.store.GetFrequencies(ctx, templateID)
	if err != nil {
		s.logger.Error("Failed to fetch frequencies",
			zap.String("template_id", templateID), zap.Error(err))
		return nil
	}

	channels := make([]string, 0, len(frequencies))
	for _, f := range frequencies {
		if label := f.Label(); label != "" {
			channels = append(channels, label)
		}
	}
	return channels
}
