package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mattdrummond/netroster/pkg/core/roster"
	"github.com/mattdrummond/netroster/pkg/db"
)

// OverrideStore defines the database operations needed for schedule
// override management
type OverrideStore interface {
	GetTemplate(ctx context.Context, templateID string) (*db.NetTemplate, error)
	GetRotationMembers(ctx context.Context, templateID string) ([]db.RotationMember, error)
	GetOverrides(ctx context.Context, templateID string) ([]db.ScheduleOverride, error)
	GetOverrideByDate(ctx context.Context, templateID string, scheduledDate time.Time) (*db.ScheduleOverride, error)
	InsertOverride(ctx context.Context, override *db.ScheduleOverride) error
	UpdateOverride(ctx context.Context, override *db.ScheduleOverride) error
	DeleteOverride(ctx context.Context, templateID, overrideID string) error
	GetSubscribers(ctx context.Context, templateID string) ([]db.User, error)
	GetUser(ctx context.Context, userID string) (*db.User, error)
}

// Display layouts shared by cancellation notices and duty reminders so
// both emails render dates the same way
const (
	NoticeDateLayout = "Monday, January 02, 2006"
	NoticeTimeLayout = "03:04 PM"
)

// CancellationNotice carries the details of a cancelled net for the mailer
type CancellationNotice struct {
	Email        string
	Name         string
	Callsign     string
	NetName      string
	NetDate      string
	NetTime      string
	Reason       string
	IsNCS        bool
	SchedulerURL string
}

// CancellationNotifier sends net cancellation notices. Failures are logged
// by the caller and never abort override creation.
type CancellationNotifier interface {
	SendNetCancellation(ctx context.Context, notice CancellationNotice) error
}

// OverrideRequest is the caller-supplied part of an override. A nil
// ReplacementUserID cancels the net on that date.
type OverrideRequest struct {
	ScheduledDate     time.Time
	ReplacementUserID *string
	Reason            string
	CreatedByID       string
}

// CreateOrUpdateOverride upserts the override for (template, scheduled
// date). The original assignee is snapshotted from the base rotation at
// creation time and kept on later edits of the same occurrence.
// Cancellations fan out notices to the original NCS and all subscribers.
func CreateOrUpdateOverride(ctx context.Context, store OverrideStore, notifier CancellationNotifier, logger *zap.Logger, templateID string, req OverrideRequest, schedulerURL string) (*db.ScheduleOverride, error) {
	template, err := store.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	members, err := store.GetRotationMembers(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rotation members: %w", err)
	}

	// Who would the base rotation have assigned? Computed without any
	// overrides so editing an existing override never shifts the snapshot.
	var originalUserID *string
	base := roster.BuildSchedule([]time.Time{req.ScheduledDate}, members, nil)
	if len(base) > 0 {
		originalUserID = base[0].UserID
	}

	existing, err := store.GetOverrideByDate(ctx, templateID, req.ScheduledDate)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing override: %w", err)
	}

	var override *db.ScheduleOverride
	if existing != nil {
		existing.ReplacementUserID = req.ReplacementUserID
		existing.Reason = req.Reason
		existing.OriginalUserID = originalUserID
		if err := store.UpdateOverride(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update override: %w", err)
		}
		override = existing
	} else {
		override = &db.ScheduleOverride{
			ID:                uuid.New().String(),
			TemplateID:        templateID,
			ScheduledDate:     req.ScheduledDate,
			OriginalUserID:    originalUserID,
			ReplacementUserID: req.ReplacementUserID,
			Reason:            req.Reason,
			CreatedByID:       req.CreatedByID,
		}
		if err := store.InsertOverride(ctx, override); err != nil {
			return nil, fmt.Errorf("failed to insert override: %w", err)
		}
	}

	logger.Info("Saved schedule override",
		zap.String("template_id", templateID),
		zap.Time("scheduled_date", req.ScheduledDate),
		zap.Bool("cancelled", req.ReplacementUserID == nil))

	if req.ReplacementUserID == nil {
		notifyCancellation(ctx, store, notifier, logger, template, override, schedulerURL)
	}

	return override, nil
}

// notifyCancellation sends cancellation notices to the originally assigned
// NCS and every other subscriber of the template. Send and lookup failures
// are logged, never raised.
func notifyCancellation(ctx context.Context, store OverrideStore, notifier CancellationNotifier, logger *zap.Logger, template *db.NetTemplate, override *db.ScheduleOverride, schedulerURL string) {
	if notifier == nil {
		return
	}

	netDate := override.ScheduledDate.Format(NoticeDateLayout)
	netTime := override.ScheduledDate.Format(NoticeTimeLayout)

	var originalID string
	if override.OriginalUserID != nil {
		originalID = *override.OriginalUserID

		original, err := store.GetUser(ctx, originalID)
		if err != nil {
			logger.Error("Failed to look up original NCS for cancellation notice",
				zap.String("user_id", originalID), zap.Error(err))
		} else if original.Email != "" {
			notice := CancellationNotice{
				Email:        original.Email,
				Name:         nameOrCallsign(original),
				Callsign:     original.Callsign,
				NetName:      template.Name,
				NetDate:      netDate,
				NetTime:      netTime,
				Reason:       override.Reason,
				IsNCS:        true,
				SchedulerURL: schedulerURL,
			}
			if err := notifier.SendNetCancellation(ctx, notice); err != nil {
				logger.Error("Failed to send cancellation notice to NCS",
					zap.String("email", original.Email), zap.Error(err))
			} else {
				logger.Info("Sent cancellation notice to NCS",
					zap.String("callsign", original.Callsign))
			}
		}
	}

	subscribers, err := store.GetSubscribers(ctx, template.ID)
	if err != nil {
		logger.Error("Failed to fetch subscribers for cancellation notice",
			zap.String("template_id", template.ID), zap.Error(err))
		return
	}

	notified := 0
	for _, sub := range subscribers {
		if sub.Email == "" || sub.ID == originalID {
			continue
		}
		notice := CancellationNotice{
			Email:        sub.Email,
			Name:         nameOrCallsign(&sub),
			Callsign:     sub.Callsign,
			NetName:      template.Name,
			NetDate:      netDate,
			NetTime:      netTime,
			Reason:       override.Reason,
			IsNCS:        false,
			SchedulerURL: schedulerURL,
		}
		if err := notifier.SendNetCancellation(ctx, notice); err != nil {
			logger.Error("Failed to send cancellation notice to subscriber",
				zap.String("email", sub.Email), zap.Error(err))
			continue
		}
		notified++
	}

	if notified > 0 {
		logger.Info("Sent cancellation notices to subscribers", zap.Int("count", notified))
	}
}

// DeleteOverride removes an override; the occurrence reverts to the base
// rotation on the next schedule query
func DeleteOverride(ctx context.Context, store OverrideStore, logger *zap.Logger, templateID, overrideID string) error {
	if _, err := store.GetTemplate(ctx, templateID); err != nil {
		return err
	}

	if err := store.DeleteOverride(ctx, templateID, overrideID); err != nil {
		return err
	}

	logger.Info("Deleted schedule override",
		zap.String("template_id", templateID),
		zap.String("override_id", overrideID))

	return nil
}

// ListOverrides returns all overrides recorded for a template
func ListOverrides(ctx context.Context, store OverrideStore, templateID string) ([]db.ScheduleOverride, error) {
	if _, err := store.GetTemplate(ctx, templateID); err != nil {
		return nil, err
	}
	return store.GetOverrides(ctx, templateID)
}

func nameOrCallsign(u *db.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Callsign
}
