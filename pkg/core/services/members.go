package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mattdrummond/netroster/pkg/db"
)

// MemberStore defines the database operations needed for rotation
// membership management
type MemberStore interface {
	GetTemplate(ctx context.Context, templateID string) (*db.NetTemplate, error)
	GetRotationMembers(ctx context.Context, templateID string) ([]db.RotationMember, error)
	InsertRotationMember(ctx context.Context, member *db.RotationMember) error
	DeleteRotationMember(ctx context.Context, templateID, memberID string) error
	SetMemberPosition(ctx context.Context, templateID, memberID string, position int) error
	GetUser(ctx context.Context, userID string) (*db.User, error)
}

// ListMembers returns all rotation members for a template sorted by position
func ListMembers(ctx context.Context, store MemberStore, templateID string) ([]db.RotationMember, error) {
	if _, err := store.GetTemplate(ctx, templateID); err != nil {
		return nil, err
	}

	members, err := store.GetRotationMembers(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rotation members: %w", err)
	}

	sort.Slice(members, func(i, j int) bool { return members[i].Position < members[j].Position })
	return members, nil
}

// AddMember appends a user to the end of a template's NCS rotation.
// A user may appear at most once per rotation.
func AddMember(ctx context.Context, store MemberStore, logger *zap.Logger, templateID, userID string) (*db.RotationMember, error) {
	if _, err := store.GetTemplate(ctx, templateID); err != nil {
		return nil, err
	}

	user, err := store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	members, err := store.GetRotationMembers(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rotation members: %w", err)
	}

	maxPosition := 0
	for _, m := range members {
		if m.UserID == userID {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMember, userID)
		}
		if m.Position > maxPosition {
			maxPosition = m.Position
		}
	}

	member := &db.RotationMember{
		ID:           uuid.New().String(),
		TemplateID:   templateID,
		UserID:       userID,
		Position:     maxPosition + 1,
		IsActive:     true,
		UserName:     user.Name,
		UserCallsign: user.Callsign,
		UserEmail:    user.Email,
	}

	if err := store.InsertRotationMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to insert rotation member: %w", err)
	}

	logger.Info("Added rotation member",
		zap.String("template_id", templateID),
		zap.String("user_id", userID),
		zap.Int("position", member.Position))

	return member, nil
}

// RemoveMember deletes a member from the rotation
func RemoveMember(ctx context.Context, store MemberStore, logger *zap.Logger, templateID, memberID string) error {
	if _, err := store.GetTemplate(ctx, templateID); err != nil {
		return err
	}

	if err := store.DeleteRotationMember(ctx, templateID, memberID); err != nil {
		return err
	}

	logger.Info("Removed rotation member",
		zap.String("template_id", templateID),
		zap.String("member_id", memberID))

	return nil
}

// ReorderMembers reassigns positions 1..N following the given member id
// order. Ids that do not belong to the template are ignored.
func ReorderMembers(ctx context.Context, store MemberStore, logger *zap.Logger, templateID string, memberIDs []string) ([]db.RotationMember, error) {
	if _, err := store.GetTemplate(ctx, templateID); err != nil {
		return nil, err
	}

	members, err := store.GetRotationMembers(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rotation members: %w", err)
	}

	known := make(map[string]bool, len(members))
	for _, m := range members {
		known[m.ID] = true
	}

	for i, memberID := range memberIDs {
		if !known[memberID] {
			continue
		}
		if err := store.SetMemberPosition(ctx, templateID, memberID, i+1); err != nil {
			return nil, fmt.Errorf("failed to set position for member %s: %w", memberID, err)
		}
	}

	logger.Info("Reordered rotation",
		zap.String("template_id", templateID),
		zap.Int("member_count", len(memberIDs)))

	return ListMembers(ctx, store, templateID)
}

// EnsureCanManage returns ErrNotPermitted unless the acting user may
// manage the template's rotation. Mutating commands call this before
// touching members or overrides.
func EnsureCanManage(ctx context.Context, store MemberStore, actorID, templateID string) error {
	actor, err := store.GetUser(ctx, actorID)
	if err != nil {
		return err
	}

	template, err := store.GetTemplate(ctx, templateID)
	if err != nil {
		return err
	}

	members, err := store.GetRotationMembers(ctx, templateID)
	if err != nil {
		return fmt.Errorf("failed to fetch rotation members: %w", err)
	}

	if !CanManage(actor, template, members) {
		return fmt.Errorf("%w: %s", ErrNotPermitted, actorID)
	}
	return nil
}

// CanManage reports whether a user may manage a template's rotation.
// Admins, the template owner, and any current rotation member qualify.
func CanManage(user *db.User, template *db.NetTemplate, members []db.RotationMember) bool {
	if user.Role == "admin" {
		return true
	}
	if template.OwnerID == user.ID {
		return true
	}
	for _, m := range members {
		if m.UserID == user.ID {
			return true
		}
	}
	return false
}
