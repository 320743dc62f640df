package postgres

import (
	"context"
	"fmt"

	"github.com/mattdrummond/netroster/pkg/db"
)

// GetRotationMembers retrieves all rotation members for a template with
// their user details, ordered by rotation position
func (d *DB) GetRotationMembers(ctx context.Context, templateID string) ([]db.RotationMember, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT m.id, m.template_id, m.user_id, m.position, m.is_active,
		       u.name, u.callsign, u.email
		FROM rotation_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.template_id = $1
		ORDER BY m.position
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rotation members: %w", err)
	}
	defer rows.Close()

	var members []db.RotationMember
	for rows.Next() {
		var m db.RotationMember
		if err := rows.Scan(&m.ID, &m.TemplateID, &m.UserID, &m.Position, &m.IsActive,
			&m.UserName, &m.UserCallsign, &m.UserEmail); err != nil {
			return nil, fmt.Errorf("failed to scan rotation member: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rotation members: %w", err)
	}

	return members, nil
}

// InsertRotationMember inserts a new rotation member
func (d *DB) InsertRotationMember(ctx context.Context, member *db.RotationMember) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO rotation_members (id, template_id, user_id, position, is_active)
		VALUES ($1, $2, $3, $4, $5)
	`, member.ID, member.TemplateID, member.UserID, member.Position, member.IsActive)
	if err != nil {
		return fmt.Errorf("failed to insert rotation member: %w", err)
	}
	return nil
}

// DeleteRotationMember removes a member from a template's rotation
func (d *DB) DeleteRotationMember(ctx context.Context, templateID, memberID string) error {
	tag, err := d.pool.Exec(ctx, `
		DELETE FROM rotation_members WHERE id = $1 AND template_id = $2
	`, memberID, templateID)
	if err != nil {
		return fmt.Errorf("failed to delete rotation member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", db.ErrMemberNotFound, memberID)
	}
	return nil
}

// SetMemberPosition updates one member's rotation position
func (d *DB) SetMemberPosition(ctx context.Context, templateID, memberID string, position int) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE rotation_members SET position = $3 WHERE id = $1 AND template_id = $2
	`, memberID, templateID, position)
	if err != nil {
		return fmt.Errorf("failed to set member position: %w", err)
	}
	return nil
}
