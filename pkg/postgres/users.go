package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mattdrummond/netroster/pkg/db"
)

// GetUser retrieves a user by id
func (d *DB) GetUser(ctx context.Context, userID string) (*db.User, error) {
	var u db.User
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, callsign, email, role
		FROM users
		WHERE id = $1
	`, userID).Scan(&u.ID, &u.Name, &u.Callsign, &u.Email, &u.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", db.ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

// GetSubscribers retrieves all users subscribed to a template's nets
func (d *DB) GetSubscribers(ctx context.Context, templateID string) ([]db.User, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT u.id, u.name, u.callsign, u.email, u.role
		FROM template_subscriptions s
		JOIN users u ON u.id = s.user_id
		WHERE s.template_id = $1
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscribers: %w", err)
	}
	defer rows.Close()

	var users []db.User
	for rows.Next() {
		var u db.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Callsign, &u.Email, &u.Role); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscribers: %w", err)
	}

	return users, nil
}
