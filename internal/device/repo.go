package device

import (
	"context"
	"database/sql"

	"checkin/internal/errs"
)

// Repository persists scanner device registrations.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Register ensures a device record exists. Re-registering an existing device
// is a no-op so a scanner can always re-request a token.
func (r *Repository) Register(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return errs.Validation("device id required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO devices (device_id)
		VALUES ($1)
		ON CONFLICT (device_id) DO NOTHING
	`, deviceID)
	if err != nil {
		return errs.Storage("register device", err)
	}
	return nil
}
