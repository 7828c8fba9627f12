package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/expo-push-api/internal/domain"
)

// DeviceRepo stores devices in SQLite. token carries a UNIQUE constraint.
type DeviceRepo struct {
	db *sql.DB
}

func NewDeviceRepo(db *sql.DB) *DeviceRepo {
	return &DeviceRepo{db: db}
}

// Register inserts d unless the token already exists; the stored row wins.
func (r *DeviceRepo) Register(ctx context.Context, d *domain.Device) (*domain.Device, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO devices (id, token, platform, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(token) DO NOTHING`,
		d.DeviceID, d.Token, string(d.Platform), formatTime(d.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert device: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 1 {
		return d, nil
	}
	return r.GetByToken(ctx, d.Token)
}

func (r *DeviceRepo) GetByToken(ctx context.Context, token string) (*domain.Device, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, token, platform, created_at FROM devices WHERE token = ?`, token)
	d, err := scanDevice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("device not found: %w", domain.ErrNotFound)
	}
	return d, err
}

// List returns every device in registration order.
func (r *DeviceRepo) List(ctx context.Context) ([]domain.Device, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, token, platform, created_at FROM devices ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	devices := []domain.Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, *d)
	}
	return devices, rows.Err()
}

// DeleteByToken is idempotent.
func (r *DeviceRepo) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM devices WHERE token = ?`, token)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(s rowScanner) (*domain.Device, error) {
	var (
		d         domain.Device
		platform  string
		createdAt string
	)
	if err := s.Scan(&d.DeviceID, &d.Token, &platform, &createdAt); err != nil {
		return nil, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	d.Platform = domain.Platform(platform)
	d.CreatedAt = t
	return &d, nil
}
