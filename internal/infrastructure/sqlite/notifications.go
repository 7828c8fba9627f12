package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/expo-push-api/internal/domain"
)

const notificationColumns = `id, title, body, data, ttl, ios_message_subtitle, badge_count,
	android_channel_id, status, created_at, updated_at`

// updatable maps partial-update keys to columns. Anything else is rejected.
var updatable = map[string]string{
	domain.FieldTitle:              "title",
	domain.FieldBody:               "body",
	domain.FieldData:               "data",
	domain.FieldTTL:                "ttl",
	domain.FieldIOSMessageSubtitle: "ios_message_subtitle",
	domain.FieldBadgeCount:         "badge_count",
	domain.FieldAndroidChannelID:   "android_channel_id",
}

type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Put(ctx context.Context, n *domain.Notification) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (`+notificationColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.NotificationID, n.Title, n.Body, nullableJSON(n.Data), n.TTL,
		n.IOSMessageSubtitle, n.BadgeCount, n.AndroidChannelID,
		string(n.Status), formatTime(n.CreatedAt), formatTime(n.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, notificationID)
	n, err := scanNotification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("notification %s not found: %w", notificationID, domain.ErrNotFound)
	}
	return n, err
}

// List returns every notification, newest first.
func (r *NotificationRepo) List(ctx context.Context) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []domain.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

// Update applies a partial SET to a DRAFT notification and returns the stored
// record. Published rows are left untouched and reported as ErrConflict.
func (r *NotificationRepo) Update(ctx context.Context, notificationID string, updates map[string]interface{}) (*domain.Notification, error) {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		if _, ok := updatable[k]; !ok {
			return nil, fmt.Errorf("field %q cannot be updated: %w", k, domain.ErrBadRequest)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+2)
	for _, k := range keys {
		sets = append(sets, updatable[k]+" = ?")
		args = append(args, sqlValue(updates[k]))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(time.Now()), notificationID, string(domain.StatusDraft))

	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET `+strings.Join(sets, ", ")+` WHERE id = ? AND status = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update notification: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if _, err := r.Get(ctx, notificationID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("published notifications cannot be edited: %w", domain.ErrConflict)
	}
	return r.Get(ctx, notificationID)
}

// MarkPublished flips status DRAFT -> PUBLISHED; the WHERE clause makes the
// transition win-once under concurrent publishes.
func (r *NotificationRepo) MarkPublished(ctx context.Context, notificationID string, at time.Time) (*domain.Notification, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(domain.StatusPublished), formatTime(at), notificationID, string(domain.StatusDraft))
	if err != nil {
		return nil, fmt.Errorf("publish notification: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if _, err := r.Get(ctx, notificationID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("notification is already published: %w", domain.ErrConflict)
	}
	return r.Get(ctx, notificationID)
}

func (r *NotificationRepo) Delete(ctx context.Context, notificationID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, notificationID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("notification %s not found: %w", notificationID, domain.ErrNotFound)
	}
	return nil
}

func scanNotification(s rowScanner) (*domain.Notification, error) {
	var (
		n                    domain.Notification
		data, subtitle, chID sql.NullString
		ttl, badge           sql.NullInt64
		status               string
		createdAt, updatedAt string
	)
	if err := s.Scan(&n.NotificationID, &n.Title, &n.Body, &data, &ttl, &subtitle, &badge,
		&chID, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if n.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if n.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	n.Status = domain.NotificationStatus(status)
	if data.Valid {
		n.Data = json.RawMessage(data.String)
	}
	if ttl.Valid {
		v := int(ttl.Int64)
		n.TTL = &v
	}
	if badge.Valid {
		v := int(badge.Int64)
		n.BadgeCount = &v
	}
	if subtitle.Valid {
		n.IOSMessageSubtitle = &subtitle.String
	}
	if chID.Valid {
		n.AndroidChannelID = &chID.String
	}
	return &n, nil
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func sqlValue(v interface{}) any {
	switch t := v.(type) {
	case json.RawMessage:
		return nullableJSON(t)
	case time.Time:
		return formatTime(t)
	default:
		return v
	}
}
