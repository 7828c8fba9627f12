package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// NotificationStatus is the publication state of a notification.
// The only legal change is DRAFT -> PUBLISHED; PUBLISHED is terminal.
type NotificationStatus string

const (
	StatusDraft     NotificationStatus = "DRAFT"
	StatusPublished NotificationStatus = "PUBLISHED"
)

// TransitionTo reports whether s may move to next.
func (s NotificationStatus) TransitionTo(next NotificationStatus) error {
	switch {
	case s == StatusDraft && (next == StatusDraft || next == StatusPublished):
		return nil
	case s == StatusPublished && next == StatusPublished:
		return fmt.Errorf("notification is already published: %w", ErrConflict)
	case s == StatusPublished:
		return fmt.Errorf("published notification cannot return to %s: %w", next, ErrConflict)
	}
	return fmt.Errorf("unknown status transition %q -> %q: %w", s, next, ErrBadRequest)
}

// Editable reports whether the notification content may still be changed.
func (s NotificationStatus) Editable() bool { return s == StatusDraft }

type Notification struct {
	NotificationID     string             `json:"id" dynamodbav:"notification_id"`
	Title              string             `json:"title" dynamodbav:"title"`
	Body               string             `json:"body" dynamodbav:"body"`
	Data               json.RawMessage    `json:"data" dynamodbav:"data,omitempty" swaggertype:"object"`
	TTL                *int               `json:"ttl" dynamodbav:"ttl,omitempty"`
	IOSMessageSubtitle *string            `json:"iosMessageSubtitle" dynamodbav:"ios_message_subtitle,omitempty"`
	BadgeCount         *int               `json:"badgeCount" dynamodbav:"badge_count,omitempty"`
	AndroidChannelID   *string            `json:"androidChannelId" dynamodbav:"android_channel_id,omitempty"`
	Status             NotificationStatus `json:"status" dynamodbav:"status"`
	CreatedAt          time.Time          `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt          time.Time          `json:"updatedAt" dynamodbav:"updated_at"`
}

type CreateNotificationRequest struct {
	Title              string                 `json:"title" validate:"required,max=255"`
	Body               string                 `json:"body" validate:"required,max=1000"`
	Data               map[string]interface{} `json:"data"`
	TTL                *int                   `json:"ttl" validate:"omitempty,min=0"`
	IOSMessageSubtitle *string                `json:"iosMessageSubtitle" validate:"omitempty,max=255"`
	BadgeCount         *int                   `json:"badgeCount"`
	AndroidChannelID   *string                `json:"androidChannelId" validate:"omitempty,max=255"`
}

// UpdateNotificationRequest is a partial update; nil fields are left untouched.
// A JSON null decodes to nil, so null never clears a stored value.
type UpdateNotificationRequest struct {
	Title              *string                `json:"title" validate:"omitempty,min=1,max=255"`
	Body               *string                `json:"body" validate:"omitempty,min=1,max=1000"`
	Data               map[string]interface{} `json:"data"`
	TTL                *int                   `json:"ttl" validate:"omitempty,min=0"`
	IOSMessageSubtitle *string                `json:"iosMessageSubtitle" validate:"omitempty,max=255"`
	BadgeCount         *int                   `json:"badgeCount"`
	AndroidChannelID   *string                `json:"androidChannelId" validate:"omitempty,max=255"`
}

// Field names accepted as keys by a notification store's partial update.
const (
	FieldTitle              = "title"
	FieldBody               = "body"
	FieldData               = "data"
	FieldTTL                = "ttl"
	FieldIOSMessageSubtitle = "ios_message_subtitle"
	FieldBadgeCount         = "badge_count"
	FieldAndroidChannelID   = "android_channel_id"
)
