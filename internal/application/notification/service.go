package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/expo-push-api/internal/domain"
	"github.com/expo-push-api/internal/pkg/id"
	"github.com/expo-push-api/internal/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateNotificationRequest) (*domain.Notification, error)
	List(ctx context.Context) ([]domain.Notification, error)
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	Update(ctx context.Context, notificationID string, req domain.UpdateNotificationRequest) (*domain.Notification, error)
	Delete(ctx context.Context, notificationID string) error
	// Publish commits DRAFT -> PUBLISHED, then fans the notification out.
	// Fan-out problems are logged; they never undo or fail the publish.
	Publish(ctx context.Context, notificationID string) (*domain.Notification, error)
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	List(ctx context.Context) ([]domain.Notification, error)
	Update(ctx context.Context, notificationID string, updates map[string]interface{}) (*domain.Notification, error)
	MarkPublished(ctx context.Context, notificationID string, at time.Time) (*domain.Notification, error)
	Delete(ctx context.Context, notificationID string) error
}

type dispatcher interface {
	Dispatch(ctx context.Context, n *domain.Notification) (*domain.DispatchReport, error)
}

type service struct {
	repo       notificationStore
	dispatcher dispatcher
	log        *slog.Logger
}

func NewService(repo notificationStore, d dispatcher, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &service{repo: repo, dispatcher: d, log: log}
}

func (s *service) Create(ctx context.Context, req domain.CreateNotificationRequest) (*domain.Notification, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadRequest, err)
	}
	data, err := marshalData(req.Data)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	n := &domain.Notification{
		NotificationID:     id.New(),
		Title:              req.Title,
		Body:               req.Body,
		Data:               data,
		TTL:                req.TTL,
		IOSMessageSubtitle: req.IOSMessageSubtitle,
		BadgeCount:         req.BadgeCount,
		AndroidChannelID:   req.AndroidChannelID,
		Status:             domain.StatusDraft,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Put(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *service) List(ctx context.Context) ([]domain.Notification, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	return s.repo.Get(ctx, notificationID)
}

func (s *service) Update(ctx context.Context, notificationID string, req domain.UpdateNotificationRequest) (*domain.Notification, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadRequest, err)
	}
	current, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if !current.Status.Editable() {
		return nil, fmt.Errorf("published notifications cannot be edited: %w", domain.ErrConflict)
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates[domain.FieldTitle] = *req.Title
	}
	if req.Body != nil {
		updates[domain.FieldBody] = *req.Body
	}
	if req.Data != nil {
		data, err := marshalData(req.Data)
		if err != nil {
			return nil, err
		}
		updates[domain.FieldData] = data
	}
	if req.TTL != nil {
		updates[domain.FieldTTL] = *req.TTL
	}
	if req.IOSMessageSubtitle != nil {
		updates[domain.FieldIOSMessageSubtitle] = *req.IOSMessageSubtitle
	}
	if req.BadgeCount != nil {
		updates[domain.FieldBadgeCount] = *req.BadgeCount
	}
	if req.AndroidChannelID != nil {
		updates[domain.FieldAndroidChannelID] = *req.AndroidChannelID
	}
	if len(updates) == 0 {
		return current, nil
	}
	// The store repeats the DRAFT check inside the write.
	return s.repo.Update(ctx, notificationID, updates)
}

func (s *service) Delete(ctx context.Context, notificationID string) error {
	return s.repo.Delete(ctx, notificationID)
}

func (s *service) Publish(ctx context.Context, notificationID string) (*domain.Notification, error) {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if err := n.Status.TransitionTo(domain.StatusPublished); err != nil {
		return nil, err
	}
	published, err := s.repo.MarkPublished(ctx, notificationID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	// The status change is committed; a client disconnect must not cut the fan-out short.
	if _, err := s.dispatcher.Dispatch(context.WithoutCancel(ctx), published); err != nil {
		s.log.Error("dispatch after publish failed", "notification_id", notificationID, "error", err)
	}
	return published, nil
}

func marshalData(data map[string]interface{}) (json.RawMessage, error) {
	if data == nil {
		return nil, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: data: %v", domain.ErrBadRequest, err)
	}
	return raw, nil
}
