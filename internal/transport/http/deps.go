package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/expo-push-api/internal/domain"
	"github.com/expo-push-api/internal/infrastructure/expo"
	"github.com/expo-push-api/internal/infrastructure/metrics"
)

// DeviceRepository is the device store the router requires. Both the DynamoDB
// and SQLite repos satisfy it.
type DeviceRepository interface {
	Register(ctx context.Context, d *domain.Device) (*domain.Device, error)
	GetByToken(ctx context.Context, token string) (*domain.Device, error)
	List(ctx context.Context) ([]domain.Device, error)
	DeleteByToken(ctx context.Context, token string) error
}

// NotificationRepository is the notification store the router requires.
type NotificationRepository interface {
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	List(ctx context.Context) ([]domain.Notification, error)
	Update(ctx context.Context, notificationID string, updates map[string]interface{}) (*domain.Notification, error)
	MarkPublished(ctx context.Context, notificationID string, at time.Time) (*domain.Notification, error)
	Delete(ctx context.Context, notificationID string) error
}

// PushGateway sends one batch of push messages.
type PushGateway interface {
	Send(ctx context.Context, msgs []expo.Message) ([]expo.Ticket, error)
}

// ReportArchive persists dispatch reports.
type ReportArchive interface {
	Save(ctx context.Context, r *domain.DispatchReport) (string, error)
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	DeviceRepo       DeviceRepository
	NotificationRepo NotificationRepository
	Gateway          PushGateway
	Reports          ReportArchive // optional
	Metrics          *metrics.Metrics
	Logger           *slog.Logger
}
