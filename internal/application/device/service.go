package device

import (
	"context"
	"fmt"
	"time"

	"github.com/expo-push-api/internal/domain"
	"github.com/expo-push-api/internal/pkg/id"
	"github.com/expo-push-api/internal/pkg/validate"
)

type Service interface {
	// RegisterToken is idempotent: an already known token returns the stored device.
	RegisterToken(ctx context.Context, req domain.RegisterTokenRequest) (*domain.Device, error)
}

type deviceStore interface {
	Register(ctx context.Context, d *domain.Device) (*domain.Device, error)
}

type service struct {
	repo deviceStore
}

func NewService(repo deviceStore) Service {
	return &service{repo: repo}
}

func (s *service) RegisterToken(ctx context.Context, req domain.RegisterTokenRequest) (*domain.Device, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadRequest, err)
	}
	return s.repo.Register(ctx, &domain.Device{
		DeviceID:  id.New(),
		Token:     req.Token,
		Platform:  req.Platform,
		CreatedAt: time.Now().UTC(),
	})
}
