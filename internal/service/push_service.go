package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/prayerly/prayerly-api/internal/model"
	"github.com/prayerly/prayerly-api/internal/repository"
)

// PushService manages a user's device subscriptions
type PushService struct {
	subRepo *repository.PushSubscriptionRepository
}

func NewPushService(subRepo *repository.PushSubscriptionRepository) *PushService {
	return &PushService{subRepo: subRepo}
}

// Subscribe registers (or reactivates) a device token for the user
func (s *PushService) Subscribe(userID uuid.UUID, req model.PushSubscribeRequest) error {
	deviceType := req.DeviceType
	if deviceType == "" {
		deviceType = "unknown"
	}
	if err := s.subRepo.Upsert(userID, req.SubscriberID, deviceType); err != nil {
		return errors.New("failed to register device")
	}
	return nil
}

// Unsubscribe deactivates a device token
func (s *PushService) Unsubscribe(userID uuid.UUID, req model.PushUnsubscribeRequest) error {
	return s.subRepo.Deactivate(userID, req.SubscriberID)
}

// Status reports whether the user has any active devices
func (s *PushService) Status(userID uuid.UUID) (*model.PushStatusResponse, error) {
	count, err := s.subRepo.CountActive(userID)
	if err != nil {
		return nil, err
	}
	return &model.PushStatusResponse{
		Subscribed:  count > 0,
		DeviceCount: int(count),
	}, nil
}
