package service

import (
	"context"

	"github.com/mergington/activities-service/internal/domain"
	"github.com/mergington/activities-service/internal/metrics"
	"github.com/mergington/activities-service/internal/repository"
)

// ActivityService handles business logic for the activity registry
type ActivityService struct {
	activityRepo repository.ActivityRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(activityRepo repository.ActivityRepository) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
	}
}

// List returns all activities keyed by name
func (s *ActivityService) List(ctx context.Context) (map[string]*domain.Activity, error) {
	return s.activityRepo.List(ctx)
}

// Get returns a single activity by exact name
func (s *ActivityService) Get(ctx context.Context, name string) (*domain.Activity, error) {
	return s.activityRepo.Get(ctx, name)
}

// Signup appends email to the activity's participant list.
// Capacity (max_participants) is intentionally not checked.
func (s *ActivityService) Signup(ctx context.Context, name, email string) error {
	if err := s.activityRepo.AddParticipant(ctx, name, email); err != nil {
		return err
	}

	metrics.SignupsTotal.WithLabelValues(name).Inc()
	return nil
}

// Unregister removes one occurrence of email from the activity's participant list
func (s *ActivityService) Unregister(ctx context.Context, name, email string) error {
	if err := s.activityRepo.RemoveParticipant(ctx, name, email); err != nil {
		return err
	}

	metrics.UnregistersTotal.WithLabelValues(name).Inc()
	return nil
}
