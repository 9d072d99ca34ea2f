package service

import (
	"context"
	"sort"

	"github.com/mergington/activities-service/internal/repository"
)

// ActivityStats represents signup statistics for one activity
type ActivityStats struct {
	Activity        string `json:"activity"`
	Participants    int    `json:"participants"`
	MaxParticipants int    `json:"max_participants"`
	// SpotsLeft may go negative: signup never enforces capacity
	SpotsLeft int `json:"spots_left"`
}

// Stats represents registry-wide signup statistics
type Stats struct {
	TotalActivities   int             `json:"total_activities"`
	TotalParticipants int             `json:"total_participants"`
	Activities        []ActivityStats `json:"activities"`
}

// StatsService computes signup statistics from the registry
type StatsService struct {
	activityRepo repository.ActivityRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(activityRepo repository.ActivityRepository) *StatsService {
	return &StatsService{activityRepo: activityRepo}
}

// GetStats returns statistics for every activity, sorted by name
func (s *StatsService) GetStats(ctx context.Context) (*Stats, error) {
	activities, err := s.activityRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalActivities: len(activities),
		Activities:      make([]ActivityStats, 0, len(activities)),
	}

	for name, activity := range activities {
		stats.TotalParticipants += len(activity.Participants)
		stats.Activities = append(stats.Activities, ActivityStats{
			Activity:        name,
			Participants:    len(activity.Participants),
			MaxParticipants: activity.MaxParticipants,
			SpotsLeft:       activity.MaxParticipants - len(activity.Participants),
		})
	}

	sort.Slice(stats.Activities, func(i, j int) bool {
		return stats.Activities[i].Activity < stats.Activities[j].Activity
	})

	return stats, nil
}

// GetActivityStats returns statistics for a single activity
func (s *StatsService) GetActivityStats(ctx context.Context, name string) (*ActivityStats, error) {
	activity, err := s.activityRepo.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	return &ActivityStats{
		Activity:        activity.Name,
		Participants:    len(activity.Participants),
		MaxParticipants: activity.MaxParticipants,
		SpotsLeft:       activity.MaxParticipants - len(activity.Participants),
	}, nil
}
