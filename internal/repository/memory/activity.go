package memory

import (
	"context"
	"sync"

	"github.com/mergington/activities-service/internal/domain"
)

// ActivityRepository реализует repository.ActivityRepository в памяти процесса.
// Это бэкенд по умолчанию: состояние живет ровно столько, сколько процесс.
// Один RWMutex на весь реестр; занятий мало, участников немного
type ActivityRepository struct {
	mu         sync.RWMutex
	activities map[string]*domain.Activity
}

// NewActivityRepository создает пустой реестр в памяти
func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{
		activities: make(map[string]*domain.Activity),
	}
}

// List возвращает копии всех занятий
func (r *ActivityRepository) List(ctx context.Context) (map[string]*domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*domain.Activity, len(r.activities))
	for name, activity := range r.activities {
		result[name] = activity.Clone()
	}
	return result, nil
}

// Get получает копию занятия по названию
func (r *ActivityRepository) Get(ctx context.Context, name string) (*domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.activities[name]
	if !ok {
		return nil, domain.ErrActivityNotFound
	}
	return activity.Clone(), nil
}

// AddParticipant добавляет email в конец списка участников
func (r *ActivityRepository) AddParticipant(ctx context.Context, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return domain.ErrActivityNotFound
	}
	if activity.IsRegistered(email) {
		return domain.ErrAlreadyRegistered
	}

	activity.Participants = append(activity.Participants, email)
	return nil
}

// RemoveParticipant удаляет ровно одно вхождение email, сохраняя порядок остальных
func (r *ActivityRepository) RemoveParticipant(ctx context.Context, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return domain.ErrActivityNotFound
	}

	for i, p := range activity.Participants {
		if p == email {
			activity.Participants = append(activity.Participants[:i], activity.Participants[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotRegistered
}

// Seed добавляет отсутствующие занятия, существующие не трогает
func (r *ActivityRepository) Seed(ctx context.Context, activities []*domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, activity := range activities {
		if _, ok := r.activities[activity.Name]; ok {
			continue
		}
		r.activities[activity.Name] = activity.Clone()
	}
	return nil
}
