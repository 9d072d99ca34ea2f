package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/mergington/activities-service/internal/domain"
)

// Ключи реестра в Redis
const (
	// namesKey — множество названий всех занятий
	namesKey = "activities"
)

// ActivityRepository реализует repository.ActivityRepository поверх Redis.
// Метаданные занятия лежат в хеше activity:<name>, список участников —
// в списке activity:<name>:participants (порядок RPUSH = порядок записи)
type ActivityRepository struct {
	client *redis.Client
}

// NewActivityRepository создает новый экземпляр ActivityRepository
func NewActivityRepository(client *redis.Client) *ActivityRepository {
	return &ActivityRepository{client: client}
}

func metaKey(name string) string {
	return "activity:" + name
}

func participantsKey(name string) string {
	return "activity:" + name + ":participants"
}

// List возвращает все занятия с участниками
func (r *ActivityRepository) List(ctx context.Context) (map[string]*domain.Activity, error) {
	names, err := r.client.SMembers(ctx, namesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list activity names: %w", err)
	}

	result := make(map[string]*domain.Activity, len(names))
	for _, name := range names {
		activity, err := r.load(ctx, name)
		if err != nil {
			return nil, err
		}
		result[name] = activity
	}
	return result, nil
}

// Get получает занятие по точному названию
func (r *ActivityRepository) Get(ctx context.Context, name string) (*domain.Activity, error) {
	registered, err := r.client.SIsMember(ctx, namesKey, name).Result()
	if err != nil {
		return nil, err
	}
	if !registered {
		return nil, domain.ErrActivityNotFound
	}
	return r.load(ctx, name)
}

// AddParticipant добавляет email в конец списка участников.
// Между LPOS и RPUSH есть окно; в худшем случае гонка двух одинаковых
// записей дает дубликат, который первым же Unregister удаляется по одному
func (r *ActivityRepository) AddParticipant(ctx context.Context, name, email string) error {
	registered, err := r.client.SIsMember(ctx, namesKey, name).Result()
	if err != nil {
		return err
	}
	if !registered {
		return domain.ErrActivityNotFound
	}

	_, err = r.client.LPos(ctx, participantsKey(name), email, redis.LPosArgs{}).Result()
	if err == nil {
		return domain.ErrAlreadyRegistered
	}
	if !errors.Is(err, redis.Nil) {
		return err
	}

	return r.client.RPush(ctx, participantsKey(name), email).Err()
}

// RemoveParticipant удаляет ровно одно вхождение email
func (r *ActivityRepository) RemoveParticipant(ctx context.Context, name, email string) error {
	registered, err := r.client.SIsMember(ctx, namesKey, name).Result()
	if err != nil {
		return err
	}
	if !registered {
		return domain.ErrActivityNotFound
	}

	removed, err := r.client.LRem(ctx, participantsKey(name), 1, email).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return domain.ErrNotRegistered
	}
	return nil
}

// Seed добавляет отсутствующие занятия, существующие не трогает
func (r *ActivityRepository) Seed(ctx context.Context, activities []*domain.Activity) error {
	for _, activity := range activities {
		added, err := r.client.SAdd(ctx, namesKey, activity.Name).Result()
		if err != nil {
			return err
		}
		// Занятие уже было — метаданные и участников не перезаписываем
		if added == 0 {
			continue
		}

		err = r.client.HSet(ctx, metaKey(activity.Name),
			"description", activity.Description,
			"schedule", activity.Schedule,
			"max_participants", activity.MaxParticipants,
		).Err()
		if err != nil {
			return err
		}

		for _, email := range activity.Participants {
			if err := r.client.RPush(ctx, participantsKey(activity.Name), email).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

// load собирает занятие из хеша метаданных и списка участников
func (r *ActivityRepository) load(ctx context.Context, name string) (*domain.Activity, error) {
	meta, err := r.client.HGetAll(ctx, metaKey(name)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load activity %q: %w", name, err)
	}
	if len(meta) == 0 {
		return nil, domain.ErrActivityNotFound
	}

	maxParticipants, err := strconv.Atoi(meta["max_participants"])
	if err != nil {
		return nil, fmt.Errorf("corrupt max_participants for %q: %w", name, err)
	}

	participants, err := r.client.LRange(ctx, participantsKey(name), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if participants == nil {
		participants = []string{}
	}

	return &domain.Activity{
		Name:            name,
		Description:     meta["description"],
		Schedule:        meta["schedule"],
		MaxParticipants: maxParticipants,
		Participants:    participants,
	}, nil
}
