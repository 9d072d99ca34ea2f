package repository

import (
	"context"

	"github.com/mergington/activities-service/internal/domain"
)

// ActivityRepository определяет методы для работы с реестром занятий.
// Все реализации (memory, postgres, redis) обязаны соблюдать один и тот же
// автомат состояний для пары (занятие, email): повторная запись и отписка
// незаписанного участника возвращают доменные ошибки, а не проходят молча.
type ActivityRepository interface {
	// List возвращает все занятия, ключ — название занятия
	List(ctx context.Context) (map[string]*domain.Activity, error)

	// Get получает занятие по точному названию (с учетом регистра)
	Get(ctx context.Context, name string) (*domain.Activity, error)

	// AddParticipant добавляет email в конец списка участников.
	// Возвращает domain.ErrActivityNotFound или domain.ErrAlreadyRegistered
	AddParticipant(ctx context.Context, name, email string) error

	// RemoveParticipant удаляет ровно одно вхождение email из списка.
	// Возвращает domain.ErrActivityNotFound или domain.ErrNotRegistered
	RemoveParticipant(ctx context.Context, name, email string) error

	// Seed наполняет реестр стартовым каталогом. Идемпотентна: уже
	// существующие занятия и их списки участников не перезаписываются
	Seed(ctx context.Context, activities []*domain.Activity) error
}
