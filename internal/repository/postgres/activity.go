package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mergington/activities-service/internal/domain"
)

// ActivityRepository реализует repository.ActivityRepository для PostgreSQL
type ActivityRepository struct {
	db *pgxpool.Pool
}

// NewActivityRepository создает новый экземпляр ActivityRepository
func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// List возвращает все занятия с участниками в порядке записи
func (r *ActivityRepository) List(ctx context.Context) (map[string]*domain.Activity, error) {
	query := `
		SELECT name, description, schedule, max_participants
		FROM activities
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]*domain.Activity)
	for rows.Next() {
		activity := &domain.Activity{Participants: []string{}}
		if err := rows.Scan(&activity.Name, &activity.Description, &activity.Schedule, &activity.MaxParticipants); err != nil {
			return nil, err
		}
		result[activity.Name] = activity
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Участники одним запросом, порядок записи задает id
	participantsQuery := `
		SELECT activity_name, email
		FROM participants
		ORDER BY id
	`

	pRows, err := r.db.Query(ctx, participantsQuery)
	if err != nil {
		return nil, err
	}
	defer pRows.Close()

	for pRows.Next() {
		var activityName, email string
		if err := pRows.Scan(&activityName, &email); err != nil {
			return nil, err
		}
		if activity, ok := result[activityName]; ok {
			activity.Participants = append(activity.Participants, email)
		}
	}
	if err := pRows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Get получает занятие с участниками по точному названию
func (r *ActivityRepository) Get(ctx context.Context, name string) (*domain.Activity, error) {
	query := `
		SELECT name, description, schedule, max_participants
		FROM activities
		WHERE name = $1
	`

	activity := &domain.Activity{Participants: []string{}}
	err := r.db.QueryRow(ctx, query, name).Scan(
		&activity.Name, &activity.Description, &activity.Schedule, &activity.MaxParticipants,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, err
	}

	participantsQuery := `
		SELECT email
		FROM participants
		WHERE activity_name = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, participantsQuery, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		activity.Participants = append(activity.Participants, email)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return activity, nil
}

// AddParticipant добавляет участника; уникальный индекс (activity_name, email)
// превращает гонку двух одинаковых записей в ErrAlreadyRegistered
func (r *ActivityRepository) AddParticipant(ctx context.Context, name, email string) error {
	exists, err := r.exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrActivityNotFound
	}

	query := `INSERT INTO participants (activity_name, email) VALUES ($1, $2)`

	_, err = r.db.Exec(ctx, query, name, email)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return domain.ErrAlreadyRegistered
		}
		return err
	}

	return nil
}

// RemoveParticipant удаляет участника из занятия
func (r *ActivityRepository) RemoveParticipant(ctx context.Context, name, email string) error {
	exists, err := r.exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrActivityNotFound
	}

	query := `DELETE FROM participants WHERE activity_name = $1 AND email = $2`

	tag, err := r.db.Exec(ctx, query, name, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotRegistered
	}

	return nil
}

// Seed наполняет реестр; существующие занятия и их участники не трогаются
func (r *ActivityRepository) Seed(ctx context.Context, activities []*domain.Activity) error {
	activityQuery := `
		INSERT INTO activities (name, description, schedule, max_participants)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING
	`
	participantQuery := `
		INSERT INTO participants (activity_name, email)
		VALUES ($1, $2)
		ON CONFLICT (activity_name, email) DO NOTHING
	`

	for _, activity := range activities {
		tag, err := r.db.Exec(ctx, activityQuery,
			activity.Name, activity.Description, activity.Schedule, activity.MaxParticipants,
		)
		if err != nil {
			return err
		}
		// Занятие уже было в базе — список участников не трогаем
		if tag.RowsAffected() == 0 {
			continue
		}
		for _, email := range activity.Participants {
			if _, err := r.db.Exec(ctx, participantQuery, activity.Name, email); err != nil {
				return err
			}
		}
	}

	return nil
}

// exists проверяет существование занятия
func (r *ActivityRepository) exists(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM activities WHERE name = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
