package domain

import "errors"

// Доменные ошибки реестра занятий
var (
	// ErrActivityNotFound возвращается когда занятие с таким названием не найдено
	ErrActivityNotFound = errors.New("activity not found")

	// ErrAlreadyRegistered возвращается при повторной записи того же email на занятие
	ErrAlreadyRegistered = errors.New("student is already signed up")

	// ErrNotRegistered возвращается при попытке отписать email, которого нет в списке
	ErrNotRegistered = errors.New("student is not registered for this activity")

	// ErrUnauthorized возвращается при неудачной аутентификации
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken возвращается когда JWT токен невалиден
	ErrInvalidToken = errors.New("invalid token")
)
