package service

import "errors"

var (
	// ErrNoQuestionnaire means the user has not submitted answers yet.
	ErrNoQuestionnaire = errors.New("no questionnaire answers for user")
	// ErrNotFound is returned when a meal, food or date does not exist.
	ErrNotFound = errors.New("not found")
	// ErrImmutableState is returned when mutating an archived day.
	ErrImmutableState = errors.New("daily plan is archived and cannot be modified")
	// ErrPersistence wraps failures of the key-value store.
	ErrPersistence = errors.New("persistence failure")
	// ErrInvalidToken is returned for any token that fails validation.
	ErrInvalidToken = errors.New("invalid token")

	errSuggestionUnavailable = errors.New("suggestions unavailable")
)
