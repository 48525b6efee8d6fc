package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"gorm.io/gorm"
)

// AnswersSource supplies the latest questionnaire answers of a user.
type AnswersSource interface {
	LatestAnswers(ctx context.Context, userID uuid.UUID) (*models.QuestionnaireAnswers, error)
}

// QuestionnaireRepository stores versioned questionnaire answers and the
// profile change log.
type QuestionnaireRepository struct {
	db *gorm.DB
}

var _ AnswersSource = (*QuestionnaireRepository)(nil)

func NewQuestionnaireRepository(db *gorm.DB) *QuestionnaireRepository {
	return &QuestionnaireRepository{db: db}
}

// LatestAnswers returns ErrNoQuestionnaire when the user never submitted one.
func (r *QuestionnaireRepository) LatestAnswers(ctx context.Context, userID uuid.UUID) (*models.QuestionnaireAnswers, error) {
	var answers models.QuestionnaireAnswers
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("version DESC").
		First(&answers).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoQuestionnaire
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load questionnaire: %w", err)
	}
	return &answers, nil
}

// Save inserts a new version together with its profile history rows.
func (r *QuestionnaireRepository) Save(ctx context.Context, answers *models.QuestionnaireAnswers, changes []models.ProfileHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(answers).Error; err != nil {
			return fmt.Errorf("failed to save questionnaire: %w", err)
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Create(&changes).Error; err != nil {
			return fmt.Errorf("failed to save profile history: %w", err)
		}
		return nil
	})
}

// History returns the profile change log, newest first.
func (r *QuestionnaireRepository) History(ctx context.Context, userID uuid.UUID) ([]models.ProfileHistory, error) {
	var history []models.ProfileHistory
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("changed_at DESC, id DESC").
		Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to load profile history: %w", err)
	}
	return history, nil
}
