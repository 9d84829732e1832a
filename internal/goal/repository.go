package goal

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GoalRepository interface {
	Create(g *Goal) error
	FindByIDAndUser(id, userID uuid.UUID) (*Goal, error)
	ListByUser(userID uuid.UUID, status GoalStatus, category GoalCategory) ([]Goal, error)
	ListByLinkedAccount(userID, accountID uuid.UUID) ([]Goal, error)
	Search(userID uuid.UUID, params SearchParams) ([]Goal, error)
	ListOverdue(userID uuid.UUID, today time.Time) ([]Goal, error)
	ListNearDeadline(userID uuid.UUID, from, until time.Time) ([]Goal, error)
	Update(g *Goal) error
	Delete(id, userID uuid.UUID) error
}

type goalRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(g *Goal) error {
	return r.db.Create(g).Error
}

func (r *goalRepository) FindByIDAndUser(id, userID uuid.UUID) (*Goal, error) {
	var g Goal
	if err := r.db.
		Preload("LinkedAccount").
		First(&g, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *goalRepository) ListByUser(userID uuid.UUID, status GoalStatus, category GoalCategory) ([]Goal, error) {
	q := r.db.Preload("LinkedAccount").Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var goals []Goal
	if err := q.Order("created_at DESC").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) ListByLinkedAccount(userID, accountID uuid.UUID) ([]Goal, error) {
	var goals []Goal
	if err := r.db.
		Where("user_id = ? AND linked_account_id = ?", userID, accountID).
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) Search(userID uuid.UUID, params SearchParams) ([]Goal, error) {
	q := r.db.Preload("LinkedAccount").Where("user_id = ?", userID)

	if params.SearchTerm != "" {
		term := "%" + params.SearchTerm + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", term, term)
	}
	if params.Status != "" {
		q = q.Where("status = ?", params.Status)
	}
	if params.Category != "" {
		q = q.Where("category = ?", params.Category)
	}
	if params.MinAmount != nil {
		q = q.Where("target_amount >= ?", *params.MinAmount)
	}
	if params.MaxAmount != nil {
		q = q.Where("target_amount <= ?", *params.MaxAmount)
	}

	var goals []Goal
	if err := q.Order("created_at DESC").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) ListOverdue(userID uuid.UUID, today time.Time) ([]Goal, error) {
	var goals []Goal
	if err := r.db.
		Preload("LinkedAccount").
		Where("user_id = ? AND status = ? AND deadline IS NOT NULL AND deadline < ?",
			userID, GoalStatusActive, today).
		Order("deadline ASC").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) ListNearDeadline(userID uuid.UUID, from, until time.Time) ([]Goal, error) {
	var goals []Goal
	if err := r.db.
		Preload("LinkedAccount").
		Where("user_id = ? AND status = ? AND deadline IS NOT NULL AND deadline >= ? AND deadline <= ?",
			userID, GoalStatusActive, from, until).
		Order("deadline ASC").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) Update(g *Goal) error {
	return r.db.Save(g).Error
}

func (r *goalRepository) Delete(id, userID uuid.UUID) error {
	return r.db.Delete(&Goal{}, "id = ? AND user_id = ?", id, userID).Error
}
