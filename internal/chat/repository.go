package chat

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepository interface {
	Create(m *ChatMessage) error
	ListByUser(userID uuid.UUID) ([]ChatMessage, error)
	FindByIDAndUser(id, userID uuid.UUID) (*ChatMessage, error)
	DeleteByIDAndUser(id, userID uuid.UUID) error
	DeleteAllByUser(userID uuid.UUID) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(m *ChatMessage) error {
	return r.db.Create(m).Error
}

func (r *chatRepository) ListByUser(userID uuid.UUID) ([]ChatMessage, error) {
	var messages []ChatMessage
	if err := r.db.
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *chatRepository) FindByIDAndUser(id, userID uuid.UUID) (*ChatMessage, error) {
	var m ChatMessage
	if err := r.db.First(&m, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *chatRepository) DeleteByIDAndUser(id, userID uuid.UUID) error {
	return r.db.Delete(&ChatMessage{}, "id = ? AND user_id = ?", id, userID).Error
}

func (r *chatRepository) DeleteAllByUser(userID uuid.UUID) error {
	return r.db.Delete(&ChatMessage{}, "user_id = ?", userID).Error
}
