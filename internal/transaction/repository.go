package transaction

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	ListByUser(userID uuid.UUID, params ListParams) ([]Transaction, error)
	FindByIDAndUser(id, userID uuid.UUID) (*Transaction, error)
	FindByProviderIDAndUser(providerTransactionID string, userID uuid.UUID) (*Transaction, error)
	Create(t *Transaction) error
	Update(t *Transaction) error
	DeleteByIDAndUser(id, userID uuid.UUID) error
	DeleteAllByUser(userID uuid.UUID) error
}

type transactionRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) ListByUser(userID uuid.UUID, params ListParams) ([]Transaction, error) {
	q := r.db.Where("user_id = ?", userID)
	if params.StartDate != nil {
		q = q.Where("date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		q = q.Where("date <= ?", *params.EndDate)
	}
	if params.Limit > 0 {
		q = q.Limit(params.Limit)
	}
	if params.Offset > 0 {
		q = q.Offset(params.Offset)
	}

	var transactions []Transaction
	if err := q.Order("date DESC, created_at DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *transactionRepository) FindByIDAndUser(id, userID uuid.UUID) (*Transaction, error) {
	var t Transaction
	if err := r.db.First(&t, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepository) FindByProviderIDAndUser(providerTransactionID string, userID uuid.UUID) (*Transaction, error) {
	var t Transaction
	if err := r.db.First(&t, "provider_transaction_id = ? AND user_id = ?",
		providerTransactionID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepository) Create(t *Transaction) error {
	return r.db.Create(t).Error
}

func (r *transactionRepository) Update(t *Transaction) error {
	return r.db.Save(t).Error
}

func (r *transactionRepository) DeleteByIDAndUser(id, userID uuid.UUID) error {
	return r.db.Delete(&Transaction{}, "id = ? AND user_id = ?", id, userID).Error
}

func (r *transactionRepository) DeleteAllByUser(userID uuid.UUID) error {
	return r.db.Delete(&Transaction{}, "user_id = ?", userID).Error
}
