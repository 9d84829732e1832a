package account

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRepository interface {
	ListByUser(userID uuid.UUID) ([]Account, error)
	FindByIDAndUser(id, userID uuid.UUID) (*Account, error)
	FindByProviderIDAndUser(providerAccountID string, userID uuid.UUID) (*Account, error)
	Create(a *Account) error
	Update(a *Account) error
	DeleteByIDAndUser(id, userID uuid.UUID) error
	DeleteAllByUser(userID uuid.UUID) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) ListByUser(userID uuid.UUID) ([]Account, error) {
	var accounts []Account
	if err := r.db.
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) FindByIDAndUser(id, userID uuid.UUID) (*Account, error) {
	var a Account
	if err := r.db.First(&a, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *accountRepository) FindByProviderIDAndUser(providerAccountID string, userID uuid.UUID) (*Account, error) {
	var a Account
	if err := r.db.First(&a, "provider_account_id = ? AND user_id = ?", providerAccountID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *accountRepository) Create(a *Account) error {
	return r.db.Create(a).Error
}

func (r *accountRepository) Update(a *Account) error {
	return r.db.Save(a).Error
}

func (r *accountRepository) DeleteByIDAndUser(id, userID uuid.UUID) error {
	return r.db.Delete(&Account{}, "id = ? AND user_id = ?", id, userID).Error
}

func (r *accountRepository) DeleteAllByUser(userID uuid.UUID) error {
	return r.db.Delete(&Account{}, "user_id = ?", userID).Error
}
