package goal

import (
	"time"

	"github.com/finwiselabs/finwise-lambda/internal/account"
	"github.com/finwiselabs/finwise-lambda/internal/user"
	util "github.com/finwiselabs/finwise-lambda/internal/utils"
	"github.com/google/uuid"
)

type Goal struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID    `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	User        user.User    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `json:"description,omitempty"`
	Category    GoalCategory `json:"category,omitempty"`

	TargetAmount  float64 `gorm:"not null" json:"target_amount"`
	CurrentAmount float64 `gorm:"not null;default:0" json:"current_amount"`

	// LinkedAmount is the slice of the linked account's available balance
	// earmarked for this goal. Both fields are null when no account backs
	// the goal.
	LinkedAccountID *uuid.UUID       `gorm:"type:uuid;index" json:"linked_account_id,omitempty"`
	LinkedAccount   *account.Account `gorm:"foreignKey:LinkedAccountID;constraint:OnDelete:SET NULL;" json:"linked_account,omitempty"`
	LinkedAmount    *float64         `json:"linked_amount,omitempty"`

	Status   GoalStatus `gorm:"not null;default:active" json:"status"`
	Deadline *util.Date `gorm:"type:date" json:"deadline,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
