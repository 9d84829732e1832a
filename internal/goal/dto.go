package goal

import (
	"time"

	"github.com/finwiselabs/finwise-lambda/internal/account"
	util "github.com/finwiselabs/finwise-lambda/internal/utils"
	"github.com/google/uuid"
)

type CreateGoalDTO struct {
	Title           string       `json:"title"`
	TargetAmount    float64      `json:"target_amount"`
	Description     string       `json:"description"`
	Category        GoalCategory `json:"category"`
	Deadline        *util.Date   `json:"deadline"`
	LinkedAccountID *uuid.UUID   `json:"linked_account_id"`
	LinkedAmount    *float64     `json:"linked_amount"`
}

// UpdateGoalDTO patches title/target/description/category/deadline/status
// when present. The linked fields are always applied as sent: the edit form
// submits them on every save, and null is how an account gets unlinked.
type UpdateGoalDTO struct {
	Title           *string       `json:"title"`
	TargetAmount    *float64      `json:"target_amount"`
	Description     *string       `json:"description"`
	Category        *GoalCategory `json:"category"`
	Deadline        *util.Date    `json:"deadline"`
	Status          *GoalStatus   `json:"status"`
	LinkedAccountID *uuid.UUID    `json:"linked_account_id"`
	LinkedAmount    *float64      `json:"linked_amount"`
}

type AddProgressDTO struct {
	Amount float64      `json:"amount"`
	Type   ProgressType `json:"type"`
}

type GoalResponse struct {
	ID              uuid.UUID        `json:"id"`
	UserID          uuid.UUID        `json:"user_id"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	Category        GoalCategory     `json:"category,omitempty"`
	TargetAmount    float64          `json:"target_amount"`
	CurrentAmount   float64          `json:"current_amount"`
	LinkedAccountID *uuid.UUID       `json:"linked_account_id,omitempty"`
	LinkedAccount   *account.Account `json:"linked_account,omitempty"`
	LinkedAmount    *float64         `json:"linked_amount,omitempty"`
	Status          GoalStatus       `json:"status"`
	Deadline        *util.Date       `json:"deadline,omitempty"`

	TotalProgress      float64 `json:"total_progress"`
	ProgressPercentage float64 `json:"progress_percentage"`
	DaysRemaining      *int    `json:"days_remaining"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SummaryResponse struct {
	TotalGoals      int     `json:"total_goals"`
	ActiveGoals     int     `json:"active_goals"`
	CompletedGoals  int     `json:"completed_goals"`
	CancelledGoals  int     `json:"cancelled_goals"`
	TotalTarget     float64 `json:"total_target"`
	TotalSaved      float64 `json:"total_saved"`
	OverallProgress float64 `json:"overall_progress"`
}

type CategoryOption struct {
	Value GoalCategory `json:"value"`
	Label string       `json:"label"`
}

type SearchParams struct {
	SearchTerm string
	Status     GoalStatus
	Category   GoalCategory
	MinAmount  *float64
	MaxAmount  *float64
}

type ProgressInfoResponse struct {
	GoalID             uuid.UUID `json:"goal_id"`
	TargetAmount       float64   `json:"target_amount"`
	CurrentAmount      float64   `json:"current_amount"`
	LinkedAmount       float64   `json:"linked_amount"`
	TotalProgress      float64   `json:"total_progress"`
	ProgressPercentage float64   `json:"progress_percentage"`
	RemainingAmount    float64   `json:"remaining_amount"`
	DaysRemaining      *int      `json:"days_remaining"`
	// AvailableForLinked is the linked account's free window for further
	// linked contributions; null when the goal has no resolvable account.
	AvailableForLinked *float64 `json:"available_for_linked"`
}

type CategoryStats struct {
	Category    GoalCategory `json:"category"`
	Count       int          `json:"count"`
	TotalTarget float64      `json:"total_target"`
	TotalSaved  float64      `json:"total_saved"`
}

type StatisticsResponse struct {
	ByCategory       []CategoryStats `json:"by_category"`
	AverageProgress  float64         `json:"average_progress"`
	TotalTarget      float64         `json:"total_target"`
	TotalSaved       float64         `json:"total_saved"`
	GoalsWithAccount int             `json:"goals_with_linked_account"`
}
