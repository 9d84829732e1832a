package goal

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/finwiselabs/finwise-lambda/internal/account"
	"github.com/finwiselabs/finwise-lambda/internal/auth"
	"github.com/finwiselabs/finwise-lambda/internal/config"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrGoalNotFound    = errors.New("goal not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidID       = errors.New("invalid id format")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidTarget   = errors.New("target_amount must be greater than zero")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrAccountNotFound = errors.New("linked account not found")
	ErrNoLinkedAccount = errors.New("goal has no linked account")
	ErrInvalidType     = errors.New("progress type must be manual or linked")
)

type GoalService interface {
	Create(ctx context.Context, dto CreateGoalDTO) (*GoalResponse, error)
	List(ctx context.Context, status GoalStatus, category GoalCategory) ([]GoalResponse, error)
	Get(ctx context.Context, id string) (*GoalResponse, error)
	Update(ctx context.Context, id string, dto UpdateGoalDTO) (*GoalResponse, error)
	Delete(ctx context.Context, id string) error
	AddProgress(ctx context.Context, id string, dto AddProgressDTO) (*GoalResponse, error)
	Summary(ctx context.Context) (*SummaryResponse, error)
	Search(ctx context.Context, params SearchParams) ([]GoalResponse, error)
	Overdue(ctx context.Context) ([]GoalResponse, error)
	NearDeadline(ctx context.Context, days int) ([]GoalResponse, error)
	Categories() []CategoryOption
	ProgressInfo(ctx context.Context, id string) (*ProgressInfoResponse, error)
	Statistics(ctx context.Context) (*StatisticsResponse, error)

	// UnlinkAccount implements account.GoalUnlinker: it drops every
	// reservation against an account that is being deleted.
	UnlinkAccount(ctx context.Context, userID, accountID uuid.UUID) error
}

type goalService struct {
	repo         GoalRepository
	accounts     account.AccountRepository
	autoComplete bool
}

func NewService(repo GoalRepository, accounts account.AccountRepository, autoComplete bool) GoalService {
	return &goalService{
		repo:         repo,
		accounts:     accounts,
		autoComplete: autoComplete,
	}
}

func getUserIDFromContext(ctx context.Context, log logrus.FieldLogger, action string) (uuid.UUID, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		log.WithError(err).Warnf("Attempt to %s without authentication", action)
		return uuid.Nil, ErrUnauthorized
	}
	return uuid.MustParse(claims.UserID), nil
}

func parseUUID(log logrus.FieldLogger, id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		log.WithError(err).Warn("Invalid goal ID")
		return uuid.Nil, ErrInvalidID
	}
	return parsed, nil
}

func (s *goalService) Create(ctx context.Context, dto CreateGoalDTO) (*GoalResponse, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "create goal")
	if err != nil {
		return nil, err
	}

	if dto.Title == "" {
		return nil, ErrTitleRequired
	}
	if dto.TargetAmount <= 0 || math.IsNaN(dto.TargetAmount) {
		return nil, ErrInvalidTarget
	}
	if dto.Category != "" && !dto.Category.IsValid() {
		return nil, ErrInvalidCategory
	}

	g := Goal{
		UserID:          userID,
		Title:           dto.Title,
		Description:     dto.Description,
		Category:        dto.Category,
		TargetAmount:    dto.TargetAmount,
		CurrentAmount:   0,
		Deadline:        dto.Deadline,
		Status:          GoalStatusActive,
		LinkedAccountID: dto.LinkedAccountID,
		LinkedAmount:    dto.LinkedAmount,
	}

	if err := s.checkReservation(ctx, userID, &g, uuid.Nil); err != nil {
		return nil, err
	}

	s.maybeComplete(&g)

	if err := s.repo.Create(&g); err != nil {
		log.WithError(err).Error("Failed to create goal")
		return nil, err
	}

	log.WithField("goal_id", g.ID).Info("Goal created successfully")
	return s.toResponse(ctx, &g), nil
}

// checkReservation re-validates the linked-amount invariant against the
// authoritative stored goal list. excludeGoalID skips the goal being edited
// so its previous reservation does not count against itself.
func (s *goalService) checkReservation(ctx context.Context, userID uuid.UUID, g *Goal, excludeGoalID uuid.UUID) error {
	if g.LinkedAccountID == nil {
		g.LinkedAmount = nil
		return nil
	}

	acc, err := s.accounts.FindByIDAndUser(*g.LinkedAccountID, userID)
	if err != nil {
		return err
	}
	if acc == nil {
		return ErrAccountNotFound
	}

	if g.LinkedAmount == nil {
		return nil
	}
	if *g.LinkedAmount < 0 || math.IsNaN(*g.LinkedAmount) {
		return ErrInvalidAmount
	}

	goals, err := s.repo.ListByUser(userID, "", "")
	if err != nil {
		return err
	}

	available := AvailableForAccount(acc, goals, excludeGoalID)
	return ValidateReservation(*g.LinkedAmount, available)
}

func (s *goalService) List(ctx context.Context, status GoalStatus, category GoalCategory) ([]GoalResponse, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "list goals")
	if err != nil {
		return nil, err
	}

	if status != "" && !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if category != "" && !category.IsValid() {
		return nil, ErrInvalidCategory
	}

	goals, err := s.repo.ListByUser(userID, status, category)
	if err != nil {
		log.WithError(err).Error("Failed to list goals")
		return nil, err
	}

	return s.toResponses(ctx, goals), nil
}

func (s *goalService) Get(ctx context.Context, id string) (*GoalResponse, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "fetch goal")
	if err != nil {
		return nil, err
	}

	goalID, err := parseUUID(log, id)
	if err != nil {
		return nil, err
	}

	g, err := s.repo.FindByIDAndUser(goalID, userID)
	if err != nil {
		log.WithError(err).Error("Failed to fetch goal")
		return nil, err
	}
	if g == nil {
		return nil, ErrGoalNotFound
	}

	return s.toResponse(ctx, g), nil
}

func (s *goalService) Update(ctx context.Context, id string, dto UpdateGoalDTO) (*GoalResponse, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "update goal")
	if err != nil {
		return nil, err
	}

	goalID, err := parseUUID(log, id)
	if err != nil {
		return nil, err
	}

	g, err := s.repo.FindByIDAndUser(goalID, userID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGoalNotFound
	}

	if dto.Title != nil {
		if *dto.Title == "" {
			return nil, ErrTitleRequired
		}
		g.Title = *dto.Title
	}
	if dto.TargetAmount != nil {
		if *dto.TargetAmount <= 0 || math.IsNaN(*dto.TargetAmount) {
			return nil, ErrInvalidTarget
		}
		g.TargetAmount = *dto.TargetAmount
	}
	if dto.Description != nil {
		g.Description = *dto.Description
	}
	if dto.Category != nil {
		if *dto.Category != "" && !dto.Category.IsValid() {
			return nil, ErrInvalidCategory
		}
		g.Category = *dto.Category
	}
	if dto.Deadline != nil {
		g.Deadline = dto.Deadline
	}
	if dto.Status != nil {
		if !dto.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		g.Status = *dto.Status
	}

	// The edit form always submits the linked pair; applying them as sent
	// is how an account gets unlinked.
	g.LinkedAccountID = dto.LinkedAccountID
	g.LinkedAmount = dto.LinkedAmount
	g.LinkedAccount = nil

	if err := s.checkReservation(ctx, userID, g, g.ID); err != nil {
		return nil, err
	}

	s.maybeComplete(g)

	if err := s.repo.Update(g); err != nil {
		log.WithError(err).Error("Failed to update goal")
		return nil, err
	}

	log.WithField("goal_id", g.ID).Info("Goal updated successfully")
	return s.toResponse(ctx, g), nil
}

func (s *goalService) Delete(ctx context.Context, id string) error {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "delete goal")
	if err != nil {
		return err
	}

	goalID, err := parseUUID(log, id)
	if err != nil {
		return err
	}

	g, err := s.repo.FindByIDAndUser(goalID, userID)
	if err != nil {
		return err
	}
	if g == nil {
		return ErrGoalNotFound
	}

	if err := s.repo.Delete(goalID, userID); err != nil {
		log.WithError(err).Error("Failed to delete goal")
		return err
	}

	log.WithField("goal_id", id).Info("Goal deleted successfully")
	return nil
}

// AddProgress applies a contribution to a goal. Manual contributions grow
// current_amount; linked contributions grow linked_amount after the
// reservation check, which excludes this goal's own reservation (its prior
// linked amount does not block adding more up to the account's free
// capacity).
func (s *goalService) AddProgress(ctx context.Context, id string, dto AddProgressDTO) (*GoalResponse, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "update goal progress")
	if err != nil {
		return nil, err
	}

	goalID, err := parseUUID(log, id)
	if err != nil {
		return nil, err
	}

	g, err := s.repo.FindByIDAndUser(goalID, userID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGoalNotFound
	}

	progressType := dto.Type
	if progressType == "" {
		progressType = ProgressManual
	}
	if !progressType.IsValid() {
		return nil, ErrInvalidType
	}

	// Non-positive or unparsable amounts are dropped without an error; the
	// dashboard treats them as a no-op rather than a failure.
	if dto.Amount <= 0 || math.IsNaN(dto.Amount) || math.IsInf(dto.Amount, 0) {
		return s.toResponse(ctx, g), nil
	}

	switch progressType {
	case ProgressManual:
		g.CurrentAmount += dto.Amount

	case ProgressLinked:
		if g.LinkedAccountID == nil {
			return nil, ErrNoLinkedAccount
		}

		acc, err := s.accounts.FindByIDAndUser(*g.LinkedAccountID, userID)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			return nil, ErrAccountNotFound
		}

		goals, err := s.repo.ListByUser(userID, "", "")
		if err != nil {
			return nil, err
		}

		available := AvailableForAccount(acc, goals, g.ID)
		if err := ValidateReservation(dto.Amount, available); err != nil {
			return nil, err
		}

		next := dto.Amount
		if g.LinkedAmount != nil {
			next += *g.LinkedAmount
		}
		g.LinkedAmount = &next
	}

	s.maybeComplete(g)

	if err := s.repo.Update(g); err != nil {
		log.WithError(err).Error("Failed to persist goal progress")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"goal_id": g.ID,
		"amount":  dto.Amount,
		"type":    progressType,
	}).Info("Goal progress updated")
	return s.toResponse(ctx, g), nil
}

func (s *goalService) Summary(ctx context.Context) (*SummaryResponse, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "summarize goals")
	if err != nil {
		return nil, err
	}

	goals, err := s.repo.ListByUser(userID, "", "")
	if err != nil {
		return nil, err
	}

	summary := SummaryResponse{TotalGoals: len(goals)}
	for i := range goals {
		g := &goals[i]
		switch g.Status {
		case GoalStatusActive:
			summary.ActiveGoals++
		case GoalStatusCompleted:
			summary.CompletedGoals++
		case GoalStatusCancelled:
			summary.CancelledGoals++
		}
		summary.TotalTarget += g.TargetAmount
		summary.TotalSaved += TotalProgress(g)
	}
	if summary.TotalTarget > 0 {
		summary.OverallProgress = 100 * summary.TotalSaved / summary.TotalTarget
	}
	return &summary, nil
}

func (s *goalService) Search(ctx context.Context, params SearchParams) ([]GoalResponse, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "search goals")
	if err != nil {
		return nil, err
	}

	goals, err := s.repo.Search(userID, params)
	if err != nil {
		log.WithError(err).Error("Failed to search goals")
		return nil, err
	}
	return s.toResponses(ctx, goals), nil
}

func (s *goalService) Overdue(ctx context.Context) ([]GoalResponse, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "list overdue goals")
	if err != nil {
		return nil, err
	}

	goals, err := s.repo.ListOverdue(userID, startOfToday())
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, goals), nil
}

func (s *goalService) NearDeadline(ctx context.Context, days int) ([]GoalResponse, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "list goals near deadline")
	if err != nil {
		return nil, err
	}

	if days <= 0 {
		days = 7
	}

	from := startOfToday()
	goals, err := s.repo.ListNearDeadline(userID, from, from.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, goals), nil
}

var categoryLabels = map[GoalCategory]string{
	CategorySavings:    "Savings",
	CategoryInvestment: "Investment",
	CategoryDebt:       "Debt Payoff",
	CategoryEmergency:  "Emergency Fund",
	CategoryVacation:   "Vacation",
	CategoryEducation:  "Education",
	CategoryOther:      "Other",
}

func (s *goalService) Categories() []CategoryOption {
	options := make([]CategoryOption, 0, len(AllCategories))
	for _, c := range AllCategories {
		options = append(options, CategoryOption{Value: c, Label: categoryLabels[c]})
	}
	return options
}

func (s *goalService) ProgressInfo(ctx context.Context, id string) (*ProgressInfoResponse, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "fetch goal progress info")
	if err != nil {
		return nil, err
	}

	goalID, err := parseUUID(log, id)
	if err != nil {
		return nil, err
	}

	g, err := s.repo.FindByIDAndUser(goalID, userID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGoalNotFound
	}

	info := ProgressInfoResponse{
		GoalID:             g.ID,
		TargetAmount:       g.TargetAmount,
		CurrentAmount:      g.CurrentAmount,
		TotalProgress:      TotalProgress(g),
		ProgressPercentage: ProgressPercentage(g),
	}
	if g.LinkedAmount != nil {
		info.LinkedAmount = *g.LinkedAmount
	}
	if remaining := g.TargetAmount - info.TotalProgress; remaining > 0 {
		info.RemainingAmount = remaining
	}
	if g.Deadline != nil && !g.Deadline.IsZero() {
		days := g.Deadline.DaysUntil(time.Now())
		info.DaysRemaining = &days
	}

	if g.LinkedAccountID != nil {
		acc, err := s.accounts.FindByIDAndUser(*g.LinkedAccountID, userID)
		if err != nil {
			return nil, err
		}
		goals, err := s.repo.ListByUser(userID, "", "")
		if err != nil {
			return nil, err
		}
		info.AvailableForLinked = AvailableForAccount(acc, goals, g.ID)
	}

	return &info, nil
}

func (s *goalService) Statistics(ctx context.Context) (*StatisticsResponse, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "compute goal statistics")
	if err != nil {
		return nil, err
	}

	goals, err := s.repo.ListByUser(userID, "", "")
	if err != nil {
		return nil, err
	}

	stats := StatisticsResponse{}
	byCategory := map[GoalCategory]*CategoryStats{}
	var progressSum float64

	for i := range goals {
		g := &goals[i]
		category := g.Category
		if category == "" {
			category = CategoryOther
		}
		cs, ok := byCategory[category]
		if !ok {
			cs = &CategoryStats{Category: category}
			byCategory[category] = cs
		}
		cs.Count++
		cs.TotalTarget += g.TargetAmount
		cs.TotalSaved += TotalProgress(g)

		stats.TotalTarget += g.TargetAmount
		stats.TotalSaved += TotalProgress(g)
		progressSum += ProgressPercentage(g)
		if g.LinkedAccountID != nil {
			stats.GoalsWithAccount++
		}
	}

	for _, c := range AllCategories {
		if cs, ok := byCategory[c]; ok {
			stats.ByCategory = append(stats.ByCategory, *cs)
		}
	}
	if len(goals) > 0 {
		stats.AverageProgress = progressSum / float64(len(goals))
	}
	return &stats, nil
}

func (s *goalService) UnlinkAccount(ctx context.Context, userID, accountID uuid.UUID) error {
	log := config.WithContext(ctx)

	goals, err := s.repo.ListByLinkedAccount(userID, accountID)
	if err != nil {
		return err
	}

	for i := range goals {
		g := &goals[i]
		g.LinkedAccountID = nil
		g.LinkedAmount = nil
		g.LinkedAccount = nil
		if err := s.repo.Update(g); err != nil {
			log.WithError(err).Errorf("Failed to unlink goal %s from account %s", g.ID, accountID)
			return err
		}
	}

	if len(goals) > 0 {
		log.WithFields(logrus.Fields{
			"account_id": accountID,
			"goals":      len(goals),
		}).Info("Goals unlinked from deleted account")
	}
	return nil
}

func (s *goalService) maybeComplete(g *Goal) {
	if !s.autoComplete {
		return
	}
	if g.Status == GoalStatusActive && g.TargetAmount > 0 && TotalProgress(g) >= g.TargetAmount {
		g.Status = GoalStatusCompleted
	}
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *goalService) toResponse(ctx context.Context, g *Goal) *GoalResponse {
	resp := GoalResponse{
		ID:              g.ID,
		UserID:          g.UserID,
		Title:           g.Title,
		Description:     g.Description,
		Category:        g.Category,
		TargetAmount:    g.TargetAmount,
		CurrentAmount:   g.CurrentAmount,
		LinkedAccountID: g.LinkedAccountID,
		LinkedAccount:   g.LinkedAccount,
		LinkedAmount:    g.LinkedAmount,
		Status:          g.Status,
		Deadline:        g.Deadline,

		TotalProgress:      TotalProgress(g),
		ProgressPercentage: ProgressPercentage(g),

		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	if g.Deadline != nil && !g.Deadline.IsZero() {
		days := g.Deadline.DaysUntil(time.Now())
		resp.DaysRemaining = &days
	}
	return &resp
}

func (s *goalService) toResponses(ctx context.Context, goals []Goal) []GoalResponse {
	responses := make([]GoalResponse, 0, len(goals))
	for i := range goals {
		responses = append(responses, *s.toResponse(ctx, &goals[i]))
	}
	return responses
}
