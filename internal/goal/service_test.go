package goal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finwiselabs/finwise-lambda/internal/account"
	"github.com/finwiselabs/finwise-lambda/internal/auth"
	"github.com/finwiselabs/finwise-lambda/internal/goal"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGoalRepo struct {
	goals       map[uuid.UUID]*goal.Goal
	updateCalls int
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: map[uuid.UUID]*goal.Goal{}}
}

func (r *fakeGoalRepo) Create(g *goal.Goal) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	copied := *g
	r.goals[g.ID] = &copied
	return nil
}

func (r *fakeGoalRepo) FindByIDAndUser(id, userID uuid.UUID) (*goal.Goal, error) {
	g, ok := r.goals[id]
	if !ok || g.UserID != userID {
		return nil, nil
	}
	copied := *g
	return &copied, nil
}

func (r *fakeGoalRepo) ListByUser(userID uuid.UUID, status goal.GoalStatus, category goal.GoalCategory) ([]goal.Goal, error) {
	var out []goal.Goal
	for _, g := range r.goals {
		if g.UserID != userID {
			continue
		}
		if status != "" && g.Status != status {
			continue
		}
		if category != "" && g.Category != category {
			continue
		}
		out = append(out, *g)
	}
	return out, nil
}

func (r *fakeGoalRepo) ListByLinkedAccount(userID, accountID uuid.UUID) ([]goal.Goal, error) {
	var out []goal.Goal
	for _, g := range r.goals {
		if g.UserID == userID && g.LinkedAccountID != nil && *g.LinkedAccountID == accountID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *fakeGoalRepo) Search(userID uuid.UUID, params goal.SearchParams) ([]goal.Goal, error) {
	return r.ListByUser(userID, params.Status, params.Category)
}

func (r *fakeGoalRepo) ListOverdue(userID uuid.UUID, today time.Time) ([]goal.Goal, error) {
	return nil, nil
}

func (r *fakeGoalRepo) ListNearDeadline(userID uuid.UUID, from, until time.Time) ([]goal.Goal, error) {
	return nil, nil
}

func (r *fakeGoalRepo) Update(g *goal.Goal) error {
	r.updateCalls++
	copied := *g
	r.goals[g.ID] = &copied
	return nil
}

func (r *fakeGoalRepo) Delete(id, userID uuid.UUID) error {
	delete(r.goals, id)
	return nil
}

type fakeAccountRepo struct {
	accounts map[uuid.UUID]*account.Account
}

func newFakeAccountRepo(accounts ...*account.Account) *fakeAccountRepo {
	r := &fakeAccountRepo{accounts: map[uuid.UUID]*account.Account{}}
	for _, a := range accounts {
		r.accounts[a.ID] = a
	}
	return r
}

func (r *fakeAccountRepo) ListByUser(userID uuid.UUID) ([]account.Account, error) {
	var out []account.Account
	for _, a := range r.accounts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) FindByIDAndUser(id, userID uuid.UUID) (*account.Account, error) {
	a, ok := r.accounts[id]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	return a, nil
}

func (r *fakeAccountRepo) FindByProviderIDAndUser(providerAccountID string, userID uuid.UUID) (*account.Account, error) {
	for _, a := range r.accounts {
		if a.UserID == userID && a.ProviderAccountID == providerAccountID {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) Create(a *account.Account) error { r.accounts[a.ID] = a; return nil }
func (r *fakeAccountRepo) Update(a *account.Account) error { r.accounts[a.ID] = a; return nil }
func (r *fakeAccountRepo) DeleteByIDAndUser(id, userID uuid.UUID) error {
	delete(r.accounts, id)
	return nil
}
func (r *fakeAccountRepo) DeleteAllByUser(userID uuid.UUID) error { return nil }

func authedContext(userID uuid.UUID) context.Context {
	return auth.ContextWithClaims(context.Background(), &auth.UserClaims{
		UserID: userID.String(),
		Email:  "user@example.com",
	})
}

type fixture struct {
	userID  uuid.UUID
	acc     *account.Account
	goals   *fakeGoalRepo
	service goal.GoalService
	ctx     context.Context
}

func newFixture(t *testing.T, available float64, autoComplete bool) *fixture {
	t.Helper()

	userID := uuid.New()
	acc := &account.Account{
		ID:     uuid.New(),
		UserID: userID,
		Name:   "Checking",
		Balances: account.Balances{
			Current:   available,
			Available: floatPtr(available),
		},
	}
	goals := newFakeGoalRepo()
	service := goal.NewService(goals, newFakeAccountRepo(acc), autoComplete)

	return &fixture{
		userID:  userID,
		acc:     acc,
		goals:   goals,
		service: service,
		ctx:     authedContext(userID),
	}
}

func (f *fixture) seedGoal(t *testing.T, g goal.Goal) uuid.UUID {
	t.Helper()
	g.UserID = f.userID
	if g.Status == "" {
		g.Status = goal.GoalStatusActive
	}
	require.NoError(t, f.goals.Create(&g))
	return g.ID
}

func TestCreateReservation(t *testing.T) {
	t.Run("RejectsOverReservation", func(t *testing.T) {
		f := newFixture(t, 1000, false)
		f.seedGoal(t, goal.Goal{
			Title:           "Existing",
			TargetAmount:    2000,
			LinkedAccountID: &f.acc.ID,
			LinkedAmount:    floatPtr(300),
		})

		_, err := f.service.Create(f.ctx, goal.CreateGoalDTO{
			Title:           "New goal",
			TargetAmount:    2000,
			LinkedAccountID: &f.acc.ID,
			LinkedAmount:    floatPtr(800),
		})

		var reservationErr *goal.ReservationError
		require.True(t, errors.As(err, &reservationErr))
		assert.Equal(t, 700.0, reservationErr.Available)
	})

	t.Run("AllowsExactRemainder", func(t *testing.T) {
		f := newFixture(t, 1000, false)
		f.seedGoal(t, goal.Goal{
			Title:           "Existing",
			TargetAmount:    2000,
			LinkedAccountID: &f.acc.ID,
			LinkedAmount:    floatPtr(300),
		})

		resp, err := f.service.Create(f.ctx, goal.CreateGoalDTO{
			Title:           "New goal",
			TargetAmount:    2000,
			LinkedAccountID: &f.acc.ID,
			LinkedAmount:    floatPtr(700),
		})
		require.NoError(t, err)
		require.NotNil(t, resp.LinkedAmount)
		assert.Equal(t, 700.0, *resp.LinkedAmount)
	})

	t.Run("RejectsUnknownAccount", func(t *testing.T) {
		f := newFixture(t, 1000, false)
		other := uuid.New()

		_, err := f.service.Create(f.ctx, goal.CreateGoalDTO{
			Title:           "New goal",
			TargetAmount:    2000,
			LinkedAccountID: &other,
			LinkedAmount:    floatPtr(100),
		})
		assert.ErrorIs(t, err, goal.ErrAccountNotFound)
	})

	t.Run("RequiresPositiveTarget", func(t *testing.T) {
		f := newFixture(t, 1000, false)

		_, err := f.service.Create(f.ctx, goal.CreateGoalDTO{Title: "Bad", TargetAmount: 0})
		assert.ErrorIs(t, err, goal.ErrInvalidTarget)
	})
}

func TestAddProgress(t *testing.T) {
	t.Run("ManualGrowsCurrentAmount", func(t *testing.T) {
		f := newFixture(t, 1000, false)
		id := f.seedGoal(t, goal.Goal{Title: "Trip", TargetAmount: 1000, CurrentAmount: 100})

		resp, err := f.service.AddProgress(f.ctx, id.String(), goal.AddProgressDTO{
			Amount: 50,
			Type:   goal.ProgressManual,
		})
		require.NoError(t, err)
		assert.Equal(t, 150.0, resp.CurrentAmount)
		assert.Equal(t, 150.0, resp.TotalProgress)
	})

	t.Run("DefaultsToManual", func(t *testing.T) {
		f := newFixture(t, 1000, false)
		id := f.seedGoal(t, goal.Goal{Title: "Trip", TargetAmount: 1000})

		resp, err := f.service.AddProgress(f.ctx, id.String(), goal.AddProgressDTO{Amount: 25})
		require.NoError(t, err)
		assert.Equal(t, 25.0, resp.CurrentAmount)
	})

	t.Run("NonPositiveAmountIsNoOp", func(t *testing.T) {
		f := newFixture(t, 1000, false)
		id := f.seedGoal(t, goal.Goal{Title: "Trip", TargetAmount: 1000, CurrentAmount: 100})

		resp, err := f.service.AddProgress(f.ctx, id.String(), goal.AddProgressDTO{
			Amount: -10,
			Type:   goal.ProgressManual,
		})
		require.NoError(t, err)
		assert.Equal(t, 100.0, resp.CurrentAmount)
		assert.Zero(t, f.goals.updateCalls)
	})

	t.Run("LinkedExcludesOwnReservation", func(t *testing.T) {
		f := newFixture(t, 1000, false)
		id := f.seedGoal(t, goal.Goal{
			Title:           "House",
			TargetAmount:    5000,
			LinkedAccountID: &f.acc.ID,
			LinkedAmount:    floatPtr(300),
		})

		// The goal's own 300 does not count against it, so 750 fits
		// inside the account's full 1000 even though the sum lands on
		// 1050.
		resp, err := f.service.AddProgress(f.ctx, id.String(), goal.AddProgressDTO{
			Amount: 750,
			Type:   goal.ProgressLinked,
		})
		require.NoError(t, err)
		require.NotNil(t, resp.LinkedAmount)
		assert.Equal(t, 1050.0, *resp.LinkedAmount)
	})

	t.Run("LinkedBlockedByOtherGoals", func(t *testing.T) {
		f := newFixture(t, 1000, false)
		f.seedGoal(t, goal.Goal{
			Title:           "Other",
			TargetAmount:    5000,
			LinkedAccountID: &f.acc.ID,
			LinkedAmount:    floatPtr(800),
		})
		id := f.seedGoal(t, goal.Goal{
			Title:           "House",
			TargetAmount:    5000,
			LinkedAccountID: &f.acc.ID,
		})

		_, err := f.service.AddProgress(f.ctx, id.String(), goal.AddProgressDTO{
			Amount: 300,
			Type:   goal.ProgressLinked,
		})

		var reservationErr *goal.ReservationError
		require.True(t, errors.As(err, &reservationErr))
		assert.Equal(t, 200.0, reservationErr.Available)
	})

	t.Run("LinkedRequiresLinkedAccount", func(t *testing.T) {
		f := newFixture(t, 1000, false)
		id := f.seedGoal(t, goal.Goal{Title: "Trip", TargetAmount: 1000})

		_, err := f.service.AddProgress(f.ctx, id.String(), goal.AddProgressDTO{
			Amount: 50,
			Type:   goal.ProgressLinked,
		})
		assert.ErrorIs(t, err, goal.ErrNoLinkedAccount)
	})

	t.Run("UnknownGoal", func(t *testing.T) {
		f := newFixture(t, 1000, false)

		_, err := f.service.AddProgress(f.ctx, uuid.NewString(), goal.AddProgressDTO{
			Amount: 50,
			Type:   goal.ProgressManual,
		})
		assert.ErrorIs(t, err, goal.ErrGoalNotFound)
	})
}

func TestAutoComplete(t *testing.T) {
	t.Run("CompletesWhenEnabled", func(t *testing.T) {
		f := newFixture(t, 1000, true)
		id := f.seedGoal(t, goal.Goal{Title: "Trip", TargetAmount: 100, CurrentAmount: 60})

		resp, err := f.service.AddProgress(f.ctx, id.String(), goal.AddProgressDTO{
			Amount: 40,
			Type:   goal.ProgressManual,
		})
		require.NoError(t, err)
		assert.Equal(t, goal.GoalStatusCompleted, resp.Status)
	})

	t.Run("StaysActiveWhenDisabled", func(t *testing.T) {
		f := newFixture(t, 1000, false)
		id := f.seedGoal(t, goal.Goal{Title: "Trip", TargetAmount: 100, CurrentAmount: 60})

		resp, err := f.service.AddProgress(f.ctx, id.String(), goal.AddProgressDTO{
			Amount: 40,
			Type:   goal.ProgressManual,
		})
		require.NoError(t, err)
		assert.Equal(t, goal.GoalStatusActive, resp.Status)
	})
}

func TestUpdateReservation(t *testing.T) {
	t.Run("ExcludesOwnPreviousReservation", func(t *testing.T) {
		f := newFixture(t, 1000, false)
		id := f.seedGoal(t, goal.Goal{
			Title:           "House",
			TargetAmount:    5000,
			LinkedAccountID: &f.acc.ID,
			LinkedAmount:    floatPtr(300),
		})

		resp, err := f.service.Update(f.ctx, id.String(), goal.UpdateGoalDTO{
			LinkedAccountID: &f.acc.ID,
			LinkedAmount:    floatPtr(1000),
		})
		require.NoError(t, err)
		require.NotNil(t, resp.LinkedAmount)
		assert.Equal(t, 1000.0, *resp.LinkedAmount)
	})

	t.Run("NullLinkedFieldsUnlink", func(t *testing.T) {
		f := newFixture(t, 1000, false)
		id := f.seedGoal(t, goal.Goal{
			Title:           "House",
			TargetAmount:    5000,
			LinkedAccountID: &f.acc.ID,
			LinkedAmount:    floatPtr(300),
		})

		resp, err := f.service.Update(f.ctx, id.String(), goal.UpdateGoalDTO{})
		require.NoError(t, err)
		assert.Nil(t, resp.LinkedAccountID)
		assert.Nil(t, resp.LinkedAmount)
	})
}

func TestUnlinkAccount(t *testing.T) {
	f := newFixture(t, 1000, false)
	linked := f.seedGoal(t, goal.Goal{
		Title:           "House",
		TargetAmount:    5000,
		LinkedAccountID: &f.acc.ID,
		LinkedAmount:    floatPtr(300),
	})
	untouched := f.seedGoal(t, goal.Goal{Title: "Trip", TargetAmount: 1000, CurrentAmount: 50})

	require.NoError(t, f.service.UnlinkAccount(context.Background(), f.userID, f.acc.ID))

	g, err := f.goals.FindByIDAndUser(linked, f.userID)
	require.NoError(t, err)
	assert.Nil(t, g.LinkedAccountID)
	assert.Nil(t, g.LinkedAmount)

	other, err := f.goals.FindByIDAndUser(untouched, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, other.CurrentAmount)
}

func TestSummary(t *testing.T) {
	f := newFixture(t, 1000, false)
	f.seedGoal(t, goal.Goal{Title: "A", TargetAmount: 1000, CurrentAmount: 200, LinkedAmount: floatPtr(300)})
	f.seedGoal(t, goal.Goal{Title: "B", TargetAmount: 1000, CurrentAmount: 500, Status: goal.GoalStatusCompleted})

	summary, err := f.service.Summary(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalGoals)
	assert.Equal(t, 1, summary.ActiveGoals)
	assert.Equal(t, 1, summary.CompletedGoals)
	assert.Equal(t, 2000.0, summary.TotalTarget)
	assert.Equal(t, 1000.0, summary.TotalSaved)
	assert.Equal(t, 50.0, summary.OverallProgress)
}

func TestUnauthenticated(t *testing.T) {
	f := newFixture(t, 1000, false)

	_, err := f.service.List(context.Background(), "", "")
	assert.ErrorIs(t, err, goal.ErrUnauthorized)
}
