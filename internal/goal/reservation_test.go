package goal_test

import (
	"errors"
	"testing"

	"github.com/finwiselabs/finwise-lambda/internal/account"
	"github.com/finwiselabs/finwise-lambda/internal/goal"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func testAccount(available float64) *account.Account {
	return &account.Account{
		ID:   uuid.New(),
		Name: "Checking",
		Balances: account.Balances{
			Current:   available,
			Available: floatPtr(available),
		},
	}
}

func linkedGoal(accountID uuid.UUID, amount *float64) goal.Goal {
	return goal.Goal{
		ID:              uuid.New(),
		Title:           "Linked goal",
		TargetAmount:    5000,
		LinkedAccountID: &accountID,
		LinkedAmount:    amount,
	}
}

func TestReservedForAccount(t *testing.T) {
	acc := testAccount(1000)
	other := uuid.New()

	goals := []goal.Goal{
		linkedGoal(acc.ID, floatPtr(300)),
		linkedGoal(acc.ID, floatPtr(150)),
		linkedGoal(other, floatPtr(9999)),
		linkedGoal(acc.ID, nil),
		{ID: uuid.New(), Title: "Unlinked", TargetAmount: 100},
	}

	t.Run("SumsOnlyThisAccount", func(t *testing.T) {
		assert.Equal(t, 450.0, goal.ReservedForAccount(acc.ID, goals, uuid.Nil))
	})

	t.Run("MissingLinkedAmountCountsAsZero", func(t *testing.T) {
		only := []goal.Goal{linkedGoal(acc.ID, nil)}
		assert.Equal(t, 0.0, goal.ReservedForAccount(acc.ID, only, uuid.Nil))
	})

	t.Run("ExcludesGivenGoal", func(t *testing.T) {
		reserved := goal.ReservedForAccount(acc.ID, goals, goals[0].ID)
		assert.Equal(t, 150.0, reserved)
	})

	t.Run("NilExcludeSkipsNothing", func(t *testing.T) {
		assert.Equal(t, 450.0, goal.ReservedForAccount(acc.ID, goals, uuid.Nil))
	})
}

func TestAvailableForAccount(t *testing.T) {
	t.Run("SubtractsExistingReservations", func(t *testing.T) {
		acc := testAccount(1000)
		goals := []goal.Goal{linkedGoal(acc.ID, floatPtr(300))}

		available := goal.AvailableForAccount(acc, goals, uuid.Nil)
		require.NotNil(t, available)
		assert.Equal(t, 700.0, *available)
	})

	t.Run("NilAccountMeansNoConstraint", func(t *testing.T) {
		assert.Nil(t, goal.AvailableForAccount(nil, nil, uuid.Nil))
	})

	t.Run("NullProviderBalanceIsZero", func(t *testing.T) {
		acc := testAccount(0)
		acc.Balances.Available = nil
		acc.Balances.Current = 500

		available := goal.AvailableForAccount(acc, nil, uuid.Nil)
		require.NotNil(t, available)
		assert.Equal(t, 0.0, *available)
	})

	t.Run("OverReservedGoesNegative", func(t *testing.T) {
		acc := testAccount(100)
		goals := []goal.Goal{linkedGoal(acc.ID, floatPtr(400))}

		available := goal.AvailableForAccount(acc, goals, uuid.Nil)
		require.NotNil(t, available)
		assert.Equal(t, -300.0, *available)
	})

	t.Run("PureAndRepeatable", func(t *testing.T) {
		acc := testAccount(1000)
		goals := []goal.Goal{linkedGoal(acc.ID, floatPtr(300))}

		first := goal.AvailableForAccount(acc, goals, uuid.Nil)
		second := goal.AvailableForAccount(acc, goals, uuid.Nil)
		require.NotNil(t, first)
		require.NotNil(t, second)
		assert.Equal(t, *first, *second)
		assert.Equal(t, 300.0, *goals[0].LinkedAmount)
		assert.Equal(t, 1000.0, acc.AvailableBalance())
	})
}

func TestValidateReservation(t *testing.T) {
	t.Run("RejectsAmountOverAvailable", func(t *testing.T) {
		acc := testAccount(1000)
		goals := []goal.Goal{linkedGoal(acc.ID, floatPtr(300))}
		available := goal.AvailableForAccount(acc, goals, uuid.Nil)

		err := goal.ValidateReservation(800, available)
		require.Error(t, err)

		var reservationErr *goal.ReservationError
		require.True(t, errors.As(err, &reservationErr))
		assert.Equal(t, 800.0, reservationErr.Requested)
		assert.Equal(t, 700.0, reservationErr.Available)
		assert.Equal(t, "cannot exceed available balance: $700.00", err.Error())
	})

	t.Run("ExactRemainderPasses", func(t *testing.T) {
		acc := testAccount(1000)
		goals := []goal.Goal{linkedGoal(acc.ID, floatPtr(300))}
		available := goal.AvailableForAccount(acc, goals, uuid.Nil)

		assert.NoError(t, goal.ValidateReservation(700, available))
	})

	t.Run("NilAvailableAlwaysPasses", func(t *testing.T) {
		assert.NoError(t, goal.ValidateReservation(1e12, nil))
	})
}

func TestProgressHelpers(t *testing.T) {
	t.Run("TotalProgressAddsLinked", func(t *testing.T) {
		g := goal.Goal{CurrentAmount: 200, LinkedAmount: floatPtr(300)}
		assert.Equal(t, 500.0, goal.TotalProgress(&g))
	})

	t.Run("TotalProgressWithoutLinked", func(t *testing.T) {
		g := goal.Goal{CurrentAmount: 200}
		assert.Equal(t, 200.0, goal.TotalProgress(&g))
	})

	t.Run("PercentageOfTarget", func(t *testing.T) {
		g := goal.Goal{TargetAmount: 1000, CurrentAmount: 250, LinkedAmount: floatPtr(250)}
		assert.Equal(t, 50.0, goal.ProgressPercentage(&g))
	})

	t.Run("ZeroTargetReportsZero", func(t *testing.T) {
		g := goal.Goal{TargetAmount: 0, CurrentAmount: 250}
		assert.Equal(t, 0.0, goal.ProgressPercentage(&g))
	})
}
