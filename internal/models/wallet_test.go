package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletApply(t *testing.T) {
	t.Run("applies mixed deltas", func(t *testing.T) {
		w := &Wallet{Balance: 100, AvailableBalance: 80, PendingBalance: 20}
		require.NoError(t, w.Apply(BalanceDelta{Balance: -30, Available: -30}))
		assert.Equal(t, int64(70), w.Balance)
		assert.Equal(t, int64(50), w.AvailableBalance)
		assert.Equal(t, int64(20), w.PendingBalance)
	})

	t.Run("refuses to take available negative", func(t *testing.T) {
		w := &Wallet{Balance: 100, AvailableBalance: 10}
		err := w.Apply(BalanceDelta{Available: -20})
		assert.ErrorIs(t, err, ErrBalanceNegative)
		// Untouched on error.
		assert.Equal(t, int64(100), w.Balance)
		assert.Equal(t, int64(10), w.AvailableBalance)
	})

	t.Run("refuses to take pending negative", func(t *testing.T) {
		w := &Wallet{PendingBalance: 5}
		assert.ErrorIs(t, w.Apply(BalanceDelta{Pending: -10}), ErrBalanceNegative)
	})

	t.Run("refuses to take frozen negative", func(t *testing.T) {
		w := &Wallet{}
		assert.ErrorIs(t, w.Apply(BalanceDelta{Frozen: -1}), ErrBalanceNegative)
	})

	t.Run("balance itself may go negative only through explicit deltas", func(t *testing.T) {
		// Balance carries no non-negativity invariant of its own; the
		// settlement operations never drive it below the other fields.
		w := &Wallet{Balance: 10, AvailableBalance: 10}
		require.NoError(t, w.Apply(BalanceDelta{Balance: -10, Available: -10}))
		assert.Zero(t, w.Balance)
	})
}

func TestWithdrawalSettingsMerge(t *testing.T) {
	method := "bank_transfer"
	auto := true
	s := WithdrawalSettings{PreferredMethod: strPtr("card"), NotifyOnPayout: boolPtr(false)}

	s.Merge(WithdrawalSettings{PreferredMethod: &method, AutoWithdraw: &auto})

	// Provided fields replaced, absent fields preserved.
	assert.Equal(t, "bank_transfer", *s.PreferredMethod)
	assert.True(t, *s.AutoWithdraw)
	assert.False(t, *s.NotifyOnPayout)
	assert.Nil(t, s.PayoutAccount)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
