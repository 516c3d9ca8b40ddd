package wallet

import (
	"starlive/internal/models"
)

// Config holds wallet store defaults applied when a wallet is first
// created.
type Config struct {
	DefaultCurrency   string
	MinWithdrawAmount int64
}

// SettingsUpdate is the payload for UpdateSettings. Nil fields are left
// untouched. WithdrawalSettings is shallow-merged field by field; a
// provided daily or monthly limit of zero or less clears that limit.
type SettingsUpdate struct {
	WithdrawalSettings   *models.WithdrawalSettings
	DailyWithdrawLimit   *int64
	MonthlyWithdrawLimit *int64
}
