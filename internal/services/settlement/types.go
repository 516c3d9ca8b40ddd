package settlement

import (
	"context"

	"starlive/internal/models"
)

// Moderation actions
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// DepositRequest asks for funds to be added to a user's wallet once the
// payment gateway settles.
type DepositRequest struct {
	UserID            uint
	Amount            int64
	Currency          string
	PaymentMethodType string
	PaymentMethod     models.PaymentMethod
	Description       string
}

// WithdrawRequest asks for funds to be paid out, pending moderation.
type WithdrawRequest struct {
	UserID            uint
	Amount            int64
	PaymentMethodType string
	PaymentMethod     models.PaymentMethod
	Description       string
}

// TransferRequest moves funds between two user wallets immediately.
type TransferRequest struct {
	FromUserID  uint
	ToUserID    uint
	Amount      int64
	Description string
}

// ModerateRequest is an administrative approve/reject of a pending
// transaction.
type ModerateRequest struct {
	TransactionID uint
	Action        string
	Reason        string
	ActorID       uint
}

// Result pairs the ledger entry an operation created with the caller's
// updated wallet view.
type Result struct {
	Transaction *models.Transaction
	Wallet      *models.Wallet
}

// GatewayResolver schedules asynchronous settlement of a pending deposit.
// The production implementation is the payment gateway simulator; tests
// plug in a no-op.
type GatewayResolver interface {
	Schedule(transactionID uint, paymentMethodType string)
}

// Notifier delivers best-effort user notifications. Failures are logged
// and never fail the operation.
type Notifier interface {
	NotifyTransaction(ctx context.Context, userID uint, tx *models.Transaction) error
}
