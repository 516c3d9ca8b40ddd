package settlement

import "errors"

// Service errors
var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrCurrencyMismatch    = errors.New("currency does not match wallet")
	ErrSelfTransfer        = errors.New("cannot transfer to self")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrRecipientNotFound   = errors.New("recipient not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidState        = errors.New("transaction is not in a moderatable state")
	ErrInvalidAction       = errors.New("unknown moderation action")
)
