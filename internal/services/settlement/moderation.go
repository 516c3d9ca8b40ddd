package settlement

import (
	"context"
	"errors"

	"starlive/internal/models"
	"starlive/internal/repositories"
	"starlive/internal/services/wallet"
)

// Moderate applies an administrative approve or reject to a pending or
// processing transaction. The status change and its wallet effects commit
// in one unit of work with both rows locked; a transaction already in a
// terminal state fails InvalidState and nothing moves.
//
// Approve completes the transaction: a deposit credits balance and
// available; a withdrawal settles the earmark, debiting both pending and
// balance. Reject fails the transaction: a withdrawal's earmark moves back
// from pending to available, restoring the exact pre-request state.
func (s *service) Moderate(ctx context.Context, req ModerateRequest) (*models.Transaction, error) {
	if req.Action != ActionApprove && req.Action != ActionReject {
		return nil, ErrInvalidAction
	}

	var tx *models.Transaction
	err := s.repo.ExecuteInTransaction(func(r repositories.LedgerRepository) error {
		var err error
		tx, err = r.GetTransactionForUpdate(ctx, req.TransactionID)
		if err != nil {
			if errors.Is(err, repositories.ErrTransactionNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}
		if !tx.IsModeratable() {
			return ErrInvalidState
		}

		switch req.Action {
		case ActionApprove:
			if err := s.applyApproval(ctx, r, tx); err != nil {
				return err
			}
			tx.Status = models.TransactionStatusCompleted
		case ActionReject:
			if err := s.applyRejection(ctx, r, tx); err != nil {
				return err
			}
			tx.Status = models.TransactionStatusFailed
		}

		now := s.now()
		tx.ReviewedByID = &req.ActorID
		tx.ReviewedAt = &now
		tx.AdminNotes = req.Reason

		return r.UpdateTransaction(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.wallets.InvalidateCache(ctx, tx.UserID)
	s.notify(ctx, tx.UserID, tx)
	return tx, nil
}

func (s *service) applyApproval(ctx context.Context, r repositories.LedgerRepository, tx *models.Transaction) error {
	switch tx.Type {
	case models.TransactionTypeDeposit:
		_, err := wallet.ApplyDelta(ctx, r, tx.UserID, models.BalanceDelta{
			Balance:   tx.Amount,
			Available: tx.Amount,
		})
		return err
	case models.TransactionTypeWithdraw:
		// The withdrawal request moved the amount into pending without
		// touching balance; settling it releases both, so total holdings
		// shrink by exactly the paid-out amount.
		_, err := wallet.ApplyDelta(ctx, r, tx.UserID, models.BalanceDelta{
			Balance: -tx.Amount,
			Pending: -tx.Amount,
		})
		return err
	}
	return nil
}

func (s *service) applyRejection(ctx context.Context, r repositories.LedgerRepository, tx *models.Transaction) error {
	if tx.Type != models.TransactionTypeWithdraw {
		return nil
	}
	_, err := wallet.ApplyDelta(ctx, r, tx.UserID, models.BalanceDelta{
		Pending:   -tx.Amount,
		Available: tx.Amount,
	})
	return err
}
