// Package notification is the email/notification collaborator. Delivery is
// best effort and never affects ledger correctness; this implementation
// just logs.
package notification

import (
	"context"
	"log"

	"starlive/internal/models"
)

// Service logs transaction notifications in place of a real email or push
// delivery pipeline.
type Service struct{}

// NewService creates a new notification service.
func NewService() *Service { return &Service{} }

// NotifyTransaction logs a transaction event for the user.
func (s *Service) NotifyTransaction(ctx context.Context, userID uint, tx *models.Transaction) error {
	log.Printf("notify user %d: %s %s now %s", userID, tx.Type, tx.Reference, tx.Status)
	return nil
}
