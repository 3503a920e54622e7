package aml

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dinarpay/dinarpay/internal/notification"
	"github.com/dinarpay/dinarpay/internal/transactions"
)

// Screener inspects wallet movements and records alerts for suspicious ones.
type Screener interface {
	Inspect(ctx context.Context, movement Movement) error
}

// Service is a threshold-rule screener: any single movement at or above the
// configured amount raises an open alert. It is deliberately thin; scoring
// and case management live elsewhere.
type Service struct {
	repo          Repository
	thresholdFils int64
	notifier      notification.Notifier
}

// NewService builds the monitoring service.
func NewService(repo Repository, thresholdFils int64, notifier notification.Notifier) *Service {
	if thresholdFils <= 0 {
		thresholdFils = 10_000_000 // 10,000 JD
	}
	return &Service{repo: repo, thresholdFils: thresholdFils, notifier: notifier}
}

// Inspect applies the threshold rule to a movement.
func (s *Service) Inspect(ctx context.Context, movement Movement) error {
	if movement.AmountFils < s.thresholdFils {
		return nil
	}

	kind := KindLargeDeposit
	if movement.Kind == transactions.TypeTransfer {
		kind = KindLargeTransfer
	}

	alert := Alert{
		ID:         uuid.New().String(),
		UserID:     movement.UserID,
		Kind:       kind,
		AmountFils: movement.AmountFils,
		Currency:   movement.Currency,
		Note:       fmt.Sprintf("%s of %d fils %s at or above threshold %d", movement.Kind, movement.AmountFils, movement.Currency, s.thresholdFils),
		Status:     StatusOpen,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, alert); err != nil {
		return err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindAMLAlert,
			Destination: movement.UserID,
			Body:        alert.Note,
		})
	}
	return nil
}

// Alerts returns the user's alerts, newest first.
func (s *Service) Alerts(ctx context.Context, userID string, limit int) ([]Alert, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

// Dashboard aggregates alert counts by status.
func (s *Service) Dashboard(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByStatus(ctx)
}
