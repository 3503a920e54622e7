package aml

import (
	"context"
	"testing"

	"github.com/dinarpay/dinarpay/internal/transactions"
)

func TestInspectBelowThresholdIsSilent(t *testing.T) {
	svc := NewService(NewMemoryRepository(), 10_000_000, nil)
	ctx := context.Background()

	err := svc.Inspect(ctx, Movement{
		UserID:     "u1",
		Kind:       transactions.TypeDeposit,
		Currency:   "JD",
		AmountFils: 9_999_999,
	})
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	alerts, _ := svc.Alerts(ctx, "u1", 10)
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %d", len(alerts))
	}
}

func TestInspectAtThresholdRaisesOpenAlert(t *testing.T) {
	svc := NewService(NewMemoryRepository(), 10_000_000, nil)
	ctx := context.Background()

	if err := svc.Inspect(ctx, Movement{
		UserID:     "u1",
		Kind:       transactions.TypeDeposit,
		Currency:   "JD",
		AmountFils: 10_000_000,
	}); err != nil {
		t.Fatalf("inspect: %v", err)
	}

	alerts, err := svc.Alerts(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Kind != KindLargeDeposit {
		t.Fatalf("kind = %s", alerts[0].Kind)
	}
	if alerts[0].Status != StatusOpen {
		t.Fatalf("status = %s", alerts[0].Status)
	}
}

func TestInspectTransferKind(t *testing.T) {
	svc := NewService(NewMemoryRepository(), 1_000, nil)
	ctx := context.Background()

	if err := svc.Inspect(ctx, Movement{
		UserID:     "u2",
		Kind:       transactions.TypeTransfer,
		Currency:   "JD",
		AmountFils: 5_000,
	}); err != nil {
		t.Fatalf("inspect: %v", err)
	}

	alerts, _ := svc.Alerts(ctx, "u2", 10)
	if len(alerts) != 1 || alerts[0].Kind != KindLargeTransfer {
		t.Fatalf("expected one large-transfer alert, got %+v", alerts)
	}
}

func TestDashboardCounts(t *testing.T) {
	svc := NewService(NewMemoryRepository(), 1_000, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.Inspect(ctx, Movement{
			UserID:     "u3",
			Kind:       transactions.TypeDeposit,
			Currency:   "JD",
			AmountFils: 2_000,
		}); err != nil {
			t.Fatalf("inspect %d: %v", i, err)
		}
	}

	counts, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if counts[StatusOpen] != 3 {
		t.Fatalf("open count = %d", counts[StatusOpen])
	}
}
