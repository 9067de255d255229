package services

import (
	"context"
	"errors"
	"testing"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/store/memory"
	"ledger/internal/store/storetest"
)

type fakePublisher struct {
	events []*amqp.LedgerEvent
	err    error
	closed bool
}

func (p *fakePublisher) PublishLedgerEvent(_ context.Context, e *amqp.LedgerEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

func TestLedgerService_AddPublishesPosition(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub)

	if err := svc.Add(ctx, storetest.Salary); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Add(ctx, storetest.Food); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if len(pub.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(pub.events))
	}
	if pub.events[1].Kind != amqp.EventAppended || pub.events[1].Position != 1 || !pub.events[1].Record.Equal(storetest.Food) {
		t.Fatalf("unexpected event %+v", pub.events[1])
	}

	b, err := svc.Balance(ctx)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if b.Income.String() != "100" || b.Expenses.String() != "40" || b.Balance.String() != "60" {
		t.Fatalf("balance = %s/%s/%s, want 100/40/60", b.Income, b.Expenses, b.Balance)
	}
}

func TestLedgerService_PublishFailureDoesNotFailAdd(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewLedgerService(memory.New(), pub)

	if err := svc.Add(ctx, storetest.Salary); err != nil {
		t.Fatalf("Add should succeed when publish fails: %v", err)
	}
	records, _ := svc.Records(ctx)
	storetest.AssertRecords(t, records, []core.Record{storetest.Salary})
}

func TestLedgerService_Edit(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(storetest.Salary, storetest.Food), pub)

	ok, err := svc.Edit(ctx, 5, storetest.Salary)
	if err != nil || ok {
		t.Fatalf("Edit(5) = %v, %v; want false, nil", ok, err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("rejected edit must not publish")
	}

	repl := core.NewRecord("2024-01-02", core.Expense, core.AmountFromInt(55), "dinner")
	ok, err = svc.Edit(ctx, 1, repl)
	if err != nil || !ok {
		t.Fatalf("Edit(1) = %v, %v", ok, err)
	}
	if len(pub.events) != 1 || pub.events[0].Kind != amqp.EventUpdated || pub.events[0].Position != 1 {
		t.Fatalf("unexpected events %+v", pub.events)
	}

	records, _ := svc.Records(ctx)
	storetest.AssertRecords(t, records, []core.Record{storetest.Salary, repl})
}

func TestLedgerService_SearchWithoutPublisher(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(memory.New(), nil)
	if err := svc.Add(ctx, storetest.Salary); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Add(ctx, storetest.Food); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := svc.Search(ctx, core.Criteria{core.FieldDate: "2024-01-01", core.FieldCategory: "Income"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	storetest.AssertRecords(t, got, []core.Record{storetest.Salary})
}

func TestLedgerService_Close(t *testing.T) {
	t.Run("closes publisher", func(t *testing.T) {
		pub := &fakePublisher{}
		svc := NewLedgerService(memory.New(), pub)
		if err := svc.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if !pub.closed {
			t.Fatalf("publisher should be closed")
		}
	})

	t.Run("nil components", func(t *testing.T) {
		svc := NewLedgerService(memory.New(), nil)
		if err := svc.Close(); err != nil {
			t.Fatalf("Close should not return error with nil publisher: %v", err)
		}
	})
}
