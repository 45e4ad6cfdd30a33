package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestEncodeRecurringMaterialized(t *testing.T) {
	event := RecurringMaterialized{
		ScheduleID: "sched-1",
		UserID:     "user-1",
		ExpenseID:  "exp-1",
		Title:      "Rent",
		Amount:     decimal.RequireFromString("1200.50"),
		Date:       time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		NextDue:    time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	}

	if event.RoutingKey() != "recurring.materialized" {
		t.Errorf("expected routing key recurring.materialized, got %s", event.RoutingKey())
	}

	body, err := Encode(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if decoded["amount"] != "1200.5" {
		t.Errorf("expected amount to be encoded as a decimal string, got %v", decoded["amount"])
	}
	if decoded["next_due"] != "2024-03-01T00:00:00Z" {
		t.Errorf("expected next_due 2024-03-01T00:00:00Z, got %v", decoded["next_due"])
	}
}

func TestNopPublisher(t *testing.T) {
	p := NewNopPublisher()
	if err := p.Publish(context.Background(), RecurringMaterialized{}); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestNewPublisherWithoutURL(t *testing.T) {
	p, err := NewPublisher("", "budgettracker.events")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(nopPublisher); !ok {
		t.Errorf("expected no-op publisher, got %T", p)
	}
}

func TestNewPublisherBadURL(t *testing.T) {
	if _, err := NewPublisher("not-a-url", "budgettracker.events"); err == nil {
		t.Error("expected dial error for malformed URL")
	}
}
