package postgres_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/event"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/store/postgres"
)

func TestEventStore_AppendAndLoad(t *testing.T) {
	db := newTestDB(t)
	es := postgres.NewEventStore(db)
	ctx := context.Background()

	aggID := "draft-001"
	events := []event.Event{
		{AggregateID: aggID, Type: event.DraftStarted, Data: json.RawMessage(`{"room_id":"r1"}`), Version: 1},
		{AggregateID: aggID, Type: event.DraftBidPlaced, Data: json.RawMessage(`{"team_id":"team-1","amount":500}`), Version: 2},
	}

	if err := es.Append(ctx, events...); err != nil {
		t.Fatalf("Append: %v", err)
	}

	loaded, err := es.Load(ctx, aggID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Load returned %d events, want 2", len(loaded))
	}

	// Should be ordered by version.
	if loaded[0].Version != 1 || loaded[1].Version != 2 {
		t.Errorf("versions = [%d, %d], want [1, 2]", loaded[0].Version, loaded[1].Version)
	}
	if loaded[0].Type != event.DraftStarted {
		t.Errorf("event[0].Type = %q, want %q", loaded[0].Type, event.DraftStarted)
	}
}

func TestEventStore_LoadByType(t *testing.T) {
	db := newTestDB(t)
	es := postgres.NewEventStore(db)
	ctx := context.Background()

	events := []event.Event{
		{AggregateID: "d1", Type: event.DraftStarted, Data: json.RawMessage(`{}`), Version: 1},
		{AggregateID: "d1", Type: event.DraftBidPlaced, Data: json.RawMessage(`{}`), Version: 2},
		{AggregateID: "d2", Type: event.DraftStarted, Data: json.RawMessage(`{}`), Version: 1},
	}

	if err := es.Append(ctx, events...); err != nil {
		t.Fatalf("Append: %v", err)
	}

	started, err := es.LoadByType(ctx, event.DraftStarted)
	if err != nil {
		t.Fatalf("LoadByType: %v", err)
	}
	if len(started) != 2 {
		t.Fatalf("LoadByType(DraftStarted) returned %d, want 2", len(started))
	}

	bids, err := es.LoadByType(ctx, event.DraftBidPlaced)
	if err != nil {
		t.Fatalf("LoadByType: %v", err)
	}
	if len(bids) != 1 {
		t.Fatalf("LoadByType(DraftBidPlaced) returned %d, want 1", len(bids))
	}
}

func TestEventStore_UniqueAggregateVersion(t *testing.T) {
	db := newTestDB(t)
	es := postgres.NewEventStore(db)
	ctx := context.Background()

	e := event.Event{
		AggregateID: "dup-test",
		Type:        event.DraftLotSettled,
		Data:        json.RawMessage(`{}`),
		Version:     1,
	}

	if err := es.Append(ctx, e); err != nil {
		t.Fatalf("first Append: %v", err)
	}
	if err := es.Append(ctx, e); err == nil {
		t.Fatal("second Append with same aggregate/version succeeded, want unique violation")
	}
}

func TestEventStore_AppendNothing(t *testing.T) {
	db := newTestDB(t)
	es := postgres.NewEventStore(db)

	if err := es.Append(context.Background()); err != nil {
		t.Fatalf("Append with no events: %v", err)
	}
}
