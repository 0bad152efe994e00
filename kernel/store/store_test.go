package store

import (
	"testing"

	"github.com/govalues/decimal"

	"github.com/fincrime/thedesk/kernel/ids"
	"github.com/fincrime/thedesk/kernel/simevent"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenAppliesMigrations(t *testing.T) {
	s := openTestStore(t)
	runID := ids.NewRunId()
	if err := s.InsertRun(runID, 42); err != nil {
		t.Fatalf("insert run: %v", err)
	}
}

func TestAppendAndReadEventsPreservesOrder(t *testing.T) {
	s := openTestStore(t)
	runID := ids.NewRunId()
	if err := s.InsertRun(runID, 1); err != nil {
		t.Fatalf("insert run: %v", err)
	}

	events := []simevent.SimEvent{
		simevent.New(1, &simevent.TickStarted{Tick: 1}),
		simevent.New(1, &simevent.CustomerAcquired{CustomerID: "cust-000001", Segment: "mass_market"}),
		simevent.New(1, &simevent.TickCompleted{Tick: 1}),
	}
	if err := s.AppendEvents(runID, 1, "clock", events); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := s.EventsForTick(runID, 1)
	if err != nil {
		t.Fatalf("events for tick: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	for i, want := range []string{"TickStarted", "CustomerAcquired", "TickCompleted"} {
		if got[i].Tag != want {
			t.Fatalf("position %d: want tag %s, got %s", i, want, got[i].Tag)
		}
	}
}

func TestAppendEventsPersistsSubsystemAndCreatedAt(t *testing.T) {
	s := openTestStore(t)
	runID := ids.NewRunId()
	if err := s.InsertRun(runID, 1); err != nil {
		t.Fatalf("insert run: %v", err)
	}

	event := simevent.New(1, &simevent.TickStarted{Tick: 1})
	if err := s.AppendEvents(runID, 1, "macro", []simevent.SimEvent{event}); err != nil {
		t.Fatalf("append: %v", err)
	}

	var subsystem string
	var createdAt int64
	row := s.db.QueryRow(`SELECT subsystem, created_at FROM event_log WHERE run_id = ? AND tick = ?`, string(runID), 1)
	if err := row.Scan(&subsystem, &createdAt); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if subsystem != "macro" {
		t.Fatalf("expected subsystem %q, got %q", "macro", subsystem)
	}
	if createdAt <= 0 {
		t.Fatalf("expected a positive created_at timestamp, got %d", createdAt)
	}
}

func TestAppendEventsEmptyBatchIsNoop(t *testing.T) {
	s := openTestStore(t)
	runID := ids.NewRunId()
	if err := s.InsertRun(runID, 1); err != nil {
		t.Fatalf("insert run: %v", err)
	}
	if err := s.AppendEvents(runID, 1, "engine", nil); err != nil {
		t.Fatalf("append empty batch: %v", err)
	}
	got, err := s.EventsForTick(runID, 1)
	if err != nil {
		t.Fatalf("events for tick: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no events, got %d", len(got))
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := openTestStore(t)
	runID := ids.NewRunId()
	if err := s.InsertRun(runID, 1); err != nil {
		t.Fatalf("insert run: %v", err)
	}

	if _, _, ok, err := s.LoadSnapshot(runID, 100); err != nil || ok {
		t.Fatalf("expected no snapshot yet, ok=%v err=%v", ok, err)
	}

	if err := s.SaveSnapshot(runID, 10, []byte(`{"tick":10}`)); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if err := s.SaveSnapshot(runID, 20, []byte(`{"tick":20}`)); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	data, atTick, ok, err := s.LoadSnapshot(runID, 15)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if !ok {
		t.Fatalf("expected a snapshot at or before tick 15")
	}
	if atTick != 10 {
		t.Fatalf("expected most recent snapshot at or before 15 to be tick 10, got %d", atTick)
	}
	if string(data) != `{"tick":10}` {
		t.Fatalf("unexpected snapshot payload: %s", data)
	}
}

func TestCountAndNetCountEventTypes(t *testing.T) {
	s := openTestStore(t)
	runID := ids.NewRunId()
	if err := s.InsertRun(runID, 1); err != nil {
		t.Fatalf("insert run: %v", err)
	}

	events := []simevent.SimEvent{
		simevent.New(1, &simevent.ComplaintFiled{ComplaintID: "c1", CustomerID: "cust-1", Category: "fees"}),
		simevent.New(1, &simevent.ComplaintFiled{ComplaintID: "c2", CustomerID: "cust-2", Category: "fees"}),
		simevent.New(2, &simevent.ComplaintResolved{ComplaintID: "c1", ResolutionCode: "fee_waived"}),
	}
	if err := s.AppendEvents(runID, 1, "complaint", events[:2]); err != nil {
		t.Fatalf("append tick 1: %v", err)
	}
	if err := s.AppendEvents(runID, 2, "complaint", events[2:]); err != nil {
		t.Fatalf("append tick 2: %v", err)
	}

	filed, err := s.CountEventType(runID, "ComplaintFiled")
	if err != nil {
		t.Fatalf("count filed: %v", err)
	}
	if filed != 2 {
		t.Fatalf("expected 2 filed complaints, got %d", filed)
	}

	backlog, err := s.NetCountEventTypes(runID, "ComplaintFiled", "ComplaintResolved")
	if err != nil {
		t.Fatalf("net count: %v", err)
	}
	if backlog != 1 {
		t.Fatalf("expected backlog of 1, got %d", backlog)
	}
}

func TestLatestAndRecentPayloads(t *testing.T) {
	s := openTestStore(t)
	runID := ids.NewRunId()
	if err := s.InsertRun(runID, 1); err != nil {
		t.Fatalf("insert run: %v", err)
	}

	if _, ok, err := s.LatestPayload(runID, "NetInterestMarginComputed"); err != nil || ok {
		t.Fatalf("expected no payload yet, ok=%v err=%v", ok, err)
	}

	for i, nim := range []string{"0.01", "0.02", "0.03"} {
		v, err := decimal.Parse(nim)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		e := simevent.New(uint64(i+1), &simevent.NetInterestMarginComputed{NIM: v})
		if err := s.AppendEvents(runID, uint64(i+1), "economics", []simevent.SimEvent{e}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	raw, ok, err := s.LatestPayload(runID, "NetInterestMarginComputed")
	if err != nil || !ok {
		t.Fatalf("expected a latest payload, ok=%v err=%v", ok, err)
	}
	ev, err := simevent.Deserialize(raw)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	nim, ok := ev.Payload.(*simevent.NetInterestMarginComputed)
	if !ok {
		t.Fatalf("unexpected payload type %T", ev.Payload)
	}
	if nim.NIM.String() != "0.03" {
		t.Fatalf("expected latest NIM 0.03, got %s", nim.NIM.String())
	}

	recent, err := s.RecentPayloads(runID, "NetInterestMarginComputed", 2)
	if err != nil {
		t.Fatalf("recent payloads: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent payloads, got %d", len(recent))
	}
	first, err := simevent.Deserialize(recent[0])
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if first.Payload.(*simevent.NetInterestMarginComputed).NIM.String() != "0.02" {
		t.Fatalf("expected oldest-first ordering to start at 0.02")
	}
}

func TestOpenEventsByKeyWithMultipleCloseTypes(t *testing.T) {
	s := openTestStore(t)
	runID := ids.NewRunId()
	if err := s.InsertRun(runID, 1); err != nil {
		t.Fatalf("insert run: %v", err)
	}

	events := []simevent.SimEvent{
		simevent.New(1, &simevent.ComplaintFiled{ComplaintID: "c1", CustomerID: "cust-1", Category: "fees"}),
		simevent.New(1, &simevent.ComplaintFiled{ComplaintID: "c2", CustomerID: "cust-2", Category: "billing"}),
		simevent.New(1, &simevent.ComplaintFiled{ComplaintID: "c3", CustomerID: "cust-3", Category: "fraud_handling"}),
	}
	if err := s.AppendEvents(runID, 1, "complaint", events); err != nil {
		t.Fatalf("append: %v", err)
	}
	closes := []simevent.SimEvent{
		simevent.New(2, &simevent.ComplaintResolved{ComplaintID: "c1", ResolutionCode: "fee_waived"}),
		simevent.New(2, &simevent.ComplaintClosed{ComplaintID: "c2", ResolutionCode: "goodwill_credit"}),
	}
	if err := s.AppendEvents(runID, 2, "complaint", closes); err != nil {
		t.Fatalf("append closes: %v", err)
	}

	keyOf := func(raw []byte) (string, bool) {
		ev, err := simevent.Deserialize(raw)
		if err != nil {
			return "", false
		}
		switch p := ev.Payload.(type) {
		case *simevent.ComplaintFiled:
			return p.ComplaintID, true
		case *simevent.ComplaintResolved:
			return p.ComplaintID, true
		case *simevent.ComplaintClosed:
			return p.ComplaintID, true
		default:
			return "", false
		}
	}

	open, err := s.OpenEventsByKey(runID, "ComplaintFiled", []string{"ComplaintResolved", "ComplaintClosed"}, keyOf)
	if err != nil {
		t.Fatalf("open events by key: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("expected 1 still-open complaint, got %d", len(open))
	}
	ev, err := simevent.Deserialize(open[0])
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if ev.Payload.(*simevent.ComplaintFiled).ComplaintID != "c3" {
		t.Fatalf("expected c3 to remain open")
	}
}

func TestProductFeeDefaultsToZero(t *testing.T) {
	s := openTestStore(t)
	runID := ids.NewRunId()
	if err := s.InsertRun(runID, 1); err != nil {
		t.Fatalf("insert run: %v", err)
	}
	v, err := s.ProductFee(runID, "checking", "monthly")
	if err != nil {
		t.Fatalf("product fee: %v", err)
	}
	if !v.IsZero() {
		t.Fatalf("expected zero default, got %s", v.String())
	}
}

func TestSetAndReadProductFee(t *testing.T) {
	s := openTestStore(t)
	runID := ids.NewRunId()
	if err := s.InsertRun(runID, 1); err != nil {
		t.Fatalf("insert run: %v", err)
	}
	newFee, _ := decimal.Parse("4.99")
	if err := s.SetProductFee(runID, "checking", "monthly", newFee); err != nil {
		t.Fatalf("set product fee: %v", err)
	}
	got, err := s.ProductFee(runID, "checking", "monthly")
	if err != nil {
		t.Fatalf("read product fee: %v", err)
	}
	if got.String() != "4.99" {
		t.Fatalf("expected 4.99, got %s", got.String())
	}
}

func TestSetAndReadRiskDial(t *testing.T) {
	s := openTestStore(t)
	runID := ids.NewRunId()
	if err := s.InsertRun(runID, 1); err != nil {
		t.Fatalf("insert run: %v", err)
	}
	newVal, _ := decimal.Parse("0.05")
	if err := s.SetRiskDial(runID, "fraud_loss_ratio", newVal); err != nil {
		t.Fatalf("set risk dial: %v", err)
	}
	got, err := s.RiskDial(runID, "fraud_loss_ratio")
	if err != nil {
		t.Fatalf("read risk dial: %v", err)
	}
	if got.String() != "0.05" {
		t.Fatalf("expected 0.05, got %s", got.String())
	}
}
