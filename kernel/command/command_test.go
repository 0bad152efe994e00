package command

import (
	"errors"
	"testing"

	"github.com/govalues/decimal"

	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/tick"
)

func noFee(string, string) (decimal.Decimal, error)   { return decimal.Decimal{}, nil }
func noDial(string) (decimal.Decimal, error)           { return decimal.Decimal{}, nil }
func failFee(string, string) (decimal.Decimal, error)  { return decimal.Decimal{}, errors.New("lookup failed") }
func failDial(string) (decimal.Decimal, error)         { return decimal.Decimal{}, errors.New("lookup failed") }

func TestInjectPause(t *testing.T) {
	ev, err := Inject(Pause(), 5, noFee, noDial)
	if err != nil {
		t.Fatalf("inject: %v", err)
	}
	if ev.Tag != "Paused" {
		t.Fatalf("expected Paused tag, got %q", ev.Tag)
	}
}

func TestInjectResume(t *testing.T) {
	ev, err := Inject(Resume(), 5, noFee, noDial)
	if err != nil {
		t.Fatalf("inject: %v", err)
	}
	if ev.Tag != "Resumed" {
		t.Fatalf("expected Resumed tag, got %q", ev.Tag)
	}
}

func TestInjectSetSpeed(t *testing.T) {
	ev, err := Inject(SetSpeed(tick.SpeedFast), 5, noFee, noDial)
	if err != nil {
		t.Fatalf("inject: %v", err)
	}
	if ev.Tag != "SpeedChanged" {
		t.Fatalf("expected SpeedChanged tag, got %q", ev.Tag)
	}
}

func TestInjectCloseComplaint(t *testing.T) {
	ev, err := Inject(CloseComplaint("complaint-1", "goodwill_credit"), 5, noFee, noDial)
	if err != nil {
		t.Fatalf("inject: %v", err)
	}
	if ev.Tag != "ComplaintClosed" {
		t.Fatalf("expected ComplaintClosed tag, got %q", ev.Tag)
	}
}

func TestInjectSetProductFeeCarriesOldValue(t *testing.T) {
	old, _ := decimal.Parse("1.50")
	lookup := func(productID, feeType string) (decimal.Decimal, error) { return old, nil }
	newFee, _ := decimal.Parse("2.00")

	ev, err := Inject(SetProductFee("checking", "monthly", newFee), 5, lookup, noDial)
	if err != nil {
		t.Fatalf("inject: %v", err)
	}
	if ev.Tag != "ProductFeeChanged" {
		t.Fatalf("expected ProductFeeChanged tag, got %q", ev.Tag)
	}
	payload, ok := ev.Payload.(*simevent.ProductFeeChanged)
	if !ok {
		t.Fatalf("expected *simevent.ProductFeeChanged payload, got %T", ev.Payload)
	}
	if payload.OldValue.Cmp(old) != 0 {
		t.Fatalf("expected old value %s, got %s", old, payload.OldValue)
	}
}

func TestInjectSetProductFeePropagatesLookupError(t *testing.T) {
	newFee, _ := decimal.Parse("2.00")
	_, err := Inject(SetProductFee("checking", "monthly", newFee), 5, failFee, noDial)
	if err == nil {
		t.Fatalf("expected error when fee lookup fails")
	}
}

func TestInjectSetRiskDialPropagatesLookupError(t *testing.T) {
	newVal, _ := decimal.Parse("0.05")
	_, err := Inject(SetRiskDial("fraud_loss_ratio", newVal), 5, noFee, failDial)
	if err == nil {
		t.Fatalf("expected error when dial lookup fails")
	}
}

func TestInjectUnknownKind(t *testing.T) {
	_, err := Inject(Command{Kind: Kind("bogus")}, 5, noFee, noDial)
	if err == nil {
		t.Fatalf("expected error for unknown command kind")
	}
}
