package simevent

import (
	"reflect"
	"testing"

	"github.com/govalues/decimal"
)

func TestRoundTripTickStarted(t *testing.T) {
	e := New(7, &TickStarted{Tick: 7})
	raw, err := Serialize(e)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	got, err := Deserialize(raw)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if !reflect.DeepEqual(e, got) {
		t.Fatalf("round trip mismatch: want %+v, got %+v", e, got)
	}
}

func TestRoundTripWithDecimalPayload(t *testing.T) {
	amount, err := decimal.NewFromFloat64(1234.56)
	if err != nil {
		t.Fatalf("build decimal: %v", err)
	}
	e := New(3, &TransactionInitiated{
		TransactionID: "txn-1",
		AccountID:     "acct-1",
		Amount:        amount,
	})
	raw, err := Serialize(e)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	got, err := Deserialize(raw)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if !reflect.DeepEqual(e, got) {
		t.Fatalf("round trip mismatch: want %+v, got %+v", e, got)
	}
}

func TestDeserializeUnknownVariant(t *testing.T) {
	_, err := Deserialize([]byte(`{"type":"NotARealVariant","tick":1,"data":{}}`))
	if err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}

func TestDuplicateVariantRegistrationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate registration")
		}
	}()
	RegisterVariant("TickStarted", func() Variant { return &TickStarted{} })
}
