// Package command defines PlayerCommand, the closed catalogue of
// player-originated requests. Commands are queued against the engine and
// do not execute immediately: they are injected into the next tick's event
// stream just after TickStarted and before any subsystem runs.
package command

import (
	"fmt"

	"github.com/govalues/decimal"

	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/tick"
)

// Kind identifies which of the six current PlayerCommand variants a
// Command carries.
type Kind string

const (
	KindPause          Kind = "pause"
	KindResume         Kind = "resume"
	KindSetSpeed       Kind = "set_speed"
	KindCloseComplaint Kind = "close_complaint"
	KindSetProductFee  Kind = "set_product_fee"
	KindSetRiskDial    Kind = "set_risk_dial"
)

// Command is a player-originated request, buffered by the engine and
// drained at the top of the next tick.
type Command struct {
	Kind Kind

	// SetSpeed
	Speed tick.SimSpeed

	// CloseComplaint
	ComplaintID    string
	ResolutionCode string

	// SetProductFee
	ProductID string
	FeeType   string
	NewFee    decimal.Decimal

	// SetRiskDial
	DialID     string
	NewDialVal decimal.Decimal
}

// Pause builds a Pause command.
func Pause() Command { return Command{Kind: KindPause} }

// Resume builds a Resume command.
func Resume() Command { return Command{Kind: KindResume} }

// SetSpeed builds a SetSpeed command.
func SetSpeed(speed tick.SimSpeed) Command {
	return Command{Kind: KindSetSpeed, Speed: speed}
}

// CloseComplaint builds a CloseComplaint command.
func CloseComplaint(complaintID, resolutionCode string) Command {
	return Command{Kind: KindCloseComplaint, ComplaintID: complaintID, ResolutionCode: resolutionCode}
}

// SetProductFee builds a SetProductFee command.
func SetProductFee(productID, feeType string, newValue decimal.Decimal) Command {
	return Command{Kind: KindSetProductFee, ProductID: productID, FeeType: feeType, NewFee: newValue}
}

// SetRiskDial builds a SetRiskDial command.
func SetRiskDial(dialID string, newValue decimal.Decimal) Command {
	return Command{Kind: KindSetRiskDial, DialID: dialID, NewDialVal: newValue}
}

// OldFeeLookup resolves a product/fee-type pair's current value so the
// engine can stamp ProductFeeChanged with an accurate old_value. The
// command package holds no fee state itself, so this is supplied by the
// caller: the engine backs it with Store.ProductFee, reading the
// product_fees table that it updates as it drains each SetProductFee
// command.
type OldFeeLookup func(productID, feeType string) (decimal.Decimal, error)

// OldDialLookup resolves a risk dial's current value, analogous to
// OldFeeLookup.
type OldDialLookup func(dialID string) (decimal.Decimal, error)

// Inject translates a Command into the synthetic SimEvent(s) appended to
// the tick's event stream, per the injection semantics of spec.md §4.3.
// Pause/Resume do not produce a queued-command-derived domain event beyond
// the Paused/Resumed markers; they also mutate the clock, which the caller
// (kernel/engine) is responsible for doing alongside this call.
func Inject(c Command, t tick.Tick, feeLookup OldFeeLookup, dialLookup OldDialLookup) (simevent.SimEvent, error) {
	switch c.Kind {
	case KindPause:
		return simevent.New(uint64(t), &simevent.Paused{}), nil
	case KindResume:
		return simevent.New(uint64(t), &simevent.Resumed{}), nil
	case KindSetSpeed:
		return simevent.New(uint64(t), &simevent.SpeedChanged{NewSpeed: c.Speed.String()}), nil
	case KindCloseComplaint:
		return simevent.New(uint64(t), &simevent.ComplaintClosed{
			ComplaintID:    c.ComplaintID,
			ResolutionCode: c.ResolutionCode,
		}), nil
	case KindSetProductFee:
		old, err := feeLookup(c.ProductID, c.FeeType)
		if err != nil {
			return simevent.SimEvent{}, fmt.Errorf("look up old fee for %s/%s: %w", c.ProductID, c.FeeType, err)
		}
		return simevent.New(uint64(t), &simevent.ProductFeeChanged{
			ProductID: c.ProductID,
			FeeType:   c.FeeType,
			OldValue:  old,
			NewValue:  c.NewFee,
		}), nil
	case KindSetRiskDial:
		old, err := dialLookup(c.DialID)
		if err != nil {
			return simevent.SimEvent{}, fmt.Errorf("look up old dial value for %s: %w", c.DialID, err)
		}
		return simevent.New(uint64(t), &simevent.RiskDialChanged{
			DialID:   c.DialID,
			OldValue: old,
			NewValue: c.NewDialVal,
		}), nil
	default:
		return simevent.SimEvent{}, fmt.Errorf("command: unknown kind %q", c.Kind)
	}
}
