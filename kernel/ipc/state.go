package ipc

import (
	"github.com/govalues/decimal"

	"github.com/fincrime/thedesk/kernel/engine"
	"github.com/fincrime/thedesk/kernel/simevent"
)

// State is the flat UI state object returned by every bridged-mode
// request. Field names are part of the external interface and must not
// change.
type State struct {
	Tick   uint64 `json:"tick"`
	Paused bool   `json:"paused"`

	ActiveCustomers  int `json:"active_customers"`
	ChurnedCustomers int `json:"churned_customers"`
	ComplaintCount   int `json:"complaint_count"`
	SLABreaches      int `json:"sla_breaches"`
	Backlog          int `json:"backlog"`

	NIM             decimal.Decimal `json:"nim"`
	EfficiencyRatio decimal.Decimal `json:"efficiency_ratio"`
	PreTaxProfit    decimal.Decimal `json:"pre_tax_profit"`

	PnLHistory []PnLPeriod        `json:"pnl_history"`
	Complaints []ComplaintSummary `json:"complaints"`
}

// PnLPeriod is one entry in the state object's pnl_history array.
type PnLPeriod struct {
	Period       string          `json:"period"`
	PreTaxProfit decimal.Decimal `json:"pre_tax_profit"`
}

// ComplaintSummary is one entry in the state object's complaints array.
type ComplaintSummary struct {
	ComplaintID string `json:"complaint_id"`
	CustomerID  string `json:"customer_id"`
	Category    string `json:"category"`
}

const pnlHistoryLimit = 8

// AssembleState reads the engine's clock and queries the store to build
// the current UI state object. It never advances the clock.
func AssembleState(e *engine.Engine) (*State, error) {
	snap := e.ClockSnapshot()
	st := e.StoreHandle()
	runID := e.RunID()

	s := &State{
		Tick:   uint64(snap.Tick),
		Paused: snap.Paused,
	}

	var err error
	if s.ActiveCustomers, err = netCount(e, "CustomerAcquired", "CustomerChurned"); err != nil {
		return nil, err
	}
	if s.ChurnedCustomers, err = st.CountEventType(runID, "CustomerChurned"); err != nil {
		return nil, err
	}
	if s.ComplaintCount, err = st.CountEventType(runID, "ComplaintFiled"); err != nil {
		return nil, err
	}
	if s.SLABreaches, err = st.CountEventType(runID, "ComplaintSLABreached"); err != nil {
		return nil, err
	}
	if s.Backlog, err = netCount(e, "ComplaintFiled", "ComplaintResolved"); err != nil {
		return nil, err
	}

	if s.NIM, err = latestDecimal(e, "NetInterestMarginComputed", func(payload simevent.Variant) decimal.Decimal {
		return payload.(*simevent.NetInterestMarginComputed).NIM
	}); err != nil {
		return nil, err
	}
	if s.EfficiencyRatio, err = latestDecimal(e, "EfficiencyRatioComputed", func(payload simevent.Variant) decimal.Decimal {
		return payload.(*simevent.EfficiencyRatioComputed).EfficiencyRatio
	}); err != nil {
		return nil, err
	}
	if s.PreTaxProfit, err = latestDecimal(e, "QuarterlyPnLComputed", func(payload simevent.Variant) decimal.Decimal {
		return payload.(*simevent.QuarterlyPnLComputed).PreTaxProfit
	}); err != nil {
		return nil, err
	}

	raws, err := st.RecentPayloads(runID, "QuarterlyPnLComputed", pnlHistoryLimit)
	if err != nil {
		return nil, err
	}
	for _, raw := range raws {
		ev, err := simevent.Deserialize(raw)
		if err != nil {
			return nil, err
		}
		p := ev.Payload.(*simevent.QuarterlyPnLComputed)
		s.PnLHistory = append(s.PnLHistory, PnLPeriod{Period: p.Period, PreTaxProfit: p.PreTaxProfit})
	}

	openRaw, err := st.OpenEventsByKey(runID, "ComplaintFiled", []string{"ComplaintResolved", "ComplaintClosed"}, func(payload []byte) (string, bool) {
		ev, err := simevent.Deserialize(payload)
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
	})
	if err != nil {
		return nil, err
	}
	for _, raw := range openRaw {
		ev, err := simevent.Deserialize(raw)
		if err != nil {
			return nil, err
		}
		p := ev.Payload.(*simevent.ComplaintFiled)
		s.Complaints = append(s.Complaints, ComplaintSummary{
			ComplaintID: p.ComplaintID,
			CustomerID:  p.CustomerID,
			Category:    p.Category,
		})
	}

	return s, nil
}

func netCount(e *engine.Engine, openType, closeType string) (int, error) {
	return e.StoreHandle().NetCountEventTypes(e.RunID(), openType, closeType)
}

func latestDecimal(e *engine.Engine, eventType string, extract func(simevent.Variant) decimal.Decimal) (decimal.Decimal, error) {
	raw, ok, err := e.StoreHandle().LatestPayload(e.RunID(), eventType)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !ok {
		return decimal.Decimal{}, nil
	}
	ev, err := simevent.Deserialize(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return extract(ev.Payload), nil
}
