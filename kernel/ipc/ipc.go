// Package ipc implements the bridged-mode line-delimited JSON request
// loop: one request object per line on stdin, one response object per
// line on stdout, no pipelining, no framing beyond the newline.
package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/govalues/decimal"
	"github.com/prometheus/common/expfmt"

	"github.com/fincrime/thedesk/kernel/command"
	"github.com/fincrime/thedesk/kernel/engine"
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/tick"
)

// maxLineSize raises bufio.Scanner's default 64KiB token limit on a
// single incoming request line; responses are written through a
// bufio.Writer and are not bound by it.
const maxLineSize = 4 << 20 // 4 MiB

// request is the union of every recognized request shape. Unused fields
// are simply absent on the wire for a given type.
type request struct {
	Type    string          `json:"type"`
	Count   uint64          `json:"count"`
	Cmd     string          `json:"cmd"`
	Payload json.RawMessage `json:"payload"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// metricsResponse is an additive response shape, not part of the request
// shapes table: a client that never sends get_metrics never sees it.
type metricsResponse struct {
	Metrics string `json:"metrics"`
}

// Loop reads requests from r and writes responses to w until EOF or a
// quit request. EOF is treated as an implicit quit. All logging during
// the loop goes through log, never to w.
func Loop(r io.Reader, w io.Writer, e *engine.Engine, log *kernellog.Logger) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	writer := bufio.NewWriter(w)
	defer writer.Flush()

	for scanner.Scan() {
		line := scanner.Bytes()
		resp, quit := handle(line, e, log)
		if quit {
			return nil
		}
		data, err := json.Marshal(resp)
		if err != nil {
			data, _ = json.Marshal(errorResponse{Error: "internal: failed to marshal response"})
		}
		if _, err := writer.Write(data); err != nil {
			return err
		}
		if err := writer.WriteByte('\n'); err != nil {
			return err
		}
		if err := writer.Flush(); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return nil
}

func handle(line []byte, e *engine.Engine, log *kernellog.Logger) (any, bool) {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		return errorResponse{Error: "invalid JSON: " + err.Error()}, false
	}

	switch req.Type {
	case "quit":
		return nil, true

	case "get_state":
		state, err := AssembleState(e)
		if err != nil {
			log.Error("get_state failed", err, nil)
			return errorResponse{Error: err.Error()}, false
		}
		return state, false

	case "get_metrics":
		text, err := gatherMetricsText(e)
		if err != nil {
			log.Error("get_metrics failed", err, nil)
			return errorResponse{Error: err.Error()}, false
		}
		return metricsResponse{Metrics: text}, false

	case "tick":
		count := req.Count
		if count == 0 {
			count = 1
		}
		if _, err := e.RunTicks(count); err != nil {
			log.Error("tick request failed", err, nil)
			return errorResponse{Error: err.Error()}, false
		}
		state, err := AssembleState(e)
		if err != nil {
			log.Error("get_state after tick failed", err, nil)
			return errorResponse{Error: err.Error()}, false
		}
		return state, false

	case "command":
		cmd, err := parseCommand(req.Cmd, req.Payload)
		if err != nil {
			return errorResponse{Error: err.Error()}, false
		}
		e.SubmitCommand(cmd)
		if _, err := e.RunTicks(1); err != nil {
			log.Error("command-triggered tick failed", err, nil)
			return errorResponse{Error: err.Error()}, false
		}
		state, err := AssembleState(e)
		if err != nil {
			return errorResponse{Error: err.Error()}, false
		}
		return state, false

	default:
		return errorResponse{Error: "unrecognized request type: " + req.Type}, false
	}
}

// GatherMetricsText renders the engine's private registry as Prometheus
// text exposition format. Exported so batch mode can print the same
// snapshot to stderr at shutdown that bridged mode's get_metrics
// request returns. Never opens a listener.
func GatherMetricsText(e *engine.Engine) (string, error) {
	return gatherMetricsText(e)
}

func gatherMetricsText(e *engine.Engine) (string, error) {
	families, err := e.MetricsHandle().Registry().Gather()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	enc := expfmt.NewEncoder(&sb, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func parseCommand(cmd string, payload json.RawMessage) (command.Command, error) {
	switch cmd {
	case "pause":
		return command.Pause(), nil
	case "resume":
		return command.Resume(), nil
	case "set_speed":
		var p struct {
			Speed string `json:"speed"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return command.Command{}, errors.New("set_speed: invalid payload")
		}
		speed, ok := tick.ParseSimSpeed(p.Speed)
		if !ok {
			return command.Command{}, errors.New("set_speed: unrecognized speed " + p.Speed)
		}
		return command.SetSpeed(speed), nil
	case "close_complaint":
		var p struct {
			ComplaintID    string `json:"complaint_id"`
			ResolutionCode string `json:"resolution_code"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return command.Command{}, errors.New("close_complaint: invalid payload")
		}
		return command.CloseComplaint(p.ComplaintID, p.ResolutionCode), nil
	case "set_product_fee":
		var p struct {
			ProductID string `json:"product_id"`
			FeeType   string `json:"fee_type"`
			NewValue  string `json:"new_value"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return command.Command{}, errors.New("set_product_fee: invalid payload")
		}
		v, err := decimal.Parse(p.NewValue)
		if err != nil {
			return command.Command{}, errors.New("set_product_fee: invalid new_value")
		}
		return command.SetProductFee(p.ProductID, p.FeeType, v), nil
	case "set_risk_dial":
		var p struct {
			DialID   string `json:"dial_id"`
			NewValue string `json:"new_value"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return command.Command{}, errors.New("set_risk_dial: invalid payload")
		}
		v, err := decimal.Parse(p.NewValue)
		if err != nil {
			return command.Command{}, errors.New("set_risk_dial: invalid new_value")
		}
		return command.SetRiskDial(p.DialID, v), nil
	default:
		return command.Command{}, errors.New("unrecognized command: " + cmd)
	}
}
