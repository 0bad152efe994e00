// Command desk runs the FinCrime desk simulation kernel, either in batch
// mode (advance N ticks and print a summary) or bridged mode (serve the
// line-delimited JSON IPC loop over stdio for an external UI).
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fincrime/thedesk/internal/subsystems"
	"github.com/fincrime/thedesk/kernel/config"
	"github.com/fincrime/thedesk/kernel/engine"
	"github.com/fincrime/thedesk/kernel/ipc"
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/metrics"
	"github.com/fincrime/thedesk/kernel/store"
)

func main() {
	seed := flag.Uint64("seed", 42, "master RNG seed for the run")
	ticks := flag.Uint64("ticks", 365, "number of ticks to run in batch mode")
	storePath := flag.String("store", "", "backing store file path (default: in-memory)")
	configDir := flag.String("config-dir", "./data", "configuration directory")
	ipcMode := flag.Bool("ipc-mode", false, "serve the bridged-mode IPC loop over stdio instead of batch mode")
	flag.Parse()

	log := kernellog.New()
	if *ipcMode {
		// stdout is reserved for IPC responses; logs always go to stderr,
		// which is already kernellog's default, but make it explicit.
		log.SetOutput(os.Stderr)
	}

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Error("failed to load configuration", err, nil)
		os.Exit(1)
	}

	effectiveSeed := *seed
	if !flagWasSet("seed") {
		effectiveSeed = cfg.Kernel.DefaultSeed
	}
	effectiveStorePath := *storePath
	if effectiveStorePath == "" {
		effectiveStorePath = cfg.Kernel.StorePath
	}

	st, err := store.Open(effectiveStorePath)
	if err != nil {
		log.Error("failed to open store", err, nil)
		os.Exit(1)
	}
	defer st.Close()

	m := metrics.New()

	subs, err := subsystems.BuildAll(cfg, st, log)
	if err != nil {
		log.Error("failed to construct subsystems", err, nil)
		os.Exit(1)
	}

	eng, err := engine.Build(effectiveSeed, st, subs, log, m, cfg.Kernel.SnapshotInterval)
	if err != nil {
		log.Error("failed to build engine", err, nil)
		os.Exit(1)
	}

	if *ipcMode {
		if err := ipc.Loop(os.Stdin, os.Stdout, eng, log); err != nil {
			log.Error("ipc loop exited with error", err, nil)
			os.Exit(1)
		}
		return
	}

	runBatch(eng, *ticks, log)
}

func runBatch(eng *engine.Engine, ticks uint64, log *kernellog.Logger) {
	events, err := eng.RunTicks(ticks)
	if err != nil {
		log.Error("batch run aborted", err, nil)
		fmt.Fprintf(os.Stderr, "batch run aborted: %v\n", err)
		os.Exit(1)
	}

	snap := eng.ClockSnapshot()
	state, err := ipc.AssembleState(eng)
	if err != nil {
		log.Error("failed to assemble final state", err, nil)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "run id\t%s\n", eng.RunID())
	fmt.Fprintf(w, "ticks run\t%d\n", ticks)
	fmt.Fprintf(w, "final tick\t%d\n", snap.Tick)
	fmt.Fprintf(w, "events appended\t%d\n", len(events))
	fmt.Fprintf(w, "active customers\t%d\n", state.ActiveCustomers)
	fmt.Fprintf(w, "churned customers\t%d\n", state.ChurnedCustomers)
	fmt.Fprintf(w, "open complaints\t%d\n", len(state.Complaints))
	fmt.Fprintf(w, "sla breaches\t%d\n", state.SLABreaches)
	fmt.Fprintf(w, "net interest margin\t%s\n", state.NIM)
	fmt.Fprintf(w, "efficiency ratio\t%s\n", state.EfficiencyRatio)
	fmt.Fprintf(w, "pre-tax profit\t%s\n", state.PreTaxProfit)
	w.Flush()

	text, err := ipc.GatherMetricsText(eng)
	if err != nil {
		log.Warn("failed to gather metrics snapshot", map[string]any{"error": err.Error()})
		return
	}
	fmt.Fprint(os.Stderr, text)
}

// flagWasSet reports whether a flag with the given name was explicitly
// passed on the command line, so a config-file default can be
// distinguished from the flag package's own zero-value default.
func flagWasSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
