//go:build !kerneltest

package subsystems

import (
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/store"
	"github.com/fincrime/thedesk/kernel/subsystem"
)

// appendIncident is a no-op in production builds; the incident subsystem
// only exists under the kerneltest build tag.
func appendIncident(subs []subsystem.Subsystem, st *store.Store, log *kernellog.Logger) []subsystem.Subsystem {
	return subs
}
