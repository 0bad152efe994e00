// Package errors defines the kernel's error taxonomy. Most errors that
// cross a kernel package boundary are a *SimError carrying one of the
// categories below, so callers in bridged mode or batch mode can react to
// the category without parsing messages. A few lower-level helpers return
// plain wrapped errors instead: command.Inject, simevent's Serialize and
// Deserialize, the IPC command parser, and the store's retry helper once
// its attempts run out.
package errors

import "fmt"

// Category classifies a SimError for propagation and reporting purposes.
type Category string

const (
	// CategoryStore covers any backend error: open, migrate, read, write.
	CategoryStore Category = "store"
	// CategorySerialization covers a failure to encode or decode an event payload.
	CategorySerialization Category = "serialization"
	// CategoryConfiguration covers missing, malformed, or out-of-range config.
	CategoryConfiguration Category = "configuration"
	// CategoryCommand covers a malformed player command or unknown IPC type.
	CategoryCommand Category = "command"
	// CategoryInvariant covers a violated kernel invariant. Recoverable only
	// by aborting the run.
	CategoryInvariant Category = "invariant"
	// CategorySubsystem wraps a subsystem name and its underlying cause.
	CategorySubsystem Category = "subsystem"
)

// SimError is the kernel's single error type. Subsystem is set only for
// CategorySubsystem errors.
type SimError struct {
	Category  Category
	Message   string
	Subsystem string
	Cause     error
}

func (e *SimError) Error() string {
	if e.Subsystem != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s[%s]: %s: %v", e.Category, e.Subsystem, e.Message, e.Cause)
		}
		return fmt.Sprintf("%s[%s]: %s", e.Category, e.Subsystem, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *SimError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *SimError with the same Category, so
// errors.Is(err, &SimError{Category: CategoryStore}) works without callers
// constructing a full error value.
func (e *SimError) Is(target error) bool {
	t, ok := target.(*SimError)
	if !ok {
		return false
	}
	return t.Category == e.Category
}

func newf(cat Category, format string, args ...any) *SimError {
	return &SimError{Category: cat, Message: fmt.Sprintf(format, args...)}
}

// Store builds a CategoryStore error wrapping cause.
func Store(cause error, format string, args ...any) *SimError {
	e := newf(CategoryStore, format, args...)
	e.Cause = cause
	return e
}

// Serialization builds a CategorySerialization error wrapping cause.
func Serialization(cause error, format string, args ...any) *SimError {
	e := newf(CategorySerialization, format, args...)
	e.Cause = cause
	return e
}

// Configuration builds a CategoryConfiguration error.
func Configuration(format string, args ...any) *SimError {
	return newf(CategoryConfiguration, format, args...)
}

// Command builds a CategoryCommand error.
func Command(format string, args ...any) *SimError {
	return newf(CategoryCommand, format, args...)
}

// Invariant builds a CategoryInvariant error.
func Invariant(format string, args ...any) *SimError {
	return newf(CategoryInvariant, format, args...)
}

// ErrTickWhilePaused is the specific invariant violation of calling tick()
// while the clock is paused.
var ErrTickWhilePaused = Invariant("tick() called while paused")

// Subsystem wraps cause with the subsystem's name.
func Subsystem(name string, cause error) *SimError {
	if se, ok := cause.(*SimError); ok && se.Subsystem == "" {
		return &SimError{Category: CategorySubsystem, Subsystem: name, Message: se.Message, Cause: se}
	}
	return &SimError{Category: CategorySubsystem, Subsystem: name, Message: "subsystem update failed", Cause: cause}
}
