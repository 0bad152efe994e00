package tick

import "testing"

func TestNewClockStartsPausedAtZero(t *testing.T) {
	c := NewClock()
	if c.CurrentTick != 0 {
		t.Fatalf("expected tick 0, got %d", c.CurrentTick)
	}
	if !c.Paused {
		t.Fatalf("expected a new clock to start paused")
	}
	if c.Speed != SpeedNormal {
		t.Fatalf("expected default speed normal, got %s", c.Speed)
	}
}

func TestParseSimSpeedRoundTripsAllConstants(t *testing.T) {
	for _, want := range []SimSpeed{SpeedPaused, SpeedNormal, SpeedFast, SpeedFastest} {
		got, ok := ParseSimSpeed(want.String())
		if !ok {
			t.Fatalf("expected %s to parse", want)
		}
		if got != want {
			t.Fatalf("expected round trip of %s, got %s", want, got)
		}
	}
}

func TestParseSimSpeedRejectsUnknownValue(t *testing.T) {
	if _, ok := ParseSimSpeed("ludicrous"); ok {
		t.Fatalf("expected an unrecognized speed string to fail to parse")
	}
}

func TestToSnapshotCapturesCurrentState(t *testing.T) {
	c := NewClock()
	c.CurrentTick = 7
	c.Speed = SpeedFast
	c.Paused = false

	snap := c.ToSnapshot()
	if snap.Tick != 7 || snap.Speed != SpeedFast || snap.Paused {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
