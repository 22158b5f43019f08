package engine

import (
	"testing"
	"time"
)

func TestTimeControlStopIsObservedImmediately(t *testing.T) {
	pos := StartingPosition()
	tc := NewTimeControl(pos)
	tc.WTime, tc.BTime = time.Hour, time.Hour
	tc.Start(false)

	if tc.Stopped() {
		t.Fatal("should not be stopped right after Start with an hour on the clock")
	}
	tc.Stop()
	if !tc.Stopped() {
		t.Error("Stop should be observed by the next Stopped() call")
	}
}

func TestTimeControlDeadlineExpires(t *testing.T) {
	pos := StartingPosition()
	tc := NewMoveTimeControl(pos, time.Millisecond)
	tc.Start(false)
	time.Sleep(5 * time.Millisecond)
	if !tc.Stopped() {
		t.Error("a 1ms move time control should have expired")
	}
}

func TestTimeControlNextDepthRespectsFixedDepth(t *testing.T) {
	pos := StartingPosition()
	tc := NewFixedDepthTimeControl(pos, 4)
	tc.Start(false)
	if !tc.NextDepth(4) {
		t.Error("NextDepth(4) should be allowed at Depth=4")
	}
	if tc.NextDepth(5) {
		t.Error("NextDepth(5) should be rejected when Depth=4")
	}
}

func TestTimeControlPonderHitSwitchesDeadline(t *testing.T) {
	pos := StartingPosition()
	tc := NewTimeControl(pos)
	tc.WTime, tc.BTime = time.Hour, time.Hour
	tc.Start(true)
	if tc.Stopped() {
		t.Fatal("an hour-long ponder should not be stopped immediately")
	}
	tc.PonderHit()
	if tc.Stopped() {
		t.Error("PonderHit onto an hour-long search deadline should not itself stop the search")
	}
}
