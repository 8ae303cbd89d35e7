package phase_test

import (
	"errors"
	"testing"

	"github.com/your-org/idverify/internal/core/phase"
)

var errCameraDenied = errors.New("camera permission denied")

type fakeCamera struct {
	acquireCalls []phase.Facing
	releaseCount int
	failFacing   phase.Facing
}

func (f *fakeCamera) Acquire(facing phase.Facing) error {
	f.acquireCalls = append(f.acquireCalls, facing)
	if facing == f.failFacing {
		return errCameraDenied
	}
	return nil
}

func (f *fakeCamera) Release() {
	f.releaseCount++
}

func TestControllerStartsAtAwaitMRZ(t *testing.T) {
	c := phase.New(nil)
	if c.State() != phase.AwaitMRZ {
		t.Errorf("initial state = %v, want AwaitMRZ", c.State())
	}
}

func TestAdvanceBlockedWithoutGate(t *testing.T) {
	c := phase.New(nil)
	if err := c.Advance(); err == nil {
		t.Fatal("expected Advance to fail without MRZ id")
	}
	if c.State() != phase.AwaitMRZ {
		t.Errorf("state should not change on a blocked Advance, got %v", c.State())
	}
}

func TestAdvanceFullHappyPath(t *testing.T) {
	c := phase.New(nil)

	c.UpdateGate(phase.Gate{HasMRZID: true})
	if err := c.Advance(); err != nil {
		t.Fatalf("Advance to AwaitPortrait: %v", err)
	}
	if c.State() != phase.AwaitPortrait {
		t.Fatalf("state = %v, want AwaitPortrait", c.State())
	}

	c.UpdateGate(phase.Gate{HasMRZID: true, HasPortraitDesc: true, PortraitDescLen: 128})
	if err := c.Advance(); err != nil {
		t.Fatalf("Advance to AwaitLiveness: %v", err)
	}
	if c.State() != phase.AwaitLiveness {
		t.Fatalf("state = %v, want AwaitLiveness", c.State())
	}

	c.UpdateGate(phase.Gate{HasMRZID: true, HasPortraitDesc: true, PortraitDescLen: 128, MatchPositive: true, LivenessPositive: true})
	if err := c.Advance(); err != nil {
		t.Fatalf("Advance to Review: %v", err)
	}
	if c.State() != phase.Review {
		t.Fatalf("state = %v, want Review", c.State())
	}

	if err := c.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if c.State() != phase.Submitted {
		t.Fatalf("state = %v, want Submitted", c.State())
	}
}

func TestAdvancePastReviewRejected(t *testing.T) {
	c := phase.New(nil)
	c.UpdateGate(phase.Gate{HasMRZID: true, HasPortraitDesc: true, PortraitDescLen: 128, MatchPositive: true, LivenessPositive: true})
	_ = c.Advance()
	_ = c.Advance()
	_ = c.Advance()
	if c.State() != phase.Review {
		t.Fatalf("state = %v, want Review", c.State())
	}
	if err := c.Advance(); err == nil {
		t.Fatal("expected Advance from Review to fail")
	}
}

func TestPortraitDescriptorLengthGate(t *testing.T) {
	c := phase.New(nil)
	c.UpdateGate(phase.Gate{HasMRZID: true})
	_ = c.Advance() // -> AwaitPortrait

	c.UpdateGate(phase.Gate{HasMRZID: true, HasPortraitDesc: true, PortraitDescLen: 64})
	if err := c.Advance(); err == nil {
		t.Fatal("expected Advance to fail for a wrong-length descriptor")
	}
	if c.State() != phase.AwaitPortrait {
		t.Errorf("state should not change on a blocked Advance, got %v", c.State())
	}
}

func TestSubmitOnlyFromReview(t *testing.T) {
	c := phase.New(nil)
	if err := c.Submit(); err == nil {
		t.Fatal("expected Submit from AwaitMRZ to fail")
	}
}

func TestBackUnconditional(t *testing.T) {
	c := phase.New(nil)
	c.UpdateGate(phase.Gate{HasMRZID: true})
	_ = c.Advance() // -> AwaitPortrait

	if err := c.Back(phase.AwaitMRZ); err != nil {
		t.Fatalf("Back: %v", err)
	}
	if c.State() != phase.AwaitMRZ {
		t.Errorf("state = %v, want AwaitMRZ", c.State())
	}
}

func TestBackRejectsForwardOrEqualTarget(t *testing.T) {
	c := phase.New(nil)
	if err := c.Back(phase.AwaitMRZ); err == nil {
		t.Fatal("expected Back to the current state to fail")
	}
	if err := c.Back(phase.Review); err == nil {
		t.Fatal("expected Back to a later state to fail")
	}
}

func TestSwapCameraAcquiresExpectedFacing(t *testing.T) {
	cam := &fakeCamera{}
	c := phase.New(cam)
	c.UpdateGate(phase.Gate{HasMRZID: true})
	if err := c.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if len(cam.acquireCalls) != 1 || cam.acquireCalls[0] != phase.FacingEnvironment {
		t.Errorf("acquireCalls = %v, want one FacingEnvironment call", cam.acquireCalls)
	}
	if cam.releaseCount != 1 {
		t.Errorf("releaseCount = %d, want 1", cam.releaseCount)
	}
}

func TestSwapCameraFailurePropagatesWithoutStateChange(t *testing.T) {
	cam := &fakeCamera{failFacing: phase.FacingUser}
	c := phase.New(cam)
	c.UpdateGate(phase.Gate{HasMRZID: true})
	_ = c.Advance() // -> AwaitPortrait, camera facing environment, succeeds

	c.UpdateGate(phase.Gate{HasMRZID: true, HasPortraitDesc: true, PortraitDescLen: 128})
	if err := c.Advance(); err == nil {
		t.Fatal("expected Advance to fail when the camera denies the required facing")
	}
	if c.State() != phase.AwaitPortrait {
		t.Errorf("state should not advance past a camera acquisition failure, got %v", c.State())
	}
}
