package liveness

import "testing"

func TestChallengeBeginEndGuard(t *testing.T) {
	c := NewChallenge()
	if !c.Begin() {
		t.Fatal("first Begin should succeed")
	}
	if c.Begin() {
		t.Fatal("concurrent Begin should be rejected")
	}
	c.End()
	if !c.Begin() {
		t.Fatal("Begin after End should succeed again")
	}
}

func TestChallengeNextPoseFollowsOrder(t *testing.T) {
	c := NewChallenge()
	pose, ok := c.NextPose()
	if !ok || pose != Front {
		t.Fatalf("NextPose = %v, %v; want Front, true", pose, ok)
	}

	if err := c.Submit(Sample{Pose: Front}); err != nil {
		t.Fatalf("Submit(Front) error: %v", err)
	}
	pose, ok = c.NextPose()
	if !ok || pose != Left {
		t.Fatalf("NextPose = %v, %v; want Left, true", pose, ok)
	}
}

func TestChallengeSubmitOutOfOrderRejected(t *testing.T) {
	c := NewChallenge()
	if err := c.Submit(Sample{Pose: Left}); err == nil {
		t.Fatal("expected an error submitting Left before Front")
	}
}

func TestChallengeSubmitAfterCompleteRejected(t *testing.T) {
	c := NewChallenge()
	for _, p := range Order {
		if err := c.Submit(Sample{Pose: p}); err != nil {
			t.Fatalf("Submit(%v) error: %v", p, err)
		}
	}
	if err := c.Submit(Sample{Pose: Front}); err == nil {
		t.Fatal("expected an error submitting after all poses are captured")
	}
}

func TestChallengeCompleteReturnsSamplesInOrder(t *testing.T) {
	c := NewChallenge()
	for _, p := range Order {
		if err := c.Submit(Sample{Pose: p, Quality: 0.5}); err != nil {
			t.Fatalf("Submit(%v) error: %v", p, err)
		}
	}
	samples, ok := c.Complete()
	if !ok {
		t.Fatal("expected Complete to report true after all poses submitted")
	}
	if len(samples) != len(Order) {
		t.Fatalf("len(samples) = %d, want %d", len(samples), len(Order))
	}
	for i, p := range Order {
		if samples[i].Pose != p {
			t.Errorf("samples[%d].Pose = %v, want %v", i, samples[i].Pose, p)
		}
	}
}

func TestChallengeCompleteFalseWhenPartial(t *testing.T) {
	c := NewChallenge()
	_ = c.Submit(Sample{Pose: Front})
	if _, ok := c.Complete(); ok {
		t.Error("expected Complete to report false with only one pose submitted")
	}
}
