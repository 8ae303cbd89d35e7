package session_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/your-org/idverify/internal/core/face"
	"github.com/your-org/idverify/internal/core/liveness"
	"github.com/your-org/idverify/internal/core/match"
	"github.com/your-org/idverify/internal/core/mrz"
	"github.com/your-org/idverify/internal/core/phase"
	"github.com/your-org/idverify/internal/session"
)

func TestManagerCreateAndGet(t *testing.T) {
	m := session.NewManager()
	s := m.Create()

	got, ok := m.Get(s.ID)
	if !ok {
		t.Fatal("expected Get to find the just-created session")
	}
	if got != s {
		t.Error("Get returned a different session instance")
	}
}

func TestManagerGetUnknownID(t *testing.T) {
	m := session.NewManager()
	if _, ok := m.Get(uuid.New()); ok {
		t.Error("expected Get to report false for an unknown id")
	}
}

func TestNewSessionStartsAtAwaitMRZ(t *testing.T) {
	s := session.NewManager().Create()
	if s.Controller.State() != phase.AwaitMRZ {
		t.Errorf("initial state = %v, want AwaitMRZ", s.Controller.State())
	}
}

func TestSetMrzUnlocksAdvance(t *testing.T) {
	s := session.NewManager().Create()
	s.SetMrz(&mrz.Record{IDNumber: "L898902C3"})
	if err := s.Controller.Advance(); err != nil {
		t.Fatalf("Advance after SetMrz: %v", err)
	}
	if s.Controller.State() != phase.AwaitPortrait {
		t.Errorf("state = %v, want AwaitPortrait", s.Controller.State())
	}
}

func TestSetMrzWithEmptyIDDoesNotUnlockAdvance(t *testing.T) {
	s := session.NewManager().Create()
	s.SetMrz(&mrz.Record{IDNumber: ""})
	if err := s.Controller.Advance(); err == nil {
		t.Fatal("expected Advance to stay blocked with an empty MRZ id")
	}
}

func TestSetPortraitUnlocksAdvanceToLiveness(t *testing.T) {
	s := session.NewManager().Create()
	s.SetMrz(&mrz.Record{IDNumber: "L898902C3"})
	_ = s.Controller.Advance() // -> AwaitPortrait

	descriptor := make([]float32, face.DescriptorDim)
	s.SetPortrait(&face.Portrait{Descriptor: descriptor})
	if err := s.Controller.Advance(); err != nil {
		t.Fatalf("Advance after SetPortrait: %v", err)
	}
	if s.Controller.State() != phase.AwaitLiveness {
		t.Errorf("state = %v, want AwaitLiveness", s.Controller.State())
	}
}

func TestSetVerdictsUnlocksReview(t *testing.T) {
	s := session.NewManager().Create()
	s.SetMrz(&mrz.Record{IDNumber: "L898902C3"})
	_ = s.Controller.Advance()

	descriptor := make([]float32, face.DescriptorDim)
	s.SetPortrait(&face.Portrait{Descriptor: descriptor})
	_ = s.Controller.Advance()

	s.SetVerdicts(match.Result{IsMatch: true}, liveness.Result{IsLive: true})
	if err := s.Controller.Advance(); err != nil {
		t.Fatalf("Advance after SetVerdicts: %v", err)
	}
	if s.Controller.State() != phase.Review {
		t.Errorf("state = %v, want Review", s.Controller.State())
	}
}

func TestSetVerdictsWithFailedMatchBlocksReview(t *testing.T) {
	s := session.NewManager().Create()
	s.SetMrz(&mrz.Record{IDNumber: "L898902C3"})
	_ = s.Controller.Advance()

	descriptor := make([]float32, face.DescriptorDim)
	s.SetPortrait(&face.Portrait{Descriptor: descriptor})
	_ = s.Controller.Advance()

	s.SetVerdicts(match.Result{IsMatch: false}, liveness.Result{IsLive: true})
	if err := s.Controller.Advance(); err == nil {
		t.Fatal("expected Advance to Review to fail when match is negative")
	}
}
