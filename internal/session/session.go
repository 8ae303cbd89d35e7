// Package session holds the in-process Session state a running
// verification walks through: the phase controller, the accumulated MRZ
// record, portrait, and liveness challenge, and the final match/liveness
// verdicts. Nothing here is persisted; only the finished Attestation is.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/idverify/internal/core/face"
	"github.com/your-org/idverify/internal/core/liveness"
	"github.com/your-org/idverify/internal/core/match"
	"github.com/your-org/idverify/internal/core/mrz"
	"github.com/your-org/idverify/internal/core/phase"
)

// Session is one verification run: a phase controller plus the evidence it
// has gated through so far.
type Session struct {
	mu sync.Mutex

	ID        uuid.UUID
	Controller *phase.Controller
	Challenge  *liveness.Challenge

	Mrz            *mrz.Record
	Portrait       *face.Portrait
	LivenessResult *liveness.Result
	MatchResult    *match.Result

	// PortraitCropJPEG and SelfieCropJPEG hold the two evidence crops
	// pending upload at Submit time, once an attestation ID exists to key
	// their object storage paths with.
	PortraitCropJPEG []byte
	SelfieCropJPEG   []byte

	CreatedAt time.Time
	UpdatedAt time.Time
}

func newSession() *Session {
	now := time.Now()
	return &Session{
		ID:         uuid.New(),
		Controller: phase.New(nil),
		Challenge:  liveness.NewChallenge(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// SetMrz records the parsed MRZ record and updates the phase gate.
func (s *Session) SetMrz(rec *mrz.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Mrz = rec
	s.UpdatedAt = time.Now()
	s.Controller.UpdateGate(phase.Gate{HasMRZID: rec.IDNumber != ""})
}

// SetPortrait records the extracted portrait and updates the phase gate.
func (s *Session) SetPortrait(p *face.Portrait) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Portrait = p
	s.UpdatedAt = time.Now()
	s.Controller.UpdateGate(phase.Gate{
		HasMRZID:        s.Mrz != nil && s.Mrz.IDNumber != "",
		HasPortraitDesc: true,
		PortraitDescLen: len(p.Descriptor),
	})
}

// SetPortraitEvidence records the JPEG-encoded portrait crop for later
// upload under the final attestation's evidence key.
func (s *Session) SetPortraitEvidence(cropJPEG []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PortraitCropJPEG = cropJPEG
}

// SetSelfieEvidence records the JPEG-encoded front-pose crop for later
// upload under the final attestation's evidence key.
func (s *Session) SetSelfieEvidence(cropJPEG []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelfieCropJPEG = cropJPEG
}

// SetVerdicts records the final match and liveness results and updates the
// phase gate so Review becomes reachable.
func (s *Session) SetVerdicts(m match.Result, l liveness.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MatchResult = &m
	s.LivenessResult = &l
	s.UpdatedAt = time.Now()
	s.Controller.UpdateGate(phase.Gate{
		HasMRZID:         s.Mrz != nil && s.Mrz.IDNumber != "",
		HasPortraitDesc:  s.Portrait != nil,
		PortraitDescLen:  len(s.Portrait.Descriptor),
		MatchPositive:    m.IsMatch,
		LivenessPositive: l.IsLive,
	})
}

// Manager holds all in-flight sessions in process memory.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[uuid.UUID]*Session)}
}

func (m *Manager) Create() *Session {
	s := newSession()
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}
