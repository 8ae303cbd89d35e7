package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/idverify/internal/core/attestation"
	"github.com/your-org/idverify/internal/core/face"
	"github.com/your-org/idverify/internal/core/liveness"
	"github.com/your-org/idverify/internal/core/match"
	"github.com/your-org/idverify/internal/core/mrz"
	"github.com/your-org/idverify/internal/models"
	"github.com/your-org/idverify/internal/observability"
	"github.com/your-org/idverify/internal/queue"
	"github.com/your-org/idverify/internal/session"
	"github.com/your-org/idverify/pkg/dto"
)

const visionJobTimeout = 20 * time.Second

// attestationStore is the slice of storage.PostgresStore that Submit needs.
type attestationStore interface {
	CreateAttestation(ctx context.Context, rec *models.AttestationRecord) error
}

// evidenceStore is the slice of storage.MinIOStore that evidence capture needs.
type evidenceStore interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
}

// SessionHandler drives the phase controller (C8) for each verification
// session over HTTP: every phase-advancing call uploads one frame (or one
// pose frame) in place of a live camera stream, round-trips it through the
// vision worker, and gates the next phase on the result.
type SessionHandler struct {
	manager  *session.Manager
	vision   *queue.VisionClient
	producer *queue.Producer
	db       attestationStore
	evidence evidenceStore
}

func NewSessionHandler(manager *session.Manager, vision *queue.VisionClient, producer *queue.Producer, db attestationStore, evidence evidenceStore) *SessionHandler {
	return &SessionHandler{manager: manager, vision: vision, producer: producer, db: db, evidence: evidence}
}

func (h *SessionHandler) Create(c *gin.Context) {
	s := h.manager.Create()
	c.JSON(http.StatusCreated, toSessionResponse(s))
}

func (h *SessionHandler) Get(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(s))
}

// UploadMRZ handles POST /v1/sessions/:id/mrz.
func (h *SessionHandler) UploadMRZ(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	frameData, err := readUploadedFrame(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	job := models.FrameJob{SessionID: s.ID, JobID: uuid.New(), Kind: models.JobKindMRZ, FrameData: frameData, Timestamp: time.Now()}
	result, err := h.vision.RunJob(c.Request.Context(), job, visionJobTimeout)
	if err != nil {
		h.failPhase(c.Request.Context(), s, "mrz", err)
		c.JSON(http.StatusGatewayTimeout, dto.ErrorResponse{ErrorKind: "transient", Message: err.Error()})
		return
	}
	if result.ErrorKind != "" {
		h.failPhase(c.Request.Context(), s, "mrz", fmt.Errorf("%s", result.Message))
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{ErrorKind: result.ErrorKind, Message: result.Message})
		return
	}

	rec := mrzFromPayload(result.Mrz)
	s.SetMrz(rec)

	if err := s.Controller.Advance(); err != nil {
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		return
	}

	observability.MrzParseTotal.WithLabelValues(string(rec.DocumentType), "accepted").Inc()
	h.publish(c.Request.Context(), s, "phaseSucceeded", "mrz", mrzToResponse(rec))
	c.JSON(http.StatusOK, mrzToResponse(rec))
}

// UploadPortrait handles POST /v1/sessions/:id/portrait.
func (h *SessionHandler) UploadPortrait(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	frameData, err := readUploadedFrame(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	job := models.FrameJob{SessionID: s.ID, JobID: uuid.New(), Kind: models.JobKindPortrait, FrameData: frameData, Timestamp: time.Now()}
	result, err := h.vision.RunJob(c.Request.Context(), job, visionJobTimeout)
	if err != nil {
		h.failPhase(c.Request.Context(), s, "portrait", err)
		c.JSON(http.StatusGatewayTimeout, dto.ErrorResponse{ErrorKind: "transient", Message: err.Error()})
		return
	}
	if result.ErrorKind != "" {
		h.failPhase(c.Request.Context(), s, "portrait", fmt.Errorf("%s", result.Message))
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{ErrorKind: result.ErrorKind, Message: result.Message})
		return
	}

	portrait := &face.Portrait{Descriptor: result.Portrait.Descriptor}
	s.SetPortrait(portrait)

	if err := s.Controller.Advance(); err != nil {
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		return
	}

	s.SetPortraitEvidence(result.Portrait.CropJPEG)

	resp := dto.PortraitResultResponse{Detected: true, DescriptorLen: len(portrait.Descriptor)}
	h.publish(c.Request.Context(), s, "phaseSucceeded", "portrait", resp)
	c.JSON(http.StatusOK, resp)
}

// UploadLivenessPose handles POST /v1/sessions/:id/liveness/:pose.
func (h *SessionHandler) UploadLivenessPose(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	pose := liveness.Pose(c.Param("pose"))
	frameData, err := readUploadedFrame(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	if !s.Challenge.Begin() {
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: "a pose capture is already in flight for this session"})
		return
	}
	defer s.Challenge.End()

	job := models.FrameJob{SessionID: s.ID, JobID: uuid.New(), Kind: models.JobKindPose, Pose: string(pose), FrameData: frameData, Timestamp: time.Now()}
	result, err := h.vision.RunJob(c.Request.Context(), job, visionJobTimeout)
	if err != nil {
		h.failPhase(c.Request.Context(), s, "liveness", err)
		c.JSON(http.StatusGatewayTimeout, dto.ErrorResponse{ErrorKind: "transient", Message: err.Error()})
		return
	}
	if result.ErrorKind != "" {
		h.failPhase(c.Request.Context(), s, "liveness", fmt.Errorf("%s", result.Message))
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{ErrorKind: result.ErrorKind, Message: result.Message})
		return
	}

	sample := sampleFromPayload(pose, result.Pose, job.Timestamp)
	if err := s.Challenge.Submit(sample); err != nil {
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		return
	}

	if pose == liveness.Front && result.Pose != nil && len(result.Pose.CropJPEG) > 0 {
		s.SetSelfieEvidence(result.Pose.CropJPEG)
	}

	samples, complete := s.Challenge.Complete()
	if !complete {
		next, _ := s.Challenge.NextPose()
		resp := dto.LivenessPoseResponse{Pose: string(pose), Accepted: true, NextPose: string(next)}
		h.publish(c.Request.Context(), s, "progress", "liveness", resp)
		c.JSON(http.StatusOK, resp)
		return
	}

	liveResult := liveness.Analyze(samples)
	matchResult, err := match.Compare(s.Portrait.Descriptor, frontDescriptor(samples))
	if err != nil {
		h.failPhase(c.Request.Context(), s, "liveness", err)
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: err.Error()})
		return
	}

	s.SetVerdicts(matchResult, liveResult)
	if err := s.Controller.Advance(); err != nil {
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		return
	}

	observability.LivenessScore.Observe(liveResult.Score)
	observability.MatchDistance.Observe(matchResult.Distance)

	resp := dto.VerificationResultResponse{
		IsMatch:         matchResult.IsMatch,
		Distance:        matchResult.Distance,
		Similarity:      matchResult.Similarity,
		IsLive:          liveResult.IsLive,
		LivenessScore:   liveResult.Score,
		StaticSuspected: liveResult.StaticSuspected,
	}
	h.publish(c.Request.Context(), s, "phaseSucceeded", "liveness", resp)
	c.JSON(http.StatusOK, resp)
}

// Submit handles POST /v1/sessions/:id/submit: the Review -> Submitted
// transition and persistence of the attestation record.
func (h *SessionHandler) Submit(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := s.Controller.Submit(); err != nil {
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		return
	}

	att := attestation.Assemble(s.Mrz, *s.MatchResult, *s.LivenessResult, time.Now())

	attestationID := uuid.New()
	portraitKey, selfieKey := h.storeEvidence(c.Request.Context(), s, attestationID)

	rec := &models.AttestationRecord{
		ID:                  attestationID,
		SessionID:           s.ID,
		FirstName:           att.FirstName,
		LastName:            att.LastName,
		IDNumber:            att.IDNumber,
		DateOfBirth:         att.DateOfBirth,
		Gender:              att.Gender,
		ExpiryDate:          att.ExpiryDate,
		Nationality:         att.Nationality,
		DocumentType:        string(att.DocumentType),
		MatchScore:          att.Biometrics.MatchScore,
		IsLive:              att.Biometrics.IsLive,
		LivenessScore:       att.Biometrics.LivenessScore,
		VerificationStatus:  string(att.Biometrics.VerificationStatus),
		EvidencePortraitKey: portraitKey,
		EvidenceSelfieKey:   selfieKey,
	}
	if err := h.db.CreateAttestation(c.Request.Context(), rec); err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp := dto.SubmitResponse{AttestationID: rec.ID, Status: rec.VerificationStatus, SubmittedAt: rec.CreatedAt.Format(time.RFC3339)}
	h.publish(c.Request.Context(), s, "phaseSucceeded", "submit", resp)
	c.JSON(http.StatusOK, resp)
}

// storeEvidence uploads the session's retained portrait and selfie crops
// to the evidence store under the attestation's own id, per the
// <attestationID>/portrait.jpg and <attestationID>/selfie.jpg convention,
// and returns the keys to persist on the attestation record. A crop that
// was never captured (or an unconfigured evidence store) yields an empty
// key rather than failing the submission.
func (h *SessionHandler) storeEvidence(ctx context.Context, s *session.Session, attestationID uuid.UUID) (portraitKey, selfieKey string) {
	if h.evidence == nil {
		return "", ""
	}
	if len(s.PortraitCropJPEG) > 0 {
		portraitKey = fmt.Sprintf("%s/portrait.jpg", attestationID)
		if err := h.evidence.PutObject(ctx, portraitKey, s.PortraitCropJPEG, "image/jpeg"); err != nil {
			slog.Warn("upload portrait evidence", "attestation_id", attestationID, "error", err)
			portraitKey = ""
		}
	}
	if len(s.SelfieCropJPEG) > 0 {
		selfieKey = fmt.Sprintf("%s/selfie.jpg", attestationID)
		if err := h.evidence.PutObject(ctx, selfieKey, s.SelfieCropJPEG, "image/jpeg"); err != nil {
			slog.Warn("upload selfie evidence", "attestation_id", attestationID, "error", err)
			selfieKey = ""
		}
	}
	return portraitKey, selfieKey
}

func (h *SessionHandler) lookup(c *gin.Context) (*session.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid session id"})
		return nil, false
	}
	s, ok := h.manager.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "session not found"})
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) failPhase(ctx context.Context, s *session.Session, ph string, err error) {
	h.emit(ctx, &dto.PhaseEvent{SessionID: s.ID, Kind: "phaseFailed", Phase: ph, Message: err.Error()})
}

func (h *SessionHandler) publish(ctx context.Context, s *session.Session, kind, ph string, payload interface{}) {
	h.emit(ctx, &dto.PhaseEvent{SessionID: s.ID, Kind: kind, Phase: ph, Payload: payload})
}

// emit publishes a phase event to the per-session NATS subject, which the
// API process's event consumer fans out to WebSocket subscribers. This
// keeps event delivery correct when multiple API instances run behind a
// load balancer and a client's WebSocket lands on a different instance
// than the one that handled the phase-advancing request.
func (h *SessionHandler) emit(ctx context.Context, evt *dto.PhaseEvent) {
	if h.producer == nil {
		return
	}
	if err := h.producer.PublishEvent(ctx, evt.SessionID.String(), evt); err != nil {
		slog.Warn("publish phase event", "session_id", evt.SessionID, "error", err)
	}
}

func readUploadedFrame(c *gin.Context) ([]byte, error) {
	file, _, err := c.Request.FormFile("frame")
	if err != nil {
		return nil, fmt.Errorf("read uploaded frame: %w", err)
	}
	defer file.Close()
	return io.ReadAll(file)
}

func toSessionResponse(s *session.Session) dto.SessionResponse {
	return dto.SessionResponse{
		ID:        s.ID,
		Phase:     s.Controller.State().String(),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

func mrzFromPayload(p *models.MrzPayload) *mrz.Record {
	return &mrz.Record{
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		IDNumber:     p.IDNumber,
		DateOfBirth:  p.DateOfBirth,
		Gender:       p.Gender,
		ExpiryDate:   p.ExpiryDate,
		Nationality:  p.Nationality,
		DocumentType: mrz.DocumentType(p.DocumentType),
		Quality: mrz.Quality{
			Score:  p.QualityScore,
			Band:   p.QualityBand,
			Issues: p.QualityIssues,
		},
		ChecksumReport: mrz.ChecksumReport{Warnings: p.ChecksumWarnings},
	}
}

func mrzToResponse(rec *mrz.Record) dto.MrzResultResponse {
	return dto.MrzResultResponse{
		DocumentType: string(rec.DocumentType),
		FirstName:    rec.FirstName,
		LastName:     rec.LastName,
		IDNumber:     rec.IDNumber,
		DateOfBirth:  rec.DateOfBirth,
		Gender:       rec.Gender,
		ExpiryDate:   rec.ExpiryDate,
		Nationality:  rec.Nationality,
		Quality: dto.MrzQualityResponse{
			Score:  rec.Quality.Score,
			Band:   rec.Quality.Band,
			Issues: rec.Quality.Issues,
		},
		ChecksumWarnings: rec.ChecksumReport.Warnings,
	}
}

func sampleFromPayload(pose liveness.Pose, p *models.PosePayload, ts time.Time) liveness.Sample {
	var landmarks [face.LandmarkCount]face.Point
	if p != nil {
		for i := 0; i < face.LandmarkCount && i < len(p.LandmarksX) && i < len(p.LandmarksY); i++ {
			landmarks[i] = face.Point{X: p.LandmarksX[i], Y: p.LandmarksY[i]}
		}
	}
	s := liveness.Sample{Pose: pose, Timestamp: ts, Landmarks: landmarks}
	if p != nil {
		s.Quality = p.Quality
		s.Confidence = p.Confidence
		s.Poor = p.Poor
		s.Descriptor = p.Descriptor
	}
	return s
}

func frontDescriptor(samples []liveness.Sample) []float32 {
	for _, s := range samples {
		if s.Pose == liveness.Front {
			return s.Descriptor
		}
	}
	return nil
}
