// Package vision hosts the worker-side job dispatcher: it owns every ONNX
// Runtime session and the Tesseract driver, and runs the core pipeline
// packages (ocr/mrz, face, liveness geometry) against an incoming FrameJob.
package vision

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/your-org/idverify/internal/config"
	"github.com/your-org/idverify/internal/core/face"
	"github.com/your-org/idverify/internal/core/frame"
	"github.com/your-org/idverify/internal/core/liveness"
	"github.com/your-org/idverify/internal/core/mrz"
	"github.com/your-org/idverify/internal/core/ocr"
	"github.com/your-org/idverify/internal/core/verrors"
	"github.com/your-org/idverify/internal/models"
	"github.com/your-org/idverify/internal/observability"
)

// Pipeline holds the loaded models and drives job dispatch:
// mrz -> C1+C2+C3, portrait -> C4, pose -> C4 geometry for one liveness sample.
type Pipeline struct {
	extractor *face.Extractor
	ocr       *ocr.Driver

	accurate  *face.Detector
	fast      *face.Detector
	landmarks *face.LandmarkRegressor
	embedder  *face.Embedder
}

// NewPipeline initialises all ONNX sessions and the OCR driver. Each
// session gets its own SessionOptions, following the teacher's per-model
// thread-tuning idiom; options are destroyed once the session owns its own
// copy of the settings.
func NewPipeline(cfg config.VisionConfig, ocrCfg config.OCRConfig) (*Pipeline, error) {
	newSessionOptions := func() (*ort.SessionOptions, error) {
		opts, err := ort.NewSessionOptions()
		if err != nil {
			return nil, fmt.Errorf("create session options: %w", err)
		}
		if cfg.IntraOpThreads > 0 {
			if err := opts.SetIntraOpNumThreads(cfg.IntraOpThreads); err != nil {
				opts.Destroy()
				return nil, fmt.Errorf("set intra_op_threads: %w", err)
			}
		}
		if cfg.InterOpThreads > 0 {
			if err := opts.SetInterOpNumThreads(cfg.InterOpThreads); err != nil {
				opts.Destroy()
				return nil, fmt.Errorf("set inter_op_threads: %w", err)
			}
		}
		return opts, nil
	}

	accuratePath := filepath.Join(cfg.ModelsDir, cfg.DetectorAccurateFile)
	fastPath := filepath.Join(cfg.ModelsDir, cfg.DetectorFastFile)
	landmarkPath := filepath.Join(cfg.ModelsDir, cfg.LandmarkFile)
	embedderPath := filepath.Join(cfg.ModelsDir, cfg.EmbedderFile)

	slog.Info("loading accurate detector", "path", accuratePath)
	accOpts, err := newSessionOptions()
	if err != nil {
		return nil, err
	}
	accurate, err := face.NewDetector(accuratePath, 640, float32(cfg.DetectionThreshold), 16800, accOpts)
	accOpts.Destroy()
	if err != nil {
		return nil, fmt.Errorf("load accurate detector: %w", err)
	}

	slog.Info("loading fast detector", "path", fastPath)
	fastOpts, err := newSessionOptions()
	if err != nil {
		accurate.Close()
		return nil, err
	}
	fast, err := face.NewDetector(fastPath, 512, float32(cfg.DetectionThreshold), 10752, fastOpts)
	fastOpts.Destroy()
	if err != nil {
		accurate.Close()
		return nil, fmt.Errorf("load fast detector: %w", err)
	}

	slog.Info("loading landmark regressor", "path", landmarkPath)
	lmOpts, err := newSessionOptions()
	if err != nil {
		accurate.Close()
		fast.Close()
		return nil, err
	}
	landmarks, err := face.NewLandmarkRegressor(landmarkPath, 640, lmOpts)
	lmOpts.Destroy()
	if err != nil {
		accurate.Close()
		fast.Close()
		return nil, fmt.Errorf("load landmark regressor: %w", err)
	}

	slog.Info("loading embedder", "path", embedderPath)
	embOpts, err := newSessionOptions()
	if err != nil {
		accurate.Close()
		fast.Close()
		landmarks.Close()
		return nil, err
	}
	embedder, err := face.NewEmbedder(embedderPath, embOpts)
	embOpts.Destroy()
	if err != nil {
		accurate.Close()
		fast.Close()
		landmarks.Close()
		return nil, fmt.Errorf("load embedder: %w", err)
	}

	slog.Info("vision pipeline ready")

	return &Pipeline{
		extractor: face.NewExtractor(accurate, fast, landmarks, embedder),
		ocr:       ocr.New(ocrCfg.Language),
		accurate:  accurate,
		fast:      fast,
		landmarks: landmarks,
		embedder:  embedder,
	}, nil
}

func (p *Pipeline) Close() {
	p.accurate.Close()
	p.fast.Close()
	p.landmarks.Close()
	p.embedder.Close()
}

// Run dispatches job to the core pipeline stage matching its Kind and
// returns the wire-form FrameResult, never an error for expected pipeline
// failures (those are reported in the result's ErrorKind/Message so the
// caller can ack the job and let the session API surface the failure).
func (p *Pipeline) Run(job models.FrameJob) models.FrameResult {
	result := models.FrameResult{SessionID: job.SessionID, JobID: job.JobID, Kind: job.Kind}

	f, err := frame.DecodeJPEG(job.FrameData)
	if err != nil {
		result.ErrorKind = string(verrors.MrzUnreadable)
		result.Message = fmt.Sprintf("decode frame: %v", err)
		return result
	}

	switch job.Kind {
	case models.JobKindMRZ:
		p.runMRZ(f, &result)
	case models.JobKindPortrait:
		p.runPortrait(f, &result)
	case models.JobKindPose:
		p.runPose(f, job.Pose, &result)
	default:
		result.ErrorKind = string(verrors.Transient)
		result.Message = fmt.Sprintf("unknown job kind %q", job.Kind)
	}
	return result
}

func (p *Pipeline) runMRZ(f frame.Frame, result *models.FrameResult) {
	start := time.Now()
	rec, err := mrz.Extract(f, p.ocr, time.Now())
	observability.InferenceDuration.WithLabelValues("mrz").Observe(time.Since(start).Seconds())
	if err != nil {
		fillError(result, err)
		observability.MrzParseTotal.WithLabelValues("unknown", "rejected").Inc()
		return
	}

	result.Mrz = &models.MrzPayload{
		DocumentType:     string(rec.DocumentType),
		FirstName:        rec.FirstName,
		LastName:         rec.LastName,
		IDNumber:         rec.IDNumber,
		DateOfBirth:      rec.DateOfBirth,
		Gender:           rec.Gender,
		ExpiryDate:       rec.ExpiryDate,
		Nationality:      rec.Nationality,
		QualityScore:     rec.Quality.Score,
		QualityBand:      rec.Quality.Band,
		QualityIssues:    rec.Quality.Issues,
		ChecksumWarnings: rec.ChecksumReport.Warnings,
	}
	observability.FramesProcessed.WithLabelValues("mrz").Inc()
}

func (p *Pipeline) runPortrait(f frame.Frame, result *models.FrameResult) {
	start := time.Now()
	portrait, err := p.extractor.ExtractPortrait(f)
	observability.InferenceDuration.WithLabelValues("portrait").Observe(time.Since(start).Seconds())
	if err != nil {
		fillError(result, err)
		return
	}

	cropJPEG, err := portrait.Crop.EncodeJPEG(90)
	if err != nil {
		fillError(result, err)
		return
	}

	result.Portrait = &models.PortraitPayload{CropJPEG: cropJPEG, Descriptor: portrait.Descriptor}
	observability.FramesProcessed.WithLabelValues("portrait").Inc()
}

func (p *Pipeline) runPose(f frame.Frame, pose string, result *models.FrameResult) {
	start := time.Now()
	portrait, err := p.extractor.ExtractPortrait(f)
	observability.InferenceDuration.WithLabelValues("pose").Observe(time.Since(start).Seconds())
	if err != nil {
		fillError(result, err)
		return
	}

	quality := liveness.FaceQuality(portrait.BBox, f.Width, f.Height, portrait.Landmarks)

	landmarksX := make([]float32, face.LandmarkCount)
	landmarksY := make([]float32, face.LandmarkCount)
	for i, pt := range portrait.Landmarks {
		landmarksX[i] = pt.X
		landmarksY[i] = pt.Y
	}

	result.Pose = &models.PosePayload{
		Pose:       pose,
		Quality:    quality,
		Confidence: float64(portrait.Confidence),
		LandmarksX: landmarksX,
		LandmarksY: landmarksY,
		Descriptor: portrait.Descriptor,
	}

	// Only the front pose is retained as the selfie evidence image.
	if pose == string(liveness.Front) {
		cropJPEG, err := portrait.Crop.EncodeJPEG(90)
		if err != nil {
			fillError(result, err)
			return
		}
		result.Pose.CropJPEG = cropJPEG
	}

	observability.FramesProcessed.WithLabelValues("pose").Inc()
}

func fillError(result *models.FrameResult, err error) {
	var verr *verrors.Error
	if errors.As(err, &verr) {
		result.ErrorKind = string(verr.Kind)
		result.Message = verr.Error()
		return
	}
	result.ErrorKind = string(verrors.Transient)
	result.Message = err.Error()
}
