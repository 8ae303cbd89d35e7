package face

import (
	"github.com/your-org/idverify/internal/core/frame"
	"github.com/your-org/idverify/internal/core/verrors"
)

const (
	accurateInputSize = 640
	fastInputSize     = 512
	detectThreshold   = 0.3
)

// Extractor runs the full C4 pipeline: accurate detection with a fast
// fallback, padded crop, landmark localization, and descriptor embedding.
type Extractor struct {
	accurate  *Detector
	fast      *Detector
	landmarks *LandmarkRegressor
	embedder  *Embedder
}

func NewExtractor(accurate, fast *Detector, landmarks *LandmarkRegressor, embedder *Embedder) *Extractor {
	return &Extractor{accurate: accurate, fast: fast, landmarks: landmarks, embedder: embedder}
}

// ExtractPortrait detects the single face in f, falling back from the
// accurate detector to the fast detector, and returns its padded crop,
// 68-point landmarks, and descriptor.
func (e *Extractor) ExtractPortrait(f frame.Frame) (*Portrait, error) {
	det, ok, err := e.detect(f)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, verrors.New(verrors.NoFaceOnDocument, "no face detected on document")
	}

	crop := paddedCrop(f, det.BBox, cropPadding)

	cropCHW, err := toCHW(crop, accurateInputSize)
	if err != nil {
		return nil, verrors.Wrap(verrors.DescriptorInvalid, "failed to prepare face crop for landmarking", err)
	}
	landmarks, err := e.landmarks.Predict(cropCHW, crop.Width, crop.Height)
	if err != nil {
		return nil, verrors.Wrap(verrors.DescriptorInvalid, "landmark regression failed", err)
	}

	embedW, embedH := e.embedder.InputSize()
	embedInput, err := toCHW(crop, embedW)
	_ = embedH
	if err != nil {
		return nil, verrors.Wrap(verrors.DescriptorInvalid, "failed to prepare face crop for embedding", err)
	}
	descriptor, err := e.embedder.Extract(embedInput)
	if err != nil {
		return nil, verrors.Wrap(verrors.DescriptorInvalid, "descriptor extraction failed", err)
	}
	if len(descriptor) != DescriptorDim {
		return nil, verrors.New(verrors.DescriptorInvalid, "descriptor has unexpected length")
	}

	return &Portrait{Crop: crop, BBox: det.BBox, Confidence: det.Confidence, Descriptor: descriptor, Landmarks: landmarks}, nil
}

func (e *Extractor) detect(f frame.Frame) (Detection, bool, error) {
	chw, err := toCHW(f, accurateInputSize)
	if err != nil {
		return Detection{}, false, err
	}
	det, ok, err := e.accurate.DetectSingle(chw, f.Width, f.Height)
	if err != nil {
		return Detection{}, false, err
	}
	if ok {
		return det, true, nil
	}

	chwFast, err := toCHW(f, fastInputSize)
	if err != nil {
		return Detection{}, false, err
	}
	det, ok, err = e.fast.DetectSingle(chwFast, f.Width, f.Height)
	if err != nil {
		return Detection{}, false, err
	}
	return det, ok, nil
}

func paddedCrop(f frame.Frame, bbox [4]float32, padding int) frame.Frame {
	x0 := int(bbox[0]) - padding
	y0 := int(bbox[1]) - padding
	x1 := int(bbox[2]) + padding
	y1 := int(bbox[3]) + padding
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > f.Width {
		x1 = f.Width
	}
	if y1 > f.Height {
		y1 = f.Height
	}
	return f.Crop(x0, y0, x1, y1)
}
