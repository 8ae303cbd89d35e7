package face

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// DetectorMode selects which of the two ONNX sessions backs a detection
// call: accurate is slower and more precise, fast trades accuracy for a
// fixed, smaller input size.
type DetectorMode int

const (
	Accurate DetectorMode = iota
	Fast
)

// Detector wraps a RetinaFace-style single-class face detector ONNX
// session. Two Detector values are constructed at startup, one per mode,
// sharing the same session-construction idiom with different input sizes
// and thresholds.
type Detector struct {
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	scoreTensor  *ort.Tensor[float32]
	bboxTensor   *ort.Tensor[float32]
	threshold    float32
	inputW       int
	inputH       int
	maxAnchors   int
}

// NewDetector loads a detector session. inputSize is the square input
// resolution (640 for the accurate model, 512 for the fast fallback per
// the portrait-extractor spec); maxAnchors bounds the flat anchor grid the
// model emits for that input size.
func NewDetector(modelPath string, inputSize int, threshold float32, maxAnchors int, opts *ort.SessionOptions) (*Detector, error) {
	inputShape := ort.NewShape(1, 3, int64(inputSize), int64(inputSize))
	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("face: create detector input tensor: %w", err)
	}

	scoreTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(int64(maxAnchors), 1))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("face: create detector score tensor: %w", err)
	}

	bboxTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(int64(maxAnchors), 4))
	if err != nil {
		inputTensor.Destroy()
		scoreTensor.Destroy()
		return nil, fmt.Errorf("face: create detector bbox tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input.1"},
		[]string{"scores", "bboxes"},
		[]ort.Value{inputTensor},
		[]ort.Value{scoreTensor, bboxTensor},
		opts,
	)
	if err != nil {
		inputTensor.Destroy()
		scoreTensor.Destroy()
		bboxTensor.Destroy()
		return nil, fmt.Errorf("face: create detector session: %w", err)
	}

	return &Detector{
		session:     session,
		inputTensor: inputTensor,
		scoreTensor: scoreTensor,
		bboxTensor:  bboxTensor,
		threshold:   threshold,
		inputW:      inputSize,
		inputH:      inputSize,
		maxAnchors:  maxAnchors,
	}, nil
}

// DetectSingle runs the session on a CHW-normalized image and returns the
// highest-confidence detection at or above the configured threshold, or
// false if none qualifies.
func (d *Detector) DetectSingle(imgData []float32, origW, origH int) (Detection, bool, error) {
	inputSlice := d.inputTensor.GetData()
	copy(inputSlice, imgData)

	if err := d.session.Run(); err != nil {
		return Detection{}, false, fmt.Errorf("face: run detection: %w", err)
	}

	scores := d.scoreTensor.GetData()
	bboxes := d.bboxTensor.GetData()

	scaleW := float32(origW) / float32(d.inputW)
	scaleH := float32(origH) / float32(d.inputH)

	best := Detection{}
	found := false
	for i := 0; i < d.maxAnchors; i++ {
		score := scores[i]
		if score < d.threshold {
			continue
		}
		if found && score <= best.Confidence {
			continue
		}
		x1, y1, x2, y2 := bboxes[i*4], bboxes[i*4+1], bboxes[i*4+2], bboxes[i*4+3]
		best = Detection{
			BBox:       [4]float32{x1 * scaleW, y1 * scaleH, x2 * scaleW, y2 * scaleH},
			Confidence: score,
		}
		found = true
	}
	return best, found, nil
}

func (d *Detector) Close() {
	if d.session != nil {
		d.session.Destroy()
	}
	if d.inputTensor != nil {
		d.inputTensor.Destroy()
	}
	if d.scoreTensor != nil {
		d.scoreTensor.Destroy()
	}
	if d.bboxTensor != nil {
		d.bboxTensor.Destroy()
	}
}
