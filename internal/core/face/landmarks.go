package face

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// LandmarkRegressor wraps a 68-point landmark regression ONNX session. The
// detector pack only ships a 5-point model, so this session uses the same
// construction idiom as Detector/Embedder against a dedicated 68-point
// model file.
type LandmarkRegressor struct {
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	inputW       int
	inputH       int
}

// NewLandmarkRegressor loads the 68-point landmark model, expecting a
// square face-crop input and a flat [68*2] output of normalized (x, y)
// pairs in crop-local coordinates.
func NewLandmarkRegressor(modelPath string, inputSize int, opts *ort.SessionOptions) (*LandmarkRegressor, error) {
	inputShape := ort.NewShape(1, 3, int64(inputSize), int64(inputSize))
	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("face: create landmark input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(LandmarkCount*2)))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("face: create landmark output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input.1"},
		[]string{"landmarks"},
		[]ort.Value{inputTensor},
		[]ort.Value{outputTensor},
		opts,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("face: create landmark session: %w", err)
	}

	return &LandmarkRegressor{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		inputW:       inputSize,
		inputH:       inputSize,
	}, nil
}

// Predict runs the session on a CHW-normalized face crop and maps the
// normalized output back to pixel coordinates within a crop of size
// (cropW, cropH).
func (r *LandmarkRegressor) Predict(faceData []float32, cropW, cropH int) ([LandmarkCount]Point, error) {
	inputSlice := r.inputTensor.GetData()
	copy(inputSlice, faceData)

	if err := r.session.Run(); err != nil {
		return [LandmarkCount]Point{}, fmt.Errorf("face: run landmark regression: %w", err)
	}

	out := r.outputTensor.GetData()
	var pts [LandmarkCount]Point
	for i := 0; i < LandmarkCount; i++ {
		pts[i] = Point{
			X: out[i*2] * float32(cropW),
			Y: out[i*2+1] * float32(cropH),
		}
	}
	return pts, nil
}

func (r *LandmarkRegressor) Close() {
	if r.session != nil {
		r.session.Destroy()
	}
	if r.inputTensor != nil {
		r.inputTensor.Destroy()
	}
	if r.outputTensor != nil {
		r.outputTensor.Destroy()
	}
}
