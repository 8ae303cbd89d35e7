// Package face implements the portrait extractor (C4): single-face
// detection, 68-point landmark localization, and 128-dim descriptor
// embedding, backed by ONNX Runtime sessions in the teacher's
// AdvancedSession idiom.
package face

import "github.com/your-org/idverify/internal/core/frame"

const (
	// DescriptorDim is the fixed length of every descriptor this package
	// produces. Chosen to match a native 128-d recognition model rather
	// than the 512-d ArcFace convention, per the portability precedent of
	// dlib's resnet recognition model.
	DescriptorDim = 128

	// LandmarkCount is the number of 2D points the landmark regressor
	// produces per face.
	LandmarkCount = 68

	cropPadding = 20
)

// Point is a single 2D landmark coordinate in pixel space.
type Point struct {
	X, Y float32
}

// Detection is one face found by a detector backend.
type Detection struct {
	BBox       [4]float32 // x1, y1, x2, y2 in pixel coordinates
	Confidence float32
}

// Portrait is the result of running the full C4 pipeline on a frame: the
// padded face crop plus its descriptor.
type Portrait struct {
	Crop       frame.Frame
	BBox       [4]float32 // detection bbox in the source frame's pixel space
	Confidence float32    // the detector's score for BBox, not a geometric quality measure
	Descriptor []float32
	Landmarks  [LandmarkCount]Point
}
