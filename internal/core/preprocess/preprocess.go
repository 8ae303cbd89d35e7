// Package preprocess implements the image preparation pipeline that turns a
// raw document frame into a binarized frame suitable for OCR: grayscale,
// local contrast enhancement, edge-preserving smoothing, deskew, adaptive
// threshold, and morphological close.
package preprocess

import (
	"image"
	"math"
	"sort"

	"gocv.io/x/gocv"

	"github.com/your-org/idverify/internal/core/frame"
)

const (
	claheClipLimit = 3.0
	claheTile      = 8
	bilateralD     = 5
	bilateralSigma = 50.0
	cannyLow       = 50.0
	cannyHigh      = 150.0
	deskewMinDeg   = 0.5
	adaptiveBlock  = 11
	adaptiveC      = 2.0
)

// matStack is a scoped-acquisition helper: every Mat pushed onto it is
// closed, in reverse order, when the stack unwinds. This is the Go idiom
// for "release native buffers on every exit path" called for in the spec.
type matStack struct {
	mats []*gocv.Mat
}

func (s *matStack) push(m *gocv.Mat) *gocv.Mat {
	s.mats = append(s.mats, m)
	return m
}

func (s *matStack) release() {
	for i := len(s.mats) - 1; i >= 0; i-- {
		s.mats[i].Close()
	}
}

// Run executes the full preprocessing pipeline on f and returns a new,
// binarized Frame ready for OCR. Only the contrast step has a fallback
// (applyContrast switches to global histogram equalization if CLAHE
// panics); the other steps have none. A Frame/Mat conversion error is
// returned to the caller.
func Run(f frame.Frame) (frame.Frame, error) {
	src, err := f.ToMatBGR()
	if err != nil {
		return frame.Frame{}, err
	}
	stack := &matStack{}
	stack.push(&src)
	defer stack.release()

	gray := gocv.NewMat()
	stack.push(&gray)
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	contrast := gocv.NewMat()
	stack.push(&contrast)
	applyContrast(gray, &contrast)

	smoothed := gocv.NewMat()
	stack.push(&smoothed)
	gocv.BilateralFilter(contrast, &smoothed, bilateralD, bilateralSigma, bilateralSigma)

	deskewed := deskew(smoothed, stack)

	thresholded := gocv.NewMat()
	stack.push(&thresholded)
	gocv.AdaptiveThreshold(deskewed, &thresholded, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinary, adaptiveBlock, adaptiveC)

	closed := gocv.NewMat()
	stack.push(&closed)
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(2, 1))
	defer kernel.Close()
	gocv.MorphologyEx(thresholded, &closed, gocv.MorphClose, kernel)

	out := gocv.NewMat()
	stack.push(&out)
	gocv.CvtColor(closed, &out, gocv.ColorGrayToBGR)

	return frame.FromMatBGR(out)
}

// applyContrast runs CLAHE and falls back to global histogram equalization
// if CLAHE construction or application fails.
func applyContrast(gray gocv.Mat, dst *gocv.Mat) {
	defer func() {
		if recover() != nil {
			gocv.EqualizeHist(gray, dst)
		}
	}()
	clahe := gocv.NewCLAHEWithParams(claheClipLimit, image.Pt(claheTile, claheTile))
	defer clahe.Close()
	clahe.Apply(gray, dst)
}

// deskew estimates document rotation via Canny edges and a probabilistic
// Hough transform over near-horizontal segments, and rotates the image
// around its center if the median angle is at least deskewMinDeg in
// magnitude. The Mat
// returned either is, or replaces, the caller's src and is tracked on the
// stack so it is released exactly once.
func deskew(src gocv.Mat, stack *matStack) gocv.Mat {
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(src, &edges, cannyLow, cannyHigh)

	lines := gocv.NewMat()
	defer lines.Close()
	gocv.HoughLinesPWithParams(edges, &lines, 1, math.Pi/180, 50, 50, 10)

	var angles []float64
	rows := lines.Rows()
	for i := 0; i < rows; i++ {
		x1 := float64(lines.GetVeciAt(i, 0)[0])
		y1 := float64(lines.GetVeciAt(i, 0)[1])
		x2 := float64(lines.GetVeciAt(i, 0)[2])
		y2 := float64(lines.GetVeciAt(i, 0)[3])
		if x2 == x1 {
			continue
		}
		angle := math.Atan2(y2-y1, x2-x1) * 180 / math.Pi
		if math.Abs(angle) < 15 {
			angles = append(angles, angle)
		}
	}

	if len(angles) == 0 {
		out := gocv.NewMat()
		stack.push(&out)
		src.CopyTo(&out)
		return out
	}

	sort.Float64s(angles)
	median := angles[len(angles)/2]

	out := gocv.NewMat()
	stack.push(&out)
	if math.Abs(median) < deskewMinDeg {
		src.CopyTo(&out)
		return out
	}

	center := image.Pt(src.Cols()/2, src.Rows()/2)
	rot := gocv.GetRotationMatrix2D(center, -median, 1.0)
	defer rot.Close()
	gocv.WarpAffineWithParams(src, &out, rot, image.Pt(src.Cols(), src.Rows()), gocv.InterpolationLinear, gocv.BorderReplicate, gocv.NewScalar(0, 0, 0, 0))
	return out
}
