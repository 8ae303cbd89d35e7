package face

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/your-org/idverify/internal/core/frame"
)

// toCHW resizes f to size x size and returns it as a normalized CHW
// ([3*size*size]) float32 slice in RGB order, pixel values scaled to
// [-1, 1], matching the input convention of the detector/embedder models.
func toCHW(f frame.Frame, size int) ([]float32, error) {
	mat, err := f.ToMatBGR()
	if err != nil {
		return nil, fmt.Errorf("face: convert frame to mat: %w", err)
	}
	defer mat.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, image.Pt(size, size), 0, 0, gocv.InterpolationLinear)

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(resized, &rgb, gocv.ColorBGRToRGB)

	data := rgb.ToBytes()
	out := make([]float32, 3*size*size)
	plane := size * size
	for i := 0; i < plane; i++ {
		r := float32(data[i*3])
		g := float32(data[i*3+1])
		b := float32(data[i*3+2])
		out[i] = (r - 127.5) / 128.0
		out[plane+i] = (g - 127.5) / 128.0
		out[2*plane+i] = (b - 127.5) / 128.0
	}
	return out, nil
}
