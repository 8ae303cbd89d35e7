// Package frame defines the raw bitmap type the core pipeline operates on
// and its conversions to and from the image-ops backend.
package frame

import (
	"bytes"
	"image"
	"image/jpeg"

	"gocv.io/x/gocv"
)

// Frame is a raw 8-bit RGBA bitmap. It is the only image representation the
// core pipeline accepts from or hands back to a collaborator; everything
// backend-specific (gocv.Mat, ONNX tensors) lives behind the packages that
// consume a Frame.
type Frame struct {
	Width  int
	Height int
	Pixels []byte // width*height*4 bytes, RGBA row-major
}

// FromImage builds a Frame from a decoded Go image.
func FromImage(img image.Image) Frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rgba.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return Frame{Width: w, Height: h, Pixels: rgba.Pix}
}

// DecodeJPEG parses a JPEG byte stream into a Frame.
func DecodeJPEG(data []byte) (Frame, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return Frame{}, err
	}
	return FromImage(img), nil
}

// EncodeJPEG renders the Frame as a JPEG byte stream at the given quality.
func (f Frame) EncodeJPEG(quality int) ([]byte, error) {
	img := &image.RGBA{Pix: f.Pixels, Stride: f.Width * 4, Rect: image.Rect(0, 0, f.Width, f.Height)}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToMatBGR converts the Frame into a 3-channel BGR gocv.Mat, the layout
// every gocv image-op in this package expects. Caller owns the returned Mat
// and must Close it.
func (f Frame) ToMatBGR() (gocv.Mat, error) {
	rgba, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC4, f.Pixels)
	if err != nil {
		return gocv.Mat{}, err
	}
	defer rgba.Close()
	bgr := gocv.NewMat()
	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)
	return bgr, nil
}

// FromMatBGR converts a 3-channel BGR gocv.Mat back into a Frame. The Mat is
// not closed by this function; callers keep ownership.
func FromMatBGR(m gocv.Mat) (Frame, error) {
	rgba := gocv.NewMat()
	defer rgba.Close()
	gocv.CvtColor(m, &rgba, gocv.ColorBGRToRGBA)
	data, err := rgba.DataPtrUint8()
	if err != nil {
		return Frame{}, err
	}
	pixels := make([]byte, len(data))
	copy(pixels, data)
	return Frame{Width: rgba.Cols(), Height: rgba.Rows(), Pixels: pixels}, nil
}

// Crop returns the sub-rectangle [x0,y0)-[x1,y1) as a new Frame, clamped to
// the source bounds.
func (f Frame) Crop(x0, y0, x1, y1 int) Frame {
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
	if x1 <= x0 || y1 <= y0 {
		return Frame{}
	}
	w, h := x1-x0, y1-y0
	out := make([]byte, w*h*4)
	for row := 0; row < h; row++ {
		srcOff := ((y0+row)*f.Width + x0) * 4
		dstOff := row * w * 4
		copy(out[dstOff:dstOff+w*4], f.Pixels[srcOff:srcOff+w*4])
	}
	return Frame{Width: w, Height: h, Pixels: out}
}

// BottomCrop returns the bottom fraction of the frame, keeping 1-cropStart of
// its height. Used to isolate the MRZ band.
func (f Frame) BottomCrop(cropStart float64) Frame {
	y0 := int(float64(f.Height) * cropStart)
	return f.Crop(0, y0, f.Width, f.Height)
}
