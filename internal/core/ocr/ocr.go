// Package ocr drives Tesseract against a frame with the two-pass strategy
// the MRZ extractor needs: a whitelisted, page-segmented pass for clean
// machine print, and an unwhitelisted fallback for OCR builds that drop the
// '<' filler glyph under a whitelist.
package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/your-org/idverify/internal/core/frame"
)

const (
	mrzWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789<"
	mrzDPI       = "300"
)

// Result is one OCR pass's output.
type Result struct {
	Text       string
	Confidence float64
}

// Driver runs Tesseract passes against frames. It owns no long-lived native
// state: gosseract clients are created and closed per call, matching the
// teacher-adjacent examples' per-invocation client lifecycle.
type Driver struct {
	lang string
}

// New returns a Driver for the given Tesseract language (e.g. "eng").
func New(lang string) *Driver {
	if lang == "" {
		lang = "eng"
	}
	return &Driver{lang: lang}
}

// Recognize runs pass 1 (whitelisted, uniform-block PSM) and, only if its
// cleaned length is below 60 characters, pass 2 (no whitelist, same PSM).
// It returns the pass-1 result unless pass 2 ran, in which case the longer
// of the two cleaned outputs wins.
func (d *Driver) Recognize(f frame.Frame) (Result, error) {
	pass1, err := d.recognize(f, true)
	if err != nil {
		return Result{}, err
	}

	if len(cleanLength(pass1.Text)) >= 60 {
		return pass1, nil
	}

	pass2, err := d.recognize(f, false)
	if err != nil {
		return pass1, nil
	}
	if len(cleanLength(pass2.Text)) > len(cleanLength(pass1.Text)) {
		return pass2, nil
	}
	return pass1, nil
}

func (d *Driver) recognize(f frame.Frame, whitelist bool) (Result, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(d.lang); err != nil {
		return Result{}, fmt.Errorf("set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return Result{}, fmt.Errorf("set psm: %w", err)
	}
	if err := client.SetVariable("user_defined_dpi", mrzDPI); err != nil {
		return Result{}, fmt.Errorf("set dpi: %w", err)
	}
	if err := client.SetVariable("preserve_interword_spaces", "1"); err != nil {
		return Result{}, fmt.Errorf("set preserve spaces: %w", err)
	}
	if whitelist {
		if err := client.SetWhitelist(mrzWhitelist); err != nil {
			return Result{}, fmt.Errorf("set whitelist: %w", err)
		}
	}

	jpg, err := f.EncodeJPEG(95)
	if err != nil {
		return Result{}, fmt.Errorf("encode frame: %w", err)
	}
	if err := client.SetImageFromBytes(jpg); err != nil {
		return Result{}, fmt.Errorf("load image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return Result{}, fmt.Errorf("recognize: %w", err)
	}

	confidence := 0.0
	if boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE); err == nil && len(boxes) > 0 {
		var sum float64
		for _, b := range boxes {
			sum += b.Confidence
		}
		confidence = sum / float64(len(boxes)) / 100.0
	}

	return Result{Text: text, Confidence: confidence}, nil
}

// cleanLength is a cheap proxy for cleaned-text length used only to decide
// whether a second OCR pass is worthwhile; the MRZ package's own cleaning
// pass is authoritative.
func cleanLength(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '<':
			out = append(out, c)
		case c >= 'a' && c <= 'z':
			out = append(out, c-32)
		}
	}
	return string(out)
}
