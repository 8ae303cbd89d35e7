package mrz

import (
	"strings"
	"time"

	"github.com/your-org/idverify/internal/core/frame"
	"github.com/your-org/idverify/internal/core/ocr"
	"github.com/your-org/idverify/internal/core/preprocess"
	"github.com/your-org/idverify/internal/core/verrors"
)

const (
	cropStart         = 0.65
	minAcceptedChars  = 60
	minFallbackChars  = 30
	bottomCropPortion = 0.40
)

// Recognizer is the subset of ocr.Driver the extractor needs, so tests can
// substitute a fake.
type Recognizer interface {
	Recognize(f frame.Frame) (ocr.Result, error)
}

// Extract runs the full C1+C2+C3 pipeline against the back-of-document
// frame: three OCR strategies, cleaning, line recovery, format detection in
// TD1/TD3/TD2 order, positional parsing, and quality scoring.
func Extract(f frame.Frame, recognizer Recognizer, now time.Time) (*Record, error) {
	strategies := []func() (string, error){
		func() (string, error) { return runStrategy(f, recognizer) },
		func() (string, error) { return runStrategy(bottomCrop(f), recognizer) },
		func() (string, error) {
			pre, err := preprocess.Run(bottomCrop(f))
			if err != nil {
				return runStrategy(bottomCrop(f), recognizer)
			}
			return runStrategy(pre, recognizer)
		},
	}

	var best string
	for _, strategy := range strategies {
		cleaned, err := strategy()
		if err != nil {
			continue
		}
		if len(strings.ReplaceAll(cleaned, "\n", "")) >= minAcceptedChars {
			return parse(cleaned, now)
		}
		if len(strings.ReplaceAll(cleaned, "\n", "")) > len(strings.ReplaceAll(best, "\n", "")) {
			best = cleaned
		}
	}

	if len(strings.ReplaceAll(best, "\n", "")) >= minFallbackChars {
		return parse(best, now)
	}

	return nil, verrors.New(verrors.MrzUnreadable, "could not recover enough MRZ text from the document")
}

func bottomCrop(f frame.Frame) frame.Frame {
	return f.BottomCrop(1 - bottomCropPortion)
}

func runStrategy(f frame.Frame, recognizer Recognizer) (string, error) {
	result, err := recognizer.Recognize(f)
	if err != nil {
		return "", err
	}
	return CleanMRZText(result.Text), nil
}

// parse dispatches to the per-format parser in TD1, TD3, TD2 order and
// scores the result.
func parse(cleaned string, now time.Time) (*Record, error) {
	var lineSets map[DocumentType]RawLines
	if strings.Contains(cleaned, "\n") {
		lines := strings.Split(cleaned, "\n")
		lineSets = candidateLineSets(lines)
	} else {
		lineSets = RecoverLines(cleaned)
	}

	cleanedLen := len(strings.ReplaceAll(cleaned, "\n", ""))

	for _, dt := range []DocumentType{TD1, TD3, TD2} {
		lines, ok := lineSets[dt]
		if !ok {
			continue
		}
		rec, err := parseByFormat(dt, lines, now)
		if err != nil {
			continue
		}
		rec.Quality = scoreQuality(rec, cleanedLen)
		return rec, nil
	}

	return nil, verrors.New(verrors.MrzUnparseable, "MRZ text did not match any known document format")
}

// candidateLineSets builds per-format line sets from naturally-separated
// lines, padding/truncating each to the format's canonical width.
func candidateLineSets(lines []string) map[DocumentType]RawLines {
	out := make(map[DocumentType]RawLines)
	for _, dt := range []DocumentType{TD1, TD3, TD2} {
		if len(lines) != dt.lineCount() {
			continue
		}
		padded := make(RawLines, len(lines))
		for i, l := range lines {
			padded[i] = PadLine(l, dt.lineLength())
		}
		out[dt] = padded
	}
	return out
}

func parseByFormat(dt DocumentType, lines RawLines, now time.Time) (*Record, error) {
	switch dt {
	case TD1:
		return parseTD1(lines, now)
	case TD3:
		return parseTD3(lines, now)
	case TD2:
		return parseTD2(lines, now)
	default:
		return nil, verrors.New(verrors.MrzUnparseable, "unknown document type")
	}
}
