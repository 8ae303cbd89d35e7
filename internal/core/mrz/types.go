// Package mrz implements Machine-Readable Zone line assembly, positional
// field extraction for the TD1/TD2/TD3 ICAO 9303 formats, check-digit
// validation, and quality scoring.
package mrz

// DocumentType is one of the three ICAO 9303 MRZ layouts.
type DocumentType string

const (
	TD1 DocumentType = "TD1"
	TD2 DocumentType = "TD2"
	TD3 DocumentType = "TD3"
)

// lineLength returns the canonical MRZ line length for a document type.
func (d DocumentType) lineLength() int {
	switch d {
	case TD1:
		return 30
	case TD2:
		return 36
	case TD3:
		return 44
	default:
		return 0
	}
}

func (d DocumentType) lineCount() int {
	if d == TD1 {
		return 3
	}
	return 2
}

// RawLines is the cleaned, padded line sequence a format parser consumes.
type RawLines []string

// Quality is the 0-100 confidence score with a coarse band and the
// individual issues that reduced it.
type Quality struct {
	Score  int
	Band   string
	Issues []string
}

// ChecksumReport lists one warning per failed check digit.
type ChecksumReport struct {
	Warnings []string
}

// Record is the fully parsed MRZ record.
type Record struct {
	FirstName      string
	LastName       string
	IDNumber       string
	DateOfBirth    string
	Gender         string
	ExpiryDate     string
	Nationality    string
	DocumentType   DocumentType
	RawLines       RawLines
	Quality        Quality
	ChecksumReport ChecksumReport
}

const unknownDate = "UNKNOWN"
