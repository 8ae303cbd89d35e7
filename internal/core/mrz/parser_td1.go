package mrz

import (
	"fmt"
	"time"
)

// parseTD1 extracts fields from a 3x30 TD1 record. It returns an error only
// when a positional slice cannot be taken at all (line too short); field
// plausibility issues surface as checksum warnings and quality deductions,
// not parse failures.
func parseTD1(lines RawLines, now time.Time) (*Record, error) {
	if len(lines) != 3 {
		return nil, fmt.Errorf("td1: expected 3 lines, got %d", len(lines))
	}
	l1, l2, l3 := lines[0], lines[1], lines[2]
	if len(l1) != 30 || len(l2) != 30 || len(l3) != 30 {
		return nil, fmt.Errorf("td1: line length mismatch")
	}

	var warnings []string

	// Document number: prefer the 9-character field (positions 5-13) whose
	// check digit lives at position 14. If that check fails, fall back to
	// the 10-character slice (5-14), absorbing the check-digit position as
	// data — some issuers encode a longer number that overruns it. See
	// DESIGN.md "TD1 id-number width".
	idNumber9 := l1[5:14]
	idCheck := l1[14]
	idNumber := idNumber9
	if ok, warn := verifyCheck("document number", idNumber9, idCheck); !ok {
		warnings = append(warnings, warn)
		idNumber = l1[5:15]
	}

	dob := l2[0:6]
	dobCheck := l2[6]
	if ok, warn := verifyCheck("date of birth", dob, dobCheck); !ok {
		warnings = append(warnings, warn)
	}

	sex := l2[7:8]

	expiry := l2[8:14]
	expiryCheck := l2[14]
	if ok, warn := verifyCheck("expiry date", expiry, expiryCheck); !ok {
		warnings = append(warnings, warn)
	}

	nationality := l2[15:18]

	// Composite check over document number + check, DOB + check, expiry +
	// check, and the 11 bytes of optional data at [18:29], per ICAO 9303
	// part 5.
	composite := idNumber9 + string(idCheck) + dob + string(dobCheck) + expiry + string(expiryCheck) + l2[18:29]
	if ok, warn := verifyCheck("composite", composite, l2[29]); !ok {
		warnings = append(warnings, warn)
	}

	surname, given := splitNameField(l3)

	rec := &Record{
		FirstName:    cleanName(given),
		LastName:     cleanName(surname),
		IDNumber:     cleanID(idNumber),
		DateOfBirth:  parseDate(dob, "birth", now),
		Gender:       parseGender(sex),
		ExpiryDate:   parseDate(expiry, "expiry", now),
		Nationality:  cleanAlpha(nationality),
		DocumentType: TD1,
		RawLines:     lines,
		ChecksumReport: ChecksumReport{
			Warnings: warnings,
		},
	}
	return rec, nil
}
