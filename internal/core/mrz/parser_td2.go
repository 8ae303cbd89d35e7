package mrz

import (
	"fmt"
	"time"
)

// parseTD2 extracts fields from a 2x36 TD2 record. TD2 has no composite
// check digit in the ICAO layout, unlike TD1 and TD3.
func parseTD2(lines RawLines, now time.Time) (*Record, error) {
	if len(lines) != 2 {
		return nil, fmt.Errorf("td2: expected 2 lines, got %d", len(lines))
	}
	l1, l2 := lines[0], lines[1]
	if len(l1) != 36 || len(l2) != 36 {
		return nil, fmt.Errorf("td2: line length mismatch")
	}

	var warnings []string

	idNumber := l2[0:9]
	idCheck := l2[9]
	if ok, warn := verifyCheck("document number", idNumber, idCheck); !ok {
		warnings = append(warnings, warn)
	}

	nationality := l2[10:13]

	dob := l2[13:19]
	dobCheck := l2[19]
	if ok, warn := verifyCheck("date of birth", dob, dobCheck); !ok {
		warnings = append(warnings, warn)
	}

	sex := l2[20:21]

	expiry := l2[21:27]
	expiryCheck := l2[27]
	if ok, warn := verifyCheck("expiry date", expiry, expiryCheck); !ok {
		warnings = append(warnings, warn)
	}

	surname, given := splitNameField(l1[5:36])

	rec := &Record{
		FirstName:    cleanName(given),
		LastName:     cleanName(surname),
		IDNumber:     cleanID(idNumber),
		DateOfBirth:  parseDate(dob, "birth", now),
		Gender:       parseGender(sex),
		ExpiryDate:   parseDate(expiry, "expiry", now),
		Nationality:  cleanAlpha(nationality),
		DocumentType: TD2,
		RawLines:     lines,
		ChecksumReport: ChecksumReport{
			Warnings: warnings,
		},
	}
	return rec, nil
}
