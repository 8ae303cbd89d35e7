package mrz

import (
	"fmt"
	"strings"
	"time"
)

// parseTD3 extracts fields from a 2x44 TD3 (passport) record.
func parseTD3(lines RawLines, now time.Time) (*Record, error) {
	if len(lines) != 2 {
		return nil, fmt.Errorf("td3: expected 2 lines, got %d", len(lines))
	}
	l1, l2 := lines[0], lines[1]
	if len(l1) != 44 || len(l2) != 44 {
		return nil, fmt.Errorf("td3: line length mismatch")
	}

	var warnings []string

	// l1[0:2] ("P<" or similar) is sliced and discarded without assertion;
	// see DESIGN.md "TD3 P< prefix".
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

	personalNumber := l2[28:42]
	personalNumberCheck := l2[42]
	if strings.Trim(personalNumber, "<") != "" {
		if ok, warn := verifyCheck("personal number", personalNumber, personalNumberCheck); !ok {
			warnings = append(warnings, warn)
		}
	}

	composite := idNumber + string(idCheck) + dob + string(dobCheck) + expiry + string(expiryCheck) + personalNumber + string(personalNumberCheck)
	if ok, warn := verifyCheck("composite", composite, l2[43]); !ok {
		warnings = append(warnings, warn)
	}

	surname, given := splitNameField(l1[5:44])

	rec := &Record{
		FirstName:    cleanName(given),
		LastName:     cleanName(surname),
		IDNumber:     cleanID(idNumber),
		DateOfBirth:  parseDate(dob, "birth", now),
		Gender:       parseGender(sex),
		ExpiryDate:   parseDate(expiry, "expiry", now),
		Nationality:  cleanAlpha(nationality),
		DocumentType: TD3,
		RawLines:     lines,
		ChecksumReport: ChecksumReport{
			Warnings: warnings,
		},
	}
	return rec, nil
}
