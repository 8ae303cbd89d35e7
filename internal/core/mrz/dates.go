package mrz

import (
	"fmt"
	"strconv"
	"time"
)

// pivotExpiry converts a 2-digit MRZ year to a full year assuming the
// document expires in the future: if yy is within 30 years of the current
// 2-digit year (wrapping mod 100), it is 2000-centric, otherwise 1900.
func pivotExpiry(yy int, now time.Time) int {
	currentYY := now.Year() % 100
	if yy <= (currentYY+30)%100 {
		return 2000 + yy
	}
	return 1900 + yy
}

// pivotBirth converts a 2-digit MRZ year to a full year assuming the
// subject was already born: if yy is after the current 2-digit year it must
// be last century, otherwise this century.
func pivotBirth(yy int, now time.Time) int {
	currentYY := now.Year() % 100
	if yy > currentYY {
		return 1900 + yy
	}
	return 2000 + yy
}

// parseDate applies the numeric OCR correction map (cleanNumeric) to an MRZ
// YYMMDD field and parses it into ISO 8601, pivoting the year per kind
// ("birth" or "expiry"). Returns "UNKNOWN" if the field is malformed or the
// month/day are out of range.
func parseDate(field string, kind string, now time.Time) string {
	field = cleanNumeric(field)
	if len(field) != 6 {
		return unknownDate
	}
	yy, err1 := strconv.Atoi(field[0:2])
	mm, err2 := strconv.Atoi(field[2:4])
	dd, err3 := strconv.Atoi(field[4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return unknownDate
	}
	if mm < 1 || mm > 12 || dd < 1 || dd > 31 {
		return unknownDate
	}

	var year int
	if kind == "expiry" {
		year = pivotExpiry(yy, now)
	} else {
		year = pivotBirth(yy, now)
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, mm, dd)
}
