package mrz

var checkWeights = [3]int{7, 3, 1}

// charValue maps an MRZ character to its check-digit value: digits are
// themselves, A-Z map to 10-35, '<' (and any other filler) maps to 0.
func charValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 0
	}
}

// calcCheck computes the ICAO 9303 check digit for a field: weights cycle
// 7,3,1 over the character values, summed mod 10.
func calcCheck(field string) int {
	sum := 0
	for i := 0; i < len(field); i++ {
		sum += charValue(field[i]) * checkWeights[i%3]
	}
	return sum % 10
}

// verifyCheck reports whether stated (a single MRZ character, a digit or
// '<' meaning 0 on some documents) matches the computed check digit for
// field, and returns a warning string when it does not.
func verifyCheck(label, field string, stated byte) (bool, string) {
	want := calcCheck(field)
	got := charValue(stated)
	if field == "" {
		return true, ""
	}
	if want == got {
		return true, ""
	}
	return false, label + " checksum mismatch"
}
