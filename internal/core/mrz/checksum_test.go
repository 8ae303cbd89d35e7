package mrz

import "testing"

func TestCharValue(t *testing.T) {
	cases := []struct {
		c    byte
		want int
	}{
		{'0', 0},
		{'9', 9},
		{'A', 10},
		{'Z', 35},
		{'<', 0},
		{' ', 0},
	}
	for _, tc := range cases {
		if got := charValue(tc.c); got != tc.want {
			t.Errorf("charValue(%q) = %d, want %d", tc.c, got, tc.want)
		}
	}
}

func TestCalcCheck(t *testing.T) {
	// The ICAO 9303 part 4 worked example (ERIKSSON<<ANNA<MARIA): passport
	// number field "L898902C3" checks to 6.
	if got := calcCheck("L898902C3"); got != 6 {
		t.Errorf("calcCheck(L898902C3) = %d, want 6", got)
	}
	// Same example's date of birth field checks to 2.
	if got := calcCheck("740812"); got != 2 {
		t.Errorf("calcCheck(740812) = %d, want 2", got)
	}
	// Same example's expiry date field checks to 9.
	if got := calcCheck("120415"); got != 9 {
		t.Errorf("calcCheck(120415) = %d, want 9", got)
	}
}

func TestVerifyCheck(t *testing.T) {
	ok, warn := verifyCheck("document number", "L898902C3", '6')
	if !ok || warn != "" {
		t.Errorf("verifyCheck valid field: ok=%v warn=%q", ok, warn)
	}

	ok, warn = verifyCheck("document number", "L898902C3", '7')
	if ok || warn == "" {
		t.Errorf("verifyCheck mismatched field: ok=%v warn=%q", ok, warn)
	}

	// An empty field (an unset optional field) is never a mismatch.
	ok, warn = verifyCheck("personal number", "", '0')
	if !ok || warn != "" {
		t.Errorf("verifyCheck empty field: ok=%v warn=%q", ok, warn)
	}
}
