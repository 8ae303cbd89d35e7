package mrz

import "testing"

func TestStripNonMRZ(t *testing.T) {
	got := stripNonMRZ("L898902C<3 6/UTO 740812-2")
	want := "L898902C<36UTO7408122"
	if got != want {
		t.Errorf("stripNonMRZ = %q, want %q", got, want)
	}
}

func TestLooksLikeMRZLine(t *testing.T) {
	cases := []struct {
		s    string
		want bool
	}{
		{"P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<", true}, // >=25 chars
		{"A<<B", false},                                       // short, only 2 fillers but <10 chars
		{"ABCDEFGHIJ<<", true},                                // >=10 chars, 2 fillers
		{"HELLO", false},                                      // short, no fillers
	}
	for _, tc := range cases {
		if got := looksLikeMRZLine(tc.s); got != tc.want {
			t.Errorf("looksLikeMRZLine(%q) = %v, want %v", tc.s, got, tc.want)
		}
	}
}

func TestSelectBestLinesPrefersLongestInOrder(t *testing.T) {
	candidates := []string{
		"SHORT<<LINE",
		"L898902C36UTO7408122F1204159ZE184226B<<<<<10",
		"P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<",
	}
	got := selectBestLines(candidates)
	want := []string{candidates[1], candidates[2]}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("selectBestLines = %v, want %v", got, want)
	}
}

func TestSelectBestLinesTakesThirdWhenLongEnough(t *testing.T) {
	a := "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<" // 43 chars
	b := "L898902C36UTO7408122F1204159ZE184226B<<<<<10"
	c := "ANOTHERLINE<<<<<<<<<<<<<<<<<<<<<<<<<<" // 38 chars, still >=25
	got := selectBestLines([]string{a, b, c})
	if len(got) != 3 {
		t.Fatalf("selectBestLines len = %d, want 3", len(got))
	}
	if got[0] != a || got[1] != b || got[2] != c {
		t.Errorf("selectBestLines did not preserve original order: %v", got)
	}
}

func TestCleanMRZTextJoinsTwoBestLines(t *testing.T) {
	raw := "garbage\nP<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<\nL898902C36UTO7408122F1204159ZE184226B<<<<<10\n"
	got := CleanMRZText(raw)
	want := "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<\nL898902C36UTO7408122F1204159ZE184226B<<<<<10"
	if got != want {
		t.Errorf("CleanMRZText = %q, want %q", got, want)
	}
}

func TestCleanMRZTextCollapsesWhenNoGoodLines(t *testing.T) {
	raw := "ab\ncd"
	got := CleanMRZText(raw)
	if got != "ABCD" {
		t.Errorf("CleanMRZText = %q, want ABCD", got)
	}
}

func TestPadLine(t *testing.T) {
	if got := PadLine("ABC", 6); got != "ABC<<<" {
		t.Errorf("PadLine short = %q, want ABC<<<", got)
	}
	if got := PadLine("ABCDEFG", 5); got != "ABCDE" {
		t.Errorf("PadLine long = %q, want ABCDE (truncated)", got)
	}
	if got := PadLine("ABCDE", 5); got != "ABCDE" {
		t.Errorf("PadLine exact = %q, want ABCDE", got)
	}
}

func TestSplitFixedWidthPadsShortRemainder(t *testing.T) {
	block := "L898902C36UTO7408122F1204159ZE184226B<<<<<10" // 44 chars
	lines := splitFixedWidth(block, TD3)
	if len(lines) != 2 {
		t.Fatalf("TD3 split len = %d, want 2", len(lines))
	}
	if len(lines[0]) != 44 || len(lines[1]) != 44 {
		t.Errorf("TD3 split lines not padded to 44: %d, %d", len(lines[0]), len(lines[1]))
	}
}

func TestRecoverLinesProducesAllThreeFormats(t *testing.T) {
	block := "L898902C36UTO7408122F1204159ZE184226B<<<<<10"
	sets := RecoverLines(block)
	for _, dt := range []DocumentType{TD1, TD2, TD3} {
		lines, ok := sets[dt]
		if !ok {
			t.Errorf("RecoverLines missing %s", dt)
			continue
		}
		if len(lines) != dt.lineCount() {
			t.Errorf("RecoverLines(%s) line count = %d, want %d", dt, len(lines), dt.lineCount())
		}
	}
}

func TestCleanNumeric(t *testing.T) {
	if got := cleanNumeric("O1I2L3"); got != "011213" {
		t.Errorf("cleanNumeric(O1I2L3) = %q, want 011213", got)
	}
	if got := cleanNumeric("1A2B3"); got != "123" {
		t.Errorf("cleanNumeric(1A2B3) = %q, want 123", got)
	}
}

func TestCleanAlpha(t *testing.T) {
	if got := cleanAlpha("0SL0"); got != "OSLO" {
		t.Errorf("cleanAlpha(0SL0) = %q, want OSLO", got)
	}
	if got := cleanAlpha("AB1<CD"); got != "ABI<CD" {
		t.Errorf("cleanAlpha(AB1<CD) = %q, want ABI<CD", got)
	}
}

func TestCleanID(t *testing.T) {
	if got := cleanID("L898902C3<<<<"); got != "L898902C3" {
		t.Errorf("cleanID = %q, want L898902C3", got)
	}
}

func TestCleanNameJoinsSurnameGiven(t *testing.T) {
	if got := cleanName("ERIKSSON<<ANNA<MARIA<<<<<<"); got != "ERIKSSON ANNA MARIA" {
		t.Errorf("cleanName = %q, want 'ERIKSSON ANNA MARIA'", got)
	}
	if got := cleanName("SMITH<<<<<<<<<<<<<<<<<"); got != "SMITH" {
		t.Errorf("cleanName trailing filler = %q, want SMITH", got)
	}
}
