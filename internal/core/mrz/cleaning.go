package mrz

import "strings"

// CleanMRZText implements cleanMRZText: split the raw OCR text on CR/LF,
// uppercase and strip non-MRZ characters per line, keep lines that look like
// MRZ lines, and either join the 2-3 best lines or collapse everything into
// one block for width-based recovery.
func CleanMRZText(raw string) string {
	lines := strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == '\r' })

	var candidates []string
	for _, line := range lines {
		cleaned := stripNonMRZ(strings.ToUpper(line))
		if looksLikeMRZLine(cleaned) {
			candidates = append(candidates, cleaned)
		}
	}

	if len(candidates) >= 2 {
		return strings.Join(selectBestLines(candidates), "\n")
	}

	// Collapse everything into one filtered, uppercased block.
	return stripNonMRZ(strings.ToUpper(strings.Join(lines, "")))
}

func stripNonMRZ(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '<' {
			out = append(out, c)
		}
	}
	return string(out)
}

func looksLikeMRZLine(s string) bool {
	if len(s) >= 25 {
		return true
	}
	fillers := strings.Count(s, "<")
	return fillers >= 2 && len(s) >= 10
}

// selectBestLines keeps the 2 or 3 longest candidate lines (a third only if
// it is itself >=25 chars), preserving original relative order.
func selectBestLines(candidates []string) []string {
	type idxLine struct {
		idx  int
		line string
	}
	ranked := make([]idxLine, len(candidates))
	for i, c := range candidates {
		ranked[i] = idxLine{idx: i, line: c}
	}
	// Stable sort by length descending.
	for i := 1; i < len(ranked); i++ {
		j := i
		for j > 0 && len(ranked[j-1].line) < len(ranked[j].line) {
			ranked[j-1], ranked[j] = ranked[j], ranked[j-1]
			j--
		}
	}

	n := 2
	if len(ranked) >= 3 && len(ranked[2].line) >= 25 {
		n = 3
	}
	if n > len(ranked) {
		n = len(ranked)
	}

	chosen := ranked[:n]
	// Restore original order.
	for i := 1; i < len(chosen); i++ {
		j := i
		for j > 0 && chosen[j-1].idx > chosen[j].idx {
			chosen[j-1], chosen[j] = chosen[j], chosen[j-1]
			j--
		}
	}

	out := make([]string, n)
	for i, c := range chosen {
		out[i] = c.line
	}
	return out
}

// PadLine right-pads s with '<' to length.
func PadLine(s string, length int) string {
	if len(s) >= length {
		return s[:length]
	}
	return s + strings.Repeat("<", length-len(s))
}

// RecoverLines performs the fixed-width line-recovery fallback when no
// natural newlines survived cleaning: it tries, in order, TD1 (3x30), TD3
// (2x44), TD2 (2x36), splitting the block and padding short remainders.
func RecoverLines(block string) map[DocumentType]RawLines {
	out := make(map[DocumentType]RawLines)
	for _, dt := range []DocumentType{TD1, TD3, TD2} {
		out[dt] = splitFixedWidth(block, dt)
	}
	return out
}

func splitFixedWidth(block string, dt DocumentType) RawLines {
	width := dt.lineLength()
	count := dt.lineCount()
	lines := make(RawLines, count)
	for i := 0; i < count; i++ {
		start := i * width
		if start >= len(block) {
			lines[i] = PadLine("", width)
			continue
		}
		end := start + width
		if end > len(block) {
			end = len(block)
		}
		lines[i] = PadLine(block[start:end], width)
	}
	return lines
}

// cleanNumeric applies the numeric-field OCR correction map: O->0, I/L->1,
// then strips anything left that isn't a digit.
func cleanNumeric(s string) string {
	repl := strings.NewReplacer("O", "0", "I", "1", "L", "1")
	s = repl.Replace(s)
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// cleanAlpha applies the alphabetic-field OCR correction map: 0->O, 1->I,
// then strips anything left that is neither a letter nor a '<' filler.
// Fillers are kept as-is; cleanName is what trims them and turns them into
// spaces.
func cleanAlpha(s string) string {
	repl := strings.NewReplacer("0", "O", "1", "I")
	s = repl.Replace(s)
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || c == '<' {
			out = append(out, c)
		}
	}
	return string(out)
}

// cleanID strips MRZ filler from an alphanumeric document-number field. It
// does not apply the numeric O/I correction map: document numbers are
// mixed alphanumeric, so letters are kept as-is.
func cleanID(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			out = append(out, c)
		}
	}
	return string(out)
}

// cleanName applies the alphabetic OCR correction map via cleanAlpha, then
// trims trailing filler/space and converts internal '<' runs to single
// spaces, mirroring cleanMRZName.
func cleanName(s string) string {
	s = cleanAlpha(s)
	s = strings.TrimRight(s, "< ")
	s = strings.ReplaceAll(s, "<<", " ")
	s = strings.ReplaceAll(s, "<", " ")
	return strings.TrimSpace(s)
}
