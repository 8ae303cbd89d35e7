package mrz

import "strings"

// splitNameField splits an MRZ name field of the form
// "SURNAME<<GIVEN<MIDDLE<..." into its surname and given-names halves. The
// names are returned with filler still present; callers clean them with
// cleanName.
func splitNameField(field string) (surname, given string) {
	parts := strings.SplitN(field, "<<", 2)
	surname = parts[0]
	if len(parts) == 2 {
		given = parts[1]
	}
	return surname, given
}

// parseGender maps the single MRZ sex character to the M/F/X vocabulary,
// treating anything other than M or F (including filler) as X.
func parseGender(s string) string {
	switch s {
	case "M", "F":
		return s
	default:
		return "X"
	}
}
