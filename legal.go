package dimm

import _ "embed"

//go:embed LICENSE
var License string

// LegalText returns the license text in a form suitable for terminal output.
func LegalText() string {
	header := "dimm - A D2RQ Mapping Merger"
	rule := "================================================================================"
	return "\n" + rule + "\n" + header + "\n" + rule + "\n" + License + "\n"
}
