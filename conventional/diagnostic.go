package conventional

import "fmt"

// Diagnostic is one finding about a commit message.
type Diagnostic struct {
	Severity Severity
	Message  string

	// Description is an optional long-form explanation.
	Description string

	// Location is the byte offset into the normalised message.
	Location int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%v: %s", d.Severity, d.Message)
}

// Excerpt returns the part of src around loc that a diagnostic points at.
func Excerpt(src string, loc int) string {
	if loc < 0 || loc > len(src) {
		return ""
	}

	start := 0
	if loc >= 10 {
		start = loc - 1
	}
	end := len(src)
	if len(src)-loc >= 10 {
		end = loc + 10
	}
	return src[start:end]
}
