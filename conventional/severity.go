package conventional

import (
	"fmt"
	"strings"
)

// Severity grades a diagnostic. Lower values are more urgent; only Error blocks
// a commit from being built.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
	Suggestion
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "Error"
	case Warning:
		return "Warning"
	case Info:
		return "Info"
	case Suggestion:
		return "Suggestion"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// AtLeast reports whether s is as urgent as threshold or more.
func (s Severity) AtLeast(threshold Severity) bool {
	return s <= threshold
}

// ParseSeverity accepts the names printed by String in any case.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
		return Error, nil
	case "warning", "warn":
		return Warning, nil
	case "info":
		return Info, nil
	case "suggestion":
		return Suggestion, nil
	}
	return Error, fmt.Errorf("unknown severity %q (error, warning, info, suggestion)", name)
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
