package conventional

import "strings"

// Type is the tag in front of a conventional commit header.
// The zero value is Other.
type Type int

const (
	Other Type = iota
	Fix
	Feature
	BreakingChange
	Build
	Chore
	CI
	Docs
	Style
	Refactor
	Performance
	Test
)

var typeNames = map[Type]string{
	Other:          "other",
	Fix:            "fix",
	Feature:        "feat",
	BreakingChange: "BREAKING CHANGE",
	Build:          "build",
	Chore:          "chore",
	CI:             "ci",
	Docs:           "docs",
	Style:          "style",
	Refactor:       "refactor",
	Performance:    "perf",
	Test:           "test",
}

var typesByToken = map[string]Type{
	"fix":             Fix,
	"feat":            Feature,
	"breaking change": BreakingChange,
	"breaking-change": BreakingChange,
	"build":           Build,
	"chore":           Chore,
	"ci":              CI,
	"docs":            Docs,
	"style":           Style,
	"refactor":        Refactor,
	"perf":            Performance,
	"test":            Test,
}

// ParseType maps a type token to a Type, ignoring case.
// Unknown tokens are Other.
func ParseType(token string) Type {
	if t, found := typesByToken[strings.ToLower(strings.TrimSpace(token))]; found {
		return t
	}
	return Other
}

func (t Type) String() string {
	if s, found := typeNames[t]; found {
		return s
	}
	return typeNames[Other]
}
