// Package conventional parses and lints commit messages written against the
// Conventional Commits grammar
//
//	type(scope)!: header
//
//	body
//
//	Key: value
//
// and derives the version increment a commit implies.
package conventional

import (
	"github.com/shu-go/git-coco/semver"
)

// Commit is a parsed conventional commit message.
type Commit struct {
	// Breaking is set by "!" before the colon or by the BREAKING CHANGE type.
	Breaking bool

	Type Type

	// RawType is the type token as written, e.g. "Feat" or "wip".
	RawType string

	// Scope is empty when the message carries no parentheses.
	Scope string

	// Header is the one-line description after the colon. Never empty.
	Header string

	// Body is the free text after the header, without footers.
	Body string

	// Footer is nil when no "Key: value" line was found.
	Footer *Footer
}

// IsBreaking implements semver.Change.
func (c Commit) IsBreaking() bool {
	return c.Breaking
}

// Increment implements semver.Change. It ignores Breaking; see semver.Version.Bump.
func (c Commit) Increment() semver.Increment {
	return increment(c.Type)
}

func increment(t Type) semver.Increment {
	switch t {
	case Fix:
		return semver.Patch
	case Feature:
		return semver.Minor
	case BreakingChange:
		return semver.Major
	}
	return semver.None
}

// Bump moves v forward by this commit.
func (c Commit) Bump(v *semver.Version) {
	v.Bump(c)
}

// Rollback undoes what Bump did to v for this commit.
func (c Commit) Rollback(v *semver.Version) error {
	return v.Rollback(c)
}

// Rollback undoes a commit known only by its breaking flag and type.
func Rollback(v *semver.Version, breaking bool, t Type) error {
	return v.Rollback(Commit{Breaking: breaking || t == BreakingChange, Type: t})
}

// FooterValue returns the value of a footer key.
func (c Commit) FooterValue(key string) (string, bool) {
	if c.Footer == nil {
		return "", false
	}
	return c.Footer.Get(key)
}
