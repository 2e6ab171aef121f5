// Package semver implements the version value that conventional commits move
// forward and backward.
package semver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	modsemver "golang.org/x/mod/semver"
)

var (
	// ErrInvalidVersion is returned when a string does not contain major.minor.patch.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrUnderflow is returned when a rollback would take a component below zero.
	ErrUnderflow = errors.New("version component underflow")
)

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)(-[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?(\+[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?`)

// Version is major.minor.patch[-PreRelease][+Metadata].
// An empty PreRelease or Metadata means the field is absent.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64

	PreRelease string
	Metadata   string
}

// Increment is the component a change moves.
type Increment int

const (
	None Increment = iota
	Patch
	Minor
	Major
)

func (i Increment) String() string {
	switch i {
	case Patch:
		return "patch"
	case Minor:
		return "minor"
	case Major:
		return "major"
	default:
		return "none"
	}
}

// Change is anything that can move a version, typically a parsed commit.
type Change interface {
	IsBreaking() bool
	Increment() Increment
}

// Parse finds the first major.minor.patch[-pre][+meta] in text.
// The match does not have to cover the whole string; callers trim beforehand.
func Parse(text string) (Version, error) {
	m := versionPattern.FindStringSubmatch(text)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, text)
	}

	var v Version
	var err error
	if v.Major, err = strconv.ParseUint(m[1], 10, 64); err != nil {
		return Version{}, fmt.Errorf("%w: major %q: %v", ErrInvalidVersion, m[1], err)
	}
	if v.Minor, err = strconv.ParseUint(m[2], 10, 64); err != nil {
		return Version{}, fmt.Errorf("%w: minor %q: %v", ErrInvalidVersion, m[2], err)
	}
	if v.Patch, err = strconv.ParseUint(m[3], 10, 64); err != nil {
		return Version{}, fmt.Errorf("%w: patch %q: %v", ErrInvalidVersion, m[3], err)
	}
	v.PreRelease = strings.TrimPrefix(m[4], "-")
	v.Metadata = strings.TrimPrefix(m[5], "+")

	return v, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(v.Major, 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatUint(v.Minor, 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatUint(v.Patch, 10))
	if v.PreRelease != "" {
		b.WriteByte('-')
		b.WriteString(v.PreRelease)
	}
	if v.Metadata != "" {
		b.WriteByte('+')
		b.WriteString(v.Metadata)
	}
	return b.String()
}

// Validate reports whether v is strictly valid semantic versioning, which Parse
// does not enforce (e.g. numeric pre-release identifiers with leading zeros).
func (v Version) Validate() error {
	if !modsemver.IsValid("v" + v.String()) {
		return fmt.Errorf("%w: %q is not strict semver", ErrInvalidVersion, v.String())
	}
	return nil
}

// Reset sets v to 0.0.0 without pre-release or metadata.
func (v *Version) Reset() {
	v.Major = 0
	v.Minor = 0
	v.Patch = 0
	v.PreRelease = ""
	v.Metadata = ""
}

// Bump moves v forward by c. Changes that do not increment anything leave v
// untouched, including its pre-release and metadata.
func (v *Version) Bump(c Change) {
	if c.IsBreaking() {
		major := v.Major + 1
		v.Reset()
		v.Major = major
		return
	}

	switch c.Increment() {
	case Patch:
		v.Patch++
	case Minor:
		v.Minor++
		v.Patch = 0
	case Major:
		v.Major++
		v.Minor = 0
		v.Patch = 0
	default:
		return
	}

	v.PreRelease = ""
	v.Metadata = ""
}

// Rollback undoes the component Bump would have incremented for c.
// It fails with ErrUnderflow and leaves v unchanged if that component is zero.
func (v *Version) Rollback(c Change) error {
	inc := c.Increment()
	if c.IsBreaking() {
		inc = Major
	}

	switch inc {
	case Patch:
		if v.Patch == 0 {
			return fmt.Errorf("rollback patch of %s: %w", v, ErrUnderflow)
		}
		v.Patch--
	case Minor:
		if v.Minor == 0 {
			return fmt.Errorf("rollback minor of %s: %w", v, ErrUnderflow)
		}
		v.Minor--
	case Major:
		if v.Major == 0 {
			return fmt.Errorf("rollback major of %s: %w", v, ErrUnderflow)
		}
		v.Major--
	}
	return nil
}
