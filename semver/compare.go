package semver

import "strings"

// Compare returns -1, 0 or +1 depending on whether a precedes, equals or follows b.
// Metadata is ignored.
func Compare(a, b Version) int {
	if c := compareUint(a.Major, b.Major); c != 0 {
		return c
	}
	if c := compareUint(a.Minor, b.Minor); c != 0 {
		return c
	}
	if c := compareUint(a.Patch, b.Patch); c != 0 {
		return c
	}
	return comparePreRelease(a.PreRelease, b.PreRelease)
}

// Compare is shorthand for Compare(v, o).
func (v Version) Compare(o Version) int {
	return Compare(v, o)
}

// Less reports whether v has lower precedence than o.
func (v Version) Less(o Version) bool {
	return Compare(v, o) < 0
}

// Equal reports whether v and o have the same precedence.
func (v Version) Equal(o Version) bool {
	return Compare(v, o) == 0
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// a release outranks any pre-release of the same major.minor.patch
func comparePreRelease(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}

	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareIdentifier(as[i], bs[i]); c != 0 {
			return c
		}
	}
	return compareUint(uint64(len(as)), uint64(len(bs)))
}

func compareIdentifier(a, b string) int {
	an, bn := isNumeric(a), isNumeric(b)
	switch {
	case an && bn:
		return compareNumeric(a, b)
	case an:
		return -1
	case bn:
		return 1
	}
	return strings.Compare(a, b)
}

// compareNumeric compares digit strings of any length without converting them.
// Leading zeros are ignored, so "01" equals "1"; Validate rejects such identifiers.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if c := compareUint(uint64(len(a)), uint64(len(b))); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
