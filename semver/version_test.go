package semver

import (
	"errors"
	"testing"

	modsemver "golang.org/x/mod/semver"
)

type change struct {
	breaking bool
	inc      Increment
}

func (c change) IsBreaking() bool     { return c.breaking }
func (c change) Increment() Increment { return c.inc }

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Version
	}{
		{"1.2.3", Version{Major: 1, Minor: 2, Patch: 3}},
		{"1.2.3-alpha", Version{Major: 1, Minor: 2, Patch: 3, PreRelease: "alpha"}},
		{"1.2.3-alpha.1+d408340", Version{Major: 1, Minor: 2, Patch: 3, PreRelease: "alpha.1", Metadata: "d408340"}},
		{"1.2.3+d408340", Version{Major: 1, Minor: 2, Patch: 3, Metadata: "d408340"}},
		{"version: 10.9.756-demo", Version{Major: 10, Minor: 9, Patch: 756, PreRelease: "demo"}},
		{"v0.4.1", Version{Minor: 4, Patch: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "2.3", "a.b.c", "1.2", "99999999999999999999999.0.0"} {
		t.Run(in, func(t *testing.T) {
			if _, err := Parse(in); !errors.Is(err, ErrInvalidVersion) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidVersion", in, err)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		v    Version
		want string
	}{
		{Version{Major: 1, Minor: 2, Patch: 3}, "1.2.3"},
		{Version{Major: 1, Minor: 2, Patch: 3, PreRelease: "alpha"}, "1.2.3-alpha"},
		{Version{Major: 1, Minor: 2, Patch: 3, Metadata: "d408340"}, "1.2.3+d408340"},
		{Version{Major: 1, Minor: 2, Patch: 3, PreRelease: "alpha.1", Metadata: "d408340"}, "1.2.3-alpha.1+d408340"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestReset(t *testing.T) {
	v := MustParse("1.2.3-alpha+d408340")
	v.Reset()
	if v != (Version{}) {
		t.Errorf("Reset() = %v, want 0.0.0", v)
	}
	if v != MustParse("0.0.0") {
		t.Errorf("Reset() = %v, want parsed 0.0.0", v)
	}
}

func TestBump(t *testing.T) {
	tests := []struct {
		name   string
		from   string
		change change
		want   string
	}{
		{"fix", "1.2.3", change{inc: Patch}, "1.2.4"},
		{"feature", "1.2.3", change{inc: Minor}, "1.3.0"},
		{"breaking type", "1.2.3", change{inc: Major}, "2.0.0"},
		{"breaking flag", "1.2.3-rc.1+abc", change{breaking: true, inc: Patch}, "2.0.0"},
		{"clears optional fields", "1.2.3-rc.1+abc", change{inc: Patch}, "1.2.4"},
		{"no-op keeps optional fields", "1.2.3-rc.1+abc", change{inc: None}, "1.2.3-rc.1+abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := MustParse(tt.from)
			v.Bump(tt.change)
			if got := v.String(); got != tt.want {
				t.Errorf("Bump(%s) = %s, want %s", tt.from, got, tt.want)
			}
		})
	}
}

func TestBumpIsMonotonic(t *testing.T) {
	for _, from := range []string{"0.0.0", "1.2.3", "1.2.3-alpha", "4.0.9+meta"} {
		for _, inc := range []Increment{None, Patch, Minor, Major} {
			v := MustParse(from)
			before := v
			v.Bump(change{inc: inc})
			if v.Less(before) {
				t.Errorf("Bump(%s, %s) = %s decreased the version", from, inc, v)
			}
		}
	}
}

func TestRollback(t *testing.T) {
	tests := []struct {
		name   string
		from   string
		change change
		want   string
	}{
		{"fix", "1.2.4", change{inc: Patch}, "1.2.3"},
		{"feature", "1.3.0", change{inc: Minor}, "1.2.0"},
		{"breaking type", "2.0.0", change{inc: Major}, "1.0.0"},
		{"breaking flag", "2.0.0", change{breaking: true, inc: Minor}, "1.0.0"},
		{"no-op", "1.2.3-rc.1", change{inc: None}, "1.2.3-rc.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := MustParse(tt.from)
			if err := v.Rollback(tt.change); err != nil {
				t.Fatalf("Rollback error: %v", err)
			}
			if got := v.String(); got != tt.want {
				t.Errorf("Rollback(%s) = %s, want %s", tt.from, got, tt.want)
			}
		})
	}
}

func TestRollbackUnderflow(t *testing.T) {
	for _, inc := range []Increment{Patch, Minor, Major} {
		t.Run(inc.String(), func(t *testing.T) {
			v := MustParse("0.0.0-beta")
			err := v.Rollback(change{inc: inc})
			if !errors.Is(err, ErrUnderflow) {
				t.Fatalf("Rollback error = %v, want ErrUnderflow", err)
			}
			if v.String() != "0.0.0-beta" {
				t.Errorf("version modified on underflow: %s", v)
			}
		})
	}
}

func TestRollbackIsLeftInverse(t *testing.T) {
	for _, inc := range []Increment{Patch, Minor, Major} {
		v := MustParse("3.4.5")
		v.Bump(change{inc: inc})
		if err := v.Rollback(change{inc: inc}); err != nil {
			t.Fatalf("Rollback error: %v", err)
		}
		switch inc {
		case Patch:
			if v.Patch != 5 {
				t.Errorf("patch = %d, want 5", v.Patch)
			}
		case Minor:
			if v.Minor != 4 {
				t.Errorf("minor = %d, want 4", v.Minor)
			}
		case Major:
			if v.Major != 3 {
				t.Errorf("major = %d, want 3", v.Major)
			}
		}
	}
}

func TestRoundTrip(t *testing.T) {
	changes := []change{{inc: Patch}, {inc: Minor}, {inc: Major}, {breaking: true}, {inc: None}}
	v := MustParse("0.9.9-alpha.1+build.7")
	for _, c := range changes {
		v.Bump(c)
		got, err := Parse(v.String())
		if err != nil {
			t.Fatalf("Parse(%s) error: %v", v, err)
		}
		if got != v {
			t.Errorf("Parse(%s) = %#v, want %#v", v, got, v)
		}
	}
}

func TestCompare(t *testing.T) {
	ordered := []string{
		"1.0.0-alpha",
		"1.0.0-alpha.1",
		"1.0.0-alpha.beta",
		"1.0.0-beta",
		"1.0.0-beta.2",
		"1.0.0-beta.11",
		"1.0.0-rc.1",
		"1.0.0",
		"1.0.1",
		"1.1.0",
		"2.0.0",
	}

	for i := range ordered {
		for j := range ordered {
			a, b := MustParse(ordered[i]), MustParse(ordered[j])
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			if got := Compare(a, b); got != want {
				t.Errorf("Compare(%s, %s) = %d, want %d", a, b, got, want)
			}
			// x/mod/semver implements the same precedence rules
			if got := modsemver.Compare("v"+a.String(), "v"+b.String()); got != want {
				t.Errorf("x/mod/semver disagrees on %s vs %s: %d", a, b, got)
			}
		}
	}
}

func TestCompareIgnoresMetadata(t *testing.T) {
	a := MustParse("1.2.3+aaa")
	b := MustParse("1.2.3+bbb")
	if !a.Equal(b) {
		t.Errorf("%s and %s should have equal precedence", a, b)
	}
}

func TestValidate(t *testing.T) {
	if err := MustParse("1.2.3-rc.1+abc").Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if err := MustParse("1.2.3-rc.01").Validate(); !errors.Is(err, ErrInvalidVersion) {
		t.Errorf("Validate() = %v, want ErrInvalidVersion", err)
	}
}

func TestCompareLeadingZeros(t *testing.T) {
	a, b := MustParse("1.0.0-01"), MustParse("1.0.0-1")
	if Compare(a, b) != 0 {
		t.Errorf("Compare(%s, %s) = %d, want 0", a, b, Compare(a, b))
	}
	if a.Validate() == nil {
		t.Errorf("%s should fail Validate", a)
	}
	if err := b.Validate(); err != nil {
		t.Errorf("%s: %v", b, err)
	}
}
