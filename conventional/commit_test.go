package conventional

import (
	"errors"
	"testing"

	"github.com/shu-go/git-coco/semver"
)

func mustParse(t *testing.T, msg string) Commit {
	t.Helper()
	c, err := Parse(msg)
	if err != nil {
		t.Fatalf("Parse(%q): %v", msg, err)
	}
	return c
}

func TestCommitBump(t *testing.T) {
	tests := []struct {
		msg  string
		from string
		want string
	}{
		{"fix: x", "1.2.3", "1.2.4"},
		{"feat: x", "1.2.3", "1.3.0"},
		{"feat!: x", "1.2.3-rc.1+d408340", "2.0.0"},
		{"BREAKING CHANGE: x", "1.2.3", "2.0.0"},
		{"docs: x", "1.2.3-rc.1", "1.2.3-rc.1"},
		{"wip: x", "1.2.3", "1.2.3"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			v := semver.MustParse(tt.from)
			mustParse(t, tt.msg).Bump(&v)
			if v.String() != tt.want {
				t.Errorf("%s bumped %s to %s, want %s", tt.msg, tt.from, v, tt.want)
			}
		})
	}
}

func TestCommitRollback(t *testing.T) {
	v := semver.MustParse("1.3.0")
	if err := mustParse(t, "feat: x").Rollback(&v); err != nil {
		t.Fatal(err)
	}
	if v.String() != "1.2.0" {
		t.Errorf("rollback = %s, want 1.2.0", v)
	}

	v = semver.MustParse("1.0.0")
	err := mustParse(t, "fix: x").Rollback(&v)
	if !errors.Is(err, semver.ErrUnderflow) {
		t.Errorf("rollback error = %v, want ErrUnderflow", err)
	}
}

func TestRollbackByType(t *testing.T) {
	tests := []struct {
		breaking bool
		typ      Type
		from     string
		want     string
	}{
		{false, Fix, "1.2.4", "1.2.3"},
		{false, Feature, "1.3.0", "1.2.0"},
		{false, BreakingChange, "2.0.0", "1.0.0"},
		{true, Docs, "2.0.0", "1.0.0"},
		{false, Chore, "2.0.0", "2.0.0"},
	}
	for _, tt := range tests {
		v := semver.MustParse(tt.from)
		if err := Rollback(&v, tt.breaking, tt.typ); err != nil {
			t.Fatalf("Rollback(%s, %v, %v): %v", tt.from, tt.breaking, tt.typ, err)
		}
		if v.String() != tt.want {
			t.Errorf("Rollback(%s, %v, %v) = %s, want %s", tt.from, tt.breaking, tt.typ, v, tt.want)
		}
	}
}

func TestParseTypeDefault(t *testing.T) {
	var zero Type
	if zero != Other {
		t.Errorf("zero Type = %v, want other", zero)
	}
	if ParseType("unknown") != Other {
		t.Error("unknown token should map to other")
	}
	if Feature.String() != "feat" || BreakingChange.String() != "BREAKING CHANGE" {
		t.Error("unexpected type names")
	}
}

func TestSeverity(t *testing.T) {
	if !Error.AtLeast(Warning) || Suggestion.AtLeast(Info) {
		t.Error("severity order is Error > Warning > Info > Suggestion")
	}
	s, err := ParseSeverity("WARNING")
	if err != nil || s != Warning {
		t.Errorf("ParseSeverity = %v, %v", s, err)
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Error("ParseSeverity(fatal) should fail")
	}
}
