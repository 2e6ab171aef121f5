package conventional

import (
	"errors"
	"testing"
)

func severities(ds []Diagnostic) map[Severity]int {
	m := make(map[Severity]int)
	for _, d := range ds {
		m[d.Severity]++
	}
	return m
}

func TestLintEmpty(t *testing.T) {
	r := Lint("")
	if r.Commit != nil {
		t.Fatalf("Commit = %+v, want nil", r.Commit)
	}
	if len(r.Diagnostics) != 1 || r.Diagnostics[0].Severity != Error {
		t.Fatalf("Diagnostics = %v, want exactly one Error", r.Diagnostics)
	}
	if r.Diagnostics[0].Description == "" {
		t.Error("structural failure should describe the expected format")
	}
}

func TestLintNoColon(t *testing.T) {
	for _, msg := range []string{"feat", "Update README", "fix(parser) handle commas\n\nbody: text"} {
		t.Run(msg, func(t *testing.T) {
			r := Lint(msg)
			if r.Commit != nil || len(r.Diagnostics) != 1 || r.Diagnostics[0].Severity != Error {
				t.Errorf("Lint(%q) = %+v, want a single structural Error", msg, r)
			}
		})
	}
}

func TestLintFeature(t *testing.T) {
	r := Lint("feat: allow provided config object to extend other configs")
	if r.Commit == nil {
		t.Fatalf("Commit = nil, diagnostics: %v", r.Diagnostics)
	}

	want := Commit{
		Type:    Feature,
		RawType: "feat",
		Header:  "allow provided config object to extend other configs",
	}
	if *r.Commit != want {
		t.Errorf("Commit = %+v, want %+v", *r.Commit, want)
	}

	got := severities(r.Diagnostics)
	if len(r.Diagnostics) != 2 || got[Suggestion] != 1 || got[Info] != 1 {
		t.Errorf("Diagnostics = %v, want one Suggestion and one Info", r.Diagnostics)
	}
}

func TestLintBreakingScope(t *testing.T) {
	r := Lint("fix(parser)!: handle trailing commas")
	if r.Commit == nil {
		t.Fatalf("Commit = nil, diagnostics: %v", r.Diagnostics)
	}
	c := r.Commit
	if !c.Breaking || c.Type != Fix || c.Scope != "parser" || c.Header != "handle trailing commas" {
		t.Errorf("Commit = %+v", *c)
	}
	got := severities(r.Diagnostics)
	if got[Error] != 0 || got[Warning] != 0 {
		t.Errorf("Diagnostics = %v, want no Error or Warning", r.Diagnostics)
	}
}

func TestLintFieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		msg     string
		message string
	}{
		{"empty scope", "feat(): x", "scope is empty; remove parentheses if no scope is given"},
		{"blank scope", "feat(  ): x", "scope is empty; remove parentheses if no scope is given"},
		{"missing type", ": add a flag", "mandatory commit type is missing"},
		{"missing header", "feat(cli):", "mandatory description is missing"},
		{"blank header", "feat:    ", "mandatory description is missing"},
		{"unclosed scope", "feat(cli: add a flag", "scope is missing its closing parenthesis"},
		{"junk", "feat foo: add a flag", "unexpected text before the colon"},
		{"invalid byte in type", "f\xffx: y", "unexpected text before the colon"},
		{"unclosed multi-byte scope", "fix(パーサ: x", "scope is missing its closing parenthesis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Lint(tt.msg)
			if r.Commit != nil {
				t.Fatalf("Commit = %+v, want nil", *r.Commit)
			}
			if !r.HasErrors() {
				t.Fatalf("no Error in %v", r.Diagnostics)
			}
			found := false
			for _, d := range r.Diagnostics {
				if d.Severity == Error && d.Message == tt.message {
					found = true
				}
			}
			if !found {
				t.Errorf("Diagnostics = %v, want Error %q", r.Diagnostics, tt.message)
			}
		})
	}
}

func TestLintReportsEveryField(t *testing.T) {
	r := Lint("():")
	got := severities(r.Diagnostics)
	if got[Error] != 3 {
		t.Errorf("Diagnostics = %v, want errors for type, scope and description", r.Diagnostics)
	}
}

func TestLintDiagnosticsSorted(t *testing.T) {
	r := Lint("(): x\nbody without separator")
	for i := 1; i < len(r.Diagnostics); i++ {
		if r.Diagnostics[i-1].Severity > r.Diagnostics[i].Severity {
			t.Fatalf("Diagnostics not sorted: %v", r.Diagnostics)
		}
	}
	if r.Diagnostics[0].Severity != Error {
		t.Errorf("first diagnostic = %v, want an Error", r.Diagnostics[0])
	}
}

func TestLintHeaderTrimmed(t *testing.T) {
	for _, msg := range []string{"docs: spell out units", "DOCS:  spell out units ", "docs:spell out units"} {
		r := Lint(msg)
		if r.Commit == nil {
			t.Fatalf("Lint(%q) rejected: %v", msg, r.Diagnostics)
		}
		if r.Commit.Header != "spell out units" {
			t.Errorf("Lint(%q).Header = %q", msg, r.Commit.Header)
		}
		if r.Commit.Type != Docs {
			t.Errorf("Lint(%q).Type = %v, want docs", msg, r.Commit.Type)
		}
	}
}

func TestLintSpacingWarning(t *testing.T) {
	r := Lint("docs:spell out units")
	if got := severities(r.Diagnostics); got[Warning] != 1 {
		t.Errorf("Diagnostics = %v, want one Warning", r.Diagnostics)
	}
}

func TestLintTypes(t *testing.T) {
	tests := []struct {
		msg      string
		typ      Type
		breaking bool
	}{
		{"fix: x", Fix, false},
		{"FEAT: x", Feature, false},
		{"perf: x", Performance, false},
		{"ci: x", CI, false},
		{"wip: x", Other, false},
		{"BREAKING CHANGE: drop v1 api", BreakingChange, true},
		{"breaking-change: drop v1 api", BreakingChange, true},
		{"chore!: drop node 14", Chore, true},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			c, err := Parse(tt.msg)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if c.Type != tt.typ || c.Breaking != tt.breaking {
				t.Errorf("Parse(%q) = type %v breaking %v, want %v %v", tt.msg, c.Type, c.Breaking, tt.typ, tt.breaking)
			}
		})
	}
}

func TestLintBodyAndFooter(t *testing.T) {
	msg := `fix: prevent racing of requests

Introduce a request id and a reference to latest request. Dismiss
incoming responses other than from latest request.

Remove timeouts which were used to mitigate the racing issue but are
obsolete now.

Reviewed-by: Z
Refs: #123`

	r := Lint(msg)
	if r.Commit == nil {
		t.Fatalf("rejected: %v", r.Diagnostics)
	}
	c := r.Commit

	wantBody := `Introduce a request id and a reference to latest request. Dismiss
incoming responses other than from latest request.

Remove timeouts which were used to mitigate the racing issue but are
obsolete now.`
	if c.Body != wantBody {
		t.Errorf("Body = %q, want %q", c.Body, wantBody)
	}
	if v, _ := c.FooterValue("Reviewed-by"); v != "Z" {
		t.Errorf("Reviewed-by = %q", v)
	}
	if v, _ := c.FooterValue("Refs"); v != "#123" {
		t.Errorf("Refs = %q", v)
	}
	if got := severities(r.Diagnostics); got[Info] != 0 {
		t.Errorf("Diagnostics = %v, want no 'no footer found'", r.Diagnostics)
	}
}

func TestLintBodyWithoutFooter(t *testing.T) {
	r := Lint("fix(db): close rows\r\n\r\nRows leaked when the scan failed.\r\n")
	if r.Commit == nil {
		t.Fatalf("rejected: %v", r.Diagnostics)
	}
	if r.Commit.Body != "Rows leaked when the scan failed." {
		t.Errorf("Body = %q", r.Commit.Body)
	}
	if r.Commit.Footer != nil {
		t.Errorf("Footer = %v, want nil", r.Commit.Footer.Keys())
	}
	if got := severities(r.Diagnostics); got[Info] != 1 {
		t.Errorf("Diagnostics = %v, want one Info", r.Diagnostics)
	}
}

func TestLintUnseparatedBody(t *testing.T) {
	r := Lint("fix(db): close rows\nRows leaked.")
	if r.Commit == nil {
		t.Fatalf("rejected: %v", r.Diagnostics)
	}
	if r.Commit.Body != "Rows leaked." {
		t.Errorf("Body = %q", r.Commit.Body)
	}
	if got := severities(r.Diagnostics); got[Warning] != 1 {
		t.Errorf("Diagnostics = %v, want one Warning", r.Diagnostics)
	}
}

func TestParseError(t *testing.T) {
	_, err := Parse("feat(): x")
	if !errors.Is(err, ErrInvalidCommit) {
		t.Fatalf("Parse error = %v, want ErrInvalidCommit", err)
	}
	var lerr *LintError
	if !errors.As(err, &lerr) || len(lerr.Diagnostics) == 0 {
		t.Errorf("Parse error = %#v, want *LintError with diagnostics", err)
	}
}

func TestPassed(t *testing.T) {
	r := Lint("feat: x")
	if !r.Passed(Error) || !r.Passed(Warning) {
		t.Error("feat: x should pass at error and warning level")
	}
	if r.Passed(Suggestion) {
		t.Error("feat: x should fail at suggestion level")
	}
	if Lint("").Passed(Suggestion) {
		t.Error("a rejected message never passes")
	}
}

func TestStripComments(t *testing.T) {
	raw := "feat: x\n# Please enter the commit message\n#\n\nbody"
	if got := Normalize(StripComments(raw)); got != "feat: x\n\nbody" {
		t.Errorf("StripComments = %q", got)
	}
}

func TestExcerpt(t *testing.T) {
	src := "0123456i9876543210 1234567"
	if got := Excerpt(src, 7); got != "0123456i987654321" {
		t.Errorf("Excerpt = %q", got)
	}
	if got := Excerpt(src, 20); got != "1234567" {
		t.Errorf("Excerpt = %q", got)
	}
	if got := Excerpt(src, 99); got != "" {
		t.Errorf("Excerpt = %q", got)
	}
}

func TestLintInvalidUTF8(t *testing.T) {
	tests := []struct {
		msg    string
		scope  string
		header string
	}{
		{"feat: caf\xe9", "", "caf\xe9"},
		{"fix(\xe9): x", "\xe9", "x"},
		{"fix(db): \xff\xfe\n\n\xe9t\xe9", "db", "\xff\xfe"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			r := Lint(tt.msg)
			if r.Commit == nil {
				t.Fatalf("Lint(%q) built no commit: %v", tt.msg, r.Diagnostics)
			}
			if r.Commit.Scope != tt.scope || r.Commit.Header != tt.header {
				t.Errorf("scope %q header %q, want %q and %q", r.Commit.Scope, r.Commit.Header, tt.scope, tt.header)
			}
		})
	}

	r := Lint("\xff")
	if r.Commit != nil || len(r.Diagnostics) != 1 || r.Diagnostics[0].Severity != Error {
		t.Errorf("Lint(\"\\xff\") = %+v, want a single structural Error", r)
	}
}

func TestLintMultiByteScope(t *testing.T) {
	r := Lint("fix(パーサ): 全角コロンを扱う")
	if r.Commit == nil {
		t.Fatalf("no commit: %v", r.Diagnostics)
	}
	if r.Commit.Scope != "パーサ" || r.Commit.Header != "全角コロンを扱う" {
		t.Errorf("Commit = %+v", *r.Commit)
	}
}
