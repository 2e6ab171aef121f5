package conventional

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidCommit is wrapped by the *LintError that Parse returns.
var ErrInvalidCommit = errors.New("invalid conventional commit")

const formatHelp = `Format: type(scope)!: description

[optional body]

[optional footer(s)]`

// LintResult is the outcome of linting one message.
type LintResult struct {
	// Commit is nil unless the message is free of Error diagnostics.
	Commit *Commit

	// Diagnostics are ordered by severity, most urgent first.
	Diagnostics []Diagnostic

	// Source is the normalised message the diagnostic locations refer to.
	Source string
}

// HasErrors reports whether any diagnostic is an Error.
func (r LintResult) HasErrors() bool {
	return len(r.Diagnostics) > 0 && r.Diagnostics[0].Severity == Error
}

// Worst returns the most urgent severity, or false when there are no diagnostics.
func (r LintResult) Worst() (Severity, bool) {
	if len(r.Diagnostics) == 0 {
		return Suggestion, false
	}
	return r.Diagnostics[0].Severity, true
}

// Passed reports whether a commit was built and no diagnostic is at threshold or above.
func (r LintResult) Passed(threshold Severity) bool {
	if r.Commit == nil {
		return false
	}
	worst, found := r.Worst()
	return !found || !worst.AtLeast(threshold)
}

// LintError carries the diagnostics of a message that could not be parsed.
type LintError struct {
	Diagnostics []Diagnostic
}

func (e *LintError) Error() string {
	for _, d := range e.Diagnostics {
		if d.Severity == Error {
			return fmt.Sprintf("%v: %s", ErrInvalidCommit, d.Message)
		}
	}
	return ErrInvalidCommit.Error()
}

func (e *LintError) Unwrap() error {
	return ErrInvalidCommit
}

// Parse returns the commit in raw, or a *LintError when Lint rejects it.
func Parse(raw string) (Commit, error) {
	r := Lint(raw)
	if r.Commit == nil {
		return Commit{}, &LintError{Diagnostics: r.Diagnostics}
	}
	return *r.Commit, nil
}

// Lint checks raw against the conventional commit grammar. Every field is
// checked even after an earlier one failed, so all findings are reported at once.
func Lint(raw string) LintResult {
	msg := Normalize(raw)
	l := linter{source: msg}
	for _, t := range lex(msg) {
		l.tokens[t.kind] = &t
	}

	if l.tokens[tokenColon] == nil {
		l.report(Error, 0, "commit message does not follow the conventional commit format", formatHelp)
		return LintResult{Diagnostics: l.diagnostics, Source: msg}
	}

	typ, typeOK := l.checkType()
	scope := l.checkScope()
	header, headerOK := l.checkHeader()
	body, footer := l.checkTrailer()

	sort.SliceStable(l.diagnostics, func(i, j int) bool {
		return l.diagnostics[i].Severity < l.diagnostics[j].Severity
	})
	result := LintResult{Diagnostics: l.diagnostics, Source: msg}
	if result.HasErrors() || !typeOK || !headerOK {
		return result
	}

	t := ParseType(typ)
	result.Commit = &Commit{
		Breaking: l.tokens[tokenBang] != nil || t == BreakingChange,
		Type:     t,
		RawType:  typ,
		Scope:    scope,
		Header:   header,
		Body:     body,
		Footer:   footer,
	}
	return result
}

// Normalize turns CRLF into LF, strips trailing blanks from every line and
// trims the message.
func Normalize(raw string) string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t\r")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// StripComments drops the "#" lines git puts into a commit message template.
func StripComments(raw string) string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

type linter struct {
	source      string
	tokens      [tokenTrailer + 1]*token
	diagnostics []Diagnostic
}

func (l *linter) report(s Severity, loc int, msg, desc string) {
	l.diagnostics = append(l.diagnostics, Diagnostic{
		Severity:    s,
		Message:     msg,
		Description: desc,
		Location:    loc,
	})
}

func (l *linter) checkType() (string, bool) {
	ok := true
	if junk := l.tokens[tokenJunk]; junk != nil {
		l.report(Error, junk.pos, "unexpected text before the colon",
			fmt.Sprintf("%q fits neither the type, the scope nor the breaking change marker", junk.text))
		ok = false
	}

	typ := l.tokens[tokenType]
	if typ == nil {
		l.report(Error, 0, "mandatory commit type is missing",
			"Start the message with a type such as feat or fix, e.g. \"feat: add a flag\"")
		return "", false
	}
	return typ.text, ok
}

func (l *linter) checkScope() string {
	open := l.tokens[tokenScopeOpen]
	if open == nil {
		loc := 0
		if typ := l.tokens[tokenType]; typ != nil {
			loc = typ.pos + len(typ.text)
		}
		l.report(Suggestion, loc, "consider adding a scope",
			"A scope names the part of the code base that changed, e.g. \"fix(parser): ...\"")
		return ""
	}

	scope := l.tokens[tokenScope]
	if l.tokens[tokenScopeClose] == nil {
		l.report(Error, scope.pos, "scope is missing its closing parenthesis", "")
		return ""
	}
	text := strings.TrimSpace(scope.text)
	if text == "" {
		l.report(Error, scope.pos, "scope is empty; remove parentheses if no scope is given", "")
	}
	return text
}

func (l *linter) checkHeader() (string, bool) {
	h := l.tokens[tokenHeader]
	header := strings.TrimSpace(h.text)
	if header == "" {
		l.report(Error, h.pos, "mandatory description is missing",
			"Describe the change after the colon, e.g. \"fix: handle trailing commas\"")
		return "", false
	}
	if !strings.HasPrefix(h.text, " ") || strings.HasPrefix(h.text, "  ") {
		l.report(Warning, h.pos, "description should be separated from the colon by a single space", "")
	}
	return header, true
}

func (l *linter) checkTrailer() (string, *Footer) {
	trailer := l.tokens[tokenTrailer]
	if trailer == nil {
		l.report(Info, len(l.source), "no footer found", "")
		return "", nil
	}
	if l.tokens[tokenBlank] == nil {
		l.report(Warning, trailer.pos, "body must be separated from the description by a blank line", "")
	}

	body, footer := splitTrailer(trailer.text)
	if footer == nil {
		l.report(Info, len(l.source), "no footer found", "")
	}
	return body, footer
}
