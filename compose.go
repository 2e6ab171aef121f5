package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	prompt "github.com/elk-language/go-prompt"
	pstrings "github.com/elk-language/go-prompt/strings"
	"github.com/kyokomi/emoji/v2"
	"github.com/rs/zerolog"
	"github.com/shu-go/orderedmap"
	"gopkg.in/yaml.v3"

	"github.com/shu-go/git-coco/conventional"
)

// fields are the answers a commit message is composed from.
type fields struct {
	Type           string
	Scope          string
	Description    string
	Body           string
	BreakingChange string
}

type composer struct {
	rule   *Rule
	scopes Scopes

	log zerolog.Logger
}

func (c composer) compose() string {
	f := fields{
		Type:        c.promptType(),
		Scope:       c.promptScope(),
		Description: c.promptDesc(),
		Body:        c.promptBody(os.Stdin),
	}
	f.BreakingChange = c.promptBreakingChange()

	return composeMessage(c.rule, f)
}

// composeMessage renders the header through rule.HeaderFormat and appends the
// body and BREAKING CHANGE footer.
func composeMessage(rule *Rule, f fields) string {
	var scopeWithParens string
	if f.Scope != "" {
		scopeWithParens = "(" + f.Scope + ")"
	}

	var bang string
	if f.BreakingChange != "" {
		bang = "!"
	}

	var header string
	templ, err := template.New("").Parse(rule.HeaderFormat)
	if err == nil {
		buf := bytes.Buffer{}
		err = templ.Execute(&buf, map[string]string{
			"type":              f.Type,
			"scope":             f.Scope,
			"scope_with_parens": scopeWithParens,
			"bang":              bang,
			"emoji":             emojiOf(rule, f.Type, false),
			"emoji_unicode":     emojiOf(rule, f.Type, true),
			"description":       f.Description,
		})
		header = buf.String()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: %v: %q\n", err, rule.HeaderFormat)
		header = f.Type + scopeWithParens + bang + ": " + f.Description
	}

	msg := header
	if f.Body != "" {
		msg += "\n\n" + f.Body
	}
	if f.BreakingChange != "" {
		if f.Body == "" {
			msg += "\n"
		}
		msg += "\nBREAKING CHANGE: " + f.BreakingChange
	}
	return msg
}

func (c composer) promptType() string {
	var typ string

	items := make([]prompt.Suggest, 0, len(c.rule.Types.Keys()))

	for _, k := range c.rule.Types.Keys() {
		if strings.HasPrefix(k, "#") {
			continue
		}

		ct, ok := c.rule.Types.Get(k)
		if !ok || ct.Desc == "" {
			continue
		}

		desc := emojiOf(c.rule, k, true) + " " + ct.Desc
		if t := conventional.ParseType(k); t != conventional.Other {
			desc += " [" + (conventional.Commit{Type: t}).Increment().String() + "]"
		}
		items = append(items, prompt.Suggest{Text: k, Description: desc})
	}

	for typ == "" {
		typ = prompt.Input(
			prompt.WithPrefix("Type: "),
			prompt.WithCompleter(completer(items)),
			prompt.WithShowCompletionAtStart(),
		)
		typ = strings.TrimSpace(typ)
		if typ == "" && !c.rule.DenyEmptyType {
			// empty type means the first listed one
			if len(items) > 0 {
				typ = items[0].Text
			}
			break
		}
		if typ == "" {
			fmt.Fprintln(os.Stderr, "type is required")
		}
		if typ != "" && c.rule.DenyAdlibType {
			if _, found := c.rule.Types.Get(typ); !found {
				fmt.Fprintln(os.Stderr, "ad-lib type is not allowed")
				typ = ""
			}
		}
	}

	c.log.Debug().Str("type", typ).Msg("prompt")
	return typ
}

func (c composer) promptScope() string {
	type entry struct {
		scope string
		ts    time.Time
	}
	recent := make([]entry, 0, len(c.scopes))
	for s, t := range c.scopes {
		recent = append(recent, entry{scope: s, ts: t})
	}
	sort.Slice(recent, func(i, j int) bool {
		return recent[i].ts.After(recent[j].ts)
	})

	items := make([]prompt.Suggest, 0, len(recent))
	for _, e := range recent {
		items = append(items, prompt.Suggest{Text: e.scope})
	}

	scope := prompt.Input(
		prompt.WithPrefix("Scope: "),
		prompt.WithCompleter(completer(items)),
		prompt.WithShowCompletionAtStart(),
	)
	return strings.TrimSpace(scope)
}

func (c composer) promptDesc() string {
	var desc string
	for desc == "" {
		desc = prompt.Input(prompt.WithPrefix("Description: "), prompt.WithCompleter(completer(nil)))
		desc = strings.TrimSpace(desc)
		if desc == "" {
			fmt.Fprintln(os.Stderr, "description required")
		}
	}
	return desc
}

// promptBody reads lines until two consecutive empty ones.
func (c composer) promptBody(r io.Reader) string {
	fmt.Println("Body: (Enter 2 empty lines to finish)")
	return readBody(r)
}

func readBody(r io.Reader) string {
	var lines []string

	prevEmpty := false
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" && prevEmpty {
			break
		}
		prevEmpty = line == ""
		lines = append(lines, line)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func (c composer) promptBreakingChange() string {
	if !c.rule.UseBreakingChange {
		return ""
	}
	bc := prompt.Input(prompt.WithPrefix("BREAKING CHANGE: "), prompt.WithCompleter(completer(nil)))
	return strings.TrimSpace(bc)
}

func completer(items []prompt.Suggest) prompt.Completer {
	return func(in prompt.Document) ([]prompt.Suggest, pstrings.RuneNumber, pstrings.RuneNumber) {
		endIndex := in.CurrentRuneIndex()
		w := in.GetWordBeforeCursor()
		startIndex := endIndex - pstrings.RuneCountInString(w)

		return prompt.FilterHasPrefix(items, w, true), startIndex, endIndex
	}
}

func emojiOf(rule *Rule, typ string, emojize bool) string {
	if ct, found := rule.Types.Get(typ); found {
		e := ct.Emoji
		if emojize {
			e = strings.TrimSpace(emoji.Emojize(e))
		}
		return e
	}

	return ""
}

// saveScopes records scope as just used and writes the history, most recent first.
func saveScopes(filename string, scopes Scopes, scope string) error {
	scopes[scope] = time.Now()

	names := make([]string, 0, len(scopes))
	for k := range scopes {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		return scopes[names[i]].After(scopes[names[j]])
	})

	out := orderedmap.New[string, time.Time]()
	for _, n := range names {
		out.Set(n, scopes[n])
	}

	var content []byte
	var err error
	if in(filepath.Ext(filename), ".json") {
		content, err = json.MarshalIndent(out, "", "  ")
	} else {
		content, err = yaml.Marshal(out)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(filename, content, 0o644)
}
