package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shu-go/git-coco/conventional"
	"github.com/shu-go/git-coco/history"
	"github.com/shu-go/git-coco/semver"
)

type logCmd struct {
	Path string `cli:"path,p" default:"." help:"repository to read"`
	From string `cli:"from" help:"list the commits after this revision (default: latest version tag)"`
	To   string `cli:"to" help:"last revision to list (default: HEAD)"`
	All  bool   `cli:"all,a" help:"list the whole history"`
}

func (c logCmd) Run(g globalCmd, args []string) error {
	log := g.logger()

	repos, err := history.Open(c.Path, history.WithLogger(log))
	if err != nil {
		return err
	}
	rule, _ := readRuleFile(repos)

	from := c.From
	if from == "" && !c.All {
		tag, err := repos.LatestVersion(rule.TagPrefix)
		switch {
		case err == nil:
			from = tag.Name
		case !errors.Is(err, history.ErrNoVersionTag):
			return err
		}
	}

	entries, err := readRange(repos, from, c.To)
	if err != nil {
		return err
	}

	total := semver.None
	for _, e := range entries {
		if inc := writeLogLine(os.Stdout, rule, e); inc > total {
			total = inc
		}
	}
	fmt.Fprintf(os.Stderr, "%d commits since %s, %v increment\n", len(entries), orInitial(from), total)
	return nil
}

// readRange reads the commits after from up to to. An unresolvable revision
// is reported together with the tags the range could start from.
func readRange(repos *history.Repository, from, to string) ([]history.Entry, error) {
	entries, err := repos.Log(from, to)
	if err != nil {
		if tags, terr := repos.Tags(); terr == nil && len(tags) > 0 {
			return nil, fmt.Errorf("%w (tags: %s)", err, strings.Join(tags, ", "))
		}
		return nil, err
	}
	return entries, nil
}

// writeLogLine prints one commit and returns the increment it implies.
func writeLogLine(w io.Writer, rule *Rule, e history.Entry) semver.Increment {
	c, err := conventional.Parse(e.Message)
	if err != nil {
		fmt.Fprintf(w, "%s ✘ %s\n", e.Short(), e.Subject())
		return semver.None
	}

	inc := c.Increment()
	if c.IsBreaking() {
		inc = semver.Major
	}

	var b strings.Builder
	b.WriteString(c.RawType)
	if c.Scope != "" {
		b.WriteString("(" + c.Scope + ")")
	}
	if c.IsBreaking() {
		b.WriteString("!")
	}

	mark := emojiOf(rule, strings.ToLower(c.RawType), true)
	if mark == "" {
		mark = "·"
	}
	fmt.Fprintf(w, "%s %s %-20s %-5v %s\n", e.Short(), mark, b.String(), inc, c.Header)
	return inc
}
