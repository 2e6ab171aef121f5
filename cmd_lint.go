package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shu-go/git-coco/conventional"
	"github.com/shu-go/git-coco/history"
)

type lintCmd struct {
	Message string `cli:"commit-message,message,m" help:"the message to lint"`
	File    string `cli:"file,f" help:"read the message from a file (- for stdin), as commit-msg hooks get it"`
	Path    string `cli:"path,p" default:"." help:"repository to read messages from"`
	From    string `cli:"from" help:"lint the commits after this revision"`
	To      string `cli:"to" help:"last revision to lint (default: HEAD)"`
	Level   string `cli:"level,l" help:"least severity that fails: error, warning, info, suggestion (default: rule failLevel)"`
}

// subject is a message together with where it came from.
type subject struct {
	label   string
	message string
}

func (c lintCmd) Run(g globalCmd, args []string) error {
	log := g.logger()

	var repos *history.Repository
	if r, err := history.Open(c.Path, history.WithLogger(log)); err == nil {
		repos = r
	} else {
		log.Debug().Err(err).Msg("no repository")
	}

	rule, ruleFile := readRuleFile(repos)
	log.Info().Str("rule", ruleFile).Msg("rule")

	threshold := rule.FailLevel
	if c.Level != "" {
		level, err := conventional.ParseSeverity(c.Level)
		if err != nil {
			return err
		}
		threshold = level
	}

	subjects, err := c.subjects(repos, args)
	if err != nil {
		return err
	}

	p := newPrinter(os.Stdout, g.NoColor)
	failed := 0
	for _, s := range subjects {
		result := conventional.Lint(s.message)
		log.Debug().Str("subject", s.label).Int("diagnostics", len(result.Diagnostics)).Msg("linted")

		if !result.Passed(threshold) {
			failed++
		}
		if len(result.Diagnostics) > 0 {
			p.lint(s.label, result)
		}
	}

	if failed > 0 {
		p.failed(fmt.Sprintf("%d of %d commit messages failed at level %v", failed, len(subjects), threshold))
		return &exitError{code: exitDataErr, msg: "lint failed"}
	}
	p.passed(fmt.Sprintf("%d commit message(s) flawless at level %v", len(subjects), threshold))
	return nil
}

// subjects picks the messages to lint: the flag, a file, arguments, a range
// of commits or HEAD, in that order.
func (c lintCmd) subjects(repos *history.Repository, args []string) ([]subject, error) {
	if c.Message != "" {
		return []subject{{label: "message", message: c.Message}}, nil
	}

	if c.File != "" {
		var content []byte
		var err error
		if c.File == "-" {
			content, err = io.ReadAll(os.Stdin)
		} else {
			content, err = os.ReadFile(c.File)
		}
		if err != nil {
			return nil, err
		}
		return []subject{{label: c.File, message: conventional.StripComments(string(content))}}, nil
	}

	if len(args) > 0 {
		return []subject{{label: "message", message: strings.Join(args, " ")}}, nil
	}

	if repos == nil {
		return nil, fmt.Errorf("%s is not in a git repository; give a message with -m or --file", c.Path)
	}

	if c.From == "" && c.To == "" {
		head, err := repos.Head()
		if err != nil {
			return nil, err
		}
		return []subject{{label: head.Short() + " " + head.Subject(), message: head.Message}}, nil
	}

	entries, err := readRange(repos, c.From, c.To)
	if err != nil {
		return nil, err
	}
	subjects := make([]subject, 0, len(entries))
	for _, e := range entries {
		subjects = append(subjects, subject{label: e.Short() + " " + e.Subject(), message: e.Message})
	}
	return subjects, nil
}
