package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/rs/zerolog"
	"github.com/shu-go/gli"

	"github.com/shu-go/git-coco/conventional"
	"github.com/shu-go/git-coco/history"
)

// exit code of a message lint rejects (sysexits EX_DATAERR)
const exitDataErr = 65

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	return e.msg
}

type globalCmd struct {
	All    bool `cli:"all,a" help:"commit all changed files"`
	DryRun bool `cli:"dry-run,n" default:"false" help:"do not commit, do output to stdout"`

	Verbose bool `cli:"verbose,v" help:"report what is read and decided"`
	Debug   bool `cli:"debug,d" help:"report everything"`
	NoColor bool `cli:"no-color" help:"plain output (also NO_COLOR)"`

	Lint     lintCmd     `cli:"lint" help:"check commit messages"`
	Bump     bumpCmd     `cli:"bump" help:"bump the version by the commits since the last version tag"`
	Rollback rollbackCmd `cli:"rollback" help:"undo the version change of the HEAD commit"`
	Log      logCmd      `cli:"log" help:"list commits with their types and increments"`
	Gen      genCmd      `cli:"generate,gen" help:"generate rule file"`
}

func (c globalCmd) Run() error {
	log := c.logger()

	repos, err := history.Open(".", history.WithLogger(log))
	if err != nil {
		return err
	}

	wt, err := repos.Git().Worktree()
	if err != nil {
		return err
	}

	log.Debug().Str("root", repos.Root()).Msg("repository")

	if !c.DryRun && c.All {
		st, err := wt.Status()
		if err != nil {
			return err
		}
		for f, s := range st {
			switch s.Worktree {
			case git.Modified, git.Added, git.Deleted, git.Renamed, git.Copied, git.UpdatedButUnmerged:
				log.Info().Str("file", f).Msg("staging")
				if _, err := wt.Add(f); err != nil {
					return fmt.Errorf("try git gc: adding %s: %w", f, err)
				}
			}
		}
	}

	st, err := wt.Status()
	if err != nil {
		return err
	}
	staged := false
	for _, s := range st {
		staged = staged || (s.Staging != git.Unmodified && s.Staging != git.Untracked)
	}
	if !staged {
		fmt.Fprintln(os.Stderr, "no changes")

		if !c.DryRun {
			return nil
		}
	}

	rule, ruleFile := readRuleFile(repos)
	log.Info().Str("rule", ruleFile).Msg("rule")

	scopes, scopesFileName := readScopesFile(repos)
	if scopes == nil {
		scopes = make(Scopes)
	}

	cp := composer{
		rule:   rule,
		scopes: scopes,
		log:    log,
	}
	msg := cp.compose()

	result := conventional.Lint(msg)
	if len(result.Diagnostics) > 0 {
		newPrinter(os.Stderr, c.NoColor).lint("", result)
	}
	if !result.Passed(rule.FailLevel) {
		return &exitError{code: exitDataErr, msg: "commit message rejected"}
	}

	if c.DryRun {
		fmt.Println("----------")
		fmt.Println(msg)
		return nil
	}

	if scopesFileName != "" && result.Commit.Scope != "" {
		if err := saveScopes(scopesFileName, scopes, result.Commit.Scope); err != nil {
			log.Warn().Err(err).Msg("write scopes")
		}
	}

	return commit(msg)
}

// commit hands msg to git so that hooks and signing apply.
func commit(msg string) error {
	f, err := os.CreateTemp("", "coco-")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	_, err = f.WriteString(msg)
	f.Close()
	if err != nil {
		return err
	}

	cmd := exec.Command("git", "commit", "-F", f.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (c globalCmd) logger() zerolog.Logger {
	return newLogger(os.Stderr, c.Verbose, c.Debug, c.NoColor)
}

// Version is app version
var Version string

func main() {
	rule, scope := getPathToHelp()
	if rule != "" {
		rule = "\nrule: " + rule + "\n"
	}
	if scope != "" {
		scope = "scope: " + scope + "\n"
	}

	app := gli.NewWith(&globalCmd{})
	app.Name = "git-coco"
	app.Desc = "A conventional commits tool: compose, lint and version"
	app.Version = Version
	app.Usage = `
# prepare
# Put git-coco to PATH.

# compose a commit
git coco

# lint (e.g. in .git/hooks/commit-msg: git coco lint --file "$1")
git coco lint -m "feat(api): add endpoint"
git coco lint --from v1.2.0

# version
git coco bump --tag
git coco rollback

# customize
git coco gen
(edit .coco.yaml)
` + rule + scope + `

# record and complete scope history
(gitconfig: [coco] scopes=.scopes.yaml)`
	app.Copyright = "(C) 2024 Shuhei Kubota"
	app.SuppressErrorOutput = true
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func getPathToHelp() (rule string, scope string) {
	repos, err := history.Open(".")
	if err != nil {
		return "", ""
	}

	_, rule = readRuleFile(repos)
	_, scope = readScopesFile(repos)

	return rule, scope
}

func in(s string, choices ...string) bool {
	for _, c := range choices {
		if strings.EqualFold(s, c) {
			return true
		}
	}
	return false
}
