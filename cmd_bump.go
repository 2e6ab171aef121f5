package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/shu-go/git-coco/conventional"
	"github.com/shu-go/git-coco/history"
	"github.com/shu-go/git-coco/manifest"
	"github.com/shu-go/git-coco/semver"
)

type bumpCmd struct {
	Path     string `cli:"path,p" default:"." help:"repository or manifest to bump"`
	Manifest string `cli:"manifest" help:"manifest file name (default: rule manifests, apax.yml)"`
	Set      string `cli:"set" help:"use this version instead of the computed one"`
	DryRun   bool   `cli:"dry-run,n" help:"print the new version without writing"`
	Tag      bool   `cli:"tag,t" help:"tag HEAD with the new version"`
}

type rollbackCmd struct {
	Path     string `cli:"path,p" default:"." help:"repository or manifest to roll back"`
	Manifest string `cli:"manifest" help:"manifest file name (default: rule manifests, apax.yml)"`
	DryRun   bool   `cli:"dry-run,n" help:"print the old version without writing"`
}

// bumpPlan is the outcome of applying commits to a version.
type bumpPlan struct {
	From, To semver.Version

	Applied int
	Skipped []history.Entry
}

// planBump applies every conventional commit of entries to base in order.
// Messages that do not parse are skipped.
func planBump(base semver.Version, entries []history.Entry) bumpPlan {
	plan := bumpPlan{From: base, To: base}
	for _, e := range entries {
		c, err := conventional.Parse(e.Message)
		if err != nil {
			plan.Skipped = append(plan.Skipped, e)
			continue
		}
		if !c.IsBreaking() && c.Increment() == semver.None {
			continue
		}
		c.Bump(&plan.To)
		plan.Applied++
	}
	return plan
}

func (c bumpCmd) Run(g globalCmd, args []string) error {
	log := g.logger()

	repos, err := history.Open(dirOf(c.Path), history.WithLogger(log))
	if err != nil {
		return err
	}
	rule, _ := readRuleFile(repos)

	m, err := loadManifest(repos, c.Path, c.Manifest, rule)
	if err != nil && !errors.Is(err, manifest.ErrNotFound) {
		return err
	}

	var base semver.Version
	var since string
	tag, err := repos.LatestVersion(rule.TagPrefix)
	switch {
	case err == nil:
		base, since = tag.Version, tag.Name
		log.Info().Str("tag", tag.Name).Msg("latest version tag")
	case errors.Is(err, history.ErrNoVersionTag):
		if m != nil {
			base = m.Version
		}
		log.Info().Stringer("version", base).Msg("no version tag")
	default:
		return err
	}

	entries, err := repos.Log(since, "")
	if err != nil {
		return err
	}
	plan := planBump(base, entries)
	for _, e := range plan.Skipped {
		log.Warn().Str("commit", e.Short()).Str("subject", e.Subject()).Msg("not a conventional commit, skipped")
	}

	next := plan.To
	if c.Set != "" {
		next, err = parseExplicit(c.Set)
		if err != nil {
			return err
		}
	}

	if next.String() == base.String() {
		fmt.Fprintf(os.Stderr, "no version relevant commits since %s\n", orInitial(since))
		fmt.Println(base)
		return nil
	}

	fmt.Fprintf(os.Stderr, "%s -> %s (%d commits)\n", base, next, plan.Applied)
	fmt.Println(next)
	if c.DryRun {
		return nil
	}

	if m != nil {
		if err := writeManifest(log, m, next); err != nil {
			return err
		}
	}
	if c.Tag {
		if err := repos.CreateTag(rule.TagPrefix + next.String()); err != nil {
			return err
		}
	}
	return nil
}

func (c rollbackCmd) Run(g globalCmd, args []string) error {
	log := g.logger()

	repos, err := history.Open(dirOf(c.Path), history.WithLogger(log))
	if err != nil {
		return err
	}
	rule, _ := readRuleFile(repos)

	m, err := loadManifest(repos, c.Path, c.Manifest, rule)
	if err != nil {
		return err
	}

	head, err := repos.Head()
	if err != nil {
		return err
	}
	commit, err := conventional.Parse(head.Message)
	if err != nil {
		return fmt.Errorf("HEAD %s: %w", head.Short(), err)
	}

	prev := m.Version
	if err := commit.Rollback(&prev); err != nil {
		return fmt.Errorf("roll back %s by %v: %w", m.Version, commit.Increment(), err)
	}
	if prev.String() == m.Version.String() {
		fmt.Fprintf(os.Stderr, "HEAD %s does not change the version\n", head.Short())
		fmt.Println(prev)
		return nil
	}

	fmt.Fprintf(os.Stderr, "%s -> %s (%s)\n", m.Version, prev, head.Subject())
	fmt.Println(prev)
	if c.DryRun {
		return nil
	}
	return writeManifest(log, m, prev)
}

// loadManifest finds the manifest under path, by name or by the rule's names.
// A directory path means the whole worktree.
func loadManifest(repos *history.Repository, path, name string, rule *Rule) (*manifest.Manifest, error) {
	names := rule.Manifests
	if name != "" {
		names = []string{name}
	}

	root := path
	if info, err := os.Stat(path); err == nil && info.IsDir() && repos.Root() != "" {
		root = repos.Root()
	}

	found, err := manifest.Find(root, names...)
	if err != nil {
		return nil, err
	}
	return manifest.Load(found)
}

func writeManifest(log zerolog.Logger, m *manifest.Manifest, v semver.Version) error {
	m.SetVersion(v)
	if err := m.Save(); err != nil {
		return err
	}
	log.Info().Str("manifest", m.Path).Stringer("version", v).Msg("version written")
	return nil
}

// parseExplicit accepts only a complete strict semantic version.
func parseExplicit(text string) (semver.Version, error) {
	v, err := semver.Parse(text)
	if err != nil {
		return semver.Version{}, fmt.Errorf("--set %s: %w", text, err)
	}
	if v.String() != text {
		return semver.Version{}, fmt.Errorf("--set %s: %w", text, semver.ErrInvalidVersion)
	}
	if err := v.Validate(); err != nil {
		return semver.Version{}, fmt.Errorf("--set %s: %w", text, err)
	}
	return v, nil
}

// dirOf returns path itself for directories and its parent for files.
func dirOf(path string) string {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return filepath.Dir(path)
	}
	return path
}

func orInitial(since string) string {
	if since == "" {
		return "the initial commit"
	}
	return since
}
