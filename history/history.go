// Package history reads commit messages and version tags from a git repository.
package history

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	gitconfig "github.com/go-git/go-git/v5/plumbing/format/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog"

	"github.com/shu-go/git-coco/semver"
)

// ConfigSection is the git config section holding git-coco settings.
const ConfigSection = "coco"

// ErrNoVersionTag is returned when no tag parses as a version.
var ErrNoVersionTag = errors.New("no version tag")

// Entry is one commit of the log.
type Entry struct {
	Hash    string
	Author  string
	Email   string
	When    time.Time
	Message string
}

// Short returns the abbreviated hash.
func (e Entry) Short() string {
	if len(e.Hash) > 7 {
		return e.Hash[:7]
	}
	return e.Hash
}

// Subject returns the first line of the message.
func (e Entry) Subject() string {
	subject, _, _ := strings.Cut(e.Message, "\n")
	return subject
}

// Tag is a tag name with the version it carries.
type Tag struct {
	Name    string
	Hash    string
	Version semver.Version
}

type Repository struct {
	repo *git.Repository
	root string
	log  zerolog.Logger
}

type Option func(*Repository)

// WithLogger makes the repository report what it reads to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Repository) {
		r.log = logger
	}
}

// Open finds the repository path belongs to, searching parent directories.
func Open(path string, opts ...Option) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}

	r := &Repository{repo: repo, log: zerolog.Nop()}
	for _, o := range opts {
		o(r)
	}

	if wt, err := repo.Worktree(); err == nil {
		r.root = wt.Filesystem.Root()
	}
	r.log.Debug().Str("root", r.root).Msg("repository opened")

	return r, nil
}

// Root is the top level directory of the worktree, empty for bare repositories.
func (r *Repository) Root() string {
	return r.root
}

// Git exposes the underlying go-git repository.
func (r *Repository) Git() *git.Repository {
	return r.repo
}

// Config returns the value of key in the [coco] section of the repository config.
func (r *Repository) Config(key string) (string, bool) {
	config, err := r.repo.Config()
	if err != nil {
		return "", false
	}

	var section *gitconfig.Section
	for _, s := range config.Raw.Sections {
		if s.Name == ConfigSection {
			section = s
		}
	}
	if section == nil {
		return "", false
	}

	if v := section.Options.Get(key); v != "" {
		return v, true
	}
	return "", false
}

// Head returns the commit HEAD points to.
func (r *Repository) Head() (Entry, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return Entry{}, fmt.Errorf("resolve HEAD: %w", err)
	}
	c, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return Entry{}, fmt.Errorf("read HEAD commit: %w", err)
	}
	return entryOf(c), nil
}

// Log returns the commits reachable from to but not from from, oldest first.
// An empty to means HEAD; an empty from means the whole history.
func (r *Repository) Log(from, to string) ([]Entry, error) {
	if to == "" {
		to = "HEAD"
	}
	toHash, err := r.repo.ResolveRevision(plumbing.Revision(to))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", to, err)
	}

	exclude := make(map[plumbing.Hash]bool)
	if from != "" {
		fromHash, err := r.repo.ResolveRevision(plumbing.Revision(from))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", from, err)
		}
		iter, err := r.repo.Log(&git.LogOptions{From: *fromHash})
		if err != nil {
			return nil, err
		}
		err = iter.ForEach(func(c *object.Commit) error {
			exclude[c.Hash] = true
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	iter, err := r.repo.Log(&git.LogOptions{From: *toHash})
	if err != nil {
		return nil, err
	}

	var entries []Entry
	err = iter.ForEach(func(c *object.Commit) error {
		if exclude[c.Hash] {
			return nil
		}
		entries = append(entries, entryOf(c))
		return nil
	})
	if err != nil {
		return nil, err
	}

	// newest first from go-git
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	r.log.Debug().Str("from", from).Str("to", to).Int("commits", len(entries)).Msg("log read")

	return entries, nil
}

// Tags lists tag names in lexical order.
func (r *Repository) Tags() ([]string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, err
	}

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// LatestVersion returns the tag with the highest version among tags named
// prefix + version. Tags whose remainder is not exactly a version are skipped.
func (r *Repository) LatestVersion(prefix string) (Tag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return Tag{}, err
	}

	var latest *Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if !strings.HasPrefix(name, prefix) {
			return nil
		}
		rest := strings.TrimPrefix(name, prefix)
		v, err := semver.Parse(rest)
		if err != nil || v.String() != rest {
			r.log.Debug().Str("tag", name).Msg("not a version tag")
			return nil
		}

		hash, err := r.peel(ref)
		if err != nil {
			return err
		}
		if latest == nil || latest.Version.Less(v) {
			latest = &Tag{Name: name, Hash: hash.String(), Version: v}
		}
		return nil
	})
	if err != nil {
		return Tag{}, err
	}
	if latest == nil {
		return Tag{}, ErrNoVersionTag
	}
	return *latest, nil
}

// peel resolves annotated tags to the commit they point at.
func (r *Repository) peel(ref *plumbing.Reference) (plumbing.Hash, error) {
	tag, err := r.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		c, err := tag.Commit()
		if err != nil {
			return plumbing.ZeroHash, err
		}
		return c.Hash, nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return ref.Hash(), nil
	}
	return plumbing.ZeroHash, err
}

// CreateTag puts a lightweight tag on HEAD.
func (r *Repository) CreateTag(name string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("resolve HEAD: %w", err)
	}
	if _, err := r.repo.CreateTag(name, head.Hash(), nil); err != nil {
		return fmt.Errorf("create tag %s: %w", name, err)
	}
	r.log.Info().Str("tag", name).Str("hash", head.Hash().String()).Msg("tag created")
	return nil
}

func entryOf(c *object.Commit) Entry {
	return Entry{
		Hash:    c.Hash.String(),
		Author:  c.Author.Name,
		Email:   c.Author.Email,
		When:    c.Author.When,
		Message: c.Message,
	}
}
