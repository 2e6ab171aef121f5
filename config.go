package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/shu-go/findcfg"
	"github.com/shu-go/orderedmap"
	"gopkg.in/yaml.v3"

	"github.com/shu-go/git-coco/conventional"
	"github.com/shu-go/git-coco/history"
	"github.com/shu-go/git-coco/manifest"
)

const (
	userConfigFolder = "git-coco"

	defaultRuleFileName   = ".coco"
	defaultScopesFileName = ".scope-history"

	configRule         = "rule"
	configScopeHistory = "scopes"
)

func defaultRule(emoji bool) Rule {
	return Rule{
		Types:             defaultCommitTypes(emoji),
		DenyEmptyType:     false,
		DenyAdlibType:     false,
		UseBreakingChange: false,
		HeaderFormat:      "{{.type}}{{.scope_with_parens}}{{.bang}}: {{with .emoji_unicode}}{{.}} {{end}}{{.description}}",
		HeaderFormatHint:  ".type, .scope, .scope_with_parens, .bang(if BREAKING CHANGE), .emoji, .emoji_unicode, .description",
		FailLevel:         conventional.Error,
		Manifests:         []string{manifest.DefaultName},
		TagPrefix:         "v",
	}
}

func defaultCommitTypes(emoji bool) *orderedmap.OrderedMap[string, CommitType] {
	iif := func(cond bool, t, f string) string {
		if cond {
			return t
		}
		return f
	}

	ct := orderedmap.New[string, CommitType]()
	ct.Set("# comment1", commitTypeAsOM(
		"comment starts with #",
		"",
	))
	ct.Set("# comment2", commitTypeAsOM(
		"feat bumps minor, fix bumps patch, a ! after type or scope bumps major",
		"",
	))

	ct.Set("feat", commitTypeAsOM(
		"A new feature",
		iif(emoji, ":sparkles:", ""),
	))
	ct.Set("fix", commitTypeAsOM(
		"A bug fix",
		iif(emoji, ":bug:", ""),
	))
	ct.Set("docs", commitTypeAsOM(
		"Documentation only changes",
		iif(emoji, ":memo:", ""),
	))
	ct.Set("style", commitTypeAsOM(
		"Changes that do not affect the meaning of the code",
		iif(emoji, ":art:", ""),
	))
	ct.Set("refactor", commitTypeAsOM(
		"A code change that neither fixes a bug nor adds a feature",
		iif(emoji, ":recycle:", ""),
	))
	ct.Set("perf", commitTypeAsOM(
		"A code change that improves performance",
		iif(emoji, ":zap:", ""),
	))
	ct.Set("test", commitTypeAsOM(
		"Adding missing tests or correcting existing tests",
		iif(emoji, ":test_tube:", ""),
	))
	ct.Set("build", commitTypeAsOM(
		"Changes that affect the build system or external dependencies",
		iif(emoji, ":package:", ""),
	))
	ct.Set("ci", commitTypeAsOM(
		"Changes to our CI configuration files and scripts",
		iif(emoji, ":hammer:", ""),
	))
	ct.Set("chore", commitTypeAsOM(
		"Other changes that don't modify src or test files",
		iif(emoji, ":wrench:", ""),
	))
	return ct
}

func commitTypeAsOM(desc string, emoji string) CommitType {
	return CommitType{
		Desc:  desc,
		Emoji: emoji,
	}
}

// readRuleFile falls back to the default rule. The returned path is where the
// rule was found, or where gen would put it.
func readRuleFile(repos *history.Repository) (*Rule, string) {
	var rootDir, exactPath string
	if repos != nil {
		rootDir = repos.Root()
		if cfg, found := repos.Config(configRule); found && rootDir != "" {
			exactPath = filepath.Join(rootDir, cfg)
		}
	}

	if exactPath != "" && in(filepath.Ext(exactPath), ".toml") {
		if r, err := tryReadRuleFile(exactPath); err == nil {
			return r, exactPath
		}
	}

	finder := findcfg.New(
		findcfg.Name(defaultRuleFileName),
		findcfg.ExactPath(exactPath),
		findcfg.YAML(),
		findcfg.JSON(),
		findcfg.Dir(rootDir),
		findcfg.UserConfigDir(userConfigFolder),
		findcfg.ExecutableDir(),
	)
	found := finder.Find()
	if found != nil {
		if r, err := tryReadRuleFile(found.Path); err == nil {
			return r, found.Path
		}
	}

	r := defaultRule(false)
	return &r, finder.FallbackPath()
}

func tryReadRuleFile(filename string) (*Rule, error) {
	content, err := readFile(filename)
	if err != nil {
		return nil, err
	}

	r := defaultRule(false)
	r.Types = orderedmap.New[string, CommitType]()

	if in(filepath.Ext(filename), ".toml") {
		if err := decodeTOMLRule(content, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}
	if in(filepath.Ext(filename), ".yaml", ".yml") {
		if err := yaml.Unmarshal(content, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}
	if in(filepath.Ext(filename), ".json") {
		if err := json.Unmarshal(content, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}
	if err := yaml.Unmarshal(content, &r); err != nil {
		if err := json.Unmarshal(content, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}
	return &r, nil
}

func decodeTOMLRule(content []byte, r *Rule) error {
	var tr tomlRule
	if err := toml.Unmarshal(content, &tr); err != nil {
		return err
	}

	r.HeaderFormat = tr.HeaderFormat
	r.HeaderFormatHint = tr.HeaderFormatHint
	r.DenyEmptyType = tr.DenyEmptyType
	r.DenyAdlibType = tr.DenyAdlibType
	r.UseBreakingChange = tr.UseBreakingChange
	if len(tr.Manifests) > 0 {
		r.Manifests = tr.Manifests
	}
	if tr.TagPrefix != nil {
		r.TagPrefix = *tr.TagPrefix
	}
	if tr.FailLevel != "" {
		level, err := conventional.ParseSeverity(tr.FailLevel)
		if err != nil {
			return err
		}
		r.FailLevel = level
	}

	// TOML tables carry no order
	names := make([]string, 0, len(tr.Types))
	for name := range tr.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.Types.Set(name, tr.Types[name])
	}
	return nil
}

func readScopesFile(repos *history.Repository) (scopes Scopes, fileName string) {
	var rootDir, exactPath string
	if repos != nil {
		rootDir = repos.Root()
		if cfg, found := repos.Config(configScopeHistory); found && rootDir != "" {
			exactPath = filepath.Join(rootDir, cfg)
		}
	}

	finder := findcfg.New(
		findcfg.Name(defaultScopesFileName),
		findcfg.ExactPath(exactPath),
		findcfg.YAML(),
		findcfg.JSON(),
		findcfg.Dir(rootDir),
		findcfg.UserConfigDir(userConfigFolder),
		findcfg.ExecutableDir(),
	)
	found := finder.Find()
	if found != nil {
		if sc, err := tryReadScopesFile(found.Path); err == nil {
			return sc, found.Path
		}
	}

	return nil, finder.FallbackPath()
}

func tryReadScopesFile(filename string) (Scopes, error) {
	content, err := readFile(filename)
	if err != nil {
		return nil, err
	}

	sc := make(Scopes)

	if in(filepath.Ext(filename), ".json") {
		if err = json.Unmarshal(content, &sc); err != nil {
			return nil, err
		}
		return sc, nil
	}
	if err = yaml.Unmarshal(content, &sc); err != nil {
		if err = json.Unmarshal(content, &sc); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

func readFile(filename string) ([]byte, error) {
	s, err := os.Stat(filename)
	if err != nil {
		return nil, err
	}
	if s.IsDir() {
		return nil, fmt.Errorf("%s is a directory", filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}
