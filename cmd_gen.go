package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type genCmd struct {
	Emoji bool `cli:"emoji,e" help:"give every type an emoji"`
}

func (c genCmd) Run(g globalCmd, args []string) error {
	filename := defaultRuleFileName + ".yaml"
	if len(args) > 0 {
		filename = args[0]
	}

	filename, err := filepath.Abs(filename)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "output: %v\n", filename)

	content, err := marshalRule(defaultRule(c.Emoji), filepath.Ext(filename))
	if err != nil {
		return err
	}
	return os.WriteFile(filename, content, 0o644)
}

// marshalRule encodes rule in the format ext names; YAML unless .json or .toml.
func marshalRule(rule Rule, ext string) ([]byte, error) {
	switch {
	case in(ext, ".json"):
		return json.MarshalIndent(rule, "", "  ")

	case in(ext, ".toml"):
		tr := tomlRule{
			HeaderFormat:      rule.HeaderFormat,
			HeaderFormatHint:  rule.HeaderFormatHint,
			Types:             make(map[string]CommitType),
			DenyEmptyType:     rule.DenyEmptyType,
			DenyAdlibType:     rule.DenyAdlibType,
			UseBreakingChange: rule.UseBreakingChange,
			FailLevel:         rule.FailLevel.String(),
			Manifests:         rule.Manifests,
			TagPrefix:         &rule.TagPrefix,
		}
		for _, k := range rule.Types.Keys() {
			if ct, ok := rule.Types.Get(k); ok {
				tr.Types[k] = ct
			}
		}
		return toml.Marshal(tr)
	}

	return yaml.Marshal(rule)
}
