package main

import (
	"time"

	"github.com/shu-go/orderedmap"

	"github.com/shu-go/git-coco/conventional"
)

type CommitType struct {
	Desc  string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Emoji string `json:"emoji,omitempty" yaml:"emoji,omitempty" toml:"emoji,omitempty"`
}

type Rule struct {
	HeaderFormat     string `json:"headerFormat" yaml:"headerFormat"`
	HeaderFormatHint string `json:"headerFormatHint" yaml:"headerFormatHint"`

	Types *orderedmap.OrderedMap[string, CommitType] `json:"types" yaml:"types"` //map[string]CommitType

	DenyEmptyType bool `json:"denyEmptyType" yaml:"denyEmptyType"`
	DenyAdlibType bool `json:"denyAdlibType" yaml:"denyAdlibType"`

	UseBreakingChange bool `json:"useBreakingChange" yaml:"useBreakingChange"`

	// FailLevel is the least urgent severity that makes lint fail.
	FailLevel conventional.Severity `json:"failLevel" yaml:"failLevel"`

	// Manifests are the file names bump and rollback look for.
	Manifests []string `json:"manifests,omitempty" yaml:"manifests,omitempty"`

	TagPrefix string `json:"tagPrefix" yaml:"tagPrefix"`
}

// tomlRule mirrors Rule; go-toml decodes tables into plain maps.
type tomlRule struct {
	HeaderFormat      string                `toml:"headerFormat"`
	HeaderFormatHint  string                `toml:"headerFormatHint"`
	Types             map[string]CommitType `toml:"types"`
	DenyEmptyType     bool                  `toml:"denyEmptyType"`
	DenyAdlibType     bool                  `toml:"denyAdlibType"`
	UseBreakingChange bool                  `toml:"useBreakingChange"`
	FailLevel         string                `toml:"failLevel"`
	Manifests         []string              `toml:"manifests"`
	TagPrefix         *string               `toml:"tagPrefix"`
}

type Scopes map[string]time.Time
