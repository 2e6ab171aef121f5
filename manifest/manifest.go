// Package manifest finds a project manifest and rewrites the version it declares.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/shu-go/git-coco/semver"
)

// DefaultName is the manifest looked for when no name is configured.
const DefaultName = "apax.yml"

var (
	ErrNotFound  = errors.New("manifest not found")
	ErrNoVersion = errors.New("manifest declares no version")
)

// directories never searched for manifests
var skipDirs = []string{".apax", ".git", "node_modules"}

type Format int

const (
	YAML Format = iota
	JSON
	TOML
)

func (f Format) String() string {
	return [...]string{"yaml", "json", "toml"}[f]
}

// FormatOf picks the format from the file extension. Unknown extensions are YAML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON
	case ".toml":
		return TOML
	}
	return YAML
}

// Manifest is a loaded manifest file.
type Manifest struct {
	Path    string
	Format  Format
	Version semver.Version

	content []byte

	// byte span of the version literal in content
	start, end int
}

// Find returns the first file under root whose base name is one of names.
// root may also be the manifest itself.
func Find(root string, names ...string) (string, error) {
	if len(names) == 0 {
		names = []string{DefaultName}
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		if in(filepath.Base(root), names...) {
			return root, nil
		}
		return "", fmt.Errorf("%s: %w", root, ErrNotFound)
	}

	var found string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable entries are skipped
			return nil
		}
		if d.IsDir() {
			if path != root && in(d.Name(), skipDirs...) {
				return filepath.SkipDir
			}
			return nil
		}
		if in(d.Name(), names...) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("%s under %s: %w", strings.Join(names, ", "), root, ErrNotFound)
	}
	return found, nil
}

// Load reads path and locates its version field.
func Load(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(path, content)
}

func parse(path string, content []byte) (*Manifest, error) {
	m := &Manifest{Path: path, Format: FormatOf(path), content: content}

	var err error
	switch m.Format {
	case JSON:
		err = m.locateJSON()
	case TOML:
		err = m.locateTOML()
	default:
		err = m.locateYAML()
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m.Version, err = semver.Parse(string(content[m.start:m.end]))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (m *Manifest) locateYAML() error {
	var doc yaml.Node
	if err := yaml.Unmarshal(m.content, &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return ErrNoVersion
	}

	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Value != "version" || value.Kind != yaml.ScalarNode {
			continue
		}
		start := offsetOf(m.content, value.Line, value.Column)
		if value.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
			start++
		}
		m.start, m.end = start, start+len(value.Value)
		if m.end > len(m.content) || string(m.content[m.start:m.end]) != value.Value {
			return fmt.Errorf("version %q is not written literally", value.Value)
		}
		return nil
	}
	return ErrNoVersion
}

var jsonVersionPattern = regexp.MustCompile(`"version"\s*:\s*"([^"]*)"`)

func (m *Manifest) locateJSON() error {
	var doc struct {
		Version *string `json:"version"`
	}
	if err := json.Unmarshal(m.content, &doc); err != nil {
		return err
	}
	if doc.Version == nil {
		return ErrNoVersion
	}
	return m.locateLiteral(jsonVersionPattern, *doc.Version)
}

var tomlVersionPattern = regexp.MustCompile(`(?m)^\s*version\s*=\s*["']([^"']*)["']`)

func (m *Manifest) locateTOML() error {
	var doc map[string]any
	if err := toml.Unmarshal(m.content, &doc); err != nil {
		return err
	}

	version, found := doc["version"].(string)
	for _, table := range []string{"package", "project"} {
		if found {
			break
		}
		if t, ok := doc[table].(map[string]any); ok {
			version, found = t["version"].(string)
		}
	}
	if !found {
		return ErrNoVersion
	}
	return m.locateLiteral(tomlVersionPattern, version)
}

// locateLiteral finds the first match of re whose captured value is version.
// Nested tables or objects may declare their own version; the decoded value
// tells which one is meant.
func (m *Manifest) locateLiteral(re *regexp.Regexp, version string) error {
	for _, loc := range re.FindAllSubmatchIndex(m.content, -1) {
		if string(m.content[loc[2]:loc[3]]) == version {
			m.start, m.end = loc[2], loc[3]
			return nil
		}
	}
	return fmt.Errorf("version %q is not written literally", version)
}

// SetVersion replaces the version literal; the rest of the file is untouched.
func (m *Manifest) SetVersion(v semver.Version) {
	text := []byte(v.String())

	var b bytes.Buffer
	b.Write(m.content[:m.start])
	b.Write(text)
	b.Write(m.content[m.end:])

	m.content = b.Bytes()
	m.end = m.start + len(text)
	m.Version = v
}

// Bytes returns the current file content.
func (m *Manifest) Bytes() []byte {
	return m.content
}

// Save writes the content back to Path.
func (m *Manifest) Save() error {
	info, err := os.Stat(m.Path)
	if err != nil {
		return err
	}
	return os.WriteFile(m.Path, m.content, info.Mode().Perm())
}

// offsetOf converts a 1-based yaml line/column into a byte offset.
// yaml.v3 counts columns in runes.
func offsetOf(content []byte, line, column int) int {
	off := 0
	for l := 1; l < line; l++ {
		i := bytes.IndexByte(content[off:], '\n')
		if i < 0 {
			return len(content)
		}
		off += i + 1
	}
	for c := 1; c < column && off < len(content); c++ {
		_, size := utf8.DecodeRune(content[off:])
		off += size
	}
	return off
}

func in(s string, choices ...string) bool {
	for _, c := range choices {
		if strings.EqualFold(s, c) {
			return true
		}
	}
	return false
}
