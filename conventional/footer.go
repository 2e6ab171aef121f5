package conventional

import (
	"strings"

	"github.com/shu-go/orderedmap"
)

// Footer holds the trailing "Key: value" lines of a message.
// A repeated key keeps its first position and its last value.
type Footer = orderedmap.OrderedMap[string, string]

// splitTrailer separates the free-text body from the footer block.
// Everything before the first footer line is body; later lines that do not
// start a new footer continue the previous value.
func splitTrailer(trailer string) (body string, footer *Footer) {
	lines := strings.Split(trailer, "\n")

	first := -1
	for i, line := range lines {
		if _, _, ok := footerLine(line); ok {
			first = i
			break
		}
	}
	if first < 0 {
		return strings.TrimSpace(trailer), nil
	}

	body = strings.TrimSpace(strings.Join(lines[:first], "\n"))

	footer = orderedmap.New[string, string]()
	var lastKey string
	for _, line := range lines[first:] {
		if key, value, ok := footerLine(line); ok {
			footer.Set(key, value)
			lastKey = key
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		prev, _ := footer.Get(lastKey)
		footer.Set(lastKey, prev+"\n"+strings.TrimSpace(line))
	}
	return body, footer
}

// footerLine recognises "Key: value" where Key is a word token (letters,
// digits, '-') or BREAKING CHANGE.
func footerLine(line string) (key, value string, ok bool) {
	k, v, found := strings.Cut(line, ": ")
	if !found {
		return "", "", false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", "", false
	}
	if k == "BREAKING CHANGE" {
		return k, v, true
	}
	if k == "" {
		return "", "", false
	}
	for _, r := range k {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-') {
			return "", "", false
		}
	}
	return k, v, true
}
