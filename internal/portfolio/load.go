package portfolio

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// ErrMissingName is returned for content documents without a name.
var ErrMissingName = errors.New("portfolio content has no name")

//go:embed content.yaml
var defaultContent []byte

// Default returns the embedded content.
func Default() (Profile, error) {
	return Load(bytes.NewReader(defaultContent))
}

// LoadFile reads content from path. An empty path selects the embedded
// document.
func LoadFile(path string) (Profile, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return Profile{}, fmt.Errorf("opening content file: %w", err)
	}
	defer f.Close()

	p, err := Load(f)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Load decodes a YAML content document. Unknown keys are rejected and blank
// list entries are dropped.
func Load(r io.Reader) (Profile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Profile
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return Profile{}, ErrMissingName
		}
		return Profile{}, fmt.Errorf("decoding content: %w", err)
	}

	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Profile{}, ErrMissingName
	}
	if p.FullName == "" {
		p.FullName = p.Name
	}
	if p.Initials == "" {
		p.Initials = initials(p.Name)
	}

	for i := range p.Experience {
		p.Experience[i].Achievements = compact(p.Experience[i].Achievements)
	}
	for i := range p.Projects {
		p.Projects[i].Tech = compact(p.Projects[i].Tech)
		p.Projects[i].Highlights = compact(p.Projects[i].Highlights)
	}
	for i := range p.Skills {
		p.Skills[i].Items = compact(p.Skills[i].Items)
	}
	return p, nil
}

func compact(items []string) []string {
	out := items[:0]
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func initials(name string) string {
	var b strings.Builder
	n := 0
	for _, word := range strings.Fields(name) {
		r := []rune(word)
		b.WriteRune(unicode.ToUpper(r[0]))
		n++
		if n == 2 {
			break
		}
	}
	return b.String()
}
