// Package resume resolves résumé variants to their static assets and owns the
// open/closed state of the résumé chooser.
package resume

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOption is returned when a name does not match any résumé variant.
var ErrUnknownOption = errors.New("unknown resume option")

// Option identifies one of the résumé variants offered by the chooser.
type Option string

const (
	SWE  Option = "swe"
	AIML Option = "aiml"
)

// Asset is a same-origin static file and the name the browser saves it under.
type Asset struct {
	SourcePath   string `json:"source_path"`
	DownloadName string `json:"download_name"`
}

var assets = map[Option]Asset{
	SWE:  {SourcePath: "/sweresume.pdf", DownloadName: "SWE_Resume_Usman_Zafar.pdf"},
	AIML: {SourcePath: "/aimlresume.pdf", DownloadName: "AIML_Resume_Usman_Zafar.pdf"},
}

// Options returns every variant in display order.
func Options() []Option {
	return []Option{SWE, AIML}
}

// ParseOption matches a wire name case-insensitively.
func ParseOption(name string) (Option, error) {
	opt := Option(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := assets[opt]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	return opt, nil
}

// Asset resolves the option to its static file.
func (o Option) Asset() (Asset, error) {
	a, ok := assets[o]
	if !ok {
		return Asset{}, fmt.Errorf("%w: %q", ErrUnknownOption, string(o))
	}
	return a, nil
}

func (o Option) String() string {
	return string(o)
}

// Choice is the card shown for an option inside the chooser.
type Choice struct {
	Option      Option
	Title       string
	Description string
	Icon        string
	Gradient    string
	Hover       string
	Asset       Asset
}

var choices = []Choice{
	{
		Option:      SWE,
		Title:       "Software Engineering Resume",
		Description: "Focused on web development, mobile apps, and software engineering experience",
		Icon:        "file-text",
		Gradient:    "from-blue-500 to-purple-600",
		Hover:       "hover:from-blue-600 hover:to-purple-700",
		Asset:       assets[SWE],
	},
	{
		Option:      AIML,
		Title:       "AI/ML Resume",
		Description: "Highlighting machine learning, data science, and AI research experience",
		Icon:        "cpu",
		Gradient:    "from-emerald-500 to-teal-600",
		Hover:       "hover:from-emerald-600 hover:to-teal-700",
		Asset:       assets[AIML],
	},
}

// Choices returns a copy of the chooser cards in display order.
func Choices() []Choice {
	out := make([]Choice, len(choices))
	copy(out, choices)
	return out
}
