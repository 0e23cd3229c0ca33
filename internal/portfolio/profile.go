// Package portfolio holds the site's static content: the profile, work
// history, projects, skills, education and contact links. Content is loaded
// once at start and never mutated afterwards.
package portfolio

// Profile is the whole page's content.
type Profile struct {
	Name       string       `yaml:"name"`
	FullName   string       `yaml:"full_name"`
	Initials   string       `yaml:"initials"`
	Headline   string       `yaml:"headline"`
	Focus      string       `yaml:"focus"`
	Status     string       `yaml:"status"`
	Summary    string       `yaml:"summary"`
	Photo      string       `yaml:"photo"`
	Links      Links        `yaml:"links"`
	Experience []Experience `yaml:"experience"`
	Projects   []Project    `yaml:"projects"`
	Skills     []SkillGroup `yaml:"skills"`
	Education  []Education  `yaml:"education"`
	Contacts   []Contact    `yaml:"contacts"`
	Footer     Footer       `yaml:"footer"`
}

// Links are the hero call-to-action targets.
type Links struct {
	LinkedIn string `yaml:"linkedin"`
	GitHub   string `yaml:"github"`
	Email    string `yaml:"email"`
}

type Experience struct {
	Title        string   `yaml:"title"`
	Company      string   `yaml:"company"`
	Duration     string   `yaml:"duration"`
	Location     string   `yaml:"location"`
	Achievements []string `yaml:"achievements"`
	Website      string   `yaml:"website,omitempty"`
}

type Project struct {
	Title       string   `yaml:"title"`
	Subtitle    string   `yaml:"subtitle"`
	Date        string   `yaml:"date"`
	Description string   `yaml:"description"`
	Tech        []string `yaml:"tech"`
	Highlights  []string `yaml:"highlights"`
	Category    string   `yaml:"category"`
	Featured    bool     `yaml:"featured"`
	GitHub      string   `yaml:"github,omitempty"`
	Website     string   `yaml:"website,omitempty"`
}

// SkillGroup is one card in the skills grid. Icon names a glyph in the
// page's icon set.
type SkillGroup struct {
	Category string   `yaml:"category"`
	Icon     string   `yaml:"icon"`
	Items    []string `yaml:"items"`
}

type Education struct {
	Degree      string `yaml:"degree"`
	Institution string `yaml:"institution"`
	Location    string `yaml:"location"`
	Duration    string `yaml:"duration"`
	Summary     string `yaml:"summary"`
}

type Contact struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
	Href  string `yaml:"href"`
	Icon  string `yaml:"icon"`
}

type Footer struct {
	Copyright string `yaml:"copyright"`
	Note      string `yaml:"note"`
}

// FeaturedProjects returns the projects flagged as featured, in order.
func (p Profile) FeaturedProjects() []Project {
	var out []Project
	for _, proj := range p.Projects {
		if proj.Featured {
			out = append(out, proj)
		}
	}
	return out
}
