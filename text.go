package main

// NavItems are the header links, in order. Each links to the section whose id
// is the lowercased label.
var NavItems = []string{"About", "Experience", "Projects", "Skills", "Contact"}

var (
	ExperienceTagline = `Building impactful solutions with cutting-edge technology`

	ProjectsTagline = `Innovative solutions that make a difference`

	SkillsTagline = `Cutting-edge technologies and frameworks`

	ContactTagline = `I'm always interested in new opportunities and collaborations.
	Feel free to reach out if you'd like to work together!`

	ResumeModalTitle    = `Choose Resume Type`
	ResumeModalSubtitle = `Select the resume that best fits your needs`
	ResumeModalFooter   = `Both resumes are optimized for different career paths and opportunities`
)
