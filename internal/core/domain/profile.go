package domain

// Profile is the grounding context: static biographical text loaded once at
// process start and embedded verbatim into both the generation and evaluation
// system instructions for the lifetime of the process.
type Profile struct {
	Name      string
	Summary   string // structured profile summary
	Narrative string // free-text profile narrative (LinkedIn export)

	// AllowedTechnologies is the enumerated allow-list: any claim of experience
	// with a technology outside it is a safety violation.
	AllowedTechnologies []string
}

// DefaultAllowedTechnologies lists the technologies explicitly documented in
// the persona's profile.
func DefaultAllowedTechnologies() []string {
	return []string{
		"Angular",
		"Java",
		"Spring Boot",
		"SQL",
		"JWT",
		"RESTful APIs",
		"AI/agent-based systems",
		"LLMs",
	}
}

// Loaded reports whether both grounding documents are present.
func (p Profile) Loaded() bool {
	return p.Summary != "" && p.Narrative != ""
}
