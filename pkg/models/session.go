package models

// ParsedTurn is the extraction result for a single user turn. Its lists are
// already merged against the prior accumulated profile, so IsValid/Missing
// describe the session as of this turn, not the turn in isolation.
type ParsedTurn struct {
	EnglishText  string              `json:"combined_prompt_english"`
	Labels       []string            `json:"labels"`
	Tags         []string            `json:"tags"`
	Integrations []string            `json:"integrations"`
	IsValid      bool                `json:"is_valid"`
	Missing      MissingRequirements `json:"missing"`
}

// Turn is one exchange in an interactive session.
type Turn struct {
	UserText    string     `json:"user_text"`
	EnglishText string     `json:"english_text"`
	Parsed      ParsedTurn `json:"parsed"`
}

// SessionState is the complete caller-held state of an interactive matching
// session. It is passed by value through the protocol on every call; the
// server keeps nothing. Only the session package mutates Accumulated.
type SessionState struct {
	Turns       []Turn              `json:"turns"`
	Accumulated RequirementProfile  `json:"accumulated"`
	Missing     MissingRequirements `json:"missing"`
	IsValid     bool                `json:"is_valid"`
}
