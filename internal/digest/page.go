package digest

import (
	"fmt"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Status is a transient banner. It is informational only.
type Status struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Section is one collapsible block on the page.
type Section struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
	Failed  bool   `json:"failed"`
}

func (s Section) Label() string {
	return fmt.Sprintf("%d. %s", s.Index, s.Title)
}

// Page is the render description for one submission.
type Page struct {
	Title    string    `json:"title"`
	Topic    string    `json:"topic"`
	Heading  string    `json:"heading,omitempty"`
	Backend  string    `json:"backend"`
	Statuses []Status  `json:"statuses"`
	Sections []Section `json:"sections"`
}

func (p *Page) addStatus(level Level, message string) {
	p.Statuses = append(p.Statuses, Status{Level: level, Message: message})
}

// HasLevel reports whether any banner of the given level is present.
func (p Page) HasLevel(level Level) bool {
	for _, s := range p.Statuses {
		if s.Level == level {
			return true
		}
	}

	return false
}
