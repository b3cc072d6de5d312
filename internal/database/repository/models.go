package repository

import "time"

// Profile represents a profiles row plus its saved panel set.
type Profile struct {
	ID            string
	Name          string
	ControlScheme string
	Muted         bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	OpenPanels    []SavedPanel
}

// SavedPanel is one profile_panels row. Rows are ordered by position.
type SavedPanel struct {
	TemplateID string
	Group      string
}
