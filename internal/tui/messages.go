package tui

import (
	"github.com/rgehrsitz/taxpro/internal/domain"
)

// Message types for the Bubble Tea update cycle

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// ConfigLoadedMsg signals configuration has been loaded
type ConfigLoadedMsg struct {
	Config *domain.Configuration
}
