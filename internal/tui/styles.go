package tui

import "github.com/rgehrsitz/taxpro/internal/tui/tuistyles"

// Re-export styles from tuistyles to avoid import cycles
var (
	ColorPrimary = tuistyles.ColorPrimary
	ColorMuted   = tuistyles.ColorMuted

	TitleStyle             = tuistyles.TitleStyle
	SubtitleStyle          = tuistyles.SubtitleStyle
	StatusBarStyle         = tuistyles.StatusBarStyle
	StatusKeyStyle         = tuistyles.StatusKeyStyle
	BorderStyle            = tuistyles.BorderStyle
	ActiveBorderStyle      = tuistyles.ActiveBorderStyle
	FieldLabelStyle        = tuistyles.FieldLabelStyle
	FocusedFieldLabelStyle = tuistyles.FocusedFieldLabelStyle
	ErrorStyle             = tuistyles.ErrorStyle
)
