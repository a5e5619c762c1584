package tui

// Color constants for the wrkout TUI theme
const (
	// Base Colors
	ColorCardBackground = "#14201C" // Dark green
	ColorBorder         = "#34443F" // Grey-green

	// Text Colors
	ColorPrimaryText   = "#E8F0EC" // Titles, values
	ColorSecondaryText = "#A9B8B1" // Labels, timestamps
	ColorDisabledText  = "#66736D" // Open sets, muted text
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (Green theme)
	ColorAccentMain   = "#10B981" // Clock, active borders
	ColorAccentBright = "#6EE7B7" // Current exercise, cursor

	// State Colors
	ColorError   = "#EF4444" // Errors, discard prompt
	ColorSuccess = "#22C55E" // Completed sets
	ColorWarning = "#F59E0B" // Paused, rest countdown
)
