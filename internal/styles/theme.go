package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines a complete color scheme for the application
type Theme struct {
	Name string

	// Core colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Background colors
	BgSurface  lipgloss.Color
	BgElevated lipgloss.Color

	// Text colors
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	Border lipgloss.Color
}

var DarkTheme = Theme{
	Name:      "dark",
	Primary:   lipgloss.Color("#818CF8"), // Indigo 400
	Secondary: lipgloss.Color("#22D3EE"), // Cyan 400
	Accent:    lipgloss.Color("#F472B6"), // Pink 400

	BgSurface:  lipgloss.Color("#141419"),
	BgElevated: lipgloss.Color("#1E1E2A"),

	TextPrimary:   lipgloss.Color("#F1F5F9"), // Slate 100
	TextSecondary: lipgloss.Color("#94A3B8"), // Slate 400
	TextMuted:     lipgloss.Color("#64748B"), // Slate 500

	Success: lipgloss.Color("#34D399"),
	Warning: lipgloss.Color("#FBBF24"),
	Error:   lipgloss.Color("#FB7185"),
	Info:    lipgloss.Color("#60A5FA"),

	Border: lipgloss.Color("#27272A"),
}

var LightTheme = Theme{
	Name:      "light",
	Primary:   lipgloss.Color("#4F46E5"), // Indigo 600
	Secondary: lipgloss.Color("#0891B2"), // Cyan 600
	Accent:    lipgloss.Color("#DB2777"), // Pink 600

	BgSurface:  lipgloss.Color("#FFFFFF"),
	BgElevated: lipgloss.Color("#F4F4F5"),

	TextPrimary:   lipgloss.Color("#18181B"), // Zinc 900
	TextSecondary: lipgloss.Color("#52525B"), // Zinc 600
	TextMuted:     lipgloss.Color("#A1A1AA"), // Zinc 400

	Success: lipgloss.Color("#10B981"),
	Warning: lipgloss.Color("#F59E0B"),
	Error:   lipgloss.Color("#EF4444"),
	Info:    lipgloss.Color("#3B82F6"),

	Border: lipgloss.Color("#E4E4E7"),
}

// CurrentTheme holds the active theme
var CurrentTheme = DarkTheme

// InitTheme picks the theme for mode ("dark", "light" or "auto", which
// follows the terminal background) and rebuilds the styles.
func InitTheme(mode string) {
	switch mode {
	case "dark":
		Apply(DarkTheme)
	case "light":
		Apply(LightTheme)
	default:
		if lipgloss.HasDarkBackground() {
			Apply(DarkTheme)
		} else {
			Apply(LightTheme)
		}
	}
}

// Toggle switches between the dark and light theme and returns the new name.
func Toggle() string {
	if CurrentTheme.Name == DarkTheme.Name {
		Apply(LightTheme)
	} else {
		Apply(DarkTheme)
	}
	return CurrentTheme.Name
}

// GlamourStyle is the glamour standard style matching the current theme.
func GlamourStyle() string {
	if CurrentTheme.Name == LightTheme.Name {
		return "light"
	}
	return "dark"
}
