package styles

import "github.com/charmbracelet/lipgloss"

var (
	ContentWidth = 54
)

var (
	TitleStyle           lipgloss.Style
	InfoStyle            lipgloss.Style
	UserLabelStyle       lipgloss.Style
	UserMsgStyle         lipgloss.Style
	AiLabelStyle         lipgloss.Style
	AiMsgStyle           lipgloss.Style
	ToolBlockStyle       lipgloss.Style
	ToolIconStyle        lipgloss.Style
	ToolNameStyle        lipgloss.Style
	ToolDetailStyle      lipgloss.Style
	ToolKeyStyle         lipgloss.Style
	ToggleStyle          lipgloss.Style
	InputBoxStyle        lipgloss.Style
	InputBoxDimStyle     lipgloss.Style
	WelcomeArtStyle      lipgloss.Style
	WelcomeSubtitleStyle lipgloss.Style
	SuggestionStyle      lipgloss.Style
	ModalStyle           lipgloss.Style
	ModalTitleStyle      lipgloss.Style
	ModalItemStyle       lipgloss.Style
	KeyStyle             lipgloss.Style
	SidebarStyle         lipgloss.Style
	SidebarItemStyle     lipgloss.Style
	SidebarActiveStyle   lipgloss.Style
	SidebarCursorStyle   lipgloss.Style
	SkeletonStyle        lipgloss.Style
	NoticeStyle          lipgloss.Style
	NoticeErrorStyle     lipgloss.Style
	BarStyle             lipgloss.Style

	HintColor lipgloss.Color
)

func init() {
	Apply(CurrentTheme)
}

// Apply makes t the current theme and rebuilds every style from it.
func Apply(t Theme) {
	CurrentTheme = t
	HintColor = t.TextMuted

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Padding(0, 1)

	InfoStyle = lipgloss.NewStyle().
		Foreground(t.TextMuted)

	UserLabelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(t.Info).
		Bold(true).
		Padding(0, 1)

	UserMsgStyle = lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		PaddingRight(2).
		BorderRight(true).
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(t.Info)

	AiLabelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(t.Primary).
		Bold(true).
		Padding(0, 1).
		MarginRight(1)

	AiMsgStyle = lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		BorderLeft(true).
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(t.Primary)

	ToolBlockStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1).
		MarginLeft(2)

	ToolIconStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	ToolNameStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true)

	ToolDetailStyle = lipgloss.NewStyle().
		Foreground(t.TextMuted)

	ToolKeyStyle = lipgloss.NewStyle().
		Foreground(t.Secondary)

	ToggleStyle = lipgloss.NewStyle().
		Foreground(t.Info).
		Italic(true)

	InputBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1)

	InputBoxDimStyle = InputBoxStyle.
		BorderForeground(t.TextMuted)

	WelcomeArtStyle = lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Bold(true)

	WelcomeSubtitleStyle = lipgloss.NewStyle().
		Foreground(t.TextSecondary).
		Italic(true)

	SuggestionStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.TextSecondary).
		Padding(0, 1)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)

	ModalItemStyle = lipgloss.NewStyle().
		Padding(0, 1)

	KeyStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true).
		Width(12)

	SidebarStyle = lipgloss.NewStyle().
		BorderRight(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	SidebarItemStyle = lipgloss.NewStyle().
		Foreground(t.TextSecondary)

	SidebarActiveStyle = lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.BgElevated).
		Bold(true)

	SidebarCursorStyle = lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	SkeletonStyle = lipgloss.NewStyle().
		Foreground(t.Border)

	NoticeStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	NoticeErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	BarStyle = lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
}
