package terminal

import "github.com/charmbracelet/lipgloss"

var (
	// Role colors: blue for guests, emerald for the assistant, amber for human agents.
	colorGuest = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"}
	colorAI    = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34d399"}
	colorOwner = lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#fbbf24"}

	// UI colors.
	colorBright = lipgloss.AdaptiveColor{Light: "#0f172a", Dark: "#f1f5f9"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#94a3b8", Dark: "#64748b"}
	colorTool   = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"} // purple
	colorError  = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	colorOK     = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
)

var (
	styleGuestBadge = lipgloss.NewStyle().Foreground(colorGuest).Bold(true)
	styleAIBadge    = lipgloss.NewStyle().Foreground(colorAI).Bold(true)
	styleOwnerBadge = lipgloss.NewStyle().Foreground(colorOwner).Bold(true)

	styleTitle   = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleMeta    = lipgloss.NewStyle().Foreground(colorDim)
	styleHeading = lipgloss.NewStyle().Foreground(colorBright).Bold(true).Underline(true)
	styleDate    = lipgloss.NewStyle().Foreground(colorDim).Bold(true)

	styleStat      = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleStatLabel = lipgloss.NewStyle().Foreground(colorDim)
	styleCard      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	styleToolName   = lipgloss.NewStyle().Foreground(colorTool).Bold(true)
	styleToolDetail = lipgloss.NewStyle().Foreground(colorDim)
	styleError      = lipgloss.NewStyle().Foreground(colorError)
	styleBooking    = lipgloss.NewStyle().Foreground(colorOK).Bold(true)
	styleCheck      = lipgloss.NewStyle().Foreground(colorOK)

	styleSeparator = lipgloss.NewStyle().Foreground(colorDim)
)
