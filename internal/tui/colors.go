package tui

// Color constants for the bankroll TUI theme
const (
	// Base Colors
	ColorCardBackground = "#1B1530" // Dark purple
	ColorBorder         = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Titles, values
	ColorSecondaryText = "#B1B8C7" // Labels
	ColorDisabledText  = "#6D7383" // Empty states
	ColorHelpText      = "240"     // Help bar

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED" // Logo, active borders
	ColorAccentBright = "#A78BFA" // Highlights, clock

	// Money Colors
	ColorProfit  = "#22C55E"
	ColorLoss    = "#EF4444"
	ColorWarning = "#F59E0B"
)

// moneyColor picks the profit or loss color for a signed amount
func moneyColor(amount int) string {
	switch {
	case amount > 0:
		return ColorProfit
	case amount < 0:
		return ColorLoss
	default:
		return ColorSecondaryText
	}
}
