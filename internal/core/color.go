package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// rankPalette cycles through distinct colors so neighbouring ranks differ.
var rankPalette = []Color{
	ColorCyan,
	ColorGreen,
	ColorYellow,
	ColorOrange,
	ColorRed,
	ColorMagenta,
	ColorBrightBlue,
	ColorBrightGreen,
	ColorBrightYellow,
	ColorBrightRed,
	ColorBrightMagenta,
}

// ColorForRank returns the display color of an item rank.
// Rank 0 (empty) is gray.
func ColorForRank(rank int) Color {
	if rank <= 0 {
		return ColorGray
	}
	return rankPalette[(rank-1)%len(rankPalette)]
}
