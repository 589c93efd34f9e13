package mergcrush

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	platformcore "github.com/jfxdev02-arch/mergcrush/internal/core"
	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/core"
)

const (
	cellWidth  = 5  // Characters per grid cell
	hudHeight  = 3  // Title, score and level lines
	panelWidth = 22 // Side panel with next item and stats
	panelGap   = 2
	footerRows = 2
)

// boardSize returns the outer size of the board box.
func (g *Game) boardSize() (w, h int) {
	if g.engine == nil {
		return 0, 0
	}
	return g.engine.Width()*cellWidth + 2, g.engine.Height() + 2
}

// minScreenSize returns the smallest playable terminal.
func (g *Game) minScreenSize() (w, h int) {
	boardW, boardH := g.boardSize()
	return boardW + 2, hudHeight + 1 + boardH + footerRows
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardW, boardH := g.boardSize()
	showPanel := g.screenW >= boardW+panelGap+panelWidth
	totalW := boardW
	if showPanel {
		totalW += panelGap + panelWidth
	}

	boardX := max(0, (g.screenW-totalW)/2)
	boardY := hudHeight + 1 // Cursor row sits between HUD and board

	g.renderHUD(dst, boardX, totalW)
	g.renderCursor(dst, boardX, boardY-1)
	g.renderBoard(dst, boardX, boardY)
	if showPanel {
		g.renderPanel(dst, boardX+boardW+panelGap, boardY)
	}
	dst.DrawTextCenteredColored(boardY+boardH+1, g.Controls(), platformcore.ColorGray)

	g.renderOverlays(dst, platformcore.NewRect(boardX, boardY, boardW, boardH))
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *platformcore.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	minW, minH := g.minScreenSize()
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need at least %dx%d", minW, minH))
}

// renderHUD draws the title, score and level info.
func (g *Game) renderHUD(dst *platformcore.Screen, x, w int) {
	title := g.Title()
	dst.DrawTextColored(x+(w-len(title))/2, 0, title, platformcore.ColorBrightYellow)

	dst.DrawText(x, 1, fmt.Sprintf("Score: %d", g.totalScore()))

	var info string
	if g.mode == ModeCampaign {
		info = fmt.Sprintf("Level %d/%d  Target: %d", g.levelIndex+1, len(g.levels), g.level.Target)
	} else {
		info = fmt.Sprintf("Difficulty: %d", g.engine.Difficulty())
	}
	dst.DrawText(max(x, x+w-len(info)), 1, info)

	name := g.level.Name
	if g.level.Theme.Name != "" {
		name += " · " + g.level.Theme.Name
	}
	dst.DrawTextColored(x+(w-utf8.RuneCountInString(name))/2, 2, name, platformcore.ColorCyan)
}

// renderCursor draws the drop marker above the cursor column.
func (g *Game) renderCursor(dst *platformcore.Screen, boardX, y int) {
	cx := boardX + 1 + g.cursor*cellWidth + cellWidth/2
	color := platformcore.ColorBrightYellow
	if !g.engine.CanDrop(g.cursor) {
		color = platformcore.ColorRed
	}
	dst.SetColored(cx, y, '▼', color)
}

// cellText centers the value of rank in a cell.
func cellText(rank int) string {
	if rank <= 0 {
		return centerIn("·", cellWidth)
	}
	return centerIn(strconv.Itoa(core.RankValue(rank)), cellWidth)
}

func centerIn(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

// renderBoard draws the grid with the floor (y=0) at the bottom.
func (g *Game) renderBoard(dst *platformcore.Screen, boardX, boardY int) {
	boardW, boardH := g.boardSize()
	box := platformcore.NewRect(boardX, boardY, boardW, boardH)
	dst.DrawBoxColored(box, platformcore.ColorBlue)
	inner := box.Inset(1)

	ranks := g.engine.Ranks()
	for y, row := range ranks {
		sy := inner.Bottom() - 1 - y
		for x, rank := range row {
			sx := inner.X + x*cellWidth
			color := platformcore.ColorForRank(rank)
			if rank > 0 && x == g.cursor {
				color = brighten(color)
			}
			dst.DrawTextColored(sx, sy, cellText(rank), color)
		}
	}
}

// brighten highlights items in the cursor column.
func brighten(c platformcore.Color) platformcore.Color {
	switch c {
	case platformcore.ColorRed:
		return platformcore.ColorBrightRed
	case platformcore.ColorGreen:
		return platformcore.ColorBrightGreen
	case platformcore.ColorYellow:
		return platformcore.ColorBrightYellow
	case platformcore.ColorBlue:
		return platformcore.ColorBrightBlue
	case platformcore.ColorMagenta:
		return platformcore.ColorBrightMagenta
	case platformcore.ColorCyan:
		return platformcore.ColorBrightCyan
	default:
		return c
	}
}

// starString renders earned and missing stars.
func starString(stars int) string {
	stars = platformcore.Clamp(stars, 0, 3)
	return strings.Repeat("★", stars) + strings.Repeat("☆", 3-stars)
}

// renderPanel draws the next item and attempt statistics.
func (g *Game) renderPanel(dst *platformcore.Screen, x, y int) {
	stats := g.engine.Stats()
	line := y

	dst.DrawText(x, line, "Next:")
	dst.DrawTextColored(x+6, line, strconv.Itoa(core.RankValue(g.next)), platformcore.ColorForRank(g.next))
	line++
	if g.mode == ModeCampaign {
		dst.DrawTextColored(x, line, g.level.ItemName(g.next), platformcore.ColorGray)
	}
	line += 2

	if stats.Combo > 0 {
		dst.DrawTextColored(x, line, fmt.Sprintf("Combo x%.1f (%d)", stats.ComboMultiplier, stats.Combo), platformcore.ColorOrange)
	} else {
		dst.DrawTextColored(x, line, "Combo -", platformcore.ColorGray)
	}
	line++
	if g.flashTicks > 0 {
		dst.DrawTextColored(x, line, fmt.Sprintf("+%d", g.lastPoints), platformcore.ColorBrightGreen)
	}
	line += 2

	dst.DrawText(x, line, fmt.Sprintf("Merges: %d", stats.Merges))
	line++
	dst.DrawText(x, line, fmt.Sprintf("Best:   %d", core.RankValue(stats.HighestRank)))
	line++

	if g.mode == ModeCampaign {
		dst.DrawTextColored(x, line, starString(g.engine.Goal().Stars(stats.Total)), platformcore.ColorBrightYellow)
		line++
		if g.level.TimeLimit > 0 {
			left := max(0, int(g.level.TimeLimit-g.elapsed))
			dst.DrawText(x, line, fmt.Sprintf("Time:   %d:%02d", left/60, left%60))
			line++
		}
		if g.level.MoveLimit > 0 {
			dst.DrawText(x, line, fmt.Sprintf("Moves:  %d", max(0, g.level.MoveLimit-g.drops)))
		}
	} else {
		secs := int(g.elapsed)
		dst.DrawText(x, line, fmt.Sprintf("Time:   %d:%02d", secs/60, secs%60))
	}
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *platformcore.Screen, area platformcore.Rect) {
	switch {
	case g.paused:
		g.drawOverlay(dst, area, "PAUSED", "Press P to resume")
	case g.levelCleared:
		stars := starString(g.engine.Goal().Stars(g.engine.Score()))
		if g.levelIndex >= len(g.levels)-1 {
			g.drawOverlay(dst, area, "LEVEL CLEARED", stars, "Final level complete!")
		} else {
			next := fmt.Sprintf("Next: %s", g.levels[g.levelIndex+1].Name)
			g.drawOverlay(dst, area, "LEVEL CLEARED", stars, next)
		}
	case g.won:
		g.drawOverlay(dst, area, "CAMPAIGN COMPLETE!", fmt.Sprintf("Total score: %d", g.totalScore()), "Press R to restart")
	case g.gameOver:
		g.drawOverlay(dst, area, "GAME OVER", outcomeText(g.outcome), "Press R to retry")
	}
}

func outcomeText(o platformcore.Outcome) string {
	switch o {
	case platformcore.OutcomeBlocked:
		return "No moves left"
	case platformcore.OutcomeTimeout:
		return "Out of time"
	case platformcore.OutcomeNoMoves:
		return "Out of drops"
	default:
		return string(o)
	}
}

// drawOverlay draws a text box centered on area.
func (g *Game) drawOverlay(dst *platformcore.Screen, area platformcore.Rect, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, utf8.RuneCountInString(line))
	}

	box := platformcore.Centered(area.W, area.H, maxLen+4, len(lines)+2)
	box.X += area.X
	box.Y += area.Y

	dst.DrawRect(box, ' ')
	dst.DrawBoxColored(box, platformcore.ColorBrightWhite)
	for i, line := range lines {
		x := box.X + (box.W-utf8.RuneCountInString(line))/2
		dst.DrawText(x, box.Y+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "←/→: Move | Space: Drop | P: Pause | R: Restart | Q: Quit"
}
