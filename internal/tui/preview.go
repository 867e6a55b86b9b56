package tui

import (
	"fmt"
	"strings"

	"github.com/1broseidon/windowsnap/internal/layout"
	"github.com/1broseidon/windowsnap/internal/platform"
)

// extent returns the smallest rectangle containing every saved window.
func extent(records []layout.Record) (platform.Rect, bool) {
	if len(records) == 0 {
		return platform.Rect{}, false
	}

	minX, minY := records[0].X, records[0].Y
	maxX, maxY := records[0].X+records[0].Width, records[0].Y+records[0].Height
	for _, r := range records[1:] {
		if r.X < minX {
			minX = r.X
		}
		if r.Y < minY {
			minY = r.Y
		}
		if r.X+r.Width > maxX {
			maxX = r.X + r.Width
		}
		if r.Y+r.Height > maxY {
			maxY = r.Y + r.Height
		}
	}
	if maxX <= minX || maxY <= minY {
		return platform.Rect{}, false
	}
	return platform.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

func summarizeLayout(l *layout.Layout) string {
	if l == nil {
		return ""
	}
	area, ok := extent(l.Windows)
	if !ok {
		return fmt.Sprintf("%d windows", len(l.Windows))
	}
	return fmt.Sprintf("%d windows • %d×%d px • %s", len(l.Windows), area.Width, area.Height, l.Platform)
}

// renderASCIIPreview draws saved windows, numbered in file order, scaled
// into a width×height character canvas.
func renderASCIIPreview(records []layout.Record, width, height int) []string {
	if width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}
	area, ok := extent(records)
	if !ok {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i, rec := range records {
		drawWindow(canvas, rec.Bounds(), i+1, area, width, height)
	}

	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawWindow(canvas [][]rune, rect platform.Rect, num int, area platform.Rect, canvasW, canvasH int) {
	// Inside the outer border.
	innerW := canvasW - 2
	innerH := canvasH - 2

	x1 := 1 + (rect.X-area.X)*innerW/area.Width
	y1 := 1 + (rect.Y-area.Y)*innerH/area.Height
	x2 := (rect.X + rect.Width - area.X) * innerW / area.Width
	y2 := (rect.Y + rect.Height - area.Y) * innerH / area.Height

	if x1 < 1 {
		x1 = 1
	}
	if y1 < 1 {
		y1 = 1
	}
	if x2 > canvasW-2 {
		x2 = canvasW - 2
	}
	if y2 > canvasH-2 {
		y2 = canvasH - 2
	}

	// Need at least 2x2 for a box
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	// Number in the middle, clearing whatever an earlier window drew there.
	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 && centerX > x1 && centerX < x2 {
		label := fmt.Sprintf("%d", num)
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				canvas[centerY][startX+i] = r
			}
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}

// windowLegend lists the numbered windows under the preview.
func windowLegend(records []layout.Record, width, limit int) []string {
	lines := make([]string, 0, len(records))
	for i, r := range records {
		if i >= limit {
			lines = append(lines, fmt.Sprintf("  … %d more", len(records)-limit))
			break
		}
		line := fmt.Sprintf("%2d %s  %s  %d,%d %d×%d", i+1, r.Process, r.Title, r.X, r.Y, r.Width, r.Height)
		lines = append(lines, truncate(line, width))
	}
	return lines
}

func truncate(s string, width int) string {
	if width < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
