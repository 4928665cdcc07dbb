// Package chart renders the per-user progress chart artifact. Row
// aggregation lives in the tasks package; this package only turns rows
// into an image file at a deterministic per-user path.
package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwei512/taskline/internal/tasks"
)

// ArtifactName is the fixed file name of a user's rendered chart.
const ArtifactName = "task_progress.svg"

// Renderer writes a chart for one user and returns the artifact path.
type Renderer interface {
	Render(userID string, rows []tasks.ChartRow) (string, error)
}

// SVGRenderer draws horizontal progress bars as a standalone SVG document.
type SVGRenderer struct {
	dir string
}

func NewSVGRenderer(dir string) *SVGRenderer {
	return &SVGRenderer{dir: dir}
}

const (
	rowHeight   = 28
	barMaxWidth = 400
	labelWidth  = 180
	chartMargin = 20
)

func (r *SVGRenderer) Render(userID string, rows []tasks.ChartRow) (string, error) {
	userDir := filepath.Join(r.dir, filepath.Base(userID))
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", fmt.Errorf("create user dir: %w", err)
	}

	width := chartMargin*2 + labelWidth + barMaxWidth + 50
	height := chartMargin*2 + rowHeight*len(rows)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+"\n", width, height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="white"/>`+"\n", width, height)

	for i, row := range rows {
		y := chartMargin + i*rowHeight
		label := row.Label
		indent := 0
		if row.Subtask {
			indent = 16
		}
		barW := row.Progress * barMaxWidth / 100
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-family="sans-serif" font-size="13">%s</text>`+"\n",
			chartMargin+indent, y+18, escapeText(label))
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
			chartMargin+labelWidth, y+6, barW, rowHeight-12, barColor(row.Progress))
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-family="sans-serif" font-size="12">%d%%</text>`+"\n",
			chartMargin+labelWidth+barMaxWidth+8, y+18, row.Progress)
	}
	b.WriteString("</svg>\n")

	path := filepath.Join(userDir, ArtifactName)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write chart: %w", err)
	}
	return path, nil
}

func barColor(progress int) string {
	switch {
	case progress < 25:
		return "#d64541"
	case progress < 50:
		return "#e87e04"
	case progress < 75:
		return "#f7ca18"
	default:
		return "#26a65b"
	}
}

func escapeText(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(s)
}
