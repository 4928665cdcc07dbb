package chart

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jwei512/taskline/internal/tasks"
)

func TestRenderWritesDeterministicPath(t *testing.T) {
	dir := t.TempDir()
	r := NewSVGRenderer(dir)

	rows := []tasks.ChartRow{
		{Label: "alpha", Progress: 50},
		{Label: "a", Progress: 30, Subtask: true},
		{Label: "b", Progress: 70, Subtask: true},
	}
	path, err := r.Render("u1", rows)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := filepath.Join(dir, "u1", ArtifactName); path != want {
		t.Fatalf("Render() path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	svg := string(data)
	for _, want := range []string{"<svg", "alpha", "30%", "70%"} {
		if !strings.Contains(svg, want) {
			t.Fatalf("rendered SVG missing %q", want)
		}
	}
}

func TestRenderRegeneratesWholesale(t *testing.T) {
	dir := t.TempDir()
	r := NewSVGRenderer(dir)

	if _, err := r.Render("u1", []tasks.ChartRow{{Label: "old-task", Progress: 10}}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	path, err := r.Render("u1", []tasks.ChartRow{{Label: "new-task", Progress: 90}})
	if err != nil {
		t.Fatalf("Render() second error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "old-task") {
		t.Fatalf("second render still contains the first chart's rows")
	}
}

func TestRenderEscapesLabels(t *testing.T) {
	r := NewSVGRenderer(t.TempDir())
	path, err := r.Render("u1", []tasks.ChartRow{{Label: "a<b&c", Progress: 10}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "a<b&c") {
		t.Fatalf("label not escaped in SVG output")
	}
}
