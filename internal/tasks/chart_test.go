package tasks

import (
	"errors"
	"reflect"
	"testing"
)

func TestChartRowsTaskThenSubtaskOrder(t *testing.T) {
	h := NewHierarchy()
	h.Create("alpha", "a", 30)
	h.Create("alpha", "b", 70)
	h.Create("beta", "", 90)

	rows, err := ChartRows(h)
	if err != nil {
		t.Fatalf("ChartRows() error = %v", err)
	}

	want := []ChartRow{
		{Label: "alpha", Progress: 50},
		{Label: "a", Progress: 30, Subtask: true},
		{Label: "b", Progress: 70, Subtask: true},
		{Label: "beta", Progress: 90},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("ChartRows() = %+v, want %+v", rows, want)
	}
}

func TestChartRowsEmptyHierarchy(t *testing.T) {
	if _, err := ChartRows(NewHierarchy()); !errors.Is(err, ErrNoTasks) {
		t.Fatalf("ChartRows() error = %v, want ErrNoTasks", err)
	}
}
