package ui

import (
	"strings"
	"testing"
)

func TestTable_ColumnWidths(t *testing.T) {
	tbl := Table{
		Headers: []string{"ID", "Title"},
		Rows: [][]string{
			{"proj-001", "REST API service"},
			{"p2", "CLI"},
		},
	}

	widths := tbl.ColumnWidths()
	if widths[0] != len("proj-001") {
		t.Errorf("widths[0] = %d, want %d", widths[0], len("proj-001"))
	}
	if widths[1] != len("REST API service") {
		t.Errorf("widths[1] = %d, want %d", widths[1], len("REST API service"))
	}
}

func TestTable_ColumnWidths_MaxWidth(t *testing.T) {
	tbl := Table{
		Headers:  []string{"Title"},
		Rows:     [][]string{{strings.Repeat("x", 100)}},
		MaxWidth: 20,
	}
	widths := tbl.ColumnWidths()
	if widths[0] != 20 {
		t.Errorf("widths[0] = %d, want 20", widths[0])
	}
}

func TestTable_Render(t *testing.T) {
	tbl := Table{
		Headers: []string{"Agent", "Tasks"},
		Rows: [][]string{
			{"architect", "3"},
			{"backend", "4"},
		},
	}

	out := tbl.Render()
	for _, want := range []string{"Agent", "Tasks", "architect", "backend", "─"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered table missing %q:\n%s", want, out)
		}
	}
}

func TestTable_Render_Empty(t *testing.T) {
	tbl := Table{}
	if out := tbl.Render(); out != "" {
		t.Errorf("empty table rendered %q", out)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much longer than ten", 10, "much long…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestToTitle(t *testing.T) {
	if got := ToTitle("system_design"); got != "System Design" {
		t.Errorf("ToTitle = %q, want %q", got, "System Design")
	}
}
