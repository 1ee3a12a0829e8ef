package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Char", "Accuracy", "Typed"}
	rows := [][]string{
		{"a", "97.50%", "12"},
		{"<space>", "8.00%", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Char    Accuracy Typed" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a         97.50%    12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "<space>    8.00%     3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"C", "N"}, [][]string{{"字", "1"}}, nil)
	if lines[0] != "C  N" || lines[1] != "字 1" {
		t.Fatalf("unexpected lines: %q", lines)
	}
}
