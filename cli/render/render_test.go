package render

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{"json lowercase", "json", FormatJSON, false},
		{"json uppercase", "JSON", FormatJSON, false},
		{"table", "table", FormatTable, false},
		{"yaml", "yaml", FormatYAML, false},
		{"empty", "", "", false},
		{"invalid", "xml", "", true},
		{"invalid with message", "csv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat_InvalidErrorMessage(t *testing.T) {
	_, err := ParseFormat("xml")
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
	if !strings.Contains(err.Error(), "json, table, or yaml") {
		t.Errorf("error message should mention valid formats, got: %v", err)
	}
}

func TestRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatJSON, false, &buf)

	data := map[string]string{"key": "value"}
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, `"key"`) || !strings.Contains(got, `"value"`) {
		t.Errorf("JSON output missing expected content: %s", got)
	}
}

func TestRenderer_YAML(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatYAML, false, &buf)

	data := map[string]string{"key": "value"}
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "key:") || !strings.Contains(got, "value") {
		t.Errorf("YAML output missing expected content: %s", got)
	}
}

func TestRenderer_Table_Struct(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	type runView struct {
		RunID string `json:"run_id"`
		Steps int    `json:"steps"`
	}

	data := runView{RunID: "run-001", Steps: 4}
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "run_id:") || !strings.Contains(got, "run-001") {
		t.Errorf("Table output missing run_id field: %s", got)
	}
	if !strings.Contains(got, "steps:") || !strings.Contains(got, "4") {
		t.Errorf("Table output missing steps field: %s", got)
	}
}

func TestRenderer_Table_Slice(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	type item struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}

	data := []item{
		{ID: "1", Status: "completed"},
		{ID: "2", Status: "aborted"},
	}
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines: %s", len(lines), got)
	}
	if !strings.Contains(lines[0], "id") || !strings.Contains(lines[0], "status") {
		t.Errorf("header row wrong: %s", lines[0])
	}
	if !strings.Contains(lines[1], "completed") || !strings.Contains(lines[2], "aborted") {
		t.Errorf("data rows wrong: %s", got)
	}
}

func TestRenderer_Table_EmptySlice(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	if err := r.Render([]struct{}{}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "(no results)") {
		t.Errorf("expected no results marker, got: %s", buf.String())
	}
}

func TestRenderer_Table_NilPointer(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	var data *struct{ Name string }
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "(no results)") {
		t.Errorf("expected no results marker, got: %s", buf.String())
	}
}

func TestRenderer_Table_SpecialValues(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	type view struct {
		Started time.Time     `json:"started"`
		Took    time.Duration `json:"took"`
		Tags    []string      `json:"tags"`
	}

	data := view{
		Started: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Took:    1500 * time.Millisecond,
		Tags:    []string{"a", "b"},
	}
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "2026-03-14T09:00:00Z") {
		t.Errorf("expected RFC3339 time, got: %s", got)
	}
	if !strings.Contains(got, "1.5s") {
		t.Errorf("expected rounded duration, got: %s", got)
	}
	if !strings.Contains(got, "[2 items]") {
		t.Errorf("expected slice summary, got: %s", got)
	}
}

func TestRenderer_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(Format("xml"), false, &buf)

	if err := r.Render(struct{}{}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
