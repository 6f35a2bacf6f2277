package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/sanitize"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadRecords(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		body  string
		count int
	}{
		{"json array", "r.json", `[{"Name":"Ali","Score":90},{"Name":"Bee"}]`, 2},
		{"json lines", "r.jsonl", "{\"Name\":\"Ali\"}\n\n{\"Name\":\"Bee\",\"Score\":1.5}\n", 2},
		{"yaml", "r.yaml", "- Name: Ali\n  Score: 90\n- Name: Bee\n", 2},
		{"empty yaml", "r.yml", "", 0},
	}
	for _, tt := range tests {
		records, err := readRecords(writeFile(t, tt.file, tt.body), nil)
		if err != nil {
			t.Errorf("readRecords(%s) failed: %v", tt.name, err)
			continue
		}
		if len(records) != tt.count {
			t.Errorf("readRecords(%s) = %d records, expected %d", tt.name, len(records), tt.count)
		}
	}
}

func TestReadRecordsKeepsNumbers(t *testing.T) {
	records, err := readRecords("-", strings.NewReader(`[{"id": 12345678901234567}]`))
	if err != nil {
		t.Fatalf("readRecords failed: %v", err)
	}
	n, ok := records[0]["id"].(json.Number)
	if !ok || n.String() != "12345678901234567" {
		t.Errorf("id = %#v, expected json.Number", records[0]["id"])
	}
	if v := sanitize.CoerceValue(records[0]["id"]); !v.IsNumeric() {
		t.Errorf("CoerceValue(%v) = %+v, expected a number", n, v)
	}
}

func TestReadRecordsErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(t.TempDir(), "absent.json")},
		{"bad json", writeFile(t, "bad.json", `{"not": "an array"`)},
		{"bad line", writeFile(t, "bad.jsonl", "{\"a\":1}\nnope\n")},
		{"unsupported", writeFile(t, "r.csv", "a,b\n1,2\n")},
	}
	for _, tt := range tests {
		if _, err := readRecords(tt.path, nil); err == nil {
			t.Errorf("readRecords(%s) expected error", tt.name)
		}
	}
}
