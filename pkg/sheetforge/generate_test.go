package sheetforge

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/ukaji3/sheetforge/internal/logging"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/chunk"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/parser"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/workbook"
	"github.com/xuri/excelize/v2"
)

func quiet() GenerateOption {
	return WithLogger(logging.Discard())
}

func fixedMemory(mb float64) GenerateOption {
	return WithMemorySampler(chunk.SamplerFunc(func() float64 { return mb }))
}

func people(n int) []models.Record {
	records := make([]models.Record, n)
	for i := range records {
		records[i] = models.Record{
			"Name":       fmt.Sprintf("user%d", i),
			"Score":      i * 3,
			"Team/Group": []string{"red", "blue"}[i%2],
			"notes":      map[string]int{"visits": i},
		}
	}
	return records
}

func TestGenerateMissingField(t *testing.T) {
	records := []models.Record{
		{"Name": "Ali", "Score": 90},
		{"Name": "Bee"},
	}
	path := filepath.Join(t.TempDir(), "scores.xlsx")
	res, err := Generate(context.Background(), records, path, models.DefaultGenerationConfig(), quiet(), fixedMemory(10))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !res.Success || res.Status != models.StatusCompleted {
		t.Errorf("result = %+v, expected success", res)
	}
	if res.MissingFieldCount != 1 {
		t.Errorf("MissingFieldCount = %d, expected 1", res.MissingFieldCount)
	}
	if res.ProcessedRows != 2 || res.TotalRows != 2 {
		t.Errorf("rows %d/%d, expected 2/2", res.ProcessedRows, res.TotalRows)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(workbook.SheetData)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	last := rows[len(rows)-1]
	if last[0] != "Bee" || last[1] != "0" {
		t.Errorf("last row = %v, expected [Bee 0]", last)
	}
	if res.Validation == nil || !res.Validation.Valid || res.Validation.ValidationScore != 100 {
		t.Errorf("validation = %+v, expected a clean report", res.Validation)
	}
	if res.DataQualityScore != 100 {
		t.Errorf("DataQualityScore = %v, expected 100", res.DataQualityScore)
	}
}

func TestGenerateRoundTrip(t *testing.T) {
	const n = 37
	path := filepath.Join(t.TempDir(), "people.xlsx")
	cfg := models.DefaultGenerationConfig()
	cfg.MaxChunkSize = 10
	res, err := Generate(context.Background(), people(n), path, cfg, quiet(), fixedMemory(10))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	opts := DefaultDetectOptions()
	opts.Sheets = []string{workbook.SheetData}
	det, err := DetectFile(path, opts)
	if err != nil {
		t.Fatalf("DetectFile failed: %v", err)
	}
	if len(det.Tables) != 1 {
		t.Fatalf("got %d tables on the data sheet, expected 1", len(det.Tables))
	}
	tbl := det.Tables[0]
	if tbl.NumRows() != n {
		t.Errorf("recovered %d rows, expected %d", tbl.NumRows(), n)
	}

	var expected []string
	for _, name := range res.FieldMapping {
		expected = append(expected, name)
	}
	got := append([]string(nil), tbl.Headers...)
	sort.Strings(expected)
	sort.Strings(got)
	if fmt.Sprint(got) != fmt.Sprint(expected) {
		t.Errorf("headers = %v, expected %v", got, expected)
	}
	if tbl.Range.R1 != workbook.HeaderOffset {
		t.Errorf("table starts at row %d, expected %d", tbl.Range.R1, workbook.HeaderOffset)
	}
	for i, h := range tbl.Headers {
		if h == "Score" && tbl.ColumnTypes[i] != models.ColumnInteger {
			t.Errorf("Score column type = %v, expected integer", tbl.ColumnTypes[i])
		}
	}
}

func TestGenerateErrorPolicies(t *testing.T) {
	const n = 25
	records := people(n)
	bad := map[int]bool{4: true, 11: true, 19: true}
	for i := range bad {
		records[i]["Score"] = math.Inf(1)
	}

	tests := []struct {
		policy    models.ErrorPolicy
		wantErr   bool
		processed int
		dropped   int
		markers   int
	}{
		{models.PolicyContinue, false, n - 3, 3, 0},
		{models.PolicyLogOnly, false, n, 0, 3},
		{models.PolicyStop, true, 4, 0, 0},
	}
	for _, tt := range tests {
		cfg := models.DefaultGenerationConfig()
		cfg.ErrorPolicy = tt.policy
		cfg.MaxChunkSize = 7
		path := filepath.Join(t.TempDir(), "out.xlsx")

		res, err := Generate(context.Background(), records, path, cfg, quiet(), fixedMemory(10))
		if (err != nil) != tt.wantErr {
			t.Fatalf("Generate(%v) error = %v, wantErr %v", tt.policy, err, tt.wantErr)
		}
		if res.ProcessedRows != tt.processed || res.DroppedRows != tt.dropped || res.ErrorRows != tt.markers {
			t.Errorf("Generate(%v) processed %d dropped %d markers %d, expected %d/%d/%d",
				tt.policy, res.ProcessedRows, res.DroppedRows, res.ErrorRows, tt.processed, tt.dropped, tt.markers)
		}

		switch tt.policy {
		case models.PolicyContinue:
			if res.ProcessedRows+len(res.Warnings) != n {
				t.Errorf("continue: processed %d + warnings %d != %d", res.ProcessedRows, len(res.Warnings), n)
			}
		case models.PolicyStop:
			if KindOf(err) != KindDataProcessing || res.Success || res.ErrorKind != string(KindDataProcessing) {
				t.Errorf("stop: kind %q result %+v", KindOf(err), res)
			}
			if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "record 5") {
				t.Errorf("stop: errors = %q, expected one entry naming record 5", res.Errors)
			}
			if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
				t.Errorf("stop: expected no artifact at %s", path)
			}
		}
	}
}

func TestGenerateMemoryLimit(t *testing.T) {
	cfg := models.DefaultGenerationConfig()
	cfg.MaxMemoryMB = 64
	path := filepath.Join(t.TempDir(), "big.xlsx")

	res, err := Generate(context.Background(), people(50), path, cfg, quiet(), fixedMemory(512))
	if KindOf(err) != KindMemoryLimitExceeded {
		t.Fatalf("Generate error = %v, expected memory limit", err)
	}
	if res.MemoryPeakMB != 512 || res.Status != models.StatusFailed {
		t.Errorf("result peak %v status %v", res.MemoryPeakMB, res.Status)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("expected no artifact at %s", path)
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	progress := func(percent int, message string) {
		if percent >= 30 {
			cancel()
		}
	}
	cfg := models.DefaultGenerationConfig()
	cfg.MaxChunkSize = 5
	path := filepath.Join(t.TempDir(), "cancel.xlsx")

	res, err := Generate(ctx, people(40), path, cfg, quiet(), fixedMemory(10), WithProgress(progress))
	if KindOf(err) != KindCancelled {
		t.Fatalf("Generate error = %v, expected cancelled", err)
	}
	if res.Status != models.StatusCancelled || res.ProcessedRows == 0 || res.ProcessedRows >= 40 {
		t.Errorf("result status %v processed %d", res.Status, res.ProcessedRows)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("expected no artifact at %s", path)
	}
}

func TestGenerateInvalidInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.xlsx")
	tests := []struct {
		name    string
		records []models.Record
	}{
		{"nil", nil},
		{"empty", []models.Record{}},
		{"no fields", []models.Record{{}, {}}},
	}
	for _, tt := range tests {
		res, err := Generate(context.Background(), tt.records, path, models.DefaultGenerationConfig(), quiet())
		if KindOf(err) != KindInputValidation {
			t.Errorf("Generate(%s) error = %v, expected input validation", tt.name, err)
		}
		if res == nil || res.Success {
			t.Errorf("Generate(%s) result = %+v", tt.name, res)
		}
	}
}

func TestGenerateProgressAndTelemetry(t *testing.T) {
	var seen []int
	tel := &Telemetry{}
	path := filepath.Join(t.TempDir(), "p.xlsx")
	cfg := models.DefaultGenerationConfig()
	cfg.MaxChunkSize = 10

	_, err := Generate(context.Background(), people(20), path, cfg, quiet(), fixedMemory(10),
		WithTelemetry(tel),
		WithProgress(func(p int, _ string) { seen = append(seen, p) }))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	expected := []int{5, 10, 20, 35, 50, 60, 85, 90, 100}
	if fmt.Sprint(seen) != fmt.Sprint(expected) {
		t.Errorf("progress = %v, expected %v", seen, expected)
	}
	snap := tel.Snapshot()
	if snap.JobsStarted != 1 || snap.JobsCompleted != 1 || snap.RecordsWritten != 20 {
		t.Errorf("telemetry = %+v", snap)
	}
}

func TestGenerateCompressedArtifactDetects(t *testing.T) {
	cfg := models.DefaultGenerationConfig()
	cfg.Compression = true
	path := filepath.Join(t.TempDir(), "c.xlsx")
	if _, err := Generate(context.Background(), people(12), path, cfg, quiet(), fixedMemory(10)); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	format, err := parser.SniffFormat(content, "")
	if err != nil || format != parser.FormatXLSX {
		t.Errorf("SniffFormat = %q, %v; expected xlsx", format, err)
	}
}

func TestQualityScore(t *testing.T) {
	tests := []struct {
		clean, total int
		completeness float64
		expected     float64
	}{
		{10, 10, 100, 100},
		{9, 10, 100, 90},
		{2, 3, 50, 33.33},
		{0, 0, 100, 0},
	}
	for _, tt := range tests {
		if got := qualityScore(tt.clean, tt.total, tt.completeness); got != tt.expected {
			t.Errorf("qualityScore(%d, %d, %v) = %v, expected %v", tt.clean, tt.total, tt.completeness, got, tt.expected)
		}
	}
}
