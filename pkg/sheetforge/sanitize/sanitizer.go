package sanitize

import (
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/errkind"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
)

// Result is the output of one sanitization pass.
type Result struct {
	// Dataset holds the aligned rows.
	Dataset *models.Dataset
	// FieldMapping maps each original field name to its sanitized name.
	FieldMapping map[string]string
	// MissingFieldCount is the number of default values synthesized.
	MissingFieldCount int
}

// Sanitizer aligns records to a single sanitized field set.
type Sanitizer struct {
	cfg    models.GenerationConfig
	logger *slog.Logger
	now    func() time.Time
}

// New returns a sanitizer for the normalized form of cfg.
func New(cfg models.GenerationConfig, logger *slog.Logger) *Sanitizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sanitizer{cfg: cfg.Normalize(), logger: logger, now: time.Now}
}

// Fields returns the sorted union of field names across records.
func Fields(records []models.Record) []string {
	seen := make(map[string]bool)
	var fields []string
	for _, rec := range records {
		for name := range rec {
			if !seen[name] {
				seen[name] = true
				fields = append(fields, name)
			}
		}
	}
	sort.Strings(fields)
	return fields
}

// Mapping builds the deterministic original -> sanitized mapping for fields,
// returned alongside the sanitized names in the order of fields.
func (s *Sanitizer) Mapping(fields []string) (map[string]string, []string) {
	mapping := make(map[string]string, len(fields))
	used := make(map[string]bool, len(fields))
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		name := f
		if s.cfg.SanitizeFieldNames {
			name = SanitizeFieldName(f, s.cfg.MaxFieldNameLength)
		}
		name = uniqueName(name, used, s.cfg.MaxFieldNameLength)
		used[name] = true
		mapping[f] = name
		names = append(names, name)
	}
	return mapping, names
}

// Sanitize aligns records: every output row carries one value per field of
// the sanitized union, in the same order. Absent and null values are
// replaced by defaults and counted.
func (s *Sanitizer) Sanitize(records []models.Record) (*Result, error) {
	if records == nil {
		return nil, errkind.New(errkind.InputValidation, "sanitize", errors.New("records must be a list"))
	}

	fields := Fields(records)
	mapping, names := s.Mapping(fields)
	now := s.now()

	ds := &models.Dataset{
		Fields: names,
		Rows:   make([][]models.Value, 0, len(records)),
	}
	missing := 0
	for _, rec := range records {
		row := make([]models.Value, len(fields))
		for i, f := range fields {
			raw, ok := rec[f]
			if !ok || IsMissing(raw) {
				row[i] = DefaultValue(f, names[i], s.cfg.DefaultValues, now)
				missing++
				continue
			}
			row[i] = CoerceValue(raw)
		}
		ds.Rows = append(ds.Rows, row)
	}

	renamed := 0
	for orig, name := range mapping {
		if orig != name {
			renamed++
		}
	}
	s.logger.Debug("records sanitized",
		slog.Int("records", len(records)),
		slog.Int("fields", len(fields)),
		slog.Int("renamed", renamed),
		slog.Int("missing", missing),
	)

	return &Result{
		Dataset:           ds,
		FieldMapping:      mapping,
		MissingFieldCount: missing,
	}, nil
}
