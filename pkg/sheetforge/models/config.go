package models

import (
	"fmt"
	"strings"
)

// ErrorPolicy decides what happens when a single record cannot be processed.
type ErrorPolicy int

const (
	// PolicyContinue drops the failing record and records a warning.
	PolicyContinue ErrorPolicy = iota
	// PolicyStop aborts the whole run on the first failing record.
	PolicyStop
	// PolicyLogOnly replaces the failing record with an error marker row.
	PolicyLogOnly
)

// String returns the policy name as used in configuration files.
func (p ErrorPolicy) String() string {
	switch p {
	case PolicyStop:
		return "stop"
	case PolicyLogOnly:
		return "log_only"
	default:
		return "continue"
	}
}

// ParseErrorPolicy parses "continue", "stop" or "log_only" (case-insensitive,
// "log-only" and "logonly" accepted). Empty input yields PolicyContinue.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "continue":
		return PolicyContinue, nil
	case "stop":
		return PolicyStop, nil
	case "log_only", "log-only", "logonly":
		return PolicyLogOnly, nil
	}
	return PolicyContinue, fmt.Errorf("unknown error policy %q (must be continue, stop, or log_only)", s)
}

// Bounds and defaults applied by GenerationConfig.Normalize.
const (
	MinChunkSize     = 1
	MaxChunkSize     = 10000
	DefaultChunkSize = 1000

	MinMemoryMB     = 64
	MaxMemoryMB     = 2048
	DefaultMemoryMB = 512

	MinFieldNameLength     = 10
	MaxFieldNameLength     = 255
	DefaultFieldNameLength = 100

	// MaxRecords is the hard ceiling on records per generation run.
	MaxRecords = 100000
	// MaxCellText is the spreadsheet limit on characters in one cell.
	MaxCellText = 32767
)

// GenerationConfig tunes one generation run. It is normalized once when the
// run starts and never mutated afterwards.
type GenerationConfig struct {
	// MaxChunkSize is the number of records processed per chunk (1-10000).
	MaxChunkSize int
	// MaxMemoryMB is the memory ceiling for the run (64-2048).
	MaxMemoryMB int
	// ErrorPolicy handles per-record processing failures.
	ErrorPolicy ErrorPolicy
	// SanitizeFieldNames enables header-safe field name rewriting.
	SanitizeFieldNames bool
	// MaxFieldNameLength caps sanitized field names, in runes (10-255).
	MaxFieldNameLength int
	// DefaultValues overrides the synthesized value for missing fields,
	// keyed by original or sanitized field name.
	DefaultValues map[string]Value
	// ValidationEnabled re-opens and checks the artifact after writing.
	ValidationEnabled bool
	// Compression repacks the artifact at maximum compression.
	Compression bool
	// Title is written above the main data sheet.
	Title string
	// AlternateRowShading shades every other data row.
	AlternateRowShading bool
	// FreezeHeader freezes the header row of the main data sheet.
	FreezeHeader bool
	// AutoFilter enables filter buttons over the data range.
	AutoFilter bool
}

// DefaultGenerationConfig returns the documented defaults.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		MaxChunkSize:        DefaultChunkSize,
		MaxMemoryMB:         DefaultMemoryMB,
		ErrorPolicy:         PolicyContinue,
		SanitizeFieldNames:  true,
		MaxFieldNameLength:  DefaultFieldNameLength,
		ValidationEnabled:   true,
		Title:               "Data Export",
		AlternateRowShading: true,
		FreezeHeader:        true,
		AutoFilter:          true,
	}
}

// Normalize returns a copy with zero values replaced by defaults and numeric
// settings clamped to their allowed ranges.
func (c GenerationConfig) Normalize() GenerationConfig {
	if c.MaxChunkSize == 0 {
		c.MaxChunkSize = DefaultChunkSize
	}
	c.MaxChunkSize = clamp(c.MaxChunkSize, MinChunkSize, MaxChunkSize)

	if c.MaxMemoryMB == 0 {
		c.MaxMemoryMB = DefaultMemoryMB
	}
	c.MaxMemoryMB = clamp(c.MaxMemoryMB, MinMemoryMB, MaxMemoryMB)

	if c.MaxFieldNameLength == 0 {
		c.MaxFieldNameLength = DefaultFieldNameLength
	}
	c.MaxFieldNameLength = clamp(c.MaxFieldNameLength, MinFieldNameLength, MaxFieldNameLength)

	switch c.ErrorPolicy {
	case PolicyContinue, PolicyStop, PolicyLogOnly:
	default:
		c.ErrorPolicy = PolicyContinue
	}

	if strings.TrimSpace(c.Title) == "" {
		c.Title = "Data Export"
	}

	if c.DefaultValues != nil {
		dv := make(map[string]Value, len(c.DefaultValues))
		for k, v := range c.DefaultValues {
			dv[k] = v
		}
		c.DefaultValues = dv
	}
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
