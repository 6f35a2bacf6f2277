package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
	"gopkg.in/yaml.v3"
)

// readRecords loads records from path. "-" reads a JSON array from stdin.
func readRecords(path string, stdin io.Reader) ([]models.Record, error) {
	if path == "-" {
		return decodeJSONRecords(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAMLRecords(f)
	case ".jsonl", ".ndjson":
		return decodeJSONLines(f)
	case ".json", "":
		return decodeJSONRecords(f)
	default:
		return nil, fmt.Errorf("unsupported record file: %s (use .json, .jsonl or .yaml)", path)
	}
}

func decodeJSONRecords(r io.Reader) ([]models.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var rows []map[string]interface{}
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("invalid JSON records: %w", err)
	}
	return toRecords(rows), nil
}

func decodeJSONLines(r io.Reader) ([]models.Record, error) {
	var rows []map[string]interface{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(text))
		dec.UseNumber()
		var row map[string]interface{}
		if err := dec.Decode(&row); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

func decodeYAMLRecords(r io.Reader) ([]models.Record, error) {
	var rows []map[string]interface{}
	if err := yaml.NewDecoder(r).Decode(&rows); err != nil {
		if errors.Is(err, io.EOF) {
			return []models.Record{}, nil
		}
		return nil, fmt.Errorf("invalid YAML records: %w", err)
	}
	return toRecords(rows), nil
}

func toRecords(rows []map[string]interface{}) []models.Record {
	out := make([]models.Record, len(rows))
	for i, row := range rows {
		out[i] = models.Record(row)
	}
	return out
}
