package helpers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/spektr-org/dreamlight/engine"
	"github.com/spektr-org/dreamlight/schema"
)

// ============================================================================
// CSV HELPER — Parses CSV data into an engine.RecordStore
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, embed, HTTP).
// This helper validates every row against the dataset schema: a row either
// becomes a typed Record or a Rejection with a reason. Nothing is defaulted.
// ============================================================================

// ErrMissingColumn reports a header without a required column.
var ErrMissingColumn = errors.New("missing required column")

// ParseCSV parses CSV bytes into a RecordStore using sch for column binding.
func ParseCSV(data []byte, sch schema.Config) (*engine.RecordStore, error) {
	return ParseCSVReader(bytes.NewReader(data), sch)
}

// ParseKind parses CSV bytes with the built-in schema of kind.
func ParseKind(data []byte, kind engine.DatasetKind) (*engine.RecordStore, error) {
	sch, err := schema.For(kind)
	if err != nil {
		return nil, err
	}
	return ParseCSV(data, sch)
}

// ParseCSVReader is ParseCSV over a stream.
func ParseCSVReader(r io.Reader, sch schema.Config) (*engine.RecordStore, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if missing := sch.MissingColumns(headers); len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w: %s", sch.Name, ErrMissingColumn, strings.Join(missing, ", "))
	}

	cols := bindColumns(headers, sch)

	var (
		records  []engine.Record
		rejected []engine.Rejection
	)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return nil, fmt.Errorf("failed to read CSV: %w", err)
			}
			rejected = append(rejected, engine.Rejection{Line: pe.StartLine, Reason: pe.Err.Error()})
			continue
		}
		line, _ := reader.FieldPos(0)

		recs, reason := decodeRow(row, cols)
		if reason != "" {
			rejected = append(rejected, engine.Rejection{Line: line, Reason: reason})
			continue
		}
		records = append(records, recs...)
	}

	log.Printf("📥 Dreamlight: parsed %s — %d records, %d rejected", sch.Kind, len(records), len(rejected))
	return engine.NewRecordStore(sch.Kind, records, rejected), nil
}

// ============================================================================
// COLUMN BINDING
// ============================================================================

type column struct {
	index    int
	key      string
	label    string
	field    schema.Field
	required bool
	measure  bool
}

func bindColumns(headers []string, sch schema.Config) []column {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, dup := index[schema.ColumnKey(h)]; !dup {
			index[schema.ColumnKey(h)] = i
		}
	}

	var cols []column
	for _, d := range sch.Dimensions {
		if i, ok := index[d.Key]; ok {
			cols = append(cols, column{index: i, key: d.Key, label: d.DisplayName, field: d.Field, required: d.Required})
		}
	}
	for _, m := range sch.Measures {
		if i, ok := index[m.Key]; ok {
			cols = append(cols, column{index: i, key: m.Key, label: m.DisplayName, field: m.Field, required: m.Required, measure: true})
		}
	}
	return cols
}

// decodeRow returns the row's records, or a rejection reason.
func decodeRow(row []string, cols []column) ([]engine.Record, string) {
	var (
		rec    engine.Record
		pivots []engine.Record
	)
	cell := func(c column) string {
		if c.index >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[c.index])
	}

	for _, c := range cols {
		raw := cell(c)
		if raw == "" && c.required {
			return nil, fmt.Sprintf("%s: empty", c.key)
		}

		switch c.field {
		case schema.FieldCity:
			rec.City = raw
		case schema.FieldCategory:
			rec.Category = raw
		case schema.FieldGroup:
			rec.Group = raw
		case schema.FieldTopEmotions:
			rec.TopEmotions = ParseTopEmotions(raw)

		case schema.FieldYear:
			if raw == "" {
				continue
			}
			y, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Sprintf("%s %q: not an integer", c.key, raw)
			}
			rec.Year = y

		case schema.FieldMonth:
			if raw == "" {
				continue
			}
			m, y, err := ParseMonth(raw)
			if err != nil {
				return nil, fmt.Sprintf("%s: %v", c.key, err)
			}
			rec.Month = m
			if rec.Year == 0 {
				rec.Year = y
			}

		case schema.FieldValue:
			n, err := parseNumber(raw, c.required)
			if err != nil {
				return nil, fmt.Sprintf("%s: %v", c.key, err)
			}
			rec.Value = n

		case schema.FieldPivot:
			n, err := parseNumber(raw, c.required)
			if err != nil {
				return nil, fmt.Sprintf("%s: %v", c.key, err)
			}
			pivots = append(pivots, engine.Record{Category: c.label, Value: n})
		}
	}

	if len(pivots) == 0 {
		return []engine.Record{rec}, ""
	}
	for i := range pivots {
		p := pivots[i]
		pivots[i] = rec
		pivots[i].Category = p.Category
		pivots[i].Value = p.Value
	}
	return pivots, ""
}

// parseNumber decodes a numeric cell. Unparseable optional cells are Missing.
func parseNumber(raw string, required bool) (engine.Number, error) {
	f, err := strconv.ParseFloat(raw, 64)
	switch {
	case err == nil && !math.IsNaN(f) && !math.IsInf(f, 0):
		return engine.Some(f), nil
	case !required:
		return engine.Missing, nil
	case err != nil:
		return engine.Missing, fmt.Errorf("%q: not a number", raw)
	default:
		return engine.Missing, fmt.Errorf("%q: not finite", raw)
	}
}

// ============================================================================
// FIELD PARSERS
// ============================================================================

// ParseMonth accepts "3", "03", "2025-03" and "2025-03-14". The year is 0
// when the input carries none.
func ParseMonth(s string) (month, year int, err error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	switch len(parts) {
	case 1:
		month, err = strconv.Atoi(parts[0])
	case 2, 3:
		if year, err = strconv.Atoi(parts[0]); err == nil {
			month, err = strconv.Atoi(parts[1])
		}
	default:
		err = errors.New("unrecognised format")
	}
	if err != nil {
		return 0, 0, fmt.Errorf("month %q: %w", s, err)
	}
	if !engine.ValidMonth(month) {
		return 0, 0, fmt.Errorf("month %q: not in 1–12", s)
	}
	return month, year, nil
}

// ParseTopEmotions splits "Joy:0.42, fear:0.31" into lower-cased labels in
// input order. A weight that does not parse is Missing; entries without a
// label are dropped.
func ParseTopEmotions(s string) []engine.Label {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []engine.Label
	for _, part := range strings.Split(s, ",") {
		name, weight, _ := strings.Cut(part, ":")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		w, _ := parseNumber(strings.TrimSpace(weight), false)
		out = append(out, engine.Label{Name: name, Weight: w})
	}
	return out
}
