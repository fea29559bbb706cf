package sheets

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/timbersport/ranking-system/models"
)

// Settings describes the tournament a sheet is being ingested for:
// which disciplines were actually held and the maximum points per
// discipline. Disciplines not listed in ActiveEvents are never read
// from the sheet.
type Settings struct {
	ActiveEvents []models.EventName           `json:"active_events"`
	TotalPoints  map[models.EventName]float64 `json:"total_points"`
}

// Active reports whether the given discipline was held.
func (s Settings) Active(event models.EventName) bool {
	for _, e := range s.ActiveEvents {
		if e == event {
			return true
		}
	}
	return false
}

// TotalFor returns the configured maximum for a discipline, falling
// back to the default when unset or nonsensical.
func (s Settings) TotalFor(event models.EventName) float64 {
	if total, ok := s.TotalPoints[event]; ok && total > 0 {
		return total
	}
	return models.DefaultTotalPoints
}

// ParsedCompetitor is one accepted data row. Earned holds a value for
// every discipline: the classified score for active ones, nil for
// inactive ones.
type ParsedCompetitor struct {
	Name   string                        `json:"name"`
	Email  *string                       `json:"email,omitempty"`
	Earned map[models.EventName]*float64 `json:"earned"`
}

// ParseResult is the outcome of classifying a sheet. Errors are fatal:
// when non-empty, Competitors is empty and nothing may be committed.
// Warnings describe defaulted or skipped values and do not block commit.
type ParseResult struct {
	Competitors []ParsedCompetitor `json:"competitors"`
	Warnings    []string           `json:"warnings"`
	Errors      []string           `json:"errors"`
}

// HasFatal reports whether the sheet was rejected outright.
func (r ParseResult) HasFatal() bool {
	return len(r.Errors) > 0
}

// Parse classifies raw CSV text into per-competitor results.
func Parse(raw string, settings Settings) ParseResult {
	rows, err := readCSV(raw)
	if err != nil {
		return ParseResult{
			Warnings: []string{},
			Errors:   []string{fmt.Sprintf("could not read sheet: %v", err)},
		}
	}
	return classifyRows(rows, settings)
}

func readCSV(raw string) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// classifyRows is the shared back end for the CSV and XLSX front ends.
func classifyRows(rows [][]string, settings Settings) ParseResult {
	result := ParseResult{
		Competitors: []ParsedCompetitor{},
		Warnings:    []string{},
		Errors:      []string{},
	}

	rows = dropEmptyRows(rows)
	if len(rows) < 2 {
		result.Errors = append(result.Errors, "sheet must contain a header row and at least one data row")
		return result
	}

	headerIdx, columns, found := detectHeader(rows)
	if !found {
		result.Errors = append(result.Errors,
			fmt.Sprintf("no header row found: none of the first %d rows contains a competitor name column", headerScanWindow))
		return result
	}
	if headerIdx > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("skipped %d leading row(s) before the header", headerIdx))
	}

	// One warning per missing active-event column, not one per row.
	for _, event := range models.AllEvents {
		if !settings.Active(event) {
			continue
		}
		if _, ok := columns[eventField(event)]; !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("no %s column found: all competitors will be scored 0 for it", event))
		}
	}

	seen := make(map[string]bool)
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		line := i + 1 // human-facing, 1-based

		name := strings.TrimSpace(cellAt(row, columns[fieldName]))
		if name == "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("row %d: blank competitor name, row skipped", line))
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("row %d: duplicate competitor %q, row skipped (first occurrence wins)", line, name))
			continue
		}
		seen[key] = true

		competitor := ParsedCompetitor{
			Name:   name,
			Earned: make(map[models.EventName]*float64, len(models.AllEvents)),
		}
		if emailIdx, ok := columns[fieldEmail]; ok {
			if email := strings.TrimSpace(cellAt(row, emailIdx)); email != "" {
				competitor.Email = &email
			}
		}

		for _, event := range models.AllEvents {
			if !settings.Active(event) {
				competitor.Earned[event] = nil
				continue
			}
			colIdx, hasColumn := columns[eventField(event)]
			if !hasColumn {
				competitor.Earned[event] = floatPtr(0)
				continue
			}
			value, warnings := classifyCell(cellAt(row, colIdx), event, settings.TotalFor(event), line)
			result.Warnings = append(result.Warnings, warnings...)
			competitor.Earned[event] = &value
		}

		result.Competitors = append(result.Competitors, competitor)
	}

	if len(result.Competitors) == 0 {
		result.Errors = append(result.Errors, "no competitor rows found after the header")
		result.Competitors = []ParsedCompetitor{}
	}
	return result
}

// classifyCell applies the per-cell rules for an active discipline:
// blank, non-numeric and negative values default to 0 with a warning;
// values above the configured maximum are accepted but flagged.
func classifyCell(raw string, event models.EventName, totalPoints float64, line int) (float64, []string) {
	cell := strings.TrimSpace(raw)
	if cell == "" {
		return 0, []string{fmt.Sprintf("row %d: blank %s value treated as 0", line, event)}
	}

	value, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, []string{fmt.Sprintf("row %d: non-numeric %s value %q treated as 0", line, event, cell)}
	}
	if value < 0 {
		return 0, []string{fmt.Sprintf("row %d: negative %s value %v treated as 0", line, event, value)}
	}
	if value > totalPoints {
		// Suspicious but not invalid: kept as-is, no clamp.
		return value, []string{fmt.Sprintf("row %d: %s value %v exceeds the event maximum of %v", line, event, value, totalPoints)}
	}
	return value, nil
}

func dropEmptyRows(rows [][]string) [][]string {
	kept := rows[:0:0]
	for _, row := range rows {
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if !empty {
			kept = append(kept, row)
		}
	}
	return kept
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func floatPtr(v float64) *float64 {
	return &v
}
