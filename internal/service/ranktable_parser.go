package service

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mocktest-engine/internal/domain"
)

// ParseRankTable reads a two column "marks, rank" payload.
//
// The delimiter is taken from the first data line: comma, semicolon, tab, or
// runs of whitespace. Blank lines and lines starting with '#' are skipped. A
// header is tolerated as the first data line when its first cell is not a number.
// Every bad row is reported in one MalformedRankTable error.
func ParseRankTable(r io.Reader) ([]domain.RankPoint, error) {
	var (
		points  []domain.RankPoint
		rows    []domain.RowError
		split   func(string) []string
		seenRow bool
	)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		if split == nil {
			split = detectSplit(raw)
		}

		cells := split(raw)
		if !seenRow {
			seenRow = true
			if len(cells) > 0 && !looksNumeric(cells[0]) {
				continue
			}
		}

		p, reason := parseRankRow(cells)
		if reason != "" {
			rows = append(rows, domain.RowError{Line: line, Raw: raw, Reason: reason})
			continue
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, domain.NewMalformedRankTableError(fmt.Sprintf("failed to read rank table payload: %v", err), rows)
	}

	if len(points) == 0 && len(rows) > 0 {
		return nil, domain.NewMalformedRankTableError("rank table payload is unparsable", rows)
	}
	if len(rows) > 0 {
		return nil, domain.NewMalformedRankTableError(fmt.Sprintf("%d rank table rows are malformed", len(rows)), rows)
	}
	if len(points) < 2 {
		return nil, domain.NewInsufficientRankDataError(len(points))
	}
	return points, nil
}

func detectSplit(line string) func(string) []string {
	for _, d := range []string{",", ";", "\t"} {
		if strings.Contains(line, d) {
			sep := d
			return func(s string) []string {
				cells := strings.Split(s, sep)
				for i := range cells {
					cells[i] = strings.TrimSpace(cells[i])
				}
				return cells
			}
		}
	}
	return strings.Fields
}

func looksNumeric(cell string) bool {
	_, err := strconv.ParseFloat(cell, 64)
	return err == nil
}

func parseRankRow(cells []string) (domain.RankPoint, string) {
	if len(cells) != 2 {
		return domain.RankPoint{}, fmt.Sprintf("expected 2 columns, got %d", len(cells))
	}
	marks, err := strconv.ParseFloat(cells[0], 64)
	if err != nil {
		return domain.RankPoint{}, fmt.Sprintf("marks %q is not a number", cells[0])
	}
	rank, err := strconv.Atoi(cells[1])
	if err != nil {
		return domain.RankPoint{}, fmt.Sprintf("rank %q is not an integer", cells[1])
	}
	return domain.RankPoint{Marks: marks, Rank: rank}, ""
}
