package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
)

// ParseAttendeesCSV reads attendees from a CSV file with a header row.
// Recognised columns (case-insensitive): id, name, company, table, checkedin.
// Only name is required.
func ParseAttendeesCSV(r io.Reader) ([]models.AttendeeInput, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty csv", models.ErrInvalidArgument)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("%w: csv header has no name column", models.ErrInvalidArgument)
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var attendees []models.AttendeeInput
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		name := field(record, "name")
		if name == "" {
			return nil, fmt.Errorf("%w: line %d has no name", models.ErrInvalidArgument, line)
		}
		checkedIn := false
		if v := field(record, "checkedin"); v != "" {
			checkedIn, err = strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: checkedin %q", models.ErrInvalidArgument, line, v)
			}
		}
		attendees = append(attendees, models.AttendeeInput{
			ID:        field(record, "id"),
			Name:      name,
			Company:   field(record, "company"),
			Table:     field(record, "table"),
			CheckedIn: checkedIn,
		})
	}
	return attendees, nil
}
