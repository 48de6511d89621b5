package datastore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/crewscheduler/backend/internal/models"
)

// CSVSource reads one file per section from Dir. Missing files yield empty
// sections; a missing directory is a not-found load error.
type CSVSource struct {
	Dir string
}

func (s CSVSource) Kind() string { return "csv" }
func (s CSVSource) Path() string { return s.Dir }

func (s CSVSource) Load(ctx context.Context) (models.Document, error) {
	info, err := os.Stat(s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Document{}, &LoadError{Kind: LoadNotFound, Path: s.Dir, Err: err}
		}
		return models.Document{}, &LoadError{Kind: LoadFailed, Path: s.Dir, Err: err}
	}
	if !info.IsDir() {
		return models.Document{}, &LoadError{Kind: LoadMalformed, Path: s.Dir, Format: "CSV", Err: fmt.Errorf("not a directory")}
	}

	var doc models.Document
	assignments := map[string][]models.CrewAssignment{}
	readers := []struct {
		file string
		row  func(rec []string, idx map[string]int) error
	}{
		{"users.csv", func(rec []string, idx map[string]int) error {
			doc.Users = append(doc.Users, models.User{
				Username: getField(rec, idx, "username"),
				Password: getField(rec, idx, "password"),
				Name:     getField(rec, idx, "name"),
				Role:     getField(rec, idx, "role"),
				Email:    getField(rec, idx, "email"),
			})
			return nil
		}},
		{"crew_members.csv", func(rec []string, idx map[string]int) error {
			doc.CrewMembers = append(doc.CrewMembers, models.CrewMember{
				ID:           getFieldAny(rec, idx, "id", "crew_id"),
				Name:         getField(rec, idx, "name"),
				Role:         getField(rec, idx, "role"),
				Status:       getField(rec, idx, "status"),
				BaseLocation: getFieldAny(rec, idx, "base_location", "base"),
				Email:        getField(rec, idx, "email"),
				Phone:        getField(rec, idx, "phone"),
			})
			return nil
		}},
		{"aircraft.csv", func(rec []string, idx map[string]int) error {
			doc.Aircraft = append(doc.Aircraft, models.Aircraft{
				ID:           getField(rec, idx, "id"),
				Registration: getFieldAny(rec, idx, "registration", "tail_number"),
				Type:         getField(rec, idx, "type"),
				Model:        getField(rec, idx, "model"),
				Status:       getField(rec, idx, "status"),
				Location:     getFieldAny(rec, idx, "location", "base"),
			})
			return nil
		}},
		{"flights.csv", func(rec []string, idx map[string]int) error {
			doc.Flights = append(doc.Flights, models.Flight{
				ID:            getField(rec, idx, "id"),
				FlightNumber:  getField(rec, idx, "flight_number"),
				Origin:        getField(rec, idx, "origin"),
				Destination:   getField(rec, idx, "destination"),
				DepartureTime: getField(rec, idx, "departure_time"),
				ArrivalTime:   getField(rec, idx, "arrival_time"),
				AircraftID:    getField(rec, idx, "aircraft_id"),
				Status:        getField(rec, idx, "status"),
				DelayReason:   getField(rec, idx, "delay_reason"),
			})
			return nil
		}},
		{"schedules.csv", func(rec []string, idx map[string]int) error {
			doc.Schedules = append(doc.Schedules, models.Schedule{
				ID:       getField(rec, idx, "id"),
				FlightID: getField(rec, idx, "flight_id"),
				Status:   getField(rec, idx, "status"),
				Notes:    getField(rec, idx, "notes"),
			})
			return nil
		}},
		{"crew_assignments.csv", func(rec []string, idx map[string]int) error {
			scheduleID := getField(rec, idx, "schedule_id")
			if scheduleID == "" {
				return fmt.Errorf("crew assignment without schedule_id")
			}
			assignments[scheduleID] = append(assignments[scheduleID], models.CrewAssignment{
				CrewID:    getField(rec, idx, "crew_id"),
				Role:      getField(rec, idx, "role"),
				DutyStart: getField(rec, idx, "duty_start"),
				DutyEnd:   getField(rec, idx, "duty_end"),
			})
			return nil
		}},
		{"shifts.csv", func(rec []string, idx map[string]int) error {
			shift := models.Shift{
				ID:            getField(rec, idx, "id"),
				ShiftDate:     getFieldAny(rec, idx, "shift_date", "date"),
				StartTime:     getField(rec, idx, "start_time"),
				EndTime:       getField(rec, idx, "end_time"),
				ShiftType:     getField(rec, idx, "shift_type"),
				Location:      getField(rec, idx, "location"),
				Status:        getField(rec, idx, "status"),
				RequiredRoles: splitList(getField(rec, idx, "required_roles")),
				Notes:         getField(rec, idx, "notes"),
			}
			if crewID := getField(rec, idx, "crew_id"); crewID != "" {
				shift.CrewID = &crewID
			}
			var rowErr error
			if raw := getField(rec, idx, "pay_rate"); raw != "" {
				rate, err := decimal.NewFromString(raw)
				if err != nil {
					rowErr = fmt.Errorf("shift %s: pay_rate %q: %w", shift.ID, raw, err)
				} else {
					shift.PayRate = decimal.NewNullDecimal(rate)
				}
			}
			doc.Shifts = append(doc.Shifts, shift)
			return rowErr
		}},
		{"airports.csv", func(rec []string, idx map[string]int) error {
			ap := models.Airport{
				Code:     getField(rec, idx, "code"),
				Name:     getField(rec, idx, "name"),
				City:     getField(rec, idx, "city"),
				Country:  getField(rec, idx, "country"),
				Timezone: getField(rec, idx, "timezone"),
			}
			var rowErr error
			ap.Coordinates.Lat, rowErr = parseCoord(getFieldAny(rec, idx, "lat", "latitude"))
			lon, err := parseCoord(getFieldAny(rec, idx, "lon", "lng", "longitude"))
			ap.Coordinates.Lon = lon
			doc.Airports = append(doc.Airports, ap)
			if err := multierr.Append(rowErr, err); err != nil {
				return fmt.Errorf("airport %s: %w", ap.Code, err)
			}
			return nil
		}},
	}

	var warnings error
	for _, r := range readers {
		if err := ctx.Err(); err != nil {
			return models.Document{}, err
		}
		path := filepath.Join(s.Dir, r.file)
		errs, err := readCSV(path, r.row)
		if err != nil {
			return models.Document{}, err
		}
		warnings = multierr.Append(warnings, errs)
	}
	for i := range doc.Schedules {
		doc.Schedules[i].CrewAssignments = assignments[doc.Schedules[i].ID]
	}
	if warnings != nil {
		return doc, &MalformedRecordError{Err: warnings}
	}
	return doc, nil
}

// readCSV feeds every data row of path to row. Row failures are collected
// into warnings; only file-level problems are returned as err.
func readCSV(path string, row func([]string, map[string]int) error) (warnings, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &LoadError{Kind: LoadFailed, Path: path, Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	headers, rerr := reader.Read()
	if rerr == io.EOF {
		return nil, nil
	}
	if rerr != nil {
		return nil, &LoadError{Kind: LoadMalformed, Path: path, Format: "CSV", Err: rerr}
	}
	idx := headerIndex(headers)

	line := 1
	for {
		rec, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			warnings = multierr.Append(warnings, fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err))
			continue
		}
		if err := row(rec, idx); err != nil {
			warnings = multierr.Append(warnings, fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err))
		}
	}
	return warnings, nil
}

func headerIndex(headers []string) map[string]int {
	idx := map[string]int{}
	for i, h := range headers {
		idx[normalizeHeader(h)] = i
	}
	return idx
}

func getField(rec []string, idx map[string]int, name string) string {
	pos, ok := idx[name]
	if !ok || pos >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[pos])
}

func getFieldAny(rec []string, idx map[string]int, names ...string) string {
	for _, name := range names {
		if v := getField(rec, idx, normalizeHeader(name)); v != "" {
			return v
		}
	}
	return ""
}

func normalizeHeader(h string) string {
	h = strings.ReplaceAll(h, "\ufeff", "")
	return strings.ToLower(strings.TrimSpace(h))
}

// splitList splits a ";" or "," separated cell.
func splitList(raw string) []string {
	raw = strings.ReplaceAll(raw, ";", ",")
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseCoord(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("coordinate %q: %w", raw, err)
	}
	return v, nil
}
