package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/crewscheduler/backend/internal/models"
)

var tables = []string{"crew_assignments", "schedules", "shifts", "flights", "aircraft", "crew_members", "airports", "users"}

// Import replaces the contents of every table with doc in one transaction
// and returns the row count copied per table.
func (s *Store) Import(ctx context.Context, doc models.Document) (map[string]int64, error) {
	counts := map[string]int64{}
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "TRUNCATE "+joinIdents(tables)); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}
		for _, t := range copyPlan(doc) {
			n, err := tx.CopyFrom(ctx, pgx.Identifier{t.table}, t.columns, pgx.CopyFromRows(t.rows))
			if err != nil {
				return fmt.Errorf("copy %s: %w", t.table, err)
			}
			counts[t.table] = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

type tableCopy struct {
	table   string
	columns []string
	rows    [][]any
}

// copyPlan orders tables so that schedules precede their assignments.
func copyPlan(doc models.Document) []tableCopy {
	users := tableCopy{table: "users", columns: []string{"username", "password", "name", "role", "email"}}
	for _, u := range doc.Users {
		users.rows = append(users.rows, []any{u.Username, u.Password, u.Name, u.Role, u.Email})
	}

	crew := tableCopy{table: "crew_members", columns: []string{"id", "name", "role", "status", "base_location", "email", "phone"}}
	for _, c := range doc.CrewMembers {
		crew.rows = append(crew.rows, []any{c.ID, c.Name, c.Role, c.Status, c.BaseLocation, c.Email, c.Phone})
	}

	aircraft := tableCopy{table: "aircraft", columns: []string{"id", "registration", "type", "model", "status", "location"}}
	for _, a := range doc.Aircraft {
		aircraft.rows = append(aircraft.rows, []any{a.ID, a.Registration, a.Type, a.Model, a.Status, a.Location})
	}

	flights := tableCopy{table: "flights", columns: []string{"id", "flight_number", "origin", "destination", "departure_time", "arrival_time", "aircraft_id", "status", "delay_reason"}}
	for _, f := range doc.Flights {
		flights.rows = append(flights.rows, []any{f.ID, f.FlightNumber, f.Origin, f.Destination, f.DepartureTime, f.ArrivalTime, f.AircraftID, f.Status, f.DelayReason})
	}

	schedules := tableCopy{table: "schedules", columns: []string{"id", "flight_id", "status", "notes"}}
	assignments := tableCopy{table: "crew_assignments", columns: []string{"schedule_id", "position", "crew_id", "role", "duty_start", "duty_end"}}
	for _, sc := range doc.Schedules {
		schedules.rows = append(schedules.rows, []any{sc.ID, sc.FlightID, sc.Status, sc.Notes})
		for i, a := range sc.CrewAssignments {
			assignments.rows = append(assignments.rows, []any{sc.ID, int32(i), a.CrewID, a.Role, a.DutyStart, a.DutyEnd})
		}
	}

	shifts := tableCopy{table: "shifts", columns: []string{"id", "crew_id", "shift_date", "start_time", "end_time", "shift_type", "location", "status", "required_roles", "pay_rate", "notes"}}
	for _, sh := range doc.Shifts {
		roles := sh.RequiredRoles
		if roles == nil {
			roles = []string{}
		}
		var crewID *string
		if sh.Assigned() {
			crewID = sh.CrewID
		}
		shifts.rows = append(shifts.rows, []any{sh.ID, crewID, sh.ShiftDate, sh.StartTime, sh.EndTime, sh.ShiftType, sh.Location, sh.Status, roles, decimalToNumeric(sh.PayRate), sh.Notes})
	}

	airports := tableCopy{table: "airports", columns: []string{"code", "name", "city", "country", "timezone", "lat", "lon"}}
	for _, a := range doc.Airports {
		airports.rows = append(airports.rows, []any{a.Code, a.Name, a.City, a.Country, a.Timezone, a.Coordinates.Lat, a.Coordinates.Lon})
	}

	return []tableCopy{users, crew, aircraft, flights, schedules, assignments, shifts, airports}
}

func joinIdents(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += pgx.Identifier{n}.Sanitize()
	}
	return out
}
