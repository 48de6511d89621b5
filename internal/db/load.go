package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/crewscheduler/backend/internal/models"
)

// Load reads every table into a document in one repeatable-read
// transaction, so the snapshot is consistent across tables.
func (s *Store) Load(ctx context.Context) (models.Document, error) {
	var doc models.Document
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return doc, fmt.Errorf("begin load: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	loaders := []struct {
		name string
		fn   func(context.Context, pgx.Tx, *models.Document) error
	}{
		{"users", loadUsers},
		{"crew_members", loadCrew},
		{"aircraft", loadAircraft},
		{"flights", loadFlights},
		{"schedules", loadSchedules},
		{"shifts", loadShifts},
		{"airports", loadAirports},
	}
	for _, l := range loaders {
		if err := l.fn(ctx, tx, &doc); err != nil {
			return models.Document{}, fmt.Errorf("load %s: %w", l.name, err)
		}
	}
	return doc, tx.Commit(ctx)
}

func loadUsers(ctx context.Context, tx pgx.Tx, doc *models.Document) error {
	rows, err := tx.Query(ctx, `SELECT username, password, name, role, email FROM users ORDER BY username`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.Username, &u.Password, &u.Name, &u.Role, &u.Email); err != nil {
			return err
		}
		doc.Users = append(doc.Users, u)
	}
	return rows.Err()
}

func loadCrew(ctx context.Context, tx pgx.Tx, doc *models.Document) error {
	rows, err := tx.Query(ctx, `SELECT id, name, role, status, base_location, email, phone FROM crew_members ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var c models.CrewMember
		if err := rows.Scan(&c.ID, &c.Name, &c.Role, &c.Status, &c.BaseLocation, &c.Email, &c.Phone); err != nil {
			return err
		}
		doc.CrewMembers = append(doc.CrewMembers, c)
	}
	return rows.Err()
}

func loadAircraft(ctx context.Context, tx pgx.Tx, doc *models.Document) error {
	rows, err := tx.Query(ctx, `SELECT id, registration, type, model, status, location FROM aircraft ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var a models.Aircraft
		if err := rows.Scan(&a.ID, &a.Registration, &a.Type, &a.Model, &a.Status, &a.Location); err != nil {
			return err
		}
		doc.Aircraft = append(doc.Aircraft, a)
	}
	return rows.Err()
}

func loadFlights(ctx context.Context, tx pgx.Tx, doc *models.Document) error {
	rows, err := tx.Query(ctx, `SELECT id, flight_number, origin, destination, departure_time, arrival_time, aircraft_id, status, delay_reason FROM flights ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var f models.Flight
		if err := rows.Scan(&f.ID, &f.FlightNumber, &f.Origin, &f.Destination, &f.DepartureTime, &f.ArrivalTime, &f.AircraftID, &f.Status, &f.DelayReason); err != nil {
			return err
		}
		doc.Flights = append(doc.Flights, f)
	}
	return rows.Err()
}

func loadSchedules(ctx context.Context, tx pgx.Tx, doc *models.Document) error {
	rows, err := tx.Query(ctx, `SELECT id, flight_id, status, notes FROM schedules ORDER BY id`)
	if err != nil {
		return err
	}
	idx := map[string]int{}
	for rows.Next() {
		var sc models.Schedule
		if err := rows.Scan(&sc.ID, &sc.FlightID, &sc.Status, &sc.Notes); err != nil {
			rows.Close()
			return err
		}
		idx[sc.ID] = len(doc.Schedules)
		doc.Schedules = append(doc.Schedules, sc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = tx.Query(ctx, `SELECT schedule_id, crew_id, role, duty_start, duty_end FROM crew_assignments ORDER BY schedule_id, position`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var scheduleID string
		var a models.CrewAssignment
		if err := rows.Scan(&scheduleID, &a.CrewID, &a.Role, &a.DutyStart, &a.DutyEnd); err != nil {
			return err
		}
		if i, ok := idx[scheduleID]; ok {
			doc.Schedules[i].CrewAssignments = append(doc.Schedules[i].CrewAssignments, a)
		}
	}
	return rows.Err()
}

func loadShifts(ctx context.Context, tx pgx.Tx, doc *models.Document) error {
	rows, err := tx.Query(ctx, `SELECT id, crew_id, shift_date, start_time, end_time, shift_type, location, status, required_roles, pay_rate, notes FROM shifts ORDER BY shift_date, start_time, id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var sh models.Shift
		var pay pgtype.Numeric
		if err := rows.Scan(&sh.ID, &sh.CrewID, &sh.ShiftDate, &sh.StartTime, &sh.EndTime, &sh.ShiftType, &sh.Location, &sh.Status, &sh.RequiredRoles, &pay, &sh.Notes); err != nil {
			return err
		}
		sh.PayRate = numericToDecimal(pay)
		doc.Shifts = append(doc.Shifts, sh)
	}
	return rows.Err()
}

func loadAirports(ctx context.Context, tx pgx.Tx, doc *models.Document) error {
	rows, err := tx.Query(ctx, `SELECT code, name, city, country, timezone, lat, lon FROM airports ORDER BY code`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var a models.Airport
		if err := rows.Scan(&a.Code, &a.Name, &a.City, &a.Country, &a.Timezone, &a.Coordinates.Lat, &a.Coordinates.Lon); err != nil {
			return err
		}
		doc.Airports = append(doc.Airports, a)
	}
	return rows.Err()
}

func numericToDecimal(n pgtype.Numeric) decimal.NullDecimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromBigInt(n.Int, n.Exp))
}

func decimalToNumeric(d decimal.NullDecimal) pgtype.Numeric {
	if !d.Valid {
		return pgtype.Numeric{}
	}
	return pgtype.Numeric{Int: d.Decimal.Coefficient(), Exp: d.Decimal.Exponent(), Valid: true}
}
