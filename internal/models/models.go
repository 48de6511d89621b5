package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type User struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Email    string `json:"email,omitempty"`
}

// Public returns a copy without the stored credential.
func (u User) Public() User {
	u.Password = ""
	return u
}

type CrewMember struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	BaseLocation string `json:"base_location"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

// UnmarshalJSON also accepts the generator layout where contact details
// live under "contact" and the base airport under "base".
func (c *CrewMember) UnmarshalJSON(b []byte) error {
	type plain CrewMember
	var raw struct {
		plain
		Base    string `json:"base"`
		Contact struct {
			Email string `json:"email"`
			Phone string `json:"phone"`
		} `json:"contact"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*c = CrewMember(raw.plain)
	if c.BaseLocation == "" {
		c.BaseLocation = raw.Base
	}
	if c.Email == "" {
		c.Email = raw.Contact.Email
	}
	if c.Phone == "" {
		c.Phone = raw.Contact.Phone
	}
	return nil
}

type Shift struct {
	ID            string              `json:"id"`
	CrewID        *string             `json:"crew_id"`
	ShiftDate     string              `json:"shift_date"`
	StartTime     string              `json:"start_time"`
	EndTime       string              `json:"end_time"`
	ShiftType     string              `json:"shift_type"`
	Location      string              `json:"location"`
	Status        string              `json:"status"`
	RequiredRoles []string            `json:"required_roles,omitempty"`
	PayRate       decimal.NullDecimal `json:"pay_rate"`
	Notes         string              `json:"notes,omitempty"`
}

// Assigned reports whether a crew member holds the shift.
func (s Shift) Assigned() bool {
	return s.CrewID != nil && *s.CrewID != ""
}

type Flight struct {
	ID            string `json:"id"`
	FlightNumber  string `json:"flight_number"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	AircraftID    string `json:"aircraft_id"`
	Status        string `json:"status"`
	DelayReason   string `json:"delay_reason,omitempty"`
}

const (
	FlightScheduled = "scheduled"
	FlightInFlight  = "in_flight"
	FlightCompleted = "completed"
	FlightDelayed   = "delayed"
	FlightCancelled = "cancelled"
)

type CrewAssignment struct {
	CrewID    string `json:"crew_id"`
	Role      string `json:"role"`
	DutyStart string `json:"duty_start,omitempty"`
	DutyEnd   string `json:"duty_end,omitempty"`
}

type Schedule struct {
	ID              string           `json:"id"`
	FlightID        string           `json:"flight_id"`
	CrewAssignments []CrewAssignment `json:"crew_assignments"`
	Status          string           `json:"status"`
	Notes           string           `json:"notes,omitempty"`
}

type Aircraft struct {
	ID           string `json:"id"`
	Registration string `json:"registration"`
	Type         string `json:"type"`
	Model        string `json:"model,omitempty"`
	Status       string `json:"status"`
	Location     string `json:"location"`
}

// UnmarshalJSON falls back to "base" when no location is recorded.
func (a *Aircraft) UnmarshalJSON(b []byte) error {
	type plain Aircraft
	var raw struct {
		plain
		Base string `json:"base"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*a = Aircraft(raw.plain)
	if a.Location == "" {
		a.Location = raw.Base
	}
	return nil
}

const (
	AircraftActive      = "active"
	AircraftMaintenance = "maintenance"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Airport struct {
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	City        string      `json:"city"`
	Country     string      `json:"country"`
	Timezone    string      `json:"timezone"`
	Coordinates Coordinates `json:"coordinates"`
}

// Document is the on-disk layout of a data snapshot.
type Document struct {
	Users       []User       `json:"users"`
	CrewMembers []CrewMember `json:"crew_members"`
	Aircraft    []Aircraft   `json:"aircraft"`
	Flights     []Flight     `json:"flights"`
	Schedules   []Schedule   `json:"schedules"`
	Shifts      []Shift      `json:"shifts"`
	Airports    []Airport    `json:"airports"`
}
