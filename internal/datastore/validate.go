package datastore

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/crewscheduler/backend/internal/models"
)

// MalformedRecordError wraps record-level problems. The document is still
// usable; affected records degrade instead of failing the load.
type MalformedRecordError struct {
	Err error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%d malformed record(s): %v", len(multierr.Errors(e.Err)), e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// validateDocument reports missing identifiers and dangling references.
func validateDocument(doc models.Document) error {
	var errs error
	crew := make(map[string]bool, len(doc.CrewMembers))
	for i, c := range doc.CrewMembers {
		if c.ID == "" {
			errs = multierr.Append(errs, fmt.Errorf("crew_members[%d]: missing id", i))
			continue
		}
		crew[c.ID] = true
	}
	flights := make(map[string]bool, len(doc.Flights))
	for i, f := range doc.Flights {
		if f.ID == "" {
			errs = multierr.Append(errs, fmt.Errorf("flights[%d]: missing id", i))
			continue
		}
		flights[f.ID] = true
	}
	for i, u := range doc.Users {
		if u.Username == "" {
			errs = multierr.Append(errs, fmt.Errorf("users[%d]: missing username", i))
		}
	}
	for i, s := range doc.Shifts {
		if s.ID == "" {
			errs = multierr.Append(errs, fmt.Errorf("shifts[%d]: missing id", i))
		}
		if s.Assigned() && !crew[*s.CrewID] {
			errs = multierr.Append(errs, fmt.Errorf("shifts[%d]: unknown crew_id %q", i, *s.CrewID))
		}
	}
	for i, sc := range doc.Schedules {
		if !flights[sc.FlightID] {
			errs = multierr.Append(errs, fmt.Errorf("schedules[%d]: unknown flight_id %q", i, sc.FlightID))
		}
		for j, a := range sc.CrewAssignments {
			if !crew[a.CrewID] {
				errs = multierr.Append(errs, fmt.Errorf("schedules[%d].crew_assignments[%d]: unknown crew_id %q", i, j, a.CrewID))
			}
		}
	}
	return errs
}
