package datastore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestCSVSourceLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "users.csv"), "\ufeffusername,password,name,role\npilot1,pilot123,Captain Sarah Johnson,pilot\n")
	writeFile(t, filepath.Join(dir, "crew_members.csv"), "id,name,role,status,base,email,phone\nCREW001,Captain Sarah Johnson,pilot,available,LAX,s.johnson@airline.com,+1-555-0101\n")
	writeFile(t, filepath.Join(dir, "flights.csv"), "id,flight_number,origin,destination,departure_time,status\nFL1,AA1,LAX,JFK,2025-06-01 08:00:00,scheduled\n")
	writeFile(t, filepath.Join(dir, "schedules.csv"), "id,flight_id,status\nSCH1,FL1,confirmed\n")
	writeFile(t, filepath.Join(dir, "crew_assignments.csv"), "schedule_id,crew_id,role\nSCH1,CREW001,captain\n")
	writeFile(t, filepath.Join(dir, "shifts.csv"),
		"id,crew_id,shift_date,start_time,end_time,shift_type,location,status,required_roles,pay_rate\n"+
			"SH1,,2025-06-03,14:00,22:00,Cockpit standby,JFK,scheduled,pilot;admin,85.00\n"+
			"SH2,CREW001,2025-06-04,06:00,14:00,Morning,LAX,scheduled,,abc\n")
	writeFile(t, filepath.Join(dir, "airports.csv"), "code,name,lat,lon\nLAX,Los Angeles,33.9425,-118.4081\nJFK,New York,oops,-73.7781\n")

	doc, err := CSVSource{Dir: dir}.Load(context.Background())

	var recErr *MalformedRecordError
	require.True(t, errors.As(err, &recErr), "expected record warnings, got %v", err)
	assert.Len(t, multierr.Errors(recErr.Err), 2)

	require.Len(t, doc.Users, 1)
	assert.Equal(t, "pilot1", doc.Users[0].Username)
	assert.Equal(t, "LAX", doc.CrewMembers[0].BaseLocation)

	require.Len(t, doc.Schedules, 1)
	require.Len(t, doc.Schedules[0].CrewAssignments, 1)
	assert.Equal(t, "captain", doc.Schedules[0].CrewAssignments[0].Role)

	require.Len(t, doc.Shifts, 2)
	assert.Nil(t, doc.Shifts[0].CrewID)
	assert.Equal(t, []string{"pilot", "admin"}, doc.Shifts[0].RequiredRoles)
	assert.Equal(t, "85", doc.Shifts[0].PayRate.Decimal.String())
	assert.False(t, doc.Shifts[1].PayRate.Valid)

	require.Len(t, doc.Airports, 2)
	assert.InDelta(t, -118.4081, doc.Airports[0].Coordinates.Lon, 1e-9)
	assert.Empty(t, doc.Aircraft)
}

func TestCSVSourceMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nope")
	_, err := CSVSource{Dir: dir}.Load(context.Background())

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, LoadNotFound, le.Kind)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList(" a; b ,c,, "))
	assert.Nil(t, splitList(""))
}
