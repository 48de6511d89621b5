package datastore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
  "users": [{"username": "pilot1", "password": "pilot123", "name": "Captain Sarah Johnson", "role": "pilot"}],
  "crew_members": [{
    "id": "CREW001", "name": "Captain Sarah Johnson", "role": "pilot", "status": "available",
    "base": "LAX", "contact": {"phone": "+1-555-0101", "email": "s.johnson@airline.com"}
  }],
  "aircraft": [{"id": "AC001", "registration": "N123AA", "type": "B737", "status": "active", "base": "LAX"}],
  "flights": [{"id": "FL1000", "flight_number": "AA1000", "origin": "LAX", "destination": "JFK",
    "departure_time": "2025-06-01T08:00:00", "arrival_time": "2025-06-01T13:30:00", "aircraft_id": "AC001", "status": "scheduled"}],
  "schedules": [{"id": "SCH1000", "flight_id": "FL1000", "status": "confirmed",
    "crew_assignments": [{"crew_id": "CREW001", "role": "captain"}]}],
  "shifts": [
    {"id": "SH1", "crew_id": "CREW001", "shift_date": "2025-06-02", "start_time": "06:00", "end_time": "14:00",
     "shift_type": "Morning", "location": "LAX", "status": "scheduled"},
    {"id": "SH2", "crew_id": null, "shift_date": "2025-06-03", "start_time": "14:00", "end_time": "22:00",
     "shift_type": "Cabin service", "location": "JFK", "status": "scheduled", "required_roles": ["steward"], "pay_rate": 42.5}
  ],
  "airports": [{"code": "LAX", "name": "Los Angeles International Airport", "coordinates": {"lat": 33.9425, "lon": -118.4081}}]
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestJSONSourceLoadsGeneratorLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	writeFile(t, path, sampleDoc)

	doc, err := JSONSource{File: path}.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, doc.CrewMembers, 1)
	crew := doc.CrewMembers[0]
	assert.Equal(t, "LAX", crew.BaseLocation)
	assert.Equal(t, "s.johnson@airline.com", crew.Email)
	assert.Equal(t, "+1-555-0101", crew.Phone)
	assert.Equal(t, "LAX", doc.Aircraft[0].Location)

	require.Len(t, doc.Shifts, 2)
	assert.True(t, doc.Shifts[0].Assigned())
	assert.False(t, doc.Shifts[1].Assigned())
	assert.True(t, doc.Shifts[1].PayRate.Valid)
	assert.Equal(t, "42.5", doc.Shifts[1].PayRate.Decimal.String())
	assert.False(t, doc.Shifts[0].PayRate.Valid)
}

func TestJSONSourceMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	_, err := JSONSource{File: path}.Load(context.Background())

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, LoadNotFound, le.Kind)
	assert.Equal(t, "❌ Error: "+path+" not found. Please ensure the data file exists.", err.Error())
}

func TestJSONSourceMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	writeFile(t, path, `{"users": [`)

	_, err := JSONSource{File: path}.Load(context.Background())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "❌ Error: Invalid JSON format in "+path+": "))
}

func TestStoreStartsWithErrorSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	store := NewStore(JSONSource{File: path}, zerolog.Nop())

	snap, err := store.Reload(context.Background())
	require.Error(t, err)
	assert.False(t, snap.Loaded())
	assert.Equal(t, err.Error(), store.Snapshot().LoadError)
	assert.Empty(t, store.Snapshot().Flights)
}

func TestStoreReloadSwapsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	writeFile(t, path, sampleDoc)
	store := NewStore(JSONSource{File: path}, zerolog.Nop())

	first, err := store.Reload(context.Background())
	require.NoError(t, err)
	require.True(t, first.Loaded())
	assert.Equal(t, 1, first.Counts()["flights"])

	writeFile(t, path, `{"flights": [{"id": "A"}, {"id": "B"}]}`)
	second, err := store.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, store.Snapshot().Counts()["flights"])
	assert.NotSame(t, first, second)
	assert.Equal(t, 1, first.Counts()["flights"], "old snapshot must stay intact")
}

func TestStoreReloadFailureKeepsPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	writeFile(t, path, sampleDoc)
	store := NewStore(JSONSource{File: path}, zerolog.Nop())
	good, err := store.Reload(context.Background())
	require.NoError(t, err)

	writeFile(t, path, `not json`)
	snap, err := store.Reload(context.Background())
	require.Error(t, err)
	assert.Same(t, good, snap)
	assert.Same(t, good, store.Snapshot())
}

func TestStoreToleratesMalformedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	writeFile(t, path, `{"shifts": [{"id": "", "crew_id": "NOPE"}], "flights": [{"id": "F1"}]}`)
	store := NewStore(JSONSource{File: path}, zerolog.Nop())

	snap, err := store.Reload(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Loaded())
	assert.Len(t, snap.Shifts, 1)
}

func TestStoreSkipsRecordsThatDoNotDecode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	writeFile(t, path, `{
	  "users": [{"username": "pilot1", "password": "pilot123", "role": "pilot"}],
	  "crew_members": [{"id": "CREW001", "name": "Captain Sarah Johnson"}],
	  "shifts": [
	    {"id": "SH1", "crew_id": "CREW001", "shift_date": "2025-06-02", "pay_rate": "TBD"},
	    {"id": "SH2", "crew_id": "CREW001", "shift_date": "2025-06-03", "pay_rate": 30}
	  ],
	  "airports": {"code": "LAX"}
	}`)

	doc, err := JSONSource{File: path}.Load(context.Background())
	var recErr *MalformedRecordError
	require.True(t, errors.As(err, &recErr), "got %v", err)
	assert.Contains(t, err.Error(), "shifts[0]")
	assert.Contains(t, err.Error(), "airports")
	require.Len(t, doc.Shifts, 1)
	assert.Equal(t, "SH2", doc.Shifts[0].ID)

	store := NewStore(JSONSource{File: path}, zerolog.Nop())
	snap, err := store.Reload(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Loaded())
	assert.Equal(t, 1, snap.Counts()["users"])
	assert.Equal(t, 1, snap.Counts()["shifts"])
	_, ok := snap.UserByUsername("pilot1")
	assert.True(t, ok)
}

func TestValidateDocumentCollectsEveryProblem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	writeFile(t, path, `{
	  "crew_members": [{"name": "no id"}],
	  "schedules": [{"id": "S1", "flight_id": "F9", "crew_assignments": [{"crew_id": "C9"}]}]
	}`)
	doc, err := JSONSource{File: path}.Load(context.Background())
	require.NoError(t, err)

	err = validateDocument(doc)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "crew_members[0]: missing id")
	assert.Contains(t, msg, `unknown flight_id "F9"`)
	assert.Contains(t, msg, `unknown crew_id "C9"`)
}

func TestFileSource(t *testing.T) {
	src, err := FileSource("json", "data.json")
	require.NoError(t, err)
	assert.Equal(t, "json", src.Kind())

	src, err = FileSource("csv", "data")
	require.NoError(t, err)
	assert.Equal(t, "data", src.Path())

	_, err = FileSource("xml", "data.xml")
	assert.ErrorIs(t, err, ErrUnknownSource)
}
