package datastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/multierr"

	"github.com/crewscheduler/backend/internal/models"
)

// Source produces a fresh Document on every call to Load.
type Source interface {
	Kind() string
	Path() string
	Load(ctx context.Context) (models.Document, error)
}

var ErrUnknownSource = errors.New("unknown data source")

type LoadErrorKind int

const (
	LoadNotFound LoadErrorKind = iota
	LoadMalformed
	LoadFailed
)

// LoadError is a document-level failure. Its message is shown to users
// verbatim by every data-dependent reply.
type LoadError struct {
	Kind   LoadErrorKind
	Path   string
	Format string
	Err    error
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case LoadNotFound:
		return fmt.Sprintf("❌ Error: %s not found. Please ensure the data file exists.", e.Path)
	case LoadMalformed:
		return fmt.Sprintf("❌ Error: Invalid %s format in %s: %v", e.Format, e.Path, e.Err)
	default:
		return fmt.Sprintf("❌ Error loading data file: %v", e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

// asLoadError maps any error into the user-facing load error shape.
func asLoadError(err error) *LoadError {
	var le *LoadError
	if errors.As(err, &le) {
		return le
	}
	return &LoadError{Kind: LoadFailed, Err: err}
}

type JSONSource struct {
	File string
}

func (s JSONSource) Kind() string { return "json" }
func (s JSONSource) Path() string { return s.File }

func (s JSONSource) Load(ctx context.Context) (models.Document, error) {
	if err := ctx.Err(); err != nil {
		return models.Document{}, err
	}
	b, err := os.ReadFile(s.File)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Document{}, &LoadError{Kind: LoadNotFound, Path: s.File, Err: err}
		}
		return models.Document{}, &LoadError{Kind: LoadFailed, Path: s.File, Err: err}
	}
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(b, &sections); err != nil {
		return models.Document{}, &LoadError{Kind: LoadMalformed, Path: s.File, Format: "JSON", Err: err}
	}

	var doc models.Document
	var warnings error
	decodeSection(sections, "users", &doc.Users, &warnings)
	decodeSection(sections, "crew_members", &doc.CrewMembers, &warnings)
	decodeSection(sections, "aircraft", &doc.Aircraft, &warnings)
	decodeSection(sections, "flights", &doc.Flights, &warnings)
	decodeSection(sections, "schedules", &doc.Schedules, &warnings)
	decodeSection(sections, "shifts", &doc.Shifts, &warnings)
	decodeSection(sections, "airports", &doc.Airports, &warnings)
	if warnings != nil {
		return doc, &MalformedRecordError{Err: warnings}
	}
	return doc, nil
}

// decodeSection decodes one top-level array record by record. A record
// that does not decode is skipped and reported in warnings.
func decodeSection[T any](sections map[string]json.RawMessage, name string, dst *[]T, warnings *error) {
	raw, ok := sections[name]
	if !ok || string(raw) == "null" {
		return
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		*warnings = multierr.Append(*warnings, fmt.Errorf("%s: %w", name, err))
		return
	}
	out := make([]T, 0, len(records))
	for i, rec := range records {
		var v T
		if err := json.Unmarshal(rec, &v); err != nil {
			*warnings = multierr.Append(*warnings, fmt.Errorf("%s[%d]: %w", name, i, err))
			continue
		}
		out = append(out, v)
	}
	*dst = out
}

// FileSource builds a file-backed source. Database sources are built by
// the caller.
func FileSource(kind, path string) (Source, error) {
	switch kind {
	case "json":
		return JSONSource{File: path}, nil
	case "csv":
		return CSVSource{Dir: path}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
}
