package chatbot

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/crewscheduler/backend/internal/models"
)

// MaxSuggestions caps the follow-up buttons returned with a reply.
const MaxSuggestions = 6

const (
	emptyMessageText = "Please type a message to get started! 😊"
	failureText      = "I encountered an error processing your request. Please try again or contact support."
	missingText      = "Sorry, I encountered an error processing your request."
)

var (
	emptyMessageSuggestions = []string{"My schedule", "Help", "Flight status"}
	failureSuggestions      = []string{"Help", "Contact support", "Try again"}
	defaultSuggestions      = []string{"Help", "My schedule", "Contact support"}
	dataErrorSuggestions    = []string{"Check data file", "Contact admin"}
)

type Response struct {
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions"`
	Intent      Intent   `json:"intent,omitempty"`
}

// SnapshotSource supplies the snapshot a reply is computed against.
type SnapshotSource interface {
	Snapshot() *models.Snapshot
}

// HandlerError is a failure inside one intent handler, including panics.
type HandlerError struct {
	Intent Intent
	Err    error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s handler: %v", e.Intent, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

type Responder struct {
	store  SnapshotSource
	loc    *time.Location
	now    func() time.Time
	logger zerolog.Logger
}

type Option func(*Responder)

func WithClock(now func() time.Time) Option {
	return func(r *Responder) { r.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(r *Responder) {
		if loc != nil {
			r.loc = loc
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(r *Responder) { r.logger = l }
}

func New(store SnapshotSource, opts ...Option) *Responder {
	r := &Responder{
		store:  store,
		loc:    time.Local,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Responder) Location() *time.Location { return r.loc }

// request carries everything a handler may read.
type request struct {
	message string // lower-cased
	user    models.User
	snap    *models.Snapshot
	now     time.Time
	loc     *time.Location
}

func (q request) userName() string {
	if q.user.Name == "" {
		return "User"
	}
	return q.user.Name
}

func (q request) userRole() string {
	if q.user.Role == "" {
		return "user"
	}
	return q.user.Role
}

// Respond classifies message and renders the reply for user. It never
// fails: handler errors and panics become a fixed apology.
func (r *Responder) Respond(message string, user models.User) Response {
	if strings.TrimSpace(message) == "" {
		return Response{Text: emptyMessageText, Suggestions: clone(emptyMessageSuggestions)}
	}
	intent := Classify(message)
	resp, err := r.dispatch(intent, message, user)
	if err != nil {
		r.logger.Error().Err(err).Str("intent", string(intent)).Str("user", user.Username).Msg("chat handler failed")
		resp = Response{Text: failureText, Suggestions: clone(failureSuggestions)}
	}
	resp = normalize(resp)
	resp.Intent = intent
	return resp
}

func (r *Responder) dispatch(intent Intent, message string, user models.User) (resp Response, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &HandlerError{Intent: intent, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()
	snap := r.store.Snapshot()
	if snap == nil {
		snap = models.ErrorSnapshot("❌ Error loading data file: no data loaded", "", time.Time{})
	}
	q := request{
		message: strings.ToLower(message),
		user:    user,
		snap:    snap,
		now:     r.now().In(r.loc),
		loc:     r.loc,
	}
	resp, err = handle(intent, q)
	if err != nil {
		return Response{}, &HandlerError{Intent: intent, Err: err}
	}
	return resp, nil
}

func handle(intent Intent, q request) (Response, error) {
	switch intent {
	case IntentSchedule:
		return scheduleReply(q), nil
	case IntentAvailableShifts:
		return availableShiftsReply(q), nil
	case IntentConflicts:
		return conflictsReply(q), nil
	case IntentStatus:
		return statusReply(q), nil
	case IntentFlight:
		return flightReply(q), nil
	case IntentCrew:
		return crewReply(q), nil
	case IntentAircraft:
		return aircraftReply(q), nil
	case IntentAdmin:
		return adminReply(q), nil
	case IntentWeather:
		return weatherReply(), nil
	case IntentPay:
		return payReply(q), nil
	case IntentOvertime:
		return overtimeReply(), nil
	case IntentSwap:
		return swapReply(), nil
	case IntentLocation:
		return locationReply(), nil
	case IntentContact:
		return contactReply(), nil
	case IntentAirports:
		return airportsReply(), nil
	case IntentTimeOff:
		return timeOffReply(q), nil
	case IntentTraining:
		return trainingReply(q), nil
	case IntentEmergency:
		return emergencyReply(), nil
	case IntentGreeting:
		return greetingReply(q), nil
	case IntentHelp:
		return helpReply(), nil
	case IntentDefault:
		return defaultReply(), nil
	}
	return Response{}, fmt.Errorf("no handler for intent %q", intent)
}

// normalize guarantees a non-empty text and 1..MaxSuggestions suggestions.
func normalize(resp Response) Response {
	if resp.Text == "" {
		resp.Text = missingText
	}
	if len(resp.Suggestions) == 0 {
		resp.Suggestions = clone(defaultSuggestions)
	}
	if len(resp.Suggestions) > MaxSuggestions {
		resp.Suggestions = resp.Suggestions[:MaxSuggestions]
	}
	return resp
}

// dataError is the reply of every data-dependent handler when the snapshot
// failed to load.
func dataError(snap *models.Snapshot) Response {
	return Response{Text: snap.LoadError, Suggestions: clone(dataErrorSuggestions)}
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}

// DefaultSuggestions is the suggestion set attached to free-form answers
// produced outside the intent handlers.
func DefaultSuggestions() []string {
	return clone(fallbackSuggestions)
}
