// Package wizard models the AI trip-creation flow as a value-typed state
// machine. Reduce is pure: it never performs I/O and never mutates its input.
package wizard

import (
	"errors"
	"fmt"

	"globetrotter/pkg/utils"
)

type Step int

const (
	StepInput Step = iota
	StepRecommending
	StepSelecting
	StepCreating
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepInput:
		return "input"
	case StepRecommending:
		return "recommending"
	case StepSelecting:
		return "selecting"
	case StepCreating:
		return "creating"
	case StepDone:
		return "done"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

type State struct {
	Step            Step             `json:"step"`
	StepName        string           `json:"stepName"`
	Constraints     *TripConstraints `json:"constraints,omitempty"`
	Recommendations *Recommendations `json:"recommendations,omitempty"`
	Plan            *TripPlan        `json:"plan,omitempty"`
	CreatedTrip     *TripSummary     `json:"createdTrip,omitempty"`
	LastError       *StepError       `json:"lastError,omitempty"`
}

// New returns a fresh flow waiting for constraints.
func New() State {
	return State{Step: StepInput, StepName: StepInput.String()}
}

// Event is an input to Reduce.
type Event interface {
	eventName() string
}

type SubmitConstraints struct{ Constraints TripConstraints }
type RecommendationsReceived struct{ Recommendations Recommendations }
type RecommendationFailed struct{ Err error }
type Proceed struct{}
type ConfirmSelection struct{ Plan TripPlan }
type TripCreated struct{ Trip TripSummary }
type CreationFailed struct{ Err error }
type Back struct{}
type Reset struct{}

func (SubmitConstraints) eventName() string       { return "submit constraints" }
func (RecommendationsReceived) eventName() string { return "recommendations received" }
func (RecommendationFailed) eventName() string    { return "recommendation failed" }
func (Proceed) eventName() string                 { return "proceed" }
func (ConfirmSelection) eventName() string        { return "confirm selection" }
func (TripCreated) eventName() string             { return "trip created" }
func (CreationFailed) eventName() string          { return "creation failed" }
func (Back) eventName() string                    { return "back" }
func (Reset) eventName() string                   { return "reset" }

// Reduce applies e to s. On error the returned state equals s.
func Reduce(s State, e Event) (State, error) {
	next := s
	switch ev := e.(type) {
	case Reset:
		return New(), nil

	case SubmitConstraints:
		if s.Step != StepInput {
			return s, invalid(s, e)
		}
		if err := ev.Constraints.Validate(); err != nil {
			return s, err
		}
		c := ev.Constraints
		next.Constraints = &c
		next.Recommendations = nil
		next.Plan = nil
		next.LastError = nil
		next.Step = StepRecommending

	case RecommendationsReceived:
		if s.Step != StepRecommending {
			return s, invalid(s, e)
		}
		r := ev.Recommendations
		next.Recommendations = &r
		next.LastError = nil
		next.Step = StepSelecting

	case RecommendationFailed:
		if s.Step != StepRecommending {
			return s, invalid(s, e)
		}
		next.LastError = failure(ev.Err)

	case Proceed:
		if s.Step != StepRecommending || s.Recommendations == nil {
			return s, invalid(s, e)
		}
		next.LastError = nil
		next.Step = StepSelecting

	case ConfirmSelection:
		if s.Step != StepSelecting {
			return s, invalid(s, e)
		}
		if len(ev.Plan.Places) == 0 {
			return s, utils.NewValidationError("Please select at least one place").
				Add("places", "At least one place is required")
		}
		p := ev.Plan
		next.Plan = &p
		next.LastError = nil
		next.Step = StepCreating

	case TripCreated:
		if s.Step != StepCreating {
			return s, invalid(s, e)
		}
		t := ev.Trip
		next.CreatedTrip = &t
		next.LastError = nil
		next.Step = StepDone

	case CreationFailed:
		if s.Step != StepCreating {
			return s, invalid(s, e)
		}
		next.LastError = creationFailure(ev.Err)

	case Back:
		switch s.Step {
		case StepRecommending:
			next.Recommendations = nil
		case StepSelecting:
			next.Plan = nil
		case StepCreating:
			next.Plan = nil
		default:
			return s, invalid(s, e)
		}
		next.LastError = nil
		next.Step = s.Step - 1

	default:
		return s, invalid(s, e)
	}

	next.StepName = next.Step.String()
	return next, nil
}

// Actions lists the events the current step accepts, for clients rendering the flow.
func (s State) Actions() []string {
	switch s.Step {
	case StepInput:
		return []string{"constraints", "reset"}
	case StepRecommending:
		actions := []string{"recommendations", "back", "reset"}
		if s.Recommendations != nil {
			actions = append(actions, "proceed")
		}
		return actions
	case StepSelecting:
		return []string{"selection", "back", "reset"}
	case StepCreating:
		return []string{"create", "back", "reset"}
	default:
		return []string{"reset"}
	}
}

func invalid(s State, e Event) error {
	name := "unknown event"
	if e != nil {
		name = e.eventName()
	}
	return fmt.Errorf("%w: %s is not allowed at step %s", utils.ErrInvalidTransition, name, s.Step)
}

func failure(err error) *StepError {
	if err == nil {
		err = errors.New("unknown error")
	}
	return &StepError{Kind: ErrorKind(err), Message: err.Error(), Retryable: true}
}

// creationFailure hides driver detail from clients. Validation messages are
// already user-facing and pass through.
func creationFailure(err error) *StepError {
	f := failure(err)
	if f.Kind != "validation" {
		f.Message = "Failed to create trip"
	}
	return f
}

// ErrorKind names the class of a failure for logs and clients.
func ErrorKind(err error) string {
	var validation *utils.ValidationError
	switch {
	case errors.As(err, &validation):
		return "validation"
	case errors.Is(err, utils.ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, utils.ErrSchemaViolation):
		return "schema_violation"
	case errors.Is(err, utils.ErrRemoteCall):
		return "remote_call"
	case errors.Is(err, utils.ErrDatabaseError):
		return "persistence"
	default:
		return "unexpected"
	}
}
