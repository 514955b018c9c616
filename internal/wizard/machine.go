// Package wizard holds the pure state machine behind the 4-step report
// wizard. Transitions are expressed as Apply(State, Event) -> State so the
// validation rules are testable without any transport or model calls; IO
// (the generation pipeline) lives in the service layer and feeds its result
// back in as a Generated event.
package wizard

import (
	"fmt"
	"strings"

	"report-forge/internal/model"
)

type Step int

const (
	StepOrganization Step = iota + 1
	StepPersonal
	StepDocumentation
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepOrganization:
		return "organization"
	case StepPersonal:
		return "personal"
	case StepDocumentation:
		return "documentation"
	case StepReview:
		return "review"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// State is one wizard session's accumulated form state. Values, not
// pointers, flow through Apply; the caller owns the single mutable copy.
type State struct {
	Step      Step
	Company   model.CompanyInfo
	Employee  model.EmployeeInfo
	Notes     string
	Image     []byte
	ImageMIME string
	Report    *model.ReportData
}

// New returns a fresh session state at the organization step. The report
// date defaults to the given ISO date (normally today).
func New(date string) State {
	return State{
		Step:     StepOrganization,
		Company:  model.CompanyInfo{BrandColor: model.DefaultBrandColor},
		Employee: model.EmployeeInfo{Date: date},
	}
}

// ValidationError blocks a transition before any external call is made.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErr(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type Event interface{ isEvent() }

// SetCompany stages organization details. An empty brand color keeps the
// default navy.
type SetCompany struct{ Company model.CompanyInfo }

// SetEmployee stages the report author's details.
type SetEmployee struct{ Employee model.EmployeeInfo }

// SetNotes stages free-text notes and/or an uploaded image.
type SetNotes struct {
	Notes     string
	Image     []byte
	ImageMIME string
}

// Next advances one step, enforcing per-step validation.
type Next struct{}

// Back returns to the previous step unconditionally.
type Back struct{}

// Generated carries a structured report produced by the AI gateway and
// moves the session to review.
type Generated struct{ Report *model.ReportData }

// EditReport replaces the active report in place during review.
type EditReport struct{ Report *model.ReportData }

// Reset discards all transient state and restarts at the organization step.
type Reset struct{ Date string }

func (SetCompany) isEvent()  {}
func (SetEmployee) isEvent() {}
func (SetNotes) isEvent()    {}
func (Next) isEvent()        {}
func (Back) isEvent()        {}
func (Generated) isEvent()   {}
func (EditReport) isEvent()  {}
func (Reset) isEvent()       {}

// Apply computes the next state. The input state is never mutated; on error
// the caller keeps the prior state untouched.
func Apply(s State, ev Event) (State, error) {
	switch e := ev.(type) {
	case SetCompany:
		s.Company = e.Company
		if strings.TrimSpace(s.Company.BrandColor) == "" {
			s.Company.BrandColor = model.DefaultBrandColor
		}
		return s, nil

	case SetEmployee:
		s.Employee = e.Employee
		return s, nil

	case SetNotes:
		s.Notes = e.Notes
		s.Image = e.Image
		s.ImageMIME = e.ImageMIME
		return s, nil

	case Next:
		switch s.Step {
		case StepOrganization:
			if strings.TrimSpace(s.Company.Name) == "" {
				return s, validationErr("organization name is required")
			}
			s.Step = StepPersonal
		case StepPersonal:
			if strings.TrimSpace(s.Employee.Name) == "" {
				return s, validationErr("employee name is required")
			}
			s.Step = StepDocumentation
		case StepDocumentation:
			return s, validationErr("generate the report to continue")
		case StepReview:
			return s, validationErr("already at the final step")
		}
		return s, nil

	case Back:
		if s.Step > StepOrganization {
			s.Step--
		}
		return s, nil

	case Generated:
		if err := CanGenerate(s); err != nil {
			return s, err
		}
		s.Report = e.Report
		s.Step = StepReview
		return s, nil

	case EditReport:
		if s.Step != StepReview {
			return s, validationErr("no report to edit yet")
		}
		if e.Report == nil {
			return s, validationErr("report payload is required")
		}
		if err := e.Report.Validate(); err != nil {
			return s, validationErr("invalid report: %v", err)
		}
		s.Report = e.Report
		return s, nil

	case Reset:
		return New(e.Date), nil
	}
	return s, fmt.Errorf("unknown event %T", ev)
}

// CanGenerate reports whether the documentation step holds enough input to
// run the generation pipeline: at least notes or an image.
func CanGenerate(s State) error {
	if s.Step != StepDocumentation {
		return validationErr("generation is only available at the documentation step")
	}
	if strings.TrimSpace(s.Notes) == "" && len(s.Image) == 0 {
		return validationErr("add notes or an image before generating")
	}
	return nil
}
