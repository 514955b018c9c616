package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultBrandColor is the dark navy used when no brand color is set or
// detectable from a logo.
const DefaultBrandColor = "#0f172a"

// Status is the closed set of task states. Anything else is rejected at
// unmarshal time so an invalid status can never enter a ReportData.
type Status string

const (
	StatusDone       Status = "Done"
	StatusInProgress Status = "In Progress"
	StatusPending    Status = "Pending"
	StatusCancelled  Status = "Cancelled"
)

// Statuses lists every valid Status, in display order.
var Statuses = []Status{StatusDone, StatusInProgress, StatusPending, StatusCancelled}

func (s Status) Valid() bool {
	switch s {
	case StatusDone, StatusInProgress, StatusPending, StatusCancelled:
		return true
	}
	return false
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Status(raw)
	if !v.Valid() {
		return fmt.Errorf("invalid task status %q", raw)
	}
	*s = v
	return nil
}

type Task struct {
	Task      string `json:"task"`
	Status    Status `json:"status"`
	TimeSpent string `json:"time_spent,omitempty"`
	Output    string `json:"output,omitempty"`
}

type CompanyInfo struct {
	Name       string `json:"name"`
	Logo       string `json:"logo,omitempty"` // base64-encoded image bytes
	LogoMIME   string `json:"logo_mime,omitempty"`
	Address    string `json:"address,omitempty"`
	Website    string `json:"website,omitempty"`
	BrandColor string `json:"brand_color"`
}

type EmployeeInfo struct {
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Role         string `json:"role,omitempty"`
	Department   string `json:"department,omitempty"`
	Date         string `json:"date"` // YYYY-MM-DD
	WorkingHours string `json:"working_hours,omitempty"`
	Project      string `json:"project,omitempty"`
}

// RecipientInfo is only used transiently when drafting an email.
type RecipientInfo struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
}

type ReportCompany struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Website string `json:"website,omitempty"`
}

type ReportEmployee struct {
	Name       string `json:"name"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
}

// ReportData is the structured daily report. It is produced by the AI
// gateway's structuring call and freely editable by the user afterwards.
type ReportData struct {
	ReportTitle       string         `json:"report_title"`
	Company           ReportCompany  `json:"company"`
	Employee          ReportEmployee `json:"employee"`
	Date              string         `json:"date"`
	WorkingHours      string         `json:"working_hours,omitempty"`
	Project           string         `json:"project,omitempty"`
	SummaryBullets    []string       `json:"summary_bullets"`
	Tasks             []Task         `json:"tasks"`
	Challenges        []string       `json:"challenges"`
	TomorrowPlan      []string       `json:"tomorrow_plan"`
	HelpNeeded        []string       `json:"help_needed"`
	RawExtractedNotes string         `json:"raw_extracted_notes,omitempty"`
}

// Validate checks the fields the report schema marks required.
func (r *ReportData) Validate() error {
	if strings.TrimSpace(r.ReportTitle) == "" {
		return fmt.Errorf("missing report_title")
	}
	if strings.TrimSpace(r.Company.Name) == "" {
		return fmt.Errorf("missing company.name")
	}
	if strings.TrimSpace(r.Employee.Name) == "" {
		return fmt.Errorf("missing employee.name")
	}
	if strings.TrimSpace(r.Date) == "" {
		return fmt.Errorf("missing date")
	}
	for i, t := range r.Tasks {
		if !t.Status.Valid() {
			return fmt.Errorf("task %d: invalid status %q", i, t.Status)
		}
	}
	return nil
}

// HistoryEntry is one archived report together with the branding it was
// generated under.
type HistoryEntry struct {
	Report  ReportData  `json:"report"`
	Company CompanyInfo `json:"company"`
}
