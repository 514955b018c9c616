package report

import (
	"fmt"
	"strings"

	"report-forge/internal/model"
)

// EmailDraft is a plain-text rendering of a report, ready to paste into a
// mail client.
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Clipboard returns the single-blob form copied to the clipboard.
func (d EmailDraft) Clipboard() string {
	return "Subject: " + d.Subject + "\n\n" + d.Body
}

// ComposeEmail formats a report as an email draft. It applies the same
// Clean/IsMeaningful rules as the PDF renderer so the two artifacts never
// disagree about which fields are present.
func ComposeEmail(rep model.ReportData) EmailDraft {
	subject := fmt.Sprintf("Daily Work Report — %s — %s", Clean(rep.Employee.Name), rep.Date)

	var bullets []string
	for _, b := range rep.SummaryBullets {
		if c := Clean(b); IsMeaningful(c) {
			bullets = append(bullets, "• "+c)
		}
	}

	var tasks []string
	for _, t := range rep.Tasks {
		task := Clean(t.Task)
		if !IsMeaningful(task) {
			continue
		}
		line := fmt.Sprintf("• [%s] %s", t.Status, task)
		if spent := Clean(t.TimeSpent); IsMeaningful(spent) {
			line += fmt.Sprintf(" (%s)", spent)
		}
		tasks = append(tasks, line)
	}

	var challenges []string
	for _, c := range rep.Challenges {
		if v := Clean(c); IsMeaningful(v) {
			challenges = append(challenges, v)
		}
	}
	challengeLine := strings.Join(challenges, ", ")
	if challengeLine == "" {
		challengeLine = "None"
	}

	signature := Clean(rep.Employee.Name)
	if role := Clean(rep.Employee.Role); IsMeaningful(role) {
		signature += "\n" + role
	}

	body := fmt.Sprintf(`Hello Team,

Please find my daily work report for %s below.

SUMMARY:
%s

TASKS:
%s

CHALLENGES:
%s

Regards,
%s`,
		longDate(rep.Date),
		strings.Join(bullets, "\n"),
		strings.Join(tasks, "\n"),
		challengeLine,
		signature,
	)

	return EmailDraft{Subject: subject, Body: body}
}
