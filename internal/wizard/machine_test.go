package wizard

import (
	"testing"

	"report-forge/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReport() *model.ReportData {
	return &model.ReportData{
		ReportTitle:    "Daily Work Report",
		Company:        model.ReportCompany{Name: "Acme"},
		Employee:       model.ReportEmployee{Name: "Jane"},
		Date:           "2026-08-28",
		SummaryBullets: []string{"did things"},
		Tasks:          []model.Task{{Task: "Fix bug", Status: model.StatusDone}},
	}
}

func TestNewDefaults(t *testing.T) {
	s := New("2026-08-28")
	assert.Equal(t, StepOrganization, s.Step)
	assert.Equal(t, model.DefaultBrandColor, s.Company.BrandColor)
	assert.Equal(t, "2026-08-28", s.Employee.Date)
}

func TestNextBlockedWithoutCompanyName(t *testing.T) {
	s := New("2026-08-28")
	_, err := Apply(s, Next{})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	s, err = Apply(s, SetCompany{Company: model.CompanyInfo{Name: "Acme"}})
	require.NoError(t, err)
	s, err = Apply(s, Next{})
	require.NoError(t, err)
	assert.Equal(t, StepPersonal, s.Step)
}

func TestNextBlockedWithoutEmployeeName(t *testing.T) {
	s := New("2026-08-28")
	s, _ = Apply(s, SetCompany{Company: model.CompanyInfo{Name: "Acme"}})
	s, _ = Apply(s, Next{})

	_, err := Apply(s, Next{})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	s, _ = Apply(s, SetEmployee{Employee: model.EmployeeInfo{Name: "Jane", Date: "2026-08-28"}})
	s, err = Apply(s, Next{})
	require.NoError(t, err)
	assert.Equal(t, StepDocumentation, s.Step)
}

func TestBackIsUnconditional(t *testing.T) {
	s := New("2026-08-28")
	s, _ = Apply(s, SetCompany{Company: model.CompanyInfo{Name: "Acme"}})
	s, _ = Apply(s, Next{})

	s, err := Apply(s, Back{})
	require.NoError(t, err)
	assert.Equal(t, StepOrganization, s.Step)

	// Back at the first step stays put.
	s, err = Apply(s, Back{})
	require.NoError(t, err)
	assert.Equal(t, StepOrganization, s.Step)
}

func docState() State {
	s := New("2026-08-28")
	s, _ = Apply(s, SetCompany{Company: model.CompanyInfo{Name: "Acme"}})
	s, _ = Apply(s, Next{})
	s, _ = Apply(s, SetEmployee{Employee: model.EmployeeInfo{Name: "Jane", Date: "2026-08-28"}})
	s, _ = Apply(s, Next{})
	return s
}

func TestCanGenerateRequiresNotesOrImage(t *testing.T) {
	s := docState()
	require.Error(t, CanGenerate(s))

	withNotes, _ := Apply(s, SetNotes{Notes: "fixed the build"})
	assert.NoError(t, CanGenerate(withNotes))

	withImage, _ := Apply(s, SetNotes{Image: []byte{0x89}, ImageMIME: "image/png"})
	assert.NoError(t, CanGenerate(withImage))
}

func TestGeneratedMovesToReview(t *testing.T) {
	s := docState()
	s, _ = Apply(s, SetNotes{Notes: "fixed the build"})

	rep := validReport()
	s, err := Apply(s, Generated{Report: rep})
	require.NoError(t, err)
	assert.Equal(t, StepReview, s.Step)
	assert.Equal(t, rep, s.Report)
}

func TestGeneratedBlockedWithoutContent(t *testing.T) {
	s := docState()
	_, err := Apply(s, Generated{Report: validReport()})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestEditReportOnlyAtReview(t *testing.T) {
	s := docState()
	_, err := Apply(s, EditReport{Report: validReport()})
	require.Error(t, err)

	s, _ = Apply(s, SetNotes{Notes: "notes"})
	s, _ = Apply(s, Generated{Report: validReport()})

	edited := validReport()
	edited.Tasks[0].Status = model.StatusInProgress
	s, err = Apply(s, EditReport{Report: edited})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, s.Report.Tasks[0].Status)
}

func TestEditReportRejectsInvalid(t *testing.T) {
	s := docState()
	s, _ = Apply(s, SetNotes{Notes: "notes"})
	s, _ = Apply(s, Generated{Report: validReport()})

	bad := validReport()
	bad.Employee.Name = ""
	_, err := Apply(s, EditReport{Report: bad})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestResetDiscardsTransientState(t *testing.T) {
	s := docState()
	s, _ = Apply(s, SetNotes{Notes: "notes", Image: []byte{1}, ImageMIME: "image/png"})
	s, _ = Apply(s, Generated{Report: validReport()})

	s, err := Apply(s, Reset{Date: "2026-08-29"})
	require.NoError(t, err)
	assert.Equal(t, StepOrganization, s.Step)
	assert.Empty(t, s.Notes)
	assert.Nil(t, s.Image)
	assert.Nil(t, s.Report)
	assert.Equal(t, "2026-08-29", s.Employee.Date)
}
