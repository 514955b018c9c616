package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"report-forge/internal/config"
	"report-forge/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatResponse(content string) string {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func newTestAI(t *testing.T, handler http.HandlerFunc) *AIService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAIService(config.AIConfig{
		BaseURL:     srv.URL,
		APIKey:      "test-key",
		ChatModel:   "chat-model",
		VisionModel: "vision-model",
		TimeoutSecs: 5,
	})
}

func validReportJSON() string {
	rep := model.ReportData{
		ReportTitle:    "Daily Work Report",
		Company:        model.ReportCompany{Name: "Acme"},
		Employee:       model.ReportEmployee{Name: "Jane"},
		Date:           "2026-08-28",
		SummaryBullets: []string{"shipped it"},
		Tasks:          []model.Task{{Task: "Fix bug", Status: model.StatusDone}},
		Challenges:     []string{},
		TomorrowPlan:   []string{"Deploy v2"},
		HelpNeeded:     []string{},
	}
	data, _ := json.Marshal(rep)
	return string(data)
}

func TestStructureReportParsesValidResponse(t *testing.T) {
	var gotBody map[string]any
	ai := newTestAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(chatResponse(validReportJSON())))
	})

	rep, err := ai.StructureReport(context.Background(),
		model.CompanyInfo{Name: "Acme"},
		model.EmployeeInfo{Name: "Jane", Date: "2026-08-28"},
		"fixed a bug", "")
	require.NoError(t, err)
	assert.Equal(t, "Jane", rep.Employee.Name)
	assert.Equal(t, model.StatusDone, rep.Tasks[0].Status)

	// absent fields are rendered as placeholders in the prompt
	msgs := gotBody["messages"].([]any)
	user := msgs[1].(map[string]any)["content"].(string)
	assert.Contains(t, user, "Role: N/A")
	assert.Contains(t, user, "Extracted Image Text: None")
	assert.Equal(t, "chat-model", gotBody["model"])
}

func TestStructureReportAcceptsFencedJSON(t *testing.T) {
	ai := newTestAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatResponse("```json\n" + validReportJSON() + "\n```")))
	})
	rep, err := ai.StructureReport(context.Background(), model.CompanyInfo{Name: "Acme"},
		model.EmployeeInfo{Name: "Jane", Date: "2026-08-28"}, "notes", "")
	require.NoError(t, err)
	assert.Equal(t, "Acme", rep.Company.Name)
}

func TestStructureReportParseError(t *testing.T) {
	cases := map[string]string{
		"not json":       "I could not produce a report today.",
		"invalid status": `{"report_title":"t","company":{"name":"c"},"employee":{"name":"e"},"date":"2026-08-28","tasks":[{"task":"x","status":"Maybe"}]}`,
		"missing fields": `{"tasks":[]}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			ai := newTestAI(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(chatResponse(content)))
			})
			_, err := ai.StructureReport(context.Background(), model.CompanyInfo{Name: "Acme"},
				model.EmployeeInfo{Name: "Jane", Date: "2026-08-28"}, "notes", "")
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestStructureReportUpstreamError(t *testing.T) {
	ai := newTestAI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})
	_, err := ai.StructureReport(context.Background(), model.CompanyInfo{Name: "Acme"},
		model.EmployeeInfo{Name: "Jane", Date: "2026-08-28"}, "notes", "")
	assert.ErrorIs(t, err, ErrUpstream)
}

// A stalled upstream must fail within the configured timeout rather than
// hang the generation pipeline.
func TestStructureReportTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The server only notices the client hanging up once the request
		// body has been drained; without this the handler leaks and
		// srv.Close blocks forever.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done() // never answer; returns once the client gives up
	}))
	t.Cleanup(srv.Close)

	ai := NewAIService(config.AIConfig{
		BaseURL:     srv.URL,
		APIKey:      "test-key",
		ChatModel:   "chat-model",
		TimeoutSecs: 1,
	})

	start := time.Now()
	_, err := ai.StructureReport(context.Background(), model.CompanyInfo{Name: "Acme"},
		model.EmployeeInfo{Name: "Jane", Date: "2026-08-28"}, "notes", "")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExtractText(t *testing.T) {
	var gotBody map[string]any
	ai := newTestAI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(chatResponse("• fixed login (unclear)")))
	})

	text, err := ai.ExtractText(context.Background(), []byte{0x89, 0x50}, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "• fixed login (unclear)", text)
	assert.Equal(t, "vision-model", gotBody["model"])

	raw, _ := json.Marshal(gotBody["messages"])
	assert.Contains(t, string(raw), "data:image/png;base64,")
}

func TestExtractTextEmptyResponse(t *testing.T) {
	ai := newTestAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})
	text, err := ai.ExtractText(context.Background(), []byte{1}, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestPolish(t *testing.T) {
	ai := newTestAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatResponse("• Resolved the login defect")))
	})
	text, err := ai.Polish(context.Background(), "fixed login bug")
	require.NoError(t, err)
	assert.Equal(t, "• Resolved the login defect", text)
}

func TestPolishUpstreamError(t *testing.T) {
	ai := newTestAI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := ai.Polish(context.Background(), "notes")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}
