package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"report-forge/internal/config"
	"report-forge/internal/model"
)

// ErrUpstream marks a failed model call (network, auth, rate limit, bad
// status). ErrParse marks a response that does not conform to the report
// schema. Neither is retried here; the wizard surfaces them and leaves the
// session untouched.
var (
	ErrUpstream = errors.New("model call failed")
	ErrParse    = errors.New("model response does not match the report schema")
)

const systemPrompt = `You are a Daily Work Report Assistant for a company. Convert user notes into a structured daily report. Follow the schema strictly. If image text is unclear mark (unclear). Keep writing professional and concise. No extra text outside JSON.`

const imageExtractionPrompt = `Extract all readable text from this image accurately. Preserve bullets and line breaks. If uncertain, mark (unclear). Output as plain text.`

// reportSchemaHint is embedded in the structuring prompt so the model emits
// exactly the ReportData shape, with status restricted to the four values.
const reportSchemaHint = `Return a single JSON object with these fields:
report_title (string), company {name, address, website},
employee {name, role, department}, date (YYYY-MM-DD), working_hours,
project, summary_bullets (string array), tasks (array of
{task, status, time_spent, output} where status is exactly one of
"Done", "In Progress", "Pending", "Cancelled"), challenges (string array),
tomorrow_plan (string array), help_needed (string array),
raw_extracted_notes (string).`

// AIService talks to an OpenAI-compatible chat-completions endpoint. No
// internal retries; every call carries the configured timeout.
type AIService struct {
	baseURL     string
	apiKey      string
	chatModel   string
	visionModel string
	client      *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AIService{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		chatModel:   cfg.ChatModel,
		visionModel: cfg.VisionModel,
		client:      &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

func (s *AIService) doChat(ctx context.Context, modelName string, messages []chatMessage) (string, error) {
	body := map[string]any{
		"model":    modelName,
		"stream":   false,
		"messages": messages,
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, data)
	}

	data, _ := io.ReadAll(resp.Body)
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	if len(result.Choices) == 0 {
		return "", nil
	}
	return result.Choices[0].Message.Content, nil
}

func (s *AIService) chat(ctx context.Context, system, user string) (string, error) {
	msgs := make([]chatMessage, 0, 2)
	if system != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: system})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: user})
	return s.doChat(ctx, s.chatModel, msgs)
}

// ExtractText sends an image to the vision model and returns the extracted
// plain text, or "" when the model has nothing to say.
func (s *AIService) ExtractText(ctx context.Context, image []byte, mime string) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(image))
	content := []map[string]any{
		{"type": "image_url", "image_url": map[string]string{"url": dataURL}},
		{"type": "text", "text": imageExtractionPrompt},
	}
	text, err := s.doChat(ctx, s.visionModel, []chatMessage{{Role: "user", Content: content}})
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	return text, nil
}

// StructureReport coerces all collected inputs into a ReportData. The
// response must be a complete, schema-conformant report; a partial result
// is never returned.
func (s *AIService) StructureReport(ctx context.Context, company model.CompanyInfo, employee model.EmployeeInfo, notes, extractedText string) (*model.ReportData, error) {
	prompt := fmt.Sprintf(`Inputs:
- Company: %s %s
- Employee: %s, Role: %s, Dept: %s
- Date: %s
- Project: %s
- Working Hours: %s
- Text Notes: %s
- Extracted Image Text: %s

Instruction:
Merge notes, remove duplicates, create a clean daily report JSON using the schema. Ensure the summary is outcome-focused.

%s`,
		company.Name, parenthesize(company.Address),
		employee.Name, orNA(employee.Role), orNA(employee.Department),
		employee.Date, orNA(employee.Project), orNA(employee.WorkingHours),
		orNone(notes), orNone(extractedText),
		reportSchemaHint,
	)

	raw, err := s.chat(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("structure report: %w", err)
	}

	var rep model.ReportData
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &rep); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if err := rep.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &rep, nil
}

// Polish rephrases free-text notes professionally while preserving their
// meaning.
func (s *AIService) Polish(ctx context.Context, notes string) (string, error) {
	prompt := fmt.Sprintf(`Polish and professionally rephrase the following work notes. Keep it concise but professional. Use bullet points if appropriate.

Notes:
%s`, notes)
	text, err := s.chat(ctx, "", prompt)
	if err != nil {
		return "", fmt.Errorf("polish: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return notes, nil
	}
	return text, nil
}

// stripCodeFence unwraps responses the model insists on fencing as
// ```json ... ``` before parsing.
func stripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```json")
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None"
	}
	return s
}

func parenthesize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return "(" + s + ")"
}
