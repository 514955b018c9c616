package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"report-forge/internal/logger"
	"report-forge/internal/model"
	"report-forge/internal/wizard"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrGenerationInFlight = errors.New("a generation is already in progress")
)

// ReportGenerator is the slice of the AI gateway the wizard needs.
type ReportGenerator interface {
	ExtractText(ctx context.Context, image []byte, mime string) (string, error)
	StructureReport(ctx context.Context, company model.CompanyInfo, employee model.EmployeeInfo, notes, extractedText string) (*model.ReportData, error)
}

// HistoryArchiver persists finished reports.
type HistoryArchiver interface {
	Save(ctx context.Context, owner string, entry model.HistoryEntry) error
}

// wizardSession is one member's active wizard. All access goes through its
// mutex; generating guards against double-submission while a model call is
// outstanding.
type wizardSession struct {
	id    string
	owner string

	mu         sync.Mutex
	generating bool
	state      wizard.State
}

// SessionService owns the in-memory wizard sessions and drives the
// generation pipeline: extract (if an image is present), structure, store,
// archive.
type SessionService struct {
	ai       ReportGenerator
	history  HistoryArchiver
	sessions sync.Map // id -> *wizardSession
	now      func() time.Time
}

func NewSessionService(ai ReportGenerator, history HistoryArchiver) *SessionService {
	return &SessionService{ai: ai, history: history, now: time.Now}
}

func (s *SessionService) Create(owner string) model.SessionView {
	sess := &wizardSession{
		id:    uuid.NewString(),
		owner: owner,
		state: wizard.New(s.now().Format("2006-01-02")),
	}
	s.sessions.Store(sess.id, sess)
	return viewOf(sess.id, sess.state)
}

func (s *SessionService) get(id, owner string) (*wizardSession, error) {
	val, ok := s.sessions.Load(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess := val.(*wizardSession)
	if sess.owner != owner {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionService) Get(id, owner string) (model.SessionView, error) {
	sess, err := s.get(id, owner)
	if err != nil {
		return model.SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return viewOf(sess.id, sess.state), nil
}

// Apply runs one pure wizard event against the session. On validation
// failure the prior state is untouched.
func (s *SessionService) Apply(id, owner string, ev wizard.Event) (model.SessionView, error) {
	sess, err := s.get(id, owner)
	if err != nil {
		return model.SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.generating {
		return model.SessionView{}, ErrGenerationInFlight
	}
	next, err := wizard.Apply(sess.state, ev)
	if err != nil {
		return model.SessionView{}, err
	}
	sess.state = next
	return viewOf(sess.id, sess.state), nil
}

// Generate runs the documentation -> review pipeline: optional image text
// extraction, then structuring, then archive. On any failure the session
// stays at the documentation step with its inputs intact.
func (s *SessionService) Generate(ctx context.Context, id, owner string) (model.SessionView, error) {
	sess, err := s.get(id, owner)
	if err != nil {
		return model.SessionView{}, err
	}

	sess.mu.Lock()
	if sess.generating {
		sess.mu.Unlock()
		return model.SessionView{}, ErrGenerationInFlight
	}
	if err := wizard.CanGenerate(sess.state); err != nil {
		sess.mu.Unlock()
		return model.SessionView{}, err
	}
	sess.generating = true
	snapshot := sess.state
	sess.mu.Unlock()

	defer func() {
		sess.mu.Lock()
		sess.generating = false
		sess.mu.Unlock()
	}()

	var extracted string
	if len(snapshot.Image) > 0 {
		extracted, err = s.ai.ExtractText(ctx, snapshot.Image, snapshot.ImageMIME)
		if err != nil {
			logger.Error("image extraction failed", "session", id, "err", err)
			return model.SessionView{}, err
		}
	}

	rep, err := s.ai.StructureReport(ctx, snapshot.Company, snapshot.Employee, snapshot.Notes, extracted)
	if err != nil {
		logger.Error("report structuring failed", "session", id, "err", err)
		return model.SessionView{}, err
	}
	logger.Info("report generated", "session", id, "owner", owner, "tasks", len(rep.Tasks))

	sess.mu.Lock()
	next, err := wizard.Apply(sess.state, wizard.Generated{Report: rep})
	if err != nil {
		sess.mu.Unlock()
		return model.SessionView{}, err
	}
	sess.state = next
	entry := model.HistoryEntry{Report: cloneReport(*rep), Company: sess.state.Company}
	view := viewOf(sess.id, sess.state)
	sess.mu.Unlock()

	// Archive failures degrade to a warning; the generated report is still
	// live in the session.
	if err := s.history.Save(ctx, owner, entry); err != nil {
		logger.Warn("history save failed", "session", id, "err", err)
	}
	return view, nil
}

// Artifacts returns independent copies of the reviewed report and its
// company branding, ready for the PDF renderer or email composer.
func (s *SessionService) Artifacts(id, owner string) (model.ReportData, model.CompanyInfo, error) {
	sess, err := s.get(id, owner)
	if err != nil {
		return model.ReportData{}, model.CompanyInfo{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.state.Report == nil {
		return model.ReportData{}, model.CompanyInfo{}, &wizard.ValidationError{Msg: "no report generated yet"}
	}
	return cloneReport(*sess.state.Report), sess.state.Company, nil
}

func viewOf(id string, st wizard.State) model.SessionView {
	v := model.SessionView{
		ID:       id,
		Step:     int(st.Step),
		Company:  st.Company,
		Employee: st.Employee,
		Notes:    st.Notes,
		HasImage: len(st.Image) > 0,
	}
	if st.Report != nil {
		rep := cloneReport(*st.Report)
		v.Report = &rep
	}
	return v
}

// cloneReport deep-copies a report so archived and exported copies have
// independent lifetimes from the editable session copy.
func cloneReport(rep model.ReportData) model.ReportData {
	data, _ := json.Marshal(rep)
	var out model.ReportData
	json.Unmarshal(data, &out)
	return out
}
