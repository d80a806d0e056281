package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/orchestrator"
	"peerprep/interview/internal/questions"
	"peerprep/interview/internal/resume"
	"peerprep/interview/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubParser accepts any supported format and returns fixed fields
type stubParser struct {
	parsed resume.Parsed
}

func (s *stubParser) Parse(_ context.Context, doc resume.Document) (resume.Parsed, error) {
	if _, err := resume.DetectKind(doc.FileName, doc.ContentType); err != nil {
		return resume.Parsed{}, err
	}
	return s.parsed, nil
}

type testServer struct {
	router *chi.Mux
	orch   *orchestrator.Orchestrator
	parser *stubParser
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	bank, err := questions.NewBank()
	require.NoError(t, err)
	clock := clockwork.NewFakeClock()
	parser := &stubParser{parsed: resume.Parsed{Text: "resume", Name: "Ada Lovelace", Email: "ada@example.com", Phone: "+15551234567"}}
	orch := orchestrator.New(session.NewRepository(clock), parser, questions.NewSource(nil, bank, nil), orchestrator.Options{
		Clock:  clock,
		Logger: zap.NewNop(),
	})
	t.Cleanup(orch.Close)

	h := NewInterviewHandler(orch, 1<<10, zap.NewNop())
	router := chi.NewRouter()
	router.Route("/api/v1/interview", func(r chi.Router) {
		r.Post("/documents", h.UploadDocumentHandler)
		r.With(middleware.ValidateRequest[*models.ProfileRequest]()).Post("/profile", h.ProfileHandler)
		r.Post("/start", h.StartHandler)
		r.With(middleware.ValidateRequest[*models.AnswerRequest]()).Post("/answers", h.AnswerHandler)
		r.Post("/pause", h.PauseHandler)
		r.Post("/resume", h.ResumeHandler)
		r.Post("/suspend", h.SuspendHandler)
		r.Get("/active", h.GetActiveHandler)
		r.With(middleware.ValidateRequest[*models.SelectActiveRequest]()).Put("/active", h.SelectActiveHandler)
		r.Get("/candidates", h.ListCandidatesHandler)
		r.Get("/candidates/{id}", h.GetCandidateHandler)
		r.Post("/candidates/{id}/reset", h.ResetCandidateHandler)
	})
	return &testServer{router: router, orch: orch, parser: parser}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1/interview"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(t *testing.T, fileName, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if fileName != "" {
		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Disposition": {`form-data; name="file"; filename="` + fileName + `"`},
			"Content-Type":        {contentType},
		})
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("other", "value"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/interview/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out), rec.Body.String())
	return out
}

func TestUploadDocument(t *testing.T) {
	s := newTestServer(t)

	rec := s.upload(t, "cv.pdf", resume.MimePDF, []byte("%PDF-1.4"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[models.SessionResponse](t, rec)
	require.NotNil(t, resp.Record)
	assert.Equal(t, models.StatusAwaitingStart, resp.Record.Interview.Status)
	assert.Equal(t, "cv.pdf", resp.Record.Profile.FileName)
	assert.Empty(t, resp.MissingFields)
	assert.Equal(t, models.Progress{Answered: 0, Total: 0}, resp.Progress)
}

func TestUploadDocumentErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.upload(t, "cv.txt", "text/plain", []byte("plain"))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, "unsupported_format", decode[models.ErrorResponse](t, rec).Code)

	rec = s.upload(t, "", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.upload(t, "cv.pdf", resume.MimePDF, bytes.Repeat([]byte("x"), 2<<10))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	_, ok := s.orch.Active()
	assert.False(t, ok, "rejected uploads create no session")
}

func TestProfileSubmission(t *testing.T) {
	s := newTestServer(t)
	s.parser.parsed = resume.Parsed{Text: "resume", Name: "Ada Lovelace", Phone: "+15551234567"}
	require.Equal(t, http.StatusCreated, s.upload(t, "cv.docx", resume.MimeDOCX, []byte("doc")).Code)

	rec := s.do(t, http.MethodPost, "/profile", models.ProfileRequest{Field: "email", Value: "nope"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[models.ProfileResponse](t, rec)
	assert.False(t, resp.Accepted)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "email", resp.Error.Field)
	assert.Equal(t, []models.ProfileField{models.FieldEmail}, resp.MissingFields)

	rec = s.do(t, http.MethodPost, "/profile", models.ProfileRequest{Field: "Email", Value: "ada@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[models.ProfileResponse](t, rec)
	assert.True(t, resp.Accepted)
	assert.Equal(t, models.StatusAwaitingStart, resp.Record.Interview.Status)

	rec = s.do(t, http.MethodPost, "/profile", models.ProfileRequest{Field: "email", Value: "ada@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/profile", map[string]string{"field": "age", "value": "3"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInterviewFlow(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/start", nil).Code)
	require.Equal(t, http.StatusCreated, s.upload(t, "cv.pdf", resume.MimePDF, []byte("%PDF")).Code)

	rec := s.do(t, http.MethodPost, "/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	started := decode[models.SessionResponse](t, rec)
	require.NotNil(t, started.CurrentQuestion)
	require.NotNil(t, started.Timer)
	assert.Equal(t, models.Progress{Answered: 0, Total: 6}, started.Progress)
	assert.Equal(t, int64(20000), started.Timer.DurationMs)

	qid := started.CurrentQuestion.ID
	rec = s.do(t, http.MethodPost, "/answers", models.AnswerRequest{QuestionID: qid, Response: "an answer"})
	require.Equal(t, http.StatusOK, rec.Code)
	answered := decode[models.AnswerResponse](t, rec)
	assert.True(t, answered.Applied)
	require.NotNil(t, answered.Score)
	assert.NotEmpty(t, answered.Rationale)
	assert.Equal(t, 1, answered.Progress.Answered)

	rec = s.do(t, http.MethodPost, "/answers", models.AnswerRequest{QuestionID: qid, Response: "an answer"})
	require.Equal(t, http.StatusOK, rec.Code)
	dup := decode[models.AnswerResponse](t, rec)
	assert.False(t, dup.Applied)
	assert.Nil(t, dup.Score)
	assert.Equal(t, 1, dup.Progress.Answered)

	rec = s.do(t, http.MethodPost, "/pause", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	paused := decode[models.SessionResponse](t, rec)
	assert.True(t, paused.WelcomeBack)
	assert.True(t, paused.Timer.Paused)

	require.NotNil(t, paused.CurrentQuestion)
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/answers", models.AnswerRequest{QuestionID: paused.CurrentQuestion.ID, Response: "x"}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/answers", models.AnswerRequest{Response: "x"}).Code)

	rec = s.do(t, http.MethodGet, "/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.SessionResponse](t, rec).WelcomeBack)

	rec = s.do(t, http.MethodPost, "/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resumed := decode[models.SessionResponse](t, rec)
	assert.Equal(t, models.StatusInProgress, resumed.Record.Interview.Status)
	assert.False(t, resumed.WelcomeBack)

	var final models.AnswerResponse
	current := resumed.CurrentQuestion
	for i := 1; i < 6; i++ {
		require.NotNil(t, current)
		rec = s.do(t, http.MethodPost, "/answers", models.AnswerRequest{QuestionID: current.ID, Response: "answer"})
		require.Equal(t, http.StatusOK, rec.Code)
		final = decode[models.AnswerResponse](t, rec)
		current = final.CurrentQuestion
	}
	assert.True(t, final.Completed)
	assert.Equal(t, models.StatusCompleted, final.Record.Interview.Status)
	require.NotNil(t, final.Record.Summary)
}

func TestSuspendAndSelectActive(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.upload(t, "cv.pdf", resume.MimePDF, []byte("%PDF")).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/start", nil).Code)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, "/suspend", nil).Code)
	rec, ok := s.orch.Active()
	require.True(t, ok)
	assert.Equal(t, models.StatusPaused, rec.Interview.Status)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, "/active", models.SelectActiveRequest{CandidateID: "missing"}).Code)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodPut, "/active", models.SelectActiveRequest{}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/active", nil).Code)

	resp := s.do(t, http.MethodPut, "/active", models.SelectActiveRequest{CandidateID: rec.ID})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, rec.ID, decode[models.SessionResponse](t, resp).Record.ID)
}

func TestCandidates(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.upload(t, "cv.pdf", resume.MimePDF, []byte("%PDF")).Code)
	s.parser.parsed = resume.Parsed{Name: "Grace Hopper", Email: "grace@example.com", Phone: "+15550000000"}
	created := decode[models.SessionResponse](t, s.upload(t, "cv.pdf", resume.MimePDF, []byte("%PDF")))
	id := created.Record.ID

	rec := s.do(t, http.MethodGet, "/candidates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[models.DashboardResponse](t, rec)
	assert.Equal(t, 2, list.Total)

	rec = s.do(t, http.MethodGet, "/candidates?search=grace&sort=recent", nil)
	list = decode[models.DashboardResponse](t, rec)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, id, list.Candidates[0].ID)

	rec = s.do(t, http.MethodGet, "/candidates/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Grace Hopper", decode[models.SessionResponse](t, rec).Record.Profile.Name)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/candidates/missing", nil).Code)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/start", nil).Code)
	rec = s.do(t, http.MethodPost, "/candidates/"+id+"/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	reset := decode[models.SessionResponse](t, rec)
	assert.Equal(t, models.StatusAwaitingStart, reset.Record.Interview.Status)
	assert.Nil(t, reset.Timer)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/candidates/missing/reset", nil).Code)
}
