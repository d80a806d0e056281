package handlers

import (
	"errors"
	"io"
	"net/http"

	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/orchestrator"
	"peerprep/interview/internal/resume"
	"peerprep/interview/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const uploadField = "file"

type InterviewHandler struct {
	orch      *orchestrator.Orchestrator
	maxUpload int64
	logger    *zap.Logger
}

func NewInterviewHandler(orch *orchestrator.Orchestrator, maxUpload int64, logger *zap.Logger) *InterviewHandler {
	if maxUpload <= 0 {
		maxUpload = resume.DefaultMaxSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterviewHandler{orch: orch, maxUpload: maxUpload, logger: logger}
}

// UploadDocumentHandler accepts a multipart resume and opens a session for it
func (h *InterviewHandler) UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	// multipart framing needs some room on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1<<20)
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.Error(w, http.StatusRequestEntityTooLarge, "file_too_large", "Resume exceeds the upload limit")
			return
		}
		utils.Error(w, http.StatusBadRequest, "missing_file", "A resume file is required in the 'file' field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid_upload", "Failed to read uploaded file")
		return
	}
	if int64(len(data)) > h.maxUpload {
		utils.Error(w, http.StatusRequestEntityTooLarge, "file_too_large", "Resume exceeds the upload limit")
		return
	}

	rec, err := h.orch.IngestDocument(r.Context(), resume.Document{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.logger.Info("Resume rejected", zap.String("file_name", header.Filename), zap.Error(err))
		writeError(w, h.logger, err)
		return
	}

	utils.JSON(w, http.StatusCreated, h.orch.View(rec))
}

func (h *InterviewHandler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ProfileRequest](r)

	out, err := h.orch.SubmitProfileField(r.Context(), models.ProfileField(req.Field), req.Value)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := models.ProfileResponse{
		SessionResponse: h.orch.View(out.Record),
		Accepted:        out.Accepted(),
	}
	if out.Validation != nil {
		resp.Error = &models.ValidationErrorDetail{Field: string(out.Validation.Field), Reason: out.Validation.Message}
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *InterviewHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := h.orch.StartInterview(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, h.orch.View(rec))
}

func (h *InterviewHandler) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.AnswerRequest](r)

	out, err := h.orch.SubmitAnswer(r.Context(), orchestrator.Submission{
		QuestionID:    req.QuestionID,
		Response:      req.Response,
		AutoSubmitted: req.AutoSubmitted,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := models.AnswerResponse{
		SessionResponse: h.orch.View(out.Record),
		Applied:         out.Applied,
		Completed:       out.Completed,
	}
	if out.Applied {
		score := out.Result.Score
		resp.Score = &score
		resp.Rationale = out.Result.Rationale
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *InterviewHandler) PauseHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := h.orch.PauseInterview(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, h.orch.View(rec))
}

func (h *InterviewHandler) ResumeHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := h.orch.ResumeInterview(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, h.orch.View(rec))
}

// SuspendHandler is called by clients going away, such as a closing tab
func (h *InterviewHandler) SuspendHandler(w http.ResponseWriter, r *http.Request) {
	h.orch.Suspend(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *InterviewHandler) GetActiveHandler(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.orch.Active()
	if !ok {
		utils.Error(w, http.StatusNotFound, "no_active_candidate", "No candidate is currently selected")
		return
	}
	utils.JSON(w, http.StatusOK, h.orch.View(rec))
}

func (h *InterviewHandler) SelectActiveHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SelectActiveRequest](r)

	rec, err := h.orch.SelectActive(r.Context(), req.CandidateID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if rec == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	utils.JSON(w, http.StatusOK, h.orch.View(rec))
}

func (h *InterviewHandler) ListCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	rows := h.orch.Dashboard(orchestrator.DashboardQuery{
		Search: r.URL.Query().Get("search"),
		Sort:   r.URL.Query().Get("sort"),
	})
	utils.JSON(w, http.StatusOK, models.DashboardResponse{Candidates: rows, Total: len(rows)})
}

func (h *InterviewHandler) GetCandidateHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := h.orch.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, h.orch.View(rec))
}

func (h *InterviewHandler) ResetCandidateHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := h.orch.ResetInterview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, h.orch.View(rec))
}
