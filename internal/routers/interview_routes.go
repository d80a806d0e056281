package routers

import (
	"net/http"

	"peerprep/interview/internal/handlers"
	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

// InterviewRoutes registers the candidate workflow and observer endpoints.
// observerFeed serves the websocket at /ws and may be nil.
func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, observerFeed http.HandlerFunc) {
	router.Route("/api/v1/interview", func(r chi.Router) {
		r.Post("/documents", interviewHandler.UploadDocumentHandler)
		r.With(middleware.ValidateRequest[*models.ProfileRequest]()).Post("/profile", interviewHandler.ProfileHandler)
		r.Post("/start", interviewHandler.StartHandler)
		r.With(middleware.ValidateRequest[*models.AnswerRequest]()).Post("/answers", interviewHandler.AnswerHandler)
		r.Post("/pause", interviewHandler.PauseHandler)
		r.Post("/resume", interviewHandler.ResumeHandler)
		r.Post("/suspend", interviewHandler.SuspendHandler)

		r.Get("/active", interviewHandler.GetActiveHandler)
		r.With(middleware.ValidateRequest[*models.SelectActiveRequest]()).Put("/active", interviewHandler.SelectActiveHandler)

		r.Get("/candidates", interviewHandler.ListCandidatesHandler)
		r.Get("/candidates/{id}", interviewHandler.GetCandidateHandler)
		r.Post("/candidates/{id}/reset", interviewHandler.ResetCandidateHandler)

		if observerFeed != nil {
			r.Get("/ws", observerFeed)
		}
	})
}
