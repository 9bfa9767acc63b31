package trivia

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

const maxBodyBytes = 1 << 20

// HTTPHandler exposes the trivia REST endpoints.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler constructs a trivia HTTP handler.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "trivia_http").Logger(),
	}
}

// Routes registers the endpoints on r.
func (h *HTTPHandler) Routes(r chi.Router) {
	r.Get("/categories", h.ListCategories)
	r.Get("/categories/{categoryID:[0-9]+}/questions", h.QuestionsByCategory)
	r.Get("/questions", h.ListQuestions)
	r.Post("/questions", h.CreateQuestion)
	r.Post("/questions/search", h.SearchQuestions)
	r.Delete("/questions/{questionID}", h.DeleteQuestion)
	r.Post("/quizzes", h.PlayQuiz)
}

type categoriesResponse struct {
	Success    bool           `json:"success"`
	Categories map[int]string `json:"categories"`
}

type questionPageResponse struct {
	Success         bool           `json:"success"`
	Questions       []Question     `json:"questions"`
	TotalQuestions  int            `json:"total_questions"`
	Categories      map[int]string `json:"categories"`
	CurrentCategory *Category      `json:"current_category"`
}

type questionListResponse struct {
	Success         bool       `json:"success"`
	Questions       []Question `json:"questions"`
	TotalQuestions  int        `json:"total_questions"`
	CurrentCategory *Category  `json:"current_category"`
}

type deletedResponse struct {
	Success bool `json:"success"`
	Deleted int  `json:"deleted"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type createdResponse struct {
	Success bool `json:"success"`
	Created int  `json:"created"`
}

type quizResponse struct {
	Success   bool      `json:"success"`
	Question  *Question `json:"question"`
	Timestamp float64   `json:"timestamp"`
}

// ListCategories handles GET /categories.
func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, categoriesResponse{
		Success:    true,
		Categories: CategoryMap(categories),
	})
}

// ListQuestions handles GET /questions?page=N. A missing or non-numeric
// page means the first page.
func (h *HTTPHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page = parsed
		}
	}

	result, err := h.svc.ListQuestions(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, questionPageResponse{
		Success:        true,
		Questions:      result.Questions,
		TotalQuestions: result.Total,
		Categories:     CategoryMap(result.Categories),
	})
}

// DeleteQuestion handles DELETE /questions/{questionID}.
func (h *HTTPHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, deleted, err := h.svc.DeleteQuestion(r.Context(), chi.URLParam(r, "questionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !deleted {
		httperrors.RespondJSON(w, http.StatusOK, messageResponse{
			Success: false,
			Message: "Invalid question_id",
		})
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, deletedResponse{Success: true, Deleted: id})
}

// CreateQuestion handles POST /questions.
func (h *HTTPHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionRequest
	if !h.bind(w, r, &req) {
		return
	}

	id, err := h.svc.CreateQuestion(r.Context(), req.ToNewQuestion())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, createdResponse{Success: true, Created: id})
}

// SearchQuestions handles POST /questions/search.
func (h *HTTPHandler) SearchQuestions(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !h.bind(w, r, &req) {
		return
	}

	result, err := h.svc.SearchQuestions(r.Context(), req.Term())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, questionListResponse{
		Success:        true,
		Questions:      nonNil(result.Questions),
		TotalQuestions: result.Total,
	})
}

// QuestionsByCategory handles GET /categories/{categoryID}/questions.
func (h *HTTPHandler) QuestionsByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.Atoi(chi.URLParam(r, "categoryID"))
	if err != nil {
		httperrors.RespondNotFound(w)
		return
	}

	result, err := h.svc.QuestionsByCategory(r.Context(), categoryID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, questionListResponse{
		Success:         true,
		Questions:       nonNil(result.Questions),
		TotalQuestions:  result.Total,
		CurrentCategory: result.Category,
	})
}

// PlayQuiz handles POST /quizzes.
func (h *HTTPHandler) PlayQuiz(w http.ResponseWriter, r *http.Request) {
	var req PlayQuizRequest
	if !h.bind(w, r, &req) {
		return
	}

	round, err := h.svc.NextQuizQuestion(r.Context(), req.ToQuizRequest())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, quizResponse{
		Success:   true,
		Question:  round.Question,
		Timestamp: float64(round.Timestamp.UnixNano()) / 1e9,
	})
}

type validatable interface {
	Validate() error
}

// bind decodes the JSON body into dst and validates it. Undecodable
// bodies are a bad request; decodable bodies failing validation are
// unprocessable.
func (h *HTTPHandler) bind(w http.ResponseWriter, r *http.Request, dst validatable) bool {
	logger := logging.FromContext(r.Context())

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		logger.Debug().Err(err).Msg("request body rejected")
		httperrors.RespondBadRequest(w)
		return false
	}
	if err := dst.Validate(); err != nil {
		logger.Debug().Str("fields", validationSummary(err)).Msg("request validation failed")
		httperrors.RespondUnprocessable(w)
		return false
	}
	return true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(KindOf(err))
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	} else {
		logger := logging.FromContext(r.Context())
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	httperrors.RespondStatus(w, status)
}

// StatusFor maps an error kind to its HTTP status code.
func StatusFor(kind Kind) int {
	switch kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func nonNil(questions []Question) []Question {
	if questions == nil {
		return []Question{}
	}
	return questions
}
