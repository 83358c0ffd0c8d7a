package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/repository"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/response"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/service"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/validator"
)

// QuestionHandler handles question-bank management and the test-builder
// chapter listing.
type QuestionHandler struct {
	questionRepo *repository.QuestionRepository
	paperService *service.PaperService
	log          zerolog.Logger
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionRepo *repository.QuestionRepository, paperService *service.PaperService, log zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		questionRepo: questionRepo,
		paperService: paperService,
		log:          log.With().Str("component", "question_handler").Logger(),
	}
}

// ListChapters godoc
// GET /api/v1/candidate/subjects/:subject/chapters
// Returns the distinct chapters of a subject for the test builder.
func (h *QuestionHandler) ListChapters(c *gin.Context) {
	subject := model.Subject(c.Param("subject"))
	if !model.ValidSubject(subject) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	chapters, err := h.paperService.Chapters(c.Request.Context(), subject)
	if err != nil {
		h.log.Error().Err(err).Msg("Chapter listing failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"chapters": chapters})
}

// AddQuestion godoc
// POST /api/v1/admin/questions
// Adds a bank question. MCQ questions must carry options and an index
// answer; numerical questions must not carry options.
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	var req model.AddQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question := &model.Question{
		QuestionText:  req.QuestionText,
		QuestionType:  model.QuestionType(req.QuestionType),
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Subject:       model.Subject(req.Subject),
		Chapter:       req.Chapter,
		YearLabel:     req.YearLabel,
		Explanation:   req.Explanation,
		Diagram:       req.Diagram,
		Difficulty:    req.Difficulty,
	}
	if !question.WellFormed() || (question.QuestionType == model.QuestionTypeNumerical && len(question.Options) > 0) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"correct_answer": "must be a valid option index for MCQ; numerical questions take no options",
		})
		return
	}
	if question.Diagram != nil && !json.Valid(question.Diagram) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"diagram": "must be a valid JSON document",
		})
		return
	}

	if err := h.questionRepo.Create(c.Request.Context(), question); err != nil {
		h.log.Error().Err(err).Msg("Question insert failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// ListQuestions godoc
// GET /api/v1/admin/questions?subject=&page=&per_page=
// Returns a page of the bank, newest first.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	subject := c.Query("subject")
	if subject != "" && !model.ValidSubject(model.Subject(subject)) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	questions, total, err := h.questionRepo.List(c.Request.Context(), subject, page, perPage)
	if err != nil {
		h.log.Error().Err(err).Msg("Question listing failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	totalPages := int(total) / perPage
	if int(total)%perPage != 0 {
		totalPages++
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"questions": questions}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: int(total),
		TotalPages: totalPages,
	})
}

// DeleteQuestion godoc
// DELETE /api/v1/admin/questions/:question_id
// Removes a bank question. Sessions already holding the question keep
// their drawn copy.
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.questionRepo.Delete(c.Request.Context(), questionID); err != nil {
		h.log.Error().Err(err).Msg("Question delete failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
