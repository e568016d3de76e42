// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/askboard/askboard/internal/auth"
	"github.com/askboard/askboard/internal/qna"
)

// Handler holds the services the HTTP routes dispatch to.
type Handler struct {
	auth   *auth.Service
	qna    *qna.Service
	logger *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(authSvc *auth.Service, qnaSvc *qna.Service, logger *slog.Logger) *Handler {
	return &Handler{
		auth:   authSvc,
		qna:    qnaSvc,
		logger: logger,
	}
}

// RegisterRoutes attaches all routes to the engine. Authenticated routes
// go through the AuthRequired middleware.
func (h *Handler) RegisterRoutes(r *gin.Engine, codec *auth.TokenCodec) {
	r.POST("/registration", h.Register)
	r.POST("/login", h.Login)
	r.GET("/questions", h.ListQuestions)

	authed := r.Group("/", AuthRequired(codec, h.logger))
	{
		authed.POST("/questions", h.CreateQuestion)
		authed.PUT("/questions/:question_id", h.UpdateQuestion)
		authed.DELETE("/questions/:question_id", h.DeleteQuestion)
		authed.POST("/answers", h.CreateAnswer)
	}
}

// credentialsRequest is the body for registration and login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles account creation.
func (h *Handler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.auth.Register(c.Request.Context(), req.Email, req.Password); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "account created"})
}

// Login handles credential verification and token issuance.
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ListQuestions handles the public question listing. Pagination is
// optional but limit and offset must be given together.
func (h *Handler) ListQuestions(c *gin.Context) {
	p, err := qna.ParsePagination(c.Query("limit"), c.Query("offset"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	questions, err := h.qna.ListQuestions(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// CreateQuestion handles question submission.
func (h *Handler) CreateQuestion(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	var nq qna.NewQuestion
	if err := c.ShouldBindJSON(&nq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	question, err := h.qna.CreateQuestion(c.Request.Context(), session, nq)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion handles replacement of an owned question.
func (h *Handler) UpdateQuestion(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	id, err := questionIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return
	}

	var nq qna.NewQuestion
	if err := c.ShouldBindJSON(&nq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	question, err := h.qna.UpdateQuestion(c.Request.Context(), session, id, nq)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion handles removal of an owned question.
func (h *Handler) DeleteQuestion(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	id, err := questionIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return
	}

	if err := h.qna.DeleteQuestion(c.Request.Context(), session, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateAnswer handles answer submission.
func (h *Handler) CreateAnswer(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	var na qna.NewAnswer
	if err := c.ShouldBindJSON(&na); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	answer, err := h.qna.CreateAnswer(c.Request.Context(), session, na)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, answer)
}

func questionIDParam(c *gin.Context) (qna.QuestionID, error) {
	raw := c.Param("question_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return qna.QuestionID(id), nil
}
