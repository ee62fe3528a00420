package ui

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"kcalcount/domain/core"
	"kcalcount/domain/view"
	"kcalcount/domain/workout"
	apperrors "kcalcount/internal/errors"
)

// viewHandler serves a fixed view.
func (s *Server) viewHandler(v view.View) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := v.Accept(s.newPageRenderer(c)); err != nil {
			s.log.Error("Failed to render %s: %v", v.Slug(), err)
			c.AbortWithStatus(http.StatusInternalServerError)
		}
	}
}

// handleNavigate is the target of the sidebar selector.
func (s *Server) handleNavigate(c *gin.Context) {
	v, err := view.Parse(c.Query("view"))
	if err != nil {
		c.String(http.StatusNotFound, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, view.Path(v))
}

// handlePredictForm runs a prediction from the form and re-renders the
// Predict view with the submitted values.
func (s *Server) handlePredictForm(c *gin.Context) {
	r := s.newPageRenderer(c)

	var req workout.PredictionRequest
	if err := c.ShouldBind(&req); err != nil {
		r.form = submittedForm(c)
		r.status = http.StatusUnprocessableEntity
		r.errMsg = "Please enter numeric values for every field."
		_ = view.Predict{}.Accept(r)
		return
	}
	if g, err := workout.ParseGender(string(req.Gender)); err == nil {
		req.Gender = g
	}
	r.form = req

	est, err := s.predictor.Predict(c.Request.Context(), req)
	if err != nil {
		r.status = statusFor(err)
		r.errMsg = userMessage(err)
		_ = view.Predict{}.Accept(r)
		return
	}
	r.estimate = &est
	_ = view.Predict{}.Accept(r)
}

// submittedForm keeps the parseable part of a form that failed to bind.
func submittedForm(c *gin.Context) workout.PredictionRequest {
	form := workout.DefaultRequest()
	if g, err := workout.ParseGender(c.PostForm("gender")); err == nil {
		form.Gender = g
	}
	for _, b := range workout.Bounds() {
		if v, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm(b.Field)), 64); err == nil {
			form.SetValue(b, v)
		}
	}
	return form
}

type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// handlePredictAPI is the JSON form of the Predict action.
func (s *Server) handlePredictAPI(c *gin.Context) {
	var req workout.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiError{Error: "request body is not a valid prediction request", Code: apperrors.CodeInvalidInput})
		return
	}

	est, err := s.predictor.Predict(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), apiError{Error: userMessage(err), Code: apperrors.GetCode(err)})
		return
	}
	c.JSON(http.StatusOK, est)
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := gin.H{"status": "ok", "model": s.predictor.ModelName()}
	if !s.opts.ModelHash.IsEmpty() {
		resp["sha256"] = s.opts.ModelHash.String()
	}
	c.JSON(http.StatusOK, resp)
}

func statusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.CodeInvalidInput:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// userMessage lists every validation problem, one per line. Inference and
// internal failures get a fixed message.
func userMessage(err error) string {
	if !core.IsInvalidInput(err) {
		return "The model could not produce a prediction. Please try again later."
	}

	cause := err
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Cause != nil {
		cause = appErr.Cause
	}

	var problems []string
	var joined interface{ Unwrap() []error }
	if errors.As(cause, &joined) {
		for _, e := range joined.Unwrap() {
			problems = append(problems, e.Error())
		}
	} else {
		problems = append(problems, cause.Error())
	}
	return strings.Join(problems, "\n")
}
