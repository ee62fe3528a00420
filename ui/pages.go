package ui

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"kcalcount/domain/view"
	"kcalcount/domain/workout"
)

const pageTitle = "Calories Burnt Predictor"

type navItem struct {
	Slug   string
	Label  string
	Path   string
	Active bool
}

type pageData struct {
	PageTitle string
	Heading   string
	Nav       []navItem
	Body      template.HTML
}

type predictData struct {
	pageData
	Genders  []workout.Gender
	Bounds   []workout.Bound
	Form     workout.PredictionRequest
	Estimate *workout.Estimate
	Error    string
}

func newPageData(current view.View) pageData {
	views := view.All()
	nav := make([]navItem, len(views))
	for i, v := range views {
		nav[i] = navItem{
			Slug:   v.Slug(),
			Label:  v.Label(),
			Path:   view.Path(v),
			Active: v.Slug() == current.Slug(),
		}
	}
	return pageData{PageTitle: pageTitle, Heading: current.Title(), Nav: nav}
}

// pageRenderer writes one view to the response. Predict state is only set
// after a form submission.
type pageRenderer struct {
	s        *Server
	c        *gin.Context
	status   int
	form     workout.PredictionRequest
	estimate *workout.Estimate
	errMsg   string
}

var _ view.Visitor = (*pageRenderer)(nil)

func (s *Server) newPageRenderer(c *gin.Context) *pageRenderer {
	return &pageRenderer{s: s, c: c, status: http.StatusOK, form: workout.DefaultRequest()}
}

func (r *pageRenderer) Home(v view.Home) error   { return r.markdownPage(v) }
func (r *pageRenderer) About(v view.About) error { return r.markdownPage(v) }
func (r *pageRenderer) Info(v view.Info) error   { return r.markdownPage(v) }

func (r *pageRenderer) Predict(v view.Predict) error {
	r.s.renderTemplate(r.c, r.status, "predict.html", predictData{
		pageData: newPageData(v),
		Genders:  workout.Genders(),
		Bounds:   workout.Bounds(),
		Form:     r.form,
		Estimate: r.estimate,
		Error:    r.errMsg,
	})
	return nil
}

func (r *pageRenderer) markdownPage(v view.View) error {
	data := newPageData(v)
	data.Body = r.s.content[v.Slug()]
	r.s.renderTemplate(r.c, r.status, "page.html", data)
	return nil
}
