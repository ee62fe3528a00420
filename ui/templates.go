package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"strconv"

	"github.com/gin-gonic/gin"
)

var funcMap = template.FuncMap{
	// num prints bounds and form values without trailing zeros.
	"num": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
}

// parseTemplates builds one template set per page body, each sharing the layout.
func parseTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	base, err := template.New("layout.html").Funcs(funcMap).ParseFS(fsys, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	sets := make(map[string]*template.Template)
	for _, page := range []string{"page.html", "predict.html"} {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFS(fsys, "templates/"+page); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		sets[page] = clone
	}
	return sets, nil
}

// renderTemplate executes a page into a buffer first so that a template error
// never produces a half-written response
func (s *Server) renderTemplate(c *gin.Context, status int, page string, data interface{}) {
	tmpl, ok := s.templates[page]
	if !ok {
		s.log.Error("Unknown template %s", page)
		c.AbortWithStatusJSON(500, gin.H{"error": "template not found"})
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.log.Error("Template error for %s: %v", page, err)
		c.AbortWithStatusJSON(500, gin.H{"error": "Template rendering failed"})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.log.Error("Error writing template response: %v", err)
	}
}
