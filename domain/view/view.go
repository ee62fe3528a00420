// Package view defines the closed set of pages the application shows.
//
// View is sealed: only this package can implement it. Callers dispatch through
// Visitor, so adding a variant breaks compilation of every visitor until the
// new page is handled.
package view

import (
	"fmt"
	"strings"
)

// View is one navigable page.
type View interface {
	Slug() string
	Title() string
	Label() string
	Accept(v Visitor) error
	sealed()
}

// Visitor handles every view variant.
type Visitor interface {
	Home(Home) error
	About(About) error
	Info(Info) error
	Predict(Predict) error
}

type (
	Home    struct{}
	About   struct{}
	Info    struct{}
	Predict struct{}
)

func (Home) Slug() string    { return "home" }
func (About) Slug() string   { return "about" }
func (Info) Slug() string    { return "info" }
func (Predict) Slug() string { return "predict" }

func (Home) Title() string    { return "KCAL-COUNT: Calories Burnt Prediction using XGBoost Regressor" }
func (About) Title() string   { return "About This Project" }
func (Info) Title() string    { return "Feature & Model Information" }
func (Predict) Title() string { return "Predict Calories Burnt" }

func (Home) Label() string    { return "🏠 Home" }
func (About) Label() string   { return "📖 About" }
func (Info) Label() string    { return "📊 Info" }
func (Predict) Label() string { return "🔍 Predict" }

func (h Home) Accept(v Visitor) error    { return v.Home(h) }
func (a About) Accept(v Visitor) error   { return v.About(a) }
func (i Info) Accept(v Visitor) error    { return v.Info(i) }
func (p Predict) Accept(v Visitor) error { return v.Predict(p) }

func (Home) sealed()    {}
func (About) sealed()   {}
func (Info) sealed()    {}
func (Predict) sealed() {}

// All returns the views in navigation order.
func All() []View {
	return []View{Home{}, About{}, Info{}, Predict{}}
}

// Path is the URL path a view is served at.
func Path(v View) string {
	if _, ok := v.(Home); ok {
		return "/"
	}
	return "/" + v.Slug()
}

// Parse resolves a slug to its view.
func Parse(slug string) (View, error) {
	want := strings.ToLower(strings.TrimSpace(slug))
	for _, v := range All() {
		if v.Slug() == want {
			return v, nil
		}
	}
	return nil, fmt.Errorf("unknown view %q", slug)
}
