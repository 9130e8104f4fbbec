package server

import (
	_ "embed"
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hejijunhao/botdeck/internal/dashboard"
	"github.com/hejijunhao/botdeck/internal/schedule"
)

//go:embed page.html
var pageHTML string

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

type pageData struct {
	Title string
	State dashboard.State
	Units []schedule.Unit
}

type renderer struct {
	tmpl *template.Template
}

func (r *renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

// Index renders the dashboard page with the current state; the page script
// keeps it live over the event stream.
func (h *Handler) Index(title string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, "page", pageData{
			Title: title,
			State: h.d.State(),
			Units: []schedule.Unit{schedule.Seconds, schedule.Minutes, schedule.Hours},
		})
	}
}
