package httpserver

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/Clark-Hu/ratings-dashboard/internal/pipeline"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type indexPage struct {
	Title    string
	Views    []pipeline.View
	Selected string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	views := pipeline.Views()
	page := indexPage{
		Title:    "MovieLens ratings dashboard",
		Views:    views,
		Selected: views[0].ID,
	}
	if v, ok := pipeline.LookupView(r.URL.Query().Get("view")); ok {
		page.Selected = v.ID
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, page); err != nil {
		s.logger.Error().Err(err).Msg("http: render index")
	}
}
