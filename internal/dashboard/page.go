package dashboard

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/leadscope/internal/geo"
	"github.com/sells-group/leadscope/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type sourceOption struct {
	Value   model.Source
	Label   string
	Checked bool
}

type formState struct {
	Sources  []sourceOption
	Limit    int
	MinLimit int
	MaxLimit int
	MinScore int
	Location string
	Seed     string
}

type pageData struct {
	Ran        bool
	Form       formState
	Metrics    Metrics
	Leads      []model.Lead
	Map        *geojson.FeatureCollection
	HasMap     bool
	CenterLat  float64
	CenterLon  float64
	ExportCSV  template.URL
	ExportXLSX template.URL
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("run") != "1" {
		q, err := s.ParseQuery(r.URL.Query())
		if err != nil {
			writeError(w, r, err)
			return
		}
		s.renderPage(w, r, pageData{Form: s.form(q)})
		return
	}

	q, view, err := s.execute(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data := pageData{
		Ran:     true,
		Form:    s.form(q),
		Metrics: view.Metrics,
		Leads:   view.Leads,
		Map:     geo.FeatureCollection(view.Leads),
	}
	qs := encodeQuery(q)
	data.ExportCSV = template.URL("/api/leads/export.csv?" + qs)
	data.ExportXLSX = template.URL("/api/leads/export.xlsx?" + qs)
	data.CenterLat, data.CenterLon, data.HasMap = geo.Center(view.Leads)
	s.renderPage(w, r, data)
}

func (s *Server) form(q Query) formState {
	f := formState{
		Limit:    q.Request.Limit,
		MinLimit: s.cfg.MinLimit,
		MaxLimit: s.cfg.MaxLimit,
		MinScore: q.Filter.MinScore,
		Location: q.Filter.Location,
	}
	if q.Request.Seed != 0 {
		f.Seed = strconv.FormatUint(q.Request.Seed, 10)
	}
	for _, src := range model.AllSources {
		f.Sources = append(f.Sources, sourceOption{
			Value:   src,
			Label:   src.Label(),
			Checked: slices.Contains(q.Request.Sources, src),
		})
	}
	return f
}

// encodeQuery rebuilds the query string for a parsed request so exports
// reproduce the same run.
func encodeQuery(q Query) string {
	v := url.Values{}
	names := make([]string, len(q.Request.Sources))
	for i, src := range q.Request.Sources {
		names[i] = string(src)
	}
	v.Set("sources", strings.Join(names, ","))
	v.Set("limit", strconv.Itoa(q.Request.Limit))
	v.Set("min_score", strconv.Itoa(q.Filter.MinScore))
	if q.Filter.Location != "" {
		v.Set("location", q.Filter.Location)
	}
	if q.Request.Seed != 0 {
		v.Set("seed", strconv.FormatUint(q.Request.Seed, 10))
	}
	return v.Encode()
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, data pageData) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
