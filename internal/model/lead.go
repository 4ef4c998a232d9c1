package model

import "strings"

// Source identifies which generator produced a lead.
type Source string

const (
	SourceProfile     Source = "profile"     // professional profile style
	SourcePublication Source = "publication" // publication author style
)

// AllSources lists every known source in display order.
var AllSources = []Source{SourceProfile, SourcePublication}

// Label returns a human readable name for the source.
func (s Source) Label() string {
	switch s {
	case SourceProfile:
		return "LinkedIn"
	case SourcePublication:
		return "PubMed"
	default:
		return string(s)
	}
}

// ParseSource maps user input to a known Source.
func ParseSource(raw string) (Source, bool) {
	s := Source(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range AllSources {
		if s == known {
			return s, true
		}
	}
	return "", false
}

// UnknownHQ is the company_hq sentinel for organizations missing from the
// reference tables.
const UnknownHQ = "Unknown HQ"

// Lead is a single synthetic person of interest. Pipeline stages take a Lead
// by value and return a copy with more fields set.
type Lead struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Title    string `json:"title" yaml:"title"`
	Company  string `json:"company" yaml:"company"`
	Location string `json:"location" yaml:"location"`
	Source   Source `json:"source" yaml:"source"`

	// Generator specific extras.
	HasRecentPaper  bool   `json:"has_recent_paper,omitempty" yaml:"has_recent_paper,omitempty"`
	ProfileURL      string `json:"profile_url,omitempty" yaml:"profile_url,omitempty"`
	Summary         string `json:"summary,omitempty" yaml:"summary,omitempty"`
	PaperTitle      string `json:"paper_title,omitempty" yaml:"paper_title,omitempty"`
	PublicationDate string `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`

	// Contact enrichment.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Location enrichment.
	CompanyHQ       string   `json:"company_hq" yaml:"company_hq"`
	IsRemote        bool     `json:"is_remote" yaml:"is_remote"`
	LocationDetails string   `json:"location_details" yaml:"location_details"`
	Lat             *float64 `json:"lat" yaml:"lat"`
	Lon             *float64 `json:"lon" yaml:"lon"`

	// Scoring.
	Score        int    `json:"score" yaml:"score"`
	ScoreReasons string `json:"score_reasons" yaml:"score_reasons"`
}

// HasCoords reports whether the lead carries a map position.
func (l Lead) HasCoords() bool {
	return l.Lat != nil && l.Lon != nil
}

// SetCoords sets both coordinates.
func (l *Lead) SetCoords(lat, lon float64) {
	l.Lat = &lat
	l.Lon = &lon
}

// ClearCoords removes both coordinates.
func (l *Lead) ClearCoords() {
	l.Lat = nil
	l.Lon = nil
}
