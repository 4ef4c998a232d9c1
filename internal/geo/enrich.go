// Package geo resolves company headquarters, remote status and map
// coordinates for leads, and builds the GeoJSON map layer.
package geo

import (
	"math/rand/v2"
	"strings"

	"github.com/sells-group/leadscope/internal/model"
	"github.com/sells-group/leadscope/internal/reference"
)

// JitterDegrees is the maximum offset added to each coordinate so leads in
// the same city do not stack on the map.
const JitterDegrees = 0.01

// Rand supplies uniform values in [0, 1). *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	Float64() float64
}

type noJitter struct{}

func (noJitter) Float64() float64 { return 0.5 }

// NoJitter is a Rand that produces a zero offset.
var NoJitter Rand = noJitter{}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Enricher attaches location context to leads.
type Enricher struct {
	tables *reference.Tables
	rnd    Rand
}

// NewEnricher creates an Enricher. A nil rnd uses the process-wide source.
func NewEnricher(tables *reference.Tables, rnd Rand) *Enricher {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Enricher{tables: tables, rnd: rnd}
}

// Enrich returns a copy of lead with company_hq, is_remote,
// location_details and, for known cities, jittered coordinates.
func (e *Enricher) Enrich(lead model.Lead) model.Lead {
	hq, ok := e.tables.HQ(lead.Company)
	if !ok {
		hq = model.UnknownHQ
	}

	lead.CompanyHQ = hq
	lead.IsRemote = isRemote(lead.Location, hq)
	if lead.IsRemote {
		lead.LocationDetails = lead.Location + " (HQ: " + hq + ")"
	} else {
		lead.LocationDetails = lead.Location
	}

	lat, lon, known := e.tables.Coordinates(lead.Location)
	if known && (lat != 0 || lon != 0) {
		lead.SetCoords(lat+e.jitter(), lon+e.jitter())
	} else {
		lead.ClearCoords()
	}

	return lead
}

func (e *Enricher) jitter() float64 {
	return (e.rnd.Float64()*2 - 1) * JitterDegrees
}

// isRemote flags an explicit "Remote" location, or a city that does not
// appear in a known headquarters. Both checks are case-sensitive.
func isRemote(location, hq string) bool {
	if strings.Contains(location, "Remote") {
		return true
	}
	if hq == model.UnknownHQ {
		return false
	}
	city, _, _ := strings.Cut(location, ",")
	return !strings.Contains(hq, city)
}
