package geo

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscope/internal/model"
	"github.com/sells-group/leadscope/internal/reference"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func TestEnrich(t *testing.T) {
	e := NewEnricher(reference.Default(), NoJitter)

	tests := []struct {
		name        string
		company     string
		location    string
		wantHQ      string
		wantRemote  bool
		wantDetails string
		wantCoords  bool
	}{
		{
			name:        "remote keyword with unknown company",
			company:     "Harvard Medical School",
			location:    "Remote, TX",
			wantHQ:      model.UnknownHQ,
			wantRemote:  true,
			wantDetails: "Remote, TX (HQ: Unknown HQ)",
			wantCoords:  true,
		},
		{
			name:        "city inside hq",
			company:     "Vertex",
			location:    "Boston, MA",
			wantHQ:      "Boston, MA",
			wantRemote:  false,
			wantDetails: "Boston, MA",
			wantCoords:  true,
		},
		{
			name:        "city is substring of hq",
			company:     "Genentech",
			location:    "San Francisco, CA",
			wantHQ:      "South San Francisco, CA",
			wantRemote:  false,
			wantDetails: "San Francisco, CA",
			wantCoords:  true,
		},
		{
			name:        "city outside hq",
			company:     "Pfizer",
			location:    "Boston, MA",
			wantHQ:      "New York, NY",
			wantRemote:  true,
			wantDetails: "Boston, MA (HQ: New York, NY)",
			wantCoords:  true,
		},
		{
			name:        "unknown company is never remote by city",
			company:     "Unknown Org",
			location:    "Durham, NC",
			wantHQ:      model.UnknownHQ,
			wantRemote:  false,
			wantDetails: "Durham, NC",
			wantCoords:  true,
		},
		{
			name:        "remote check is case sensitive",
			company:     "Unknown Org",
			location:    "remote, TX",
			wantHQ:      model.UnknownHQ,
			wantRemote:  false,
			wantDetails: "remote, TX",
			wantCoords:  false,
		},
		{
			name:        "unknown city has no coordinates",
			company:     "Moderna",
			location:    "Atlantis",
			wantHQ:      "Cambridge, MA",
			wantRemote:  true,
			wantDetails: "Atlantis (HQ: Cambridge, MA)",
			wantCoords:  false,
		},
		{
			name:        "empty fields",
			wantHQ:      model.UnknownHQ,
			wantRemote:  false,
			wantDetails: "",
			wantCoords:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := model.Lead{Name: "Jane Doe", Company: tt.company, Location: tt.location}
			got := e.Enrich(in)

			assert.Equal(t, tt.wantHQ, got.CompanyHQ)
			assert.Equal(t, tt.wantRemote, got.IsRemote)
			assert.Equal(t, tt.wantDetails, got.LocationDetails)
			assert.Equal(t, tt.wantCoords, got.HasCoords())
			if !tt.wantCoords {
				assert.Nil(t, got.Lat)
				assert.Nil(t, got.Lon)
			}

			// Earlier fields are preserved and the input is untouched.
			assert.Equal(t, "Jane Doe", got.Name)
			assert.Empty(t, in.CompanyHQ)
			assert.Nil(t, in.Lat)
		})
	}
}

func TestEnrich_NoJitterExactCoordinates(t *testing.T) {
	e := NewEnricher(reference.Default(), NoJitter)

	got := e.Enrich(model.Lead{Company: "Vertex", Location: "Boston, MA"})
	require.True(t, got.HasCoords())
	assert.InDelta(t, 42.3601, *got.Lat, 1e-12)
	assert.InDelta(t, -71.0589, *got.Lon, 1e-12)
}

func TestEnrich_JitterBounds(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		offset float64
	}{
		{"low end", 0, -JitterDegrees},
		{"midpoint", 0.5, 0},
		{"high end", 0.999999, JitterDegrees},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEnricher(reference.Default(), fixedRand(tt.value))
			got := e.Enrich(model.Lead{Location: "Basel, Switzerland"})
			require.True(t, got.HasCoords())
			assert.InDelta(t, 47.5596+tt.offset, *got.Lat, 1e-6)
			assert.InDelta(t, 7.5886+tt.offset, *got.Lon, 1e-6)
		})
	}
}

func TestEnrich_RandomJitterStaysInRange(t *testing.T) {
	e := NewEnricher(reference.Default(), rand.New(rand.NewPCG(1, 2)))

	for range 200 {
		got := e.Enrich(model.Lead{Location: "London, UK"})
		require.True(t, got.HasCoords())
		assert.LessOrEqual(t, abs(*got.Lat-51.5074), JitterDegrees)
		assert.LessOrEqual(t, abs(*got.Lon-(-0.1278)), JitterDegrees)
	}
}

func TestEnrich_NilRandUsesGlobalSource(t *testing.T) {
	e := NewEnricher(reference.Default(), nil)
	got := e.Enrich(model.Lead{Location: "Durham, NC"})
	require.True(t, got.HasCoords())
	assert.LessOrEqual(t, abs(*got.Lat-35.9940), JitterDegrees)
}

func TestEnrich_ClearsStaleCoordinates(t *testing.T) {
	e := NewEnricher(reference.Default(), NoJitter)

	in := model.Lead{Location: "Atlantis"}
	in.SetCoords(1, 2)

	got := e.Enrich(in)
	assert.False(t, got.HasCoords())
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
