package geo

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/leadscope/internal/model"
)

// FeatureCollection builds a GeoJSON point layer from every lead that has
// coordinates. Leads without coordinates are skipped.
func FeatureCollection(leads []model.Lead) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(leads))}
	for _, l := range leads {
		if !l.HasCoords() {
			continue
		}
		// GeoJSON positions are lon, lat.
		pt := geom.NewPointFlat(geom.XY, []float64{*l.Lon, *l.Lat}).SetSRID(4326)
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       l.ID,
			Geometry: pt,
			Properties: map[string]any{
				"id":        l.ID,
				"name":      l.Name,
				"company":   l.Company,
				"location":  l.LocationDetails,
				"score":     l.Score,
				"is_remote": l.IsRemote,
			},
		})
	}
	return fc
}

// Center returns the mean position of the leads that have coordinates.
func Center(leads []model.Lead) (lat, lon float64, ok bool) {
	var n int
	for _, l := range leads {
		if !l.HasCoords() {
			continue
		}
		lat += *l.Lat
		lon += *l.Lon
		n++
	}
	if n == 0 {
		return 0, 0, false
	}
	return lat / float64(n), lon / float64(n), true
}
