// Package reference holds the immutable lookup tables shared by the lead
// generators and enrichers.
package reference

import (
	_ "embed"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTablesYAML []byte

// City is a known location label with its coordinates.
type City struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

// Company is an organization with a known headquarters.
type Company struct {
	Name string `yaml:"name"`
	HQ   string `yaml:"hq"`
}

// Institute is an academic affiliation and the city it sits in.
type Institute struct {
	Name     string `yaml:"name"`
	Location string `yaml:"location"`
}

type document struct {
	Cities            []City      `yaml:"cities"`
	Companies         []Company   `yaml:"companies"`
	Institutes        []Institute `yaml:"institutes"`
	ProfileTitles     []string    `yaml:"profile_titles"`
	PublicationTitles []string    `yaml:"publication_titles"`
	ResearchTopics    []string    `yaml:"research_topics"`
}

// Tables is a parsed, read-only set of lookup tables. Accessors return copies
// in document order.
type Tables struct {
	doc        document
	cities     map[string]City
	hqs        map[string]string
	institutes map[string]string
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the tables embedded in the binary. They are parsed on first
// use and shared for the life of the process.
func Default() *Tables {
	defaultOnce.Do(func() {
		t, err := Parse(defaultTablesYAML)
		if err != nil {
			panic(eris.Wrap(err, "reference: embedded tables"))
		}
		defaultTables = t
	})
	return defaultTables
}

// Load reads tables from a YAML file on disk.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "reference: read tables %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates a tables document.
func Parse(data []byte) (*Tables, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "reference: parse tables")
	}

	t := &Tables{
		doc:        doc,
		cities:     make(map[string]City, len(doc.Cities)),
		hqs:        make(map[string]string, len(doc.Companies)),
		institutes: make(map[string]string, len(doc.Institutes)),
	}

	var errs []string
	for _, c := range doc.Cities {
		if strings.TrimSpace(c.Name) == "" {
			errs = append(errs, "city with empty name")
			continue
		}
		if _, dup := t.cities[c.Name]; dup {
			errs = append(errs, "duplicate city "+c.Name)
			continue
		}
		t.cities[c.Name] = c
	}
	for _, c := range doc.Companies {
		if strings.TrimSpace(c.Name) == "" {
			errs = append(errs, "company with empty name")
			continue
		}
		if _, dup := t.hqs[c.Name]; dup {
			errs = append(errs, "duplicate company "+c.Name)
			continue
		}
		t.hqs[c.Name] = c.HQ
	}
	for _, in := range doc.Institutes {
		if strings.TrimSpace(in.Name) == "" {
			errs = append(errs, "institute with empty name")
			continue
		}
		if _, dup := t.institutes[in.Name]; dup {
			errs = append(errs, "duplicate institute "+in.Name)
			continue
		}
		if _, known := t.cities[in.Location]; !known {
			errs = append(errs, "institute "+in.Name+" has unknown location "+strconv.Quote(in.Location))
			continue
		}
		t.institutes[in.Name] = in.Location
	}

	required := map[string]int{
		"cities":             len(doc.Cities),
		"companies":          len(doc.Companies),
		"institutes":         len(doc.Institutes),
		"profile_titles":     len(doc.ProfileTitles),
		"publication_titles": len(doc.PublicationTitles),
		"research_topics":    len(doc.ResearchTopics),
	}
	for _, name := range []string{"cities", "companies", "institutes", "profile_titles", "publication_titles", "research_topics"} {
		if required[name] == 0 {
			errs = append(errs, name+" must not be empty")
		}
	}

	if len(errs) > 0 {
		return nil, eris.Errorf("reference: invalid tables: %s", strings.Join(errs, "; "))
	}
	return t, nil
}

// HQ returns the headquarters location of a known organization.
func (t *Tables) HQ(company string) (string, bool) {
	hq, ok := t.hqs[company]
	return hq, ok
}

// Coordinates returns the latitude and longitude of a known location label.
func (t *Tables) Coordinates(location string) (lat, lon float64, ok bool) {
	c, ok := t.cities[location]
	if !ok {
		return 0, 0, false
	}
	return c.Lat, c.Lon, true
}

// Cities returns every known location label.
func (t *Tables) Cities() []string {
	out := make([]string, len(t.doc.Cities))
	for i, c := range t.doc.Cities {
		out[i] = c.Name
	}
	return out
}

// Companies returns every organization with a known headquarters.
func (t *Tables) Companies() []string {
	out := make([]string, len(t.doc.Companies))
	for i, c := range t.doc.Companies {
		out[i] = c.Name
	}
	return out
}

// Institutes returns the academic affiliations used for publication authors.
func (t *Tables) Institutes() []string {
	out := make([]string, len(t.doc.Institutes))
	for i, in := range t.doc.Institutes {
		out[i] = in.Name
	}
	return out
}

// InstituteLocation returns the city an academic institute is based in.
func (t *Tables) InstituteLocation(name string) (string, bool) {
	loc, ok := t.institutes[name]
	return loc, ok
}

// ProfileTitles returns the professional role titles.
func (t *Tables) ProfileTitles() []string {
	return clone(t.doc.ProfileTitles)
}

// PublicationTitles returns the academic titles.
func (t *Tables) PublicationTitles() []string {
	return clone(t.doc.PublicationTitles)
}

// ResearchTopics returns the topics used to build paper titles.
func (t *Tables) ResearchTopics() []string {
	return clone(t.doc.ResearchTopics)
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
