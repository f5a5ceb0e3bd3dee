// Package country looks up static country information and reverse geocodes
// coordinates to countries.
//
// The static dataset is embedded and derives from
// https://github.com/mledoze/countries. Reverse geocoding calls the portal's
// nominatim instance and falls back to the public OpenStreetMap one.
package country

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/icos-cp/cpb/errs"
)

//go:embed countries.json
var countriesRaw []byte

// Name carries the common and official names of a country.
type Name struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

// Country is one record of the static dataset.
type Country struct {
	Name         Name      `json:"name"`
	CCA2         string    `json:"cca2"`
	CCA3         string    `json:"cca3"`
	AltSpellings []string  `json:"altSpellings"`
	Region       string    `json:"region"`
	Subregion    string    `json:"subregion"`
	Capital      []string  `json:"capital"`
	LatLng       []float64 `json:"latlng"`
	Area         float64   `json:"area"`
}

func (c Country) String() string { return c.Name.Common }

var (
	loadOnce  sync.Once
	countries []Country
	loadErr   error
)

func load() ([]Country, error) {
	loadOnce.Do(func() {
		loadErr = json.Unmarshal(countriesRaw, &countries)
	})

	return countries, loadErr
}

// All returns every country in the dataset.
func All() ([]Country, error) {
	list, err := load()
	if err != nil {
		return nil, err
	}

	out := make([]Country, len(list))
	copy(out, list)

	return out, nil
}

// ByCode looks a country up by its ISO 3166-1 alpha-2 or alpha-3 code,
// case-insensitively.
func ByCode(code string) (*Country, error) {
	list, err := load()
	if err != nil {
		return nil, err
	}

	for i := range list {
		if strings.EqualFold(code, list[i].CCA2) || strings.EqualFold(code, list[i].CCA3) {
			c := list[i]

			return &c, nil
		}
	}

	return nil, fmt.Errorf("%w: country code %q", errs.ErrNotFound, code)
}

// ByName finds countries whose common or official name, or any alternative
// spelling, contains the given text, case-insensitively. Partial names
// match.
func ByName(name string) ([]Country, error) {
	list, err := load()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(name)
	var out []Country
	for _, c := range list {
		hay := strings.ToLower(c.Name.Common + " " + c.Name.Official + " " + strings.Join(c.AltSpellings, " "))
		if strings.Contains(hay, needle) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: country name %q", errs.ErrNotFound, name)
	}

	return out, nil
}

// Search finds countries whose record contains the given text in any field,
// case-insensitively.
func Search(term string) ([]Country, error) {
	list, err := load()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	var out []Country
	for _, c := range list {
		raw, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		if strings.Contains(strings.ToLower(string(raw)), needle) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no country matching %q", errs.ErrNotFound, term)
	}

	return out, nil
}
