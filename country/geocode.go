package country

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/icos-cp/cpb/errs"
	"github.com/icos-cp/cpb/internal/options"
	"github.com/icos-cp/cpb/logging"
)

const (
	// DefaultPortalNominatim is the portal's own nominatim instance, tried
	// first.
	DefaultPortalNominatim = "https://nominatim.icos-cp.eu/reverse"

	// DefaultPublicNominatim is the public OpenStreetMap instance, the
	// last resort.
	DefaultPublicNominatim = "https://nominatim.openstreetmap.org/reverse"
)

// Geocoder resolves coordinates to countries via nominatim reverse
// lookups.
//
// Three lookups are attempted in order, each once: the portal instance at
// country zoom, the portal instance without a zoom constraint, and the
// public OpenStreetMap instance at country zoom. The first answer carrying
// a country code wins.
type Geocoder struct {
	portalURL string
	publicURL string
	httpc     *http.Client
	logger    *zap.Logger
}

// GeocoderOption configures a Geocoder.
type GeocoderOption = options.Option[*Geocoder]

// WithPortalNominatim overrides the portal nominatim URL. Empty skips the
// portal instance entirely.
func WithPortalNominatim(url string) GeocoderOption {
	return options.NoError(func(g *Geocoder) { g.portalURL = url })
}

// WithPublicNominatim overrides the public nominatim URL. Empty skips the
// public fallback.
func WithPublicNominatim(url string) GeocoderOption {
	return options.NoError(func(g *Geocoder) { g.publicURL = url })
}

// WithHTTPClient overrides the HTTP client used for lookups.
func WithHTTPClient(httpc *http.Client) GeocoderOption {
	return options.NoError(func(g *Geocoder) { g.httpc = httpc })
}

// NewGeocoder creates a Geocoder with portal defaults adjusted by opts.
func NewGeocoder(opts ...GeocoderOption) (*Geocoder, error) {
	g := &Geocoder{
		portalURL: DefaultPortalNominatim,
		publicURL: DefaultPublicNominatim,
		httpc:     http.DefaultClient,
	}
	if err := options.Apply(g, opts...); err != nil {
		return nil, err
	}
	g.logger = logging.With(zap.String("component", "geocoder"))

	return g, nil
}

// reverseAnswer is the subset of a nominatim reverse response we read.
type reverseAnswer struct {
	Error   string `json:"error"`
	Address struct {
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

// ReverseCode resolves the coordinates to an ISO 3166-1 alpha-2 country
// code, lowercase as nominatim reports it. It returns errs.ErrGeocode when
// every service in the fallback chain fails or answers without a country.
func (g *Geocoder) ReverseCode(ctx context.Context, lat, lon float64) (string, error) {
	type attempt struct {
		base string
		zoom string
	}
	attempts := []attempt{
		{base: g.portalURL, zoom: "3"},
		{base: g.portalURL},
		{base: g.publicURL, zoom: "3"},
	}

	for _, a := range attempts {
		if a.base == "" {
			continue
		}

		code, err := g.lookup(ctx, a.base, lat, lon, a.zoom)
		if err != nil {
			g.logger.Debug("reverse geocode attempt failed",
				zap.String("url", a.base),
				zap.String("zoom", a.zoom),
				zap.Error(err))

			continue
		}

		return code, nil
	}

	return "", fmt.Errorf("%w: lat %v lon %v", errs.ErrGeocode, lat, lon)
}

// Reverse resolves the coordinates to a country record from the static
// dataset.
func (g *Geocoder) Reverse(ctx context.Context, lat, lon float64) (*Country, error) {
	code, err := g.ReverseCode(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	return ByCode(code)
}

func (g *Geocoder) lookup(ctx context.Context, base string, lat, lon float64, zoom string) (string, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	if zoom != "" {
		query.Set("zoom", zoom)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := g.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s from %s", errs.ErrRemoteStatus, resp.Status, base)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrNetwork, err)
	}

	var answer reverseAnswer
	if err := json.Unmarshal(body, &answer); err != nil {
		return "", err
	}
	if answer.Error != "" {
		return "", fmt.Errorf("%w: %s", errs.ErrGeocode, answer.Error)
	}
	if answer.Address.CountryCode == "" {
		return "", fmt.Errorf("%w: answer carries no country", errs.ErrGeocode)
	}

	return answer.Address.CountryCode, nil
}
