package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zamontech/yaqinbot/internal/entity"
)

const (
	defaultBaseURL    = "https://places.googleapis.com/v1"
	defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"
	defaultTimeout    = 20 * time.Second

	// PhotoMaxHeight bounds the derived media size requested for cards.
	PhotoMaxHeight = 800
)

// ErrNoMatch is returned when the provider finds zero candidates.
var ErrNoMatch = errors.New("no matching place")

// ProviderError reports a transport-level failure from the places provider.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("places provider error: status=%d body=%s", e.Status, e.Body)
}

// The Places API (New) requires leaf fields in the mask.
var nearbyFieldMask = strings.Join([]string{
	"places.displayName.text",
	"places.formattedAddress",
	"places.location",
	"places.primaryType",
	"places.rating",
	"places.userRatingCount",
	"places.currentOpeningHours.openNow",
	"places.currentOpeningHours.weekdayDescriptions",
	"places.nationalPhoneNumber",
	"places.internationalPhoneNumber",
	"places.websiteUri",
	"places.googleMapsUri",
	"places.photos.name",
}, ",")

const textFieldMask = "places.location"

// Client calls the Google Places API (New) and the Geocoding API.
type Client struct {
	httpClient *http.Client
	noRedirect *http.Client
	apiKey     string
	baseURL    string
	geocodeURL string
}

// Option configures optional client behaviour.
type Option func(*Client)

// WithBaseURL overrides the places endpoint, used by tests.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithGeocodeURL overrides the geocoding endpoint, used by tests.
func WithGeocodeURL(base string) Option {
	return func(c *Client) {
		c.geocodeURL = base
	}
}

// NewClient builds a places client.
func NewClient(httpClient *http.Client, apiKey string, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	// Photo media responds with a redirect to the actual image; the
	// redirect target is the value we want, so it must not be followed.
	noRedirect := *httpClient
	noRedirect.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	c := &Client{
		httpClient: httpClient,
		noRedirect: &noRedirect,
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		geocodeURL: defaultGeocodeURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type latLngPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type placePayload struct {
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress    string        `json:"formattedAddress"`
	Location            latLngPayload `json:"location"`
	PrimaryType         string        `json:"primaryType"`
	Rating              *float64      `json:"rating"`
	UserRatingCount     int           `json:"userRatingCount"`
	CurrentOpeningHours *struct {
		OpenNow             *bool    `json:"openNow"`
		WeekdayDescriptions []string `json:"weekdayDescriptions"`
	} `json:"currentOpeningHours"`
	NationalPhoneNumber      string `json:"nationalPhoneNumber"`
	InternationalPhoneNumber string `json:"internationalPhoneNumber"`
	WebsiteURI               string `json:"websiteUri"`
	GoogleMapsURI            string `json:"googleMapsUri"`
	Photos                   []struct {
		Name string `json:"name"`
	} `json:"photos"`
}

type searchResponse struct {
	Places []placePayload `json:"places"`
}

// SearchText resolves a free-text query to coordinates using the first
// candidate. Returns ErrNoMatch when the provider has no candidates.
func (c *Client) SearchText(ctx context.Context, query string) (entity.LatLng, error) {
	body := map[string]any{
		"textQuery":      query,
		"maxResultCount": 1,
	}

	var resp searchResponse
	if err := c.postJSON(ctx, "/places:searchText", textFieldMask, body, &resp); err != nil {
		return entity.LatLng{}, err
	}
	if len(resp.Places) == 0 {
		return entity.LatLng{}, ErrNoMatch
	}
	loc := resp.Places[0].Location
	return entity.LatLng{Latitude: loc.Latitude, Longitude: loc.Longitude}, nil
}

// SearchNearby returns places around origin within radiusMeters, restricted
// to the given provider types, in provider order. An empty slice is a valid
// outcome, not an error.
func (c *Client) SearchNearby(ctx context.Context, origin entity.LatLng, types []string, radiusMeters float64, maxResults int) ([]entity.Place, error) {
	body := map[string]any{
		"maxResultCount": maxResults,
		"locationRestriction": map[string]any{
			"circle": map[string]any{
				"center": latLngPayload{Latitude: origin.Latitude, Longitude: origin.Longitude},
				"radius": radiusMeters,
			},
		},
	}
	if len(types) > 0 {
		body["includedTypes"] = types
	}

	var resp searchResponse
	if err := c.postJSON(ctx, "/places:searchNearby", nearbyFieldMask, body, &resp); err != nil {
		return nil, err
	}

	results := make([]entity.Place, 0, len(resp.Places))
	for _, p := range resp.Places {
		results = append(results, normalize(p))
	}
	return results, nil
}

func normalize(p placePayload) entity.Place {
	place := entity.Place{
		DisplayName:      p.DisplayName.Text,
		FormattedAddress: p.FormattedAddress,
		Location:         entity.LatLng{Latitude: p.Location.Latitude, Longitude: p.Location.Longitude},
		PrimaryType:      p.PrimaryType,
		Rating:           p.Rating,
		RatingCount:      p.UserRatingCount,
		Website:          p.WebsiteURI,
		MapsURI:          p.GoogleMapsURI,
		Open:             entity.OpenUnknown,
	}
	if hours := p.CurrentOpeningHours; hours != nil {
		place.WeekdayHours = hours.WeekdayDescriptions
		if hours.OpenNow != nil {
			if *hours.OpenNow {
				place.Open = entity.OpenNow
			} else {
				place.Open = entity.ClosedNow
			}
		}
	}
	if p.InternationalPhoneNumber != "" {
		place.Phone = p.InternationalPhoneNumber
	} else {
		place.Phone = p.NationalPhoneNumber
	}
	if len(p.Photos) > 0 {
		place.PhotoRef = p.Photos[0].Name
	}
	return place
}

// PhotoURL resolves a photo reference to a fetchable image URL. The media
// endpoint answers with a redirect; the redirect target is returned when
// present, otherwise the media URL itself.
func (c *Client) PhotoURL(ctx context.Context, photoRef string, maxHeightPx int) (string, error) {
	if photoRef == "" {
		return "", ErrNoMatch
	}
	if maxHeightPx <= 0 {
		maxHeightPx = PhotoMaxHeight
	}

	mediaURL := fmt.Sprintf("%s/%s/media?maxHeightPx=%d&key=%s", c.baseURL, photoRef, maxHeightPx, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return "", fmt.Errorf("create photo request: %w", err)
	}

	resp, err := c.noRedirect.Do(req)
	if err != nil {
		return "", fmt.Errorf("photo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusFound || resp.StatusCode == http.StatusSeeOther {
		if loc := resp.Header.Get("Location"); loc != "" {
			return loc, nil
		}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return mediaURL, nil
	}
	return "", &ProviderError{Status: resp.StatusCode, Body: readBody(resp.Body)}
}

type geocodeResponse struct {
	Results []struct {
		FormattedAddress string   `json:"formatted_address"`
		Types            []string `json:"types"`
	} `json:"results"`
	PlusCode struct {
		GlobalCode   string `json:"global_code"`
		CompoundCode string `json:"compound_code"`
	} `json:"plus_code"`
}

// Result type preference for a human-readable "you are here" line.
var geocodePreference = [][]string{
	{"sublocality", "sublocality_level_1", "neighborhood"},
	{"route"},
	{"locality", "administrative_area_level_2"},
}

// ReverseGeocode returns a localized human-readable address for a point,
// preferring neighbourhood and street level results over raw plus codes.
func (c *Client) ReverseGeocode(ctx context.Context, point entity.LatLng, lang string) (string, error) {
	params := url.Values{}
	params.Set("latlng", fmt.Sprintf("%f,%f", point.Latitude, point.Longitude))
	params.Set("key", c.apiKey)
	params.Set("language", lang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.geocodeURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &ProviderError{Status: resp.StatusCode, Body: readBody(resp.Body)}
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode geocode response: %w", err)
	}
	if len(decoded.Results) == 0 {
		return "", ErrNoMatch
	}

	for _, wanted := range geocodePreference {
		for _, r := range decoded.Results {
			if hasAnyType(r.Types, wanted) {
				return r.FormattedAddress, nil
			}
		}
	}
	if decoded.PlusCode.CompoundCode != "" {
		return decoded.PlusCode.CompoundCode, nil
	}
	if decoded.PlusCode.GlobalCode != "" {
		return decoded.PlusCode.GlobalCode, nil
	}
	return decoded.Results[0].FormattedAddress, nil
}

func hasAnyType(have, wanted []string) bool {
	for _, w := range wanted {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (c *Client) postJSON(ctx context.Context, path, fieldMask string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal places payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create places request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &ProviderError{Status: resp.StatusCode, Body: readBody(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode places response: %w", err)
	}
	return nil
}

func readBody(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 2048))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}
