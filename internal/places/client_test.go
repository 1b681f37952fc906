package places

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zamontech/yaqinbot/internal/entity"
)

func TestClient_SearchText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/places:searchText" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Goog-FieldMask"); got != "places.location" {
			t.Fatalf("unexpected field mask: %s", got)
		}
		if got := r.Header.Get("X-Goog-Api-Key"); got != "test-key" {
			t.Fatalf("unexpected api key header: %s", got)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["textQuery"] != "Registan, Samarkand" || body["maxResultCount"] != float64(1) {
			t.Fatalf("unexpected request body: %+v", body)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"places": []map[string]any{
				{"location": map[string]float64{"latitude": 39.654, "longitude": 66.975}},
				{"location": map[string]float64{"latitude": 1, "longitude": 2}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test-key", WithBaseURL(server.URL))
	point, err := client.SearchText(context.Background(), "Registan, Samarkand")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// first-match policy
	if point.Latitude != 39.654 || point.Longitude != 66.975 {
		t.Fatalf("unexpected point: %+v", point)
	}
}

func TestClient_SearchText_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"places": []any{}})
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test-key", WithBaseURL(server.URL))
	if _, err := client.SearchText(context.Background(), "Amir Temur Square"); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestClient_SearchText_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"field mask invalid"}}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test-key", WithBaseURL(server.URL))
	_, err := client.SearchText(context.Background(), "anything")

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.Status != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", provErr.Status)
	}
}

func TestClient_SearchNearby(t *testing.T) {
	openNow := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/places:searchNearby" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}

		var body struct {
			MaxResultCount      int      `json:"maxResultCount"`
			IncludedTypes       []string `json:"includedTypes"`
			LocationRestriction struct {
				Circle struct {
					Center latLngPayload `json:"center"`
					Radius float64       `json:"radius"`
				} `json:"circle"`
			} `json:"locationRestriction"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body.LocationRestriction.Circle.Radius != 2000 {
			t.Fatalf("unexpected radius: %f", body.LocationRestriction.Circle.Radius)
		}
		if body.MaxResultCount != 10 || len(body.IncludedTypes) != 3 {
			t.Fatalf("unexpected request: %+v", body)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"places": []map[string]any{
				{
					"displayName":      map[string]string{"text": "Plov Center"},
					"formattedAddress": "1 Osh St, Tashkent",
					"location":         map[string]float64{"latitude": 41.31, "longitude": 69.28},
					"primaryType":      "restaurant",
					"rating":           4.6,
					"userRatingCount":  1200,
					"currentOpeningHours": map[string]any{
						"openNow":             openNow,
						"weekdayDescriptions": []string{"Monday: 9 AM – 11 PM"},
					},
					"internationalPhoneNumber": "+998 71 123 45 67",
					"websiteUri":               "https://plov.example",
					"photos":                   []map[string]string{{"name": "places/abc/photos/xyz"}},
				},
				{
					"displayName":      map[string]string{"text": "No Hours Cafe"},
					"formattedAddress": "2 Chil St, Tashkent",
					"location":         map[string]float64{"latitude": 41.32, "longitude": 69.29},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test-key", WithBaseURL(server.URL))
	results, err := client.SearchNearby(context.Background(), entity.LatLng{Latitude: 41.31, Longitude: 69.28}, []string{"restaurant", "cafe", "bakery"}, 2000, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0]
	if first.DisplayName != "Plov Center" || first.Open != entity.OpenNow {
		t.Fatalf("unexpected first result: %+v", first)
	}
	if first.Rating == nil || *first.Rating != 4.6 || first.RatingCount != 1200 {
		t.Fatalf("unexpected rating: %+v", first)
	}
	if first.PhotoRef != "places/abc/photos/xyz" || first.Phone != "+998 71 123 45 67" {
		t.Fatalf("unexpected optional fields: %+v", first)
	}

	second := results[1]
	if second.Open != entity.OpenUnknown {
		t.Fatalf("expected unknown open state when hours absent, got %v", second.Open)
	}
	if second.Rating != nil || second.PhotoRef != "" {
		t.Fatalf("expected empty optional fields: %+v", second)
	}
}

func TestClient_SearchNearby_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test-key", WithBaseURL(server.URL))
	results, err := client.SearchNearby(context.Background(), entity.LatLng{}, nil, 2000, 10)
	if err != nil {
		t.Fatalf("expected empty result set to be valid, got %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestClient_PhotoURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("maxHeightPx") != "800" {
			t.Fatalf("unexpected maxHeightPx: %s", r.URL.Query().Get("maxHeightPx"))
		}
		w.Header().Set("Location", "https://lh3.example/image.jpg")
		w.WriteHeader(http.StatusFound)
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test-key", WithBaseURL(server.URL))
	got, err := client.PhotoURL(context.Background(), "places/abc/photos/xyz", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://lh3.example/image.jpg" {
		t.Fatalf("expected redirect target, got %s", got)
	}

	if _, err := client.PhotoURL(context.Background(), "", 800); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch for empty ref, got %v", err)
	}
}

func TestClient_PhotoURL_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test-key", WithBaseURL(server.URL))
	var provErr *ProviderError
	if _, err := client.PhotoURL(context.Background(), "places/abc/photos/xyz", 800); !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}

func TestClient_ReverseGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("language") != "ru" {
			t.Fatalf("unexpected language: %s", r.URL.Query().Get("language"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"formatted_address": "Uzbekistan", "types": []string{"country"}},
				{"formatted_address": "Mirzo Ulugbek district, Tashkent", "types": []string{"sublocality"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test-key", WithGeocodeURL(server.URL))
	addr, err := client.ReverseGeocode(context.Background(), entity.LatLng{Latitude: 41.31, Longitude: 69.28}, "ru")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr != "Mirzo Ulugbek district, Tashkent" {
		t.Fatalf("expected sublocality preference, got %s", addr)
	}
}

func TestClient_ReverseGeocode_PlusCodeFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results":   []map[string]any{{"formatted_address": "8Q7X+F9", "types": []string{"plus_code"}}},
			"plus_code": map[string]string{"compound_code": "8Q7X+F9 Tashkent"},
		})
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test-key", WithGeocodeURL(server.URL))
	addr, err := client.ReverseGeocode(context.Background(), entity.LatLng{}, "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr != "8Q7X+F9 Tashkent" {
		t.Fatalf("expected compound plus code, got %s", addr)
	}
}
