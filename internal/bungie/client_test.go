package bungie_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"echo/internal/bungie"
	"echo/internal/identity"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...bungie.Option) *bungie.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]bungie.Option{bungie.WithBaseURL(server.URL)}, opts...)
	client, err := bungie.New("key", opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := bungie.New("  "); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestSearchPlayerSendsCredentialsAndBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/Destiny2/SearchDestinyPlayerByBungieName/-1/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "key" {
			t.Fatalf("missing api key header, got %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "echo" {
			t.Fatalf("unexpected user agent %q", got)
		}
		var body struct {
			DisplayName     string `json:"displayName"`
			DisplayNameCode string `json:"displayNameCode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.DisplayName != "mesh" || body.DisplayNameCode != "3230" {
			t.Fatalf("unexpected body: %#v", body)
		}
		_, _ = w.Write([]byte(`{"Response":[{"membershipId":"123","membershipType":3,"crossSaveOverride":0}]}`))
	}))

	cards, err := client.SearchPlayer(context.Background(), identity.BungieID{Name: "mesh", Code: "3230"})
	if err != nil {
		t.Fatalf("SearchPlayer returned error: %v", err)
	}
	if len(cards) != 1 || cards[0].MembershipID != "123" || cards[0].MembershipType != 3 {
		t.Fatalf("unexpected cards: %#v", cards)
	}
}

func TestSearchPlayerEmptyResponse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":[]}`))
	}))

	cards, err := client.SearchPlayer(context.Background(), identity.BungieID{Name: "ghost", Code: "0000"})
	if err != nil {
		t.Fatalf("SearchPlayer returned error: %v", err)
	}
	if len(cards) != 0 {
		t.Fatalf("expected no cards, got %#v", cards)
	}
}

func TestSearchPlayerHTTPError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"ErrorStatus":"SystemDisabled"}`))
	}))

	_, err := client.SearchPlayer(context.Background(), identity.BungieID{Name: "mesh", Code: "3230"})
	var statusErr *bungie.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status code %d", statusErr.Code)
	}
}

func TestSearchPlayerMalformedJSON(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response": [`))
	}))

	if _, err := client.SearchPlayer(context.Background(), identity.BungieID{Name: "mesh", Code: "3230"}); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestLinkedProfiles(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Destiny2/3/Profile/123/LinkedProfiles/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"Response":{"profiles":[
			{"membershipId":"123","membershipType":3,"dateLastPlayed":"2025-03-01T10:00:00Z"},
			{"membershipId":"456","membershipType":2,"dateLastPlayed":"2025-06-01T10:00:00Z"}
		]}}`))
	}))

	profiles, err := client.LinkedProfiles(context.Background(), 3, "123")
	if err != nil {
		t.Fatalf("LinkedProfiles returned error: %v", err)
	}
	if len(profiles) != 2 || profiles[1].MembershipID != "456" {
		t.Fatalf("unexpected profiles: %#v", profiles)
	}
	if profiles[0].DateLastPlayed.IsZero() {
		t.Fatal("dateLastPlayed did not decode")
	}
}
