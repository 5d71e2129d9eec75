package apstra

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoginStoresToken(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/aaa/login":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["username"] != "admin" {
				t.Errorf("login username = %q", body["username"])
			}
			json.NewEncoder(w).Encode(map[string]string{"token": "tok-xyz"})
		case "/api/blueprints":
			gotAuth = r.Header.Get("AuthToken")
			json.NewEncoder(w).Encode(map[string]any{"items": []Blueprint{{ID: "bp-1", Label: "dc1"}}})
		}
	}))
	defer ts.Close()

	c := NewClient(ts.URL, Options{})
	if c.Authenticated() {
		t.Error("fresh client should not be authenticated")
	}
	if err := c.Login(context.Background(), "admin", "pw"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	bps, err := c.Blueprints(context.Background())
	if err != nil {
		t.Fatalf("Blueprints() error: %v", err)
	}
	if len(bps) != 1 || bps[0].Label != "dc1" {
		t.Errorf("Blueprints() = %+v", bps)
	}
	if gotAuth != "tok-xyz" {
		t.Errorf("AuthToken header = %q, want tok-xyz", gotAuth)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, Options{})
	err := c.Login(context.Background(), "admin", "wrong")
	var te *TransportError
	if !errors.As(err, &te) || te.Status != http.StatusUnauthorized {
		t.Fatalf("want 401 *TransportError, got %v", err)
	}
}

func TestErrorBodySurfaced(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"errors": "blueprint is locked"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, Options{})
	err := c.Login(context.Background(), "a", "b")
	var ae *APIError
	if !errors.As(err, &ae) || ae.Message != "blueprint is locked" {
		t.Fatalf("want *APIError with controller message, got %v", err)
	}
}

func TestUnauthenticatedCalls(t *testing.T) {
	c := NewClient("controller.example", Options{})
	if _, err := c.Blueprints(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Blueprints without login = %v, want ErrNotAuthenticated", err)
	}
	if _, err := c.RunCommand(context.Background(), "s", "cmd"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("RunCommand without login = %v, want ErrNotAuthenticated", err)
	}
}

func TestSwitchSystems(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/aaa/login":
			json.NewEncoder(w).Encode(map[string]string{"token": "t"})
		case "/api/blueprints/bp-1/qe":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["query"] == "" {
				t.Error("qe request missing query")
			}
			json.NewEncoder(w).Encode(map[string]any{"items": []map[string]any{
				{"switch_nodes": System{ID: "n1", Hostname: "spine1", SystemID: "525400AA", Role: "spine"}},
				{"switch_nodes": System{ID: "n2", Hostname: "leaf1", SystemID: "525400BB", Role: "leaf"}},
			}})
		}
	}))
	defer ts.Close()

	c := NewClient(ts.URL, Options{})
	if err := c.Login(context.Background(), "a", "b"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	systems, err := c.SwitchSystems(context.Background(), "bp-1")
	if err != nil {
		t.Fatalf("SwitchSystems() error: %v", err)
	}
	if len(systems) != 2 || systems[0].Hostname != "spine1" || systems[1].Role != "leaf" {
		t.Errorf("SwitchSystems() = %+v", systems)
	}
}

func TestUpsertPropertySet(t *testing.T) {
	var created, updated int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/aaa/login":
			json.NewEncoder(w).Encode(map[string]string{"token": "t"})
		case r.URL.Path == "/api/property-sets" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{"items": []PropertySet{
				{ID: "ps-1", Label: "snmp_auth"},
			}})
		case r.URL.Path == "/api/property-sets" && r.Method == http.MethodPost:
			created++
			json.NewEncoder(w).Encode(map[string]string{"id": "ps-new"})
		case r.URL.Path == "/api/property-sets/ps-1" && r.Method == http.MethodPut:
			updated++
			w.Write([]byte("{}"))
		}
	}))
	defer ts.Close()

	c := NewClient(ts.URL, Options{})
	if err := c.Login(context.Background(), "a", "b"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	values := map[string]any{"snmp_auth": []string{}}
	if err := c.UpsertPropertySet(context.Background(), "snmp_auth", values); err != nil {
		t.Fatalf("UpsertPropertySet() existing error: %v", err)
	}
	if err := c.UpsertPropertySet(context.Background(), "other_set", values); err != nil {
		t.Fatalf("UpsertPropertySet() new error: %v", err)
	}
	if updated != 1 || created != 1 {
		t.Errorf("updated=%d created=%d, want 1 and 1", updated, created)
	}
}
