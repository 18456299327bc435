package arcgis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchAllFeatures_SinglePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("where"); got != "1=1" {
			t.Errorf("where = %q, want 1=1", got)
		}
		if got := r.URL.Query().Get("outSR"); got != "4326" {
			t.Errorf("outSR = %q, want 4326", got)
		}
		fmt.Fprint(w, `{"features":[{"attributes":{"OBJECTID":1}},{"attributes":{"OBJECTID":2}}]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	features, err := client.FetchAllFeatures(context.Background())
	if err != nil {
		t.Fatalf("FetchAllFeatures: %v", err)
	}
	if len(features) != 2 {
		t.Errorf("features = %d, want 2", len(features))
	}
}

func TestFetchAllFeatures_Paginated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("resultOffset") {
		case "":
			fmt.Fprint(w, `{"features":[{"attributes":{"OBJECTID":1}},{"attributes":{"OBJECTID":2}}],"exceededTransferLimit":true}`)
		case "2":
			fmt.Fprint(w, `{"features":[{"attributes":{"OBJECTID":3}}]}`)
		default:
			t.Errorf("unexpected resultOffset %q", r.URL.Query().Get("resultOffset"))
			fmt.Fprint(w, `{"features":[]}`)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	features, err := client.FetchAllFeatures(context.Background())
	if err != nil {
		t.Fatalf("FetchAllFeatures: %v", err)
	}
	if len(features) != 3 {
		t.Errorf("features = %d, want 3", len(features))
	}
}

func TestFetchAllFeatures_ServiceErrorInBody(t *testing.T) {
	// ArcGIS reports errors inside a 200 response.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":{"code":400,"message":"Invalid query"}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	_, err := client.FetchAllFeatures(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("error = %v, want ErrSourceUnavailable", err)
	}
}

func TestFetchAllFeatures_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	_, err := client.FetchAllFeatures(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("error = %v, want ErrSourceUnavailable", err)
	}
}

func TestFetchAllFeatures_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	_, err := client.FetchAllFeatures(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("error = %v, want ErrSourceUnavailable", err)
	}
}

func TestFetchAllFeatures_MissingFeaturesField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	_, err := client.FetchAllFeatures(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("error = %v, want ErrSourceUnavailable", err)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("returnCountOnly"); got != "true" {
			t.Errorf("returnCountOnly = %q, want true", got)
		}
		fmt.Fprint(w, `{"count":10}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestPing_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	if err := client.Ping(context.Background()); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("error = %v, want ErrSourceUnavailable", err)
	}
}
