package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/analytiq/analytiq/pkg/domain"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var creds domain.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if creds.Email != "me@example.com" || creds.Password != "Secret123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.AuthResponse{AccessToken: "tok-1", TokenType: "bearer"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	resp, err := c.Login(context.Background(), "me@example.com", "Secret123")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if resp.AccessToken != "tok-1" {
		t.Errorf("AccessToken = %q, want %q", resp.AccessToken, "tok-1")
	}

	_, err = c.Login(context.Background(), "me@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error for bad credentials")
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("IsStatus(err, 401) = false, err = %v", err)
	}
	if got := Message(err); got != "Invalid credentials" {
		t.Errorf("Message(err) = %q, want %q", got, "Invalid credentials")
	}
}

func TestValidateToken_SendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid or expired token"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.Validation{ //nolint:errcheck
			Valid:     true,
			User:      &domain.User{Email: "me@example.com"},
			ExpiresAt: 1700000000,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	v, err := c.ValidateToken(context.Background())
	if err != nil {
		t.Fatalf("ValidateToken() error: %v", err)
	}
	if !v.OK() || v.User.Email != "me@example.com" {
		t.Errorf("validation = %+v, want valid with user", v)
	}

	c.SetToken("other")
	_, err = c.ValidateToken(context.Background())
	if got := err.Error(); !strings.Contains(got, "HTTP 401") {
		t.Errorf("error = %q, want it to contain 'HTTP 401'", got)
	}
}

func TestRefreshToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/refresh" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(domain.AuthResponse{AccessToken: "fresh"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "stale")
	resp, err := c.RefreshToken(context.Background())
	if err != nil {
		t.Fatalf("RefreshToken() error: %v", err)
	}
	if resp.AccessToken != "fresh" {
		t.Errorf("AccessToken = %q, want %q", resp.AccessToken, "fresh")
	}
}

func TestGetSites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sites" {
			http.NotFound(w, r)
			return
		}
		sites := []domain.Site{
			{SiteID: "s1", Name: "Blog", URL: "https://blog.example.com", Verified: true},
			{SiteID: "s2", Name: "Shop", URL: "https://shop.example.com"},
		}
		json.NewEncoder(w).Encode(sites) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	sites, err := c.GetSites(context.Background())
	if err != nil {
		t.Fatalf("GetSites() error: %v", err)
	}
	if len(sites) != 2 {
		t.Fatalf("got %d sites, want 2", len(sites))
	}
	if !sites[0].Verified || sites[1].Verified {
		t.Errorf("verified flags = %v/%v, want true/false", sites[0].Verified, sites[1].Verified)
	}
}

func TestCreateSite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req domain.NewSite
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(domain.CreatedSite{ //nolint:errcheck
			Site:    domain.Site{SiteID: "s9", Name: req.Name, URL: req.URL, SiteKey: "k9"},
			Snippet: `<script async src="http://x/stats-config.js?siteId=s9&siteKey=k9"></script>`,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	created, err := c.CreateSite(context.Background(), domain.NewSite{Name: "Blog", URL: "https://blog.example.com"})
	if err != nil {
		t.Fatalf("CreateSite() error: %v", err)
	}
	if created.SiteID != "s9" || created.Name != "Blog" {
		t.Errorf("created = %+v, want s9/Blog", created.Site)
	}
	if !strings.Contains(created.Snippet, "siteId=s9") {
		t.Errorf("Snippet = %q, want siteId=s9", created.Snippet)
	}
}

func TestDeleteSite_EscapesID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		json.NewEncoder(w).Encode(domain.DeleteResult{Status: "deleted"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	res, err := c.DeleteSite(context.Background(), "a/b")
	if err != nil {
		t.Fatalf("DeleteSite() error: %v", err)
	}
	if res.Status != "deleted" {
		t.Errorf("Status = %q, want deleted", res.Status)
	}
	if gotPath != "/api/sites/a%2Fb" {
		t.Errorf("path = %q, want /api/sites/a%%2Fb", gotPath)
	}
}

func TestVerifySite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sites/s1/verify" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(domain.Verification{ //nolint:errcheck
			Verified: false,
			Message:  "Tracking code not found on your website.",
			SiteID:   "s1",
			Details:  &domain.VerificationDetails{HasSDKLoader: true, CheckedURL: "https://blog.example.com"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	v, err := c.VerifySite(context.Background(), "s1")
	if err != nil {
		t.Fatalf("VerifySite() error: %v", err)
	}
	if v.Verified {
		t.Error("Verified = true, want false")
	}
	if v.Details == nil || !v.Details.HasSDKLoader {
		t.Errorf("Details = %+v, want HasSDKLoader", v.Details)
	}
}

func TestNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	if _, err := c.DeleteSite(context.Background(), "s1"); err != nil {
		t.Fatalf("DeleteSite() on 204 error: %v", err)
	}
}

func TestHTTPError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail string", `{"detail":"Email already registered"}`, "Email already registered"},
		{"error field", `{"error":"boom"}`, "boom"},
		{"detail list", `{"detail":[{"msg":"field required"}]}`, "field required"},
		{"plain", `gateway down`, "gateway down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body)) //nolint:errcheck
			}))
			defer srv.Close()

			c := New(srv.URL, "tok")
			_, err := c.GetSites(context.Background())
			if err == nil {
				t.Fatal("expected error for 400 response")
			}
			if got := err.Error(); !strings.Contains(got, tt.want) {
				t.Errorf("error = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, "tok", WithTimeout(50*time.Millisecond))
	_, err := c.GetSites(context.Background())
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
}

func TestDoRequest_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Second)          // slow server
		json.NewEncoder(w).Encode([]string{}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := c.GetSites(ctx)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestSetTokenConcurrent(t *testing.T) {
	c := New("http://unused", "")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.SetToken("tok")
		}()
		go func() {
			defer wg.Done()
			_ = c.Token()
		}()
	}
	wg.Wait()
	if c.Token() != "tok" {
		t.Errorf("Token() = %q, want tok", c.Token())
	}
}

func TestGetReport(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sites/s1/report" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{
			"website_name": "Blog",
			"total_visitors": 40,
			"total_pageviews": 90,
			"pages": [{"path": "/", "page_title": "Homepage", "views": 50, "unique_visitors": 30, "bounce_rate_percent": null}],
			"time_series_data": {"visitors_pageviews_trend": [{"period": "2026-10-01", "visitors": 4, "pageviews": 9}]},
			"devices": [{"type": "desktop", "percent": 80}]
		}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	rep, err := c.GetReport(context.Background(), "s1", domain.ReportRange{Start: start, End: start.AddDate(0, 0, 6)})
	if err != nil {
		t.Fatalf("GetReport() error: %v", err)
	}
	if gotQuery != "end_date=2026-10-07&start_date=2026-10-01" {
		t.Errorf("query = %q", gotQuery)
	}
	if rep.TotalVisitors != 40 || len(rep.Pages) != 1 || rep.Pages[0].BounceRatePercent != nil {
		t.Errorf("report = %+v", rep)
	}
	if len(rep.TimeSeries.Trend) != 1 || rep.TimeSeries.Trend[0].Pageviews != 9 {
		t.Errorf("trend = %+v", rep.TimeSeries.Trend)
	}

	if _, err := c.GetReport(context.Background(), "s1", domain.ReportRange{}); err != nil {
		t.Fatalf("GetReport() without range error: %v", err)
	}
	if gotQuery != "" {
		t.Errorf("empty range sent query %q", gotQuery)
	}
}

func TestGetReport_NoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"No data available for the specified date range"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := New(srv.URL, "tok").GetReport(context.Background(), "s1", domain.ReportRange{})
	if !IsStatus(err, http.StatusNotFound) {
		t.Fatalf("expected 404, got %v", err)
	}
	if Message(err) != "No data available for the specified date range" {
		t.Errorf("Message() = %q", Message(err))
	}
}
