package adapter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amishk599/jobfeed/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFeedClient_FetchFeed_Success(t *testing.T) {
	payload := `{
		"success": true,
		"data": [
			{
				"job_id": "j-1",
				"job_title": "Backend Engineer",
				"company_name": "Acme",
				"location": "Remote",
				"salary_amount": 40,
				"skills": ["Go", "Postgres"],
				"posted_date": "2024-05-20T08:00:00Z",
				"is_remote": true
			},
			"not-an-object",
			{
				"_id": "doc-2",
				"job_title": "Accountant",
				"company_name": "Globex",
				"skills": "Excel"
			}
		]
	}`
	srv := newTestServer(t, http.StatusOK, payload)
	c := NewFeedClient(srv.URL, "", srv.Client(), discardLogger())

	raws, err := c.FetchFeed(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("expected 2 records (non-object skipped), got %d", len(raws))
	}

	r := raws[0]
	if r.JobID.String() != "j-1" {
		t.Errorf("expected job_id j-1, got %q", r.JobID.String())
	}
	if r.Title.String() != "Backend Engineer" {
		t.Errorf("expected title Backend Engineer, got %q", r.Title.String())
	}
	if !r.SalaryAmount.Valid || r.SalaryAmount.Value != 40 {
		t.Errorf("expected salary 40, got %+v", r.SalaryAmount)
	}
	if len(r.Skills) != 2 {
		t.Errorf("expected 2 skills, got %v", r.Skills)
	}
	if !r.IsRemote.Value {
		t.Error("expected is_remote true")
	}

	r2 := raws[1]
	if r2.DocID.String() != "doc-2" {
		t.Errorf("expected _id doc-2, got %q", r2.DocID.String())
	}
	if len(r2.Skills) != 1 || r2.Skills[0] != "Excel" {
		t.Errorf("expected scalar skill to become [Excel], got %v", r2.Skills)
	}
}

func TestFeedClient_FetchFeed_EmptyList(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"success": true, "data": []}`)
	c := NewFeedClient(srv.URL, "", srv.Client(), discardLogger())

	raws, err := c.FetchFeed(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raws) != 0 {
		t.Fatalf("expected 0 records, got %d", len(raws))
	}
}

func TestFeedClient_FetchFeed_SuccessFalse(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"success": false, "data": []}`)
	c := NewFeedClient(srv.URL, "", srv.Client(), discardLogger())

	_, err := c.FetchFeed(context.Background())
	if !errors.Is(err, model.ErrSourceRejected) {
		t.Fatalf("expected ErrSourceRejected, got %v", err)
	}
}

func TestFeedClient_FetchFeed_HTTPError(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError, `oops`)
	c := NewFeedClient(srv.URL, "", srv.Client(), discardLogger())

	_, err := c.FetchFeed(context.Background())
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 500 {
		t.Fatalf("expected HTTPError 500, got %v", err)
	}
}

func TestFeedClient_FetchFeed_RetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	c := NewFeedClient(srv.URL, "", srv.Client(), discardLogger())

	_, err := c.FetchFeed(context.Background())
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != 429 || httpErr.RetryAfter != 30*time.Second {
		t.Errorf("expected 429 with 30s retry-after, got %d %v", httpErr.StatusCode, httpErr.RetryAfter)
	}
}

func TestFeedClient_FetchFeed_MalformedPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{not valid json`},
		{"missing success", `{"data": []}`},
		{"data not a list", `{"success": true, "data": {"job_id": "1"}}`},
		{"null data", `{"success": true, "data": null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, tt.body)
			c := NewFeedClient(srv.URL, "", srv.Client(), discardLogger())

			_, err := c.FetchFeed(context.Background())
			var decErr *model.DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("expected DecodeError, got %v", err)
			}
		})
	}
}

func TestFeedClient_FetchJob(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.URL.Query().Get("jobId")
		if gotID != "j-9" {
			w.Write([]byte(`{"success": false}`))
			return
		}
		w.Write([]byte(`{"success": true, "data": {"job_id": "j-9", "job_title": "Designer", "requirements": ["Figma", "Portfolio"]}}`))
	}))
	defer srv.Close()
	c := NewFeedClient(srv.URL+"/api/scrape", srv.URL+"/api/scrape?source=web", srv.Client(), discardLogger())

	raw, err := c.FetchJob(context.Background(), "j-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "j-9" {
		t.Errorf("expected jobId query param j-9, got %q", gotID)
	}
	if raw.Title.String() != "Designer" {
		t.Errorf("expected title Designer, got %q", raw.Title.String())
	}
	if raw.Requirements.String() != "Figma\nPortfolio" {
		t.Errorf("expected joined requirements, got %q", raw.Requirements.String())
	}

	_, err = c.FetchJob(context.Background(), "missing")
	if !errors.Is(err, model.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestFeedClient_FetchJob_NotFoundStatus(t *testing.T) {
	srv := newTestServer(t, http.StatusNotFound, `{"success": false}`)
	c := NewFeedClient(srv.URL, "", srv.Client(), discardLogger())

	_, err := c.FetchJob(context.Background(), "x")
	if !errors.Is(err, model.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter(""); got != 0 {
		t.Errorf("empty: got %v", got)
	}
	if got := parseRetryAfter("120"); got != 120*time.Second {
		t.Errorf("seconds: got %v", got)
	}
	if got := parseRetryAfter("soon"); got != 0 {
		t.Errorf("garbage: got %v", got)
	}
	future := time.Now().Add(90 * time.Second).UTC().Format(http.TimeFormat)
	if got := parseRetryAfter(future); got <= 0 || got > 90*time.Second {
		t.Errorf("http-date: got %v", got)
	}
}
