package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"accesslens/internal/audit"
)

const validInput = "A login form with email field, password field, and submit button"

func auditServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestRunAudit_Success(t *testing.T) {
	c := auditServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/run-audit" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected JSON content type, got %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		input, _ := body["input"].(string)
		if !strings.Contains(input, "UI Description:") {
			t.Errorf("expected formatted input, got %q", input)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"issues":[{"id":"i1","guidance":"Consider whether the button has a label.","whoItAffects":"Screen reader users","whyItMatters":"May affect navigation.","wcagRefs":[],"severity":"low"}]}`))
	})

	res := c.RunAudit(context.Background(), FormInput{UI: validInput})
	if res.Error != "" {
		t.Fatalf("unexpected error %q", res.Error)
	}
	if len(res.Issues) != 1 || res.Issues[0].ID != "i1" {
		t.Fatalf("unexpected issues %+v", res.Issues)
	}
}

func TestRunAudit_BlankAndBriefInputRejectedLocally(t *testing.T) {
	called := false
	c := auditServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	res := c.RunAudit(context.Background(), FormInput{})
	if res.Error != msgNoInput {
		t.Fatalf("expected no-input message, got %q", res.Error)
	}

	res = c.RunAudit(context.Background(), FormInput{UI: "x"})
	if res.Error != msgTooBrief {
		t.Fatalf("expected too-brief message, got %q", res.Error)
	}

	if called {
		t.Fatalf("expected no server call for locally rejected input")
	}
}

func TestRunAudit_MapsServerErrorKinds(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   string
	}{
		{429, `{"error":"rate_limit_exceeded","message":"slow down"}`, msgRateLimited},
		{500, `{"error":"config_error","message":"GEMINI_API_KEY is not configured."}`, userMessages["config_error"]},
		{500, `{"error":"invalid_response","message":"bad upstream"}`, userMessages["invalid_response"]},
		{400, `{"error":"validation_error","message":"No input provided."}`, msgInvalidInput},
		{413, `{"error":"payload_too_large","message":"too long"}`, userMessages["payload_too_large"]},
		{500, `{"error":"something_new","message":"???"}`, msgGenericFail},
		{503, `not json at all`, msgGenericFail},
	}
	for _, tc := range cases {
		c := auditServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(tc.body))
		})
		res := c.RunAudit(context.Background(), FormInput{UI: validInput})
		if res.Error != tc.want {
			t.Fatalf("status %d body %s: expected %q, got %q", tc.status, tc.body, tc.want, res.Error)
		}
		if len(res.Issues) != 0 {
			t.Fatalf("expected no issues on error")
		}
	}
}

func TestRunAudit_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := New(srv.URL)
	srv.Close()

	res := c.RunAudit(context.Background(), FormInput{UI: validInput})
	if res.Error != userMessages[KindNetworkError] {
		t.Fatalf("expected network error message, got %q", res.Error)
	}
}

func TestRunAudit_TimeoutError(t *testing.T) {
	c := auditServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	c.HTTPClient = &http.Client{Timeout: 20 * time.Millisecond}

	res := c.RunAudit(context.Background(), FormInput{UI: validInput})
	if res.Error != userMessages[KindTimeoutError] {
		t.Fatalf("expected timeout message, got %q", res.Error)
	}
}

func TestRunAudit_FiresHooks(t *testing.T) {
	c := auditServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		w.Write([]byte(`{"error":"audit_failed","message":"nope"}`))
	})

	var started, failed bool
	c.Hooks = Hooks{
		AuditStarted: func(map[string]any) { started = true },
		AuditFailed:  func(map[string]any) { failed = true },
	}
	c.RunAudit(context.Background(), FormInput{UI: validInput})
	if !started || !failed {
		t.Fatalf("expected both hooks to fire, started=%v failed=%v", started, failed)
	}
}

func TestDecodeAPIError_SyntheticFallback(t *testing.T) {
	apiErr := decodeAPIError(503, []byte("<html>oops</html>"))
	if apiErr.Kind != KindAPIError {
		t.Fatalf("expected %s, got %s", KindAPIError, apiErr.Kind)
	}
	if apiErr.Message != "API Error: 503 Service Unavailable" {
		t.Fatalf("unexpected synthetic message %q", apiErr.Message)
	}
}

func TestCreateAudit_And_GetAuditByID(t *testing.T) {
	c := auditServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/audits":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"audit_id":"abc","results":{"issues":[]},"created_at":"2025-06-01T00:00:00Z"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/audits/abc":
			w.Write([]byte(`{"audit_id":"abc","results":{"issues":[]},"created_at":"2025-06-01T00:00:00Z"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"not_found","message":"Audit not found."}`))
		}
	})

	rec, err := c.CreateAudit(context.Background(), FormInput{UI: validInput}, audit.Result{Issues: []audit.Issue{}})
	if err != nil {
		t.Fatalf("CreateAudit error: %v", err)
	}
	if rec.AuditID != "abc" {
		t.Fatalf("unexpected id %q", rec.AuditID)
	}

	if _, err := c.GetAuditByID(context.Background(), "abc"); err != nil {
		t.Fatalf("GetAuditByID error: %v", err)
	}
	if _, err := c.GetAuditByID(context.Background(), "missing"); !errors.Is(err, ErrAuditNotFound) {
		t.Fatalf("expected ErrAuditNotFound, got %v", err)
	}
	if _, err := c.GetAuditByID(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestRunAndSave_PersistenceFailureStillReturnsResult(t *testing.T) {
	c := auditServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/run-audit" {
			w.Write([]byte(`{"issues":[]}`))
			return
		}
		// Persistence is down.
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"server_error","message":"Failed to persist audit."}`))
	})

	rec, res := c.RunAndSave(context.Background(), FormInput{UI: validInput})
	if res.Error != "" {
		t.Fatalf("expected audit result despite persistence failure, got error %q", res.Error)
	}
	if !strings.HasPrefix(rec.AuditID, "audit_") {
		t.Fatalf("expected local temporary id, got %q", rec.AuditID)
	}
	if rec.CreatedAt == "" {
		t.Fatalf("expected created_at on local record")
	}
}
