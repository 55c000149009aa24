package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/textdex/internal/repository/memory"
	healthuc "github.com/kailas-cloud/textdex/internal/usecase/health"
	textuc "github.com/kailas-cloud/textdex/internal/usecase/text"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store := memory.New()
	server := NewServer(textuc.New(store), healthuc.New(store), zap.NewNop())
	r := chi.NewRouter()
	server.Mount(r)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func createString(t *testing.T, h http.Handler, value string) {
	t.Helper()
	body, err := json.Marshal(map[string]string{"value": value})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	rr := doRequest(t, h, http.MethodPost, "/api/v1/strings", string(body))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create %q: status %d, body %s", value, rr.Code, rr.Body.String())
	}
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

// --- Create ---

func TestCreateString_Success(t *testing.T) {
	r := newTestRouter(t)

	rr := doRequest(t, r, http.MethodPost, "/api/v1/strings", `{"value":"A man, a plan, a canal: Panama"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rr.Code, rr.Body.String())
	}

	var rec RecordResponse
	decodeJSON(t, rr, &rec)

	if len(rec.ID) != 64 {
		t.Errorf("id length = %d, want 64 hex chars", len(rec.ID))
	}
	if rec.ID != rec.Properties.SHA256Hash {
		t.Error("id should equal properties.sha256_hash")
	}
	if rec.Value != "A man, a plan, a canal: Panama" {
		t.Errorf("value = %q, want original text", rec.Value)
	}
	if !rec.Properties.IsPalindrome {
		t.Error("expected is_palindrome true")
	}
	if rec.Properties.WordCount != 7 {
		t.Errorf("word_count = %d, want 7", rec.Properties.WordCount)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("created_at must be set")
	}
}

func TestCreateString_MissingField(t *testing.T) {
	r := newTestRouter(t)

	rr := doRequest(t, r, http.MethodPost, "/api/v1/strings", `{"other":"x"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	var resp ErrorResponse
	decodeJSON(t, rr, &resp)
	if resp.Code != CodeValidationFailed {
		t.Errorf("code = %q, want %q", resp.Code, CodeValidationFailed)
	}
}

func TestCreateString_NonStringValue(t *testing.T) {
	r := newTestRouter(t)

	rr := doRequest(t, r, http.MethodPost, "/api/v1/strings", `{"value":123}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}

	var resp ErrorResponse
	decodeJSON(t, rr, &resp)
	if resp.Code != CodeInvalidValueType {
		t.Errorf("code = %q, want %q", resp.Code, CodeInvalidValueType)
	}
}

func TestCreateString_MalformedBody(t *testing.T) {
	r := newTestRouter(t)

	rr := doRequest(t, r, http.MethodPost, "/api/v1/strings", `{"value":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestCreateString_Duplicate(t *testing.T) {
	r := newTestRouter(t)
	createString(t, r, "abc")

	rr := doRequest(t, r, http.MethodPost, "/api/v1/strings", `{"value":"abc"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rr.Code)
	}

	var resp ErrorResponse
	decodeJSON(t, rr, &resp)
	if resp.Code != CodeAlreadyExists {
		t.Errorf("code = %q, want %q", resp.Code, CodeAlreadyExists)
	}
}

// --- Fetch one / Delete ---

func TestGetString_ByOriginalText(t *testing.T) {
	r := newTestRouter(t)
	createString(t, r, "race car")

	rr := doRequest(t, r, http.MethodGet, "/api/v1/strings/race%20car", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rr.Code, rr.Body.String())
	}

	var rec RecordResponse
	decodeJSON(t, rr, &rec)
	if rec.Value != "race car" {
		t.Errorf("value = %q, want %q", rec.Value, "race car")
	}
}

func TestGetString_ValueWithLiteralPercentEscape(t *testing.T) {
	r := newTestRouter(t)
	createString(t, r, "a%20b")

	// The stored text contains a literal "%20"; the client encodes the
	// percent sign once, and the value must decode exactly once server side.
	rr := doRequest(t, r, http.MethodGet, "/api/v1/strings/a%2520b", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rr.Code, rr.Body.String())
	}

	var rec RecordResponse
	decodeJSON(t, rr, &rec)
	if rec.Value != "a%20b" {
		t.Errorf("value = %q, want %q", rec.Value, "a%20b")
	}

	if rr := doRequest(t, r, http.MethodDelete, "/api/v1/strings/a%2520b", ""); rr.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d, want 204", rr.Code)
	}
}

func TestGetString_NotFound(t *testing.T) {
	r := newTestRouter(t)

	rr := doRequest(t, r, http.MethodGet, "/api/v1/strings/missing", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestDeleteString(t *testing.T) {
	r := newTestRouter(t)
	createString(t, r, "abc")

	rr := doRequest(t, r, http.MethodDelete, "/api/v1/strings/abc", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rr.Body.String())
	}

	if rr := doRequest(t, r, http.MethodGet, "/api/v1/strings/abc", ""); rr.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", rr.Code)
	}
	if rr := doRequest(t, r, http.MethodDelete, "/api/v1/strings/abc", ""); rr.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", rr.Code)
	}
}

// --- List ---

func TestListStrings_NoFilters(t *testing.T) {
	r := newTestRouter(t)
	createString(t, r, "one")
	createString(t, r, "two words")

	rr := doRequest(t, r, http.MethodGet, "/api/v1/strings", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp ListResponse
	decodeJSON(t, rr, &resp)
	if resp.Count != 2 || len(resp.Data) != 2 {
		t.Fatalf("count = %d, data = %d, want 2 each", resp.Count, len(resp.Data))
	}
	if resp.Data[0].Value != "one" || resp.Data[1].Value != "two words" {
		t.Error("expected insertion order in listing")
	}
	if len(resp.FiltersApplied) != 0 {
		t.Errorf("filters_applied = %v, want empty", resp.FiltersApplied)
	}
}

func TestListStrings_FilterConjunction(t *testing.T) {
	r := newTestRouter(t)
	createString(t, r, "racecar")
	createString(t, r, "hello")

	rr := doRequest(t, r, http.MethodGet, "/api/v1/strings?is_palindrome=true&min_length=5", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp ListResponse
	decodeJSON(t, rr, &resp)
	if resp.Count != 1 || resp.Data[0].Value != "racecar" {
		t.Fatalf("expected exactly [racecar], got %+v", resp.Data)
	}
	if v, ok := resp.FiltersApplied["min_length"].(float64); !ok || v != 5 {
		t.Errorf("filters_applied.min_length = %v, want 5", resp.FiltersApplied["min_length"])
	}
	if v, ok := resp.FiltersApplied["is_palindrome"].(bool); !ok || !v {
		t.Errorf("filters_applied.is_palindrome = %v, want true", resp.FiltersApplied["is_palindrome"])
	}
}

func TestListStrings_InvalidParam(t *testing.T) {
	r := newTestRouter(t)
	createString(t, r, "abc")

	rr := doRequest(t, r, http.MethodGet, "/api/v1/strings?min_length=abc", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	var resp ErrorResponse
	decodeJSON(t, rr, &resp)
	if resp.Code != CodeValidationFailed {
		t.Errorf("code = %q, want %q", resp.Code, CodeValidationFailed)
	}
	if !strings.Contains(resp.Message, "min_length") {
		t.Errorf("message %q should name the offending field", resp.Message)
	}
}

// --- Natural-language search ---

func TestSearchStrings_SingleWordPalindromic(t *testing.T) {
	r := newTestRouter(t)
	createString(t, r, "racecar")
	createString(t, r, "race car")

	rr := doRequest(t, r, http.MethodGet,
		"/api/v1/strings/search?query=all+single+word+palindromic+strings", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rr.Code, rr.Body.String())
	}

	var resp QueryResponse
	decodeJSON(t, rr, &resp)
	if resp.Count != 1 || resp.Data[0].Value != "racecar" {
		t.Fatalf("expected exactly [racecar], got %+v", resp.Data)
	}
	if resp.InterpretedQuery.Original != "all single word palindromic strings" {
		t.Errorf("original = %q", resp.InterpretedQuery.Original)
	}
	if v, ok := resp.InterpretedQuery.ParsedFilters["word_count"].(float64); !ok || v != 1 {
		t.Errorf("parsed_filters.word_count = %v, want 1", resp.InterpretedQuery.ParsedFilters["word_count"])
	}
}

func TestSearchStrings_LongerThan(t *testing.T) {
	r := newTestRouter(t)
	createString(t, r, "ab")
	createString(t, r, "abcd")

	rr := doRequest(t, r, http.MethodGet,
		"/api/v1/strings/search?query=strings+longer+than+3+characters", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp QueryResponse
	decodeJSON(t, rr, &resp)
	if resp.Count != 1 || resp.Data[0].Value != "abcd" {
		t.Fatalf("expected exactly [abcd], got %+v", resp.Data)
	}
	if v, ok := resp.InterpretedQuery.ParsedFilters["min_length"].(float64); !ok || v != 4 {
		t.Errorf("parsed_filters.min_length = %v, want 4", resp.InterpretedQuery.ParsedFilters["min_length"])
	}
}

func TestSearchStrings_MissingQuery(t *testing.T) {
	r := newTestRouter(t)

	rr := doRequest(t, r, http.MethodGet, "/api/v1/strings/search", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestSearchStrings_Unrecognized(t *testing.T) {
	r := newTestRouter(t)
	createString(t, r, "abc")

	rr := doRequest(t, r, http.MethodGet, "/api/v1/strings/search?query=show+me+something+weird", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	var resp ErrorResponse
	decodeJSON(t, rr, &resp)
	if resp.Code != CodeQueryNotUnderstood {
		t.Errorf("code = %q, want %q", resp.Code, CodeQueryNotUnderstood)
	}
}

// --- Misc routes ---

func TestUnmatchedRoute(t *testing.T) {
	r := newTestRouter(t)

	rr := doRequest(t, r, http.MethodGet, "/api/v1/nothing", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}

	var resp ErrorResponse
	decodeJSON(t, rr, &resp)
	if resp.Code != CodeRouteNotFound {
		t.Errorf("code = %q, want %q", resp.Code, CodeRouteNotFound)
	}
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)

	rr := doRequest(t, r, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp HealthResponse
	decodeJSON(t, rr, &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if resp.Checks["store"] != "ok" {
		t.Errorf("checks.store = %q, want ok", resp.Checks["store"])
	}
}
