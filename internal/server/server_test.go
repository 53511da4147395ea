package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/iwvelando/swing-o-matic/internal/dataload"
	"github.com/iwvelando/swing-o-matic/internal/projection"
	"github.com/iwvelando/swing-o-matic/pkg/constants"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testBaseline(t *testing.T) *projection.Baseline {
	t.Helper()
	ds, err := dataload.Load(zap.NewNop(), dataload.Paths{
		StateDemographics:    "../../test/testdata/state_demographics.csv",
		StateResults:         "../../test/testdata/results.csv",
		NationalDemographics: "../../test/testdata/national_demographics.csv",
		ExitPoll:             "../../test/testdata/exit_poll.csv",
	})
	if err != nil {
		t.Fatalf("failed to load fixtures: %v", err)
	}
	baseline, err := projection.NewBaseline(zap.NewNop(), ds)
	if err != nil {
		t.Fatalf("failed to build baseline: %v", err)
	}
	return baseline
}

func performJSON(t *testing.T, handler http.Handler, payload interface{}, path string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return performRaw(handler, http.MethodPost, path, body)
}

func performRaw(handler http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp["error"]
}

func TestHandleProjectionSuccess(t *testing.T) {
	handler := NewHandler(zap.NewNop(), testBaseline(t), Options{})

	rr := performJSON(t, handler, map[string]interface{}{
		"name":          "black turnout surge",
		"targetMargins": map[string]interface{}{"BlackShare": 100},
		"turnoutShifts": map[string]interface{}{"BlackShare": 0.1},
	}, "/api/projection")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %s", ct)
	}

	var resp projectionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Name != "black turnout surge" {
		t.Fatalf("expected scenario name echoed, got %q", resp.Name)
	}
	if len(resp.States) != 10 {
		t.Fatalf("expected 10 states, got %d", len(resp.States))
	}
	if resp.Electoral["Obama"] != 188 || resp.Electoral["McCain"] != 34 {
		t.Fatalf("unexpected electoral totals %v", resp.Electoral)
	}
	if !strings.HasPrefix(resp.PopularVoteSummary, "Popular Vote: Obama 53.4%") {
		t.Fatalf("unexpected summary %q", resp.PopularVoteSummary)
	}
	if _, err := uuid.Parse(resp.RequestID); err != nil {
		t.Fatalf("expected a UUID request ID, got %q", resp.RequestID)
	}
	if resp.Duration == "" {
		t.Fatal("expected duration in response")
	}
}

func TestHandleProjectionNeutralizesBadValues(t *testing.T) {
	handler := NewHandler(zap.NewNop(), testBaseline(t), Options{})

	rr := performRaw(handler, http.MethodPost, "/api/projection",
		[]byte(`{"targetMargins": {"BlackShare": null, "AsianShare": "lots", "HispanicShare": "36", "Martians": 12}}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp projectionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Name != "custom" {
		t.Fatalf("expected default scenario name, got %q", resp.Name)
	}
	if resp.Electoral["Obama"] != 162 || resp.Electoral["McCain"] != 60 {
		t.Fatalf("expected baseline electoral totals, got %v", resp.Electoral)
	}
	if len(resp.Ignored) != 1 || !strings.Contains(resp.Ignored[0], "Martians") {
		t.Fatalf("expected the unknown group to be reported, got %v", resp.Ignored)
	}
}

func TestHandleProjectionRejectsBadRequests(t *testing.T) {
	baseline := testBaseline(t)

	tests := []struct {
		name    string
		handler http.Handler
		method  string
		body    string
		status  int
	}{
		{"Wrong method", NewHandler(nil, baseline, Options{}), http.MethodGet, "", http.StatusMethodNotAllowed},
		{"Malformed JSON", NewHandler(nil, baseline, Options{}), http.MethodPost, "{", http.StatusBadRequest},
		{"Section is not an object", NewHandler(nil, baseline, Options{}), http.MethodPost, `{"targetMargins": [1, 2]}`, http.StatusBadRequest},
		{"Body too large", NewHandler(nil, baseline, Options{MaxBodySize: 16}), http.MethodPost,
			`{"targetMargins": {"BlackShare": 100, "AsianShare": 50}}`, http.StatusRequestEntityTooLarge},
		{"Invalid scaling", NewHandler(nil, baseline, Options{Scaling: projection.Scaling{StateDivisor: -1, NationalDivisor: 2}}),
			http.MethodPost, `{}`, http.StatusBadRequest},
		{"No baseline", NewHandler(nil, nil, Options{}), http.MethodPost, `{}`, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := performRaw(tt.handler, tt.method, "/api/projection", []byte(tt.body))
			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestHandleProjectionRecoversFromPanic(t *testing.T) {
	h, mux := newHandler(zap.NewNop(), testBaseline(t), Options{})
	h.project = func(*zap.Logger, projection.Scenario, projection.Scaling) (*projection.Result, error) {
		panic("index out of range")
	}

	rr := performRaw(mux, http.MethodPost, "/api/projection", []byte(`{"targetMargins": {"BlackShare": 100}}`))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d: %s", rr.Code, rr.Body.String())
	}
	if msg := decodeError(t, rr); msg != constants.GenericFailureMessage {
		t.Fatalf("expected generic failure message, got %q", msg)
	}

	// The handler keeps serving after a panic.
	h.project = h.baseline.Project
	rr = performRaw(mux, http.MethodPost, "/api/projection", []byte(`{}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 after recovery, got %d", rr.Code)
	}

	metrics := performRaw(mux, http.MethodGet, "/metrics", nil)
	if !strings.Contains(metrics.Body.String(), "swingomatic_projection_panics_total 1") {
		t.Fatalf("expected panic counter in metrics output:\n%s", metrics.Body.String())
	}
}

func TestHandleProjectionErrorIsNotAPanic(t *testing.T) {
	h, mux := newHandler(zap.NewNop(), testBaseline(t), Options{})
	h.project = func(*zap.Logger, projection.Scenario, projection.Scaling) (*projection.Result, error) {
		return nil, errors.New("scenario custom: state divisor must be positive, got 0")
	}

	rr := performRaw(mux, http.MethodPost, "/api/projection", []byte(`{}`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	if msg := decodeError(t, rr); !strings.Contains(msg, "state divisor") {
		t.Fatalf("expected the projection error, got %q", msg)
	}
}

func TestHandleBaseline(t *testing.T) {
	handler := NewHandler(zap.NewNop(), testBaseline(t), Options{})

	rr := performRaw(handler, http.MethodGet, "/api/baseline", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp baselineResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.OriginalMargins["BlackShare"] != 91 || resp.OriginalMargins["WhiteNonCollegeShare"] != -18 {
		t.Fatalf("unexpected original margins %v", resp.OriginalMargins)
	}
	if resp.States != 10 || resp.ElectoralVotes != 222 {
		t.Fatalf("unexpected counts states=%d ev=%d", resp.States, resp.ElectoralVotes)
	}
	if len(resp.Groups) != 6 || resp.Groups[0] != "WhiteNonCollegeShare" {
		t.Fatalf("unexpected groups %v", resp.Groups)
	}

	if rr := performRaw(handler, http.MethodPost, "/api/baseline", nil); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
	if rr := performRaw(NewHandler(nil, nil, Options{}), http.MethodGet, "/api/baseline", nil); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503 without a baseline, got %d", rr.Code)
	}
}

func TestHandleScenarioExport(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, Options{})

	rr := performJSON(t, handler, map[string]interface{}{
		"name":             "export me",
		"targetMargins":    map[string]interface{}{"OtherShare": 40, "blackshare": 100, "Martians": 1},
		"thirdPartyShifts": map[string]interface{}{"AsianShare": 0.09},
	}, "/api/scenario/export")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	yamlText := resp["scenarioYaml"]

	if strings.Contains(yamlText, "Martians") {
		t.Fatalf("unknown groups should not be exported:\n%s", yamlText)
	}
	if strings.Contains(yamlText, "turnoutShifts") {
		t.Fatalf("empty sections should be omitted:\n%s", yamlText)
	}
	order := []string{"name: export me", "active: true", "targetMargins:", "BlackShare: 100", "OtherShare: 40", "thirdPartyShifts:", "AsianShare: 0.09"}
	last := -1
	for _, fragment := range order {
		idx := strings.Index(yamlText, fragment)
		if idx < 0 {
			t.Fatalf("expected %q in exported YAML:\n%s", fragment, yamlText)
		}
		if idx < last {
			t.Fatalf("expected %q after previous keys:\n%s", fragment, yamlText)
		}
		last = idx
	}

	var scenarios []map[string]interface{}
	if err := yaml.Unmarshal([]byte(yamlText), &scenarios); err != nil {
		t.Fatalf("exported YAML does not parse: %v", err)
	}
	if len(scenarios) != 1 || scenarios[0]["active"] != true {
		t.Fatalf("unexpected exported scenarios %v", scenarios)
	}
}

func TestHandleVersion(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"", "dev"},
		{"  v1.2.3 ", "v1.2.3"},
	}

	for _, tt := range tests {
		handler := NewHandler(zap.NewNop(), nil, Options{Version: tt.version})
		rr := performRaw(handler, http.MethodGet, "/api/version", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["version"] != tt.want {
			t.Fatalf("expected version %q, got %q", tt.want, resp["version"])
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := NewMetrics()
	handler := NewHandler(zap.NewNop(), testBaseline(t), Options{Metrics: metrics})

	performRaw(handler, http.MethodPost, "/api/projection", []byte(`{"targetMargins": {"Martians": 3}}`))
	performRaw(handler, http.MethodGet, "/api/projection", nil)

	rr := performRaw(handler, http.MethodGet, "/metrics", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		`swingomatic_requests_total{endpoint="projection",status="200"} 1`,
		`swingomatic_requests_total{endpoint="projection",status="405"} 1`,
		"swingomatic_baseline_states 10",
		"swingomatic_ignored_slider_values_total 1",
		`swingomatic_projected_electoral_votes_count{candidate="Obama"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in metrics output", want)
		}
	}
}

func TestCoerceFloat(t *testing.T) {
	tests := []struct {
		value  interface{}
		want   float64
		wantOK bool
	}{
		{12.5, 12.5, true},
		{7, 7, true},
		{int64(3), 3, true},
		{json.Number("4.5"), 4.5, true},
		{" -20 ", -20, true},
		{"abc", 0, false},
		{nil, 0, false},
		{true, 0, false},
		{map[string]interface{}{}, 0, false},
	}

	for _, tt := range tests {
		got, ok := coerceFloat(tt.value)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("coerceFloat(%#v) = %v, %v; want %v, %v", tt.value, got, ok, tt.want, tt.wantOK)
		}
	}
}
