package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/swing-o-matic/internal/coalition"
	"github.com/iwvelando/swing-o-matic/internal/projection"
	"github.com/iwvelando/swing-o-matic/internal/swing"
	"github.com/iwvelando/swing-o-matic/pkg/constants"
	"github.com/iwvelando/swing-o-matic/pkg/output"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Options tunes the HTTP handler.
type Options struct {
	MaxBodySize int64
	Version     string
	Scaling     projection.Scaling
	// Metrics is optional; a fresh set is created when nil.
	Metrics *Metrics
}

type projectFunc func(logger *zap.Logger, s projection.Scenario, scaling projection.Scaling) (*projection.Result, error)

type handler struct {
	logger      *zap.Logger
	baseline    *projection.Baseline
	project     projectFunc
	scaling     projection.Scaling
	maxBodySize int64
	version     string
	metrics     *Metrics
}

// NewHandler constructs the HTTP handler that serves the projection API.
func NewHandler(logger *zap.Logger, baseline *projection.Baseline, opts Options) http.Handler {
	_, mux := newHandler(logger, baseline, opts)
	return mux
}

func newHandler(logger *zap.Logger, baseline *projection.Baseline, opts Options) (*handler, *http.ServeMux) {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxBodySize := opts.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	scaling := opts.Scaling
	if scaling == (projection.Scaling{}) {
		scaling = projection.DefaultScaling()
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}
	if baseline != nil {
		metrics.BaselineStates.Set(float64(baseline.StateCount()))
	}

	h := &handler{
		logger:      logger,
		baseline:    baseline,
		scaling:     scaling,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
		metrics:     metrics,
	}
	if baseline != nil {
		h.project = baseline.Project
	}

	mux := http.NewServeMux()

	// Baseline metadata for slider initialization
	mux.HandleFunc("/api/baseline", h.instrument("baseline", h.handleBaseline))

	// Slider-driven projection
	mux.HandleFunc("/api/projection", h.instrument("projection", h.handleProjection))

	// Scenario serialization for saving slider positions to config.yaml
	mux.HandleFunc("/api/scenario/export", h.instrument("export", h.handleScenarioExport))

	mux.HandleFunc("/api/version", h.instrument("version", h.handleVersion))

	mux.Handle("/metrics", metrics.Handler())

	return h, mux
}

type baselineResponse struct {
	OriginalMargins map[string]float64     `json:"originalMargins"`
	PopularVote     output.PopularVoteView `json:"popularVote"`
	States          int                    `json:"states"`
	ElectoralVotes  int                    `json:"electoralVotes"`
	Groups          []string               `json:"groups"`
}

type projectionResponse struct {
	output.ScenarioView
	RequestID string `json:"requestId"`
	Duration  string `json:"duration"`
}

func (h *handler) handleBaseline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if h.baseline == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "no baseline loaded", "server.handleBaseline")
		return
	}

	margins := make(map[string]float64, len(coalition.SwingGroups))
	groups := make([]string, 0, len(coalition.SwingGroups))
	for _, g := range coalition.SwingGroups {
		margins[string(g)] = h.baseline.OriginalMargin(g)
		groups = append(groups, string(g))
	}

	vote := h.baseline.NationalVote()
	h.writeJSON(w, http.StatusOK, baselineResponse{
		OriginalMargins: margins,
		PopularVote: output.PopularVoteView{
			Obama:  vote.Obama,
			McCain: vote.McCain,
			Third:  vote.Third,
			Margin: vote.Margin(),
		},
		States:         h.baseline.StateCount(),
		ElectoralVotes: h.baseline.ElectoralVotes(),
		Groups:         groups,
	})
}

func (h *handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProjection"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if h.project == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "no baseline loaded", op)
		return
	}

	start := time.Now()
	requestID := uuid.NewString()
	logger := h.logger.With(zap.String("requestId", requestID))

	scenario, ok := h.decodeScenario(w, r, op)
	if !ok {
		return
	}

	result, err := h.safeProject(logger, scenario)
	if err != nil {
		var panicked *panicError
		if errors.As(err, &panicked) {
			h.respondErrorWithOp(w, http.StatusInternalServerError, constants.GenericFailureMessage, op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.metrics.IgnoredSliders.Add(float64(len(result.Dropped)))
	for _, candidate := range swing.Candidates {
		h.metrics.ElectoralOutcome.WithLabelValues(string(candidate)).Observe(float64(result.Electoral.Votes(candidate)))
	}

	elapsed := time.Since(start)
	logger.Info("projection computed",
		zap.String("op", op),
		zap.String("scenario", result.Name),
		zap.Int("states", len(result.States)),
		zap.Int("ignored", len(result.Dropped)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, projectionResponse{
		ScenarioView: output.NewScenarioView(result),
		RequestID:    requestID,
		Duration:     elapsed.String(),
	})
}

func (h *handler) handleScenarioExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScenarioExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	scenario, ok := h.decodeScenario(w, r, op)
	if !ok {
		return
	}

	in := projection.Sanitize(scenario)
	yamlBytes, err := marshalScenarioYAML(in)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode scenario: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"scenarioYaml": string(yamlBytes),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeScenario reads the request body into a scenario. Slider values that
// are null or not numeric are left out, which makes them neutral.
func (h *handler) decodeScenario(w http.ResponseWriter, r *http.Request, op string) (projection.Scenario, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
			return projection.Scenario{}, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode scenario: %v", err), op)
		return projection.Scenario{}, false
	}

	scenario := projection.Scenario{Name: "custom"}
	if name, ok := payload["name"].(string); ok && strings.TrimSpace(name) != "" {
		scenario.Name = strings.TrimSpace(name)
	}

	sections := []struct {
		key string
		dst *map[string]float64
	}{
		{"targetMargins", &scenario.TargetMargins},
		{"turnoutShifts", &scenario.TurnoutShifts},
		{"thirdPartyShifts", &scenario.ThirdPartyShifts},
	}
	for _, section := range sections {
		raw, ok := payload[section.key]
		if !ok || raw == nil {
			continue
		}
		values, ok := raw.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest,
				fmt.Sprintf("invalid %s payload: expected object", section.key), op)
			return projection.Scenario{}, false
		}
		*section.dst = coerceSliders(values)
	}

	return scenario, true
}

func coerceSliders(values map[string]interface{}) map[string]float64 {
	sliders := make(map[string]float64, len(values))
	for name, value := range values {
		if f, ok := coerceFloat(value); ok {
			sliders[name] = f
		}
	}
	return sliders
}

func coerceFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		if parsed, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return parsed, true
		}
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

type panicError struct {
	value interface{}
}

func (e *panicError) Error() string {
	return fmt.Sprintf("projection panicked: %v", e.value)
}

// safeProject runs the projection and converts a panic into an error.
func (h *handler) safeProject(logger *zap.Logger, scenario projection.Scenario) (result *projection.Result, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			h.metrics.Panics.Inc()
			logger.Error("projection panicked",
				zap.String("op", "server.safeProject"),
				zap.Any("panic", recovered),
				zap.Stack("stack"),
			)
			result, err = nil, &panicError{value: recovered}
		}
	}()
	return h.project(logger, scenario, h.scaling)
}

// marshalScenarioYAML renders in as a config.yaml scenario entry with a fixed
// key order and groups in presentation order.
func marshalScenarioYAML(in projection.Inputs) ([]byte, error) {
	entry := orderedConfig{items: []orderedItem{
		{key: "name", value: in.Name},
		{key: "active", value: true},
	}}
	for _, section := range []struct {
		key    string
		values map[coalition.Group]float64
	}{
		{"targetMargins", in.TargetMargins},
		{"turnoutShifts", in.TurnoutShifts},
		{"thirdPartyShifts", in.ThirdPartyShifts},
	} {
		if len(section.values) == 0 {
			continue
		}
		entry.items = append(entry.items, orderedItem{key: section.key, value: orderedGroups(section.values)})
	}
	return yaml.Marshal([]orderedConfig{entry})
}

func orderedGroups(values map[coalition.Group]float64) orderedConfig {
	var ordered orderedConfig
	for _, g := range coalition.SwingGroups {
		if v, ok := values[g]; ok {
			ordered.items = append(ordered.items, orderedItem{key: string(g), value: v})
		}
	}
	return ordered
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (h *handler) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		h.metrics.observe(endpoint, rec.status, started)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
