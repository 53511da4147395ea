package optimizer

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/swing-o-matic/internal/coalition"
	"github.com/iwvelando/swing-o-matic/internal/config"
	"github.com/iwvelando/swing-o-matic/internal/projection"
	"github.com/iwvelando/swing-o-matic/internal/swing"
	"github.com/iwvelando/swing-o-matic/pkg/optimization"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Runner searches for tipping points against a fixed baseline.
type Runner struct {
	logger   *zap.Logger
	baseline *projection.Baseline
	scaling  projection.Scaling
}

type tippingTarget struct {
	scenario  config.Scenario
	cfg       *config.OptimizerConfig
	group     coalition.Group
	candidate swing.Candidate
	original  float64
}

type evaluation struct {
	value   float64
	votes   int
	reached bool
}

// Result summarizes optimizer searches keyed by scenario name.
type Result struct {
	Summaries map[string][]optimization.Summary
}

// Empty indicates whether any optimizer searches were run.
func (r Result) Empty() bool {
	return len(r.Summaries) == 0
}

// For returns the summaries for one scenario, in configured order.
func (r Result) For(scenario string) []optimization.Summary {
	return r.Summaries[scenario]
}

// NewRunner constructs a Runner over baseline.
func NewRunner(logger *zap.Logger, baseline *projection.Baseline, scaling projection.Scaling) (*Runner, error) {
	if baseline == nil {
		return nil, fmt.Errorf("baseline cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, baseline: baseline, scaling: scaling}, nil
}

// Run executes every optimizer directive of the active scenarios. The
// scenarios themselves are not modified.
func (r *Runner) Run(scenarios []config.Scenario) (*Result, error) {
	targets, err := r.collectTargets(scenarios)
	if err != nil {
		return nil, err
	}

	summaries := make(map[string][]optimization.Summary)
	for _, target := range targets {
		summary, err := r.optimize(target)
		if err != nil {
			return nil, err
		}
		summaries[target.scenario.Name] = append(summaries[target.scenario.Name], summary)

		r.logger.Info("optimizer found tipping point",
			zap.String("op", "optimizer.Run"),
			zap.String("scenario", summary.Scenario),
			zap.String("group", summary.Group),
			zap.String("goal", summary.Goal),
			zap.Float64("original", summary.Original),
			zap.Float64("value", summary.Value),
			zap.Int("electoralVotes", summary.ElectoralVotes),
			zap.Int("iterations", summary.Iterations),
			zap.Bool("converged", summary.Converged),
		)
	}

	return &Result{Summaries: summaries}, nil
}

func (r *Runner) collectTargets(scenarios []config.Scenario) ([]tippingTarget, error) {
	known := make(map[string]struct{}, r.baseline.StateCount())
	for _, row := range r.baseline.States() {
		known[row.ID] = struct{}{}
	}

	var targets []tippingTarget
	for i := range scenarios {
		scenario := scenarios[i]
		if !scenario.Active {
			continue
		}
		for j := range scenario.Optimizers {
			cfg := scenario.Optimizers[j]
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("scenario %s optimizer %d: %w", scenario.Name, j+1, err)
			}
			if cfg.Kind == config.OptimizerKindState {
				if _, ok := known[cfg.State]; !ok {
					return nil, fmt.Errorf("scenario %s optimizer %d: state %s is not in the baseline", scenario.Name, j+1, cfg.State)
				}
			}

			group, _ := coalition.ParseGroup(cfg.Group)
			original, ok := lookupFold(scenario.TargetMargins, string(group))
			if !ok {
				original = r.baseline.OriginalMargin(group)
			}
			targets = append(targets, tippingTarget{
				scenario:  scenario,
				cfg:       &cfg,
				group:     group,
				candidate: swing.Candidate(cfg.Candidate),
				original:  original,
			})
		}
	}
	return targets, nil
}

// optimize bisects the target margin between the bound where the goal fails
// and the bound where it holds. Raising a group's target never lowers
// Obama's margin in any state, so the goal flips at most once in the range.
func (r *Runner) optimize(target tippingTarget) (optimization.Summary, error) {
	cfg := target.cfg
	favorable, unfavorable := *cfg.Max, *cfg.Min
	if target.candidate == swing.McCain {
		favorable, unfavorable = unfavorable, favorable
	}

	summary := optimization.Summary{
		Scenario:        target.scenario.Name,
		Group:           string(target.group),
		Goal:            cfg.Goal(),
		Original:        target.original,
		OriginalDisplay: formatPoints(target.original),
	}

	favorableEval, err := r.evaluate(target, favorable)
	if err != nil {
		return optimization.Summary{}, err
	}
	if !favorableEval.reached {
		summary.Value = favorableEval.value
		summary.ValueDisplay = formatPoints(favorableEval.value)
		summary.ElectoralVotes = favorableEval.votes
		summary.Converged = false
		summary.Notes = []string{fmt.Sprintf("unable to reach goal within bounds %s to %s",
			formatPoints(*cfg.Min), formatPoints(*cfg.Max))}
		return summary, nil
	}

	unfavorableEval, err := r.evaluate(target, unfavorable)
	if err != nil {
		return optimization.Summary{}, err
	}
	if unfavorableEval.reached {
		summary.Value = unfavorableEval.value
		summary.ValueDisplay = formatPoints(unfavorableEval.value)
		summary.ElectoralVotes = unfavorableEval.votes
		summary.Converged = true
		summary.Notes = []string{"goal holds across the full range"}
		return summary, nil
	}

	iterations := 0
	good, bad := favorableEval, unfavorableEval
	for iterations < cfg.MaxIterations && math.Abs(good.value-bad.value) > cfg.Tolerance {
		mid := bad.value + (good.value-bad.value)/2
		evalMid, err := r.evaluate(target, mid)
		if err != nil {
			return optimization.Summary{}, err
		}
		iterations++
		if evalMid.reached {
			good = evalMid
		} else {
			bad = evalMid
		}
	}

	summary.Value = good.value
	summary.ValueDisplay = formatPoints(good.value)
	summary.ElectoralVotes = good.votes
	summary.Iterations = iterations
	summary.Converged = math.Abs(good.value-bad.value) <= cfg.Tolerance
	if !summary.Converged {
		summary.Notes = []string{fmt.Sprintf("stopped after %d iterations", iterations)}
	}
	return summary, nil
}

func (r *Runner) evaluate(target tippingTarget, value float64) (evaluation, error) {
	scenario := target.scenario.Projection()
	margins := make(map[string]float64, len(scenario.TargetMargins)+1)
	for name, v := range scenario.TargetMargins {
		if !strings.EqualFold(strings.TrimSpace(name), string(target.group)) {
			margins[name] = v
		}
	}
	margins[string(target.group)] = value
	scenario.TargetMargins = margins

	// Dropped-value warnings were already reported for the scenario itself
	quiet := r.logger.WithOptions(zap.IncreaseLevel(zapcore.ErrorLevel))
	result, err := r.baseline.Project(quiet, scenario, r.scaling)
	if err != nil {
		return evaluation{}, fmt.Errorf("optimizer projection failed: %w", err)
	}

	eval := evaluation{value: value, votes: result.Electoral.Votes(target.candidate)}
	switch target.cfg.Kind {
	case config.OptimizerKindElectoral:
		eval.reached = eval.votes >= target.cfg.Votes
	default:
		state, ok := result.State(target.cfg.State)
		if !ok {
			return evaluation{}, fmt.Errorf("optimizer: projection missing state %s", target.cfg.State)
		}
		eval.reached = state.Winner == target.candidate
	}
	return eval, nil
}

func lookupFold(values map[string]float64, key string) (float64, bool) {
	for name, v := range values {
		if strings.EqualFold(strings.TrimSpace(name), key) && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v, true
		}
	}
	return 0, false
}

func formatPoints(value float64) string {
	return fmt.Sprintf("%+.2f", value)
}
