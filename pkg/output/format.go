// Package output provides utilities for formatting and displaying projection results.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/swing-o-matic/internal/projection"
	"github.com/iwvelando/swing-o-matic/internal/swing"
	"github.com/iwvelando/swing-o-matic/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []*projection.Result) error {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		lines := []string{
			fmt.Sprintf("--- Results for scenario %s ---\n", result.Name),
			result.PopularVoteSummary() + "\n",
			result.ElectoralSummary() + "\n",
			"State | EV  | Obama  | McCain | Third  | Margin    | Winner\n",
			"_____ | ___ | ______ | ______ | ______ | _________ | ______\n",
		}
		for _, line := range lines {
			if _, err := io.WriteString(w, line); err != nil {
				return err
			}
		}
		for _, state := range result.States {
			_, err := p.Fprintf(w, "%-5s | %3d | %6s | %6s | %6s | %-9s | %s\n",
				state.Row.ID, state.Row.ElectoralVotes,
				format.Percent(state.FinalObama), format.Percent(state.FinalMcCain), format.Percent(state.FinalThird),
				format.PartisanMargin(state.FinalMargin), state.Winner)
			if err != nil {
				return err
			}
		}
		if len(result.Dropped) > 0 {
			if _, err := p.Fprintf(w, "Ignored %d slider value(s)\n", len(result.Dropped)); err != nil {
				return err
			}
		}
		if i < len(results)-1 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// CsvFormat writes one comma-separated row per state per scenario.
func CsvFormat(w io.Writer, results []*projection.Result) error {
	if _, err := io.WriteString(w, `"scenario","state","ev","obama","mccain","third","margin","winner"`+"\n"); err != nil {
		return err
	}
	for _, result := range results {
		for _, state := range result.States {
			_, err := fmt.Fprintf(w, `"%s","%s","%d","%.4f","%.4f","%.4f","%.4f","%s"`+"\n",
				result.Name, state.Row.ID, state.Row.ElectoralVotes,
				state.FinalObama, state.FinalMcCain, state.FinalThird, state.FinalMargin, state.Winner)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// JSONFormat writes the results as an indented JSON array.
func JSONFormat(w io.Writer, results []*projection.Result) error {
	views := make([]ScenarioView, len(results))
	for i, result := range results {
		views[i] = NewScenarioView(result)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(views)
}

// ScenarioView is the serialized form of a projection result.
type ScenarioView struct {
	Name               string          `json:"name"`
	PopularVote        PopularVoteView `json:"popularVote"`
	Electoral          map[string]int  `json:"electoral"`
	PopularVoteSummary string          `json:"popularVoteSummary"`
	ElectoralSummary   string          `json:"electoralSummary"`
	States             []StateView     `json:"states"`
	Ignored            []string        `json:"ignored,omitempty"`
}

// PopularVoteView is the serialized national split.
type PopularVoteView struct {
	Obama  float64 `json:"obama"`
	McCain float64 `json:"mccain"`
	Third  float64 `json:"third"`
	Margin float64 `json:"margin"`
}

// StateView is one serialized state result.
type StateView struct {
	State          string  `json:"state"`
	ElectoralVotes int     `json:"ev"`
	Obama          float64 `json:"obama"`
	McCain         float64 `json:"mccain"`
	Third          float64 `json:"third"`
	Margin         float64 `json:"margin"`
	Winner         string  `json:"winner"`
}

// NewScenarioView flattens result for serialization.
func NewScenarioView(result *projection.Result) ScenarioView {
	view := ScenarioView{
		Name: result.Name,
		PopularVote: PopularVoteView{
			Obama:  result.PopularVote.Obama,
			McCain: result.PopularVote.McCain,
			Third:  result.PopularVote.Third,
			Margin: result.PopularVote.Margin(),
		},
		Electoral:          make(map[string]int, len(swing.Candidates)),
		PopularVoteSummary: result.PopularVoteSummary(),
		ElectoralSummary:   result.ElectoralSummary(),
		States:             make([]StateView, len(result.States)),
		Ignored:            result.Dropped,
	}
	for _, candidate := range swing.Candidates {
		view.Electoral[string(candidate)] = result.Electoral.Votes(candidate)
	}
	for i, state := range result.States {
		view.States[i] = StateView{
			State:          state.Row.ID,
			ElectoralVotes: state.Row.ElectoralVotes,
			Obama:          state.FinalObama,
			McCain:         state.FinalMcCain,
			Third:          state.FinalThird,
			Margin:         state.FinalMargin,
			Winner:         string(state.Winner),
		}
	}
	return view
}
