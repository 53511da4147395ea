package output

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/iwvelando/swing-o-matic/pkg/format"
	"github.com/iwvelando/swing-o-matic/pkg/optimization"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyTippingPoints writes one line per optimizer summary, grouped by scenario
// in the order given.
func PrettyTippingPoints(w io.Writer, scenarios []string, summaries map[string][]optimization.Summary) error {
	p := message.NewPrinter(language.English)
	first := true
	for _, name := range scenarios {
		list := summaries[name]
		if len(list) == 0 {
			continue
		}
		if !first {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		first = false

		if _, err := p.Fprintf(w, "--- Tipping points for scenario %s ---\n", name); err != nil {
			return err
		}
		for _, s := range list {
			status := "converged"
			if !s.Converged {
				status = "not converged"
			}
			_, err := p.Fprintf(w, "%s: %s slider %s -> %s (%d EV, %d iterations, %s)\n",
				s.Goal, format.Label(s.Group), s.OriginalDisplay, s.ValueDisplay, s.ElectoralVotes, s.Iterations, status)
			if err != nil {
				return err
			}
			if len(s.Notes) > 0 {
				if _, err := p.Fprintf(w, "  note: %s\n", strings.Join(s.Notes, "; ")); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// JSONTippingPoints writes every summary as an indented JSON array.
func JSONTippingPoints(w io.Writer, scenarios []string, summaries map[string][]optimization.Summary) error {
	flat := make([]optimization.Summary, 0)
	for _, name := range scenarios {
		flat = append(flat, summaries[name]...)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(flat)
}
