// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a single tipping-point directive.
type Summary struct {
	Scenario        string   `json:"scenario"`
	Group           string   `json:"group"`
	Goal            string   `json:"goal"`
	Original        float64  `json:"original"`
	Value           float64  `json:"value"`
	ElectoralVotes  int      `json:"electoralVotes"`
	Iterations      int      `json:"iterations"`
	Converged       bool     `json:"converged"`
	Notes           []string `json:"notes,omitempty"`
	OriginalDisplay string   `json:"originalDisplay,omitempty"`
	ValueDisplay    string   `json:"valueDisplay,omitempty"`
}

// Delta is the slider movement from the scenario's value to the tipping point.
func (s Summary) Delta() float64 {
	return s.Value - s.Original
}
