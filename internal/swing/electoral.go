package swing

// ElectoralTally sums electoral votes by winner.
type ElectoralTally map[Candidate]int

// AggregateElectoral totals each result's electoral votes under its winner.
func AggregateElectoral(results []Result) ElectoralTally {
	tally := make(ElectoralTally, len(Candidates))
	for _, res := range results {
		tally[res.Winner] += res.Row.ElectoralVotes
	}
	return tally
}

// Votes returns the total for c, zero when c carried no rows.
func (t ElectoralTally) Votes(c Candidate) int {
	return t[c]
}

// Total sums electoral votes across all candidates.
func (t ElectoralTally) Total() int {
	total := 0
	for _, votes := range t {
		total += votes
	}
	return total
}
