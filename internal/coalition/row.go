// Package coalition defines the per-state and national coalition records the
// swing engine consumes, and the builders that assemble them from raw tables.
package coalition

// NationalID identifies the single synthetic row for the whole electorate.
const NationalID = "NATIONAL"

// Row holds one geographic unit's baseline vote split and demographic
// composition.
type Row struct {
	ID string

	BaselineObama  float64
	BaselineMcCain float64
	BaselineThird  float64

	// Shares holds the swing-group composition keyed by SwingGroups.
	Shares map[Group]float64
	// Auxiliary holds any AuxiliaryGroups columns present in the source.
	Auxiliary map[Group]float64

	// ElectoralVotes is zero for the national row.
	ElectoralVotes int
	// ReportedMargin and Turnout are carried from the results table as-is.
	ReportedMargin float64
	Turnout        float64
}

// Clone returns a deep copy so callers may modify the maps freely.
func (r Row) Clone() Row {
	out := r
	out.Shares = make(map[Group]float64, len(r.Shares))
	for g, v := range r.Shares {
		out.Shares[g] = v
	}
	if r.Auxiliary != nil {
		out.Auxiliary = make(map[Group]float64, len(r.Auxiliary))
		for g, v := range r.Auxiliary {
			out.Auxiliary[g] = v
		}
	}
	return out
}

// ShareSum totals the swing-group shares.
func (r Row) ShareSum() float64 {
	sum := 0.0
	for _, g := range SwingGroups {
		sum += r.Shares[g]
	}
	return sum
}

// BaselineMargin is the baseline Obama share minus the baseline McCain share.
func (r Row) BaselineMargin() float64 {
	return r.BaselineObama - r.BaselineMcCain
}

// TwoPartySum is the combined baseline share of the two major candidates.
func (r Row) TwoPartySum() float64 {
	return r.BaselineObama + r.BaselineMcCain
}

// CloneRows deep-copies a row set.
func CloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = row.Clone()
	}
	return out
}
