package swing

// Candidate identifies a winner category.
type Candidate string

const (
	Obama      Candidate = "Obama"
	McCain     Candidate = "McCain"
	ThirdParty Candidate = "ThirdParty"
)

// Candidates lists every winner category in reporting order.
var Candidates = []Candidate{Obama, McCain, ThirdParty}

// DecideWinner returns whichever candidate holds the largest share. Ties go to
// the third party first, then Obama, then McCain.
func DecideWinner(obama, mccain, third float64) Candidate {
	best := max(obama, mccain, third)
	switch best {
	case third:
		return ThirdParty
	case obama:
		return Obama
	default:
		return McCain
	}
}
