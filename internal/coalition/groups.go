package coalition

import (
	"fmt"
	"strings"
)

// Group names a demographic column in its canonical form.
type Group string

// Swing groups. These partition the electorate and are the only groups the
// swing math consumes; their shares sum to ~1.0 per row.
const (
	WhiteNonCollege Group = "WhiteNonCollegeShare"
	WhiteCollege    Group = "WhiteCollegeShare"
	Black           Group = "BlackShare"
	Hispanic        Group = "HispanicShare"
	Asian           Group = "AsianShare"
	Other           Group = "OtherShare"
)

// Auxiliary groups are carried through the tables but never enter the swing math.
const (
	Male   Group = "MaleShare"
	Female Group = "FemaleShare"

	Age18To24  Group = "Age18_24Share"
	Age25To29  Group = "Age25_29Share"
	Age30To39  Group = "Age30_39Share"
	Age40To49  Group = "Age40_49Share"
	Age50To64  Group = "Age50_64Share"
	Age65AndUp Group = "Age65PlusShare"
	Veteran    Group = "VetShare"
	NonVeteran Group = "NotVetShare"
	Under15k   Group = "Under15kShare"
	Income15k  Group = "k15_30Share"
	Income30k  Group = "k30_50Share"
	Income50k  Group = "k50_75Share"
	Income75k  Group = "k75_100Share"
	Income100k Group = "k100_150Share"
	Income150k Group = "k150_200Share"
	Over200k   Group = "Over200kShare"
)

// SwingGroups is the fixed set G, in presentation order.
var SwingGroups = []Group{WhiteNonCollege, WhiteCollege, Black, Hispanic, Asian, Other}

// AuxiliaryGroups lists the carried-through demographic columns.
var AuxiliaryGroups = []Group{
	Male, Female,
	Age18To24, Age25To29, Age30To39, Age40To49, Age50To64, Age65AndUp,
	Under15k, Income15k, Income30k, Income50k, Income75k, Income100k, Income150k, Over200k,
	Veteran, NonVeteran,
}

// IsSwing reports whether g is a member of SwingGroups.
func (g Group) IsSwing() bool {
	for _, candidate := range SwingGroups {
		if g == candidate {
			return true
		}
	}
	return false
}

// ParseGroup resolves a swing group by its canonical name. Matching ignores
// case because viper lowercases map keys read from YAML.
func ParseGroup(name string) (Group, error) {
	trimmed := strings.TrimSpace(name)
	for _, g := range SwingGroups {
		if strings.EqualFold(string(g), trimmed) {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown demographic group %q", name)
}
