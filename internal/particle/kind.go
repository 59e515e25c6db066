package particle

import "fmt"

// Kind selects the default mass, charge and radius of a particle. Once a
// particle exists its kind is descriptive only.
type Kind string

const (
	Light    Kind = "light"
	Heavy    Kind = "heavy"
	Neutral  Kind = "neutral"
	Massless Kind = "massless"
)

// Defaults holds the per-kind construction values.
type Defaults struct {
	Mass   float64
	Charge float64
	Radius float64
}

var kindDefaults = map[Kind]Defaults{
	Light:    {Mass: 1, Charge: -1, Radius: 4},
	Heavy:    {Mass: 1836, Charge: 1, Radius: 6},
	Neutral:  {Mass: 1839, Charge: 0, Radius: 6},
	Massless: {Mass: 0, Charge: 0, Radius: 3},
}

// Kinds lists every kind in a stable order.
func Kinds() []Kind {
	return []Kind{Light, Heavy, Neutral, Massless}
}

func (k Kind) Defaults() Defaults {
	return kindDefaults[k]
}

func (k Kind) Valid() bool {
	_, ok := kindDefaults[k]
	return ok
}

// ParseKind accepts the kind names and their physical aliases (electron,
// proton, neutron, photon).
func ParseKind(s string) (Kind, error) {
	switch s {
	case "light", "electron":
		return Light, nil
	case "heavy", "proton":
		return Heavy, nil
	case "neutral", "neutron":
		return Neutral, nil
	case "massless", "photon":
		return Massless, nil
	}
	return "", fmt.Errorf("unknown particle kind: %s", s)
}
