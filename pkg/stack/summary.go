package stack

// Summary is an aggregate view of a [Stack].
type Summary struct {
	TechnologyName    string
	TotalLayers       int
	ConductorLayers   int
	DielectricLayers  int
	ViaCount          int
	TotalHeight       float64  // Sum of thicknesses in declaration order
	GlobalTemperature *float64 // Nil when the document does not set it
}

// Summary computes the process summary of s.
func (s *Stack) Summary() Summary {
	sum := Summary{
		TechnologyName: s.tech.Name,
		TotalLayers:    len(s.layers),
		ViaCount:       len(s.vias),
		TotalHeight:    s.TotalHeight(),
	}
	if t := s.tech.GlobalTemperature; t != nil {
		v := *t
		sum.GlobalTemperature = &v
	}
	for _, l := range s.layers {
		switch l.(type) {
		case *Conductor:
			sum.ConductorLayers++
		case *Dielectric:
			sum.DielectricLayers++
		}
	}
	return sum
}
