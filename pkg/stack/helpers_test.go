package stack

import (
	"github.com/matzehuels/itfstack/pkg/errors"
)

func ptr(v float64) *float64 { return &v }

func pos(line int) errors.Position { return errors.Position{Line: line, Column: 1} }

func dielectric(name string, thickness, er float64, line int) *Dielectric {
	return &Dielectric{LayerBase: LayerBase{Name: name, Thickness: thickness, Pos: pos(line)}, ER: er}
}

func conductor(name string, thickness, rpsq float64, line int) *Conductor {
	return &Conductor{LayerBase: LayerBase{Name: name, Thickness: thickness, Pos: pos(line)}, RPSQ: ptr(rpsq)}
}

func via(name, from, to string, line int) *Via {
	return &Via{Name: name, From: from, To: to, Area: 0.01, RPV: 1.0, Pos: pos(line)}
}

// demoDraft builds a five-layer stack:
//
//	m2   (conductor, 0.4)
//	ild2 (dielectric, 0.6)
//	m1   (conductor, 0.5)
//	ild1 (dielectric, 1.0)
//	poly (conductor, 0.2)
//
// declared bottom-up, with vias poly-m1 and m1-m2.
func demoDraft() *Draft {
	d := NewDraft()
	d.Technology.Name = "demo"
	d.Technology.GlobalTemperature = ptr(25)
	d.AddLayer(conductor("poly", 0.2, 8.0, 1))
	d.AddLayer(dielectric("ild1", 1.0, 4.2, 2))
	d.AddLayer(conductor("m1", 0.5, 0.1, 3))
	d.AddLayer(dielectric("ild2", 0.6, 3.9, 4))
	d.AddLayer(conductor("m2", 0.4, 0.08, 5))
	d.AddVia(via("co", "poly", "m1", 6))
	d.AddVia(via("v1", "m1", "m2", 7))
	return d
}

func mustValidate(d *Draft) *Stack {
	s, errs := Validate(d)
	if len(errs) > 0 {
		panic(errs.Detail())
	}
	return s
}
