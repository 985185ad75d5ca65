// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package circuit holds the element model: a single tagged struct per
// circuit element, replacing the source's one-Python-class-per-kind
// hierarchy (Wire/Resistor/Capacitor/Inductor/Diode/Ground/PSource/
// QSource), following spec.md §9's "duck-typed element access" redesign.
package circuit

// Kind discriminates the behavior of an Element in the assembler.
type Kind int

// element kinds
const (
	KindWire Kind = iota
	KindResistor
	KindCapacitor
	KindInductor
	KindDiode
	KindGround
	KindPSource
	KindQSource
)

// String returns a short human readable name, used in error messages and
// probe default names.
func (k Kind) String() string {
	switch k {
	case KindWire:
		return "Wire"
	case KindResistor:
		return "Resistor"
	case KindCapacitor:
		return "Capacitor"
	case KindInductor:
		return "Inductor"
	case KindDiode:
		return "Diode"
	case KindGround:
		return "Ground"
	case KindPSource:
		return "PSource"
	case KindQSource:
		return "QSource"
	}
	return "Unknown"
}

// IsSource reports whether k is a two-terminal source that pins a node to a
// reference value (Ground, PSource) or a reference flow (QSource), the
// elements the graph builder marks as GraphNodeType SOURCE.
func (k Kind) IsSource() bool {
	return k == KindGround || k == KindPSource || k == KindQSource
}
