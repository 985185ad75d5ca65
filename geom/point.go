// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom holds the small geometric types shared by the circuit and
// graph builders: a terminal's position, and the ordering used to find
// coincident terminals during graph construction.
package geom

// Point is a 2D position of a circuit node (element terminal).
type Point struct {
	X, Y float64
}

// Less orders points lexicographically by X then Y, matching the source's
// Node.__lt__ (used to sort terminals before merging coincident ones).
func (p Point) Less(q Point) bool {
	return p.X < q.X || (p.X == q.X && p.Y < q.Y)
}

// Equal reports whether two points occupy the same position.
func (p Point) Equal(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}

// Terminal is the slot an element's lead occupies: its position plus the
// optional pressure probe attached to it, matching the source's Node
// probed/probe_name fields (node.py).
type Terminal struct {
	Pos       Point
	Probed    bool
	ProbeName string
}

