// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assembler

import (
	"errors"
	"fmt"

	"github.com/cpmech/gosl/io"
	"github.com/maximerenault/LUPA/circuit"
)

// ErrUnderconstrained and ErrOverconstrained are sentinel errors callers can
// match with errors.Is; each occurrence is wrapped with the row/unknown
// counts via %w, following circuitsolverexceptions.py's
// UnderconstrainedError / OverconstrainedError.
var (
	ErrUnderconstrained   = errors.New("assembler: underconstrained system")
	ErrOverconstrained    = errors.New("assembler: overconstrained system")
	ErrUnknownElementKind = errors.New("assembler: unknown element kind")
)

func errUnderconstrained(nbEq, nbUnknowns int) error {
	return fmt.Errorf("%w: %s", ErrUnderconstrained, io.Sf("got %d equations for %d unknowns", nbEq, nbUnknowns))
}

func errOverconstrained(nbEq, nbUnknowns int) error {
	return fmt.Errorf("%w: %s", ErrOverconstrained, io.Sf("got %d equations for %d unknowns", nbEq, nbUnknowns))
}

func errUnknownKind(kind circuit.Kind) error {
	return fmt.Errorf("%w: %s", ErrUnknownElementKind, kind)
}
