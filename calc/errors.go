// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package calc

import (
	"errors"

	"github.com/cpmech/gosl/io"
)

// ErrorKind classifies the errors the calculator can raise while scanning,
// parsing or evaluating an expression.
type ErrorKind int

// error kinds
const (
	UnexpectedCharacter ErrorKind = iota
	BadNumber
	BadFunction
	WrongArgsLen
	UnexpectedEnd
	ReadOnly
)

// String returns a human readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case UnexpectedCharacter:
		return "UnexpectedCharacter"
	case BadNumber:
		return "BadNumber"
	case BadFunction:
		return "BadFunction"
	case WrongArgsLen:
		return "WrongArgsLen"
	case UnexpectedEnd:
		return "UnexpectedEnd"
	case ReadOnly:
		return "ReadOnly"
	}
	return "Unknown"
}

// Error is the error type raised by the scanner, parser and evaluator.
// Callers can switch on Kind to distinguish the taxonomy in spec §7.
type Error struct {
	Kind ErrorKind
	Msg  string
}

// Error implements the error interface
func (e *Error) Error() string { return e.Msg }

func errUnexpectedCharacter(c string, expected []string) *Error {
	if len(expected) > 0 {
		return &Error{Kind: UnexpectedCharacter, Msg: io.Sf("unexpected character %q, expected: %v", c, expected)}
	}
	return &Error{Kind: UnexpectedCharacter, Msg: io.Sf("unexpected character: %q", c)}
}

func errBadNumber(s string) *Error {
	return &Error{Kind: BadNumber, Msg: io.Sf("unable to scan number: %s", s)}
}

func errBadFunction(name string, supported []string) *Error {
	return &Error{Kind: BadFunction, Msg: io.Sf("unexpected function %s, list of supported functions: %v", name, supported)}
}

func errWrongArgsLen(got, want int) *Error {
	return &Error{Kind: WrongArgsLen, Msg: io.Sf("got %d arguments, but expected %d", got, want)}
}

func errUnexpectedEnd(expected []string) *Error {
	return &Error{Kind: UnexpectedEnd, Msg: io.Sf("found end, but expected: %v", expected)}
}

func errReadOnly(name string) *Error {
	return &Error{Kind: ReadOnly, Msg: io.Sf("cannot modify read-only variable: %s", name)}
}

// errAlreadyExists and errProtected are raised by the Context configuration
// API (AddConstant/AddVariable/AddFunction/RemoveConstant/RemoveVariable).
// They sit outside the six-member scan/parse/eval taxonomy above, matching
// the source raising a plain ValueError for these (calculatorexceptions.py
// defines only the scan/parse/eval hierarchy).
func errAlreadyExists(kind, name string) error {
	return errors.New(io.Sf("%s %q already exists", kind, name))
}

func errProtected(kind, name string) error {
	return errors.New(io.Sf("%s %q is protected and cannot be removed", kind, name))
}
