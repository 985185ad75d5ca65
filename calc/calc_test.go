// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package calc

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestCalcNonVariable(tst *testing.T) {

	//verbose()
	chk.PrintTitle("calc non-variable expressions")

	c := NewContext()

	v, err := c.Calculate("1+2*3")
	if err != nil {
		tst.Errorf("Calculate failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "1+2*3", 1e-15, v, 7)

	v, err = c.Calculate("2**3**2")
	if err != nil {
		tst.Errorf("Calculate failed: %v\n", err)
		return
	}
	// left-to-right associativity: (2**3)**2 = 64, not 2**(3**2) = 512
	chk.Scalar(tst, "2**3**2", 1e-15, v, 64)

	v, err = c.Calculate("-2+3")
	if err != nil {
		tst.Errorf("Calculate failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "-2+3", 1e-15, v, 1)

	v, err = c.Calculate("sin(pi/2)")
	if err != nil {
		tst.Errorf("Calculate failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "sin(pi/2)", 1e-15, v, 1)

	v, err = c.Calculate("(1<2)&(3>=3)")
	if err != nil {
		tst.Errorf("Calculate failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "(1<2)&(3>=3)", 1e-15, v, 1)
}

func TestCalcVariableOfT(tst *testing.T) {

	//verbose()
	chk.PrintTitle("calc expressions in t")

	c := NewContext()

	f, err := c.CalculateT("sin(2*pi*t)")
	if err != nil {
		tst.Errorf("CalculateT failed: %v\n", err)
		return
	}
	for _, t := range []float64{0, 0.25, 0.5, 1.3} {
		chk.Scalar(tst, "sin(2*pi*t)", 1e-14, f(t), math.Sin(2*math.Pi*t))
	}

	// aliased variable: x maps to an expression in t
	if err := c.AddVariable("x", "t*t"); err != nil {
		tst.Errorf("AddVariable failed: %v\n", err)
		return
	}
	g, err := c.CalculateT("x+1")
	if err != nil {
		tst.Errorf("CalculateT failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "x+1 @ t=3", 1e-14, g(3), 10)
}

func TestCalcProtectedNames(tst *testing.T) {

	//verbose()
	chk.PrintTitle("calc protected names")

	c := NewContext()

	if !c.IsProtectedConstant("pi") || !c.IsProtectedConstant("e") {
		tst.Errorf("pi and e must be protected constants\n")
		return
	}
	if !c.IsProtectedVariable("t") {
		tst.Errorf("t must be a protected variable\n")
		return
	}

	// setting a protected constant to its own value is a no-op, not an error
	if err := c.SetConstant("pi", math.Pi); err != nil {
		tst.Errorf("SetConstant(pi, pi) should not fail: %v\n", err)
		return
	}

	// setting it to a different value must fail with ReadOnly
	err := c.SetConstant("pi", 3)
	if err == nil {
		tst.Errorf("SetConstant(pi, 3) must fail\n")
		return
	}
	if ce, ok := err.(*Error); !ok || ce.Kind != ReadOnly {
		tst.Errorf("expected a ReadOnly error, got: %v\n", err)
		return
	}

	// removing a protected variable must fail
	if err := c.RemoveVariable("t"); err == nil {
		tst.Errorf("RemoveVariable(t) must fail\n")
		return
	}
}

func TestCalcFreeVars(tst *testing.T) {

	//verbose()
	chk.PrintTitle("calc free variable tracking")

	c := NewContext()
	if err := c.AddVariable("R1", "100"); err != nil {
		tst.Errorf("AddVariable failed: %v\n", err)
		return
	}
	if err := c.AddVariable("R2", "200"); err != nil {
		tst.Errorf("AddVariable failed: %v\n", err)
		return
	}

	f, err := c.Parse("R2+R1*t")
	if err != nil {
		tst.Errorf("Parse failed: %v\n", err)
		return
	}
	vars := f.Vars()
	if len(vars) != 3 || vars[0] != "R2" || vars[1] != "R1" || vars[2] != "t" {
		tst.Errorf("expected free vars [R2 R1 t] in first-occurrence order, got: %v\n", vars)
		return
	}

	v, err := f.Eval(200, 100, 2)
	if err != nil {
		tst.Errorf("Eval failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "R2+R1*t @ R2=200,R1=100,t=2", 1e-15, v, 400)

	_, err = f.Eval(1, 2)
	if err == nil {
		tst.Errorf("Eval with wrong number of arguments must fail\n")
		return
	}
	if ce, ok := err.(*Error); !ok || ce.Kind != WrongArgsLen {
		tst.Errorf("expected a WrongArgsLen error, got: %v\n", err)
		return
	}
}

func TestCalcErrorUnexpectedCharacter(tst *testing.T) {

	//verbose()
	chk.PrintTitle("calc unexpected character")

	c := NewContext()
	_, err := c.Calculate("1 @ 2")
	if err == nil {
		tst.Errorf("Calculate must fail on an unknown character\n")
		return
	}
	if ce, ok := err.(*Error); !ok || ce.Kind != UnexpectedCharacter {
		tst.Errorf("expected an UnexpectedCharacter error, got: %v\n", err)
		return
	}
}

func TestCalcErrorBadNumber(tst *testing.T) {

	//verbose()
	chk.PrintTitle("calc bad number")

	c := NewContext()
	_, err := c.Calculate("3.3.3")
	if err == nil {
		tst.Errorf("Calculate must fail on a malformed number\n")
		return
	}
	if ce, ok := err.(*Error); !ok || ce.Kind != BadNumber {
		tst.Errorf("expected a BadNumber error, got: %v\n", err)
		return
	}
}

func TestCalcErrorBadFunction(tst *testing.T) {

	//verbose()
	chk.PrintTitle("calc bad function / unknown name")

	c := NewContext()
	_, err := c.Calculate("bogus(1)")
	if err == nil {
		tst.Errorf("Calculate must fail on an unknown name\n")
		return
	}
	if ce, ok := err.(*Error); !ok || ce.Kind != BadFunction {
		tst.Errorf("expected a BadFunction error, got: %v\n", err)
		return
	}
}

func TestCalcErrorUnexpectedEnd(tst *testing.T) {

	//verbose()
	chk.PrintTitle("calc unexpected end")

	c := NewContext()
	_, err := c.Calculate("1+(2*3")
	if err == nil {
		tst.Errorf("Calculate must fail on an unterminated parenthesis\n")
		return
	}
	if ce, ok := err.(*Error); !ok || ce.Kind != UnexpectedEnd {
		tst.Errorf("expected an UnexpectedEnd error, got: %v\n", err)
		return
	}
}

func TestCalcDerivFiniteDiff(tst *testing.T) {

	//verbose()
	chk.PrintTitle("calc finite-difference derivative")

	c := NewContext()
	f, err := c.CalculateT("t*t")
	if err != nil {
		tst.Errorf("CalculateT failed: %v\n", err)
		return
	}
	df := DerivFiniteDiff(f)
	chk.Scalar(tst, "d(t^2)/dt @ t=3", 1e-4, df(3), 6)
}
