// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package calc

// Func is a parsed expression, ready to be evaluated once its free
// variables (in the order they were first encountered while parsing) are
// supplied.
type Func struct {
	root *node
	vars []string
}

// Vars returns the free variable names the expression depends on, in
// first-occurrence order.
func (f *Func) Vars() []string { return append([]string(nil), f.vars...) }

// Eval evaluates the expression at the given argument values, which must be
// supplied in the same order Vars() reports.
func (f *Func) Eval(args ...float64) (float64, error) {
	if len(args) != len(f.vars) {
		return 0, errWrongArgsLen(len(args), len(f.vars))
	}
	return f.root.eval(args), nil
}

// EvalT is a convenience for the common case of a Func whose only free
// variable is "t": it evaluates the expression directly at t without going
// through CalculateT's alias resolution.
func (f *Func) EvalT(t float64) (float64, error) {
	return f.Eval(t)
}

// Parse scans and parses expr into a Func whose free variables are the
// names from c.variables it references directly (aliases are not resolved
// here; see CalculateT for that).
func (c *Context) Parse(expr string) (*Func, error) {
	toks, err := scan(expr, c)
	if err != nil {
		return nil, err
	}
	root, vars, err := parseTokens(toks, c)
	if err != nil {
		return nil, err
	}
	return &Func{root: root, vars: vars}, nil
}

// Calculate evaluates expr as a plain numeric expression with no free
// variables. If expr references any variable the call fails with a
// WrongArgsLen error, since no values are available to supply.
func (c *Context) Calculate(expr string) (float64, error) {
	f, err := c.Parse(expr)
	if err != nil {
		return 0, err
	}
	return f.Eval()
}

// TimeFunc is a scalar function of simulation time, the result of resolving
// every variable an expression depends on, recursively, down to "t".
type TimeFunc func(t float64) float64

// CalculateT parses expr and recursively resolves every free variable it
// references through the context's variable aliases, bottoming out at the
// protected "t" variable, and returns the resulting function of time.
//
// The "t" variable maps to itself in a fresh Context (see NewContext); that
// self-reference is the base case below and must not recurse.
func (c *Context) CalculateT(expr string) (TimeFunc, error) {
	f, err := c.Parse(expr)
	if err != nil {
		return nil, err
	}
	vars := f.Vars()
	resolved := make([]TimeFunc, len(vars))
	for i, name := range vars {
		if name == "t" {
			resolved[i] = func(t float64) float64 { return t }
			continue
		}
		sub, ok := c.variables[name]
		if !ok {
			return nil, errBadFunction(name, c.allTokens())
		}
		subFn, err := c.CalculateT(sub)
		if err != nil {
			return nil, err
		}
		resolved[i] = subFn
	}
	return func(t float64) float64 {
		args := make([]float64, len(resolved))
		for i, rf := range resolved {
			args[i] = rf(t)
		}
		v, _ := f.Eval(args...)
		return v
	}, nil
}

// derivStep is the half-step used by the centered finite-difference
// derivative below.
const derivStep = 1e-6

// DerivFiniteDiff returns the centered finite-difference derivative of f,
// used where an element's time-derivative is needed (e.g. a capacitor's
// current source term) but no closed-form derivative is available.
func DerivFiniteDiff(f TimeFunc) TimeFunc {
	return func(t float64) float64 {
		return (f(t+derivStep) - f(t-derivStep)) / (2 * derivStep)
	}
}
