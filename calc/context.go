// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package calc implements a small recursive-descent calculator for the
// expression strings a user types into element value fields (e.g.
// "1.333e3*(Emin+(Emax-Emin)*(t<=T2)*...)"). It turns such strings into
// first-class numeric functions of time, with named constants, user
// variables and a handful of math primitives.
//
// Every caller owns an explicit *Context instead of reaching for a
// process-wide global calculator (SPEC_FULL.md §3 "Global mutable
// calculator"); the GUI, sim.Solve and the test suite each create their
// own.
package calc

import "math"

// Context is a configurable calculator instance: its set of constants,
// variables (aliases) and functions can be extended or overridden, except
// for the protected built-ins ("e", "pi", "t").
type Context struct {
	constants map[string]float64
	variables map[string]string
	functions map[string]func(float64) float64

	protectedConstants map[string]bool
	protectedVariables map[string]bool
}

// NewContext returns a calculator pre-loaded with the protected constants
// e, pi, the protected free variable t, and the default math functions.
func NewContext() *Context {
	c := &Context{
		constants: map[string]float64{"e": math.E, "pi": math.Pi},
		variables: map[string]string{"t": "t"},
		functions: defaultFunctions(),
		protectedConstants: map[string]bool{
			"e": true, "pi": true,
		},
		protectedVariables: map[string]bool{
			"t": true,
		},
	}
	return c
}

func (c *Context) isVariable(name string) bool {
	_, ok := c.variables[name]
	return ok
}

func (c *Context) isConstant(name string) bool {
	_, ok := c.constants[name]
	return ok
}

func (c *Context) isFunction(name string) bool {
	_, ok := c.functions[name]
	return ok
}

// IsProtectedConstant reports whether name is a built-in, read-only constant.
func (c *Context) IsProtectedConstant(name string) bool { return c.protectedConstants[name] }

// IsProtectedVariable reports whether name is a built-in, read-only variable.
func (c *Context) IsProtectedVariable(name string) bool { return c.protectedVariables[name] }

// AddConstant adds a new constant. It returns an error if the name is
// already defined (protected or not) — unlike SetConstant, this never
// overwrites.
func (c *Context) AddConstant(name string, value float64) error {
	if _, ok := c.constants[name]; ok {
		return errAlreadyExists("constant", name)
	}
	c.constants[name] = value
	return nil
}

// AddVariable adds a new variable alias mapping name to the expression expr.
func (c *Context) AddVariable(name, expr string) error {
	if _, ok := c.variables[name]; ok {
		return errAlreadyExists("variable", name)
	}
	c.variables[name] = expr
	return nil
}

// AddFunction adds a new one-argument function under name.
func (c *Context) AddFunction(name string, fn func(float64) float64) error {
	if _, ok := c.functions[name]; ok {
		return errAlreadyExists("function", name)
	}
	c.functions[name] = fn
	return nil
}

// SetConstant creates or updates a constant. Protected constants are
// read-only: setting one to its current value is a no-op, setting it to a
// different value returns a ReadOnly error.
func (c *Context) SetConstant(name string, value float64) error {
	if c.protectedConstants[name] {
		if current, ok := c.constants[name]; !ok || value != current {
			return errReadOnly(name)
		}
		return nil
	}
	c.constants[name] = value
	return nil
}

// SetVariable creates or updates a variable alias. Protected variables are
// read-only the same way protected constants are.
func (c *Context) SetVariable(name, expr string) error {
	if c.protectedVariables[name] {
		if current, ok := c.variables[name]; !ok || expr != current {
			return errReadOnly(name)
		}
		return nil
	}
	c.variables[name] = expr
	return nil
}

// RemoveConstant removes a constant, unless it is protected.
func (c *Context) RemoveConstant(name string) error {
	if c.protectedConstants[name] {
		return errProtected("constant", name)
	}
	delete(c.constants, name)
	return nil
}

// RemoveVariable removes a variable, unless it is protected.
func (c *Context) RemoveVariable(name string) error {
	if c.protectedVariables[name] {
		return errProtected("variable", name)
	}
	delete(c.variables, name)
	return nil
}

// LoadConstants replaces every non-protected constant with consts, silently
// skipping any entry that collides with a protected name.
func (c *Context) LoadConstants(consts map[string]float64) {
	c.ClearConstants()
	for name, value := range consts {
		if err := c.SetConstant(name, value); err != nil {
			continue
		}
	}
}

// LoadVariables replaces every non-protected variable with vars, silently
// skipping any entry that collides with a protected name.
func (c *Context) LoadVariables(vars map[string]string) {
	c.ClearVariables()
	for name, expr := range vars {
		if err := c.SetVariable(name, expr); err != nil {
			continue
		}
	}
}

// ClearConstants removes every non-protected constant.
func (c *Context) ClearConstants() {
	for name := range c.constants {
		if !c.protectedConstants[name] {
			delete(c.constants, name)
		}
	}
}

// ClearVariables removes every non-protected variable.
func (c *Context) ClearVariables() {
	for name := range c.variables {
		if !c.protectedVariables[name] {
			delete(c.variables, name)
		}
	}
}
