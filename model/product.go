// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"fmt"
)

// FlagSpec declares a boolean flag forwarded to the underlying tool
type FlagSpec struct {
	Name string
	Help string
}

// ValueFlagSpec declares a flag that takes a single value
type ValueFlagSpec struct {
	Name        string
	Help        string
	PlaceHolder string
	Required    bool
	// MustExist marks the value as a filesystem path that has to exist
	// before the tool is invoked
	MustExist bool
}

// ProductSpec is the declarative description of one product wrapper. The
// shared controller consumes these instead of each product carrying its
// own subclass of boilerplate.
type ProductSpec struct {
	// Name is the CLI subcommand name
	Name string
	// Title is the human readable product name used in log lines
	Title string
	// Description documents the wrapped tool
	Description string
	// Executable is the tool to invoke when it does not depend on the scene
	Executable string
	// ExecutableRule is an expression evaluated against the scene metadata
	// facts which yields the executable name, used when different
	// satellites are served by different tools
	ExecutableRule string
	// ProductFlags are the boolean output product switches, when any are
	// declared at least one must be requested
	ProductFlags []FlagSpec
	// ModifierFlags are boolean switches that alter processing without
	// requesting an output product, --toa style
	ModifierFlags []FlagSpec
	// ValueFlags are flags carrying a value, --dem style
	ValueFlags []ValueFlagSpec

	SupportsVerbose bool
	SupportsDebug   bool
}

// Validate checks the spec is complete enough to drive the controller
func (p *ProductSpec) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}

	if p.Title == "" {
		return fmt.Errorf("product title is required")
	}

	if p.Executable == "" && p.ExecutableRule == "" {
		return fmt.Errorf("product %s declares no executable or executable rule", p.Name)
	}

	return nil
}

// SelectsExecutable indicates the executable depends on scene metadata
func (p *ProductSpec) SelectsExecutable() bool {
	return p.Executable == "" && p.ExecutableRule != ""
}

// Request is one validated wrapper invocation, created from the command
// line or an agent message and immutable afterwards
type Request struct {
	XMLFile   string            `json:"xml"`
	Enabled   map[string]bool   `json:"flags,omitempty"`
	Values    map[string]string `json:"values,omitempty"`
	Verbose   bool              `json:"verbose,omitempty"`
	Debug     bool              `json:"debug,omitempty"`
	ExtraArgs []string          `json:"extra_args,omitempty"`
}

// IsEnabled reports if a named boolean flag was requested
func (r *Request) IsEnabled(name string) bool {
	return r.Enabled[name]
}

// Value returns the value given for a named value flag
func (r *Request) Value(name string) string {
	return r.Values[name]
}
