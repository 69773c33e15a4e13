//  Copyright (c) 2025 Squirelabs, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tracker implements the nullability fact tracker: five transfer
// functions over the path-local fact store, driven by a host engine's
// snapshot-and-transition protocol. The tracker never explores control flow
// or solves constraints itself; it reacts to host callbacks and queries the
// host's constraint oracle through the Context interface.
//
// Every transfer function treats an unresolvable expression, an unknown
// callee or a non-pointer operand as a no-op. The tracker degrades to
// silence rather than guessing.
package tracker

import (
	"go/ast"

	"github.com/squirelabs/nulltrack/config"
	"github.com/squirelabs/nulltrack/nullness"
	"github.com/squirelabs/nulltrack/util"
)

// Name is the checker name the tracker registers under.
const Name = "nulltrack"

// Category is the diagnostic category of the checker.
const Category = "nullability"

// ReportMessage is the single user-visible failure mode: the diagnostic text
// attached to the source range of an unchecked access.
const ReportMessage = "possible nil pointer dereference"

// Callback identifies one host callback kind.
type Callback uint8

// The callback kinds the tracker subscribes to.
const (
	CallReturn Callback = iota
	Branch
	Assign
	Access
	SymbolsDead
)

// Subscriptions returns the callback kinds the tracker must be registered
// for. Pure configuration for the host's registration surface.
func Subscriptions() []Callback {
	return []Callback{CallReturn, Branch, Assign, Access, SymbolsDead}
}

// Context is the tracker's window into the host engine at a single program
// point. Each callback runs to completion before the next is issued, reads
// the current path snapshot through Facts, and publishes at most one
// successor snapshot through AddTransition.
type Context interface {
	// Facts returns the fact store of the current path snapshot.
	Facts() *nullness.Map

	// Resolve reduces an expression to an abstract storage location,
	// following base-expression resolution for member and array accesses.
	// It returns nil when the expression does not denote a trackable
	// location.
	Resolve(expr ast.Expr) nullness.Location

	// IsNullConstant reports whether expr is the literal zero/null pointer
	// constant.
	IsNullConstant(expr ast.Expr) bool

	// IsNonNullConstant reports whether expr is a non-null compile-time
	// constant pointer-like value.
	IsNonNullConstant(expr ast.Expr) bool

	// ForcesNonNull asks the host's constraint oracle whether the path's
	// accumulated constraints already force the location's value non-null.
	ForcesNonNull(loc nullness.Location) bool

	// MayReturnNull reports whether the named callee is known to possibly
	// return null for reasons outside the static catalog, e.g. imported
	// package facts.
	MayReturnNull(callee *ast.Ident) bool

	// Report requests a diagnostic node from the host and, if granted,
	// emits one report attributing the source range of rng. It returns
	// false when the host refuses because the path has been terminated or
	// pruned; the tracker does not retry.
	Report(msg string, rng ast.Node) bool

	// AddTransition hands the successor snapshot back to the host.
	AddTransition(facts *nullness.Map)
}

// Tracker holds the static configuration catalogs. It carries no per-path
// state: everything path-local lives in the snapshot threaded through the
// Context.
type Tracker struct {
	catalog *config.Catalog
}

// New returns a tracker matching against the given catalog.
func New(catalog *config.Catalog) *Tracker {
	return &Tracker{catalog: catalog}
}

// OnCallReturn is the allocation-return transfer: on return from a
// recognized maybe-null call whose return value reduces to a location, seed
// that location's fact to MaybeNull, overwriting any prior fact. A fresh
// allocation always resets nullability knowledge.
func (t *Tracker) OnCallReturn(call *ast.CallExpr, ctx Context) {
	callee := util.CalleeIdent(call)
	if callee == nil {
		return
	}
	if !t.catalog.IsAllocFunc(callee.Name) && !ctx.MayReturnNull(callee) {
		return
	}
	loc := ctx.Resolve(call)
	if loc == nil {
		return
	}
	ctx.AddTransition(ctx.Facts().Set(loc.Base(), nullness.MaybeNull))
}

// OnBranch is the branch-narrowing transfer. When the condition matches one
// of the recognized null-test shapes and the arm actually taken is the
// non-null-consistent one, a MaybeNull fact on the tested location narrows
// to NonNull, clearing any Reported flag. The null-consistent arm is
// intentionally left unchanged: the path where the value is null but
// execution continues is exactly the buggy path the access-site transfer
// must still catch.
func (t *Tracker) OnBranch(cond ast.Expr, taken bool, ctx Context) {
	shape, operand, trueImpliesNonNull := recognizeCond(cond, ctx)
	if shape == shapeOther {
		return
	}
	loc := ctx.Resolve(operand)
	if loc == nil {
		return
	}
	loc = loc.Base()

	fact, ok := ctx.Facts().Lookup(loc)
	if !ok || fact.IsNonNull() {
		return
	}
	if taken != trueImpliesNonNull {
		return
	}
	if fact.IsMaybeNull() {
		ctx.AddTransition(ctx.Facts().Set(loc, nullness.NonNull))
	}
}

// OnAssign is the assignment transfer: on a store to dst, classify the
// source value, in priority order. A pointer copy propagates the source
// fact verbatim as a snapshot copy, not a live alias. The zero/null constant
// and a read of a recognized metadata field seed MaybeNull; a non-null
// constant seeds NonNull. Unresolved sources never clear an existing fact
// on the destination: only the constraint oracle, consulted at the access
// site, can definitively discharge a MaybeNull fact.
func (t *Tracker) OnAssign(dst nullness.Location, src ast.Expr, ctx Context) {
	if dst == nil || src == nil {
		return
	}
	dst = dst.Base()
	facts := ctx.Facts()

	if srcLoc := ctx.Resolve(src); srcLoc != nil {
		if fact, ok := facts.Lookup(srcLoc.Base()); ok {
			ctx.AddTransition(facts.Set(dst, fact))
			return
		}
	}
	if ctx.IsNullConstant(src) {
		ctx.AddTransition(facts.Set(dst, nullness.MaybeNull))
		return
	}
	if ctx.IsNonNullConstant(src) {
		ctx.AddTransition(facts.Set(dst, nullness.NonNull))
		return
	}
	if field := asFieldRead(src); field != nil && t.catalog.IsMetadataField(field.Sel.Name) {
		ctx.AddTransition(facts.Set(dst, nullness.MaybeNull))
		return
	}
}

// OnAccess is the access-site transfer, invoked before a memory access
// (dereference, member access, subscript) syntactically rooted at base is
// performed. A MaybeNull fact that the constraint oracle cannot discharge
// produces exactly one diagnostic per location per path; the Reported flag
// suppresses duplicates. This transfer never narrows or clears a fact.
func (t *Tracker) OnAccess(base ast.Expr, site ast.Node, ctx Context) {
	loc := ctx.Resolve(base)
	if loc == nil {
		return
	}
	loc = loc.Base()

	fact, ok := ctx.Facts().Lookup(loc)
	if !ok || fact.IsReported() || fact.IsNonNull() || !fact.IsMaybeNull() {
		return
	}
	// The branch heuristic is a shortcut; the oracle is the authoritative
	// fallback for narrowing it misses.
	if ctx.ForcesNonNull(loc) {
		return
	}
	if !ctx.Report(ReportMessage, site) {
		return
	}
	ctx.AddTransition(ctx.Facts().Set(loc, fact|nullness.Reported))
}

// OnSymbolsDead is the fact reclamation transfer: it drops entries for
// locations the host reports as symbolically dead. This is the only place
// facts are removed, bounding the store to the live tracked locations. A
// successor is emitted only if at least one entry was removed.
func (t *Tracker) OnSymbolsDead(dead map[nullness.Location]bool, ctx Context) {
	if len(dead) == 0 {
		return
	}
	next, changed := ctx.Facts().Reap(func(loc nullness.Location) bool {
		return dead[loc]
	})
	if changed {
		ctx.AddTransition(next)
	}
}
