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

package symexec

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/cfg"

	"github.com/squirelabs/nulltrack/config"
	"github.com/squirelabs/nulltrack/diagnostic"
	"github.com/squirelabs/nulltrack/facts"
	"github.com/squirelabs/nulltrack/nullness"
	"github.com/squirelabs/nulltrack/tracker"
	"github.com/squirelabs/nulltrack/util"
)

// _maxReportsPerFunction caps the diagnostics one function can produce.
// Beyond it the engine refuses report nodes, which the tracker treats as a
// terminated path.
const _maxReportsPerFunction = 64

// pathState is one path's snapshot: the fact store plus the branch
// assumptions feeding the constraint oracle. Snapshots are immutable by
// convention; sibling paths work on private forks.
type pathState struct {
	facts          *nullness.Map
	assumedNull    map[nullness.Location]bool
	assumedNonNull map[nullness.Location]bool
}

func newPathState() *pathState {
	return &pathState{
		facts:          nullness.NewMap(),
		assumedNull:    make(map[nullness.Location]bool),
		assumedNonNull: make(map[nullness.Location]bool),
	}
}

func (s *pathState) fork() *pathState {
	next := &pathState{
		facts:          s.facts,
		assumedNull:    make(map[nullness.Location]bool, len(s.assumedNull)),
		assumedNonNull: make(map[nullness.Location]bool, len(s.assumedNonNull)),
	}
	for k := range s.assumedNull {
		next.assumedNull[k] = true
	}
	for k := range s.assumedNonNull {
		next.assumedNonNull[k] = true
	}
	return next
}

func (s *pathState) withFacts(facts *nullness.Map) *pathState {
	return &pathState{
		facts:          facts,
		assumedNull:    s.assumedNull,
		assumedNonNull: s.assumedNonNull,
	}
}

// engine is the reference host: a single-threaded, cooperative driver that
// explores paths depth first and issues the tracker callbacks in program
// order along each path.
type engine struct {
	pass  *analysis.Pass
	conf  *config.Config
	track *tracker.Tracker
	index *facts.Index
	diags *diagnostic.Engine

	// Per-function exploration state.
	lastUse map[types.Object]token.Pos
	paths   int
	reports int
}

func newEngine(pass *analysis.Pass, conf *config.Config, index *facts.Index) *engine {
	return &engine{
		pass:  pass,
		conf:  conf,
		track: tracker.New(conf.Catalog),
		index: index,
		diags: diagnostic.NewEngine(tracker.Category),
	}
}

// stepContext adapts the engine to the tracker's Context at one program
// point of one path. AddTransition captures the successor snapshot; the
// engine folds it back so that invocation n+1 sees exactly what invocation
// n returned.
type stepContext struct {
	e  *engine
	st *pathState

	succ         *nullness.Map
	transitioned bool
}

func (c *stepContext) Facts() *nullness.Map { return c.st.facts }

func (c *stepContext) Resolve(expr ast.Expr) nullness.Location { return c.e.resolve(expr) }

func (c *stepContext) IsNullConstant(expr ast.Expr) bool {
	tv, ok := c.e.pass.TypesInfo.Types[expr]
	if !ok {
		return false
	}
	if tv.IsNil() {
		return true
	}
	return tv.Value != nil && tv.Value.Kind() == constant.Int && constant.Sign(tv.Value) == 0
}

func (c *stepContext) IsNonNullConstant(expr ast.Expr) bool {
	tv, ok := c.e.pass.TypesInfo.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.Int {
		return false
	}
	return constant.Sign(tv.Value) != 0 && util.TypeIsPointerLike(tv.Type)
}

func (c *stepContext) ForcesNonNull(loc nullness.Location) bool {
	return c.st.assumedNonNull[loc]
}

func (c *stepContext) MayReturnNull(callee *ast.Ident) bool {
	return c.e.index.MayReturnNull(c.e.pass.TypesInfo.ObjectOf(callee))
}

func (c *stepContext) Report(msg string, rng ast.Node) bool {
	if c.e.reports >= _maxReportsPerFunction {
		return false
	}
	c.e.reports++
	c.e.diags.Add(diagnostic.Report{Pos: rng.Pos(), End: rng.End(), Message: msg})
	return true
}

func (c *stepContext) AddTransition(facts *nullness.Map) {
	c.succ = facts
	c.transitioned = true
}

// transfer runs one tracker callback and folds its successor snapshot, if
// any, back into the path.
func (e *engine) transfer(st *pathState, f func(tracker.Context)) *pathState {
	ctx := &stepContext{e: e, st: st}
	f(ctx)
	if ctx.transitioned {
		return st.withFacts(ctx.succ)
	}
	return st
}

// frame is one pending exploration step.
type frame struct {
	block  *cfg.Block
	state  *pathState
	visits map[*cfg.Block]int
}

func copyVisits(visits map[*cfg.Block]int) map[*cfg.Block]int {
	next := make(map[*cfg.Block]int, len(visits))
	for k, v := range visits {
		next[k] = v
	}
	return next
}

// checkFunction explores decl's CFG depth first within the configured
// budgets, driving the tracker at every step.
func (e *engine) checkFunction(decl *ast.FuncDecl) {
	graph := cfg.New(decl.Body, func(*ast.CallExpr) bool { return true })
	if len(graph.Blocks) == 0 {
		return
	}
	e.lastUse = lastUses(decl.Body, e.pass.TypesInfo)
	e.paths = 0
	e.reports = 0

	stack := []*frame{{
		block:  graph.Blocks[0],
		state:  newPathState(),
		visits: make(map[*cfg.Block]int),
	}}
	for len(stack) > 0 && e.paths < e.conf.MaxPaths {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.visits[f.block] >= e.conf.MaxBlockVisits {
			e.paths++
			continue
		}
		f.visits[f.block]++

		st := f.state
		nodes := f.block.Nodes

		// A two-successor block ends in its branch condition.
		var cond ast.Expr
		if len(f.block.Succs) == 2 && len(nodes) > 0 {
			if c, ok := nodes[len(nodes)-1].(ast.Expr); ok {
				cond = c
				nodes = nodes[:len(nodes)-1]
			}
		}

		for _, n := range nodes {
			st = e.stepNode(st, n)
		}
		if cond != nil {
			st = e.walkExpr(st, cond)
		}
		st = e.reapDead(st, blockEndPos(f.block))

		switch {
		case cond != nil:
			for i, succ := range f.block.Succs {
				taken := i == 0
				branch := st.fork()
				branch = e.transfer(branch, func(ctx tracker.Context) {
					e.track.OnBranch(cond, taken, ctx)
				})
				branch, feasible := e.assume(branch, cond, taken)
				if !feasible {
					e.paths++
					continue
				}
				stack = append(stack, &frame{block: succ, state: branch, visits: copyVisits(f.visits)})
			}
		case len(f.block.Succs) == 0:
			e.paths++
		case len(f.block.Succs) == 1:
			stack = append(stack, &frame{block: f.block.Succs[0], state: st, visits: f.visits})
		default:
			// Non-conditional multi-way successors (e.g. select) fork
			// without branch events.
			for _, succ := range f.block.Succs {
				stack = append(stack, &frame{block: succ, state: st.fork(), visits: copyVisits(f.visits)})
			}
		}
	}
}

// stepNode issues the tracker events of one CFG node in program order.
func (e *engine) stepNode(st *pathState, n ast.Node) *pathState {
	switch s := n.(type) {
	case *ast.AssignStmt:
		for _, rhs := range s.Rhs {
			st = e.walkExpr(st, rhs)
		}
		for _, lhs := range s.Lhs {
			// A store through *p, p.f or p[i] is itself an access.
			if _, ok := lhs.(*ast.Ident); !ok {
				st = e.walkExpr(st, lhs)
			}
		}
		if len(s.Lhs) == len(s.Rhs) {
			for i := range s.Lhs {
				st = e.bind(st, s.Lhs[i], s.Rhs[i])
			}
		}
	case *ast.ValueSpec:
		for _, v := range s.Values {
			st = e.walkExpr(st, v)
		}
		if len(s.Names) == len(s.Values) {
			for i := range s.Names {
				st = e.bind(st, s.Names[i], s.Values[i])
			}
		}
	case *ast.DeclStmt:
		if gen, ok := s.Decl.(*ast.GenDecl); ok {
			for _, spec := range gen.Specs {
				if vs, ok := spec.(*ast.ValueSpec); ok {
					st = e.stepNode(st, vs)
				}
			}
		}
	case *ast.ExprStmt:
		st = e.walkExpr(st, s.X)
	case *ast.ReturnStmt:
		for _, r := range s.Results {
			st = e.walkExpr(st, r)
		}
	case *ast.IncDecStmt:
		st = e.walkExpr(st, s.X)
	case *ast.SendStmt:
		st = e.walkExpr(st, s.Chan)
		st = e.walkExpr(st, s.Value)
	case *ast.GoStmt:
		st = e.walkExpr(st, s.Call)
	case *ast.DeferStmt:
		st = e.walkExpr(st, s.Call)
	case ast.Expr:
		st = e.walkExpr(st, s)
	}
	return st
}

// walkExpr issues call-return and access events for every recognized site
// inside expr, in evaluation order.
func (e *engine) walkExpr(st *pathState, expr ast.Expr) *pathState {
	switch x := expr.(type) {
	case *ast.ParenExpr:
		return e.walkExpr(st, x.X)
	case *ast.UnaryExpr:
		return e.walkExpr(st, x.X)
	case *ast.BinaryExpr:
		st = e.walkExpr(st, x.X)
		return e.walkExpr(st, x.Y)
	case *ast.CallExpr:
		st = e.walkExpr(st, x.Fun)
		for _, arg := range x.Args {
			st = e.walkExpr(st, arg)
		}
		return e.transfer(st, func(ctx tracker.Context) {
			e.track.OnCallReturn(x, ctx)
		})
	case *ast.StarExpr:
		st = e.walkExpr(st, x.X)
		return e.access(st, x.X, x)
	case *ast.SelectorExpr:
		st = e.walkExpr(st, x.X)
		return e.access(st, x.X, x)
	case *ast.IndexExpr:
		st = e.walkExpr(st, x.X)
		st = e.walkExpr(st, x.Index)
		return e.access(st, x.X, x)
	case *ast.SliceExpr:
		st = e.walkExpr(st, x.X)
		for _, idx := range []ast.Expr{x.Low, x.High, x.Max} {
			if idx != nil {
				st = e.walkExpr(st, idx)
			}
		}
		return e.access(st, x.X, x)
	case *ast.TypeAssertExpr:
		return e.walkExpr(st, x.X)
	case *ast.CompositeLit:
		for _, elt := range x.Elts {
			st = e.walkExpr(st, elt)
		}
	case *ast.KeyValueExpr:
		st = e.walkExpr(st, x.Key)
		return e.walkExpr(st, x.Value)
	}
	// Identifiers, literals and function literals carry no events. Function
	// literal bodies get their own CFG when declared as named functions.
	return st
}

func (e *engine) access(st *pathState, base ast.Expr, site ast.Node) *pathState {
	return e.transfer(st, func(ctx tracker.Context) {
		e.track.OnAccess(base, site, ctx)
	})
}

// bind issues the assignment transfer for one destination/source pair.
// Stores to non-pointer destinations are soft misses and stay silent.
func (e *engine) bind(st *pathState, lhs, rhs ast.Expr) *pathState {
	if util.IsLiteral(lhs, "_") {
		return st
	}
	if !util.TypeIsPointerLike(e.pass.TypesInfo.TypeOf(lhs)) {
		return st
	}
	dst := e.resolve(lhs)
	if dst == nil {
		return st
	}
	return e.transfer(st, func(ctx tracker.Context) {
		e.track.OnAssign(dst, astutil.Unparen(rhs), ctx)
	})
}

// reapDead hands the locations that died before pos to the reclamation
// transfer, once per path step.
func (e *engine) reapDead(st *pathState, pos token.Pos) *pathState {
	if !pos.IsValid() || st.facts.Len() == 0 {
		return st
	}
	dead := make(map[nullness.Location]bool)
	st.facts.OrderedRange(func(loc nullness.Location, _ nullness.Fact) bool {
		if e.isDeadAt(loc, pos) {
			dead[loc] = true
		}
		return true
	})
	if len(dead) == 0 {
		return st
	}
	return e.transfer(st, func(ctx tracker.Context) {
		e.track.OnSymbolsDead(dead, ctx)
	})
}

func blockEndPos(b *cfg.Block) token.Pos {
	var pos token.Pos
	for _, n := range b.Nodes {
		if n.End() > pos {
			pos = n.End()
		}
	}
	return pos
}
