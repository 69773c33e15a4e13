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
	"go/token"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/squirelabs/nulltrack/nullness"
)

// The constraint oracle. Every branch taken along a path contributes leaf
// conclusions of the form "location is null" or "location is non-null",
// derived by decomposing the condition: a conjunction pins both operands
// under its true arm, a disjunction pins both under its false arm, a
// negation flips the arm, and a comparison against the null literal is a
// leaf. This is strictly stronger than the tracker's shallow branch
// heuristic (it sees through `p != nil && q != nil`), which makes it the
// authoritative fallback at access sites.

// nullVerdicts reports each leaf conclusion that taking arm `taken` of cond
// justifies.
func nullVerdicts(
	cond ast.Expr,
	taken bool,
	resolve func(ast.Expr) nullness.Location,
	isNullConst func(ast.Expr) bool,
	out func(loc nullness.Location, isNull bool),
) {
	cond = astutil.Unparen(cond)
	switch x := cond.(type) {
	case *ast.UnaryExpr:
		if x.Op == token.NOT {
			nullVerdicts(x.X, !taken, resolve, isNullConst, out)
		}
	case *ast.BinaryExpr:
		switch x.Op {
		case token.LAND:
			if taken {
				nullVerdicts(x.X, true, resolve, isNullConst, out)
				nullVerdicts(x.Y, true, resolve, isNullConst, out)
			}
		case token.LOR:
			if !taken {
				nullVerdicts(x.X, false, resolve, isNullConst, out)
				nullVerdicts(x.Y, false, resolve, isNullConst, out)
			}
		default:
			nullCompareVerdict(x, taken, resolve, isNullConst, out)
		}
	}
}

func nullCompareVerdict(
	cmp *ast.BinaryExpr,
	taken bool,
	resolve func(ast.Expr) nullness.Location,
	isNullConst func(ast.Expr) bool,
	out func(loc nullness.Location, isNull bool),
) {
	var nullWhenTrue bool
	switch cmp.Op {
	case token.EQL, token.LEQ, token.LSS:
		nullWhenTrue = true
	case token.NEQ, token.GTR, token.GEQ:
		nullWhenTrue = false
	default:
		return
	}

	x, y := astutil.Unparen(cmp.X), astutil.Unparen(cmp.Y)
	var operand ast.Expr
	switch {
	case isNullConst(y) && !isNullConst(x):
		operand = x
	case isNullConst(x) && !isNullConst(y):
		operand = y
	default:
		return
	}
	loc := resolve(operand)
	if loc == nil {
		return
	}
	out(loc.Base(), taken == nullWhenTrue)
}

// assume folds the conclusions of taking arm `taken` of cond into the path
// state (which must be a private fork) and reports whether the path is still
// feasible: a location assumed both null and non-null is a contradiction and
// the arm is unreachable.
func (e *engine) assume(st *pathState, cond ast.Expr, taken bool) (*pathState, bool) {
	feasible := true
	ctx := &stepContext{e: e, st: st}
	nullVerdicts(cond, taken, e.resolve, ctx.IsNullConstant, func(loc nullness.Location, isNull bool) {
		if isNull {
			st.assumedNull[loc] = true
		} else {
			st.assumedNonNull[loc] = true
		}
		if st.assumedNull[loc] && st.assumedNonNull[loc] {
			feasible = false
		}
	})
	return st, feasible
}
