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

package tracker

import (
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/ast/astutil"
)

// condShape is the closed set of branch condition shapes the tracker
// recognizes. Anything else is shapeOther and always a no-op.
type condShape uint8

const (
	shapeOther condShape = iota
	// shapeNegation is a logical negation of a pointer-valued operand: !x.
	shapeNegation
	// shapeNullCompare is a comparison with exactly one null-literal side:
	// x == null, x != null, and the relational spellings.
	shapeNullCompare
	// shapeBareValue is a pointer-valued expression used directly as the
	// condition: if (x).
	shapeBareValue
)

// recognizeCond classifies cond into one of the recognized null-test shapes,
// in priority order. It returns the tested operand and whether the true arm
// of the branch implies the operand is non-null.
//
// The relational comparisons against the null literal (<, <=, >, >=) are
// folded into the equality forms: pointer ordering against null carries no
// meaning in the modeled domain, so `p <= null` tests exactly what
// `p == null` tests.
func recognizeCond(cond ast.Expr, ctx Context) (shape condShape, operand ast.Expr, trueImpliesNonNull bool) {
	cond = astutil.Unparen(cond)

	if unary, ok := cond.(*ast.UnaryExpr); ok && unary.Op == token.NOT {
		inner := astutil.Unparen(unary.X)
		if ctx.Resolve(inner) != nil {
			// !x: true means null.
			return shapeNegation, inner, false
		}
		return shapeOther, nil, false
	}

	if binary, ok := cond.(*ast.BinaryExpr); ok {
		nullImplied, recognized := compareTrueImpliesNull(binary.Op)
		if !recognized {
			return shapeOther, nil, false
		}
		x, y := astutil.Unparen(binary.X), astutil.Unparen(binary.Y)
		switch {
		case ctx.IsNullConstant(y) && !ctx.IsNullConstant(x):
			return shapeNullCompare, x, !nullImplied
		case ctx.IsNullConstant(x) && !ctx.IsNullConstant(y):
			return shapeNullCompare, y, !nullImplied
		}
		return shapeOther, nil, false
	}

	if ctx.Resolve(cond) != nil {
		// if (x): true means non-null.
		return shapeBareValue, cond, true
	}
	return shapeOther, nil, false
}

// compareTrueImpliesNull maps a comparison operator against the null literal
// to whether its true outcome implies the operand is null. The ok result is
// false for operators outside the recognized set.
func compareTrueImpliesNull(op token.Token) (nullImplied, ok bool) {
	switch op {
	case token.EQL, token.LEQ, token.LSS:
		return true, true
	case token.NEQ, token.GTR, token.GEQ:
		return false, true
	default:
		return false, false
	}
}

// asFieldRead returns src as a member access if it is one, unwrapping
// parentheses, and nil otherwise.
func asFieldRead(src ast.Expr) *ast.SelectorExpr {
	sel, _ := astutil.Unparen(src).(*ast.SelectorExpr)
	return sel
}
