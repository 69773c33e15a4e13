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

// Package util hosts AST and type helpers shared by the tracker and the
// reference engine.
package util

import (
	"go/ast"
	"go/types"
)

// CalleeIdent returns the identifier naming the callee of a call expression,
// resolving through selector calls (`pkg.f(...)` and `recv.m(...)` both yield
// the trailing identifier). It returns nil for anonymous callees such as
// immediately-invoked function literals.
func CalleeIdent(call *ast.CallExpr) *ast.Ident {
	switch fun := call.Fun.(type) {
	case *ast.Ident:
		return fun
	case *ast.SelectorExpr:
		return fun.Sel
	default:
		return nil
	}
}

// IsLiteral reports whether expr is a bare identifier matching one of the
// given literal spellings, e.g. `nil`.
func IsLiteral(expr ast.Expr, literals ...string) bool {
	if ident, ok := expr.(*ast.Ident); ok {
		for _, literal := range literals {
			if ident.Name == literal {
				return true
			}
		}
	}
	return false
}

// TypeIsPointerLike reports whether t is a pointer or unsafe.Pointer type,
// including transitively through Named and alias types.
func TypeIsPointerLike(t types.Type) bool {
	if t == nil {
		return false
	}
	switch u := t.(type) {
	case *types.Pointer:
		return true
	case *types.Basic:
		return u.Kind() == types.UnsafePointer
	case *types.Named:
		return TypeIsPointerLike(u.Underlying())
	case *types.Alias:
		return TypeIsPointerLike(types.Unalias(u))
	}
	return false
}
