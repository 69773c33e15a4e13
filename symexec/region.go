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
	"go/types"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/squirelabs/nulltrack/nullness"
	"github.com/squirelabs/nulltrack/util"
)

// The engine's region algebra. Variables, call return values and pointees
// are base regions; field and element regions are derived and normalize to
// their innermost non-field/non-element ancestor. All region types are
// comparable values so they can key the fact store directly.

// varRegion is the storage of a named variable.
type varRegion struct {
	obj types.Object
}

func (r varRegion) Base() nullness.Location { return r }

// callRegion is the return value of one call expression, the engine's
// analog of a conjured symbol.
type callRegion struct {
	call *ast.CallExpr
}

func (r callRegion) Base() nullness.Location { return r }

// derefRegion is the pointee reached through a tracked pointer. A pointee
// is a distinct memory unit, so it is its own base.
type derefRegion struct {
	parent nullness.Location
}

func (r derefRegion) Base() nullness.Location { return r }

// fieldRegion is a field of a tracked region.
type fieldRegion struct {
	parent nullness.Location
	field  string
}

func (r fieldRegion) Base() nullness.Location { return r.parent.Base() }

// elemRegion is an element of a tracked region.
type elemRegion struct {
	parent nullness.Location
}

func (r elemRegion) Base() nullness.Location { return r.parent.Base() }

// resolve reduces an expression to a storage location, following base
// expressions through member, index, dereference and address-of chains. It
// returns nil for expressions that denote no trackable storage.
func (e *engine) resolve(expr ast.Expr) nullness.Location {
	expr = astutil.Unparen(expr)
	switch x := expr.(type) {
	case *ast.Ident:
		if v, ok := e.pass.TypesInfo.ObjectOf(x).(*types.Var); ok {
			return varRegion{obj: v}
		}
	case *ast.SelectorExpr:
		if parent := e.resolve(x.X); parent != nil {
			return fieldRegion{parent: parent, field: x.Sel.Name}
		}
	case *ast.IndexExpr:
		if parent := e.resolve(x.X); parent != nil {
			return elemRegion{parent: parent}
		}
	case *ast.StarExpr:
		if parent := e.resolve(x.X); parent != nil {
			return derefRegion{parent: parent}
		}
	case *ast.UnaryExpr:
		// &x denotes x's own storage.
		if x.Op == token.AND {
			return e.resolve(x.X)
		}
	case *ast.CallExpr:
		if util.TypeIsPointerLike(e.pass.TypesInfo.TypeOf(x)) {
			return callRegion{call: x}
		}
	}
	return nil
}

// isDeadAt reports whether a base region is symbolically dead at pos: its
// rooting variable (or call) has no syntactic use at or beyond pos.
func (e *engine) isDeadAt(loc nullness.Location, pos token.Pos) bool {
	switch r := loc.(type) {
	case varRegion:
		last, ok := e.lastUse[r.obj]
		return ok && last < pos
	case callRegion:
		return r.call.End() < pos
	case derefRegion:
		// A pointee stays live exactly as long as the pointer rooting it.
		return e.isDeadAt(r.parent.Base(), pos)
	case fieldRegion:
		return e.isDeadAt(r.parent.Base(), pos)
	case elemRegion:
		return e.isDeadAt(r.parent.Base(), pos)
	}
	return false
}
