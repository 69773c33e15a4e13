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
)

// lastUses records, for every variable mentioned in body, the end position
// of its last syntactic use. Past that position the variable is symbolically
// dead and its facts are handed to the reclamation transfer. The positions
// are maxima over the whole body, so a loop that re-reads a variable keeps
// it live through every iteration.
func lastUses(body *ast.BlockStmt, info *types.Info) map[types.Object]token.Pos {
	uses := make(map[types.Object]token.Pos)
	ast.Inspect(body, func(n ast.Node) bool {
		ident, ok := n.(*ast.Ident)
		if !ok {
			return true
		}
		obj := info.ObjectOf(ident)
		if obj == nil {
			return true
		}
		if _, ok := obj.(*types.Var); ok && ident.End() > uses[obj] {
			uses[obj] = ident.End()
		}
		return true
	})
	return uses
}
