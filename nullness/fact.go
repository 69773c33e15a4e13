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

// Package nullness defines the nullability lattice and the path-local fact
// store that the tracker threads through the host engine's path snapshots. A
// location with no entry in the store is in the implicit Unknown state; the
// remaining states are encoded as flags so that Reported can ride along with
// MaybeNull.
package nullness

import "strings"

// Fact is the nullability knowledge recorded for one storage location.
type Fact uint8

const (
	// MaybeNull marks a value that may be null and has not been checked yet.
	MaybeNull Fact = 1 << iota

	// NonNull marks a value narrowed to non-null by a dominating branch.
	// Terminal for reporting purposes.
	NonNull

	// Reported marks a MaybeNull location that has already produced a
	// diagnostic on this path, suppressing further reports for it.
	Reported
)

// IsMaybeNull reports whether the MaybeNull flag is set.
func (f Fact) IsMaybeNull() bool { return f&MaybeNull != 0 }

// IsNonNull reports whether the NonNull flag is set.
func (f Fact) IsNonNull() bool { return f&NonNull != 0 }

// IsReported reports whether the Reported flag is set.
func (f Fact) IsReported() bool { return f&Reported != 0 }

func (f Fact) String() string {
	if f == 0 {
		return "unknown"
	}
	var parts []string
	if f.IsMaybeNull() {
		parts = append(parts, "maybenull")
	}
	if f.IsNonNull() {
		parts = append(parts, "nonnull")
	}
	if f.IsReported() {
		parts = append(parts, "reported")
	}
	return strings.Join(parts, "|")
}
