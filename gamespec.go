// Copyright (C) 2022-2025, VigilantDoomer
//
// This file is part of VigilantBSP program.
//
// VigilantBSP is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// VigilantBSP is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with VigilantBSP.  If not, see <https://www.gnu.org/licenses/>.

// gamespec.go
// The seam between this package's core (which only ever moves brushes and
// planes around) and a caller's notion of what a brush's contents mean.
// The core never inspects a Contents value directly - every decision that
// depends on what "solid" or "detail" means for a given target game goes
// through GameSpec.
package bsp

// Contents is an opaque per-brush classification supplied by the caller.
type Contents any

// ContentStats is an opaque per-tree accumulator a GameSpec may use to
// tally whatever it cares about as BuildTree runs. The core never reads
// it back; it only ever hands it to GameSpec's own callbacks.
type ContentStats any

// GameSpec is the caller-supplied policy for everything this package
// stays deliberately ignorant of.
type GameSpec interface {
	// CreateEmptyContents returns the Contents value a brushless leaf
	// (or the fold seed for CombineContents) should carry.
	CreateEmptyContents() Contents

	// CombineContents folds two brushes' Contents into the value a leaf
	// containing both should report.
	CombineContents(a, b Contents) Contents

	// IsAnyDetail reports whether contents marks a detail brush - one
	// that never bites a structural brush in ChopBrushes and whose
	// sides, in the heuristic chooser, are tried only after the structural
	// sides of the same visibility (visible detail still comes before
	// non-visible structural).
	IsAnyDetail(contents Contents) bool

	// IsSolid reports whether contents represents solid space, for
	// ChopBrushes' bite relation.
	IsSolid(contents Contents) bool

	// CreateContentStats returns a fresh accumulator BuildTree threads
	// through the build and returns to the caller.
	CreateContentStats() ContentStats

	// CountContentsInStats lets the GameSpec tally a finished leaf's
	// contents into stats.
	CountContentsInStats(contents Contents, stats ContentStats)

	// PrintContentStats logs whatever stats has accumulated, labelled.
	PrintContentStats(stats ContentStats, label string)
}
