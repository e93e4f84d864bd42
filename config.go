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

// config.go
// Injected configuration. Kept as a plain struct rather than the
// teacher's flag-parsed global ProgramConfig, since this package has no
// CLI of its own - a caller builds one of these directly.
package bsp

// Config holds the handful of tuning knobs the builder and splitter
// consult. Every field has a sensible default via DefaultConfig; callers
// normally start there and override only what they care about.
type Config struct {
	// WorldExtent is the maximum absolute coordinate any vertex may carry
	// before a half of a split is rejected as bogus.
	WorldExtent float64

	// MicroVolume is the minimum tetrahedral-decomposition volume a split
	// half must have to survive; smaller halves are dropped.
	MicroVolume float64

	// MaxNodeSize, when >= 64, enables size-based midsplit triggering:
	// any bounds axis wider than MaxNodeSize-Epsilon forces midsplit mode.
	MaxNodeSize float64

	// MidsplitBrushFraction, in [0,1], is the alternative midsplit
	// trigger: a node whose brush count exceeds this fraction of the
	// total brush count forces midsplit mode. Zero disables the trigger.
	MidsplitBrushFraction float64

	// Epsilon is subtracted from MaxNodeSize before the size comparison.
	Epsilon float64

	// OnEpsilon is passed to winding clipping throughout SplitBrush.
	OnEpsilon float64
}

// DefaultConfig returns the configuration the builder uses when a caller
// doesn't override a field: a generous world extent, a small positive
// microvolume so slivers get dropped without discarding legitimate small
// brushes, midsplit disabled by fraction and only triggered by node size
// once a node's bounds get unreasonably large.
func DefaultConfig() Config {
	return Config{
		WorldExtent:           1 << 20,
		MicroVolume:           1.0,
		MaxNodeSize:           1024,
		MidsplitBrushFraction: 0,
		Epsilon:               0.5,
		OnEpsilon:             DistEpsilon,
	}
}
