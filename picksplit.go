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

// picksplit.go
// Choosing which plane divides a node: the midsplit fast path used near
// the top of a big tree or for oversized nodes, and the four-pass scored
// heuristic used everywhere else.
package bsp

import "math"

// DivideBounds splits bounds by plane into the sub-bounds its front and
// back halves would occupy. For an axial plane this is exact (one axis
// gets clamped to plane.Dist); for a non-axial plane it's an
// approximation along the plane's dominant axis, evaluated at the box
// centre - the two returned boxes may overlap, since no AABB pair can
// exactly represent a non-axial half-space split.
func DivideBounds(bounds AABB, plane Plane) (front, back AABB) {
	axis := plane.AxialAxis()
	nsign := axisComponent(plane.Normal, axis)

	// For an axial plane nsign is exactly +-1, and the axis value where
	// DistanceTo is zero is dist/nsign == dist*nsign; a negative-normal
	// plane's intersection sits at -dist, not dist.
	splitVal := plane.Dist * nsign
	if !plane.IsAxial() {
		center := bounds.Center()
		sumOther := plane.Normal.Dot(center) - nsign*axisComponent(center, axis)
		splitVal = (plane.Dist - sumOther) / nsign
		lo, hi := bounds.Min(axis), bounds.Max(axis)
		if splitVal < lo {
			splitVal = lo
		}
		if splitVal > hi {
			splitVal = hi
		}
	}

	front, back = bounds, bounds
	if nsign > 0 {
		front = front.WithMin(axis, splitVal)
		back = back.WithMax(axis, splitVal)
	} else {
		front = front.WithMax(axis, splitVal)
		back = back.WithMin(axis, splitVal)
	}
	return front, back
}

// decideMidsplit reports whether a node with numBrushes of totalBrushes
// and the given bounds should use midsplit mode rather than the
// heuristic chooser, per the two independent triggers in the external
// contract.
func decideMidsplit(cfg Config, numBrushes, totalBrushes int, bounds AABB) bool {
	if cfg.MidsplitBrushFraction > 0 && totalBrushes > 0 {
		if float64(numBrushes)/float64(totalBrushes) > cfg.MidsplitBrushFraction {
			return true
		}
	}
	if cfg.MaxNodeSize >= 64 {
		threshold := cfg.MaxNodeSize - cfg.Epsilon
		for axis := 0; axis < 3; axis++ {
			if bounds.Max(axis)-bounds.Min(axis) > threshold {
				return true
			}
		}
	}
	return false
}

// selectMidsplitPlane scores every non-bevel, non-onnode side's positive
// planenum by how evenly DivideBounds splits bounds, preferring axial
// planes on an exact tie.
func selectMidsplitPlane(brushes []*Brush, reg *PlaneRegistry, bounds AABB, cfg Config) (int32, bool) {
	seen := make(map[int32]bool)
	bestMetric := math.Inf(1)
	var bestPlane int32
	bestAxial := false
	found := false

	for _, b := range brushes {
		for _, s := range b.Sides {
			if s.Flags&SideBevel != 0 || s.Flags&SideOnNode != 0 {
				continue
			}
			pn := s.PlaneIndex &^ 1
			if seen[pn] {
				continue
			}
			seen[pn] = true

			plane := reg.Get(pn)
			fb, bb := DivideBounds(bounds, plane)
			if fb.Volume() < cfg.MicroVolume || bb.Volume() < cfg.MicroVolume {
				continue
			}

			metric := math.Abs(fb.Volume() - bb.Volume())
			axial := plane.IsAxial()
			better := !found ||
				metric < bestMetric ||
				(metric == bestMetric && axial && !bestAxial)
			if better {
				bestMetric, bestPlane, bestAxial, found = metric, pn, axial, true
			}
		}
	}
	if !found {
		return 0, false
	}
	classifyForBuild(brushes, reg, bestPlane)
	return bestPlane, true
}

// classifyForBuild runs TestBrushToPlanenum against the chosen plane for
// every brush and caches the result in each brush's splitSide, so the
// builder's list-partition step doesn't reclassify.
func classifyForBuild(brushes []*Brush, reg *PlaneRegistry, planenum int32) {
	for _, b := range brushes {
		side, _, _, _ := TestBrushToPlanenum(b, reg, planenum, false)
		b.splitSide = side
	}
}

var heuristicPasses = [4]struct {
	wantDetail  bool
	wantVisible bool
}{
	{wantDetail: false, wantVisible: true},
	{wantDetail: true, wantVisible: true},
	{wantDetail: false, wantVisible: false},
	{wantDetail: true, wantVisible: false},
}

// selectHeuristicPlane runs the four-pass search: visible/structural,
// visible/detail, non-visible/structural, non-visible/detail, in that
// order, stopping at the first pass that yields any valid candidate.
func selectHeuristicPlane(brushes []*Brush, reg *PlaneRegistry, bounds AABB, cfg Config, game GameSpec, ancestors map[int32]bool) (planenum int32, detailSeparator bool, ok bool) {
	for passIdx, pass := range heuristicPasses {
		bestValue := math.Inf(-1)
		var best int32
		found := false
		seen := make(map[int32]bool)

		for _, b := range brushes {
			isDetail := game.IsAnyDetail(b.Contents)
			if isDetail != pass.wantDetail {
				continue
			}
			for _, s := range b.Sides {
				if s.Flags&SideBevel != 0 || len(s.Winding) == 0 || s.Flags&SideOnNode != 0 {
					continue
				}
				if s.Flags&SideTested != 0 || s.Flags&SideHintSkip != 0 {
					continue
				}
				if (s.Flags&SideVisible != 0) != pass.wantVisible {
					continue
				}

				pn := s.PlaneIndex &^ 1
				if seen[pn] {
					continue
				}
				seen[pn] = true

				if ancestors[pn] {
					Log.Panicf("SelectSplitPlane: candidate plane %d already used by an ancestor node", pn)
				}

				plane := reg.Get(pn)
				fb, bb := DivideBounds(bounds, plane)
				if fb.Volume() < cfg.MicroVolume || bb.Volume() < cfg.MicroVolume {
					continue
				}

				value, _ := scoreCandidate(brushes, reg, pn, plane, s)
				if !found || value > bestValue {
					bestValue, best, found = value, pn, true
				}
			}
		}

		if found {
			classifyForBuild(brushes, reg, best)
			clearTestedFlags(brushes)
			return best, passIdx > 0, true
		}
	}
	clearTestedFlags(brushes)
	return 0, false, false
}

// scoreCandidate classifies every brush against planenum, tallying the
// value function from the external contract, and marks tested=true on
// every facing brush's matching sides as a side effect (so later
// candidates in this and future passes skip them).
func scoreCandidate(brushes []*Brush, reg *PlaneRegistry, planenum int32, plane Plane, candidateSide *Side) (value float64, hintTextured bool) {
	var front, back, facing, splits, epsilonBrush int
	anyHintSplit := false

	for _, b := range brushes {
		side, numSplits, hintSplit, eps := TestBrushToPlanenum(b, reg, planenum, true)
		if side&SideFacing != 0 && numSplits != 0 {
			Log.Panicf("SelectSplitPlane: brush classified FACING with nonzero splits against plane %d", planenum)
		}
		if eps {
			epsilonBrush++
		}
		switch {
		case side&SideFacing != 0:
			facing++
			for _, s := range b.Sides {
				if s.PlaneIndex&^1 == planenum {
					s.Flags |= SideTested
				}
			}
		case side == SideBoth:
			splits += numSplits
			if hintSplit {
				anyHintSplit = true
			}
		case side&SideFront != 0:
			front++
		case side&SideBack != 0:
			back++
		}
	}

	value = 5*float64(facing) - 5*float64(splits) - math.Abs(float64(front-back))
	if plane.IsAxial() {
		value += 5
	}
	value -= 1000 * float64(epsilonBrush)

	hintTextured = candidateSide.Flags&SideHint != 0
	if !hintTextured && anyHintSplit {
		value = math.Inf(-1)
	}
	return value, hintTextured
}

func clearTestedFlags(brushes []*Brush) {
	for _, b := range brushes {
		for _, s := range b.Sides {
			s.Flags &^= SideTested
		}
	}
}

func ancestorPositivePlanes(ancestors []int32) map[int32]bool {
	set := make(map[int32]bool, len(ancestors))
	for _, p := range ancestors {
		set[p&^1] = true
	}
	return set
}

// SelectSplitPlane is the single entry point buildTreeRecursive calls. It
// decides between midsplit and heuristic mode, delegates, and reports
// whether the winning split (heuristic mode only) crosses a
// detail/structural boundary.
func SelectSplitPlane(brushes []*Brush, totalBrushes int, reg *PlaneRegistry, bounds AABB, cfg Config, game GameSpec, forcedQuick *bool, ancestors []int32) (planenum int32, detailSeparator, viaMidsplit, ok bool) {
	useMidsplit := false
	if forcedQuick != nil {
		useMidsplit = *forcedQuick
	} else {
		useMidsplit = decideMidsplit(cfg, len(brushes), totalBrushes, bounds)
	}

	if useMidsplit {
		if pn, ok := selectMidsplitPlane(brushes, reg, bounds, cfg); ok {
			return pn, false, true, true
		}
	}
	pn, detail, ok := selectHeuristicPlane(brushes, reg, bounds, cfg, game, ancestorPositivePlanes(ancestors))
	return pn, detail, false, ok
}
