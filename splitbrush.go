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

// splitbrush.go
// Classifying a brush against a candidate plane, and actually cutting one
// brush into its front and back halves.
package bsp

import "math"

// TestBrushToPlanenum classifies b against the plane named by planenum.
// Order of checks matters: a side that literally lies on the plane
// short-circuits everything else, then the cheap bounds test, and only
// when the bounds test is ambiguous (BOTH) do we walk vertices.
//
// wantSplits requests the per-vertex split-count pass; callers that only
// need FRONT/BACK/BOTH classification (the builder's list partition, for
// instance) can skip it.
func TestBrushToPlanenum(b *Brush, reg *PlaneRegistry, planenum int32, wantSplits bool) (side PlaneSide, numSplits int, hintSplit bool, epsilonBrush bool) {
	for _, s := range b.Sides {
		if s.PlaneIndex == planenum {
			return SideBack | SideFacing, 0, false, false
		}
		if s.PlaneIndex == planenum^1 {
			return SideFront | SideFacing, 0, false, false
		}
	}

	plane := reg.GetPositive(planenum)
	if planenum&1 != 0 {
		plane = plane.Flip()
	}

	bs := BoxOnPlaneSide(b.Bounds, plane)
	if bs != SideBoth {
		return bs, 0, false, false
	}
	if !wantSplits {
		return bs, 0, false, false
	}

	var sawNonSkip, sawHint bool
	dFront, dBack := math.Inf(-1), math.Inf(1)
	for _, s := range b.Sides {
		if s.Flags&SideVisible == 0 || s.Flags&SideOnNode != 0 {
			continue
		}
		if s.TexInfo != TexInfoSkip {
			sawNonSkip = true
		}
		if s.Flags&SideHint != 0 {
			sawHint = true
		}
		for _, v := range s.Winding {
			d := plane.DistanceTo(v)
			if d > dFront {
				dFront = d
			}
			if d < dBack {
				dBack = d
			}
		}
	}
	if dFront > ClassifyEpsilon && dBack < -ClassifyEpsilon {
		if sawNonSkip {
			numSplits++
		}
		if sawHint {
			hintSplit = true
		}
	}
	if (dFront > 0 && dFront < 1) || (dBack < 0 && dBack > -1) {
		epsilonBrush = true
		globalStats.incEpsilonBrush()
	}
	return bs, numSplits, hintSplit, epsilonBrush
}

// BrushMostlyOnSide decides which half a brush that failed to actually
// split against a plane belongs to: whichever side holds the vertex with
// the larger absolute distance.
func BrushMostlyOnSide(b *Brush, plane Plane) PlaneSide {
	best := 0.0
	side := SideFront
	for _, s := range b.Sides {
		for _, v := range s.Winding {
			d := plane.DistanceTo(v)
			if math.Abs(d) > best {
				best = math.Abs(d)
				if d < 0 {
					side = SideBack
				} else {
					side = SideFront
				}
			}
		}
	}
	return side
}

// globalStats is the Stats instance SplitBrush/TestBrushToPlanenum report
// non-fatal rejections into. BuildTree replaces it with a fresh Stats at
// the start of each compile and leaves it in place afterwards - the builder recursion never
// threads a Stats pointer through every call, matching the teacher's use
// of a single package-level counters block during a run.
var globalStats = &Stats{}

// SplitBrush cuts b by dividingPlane, returning its front and back
// halves. Either return may be nil when b lies (or ends up, after
// epsilon-driven adjustments) entirely on one side.
func SplitBrush(b *Brush, reg *PlaneRegistry, dividingPlane int32, cfg Config) (front, back *Brush) {
	plane := reg.GetPositive(dividingPlane)
	if dividingPlane&1 != 0 {
		plane = plane.Flip()
	}

	dFront, dBack := math.Inf(-1), math.Inf(1)
	for _, s := range b.Sides {
		for _, v := range s.Winding {
			d := plane.DistanceTo(v)
			if d > dFront {
				dFront = d
			}
			if d < dBack {
				dBack = d
			}
		}
	}
	if dFront < ClassifyEpsilon {
		return nil, b
	}
	if dBack > -ClassifyEpsilon {
		return b, nil
	}

	dividingFace := BaseWindingForPlane(plane)
	for _, s := range b.Sides {
		if len(dividingFace) == 0 {
			break
		}
		_, dividingFace = dividingFace.Clip(reg.Get(s.PlaneIndex), cfg.OnEpsilon)
	}
	if len(dividingFace) == 0 || WindingIsTiny(dividingFace) {
		switch BrushMostlyOnSide(b, plane) {
		case SideBack:
			return nil, b
		default:
			return b, nil
		}
	}
	if WindingIsHuge(dividingFace, cfg.WorldExtent) {
		Log.Warnf("SplitBrush: dividing winding has a vertex beyond world extent")
	}

	frontSides := make([]*Side, 0, len(b.Sides)+1)
	backSides := make([]*Side, 0, len(b.Sides)+1)
	for _, s := range b.Sides {
		if len(s.Winding) == 0 {
			continue
		}
		fw, bw := s.Winding.Clip(plane, cfg.OnEpsilon)
		if len(fw) > 0 {
			cp := s.Copy()
			cp.Winding = fw
			frontSides = append(frontSides, cp)
		}
		if len(bw) > 0 {
			cp := s.Copy()
			cp.Winding = bw
			backSides = append(backSides, cp)
		}
	}

	frontSides = append(frontSides, &Side{
		PlaneIndex: dividingPlane ^ 1,
		Winding:    dividingFace.Flip(),
		TexInfo:    TexInfoSkip,
		Flags:      SideOnNode,
	})
	backSides = append(backSides, &Side{
		PlaneIndex: dividingPlane,
		Winding:    dividingFace,
		TexInfo:    TexInfoSkip,
		Flags:      SideOnNode,
	})

	front = &Brush{Sides: frontSides, Contents: b.Contents, MapBrushRef: b.MapBrushRef, Original: originalOf(b)}
	back = &Brush{Sides: backSides, Contents: b.Contents, MapBrushRef: b.MapBrushRef, Original: originalOf(b)}
	front.RecomputeBounds()
	back.RecomputeBounds()

	frontOK := validSplitHalf(front, cfg)
	backOK := validSplitHalf(back, cfg)
	switch {
	case !frontOK && !backOK:
		globalStats.incBrushesRemoved()
		return nil, nil
	case !frontOK:
		return nil, b
	case !backOK:
		return b, nil
	}

	if front.Volume() < cfg.MicroVolume {
		globalStats.incTinyVolumes()
		frontOK = false
	}
	if back.Volume() < cfg.MicroVolume {
		globalStats.incTinyVolumes()
		backOK = false
	}
	switch {
	case !frontOK && !backOK:
		return nil, nil
	case !frontOK:
		return nil, back
	case !backOK:
		return front, nil
	}
	return front, back
}

func validSplitHalf(b *Brush, cfg Config) bool {
	if len(b.Sides) < 3 {
		return false
	}
	if math.Abs(b.Bounds.Mins.X) > cfg.WorldExtent || math.Abs(b.Bounds.Maxs.X) > cfg.WorldExtent {
		return false
	}
	if math.Abs(b.Bounds.Mins.Y) > cfg.WorldExtent || math.Abs(b.Bounds.Maxs.Y) > cfg.WorldExtent {
		return false
	}
	if math.Abs(b.Bounds.Mins.Z) > cfg.WorldExtent || math.Abs(b.Bounds.Maxs.Z) > cfg.WorldExtent {
		return false
	}
	return true
}
