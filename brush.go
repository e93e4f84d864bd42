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

// brush.go
package bsp

import (
	"math"

	"github.com/golang/geo/r3"
)

// SideFlags are the per-side bits named in the data model.
type SideFlags uint32

const (
	SideBevel SideFlags = 1 << iota
	SideOnNode
	SideTested
	SideVisible
	SideHint
	SideHintSkip
)

// TexInfoSkip marks a side that was synthesised by SplitBrush (the
// dividing face) rather than inherited from the map; it never carries a
// real texture reference.
const TexInfoSkip int32 = -1

// Side is one face of a Brush.
type Side struct {
	PlaneIndex int32
	Winding    Winding
	TexInfo    int32
	Flags      SideFlags
}

// Copy returns a deep copy - the winding gets its own backing array, so
// changing the copy's vertices never touches s.
func (s *Side) Copy() *Side {
	w := make(Winding, len(s.Winding))
	copy(w, s.Winding)
	cp := *s
	cp.Winding = w
	return &cp
}

// Brush is a convex polyhedron: the intersection of its sides' back
// half-spaces.
type Brush struct {
	Sides       []*Side
	Bounds      AABB
	Contents    Contents
	MapBrushRef interface{}
	// Original points at the pre-split, pre-chop ancestor brush this one
	// descends from. nil means this Brush *is* an original. Go's garbage
	// collector is what lets this be a plain shared pointer instead of the
	// reference-counted handle a non-GC'd implementation would need.
	Original *Brush

	// splitSide is set by SelectSplitPlane's classification pass and
	// consumed by the builder's splitBrushList immediately afterwards. It
	// is scratch space private to whichever task currently owns this
	// Brush - brushes are never shared across concurrent tasks, so this
	// never races.
	splitSide PlaneSide
}

func originalOf(b *Brush) *Brush {
	if b.Original != nil {
		return b.Original
	}
	return b
}

// NewBrushFromBounds builds the six-sided axial brush used for a node's
// sub-volume bookkeeping (and, inflated, the tree head node).
func NewBrushFromBounds(reg *PlaneRegistry, bounds AABB, contents Contents, cfg Config) *Brush {
	axes := [6]struct {
		normal r3.Vector
		dist   float64
	}{
		{r3.Vector{X: 1}, bounds.Maxs.X},
		{r3.Vector{X: -1}, -bounds.Mins.X},
		{r3.Vector{Y: 1}, bounds.Maxs.Y},
		{r3.Vector{Y: -1}, -bounds.Mins.Y},
		{r3.Vector{Z: 1}, bounds.Maxs.Z},
		{r3.Vector{Z: -1}, -bounds.Mins.Z},
	}

	var planeIdx [6]int32
	for i, a := range axes {
		planeIdx[i] = reg.AddOrFind(NewPlane(a.normal, a.dist))
	}

	b := &Brush{Contents: contents}
	for i := range axes {
		w := BaseWindingForPlane(reg.Get(planeIdx[i]))
		for j := range axes {
			if j == i || w == nil {
				continue
			}
			_, w = w.Clip(reg.Get(planeIdx[j]), cfg.OnEpsilon)
		}
		if w == nil {
			continue
		}
		b.Sides = append(b.Sides, &Side{
			PlaneIndex: planeIdx[i],
			Winding:    w,
			Flags:      SideVisible,
		})
	}
	b.RecomputeBounds()
	return b
}

// RecomputeBounds recomputes Bounds as the tight AABB of all side
// vertices, per the Brush invariant.
func (b *Brush) RecomputeBounds() {
	bb := EmptyAABB()
	for _, s := range b.Sides {
		for _, v := range s.Winding {
			bb.Extend(v)
		}
	}
	b.Bounds = bb
}

// Volume computes b's volume via tetrahedral decomposition from the first
// vertex found among its sides, triangle-fanning every other face against
// it.
func (b *Brush) Volume() float64 {
	var apex r3.Vector
	found := false
	for _, s := range b.Sides {
		if len(s.Winding) > 0 {
			apex = s.Winding[0]
			found = true
			break
		}
	}
	if !found {
		return 0
	}

	var vol float64
	for _, s := range b.Sides {
		w := s.Winding
		if len(w) < 3 {
			continue
		}
		for i := 1; i < len(w)-1; i++ {
			v0 := w[0].Sub(apex)
			v1 := w[i].Sub(apex)
			v2 := w[i+1].Sub(apex)
			vol += math.Abs(v0.Dot(v1.Cross(v2))) / 6.0
		}
	}
	return vol
}

// Copy deep-copies every side; Bounds, Contents, MapBrushRef and Original
// are plain value/pointer copies.
func (b *Brush) Copy() *Brush {
	cp := &Brush{
		Bounds:      b.Bounds,
		Contents:    b.Contents,
		MapBrushRef: b.MapBrushRef,
		Original:    b.Original,
	}
	cp.Sides = make([]*Side, len(b.Sides))
	for i, s := range b.Sides {
		cp.Sides[i] = s.Copy()
	}
	return cp
}
