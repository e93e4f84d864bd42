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

// geometry.go
// Geometry kernel: planes, epsilons, axis-aligned bounds and the
// box-vs-plane classifier that most other files build on.
package bsp

import (
	"math"

	"github.com/golang/geo/r3"
)

// Epsilon constants, per the external contract. Do not conflate these:
// each guards a different comparison and was tuned against a different
// failure mode upstream.
const (
	NormalEpsilon    = 1e-6  // normalisation and parallel-plane checks
	DistEpsilon      = 1e-4  // plane registry distance equality
	PlaneSideEpsilon = 0.001 // BoxOnPlaneSide slab thickness
	// ClassifyEpsilon is the coarser threshold used both by SplitBrush's
	// trivial-side test and by TestBrushToPlanenum's split-count pass.
	ClassifyEpsilon = 0.1
)

// BogusRange is the half-width of the oversized square BaseWindingForPlane
// starts from before it gets clipped down to a brush's actual face.
const BogusRange = 131072.0

// PlaneType classifies a plane's normal as axis-aligned or as merely
// having a dominant axis.
type PlaneType int

const (
	PlaneX PlaneType = iota
	PlaneY
	PlaneZ
	PlaneAnyX
	PlaneAnyY
	PlaneAnyZ
)

func classifyPlaneType(n r3.Vector) PlaneType {
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	switch {
	case ax > 1-NormalEpsilon && ay < NormalEpsilon && az < NormalEpsilon:
		return PlaneX
	case ay > 1-NormalEpsilon && ax < NormalEpsilon && az < NormalEpsilon:
		return PlaneY
	case az > 1-NormalEpsilon && ax < NormalEpsilon && ay < NormalEpsilon:
		return PlaneZ
	}
	switch {
	case ax >= ay && ax >= az:
		return PlaneAnyX
	case ay >= az:
		return PlaneAnyY
	default:
		return PlaneAnyZ
	}
}

// Plane is an oriented plane: points p with dot(normal, p) == dist lie on
// it, dot(normal,p) - dist > 0 is the front half-space.
type Plane struct {
	Normal r3.Vector
	Dist   float64
	Type   PlaneType
}

// NewPlane normalises normal and derives Type from it.
func NewPlane(normal r3.Vector, dist float64) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Dist: dist, Type: classifyPlaneType(n)}
}

// Flip returns the geometric opposite of p: same surface, opposite normal.
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Mul(-1), Dist: -p.Dist, Type: p.Type}
}

// DistanceTo is the signed distance of pt from p.
func (p Plane) DistanceTo(pt r3.Vector) float64 {
	return p.Normal.Dot(pt) - p.Dist
}

func (p Plane) IsAxial() bool {
	return p.Type == PlaneX || p.Type == PlaneY || p.Type == PlaneZ
}

// AxialAxis returns which of X/Y/Z (0/1/2) is p's dominant or exact axis.
// Only meaningful when p.Type isn't ambiguous, which is always true here
// since classifyPlaneType always picks exactly one axis.
func (p Plane) AxialAxis() int {
	switch p.Type {
	case PlaneX, PlaneAnyX:
		return 0
	case PlaneY, PlaneAnyY:
		return 1
	default:
		return 2
	}
}

func axisComponent(v r3.Vector, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func withAxisComponent(v r3.Vector, axis int, val float64) r3.Vector {
	switch axis {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
	return v
}

// PlaneSide is a bitmask: brushes and boxes classify against a plane as
// some combination of front/back, plus the FACING bit brush classification
// uses to mean "one of my sides *is* this plane".
type PlaneSide int

const (
	SideFront PlaneSide = 1 << iota
	SideBack
	SideFacing
)

const SideBoth = SideFront | SideBack

// AABB is an axis-aligned bounding box.
type AABB struct {
	Mins, Maxs r3.Vector
}

func EmptyAABB() AABB {
	return AABB{
		Mins: r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		Maxs: r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
}

func NewAABB(mins, maxs r3.Vector) AABB {
	return AABB{Mins: mins, Maxs: maxs}
}

func (b *AABB) Extend(v r3.Vector) {
	b.Mins = r3.Vector{X: math.Min(b.Mins.X, v.X), Y: math.Min(b.Mins.Y, v.Y), Z: math.Min(b.Mins.Z, v.Z)}
	b.Maxs = r3.Vector{X: math.Max(b.Maxs.X, v.X), Y: math.Max(b.Maxs.Y, v.Y), Z: math.Max(b.Maxs.Z, v.Z)}
}

func (b AABB) Union(o AABB) AABB {
	r := b
	r.Extend(o.Mins)
	r.Extend(o.Maxs)
	return r
}

func (b AABB) Inflate(margin float64) AABB {
	m := r3.Vector{X: margin, Y: margin, Z: margin}
	return AABB{Mins: b.Mins.Sub(m), Maxs: b.Maxs.Add(m)}
}

func (b AABB) Volume() float64 {
	d := b.Maxs.Sub(b.Mins)
	if d.X <= 0 || d.Y <= 0 || d.Z <= 0 {
		return 0
	}
	return d.X * d.Y * d.Z
}

func (b AABB) Center() r3.Vector {
	return b.Mins.Add(b.Maxs).Mul(0.5)
}

func (b AABB) Min(axis int) float64 { return axisComponent(b.Mins, axis) }
func (b AABB) Max(axis int) float64 { return axisComponent(b.Maxs, axis) }

func (b AABB) WithMin(axis int, v float64) AABB {
	b.Mins = withAxisComponent(b.Mins, axis, v)
	return b
}

func (b AABB) WithMax(axis int, v float64) AABB {
	b.Maxs = withAxisComponent(b.Maxs, axis, v)
	return b
}

// BoxOnPlaneSide classifies bounds against plane. For axial planes this is
// a single-axis compare against dist +/- PlaneSideEpsilon (mirrors id
// Software's original BoxOnPlaneSide); for non-axial planes it evaluates
// the two box corners whose projection onto normal is extremal.
func BoxOnPlaneSide(bounds AABB, plane Plane) PlaneSide {
	if plane.IsAxial() {
		axis := plane.AxialAxis()
		maxv := bounds.Max(axis)
		minv := bounds.Min(axis)
		nsign := axisComponent(plane.Normal, axis)

		var side PlaneSide
		if nsign > 0 {
			if maxv >= plane.Dist+PlaneSideEpsilon {
				side |= SideFront
			}
			if minv < plane.Dist-PlaneSideEpsilon {
				side |= SideBack
			}
		} else {
			if minv <= -plane.Dist-PlaneSideEpsilon {
				side |= SideFront
			}
			if maxv > -plane.Dist+PlaneSideEpsilon {
				side |= SideBack
			}
		}
		if side == 0 {
			side = SideFront
		}
		return side
	}

	var pMax, pMin r3.Vector
	for axis := 0; axis < 3; axis++ {
		n := axisComponent(plane.Normal, axis)
		if n >= 0 {
			pMax = withAxisComponent(pMax, axis, bounds.Max(axis))
			pMin = withAxisComponent(pMin, axis, bounds.Min(axis))
		} else {
			pMax = withAxisComponent(pMax, axis, bounds.Min(axis))
			pMin = withAxisComponent(pMin, axis, bounds.Max(axis))
		}
	}

	d1 := plane.DistanceTo(pMax)
	d2 := plane.DistanceTo(pMin)

	var side PlaneSide
	if d1 >= PlaneSideEpsilon {
		side |= SideFront
	}
	if d2 < -PlaneSideEpsilon {
		side |= SideBack
	}
	if side == 0 {
		side = SideFront
	}
	return side
}
