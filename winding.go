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

// winding.go
package bsp

import (
	"math"

	"github.com/golang/geo/r3"
)

// Winding is an ordered, convex, planar polygon.
type Winding []r3.Vector

// BaseWindingForPlane builds an oversized square centred on the plane's
// projection of the origin, oriented so the polygon's normal matches the
// plane's. Callers clip it down against a brush's other sides to obtain
// that side's actual face.
func BaseWindingForPlane(p Plane) Winding {
	var vup r3.Vector
	ax, ay, az := math.Abs(p.Normal.X), math.Abs(p.Normal.Y), math.Abs(p.Normal.Z)
	if az >= ax && az >= ay {
		vup = r3.Vector{Y: 1}
	} else {
		vup = r3.Vector{Z: 1}
	}
	vup = vup.Sub(p.Normal.Mul(vup.Dot(p.Normal)))
	vup = vup.Normalize()

	org := p.Normal.Mul(p.Dist)
	vright := vup.Cross(p.Normal)

	vup = vup.Mul(BogusRange)
	vright = vright.Mul(BogusRange)

	w := make(Winding, 4)
	w[0] = org.Sub(vright).Add(vup)
	w[1] = org.Add(vright).Add(vup)
	w[2] = org.Add(vright).Sub(vup)
	w[3] = org.Sub(vright).Sub(vup)
	return w
}

const (
	sideFrontMark int8 = 1
	sideBackMark  int8 = -1
	sideOnMark    int8 = 0
)

// Clip splits w against plane, returning the pieces on the front and back
// half-spaces. A vertex within epsilon of the plane is kept on both
// pieces. Either return value may be nil: if w lies entirely on one side,
// the other return value is the untouched input (same backing array).
func (w Winding) Clip(plane Plane, epsilon float64) (front, back Winding) {
	n := len(w)
	if n == 0 {
		return nil, nil
	}
	dists := make([]float64, n+1)
	sides := make([]int8, n+1)
	var counts [3]int

	for i, v := range w {
		d := plane.DistanceTo(v)
		dists[i] = d
		switch {
		case d > epsilon:
			sides[i] = sideFrontMark
			counts[0]++
		case d < -epsilon:
			sides[i] = sideBackMark
			counts[1]++
		default:
			sides[i] = sideOnMark
			counts[2]++
		}
	}
	dists[n] = dists[0]
	sides[n] = sides[0]

	if counts[0] == 0 {
		return nil, w
	}
	if counts[1] == 0 {
		return w, nil
	}

	for i := 0; i < n; i++ {
		p1 := w[i]
		switch sides[i] {
		case sideOnMark:
			front = append(front, p1)
			back = append(back, p1)
		case sideFrontMark:
			front = append(front, p1)
		default:
			back = append(back, p1)
		}

		if sides[i+1] == sideOnMark || sides[i+1] == sides[i] {
			continue
		}

		p2 := w[(i+1)%n]
		frac := dists[i] / (dists[i] - dists[i+1])
		mid := r3.Vector{
			X: p1.X + frac*(p2.X-p1.X),
			Y: p1.Y + frac*(p2.Y-p1.Y),
			Z: p1.Z + frac*(p2.Z-p1.Z),
		}
		front = append(front, mid)
		back = append(back, mid)
	}
	return front, back
}

// Flip reverses vertex order, and thus the winding's implied normal.
func (w Winding) Flip() Winding {
	n := len(w)
	out := make(Winding, n)
	for i, v := range w {
		out[n-1-i] = v
	}
	return out
}

func (w Winding) Area() float64 {
	if len(w) < 3 {
		return 0
	}
	var total r3.Vector
	for i := 1; i < len(w)-1; i++ {
		e1 := w[i].Sub(w[0])
		e2 := w[i+1].Sub(w[0])
		total = total.Add(e1.Cross(e2))
	}
	return 0.5 * total.Norm()
}

func (w Winding) Bounds() AABB {
	b := EmptyAABB()
	for _, v := range w {
		b.Extend(v)
	}
	return b
}

// WindingIsTiny reports whether w has at most two edges longer than the
// snap threshold - such a sliver would collapse under downstream vertex
// snapping and isn't worth keeping as a genuine face.
func WindingIsTiny(w Winding) bool {
	const edgeThreshold = 0.2
	edges := 0
	n := len(w)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		l := w[j].Sub(w[i]).Norm()
		if l > edgeThreshold {
			edges++
			if edges == 3 {
				return false
			}
		}
	}
	return true
}

// WindingIsHuge reports whether any vertex of w falls outside worldExtent.
func WindingIsHuge(w Winding, worldExtent float64) bool {
	for _, v := range w {
		if math.Abs(v.X) > worldExtent || math.Abs(v.Y) > worldExtent || math.Abs(v.Z) > worldExtent {
			return true
		}
	}
	return false
}
