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

// chopbrushes.go
// Pre-processing an intersecting brush set into a disjoint cover, before
// the builder ever sees it, by iterated subtract-and-retry.
package bsp

// BrushGE reports whether b1 "bites" b2 under the chopper's priority
// relation: detail brushes never bite a non-detail brush, and only a
// solid brush bites anything at all.
func BrushGE(b1, b2 *Brush, game GameSpec) bool {
	if game.IsAnyDetail(b1.Contents) && !game.IsAnyDetail(b2.Contents) {
		return false
	}
	return game.IsSolid(b1.Contents)
}

func boundsOverlap(a, b AABB) bool {
	return a.Mins.X <= b.Maxs.X && a.Maxs.X >= b.Mins.X &&
		a.Mins.Y <= b.Maxs.Y && a.Maxs.Y >= b.Mins.Y &&
		a.Mins.Z <= b.Maxs.Z && a.Maxs.Z >= b.Mins.Z
}

// BrushesDisjoint is a cheap sufficient (not necessary) disjointness
// test: bounds miss entirely, or the two brushes each carry a side on
// opposite faces of some plane - which puts all of one brush's volume on
// the far side of a plane that bounds all of the other's.
func BrushesDisjoint(a, b *Brush) bool {
	if !boundsOverlap(a.Bounds, b.Bounds) {
		return true
	}
	for _, sa := range a.Sides {
		for _, sb := range b.Sides {
			if sa.PlaneIndex == sb.PlaneIndex^1 {
				return true
			}
		}
	}
	return false
}

// SubtractBrush computes a-b: the part(s) of a lying outside b. It walks
// b's sides in order, at each step splitting whatever remains of a by
// that side's plane and keeping the outside (front) piece; the inside
// (back) piece carries into the next side. If a side ever produces no
// inside piece at all, a never actually intersected b and the original,
// untouched a is returned as the sole result.
func SubtractBrush(a, b *Brush, reg *PlaneRegistry, cfg Config) []*Brush {
	remaining := a
	var outside []*Brush

	for _, s := range b.Sides {
		if remaining == nil {
			break
		}
		front, back := SplitBrush(remaining, reg, s.PlaneIndex, cfg)
		if back == nil {
			return []*Brush{a}
		}
		if front != nil {
			outside = append(outside, front)
		}
		remaining = back
	}
	return outside
}

// ChopBrushes restructures brushes into a disjoint cover: while any pair
// still intersects and one side's priority brush can subtract the other
// down to a strictly smaller fragment count, it does so and restarts the
// scan from the top. Pairs that would both fragment into more than one
// piece are left alone (anti-explosion guard) rather than chopped.
func ChopBrushes(brushes []*Brush, reg *PlaneRegistry, cfg Config, game GameSpec) []*Brush {
	list := append([]*Brush(nil), brushes...)

	for {
		changed := false
		for i := 0; i < len(list) && !changed; i++ {
			for j := 0; j < len(list) && !changed; j++ {
				if i == j {
					continue
				}
				a, b := list[i], list[j]
				if BrushesDisjoint(a, b) {
					continue
				}

				bBitesA := BrushGE(b, a, game)
				aBitesB := BrushGE(a, b, game)
				if !bBitesA && !aBitesB {
					continue
				}

				var sub, sub2 []*Brush
				if bBitesA {
					sub = SubtractBrush(a, b, reg, cfg)
				}
				if aBitesB {
					sub2 = SubtractBrush(b, a, reg, cfg)
				}

				// A detail brush wholly engulfed by a non-detail biter keeps
				// its own identity rather than vanishing: detail geometry is
				// still owed to whatever consumes the tree's leaves, even
				// when it contributes nothing to the structural cover.
				aDetailSwallowed := game.IsAnyDetail(a.Contents) && !game.IsAnyDetail(b.Contents)
				bDetailSwallowed := game.IsAnyDetail(b.Contents) && !game.IsAnyDetail(a.Contents)

				switch {
				case bBitesA && len(sub) == 0 && aDetailSwallowed:
					// leave both brushes as they are.
				case aBitesB && len(sub2) == 0 && bDetailSwallowed:
					// leave both brushes as they are.
				case bBitesA && len(sub) == 0:
					list = removeAt(list, i)
					changed = true
				case aBitesB && len(sub2) == 0:
					list = removeAt(list, j)
					changed = true
				case bBitesA && aBitesB && len(sub) > 1 && len(sub2) > 1:
					// both fragment: anti-explosion opt-out, leave as-is.
				case bBitesA && (!aBitesB || len(sub) <= len(sub2)):
					list = replaceAt(list, i, sub)
					changed = true
				case aBitesB:
					list = replaceAt(list, j, sub2)
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return list
}

func removeAt(list []*Brush, idx int) []*Brush {
	out := make([]*Brush, 0, len(list)-1)
	out = append(out, list[:idx]...)
	out = append(out, list[idx+1:]...)
	return out
}

func replaceAt(list []*Brush, idx int, replacement []*Brush) []*Brush {
	out := make([]*Brush, 0, len(list)-1+len(replacement))
	out = append(out, list[:idx]...)
	out = append(out, replacement...)
	out = append(out, list[idx+1:]...)
	return out
}
