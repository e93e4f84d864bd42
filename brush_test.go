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

package bsp

import (
	"testing"

	"github.com/golang/geo/r3"
)

func cubeAABB(lo, hi float64) AABB {
	return NewAABB(r3.Vector{X: lo, Y: lo, Z: lo}, r3.Vector{X: hi, Y: hi, Z: hi})
}

func TestNewBrushFromBoundsHasSixSides(t *testing.T) {
	reg := NewPlaneRegistry()
	b := NewBrushFromBounds(reg, cubeAABB(0, 64), contentSolid, DefaultConfig())
	if len(b.Sides) != 6 {
		t.Fatalf("expected 6 sides for an axial cube, got %d", len(b.Sides))
	}
	for _, s := range b.Sides {
		if len(s.Winding) < 3 {
			t.Fatalf("side has degenerate winding: %v", s.Winding)
		}
	}
}

func TestNewBrushFromBoundsRecomputedBounds(t *testing.T) {
	reg := NewPlaneRegistry()
	box := cubeAABB(0, 64)
	b := NewBrushFromBounds(reg, box, contentSolid, DefaultConfig())
	if !vecClose(b.Bounds.Mins, box.Mins) || !vecClose(b.Bounds.Maxs, box.Maxs) {
		t.Fatalf("brush bounds %v do not match input box %v", b.Bounds, box)
	}
}

func TestBrushVolumeOfCube(t *testing.T) {
	reg := NewPlaneRegistry()
	b := NewBrushFromBounds(reg, cubeAABB(0, 4), contentSolid, DefaultConfig())
	if v := b.Volume(); abs(v-64) > 1e-6 {
		t.Fatalf("expected volume 64, got %f", v)
	}
}

func TestBrushCopyIsDeep(t *testing.T) {
	reg := NewPlaneRegistry()
	b := NewBrushFromBounds(reg, cubeAABB(0, 4), contentSolid, DefaultConfig())
	cp := b.Copy()
	cp.Sides[0].Winding[0].X = 999
	if b.Sides[0].Winding[0].X == 999 {
		t.Fatalf("Copy should not alias the original's winding storage")
	}
}

func TestOriginalOfFollowsChain(t *testing.T) {
	root := &Brush{}
	child := &Brush{Original: root}
	if originalOf(child) != root {
		t.Fatalf("expected originalOf(child) to return root")
	}
	if originalOf(root) != root {
		t.Fatalf("expected originalOf(root) to return root itself")
	}
}
