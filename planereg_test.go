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
	"sync"
	"testing"

	"github.com/golang/geo/r3"
)

func TestPlaneRegistryAddOrFindIdempotent(t *testing.T) {
	reg := NewPlaneRegistry()
	p := NewPlane(r3.Vector{X: 1}, 64)
	i1 := reg.AddOrFind(p)
	i2 := reg.AddOrFind(p)
	if i1 != i2 {
		t.Fatalf("expected repeated insert of equal plane to return same index, got %d and %d", i1, i2)
	}
}

func TestPlaneRegistryFlipSharesAdjacentIndex(t *testing.T) {
	reg := NewPlaneRegistry()
	p := NewPlane(r3.Vector{X: 1}, 64)
	i := reg.AddOrFind(p)
	if i%2 != 0 {
		t.Fatalf("expected first insertion to land on an even index, got %d", i)
	}
	flipIdx := reg.AddOrFind(p.Flip())
	if flipIdx != i^1 {
		t.Fatalf("expected flip to occupy i^1 = %d, got %d", i^1, flipIdx)
	}
}

func TestPlaneRegistryGetPositive(t *testing.T) {
	reg := NewPlaneRegistry()
	p := NewPlane(r3.Vector{X: 0, Y: 1}, 30)
	i := reg.AddOrFind(p)
	flipIdx := reg.AddOrFind(p.Flip())
	if !vecClose(reg.GetPositive(flipIdx).Normal, reg.GetPositive(i).Normal) {
		t.Fatalf("GetPositive should agree for a plane and its flip")
	}
}

func TestPlaneRegistryConcurrentInsertsAgree(t *testing.T) {
	reg := NewPlaneRegistry()
	p := NewPlane(r3.Vector{X: 0, Y: 0, Z: 1}, 128)

	const goroutines = 32
	results := make([]int32, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			results[i] = reg.AddOrFind(p)
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if results[i] != results[0] {
			t.Fatalf("concurrent AddOrFind of equal plane disagreed: %d vs %d", results[0], results[i])
		}
	}
}

func TestPlaneRegistryEpsilonEquality(t *testing.T) {
	reg := NewPlaneRegistry()
	a := NewPlane(r3.Vector{X: 1}, 100)
	b := NewPlane(r3.Vector{X: 1}, 100+DistEpsilon/2)
	if reg.AddOrFind(a) != reg.AddOrFind(b) {
		t.Fatalf("planes within DistEpsilon should be considered equal")
	}
}

func TestPlaneRegistryDistinctPlanes(t *testing.T) {
	reg := NewPlaneRegistry()
	a := NewPlane(r3.Vector{X: 1}, 0)
	b := NewPlane(r3.Vector{Y: 1}, 0)
	if reg.AddOrFind(a) == reg.AddOrFind(b) {
		t.Fatalf("distinct planes must not collide")
	}
}
