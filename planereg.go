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

// planereg.go
// The plane registry: the one table every concurrent builder task inserts
// into, so it's the one place in this package that has to think hard about
// concurrent mutation (see "Concurrency tradeoffs" in DESIGN.md).
package bsp

import (
	"math"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/puzpuzpuz/xsync/v3"
)

// planeKey is a quantised (normal, dist) tuple: the spatial hash bucket a
// plane's add_or_find lookup starts from.
type planeKey struct {
	nx, ny, nz, d int64
}

const planeQuantScale = 1.0 / DistEpsilon

func quantize(v float64) int64 {
	return int64(math.Round(v * planeQuantScale))
}

func keyFor(normal r3.Vector, dist float64) planeKey {
	return planeKey{quantize(normal.X), quantize(normal.Y), quantize(normal.Z), quantize(dist)}
}

// registryStripes is the number of insertion-side lock stripes. Reads
// never take a stripe lock; only the check-then-insert race needs one.
const registryStripes = 256

// PlaneRegistry deduplicates oriented planes into a dense index space
// where a plane and its flip always occupy adjacent indices p, p^1 with p
// even. Bucket lookups run lock-free against the underlying xsync map;
// fetching a stored plane (Get/GetPositive, and every candidate that
// lookup compares against) takes mu. Inserts are serialised per quantisation bucket via a
// small stripe of mutexes, per the "sharded locks" guidance in the Design
// Notes.
type PlaneRegistry struct {
	buckets *xsync.MapOf[planeKey, []int32]
	stripes [registryStripes]sync.Mutex

	mu     sync.Mutex // guards planes; append-only
	planes []Plane
}

func NewPlaneRegistry() *PlaneRegistry {
	return &PlaneRegistry{
		buckets: xsync.NewMapOf[planeKey, []int32](),
	}
}

func (r *PlaneRegistry) stripeFor(k planeKey) *sync.Mutex {
	h := uint64(k.nx)*0x9E3779B97F4A7C15 ^
		uint64(k.ny)*0xC2B2AE3D27D4EB4F ^
		uint64(k.nz)*0x165667B19E3779F9 ^
		uint64(k.d)*0x27D4EB2F165667C5
	return &r.stripes[h%registryStripes]
}

// neighborKeys returns the 3^4 quantisation cells surrounding k, so that a
// plane whose exact quantised key falls just across a cell boundary from
// an equal-under-epsilon plane is still found.
func neighborKeys(k planeKey) []planeKey {
	keys := make([]planeKey, 0, 81)
	for dnx := int64(-1); dnx <= 1; dnx++ {
		for dny := int64(-1); dny <= 1; dny++ {
			for dnz := int64(-1); dnz <= 1; dnz++ {
				for dd := int64(-1); dd <= 1; dd++ {
					keys = append(keys, planeKey{k.nx + dnx, k.ny + dny, k.nz + dnz, k.d + dd})
				}
			}
		}
	}
	return keys
}

func planesEqual(a, b Plane) bool {
	if math.Abs(a.Normal.X-b.Normal.X) >= NormalEpsilon {
		return false
	}
	if math.Abs(a.Normal.Y-b.Normal.Y) >= NormalEpsilon {
		return false
	}
	if math.Abs(a.Normal.Z-b.Normal.Z) >= NormalEpsilon {
		return false
	}
	return math.Abs(a.Dist-b.Dist) < DistEpsilon
}

// AddOrFind returns p's index, inserting p and its flip at a fresh
// adjacent pair of indices if no equal plane (or equal flip) is
// registered yet. Concurrent calls for geometrically equal planes always
// agree on the returned index.
func (r *PlaneRegistry) AddOrFind(p Plane) int32 {
	key := keyFor(p.Normal, p.Dist)
	if idx, ok := r.lookup(key, p); ok {
		return idx
	}

	stripe := r.stripeFor(key)
	stripe.Lock()
	defer stripe.Unlock()

	// Someone else may have inserted this exact plane while we waited.
	if idx, ok := r.lookup(key, p); ok {
		return idx
	}

	flip := p.Flip()

	r.mu.Lock()
	idx := int32(len(r.planes))
	r.planes = append(r.planes, p, flip)
	r.mu.Unlock()

	r.addToBucket(key, idx)
	r.addToBucket(keyFor(flip.Normal, flip.Dist), idx+1)
	return idx
}

func (r *PlaneRegistry) lookup(key planeKey, p Plane) (int32, bool) {
	flip := p.Flip()
	for _, nk := range neighborKeys(key) {
		candidates, ok := r.buckets.Load(nk)
		if !ok {
			continue
		}
		for _, idx := range candidates {
			stored := r.rawGet(idx)
			if planesEqual(stored, p) {
				return idx, true
			}
			if planesEqual(stored, flip) {
				return idx ^ 1, true
			}
		}
	}
	return 0, false
}

func (r *PlaneRegistry) addToBucket(key planeKey, idx int32) {
	r.buckets.Compute(key, func(old []int32, loaded bool) ([]int32, bool) {
		if !loaded {
			return []int32{idx}, false
		}
		return append(old, idx), false
	})
}

func (r *PlaneRegistry) rawGet(idx int32) Plane {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.planes[idx]
}

// Get returns the plane stored at idx in its registered orientation.
func (r *PlaneRegistry) Get(idx int32) Plane {
	return r.rawGet(idx)
}

// GetPositive returns the plane at idx&^1: always the "positive" twin of a
// plane/flip pair, regardless of which twin idx names.
func (r *PlaneRegistry) GetPositive(idx int32) Plane {
	return r.rawGet(idx &^ 1)
}

func (r *PlaneRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.planes)
}
