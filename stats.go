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

// stats.go
// Per-compile counters. Every field is touched from concurrent builder
// tasks, so every increment goes through sync/atomic rather than a mutex -
// there are no ordering requirements between counters, only that each
// individual counter itself isn't lost to a race.
package bsp

import (
	"sync/atomic"
)

// Stats accumulates the non-fatal rejection counts the error-handling
// contract calls for, plus a few structural counters useful for
// diagnosing a build after the fact. Zero value is ready to use.
type Stats struct {
	BrushesRemoved int64 // SplitBrush dropped both halves
	TinyVolumes    int64 // a split half fell under MicroVolume
	EpsilonBrush   int64 // a near-grazing split candidate
	MidSplit       int64 // node resolved via midsplit mode
	DetailSplit    int64 // node's chosen split was detail-vs-structural
	Leaves         int64
	Interior       int64
}

func (s *Stats) incBrushesRemoved() { atomic.AddInt64(&s.BrushesRemoved, 1) }
func (s *Stats) incTinyVolumes()    { atomic.AddInt64(&s.TinyVolumes, 1) }
func (s *Stats) incEpsilonBrush()   { atomic.AddInt64(&s.EpsilonBrush, 1) }
func (s *Stats) incMidSplit()       { atomic.AddInt64(&s.MidSplit, 1) }
func (s *Stats) incDetailSplit()    { atomic.AddInt64(&s.DetailSplit, 1) }
func (s *Stats) incLeaves()         { atomic.AddInt64(&s.Leaves, 1) }
func (s *Stats) incInterior()       { atomic.AddInt64(&s.Interior, 1) }

// PrintStats logs a one-line summary at info level, mirroring the
// teacher's end-of-phase stat dump.
func (s *Stats) PrintStats(label string) {
	Log.WithFields(map[string]interface{}{
		"leaves":         atomic.LoadInt64(&s.Leaves),
		"interior":       atomic.LoadInt64(&s.Interior),
		"midsplit":       atomic.LoadInt64(&s.MidSplit),
		"detailSplit":    atomic.LoadInt64(&s.DetailSplit),
		"brushesRemoved": atomic.LoadInt64(&s.BrushesRemoved),
		"tinyVolumes":    atomic.LoadInt64(&s.TinyVolumes),
		"epsilonBrush":   atomic.LoadInt64(&s.EpsilonBrush),
	}).Infof("%s: done", label)
}
