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

import "sync"

// contentFlag is the smallest possible stand-in for a target game's real
// content bitmask: solid, detail-solid, or empty. It's boxed into
// Contents (an any) exactly the way a real caller's richer type would be.
type contentFlag int

const (
	contentEmpty contentFlag = iota
	contentSolid
	contentDetailSolid
)

func asContents(f contentFlag) Contents { return f }

func flagOf(c Contents) contentFlag {
	if c == nil {
		return contentEmpty
	}
	return c.(contentFlag)
}

// testGameSpec is the minimal GameSpec every test in this package builds
// trees against: solid beats empty, detail-solid counts as both solid and
// detail.
type testGameSpec struct {
	mu    sync.Mutex
	leafs map[contentFlag]int
}

func newTestGameSpec() *testGameSpec {
	return &testGameSpec{leafs: make(map[contentFlag]int)}
}

func (g *testGameSpec) CreateEmptyContents() Contents { return contentEmpty }

func (g *testGameSpec) CombineContents(a, b Contents) Contents {
	fa, fb := flagOf(a), flagOf(b)
	if fa == contentSolid || fb == contentSolid {
		return contentSolid
	}
	if fa == contentDetailSolid || fb == contentDetailSolid {
		return contentDetailSolid
	}
	return contentEmpty
}

func (g *testGameSpec) IsAnyDetail(contents Contents) bool {
	return flagOf(contents) == contentDetailSolid
}

func (g *testGameSpec) IsSolid(contents Contents) bool {
	f := flagOf(contents)
	return f == contentSolid || f == contentDetailSolid
}

func (g *testGameSpec) CreateContentStats() ContentStats { return g }

func (g *testGameSpec) CountContentsInStats(contents Contents, stats ContentStats) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.leafs[flagOf(contents)]++
}

func (g *testGameSpec) PrintContentStats(stats ContentStats, label string) {}
