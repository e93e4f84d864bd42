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

// nodegen.go
// The recursive builder: top-down construction of interior/leaf nodes,
// dispatched to a work-stealing task group one subtree at a time.
package bsp

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// headNodeMargin inflates the scene bounds before the head node's volume
// brush is built, giving every split along the outermost faces a little
// slack. Not exposed as a config key - the external contract's Options
// don't name one, so this stays a package constant, same as the
// teacher's various fixed tuning numbers that never made it to the CLI.
const headNodeMargin = 64.0

// Node is either an interior split or a leaf. Exactly one of the two
// field groups is meaningful at any time, selected by IsLeaf.
type Node struct {
	IsLeaf bool

	// Interior-only.
	PlaneIndex      int32
	Children        [2]*Node
	DetailSeparator bool

	// Leaf-only.
	Contents        Contents
	OriginalBrushes []*Brush

	Bounds AABB
	Volume *Brush
	Parent *Node
}

// nodeArena owns every Node allocated during a build; New and Count both
// take the mutex, and New is called concurrently by sibling subtree tasks.
type nodeArena struct {
	mu    sync.Mutex
	nodes []*Node
}

func newNodeArena() *nodeArena {
	return &nodeArena{}
}

func (a *nodeArena) New() *Node {
	n := &Node{}
	a.mu.Lock()
	a.nodes = append(a.nodes, n)
	a.mu.Unlock()
	return n
}

func (a *nodeArena) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.nodes)
}

// Tree is the finished BSP: a head node plus the arena that owns every
// node reachable from it.
type Tree struct {
	HeadNode *Node
	Bounds   AABB
	arena    *nodeArena
}

// NodeCount reports how many nodes (interior and leaf) the tree holds.
func (t *Tree) NodeCount() int {
	return t.arena.Count()
}

// BuildTree is this package's one library entry point: given a plane
// registry already populated with every plane the brushes reference, a
// brush list and the scene bounds, it runs the chopper, builds the head
// node's bounding volume, and recurses to a finished tree. It returns the
// tree alongside the ContentStats game accumulated along the way.
func BuildTree(reg *PlaneRegistry, brushes []*Brush, bounds AABB, cfg Config, game GameSpec) (*Tree, ContentStats) {
	stats := &Stats{}
	globalStats = stats

	disjoint := ChopBrushes(brushes, reg, cfg, game)

	arena := newNodeArena()
	head := arena.New()
	head.Bounds = bounds
	head.Volume = NewBrushFromBounds(reg, bounds.Inflate(headNodeMargin), nil, cfg)

	contentStats := game.CreateContentStats()
	root := NewTaskLogger()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		buildTreeRecursive(head, disjoint, len(disjoint), reg, cfg, game, nil, arena, stats, contentStats, root)
	}()
	wg.Wait()

	root.Flush()
	stats.PrintStats("BuildTree")
	game.PrintContentStats(contentStats, "BuildTree")

	return &Tree{HeadNode: head, Bounds: bounds, arena: arena}, contentStats
}

// buildTreeRecursive turns node into either a leaf or an interior split,
// recursing into both children concurrently via an errgroup when it
// splits. The parent blocks on both children before returning, per the
// work-stealing join described in the concurrency model.
func buildTreeRecursive(node *Node, brushes []*Brush, totalBrushes int, reg *PlaneRegistry, cfg Config, game GameSpec, ancestors []int32, arena *nodeArena, stats *Stats, contentStats ContentStats, logger *TaskLogger) {
	planenum, detailSeparator, viaMidsplit, ok := SelectSplitPlane(brushes, totalBrushes, reg, node.Bounds, cfg, game, nil, ancestors)
	if !ok {
		makeLeaf(node, brushes, game, stats, contentStats)
		logger.Printf("leaf: %d brushes, contents=%v", len(brushes), node.Contents)
		return
	}
	logger.Printf("split: plane=%d brushes=%d midsplit=%v detail=%v", planenum, len(brushes), viaMidsplit, detailSeparator)
	if viaMidsplit {
		stats.incMidSplit()
	}
	if detailSeparator {
		stats.incDetailSplit()
	}
	stats.incInterior()

	node.PlaneIndex = planenum
	node.DetailSeparator = detailSeparator

	frontBrushes, backBrushes := splitBrushList(brushes, reg, planenum, cfg)

	plane := reg.GetPositive(planenum)
	if planenum&1 != 0 {
		plane = plane.Flip()
	}
	frontBounds, backBounds := DivideBounds(node.Bounds, plane)

	var frontVolume, backVolume *Brush
	if node.Volume != nil {
		frontVolume, backVolume = SplitBrush(node.Volume, reg, planenum, cfg)
	}
	node.Volume = nil

	front := arena.New()
	front.Bounds = frontBounds
	front.Volume = frontVolume
	front.Parent = node

	back := arena.New()
	back.Bounds = backBounds
	back.Volume = backVolume
	back.Parent = node

	node.Children[0] = front
	node.Children[1] = back

	frontAncestors := withAncestor(ancestors, planenum)
	backAncestors := withAncestor(ancestors, planenum)

	frontLogger, backLogger := NewTaskLogger(), NewTaskLogger()

	var g errgroup.Group
	g.Go(func() error {
		buildTreeRecursive(front, frontBrushes, totalBrushes, reg, cfg, game, frontAncestors, arena, stats, contentStats, frontLogger)
		return nil
	})
	g.Go(func() error {
		buildTreeRecursive(back, backBrushes, totalBrushes, reg, cfg, game, backAncestors, arena, stats, contentStats, backLogger)
		return nil
	})
	_ = g.Wait()

	frontLogger.MergeInto(logger)
	backLogger.MergeInto(logger)
}

func withAncestor(ancestors []int32, planenum int32) []int32 {
	out := make([]int32, len(ancestors)+1)
	copy(out, ancestors)
	out[len(ancestors)] = planenum &^ 1
	return out
}

// splitBrushList partitions brushes into the front and back child lists
// using each brush's splitSide, cached by the SelectSplitPlane call that
// just ran against this same plane. A BOTH brush is cut with SplitBrush;
// a FACING brush has its matching side(s) marked onnode and is assigned
// to whichever half its classification also carries; anything else
// passes through unchanged (ownership transfers to the child, no copy).
func splitBrushList(brushes []*Brush, reg *PlaneRegistry, planenum int32, cfg Config) (front, back []*Brush) {
	for _, b := range brushes {
		side := b.splitSide

		if side&SideFacing != 0 {
			for _, s := range b.Sides {
				if s.PlaneIndex&^1 == planenum {
					s.Flags |= SideOnNode
				}
			}
		}

		switch {
		case side == SideBoth:
			f, bk := SplitBrush(b, reg, planenum, cfg)
			if f != nil {
				front = append(front, f)
			}
			if bk != nil {
				back = append(back, bk)
			}
		case side&SideFront != 0:
			front = append(front, b)
		case side&SideBack != 0:
			back = append(back, b)
		}
	}
	return front, back
}

// makeLeaf finalises node as a leaf: its contents is the repeated
// CombineContents fold over brushes, empty list folding to
// CreateEmptyContents.
func makeLeaf(node *Node, brushes []*Brush, game GameSpec, stats *Stats, contentStats ContentStats) {
	node.IsLeaf = true
	node.OriginalBrushes = brushes

	contents := game.CreateEmptyContents()
	for _, b := range brushes {
		contents = game.CombineContents(contents, b.Contents)
	}
	node.Contents = contents
	game.CountContentsInStats(contents, contentStats)

	stats.incLeaves()
}
