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

// classify walks down from the tree's head node to whichever leaf contains
// pt, following the same front/back convention buildTreeRecursive used to
// assign children.
func classify(tree *Tree, reg *PlaneRegistry, pt r3.Vector) *Node {
	n := tree.HeadNode
	for !n.IsLeaf {
		plane := reg.Get(n.PlaneIndex)
		if plane.DistanceTo(pt) >= 0 {
			n = n.Children[0]
		} else {
			n = n.Children[1]
		}
	}
	return n
}

// walkLeaves visits every leaf reachable from the tree's head node.
func walkLeaves(n *Node, visit func(*Node)) {
	if n.IsLeaf {
		visit(n)
		return
	}
	walkLeaves(n.Children[0], visit)
	walkLeaves(n.Children[1], visit)
}

func TestBuildTreeSingleCube(t *testing.T) {
	reg := NewPlaneRegistry()
	cfg := DefaultConfig()
	game := newTestGameSpec()
	cube := NewBrushFromBounds(reg, cubeAABB(0, 64), contentSolid, DefaultConfig())
	bounds := cubeAABB(-512, 512)

	tree, _ := BuildTree(reg, []*Brush{cube}, bounds, cfg, game)

	inside := classify(tree, reg, r3.Vector{X: 32, Y: 32, Z: 32})
	if flagOf(inside.Contents) != contentSolid {
		t.Fatalf("expected the cube's interior to classify solid, got %v", inside.Contents)
	}

	outside := classify(tree, reg, r3.Vector{X: -256, Y: -256, Z: -256})
	if flagOf(outside.Contents) != contentEmpty {
		t.Fatalf("expected a point far outside the cube to classify empty, got %v", outside.Contents)
	}
}

func TestBuildTreeTwoDisjointCubes(t *testing.T) {
	reg := NewPlaneRegistry()
	cfg := DefaultConfig()
	game := newTestGameSpec()
	a := NewBrushFromBounds(reg, cubeAABB(0, 64), contentSolid, DefaultConfig())
	b := NewBrushFromBounds(reg, cubeAABB(256, 320), contentSolid, DefaultConfig())
	bounds := cubeAABB(-512, 512)

	tree, _ := BuildTree(reg, []*Brush{a, b}, bounds, cfg, game)

	for _, pt := range []r3.Vector{{X: 32, Y: 32, Z: 32}, {X: 288, Y: 288, Z: 288}} {
		leaf := classify(tree, reg, pt)
		if flagOf(leaf.Contents) != contentSolid {
			t.Fatalf("expected %v to classify solid, got %v", pt, leaf.Contents)
		}
	}
	far := classify(tree, reg, r3.Vector{X: -256, Y: -256, Z: -256})
	if flagOf(far.Contents) != contentEmpty {
		t.Fatalf("expected a point away from both cubes to classify empty, got %v", far.Contents)
	}
}

func TestBuildTreeOverlappingCubesSameContentMerge(t *testing.T) {
	reg := NewPlaneRegistry()
	cfg := DefaultConfig()
	game := newTestGameSpec()
	a := NewBrushFromBounds(reg, cubeAABB(0, 64), contentSolid, DefaultConfig())
	b := NewBrushFromBounds(reg, cubeAABB(32, 96), contentSolid, DefaultConfig())
	bounds := cubeAABB(-512, 512)

	tree, _ := BuildTree(reg, []*Brush{a, b}, bounds, cfg, game)

	for _, pt := range []r3.Vector{{X: 16, Y: 16, Z: 16}, {X: 48, Y: 48, Z: 48}, {X: 80, Y: 80, Z: 80}} {
		leaf := classify(tree, reg, pt)
		if flagOf(leaf.Contents) != contentSolid {
			t.Fatalf("expected the whole union of overlapping cubes to classify solid, %v got %v", pt, leaf.Contents)
		}
	}
}

func TestBuildTreeDetailInsideStructuralDoesNotHollowOut(t *testing.T) {
	reg := NewPlaneRegistry()
	cfg := DefaultConfig()
	game := newTestGameSpec()
	structural := NewBrushFromBounds(reg, cubeAABB(0, 128), contentSolid, DefaultConfig())
	detail := NewBrushFromBounds(reg, cubeAABB(16, 48), contentDetailSolid, DefaultConfig())
	bounds := cubeAABB(-512, 512)

	tree, _ := BuildTree(reg, []*Brush{structural, detail}, bounds, cfg, game)

	for _, pt := range []r3.Vector{{X: 32, Y: 32, Z: 32}, {X: 100, Y: 100, Z: 100}} {
		leaf := classify(tree, reg, pt)
		if flagOf(leaf.Contents) != contentSolid {
			t.Fatalf("expected the structural cube's full extent, including the detail brush's region, to stay solid, %v got %v", pt, leaf.Contents)
		}
	}
	outside := classify(tree, reg, r3.Vector{X: -256, Y: -256, Z: -256})
	if flagOf(outside.Contents) != contentEmpty {
		t.Fatalf("expected a point outside the structural cube to classify empty, got %v", outside.Contents)
	}
}

func TestBuildTreeEmptyEntityIsOneLeaf(t *testing.T) {
	reg := NewPlaneRegistry()
	cfg := DefaultConfig()
	game := newTestGameSpec()
	bounds := cubeAABB(-64, 64)

	tree, _ := BuildTree(reg, nil, bounds, cfg, game)

	if !tree.HeadNode.IsLeaf {
		t.Fatalf("expected an empty brush list to produce a degenerate single-leaf tree")
	}
	if flagOf(tree.HeadNode.Contents) != contentEmpty {
		t.Fatalf("expected the lone leaf's contents to be empty, got %v", tree.HeadNode.Contents)
	}
	if tree.NodeCount() != 1 {
		t.Fatalf("expected exactly one node in the tree, got %d", tree.NodeCount())
	}
}

func TestBuildTreeMidsplitTriggersOnOversizedBounds(t *testing.T) {
	reg := NewPlaneRegistry()
	cfg := DefaultConfig()
	cfg.MaxNodeSize = 512
	game := newTestGameSpec()
	cube := NewBrushFromBounds(reg, cubeAABB(0, 32), contentSolid, DefaultConfig())
	bounds := cubeAABB(-1024, 1024)

	tree, _ := BuildTree(reg, []*Brush{cube}, bounds, cfg, game)

	if tree.HeadNode.IsLeaf {
		t.Fatalf("expected bounds far larger than MaxNodeSize to force at least one split")
	}
	if tree.NodeCount() < 3 {
		t.Fatalf("expected midsplit recursion to produce more than one interior node, got %d nodes", tree.NodeCount())
	}

	inside := classify(tree, reg, r3.Vector{X: 16, Y: 16, Z: 16})
	if flagOf(inside.Contents) != contentSolid {
		t.Fatalf("expected the cube's interior to still classify solid after midsplit, got %v", inside.Contents)
	}
}

func TestBuildTreeLeafBoundsOverlapAssignedBrushesOnX(t *testing.T) {
	reg := NewPlaneRegistry()
	cfg := DefaultConfig()
	game := newTestGameSpec()
	a := NewBrushFromBounds(reg, cubeAABB(0, 64), contentSolid, DefaultConfig())
	b := NewBrushFromBounds(reg, cubeAABB(96, 160), contentSolid, DefaultConfig())
	bounds := cubeAABB(-512, 512)

	tree, _ := BuildTree(reg, []*Brush{a, b}, bounds, cfg, game)

	var leaves []*Node
	walkLeaves(tree.HeadNode, func(n *Node) { leaves = append(leaves, n) })
	if len(leaves) == 0 {
		t.Fatalf("expected at least one leaf")
	}
	for _, leaf := range leaves {
		for _, brush := range leaf.OriginalBrushes {
			if flagOf(brush.Contents) == contentEmpty {
				continue
			}
			if leaf.Bounds.Min(0) > brush.Bounds.Max(0) || leaf.Bounds.Max(0) < brush.Bounds.Min(0) {
				t.Fatalf("leaf bounds %v do not overlap assigned brush bounds %v on X", leaf.Bounds, brush.Bounds)
			}
		}
	}
}
