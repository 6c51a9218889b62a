package model

import (
	"fmt"
	"math"
)

// TreeNode is one node of a regression tree in flat array form. Internal
// nodes route on Feature <= Threshold; leaves carry the prediction in Value
// and set both children to -1.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a single regression tree rooted at node 0.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// IsLeaf reports whether the node has no children.
func (n TreeNode) IsLeaf() bool { return n.Left < 0 && n.Right < 0 }

// Validate checks node indices and feature references against inputDim.
func (t Tree) Validate(inputDim int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	for i, n := range t.Nodes {
		if n.IsLeaf() {
			continue
		}
		if n.Left < 0 || n.Left >= len(t.Nodes) || n.Right < 0 || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d references child out of range", i)
		}
		if n.Left <= i || n.Right <= i {
			return fmt.Errorf("node %d references a non-descendant child", i)
		}
		if n.Feature < 0 || n.Feature >= inputDim {
			return fmt.Errorf("node %d splits on feature %d, input has %d", i, n.Feature, inputDim)
		}
	}
	return nil
}

// Predict walks the tree for one feature vector.
func (t Tree) Predict(in []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.IsLeaf() {
			return n.Value
		}
		if in[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Ensemble is a gradient-boosted collection of regression trees: prediction
// is the base score plus the sum of every tree's output.
type Ensemble struct {
	BaseScore float64 `json:"base_score"`
	Trees     []Tree  `json:"trees"`
}

// Validate checks every tree against inputDim.
func (e Ensemble) Validate(inputDim int) error {
	if len(e.Trees) == 0 {
		return fmt.Errorf("ensemble has no trees")
	}
	for i, t := range e.Trees {
		if err := t.Validate(inputDim); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

// Predict sums the ensemble over one feature vector.
func (e Ensemble) Predict(in []float64) (float64, error) {
	sum := e.BaseScore
	for _, t := range e.Trees {
		sum += t.Predict(in)
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0, fmt.Errorf("ensemble prediction is not finite")
	}
	return sum, nil
}
