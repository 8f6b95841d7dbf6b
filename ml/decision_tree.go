package ml

import (
	"errors"
	"fmt"
)

// DecisionTree is a flat, pre-order list of nodes. Node 0 is the root and
// every child index points further down the list.
type DecisionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

type TreeNode struct {
	FeatureIdx  int     `json:"feature_idx"`
	Threshold   float64 `json:"threshold"`
	LeftChild   int     `json:"left_child"`
	RightChild  int     `json:"right_child"`
	IsLeaf      bool    `json:"is_leaf"`
	Probability float64 `json:"probability"`
}

func (dt *DecisionTree) Validate() error {
	if len(dt.Nodes) == 0 {
		return errors.New("decision tree has no nodes")
	}
	for i, node := range dt.Nodes {
		if node.IsLeaf {
			if err := checkProbability(node.Probability); err != nil {
				return fmt.Errorf("node %d: %w", i, err)
			}
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= FeatureCount {
			return fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}
		for _, child := range []int{node.LeftChild, node.RightChild} {
			if child <= i || child >= len(dt.Nodes) {
				return fmt.Errorf("node %d: invalid child index %d", i, child)
			}
		}
	}
	return nil
}

// PredictProba walks from the root; x[f] <= threshold goes left.
func (dt *DecisionTree) PredictProba(features []float64) (float64, error) {
	if len(dt.Nodes) == 0 {
		return 0, errors.New("decision tree has no nodes")
	}
	idx := 0
	for {
		node := dt.Nodes[idx]
		if node.IsLeaf {
			return node.Probability, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, fmt.Errorf("feature index %d out of range for %d features", node.FeatureIdx, len(features))
		}
		next := node.RightChild
		if features[node.FeatureIdx] <= node.Threshold {
			next = node.LeftChild
		}
		if next <= idx || next >= len(dt.Nodes) {
			return 0, errors.New("invalid tree state")
		}
		idx = next
	}
}

// RandomForest averages the positive-class probability of its trees.
type RandomForest struct {
	Trees []DecisionTree `json:"trees"`
}

func (rf *RandomForest) Validate() error {
	if len(rf.Trees) == 0 {
		return errors.New("random forest has no trees")
	}
	for i := range rf.Trees {
		if err := rf.Trees[i].Validate(); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func (rf *RandomForest) PredictProba(features []float64) (float64, error) {
	if len(rf.Trees) == 0 {
		return 0, errors.New("random forest has no trees")
	}
	sum := 0.0
	for i := range rf.Trees {
		p, err := rf.Trees[i].PredictProba(features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += p
	}
	return sum / float64(len(rf.Trees)), nil
}
