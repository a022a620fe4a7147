package estimator

import (
	"fmt"
	"math"
)

// LeafNode marks a missing child.
const LeafNode = -1

// TreeNode is one node of a flattened binary tree. Internal nodes route
// x[Feature] <= Threshold to Left and everything else to Right. Leaves have
// both children set to LeafNode and carry per-class weights in Value.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     [2]float64
}

func (n TreeNode) isLeaf() bool { return n.Left == LeafNode }

// DecisionTree is a CART classification tree.
type DecisionTree struct {
	numFeatures int
	nodes       []TreeNode
	// leafProba[i] holds the normalized distribution of leaf i.
	leafProba map[int][2]float64
}

// NewDecisionTree validates the node table. Children must come after their
// parent, which rules out cycles.
func NewDecisionTree(numFeatures int, nodes []TreeNode) (*DecisionTree, error) {
	if numFeatures <= 0 {
		return nil, fmt.Errorf("%w: tree width must be positive", ErrInvalidEstimator)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: tree has no nodes", ErrInvalidEstimator)
	}

	t := &DecisionTree{
		numFeatures: numFeatures,
		nodes:       append([]TreeNode(nil), nodes...),
		leafProba:   make(map[int][2]float64),
	}
	for i, n := range t.nodes {
		if n.isLeaf() {
			if n.Right != LeafNode {
				return nil, fmt.Errorf("%w: node %d has only one child", ErrInvalidEstimator, i)
			}
			total := n.Value[0] + n.Value[1]
			if n.Value[0] < 0 || n.Value[1] < 0 || total <= 0 || math.IsInf(total, 0) || math.IsNaN(total) {
				return nil, fmt.Errorf("%w: leaf %d has invalid class weights %v", ErrInvalidEstimator, i, n.Value)
			}
			t.leafProba[i] = [2]float64{n.Value[0] / total, n.Value[1] / total}
			continue
		}
		if n.Feature < 0 || n.Feature >= numFeatures {
			return nil, fmt.Errorf("%w: node %d splits on feature %d of %d", ErrInvalidEstimator, i, n.Feature, numFeatures)
		}
		if math.IsNaN(n.Threshold) {
			return nil, fmt.Errorf("%w: node %d has NaN threshold", ErrInvalidEstimator, i)
		}
		for _, c := range []int{n.Left, n.Right} {
			if c <= i || c >= len(t.nodes) {
				return nil, fmt.Errorf("%w: node %d has child %d out of order", ErrInvalidEstimator, i, c)
			}
		}
	}
	return t, nil
}

func (t *DecisionTree) Kind() string     { return "decision_tree" }
func (t *DecisionTree) NumFeatures() int { return t.numFeatures }

// Nodes returns a copy of the node table.
func (t *DecisionTree) Nodes() []TreeNode { return append([]TreeNode(nil), t.nodes...) }

func (t *DecisionTree) leaf(x []float64) ([2]float64, error) {
	if err := checkWidth(len(x), t.numFeatures); err != nil {
		return [2]float64{}, err
	}
	i := 0
	for !t.nodes[i].isLeaf() {
		n := t.nodes[i]
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.leafProba[i], nil
}

func (t *DecisionTree) PredictProba(x []float64) ([]float64, error) {
	p, err := t.leaf(x)
	if err != nil {
		return nil, err
	}
	return []float64{p[0], p[1]}, nil
}

func (t *DecisionTree) PredictLabel(x []float64) (int, error) {
	p, err := t.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return argmax2(p), nil
}

// RandomForest averages the class distributions of its trees.
type RandomForest struct {
	trees []*DecisionTree
}

func NewRandomForest(trees []*DecisionTree) (*RandomForest, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: forest has no trees", ErrInvalidEstimator)
	}
	width := trees[0].NumFeatures()
	for i, tr := range trees {
		if tr == nil {
			return nil, fmt.Errorf("%w: tree %d is nil", ErrInvalidEstimator, i)
		}
		if tr.NumFeatures() != width {
			return nil, fmt.Errorf("%w: tree %d has width %d, tree 0 has %d", ErrDimensionMismatch, i, tr.NumFeatures(), width)
		}
	}
	return &RandomForest{trees: append([]*DecisionTree(nil), trees...)}, nil
}

func (f *RandomForest) Kind() string     { return "random_forest" }
func (f *RandomForest) NumFeatures() int { return f.trees[0].NumFeatures() }
func (f *RandomForest) NumTrees() int    { return len(f.trees) }

// Trees returns the member trees.
func (f *RandomForest) Trees() []*DecisionTree { return append([]*DecisionTree(nil), f.trees...) }

func (f *RandomForest) PredictProba(x []float64) ([]float64, error) {
	var sum [2]float64
	for i, tr := range f.trees {
		p, err := tr.leaf(x)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		sum[0] += p[0]
		sum[1] += p[1]
	}
	n := float64(len(f.trees))
	return []float64{sum[0] / n, sum[1] / n}, nil
}

func (f *RandomForest) PredictLabel(x []float64) (int, error) {
	p, err := f.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return argmax2(p), nil
}
