package artifact

import (
	"fmt"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/estimator"
)

const (
	scalerStandard = "standard"
	scalerMinMax   = "minmax"

	typeLogisticRegression = "logistic_regression"
	typeDecisionTree       = "decision_tree"
	typeRandomForest       = "random_forest"
)

// scalerFile follows the fitted-attribute names of the training library:
// standard is (x-mean)/scale, minmax is x*scale+min.
type scalerFile struct {
	Kind  string    `json:"kind"`
	Mean  []float64 `json:"mean,omitempty"`
	Min   []float64 `json:"min,omitempty"`
	Scale []float64 `json:"scale"`
}

func (f scalerFile) build() (estimator.Scaler, error) {
	switch f.Kind {
	case scalerStandard:
		return estimator.NewStandardScaler(f.Mean, f.Scale)
	case scalerMinMax:
		return estimator.NewMinMaxScaler(f.Min, f.Scale)
	default:
		return nil, fmt.Errorf("unknown scaler kind %q", f.Kind)
	}
}

type nodeFile struct {
	Feature   int        `json:"feature"`
	Threshold float64    `json:"threshold"`
	Left      int        `json:"left"`
	Right     int        `json:"right"`
	Value     [2]float64 `json:"value"`
}

// modelFile is the envelope shared by every model type. Only the fields of
// the named type are read.
type modelFile struct {
	Type      string       `json:"type"`
	NFeatures int          `json:"n_features"`
	Coef      []float64    `json:"coef,omitempty"`
	Intercept *float64     `json:"intercept,omitempty"`
	Nodes     []nodeFile   `json:"nodes,omitempty"`
	Trees     [][]nodeFile `json:"trees,omitempty"`
}

func (f modelFile) build() (estimator.Classifier, error) {
	if f.NFeatures <= 0 {
		return nil, fmt.Errorf("n_features must be positive, got %d", f.NFeatures)
	}
	switch f.Type {
	case typeLogisticRegression:
		if f.Intercept == nil {
			return nil, fmt.Errorf("logistic regression has no intercept")
		}
		if len(f.Coef) != f.NFeatures {
			return nil, fmt.Errorf("%d coefficients for %d features", len(f.Coef), f.NFeatures)
		}
		return estimator.NewLogisticRegression(f.Coef, *f.Intercept)
	case typeDecisionTree:
		return estimator.NewDecisionTree(f.NFeatures, treeNodes(f.Nodes))
	case typeRandomForest:
		if len(f.Trees) == 0 {
			return nil, fmt.Errorf("random forest has no trees")
		}
		trees := make([]*estimator.DecisionTree, 0, len(f.Trees))
		for i, nodes := range f.Trees {
			t, err := estimator.NewDecisionTree(f.NFeatures, treeNodes(nodes))
			if err != nil {
				return nil, fmt.Errorf("tree %d: %w", i, err)
			}
			trees = append(trees, t)
		}
		return estimator.NewRandomForest(trees)
	default:
		return nil, fmt.Errorf("unknown model type %q", f.Type)
	}
}

func treeNodes(in []nodeFile) []estimator.TreeNode {
	out := make([]estimator.TreeNode, len(in))
	for i, n := range in {
		out[i] = estimator.TreeNode{Feature: n.Feature, Threshold: n.Threshold, Left: n.Left, Right: n.Right, Value: n.Value}
	}
	return out
}
