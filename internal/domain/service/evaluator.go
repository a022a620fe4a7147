package service

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/estimator"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/valueobject"
)

// LabeledDataset is a batch of encoded rows with their true labels.
type LabeledDataset struct {
	Records []feature.EncodedRecord
	Labels  []int
}

// ROCPoint is one operating point. A row counts as positive when its churn
// probability is at least Threshold.
type ROCPoint struct {
	FPR       float64 `json:"fpr"`
	TPR       float64 `json:"tpr"`
	Threshold float64 `json:"threshold"`
}

// ROCCurve runs from (0,0) to (1,1). It is undefined, with no points and a
// zero AUC, when the labels hold a single class.
type ROCCurve struct {
	Points []ROCPoint
	AUC    float64
}

func (c ROCCurve) Defined() bool { return len(c.Points) > 0 }

// ConfusionMatrix counts predicted against actual classes.
type ConfusionMatrix struct {
	TN, FP, FN, TP int
}

// Grid returns [[TN, FP], [FN, TP]]: rows are actual, columns predicted.
func (c ConfusionMatrix) Grid() [2][2]int {
	return [2][2]int{{c.TN, c.FP}, {c.FN, c.TP}}
}

func (c ConfusionMatrix) Total() int { return c.TN + c.FP + c.FN + c.TP }

func (c ConfusionMatrix) Accuracy() float64  { return ratio(c.TP+c.TN, c.Total()) }
func (c ConfusionMatrix) Precision() float64 { return ratio(c.TP, c.TP+c.FP) }
func (c ConfusionMatrix) Recall() float64    { return ratio(c.TP, c.TP+c.FN) }

func (c ConfusionMatrix) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Evaluation summarizes how well a model separates churners from stayers.
type Evaluation struct {
	Model     string
	Rows      int
	Positives int
	ROC       ROCCurve
	Confusion ConfusionMatrix
}

// Evaluator batch-scores labeled datasets.
type Evaluator struct {
	scorer      *ChurnScorer
	concurrency int
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithConcurrency bounds how many rows are scored at once.
func WithConcurrency(n int) EvaluatorOption {
	return func(e *Evaluator) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

func NewEvaluator(scorer *ChurnScorer, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{scorer: scorer, concurrency: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate scores every row with modelName and builds the ROC curve and
// confusion matrix. A single-class dataset still gets a confusion matrix but
// an undefined ROC curve. The dataset and the models are only read.
func (e *Evaluator) Evaluate(ctx context.Context, modelName string, ds LabeledDataset) (Evaluation, error) {
	n := len(ds.Records)
	if n == 0 {
		return Evaluation{}, ErrEmptyDataset
	}
	if len(ds.Labels) != n {
		return Evaluation{}, fmt.Errorf("%w: %d rows, %d labels", ErrLabelCountMismatch, n, len(ds.Labels))
	}
	positives := 0
	for i, y := range ds.Labels {
		switch y {
		case estimator.LabelChurn:
			positives++
		case estimator.LabelStay:
		default:
			return Evaluation{}, fmt.Errorf("%w: row %d has %d", ErrInvalidLabel, i, y)
		}
	}
	if _, ok := e.scorer.Bundle().Model(modelName); !ok {
		return Evaluation{}, fmt.Errorf("%w: %q", ErrUnknownModel, modelName)
	}

	scores := make([]float64, n)
	predicted := make([]valueobject.ChurnClass, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, rec := range ds.Records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := e.scorer.ScoreEncoded(modelName, rec)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			scores[i] = s.Result.ProbabilityOfChurn
			predicted[i] = s.Result.Class
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Evaluation{}, err
	}

	var cm ConfusionMatrix
	for i, y := range ds.Labels {
		churn := predicted[i] == valueobject.ChurnClassChurn
		switch {
		case y == estimator.LabelChurn && churn:
			cm.TP++
		case y == estimator.LabelChurn:
			cm.FN++
		case churn:
			cm.FP++
		default:
			cm.TN++
		}
	}

	return Evaluation{
		Model:     modelName,
		Rows:      n,
		Positives: positives,
		ROC:       BuildROC(scores, ds.Labels),
		Confusion: cm,
	}, nil
}

// BuildROC computes the ROC curve with one point per distinct score and the
// trapezoidal area under it. The curve is undefined unless labels hold both
// classes.
func BuildROC(scores []float64, labels []int) ROCCurve {
	var pos, neg int
	for _, y := range labels {
		if y == estimator.LabelChurn {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return ROCCurve{}
	}

	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	top := scores[idx[0]]
	points := []ROCPoint{{FPR: 0, TPR: 0, Threshold: math.Nextafter(top, math.Inf(1))}}
	var tp, fp int
	for k, i := range idx {
		if labels[i] == estimator.LabelChurn {
			tp++
		} else {
			fp++
		}
		if k+1 < len(idx) && scores[idx[k+1]] == scores[i] {
			continue
		}
		points = append(points, ROCPoint{
			FPR:       float64(fp) / float64(neg),
			TPR:       float64(tp) / float64(pos),
			Threshold: scores[i],
		})
	}

	var auc float64
	for k := 1; k < len(points); k++ {
		auc += (points[k].FPR - points[k-1].FPR) * (points[k].TPR + points[k-1].TPR) / 2
	}
	return ROCCurve{Points: points, AUC: auc}
}
