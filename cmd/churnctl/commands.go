package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/Shreyashgol/genAI-capstone-project/internal/application/usecase"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/artifact"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/model"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/service"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/valueobject"
	artifactstore "github.com/Shreyashgol/genAI-capstone-project/internal/infrastructure/artifact"
	"github.com/Shreyashgol/genAI-capstone-project/internal/infrastructure/dataset"
	grpcpresentation "github.com/Shreyashgol/genAI-capstone-project/internal/presentation/grpc"
	"github.com/Shreyashgol/genAI-capstone-project/pkg/tlsutil"
)

// ModelsCmd prints the bundle description.
type ModelsCmd struct{}

func (c *ModelsCmd) Run(g *Globals, out io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), g.Timeout)
	defer cancel()

	if g.Server != "" {
		client, ctx, closeFn, err := g.dial(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		resp, err := client.ListModels(ctx, &grpcpresentation.ListModelsRequest{})
		if err != nil {
			return err
		}
		return writeJSON(out, resp)
	}

	scorer, err := g.localScorer(ctx)
	if err != nil {
		return err
	}
	return writeJSON(out, usecase.NewListModels(scorer.Bundle(), g.aligner()).Execute(ctx))
}

// PredictCmd scores a JSON record read from a file or stdin.
type PredictCmd struct {
	Model    string            `help:"Model to run." default:"Logistic Regression" short:"m"`
	Customer string            `help:"Customer ID attached to the prediction."`
	Set      map[string]string `help:"Override or add a record field, e.g. --set tenure=3." short:"s"`
	Record   string            `arg:"" optional:"" help:"JSON object with the raw attributes; '-' reads stdin." default:"-"`
}

// LocalPrediction is what predict prints without a server.
type LocalPrediction struct {
	Model              string   `json:"model"`
	Class              string   `json:"class"`
	Headline           string   `json:"headline"`
	ProbabilityOfChurn float64  `json:"probability_of_churn"`
	ProbabilityOfStay  float64  `json:"probability_of_stay"`
	Confidence         float64  `json:"confidence"`
	RiskLevel          string   `json:"risk_level"`
	MonthlyCharges     string   `json:"monthly_charges"`
	DroppedColumns     []string `json:"dropped_columns,omitempty"`
	FilledColumns      int      `json:"filled_columns"`
}

func (c *PredictCmd) Run(g *Globals, out io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), g.Timeout)
	defer cancel()

	fields, err := c.readRecord()
	if err != nil {
		return err
	}

	if g.Server != "" {
		client, ctx, closeFn, err := g.dial(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		resp, err := client.PredictChurn(ctx, &grpcpresentation.PredictChurnRequest{
			CustomerID: c.Customer,
			Model:      c.Model,
			Record:     fields,
		})
		if err != nil {
			return err
		}
		return writeJSON(out, resp.Prediction)
	}

	rec, err := feature.RecordFromMap(fields)
	if err != nil {
		return err
	}
	scorer, err := g.localScorer(ctx)
	if err != nil {
		return err
	}
	scoring, err := scorer.Score(c.Model, rec)
	if err != nil {
		return err
	}

	res := scoring.Result
	headline := "LOW CHURN RISK"
	if res.Class == valueobject.ChurnClassChurn {
		headline = "HIGH CHURN RISK"
	}
	return writeJSON(out, LocalPrediction{
		Model:              res.Model,
		Class:              res.Class.String(),
		Headline:           headline,
		ProbabilityOfChurn: res.ProbabilityOfChurn,
		ProbabilityOfStay:  res.ProbabilityOfStay,
		Confidence:         res.Confidence(),
		RiskLevel:          valueobject.RiskLevelFromProbability(res.ProbabilityOfChurn).String(),
		MonthlyCharges:     usecase.MonthlyCharges(rec).StringFixed(2),
		DroppedColumns:     scoring.Alignment.Dropped,
		FilledColumns:      scoring.Alignment.Filled,
	})
}

func (c *PredictCmd) readRecord() (map[string]any, error) {
	fields := map[string]any{}
	// With only --set flags and no file argument, stdin is not read.
	if c.Record != "-" || len(c.Set) == 0 {
		var r io.Reader = os.Stdin
		if c.Record != "-" {
			f, err := os.Open(c.Record)
			if err != nil {
				return nil, fmt.Errorf("failed to open record: %w", err)
			}
			defer f.Close()
			r = f
		}
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
	}
	for k, v := range c.Set {
		fields[k] = flagValue(v)
	}
	return fields, nil
}

// flagValue keeps numeric flag values numeric so they are not one-hot encoded.
func flagValue(v string) any {
	if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
		return json.Number(strings.TrimSpace(v))
	}
	return v
}

// EvaluateCmd scores a labeled CSV. In remote mode the path names a file
// inside the server's dataset directory.
type EvaluateCmd struct {
	Model       string `help:"Model to evaluate." default:"Logistic Regression" short:"m"`
	Concurrency int    `help:"Parallel scoring workers; 0 uses GOMAXPROCS."`
	ROC         bool   `help:"Include every ROC point in the output."`
	Dataset     string `arg:"" help:"Labeled CSV with a Churn column."`
}

// LocalEvaluation is what evaluate prints without a server.
type LocalEvaluation struct {
	Model      string                `json:"model"`
	Dataset    string                `json:"dataset"`
	Rows       int                   `json:"rows"`
	Positives  int                   `json:"positives"`
	AUC        float64               `json:"auc"`
	ROCDefined bool                  `json:"roc_defined"`
	Confusion  model.ConfusionCounts `json:"confusion"`
	Accuracy   float64               `json:"accuracy"`
	Precision  float64               `json:"precision"`
	Recall     float64               `json:"recall"`
	F1         float64               `json:"f1"`
	ROC        []service.ROCPoint    `json:"roc,omitempty"`
}

func (c *EvaluateCmd) Run(g *Globals, out io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), g.Timeout)
	defer cancel()

	if g.Server != "" {
		client, ctx, closeFn, err := g.dial(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		resp, err := client.EvaluateModel(ctx, &grpcpresentation.EvaluateModelRequest{Model: c.Model, Dataset: c.Dataset})
		if err != nil {
			return err
		}
		if !c.ROC {
			resp.Evaluation.ROC = nil
		}
		return writeJSON(out, resp.Evaluation)
	}

	scorer, err := g.localScorer(ctx)
	if err != nil {
		return err
	}
	src := dataset.NewSource(os.DirFS(filepath.Dir(c.Dataset)), scorer.Encoder())
	ds, err := src.Load(ctx, filepath.Base(c.Dataset))
	if err != nil {
		return err
	}

	var opts []service.EvaluatorOption
	if c.Concurrency > 0 {
		opts = append(opts, service.WithConcurrency(c.Concurrency))
	}
	ev, err := service.NewEvaluator(scorer, opts...).Evaluate(ctx, c.Model, ds)
	if err != nil {
		return err
	}

	res := LocalEvaluation{
		Model:      ev.Model,
		Dataset:    filepath.Base(c.Dataset),
		Rows:       ev.Rows,
		Positives:  ev.Positives,
		AUC:        ev.ROC.AUC,
		ROCDefined: ev.ROC.Defined(),
		Confusion:  model.ConfusionCounts{TN: ev.Confusion.TN, FP: ev.Confusion.FP, FN: ev.Confusion.FN, TP: ev.Confusion.TP},
		Accuracy:   ev.Confusion.Accuracy(),
		Precision:  ev.Confusion.Precision(),
		Recall:     ev.Confusion.Recall(),
		F1:         ev.Confusion.F1(),
	}
	if c.ROC {
		res.ROC = ev.ROC.Points
	}
	return writeJSON(out, res)
}

func (g *Globals) aligner() *feature.Aligner {
	return feature.NewAligner(feature.WithStrict(g.Strict))
}

func (g *Globals) localScorer(ctx context.Context) (*service.ChurnScorer, error) {
	logger := slog.Default()
	bundle, err := artifact.NewCache(artifactstore.NewStore(g.Artifacts, artifactstore.WithLogger(logger))).Get(ctx)
	if err != nil {
		return nil, err
	}
	return service.NewChurnScorer(bundle, feature.NewEncoder(), g.aligner(), logger), nil
}

// dial connects to the remote service and returns a context carrying the token.
func (g *Globals) dial(ctx context.Context) (*grpcpresentation.ChurnServiceClient, context.Context, func(), error) {
	var creds credentials.TransportCredentials = insecure.NewCredentials()
	if g.CAFile != "" {
		var err error
		if creds, err = tlsutil.ClientTLSConfig(g.CAFile, g.ServerName); err != nil {
			return nil, nil, nil, err
		}
	}
	conn, err := grpclib.NewClient(g.Server, grpclib.WithTransportCredentials(creds))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to %s: %w", g.Server, err)
	}
	if g.Token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+g.Token)
	}
	return grpcpresentation.NewChurnServiceClient(conn), ctx, func() { _ = conn.Close() }, nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
