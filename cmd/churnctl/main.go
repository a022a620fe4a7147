package main

import (
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/Shreyashgol/genAI-capstone-project/pkg/observability"
)

// Globals are shared by every subcommand.
type Globals struct {
	Artifacts string        `help:"Directory holding the frozen model artifacts." default:"models" env:"ARTIFACT_DIR" type:"path"`
	Strict    bool          `help:"Reject records carrying columns unknown to the schema." env:"STRICT_ALIGNMENT"`
	LogLevel  string        `help:"Log level written to stderr." default:"warn" enum:"debug,info,warn,error"`
	Timeout   time.Duration `help:"Deadline for the whole command." default:"30s"`

	// Remote mode
	Server     string `help:"Call a running churn service at host:port instead of loading artifacts locally."`
	Token      string `help:"Bearer token for the remote service." env:"CHURN_TOKEN"`
	CAFile     string `help:"CA bundle for the remote service; plaintext when empty." type:"existingfile"`
	ServerName string `help:"TLS server name override."`
}

var cli struct {
	Globals

	Models   ModelsCmd   `cmd:"" help:"List the loaded models and the feature schema."`
	Predict  PredictCmd  `cmd:"" help:"Score one customer record."`
	Evaluate EvaluateCmd `cmd:"" help:"Compute ROC AUC and the confusion matrix on a labeled CSV."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("churnctl"),
		kong.Description("Score customers and evaluate churn models."),
		kong.UsageOnError(),
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)

	observability.InitLogger(observability.LogConfig{
		Level:  cli.LogLevel,
		Format: "text",
		Output: os.Stderr,
	})

	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}
