package grpc

// PredictChurnRequest scores one customer. Record holds the raw attributes,
// e.g. {"tenure": 1, "Contract": "Month-to-month"}.
type PredictChurnRequest struct {
	CustomerID string         `json:"customer_id"`
	Model      string         `json:"model"`
	Record     map[string]any `json:"record"`
}

// PredictionMsg represents the proto Prediction message.
type PredictionMsg struct {
	ID                 string   `json:"id"`
	CustomerID         string   `json:"customer_id,omitempty"`
	Model              string   `json:"model"`
	Class              string   `json:"class"`
	Headline           string   `json:"headline"`
	ProbabilityOfChurn float64  `json:"probability_of_churn"`
	ProbabilityOfStay  float64  `json:"probability_of_stay"`
	Confidence         float64  `json:"confidence"`
	RiskLevel          string   `json:"risk_level"`
	MonthlyCharges     string   `json:"monthly_charges"`
	RevenueAtRisk      string   `json:"revenue_at_risk"`
	DroppedColumns     []string `json:"dropped_columns,omitempty"`
	CreatedAt          string   `json:"created_at"`
}

type PredictChurnResponse struct {
	Prediction *PredictionMsg `json:"prediction"`
}

type GetPredictionRequest struct {
	ID string `json:"id"`
}

type GetPredictionResponse struct {
	Prediction *PredictionMsg `json:"prediction"`
}

type ListCustomerPredictionsRequest struct {
	CustomerID string `json:"customer_id"`
	Limit      int32  `json:"limit"`
}

type ListCustomerPredictionsResponse struct {
	Predictions []*PredictionMsg `json:"predictions"`
}

type ListModelsRequest struct{}

// ModelMsg represents the proto Model message.
type ModelMsg struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	NumFeatures int32  `json:"num_features"`
}

type ListModelsResponse struct {
	Models          []*ModelMsg `json:"models"`
	Columns         []string    `json:"columns"`
	ScalerKind      string      `json:"scaler_kind"`
	StrictAlignment bool        `json:"strict_alignment"`
}

// EvaluateModelRequest names a CSV inside the server's dataset directory.
type EvaluateModelRequest struct {
	Model   string `json:"model"`
	Dataset string `json:"dataset"`
}

type ROCPointMsg struct {
	FPR       float64 `json:"fpr"`
	TPR       float64 `json:"tpr"`
	Threshold float64 `json:"threshold"`
}

// EvaluationMsg represents the proto Evaluation message. ConfusionMatrix is
// [[TN, FP], [FN, TP]].
type EvaluationMsg struct {
	ID              string         `json:"id"`
	Model           string         `json:"model"`
	Dataset         string         `json:"dataset"`
	Rows            int32          `json:"rows"`
	Positives       int32          `json:"positives"`
	AUC             float64        `json:"auc"`
	ROCDefined      bool           `json:"roc_defined"`
	ROC             []*ROCPointMsg `json:"roc"`
	ConfusionMatrix [2][2]int32    `json:"confusion_matrix"`
	Accuracy        float64        `json:"accuracy"`
	Precision       float64        `json:"precision"`
	Recall          float64        `json:"recall"`
	F1              float64        `json:"f1"`
	CreatedAt       string         `json:"created_at"`
}

type EvaluateModelResponse struct {
	Evaluation *EvaluationMsg `json:"evaluation"`
}

type GetEvaluationRequest struct {
	ID string `json:"id"`
}

type GetEvaluationResponse struct {
	Evaluation *EvaluationMsg `json:"evaluation"`
}
