// Package artifacttest builds small but realistic artifact bundles for tests.
package artifacttest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/artifact"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/estimator"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
)

// TelcoColumns is the one-hot column list produced from the 19 Telco fields.
var TelcoColumns = func() []string {
	cols := []string{"SeniorCitizen", "tenure", "MonthlyCharges", "TotalCharges"}
	add := func(field string, values ...string) {
		for _, v := range values {
			cols = append(cols, field+feature.DefaultSeparator+v)
		}
	}
	yesNo := []string{"No", "Yes"}
	add("gender", "Female", "Male")
	add("Partner", yesNo...)
	add("Dependents", yesNo...)
	add("PhoneService", yesNo...)
	add("MultipleLines", "No", "No phone service", "Yes")
	add("InternetService", "DSL", "Fiber optic", "No")
	for _, svc := range []string{"OnlineSecurity", "OnlineBackup", "DeviceProtection", "TechSupport", "StreamingTV", "StreamingMovies"} {
		add(svc, "No", "No internet service", "Yes")
	}
	add("Contract", "Month-to-month", "One year", "Two year")
	add("PaperlessBilling", yesNo...)
	add("PaymentMethod", "Bank transfer (automatic)", "Credit card (automatic)", "Electronic check", "Mailed check")
	return cols
}()

var numericStats = map[string][2]float64{
	"SeniorCitizen":  {0.16, 0.37},
	"tenure":         {32.4, 24.5},
	"MonthlyCharges": {64.8, 30.1},
	"TotalCharges":   {2283.3, 2266.8},
}

// Schema returns the Telco column schema.
func Schema(t testing.TB) feature.ColumnSchema {
	t.Helper()
	s, err := feature.NewColumnSchema(TelcoColumns)
	require.NoError(t, err)
	return s
}

// Scaler standardizes numeric columns with Telco-like statistics and maps
// indicator columns from {0,1} to {-1,1}.
func Scaler(t testing.TB) *estimator.StandardScaler {
	t.Helper()
	mean := make([]float64, len(TelcoColumns))
	scale := make([]float64, len(TelcoColumns))
	for i, c := range TelcoColumns {
		if st, ok := numericStats[c]; ok {
			mean[i], scale[i] = st[0], st[1]
		} else {
			mean[i], scale[i] = 0.5, 0.5
		}
	}
	s, err := estimator.NewStandardScaler(mean, scale)
	require.NoError(t, err)
	return s
}

func index(t testing.TB, schema feature.ColumnSchema, name string) int {
	t.Helper()
	i, ok := schema.Index(name)
	require.True(t, ok, "column %q", name)
	return i
}

// LogisticRegression favors churn for short tenure, month-to-month contracts
// and fiber customers paying by electronic check.
func LogisticRegression(t testing.TB) *estimator.LogisticRegression {
	t.Helper()
	schema := Schema(t)
	coef := make([]float64, schema.Len())
	for name, w := range map[string]float64{
		"tenure":                         -0.8,
		"MonthlyCharges":                 0.3,
		"TotalCharges":                   -0.2,
		"Contract_Month-to-month":        0.9,
		"Contract_Two year":              -0.7,
		"InternetService_Fiber optic":    0.4,
		"PaymentMethod_Electronic check": 0.3,
		"OnlineSecurity_No":              0.2,
		"TechSupport_No":                 0.2,
	} {
		coef[index(t, schema, name)] = w
	}
	m, err := estimator.NewLogisticRegression(coef, -1.0)
	require.NoError(t, err)
	return m
}

func leaf(stay, churn float64) estimator.TreeNode {
	return estimator.TreeNode{Left: estimator.LeafNode, Right: estimator.LeafNode, Value: [2]float64{stay, churn}}
}

func stump(t testing.TB, column string, threshold float64, left, right estimator.TreeNode) *estimator.DecisionTree {
	t.Helper()
	schema := Schema(t)
	tree, err := estimator.NewDecisionTree(schema.Len(), []estimator.TreeNode{
		{Feature: index(t, schema, column), Threshold: threshold, Left: 1, Right: 2},
		left,
		right,
	})
	require.NoError(t, err)
	return tree
}

// DecisionTree splits on scaled tenure, then on the month-to-month indicator.
func DecisionTree(t testing.TB) *estimator.DecisionTree {
	t.Helper()
	schema := Schema(t)
	tree, err := estimator.NewDecisionTree(schema.Len(), []estimator.TreeNode{
		{Feature: index(t, schema, "tenure"), Threshold: -0.5, Left: 1, Right: 4},
		{Feature: index(t, schema, "Contract_Month-to-month"), Threshold: 0, Left: 2, Right: 3},
		leaf(60, 40),
		leaf(25, 75),
		leaf(85, 15),
	})
	require.NoError(t, err)
	return tree
}

// RandomForest combines DecisionTree with two stumps.
func RandomForest(t testing.TB) *estimator.RandomForest {
	t.Helper()
	f, err := estimator.NewRandomForest([]*estimator.DecisionTree{
		DecisionTree(t),
		stump(t, "MonthlyCharges", 0.5, leaf(70, 30), leaf(40, 60)),
		stump(t, "Contract_Two year", 0, leaf(45, 55), leaf(90, 10)),
	})
	require.NoError(t, err)
	return f
}

// Bundle returns the three shipped models over the Telco schema.
func Bundle(t testing.TB) *artifact.Bundle {
	t.Helper()
	b, err := artifact.NewBundle(map[string]estimator.Classifier{
		artifact.ModelLogisticRegression: LogisticRegression(t),
		artifact.ModelDecisionTree:       DecisionTree(t),
		artifact.ModelRandomForest:       RandomForest(t),
	}, Scaler(t), Schema(t))
	require.NoError(t, err)
	return b
}

// LoyalRecord is a long-tenure, two-year-contract customer.
func LoyalRecord() map[string]any {
	return map[string]any{
		"gender":           "Male",
		"SeniorCitizen":    0,
		"Partner":          "Yes",
		"Dependents":       "Yes",
		"tenure":           72,
		"PhoneService":     "Yes",
		"MultipleLines":    "Yes",
		"InternetService":  "DSL",
		"OnlineSecurity":   "Yes",
		"OnlineBackup":     "Yes",
		"DeviceProtection": "Yes",
		"TechSupport":      "Yes",
		"StreamingTV":      "No",
		"StreamingMovies":  "No",
		"Contract":         "Two year",
		"PaperlessBilling": "No",
		"PaymentMethod":    "Bank transfer (automatic)",
		"MonthlyCharges":   55.2,
		"TotalCharges":     3974.4,
	}
}
