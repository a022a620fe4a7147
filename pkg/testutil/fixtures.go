package testutil

import (
	"github.com/google/uuid"
)

// Fixed UUIDs for deterministic testing
var (
	TestUserID     = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestTenantID   = uuid.MustParse("00000000-0000-0000-0000-000000000010")
	TestCustomerID = "7590-VHVEG"
)

// TelcoRecord returns the 19 raw attributes of a one-month, month-to-month
// customer. Callers may mutate the returned map.
func TelcoRecord() map[string]any {
	return map[string]any{
		"gender":           "Female",
		"SeniorCitizen":    0,
		"Partner":          "Yes",
		"Dependents":       "No",
		"tenure":           1,
		"PhoneService":     "No",
		"MultipleLines":    "No",
		"InternetService":  "DSL",
		"OnlineSecurity":   "No",
		"OnlineBackup":     "No",
		"DeviceProtection": "No",
		"TechSupport":      "No",
		"StreamingTV":      "No",
		"StreamingMovies":  "No",
		"Contract":         "Month-to-month",
		"PaperlessBilling": "Yes",
		"PaymentMethod":    "Electronic check",
		"MonthlyCharges":   70.35,
		"TotalCharges":     70.35,
	}
}
