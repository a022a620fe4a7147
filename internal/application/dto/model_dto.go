package dto

// ModelInfo describes one loaded classifier.
type ModelInfo struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	NumFeatures int    `json:"num_features"`
}

type ListModelsResponse struct {
	Models      []ModelInfo `json:"models"`
	Columns     []string    `json:"columns"`
	ScalerKind  string      `json:"scaler_kind"`
	StrictAlign bool        `json:"strict_alignment"`
}
