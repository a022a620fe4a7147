package usecase

import (
	"context"

	"github.com/Shreyashgol/genAI-capstone-project/internal/application/dto"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/artifact"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
)

// ListModels describes the loaded artifact bundle.
type ListModels struct {
	bundle  *artifact.Bundle
	aligner *feature.Aligner
}

func NewListModels(bundle *artifact.Bundle, aligner *feature.Aligner) *ListModels {
	return &ListModels{bundle: bundle, aligner: aligner}
}

func (uc *ListModels) Execute(_ context.Context) dto.ListModelsResponse {
	names := uc.bundle.ModelNames()
	infos := make([]dto.ModelInfo, 0, len(names))
	for _, name := range names {
		m, _ := uc.bundle.Model(name)
		infos = append(infos, dto.ModelInfo{Name: name, Kind: m.Kind(), NumFeatures: m.NumFeatures()})
	}
	return dto.ListModelsResponse{
		Models:      infos,
		Columns:     uc.bundle.Schema().Names(),
		ScalerKind:  uc.bundle.Scaler().Kind(),
		StrictAlign: uc.aligner.Strict(),
	}
}
