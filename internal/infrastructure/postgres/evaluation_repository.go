package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/model"
	pkgpostgres "github.com/Shreyashgol/genAI-capstone-project/pkg/postgres"
)

// EvaluationRepository implements port.EvaluationRepository using PostgreSQL.
// The ROC curve and the confusion matrix are stored as JSONB.
type EvaluationRepository struct {
	db pkgpostgres.Querier
}

func NewEvaluationRepository(db pkgpostgres.Querier) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

func (r *EvaluationRepository) Save(ctx context.Context, report *model.EvaluationReport) error {
	roc, err := json.Marshal(report.ROC())
	if err != nil {
		return fmt.Errorf("failed to marshal roc curve: %w", err)
	}
	confusion, err := json.Marshal(report.Confusion())
	if err != nil {
		return fmt.Errorf("failed to marshal confusion matrix: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO evaluation_reports (
			id, tenant_id, model, dataset, positives, auc, roc, confusion, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		report.ID(),
		report.TenantID(),
		report.ModelName(),
		report.Dataset(),
		report.Positives(),
		report.AUC(),
		roc,
		confusion,
		report.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save evaluation report: %w", err)
	}
	return nil
}

func (r *EvaluationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.EvaluationReport, error) {
	var (
		reportID  uuid.UUID
		tenant    uuid.UUID
		modelName string
		dataset   string
		positives int
		auc       float64
		rocJSON   []byte
		cmJSON    []byte
		createdAt time.Time
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, tenant_id, model, dataset, positives, auc, roc, confusion, created_at
		FROM evaluation_reports
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id).Scan(&reportID, &tenant, &modelName, &dataset, &positives, &auc, &rocJSON, &cmJSON, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan evaluation report: %w", err)
	}

	var roc []model.CurvePoint
	if err := json.Unmarshal(rocJSON, &roc); err != nil {
		return nil, fmt.Errorf("failed to decode roc curve: %w", err)
	}
	var confusion model.ConfusionCounts
	if err := json.Unmarshal(cmJSON, &confusion); err != nil {
		return nil, fmt.Errorf("failed to decode confusion matrix: %w", err)
	}

	return model.ReconstructEvaluationReport(reportID, tenant, modelName, dataset, positives, auc, roc, confusion, createdAt), nil
}
