package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/model"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/valueobject"
	pkgpostgres "github.com/Shreyashgol/genAI-capstone-project/pkg/postgres"
)

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	pkgpostgres.Querier
	pkgpostgres.TxBeginner
}

const selectPrediction = `
	SELECT p.id, p.tenant_id, p.customer_id, p.model, p.class,
		p.probability_of_churn, p.risk_level, p.monthly_charges, p.created_at,
		COALESCE((
			SELECT array_agg(d.column_name ORDER BY d.column_name)
			FROM prediction_dropped_columns d
			WHERE d.prediction_id = p.id
		), '{}') AS dropped_columns
	FROM churn_predictions p
`

// PredictionRepository implements port.PredictionRepository using PostgreSQL.
type PredictionRepository struct {
	db DB
}

// NewPredictionRepository creates a new PostgreSQL-backed prediction repository.
func NewPredictionRepository(db DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Save persists a prediction and the columns alignment dropped for it.
func (r *PredictionRepository) Save(ctx context.Context, p *model.ChurnPrediction) error {
	return pkgpostgres.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO churn_predictions (
				id, tenant_id, customer_id, model, class,
				probability_of_churn, risk_level, monthly_charges, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			p.ID(),
			p.TenantID(),
			p.CustomerID(),
			p.ModelName(),
			p.Class().String(),
			p.ProbabilityOfChurn(),
			p.RiskLevel().String(),
			p.MonthlyCharges(),
			p.CreatedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to save prediction: %w", err)
		}

		dropped := p.DroppedColumns()
		if len(dropped) == 0 {
			return nil
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"prediction_dropped_columns"},
			[]string{"prediction_id", "tenant_id", "column_name"},
			pgx.CopyFromSlice(len(dropped), func(i int) ([]any, error) {
				return []any{p.ID(), p.TenantID(), dropped[i]}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to save dropped columns: %w", err)
		}
		return nil
	})
}

// FindByID retrieves a prediction by its unique identifier.
func (r *PredictionRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.ChurnPrediction, error) {
	row := r.db.QueryRow(ctx, selectPrediction+` WHERE p.tenant_id = $1 AND p.id = $2`, tenantID, id)
	p, err := scanPrediction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// ListByCustomer retrieves a customer's predictions, newest first.
func (r *PredictionRepository) ListByCustomer(ctx context.Context, tenantID uuid.UUID, customerID string, limit int) ([]*model.ChurnPrediction, error) {
	rows, err := r.db.Query(ctx,
		selectPrediction+` WHERE p.tenant_id = $1 AND p.customer_id = $2 ORDER BY p.created_at DESC LIMIT $3`,
		tenantID, customerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*model.ChurnPrediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate predictions: %w", err)
	}
	return predictions, nil
}

func scanPrediction(row pgx.Row) (*model.ChurnPrediction, error) {
	var (
		id             uuid.UUID
		tenantID       uuid.UUID
		customerID     string
		modelName      string
		classStr       string
		pChurn         float64
		riskLevelStr   string
		monthlyCharges decimal.Decimal
		createdAt      time.Time
		dropped        []string
	)
	err := row.Scan(
		&id, &tenantID, &customerID, &modelName, &classStr,
		&pChurn, &riskLevelStr, &monthlyCharges, &createdAt,
		&dropped,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan prediction: %w", err)
	}

	class, err := valueobject.ChurnClassFromString(classStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse churn class: %w", err)
	}
	riskLevel, err := valueobject.RiskLevelFromString(riskLevelStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse risk level: %w", err)
	}
	if len(dropped) == 0 {
		dropped = nil
	}

	return model.ReconstructChurnPrediction(
		id, tenantID, customerID, modelName,
		class, pChurn, riskLevel, monthlyCharges, dropped, createdAt,
	), nil
}
