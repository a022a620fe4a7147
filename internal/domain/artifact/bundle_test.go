package artifact_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/artifact"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/estimator"
	"github.com/Shreyashgol/genAI-capstone-project/internal/domain/feature"
)

func fixtures(t *testing.T, width int) (estimator.Classifier, estimator.Scaler, feature.ColumnSchema) {
	t.Helper()
	names := make([]string, width)
	zeros := make([]float64, width)
	ones := make([]float64, width)
	for i := range names {
		names[i] = string(rune('a' + i))
		ones[i] = 1
	}
	schema, err := feature.NewColumnSchema(names)
	require.NoError(t, err)
	scaler, err := estimator.NewStandardScaler(zeros, ones)
	require.NoError(t, err)
	lr, err := estimator.NewLogisticRegression(ones, 0)
	require.NoError(t, err)
	return lr, scaler, schema
}

func TestNewBundle(t *testing.T) {
	lr, scaler, schema := fixtures(t, 3)

	b, err := artifact.NewBundle(map[string]estimator.Classifier{
		"Logistic Regression": lr,
		"Another":             lr,
	}, scaler, schema)
	require.NoError(t, err)
	assert.Equal(t, []string{"Another", "Logistic Regression"}, b.ModelNames())
	m, ok := b.Model("Logistic Regression")
	assert.True(t, ok)
	assert.Same(t, lr, m)
	_, ok = b.Model("Neural Net")
	assert.False(t, ok)
	assert.Equal(t, 3, b.Schema().Len())
}

func TestNewBundle_WidthMismatch(t *testing.T) {
	lr3, scaler3, schema3 := fixtures(t, 3)
	lr4, scaler4, _ := fixtures(t, 4)

	_, err := artifact.NewBundle(map[string]estimator.Classifier{"m": lr3}, scaler4, schema3)
	assert.ErrorIs(t, err, estimator.ErrDimensionMismatch)

	_, err = artifact.NewBundle(map[string]estimator.Classifier{"m": lr4}, scaler3, schema3)
	assert.ErrorIs(t, err, estimator.ErrDimensionMismatch)
}

func TestNewBundle_Missing(t *testing.T) {
	lr, scaler, schema := fixtures(t, 2)

	_, err := artifact.NewBundle(nil, scaler, schema)
	assert.ErrorIs(t, err, artifact.ErrArtifactMissing)
	_, err = artifact.NewBundle(map[string]estimator.Classifier{"m": lr}, nil, schema)
	assert.ErrorIs(t, err, artifact.ErrArtifactMissing)
	_, err = artifact.NewBundle(map[string]estimator.Classifier{"m": lr}, scaler, feature.ColumnSchema{})
	assert.ErrorIs(t, err, feature.ErrEmptySchema)
}

type countingLoader struct {
	calls  atomic.Int32
	bundle *artifact.Bundle
	err    error
}

func (l *countingLoader) Load(ctx context.Context) (*artifact.Bundle, error) {
	l.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.bundle, l.err
}

func TestCache_LoadsOnceConcurrently(t *testing.T) {
	lr, scaler, schema := fixtures(t, 2)
	b, err := artifact.NewBundle(map[string]estimator.Classifier{"m": lr}, scaler, schema)
	require.NoError(t, err)

	loader := &countingLoader{bundle: b}
	cache := artifact.NewCache(loader)
	assert.False(t, cache.Ready())

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := cache.Get(context.Background())
			assert.NoError(t, err)
			assert.Same(t, b, got)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), loader.calls.Load())
	assert.True(t, cache.Ready())
}

func TestCache_CachesFailure(t *testing.T) {
	loader := &countingLoader{err: errors.New("disk gone")}
	cache := artifact.NewCache(loader)

	_, err := cache.Get(context.Background())
	require.Error(t, err)
	_, err = cache.Get(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), loader.calls.Load())
	assert.False(t, cache.Ready())
}

func TestCache_IgnoresCallerCancellation(t *testing.T) {
	lr, scaler, schema := fixtures(t, 2)
	b, err := artifact.NewBundle(map[string]estimator.Classifier{"m": lr}, scaler, schema)
	require.NoError(t, err)

	loader := &countingLoader{bundle: b}
	cache := artifact.NewCache(loader)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := cache.Get(canceled)
	require.NoError(t, err)
	assert.Same(t, b, got)

	got, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, b, got)
	assert.Equal(t, int32(1), loader.calls.Load())
	assert.True(t, cache.Ready())
}
