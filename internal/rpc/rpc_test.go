package rpc

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/yourusername/roster-wins/internal/artifact"
	"github.com/yourusername/roster-wins/internal/datasource"
	"github.com/yourusername/roster-wins/internal/features"
	"github.com/yourusername/roster-wins/internal/logger"
	"github.com/yourusername/roster-wins/internal/models"
	"github.com/yourusername/roster-wins/internal/predict"
	"github.com/yourusername/roster-wins/internal/service"
)

type fixedRegressor struct{ raw float64 }

func (f fixedRegressor) Predict([]float64) float64 { return f.raw }

func (f fixedRegressor) FeatureImportances() []float64 {
	n := len(features.Names(false))
	imp := make([]float64, n)
	for i := range imp {
		imp[i] = 1 / float64(n)
	}
	return imp
}

type stubLookup struct{}

func (stubLookup) FindPlayer(_ context.Context, name string) (datasource.PlayerRef, error) {
	if strings.EqualFold(name, "ghost") {
		return datasource.PlayerRef{}, datasource.NewDataSourceError("stub", datasource.ErrCodeNotFound, name, nil)
	}
	return datasource.PlayerRef{ID: 7, FullName: name}, nil
}

func (stubLookup) LatestStats(_ context.Context, ref datasource.PlayerRef) (*models.PlayerStatLine, error) {
	return statLine(ref.FullName), nil
}

func statLine(name string) *models.PlayerStatLine {
	return &models.PlayerStatLine{PlayerID: 7, PlayerName: name, Minutes: 34, Points: 25, Assists: 6, Rebounds: 7, Steals: 1.5, Blocks: 0.8, Turnovers: 3}
}

// startServer runs a Predictor over an in-memory listener and returns a
// connected client plus the holder backing it.
func startServer(t *testing.T) (*Client, *predict.Holder, func(bool)) {
	t.Helper()
	holder := predict.NewHolder(nil)
	svc := service.NewPredictionService(holder, stubLookup{}, logger.Discard())

	lis := bufconn.Listen(1 << 20)
	srv, hs := NewGRPCServer(NewServer(svc, logger.Discard()), logger.Discard())
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	client, err := NewClient("passthrough:///bufnet", logger.Discard(),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client, holder, func(serving bool) { SetServing(hs, serving) }
}

func load(t *testing.T, holder *predict.Holder, raw float64) {
	t.Helper()
	m, err := artifact.New(fixedRegressor{raw: raw}, features.Names(false), 0, 1, artifact.Metadata{})
	require.NoError(t, err)
	p, err := predict.NewPredictor(m, logger.Discard(), nil)
	require.NoError(t, err)
	holder.Swap(p)
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestPredictOverGRPC(t *testing.T) {
	client, holder, _ := startServer(t)
	ctx := testContext(t)

	_, err := client.Predict(ctx, PredictRequest{Names: []string{"Duncan"}})
	assert.Equal(t, codes.Unavailable, status.Code(err))

	load(t, holder, 95)
	pred, err := client.Predict(ctx, PredictRequest{Names: []string{"Duncan", "Parker"}, TopN: 2})
	require.NoError(t, err)
	assert.Equal(t, 82.0, pred.Wins, "clamped to the season length")
	assert.Equal(t, 95.0, pred.CalibratedWins)
	assert.Equal(t, []string{"Duncan", "Parker", "-", "-", "-"}, pred.Players)
	assert.Len(t, pred.Strengths, 2)

	pred, err = client.Predict(ctx, PredictRequest{Players: []*models.PlayerStatLine{statLine("A")}})
	require.NoError(t, err)
	assert.Len(t, pred.Strengths, predict.DefaultStrengths)
}

func TestPredictStatusCodes(t *testing.T) {
	client, holder, _ := startServer(t)
	load(t, holder, 40)
	ctx := testContext(t)

	tests := []struct {
		name string
		req  PredictRequest
		want codes.Code
	}{
		{"empty roster", PredictRequest{}, codes.InvalidArgument},
		{"unknown player", PredictRequest{Names: []string{"ghost"}}, codes.NotFound},
		{"names and players", PredictRequest{Names: []string{"A"}, Players: []*models.PlayerStatLine{statLine("B")}}, codes.InvalidArgument},
		{"too many names", PredictRequest{Names: []string{"a", "b", "c", "d", "e", "f"}}, codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Predict(ctx, tt.req)
			assert.Equal(t, tt.want, status.Code(err), err)
		})
	}
}

func TestCompareAndModelOverGRPC(t *testing.T) {
	client, holder, _ := startServer(t)
	load(t, holder, 50)
	ctx := testContext(t)

	cmp, err := client.Compare(ctx, CompareRequest{
		First:  PredictRequest{Names: []string{"Bird"}},
		Second: PredictRequest{Players: []*models.PlayerStatLine{statLine("Magic")}},
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, cmp.First.Wins)
	assert.InDelta(t, 0.0, cmp.Difference, 1e-9)

	info, err := client.Model(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(features.Names(false)), info.NumFeatures)
	assert.Contains(t, info.Equation, "raw_pred")
}

func TestHealthService(t *testing.T) {
	client, _, setServing := startServer(t)
	ctx := testContext(t)

	serving, err := client.Serving(ctx)
	require.NoError(t, err)
	assert.False(t, serving)

	setServing(true)
	serving, err = client.Serving(ctx)
	require.NoError(t, err)
	assert.True(t, serving)
}
