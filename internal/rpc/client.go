package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/yourusername/roster-wins/internal/models"
	"github.com/yourusername/roster-wins/internal/predict"
	"github.com/yourusername/roster-wins/internal/service"
)

// Client calls a remote Predictor service
type Client struct {
	conn   *grpc.ClientConn
	logger *logrus.Logger
}

// NewClient connects to the Predictor at target. Extra options are appended
// after the defaults, so callers may override the transport.
func NewClient(target string, logger *logrus.Logger, opts ...grpc.DialOption) (*Client, error) {
	connectParams := grpc.ConnectParams{
		Backoff: backoff.Config{
			BaseDelay:  1 * time.Second,
			Multiplier: 1.6,
			Jitter:     0.2,
			MaxDelay:   5 * time.Second,
		},
		MinConnectTimeout: 10 * time.Second,
	}

	keepAlive := keepalive.ClientParameters{
		Time:                30 * time.Second,
		Timeout:             10 * time.Second,
		PermitWithoutStream: true,
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithConnectParams(connectParams),
		grpc.WithKeepaliveParams(keepAlive),
	}, opts...)

	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to prediction service")
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	return &Client{conn: conn, logger: logger}, nil
}

// Predict scores a roster remotely
func (c *Client) Predict(ctx context.Context, req PredictRequest) (*models.Prediction, error) {
	var out models.Prediction
	if err := c.call(ctx, PredictMethod, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Compare scores two rosters remotely
func (c *Client) Compare(ctx context.Context, req CompareRequest) (*predict.Comparison, error) {
	var out predict.Comparison
	if err := c.call(ctx, CompareMethod, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Model fetches the remote model description
func (c *Client) Model(ctx context.Context) (*service.ModelInfo, error) {
	var out service.ModelInfo
	if err := c.call(ctx, ModelMethod, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Serving reports the remote Predictor health status
func (c *Client) Serving(ctx context.Context) (bool, error) {
	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return false, err
	}
	return resp.GetStatus() == healthpb.HealthCheckResponse_SERVING, nil
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) call(ctx context.Context, method string, req, dst interface{}) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, in, out); err != nil {
		c.logger.WithError(err).WithField("method", method).Debug("Prediction RPC failed")
		return err
	}

	raw, err := json.Marshal(out.AsMap())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
