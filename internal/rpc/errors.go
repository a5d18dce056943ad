package rpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yourusername/roster-wins/internal/datasource"
	"github.com/yourusername/roster-wins/internal/models"
	"github.com/yourusername/roster-wins/internal/predict"
	"github.com/yourusername/roster-wins/internal/service"
)

var (
	// ErrConnectionFailed indicates the gRPC connection could not be set up
	ErrConnectionFailed = errors.New("grpc connection failed")

	// ErrInvalidResponse indicates the server reply could not be decoded
	ErrInvalidResponse = errors.New("invalid response from prediction service")

	errInvalidRequest = errors.New("invalid request")
)

// toStatus maps service errors onto gRPC status errors
func toStatus(err error) error {
	var c codes.Code
	switch {
	case errors.Is(err, predict.ErrNoModel):
		c = codes.Unavailable
	case errors.Is(err, datasource.ErrNotFound), errors.Is(err, models.ErrNotFound):
		c = codes.NotFound
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, models.ErrEmptyRoster),
		errors.Is(err, models.ErrRosterTooLarge),
		errors.Is(err, datasource.ErrInvalidData):
		c = codes.InvalidArgument
	case errors.Is(err, service.ErrLookupUnavailable):
		c = codes.Unimplemented
	case errors.Is(err, datasource.ErrRateLimitExceeded), errors.Is(err, datasource.ErrCircuitOpen):
		c = codes.ResourceExhausted
	case errors.Is(err, datasource.ErrNetworkError), errors.Is(err, datasource.ErrServerError):
		c = codes.Unavailable
	default:
		c = codes.Internal
	}
	return status.Error(c, err.Error())
}
