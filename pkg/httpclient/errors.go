package httpclient

import (
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/ilkeratar/mobiversite-ecommerce/pkg/errors"
)

// ResponseError translates a non-2xx HTTP response from a collaborator into an
// appropriate AppError. The response body is fully consumed and closed.
func ResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound(serviceName, "resource")
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.InvalidInput(fmt.Sprintf("%s: %s", serviceName, string(bodyBytes)))
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.Unauthorized(fmt.Sprintf("%s rejected the request", serviceName))
	case resp.StatusCode == http.StatusServiceUnavailable:
		return apperrors.Unavailable(fmt.Sprintf("%s is unavailable", serviceName))
	case resp.StatusCode >= 500:
		return fmt.Errorf("%s server error (%d): %s", serviceName, resp.StatusCode, string(bodyBytes))
	default:
		return fmt.Errorf("%s returned status %d: %s", serviceName, resp.StatusCode, string(bodyBytes))
	}
}
