package producers

import (
	"context"
	"errors"
	"fmt"
	"time"

	xhttp "TradeCore/pkg/http"
)

// ErrUnavailable marks a producer that is not configured or not loaded.
// Workflow steps translate it into their neutral defaults.
var ErrUnavailable = errors.New("producer unavailable")

// httpBase centralizes client construction and JSON POST handling for the
// model-service producers.
type httpBase struct {
	baseURL string
	client  *xhttp.Client
}

func newHTTPBase(baseURL string, timeout time.Duration) *httpBase {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &httpBase{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// postJSON posts the payload to path under baseURL and decodes JSON into
// dest. Single-shot: the decision path performs no retries.
func (b *httpBase) postJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return ErrUnavailable
	}
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    b.baseURL + path,
		Body:   payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}
