// Package netx holds small HTTP helpers shared by the command-line tools.
package netx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrNotAnImage is returned by DetectImageType for non-image payloads.
var ErrNotAnImage = errors.New("payload is not an image")

var defaultClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

// DetectImageType sniffs the MIME type of data and rejects anything that
// is not image/*.
func DetectImageType(data []byte) (string, error) {
	m := mimetype.Detect(data)
	if !strings.HasPrefix(m.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotAnImage, m.String())
	}
	return m.String(), nil
}

// PutPresigned uploads data to a presigned object-storage URL. A nil
// client means an instrumented default client.
func PutPresigned(ctx context.Context, client *http.Client, url, contentType string, data []byte) error {
	if client == nil {
		client = defaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
