package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Wire carries one attempt's raw transport exchange. Body is fully read
// and the response body closed before Wire is returned.
type Wire struct {
	Status   int
	Header   http.Header
	Body     []byte
	Request  *http.Request
	Response *http.Response
}

// EncodeBody serializes a request payload. Raw payloads (bytes, strings,
// readers) pass through untouched; anything else marshals to JSON when the
// negotiated content type is a JSON type, or renders as text otherwise.
func EncodeBody(payload any, contentType string) ([]byte, error) {
	switch val := payload.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return val, nil
	case []byte:
		return val, nil
	case string:
		return []byte(val), nil
	}

	if r, ok := payload.(io.Reader); ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}
		return data, nil
	}

	if strings.Contains(contentType, "json") {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		return data, nil
	}

	return []byte(fmt.Sprint(payload)), nil
}

// Dispatch sends one request and reads the full response body. Transport
// errors return as-is: a failure with no received response is never
// wrapped, so callers can inspect the original error directly.
func Dispatch(ctx context.Context, client *http.Client, method, rawurl string, body []byte, header http.Header) (*Wire, error) {
	if client == nil {
		client = http.DefaultClient
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawurl, reader)
	if err != nil {
		return nil, err
	}
	if header != nil {
		req.Header = header.Clone()
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Wire{
		Status:   resp.StatusCode,
		Header:   resp.Header,
		Body:     data,
		Request:  req,
		Response: resp,
	}, nil
}
