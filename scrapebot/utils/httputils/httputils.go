package httputils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// PostJSON posts a JSON body and decodes a JSON response into resp (skipped
// when resp is nil).
func PostJSON(ctx context.Context, url string, body interface{}, resp interface{}) error {
	return postJSON(ctx, url, body, resp, nil)
}

// PostJSONWithHeaders is PostJSON with extra request headers, used by LLM
// clients that need provider-specific auth headers.
func PostJSONWithHeaders(ctx context.Context, url string, headers map[string]string, body interface{}, resp interface{}) error {
	return postJSON(ctx, url, body, resp, headers)
}

func postJSON(ctx context.Context, url string, body, resp interface{}, headers map[string]string) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	r, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if r.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(r.Body)
		return fmt.Errorf("bad status: %s - %s", r.Status, string(b))
	}
	if resp != nil {
		return json.NewDecoder(r.Body).Decode(resp)
	}
	return nil
}
