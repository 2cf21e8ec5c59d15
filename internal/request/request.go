/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ToJsonReq marshals payload into a buffer usable as a request body.
func ToJsonReq(payload interface{}) (*bytes.Buffer, error) {
	c, e := json.Marshal(payload)
	if e != nil {
		return nil, e
	}
	return bytes.NewBuffer(c), nil
}

// NewJSONRequest builds a request carrying payload as JSON plus any extra headers.
func NewJSONRequest(ctx context.Context, method, url string, payload interface{}, headers map[string]string) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		buf, err := ToJsonReq(payload)
		if err != nil {
			return nil, err
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// Call sends req with client (http.DefaultClient when nil) and decodes a JSON
// response into response. Non-2xx responses are returned as errors. An empty
// body is not an error.
func Call(client *http.Client, req *http.Request, response interface{}) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, fmt.Errorf("request to %s failed with status %d: %s", req.URL.Redacted(), resp.StatusCode, bytes.TrimSpace(raw))
	}
	if response == nil || len(bytes.TrimSpace(raw)) == 0 {
		return resp, nil
	}
	return resp, json.Unmarshal(raw, response)
}
