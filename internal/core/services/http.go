// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxResponseBytes caps any provider body read into memory. A larger body
// is an error, never a truncated result.
var MaxResponseBytes int64 = 64 << 20

const snippetRunes = 200

func httpClientOrDefault(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}

// fetch performs req and returns the body of a 200 response. Anything else
// is a *ProviderError carrying the status and a prefix of the body.
func fetch(ctx context.Context, client *http.Client, provider string, req *http.Request) ([]byte, error) {
	resp, err := httpClientOrDefault(client).Do(req.WithContext(ctx))
	if err != nil {
		return nil, &ProviderError{Provider: provider, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: provider, StatusCode: resp.StatusCode, Err: errors.New(snippet(body))}
	}
	if err != nil {
		return nil, &ProviderError{Provider: provider, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	if int64(len(body)) > MaxResponseBytes {
		return nil, &ProviderError{Provider: provider, Err: fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, MaxResponseBytes)}
	}
	return body, nil
}

func fetchJSON(ctx context.Context, client *http.Client, provider string, req *http.Request, out interface{}) error {
	body, err := fetch(ctx, client, provider, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ProviderError{Provider: provider, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if r := []rune(s); len(r) > snippetRunes {
		s = string(r[:snippetRunes]) + "..."
	}
	if s == "" {
		return "empty body"
	}
	return s
}
