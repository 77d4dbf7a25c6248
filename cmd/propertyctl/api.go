package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/propertybazaar/server/internal/model"
)

const apiTimeout = 10 * time.Second

type listPropertiesResponse struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message"`
	Properties []model.Property `json:"properties"`
}

// fetchProperties reads the public listing from a running API server
func fetchProperties(ctx context.Context, baseURL string) ([]model.Property, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/api/properties", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch properties: %w", err)
	}
	defer resp.Body.Close()

	var body listPropertiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !body.Success {
		return nil, fmt.Errorf("fetch properties: status %d: %s", resp.StatusCode, body.Message)
	}
	return body.Properties, nil
}
