// Package store is the HTTP client for the external index-storage
// collaborator. A finished build persists as one atomic document write.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client communicates with the storage HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a client for the given base URL and key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// DocumentInfo is one entry from a document listing.
type DocumentInfo struct {
	DocID       string `json:"doc_id"`
	Filename    string `json:"filename,omitempty"`
	Title       string `json:"title,omitempty"`
	ContentHash string `json:"content_hash,omitempty"`
	PageCount   int    `json:"page_count,omitempty"`
	ChunkCount  int    `json:"chunk_count,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// PutDocument stores the full build output for a document in one write.
func (c *Client) PutDocument(ctx context.Context, docID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPut, "/documents/"+url.PathEscape(docID), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("put document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("put document %s: status %d: %s", docID, resp.StatusCode, readError(resp))
	}
	return nil
}

// GetDocument retrieves a stored document payload, or nil if absent.
func (c *Client) GetDocument(ctx context.Context, docID string) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/documents/"+url.PathEscape(docID), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get document %s: status %d: %s", docID, resp.StatusCode, readError(resp))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return json.RawMessage(data), nil
}

// DeleteDocument removes a document and everything derived from it.
func (c *Client) DeleteDocument(ctx context.Context, docID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/documents/"+url.PathEscape(docID), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete document %s: status %d: %s", docID, resp.StatusCode, readError(resp))
	}
	return nil
}

// ListDocuments returns document summaries, newest first.
func (c *Client) ListDocuments(ctx context.Context, limit int) ([]DocumentInfo, error) {
	path := "/documents"
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list documents: status %d: %s", resp.StatusCode, readError(resp))
	}

	var result struct {
		Documents []DocumentInfo `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return result.Documents, nil
}

// FindByHash resolves a content hash to an existing doc id, or "" if none.
func (c *Client) FindByHash(ctx context.Context, hash string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/documents/by_hash/"+url.PathEscape(hash), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("find by hash: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("find by hash: status %d: %s", resp.StatusCode, readError(resp))
	}

	var result struct {
		DocID string `json:"doc_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode hash lookup: %w", err)
	}
	return result.DocID, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return req, nil
}

func readError(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return string(data)
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
