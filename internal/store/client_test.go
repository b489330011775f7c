package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, "test-key"), srv
}

func TestPutDocument(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	})
	defer srv.Close()

	err := c.PutDocument(context.Background(), "doc1", map[string]any{"doc_id": "doc1"})
	if err != nil {
		t.Fatalf("PutDocument: %v", err)
	}
	if gotPath != "/documents/doc1" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotBody["doc_id"] != "doc1" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestPutDocument_ServerError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "disk full", http.StatusInternalServerError)
	})
	defer srv.Close()

	if err := c.PutDocument(context.Background(), "doc1", map[string]any{}); err == nil {
		t.Error("expected error on 500")
	}
}

func TestGetDocument_NotFoundIsNil(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer srv.Close()

	doc, err := c.GetDocument(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc != nil {
		t.Errorf("expected nil for 404, got %s", doc)
	}
}

func TestGetDocument(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"doc_id":"doc1","chunks":[]}`))
	})
	defer srv.Close()

	doc, err := c.GetDocument(context.Background(), "doc1")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	var payload struct {
		DocID string `json:"doc_id"`
	}
	if err := json.Unmarshal(doc, &payload); err != nil || payload.DocID != "doc1" {
		t.Errorf("unexpected payload %s", doc)
	}
}

func TestDeleteDocument_ToleratesNotFound(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer srv.Close()

	if err := c.DeleteDocument(context.Background(), "gone"); err != nil {
		t.Errorf("expected delete of a missing document to succeed, got %v", err)
	}
}

func TestListDocuments(t *testing.T) {
	var gotQuery string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{
			"documents": []map[string]any{
				{"doc_id": "a", "page_count": 3},
				{"doc_id": "b", "page_count": 7},
			},
		})
	})
	defer srv.Close()

	docs, err := c.ListDocuments(context.Background(), 50)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if gotQuery != "limit=50" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(docs) != 2 || docs[1].DocID != "b" || docs[1].PageCount != 7 {
		t.Errorf("unexpected docs: %+v", docs)
	}
}

func TestFindByHash(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/by_hash/abc123" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"doc_id": "doc1"})
	})
	defer srv.Close()

	docID, err := c.FindByHash(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("FindByHash: %v", err)
	}
	if docID != "doc1" {
		t.Errorf("doc id = %q", docID)
	}
}

func TestFindByHash_NoMatch(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer srv.Close()

	docID, err := c.FindByHash(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("FindByHash: %v", err)
	}
	if docID != "" {
		t.Errorf("expected empty doc id, got %q", docID)
	}
}
