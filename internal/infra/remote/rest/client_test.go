package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vacanza/internal/domain/availability"
)

func TestListBlocksWireFormat(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]string{
			{"id": "b1", "property_id": "P1", "date": "2024-03-10", "reason": "owner_occupied"},
		}})
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "tok123")
	blocks, err := client.ListBlocks(context.Background(), availability.ListFilter{PropertyID: "P1", Sort: "-date", Limit: 1000})
	if err != nil {
		t.Fatalf("ListBlocks: %v", err)
	}
	if gotPath != "/availability/filter?limit=1000&property_id=P1&sort=-date" {
		t.Fatalf("unexpected request path: %s", gotPath)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("missing bearer token, got %q", gotAuth)
	}
	if len(blocks) != 1 || blocks[0].ID != "b1" || blocks[0].Date != "2024-03-10" {
		t.Fatalf("unexpected blocks: %+v", blocks)
	}
}

func TestListBlocksAcceptsBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{
			{"id": "b1", "property_id": "P1", "date": "2024-03-10"},
			{"id": "b2", "property_id": "P2", "date": "2024-03-11"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "")
	blocks, err := client.ListBlocks(context.Background(), availability.ListFilter{})
	if err != nil {
		t.Fatalf("ListBlocks: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
}

func TestCreateBlockSendsBackendFieldNames(t *testing.T) {
	var payload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/availability" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(map[string]string{
			"id": "b9", "property_id": payload["property_id"], "date": payload["date"], "reason": payload["reason"],
		})
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "")
	block, err := client.CreateBlock(context.Background(), "P1", "2024-03-11", availability.ReasonOwnerOccupied)
	if err != nil {
		t.Fatalf("CreateBlock: %v", err)
	}
	if payload["property_id"] != "P1" || payload["date"] != "2024-03-11" || payload["reason"] != "owner_occupied" {
		t.Fatalf("wire payload mismatch: %v", payload)
	}
	if block.ID != "b9" {
		t.Fatalf("expected remote-assigned id b9, got %s", block.ID)
	}
}

func TestDeleteBlockTargetsID(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "")
	if err := client.DeleteBlock(context.Background(), "b42"); err != nil {
		t.Fatalf("DeleteBlock: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/availability/b42" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
}

func TestErrorResponsesSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "")
	if _, err := client.ListBlocks(context.Background(), availability.ListFilter{}); err == nil {
		t.Fatal("expected an error from a 500 response")
	}
	if err := client.DeleteBlock(context.Background(), "b1"); err == nil {
		t.Fatal("expected an error from a 500 response")
	}
}
