package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nik-bond/pizzatg/internal/service"
	"github.com/nik-bond/pizzatg/internal/storage/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.New()
	t.Cleanup(func() { store.Close() })

	a := New(
		service.NewOrderService(store),
		service.NewDebtService(store),
		service.NewPaymentService(store),
	)
	server := httptest.NewServer(a.Handler())
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body map[string]any) (*http.Response, map[string]any) {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp, decodeBody(t, resp)
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return body
}

func createOrder(t *testing.T, server *httptest.Server, description string, amount string, payer string, participants []string, chatID int64) {
	t.Helper()

	resp, body := postJSON(t, server.URL+"/api/orders", map[string]any{
		"description":  description,
		"amount":       amount,
		"payer":        payer,
		"participants": participants,
		"chat_id":      chatID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create order: status %d, body %v", resp.StatusCode, body)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, body := getJSON(t, server.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server.URL+"/api/orders", map[string]any{
		"description":  "pizza",
		"amount":       "3000",
		"payer":        "ivan",
		"participants": []string{"ivan", "petya", "masha"},
		"chat_id":      1,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}

	order, ok := body["order"].(map[string]any)
	if !ok {
		t.Fatalf("missing order in response: %v", body)
	}
	if order["per_person_amount"] != "1000" {
		t.Errorf("per_person_amount = %v, want 1000", order["per_person_amount"])
	}
	if order["created_by"] != "ivan" {
		t.Errorf("created_by = %v, want payer fallback ivan", order["created_by"])
	}

	debts, ok := body["debts"].([]any)
	if !ok {
		t.Fatalf("missing debts in response: %v", body)
	}
	if len(debts) != 2 {
		t.Fatalf("expected 2 debt edges, got %d", len(debts))
	}
	for _, raw := range debts {
		debt := raw.(map[string]any)
		if debt["creditor"] != "ivan" {
			t.Errorf("creditor = %v, want ivan", debt["creditor"])
		}
		if debt["amount"] != "1000" {
			t.Errorf("amount = %v, want 1000", debt["amount"])
		}
	}
}

func TestCreateOrderValidation(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name    string
		body    map[string]any
		wantErr string
	}{
		{
			name: "zero amount",
			body: map[string]any{
				"amount": "0", "payer": "ivan",
				"participants": []string{"ivan", "petya"}, "chat_id": 1,
			},
			wantErr: "amount must be positive",
		},
		{
			name: "amount over limit",
			body: map[string]any{
				"amount": "1000000000.01", "payer": "ivan",
				"participants": []string{"ivan", "petya"}, "chat_id": 1,
			},
			wantErr: "amount exceeds limit",
		},
		{
			name: "too few participants",
			body: map[string]any{
				"amount": "100", "payer": "ivan",
				"participants": []string{}, "chat_id": 1,
			},
			wantErr: "at least two participants required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postJSON(t, server.URL+"/api/orders", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			if body["error"] != tt.wantErr {
				t.Errorf("error = %v, want %q", body["error"], tt.wantErr)
			}
		})
	}
}

func TestRecordPaymentEndpoint(t *testing.T) {
	server := newTestServer(t)
	createOrder(t, server, "pizza", "3000", "ivan", []string{"ivan", "petya", "masha"}, 1)

	t.Run("partial payment reduces the debt", func(t *testing.T) {
		resp, body := postJSON(t, server.URL+"/api/payments", map[string]any{
			"debtor": "petya", "creditor": "ivan", "amount": "400", "chat_id": 1,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, body %v", resp.StatusCode, body)
		}
		if body["remaining"] != "600" {
			t.Errorf("remaining = %v, want 600", body["remaining"])
		}
	})

	t.Run("overpayment is rejected", func(t *testing.T) {
		resp, body := postJSON(t, server.URL+"/api/payments", map[string]any{
			"debtor": "petya", "creditor": "ivan", "amount": "600.01", "chat_id": 1,
		})
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("status = %d, want 409, body %v", resp.StatusCode, body)
		}
	})

	t.Run("payment against missing debt is 404", func(t *testing.T) {
		resp, _ := postJSON(t, server.URL+"/api/payments", map[string]any{
			"debtor": "ivan", "creditor": "petya", "amount": "10", "chat_id": 1,
		})
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestDebtViewEndpoints(t *testing.T) {
	server := newTestServer(t)
	createOrder(t, server, "pizza", "3000", "ivan", []string{"ivan", "petya", "masha"}, 1)
	createOrder(t, server, "sushi", "600", "petya", []string{"petya", "ivan"}, 1)

	t.Run("debts owed by a user", func(t *testing.T) {
		resp, body := getJSON(t, server.URL+"/api/chats/1/users/petya/owes")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if body["total"] != "1000" {
			t.Errorf("total = %v, want 1000", body["total"])
		}
	})

	t.Run("debts owed to a user", func(t *testing.T) {
		resp, body := getJSON(t, server.URL+"/api/chats/1/users/ivan/owed")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if body["total"] != "2000" {
			t.Errorf("total = %v, want 2000", body["total"])
		}
	})

	t.Run("empty view carries a message", func(t *testing.T) {
		resp, body := getJSON(t, server.URL+"/api/chats/99/users/petya/owes")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if body["message"] != service.NoDebtsMessage {
			t.Errorf("message = %v, want %q", body["message"], service.NoDebtsMessage)
		}
	})

	t.Run("net balance between two users", func(t *testing.T) {
		resp, body := getJSON(t, server.URL+"/api/chats/1/balance?user_a=ivan&user_b=petya")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		// petya owes ivan 1000, ivan owes petya 300.
		if body["net_amount"] != "700" {
			t.Errorf("net_amount = %v, want 700", body["net_amount"])
		}
		if body["net_debtor"] != "petya" || body["net_creditor"] != "ivan" {
			t.Errorf("direction = %v -> %v, want petya -> ivan", body["net_debtor"], body["net_creditor"])
		}
	})

	t.Run("consolidated view for a user", func(t *testing.T) {
		resp, body := getJSON(t, server.URL+"/api/chats/1/debts/consolidated?user=ivan")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		balances, ok := body["balances"].([]any)
		if !ok || len(balances) != 2 {
			t.Fatalf("balances = %v, want 2 counterparties", body["balances"])
		}
		if body["total_i_owe"] != "300" {
			t.Errorf("total_i_owe = %v, want 300", body["total_i_owe"])
		}
		if body["total_they_owe"] != "2000" {
			t.Errorf("total_they_owe = %v, want 2000", body["total_they_owe"])
		}
	})

	t.Run("consolidated view requires a user", func(t *testing.T) {
		resp, _ := getJSON(t, server.URL+"/api/chats/1/debts/consolidated")
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestDeleteLastOrderEndpoint(t *testing.T) {
	server := newTestServer(t)
	createOrder(t, server, "pizza", "3000", "ivan", []string{"ivan", "petya", "masha"}, 1)

	req, err := http.NewRequest(http.MethodDelete,
		fmt.Sprintf("%s/api/orders/last?creator=%s&chat_id=%d", server.URL, "ivan", 1), nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	body := decodeBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	deleted, ok := body["deleted"].(map[string]any)
	if !ok || deleted["description"] != "pizza" {
		t.Errorf("deleted = %v, want the pizza order", body["deleted"])
	}

	// All generated edges are reversed away.
	viewResp, view := getJSON(t, server.URL+"/api/chats/1/debts")
	if viewResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", viewResp.StatusCode)
	}
	if view["message"] != service.NoDebtsMessage {
		t.Errorf("expected empty ledger, got %v", view)
	}

	// Second delete has nothing left to target.
	req2, err := http.NewRequest(http.MethodDelete,
		fmt.Sprintf("%s/api/orders/last?creator=%s&chat_id=%d", server.URL, "ivan", 1), nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	resp2, err := http.DefaultClient.Do(req2)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp2.StatusCode)
	}
}
