//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

const baseURL = "http://localhost:8080"

func doJSON(t *testing.T, method, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			t.Fatalf("Failed to encode payload: %v", err)
		}
	}

	req, err := http.NewRequest(method, baseURL+path, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "e2e-user")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	return resp, result
}

func TestPaymentFlowE2E(t *testing.T) {
	shipmentID := "e2e-ship-" + time.Now().Format("20060102150405")

	resp, result := doJSON(t, http.MethodPost, "/api/v1/payments", map[string]interface{}{
		"shipment_id": shipmentID,
		"amount":      1500.00,
		"currency":    "INR",
		"method":      "upi",
		"upi_id":      "e2e@examplebank",
	})

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %v", resp.StatusCode, result)
	}

	payment, ok := result["payment"].(map[string]interface{})
	if !ok {
		t.Fatal("Response doesn't contain payment object")
	}
	paymentID, _ := payment["id"].(string)
	if paymentID == "" {
		t.Fatal("Payment ID is missing")
	}
	if payment["status"] != "processing" {
		t.Errorf("Expected processing, got %v", payment["status"])
	}

	t.Logf("Payment created: %v", paymentID)

	// The standard confirmation delay is 5 seconds; poll until completed.
	deadline := time.Now().Add(15 * time.Second)
	for {
		resp, result := doJSON(t, http.MethodGet, "/api/v1/payments/"+paymentID, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}
		payment := result["payment"].(map[string]interface{})
		if payment["status"] == "completed" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Payment never completed, last status %v", payment["status"])
		}
		time.Sleep(500 * time.Millisecond)
	}

	// The shipment projection follows.
	_, result = doJSON(t, http.MethodGet, "/api/v1/shipments/"+shipmentID+"/payment", nil)
	shipment, ok := result["shipment"].(map[string]interface{})
	if !ok {
		t.Fatal("Response doesn't contain shipment projection")
	}
	if shipment["payment_status"] != "paid" {
		t.Errorf("Expected paid, got %v", shipment["payment_status"])
	}

	// And the confirmation notification is listable.
	_, result = doJSON(t, http.MethodGet, "/api/v1/notifications", nil)
	notifications, ok := result["notifications"].([]interface{})
	if !ok || len(notifications) == 0 {
		t.Fatal("Expected at least one notification")
	}
}

func TestDuplicatePaymentE2E(t *testing.T) {
	shipmentID := "e2e-dup-" + time.Now().Format("20060102150405")
	payload := map[string]interface{}{
		"shipment_id": shipmentID,
		"amount":      900.00,
		"currency":    "INR",
		"method":      "netbanking",
	}

	resp, _ := doJSON(t, http.MethodPost, "/api/v1/payments", payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, "/api/v1/payments", payload)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", resp.StatusCode)
	}
}
