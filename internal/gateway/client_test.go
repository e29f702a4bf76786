package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"warehouse-transfer-api-server/internal/models"
)

func TestFetchExportRequestLinesForwardsBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"requestExportId":"REQ-1","productId":"7","productName":"X","quantityRequested":10,"remainingQuantity":4}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	lines, err := client.FetchExportRequestLines(context.Background(), "session-token", "WH-1")

	assert.NoError(t, err)
	assert.Equal(t, "Bearer session-token", gotAuth)
	assert.Equal(t, "/WarehouseRequestExport/warehouse/WH-1", gotPath)
	assert.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].RemainingQuantity)
}

func TestNullUpstreamBodyYieldsEmptySlice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	lines, err := client.FetchExportRequestLines(context.Background(), "t", "WH-1")

	assert.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestServerRejectionKeepsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"insufficient stock"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	err := client.CreateTransfer(context.Background(), "t", models.CreateTransferPayload{})

	assert.Error(t, err)
	assert.True(t, IsServerRejection(err))
	assert.False(t, IsNetwork(err))

	re := err.(*RequestError)
	assert.Equal(t, http.StatusUnprocessableEntity, re.Status)
	assert.Contains(t, re.Body, "insufficient stock")
}

func TestUnreachableUpstreamIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // đóng ngay để mô phỏng upstream không với tới được

	client := NewClient(server.URL, time.Second)
	_, err := client.FetchWarehouses(context.Background(), "t")

	assert.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.False(t, IsServerRejection(err))
}

func TestCreateTransferSendsPayloadAtomically(t *testing.T) {
	var gotBody string
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	requestID := "REQ-1"
	payload := models.CreateTransferPayload{
		DestinationWarehouseID: "WH-2",
		ExpectedDeliveryDate:   "2026-09-01T00:00:00Z",
		Notes:                  "urgent",
		RequestExportID:        &requestID,
		Products: []models.TransferProductPayload{
			{ProductID: "7", Quantity: 20, Unit: "box"},
		},
	}

	client := NewClient(server.URL, 5*time.Second)
	assert.NoError(t, client.CreateTransfer(context.Background(), "t", payload))

	// Một POST duy nhất, payload nguyên khối.
	assert.Equal(t, 1, calls)
	assert.Contains(t, gotBody, `"destinationWarehouseId":"WH-2"`)
	assert.Contains(t, gotBody, `"requestExportId":"REQ-1"`)
	assert.Contains(t, gotBody, `"quantity":20`)
}

func TestManualModePayloadHasNullRequestID(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	payload := models.CreateTransferPayload{
		DestinationWarehouseID: "WH-2",
		Products:               []models.TransferProductPayload{{ProductID: "7", Quantity: 1}},
	}
	assert.NoError(t, client.CreateTransfer(context.Background(), "t", payload))
	assert.Contains(t, gotBody, `"requestExportId":null`)
}
