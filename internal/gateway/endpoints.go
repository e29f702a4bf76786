// server/internal/gateway/endpoints.go
package gateway

import (
	"context"
	"net/http"

	"warehouse-transfer-api-server/internal/models"
)

// Các wrapper endpoint của API kho. Đường dẫn giữ nguyên theo API hiện có
// (một số route đặt tên PascalCase, một số kebab-case).

// FetchExportRequestLines lấy các dòng yêu cầu xuất kho của một kho nguồn.
func (c *Client) FetchExportRequestLines(ctx context.Context, token, warehouseID string) ([]models.ExportRequestLine, error) {
	var lines []models.ExportRequestLine
	if err := c.doJSON(ctx, http.MethodGet, "/WarehouseRequestExport/warehouse/"+warehouseID, token, nil, &lines); err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []models.ExportRequestLine{}
	}
	return lines, nil
}

// FetchTransfersBySource lấy lịch sử phiếu chuyển đi từ một kho.
func (c *Client) FetchTransfersBySource(ctx context.Context, token, warehouseID string) ([]models.TransferRecord, error) {
	var records []models.TransferRecord
	if err := c.doJSON(ctx, http.MethodGet, "/warehouse-transfer/by-source/"+warehouseID, token, nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.TransferRecord{}
	}
	return records, nil
}

// FetchTransfersByDestination lấy lịch sử phiếu chuyển đến một kho.
func (c *Client) FetchTransfersByDestination(ctx context.Context, token, warehouseID string) ([]models.TransferRecord, error) {
	var records []models.TransferRecord
	if err := c.doJSON(ctx, http.MethodGet, "/warehouse-transfer/by-destination/"+warehouseID, token, nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.TransferRecord{}
	}
	return records, nil
}

// FetchWarehouses lấy danh sách kho.
func (c *Client) FetchWarehouses(ctx context.Context, token string) ([]models.Warehouse, error) {
	var warehouses []models.Warehouse
	if err := c.doJSON(ctx, http.MethodGet, "/warehouse", token, nil, &warehouses); err != nil {
		return nil, err
	}
	if warehouses == nil {
		warehouses = []models.Warehouse{}
	}
	return warehouses, nil
}

// FetchProducts lấy danh mục sản phẩm.
func (c *Client) FetchProducts(ctx context.Context, token string) ([]models.Product, error) {
	var products []models.Product
	if err := c.doJSON(ctx, http.MethodGet, "/product", token, nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// CreateTransfer gửi phiếu chuyển kho. Payload được gửi nguyên khối trong
// một POST duy nhất, không có giao dịch nhiều bước phía client.
func (c *Client) CreateTransfer(ctx context.Context, token string, payload models.CreateTransferPayload) error {
	return c.doJSON(ctx, http.MethodPost, "/WarehouseTransfer", token, payload, nil)
}

// ApproveTransfer duyệt một phiếu chuyển kho đang chờ.
func (c *Client) ApproveTransfer(ctx context.Context, token, warehouseTransferRequestID string) error {
	payload := models.ApproveTransferPayload{WarehouseTransferRequestID: warehouseTransferRequestID}
	return c.doJSON(ctx, http.MethodPost, "/warehouse-transfer/approve/", token, payload, nil)
}

// AutoCreateFromRemaining tạo phiếu chuyển từ toàn bộ số lượng còn thiếu
// của một yêu cầu xuất kho, do server tự tính dòng sản phẩm.
func (c *Client) AutoCreateFromRemaining(ctx context.Context, token string, payload models.AutoCreateTransferPayload) error {
	return c.doJSON(ctx, http.MethodPost, "/WarehouseTransfer/auto-create-from-remaining", token, payload, nil)
}
