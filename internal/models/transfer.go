// server/internal/models/transfer.go
package models

import "time"

// TransferProductPayload là một dòng sản phẩm trong payload gửi lên
// API kho khi tạo phiếu chuyển.
type TransferProductPayload struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Unit      string `json:"unit"`
	Notes     string `json:"notes"`
}

// CreateTransferPayload là body của POST /WarehouseTransfer.
// RequestExportID là null khi phiếu được tạo ở chế độ thủ công.
type CreateTransferPayload struct {
	DestinationWarehouseID string                   `json:"destinationWarehouseId"`
	ExpectedDeliveryDate   string                   `json:"expectedDeliveryDate"` // ISO-8601
	Notes                  string                   `json:"notes"`
	RequestExportID        *string                  `json:"requestExportId"`
	Products               []TransferProductPayload `json:"products"`
}

// AutoCreateTransferPayload là body của POST /WarehouseTransfer/auto-create-from-remaining.
// Toàn bộ dòng sản phẩm do phía server tự tính từ số lượng còn thiếu.
type AutoCreateTransferPayload struct {
	RequestExportID        string `json:"requestExportId"`
	DestinationWarehouseID string `json:"destinationWarehouseId"`
	Notes                  string `json:"notes"`
}

// ApproveTransferPayload là body của POST /warehouse-transfer/approve/.
type ApproveTransferPayload struct {
	WarehouseTransferRequestID string `json:"warehouseTransferRequestId"`
}

// TransferRecord là một phiếu chuyển kho trong lịch sử (chỉ đọc).
type TransferRecord struct {
	WarehouseTransferRequestID string    `json:"warehouseTransferRequestId"`
	SourceWarehouseID          string    `json:"sourceWarehouseId"`
	SourceWarehouseName        string    `json:"sourceWarehouseName"`
	DestinationWarehouseID     string    `json:"destinationWarehouseId"`
	DestinationWarehouseName   string    `json:"destinationWarehouseName"`
	RequestExportID            *string   `json:"requestExportId"`
	Status                     string    `json:"status"`
	ExpectedDeliveryDate       string    `json:"expectedDeliveryDate"`
	Notes                      string    `json:"notes"`
	CreatedAt                  time.Time `json:"createdAt"`
}
