// server/internal/models/export_request.go
package models

// Trạng thái của một yêu cầu xuất kho.
const (
	ExportStatusPending  = "Pending"
	ExportStatusApproved = "Approved"
	ExportStatusRejected = "Rejected"
)

// ExportRequestLine là một dòng sản phẩm của một yêu cầu xuất kho,
// nhìn từ phía kho nguồn. RemainingQuantity giảm dần khi các lần
// chuyển kho được thực hiện; luôn <= QuantityRequested.
type ExportRequestLine struct {
	WarehouseRequestExportID string `json:"warehouseRequestExportId"`
	RequestExportID          string `json:"requestExportId"`
	ProductID                string `json:"productId"`
	ProductName              string `json:"productName"`
	QuantityRequested        int    `json:"quantityRequested"`
	RemainingQuantity        int    `json:"remainingQuantity"`
	OrderCode                string `json:"orderCode"`
	AgencyName               string `json:"agencyName"`
	Status                   string `json:"status"`
}

// GroupedProduct là một sản phẩm còn thiếu hàng trong một nhóm yêu cầu.
type GroupedProduct struct {
	ProductName       string `json:"productName"`
	RemainingQuantity int    `json:"remainingQuantity"`
}

// GroupedExportRequest gom các dòng của cùng một yêu cầu xuất kho lại
// thành một mục duy nhất cho màn hình duyệt. Dữ liệu dẫn xuất, tính lại
// mỗi lần danh sách dòng thay đổi, không bao giờ được lưu.
type GroupedExportRequest struct {
	RequestExportID string           `json:"requestExportId"`
	OrderCode       string           `json:"orderCode"`
	AgencyName      string           `json:"agencyName"`
	Products        []GroupedProduct `json:"products"`
}
