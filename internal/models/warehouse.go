// server/internal/models/warehouse.go
package models

// Warehouse là một kho trong hệ thống phân phối.
type Warehouse struct {
	WarehouseID   string `json:"warehouseId"`
	WarehouseName string `json:"warehouseName"`
	FullAddress   string `json:"fullAddress"`
}

// Product là một mặt hàng trong danh mục sản phẩm.
type Product struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Unit        string `json:"unit"`
}
