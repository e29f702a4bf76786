// server/internal/transfer/grouper.go
package transfer

import "warehouse-transfer-api-server/internal/models"

// GroupExportRequests gom các dòng yêu cầu xuất kho thành một mục trên
// mỗi requestExportId cho màn hình duyệt.
//
// Dòng đã đủ hàng (remainingQuantity == 0) bị loại trước khi gom; một yêu
// cầu mà mọi dòng đều đủ hàng sẽ không xuất hiện trong kết quả. Mã đơn và
// tên đại lý lấy từ dòng đầu tiên của nhóm; thứ tự kết quả theo thứ tự
// xuất hiện đầu tiên của requestExportId trong input, không sắp xếp thêm.
// Hàm thuần túy, an toàn gọi lại trên mỗi lần dữ liệu thay đổi.
func GroupExportRequests(lines []models.ExportRequestLine) []models.GroupedExportRequest {
	groups := []models.GroupedExportRequest{}
	index := make(map[string]int)

	for _, line := range lines {
		if line.RemainingQuantity <= 0 {
			continue
		}

		i, ok := index[line.RequestExportID]
		if !ok {
			groups = append(groups, models.GroupedExportRequest{
				RequestExportID: line.RequestExportID,
				OrderCode:       line.OrderCode,
				AgencyName:      line.AgencyName,
				Products:        []models.GroupedProduct{},
			})
			i = len(groups) - 1
			index[line.RequestExportID] = i
		}

		groups[i].Products = append(groups[i].Products, models.GroupedProduct{
			ProductName:       line.ProductName,
			RemainingQuantity: line.RemainingQuantity,
		})
	}

	return groups
}
