package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"warehouse-transfer-api-server/internal/models"
)

func TestGroupExportRequests(t *testing.T) {
	lines := []models.ExportRequestLine{
		{RequestExportID: "1", ProductID: "10", ProductName: "X", RemainingQuantity: 5, OrderCode: "ORD-1", AgencyName: "Agency A"},
		{RequestExportID: "2", ProductID: "20", ProductName: "Z", RemainingQuantity: 3, OrderCode: "ORD-2", AgencyName: "Agency B"},
		{RequestExportID: "1", ProductID: "12", ProductName: "W", RemainingQuantity: 7, OrderCode: "ORD-1", AgencyName: "Agency A"},
	}

	groups := GroupExportRequests(lines)

	assert.Len(t, groups, 2)

	// Thứ tự nhóm theo lần xuất hiện đầu tiên của request trong input.
	assert.Equal(t, "1", groups[0].RequestExportID)
	assert.Equal(t, "ORD-1", groups[0].OrderCode)
	assert.Equal(t, "Agency A", groups[0].AgencyName)
	assert.Equal(t, []models.GroupedProduct{
		{ProductName: "X", RemainingQuantity: 5},
		{ProductName: "W", RemainingQuantity: 7},
	}, groups[0].Products)

	assert.Equal(t, "2", groups[1].RequestExportID)
	assert.Len(t, groups[1].Products, 1)
}

func TestGroupExportRequestsDropsFulfilledLines(t *testing.T) {
	lines := []models.ExportRequestLine{
		{RequestExportID: "1", ProductID: "10", ProductName: "X", RemainingQuantity: 5},
		{RequestExportID: "1", ProductID: "11", ProductName: "Y", RemainingQuantity: 0},
	}

	groups := GroupExportRequests(lines)

	// Dòng đã đủ hàng bị loại nhưng nhóm vẫn hình thành từ dòng còn lại.
	assert.Len(t, groups, 1)
	assert.Equal(t, "1", groups[0].RequestExportID)
	assert.Equal(t, []models.GroupedProduct{{ProductName: "X", RemainingQuantity: 5}}, groups[0].Products)
}

func TestGroupExportRequestsOmitsFullySatisfiedRequests(t *testing.T) {
	lines := []models.ExportRequestLine{
		{RequestExportID: "1", ProductName: "X", RemainingQuantity: 0},
		{RequestExportID: "1", ProductName: "Y", RemainingQuantity: 0},
		{RequestExportID: "2", ProductName: "Z", RemainingQuantity: 2},
	}

	groups := GroupExportRequests(lines)

	assert.Len(t, groups, 1)
	assert.Equal(t, "2", groups[0].RequestExportID)
}

func TestGroupExportRequestsEmptyInput(t *testing.T) {
	assert.Empty(t, GroupExportRequests(nil))
	assert.Empty(t, GroupExportRequests([]models.ExportRequestLine{}))
}
