// server/internal/transfer/draft.go
package transfer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"warehouse-transfer-api-server/internal/models"
)

// Trạng thái của một phiếu chuyển kho đang soạn.
type State string

const (
	StateEmpty         State = "Empty"
	StateEditingLinked State = "EditingLinked"
	StateEditingManual State = "EditingManual"
	StateSubmitting    State = "Submitting"
	StateSubmitted     State = "Submitted"
)

var (
	// ErrSubmitInFlight: đã có một lần gửi đang chạy trên phiếu này.
	ErrSubmitInFlight = errors.New("a submission is already in flight for this draft")
	// ErrWrongMode: thao tác không hợp lệ với chế độ chọn sản phẩm hiện tại.
	ErrWrongMode = errors.New("operation not valid in the current product mode")
	// ErrIndexOutOfRange: chỉ số dòng sản phẩm nằm ngoài danh sách.
	ErrIndexOutOfRange = errors.New("product index out of range")
	// ErrDraftLocked: phiếu đang gửi, không cho sửa thêm.
	ErrDraftLocked = errors.New("draft is locked while submitting")
)

// ValidationError là lỗi nhập liệu gắn với một trường cụ thể. Lỗi loại
// này không bao giờ thoát ra ngoài builder dưới dạng lỗi hệ thống; handler
// dịch nó thành phản hồi 400 với tên trường.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// QuantityWarning báo số lượng nhập vượt trần còn thiếu và đã bị kẹp lại.
// Không phải lỗi: giá trị đã được lưu (sau khi kẹp), nhưng dashboard phải
// hiển thị cảnh báo thay vì kẹp âm thầm.
type QuantityWarning struct {
	Index     int `json:"index"`
	Requested int `json:"requested"`
	ClampedTo int `json:"clampedTo"`
}

// LinkedProduct là một dòng sản phẩm lấy từ yêu cầu xuất kho đã liên kết.
// Quantity luôn nằm trong [1, RemainingQuantity]. Dòng bỏ chọn vẫn hiển
// thị nhưng không vào payload.
type LinkedProduct struct {
	ProductID         string `json:"productId"`
	ProductName       string `json:"productName"`
	RemainingQuantity int    `json:"remainingQuantity"`
	Quantity          int    `json:"quantity"`
	Unit              string `json:"unit"`
	Selected          bool   `json:"selected"`
	Warning           string `json:"warning,omitempty"`
}

// ManualProduct là một dòng sản phẩm tự chọn từ danh mục, không bị ràng
// buộc bởi số lượng còn thiếu của yêu cầu nào.
type ManualProduct struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit"`
	Notes       string `json:"notes"`
}

// productSource là biến thể có nhãn của hai chế độ chọn sản phẩm. Chỉ một
// trong hai slice được phép khác nil tại mọi thời điểm; mọi chuyển chế độ
// đi qua switchToLinked/switchToManual nên hai chế độ không bao giờ cùng
// có dữ liệu.
type productSource struct {
	linkedRequestID *string
	linked          []LinkedProduct
	manual          []ManualProduct
}

// Draft là phiếu chuyển kho đang soạn, sống từ lúc mở dialog tới lúc gửi
// thành công hoặc bị hủy. Không bao giờ được lưu xuống đâu cả.
type Draft struct {
	mu sync.Mutex

	ID                string
	SourceWarehouseID string

	state                  State
	destinationWarehouseID string
	expectedDeliveryDate   *time.Time
	notes                  string
	source                 productSource

	// Snapshot danh mục dùng để kiểm tra productId ở chế độ thủ công.
	catalog map[string]models.Product
}

// NewDraft mở một phiếu rỗng cho kho nguồn của phiên. catalog là danh mục
// sản phẩm đã tải, dùng để xác thực dòng thủ công.
func NewDraft(sourceWarehouseID string, catalog []models.Product) *Draft {
	byID := make(map[string]models.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ProductID] = p
	}
	return &Draft{
		ID:                fmt.Sprintf("DRF-%s", uuid.New().String()[:8]),
		SourceWarehouseID: sourceWarehouseID,
		state:             StateEmpty,
		catalog:           byID,
	}
}

func (d *Draft) editable() error {
	if d.state == StateSubmitting {
		return ErrDraftLocked
	}
	if d.state == StateSubmitted {
		return errors.New("draft already submitted")
	}
	return nil
}

// SelectExportRequest chuyển phiếu sang chế độ liên kết với một yêu cầu
// xuất kho: các dòng còn thiếu của yêu cầu đó được nạp vào, tất cả được
// chọn sẵn với số lượng bằng số còn thiếu. Dòng thủ công đang soạn (nếu
// có) bị bỏ; số dòng bị bỏ được trả về để dashboard cảnh báo nếu muốn.
func (d *Draft) SelectExportRequest(requestID string, lines []models.ExportRequestLine) (discarded int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return 0, err
	}

	discarded = len(d.source.manual) + len(d.source.linked)

	linked := []LinkedProduct{}
	for _, line := range lines {
		if line.RequestExportID != requestID || line.RemainingQuantity <= 0 {
			continue
		}
		linked = append(linked, LinkedProduct{
			ProductID:         line.ProductID,
			ProductName:       line.ProductName,
			RemainingQuantity: line.RemainingQuantity,
			Quantity:          line.RemainingQuantity,
			Selected:          true,
		})
	}

	id := requestID
	d.source = productSource{linkedRequestID: &id, linked: linked}
	d.state = StateEditingLinked
	return discarded, nil
}

// SelectNone chuyển phiếu về chế độ thủ công, bỏ mọi dòng liên kết.
func (d *Draft) SelectNone() (discarded int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return 0, err
	}

	discarded = len(d.source.linked)
	d.source = productSource{manual: []ManualProduct{}}
	d.state = StateEditingManual
	return discarded, nil
}

// ToggleProductSelected đảo cờ chọn của một dòng liên kết. Dòng bỏ chọn
// vẫn nằm trong danh sách.
func (d *Draft) ToggleProductSelected(index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}
	if d.state != StateEditingLinked {
		return ErrWrongMode
	}
	if index < 0 || index >= len(d.source.linked) {
		return ErrIndexOutOfRange
	}

	d.source.linked[index].Selected = !d.source.linked[index].Selected
	return nil
}

// SetProductQuantity đặt số lượng cho một dòng sản phẩm.
//
// Chế độ liên kết: giá trị không dương bị từ chối; giá trị vượt trần còn
// thiếu bị kẹp về trần và trả về một QuantityWarning để hiển thị. Chế độ
// thủ công: chấp nhận mọi số nguyên dương, không có trần.
func (d *Draft) SetProductQuantity(index, value int) (*QuantityWarning, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return nil, err
	}
	if value <= 0 {
		return nil, &ValidationError{Field: "quantity", Message: "quantity must be a positive integer"}
	}

	switch d.state {
	case StateEditingLinked:
		if index < 0 || index >= len(d.source.linked) {
			return nil, ErrIndexOutOfRange
		}
		row := &d.source.linked[index]
		if value > row.RemainingQuantity {
			row.Quantity = row.RemainingQuantity
			row.Warning = fmt.Sprintf("requested %d exceeds remaining quantity %d", value, row.RemainingQuantity)
			return &QuantityWarning{Index: index, Requested: value, ClampedTo: row.RemainingQuantity}, nil
		}
		row.Quantity = value
		row.Warning = ""
		return nil, nil

	case StateEditingManual:
		if index < 0 || index >= len(d.source.manual) {
			return nil, ErrIndexOutOfRange
		}
		d.source.manual[index].Quantity = value
		return nil, nil

	default:
		return nil, ErrWrongMode
	}
}

// AddManualProduct thêm một dòng thủ công. ProductID phải có trong danh
// mục đã nạp và số lượng phải dương; dòng không hợp lệ bị từ chối và danh
// sách giữ nguyên.
func (d *Draft) AddManualProduct(productID string, quantity int, unit, notes string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}
	if d.state == StateEditingLinked {
		return ErrWrongMode
	}
	if quantity <= 0 {
		return &ValidationError{Field: "quantity", Message: "quantity must be a positive integer"}
	}
	product, ok := d.catalog[productID]
	if productID == "" || !ok {
		return &ValidationError{Field: "productId", Message: "product is not in the catalog"}
	}

	if unit == "" {
		unit = product.Unit
	}

	// Thêm dòng đầu tiên từ trạng thái Empty cũng đưa phiếu vào chế độ thủ công.
	if d.state == StateEmpty {
		d.source = productSource{manual: []ManualProduct{}}
		d.state = StateEditingManual
	}

	d.source.manual = append(d.source.manual, ManualProduct{
		ProductID:   productID,
		ProductName: product.ProductName,
		Quantity:    quantity,
		Unit:        unit,
		Notes:       notes,
	})
	return nil
}

// RemoveManualProduct xóa một dòng thủ công vô điều kiện.
func (d *Draft) RemoveManualProduct(index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}
	if d.state != StateEditingManual {
		return ErrWrongMode
	}
	if index < 0 || index >= len(d.source.manual) {
		return ErrIndexOutOfRange
	}

	d.source.manual = append(d.source.manual[:index], d.source.manual[index+1:]...)
	return nil
}

// SetDestination chọn kho đích; phải khác kho nguồn.
func (d *Draft) SetDestination(warehouseID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}
	if warehouseID == d.SourceWarehouseID {
		return &ValidationError{Field: "destinationWarehouseId", Message: "destination must differ from the source warehouse"}
	}
	d.destinationWarehouseID = warehouseID
	return nil
}

// SetDeliveryDate đặt ngày giao dự kiến; không được ở quá khứ.
func (d *Draft) SetDeliveryDate(date time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}
	today := time.Now().Truncate(24 * time.Hour)
	if date.Before(today) {
		return &ValidationError{Field: "expectedDeliveryDate", Message: "expected delivery date cannot be in the past"}
	}
	d.expectedDeliveryDate = &date
	return nil
}

// SetNotes cập nhật ghi chú tự do.
func (d *Draft) SetNotes(notes string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}
	d.notes = notes
	return nil
}

// effectiveProducts trả về các dòng sẽ vào payload: dòng liên kết đang
// được chọn, hoặc toàn bộ dòng thủ công. Gọi khi đã giữ lock.
func (d *Draft) effectiveProducts() []models.TransferProductPayload {
	var products []models.TransferProductPayload
	for _, row := range d.source.linked {
		if !row.Selected {
			continue
		}
		products = append(products, models.TransferProductPayload{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			Unit:      row.Unit,
		})
	}
	for _, row := range d.source.manual {
		products = append(products, models.TransferProductPayload{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			Unit:      row.Unit,
			Notes:     row.Notes,
		})
	}
	return products
}

func (d *Draft) validateLocked() error {
	if d.expectedDeliveryDate == nil {
		return &ValidationError{Field: "expectedDeliveryDate", Message: "expected delivery date is required"}
	}
	if d.destinationWarehouseID == "" {
		return &ValidationError{Field: "destinationWarehouseId", Message: "destination warehouse is required"}
	}
	if len(d.effectiveProducts()) == 0 {
		return &ValidationError{Field: "products", Message: "at least one product must be included"}
	}
	return nil
}

// ValidateForSubmit kiểm tra phiếu đủ điều kiện gửi chưa. Lỗi trả về là
// *ValidationError gắn với trường thiếu.
func (d *Draft) ValidateForSubmit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.validateLocked()
}

// BeginSubmit khóa phiếu và trả về payload để gửi. Chỉ một lần gửi được
// phép tại một thời điểm: gọi lần hai khi đang gửi trả về ErrSubmitInFlight
// và không có POST thứ hai nào được phát.
func (d *Draft) BeginSubmit() (models.CreateTransferPayload, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateSubmitting {
		return models.CreateTransferPayload{}, ErrSubmitInFlight
	}
	if d.state == StateSubmitted {
		return models.CreateTransferPayload{}, errors.New("draft already submitted")
	}
	if err := d.validateLocked(); err != nil {
		return models.CreateTransferPayload{}, err
	}

	payload := models.CreateTransferPayload{
		DestinationWarehouseID: d.destinationWarehouseID,
		ExpectedDeliveryDate:   d.expectedDeliveryDate.Format(time.RFC3339),
		Notes:                  d.notes,
		RequestExportID:        d.source.linkedRequestID,
		Products:               d.effectiveProducts(),
	}

	d.state = StateSubmitting
	return payload, nil
}

// FinishSubmit ghi nhận kết quả gửi. Thành công: phiếu chuyển sang
// Submitted và sẽ bị hủy. Thất bại: phiếu quay về trạng thái soạn trước
// đó, giữ nguyên dữ liệu để người dùng thử lại.
func (d *Draft) FinishSubmit(ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateSubmitting {
		return
	}
	if ok {
		d.state = StateSubmitted
		return
	}
	if d.source.linkedRequestID != nil {
		d.state = StateEditingLinked
	} else {
		d.state = StateEditingManual
	}
}

// Snapshot là ảnh chụp phiếu trả về cho dashboard sau mỗi thao tác.
type Snapshot struct {
	ID                     string          `json:"id"`
	State                  State           `json:"state"`
	SourceWarehouseID      string          `json:"sourceWarehouseId"`
	DestinationWarehouseID string          `json:"destinationWarehouseId"`
	ExpectedDeliveryDate   string          `json:"expectedDeliveryDate,omitempty"`
	Notes                  string          `json:"notes"`
	LinkedRequestID        *string         `json:"linkedRequestId"`
	LinkedProducts         []LinkedProduct `json:"linkedProducts,omitempty"`
	ManualProducts         []ManualProduct `json:"manualProducts,omitempty"`
}

// Snapshot trả về trạng thái hiện tại của phiếu.
func (d *Draft) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := Snapshot{
		ID:                     d.ID,
		State:                  d.state,
		SourceWarehouseID:      d.SourceWarehouseID,
		DestinationWarehouseID: d.destinationWarehouseID,
		Notes:                  d.notes,
		LinkedRequestID:        d.source.linkedRequestID,
	}
	if d.expectedDeliveryDate != nil {
		snap.ExpectedDeliveryDate = d.expectedDeliveryDate.Format(time.RFC3339)
	}
	snap.LinkedProducts = append([]LinkedProduct(nil), d.source.linked...)
	snap.ManualProducts = append([]ManualProduct(nil), d.source.manual...)
	return snap
}

// State trả về trạng thái máy trạng thái hiện tại.
func (d *Draft) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}
