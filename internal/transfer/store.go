// server/internal/transfer/store.go
package transfer

import (
	"errors"
	"sync"
)

// ErrDraftNotFound: phiếu không tồn tại hoặc đã bị hủy.
var ErrDraftNotFound = errors.New("draft not found")

// Store giữ các phiếu đang soạn trong bộ nhớ, theo ID phiếu. Phiếu chỉ
// sống trong vòng đời của dialog: tạo khi mở, xóa khi gửi thành công hoặc
// khi người dùng hủy. Không có persistence.
type Store struct {
	mu     sync.RWMutex
	drafts map[string]*Draft
}

func NewStore() *Store {
	return &Store{drafts: make(map[string]*Draft)}
}

// Put đăng ký một phiếu mới vào store.
func (s *Store) Put(d *Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.ID] = d
}

// Get tìm phiếu theo ID.
func (s *Store) Get(id string) (*Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return d, nil
}

// Delete hủy phiếu. Gọi được nhiều lần, không lỗi khi phiếu đã mất.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
}
