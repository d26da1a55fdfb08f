package uploadsvc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"vdg_commerce/internal/common"
)

// Storage lưu nội dung tệp theo tên
type Storage interface {
	Save(name string, r io.Reader) (int64, error)
	Remove(name string) error
	Path(name string) (string, error)
}

// LocalStorage lưu tệp trong một thư mục trên đĩa
type LocalStorage struct {
	dir string
}

// NewLocalStorage tạo thư mục nếu chưa có
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("tạo thư mục upload %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir}, nil
}

var errBadFileName = common.NewError(common.ErrCodeValidationFormat, "Tên tệp không hợp lệ", common.StatusBadRequest, nil)

// Path trả đường dẫn tuyệt đối; chặn tên có thư mục con hoặc ".."
func (s *LocalStorage) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", errBadFileName
	}
	return filepath.Join(s.dir, name), nil
}

// Save ghi tệp mới; tệp đã tồn tại thì báo lỗi
func (s *LocalStorage) Save(name string, r io.Reader) (int64, error) {
	p, err := s.Path(name)
	if err != nil {
		return 0, err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("tạo tệp %s: %w", name, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(p)
		return 0, fmt.Errorf("ghi tệp %s: %w", name, err)
	}
	return n, nil
}

// Remove xoá tệp; không có tệp thì bỏ qua
func (s *LocalStorage) Remove(name string) error {
	p, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("xoá tệp %s: %w", name, err)
	}
	return nil
}
