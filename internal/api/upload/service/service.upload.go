// Package uploadsvc - lưu ảnh tải lên và ghi nhận attachment.
package uploadsvc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	basesvc "vdg_commerce/internal/api/base/service"
	models "vdg_commerce/internal/api/upload/models"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/global"
	"vdg_commerce/internal/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// allowedTypes là các loại ảnh được nhận và phần mở rộng tương ứng
var allowedTypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

var (
	ErrFileTooLarge    = common.NewError(common.ErrCodeValidationInput, "Tệp vượt quá dung lượng cho phép", common.StatusBadRequest, nil)
	ErrFileType        = common.NewError(common.ErrCodeValidationFormat, "Chỉ nhận tệp ảnh (jpeg, png, gif, webp, svg)", common.StatusBadRequest, nil)
	ErrNoFile          = common.NewError(common.ErrCodeValidationInput, "Chưa chọn tệp", common.StatusBadRequest, nil)
	errLimitReached    = errors.New("limit reached")
	svgSniffPrefixes   = []string{"<svg", "<?xml"}
	sniffLen           = 512
	defaultMaxUploadMB = 10
)

// DetectType xác định MIME từ phần đầu nội dung; trả "" nếu không thuộc allowedTypes
func DetectType(head []byte) string {
	ct := http.DetectContentType(head)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if _, ok := allowedTypes[ct]; ok {
		return ct
	}
	if strings.HasPrefix(ct, "text/") {
		trimmed := strings.ToLower(strings.TrimSpace(string(head)))
		for _, p := range svgSniffPrefixes {
			if strings.HasPrefix(trimmed, p) && strings.Contains(trimmed, "<svg") {
				return "image/svg+xml"
			}
		}
	}
	return ""
}

// UploadService là service attachment
type UploadService struct {
	*basesvc.BaseServiceMongoImpl[models.Attachment]
	store    Storage
	baseURL  string
	maxBytes int64
}

// NewUploadService tạo UploadService theo cấu hình UPLOAD_*
func NewUploadService(store Storage) (*UploadService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Attachments)
	if !exist {
		return nil, fmt.Errorf("failed to get attachments collection: %w", common.ErrNotFound)
	}
	baseURL, maxMB := "", defaultMaxUploadMB
	if cfg := global.MongoDB_ServerConfig; cfg != nil {
		baseURL = cfg.UploadBaseURL
		if cfg.UploadMaxMB > 0 {
			maxMB = cfg.UploadMaxMB
		}
	}
	return &UploadService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Attachment](coll),
		store:                store,
		baseURL:              strings.TrimRight(baseURL, "/"),
		maxBytes:             int64(maxMB) << 20,
	}, nil
}

// Store trả storage đang dùng
func (s *UploadService) Store() Storage {
	return s.store
}

// URL dựng URL công khai của tệp
func (s *UploadService) URL(name string) string {
	return s.baseURL + "/" + name
}

// limitedReader trả errLimitReached khi đọc vượt quá n byte
type limitedReader struct {
	r io.Reader
	n int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.n < 0 {
		return 0, errLimitReached
	}
	if int64(len(p)) > l.n+1 {
		p = p[:l.n+1]
	}
	n, err := l.r.Read(p)
	l.n -= int64(n)
	if l.n < 0 {
		return n, errLimitReached
	}
	return n, err
}

// Put kiểm tra loại tệp và dung lượng, lưu với tên uuid rồi ghi attachment
func (s *UploadService) Put(ctx context.Context, sourceName string, r io.Reader, by *primitive.ObjectID) (*models.Attachment, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("đọc tệp: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrNoFile
	}
	mime := DetectType(head)
	if mime == "" {
		return nil, ErrFileType
	}

	name := uuid.NewString() + allowedTypes[mime]
	size, err := s.store.Save(name, &limitedReader{r: br, n: s.maxBytes})
	if err != nil {
		if errors.Is(err, errLimitReached) {
			return nil, ErrFileTooLarge
		}
		return nil, err
	}

	url := s.URL(name)
	att, err := s.InsertOne(ctx, models.Attachment{
		Original:   url,
		Thumbnail:  url,
		FileName:   name,
		SourceName: sourceName,
		MimeType:   mime,
		Size:       size,
		UploadedBy: by,
	})
	if err != nil {
		_ = s.store.Remove(name)
		return nil, err
	}
	logger.WithContext(ctx).WithFields(map[string]any{"file": name, "size": size, "mime": mime}).Info("✅ Đã lưu tệp tải lên")
	return &att, nil
}

// PutFiles lưu lần lượt các tệp multipart; lỗi ở tệp nào thì dừng và trả lỗi đó
func (s *UploadService) PutFiles(ctx context.Context, files []*multipart.FileHeader, by *primitive.ObjectID) ([]models.AttachmentRef, error) {
	if len(files) == 0 {
		return nil, ErrNoFile
	}
	out := make([]models.AttachmentRef, 0, len(files))
	for _, fh := range files {
		if fh.Size > s.maxBytes {
			return out, ErrFileTooLarge
		}
		f, err := fh.Open()
		if err != nil {
			return out, fmt.Errorf("mở tệp %s: %w", fh.Filename, err)
		}
		att, err := s.Put(ctx, fh.Filename, f, by)
		_ = f.Close()
		if err != nil {
			return out, err
		}
		out = append(out, att.Ref())
	}
	return out, nil
}

// Remove xoá attachment và tệp trên đĩa
func (s *UploadService) Remove(ctx context.Context, id primitive.ObjectID) error {
	att, err := s.FindOneById(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Remove(att.FileName); err != nil {
		logger.WithContext(ctx).WithError(err).WithField("file", att.FileName).Warn("⚠️ Không xoá được tệp")
	}
	return s.DeleteById(ctx, id)
}

// serveCSP chặn script và tài nguyên ngoài khi trình duyệt mở tệp trực tiếp
const serveCSP = "default-src 'none'; img-src 'self'; style-src 'unsafe-inline'; sandbox"

// ServeHeaders trả header khi phục vụ tệp đã tải lên. SVG luôn tải về dạng attachment.
func ServeHeaders(name string) map[string]string {
	h := map[string]string{
		"Cache-Control":           "public, max-age=86400",
		"Content-Security-Policy": serveCSP,
		"X-Content-Type-Options":  "nosniff",
	}
	if strings.EqualFold(filepath.Ext(name), allowedTypes["image/svg+xml"]) {
		h["Content-Disposition"] = fmt.Sprintf("attachment; filename=%q", filepath.Base(name))
	}
	return h
}
