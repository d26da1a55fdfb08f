// Package uploadhdl - handler tải tệp lên.
package uploadhdl

import (
	"fmt"
	"mime/multipart"

	basehdl "vdg_commerce/internal/api/base/handler"
	models "vdg_commerce/internal/api/upload/models"
	uploadsvc "vdg_commerce/internal/api/upload/service"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// formFields là các tên field multipart được nhận
var formFields = []string{"attachment", "attachment[]", "file", "files"}

// UploadHandler xử lý /upload
type UploadHandler struct {
	*basehdl.BaseHandler[models.Attachment, models.Attachment, models.Attachment]
	svc *uploadsvc.UploadService
}

// NewUploadHandler tạo UploadHandler với storage đã cho
func NewUploadHandler(store uploadsvc.Storage) (*UploadHandler, error) {
	svc, err := uploadsvc.NewUploadService(store)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload service: %w", err)
	}
	return &UploadHandler{
		BaseHandler: basehdl.NewBaseHandler[models.Attachment, models.Attachment, models.Attachment](svc),
		svc:         svc,
	}, nil
}

// CollectFiles gom tệp từ các field được nhận
func CollectFiles(form *multipart.Form) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	var files []*multipart.FileHeader
	for _, f := range formFields {
		files = append(files, form.File[f]...)
	}
	return files
}

// HandleUpload nhận một hoặc nhiều ảnh, trả [{id, original, thumbnail}]
// @Router /upload [post]
func (h *UploadHandler) HandleUpload(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		form, err := c.MultipartForm()
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "Yêu cầu phải là multipart/form-data", common.StatusBadRequest, err.Error()))
			return nil
		}
		refs, err := h.svc.PutFiles(c.Context(), CollectFiles(form), basehdl.GetUserID(c))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogAction("upload.create", c, map[string]any{"count": len(refs)})
		basehdl.HandleCreated(c, refs, nil)
		return nil
	})
}

// ServeFile trả nội dung tệp trong store theo :name kèm header an toàn
func ServeFile(store uploadsvc.Storage) fiber.Handler {
	return func(c fiber.Ctx) error {
		name := c.Params("name")
		p, err := store.Path(name)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		for k, v := range uploadsvc.ServeHeaders(name) {
			c.Set(k, v)
		}
		return c.SendFile(p)
	}
}

// HandleServe trả nội dung tệp theo tên
// @Router /upload/files/{name} [get]
func (h *UploadHandler) HandleServe(c fiber.Ctx) error {
	return ServeFile(h.svc.Store())(c)
}

// HandleRemove xoá attachment và tệp
// @Router /upload/{id} [delete]
func (h *UploadHandler) HandleRemove(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err = h.svc.Remove(c.Context(), id)
		if err == nil {
			logger.LogCRUD("delete", "attachment", id.Hex(), c, nil)
		}
		h.HandleResponse(c, fiber.Map{"id": id.Hex()}, err)
		return nil
	})
}
