// Package models - tệp đã tải lên.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Attachment là một tệp ảnh đã lưu; Thumbnail trùng Original khi không tạo ảnh thu nhỏ
type Attachment struct {
	ID         primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Original   string              `json:"original" bson:"original"`
	Thumbnail  string              `json:"thumbnail" bson:"thumbnail"`
	FileName   string              `json:"fileName" bson:"fileName" index:"unique"`
	SourceName string              `json:"sourceName,omitempty" bson:"sourceName,omitempty"`
	MimeType   string              `json:"mimeType" bson:"mimeType"`
	Size       int64               `json:"size" bson:"size"`
	UploadedBy *primitive.ObjectID `json:"uploadedBy,omitempty" bson:"uploadedBy,omitempty" index:"single"`
	CreatedAt  int64               `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64               `json:"updatedAt" bson:"updatedAt"`
}

// AttachmentRef là phần trả về cho client
type AttachmentRef struct {
	ID        string `json:"id"`
	Original  string `json:"original"`
	Thumbnail string `json:"thumbnail"`
}

// Ref rút gọn attachment
func (a *Attachment) Ref() AttachmentRef {
	return AttachmentRef{ID: a.ID.Hex(), Original: a.Original, Thumbnail: a.Thumbnail}
}
