package global

import (
	"vdg_commerce/config"
	"vdg_commerce/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection của hệ thống
type MongoDB_CollectionName struct {
	Users          string
	PasswordResets string
	Shops          string
	Categories     string
	Products       string
	Orders         string
	Payments       string
	Withdraws      string
	Taxes          string
	Shippings      string
	Coupons        string
	Sliders        string
	Offers         string
	Settings       string
	Attachments    string
	Sequences      string
}

var Validate *validator.Validate                                    // Validator dùng chung
var MongoDB_Session *mongo.Client                                   // Phiên kết nối MongoDB
var MongoDB_ServerConfig *config.Configuration                      // Cấu hình server
var MongoDB_ColNames MongoDB_CollectionName                         // Tên các collection
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Collection theo tên
