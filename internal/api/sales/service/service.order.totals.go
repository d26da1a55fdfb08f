package salessvc

import (
	commercemodels "vdg_commerce/internal/api/commerce/models"
	pricingmodels "vdg_commerce/internal/api/pricing/models"
	pricingsvc "vdg_commerce/internal/api/pricing/service"
	salesdto "vdg_commerce/internal/api/sales/dto"
	models "vdg_commerce/internal/api/sales/models"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/utility"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Totals là các khoản tiền của đơn
type Totals struct {
	Amount      float64 `json:"amount"`
	SalesTax    float64 `json:"salesTax"`
	DeliveryFee float64 `json:"deliveryFee"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

// CalculateTotals tính tiền đơn hàng; coupon đã được kiểm tra trước khi truyền vào.
// Tổng không âm, mọi khoản làm tròn 2 chữ số.
func CalculateTotals(items []models.OrderItem, taxRate float64, shipping *pricingmodels.Shipping, coupon *pricingmodels.Coupon) Totals {
	var amount float64
	for _, it := range items {
		amount += it.UnitPrice * float64(it.Quantity)
	}
	amount = utility.RoundMoney(amount)
	tax := utility.RoundMoney(amount * taxRate / 100)
	fee := utility.RoundMoney(shipping.Fee(amount))
	discount := utility.RoundMoney(pricingsvc.CouponDiscount(coupon, amount, fee))

	total := utility.RoundMoney(amount + tax + fee - discount)
	if total < 0 {
		total = 0
	}
	return Totals{Amount: amount, SalesTax: tax, DeliveryFee: fee, Discount: discount, Total: total}
}

var (
	errMixedShops       = common.NewError(common.ErrCodeBusinessOperation, "Các sản phẩm trong đơn phải thuộc cùng một cửa hàng", common.StatusBadRequest, nil)
	errProductNotOnSale = common.NewError(common.ErrCodeBusinessOperation, "Sản phẩm không còn được bán", common.StatusBadRequest, nil)
)

// BuildItems dựng dòng hàng từ giỏ và sản phẩm trong DB, trả thêm cửa hàng của đơn.
// Dòng trùng sản phẩm được gộp; giá lấy theo giá hiệu lực tại thời điểm đặt.
func BuildItems(inputs []salesdto.CheckoutItemInput, products []commercemodels.Product) ([]models.OrderItem, primitive.ObjectID, error) {
	byID := make(map[primitive.ObjectID]commercemodels.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var shopID primitive.ObjectID
	index := map[primitive.ObjectID]int{}
	items := make([]models.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		id := utility.String2ObjectID(in.ProductID)
		p, ok := byID[id]
		if !ok || p.Status != commercemodels.ProductStatusPublish {
			return nil, shopID, errProductNotOnSale
		}
		if shopID.IsZero() {
			shopID = p.ShopID
		} else if shopID != p.ShopID {
			return nil, shopID, errMixedShops
		}

		if i, dup := index[id]; dup {
			items[i].Quantity += in.Quantity
			items[i].Subtotal = utility.RoundMoney(items[i].UnitPrice * float64(items[i].Quantity))
			continue
		}
		price := p.EffectivePrice()
		index[id] = len(items)
		items = append(items, models.OrderItem{
			ProductID: id,
			Name:      p.Name,
			Image:     p.Image,
			UnitPrice: price,
			Quantity:  in.Quantity,
			Subtotal:  utility.RoundMoney(price * float64(in.Quantity)),
		})
	}
	for _, it := range items {
		if p := byID[it.ProductID]; !p.InStock(it.Quantity) {
			return nil, shopID, common.ErrOutOfStock
		}
	}
	return items, shopID, nil
}
