package utility

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// String2ObjectID chuyển chuỗi hex sang ObjectID, chuỗi sai trả NilObjectID
func String2ObjectID(id string) primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

// StringArray2ObjectIDArray bỏ qua các phần tử không phải ObjectID hợp lệ
func StringArray2ObjectIDArray(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid := String2ObjectID(id); !oid.IsZero() {
			out = append(out, oid)
		}
	}
	return out
}

// RoundMoney làm tròn 2 chữ số thập phân
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"VND": "₫",
}

// FormatMoney định dạng số tiền theo mã tiền tệ, ví dụ FormatMoney(1234.5, "INR") = "₹1,234.50"
func FormatMoney(amount float64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	s := strconv.FormatFloat(RoundMoney(amount), 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}

	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		return fmt.Sprintf("%s%s.%s %s", sign, b.String(), frac, strings.ToUpper(currency))
	}
	return sign + symbol + b.String() + "." + frac
}
