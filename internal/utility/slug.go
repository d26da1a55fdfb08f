package utility

import (
	"strings"
	"unicode"
)

var foldMap = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'ä': "a", 'å': "a", 'ạ': "a", 'ả': "a", 'ấ': "a", 'ầ': "a", 'ẩ': "a", 'ẫ': "a", 'ậ': "a", 'ă': "a", 'ắ': "a", 'ằ': "a", 'ẳ': "a", 'ẵ': "a", 'ặ': "a",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e", 'ẹ': "e", 'ẻ': "e", 'ẽ': "e", 'ế': "e", 'ề': "e", 'ể': "e", 'ễ': "e", 'ệ': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i", 'ị': "i", 'ỉ': "i", 'ĩ': "i",
	'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ö': "o", 'ọ': "o", 'ỏ': "o", 'ố': "o", 'ồ': "o", 'ổ': "o", 'ỗ': "o", 'ộ': "o", 'ơ': "o", 'ớ': "o", 'ờ': "o", 'ở': "o", 'ỡ': "o", 'ợ': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u", 'ụ': "u", 'ủ': "u", 'ũ': "u", 'ư': "u", 'ứ': "u", 'ừ': "u", 'ử': "u", 'ữ': "u", 'ự': "u",
	'ỳ': "y", 'ý': "y", 'ỵ': "y", 'ỷ': "y", 'ỹ': "y", 'ÿ': "y",
	'đ': "d", 'ñ': "n", 'ç': "c", 'ß': "ss",
}

// Slugify tạo slug chữ thường, chỉ gồm a-z, 0-9 và dấu '-'
func Slugify(s string) string {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "&", " and ")
	var b strings.Builder
	dash := false
	for _, r := range s {
		rep, ok := foldMap[r]
		if !ok && r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			rep, ok = string(r), true
		}
		if ok {
			b.WriteString(rep)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
