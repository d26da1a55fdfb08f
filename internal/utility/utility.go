package utility

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime/debug"
	"time"
)

// GoProtect chạy f và nuốt panic (in stack ra stderr)
func GoProtect(f func()) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Đã bắt lỗi panic: %v\n", r)
			debug.PrintStack()
		}
	}()
	f()
}

// CurrentTimeInMilli trả timestamp hiện tại (ms), dùng cho createdAt/updatedAt
func CurrentTimeInMilli() int64 {
	return time.Now().UnixMilli()
}

// PrettyPrint trả JSON có thụt lề, dùng cho log debug
func PrettyPrint(v any) string {
	s, _ := json.MarshalIndent(v, "", "\t")
	return string(s)
}
