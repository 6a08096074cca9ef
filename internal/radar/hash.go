package radar

import (
	"unicode/utf16"
)

// StableHash 稳定字符串哈希
// 对字符串的UTF-16编码单元做多项式滚动哈希（h = h*31 + unit，32位溢出回绕），
// 再以((h % range) + range) % range归约，保证结果非负。
// 同一id在任何进程、任何时刻产生相同输出，布局因此无需持久化坐标即可保持视觉稳定。
// 空字符串恒等于0。
func StableHash(id string, rangeSize int) int {
	if rangeSize <= 0 {
		return 0
	}

	var h int32
	for _, unit := range utf16.Encode([]rune(id)) {
		h = h*31 + int32(unit)
	}

	r := int32(rangeSize)
	return int(((h % r) + r) % r)
}
