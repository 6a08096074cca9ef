package radar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStableHash_Deterministic(t *testing.T) {
	// 相同id重复调用必须返回相同值
	ids := []string{"t1", "threat-abc", "CVE-2024-12345", "资产-01"}
	for _, id := range ids {
		first := StableHash(id, 360)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, StableHash(id, 360))
		}
	}
}

func TestStableHash_EmptyString(t *testing.T) {
	// 空字符串恒等于0
	assert.Equal(t, 0, StableHash("", 360))
	assert.Equal(t, 0, StableHash("", 4))
}

func TestStableHash_NonNegativeInRange(t *testing.T) {
	ids := []string{"t1", "t2", "abcdefghijklmnop", "zzzzzzzzzzzzzzzzzzzzzzzz", "!@#$%^&*"}
	for _, id := range ids {
		for _, rangeSize := range []int{4, 90, 100, 360} {
			v := StableHash(id, rangeSize)
			assert.GreaterOrEqual(t, v, 0)
			assert.Less(t, v, rangeSize)
		}
	}
}

func TestStableHash_InvalidRange(t *testing.T) {
	// 非法range返回0而不是panic
	assert.Equal(t, 0, StableHash("t1", 0))
	assert.Equal(t, 0, StableHash("t1", -5))
}
