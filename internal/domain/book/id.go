package book

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// IDLength 图书ID长度(128位随机值的十六进制表示)
const IDLength = 32

// NewID 生成新的图书ID
// 格式: 32位小写十六进制(UUIDv4去掉分隔符)
func NewID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// IsValidID 校验ID格式是否符合存储层的标识符规则
// 纯函数,不做任何I/O;空串、长度不对、含非十六进制字符都返回false
func IsValidID(id string) bool {
	if len(id) != IDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// NormalizeID 统一为小写(存储层以小写保存)
func NormalizeID(id string) string {
	return strings.ToLower(id)
}
