package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为唯一索引冲突错误
// MySQL错误码1062: Duplicate entry 'xxx' for key 'yyy'
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	// GORM v2的错误判断(TranslateError开启后生效)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 兼容检查:错误信息包含"Duplicate entry"
	return strings.Contains(err.Error(), "Duplicate entry")
}

// containsPattern 构造不区分大小写的子串匹配参数
// 统一转小写后做LIKE匹配,配合LOWER(column)使用,
// 不依赖数据库排序规则(MySQL默认ci、SQLite仅ASCII ci,显式转换两边都正确)
func containsPattern(value string) string {
	return "%" + strings.ToLower(value) + "%"
}
