package mysql

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 创建测试数据库(SQLite内存库)
// 说明:
// 1. 仓储测试用SQLite代替MySQL,无需外部依赖,每个测试独立建库
// 2. TranslateError与生产配置保持一致,唯一索引冲突同样翻译为
//    gorm.ErrDuplicatedKey,isDuplicateError在两种数据库下行为一致
// 3. LockByID(SELECT FOR UPDATE)是MySQL特有语法,不在这里覆盖
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("迁移表结构失败: %v", err)
	}

	return db
}
