package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/soft_delete"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate，生产环境应改用版本化迁移脚本）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	// 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		// 让GORM把唯一索引冲突翻译成gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构
// 注意：AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&StaffModel{},
		&BookModel{},
		&LoanModel{},
	)
}

// StaffModel GORM馆员模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/staff/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type StaffModel struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string    `gorm:"size:255;not null;comment:密码(bcrypt加密)"`
	Name      string    `gorm:"size:50;not null;comment:姓名"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (StaffModel) TableName() string {
	return "staff"
}

// BookModel GORM图书模型
// 设计说明:
// 1. ISBN唯一索引是(isbn, deleted_at)联合索引:软删除用soft_delete插件的
//    数值标记(0=未删除),删除后deleted_at变为删除时刻的时间戳,
//    不再占用唯一槽位,同ISBN可以重新登记
// 2. 书名/作者加索引,服务模糊搜索
// 3. 软删除(与借阅历史保持引用完整,已删图书的借阅记录保留)
type BookModel struct {
	ID        uint                  `gorm:"primaryKey"`
	ISBN      string                `gorm:"uniqueIndex:uk_books_isbn;size:20;not null;comment:ISBN号"`
	Title     string                `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Author    string                `gorm:"index:idx_search;size:100;not null;comment:作者"`
	CreatedAt time.Time             `gorm:"comment:创建时间"`
	UpdatedAt time.Time             `gorm:"comment:更新时间"`
	DeletedAt soft_delete.DeletedAt `gorm:"uniqueIndex:uk_books_isbn;comment:删除时间戳(0=未删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// LoanModel GORM借阅模型
// 设计说明:
// 1. Returned用*bool:NULL/false=在借,true=已归还
//    "同一本书至多一条在借记录"由借阅创建事务保证(图书行锁+存在性检查)
// 2. BookID加索引:在借检查与按书查询都按它过滤
// 3. LoanDate用date类型(按日历日比较逾期)
// 4. 借阅记录不删除(借阅历史),无软删除字段
type LoanModel struct {
	ID            uint      `gorm:"primaryKey"`
	BookID        uint      `gorm:"index;not null;comment:图书ID"`
	Customer      string    `gorm:"index;size:100;not null;comment:借阅人"`
	CustomerEmail string    `gorm:"size:100;comment:借阅人邮箱"`
	LoanDate      time.Time `gorm:"type:date;index;not null;comment:借出日期"`
	Returned      *bool     `gorm:"comment:是否已归还(NULL/false=在借)"`
	CreatedAt     time.Time `gorm:"comment:创建时间"`
	UpdatedAt     time.Time `gorm:"comment:更新时间"`

	// 关联图书(查询时Preload,不级联写)
	Book *BookModel `gorm:"foreignKey:BookID"`
}

// TableName 指定表名
func (LoanModel) TableName() string {
	return "loans"
}
