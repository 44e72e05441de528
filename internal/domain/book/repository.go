package book

import (
	"context"

	"github.com/xiebiao/library/pkg/pagination"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
// 3. ISBN唯一性由存储层唯一索引保证,Create时冲突转换为ErrISBNDuplicate
type Repository interface {
	// Create 创建图书(ISBN冲突返回ErrISBNDuplicate)
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书(不存在返回ErrBookNotFound)
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN精确查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// ExistsByISBN 判断ISBN是否已存在
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)

	// Update 全量更新图书信息
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(记录不存在返回ErrBookNotFound)
	Delete(ctx context.Context, id uint) error

	// Find 模糊分页查询
	// 非空过滤字段按"不区分大小写的子串"匹配,空字段忽略
	Find(ctx context.Context, filter Filter, page pagination.Page) ([]*Book, int64, error)

	// LockByID 悲观锁查询图书(SELECT FOR UPDATE)
	// 借阅创建事务用它锁定图书行,串行化同一本书的并发借阅
	LockByID(ctx context.Context, id uint) (*Book, error)
}
