package loan

import (
	"context"
	"time"

	"github.com/xiebiao/library/pkg/pagination"
)

// Repository 借阅仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 所有方法支持事务传递(实现从context提取事务DB)
type Repository interface {
	// Create 创建借阅记录
	Create(ctx context.Context, l *Loan) error

	// FindByID 根据ID查找借阅记录(不存在返回ErrLoanNotFound)
	// 关联图书一并加载
	FindByID(ctx context.Context, id uint) (*Loan, error)

	// Update 全量更新借阅记录(归还操作走这里)
	Update(ctx context.Context, l *Loan) error

	// ExistsOutstandingByBook 判断图书是否存在在借记录
	// 在借 = returned为NULL或false
	ExistsOutstandingByBook(ctx context.Context, bookID uint) (bool, error)

	// FindByISBNOrCustomer 分页查询
	// 匹配条件:图书ISBN等于isbn 或 借阅人等于customer(逻辑或)
	FindByISBNOrCustomer(ctx context.Context, isbn, customer string, page pagination.Page) ([]*Loan, int64, error)

	// FindByBook 查询某本图书的全部借阅记录(含已归还),分页
	FindByBook(ctx context.Context, bookID uint, page pagination.Page) ([]*Loan, int64, error)

	// FindLateLoans 查询逾期借阅(不分页,供提醒任务使用)
	// 条件:loan_date <= threshold 且 在借
	FindLateLoans(ctx context.Context, threshold time.Time) ([]*Loan, error)
}

// Transactor 事务执行器
// 设计说明:
// domain层只依赖这个最小接口,mysql.TxManager是它的实现;
// 单元测试里可以用直通的假实现替代
type Transactor interface {
	// Transaction 在同一数据库事务中执行fn
	// fn返回error时回滚,返回nil时提交
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
