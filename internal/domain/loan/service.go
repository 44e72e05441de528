package loan

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/pagination"
)

// Service 借阅生命周期领域服务接口
// 核心不变量:同一本书同一时刻至多一条在借记录
type Service interface {
	// Create 创建借阅
	// 业务规则:目标图书存在在借记录时返回ErrBookAlreadyLoaned
	// 并发说明:检查与插入在同一事务中执行,并先对图书行加锁,
	// 同一本书的并发借阅请求被串行化(见实现注释)
	Create(ctx context.Context, l *Loan) (*Loan, error)

	// GetByID 根据ID获取借阅记录
	GetByID(ctx context.Context, id uint) (*Loan, error)

	// Update 更新借阅记录(归还操作:调用方置Returned=true后调用)
	// 不校验状态迁移合法性,按传入内容持久化
	Update(ctx context.Context, l *Loan) (*Loan, error)

	// Find 分页查询(ISBN或借阅人,逻辑或)
	Find(ctx context.Context, filter Filter, page pagination.Page) ([]*Loan, int64, error)

	// GetLoansByBook 查询某本图书的全部借阅记录,分页
	GetLoansByBook(ctx context.Context, b *book.Book, page pagination.Page) ([]*Loan, int64, error)

	// GetAllLateLoans 查询全部逾期借阅
	// 逾期 = 在借 且 借出日期 <= 当天-4天(LateAfterDays)
	GetAllLateLoans(ctx context.Context) ([]*Loan, error)
}

// service 领域服务实现
type service struct {
	repo     Repository
	bookRepo book.Repository
	tx       Transactor
}

// NewService 创建借阅生命周期服务
func NewService(repo Repository, bookRepo book.Repository, tx Transactor) Service {
	return &service{
		repo:     repo,
		bookRepo: bookRepo,
		tx:       tx,
	}
}

// Create 创建借阅
//
// 并发要点:单纯的"先查在借记录再插入"存在检查-插入竞态:
// 两个并发请求可能都通过存在性检查,导致同一本书出现两条在借记录。
// 这里把整个流程放进一个事务,并第一步就SELECT FOR UPDATE锁定图书行,
// 后到的事务会阻塞在锁上,等先到的事务提交后再做存在性检查,
// 此时必然看到刚插入的在借记录并返回ErrBookAlreadyLoaned。
func (s *service) Create(ctx context.Context, l *Loan) (*Loan, error) {
	err := s.tx.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 锁定图书行(同一本书的并发借阅在此串行化)
		if _, err := s.bookRepo.LockByID(txCtx, l.BookID); err != nil {
			return err
		}

		// 2. 检查是否存在在借记录
		exists, err := s.repo.ExistsOutstandingByBook(txCtx, l.BookID)
		if err != nil {
			return err
		}
		if exists {
			return ErrBookAlreadyLoaned
		}

		// 3. 插入借阅记录(初始状态:在借)
		return s.repo.Create(txCtx, l)
	})
	if err != nil {
		return nil, err
	}

	return l, nil
}

// GetByID 根据ID获取借阅记录
func (s *service) GetByID(ctx context.Context, id uint) (*Loan, error) {
	return s.repo.FindByID(ctx, id)
}

// Update 更新借阅记录
func (s *service) Update(ctx context.Context, l *Loan) (*Loan, error) {
	if l == nil || l.ID == 0 {
		return nil, ErrMissingLoanID
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Find 分页查询(ISBN或借阅人)
func (s *service) Find(ctx context.Context, filter Filter, page pagination.Page) ([]*Loan, int64, error) {
	return s.repo.FindByISBNOrCustomer(ctx, filter.ISBN, filter.Customer, page.Normalize())
}

// GetLoansByBook 查询某本图书的借阅历史
func (s *service) GetLoansByBook(ctx context.Context, b *book.Book, page pagination.Page) ([]*Loan, int64, error) {
	if b == nil || b.ID == 0 {
		return nil, 0, book.ErrMissingBookID
	}
	return s.repo.FindByBook(ctx, b.ID, page.Normalize())
}

// GetAllLateLoans 查询全部逾期借阅
// 只读扫描,与借阅创建/归还并发执行无需额外协调
// (扫描窗口内刚好变更的记录可能漏报或多报一次,对周期提醒任务可接受)
func (s *service) GetAllLateLoans(ctx context.Context) ([]*Loan, error) {
	now := time.Now()
	threshold := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -LateAfterDays)
	return s.repo.FindLateLoans(ctx, threshold)
}
