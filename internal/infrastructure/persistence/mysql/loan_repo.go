package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/loan"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/pagination"
)

// loanRepository 借阅仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/loan/repository.go定义的接口
// 2. 所有方法经dbFromContext参与事务(借阅创建在事务中调用)
// 3. "在借"的SQL表达:returned IS NULL OR returned = false
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository 创建借阅仓储
func NewLoanRepository(db *gorm.DB) loan.Repository {
	return &loanRepository{db: db}
}

// outstandingCond "在借"过滤条件(SQL片段)
const outstandingCond = "(returned IS NULL OR returned = ?)"

// Create 创建借阅记录
func (r *loanRepository) Create(ctx context.Context, l *loan.Loan) error {
	model := &LoanModel{
		BookID:        l.BookID,
		Customer:      l.Customer,
		CustomerEmail: l.CustomerEmail,
		LoanDate:      l.LoanDate,
		Returned:      l.Returned,
	}

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建借阅记录失败")
	}

	l.ID = model.ID
	l.CreatedAt = model.CreatedAt
	l.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找借阅记录(关联图书一并加载)
func (r *loanRepository) FindByID(ctx context.Context, id uint) (*loan.Loan, error) {
	var model LoanModel
	err := r.getDB(ctx).Preload("Book").First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrLoanNotFound
		}
		return nil, apperrors.Wrap(err, "查询借阅记录失败")
	}

	return toLoanEntity(&model), nil
}

// Update 全量更新借阅记录(归还操作走这里)
func (r *loanRepository) Update(ctx context.Context, l *loan.Loan) error {
	model := &LoanModel{
		ID:            l.ID,
		BookID:        l.BookID,
		Customer:      l.Customer,
		CustomerEmail: l.CustomerEmail,
		LoanDate:      l.LoanDate,
		Returned:      l.Returned,
		CreatedAt:     l.CreatedAt,
	}

	if err := r.getDB(ctx).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新借阅记录失败")
	}

	l.UpdatedAt = model.UpdatedAt
	return nil
}

// ExistsOutstandingByBook 判断图书是否存在在借记录
func (r *loanRepository) ExistsOutstandingByBook(ctx context.Context, bookID uint) (bool, error) {
	var count int64
	err := r.getDB(ctx).Model(&LoanModel{}).
		Where("book_id = ?", bookID).
		Where(outstandingCond, false).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询在借记录失败")
	}
	return count > 0, nil
}

// FindByISBNOrCustomer 分页查询
// 匹配条件:图书ISBN等于isbn 或 借阅人等于customer(逻辑或,刻意设计)
// 连接图书表做ISBN过滤;软删除的图书不参与匹配
func (r *loanRepository) FindByISBNOrCustomer(ctx context.Context, isbn, customer string, page pagination.Page) ([]*loan.Loan, int64, error) {
	var models []LoanModel
	var total int64

	query := r.getDB(ctx).Model(&LoanModel{}).
		Joins("JOIN books ON books.id = loans.book_id AND books.deleted_at = 0").
		Where("books.isbn = ? OR loans.customer = ?", isbn, customer)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅总数失败")
	}

	err := query.Preload("Book").
		Order("loans.loan_date DESC, loans.id DESC").
		Limit(page.PageSize).
		Offset(page.Offset()).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅列表失败")
	}

	return toLoanEntities(models), total, nil
}

// FindByBook 查询某本图书的全部借阅记录(含已归还),分页
func (r *loanRepository) FindByBook(ctx context.Context, bookID uint, page pagination.Page) ([]*loan.Loan, int64, error) {
	var models []LoanModel
	var total int64

	query := r.getDB(ctx).Model(&LoanModel{}).Where("book_id = ?", bookID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅总数失败")
	}

	err := query.Preload("Book").
		Order("loan_date DESC, id DESC").
		Limit(page.PageSize).
		Offset(page.Offset()).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅历史失败")
	}

	return toLoanEntities(models), total, nil
}

// FindLateLoans 查询逾期借阅(不分页,供提醒任务使用)
// 条件:loan_date <= threshold 且 在借
// 归还的记录无论多旧都不算逾期
func (r *loanRepository) FindLateLoans(ctx context.Context, threshold time.Time) ([]*loan.Loan, error) {
	var models []LoanModel

	err := r.getDB(ctx).Model(&LoanModel{}).
		Where("loan_date <= ?", threshold).
		Where(outstandingCond, false).
		Preload("Book").
		Order("loan_date ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询逾期借阅失败")
	}

	return toLoanEntities(models), nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toLoanEntity GORM模型 → 领域实体
func toLoanEntity(model *LoanModel) *loan.Loan {
	l := &loan.Loan{
		ID:            model.ID,
		BookID:        model.BookID,
		Customer:      model.Customer,
		CustomerEmail: model.CustomerEmail,
		LoanDate:      model.LoanDate,
		Returned:      model.Returned,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
	if model.Book != nil {
		l.Book = toBookEntity(model.Book)
	}
	return l
}

func toLoanEntities(models []LoanModel) []*loan.Loan {
	loans := make([]*loan.Loan, len(models))
	for i := range models {
		loans[i] = toLoanEntity(&models[i])
	}
	return loans
}

// getDB 从context获取事务DB,没有则使用默认DB
func (r *loanRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}
