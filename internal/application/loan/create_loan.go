package loan

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// CreateLoanUseCase 创建借阅用例
// 教学要点:这是整个项目最核心的用例
// 涉及:事务处理、并发控制、业务规则校验
type CreateLoanUseCase struct {
	loanService loan.Service
	bookService book.Service
}

// NewCreateLoanUseCase 创建借阅用例
func NewCreateLoanUseCase(loanService loan.Service, bookService book.Service) *CreateLoanUseCase {
	return &CreateLoanUseCase{
		loanService: loanService,
		bookService: bookService,
	}
}

// CreateLoanRequest 借阅请求DTO
// 馆员按ISBN办理借出,不直接暴露内部图书ID
type CreateLoanRequest struct {
	ISBN          string // 图书ISBN
	Customer      string // 借阅人姓名
	CustomerEmail string // 借阅人邮箱(可选,用于逾期提醒)
}

// CreateLoanResponse 借阅响应DTO
type CreateLoanResponse struct {
	LoanID    uint   `json:"loan_id"`
	BookID    uint   `json:"book_id"`
	BookTitle string `json:"book_title"`
	ISBN      string `json:"isbn"`
	Customer  string `json:"customer"`
	LoanDate  string `json:"loan_date"`
	Returned  bool   `json:"returned"`
}

// Execute 执行借阅用例
// 教学重点:防止同一本书重复借出的完整流程
//
// 核心问题:检查-插入竞态
// 场景:同一本书,两位馆员同时办理借出
// 错误实现:
//  1. 查询在借记录 → 无
//  2. 判断可借 → 可借
//  3. 插入借阅记录
//     结果:两个请求都通过了步骤2,同一本书出现两条在借记录!
//
// 正确实现:悲观锁(在领域服务内完成)
//  1. SELECT FOR UPDATE 锁定图书行
//  2. 检查是否存在在借记录
//  3. 插入借阅记录
//  4. COMMIT释放锁
func (uc *CreateLoanUseCase) Execute(ctx context.Context, req CreateLoanRequest) (*CreateLoanResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "library-api", "CreateLoan")
	defer span.End()
	span.SetAttributes(attribute.String("isbn", req.ISBN))

	start := time.Now()

	// 1. 按ISBN解析图书(不存在返回ErrBookNotFound)
	b, err := uc.bookService.GetByISBN(ctx, req.ISBN)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// 2. 创建借阅(行锁+在借检查+插入,在同一事务内)
	l, err := uc.loanService.Create(ctx, loan.NewLoan(b.ID, req.Customer, req.CustomerEmail))
	if err != nil {
		if errors.Is(err, loan.ErrBookAlreadyLoaned) {
			metrics.IncCounter(metrics.LoanConflictsTotal)
		}
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("loan_id", int(l.ID)))

	metrics.IncCounter(metrics.LoansCreatedTotal)
	metrics.ObserveHistogram(metrics.LoanCreationDuration, time.Since(start).Seconds())

	// 构建响应DTO
	return &CreateLoanResponse{
		LoanID:    l.ID,
		BookID:    b.ID,
		BookTitle: b.Title,
		ISBN:      b.ISBN,
		Customer:  l.Customer,
		LoanDate:  l.LoanDate.Format("2006-01-02"),
		Returned:  !l.Outstanding(),
	}, nil
}
