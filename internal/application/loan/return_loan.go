package loan

import (
	"context"

	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/metrics"
)

// ReturnLoanUseCase 归还用例
// 注意:重复归还按宽松语义静默接受(幂等),不报错
type ReturnLoanUseCase struct {
	loanService loan.Service
}

// NewReturnLoanUseCase 创建归还用例
func NewReturnLoanUseCase(loanService loan.Service) *ReturnLoanUseCase {
	return &ReturnLoanUseCase{
		loanService: loanService,
	}
}

// ReturnLoanRequest 归还请求DTO
type ReturnLoanRequest struct {
	LoanID   uint // 借阅记录ID(必填)
	Returned bool // 归还标记(支持误操作后撤销归还)
}

// Execute 执行归还用例
// 业务流程:
// 1. 加载借阅记录(不存在返回ErrLoanNotFound)
// 2. 设置归还标记
// 3. 持久化
func (uc *ReturnLoanUseCase) Execute(ctx context.Context, req ReturnLoanRequest) (*LoanDetail, error) {
	if req.LoanID == 0 {
		return nil, loan.ErrMissingLoanID
	}

	// 1. 加载借阅记录
	l, err := uc.loanService.GetByID(ctx, req.LoanID)
	if err != nil {
		return nil, err
	}

	// 2. 设置归还标记(领域行为)
	l.SetReturned(req.Returned)

	// 3. 持久化
	updated, err := uc.loanService.Update(ctx, l)
	if err != nil {
		return nil, err
	}

	if req.Returned {
		metrics.IncCounter(metrics.LoansReturnedTotal)
	}

	return toLoanDetail(updated), nil
}
