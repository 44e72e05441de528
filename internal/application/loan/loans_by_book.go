package loan

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/pagination"
)

// LoansByBookUseCase 图书借阅历史查询用例
// 用于馆员查看某本书的完整流转记录(含已归还)
type LoansByBookUseCase struct {
	loanService loan.Service
	bookService book.Service
}

// NewLoansByBookUseCase 创建借阅历史查询用例
func NewLoansByBookUseCase(loanService loan.Service, bookService book.Service) *LoansByBookUseCase {
	return &LoansByBookUseCase{
		loanService: loanService,
		bookService: bookService,
	}
}

// LoansByBookRequest 借阅历史查询请求DTO
type LoansByBookRequest struct {
	BookID   uint // 图书ID(必填)
	Page     int  // 页码(从1开始)
	PageSize int  // 每页数量
}

// Execute 执行借阅历史查询
// 图书不存在时返回ErrBookNotFound(而不是空列表,便于客户端区分)
func (uc *LoansByBookUseCase) Execute(ctx context.Context, req LoansByBookRequest) (*FindLoansResponse, error) {
	if req.BookID == 0 {
		return nil, book.ErrMissingBookID
	}

	// 1. 确认图书存在
	b, err := uc.bookService.GetByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}

	// 2. 查询借阅历史
	page := pagination.Page{Page: req.Page, PageSize: req.PageSize}.Normalize()
	loans, total, err := uc.loanService.GetLoansByBook(ctx, b, page)
	if err != nil {
		return nil, err
	}

	// 列表项统一带上图书信息(第1步已加载,不依赖仓储的Preload)
	list := make([]LoanDetail, len(loans))
	for i, l := range loans {
		d := toLoanDetail(l)
		d.BookTitle = b.Title
		d.ISBN = b.ISBN
		list[i] = *d
	}

	return &FindLoansResponse{
		List:       list,
		Total:      total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages(total),
	}, nil
}
