package loan

import (
	"context"

	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/pagination"
)

// FindLoansUseCase 借阅记录查询用例
// 设计说明:
// 过滤条件之间是"或"的关系:图书ISBN等于isbn 或 借阅人等于customer
// (刻意设计:支持按任一维度宽搜索,不是交集)
type FindLoansUseCase struct {
	loanService loan.Service
}

// NewFindLoansUseCase 创建借阅查询用例
func NewFindLoansUseCase(loanService loan.Service) *FindLoansUseCase {
	return &FindLoansUseCase{
		loanService: loanService,
	}
}

// FindLoansRequest 借阅查询请求DTO
// 两个条件精确匹配后取并集;空字符串不等于任何值,不会命中记录
type FindLoansRequest struct {
	ISBN     string // 图书ISBN(精确匹配)
	Customer string // 借阅人姓名(精确匹配)
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
}

// LoanDetail 借阅记录DTO
type LoanDetail struct {
	ID            uint   `json:"id"`
	BookID        uint   `json:"book_id"`
	BookTitle     string `json:"book_title,omitempty"`
	ISBN          string `json:"isbn,omitempty"`
	Customer      string `json:"customer"`
	CustomerEmail string `json:"customer_email,omitempty"`
	LoanDate      string `json:"loan_date"`
	Returned      bool   `json:"returned"`
}

// FindLoansResponse 借阅查询响应DTO
type FindLoansResponse struct {
	List       []LoanDetail `json:"list"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// Execute 执行借阅查询用例
func (uc *FindLoansUseCase) Execute(ctx context.Context, req FindLoansRequest) (*FindLoansResponse, error) {
	page := pagination.Page{Page: req.Page, PageSize: req.PageSize}.Normalize()

	filter := loan.Filter{
		ISBN:     req.ISBN,
		Customer: req.Customer,
	}

	loans, total, err := uc.loanService.Find(ctx, filter, page)
	if err != nil {
		return nil, err
	}

	return &FindLoansResponse{
		List:       toLoanDetails(loans),
		Total:      total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages(total),
	}, nil
}

// toLoanDetail 实体转DTO
func toLoanDetail(l *loan.Loan) *LoanDetail {
	d := &LoanDetail{
		ID:            l.ID,
		BookID:        l.BookID,
		Customer:      l.Customer,
		CustomerEmail: l.CustomerEmail,
		LoanDate:      l.LoanDate.Format("2006-01-02"),
		Returned:      !l.Outstanding(),
	}
	if l.Book != nil {
		d.BookTitle = l.Book.Title
		d.ISBN = l.Book.ISBN
	}
	return d
}

// toLoanDetails 批量转换
func toLoanDetails(loans []*loan.Loan) []LoanDetail {
	list := make([]LoanDetail, len(loans))
	for i, l := range loans {
		list[i] = *toLoanDetail(l)
	}
	return list
}
