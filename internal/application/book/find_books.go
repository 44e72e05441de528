package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/pagination"
)

// FindBooksUseCase 图书模糊查询用例
// 设计说明:
// 1. 支持按书名/作者/ISBN模糊过滤,条件之间是"且"的关系
// 2. 全部条件为空时等价于查全量(分页)
// 3. 模糊匹配不区分大小写,按子串匹配
type FindBooksUseCase struct {
	bookService book.Service
}

// NewFindBooksUseCase 创建模糊查询用例
func NewFindBooksUseCase(bookService book.Service) *FindBooksUseCase {
	return &FindBooksUseCase{
		bookService: bookService,
	}
}

// FindBooksRequest 模糊查询请求DTO
type FindBooksRequest struct {
	Title    string // 书名(子串匹配,空则忽略)
	Author   string // 作者(子串匹配,空则忽略)
	ISBN     string // ISBN(子串匹配,空则忽略)
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
}

// FindBooksResponse 模糊查询响应DTO
type FindBooksResponse struct {
	List       []BookDetail `json:"list"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// Execute 执行模糊查询用例
func (uc *FindBooksUseCase) Execute(ctx context.Context, req FindBooksRequest) (*FindBooksResponse, error) {
	page := pagination.Page{Page: req.Page, PageSize: req.PageSize}.Normalize()

	filter := book.Filter{
		Title:  req.Title,
		Author: req.Author,
		ISBN:   req.ISBN,
	}

	books, total, err := uc.bookService.Find(ctx, filter, page)
	if err != nil {
		return nil, err
	}

	list := make([]BookDetail, len(books))
	for i, b := range books {
		list[i] = *toBookDetail(b)
	}

	return &FindBooksResponse{
		List:       list,
		Total:      total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages(total),
	}, nil
}
