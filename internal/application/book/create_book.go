package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/metrics"
)

// CreateBookUseCase 图书登记用例
// 设计说明:
// 1. 应用层负责用例编排,协调领域服务完成业务流程
// 2. 输入输出使用DTO(Data Transfer Object),与HTTP层解耦
// 3. 此用例比较简单,只需调用领域服务即可
type CreateBookUseCase struct {
	bookService book.Service
}

// NewCreateBookUseCase 创建登记用例
func NewCreateBookUseCase(bookService book.Service) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
	}
}

// CreateBookRequest 登记请求DTO
type CreateBookRequest struct {
	ISBN   string // ISBN号
	Title  string // 书名
	Author string // 作者
}

// CreateBookResponse 登记响应DTO
type CreateBookResponse struct {
	ID        uint   `json:"id"`
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
}

// Execute 执行登记用例
// 学习要点:
// 1. 应用层不直接操作Repository,通过领域服务间接操作
// 2. 业务规则校验由领域服务负责(ISBN查重)
// 3. 应用层只负责流程编排
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*CreateBookResponse, error) {
	// 调用领域服务登记图书
	// 领域服务会处理:ISBN重复检查(存储层唯一索引兜底)
	b, err := uc.bookService.Create(ctx, book.NewBook(req.ISBN, req.Title, req.Author))
	if err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.BooksCreatedTotal)

	// 构建响应DTO
	return &CreateBookResponse{
		ID:        b.ID,
		ISBN:      b.ISBN,
		Title:     b.Title,
		Author:    b.Author,
		CreatedAt: b.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
