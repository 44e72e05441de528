package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/metrics"
)

// Cache 图书详情缓存接口(Cache-Aside)
// 设计说明:
// 1. 接口定义在应用层,由infrastructure/persistence/redis实现(依赖倒置)
// 2. 缓存故障不应影响主流程:实现返回错误时降级为直接查库
// 3. 读取未命中时返回(nil, nil)
type Cache interface {
	GetByID(ctx context.Context, id uint) (*book.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*book.Book, error)
	Set(ctx context.Context, b *book.Book) error
	Delete(ctx context.Context, b *book.Book) error
}

// GetBookUseCase 图书详情查询用例
// 设计说明:
// 1. 详情是读热点,走Cache-Aside:先查缓存,未命中查库并回填
// 2. cache可以为nil(未启用Redis时),此时退化为直接查库
type GetBookUseCase struct {
	bookService book.Service
	cache       Cache
}

// NewGetBookUseCase 创建详情查询用例
func NewGetBookUseCase(bookService book.Service, cache Cache) *GetBookUseCase {
	return &GetBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// BookDetail 图书详情DTO
type BookDetail struct {
	ID        uint   `json:"id"`
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Execute 根据ID查询图书详情
// 学习要点:Cache-Aside模式
// 1. 先查缓存,命中直接返回
// 2. 未命中查数据库
// 3. 查到后同步回填缓存(回填失败忽略,下次查询重试)
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDetail, error) {
	// 1. 查缓存
	if uc.cache != nil {
		if cached, err := uc.cache.GetByID(ctx, id); err == nil && cached != nil {
			metrics.IncCounterVec(metrics.BookCacheHitsTotal, map[string]string{"result": "hit"})
			return toBookDetail(cached), nil
		}
		metrics.IncCounterVec(metrics.BookCacheHitsTotal, map[string]string{"result": "miss"})
	}

	// 2. 查数据库
	b, err := uc.bookService.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3. 回填缓存(失败降级,不影响主流程)
	if uc.cache != nil {
		_ = uc.cache.Set(ctx, b)
	}

	return toBookDetail(b), nil
}

// ExecuteByISBN 根据ISBN查询图书详情
func (uc *GetBookUseCase) ExecuteByISBN(ctx context.Context, isbn string) (*BookDetail, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.GetByISBN(ctx, isbn); err == nil && cached != nil {
			metrics.IncCounterVec(metrics.BookCacheHitsTotal, map[string]string{"result": "hit"})
			return toBookDetail(cached), nil
		}
		metrics.IncCounterVec(metrics.BookCacheHitsTotal, map[string]string{"result": "miss"})
	}

	b, err := uc.bookService.GetByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, b)
	}

	return toBookDetail(b), nil
}

// toBookDetail 实体转DTO
func toBookDetail(b *book.Book) *BookDetail {
	return &BookDetail{
		ID:        b.ID,
		ISBN:      b.ISBN,
		Title:     b.Title,
		Author:    b.Author,
		CreatedAt: b.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: b.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
