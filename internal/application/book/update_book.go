package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// UpdateBookUseCase 图书信息更新用例
// 设计说明:
// 1. 先加载再更新:保证UpdatedAt与未提交字段的语义正确
// 2. 更新成功后删除缓存(Cache-Aside的失效策略:删缓存而非写缓存)
type UpdateBookUseCase struct {
	bookService book.Service
	cache       Cache
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(bookService book.Service, cache Cache) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// UpdateBookRequest 更新请求DTO
// ID为0时领域服务返回ErrMissingBookID
type UpdateBookRequest struct {
	ID     uint   // 图书ID(必填)
	Title  string // 新书名(空则保持不变)
	Author string // 新作者(空则保持不变)
}

// Execute 执行更新用例
// 业务流程:
// 1. 校验ID并加载现有图书
// 2. 应用领域行为UpdateInfo(只改书名/作者,ISBN不可变)
// 3. 持久化并失效缓存
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookDetail, error) {
	// ID缺失在加载前就拦截(避免FindByID(0)返回NotFound混淆语义)
	if req.ID == 0 {
		return nil, book.ErrMissingBookID
	}

	// 1. 加载现有图书
	b, err := uc.bookService.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	// 2. 应用领域行为
	b.UpdateInfo(req.Title, req.Author)

	// 3. 持久化
	updated, err := uc.bookService.Update(ctx, b)
	if err != nil {
		return nil, err
	}

	// 4. 失效缓存
	// 教学要点:为什么删缓存而不是更新缓存？
	// 并发的"更新A→更新B→写缓存A→写缓存B"乱序会留下旧值,
	// 删缓存让下一次读重新加载,简单且不会长期不一致
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, updated)
	}

	return toBookDetail(updated), nil
}
