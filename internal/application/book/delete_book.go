package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// DeleteBookUseCase 图书删除用例
// 注意:删除不检查在借记录(与目录维护的宽松语义一致),
// 借阅历史保留,列表查询通过JOIN条件自动排除已删图书
type DeleteBookUseCase struct {
	bookService book.Service
	cache       Cache
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(bookService book.Service, cache Cache) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// Execute 执行删除用例
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	if id == 0 {
		return book.ErrMissingBookID
	}

	// 先加载:删除前需要ISBN来失效缓存,顺带确认图书存在
	b, err := uc.bookService.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.bookService.Delete(ctx, b); err != nil {
		return err
	}

	// 失效缓存
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, b)
	}

	return nil
}
