package book

import (
	"context"
	"errors"
	"testing"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/pagination"
)

// ==================== 测试替身 ====================

// fakeBookService 图书领域服务替身(记录调用次数)
type fakeBookService struct {
	books map[uint]*book.Book

	getByIDCalls   int
	getByISBNCalls int
}

func newFakeBookService(books ...*book.Book) *fakeBookService {
	s := &fakeBookService{books: make(map[uint]*book.Book)}
	for _, b := range books {
		s.books[b.ID] = b
	}
	return s
}

func (s *fakeBookService) Create(ctx context.Context, b *book.Book) (*book.Book, error) {
	for _, existing := range s.books {
		if existing.ISBN == b.ISBN {
			return nil, book.ErrISBNDuplicate
		}
	}
	b.ID = uint(len(s.books) + 1)
	s.books[b.ID] = b
	return b, nil
}

func (s *fakeBookService) GetByID(ctx context.Context, id uint) (*book.Book, error) {
	s.getByIDCalls++
	b, ok := s.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return b, nil
}

func (s *fakeBookService) GetByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	s.getByISBNCalls++
	for _, b := range s.books {
		if b.ISBN == isbn {
			return b, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (s *fakeBookService) Update(ctx context.Context, b *book.Book) (*book.Book, error) {
	if b.ID == 0 {
		return nil, book.ErrMissingBookID
	}
	s.books[b.ID] = b
	return b, nil
}

func (s *fakeBookService) Delete(ctx context.Context, b *book.Book) error {
	if b == nil || b.ID == 0 {
		return book.ErrMissingBookID
	}
	delete(s.books, b.ID)
	return nil
}

func (s *fakeBookService) Find(ctx context.Context, filter book.Filter, page pagination.Page) ([]*book.Book, int64, error) {
	var result []*book.Book
	for _, b := range s.books {
		result = append(result, b)
	}
	return result, int64(len(result)), nil
}

// fakeCache 内存图书缓存替身
type fakeCache struct {
	byID   map[uint]*book.Book
	byISBN map[string]*book.Book

	setCalls    int
	deleteCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		byID:   make(map[uint]*book.Book),
		byISBN: make(map[string]*book.Book),
	}
}

func (c *fakeCache) GetByID(ctx context.Context, id uint) (*book.Book, error) {
	return c.byID[id], nil // 未命中返回(nil, nil)
}

func (c *fakeCache) GetByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	return c.byISBN[isbn], nil
}

func (c *fakeCache) Set(ctx context.Context, b *book.Book) error {
	c.setCalls++
	c.byID[b.ID] = b
	c.byISBN[b.ISBN] = b
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, b *book.Book) error {
	c.deleteCalls++
	delete(c.byID, b.ID)
	delete(c.byISBN, b.ISBN)
	return nil
}

// errorCache 故障缓存替身(所有操作返回错误)
type errorCache struct{}

func (errorCache) GetByID(ctx context.Context, id uint) (*book.Book, error) {
	return nil, errors.New("redis: connection refused")
}
func (errorCache) GetByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	return nil, errors.New("redis: connection refused")
}
func (errorCache) Set(ctx context.Context, b *book.Book) error {
	return errors.New("redis: connection refused")
}
func (errorCache) Delete(ctx context.Context, b *book.Book) error {
	return errors.New("redis: connection refused")
}

// ==================== 测试用例 ====================

func TestGetBookUseCase_CacheMissThenHit(t *testing.T) {
	metrics.InitMetrics()
	ctx := context.Background()

	b := &book.Book{ID: 1, ISBN: "001", Title: "As aventuras", Author: "Mark Twain"}
	svc := newFakeBookService(b)
	cache := newFakeCache()
	uc := NewGetBookUseCase(svc, cache)

	// 第一次查询:缓存未命中,查库并回填
	detail, err := uc.Execute(ctx, 1)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if detail.Title != "As aventuras" {
		t.Errorf("书名错误: %s", detail.Title)
	}
	if svc.getByIDCalls != 1 {
		t.Errorf("期望查库1次,实际%d次", svc.getByIDCalls)
	}
	if cache.setCalls != 1 {
		t.Errorf("期望回填缓存1次,实际%d次", cache.setCalls)
	}

	// 第二次查询:缓存命中,不再查库
	if _, err := uc.Execute(ctx, 1); err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if svc.getByIDCalls != 1 {
		t.Errorf("缓存命中不应查库,实际查库%d次", svc.getByIDCalls)
	}
}

func TestGetBookUseCase_ByISBN(t *testing.T) {
	metrics.InitMetrics()
	ctx := context.Background()

	b := &book.Book{ID: 2, ISBN: "978-0132350884", Title: "Clean Code"}
	svc := newFakeBookService(b)
	cache := newFakeCache()
	uc := NewGetBookUseCase(svc, cache)

	detail, err := uc.ExecuteByISBN(ctx, "978-0132350884")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if detail.ID != 2 {
		t.Errorf("图书ID错误: %d", detail.ID)
	}

	// 回填后按ISBN命中缓存
	if _, err := uc.ExecuteByISBN(ctx, "978-0132350884"); err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if svc.getByISBNCalls != 1 {
		t.Errorf("缓存命中不应查库,实际查库%d次", svc.getByISBNCalls)
	}
}

// TestGetBookUseCase_NilCache 未启用Redis时退化为直接查库
func TestGetBookUseCase_NilCache(t *testing.T) {
	metrics.InitMetrics()
	ctx := context.Background()

	svc := newFakeBookService(&book.Book{ID: 1, ISBN: "001", Title: "无缓存"})
	uc := NewGetBookUseCase(svc, nil)

	detail, err := uc.Execute(ctx, 1)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if detail.Title != "无缓存" {
		t.Errorf("书名错误: %s", detail.Title)
	}
}

// TestGetBookUseCase_CacheErrorDegrades 缓存故障降级为查库,不影响主流程
func TestGetBookUseCase_CacheErrorDegrades(t *testing.T) {
	metrics.InitMetrics()
	ctx := context.Background()

	svc := newFakeBookService(&book.Book{ID: 1, ISBN: "001", Title: "降级测试"})
	uc := NewGetBookUseCase(svc, errorCache{})

	detail, err := uc.Execute(ctx, 1)
	if err != nil {
		t.Fatalf("缓存故障不应导致查询失败: %v", err)
	}
	if detail.Title != "降级测试" {
		t.Errorf("书名错误: %s", detail.Title)
	}
}

func TestGetBookUseCase_NotFound(t *testing.T) {
	metrics.InitMetrics()
	ctx := context.Background()

	uc := NewGetBookUseCase(newFakeBookService(), newFakeCache())

	_, err := uc.Execute(ctx, 999)
	if !errors.Is(err, book.ErrBookNotFound) {
		t.Errorf("期望ErrBookNotFound,实际%v", err)
	}
}
