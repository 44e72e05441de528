package loan

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/pagination"
)

// ==================== 测试替身 ====================

// fakeLoanService 借阅领域服务替身(内存实现,保留核心不变量)
type fakeLoanService struct {
	loans  map[uint]*loan.Loan
	nextID uint
}

func newFakeLoanService() *fakeLoanService {
	return &fakeLoanService{loans: make(map[uint]*loan.Loan), nextID: 1}
}

func (s *fakeLoanService) Create(ctx context.Context, l *loan.Loan) (*loan.Loan, error) {
	for _, existing := range s.loans {
		if existing.BookID == l.BookID && existing.Outstanding() {
			return nil, loan.ErrBookAlreadyLoaned
		}
	}
	l.ID = s.nextID
	s.nextID++
	s.loans[l.ID] = l
	return l, nil
}

func (s *fakeLoanService) GetByID(ctx context.Context, id uint) (*loan.Loan, error) {
	l, ok := s.loans[id]
	if !ok {
		return nil, loan.ErrLoanNotFound
	}
	return l, nil
}

func (s *fakeLoanService) Update(ctx context.Context, l *loan.Loan) (*loan.Loan, error) {
	if l == nil || l.ID == 0 {
		return nil, loan.ErrMissingLoanID
	}
	s.loans[l.ID] = l
	return l, nil
}

func (s *fakeLoanService) Find(ctx context.Context, filter loan.Filter, page pagination.Page) ([]*loan.Loan, int64, error) {
	var result []*loan.Loan
	for _, l := range s.loans {
		if l.Customer == filter.Customer || (l.Book != nil && l.Book.ISBN == filter.ISBN) {
			result = append(result, l)
		}
	}
	return result, int64(len(result)), nil
}

func (s *fakeLoanService) GetLoansByBook(ctx context.Context, b *book.Book, page pagination.Page) ([]*loan.Loan, int64, error) {
	var result []*loan.Loan
	for _, l := range s.loans {
		if l.BookID == b.ID {
			result = append(result, l)
		}
	}
	return result, int64(len(result)), nil
}

func (s *fakeLoanService) GetAllLateLoans(ctx context.Context) ([]*loan.Loan, error) {
	var result []*loan.Loan
	for _, l := range s.loans {
		if l.IsLate(time.Now()) {
			result = append(result, l)
		}
	}
	return result, nil
}

// fakeBookService 图书领域服务替身(只实现借阅用例用到的查询)
type fakeBookService struct {
	books map[uint]*book.Book
}

func newFakeBookService(books ...*book.Book) *fakeBookService {
	s := &fakeBookService{books: make(map[uint]*book.Book)}
	for _, b := range books {
		s.books[b.ID] = b
	}
	return s
}

func (s *fakeBookService) Create(ctx context.Context, b *book.Book) (*book.Book, error) {
	return b, nil
}

func (s *fakeBookService) GetByID(ctx context.Context, id uint) (*book.Book, error) {
	b, ok := s.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return b, nil
}

func (s *fakeBookService) GetByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	for _, b := range s.books {
		if b.ISBN == isbn {
			return b, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (s *fakeBookService) Update(ctx context.Context, b *book.Book) (*book.Book, error) {
	return b, nil
}

func (s *fakeBookService) Delete(ctx context.Context, b *book.Book) error { return nil }

func (s *fakeBookService) Find(ctx context.Context, filter book.Filter, page pagination.Page) ([]*book.Book, int64, error) {
	return nil, 0, nil
}

// ==================== 测试用例 ====================

func TestCreateLoanUseCase(t *testing.T) {
	metrics.InitMetrics()
	ctx := context.Background()

	b := &book.Book{ID: 1, ISBN: "001", Title: "As aventuras"}
	uc := NewCreateLoanUseCase(newFakeLoanService(), newFakeBookService(b))

	resp, err := uc.Execute(ctx, CreateLoanRequest{
		ISBN:     "001",
		Customer: "Fulano",
	})
	if err != nil {
		t.Fatalf("创建借阅失败: %v", err)
	}
	if resp.LoanID == 0 {
		t.Error("响应应包含借阅ID")
	}
	if resp.BookTitle != "As aventuras" {
		t.Errorf("响应书名错误: %s", resp.BookTitle)
	}
	if resp.Returned {
		t.Error("新建借阅应为在借状态")
	}
	if resp.LoanDate != time.Now().Format("2006-01-02") {
		t.Errorf("借出日期应为当天: %s", resp.LoanDate)
	}
}

func TestCreateLoanUseCase_BookNotFound(t *testing.T) {
	metrics.InitMetrics()
	ctx := context.Background()

	uc := NewCreateLoanUseCase(newFakeLoanService(), newFakeBookService())

	_, err := uc.Execute(ctx, CreateLoanRequest{ISBN: "999", Customer: "张三"})
	if !errors.Is(err, book.ErrBookNotFound) {
		t.Errorf("期望ErrBookNotFound,实际%v", err)
	}
}

func TestCreateLoanUseCase_Conflict(t *testing.T) {
	metrics.InitMetrics()
	ctx := context.Background()

	b := &book.Book{ID: 1, ISBN: "001", Title: "图书一"}
	uc := NewCreateLoanUseCase(newFakeLoanService(), newFakeBookService(b))

	if _, err := uc.Execute(ctx, CreateLoanRequest{ISBN: "001", Customer: "张三"}); err != nil {
		t.Fatalf("第一次借出失败: %v", err)
	}

	_, err := uc.Execute(ctx, CreateLoanRequest{ISBN: "001", Customer: "李四"})
	if !errors.Is(err, loan.ErrBookAlreadyLoaned) {
		t.Errorf("期望ErrBookAlreadyLoaned,实际%v", err)
	}
}

// TestCreateLoanUseCase_Tracing 借阅创建应产生追踪Span
// 用SDK的内存SpanRecorder验证,不依赖Collector
func TestCreateLoanUseCase_Tracing(t *testing.T) {
	metrics.InitMetrics()
	ctx := context.Background()

	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	defer otel.SetTracerProvider(prev)

	b := &book.Book{ID: 1, ISBN: "001", Title: "As aventuras"}
	uc := NewCreateLoanUseCase(newFakeLoanService(), newFakeBookService(b))

	if _, err := uc.Execute(ctx, CreateLoanRequest{ISBN: "001", Customer: "Fulano"}); err != nil {
		t.Fatalf("创建借阅失败: %v", err)
	}

	spans := recorder.Ended()
	var found bool
	for _, s := range spans {
		if s.Name() != "CreateLoan" {
			continue
		}
		found = true
		var hasISBN bool
		for _, attr := range s.Attributes() {
			if attr.Key == "isbn" && attr.Value.AsString() == "001" {
				hasISBN = true
			}
		}
		if !hasISBN {
			t.Error("CreateLoan的Span应携带isbn属性")
		}
	}
	if !found {
		t.Errorf("应记录CreateLoan的Span,实际Span数=%d", len(spans))
	}
}

// TestReturnLoanUseCase 借出→归还→再次借出的完整闭环
func TestReturnLoanUseCase(t *testing.T) {
	metrics.InitMetrics()
	ctx := context.Background()

	b := &book.Book{ID: 1, ISBN: "001", Title: "图书一"}
	loanSvc := newFakeLoanService()
	bookSvc := newFakeBookService(b)
	createUC := NewCreateLoanUseCase(loanSvc, bookSvc)
	returnUC := NewReturnLoanUseCase(loanSvc)

	created, err := createUC.Execute(ctx, CreateLoanRequest{ISBN: "001", Customer: "张三"})
	if err != nil {
		t.Fatalf("借出失败: %v", err)
	}

	// 归还
	detail, err := returnUC.Execute(ctx, ReturnLoanRequest{LoanID: created.LoanID, Returned: true})
	if err != nil {
		t.Fatalf("归还失败: %v", err)
	}
	if !detail.Returned {
		t.Error("归还后Returned应为true")
	}

	// 归还后可再次借出
	if _, err := createUC.Execute(ctx, CreateLoanRequest{ISBN: "001", Customer: "李四"}); err != nil {
		t.Errorf("归还后再次借出应成功: %v", err)
	}
}

func TestReturnLoanUseCase_Undo(t *testing.T) {
	metrics.InitMetrics()
	ctx := context.Background()

	loanSvc := newFakeLoanService()
	l, _ := loanSvc.Create(ctx, loan.NewLoan(1, "张三", ""))
	returnUC := NewReturnLoanUseCase(loanSvc)

	// 归还后撤销(误操作纠正)
	if _, err := returnUC.Execute(ctx, ReturnLoanRequest{LoanID: l.ID, Returned: true}); err != nil {
		t.Fatalf("归还失败: %v", err)
	}
	detail, err := returnUC.Execute(ctx, ReturnLoanRequest{LoanID: l.ID, Returned: false})
	if err != nil {
		t.Fatalf("撤销归还失败: %v", err)
	}
	if detail.Returned {
		t.Error("撤销归还后Returned应为false")
	}
}

func TestReturnLoanUseCase_Errors(t *testing.T) {
	metrics.InitMetrics()
	ctx := context.Background()

	returnUC := NewReturnLoanUseCase(newFakeLoanService())

	// ID缺失
	_, err := returnUC.Execute(ctx, ReturnLoanRequest{Returned: true})
	if !errors.Is(err, loan.ErrMissingLoanID) {
		t.Errorf("期望ErrMissingLoanID,实际%v", err)
	}

	// 记录不存在
	_, err = returnUC.Execute(ctx, ReturnLoanRequest{LoanID: 999, Returned: true})
	if !errors.Is(err, loan.ErrLoanNotFound) {
		t.Errorf("期望ErrLoanNotFound,实际%v", err)
	}
}

func TestFindLoansUseCase(t *testing.T) {
	metrics.InitMetrics()
	ctx := context.Background()

	b := &book.Book{ID: 1, ISBN: "978-1234567890", Title: "图书一"}
	loanSvc := newFakeLoanService()
	l, _ := loanSvc.Create(ctx, loan.NewLoan(b.ID, "Fulano", ""))
	l.Book = b

	uc := NewFindLoansUseCase(loanSvc)

	resp, err := uc.Execute(ctx, FindLoansRequest{Customer: "Fulano"})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("总数期望1,实际%d", resp.Total)
	}
	if resp.List[0].BookTitle != "图书一" {
		t.Errorf("列表项应带图书信息: %+v", resp.List[0])
	}
	if resp.Page != 1 || resp.PageSize == 0 {
		t.Errorf("分页参数应规范化: page=%d size=%d", resp.Page, resp.PageSize)
	}
}

func TestLoansByBookUseCase(t *testing.T) {
	metrics.InitMetrics()
	ctx := context.Background()

	b := &book.Book{ID: 1, ISBN: "001", Title: "图书一"}
	loanSvc := newFakeLoanService()
	bookSvc := newFakeBookService(b)

	l1, _ := loanSvc.Create(ctx, loan.NewLoan(b.ID, "张三", ""))
	l1.SetReturned(true)
	_, _ = loanSvc.Update(ctx, l1)
	_, _ = loanSvc.Create(ctx, loan.NewLoan(b.ID, "李四", ""))

	uc := NewLoansByBookUseCase(loanSvc, bookSvc)

	resp, err := uc.Execute(ctx, LoansByBookRequest{BookID: 1})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("历史期望2条,实际%d", resp.Total)
	}
	for _, item := range resp.List {
		if item.BookTitle != "图书一" || item.ISBN != "001" {
			t.Errorf("列表项应统一带图书信息: %+v", item)
		}
	}

	// 图书不存在返回明确错误而非空列表
	_, err = uc.Execute(ctx, LoansByBookRequest{BookID: 999})
	if !errors.Is(err, book.ErrBookNotFound) {
		t.Errorf("期望ErrBookNotFound,实际%v", err)
	}

	// ID缺失
	_, err = uc.Execute(ctx, LoansByBookRequest{})
	if !errors.Is(err, book.ErrMissingBookID) {
		t.Errorf("期望ErrMissingBookID,实际%v", err)
	}
}
