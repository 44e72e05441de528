package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/pagination"
)

// seedBook 登记测试图书
func seedBook(t *testing.T, db *gorm.DB, isbn, title string) *book.Book {
	t.Helper()
	b := book.NewBook(isbn, title, "测试作者")
	if err := NewBookRepository(db).Create(context.Background(), b); err != nil {
		t.Fatalf("登记测试图书失败: %v", err)
	}
	return b
}

// seedLoan 创建指定天数前借出的借阅记录
// 借出日期截断到0点:生产库的loan_date是date列只存日期,
// SQLite没有date类型,显式截断保持两边行为一致
func seedLoan(t *testing.T, db *gorm.DB, bookID uint, customer string, daysAgo int, returned *bool) *loan.Loan {
	t.Helper()
	now := time.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	l := loan.NewLoan(bookID, customer, "")
	l.LoanDate = day.AddDate(0, 0, -daysAgo)
	l.Returned = returned
	if err := NewLoanRepository(db).Create(context.Background(), l); err != nil {
		t.Fatalf("创建测试借阅失败: %v", err)
	}
	return l
}

func boolPtr(v bool) *bool { return &v }

func TestLoanRepository_CreateAndFindByID(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewLoanRepository(db)

	b := seedBook(t, db, "001", "As aventuras")
	created := seedLoan(t, db, b.ID, "张三", 0, nil)

	found, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("查询借阅失败: %v", err)
	}
	if found.Customer != "张三" {
		t.Errorf("借阅人错误: %s", found.Customer)
	}
	if !found.Outstanding() {
		t.Error("新建借阅应处于在借状态")
	}

	// 关联图书一并加载
	if found.Book == nil {
		t.Fatal("FindByID应预加载关联图书")
	}
	if found.Book.ISBN != "001" {
		t.Errorf("关联图书ISBN错误: %s", found.Book.ISBN)
	}
}

func TestLoanRepository_FindByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewLoanRepository(newTestDB(t))

	_, err := repo.FindByID(ctx, 999)
	if !errors.Is(err, loan.ErrLoanNotFound) {
		t.Errorf("期望ErrLoanNotFound,实际%v", err)
	}
}

// TestLoanRepository_ExistsOutstandingByBook "在借"判定:returned为NULL或false
func TestLoanRepository_ExistsOutstandingByBook(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewLoanRepository(db)

	b1 := seedBook(t, db, "001", "图书一")
	b2 := seedBook(t, db, "002", "图书二")
	b3 := seedBook(t, db, "003", "图书三")

	seedLoan(t, db, b1.ID, "张三", 1, nil)            // 在借(NULL)
	seedLoan(t, db, b2.ID, "李四", 1, boolPtr(false)) // 在借(false)
	seedLoan(t, db, b3.ID, "王五", 1, boolPtr(true))  // 已归还

	tests := []struct {
		name   string
		bookID uint
		want   bool
	}{
		{"returned为NULL算在借", b1.ID, true},
		{"returned为false算在借", b2.ID, true},
		{"已归还不算在借", b3.ID, false},
		{"无借阅记录", 999, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ExistsOutstandingByBook(ctx, tt.bookID)
			if err != nil {
				t.Fatalf("查询失败: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExistsOutstandingByBook=%v, 期望%v", got, tt.want)
			}
		})
	}
}

func TestLoanRepository_Update(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewLoanRepository(db)

	b := seedBook(t, db, "001", "图书一")
	l := seedLoan(t, db, b.ID, "张三", 2, nil)

	// 归还
	l.SetReturned(true)
	if err := repo.Update(ctx, l); err != nil {
		t.Fatalf("更新借阅失败: %v", err)
	}

	found, err := repo.FindByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("查询借阅失败: %v", err)
	}
	if found.Outstanding() {
		t.Error("归还后不应处于在借状态")
	}

	// 归还后该图书不再有在借记录
	exists, err := repo.ExistsOutstandingByBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if exists {
		t.Error("归还后不应存在在借记录")
	}
}

// TestLoanRepository_FindByISBNOrCustomer 逻辑或查询
// 匹配条件:图书ISBN等于isbn 或 借阅人等于customer(取并集,刻意设计)
func TestLoanRepository_FindByISBNOrCustomer(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewLoanRepository(db)

	b1 := seedBook(t, db, "978-1234567890", "图书一")
	b2 := seedBook(t, db, "978-0987654321", "图书二")

	seedLoan(t, db, b1.ID, "Fulano", 5, boolPtr(true)) // ISBN和借阅人都命中
	seedLoan(t, db, b1.ID, "Beltrano", 1, nil)         // 仅ISBN命中
	seedLoan(t, db, b2.ID, "Fulano", 2, nil)           // 仅借阅人命中
	seedLoan(t, db, b2.ID, "Ciclano", 3, nil)          // 都不命中

	page := pagination.Page{Page: 1, PageSize: 20}

	loans, total, err := repo.FindByISBNOrCustomer(ctx, "978-1234567890", "Fulano", page)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 3 {
		t.Fatalf("并集期望3条,实际%d条", total)
	}

	// 结果应预加载图书信息
	for _, l := range loans {
		if l.Book == nil {
			t.Errorf("借阅%d未预加载图书", l.ID)
		}
	}

	// 软删除的图书不参与匹配
	if err := NewBookRepository(db).Delete(ctx, b2.ID); err != nil {
		t.Fatalf("删除图书失败: %v", err)
	}
	_, total, err = repo.FindByISBNOrCustomer(ctx, "978-1234567890", "Fulano", page)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 2 {
		t.Errorf("图书删除后期望2条,实际%d条", total)
	}

	// 精确匹配语义:空条件不等于任何值,两个条件都为空时不命中记录
	// (不是"忽略空条件查全量")
	_, total, err = repo.FindByISBNOrCustomer(ctx, "", "", page)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 0 {
		t.Errorf("空条件期望0条,实际%d条", total)
	}
}

func TestLoanRepository_FindByBook(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewLoanRepository(db)

	b1 := seedBook(t, db, "001", "图书一")
	b2 := seedBook(t, db, "002", "图书二")

	// 图书一的借阅历史:两次已归还+一次在借
	seedLoan(t, db, b1.ID, "张三", 20, boolPtr(true))
	seedLoan(t, db, b1.ID, "李四", 10, boolPtr(true))
	seedLoan(t, db, b1.ID, "王五", 1, nil)
	// 图书二的借阅不应混入
	seedLoan(t, db, b2.ID, "赵六", 1, nil)

	loans, total, err := repo.FindByBook(ctx, b1.ID, pagination.Page{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("查询借阅历史失败: %v", err)
	}
	if total != 3 {
		t.Fatalf("期望3条历史,实际%d条", total)
	}

	// 按借出日期降序,最近的在前
	if loans[0].Customer != "王五" {
		t.Errorf("第一条应为最近借出,实际借阅人%s", loans[0].Customer)
	}
}

// TestLoanRepository_FindLateLoans 逾期查询
// 条件:loan_date <= threshold 且 在借;已归还的记录无论多旧都不算
func TestLoanRepository_FindLateLoans(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewLoanRepository(db)

	b := seedBook(t, db, "001", "图书一")
	b2 := seedBook(t, db, "002", "图书二")
	b3 := seedBook(t, db, "003", "图书三")
	b4 := seedBook(t, db, "004", "图书四")

	late := seedLoan(t, db, b.ID, "张三", 10, nil)       // 逾期
	seedLoan(t, db, b2.ID, "李四", 10, boolPtr(true))    // 旧但已归还
	seedLoan(t, db, b3.ID, "王五", 2, nil)               // 在借但未到期
	late2 := seedLoan(t, db, b4.ID, "赵六", 4, boolPtr(false)) // 恰好到阈值

	now := time.Now()
	threshold := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -loan.LateAfterDays)

	loans, err := repo.FindLateLoans(ctx, threshold)
	if err != nil {
		t.Fatalf("逾期查询失败: %v", err)
	}
	if len(loans) != 2 {
		t.Fatalf("期望2条逾期,实际%d条", len(loans))
	}

	// 按借出日期升序,最旧的在前
	if loans[0].ID != late.ID {
		t.Errorf("第一条应为最旧的逾期借阅%d,实际%d", late.ID, loans[0].ID)
	}
	if loans[1].ID != late2.ID {
		t.Errorf("第二条应为借阅%d,实际%d", late2.ID, loans[1].ID)
	}

	// 预加载图书供通知事件使用
	if loans[0].Book == nil {
		t.Error("逾期借阅应预加载图书")
	}
}
