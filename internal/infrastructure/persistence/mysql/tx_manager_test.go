package mysql

import (
	"context"
	"errors"
	"testing"

	"github.com/xiebiao/library/internal/domain/book"
)

// TestTxManager_Commit fn返回nil时提交事务
func TestTxManager_Commit(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	txManager := NewTxManager(db)
	repo := NewBookRepository(db)

	err := txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 事务内的Repository操作走同一事务连接
		return repo.Create(txCtx, book.NewBook("001", "事务图书", "作者"))
	})
	if err != nil {
		t.Fatalf("事务执行失败: %v", err)
	}

	// 提交后事务外可见
	if _, err := repo.FindByISBN(ctx, "001"); err != nil {
		t.Errorf("提交后应能查到记录: %v", err)
	}
}

// TestTxManager_Rollback fn返回error时回滚事务
func TestTxManager_Rollback(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	txManager := NewTxManager(db)
	repo := NewBookRepository(db)

	boom := errors.New("boom")
	err := txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := repo.Create(txCtx, book.NewBook("002", "回滚图书", "作者")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("期望返回fn的错误,实际%v", err)
	}

	// 回滚后记录不可见
	if _, err := repo.FindByISBN(ctx, "002"); !errors.Is(err, book.ErrBookNotFound) {
		t.Errorf("回滚后期望ErrBookNotFound,实际%v", err)
	}
}

// TestTxManager_ConflictCheckInTransaction 事务内的检查-插入流程
// (借阅创建的核心形态,这里验证事务上下文贯穿多个仓储调用)
func TestTxManager_ConflictCheckInTransaction(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	txManager := NewTxManager(db)
	loanRepo := NewLoanRepository(db)

	b := seedBook(t, db, "001", "图书一")
	seedLoan(t, db, b.ID, "张三", 1, nil)

	// 事务内检出在借记录,放弃插入
	err := txManager.Transaction(ctx, func(txCtx context.Context) error {
		exists, err := loanRepo.ExistsOutstandingByBook(txCtx, b.ID)
		if err != nil {
			return err
		}
		if exists {
			return nil // 不插入
		}
		t.Error("应检出在借记录")
		return nil
	})
	if err != nil {
		t.Fatalf("事务执行失败: %v", err)
	}
}
