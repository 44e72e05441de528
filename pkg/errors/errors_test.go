package errors

import (
	stderrors "errors"
	"testing"
)

// TestNew 测试AppError创建
func TestNew(t *testing.T) {
	err := New(ErrCodeBookNotFound, "图书不存在")

	if err.Code != ErrCodeBookNotFound {
		t.Errorf("错误码错误: expected=%d, got=%d", ErrCodeBookNotFound, err.Code)
	}
	if err.Message != "图书不存在" {
		t.Errorf("错误信息错误: %s", err.Message)
	}
	if err.Err != nil {
		t.Error("New创建的错误不应包含内部错误")
	}
}

// TestWrap 测试系统错误包装
func TestWrap(t *testing.T) {
	inner := stderrors.New("connection refused")
	err := Wrap(inner, "数据库错误")

	if err.Code != ErrCodeInternal {
		t.Errorf("包装错误的错误码应为内部错误: %d", err.Code)
	}

	// Unwrap链:errors.Is能找到内部错误
	if !stderrors.Is(err, inner) {
		t.Error("errors.Is应能找到被包装的内部错误")
	}
}

// TestIsAppError 测试AppError判断
func TestIsAppError(t *testing.T) {
	if !IsAppError(New(ErrCodeInvalidParams, "参数错误")) {
		t.Error("AppError应被识别")
	}
	if IsAppError(stderrors.New("plain error")) {
		t.Error("普通错误不应被识别为AppError")
	}
	if IsAppError(nil) {
		t.Error("nil不应被识别为AppError")
	}
}

// TestGetAppError 测试AppError提取
func TestGetAppError(t *testing.T) {
	// AppError直接返回
	original := New(ErrCodeLoanNotFound, "借阅记录不存在")
	if got := GetAppError(original); got != original {
		t.Error("AppError应原样返回")
	}

	// 普通错误包装为内部错误
	got := GetAppError(stderrors.New("unexpected"))
	if got.Code != ErrCodeInternal {
		t.Errorf("普通错误应包装为内部错误: %d", got.Code)
	}
}

// TestIsNotFound 测试"资源不存在"类错误判断
// 约定:40400-40499区间的错误码表示资源不存在
func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"图书不存在", New(ErrCodeBookNotFound, "图书不存在"), true},
		{"借阅不存在", New(ErrCodeLoanNotFound, "借阅记录不存在"), true},
		{"馆员不存在", ErrStaffNotFound, true},
		{"业务错误不算不存在", New(ErrCodeBookLoaned, "图书已被借出"), false},
		{"参数错误不算不存在", ErrInvalidParams, false},
		{"普通错误", stderrors.New("plain"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound()=%v, 期望%v", got, tt.want)
			}
		})
	}
}
