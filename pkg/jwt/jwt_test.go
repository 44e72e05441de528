package jwt

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

const testSecret = "test-secret-key-for-unit-tests"

// TestManager_GenerateAndParse 测试Token生成与解析
func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager(testSecret, 2*time.Hour, 7*24*time.Hour)

	pair, err := m.GenerateToken(42, "librarian@library.com", "图书管理员")
	if err != nil {
		t.Fatalf("生成Token失败: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("Token对不应为空")
	}
	if pair.ExpiresIn != int64((2 * time.Hour).Seconds()) {
		t.Errorf("ExpiresIn错误: %d", pair.ExpiresIn)
	}

	// 解析Access Token,验证Claims
	claims, err := m.ParseToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("解析Token失败: %v", err)
	}
	if claims.StaffID != 42 {
		t.Errorf("StaffID错误: %d", claims.StaffID)
	}
	if claims.Email != "librarian@library.com" {
		t.Errorf("Email错误: %s", claims.Email)
	}
	if claims.Issuer != "library" {
		t.Errorf("Issuer错误: %s", claims.Issuer)
	}
}

// TestManager_ParseToken_Expired 过期Token应返回ErrTokenExpired
func TestManager_ParseToken_Expired(t *testing.T) {
	// 有效期为负数:生成即过期
	m := NewManager(testSecret, -time.Hour, 7*24*time.Hour)

	pair, err := m.GenerateToken(1, "a@b.com", "测试")
	if err != nil {
		t.Fatalf("生成Token失败: %v", err)
	}

	_, err = m.ParseToken(pair.AccessToken)
	if !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("期望ErrTokenExpired,实际%v", err)
	}
}

// TestManager_ParseToken_WrongSecret 密钥不匹配应返回ErrInvalidToken
func TestManager_ParseToken_WrongSecret(t *testing.T) {
	m1 := NewManager(testSecret, 2*time.Hour, 7*24*time.Hour)
	m2 := NewManager("another-secret", 2*time.Hour, 7*24*time.Hour)

	pair, err := m1.GenerateToken(1, "a@b.com", "测试")
	if err != nil {
		t.Fatalf("生成Token失败: %v", err)
	}

	_, err = m2.ParseToken(pair.AccessToken)
	if !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("期望ErrInvalidToken,实际%v", err)
	}
}

// TestManager_ParseToken_Garbage 非法字符串应返回ErrInvalidToken
func TestManager_ParseToken_Garbage(t *testing.T) {
	m := NewManager(testSecret, 2*time.Hour, 7*24*time.Hour)

	_, err := m.ParseToken("not.a.token")
	if !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("期望ErrInvalidToken,实际%v", err)
	}
}

// TestManager_RefreshAccessToken 测试Token刷新
func TestManager_RefreshAccessToken(t *testing.T) {
	m := NewManager(testSecret, 2*time.Hour, 7*24*time.Hour)

	pair, err := m.GenerateToken(7, "refresh@library.com", "刷新测试")
	if err != nil {
		t.Fatalf("生成Token失败: %v", err)
	}

	newAccess, err := m.RefreshAccessToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("刷新Token失败: %v", err)
	}

	// 新Access Token可以正常解析,StaffID保持不变
	claims, err := m.ParseToken(newAccess)
	if err != nil {
		t.Fatalf("解析新Token失败: %v", err)
	}
	if claims.StaffID != 7 {
		t.Errorf("刷新后StaffID错误: %d", claims.StaffID)
	}
}
