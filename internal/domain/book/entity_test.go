package book

import (
	"testing"
)

// TestBook_UpdateInfo 测试图书信息更新
func TestBook_UpdateInfo(t *testing.T) {
	b := NewBook("978-0132350884", "Clean Code", "Robert Martin")

	// 只更新书名,作者保持不变
	b.UpdateInfo("代码整洁之道", "")
	if b.Title != "代码整洁之道" {
		t.Errorf("书名未更新: %s", b.Title)
	}
	if b.Author != "Robert Martin" {
		t.Errorf("空作者不应覆盖原值: %s", b.Author)
	}

	// 只更新作者
	b.UpdateInfo("", "罗伯特·马丁")
	if b.Title != "代码整洁之道" {
		t.Errorf("空书名不应覆盖原值: %s", b.Title)
	}
	if b.Author != "罗伯特·马丁" {
		t.Errorf("作者未更新: %s", b.Author)
	}

	// ISBN不受影响
	if b.ISBN != "978-0132350884" {
		t.Errorf("UpdateInfo不应修改ISBN: %s", b.ISBN)
	}
}

// TestFilter_IsEmpty 测试过滤条件判空
func TestFilter_IsEmpty(t *testing.T) {
	if !(Filter{}).IsEmpty() {
		t.Error("零值Filter应为空")
	}
	if (Filter{Title: "Go"}).IsEmpty() {
		t.Error("含书名的Filter不应为空")
	}
	if (Filter{ISBN: "001"}).IsEmpty() {
		t.Error("含ISBN的Filter不应为空")
	}
}
