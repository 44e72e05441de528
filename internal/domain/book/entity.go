package book

import (
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是图书聚合的根实体,馆藏按"一书一册"管理(不做多副本库存)
// 2. ISBN作为业务唯一标识(数据库层唯一索引保证)
// 3. ISBN创建后按约定不可变更,Update只应修改书名/作者
type Book struct {
	ID        uint
	ISBN      string // ISBN号(国际标准书号)
	Title     string // 书名
	Author    string // 作者
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBook 创建新图书(工厂方法)
// 调用方(接口层)负责非空校验,这里只负责组装实体
func NewBook(isbn, title, author string) *Book {
	now := time.Now()
	return &Book{
		ISBN:      isbn,
		Title:     title,
		Author:    author,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateInfo 更新图书基本信息(领域行为)
// 业务规则:ISBN不在此处修改,只更新书名与作者
func (b *Book) UpdateInfo(title, author string) {
	if title != "" {
		b.Title = title
	}
	if author != "" {
		b.Author = author
	}
	b.UpdatedAt = time.Now()
}

// Filter 图书模糊查询条件
// 设计说明:
// 所有非空字段按"不区分大小写的子串匹配"参与过滤,空字段忽略
// (显式的谓词构造,不依赖反射式的Example匹配)
type Filter struct {
	Title  string
	Author string
	ISBN   string
}

// IsEmpty 判断过滤条件是否为空(为空时等价于查全量)
func (f Filter) IsEmpty() bool {
	return f.Title == "" && f.Author == "" && f.ISBN == ""
}
