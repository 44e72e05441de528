package book

import (
	"context"

	"github.com/xiebiao/library/pkg/pagination"
)

// Service 图书目录领域服务接口
// 设计说明:
// 1. 领域服务只负责唯一性与标识相关的不变量,
//    字段非空等输入校验由接口层(binding tag)完成
// 2. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// Create 登记图书
	// 业务规则:ISBN不能重复(先查重,存储层唯一索引兜底)
	Create(ctx context.Context, b *Book) (*Book, error)

	// GetByID 根据ID获取图书(不存在返回ErrBookNotFound)
	GetByID(ctx context.Context, id uint) (*Book, error)

	// GetByISBN 根据ISBN精确查找图书
	GetByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 更新图书信息
	// 业务规则:ID不能为空;调用方先修改书名/作者再调用
	Update(ctx context.Context, b *Book) (*Book, error)

	// Delete 删除图书
	// 业务规则:ID不能为空
	// 注意:不检查是否存在未归还借阅(与现有行为保持一致,收紧需求时再校验)
	Delete(ctx context.Context, b *Book) error

	// Find 模糊分页查询
	Find(ctx context.Context, filter Filter, page pagination.Page) ([]*Book, int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书目录服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Create 登记图书
func (s *service) Create(ctx context.Context, b *Book) (*Book, error) {
	// 1. ISBN查重
	// 说明:先查重是为了返回明确的业务错误;
	// 并发窗口由存储层唯一索引兜底(Repository把冲突转换为ErrISBNDuplicate)
	exists, err := s.repo.ExistsByISBN(ctx, b.ISBN)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrISBNDuplicate
	}

	// 2. 持久化(回填自增ID)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// GetByID 根据ID获取图书
func (s *service) GetByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// GetByISBN 根据ISBN获取图书
func (s *service) GetByISBN(ctx context.Context, isbn string) (*Book, error) {
	return s.repo.FindByISBN(ctx, isbn)
}

// Update 更新图书信息
func (s *service) Update(ctx context.Context, b *Book) (*Book, error) {
	if b == nil || b.ID == 0 {
		return nil, ErrMissingBookID
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete 删除图书
func (s *service) Delete(ctx context.Context, b *Book) error {
	if b == nil || b.ID == 0 {
		return ErrMissingBookID
	}

	return s.repo.Delete(ctx, b.ID)
}

// Find 模糊分页查询
func (s *service) Find(ctx context.Context, filter Filter, page pagination.Page) ([]*Book, int64, error) {
	return s.repo.Find(ctx, filter, page.Normalize())
}
