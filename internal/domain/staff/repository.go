package staff

import (
	"context"
)

// Repository 馆员仓储接口
// 邮箱唯一性由数据库唯一索引保证,Create时冲突转换为ErrEmailDuplicate
type Repository interface {
	// Create 创建馆员
	Create(ctx context.Context, s *Staff) error

	// FindByID 根据ID查找馆员
	FindByID(ctx context.Context, id uint) (*Staff, error)

	// FindByEmail 根据邮箱查找馆员
	FindByEmail(ctx context.Context, email string) (*Staff, error)
}
