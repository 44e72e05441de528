package staff

import (
	"time"
)

// Staff 馆员实体(聚合根)
// DDD设计说明:
// 1. 馆员是图书/借阅管理操作的执行者,写操作接口需要馆员登录
// 2. 密码只保存bcrypt哈希,领域实体不暴露明文相关方法
// 3. 实体不带GORM tag,infrastructure层的Repository负责模型映射
type Staff struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStaff 创建新馆员(工厂方法)
// hashedPassword必须是bcrypt加密后的密码
func NewStaff(email, hashedPassword, name string) *Staff {
	now := time.Now()
	return &Staff{
		Email:     email,
		Password:  hashedPassword,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
