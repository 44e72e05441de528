package pagination

// Page 分页参数(领域层共享的值对象)
// 设计说明:
// 1. 图书/借阅的分页查询共用同一套参数,避免各领域重复定义
// 2. Normalize统一处理默认值与上限,Repository无需各自兜底
type Page struct {
	Page     int // 页码(从1开始)
	PageSize int // 每页数量
}

const (
	// DefaultPageSize 默认每页数量
	DefaultPageSize = 20
	// MaxPageSize 每页数量上限(防止一次拉取过多数据)
	MaxPageSize = 100
)

// Normalize 规范化分页参数
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset 计算数据库偏移量
func (p Page) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages 根据总数计算总页数
func (p Page) TotalPages(total int64) int {
	if p.PageSize <= 0 {
		return 0
	}
	pages := int(total) / p.PageSize
	if int(total)%p.PageSize != 0 {
		pages++
	}
	return pages
}
