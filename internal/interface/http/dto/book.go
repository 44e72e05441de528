package dto

// CreateBookRequest HTTP图书登记请求
// validator tag说明:
// - required: 必填字段
// - min/max: 长度范围校验
type CreateBookRequest struct {
	ISBN   string `json:"isbn" binding:"required,max=20" example:"978-0134190440"`
	Title  string `json:"title" binding:"required,max=200" example:"The Go Programming Language"`
	Author string `json:"author" binding:"required,max=100" example:"Alan Donovan"`
}

// UpdateBookRequest HTTP图书更新请求
// ID来自URL路径,这里只有可更新字段(空字段保持不变,ISBN不可变更)
type UpdateBookRequest struct {
	Title  string `json:"title" binding:"omitempty,max=200" example:"The Go Programming Language"`
	Author string `json:"author" binding:"omitempty,max=100" example:"Alan Donovan"`
}

// BookResponse HTTP图书响应
// 用于单个图书详情返回
type BookResponse struct {
	ID        uint   `json:"id" example:"1"`
	ISBN      string `json:"isbn" example:"978-0134190440"`
	Title     string `json:"title" example:"The Go Programming Language"`
	Author    string `json:"author" example:"Alan Donovan"`
	CreatedAt string `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt string `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// FindBooksRequest HTTP图书模糊查询请求
// 所有过滤条件可选,非空条件之间是"且"的关系,子串匹配不区分大小写
type FindBooksRequest struct {
	Title    string `form:"title" binding:"omitempty,max=200" example:"aventuras"`
	Author   string `form:"author" binding:"omitempty,max=100" example:"Artur"`
	ISBN     string `form:"isbn" binding:"omitempty,max=20" example:"001"`
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}
