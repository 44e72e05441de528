package dto

// CreateLoanRequest HTTP借阅创建请求
// 馆员按ISBN办理借出
type CreateLoanRequest struct {
	ISBN          string `json:"isbn" binding:"required,max=20" example:"978-0134190440"`
	Customer      string `json:"customer" binding:"required,max=100" example:"Fulano"`
	CustomerEmail string `json:"customer_email" binding:"omitempty,email,max=100" example:"fulano@example.com"`
}

// ReturnLoanRequest HTTP归还请求
// returned默认true;传false可撤销误操作的归还
type ReturnLoanRequest struct {
	Returned *bool `json:"returned" binding:"omitempty" example:"true"`
}

// LoanResponse HTTP借阅记录响应
type LoanResponse struct {
	ID            uint   `json:"id" example:"1"`
	BookID        uint   `json:"book_id" example:"1"`
	BookTitle     string `json:"book_title,omitempty" example:"The Go Programming Language"`
	ISBN          string `json:"isbn,omitempty" example:"978-0134190440"`
	Customer      string `json:"customer" example:"Fulano"`
	CustomerEmail string `json:"customer_email,omitempty" example:"fulano@example.com"`
	LoanDate      string `json:"loan_date" example:"2024-01-15"`
	Returned      bool   `json:"returned" example:"false"`
}

// FindLoansRequest HTTP借阅查询请求
// 注意:isbn与customer之间是"或"的关系(按任一维度宽搜索)
type FindLoansRequest struct {
	ISBN     string `form:"isbn" binding:"omitempty,max=20" example:"978-0134190440"`
	Customer string `form:"customer" binding:"omitempty,max=100" example:"Fulano"`
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}

// PageRequest 通用分页参数
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}
