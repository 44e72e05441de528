package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	apploan "github.com/xiebiao/library/internal/application/loan"
	"github.com/xiebiao/library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// LoanHandler 借阅HTTP处理器
type LoanHandler struct {
	createLoanUseCase  *apploan.CreateLoanUseCase
	returnLoanUseCase  *apploan.ReturnLoanUseCase
	findLoansUseCase   *apploan.FindLoansUseCase
	loansByBookUseCase *apploan.LoansByBookUseCase
}

// NewLoanHandler 创建借阅处理器
func NewLoanHandler(
	createLoanUseCase *apploan.CreateLoanUseCase,
	returnLoanUseCase *apploan.ReturnLoanUseCase,
	findLoansUseCase *apploan.FindLoansUseCase,
	loansByBookUseCase *apploan.LoansByBookUseCase,
) *LoanHandler {
	return &LoanHandler{
		createLoanUseCase:  createLoanUseCase,
		returnLoanUseCase:  returnLoanUseCase,
		findLoansUseCase:   findLoansUseCase,
		loansByBookUseCase: loansByBookUseCase,
	}
}

// CreateLoan 办理借出
// @Summary      办理借出
// @Description  按ISBN为读者办理借出;同一本书存在在借记录时拒绝
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateLoanRequest true "借阅信息"
// @Success      200 {object} response.Response{data=dto.LoanResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "图书已借出"
// @Router       /api/v1/loans [post]
func (h *LoanHandler) CreateLoan(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	// 2. 调用应用层用例
	result, err := h.createLoanUseCase.Execute(c.Request.Context(), apploan.CreateLoanRequest{
		ISBN:          req.ISBN,
		Customer:      req.Customer,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 构建HTTP响应
	response.Success(c, &dto.LoanResponse{
		ID:        result.LoanID,
		BookID:    result.BookID,
		BookTitle: result.BookTitle,
		ISBN:      result.ISBN,
		Customer:  result.Customer,
		LoanDate:  result.LoanDate,
		Returned:  result.Returned,
	})
}

// ReturnLoan 办理归还
// @Summary      办理归还
// @Description  更新归还标记;重复归还幂等接受,传returned=false可撤销
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅记录ID"
// @Param        request body dto.ReturnLoanRequest false "归还标记(默认true)"
// @Success      200 {object} response.Response{data=dto.LoanResponse}
// @Failure      404 {object} response.Response "借阅记录不存在"
// @Router       /api/v1/loans/{id} [patch]
func (h *LoanHandler) ReturnLoan(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	// 请求体可省略(省略等价于returned=true)
	var req dto.ReturnLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	// 未显式传returned时默认归还
	returned := true
	if req.Returned != nil {
		returned = *req.Returned
	}

	result, err := h.returnLoanUseCase.Execute(c.Request.Context(), apploan.ReturnLoanRequest{
		LoanID:   id,
		Returned: returned,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toLoanResponse(result))
}

// FindLoans 查询借阅记录
// @Summary      借阅记录查询
// @Description  按图书ISBN或借阅人查询(两个条件取并集,刻意设计);条件为精确匹配,空条件不会命中任何记录
// @Tags         借阅
// @Produce      json
// @Param        isbn query string false "图书ISBN(精确匹配)"
// @Param        customer query string false "借阅人(精确匹配)"
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/loans [get]
func (h *LoanHandler) FindLoans(c *gin.Context) {
	var req dto.FindLoansRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.findLoansUseCase.Execute(c.Request.Context(), apploan.FindLoansRequest{
		ISBN:     req.ISBN,
		Customer: req.Customer,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, toLoanResponses(result.List), result.Total, result.Page, result.PageSize)
}

// LoansByBook 查询图书借阅历史
// @Summary      图书借阅历史
// @Description  查询某本图书的全部借阅记录(含已归还)
// @Tags         借阅
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id}/loans [get]
func (h *LoanHandler) LoansByBook(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.loansByBookUseCase.Execute(c.Request.Context(), apploan.LoansByBookRequest{
		BookID:   id,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, toLoanResponses(result.List), result.Total, result.Page, result.PageSize)
}

// toLoanResponse 应用层DTO转HTTP响应
func toLoanResponse(d *apploan.LoanDetail) *dto.LoanResponse {
	return &dto.LoanResponse{
		ID:            d.ID,
		BookID:        d.BookID,
		BookTitle:     d.BookTitle,
		ISBN:          d.ISBN,
		Customer:      d.Customer,
		CustomerEmail: d.CustomerEmail,
		LoanDate:      d.LoanDate,
		Returned:      d.Returned,
	}
}

// toLoanResponses 批量转换
func toLoanResponses(list []apploan.LoanDetail) []*dto.LoanResponse {
	out := make([]*dto.LoanResponse, len(list))
	for i := range list {
		out[i] = toLoanResponse(&list[i])
	}
	return out
}
