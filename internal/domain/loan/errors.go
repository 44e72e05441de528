package loan

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借阅领域错误定义
var (
	// ErrLoanNotFound 借阅记录不存在
	ErrLoanNotFound = apperrors.New(apperrors.ErrCodeLoanNotFound, "借阅记录不存在")

	// ErrBookAlreadyLoaned 图书已被借出(存在在借记录)
	ErrBookAlreadyLoaned = apperrors.New(apperrors.ErrCodeBookLoaned, "图书已被借出")

	// ErrMissingLoanID 缺少借阅记录ID
	ErrMissingLoanID = apperrors.New(apperrors.ErrCodeMissingID, "借阅记录ID不能为空")
)
