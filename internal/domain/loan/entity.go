package loan

import (
	"time"

	"github.com/xiebiao/library/internal/domain/book"
)

// LateAfterDays 逾期判定天数(固定策略,不可配置)
// 规则:未归还且借出日期在4天(含)之前的借阅视为逾期
const LateAfterDays = 4

// Loan 借阅记录实体(聚合根)
// DDD设计说明:
// 1. Loan引用Book(只保存BookID),不拥有图书聚合
// 2. Returned使用*bool:nil/false表示在借,true表示已归还
//    (区分"未设置"与"明确未归还",与历史数据保持兼容)
// 3. 同一本书同一时刻至多一条在借记录,已归还记录可有多条(借阅历史)
type Loan struct {
	ID            uint
	BookID        uint   // 关联图书ID
	Customer      string // 借阅人姓名
	CustomerEmail string // 借阅人邮箱(可选,用于逾期提醒)
	LoanDate      time.Time
	Returned      *bool // nil/false=在借, true=已归还
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Book 关联的图书(查询时按需填充,不参与持久化判断)
	Book *book.Book
}

// NewLoan 创建新借阅记录(工厂方法)
// 借出日期取当天,初始状态为在借(Returned保持nil)
func NewLoan(bookID uint, customer, customerEmail string) *Loan {
	now := time.Now()
	return &Loan{
		BookID:        bookID,
		Customer:      customer,
		CustomerEmail: customerEmail,
		LoanDate:      now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Outstanding 是否在借(未归还)
func (l *Loan) Outstanding() bool {
	return l.Returned == nil || !*l.Returned
}

// SetReturned 设置归还标记(领域行为)
// 注意:不校验状态迁移合法性——重复归还按现有行为静默接受,
// 收紧需求时再在此处加校验
func (l *Loan) SetReturned(returned bool) {
	l.Returned = &returned
	l.UpdatedAt = time.Now()
}

// IsLate 判断在指定时刻是否逾期
// 规则:在借 且 借出日期 <= 当天-LateAfterDays天(按日历日比较)
func (l *Loan) IsLate(now time.Time) bool {
	if !l.Outstanding() {
		return false
	}
	threshold := truncateToDay(now).AddDate(0, 0, -LateAfterDays)
	return !truncateToDay(l.LoanDate).After(threshold)
}

// DaysLate 已逾期天数(未逾期返回0)
func (l *Loan) DaysLate(now time.Time) int {
	if !l.IsLate(now) {
		return 0
	}
	days := int(truncateToDay(now).Sub(truncateToDay(l.LoanDate)).Hours()/24) - LateAfterDays
	if days < 0 {
		return 0
	}
	return days
}

// truncateToDay 截断到日历日(本地时区)
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Filter 借阅查询条件
// 注意:两个字段之间是"或"的关系——
// 图书ISBN精确等于filter.ISBN 或 借阅人等于filter.Customer
// (刻意设计,支持按任一维度宽搜索,不是交集)
type Filter struct {
	ISBN     string
	Customer string
}
