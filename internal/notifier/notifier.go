// Package notifier 实现逾期借阅的周期检测与事件通知
//
// 设计说明:
// 1. 周期扫描:time.Ticker按固定间隔扫描全部逾期借阅
// 2. 事件发布:每条逾期记录发布一条loan.overdue事件到RabbitMQ,
//    下游消费者(邮件/短信服务)订阅处理,与检测逻辑解耦
// 3. 熔断保护:MQ故障时熔断器快速失败,放弃本轮剩余通知,
//    逾期记录不会丢失——下一轮扫描会重新检出
package notifier

import (
	"context"
	"errors"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// RoutingKeyLoanOverdue 逾期事件路由键
const RoutingKeyLoanOverdue = "loan.overdue"

// Publisher 消息发布接口(由pkg/mq.Publisher实现)
type Publisher interface {
	Publish(routingKey string, message interface{}) error
}

// LoanOverdueEvent 逾期事件载荷
type LoanOverdueEvent struct {
	LoanID        uint   `json:"loan_id"`
	BookID        uint   `json:"book_id"`
	BookTitle     string `json:"book_title,omitempty"`
	ISBN          string `json:"isbn,omitempty"`
	Customer      string `json:"customer"`
	CustomerEmail string `json:"customer_email,omitempty"`
	LoanDate      string `json:"loan_date"`
	DaysLate      int    `json:"days_late"`
	DetectedAt    string `json:"detected_at"`
}

// Notifier 逾期通知器
type Notifier struct {
	loanService loan.Service
	publisher   Publisher
	breaker     *circuitbreaker.CircuitBreaker
	interval    time.Duration
	exchange    string // 仅用于指标标签
}

// New 创建逾期通知器
func New(loanService loan.Service, publisher Publisher, interval time.Duration, exchange string) *Notifier {
	// MQ连续失败5次后熔断30秒,半开期放1个探测请求
	breaker := circuitbreaker.NewCircuitBreaker("notification-mq", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	// 状态变化同步到监控指标
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("⚡ 熔断器状态变化: %s %s → %s", name, from, to)
		metrics.SetGaugeVec(metrics.CircuitBreakerState,
			map[string]string{"name": name}, float64(to))
	})

	return &Notifier{
		loanService: loanService,
		publisher:   publisher,
		breaker:     breaker,
		interval:    interval,
		exchange:    exchange,
	}
}

// Run 启动扫描循环(阻塞,建议在独立goroutine中运行)
// ctx取消后优雅退出
func (n *Notifier) Run(ctx context.Context) {
	log.Printf("🔔 逾期通知器已启动: 扫描间隔=%v", n.interval)

	// 启动时先扫一轮,不等第一个tick
	n.ScanOnce(ctx)

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("🛑 逾期通知器退出")
			return
		case <-ticker.C:
			n.ScanOnce(ctx)
		}
	}
}

// ScanOnce 执行一轮逾期扫描与通知
// 返回本轮检出的逾期数量(便于测试断言)
func (n *Notifier) ScanOnce(ctx context.Context) int {
	ctx, span := tracing.StartSpan(ctx, "library-notifier", "ScanLateLoans")
	defer span.End()

	start := time.Now()

	lateLoans, err := n.loanService.GetAllLateLoans(ctx)
	if err != nil {
		span.RecordError(err)
		log.Printf("❌ 逾期扫描失败: %v", err)
		metrics.IncCounterVec(metrics.LateLoanScansTotal, map[string]string{"result": "failure"})
		return 0
	}

	span.SetAttributes(attribute.Int("late_loans", len(lateLoans)))
	metrics.IncCounterVec(metrics.LateLoanScansTotal, map[string]string{"result": "success"})
	metrics.SetGauge(metrics.LateLoansDetected, float64(len(lateLoans)))
	metrics.ObserveHistogram(metrics.LateLoanScanDuration, time.Since(start).Seconds())

	if len(lateLoans) == 0 {
		return 0
	}

	log.Printf("📋 检出%d条逾期借阅", len(lateLoans))
	n.notify(lateLoans)
	return len(lateLoans)
}

// notify 逐条发布逾期事件(熔断保护)
func (n *Notifier) notify(lateLoans []*loan.Loan) {
	now := time.Now()

	for _, l := range lateLoans {
		event := toEvent(l, now)

		err := n.breaker.Execute(func() error {
			return n.publisher.Publish(RoutingKeyLoanOverdue, event)
		})

		switch {
		case errors.Is(err, circuitbreaker.ErrOpenState):
			// 熔断器打开,放弃本轮剩余通知(下一轮扫描会重新检出)
			log.Printf("⚡ 通知熔断器打开,本轮剩余%d条通知跳过", remaining(lateLoans, l))
			metrics.IncCounterVec(metrics.CircuitBreakerRequests,
				map[string]string{"name": "notification-mq", "result": "rejected"})
			return
		case err != nil:
			log.Printf("❌ 逾期事件发布失败: loan_id=%d, err=%v", l.ID, err)
			metrics.IncCounterVec(metrics.CircuitBreakerRequests,
				map[string]string{"name": "notification-mq", "result": "failure"})
		default:
			metrics.IncCounterVec(metrics.CircuitBreakerRequests,
				map[string]string{"name": "notification-mq", "result": "success"})
			metrics.IncCounterVec(metrics.MessagesPublishedTotal,
				map[string]string{"exchange": n.exchange, "routing_key": RoutingKeyLoanOverdue})
		}
	}
}

// toEvent 借阅实体转逾期事件
func toEvent(l *loan.Loan, now time.Time) LoanOverdueEvent {
	event := LoanOverdueEvent{
		LoanID:        l.ID,
		BookID:        l.BookID,
		Customer:      l.Customer,
		CustomerEmail: l.CustomerEmail,
		LoanDate:      l.LoanDate.Format("2006-01-02"),
		DaysLate:      l.DaysLate(now),
		DetectedAt:    now.Format(time.RFC3339),
	}
	if l.Book != nil {
		event.BookTitle = l.Book.Title
		event.ISBN = l.Book.ISBN
	}
	return event
}

// remaining 统计l之后(含l)还有多少条未通知
func remaining(loans []*loan.Loan, current *loan.Loan) int {
	for i, l := range loans {
		if l == current {
			return len(loans) - i
		}
	}
	return 0
}
