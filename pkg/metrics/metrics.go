// Package metrics 提供基于Prometheus的指标收集框架
//
// # 什么是Metrics（指标）？
//
// Metrics是可观测性三支柱之一（Tracing、Metrics、Logging）：
// - **Tracing（追踪）**: 回答"为什么慢？"
// - **Metrics（指标）**: 回答"有多少？多快？"（本模块）
// - **Logging（日志）**: 回答"发生了什么？"
//
// # 核心概念
//
// **1. Counter（计数器）**：只增不减的累计值
//   - 示例：HTTP请求总数、借阅总数、错误总数
//   - 特点：只能调用Inc()递增
//
// **2. Gauge（仪表盘）**：可增可减的瞬时值
//   - 示例：当前逾期借阅数、goroutine数量、内存使用量
//   - 特点：可以调用Inc()、Dec()、Set()
//
// **3. Histogram（直方图）**：观测值的分布
//   - 示例：HTTP请求耗时、逾期扫描耗时
//   - 特点：自动计算分位数（P50、P90、P99）
//
// # DO/DON'T对比
//
// ❌ DON'T: 手动记录日志统计（无法聚合、查询困难）
//
//	func CreateLoan() {
//	    start := time.Now()
//	    // ... 业务逻辑 ...
//	    duration := time.Since(start)
//	    log.Printf("借阅创建耗时: %v", duration) // ❌ 无法查询P99耗时
//	}
//
// ✅ DO: 使用Prometheus指标
//
//	func CreateLoan() {
//	    start := time.Now()
//
//	    // ... 业务逻辑 ...
//
//	    // 记录耗时（自动计算P50、P90、P99）
//	    metrics.ObserveHistogram(metrics.LoanCreationDuration, time.Since(start).Seconds())
//
//	    // 递增借阅计数
//	    metrics.IncCounter(metrics.LoansCreatedTotal)
//	}
//
// # 常见指标命名规范
//
// 1. **Counter**: 以`_total`结尾
//   - `http_requests_total`（HTTP请求总数）
//   - `loans_created_total`（借阅创建总数）
//
// 2. **Histogram**: 以单位结尾（`_seconds`、`_bytes`）
//   - `http_request_duration_seconds`（HTTP请求耗时）
//
// 3. **Gauge**: 使用现在时态
//   - `late_loans_outstanding`（当前逾期在借数）
//
// # 最佳实践
//
// 1. **避免高基数标签（High Cardinality）**：
//   - ❌ 不要用customer作为标签（无界）
//   - ✅ 用status、method作为标签（有限个值）
//
// 2. **选择合适的指标类型**：
//   - 计数用Counter：请求数、错误数、借阅数
//   - 瞬时值用Gauge：逾期数、队列长度、内存
//   - 分布用Histogram：耗时、大小
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（/api/v1/loans）、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 图书业务指标

	// BooksCreatedTotal 图书登记总数（Counter）
	BooksCreatedTotal prometheus.Counter

	// BookCacheHitsTotal 图书缓存命中总数（Counter）
	// 标签：result（hit/miss）
	BookCacheHitsTotal *prometheus.CounterVec

	// 借阅业务指标

	// LoansCreatedTotal 借阅创建总数（Counter）
	LoansCreatedTotal prometheus.Counter

	// LoanConflictsTotal 借阅冲突总数（Counter）
	// 同一本书已有在借记录时的拒绝次数
	LoanConflictsTotal prometheus.Counter

	// LoansReturnedTotal 归还总数（Counter）
	LoansReturnedTotal prometheus.Counter

	// LoanCreationDuration 借阅创建耗时（Histogram）
	LoanCreationDuration prometheus.Histogram

	// 逾期检测指标

	// LateLoansDetected 最近一次扫描检出的逾期数（Gauge）
	LateLoansDetected prometheus.Gauge

	// LateLoanScansTotal 逾期扫描执行总数（Counter）
	// 标签：result（success/failure）
	LateLoanScansTotal *prometheus.CounterVec

	// LateLoanScanDuration 逾期扫描耗时（Histogram）
	LateLoanScanDuration prometheus.Histogram

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数（Counter）
	// 标签：name（熔断器名称）、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数（Counter）
	// 标签：queue（队列名称）、result（success/failure）
	MessagesConsumedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 必须在程序启动时调用一次，用于注册所有指标到全局Registry
//
// 设计要点：
// 1. 使用promauto.New*自动注册到默认Registry
// 2. Counter使用*Vec支持标签（多维度统计）
// 3. Histogram的Buckets根据业务场景定制
//
// 示例：
//
//	func main() {
//	    // 初始化指标
//	    metrics.InitMetrics()
//
//	    // 暴露/metrics端点
//	    router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	    // 启动业务服务
//	    startServer()
//	}
func InitMetrics() {
	// 防止重复初始化
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"}, // 标签：方法、路径、状态码
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
			// 覆盖大部分HTTP请求耗时范围
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"}, // 标签：方法、路径
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 图书业务指标
	BooksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "books_created_total",
			Help: "图书登记总数",
		},
	)

	BookCacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_cache_hits_total",
			Help: "图书缓存查询总数",
		},
		[]string{"result"}, // 标签：结果（hit/miss）
	)

	// 借阅业务指标
	LoansCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loans_created_total",
			Help: "借阅创建总数",
		},
	)

	LoanConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loan_conflicts_total",
			Help: "借阅冲突总数（图书已有在借记录）",
		},
	)

	LoansReturnedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loans_returned_total",
			Help: "归还总数",
		},
	)

	LoanCreationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "loan_creation_duration_seconds",
			Help: "借阅创建耗时（秒）",
			// 借阅创建涉及行锁和在借检查
			// 桶设置：10ms、50ms、100ms、500ms、1s、5s
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// 逾期检测指标
	LateLoansDetected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "late_loans_detected",
			Help: "最近一次扫描检出的逾期借阅数",
		},
	)

	LateLoanScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "late_loan_scans_total",
			Help: "逾期扫描执行总数",
		},
		[]string{"result"}, // 标签：结果（success/failure）
	)

	LateLoanScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "late_loan_scan_duration_seconds",
			Help:    "逾期扫描耗时（秒）",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 30},
		},
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"}, // 标签：熔断器名称
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"}, // 标签：熔断器名称、结果（success/failure/rejected）
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"}, // 标签：交换机、路由键
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"}, // 标签：队列名称、结果（success/failure）
	)
}

// IncCounter 递增Counter（便捷函数）
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	gauge.Set(value)
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
