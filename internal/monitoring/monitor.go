package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// Metrics 监控指标
var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "radar_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	responseTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "radar_response_time_seconds",
			Help:    "API response time in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	feedRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "radar_feed_refreshes_total",
			Help: "Total number of threat feed refreshes",
		},
		[]string{"result"},
	)

	threatsIngested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "radar_threats_ingested_total",
			Help: "Total number of threats ingested from the feed",
		},
	)

	layoutDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "radar_layout_duration_seconds",
			Help:    "Radar ring layout computation time in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	simulationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "radar_graph_simulation_duration_seconds",
			Help:    "Force simulation run time in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	hitTests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "radar_hit_tests_total",
			Help: "Total number of pointer hit tests",
		},
	)

	snapshotRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "radar_report_renders_total",
			Help: "Total number of dashboard report renders",
		},
		[]string{"result"},
	)
)

// Monitor 监控管理器
type Monitor struct {
	isRunning bool
	wg        sync.WaitGroup
	stopCh    chan struct{}
	address   string
}

// Config 监控配置
type Config struct {
	Enabled           bool
	PrometheusAddress string
}

// NewMonitor 创建新的监控管理器
func NewMonitor(config Config) *Monitor {
	address := config.PrometheusAddress
	if address == "" {
		address = ":9090"
	}
	return &Monitor{
		isRunning: false,
		stopCh:    make(chan struct{}),
		address:   address,
	}
}

// Start 启动监控服务
func (m *Monitor) Start() error {
	if m.isRunning {
		return nil
	}

	// 注册指标
	prometheus.MustRegister(
		requestsTotal,
		responseTime,
		feedRefreshes,
		threatsIngested,
		layoutDuration,
		simulationDuration,
		hitTests,
		snapshotRenders,
	)

	// 启动Prometheus服务器
	go func() {
		m.wg.Add(1)
		defer m.wg.Done()

		http.Handle("/metrics", promhttp.Handler())
		http.ListenAndServe(m.address, nil)
	}()

	m.isRunning = true
	return nil
}

// Stop 停止监控服务
func (m *Monitor) Stop() error {
	if !m.isRunning {
		return nil
	}

	close(m.stopCh)
	m.wg.Wait()
	m.isRunning = false
	return nil
}

// RecordRequest 记录请求
func (m *Monitor) RecordRequest(method, path string, status int, duration time.Duration) {
	requestsTotal.WithLabelValues(method, path, http.StatusText(status)).Inc()
	responseTime.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordFeedRefresh 记录一次威胁源刷新
func (m *Monitor) RecordFeedRefresh(success bool, ingested int) {
	result := "success"
	if !success {
		result = "error"
	}
	feedRefreshes.WithLabelValues(result).Inc()
	if ingested > 0 {
		threatsIngested.Add(float64(ingested))
	}
}

// RecordLayoutDuration 记录雷达布局耗时
func (m *Monitor) RecordLayoutDuration(duration time.Duration) {
	layoutDuration.Observe(duration.Seconds())
}

// RecordSimulationDuration 记录力导向模拟耗时
func (m *Monitor) RecordSimulationDuration(duration time.Duration) {
	simulationDuration.Observe(duration.Seconds())
}

// RecordHitTest 记录一次命中检测
func (m *Monitor) RecordHitTest() {
	hitTests.Inc()
}

// RecordReportRender 记录一次报告渲染
func (m *Monitor) RecordReportRender(success bool) {
	result := "success"
	if !success {
		result = "error"
	}
	snapshotRenders.WithLabelValues(result).Inc()
}

// GetStats 获取系统统计数据
func (m *Monitor) GetStats() map[string]interface{} {
	stats := map[string]interface{}{
		"cpuUsage":    0.0,
		"memoryUsage": 0.0,
		"diskUsage":   0.0,
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats["cpuUsage"] = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats["memoryUsage"] = vm.UsedPercent
	}
	if du, err := disk.Usage("/"); err == nil {
		stats["diskUsage"] = du.UsedPercent
	}

	return stats
}
