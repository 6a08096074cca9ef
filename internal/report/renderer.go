package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"threat-radar/internal/config"
	"threat-radar/internal/logging"
)

// Renderer 仪表盘报告渲染器，使用无头浏览器把雷达页面导出为PNG
type Renderer struct {
	config  config.ReportConfig
	mutex   sync.Mutex
	browser *rod.Browser
	running bool
}

// RenderResult 单次渲染结果
type RenderResult struct {
	Success    bool          `json:"success"`
	OutputPath string        `json:"output_path"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
}

// NewRenderer 创建报告渲染器
func NewRenderer(cfg config.ReportConfig) *Renderer {
	return &Renderer{
		config: cfg,
	}
}

// Start 启动无头浏览器
func (r *Renderer) Start() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.running {
		return nil
	}

	// 启动一个新的浏览器实例
	launchOpts := launcher.New()
	launchOpts.Set("headless")
	launchOpts.Set("no-sandbox")
	launchOpts.Set("disable-dev-shm-usage")
	launchOpts.Set("disable-gpu")
	launchOpts.Set("disable-setuid-sandbox")
	launchOpts.Set("ignore-certificate-errors")

	browserURL, err := launchOpts.Launch()
	if err != nil {
		return fmt.Errorf("failed to launch browser: %v", err)
	}

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("failed to connect to browser: %v", err)
	}

	// 确保输出目录存在
	if err := os.MkdirAll(r.config.OutputDir, 0755); err != nil {
		browser.MustClose()
		return fmt.Errorf("failed to create report output dir: %v", err)
	}

	r.browser = browser
	r.running = true
	logging.DefaultLogger.Info("Report renderer started: page=%s output=%s", r.config.PageURL, r.config.OutputDir)
	return nil
}

// Stop 关闭无头浏览器
func (r *Renderer) Stop() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.running {
		return
	}

	if r.browser != nil {
		r.browser.MustClose()
		r.browser = nil
	}
	r.running = false
}

// Render 渲染一次仪表盘并保存PNG截图
func (r *Renderer) Render() (result *RenderResult) {
	start := time.Now()
	result = &RenderResult{Success: false}

	r.mutex.Lock()
	browser := r.browser
	running := r.running
	r.mutex.Unlock()

	if !running || browser == nil {
		result.Error = "renderer is not running"
		return result
	}

	// 使用defer恢复panic，浏览器操作失败时rod会panic
	defer func() {
		if rec := recover(); rec != nil {
			result.Success = false
			result.Error = fmt.Sprintf("render panic: %v", rec)
			result.Duration = time.Since(start)
			logging.DefaultLogger.Error("Report render failed: %s", result.Error)
		}
	}()

	page := browser.MustPage()
	defer page.MustClose()

	width := r.config.Width
	if width <= 0 {
		width = 1920
	}
	height := r.config.Height
	if height <= 0 {
		height = 1080
	}
	page.MustSetViewport(width, height, 1, false)

	timeout := time.Duration(r.config.TimeoutS) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	page = page.Timeout(timeout)

	page.MustNavigate(r.config.PageURL)
	page.MustWaitLoad()

	// 雷达布局和力导向模拟在前端完成，等待动画稳定
	time.Sleep(2 * time.Second)

	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		result.Error = fmt.Sprintf("failed to capture screenshot: %v", err)
		result.Duration = time.Since(start)
		return result
	}

	outputPath := filepath.Join(r.config.OutputDir, fmt.Sprintf("radar-%s.png", time.Now().Format("20060102-150405")))
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		result.Error = fmt.Sprintf("failed to write report file: %v", err)
		result.Duration = time.Since(start)
		return result
	}

	result.Success = true
	result.OutputPath = outputPath
	result.Duration = time.Since(start)
	logging.DefaultLogger.Info("Report rendered: path=%s duration=%s", outputPath, result.Duration)
	return result
}

// ListReports 列出已生成的报告文件，按名称倒序（即时间倒序）
func (r *Renderer) ListReports() ([]string, error) {
	entries, err := os.ReadDir(r.config.OutputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var reports []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == ".png" {
			reports = append(reports, entry.Name())
		}
	}

	// 文件名带时间戳，倒序排列即最新在前
	for i, j := 0, len(reports)-1; i < j; i, j = i+1, j-1 {
		reports[i], reports[j] = reports[j], reports[i]
	}

	return reports, nil
}
