package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"threat-radar/internal/logging"
	"threat-radar/internal/models"
)

// ProviderClient 外部威胁数据源客户端
type ProviderClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewProviderClient 创建威胁源客户端
func NewProviderClient(endpoint, apiKey string, timeout time.Duration) *ProviderClient {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &ProviderClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// Fetch 拉取原始威胁条目
func (p *ProviderClient) Fetch(ctx context.Context, payload map[string]any) ([]RawItem, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feed payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach threat feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("threat feed returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed response: %w", err)
	}
	return DecodeItems(data)
}

// SnapshotStore 快照存储
type SnapshotStore interface {
	UpsertSnapshot(ctx context.Context, snapshot models.RadarSnapshot) error
}

// Enricher 威胁补全增强，失败只降级不中断摄取
type Enricher interface {
	Enrich(t *models.Threat, item RawItem)
}

// Collector 威胁源采集器
// 定时拉取、归一化、评分、增强、入库，并把新快照推给订阅者。
// 订阅通过显式句柄管理，取消订阅调用返回的函数即可。
type Collector struct {
	provider *ProviderClient
	profile  *CustomerProfile
	store    SnapshotStore
	enricher Enricher
	payload  map[string]any

	mu          sync.RWMutex
	subscribers map[int]func(models.RadarSnapshot)
	nextSubID   int

	now func() time.Time
}

// NewCollector 创建采集器
func NewCollector(provider *ProviderClient, profile *CustomerProfile, store SnapshotStore, enricher Enricher) *Collector {
	return &Collector{
		provider:    provider,
		profile:     profile,
		store:       store,
		enricher:    enricher,
		payload:     map[string]any{},
		subscribers: make(map[int]func(models.RadarSnapshot)),
		now:         time.Now,
	}
}

// SetPayload 设置拉取请求的载荷
func (c *Collector) SetPayload(payload map[string]any) {
	c.payload = payload
}

// Subscribe 订阅快照更新
// 返回的函数用于取消订阅，重复调用是无害的
func (c *Collector) Subscribe(fn func(models.RadarSnapshot)) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

// notify 把快照推给当前所有订阅者
func (c *Collector) notify(snapshot models.RadarSnapshot) {
	c.mu.RLock()
	fns := make([]func(models.RadarSnapshot), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

// Refresh 执行一次完整的采集管道
func (c *Collector) Refresh(ctx context.Context) (*models.RadarSnapshot, error) {
	items, err := c.provider.Fetch(ctx, c.payload)
	if err != nil {
		return nil, err
	}

	now := c.now().UTC()
	threats := make([]*models.Threat, 0, len(items))
	for _, item := range items {
		t := item.ToThreat(c.profile, now)
		Score(t, now)
		if c.enricher != nil {
			c.enricher.Enrich(t, item)
		}
		threats = append(threats, t)
	}
	ResolveCollisions(threats)

	for _, t := range threats {
		if t.Severity != models.SeverityCritical {
			continue
		}
		logging.DefaultLogger.LogThreatIngest(c.profile.CustomerID, t.ID, string(t.Severity), map[string]interface{}{
			"threat_name":          t.ThreatName,
			"prioritization_score": t.PrioritizationScore,
		}, "critical threat entered snapshot")
	}

	snapshot := models.RadarSnapshot{
		Meta: models.RadarMeta{
			GeneratedAt:  now,
			CustomerID:   c.profile.CustomerID,
			TotalThreats: len(threats),
		},
		Threats: make([]models.Threat, 0, len(threats)),
	}
	for _, t := range threats {
		snapshot.Threats = append(snapshot.Threats, *t)
	}

	if c.store != nil {
		if err := c.store.UpsertSnapshot(ctx, snapshot); err != nil {
			return nil, fmt.Errorf("failed to persist radar snapshot: %w", err)
		}
	}

	logging.DefaultLogger.Info("Feed refresh completed: customer=%s threats=%d", c.profile.CustomerID, len(threats))
	c.notify(snapshot)
	return &snapshot, nil
}

// Run 按固定间隔轮询，ctx取消后退出
func (c *Collector) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := c.Refresh(ctx); err != nil {
			logging.DefaultLogger.Error("Feed refresh failed: %v", err)
		}
		select {
		case <-ctx.Done():
			logging.DefaultLogger.Info("Feed collector stopped")
			return
		case <-ticker.C:
		}
	}
}
