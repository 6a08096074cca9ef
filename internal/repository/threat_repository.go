package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"threat-radar/internal/models"
	redisPkg "threat-radar/internal/redis"

	"github.com/go-redis/redis/v8"
)

// ThreatRepository 雷达快照的Redis文档存储
// 快照按customer_id整体替换式写入，单个威胁的读取走快照内索引
type ThreatRepository struct {
	client *redisPkg.Client
}

func NewThreatRepository(client *redisPkg.Client) *ThreatRepository {
	return &ThreatRepository{
		client: client,
	}
}

func snapshotKey(customerID string) string {
	return fmt.Sprintf("radar:snapshot:%s", customerID)
}

// UpsertSnapshot 按customer_id覆盖写入快照
func (r *ThreatRepository) UpsertSnapshot(ctx context.Context, snapshot models.RadarSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return r.client.GetRawClient().Set(ctx, snapshotKey(snapshot.Meta.CustomerID), data, 0).Err()
}

// GetSnapshot 读取客户快照，不存在时返回nil
func (r *ThreatRepository) GetSnapshot(ctx context.Context, customerID string) (*models.RadarSnapshot, error) {
	data, err := r.client.GetRawClient().Get(ctx, snapshotKey(customerID)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var snapshot models.RadarSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// ListThreats 按过滤条件列出客户的威胁
// 过滤在快照内存副本上执行，从不改写存储的快照
func (r *ThreatRepository) ListThreats(ctx context.Context, customerID string, filters models.ThreatFilters) ([]*models.Threat, error) {
	snapshot, err := r.GetSnapshot(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, nil
	}

	now := time.Now()
	threats := make([]*models.Threat, 0, len(snapshot.Threats))
	for i := range snapshot.Threats {
		t := &snapshot.Threats[i]
		if filters.Match(t, now) {
			threats = append(threats, t)
		}
	}
	return threats, nil
}

// GetThreat 按id读取单个威胁，不存在时返回nil
func (r *ThreatRepository) GetThreat(ctx context.Context, customerID, threatID string) (*models.Threat, error) {
	snapshot, err := r.GetSnapshot(ctx, customerID)
	if err != nil || snapshot == nil {
		return nil, err
	}

	for i := range snapshot.Threats {
		if snapshot.Threats[i].ID == threatID {
			return &snapshot.Threats[i], nil
		}
	}
	return nil, nil
}
