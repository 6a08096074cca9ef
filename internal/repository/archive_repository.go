package repository

import (
	"time"

	"threat-radar/internal/db"
	"threat-radar/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArchiveRepository 威胁归档的关系库存储
// 未配置postgres时所有操作退化为无操作
type ArchiveRepository struct {
	db *gorm.DB
}

// NewArchiveRepository 创建归档存储
func NewArchiveRepository() *ArchiveRepository {
	return &ArchiveRepository{
		db: db.GetDB(),
	}
}

// Enabled 归档是否可用
func (r *ArchiveRepository) Enabled() bool {
	return r.db != nil
}

// ArchiveSnapshot 把快照里的威胁落入归档表
// 按(id, customer_id)冲突更新，快照可以安全地重复归档
func (r *ArchiveRepository) ArchiveSnapshot(snapshot models.RadarSnapshot) error {
	if r.db == nil || len(snapshot.Threats) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]models.ArchivedThreat, 0, len(snapshot.Threats))
	for _, t := range snapshot.Threats {
		rows = append(rows, models.ArchivedThreat{
			ID:         t.ID,
			CustomerID: snapshot.Meta.CustomerID,
			Severity:   t.Severity,
			Status:     t.Status,
			FirstSeen:  t.FirstSeen,
			ArchivedAt: now,
			Document:   t,
		})
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}, {Name: "customer_id"}},
		UpdateAll: true,
	}).Create(&rows).Error
}

// ListArchived 按客户列出归档威胁，since为零值时不限时间
func (r *ArchiveRepository) ListArchived(customerID string, since time.Time) ([]models.ArchivedThreat, error) {
	if r.db == nil {
		return nil, nil
	}

	query := r.db.Where("customer_id = ?", customerID)
	if !since.IsZero() {
		query = query.Where("first_seen >= ?", since)
	}

	var rows []models.ArchivedThreat
	err := query.Order("first_seen DESC").Find(&rows).Error
	return rows, err
}
