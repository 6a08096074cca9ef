package models

import (
	"time"
)

// ArchivedThreat 威胁归档行
// Redis快照是整体替换式的工作集，被替换掉的历史威胁落在这张表里，
// 常用查询维度拆成独立列，完整记录以JSON保留。
type ArchivedThreat struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	CustomerID string    `json:"customer_id" gorm:"primaryKey;index"`
	Severity   Severity  `json:"severity" gorm:"index"`
	Status     Status    `json:"status"`
	FirstSeen  time.Time `json:"first_seen" gorm:"index"`
	ArchivedAt time.Time `json:"archived_at"`
	Document   Threat    `json:"document" gorm:"serializer:json"`
}
