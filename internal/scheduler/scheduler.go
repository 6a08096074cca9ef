package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
)

// Job 定时任务执行函数
type Job func()

// Scheduler 定时任务调度器
type Scheduler struct {
	cron       *cron.Cron
	tasks      map[string]cron.EntryID // 任务名 -> 任务ID
	tasksMutex sync.RWMutex
	jobs       map[string]Job
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewScheduler 创建新的定时任务调度器
func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	// 创建cron实例，支持秒级精度
	c := cron.New(cron.WithSeconds())

	return &Scheduler{
		cron:   c,
		tasks:  make(map[string]cron.EntryID),
		jobs:   make(map[string]Job),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start 启动定时任务调度器
func (s *Scheduler) Start() {
	s.cron.Start()
	fmt.Println("Scheduler started")
}

// Stop 停止定时任务调度器
func (s *Scheduler) Stop() {
	s.cancel()
	s.cron.Stop()
	fmt.Println("Scheduler stopped")
}

// AddTask 注册定时任务，schedule为6段cron表达式
func (s *Scheduler) AddTask(name, schedule string, job Job) error {
	// 同名任务先移除旧的
	s.RemoveTask(name)

	entryID, err := s.cron.AddFunc(schedule, job)
	if err != nil {
		return fmt.Errorf("failed to add cron task %s: %w", name, err)
	}

	s.tasksMutex.Lock()
	s.tasks[name] = entryID
	s.jobs[name] = job
	s.tasksMutex.Unlock()

	fmt.Printf("Created cron task %s with schedule: %s\n", name, schedule)
	return nil
}

// RemoveTask 移除定时任务
func (s *Scheduler) RemoveTask(name string) {
	s.tasksMutex.RLock()
	entryID, exists := s.tasks[name]
	s.tasksMutex.RUnlock()

	if !exists {
		return
	}

	s.cron.Remove(entryID)

	s.tasksMutex.Lock()
	delete(s.tasks, name)
	delete(s.jobs, name)
	s.tasksMutex.Unlock()

	fmt.Printf("Removed cron task %s\n", name)
}

// TriggerNow 立即异步执行一次任务
func (s *Scheduler) TriggerNow(name string) bool {
	s.tasksMutex.RLock()
	job, exists := s.jobs[name]
	s.tasksMutex.RUnlock()

	if !exists {
		return false
	}

	go job()
	return true
}

// GetTaskStatus 获取任务状态和下次执行时间
func (s *Scheduler) GetTaskStatus(name string) (bool, string) {
	s.tasksMutex.RLock()
	entryID, exists := s.tasks[name]
	s.tasksMutex.RUnlock()

	if !exists {
		return false, "not scheduled"
	}

	entries := s.cron.Entries()
	for _, entry := range entries {
		if entry.ID == entryID {
			nextRun := entry.Next.Format("2006-01-02 15:04:05")
			return true, nextRun
		}
	}

	return false, "not found"
}

// ListTasks 列出所有定时任务及其下次执行时间
func (s *Scheduler) ListTasks() map[string]string {
	result := make(map[string]string)

	entries := s.cron.Entries()

	// 反向映射：entryID -> 任务名
	s.tasksMutex.RLock()
	entryToName := make(map[cron.EntryID]string)
	for name, entryID := range s.tasks {
		entryToName[entryID] = name
	}
	s.tasksMutex.RUnlock()

	for _, entry := range entries {
		if name, exists := entryToName[entry.ID]; exists {
			result[name] = entry.Next.Format("2006-01-02 15:04:05")
		}
	}

	return result
}

// EveryMinutes 把分钟间隔转换为cron表达式
func EveryMinutes(minutes int) string {
	if minutes <= 0 {
		minutes = 15
	}
	return fmt.Sprintf("0 */%d * * * *", minutes)
}
