package redis

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-redis/redis/v8"
)

// Client Redis客户端结构体
// 封装了Redis客户端的核心功能，提供与应用相关的Redis操作方法
//
// 字段:
//   client: 底层的Redis客户端实例
//   ctx: 上下文，用于管理Redis操作的生命周期

type Client struct {
	client *redis.Client
	ctx    context.Context
}

// NewClient 创建新的Redis客户端
// 支持两种格式的Redis URL:
// 1. 简单格式: localhost:6379
// 2. URL格式: redis://[password@]host:port/db
//
// 参数:
//
//	redisURL: Redis连接URL
//
// 返回值:
//
//	*Client: 创建的Redis客户端实例
//	error: 如果创建失败，返回错误信息
//
// 示例:
//
//	client, err := redis.NewClient("localhost:6379")
//	client, err := redis.NewClient("redis://password@localhost:6379/0")
func NewClient(redisURL string) (*Client, error) {
	opt := &redis.Options{}

	// 如果redisURL是纯主机名或IP地址，使用默认端口
	if !strings.Contains(redisURL, "://") {
		opt.Addr = redisURL
		if !strings.Contains(opt.Addr, ":") {
			opt.Addr = fmt.Sprintf("%s:6379", opt.Addr)
		}
	} else {
		// 否则尝试解析URL
		parsed, err := url.Parse(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %v", err)
		}

		opt.Addr = parsed.Host
		if !strings.Contains(opt.Addr, ":") {
			opt.Addr = fmt.Sprintf("%s:6379", opt.Addr)
		}

		// 解析密码
		if parsed.User != nil {
			opt.Password, _ = parsed.User.Password()
		}

		// 解析数据库
		db := 0
		if parsed.Path != "" && parsed.Path != "/" {
			fmt.Sscanf(parsed.Path[1:], "%d", &db)
		}
		opt.DB = db
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	// 测试连接
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	return &Client{
		client: client,
		ctx:    ctx,
	}, nil
}

// Context 获取上下文
func (c *Client) Context() context.Context {
	return c.ctx
}

// GetRawClient 获取原始Redis客户端实例
func (c *Client) GetRawClient() *redis.Client {
	return c.client
}

// Close 关闭Redis连接
func (c *Client) Close() error {
	return c.client.Close()
}

// IncrFeedStats 累加威胁源摄取统计
func (c *Client) IncrFeedStats(customerID string, ingested, skipped int) error {
	key := fmt.Sprintf("radar:%s:feed:stats", customerID)
	pipe := c.client.Pipeline()
	pipe.HIncrBy(c.ctx, key, "total", int64(ingested+skipped))
	pipe.HIncrBy(c.ctx, key, "ingested", int64(ingested))
	pipe.HIncrBy(c.ctx, key, "skipped", int64(skipped))
	_, err := pipe.Exec(c.ctx)
	return err
}

// GetFeedStats 获取威胁源摄取统计
func (c *Client) GetFeedStats(customerID string) (map[string]string, error) {
	key := fmt.Sprintf("radar:%s:feed:stats", customerID)
	return c.client.HGetAll(c.ctx, key).Result()
}

// GetSystemConfig 获取系统配置
func (c *Client) GetSystemConfig() (map[string]string, error) {
	return c.client.HGetAll(c.ctx, "system:config").Result()
}

// SaveSystemConfig 保存系统配置
func (c *Client) SaveSystemConfig(config map[string]interface{}) error {
	return c.client.HSet(c.ctx, "system:config", config).Err()
}

// GetUser 获取用户信息
func (c *Client) GetUser(userID string) (map[string]string, error) {
	key := "user:" + userID
	return c.client.HGetAll(c.ctx, key).Result()
}

// GetUserByUsername 通过用户名获取用户ID
func (c *Client) GetUserByUsername(username string) (string, error) {
	key := "username:" + username
	return c.client.Get(c.ctx, key).Result()
}

// GetAllUsers 获取所有用户ID
func (c *Client) GetAllUsers() ([]string, error) {
	keys, err := c.client.Keys(c.ctx, "user:*").Result()
	if err != nil {
		return nil, err
	}
	// 提取用户ID
	userIDs := make([]string, len(keys))
	for i, key := range keys {
		userIDs[i] = key[5:] // 去掉 "user:" 前缀
	}
	return userIDs, nil
}

// SaveUser 保存用户信息到Redis
func (c *Client) SaveUser(userID, username, password string) error {
	// 将用户信息保存到Redis，使用hash结构
	userKey := "user:" + userID
	if err := c.client.HSet(c.ctx, userKey, map[string]interface{}{
		"id":       userID,
		"username": username,
		"password": password,
	}).Err(); err != nil {
		return err
	}

	// 创建用户名到用户ID的映射
	return c.client.Set(c.ctx, "username:"+username, userID, 0).Err()
}
