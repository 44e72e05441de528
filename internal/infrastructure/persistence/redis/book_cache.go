package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/library/internal/domain/book"
)

// BookCache 图书详情缓存(Cache-Aside)
//
// 设计说明:
// 1. 只缓存图书详情(按ID、按ISBN两类key),减少热点图书的数据库压力
// 2. 更新/删除图书时删除缓存,下次查询重新加载(不回写缓存,避免并发不一致)
// 3. 借阅相关查询一律不走缓存:在借检查必须读数据库,
//    否则"同一本书至多一条在借记录"的判断可能基于过期数据
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBookCache 创建图书缓存
func NewBookCache(client *redis.Client, ttl time.Duration) *BookCache {
	return &BookCache{client: client, ttl: ttl}
}

// GetByID 按ID读取缓存(未命中返回nil, nil)
func (c *BookCache) GetByID(ctx context.Context, id uint) (*book.Book, error) {
	return c.get(ctx, c.idKey(id))
}

// GetByISBN 按ISBN读取缓存(未命中返回nil, nil)
func (c *BookCache) GetByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	return c.get(ctx, c.isbnKey(isbn))
}

// Set 写入缓存(ID与ISBN两个key同时写)
func (c *BookCache) Set(ctx context.Context, b *book.Book) error {
	val, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, c.idKey(b.ID), val, c.ttl)
	pipe.Set(ctx, c.isbnKey(b.ISBN), val, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("设置缓存失败: %w", err)
	}

	return nil
}

// Delete 删除缓存(更新/删除图书时调用)
func (c *BookCache) Delete(ctx context.Context, b *book.Book) error {
	if err := c.client.Del(ctx, c.idKey(b.ID), c.isbnKey(b.ISBN)).Err(); err != nil {
		return fmt.Errorf("删除缓存失败: %w", err)
	}
	return nil
}

func (c *BookCache) get(ctx context.Context, key string) (*book.Book, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			// 缓存未命中,调用方需要查询数据库
			return nil, nil
		}
		return nil, fmt.Errorf("获取缓存失败: %w", err)
	}

	var b book.Book
	if err := json.Unmarshal([]byte(val), &b); err != nil {
		return nil, fmt.Errorf("反序列化失败: %w", err)
	}

	return &b, nil
}

// idKey 格式：catalog:detail:{book_id}
func (c *BookCache) idKey(id uint) string {
	return fmt.Sprintf("catalog:detail:%d", id)
}

// isbnKey 格式：catalog:isbn:{isbn}
func (c *BookCache) isbnKey(isbn string) string {
	return fmt.Sprintf("catalog:isbn:%s", isbn)
}
