package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-gin-ticket-scanner/internal/clock"

	"github.com/redis/go-redis/v9"
)

type ScanGate interface {
	// 取得掃描許可：視窗期內同一裝置的重複掃描回傳 false
	Acquire(ctx context.Context, deviceID string) (bool, error)
	// 視窗長度
	Window() time.Duration
}

// MemoryScanGate 單機版：記錄每台裝置的視窗截止時間
type MemoryScanGate struct {
	mu        sync.Mutex
	window    time.Duration
	clock     clock.Clock
	deadlines map[string]time.Time
}

func NewMemoryScanGate(window time.Duration, c clock.Clock) *MemoryScanGate {
	if c == nil {
		c = clock.NewSystem()
	}
	return &MemoryScanGate{
		window:    window,
		clock:     c,
		deadlines: make(map[string]time.Time),
	}
}

func (g *MemoryScanGate) Acquire(ctx context.Context, deviceID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if g.window <= 0 {
		return true, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	if deadline, ok := g.deadlines[deviceID]; ok && now.Before(deadline) {
		return false, nil
	}
	g.deadlines[deviceID] = now.Add(g.window)

	// 清掉已過期的裝置，避免 map 無限制成長
	for id, deadline := range g.deadlines {
		if !now.Before(deadline) {
			delete(g.deadlines, id)
		}
	}
	return true, nil
}

func (g *MemoryScanGate) Window() time.Duration {
	return g.window
}

// RedisScanGate 多台掃描裝置共用的視窗，以 SET NX PX 保證原子性
type RedisScanGate struct {
	client *redis.Client
	window time.Duration
}

func NewRedisScanGate(client *redis.Client, window time.Duration) *RedisScanGate {
	return &RedisScanGate{client: client, window: window}
}

// 視窗 key
func (g *RedisScanGate) getGateKey(deviceID string) string {
	return fmt.Sprintf("scan:gate:%s", deviceID)
}

func (g *RedisScanGate) Acquire(ctx context.Context, deviceID string) (bool, error) {
	if g.window <= 0 {
		return true, nil
	}
	ok, err := g.client.SetNX(ctx, g.getGateKey(deviceID), time.Now().UTC().Format(time.RFC3339Nano), g.window).Result()
	if err != nil {
		return false, fmt.Errorf("acquire scan gate: %w", err)
	}
	return ok, nil
}

func (g *RedisScanGate) Window() time.Duration {
	return g.window
}
