package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"
)

const (
	defaultNumRequests     = 10
	defaultIntervalSeconds = 300
	defaultBaseURL         = "http://localhost:8080"
)

var (
	// デモ用のIANAタイムゾーン（リクエスト生成用）
	zones = []string{
		"America/New_York", "America/Los_Angeles", "America/Chicago",
		"Europe/London", "Europe/Berlin", "Europe/Paris",
		"Asia/Tokyo", "Asia/Shanghai", "Asia/Kolkata",
		"Australia/Sydney", "Pacific/Auckland", "UTC",
	}
	// 存在しないタイムゾーン（失敗カウンタ確認用）
	invalidZones = []string{"Mars/Olympus", "Invalid/Zone"}
)

// Config はデモの設定を保持
type Config struct {
	NumRequests int
	Interval    time.Duration
	BaseURL     string
}

// loadConfig は環境変数から設定を読み込む
func loadConfig() *Config {
	cfg := &Config{
		NumRequests: defaultNumRequests,
		Interval:    time.Duration(defaultIntervalSeconds) * time.Second,
		BaseURL:     defaultBaseURL,
	}

	if url := os.Getenv("TZBRIDGE_DEMO_URL"); url != "" {
		cfg.BaseURL = url
	}
	if n := os.Getenv("TZBRIDGE_DEMO_REQUESTS"); n != "" {
		if parsed, err := strconv.Atoi(n); err == nil && parsed > 0 {
			cfg.NumRequests = parsed
		}
	}
	if sec := os.Getenv("TZBRIDGE_DEMO_INTERVAL_SECONDS"); sec != "" {
		if parsed, err := strconv.Atoi(sec); err == nil && parsed > 0 {
			cfg.Interval = time.Duration(parsed) * time.Second
		}
	}

	return cfg
}

// generateTime はランダムな HH:MM を生成
func generateTime(rng *rand.Rand) string {
	return fmt.Sprintf("%02d:%02d", rng.Intn(24), rng.Intn(60))
}

// pickZonePair は変換元と変換先のタイムゾーンを選ぶ
// 約1割は存在しないタイムゾーンを混ぜて失敗カウンタも動かす
func pickZonePair(rng *rand.Rand) (string, string) {
	source := zones[rng.Intn(len(zones))]
	target := zones[rng.Intn(len(zones))]
	if rng.Intn(10) == 0 {
		source = invalidZones[rng.Intn(len(invalidZones))]
	}
	return source, target
}

// sendConvert は変換リクエストをtzbridge APIに送信
func sendConvert(ctx context.Context, cfg *Config, timeStr, sourceZone, targetZone string) error {
	body, err := json.Marshal(map[string]string{
		"time":       timeStr,
		"sourceZone": sourceZone,
		"targetZone": targetZone,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", cfg.BaseURL+"/api/convert", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("[WARN] failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("convert failed with status %d: %s", resp.StatusCode, bytes.TrimSpace(payload))
	}

	return nil
}

// sendCurrentTime は現在時刻リクエストをtzbridge APIに送信
func sendCurrentTime(ctx context.Context, cfg *Config, timezone string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", cfg.BaseURL+"/api/current-time?timezone="+timezone, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("[WARN] failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("current-time failed with status %d: %s", resp.StatusCode, bytes.TrimSpace(payload))
	}

	return nil
}

// logHealth はデーモン側の累計カウンタを表示
func logHealth(ctx context.Context, cfg *Config) {
	req, err := http.NewRequestWithContext(ctx, "GET", cfg.BaseURL+"/health", nil)
	if err != nil {
		return
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("[WARN] ヘルスチェック失敗: %v", err)
		return
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("[WARN] failed to close response body: %v", err)
		}
	}()

	var health struct {
		Conversions int64 `json:"conversions"`
		Failures    int64 `json:"failures"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return
	}

	log.Printf("[INFO] デーモン累計 - 変換: %d, 失敗: %d", health.Conversions, health.Failures)
}

// sendRequestBatch は1バッチ分のリクエストを送信
func sendRequestBatch(ctx context.Context, cfg *Config, iteration int, rng *rand.Rand) {
	log.Printf("[INFO] バッチ %d: リクエスト送信開始 (%s)", iteration, time.Now().Format(time.RFC3339))

	var wg sync.WaitGroup
	successCount := 0
	failCount := 0
	var mu sync.Mutex

	// 並列度を制限
	sem := make(chan struct{}, 10)

	type job struct {
		timeStr    string
		sourceZone string
		targetZone string
	}
	jobs := make([]job, cfg.NumRequests)
	for i := range jobs {
		source, target := pickZonePair(rng)
		jobs[i] = job{timeStr: generateTime(rng), sourceZone: source, targetZone: target}
	}

	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			sem <- struct{}{} // 並列度制限
			defer func() { <-sem }()

			// 変換リクエストを送信
			if err := sendConvert(ctx, cfg, j.timeStr, j.sourceZone, j.targetZone); err != nil {
				log.Printf("[WARN] 変換リクエスト失敗 (%s -> %s): %v", j.sourceZone, j.targetZone, err)
				mu.Lock()
				failCount++
				mu.Unlock()
			} else {
				log.Printf("[DEBUG] 変換成功: %s %s -> %s", j.timeStr, j.sourceZone, j.targetZone)
				mu.Lock()
				successCount++
				mu.Unlock()
			}

			// 現在時刻リクエストを送信
			if err := sendCurrentTime(ctx, cfg, j.targetZone); err != nil {
				log.Printf("[WARN] 現在時刻リクエスト失敗 (%s): %v", j.targetZone, err)
				mu.Lock()
				failCount++
				mu.Unlock()
			} else {
				log.Printf("[DEBUG] 現在時刻取得成功: %s", j.targetZone)
				mu.Lock()
				successCount++
				mu.Unlock()
			}
		}(j)
	}

	wg.Wait()
	log.Printf("[INFO] バッチ %d: 送信完了 - 成功: %d, 失敗: %d", iteration, successCount, failCount)
	logHealth(ctx, cfg)
}

func main() {
	log.SetFlags(log.Ltime)
	log.Println("[INFO] tzbridge デモリクエスト送信プログラム開始")

	// 設定を読み込み
	cfg := loadConfig()
	log.Printf("[INFO] 設定確認完了")
	log.Printf("[INFO] API URL: %s", cfg.BaseURL)
	log.Printf("[INFO] リクエスト数: %d", cfg.NumRequests)
	log.Printf("[INFO] 送信間隔: %v", cfg.Interval)

	// コンテキストとシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Println("[INFO] デモプログラムを停止中...")
		cancel()
	}()

	// 乱数生成器を初期化
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	log.Println("[INFO] デモリクエスト送信を開始します...")
	log.Println("[INFO] Ctrl+C で停止できます")

	iteration := 1
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	// 最初のバッチをすぐに送信
	sendRequestBatch(ctx, cfg, iteration, rng)
	iteration++

	// 定期的にリクエストを送信
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sendRequestBatch(ctx, cfg, iteration, rng)
			iteration++
			log.Printf("[INFO] 次の送信まで %v 待機中...", cfg.Interval)
		}
	}
}
