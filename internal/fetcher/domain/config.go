package domain

import "time"

// FetchConfig: 배치 수집 파라미터
// 지연값들은 익스플로러 레이트리밋 보호용 — 순차 처리가 설계 의도임
type FetchConfig struct {
	BatchSize      int           `json:"batch_size"`
	RequestDelay   time.Duration `json:"request_delay"`
	BatchDelay     time.Duration `json:"batch_delay"`
	MaxRetries     int           `json:"max_retries"`
	RetryBaseDelay time.Duration `json:"retry_base_delay"`
	ResumeIndex    int           `json:"resume_index"`
	OutputDir      string        `json:"output_dir"`
	SaveProgress   bool          `json:"save_progress"`
}

// DefaultFetchConfig: 무료 API 키 기준 안전한 기본값
func DefaultFetchConfig(outputDir string) FetchConfig {
	return FetchConfig{
		BatchSize:      10,
		RequestDelay:   250 * time.Millisecond,
		BatchDelay:     2 * time.Second,
		MaxRetries:     3,
		RetryBaseDelay: 1 * time.Second,
		ResumeIndex:    0,
		OutputDir:      outputDir,
		SaveProgress:   true,
	}
}

func (c FetchConfig) Normalized() FetchConfig {
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 1
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = time.Second
	}
	if c.ResumeIndex < 0 {
		c.ResumeIndex = 0
	}
	return c
}
