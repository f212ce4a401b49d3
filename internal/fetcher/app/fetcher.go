// Package app: 배치 수집 오케스트레이션
// idle → fetching(batch i) → delay → fetching(batch i+1) → … → done
// 동시성 없음 — 익스플로러 레이트리밋 존중을 위해 의도적으로 순차+지연
package app

import (
	"context"
	"log"
	"time"

	fdomain "github.com/rlaaudgjs5638/contractGraph/internal/fetcher/domain"
	shareddomain "github.com/rlaaudgjs5638/contractGraph/shared/domain"
	"github.com/rlaaudgjs5638/contractGraph/shared/eventbus"
)

// ProgressFunc: 각 컨트랙트 시도 직전 호출되는 관찰용 콜백 (리턴값 미소비)
type ProgressFunc func(st fdomain.ProcessingStatus, entry shareddomain.ContractEntry)

// Checkpointer: 배치마다 누적 결과/상태를 내려쓰는 저장소 (persistence가 구현)
type Checkpointer interface {
	SaveContracts(contracts []*shareddomain.FetchedContract) error
	LoadContracts() ([]*shareddomain.FetchedContract, error)
	SaveStatus(st *fdomain.ProcessingStatus) error
}

// ContractCache: 수집 캐시. 히트면 네트워크/지연 없이 바로 반환
type ContractCache interface {
	Get(key string) (*shareddomain.FetchedContract, bool)
	Put(c *shareddomain.FetchedContract) error
}

// BatchFetcher: 순차 배치 수집기
// Checkpoint/Cache/Events/Progress는 선택 — nil이면 해당 기능 꺼짐
type BatchFetcher struct {
	cfg    fdomain.FetchConfig
	source fdomain.ContractSource

	Checkpoint Checkpointer
	Cache      ContractCache
	Events     *eventbus.EventBus[fdomain.FetchEvent]
	Progress   ProgressFunc
}

func NewBatchFetcher(cfg fdomain.FetchConfig, source fdomain.ContractSource) *BatchFetcher {
	return &BatchFetcher{cfg: cfg.Normalized(), source: source}
}

// FetchAll: 전체 엔트리 수집. 컨트랙트 단위 실패는 격리되어 런을 멈추지 않음
// 리턴되는 결과는 "재개 시 복원된 prefix" + "새로 수집한 suffix" 순서
func (f *BatchFetcher) FetchAll(ctx context.Context, entries []shareddomain.ContractEntry) ([]*shareddomain.FetchedContract, *fdomain.ProcessingStatus, error) {
	cfg := f.cfg
	status := fdomain.NewProcessingStatus(len(entries))
	var results []*shareddomain.FetchedContract

	start := cfg.ResumeIndex
	if start > len(entries) {
		start = len(entries)
	}
	if start > 0 {
		// 재개: 이전 런이 저장한 결과를 앞에 붙임 (전역 재정렬 없음)
		if f.Checkpoint != nil {
			prev, err := f.Checkpoint.LoadContracts()
			if err != nil {
				log.Printf("⚠️  이전 결과 복원 실패 (빈 상태로 재개): %v", err)
			} else {
				results = append(results, prev...)
				log.Printf("🔄 resume: index %d부터, 복원된 결과 %d건", start, len(prev))
			}
		}
		status.Touch(start-1, start)
	}

	for batchStart := start; batchStart < len(entries); batchStart += cfg.BatchSize {
		batchEnd := batchStart + cfg.BatchSize
		if batchEnd > len(entries) {
			batchEnd = len(entries)
		}
		batch := entries[batchStart:batchEnd]
		log.Printf("📦 배치 수집: [%d..%d) / %d", batchStart, batchEnd, len(entries))

		for i, entry := range batch {
			idx := batchStart + i

			if f.Progress != nil {
				f.Progress(status.Snapshot(), entry)
			}

			contract, err := f.fetchWithRetry(ctx, entry)
			if err != nil {
				if ctx.Err() != nil {
					// 프로세스 취소는 격리 대상이 아님 — 지금까지 결과와 함께 전파
					return results, status, ctx.Err()
				}
				log.Printf("❌ %s (%s): %v", entry.Address, entry.Blockchain, err)
				status.RecordFailure(string(entry.Address))
			} else {
				results = append(results, contract)
				f.afterSuccess(contract, idx, len(entries))
			}
			status.Touch(idx, status.Processed+1)

			// 배치 내 마지막 항목 뒤에는 지연 없음
			if i < len(batch)-1 {
				if err := sleepCtx(ctx, cfg.RequestDelay); err != nil {
					return results, status, err
				}
			}
		}

		// 배치 완료: 누적 결과 + 상태 저장 후 배치 간 지연
		if cfg.SaveProgress && f.Checkpoint != nil {
			if err := f.Checkpoint.SaveContracts(results); err != nil {
				log.Printf("⚠️  결과 스냅샷 저장 실패 (런은 계속): %v", err)
			}
			if err := f.Checkpoint.SaveStatus(status); err != nil {
				log.Printf("⚠️  상태 저장 실패 (런은 계속): %v", err)
			}
		}
		if batchEnd < len(entries) {
			if err := sleepCtx(ctx, cfg.BatchDelay); err != nil {
				return results, status, err
			}
		}
	}

	return results, status, nil
}

// fetchWithRetry: 캐시 조회 → 최대 MaxRetries 시도
// 종결 분류(미검증/미존재/미지원 체인)는 즉시 실패, 그 외는 지수 백오프 후 재시도
func (f *BatchFetcher) fetchWithRetry(ctx context.Context, entry shareddomain.ContractEntry) (*shareddomain.FetchedContract, error) {
	if f.Cache != nil {
		if cached, ok := f.Cache.Get(entry.Key()); ok {
			return cached, nil
		}
	}

	var lastErr error
	for attempt := 0; attempt < f.cfg.MaxRetries; attempt++ {
		contract, err := f.fetchContract(ctx, entry)
		if err == nil {
			return contract, nil
		}
		if fdomain.IsTerminalFetchErr(err) {
			return nil, err
		}
		lastErr = err

		if attempt < f.cfg.MaxRetries-1 {
			backoff := f.cfg.RetryBaseDelay * (1 << attempt)
			if serr := sleepCtx(ctx, backoff); serr != nil {
				return nil, serr
			}
		}
	}
	return nil, lastErr
}

// afterSuccess: 캐시 적재 + 진행 이벤트 발행 (둘 다 실패해도 수집은 성공)
func (f *BatchFetcher) afterSuccess(contract *shareddomain.FetchedContract, idx, total int) {
	if f.Cache != nil {
		if err := f.Cache.Put(contract); err != nil {
			log.Printf("⚠️  캐시 적재 실패 %s: %v", contract.Address, err)
		}
	}
	if f.Events != nil {
		evt := fdomain.FetchEvent{
			Address:      contract.Address,
			Blockchain:   contract.Blockchain,
			ContractName: contract.ContractName,
			Protocol:     contract.Protocol,
			FileCount:    len(contract.SourceFiles),
			HasABI:       contract.HasABI(),
			Index:        idx,
			Total:        total,
			FetchedAt:    contract.FetchedAt,
		}
		if err := f.Events.Publish(evt); err != nil {
			log.Printf("⚠️  진행 이벤트 발행 실패: %v", err)
		}
	}
}

// sleepCtx: 취소 가능한 지연 — 모든 중단점(요청 간/배치 간/백오프)이 이걸 씀
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
