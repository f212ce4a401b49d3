// Package eventbus: 다중생산자→단일소비자 이벤트 버스
// - 내부: pending []T + sync.Cond + out <-chan T(1개)
// - 시작 시 JSONL 백로그 로드→삭제 / 종료 시 pending JSONL 저장 (동기)
// - busy-wait 없음 (Cond 기반 대기)
// - 수집 파이프라인의 진행 이벤트가 느린 소비자(콘솔/카프카) 때문에
//   페치 루프를 막지 않도록 하는 용도
package eventbus

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// EventBus[T] : 단일 소비자용 이벤트 버스
type EventBus[T any] struct {
	out      chan T
	mu       sync.Mutex
	cv       *sync.Cond
	pending  []T
	capLimit int

	filePath string // JSONL 저장 경로

	stopping bool
	closed   atomic.Bool
	wg       sync.WaitGroup
}

// NewWithPath: filePath(JSONL)와 capLimit로 버스 생성.
// - 시작 시 filePath의 JSONL을 로드해 pending에 적재, 로드 후 파일 삭제.
// - capLimit>0이면 Publish가 cap을 넘을 때 cond wait로 역압.
func NewWithPath[T any](filePath string, capLimit int) (*EventBus[T], error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, err
	}
	b := &EventBus[T]{
		out:      make(chan T),
		filePath: filePath,
		capLimit: capLimit,
	}
	b.cv = sync.NewCond(&b.mu)

	// 1) 시작 시 backlog 로드(동기)
	backlog, err := loadBacklogJSONL[T](filePath)
	if err != nil {
		return nil, err
	}
	_ = os.Remove(filePath) // 중복 로드 방지

	// 2) 런 루프 시작
	b.wg.Add(1)
	go b.run(backlog)
	return b, nil
}

func (b *EventBus[T]) run(backlog []T) {
	defer b.wg.Done()
	b.mu.Lock()
	b.pending = append(b.pending, backlog...)
	for {
		for !b.stopping && len(b.pending) == 0 {
			b.cv.Wait()
		}
		if b.stopping {
			// 남은 것 저장
			rest := append([]T(nil), b.pending...)
			b.mu.Unlock()
			if err := saveBacklogJSONL(b.filePath, rest); err != nil {
				log.Printf("[eventbus] saveBacklog error: %v", err)
			}
			close(b.out)
			return
		}
		// 하나 pop & 생산자 역압 해제
		v := b.pending[0]
		b.pending = b.pending[1:]
		b.cv.Signal()
		b.mu.Unlock()

		// out 으로 블로킹 전송
		b.out <- v

		b.mu.Lock()
	}
}

// Publish: 생산자 → pending. capLimit 초과 시 cond wait로 역압.
func (b *EventBus[T]) Publish(v T) error {
	if b.closed.Load() {
		return errors.New("eventbus: closed")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for !b.stopping && b.capLimit > 0 && len(b.pending) >= b.capLimit {
		b.cv.Wait()
	}
	if b.stopping {
		return errors.New("eventbus: stopping")
	}
	b.pending = append(b.pending, v)
	b.cv.Signal()
	return nil
}

// Dequeue: 단일 소비자 채널
func (b *EventBus[T]) Dequeue() <-chan T { return b.out }

// Close: 생산 중단 → pending 스냅샷 JSONL 저장 → out close
func (b *EventBus[T]) Close() {
	if b.closed.Swap(true) {
		return
	}
	b.mu.Lock()
	b.stopping = true
	b.cv.Broadcast()
	b.mu.Unlock()
	b.wg.Wait()
}

// ---- JSONL helpers ----

func loadBacklogJSONL[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	r := bufio.NewReaderSize(f, 1<<20)
	dec := json.NewDecoder(r)
	var items []T
	for {
		var v T
		if err := dec.Decode(&v); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func saveBacklogJSONL[T any](path string, items []T) error {
	if len(items) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriterSize(f, 1<<20)
	enc := json.NewEncoder(w)
	for _, v := range items {
		if err := enc.Encode(&v); err != nil {
			return err
		}
	}
	return w.Flush()
}
