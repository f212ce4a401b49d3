package infra

import (
	"encoding/json"
	"errors"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"

	shareddomain "github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

const (
	// GC 체크 주기(연산 횟수 기준)
	gcCheckInterval = 10_000
	// Badger GC 팩터
	gcFactor = 0.3
)

// ContractCache: BadgerDB 기반 수집 캐시
// 키 = "<blockchain>:<address>", 값 = FetchedContract JSON
// 쓰기는 수집 루프에서만 일어나므로(순차) 샤드 락 없이 Update 트랜잭션으로 충분
type ContractCache struct {
	db           *badger.DB
	operationCnt uint64
}

func NewContractCache(path string) (*ContractCache, error) {
	opts := badger.DefaultOptions(path)
	opts.SyncWrites = true
	opts.CompactL0OnClose = true
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &ContractCache{db: db}, nil
}

// Close DB 종료
func (cc *ContractCache) Close() error { return cc.db.Close() }

func cacheKey(key string) []byte { return []byte("contract:" + key) }

// Put: 수집 성공 1건 적재
func (cc *ContractCache) Put(c *shareddomain.FetchedContract) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	err = cc.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cacheKey(c.Key()), data)
	})
	if err != nil {
		return err
	}
	cc.incrementOperationCount()
	return nil
}

// Get: 캐시 조회. 미스/역직렬화 실패는 (nil, false)
func (cc *ContractCache) Get(key string) (*shareddomain.FetchedContract, bool) {
	var out *shareddomain.FetchedContract
	err := cc.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var c shareddomain.FetchedContract
			if err := json.Unmarshal(val, &c); err != nil {
				return err
			}
			out = &c
			return nil
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			// 파손된 엔트리는 미스로 취급
			out = nil
		}
		return nil, false
	}
	return out, out != nil
}

// IsContain: 존재 여부만 (값 역직렬화 없이)
func (cc *ContractCache) IsContain(key string) bool {
	err := cc.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(cacheKey(key))
		return err
	})
	return err == nil
}

// Count: 캐시에 적재된 컨트랙트 수
func (cc *ContractCache) Count() int {
	count := 0
	_ = cc.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte("contract:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count
}

// 연산 카운터 증가 및 GC 트리거
func (cc *ContractCache) incrementOperationCount() {
	count := atomic.AddUint64(&cc.operationCnt, 1)
	if count%gcCheckInterval == 0 {
		go func() {
			_ = cc.db.RunValueLogGC(gcFactor)
		}()
	}
}
