package infra

import (
	"os"
	"path/filepath"
	"testing"

	shareddomain "github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

func createTestContract(addressStr string) *shareddomain.FetchedContract {
	return &shareddomain.FetchedContract{
		Address:      shareddomain.NormalizeAddress(addressStr),
		Blockchain:   "ethereum",
		ChainID:      1,
		ContractName: "TestToken",
		Protocol:     "test",
		SourceCode:   "contract TestToken {}",
		SourceFiles: []shareddomain.SourceFile{
			{Name: "TestToken.sol", Content: "contract TestToken {}"},
		},
	}
}

func TestContractCache_BasicOperations(t *testing.T) {
	// 임시 디렉토리 생성
	tmpDir, err := os.MkdirTemp("", "contract_cache_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cache, err := NewContractCache(filepath.Join(tmpDir, "cache.db"))
	if err != nil {
		t.Fatalf("Failed to create ContractCache: %v", err)
	}
	defer cache.Close()

	contract1 := createTestContract("0x1234567890123456789012345678901234567890")
	contract2 := createTestContract("0xabcdefabcdefabcdefabcdefabcdefabcdefabcd")

	// Put 테스트
	if err := cache.Put(contract1); err != nil {
		t.Fatalf("Failed to put contract1: %v", err)
	}

	// IsContain 테스트
	if !cache.IsContain(contract1.Key()) {
		t.Error("contract1 should exist in cache")
	}
	if cache.IsContain(contract2.Key()) {
		t.Error("contract2 should not exist in cache")
	}

	// Get 테스트
	retrieved, ok := cache.Get(contract1.Key())
	if !ok {
		t.Fatalf("Failed to get contract1")
	}
	if retrieved.Address != contract1.Address {
		t.Error("Retrieved contract address doesn't match")
	}
	if retrieved.ContractName != contract1.ContractName {
		t.Error("Retrieved contract name doesn't match")
	}

	// 미스는 (nil, false)
	if _, ok := cache.Get(contract2.Key()); ok {
		t.Error("cache miss should return ok=false")
	}

	// Count 테스트
	if err := cache.Put(contract2); err != nil {
		t.Fatalf("Failed to put contract2: %v", err)
	}
	if got := cache.Count(); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}
}

func TestContractCache_SurvivesReopen(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "contract_cache_reopen_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "cache.db")
	contract := createTestContract("0x1111111111111111111111111111111111111111")

	cache, err := NewContractCache(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := cache.Put(contract); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// 재오픈 후에도 남아 있어야 재실행 시 재수집을 건너뜀
	reopened, err := NewContractCache(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, ok := reopened.Get(contract.Key())
	if !ok {
		t.Fatal("contract should survive reopen")
	}
	if got.SourceCode != contract.SourceCode {
		t.Error("source code lost across reopen")
	}
}
