package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "loader_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	path := filepath.Join(tmpDir, "contracts.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write list: %v", err)
	}
	return path
}

func TestLoad_NormalizeAndFilter(t *testing.T) {
	path := writeList(t, `[
		{"address": " 0xA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48 ", "blockchain": "Ethereum", "contract_name": "USDC", "protocol": "stable"},
		{"address": "0xdeadbeef", "blockchain": "ethereum", "contract_name": "Broken"},
		{"address": "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb49", "blockchain": "moonchain", "contract_name": "NoChain"},
		{"address": "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb50", "blockchain": "bsc"}
	]`)

	entries, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// 유효하지 않은 주소/미등록 체인은 조용히 드랍
	if len(entries) != 2 {
		t.Fatalf("expected 2 valid entries, got %d", len(entries))
	}
	if entries[0].Address != "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48" {
		t.Errorf("address not lowercased/trimmed: %s", entries[0].Address)
	}
	if entries[0].Blockchain != "ethereum" {
		t.Errorf("blockchain not lowercased: %s", entries[0].Blockchain)
	}
	// 이름/프로토콜 누락 시 Unknown
	if entries[1].ContractName != "Unknown" || entries[1].Protocol != "Unknown" {
		t.Errorf("missing name/protocol should default to Unknown: %+v", entries[1])
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	if _, err := Load("/nonexistent/contracts.json"); err == nil {
		t.Error("expected LoadError for missing file")
	}

	path := writeList(t, `{"not": "an array"`)
	if _, err := Load(path); err == nil {
		t.Error("expected LoadError for malformed JSON")
	}
}

func TestRemoveDuplicates(t *testing.T) {
	entries := []domain.ContractEntry{
		{Address: "0xaaaa", Blockchain: "ethereum", ContractName: "A"},
		{Address: "0xbbbb", Blockchain: "ethereum", ContractName: "B"},
		{Address: "0xaaaa", Blockchain: "ethereum", ContractName: "A-dup"},
		{Address: "0xaaaa", Blockchain: "bsc", ContractName: "A-bsc"},
	}

	out := RemoveDuplicates(entries)

	if len(out) > len(entries) {
		t.Fatalf("output longer than input")
	}
	// (blockchain, address) 키당 1개, 첫 등장 유지, 순서 보존
	if len(out) != 3 {
		t.Fatalf("expected 3 unique entries, got %d", len(out))
	}
	if out[0].ContractName != "A" || out[1].ContractName != "B" || out[2].ContractName != "A-bsc" {
		t.Errorf("first-seen order not preserved: %+v", out)
	}
}

func TestFiltersAndStats(t *testing.T) {
	entries := []domain.ContractEntry{
		{Address: "0x01", Blockchain: "ethereum", Protocol: "uniswap"},
		{Address: "0x02", Blockchain: "bsc", Protocol: "Uniswap"},
		{Address: "0x03", Blockchain: "ethereum", Protocol: "aave"},
	}

	if got := FilterByBlockchain(entries, "ETHEREUM"); len(got) != 2 {
		t.Errorf("blockchain filter: expected 2, got %d", len(got))
	}
	if got := FilterByProtocol(entries, "uniswap"); len(got) != 2 {
		t.Errorf("protocol filter should be case-insensitive: got %d", len(got))
	}
	if got := Limit(entries, 2); len(got) != 2 {
		t.Errorf("limit: expected 2, got %d", len(got))
	}
	if got := Limit(entries, 0); len(got) != 3 {
		t.Errorf("limit 0 should keep all, got %d", len(got))
	}

	stats := ComputeStats(entries)
	if stats.Total != 3 || stats.Unique != 3 {
		t.Errorf("stats totals wrong: %+v", stats)
	}
	if stats.ByBlockchain["ethereum"] != 2 {
		t.Errorf("by_blockchain wrong: %+v", stats.ByBlockchain)
	}
}
