package extractor

import (
	"strings"
	"testing"

	"github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

func erc20ABI() []domain.ABIItem {
	names := []string{"name", "symbol", "decimals", "totalSupply", "balanceOf", "transfer", "approve", "allowance", "transferFrom"}
	var abi []domain.ABIItem
	for _, n := range names {
		abi = append(abi, domain.ABIItem{Type: domain.ABIFunction, Name: n})
	}
	abi = append(abi, domain.ABIItem{Type: domain.ABIEvent, Name: "Transfer"})
	return abi
}

func TestIsERC20(t *testing.T) {
	abi := erc20ABI()
	if !IsERC20(abi) {
		t.Fatal("full ERC20 ABI should be detected")
	}

	// 필수 함수 하나라도 빠지면 false로 뒤집혀야 함
	for _, required := range []string{"totalSupply", "balanceOf", "transfer", "allowance", "approve", "transferFrom"} {
		var without []domain.ABIItem
		for _, item := range abi {
			if item.Name != required {
				without = append(without, item)
			}
		}
		if IsERC20(without) {
			t.Errorf("removing %q should break ERC20 detection", required)
		}
	}
}

func TestDetectStandardsAndProxy(t *testing.T) {
	if got := DetectStandards(erc20ABI()); len(got) != 1 || got[0] != "ERC20" {
		t.Errorf("DetectStandards = %v, want [ERC20]", got)
	}

	proxyABI := []domain.ABIItem{
		{Type: domain.ABIFunction, Name: "UpgradeTo"},
	}
	if !IsProxy(proxyABI) {
		t.Error("upgradeTo (case-insensitive) should mark proxy")
	}
	if IsProxy(erc20ABI()) {
		t.Error("plain token should not be proxy")
	}
}

func TestFunctionSignatures(t *testing.T) {
	abi := []domain.ABIItem{
		{
			Type: domain.ABIFunction,
			Name: "transfer",
			Inputs: []domain.ABIParameter{
				{Name: "to", Type: "address"},
				{Name: "amount", Type: "uint256"},
			},
			Outputs:         []domain.ABIParameter{{Type: "bool"}},
			StateMutability: "nonpayable",
		},
		{
			Type: domain.ABIFunction,
			Name: "balanceOf",
			Inputs: []domain.ABIParameter{
				{Name: "owner", Type: "address"},
			},
			Outputs:         []domain.ABIParameter{{Type: "uint256"}},
			StateMutability: "view",
		},
	}

	sigs := FunctionSignatures(abi)
	if len(sigs) != 2 {
		t.Fatalf("expected 2 signatures, got %v", sigs)
	}
	if sigs[0] != "transfer(address to, uint256 amount) returns (bool)" {
		t.Errorf("unexpected signature: %q", sigs[0])
	}
	if sigs[1] != "balanceOf(address owner) view returns (uint256)" {
		t.Errorf("unexpected signature: %q", sigs[1])
	}
}

func TestSignatures_TupleExpansion(t *testing.T) {
	abi := []domain.ABIItem{
		{
			Type: domain.ABIFunction,
			Name: "exactInputSingle",
			Inputs: []domain.ABIParameter{
				{
					Name: "params",
					Type: "tuple",
					Components: []domain.ABIParameter{
						{Name: "tokenIn", Type: "address"},
						{Name: "fee", Type: "uint24"},
					},
				},
			},
		},
	}

	sigs := FunctionSignatures(abi)
	if len(sigs) != 1 {
		t.Fatalf("expected 1 signature, got %v", sigs)
	}
	// bare tuple 키워드 대신 컴포넌트 전개
	if !strings.Contains(sigs[0], "(address tokenIn, uint24 fee) params") {
		t.Errorf("tuple components not expanded: %q", sigs[0])
	}
}

func TestEventSignatures(t *testing.T) {
	abi := []domain.ABIItem{
		{
			Type: domain.ABIEvent,
			Name: "Transfer",
			Inputs: []domain.ABIParameter{
				{Name: "from", Type: "address", Indexed: true},
				{Name: "to", Type: "address", Indexed: true},
				{Name: "value", Type: "uint256"},
			},
		},
	}
	sigs := EventSignatures(abi)
	want := "event Transfer(address indexed from, address indexed to, uint256 value)"
	if len(sigs) != 1 || sigs[0] != want {
		t.Errorf("EventSignatures = %v, want [%s]", sigs, want)
	}
}

func TestParseABI(t *testing.T) {
	if got := ParseABI(`[{"type":"function","name":"transfer"}]`); len(got) != 1 || got[0].Name != "transfer" {
		t.Errorf("ParseABI valid: %+v", got)
	}
	if got := ParseABI("Contract source code not verified"); got != nil {
		t.Errorf("unverified marker should yield nil, got %+v", got)
	}
	if got := ParseABI(""); got != nil {
		t.Errorf("empty ABI should yield nil, got %+v", got)
	}
}

func TestExtractABIFromResult(t *testing.T) {
	// 1) getsourcecode 배열 형태
	arr := []any{map[string]any{"ABI": `[{"type":"function","name":"transfer"}]`}}
	if got := ExtractABIFromResult(arr); len(got) != 1 {
		t.Errorf("array shape: %+v", got)
	}
	// 2) 단일 오브젝트 형태
	obj := map[string]any{"ABI": `[{"type":"function","name":"approve"}]`}
	if got := ExtractABIFromResult(obj); len(got) != 1 || got[0].Name != "approve" {
		t.Errorf("object shape: %+v", got)
	}
	// 3) 이미 풀린 abi 배열
	raw := map[string]any{"abi": []any{map[string]any{"type": "event", "name": "Transfer"}}}
	if got := ExtractABIFromResult(raw); len(got) != 1 || got[0].Type != domain.ABIEvent {
		t.Errorf("raw abi shape: %+v", got)
	}
	// 매치 없음 → nil
	if got := ExtractABIFromResult("whatever"); got != nil {
		t.Errorf("no shape should yield nil, got %+v", got)
	}
}
