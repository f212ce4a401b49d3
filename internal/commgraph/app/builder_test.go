package app

import (
	"fmt"
	"testing"

	"github.com/rlaaudgjs5638/contractGraph/internal/extractor"
	shareddomain "github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

const (
	addrA = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	addrB = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	addrC = "0xcccccccccccccccccccccccccccccccccccccccc"
)

func erc20ABI() []shareddomain.ABIItem {
	names := []string{"name", "symbol", "decimals", "totalSupply", "balanceOf", "transfer", "approve", "allowance", "transferFrom"}
	raw := "["
	for i, n := range names {
		if i > 0 {
			raw += ","
		}
		raw += fmt.Sprintf(`{"type":"function","name":%q}`, n)
	}
	raw += `,{"type":"event","name":"Transfer"},{"type":"event","name":"Approval"}]`
	return extractor.ParseABI(raw)
}

func testContract(addr, name, protocol string, abi []shareddomain.ABIItem, source string) *shareddomain.FetchedContract {
	return &shareddomain.FetchedContract{
		Address:      shareddomain.Address(addr),
		Blockchain:   "ethereum",
		ContractName: name,
		Protocol:     protocol,
		SourceCode:   source,
		ABI:          abi,
	}
}

func TestClassifyRoleERC20Token(t *testing.T) {
	c := testContract(addrA, "USD", "Unknown", erc20ABI(), "contract USD {}")
	if role := ClassifyRole(c); role != RoleToken {
		t.Fatalf("ERC20 ABI 보유 컨트랙트의 역할: got %s, want %s", role, RoleToken)
	}
}

func TestClassifyRoleNameHints(t *testing.T) {
	cases := []struct {
		name string
		want Role
	}{
		{"UniswapV2Router02", RoleRouter},
		{"PairFactory", RoleFactory},
		{"ChainlinkPriceOracle", RoleOracle},
		{"TokenBridge", RoleBridge},
		{"SomeContract", RoleUnknown},
	}
	for _, tc := range cases {
		c := testContract(addrA, tc.name, "Unknown", nil, "")
		if role := ClassifyRole(c); role != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, role, tc.want)
		}
	}
}

func TestTokenOutranksVault(t *testing.T) {
	// transfer/approve/balanceOf와 deposit/withdraw를 모두 가지면 규칙 순서상 token
	raw := `[{"type":"function","name":"transfer"},{"type":"function","name":"approve"},
		{"type":"function","name":"balanceOf"},{"type":"function","name":"deposit"},
		{"type":"function","name":"withdraw"}]`
	c := testContract(addrA, "WETH9", "Unknown", extractor.ParseABI(raw), "")
	if role := ClassifyRole(c); role != RoleToken {
		t.Fatalf("got %s, want %s", role, RoleToken)
	}
}

func TestEdgeFromAddressLiteral(t *testing.T) {
	b := NewBuilder()
	token := testContract(addrB, "MyToken", "Unknown", erc20ABI(), "contract MyToken {}")
	caller := testContract(addrA, "Spender", "Unknown", nil,
		"contract Spender { address t = "+addrB+"; function go() { IERC20(t).transfer(to, 1); } }")
	b.AddContracts([]*shareddomain.FetchedContract{token, caller})

	g := b.Build()
	if len(g.Edges) != 1 {
		t.Fatalf("간선 수: got %d, want 1", len(g.Edges))
	}
	e := g.Edges[0]
	if string(e.Source) != addrA || string(e.Target) != addrB {
		t.Errorf("간선 방향: %s -> %s", e.Source, e.Target)
	}
	if e.Pattern != PatternTokenTransfer {
		t.Errorf("패턴: got %s, want %s", e.Pattern, PatternTokenTransfer)
	}
	found := false
	for _, fn := range e.CalledFunctions {
		if fn == "transfer" {
			found = true
		}
	}
	if !found {
		t.Errorf("called_functions에 transfer가 없음: %v", e.CalledFunctions)
	}
}

func TestBidirectionalFlagDependsOnOrder(t *testing.T) {
	// A와 B가 서로의 주소를 언급 — 나중에 추가된 방향의 간선만 플래그가 선다
	mkPair := func() (*shareddomain.FetchedContract, *shareddomain.FetchedContract) {
		a := testContract(addrA, "Alpha", "Unknown", nil, "address peer = "+addrB+";")
		bb := testContract(addrB, "Beta", "Unknown", nil, "address peer = "+addrA+";")
		return a, bb
	}

	a, bb := mkPair()
	builder := NewBuilder()
	builder.AddContracts([]*shareddomain.FetchedContract{a, bb})
	g := builder.Build()
	if len(g.Edges) != 2 {
		t.Fatalf("간선 수: got %d, want 2", len(g.Edges))
	}

	flags := make(map[string]bool)
	for _, e := range g.Edges {
		flags[string(e.Source)] = e.Bidirectional
	}
	// B 추가 시: 정방향(B->A) 먼저, 그다음 역방향 해석으로 A->B
	if flags[addrB] {
		t.Error("먼저 생성된 B->A 간선은 bidirectional=false여야 함")
	}
	if !flags[addrA] {
		t.Error("나중에 생성된 A->B 간선은 bidirectional=true여야 함")
	}
}

func TestPatternByTargetRole(t *testing.T) {
	b := NewBuilder()
	oracle := testContract(addrB, "PriceOracle", "Chainlink", nil, "")
	consumer := testContract(addrA, "Consumer", "Unknown", nil,
		"address feed = "+addrB+"; function read() { IOracle(feed).latestRoundData(); }")
	b.AddContracts([]*shareddomain.FetchedContract{oracle, consumer})

	g := b.Build()
	if len(g.Edges) != 1 || g.Edges[0].Pattern != PatternOracle {
		t.Fatalf("oracle 타깃 상호작용의 패턴이 %s가 아님: %+v", PatternOracle, g.Edges)
	}
	if g.Patterns[PatternOracle] != 1 {
		t.Errorf("패턴 히스토그램 oracle: got %d, want 1", g.Patterns[PatternOracle])
	}
}

func TestPatternHistogramHasAllKeys(t *testing.T) {
	g := NewBuilder().Build()
	if len(g.Patterns) != len(AllPatterns) {
		t.Fatalf("히스토그램 키 수: got %d, want %d", len(g.Patterns), len(AllPatterns))
	}
	for _, p := range AllPatterns {
		if v, ok := g.Patterns[p]; !ok || v != 0 {
			t.Errorf("패턴 %s: 빈 그래프에서 0이어야 함 (got %d, ok=%v)", p, v, ok)
		}
	}
}

func TestCommunicationCounts(t *testing.T) {
	b := NewBuilder()
	hub := testContract(addrB, "MyToken", "Unknown", erc20ABI(), "")
	c1 := testContract(addrA, "CallerOne", "Unknown", nil, "address t = "+addrB+";")
	c2 := testContract(addrC, "CallerTwo", "Unknown", nil, "address t = "+addrB+";")
	b.AddContracts([]*shareddomain.FetchedContract{hub, c1, c2})

	g := b.Build()
	counts := make(map[string]CommunicationNode)
	for _, n := range g.Nodes {
		counts[string(n.Address)] = n
	}
	if n := counts[addrB]; n.InboundCount != 2 || n.OutboundCount != 0 || n.CommunicationCount != 2 {
		t.Errorf("허브 노드 통신량: %+v", n)
	}
	if n := counts[addrA]; n.OutboundCount != 1 || n.CommunicationCount != 1 {
		t.Errorf("호출자 노드 통신량: %+v", n)
	}

	hubs := g.Hubs(2)
	if len(hubs) != 2 || string(hubs[0].Address) != addrB {
		t.Fatalf("Hubs(2)의 최상위는 %s여야 함: %+v", addrB, hubs)
	}
	// 동률(c1, c2)은 등록 순서 유지
	if string(hubs[1].Address) != addrA {
		t.Errorf("동률 시 등록 순서: got %s, want %s", hubs[1].Address, addrA)
	}
}

func TestVizFormat(t *testing.T) {
	b := NewBuilder()
	token := testContract(addrB, "MyToken", "Uniswap", erc20ABI(), "")
	caller := testContract(addrA, "Spender", "Uniswap", nil,
		"address t = "+addrB+"; function f() { IERC20(t).transfer(a, 1); }")
	b.AddContracts([]*shareddomain.FetchedContract{token, caller})

	viz := b.Build().ToVizFormat()
	if len(viz.Nodes) != 2 || len(viz.Links) != 1 {
		t.Fatalf("viz 크기: nodes=%d links=%d", len(viz.Nodes), len(viz.Links))
	}
	for _, n := range viz.Nodes {
		if n.Value < 1 {
			t.Errorf("노드 value는 최소 1: %+v", n)
		}
		if n.Group != "Uniswap" {
			t.Errorf("group은 protocol: %+v", n)
		}
	}
	if viz.Links[0].Value != 2 { // transfer 1건 호출 + 1
		t.Errorf("링크 value: got %d, want 2", viz.Links[0].Value)
	}
}
