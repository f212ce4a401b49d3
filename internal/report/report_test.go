package report

import (
	"testing"

	codegraph "github.com/rlaaudgjs5638/contractGraph/internal/codegraph/app"
	commgraph "github.com/rlaaudgjs5638/contractGraph/internal/commgraph/app"
	fdomain "github.com/rlaaudgjs5638/contractGraph/internal/fetcher/domain"
	shareddomain "github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

func TestBuildSummary(t *testing.T) {
	// EIP-55 레퍼런스 벡터 주소 — 체크섬 렌더링 검증 겸용
	const routerAddr = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
	const routerChecksummed = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

	contracts := []*shareddomain.FetchedContract{
		{Address: routerAddr, Blockchain: "ethereum", ContractName: "RouterA", Protocol: "Uniswap"},
		{Address: "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", Blockchain: "ethereum", ContractName: "PairB", Protocol: "Uniswap",
			SourceCode: "address r = " + routerAddr + ";"},
		{Address: "0xcccccccccccccccccccccccccccccccccccccccc", Blockchain: "bsc", ContractName: "TokenC", Protocol: "Unknown"},
	}

	cb := codegraph.NewBuilder()
	cb.AddContracts(contracts)
	mb := commgraph.NewBuilder()
	mb.AddContracts(contracts)

	status := fdomain.NewProcessingStatus(4)
	status.RecordFailure("0xdddddddddddddddddddddddddddddddddddddddd")

	s := BuildSummary(contracts, status, cb.GetStats(), mb.Build())

	if s.TotalContracts != 3 {
		t.Errorf("total: got %d, want 3", s.TotalContracts)
	}
	if s.FailedCount != 1 {
		t.Errorf("failed: got %d, want 1", s.FailedCount)
	}
	if s.ByBlockchain["ethereum"] != 2 || s.ByBlockchain["bsc"] != 1 {
		t.Errorf("블록체인 히스토그램: %v", s.ByBlockchain)
	}
	if s.ByProtocol["Uniswap"] != 2 {
		t.Errorf("프로토콜 히스토그램: %v", s.ByProtocol)
	}
	if s.ByRole["router"] != 1 {
		t.Errorf("역할 히스토그램: %v", s.ByRole)
	}
	if s.CommNodeCount != 3 || s.CommEdgeCount != 1 {
		t.Errorf("통신 그래프 요약: nodes=%d edges=%d", s.CommNodeCount, s.CommEdgeCount)
	}
	if len(s.TopHubs) != 3 {
		t.Fatalf("허브 수: got %d, want 3", len(s.TopHubs))
	}
	// PairB -> RouterA 간선 1개라 두 노드가 통신량 1로 상위
	if s.TopHubs[0].CommunicationCount != 1 {
		t.Errorf("최상위 허브 통신량: %+v", s.TopHubs[0])
	}
	// 허브 주소는 EIP-55 체크섬 표기로 렌더링
	found := false
	for _, hub := range s.TopHubs {
		if hub.Address == routerChecksummed {
			found = true
		}
	}
	if !found {
		t.Errorf("체크섬 표기 허브 주소가 없음: %+v", s.TopHubs)
	}
	// 실패 주소도 체크섬 표기
	wantFailed := shareddomain.Address("0xdddddddddddddddddddddddddddddddddddddddd").Checksum()
	if s.FailedAddresses[0] != wantFailed {
		t.Errorf("실패 주소 렌더링: got %s, want %s", s.FailedAddresses[0], wantFailed)
	}
}

func TestBuildSummaryNilInputs(t *testing.T) {
	s := BuildSummary(nil, nil, codegraph.GraphStats{}, nil)
	if s.TotalContracts != 0 || s.FailedCount != 0 || len(s.TopHubs) != 0 {
		t.Errorf("빈 입력 요약: %+v", s)
	}
}
