// Package report: 파이프라인 한 번의 최종 요약 리포트
package report

import (
	"time"

	codegraph "github.com/rlaaudgjs5638/contractGraph/internal/codegraph/app"
	commgraph "github.com/rlaaudgjs5638/contractGraph/internal/commgraph/app"
	fdomain "github.com/rlaaudgjs5638/contractGraph/internal/fetcher/domain"
	shareddomain "github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

const topHubCount = 10

// Hub: 요약에 싣는 허브 노드 축약형
// 주소는 사람이 읽는 출력이라 EIP-55 체크섬 표기로 렌더링됨
type Hub struct {
	Address            string `json:"address"`
	Name               string `json:"name"`
	Role               string `json:"role"`
	CommunicationCount int    `json:"communication_count"`
}

// Summary: 한 런의 입력/수집/그래프 집계
type Summary struct {
	GeneratedAt time.Time `json:"generated_at"`

	TotalContracts  int      `json:"total_contracts"`
	FailedCount     int      `json:"failed_count"`
	FailedAddresses []string `json:"failed_addresses,omitempty"`

	ByBlockchain map[string]int `json:"by_blockchain"`
	ByProtocol   map[string]int `json:"by_protocol"`
	ByRole       map[string]int `json:"by_role"`

	CodeGraph codegraph.GraphStats `json:"code_graph"`

	CommNodeCount int            `json:"comm_node_count"`
	CommEdgeCount int            `json:"comm_edge_count"`
	ByPattern     map[string]int `json:"by_pattern"`
	TopHubs       []Hub          `json:"top_hubs,omitempty"`
}

// BuildSummary: 수집 결과와 두 그래프에서 요약 생성
// status는 없을 수 있음 (수집 생략 런)
func BuildSummary(contracts []*shareddomain.FetchedContract, status *fdomain.ProcessingStatus,
	codeStats codegraph.GraphStats, comm *commgraph.CommunicationGraph) *Summary {

	s := &Summary{
		GeneratedAt:    time.Now(),
		TotalContracts: len(contracts),
		ByBlockchain:   make(map[string]int),
		ByProtocol:     make(map[string]int),
		ByRole:         make(map[string]int),
		ByPattern:      make(map[string]int),
		CodeGraph:      codeStats,
	}

	if status != nil {
		s.FailedCount = len(status.FailedAddresses)
		for _, addr := range status.FailedAddresses {
			s.FailedAddresses = append(s.FailedAddresses, renderAddress(addr))
		}
	}

	for _, c := range contracts {
		s.ByBlockchain[c.Blockchain]++
		s.ByProtocol[c.Protocol]++
	}

	if comm != nil {
		s.CommNodeCount = comm.Metadata.NodeCount
		s.CommEdgeCount = comm.Metadata.EdgeCount
		for _, n := range comm.Nodes {
			s.ByRole[string(n.Role)]++
		}
		for p, count := range comm.Patterns {
			s.ByPattern[string(p)] = count
		}
		for _, hub := range comm.Hubs(topHubCount) {
			s.TopHubs = append(s.TopHubs, Hub{
				Address:            hub.Address.Checksum(),
				Name:               hub.Name,
				Role:               string(hub.Role),
				CommunicationCount: hub.CommunicationCount,
			})
		}
	}
	return s
}

// renderAddress: 유효한 주소면 체크섬 표기, 아니면 원문 유지
func renderAddress(raw string) string {
	addr := shareddomain.NormalizeAddress(raw)
	if !addr.IsValid() {
		return raw
	}
	return addr.Checksum()
}
