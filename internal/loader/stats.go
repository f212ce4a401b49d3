package loader

import "github.com/rlaaudgjs5638/contractGraph/shared/domain"

// Stats: 입력 리스트 집계. 순수 함수 — 부작용 없음
type Stats struct {
	Total           int            `json:"total"`
	Unique          int            `json:"unique"`
	ByBlockchain    map[string]int `json:"by_blockchain"`
	ByProtocol      map[string]int `json:"by_protocol"`
	UniqueProtocols int            `json:"unique_protocols"`
}

func ComputeStats(entries []domain.ContractEntry) Stats {
	s := Stats{
		Total:        len(entries),
		ByBlockchain: make(map[string]int),
		ByProtocol:   make(map[string]int),
	}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		s.ByBlockchain[e.Blockchain]++
		s.ByProtocol[e.Protocol]++
		seen[e.Key()] = struct{}{}
	}
	s.Unique = len(seen)
	s.UniqueProtocols = len(s.ByProtocol)
	return s
}
