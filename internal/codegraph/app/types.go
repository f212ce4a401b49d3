// Package app: 수집된 컨트랙트 집합 → 구조적 코드 그래프
// 상속/임포트/호출/인터페이스/동일 프로토콜 관계를 주소 단위 방향 그래프로 만든다
package app

import (
	"time"

	shareddomain "github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

// RelationshipType: 코드 그래프 간선 종류 (닫힌 집합)
type RelationshipType string

const (
	RelSameProtocol  RelationshipType = "same_protocol"
	RelInherits      RelationshipType = "inherits"
	RelImports       RelationshipType = "imports"
	RelCalls         RelationshipType = "calls"
	RelUsesInterface RelationshipType = "uses_interface"
)

// ContractNode: 주소당 파생 요약. 그래프 빌드마다 전부 재계산됨
type ContractNode struct {
	Address    shareddomain.Address `json:"address"`
	Name       string               `json:"name"`
	Protocol   string               `json:"protocol"`
	Blockchain string               `json:"blockchain"`
	Functions  []string             `json:"functions,omitempty"`
	Events     []string             `json:"events,omitempty"`
	Standards  []string             `json:"standards,omitempty"`
	IsProxy    bool                 `json:"is_proxy,omitempty"`
}

// ContractEdge: 방향 간선. 식별자 = (source, target, relationship_type)
// 같은 키로 다시 추가해도 no-op, 메타데이터는 최초 것이 승리
type ContractEdge struct {
	Source           shareddomain.Address `json:"source"`
	Target           shareddomain.Address `json:"target"`
	RelationshipType RelationshipType     `json:"relationship_type"`
	Function         string               `json:"function,omitempty"`
}

// GraphMetadata: 빌드 시점 집계
type GraphMetadata struct {
	NodeCount   int       `json:"node_count"`
	EdgeCount   int       `json:"edge_count"`
	Protocols   []string  `json:"protocols"`
	Blockchains []string  `json:"blockchains"`
	GeneratedAt time.Time `json:"generated_at"`
}

// CodeGraph: build() 스냅샷 — 만들어진 뒤에는 읽기 전용
type CodeGraph struct {
	Nodes    []ContractNode `json:"nodes"`
	Edges    []ContractEdge `json:"edges"`
	Metadata GraphMetadata  `json:"metadata"`
}

// GraphStats: GetStats() 결과
type GraphStats struct {
	NodeCount       int            `json:"node_count"`
	EdgeCount       int            `json:"edge_count"`
	EdgeTypes       map[string]int `json:"edge_types"`
	AvgEdgesPerNode string         `json:"avg_edges_per_node"`
}
