// Package app: 수집된 컨트랙트 집합 → 행위적 통신 그래프
// 역할 분류 + 소스 내 주소 리터럴 기반 상호작용 패턴 추론
package app

import (
	"time"

	shareddomain "github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

// Role: 컨트랙트의 단일 추정 역할 (첫 매치 규칙 승)
type Role string

const (
	RoleToken      Role = "token"
	RoleDex        Role = "dex"
	RoleRouter     Role = "router"
	RoleFactory    Role = "factory"
	RoleLending    Role = "lending"
	RoleVault      Role = "vault"
	RoleGovernance Role = "governance"
	RoleOracle     Role = "oracle"
	RoleBridge     Role = "bridge"
	RoleProxy      Role = "proxy"
	RoleMultisig   Role = "multisig"
	RoleUnknown    Role = "unknown"
)

// Pattern: 추론된 상호작용 종류 (닫힌 집합 — 히스토그램 키로도 사용)
type Pattern string

const (
	PatternTokenTransfer Pattern = "token_transfer"
	PatternTokenApproval Pattern = "token_approval"
	PatternSwap          Pattern = "swap"
	PatternLiquidity     Pattern = "liquidity"
	PatternLending       Pattern = "lending"
	PatternOracle        Pattern = "oracle"
	PatternBridge        Pattern = "bridge"
	PatternGovernance    Pattern = "governance"
	PatternCallback      Pattern = "callback"
	PatternFlashLoan     Pattern = "flash_loan"
	PatternGenericCall   Pattern = "generic_call"
)

// AllPatterns: 히스토그램 고정 키 (전부 0으로 초기화됨)
var AllPatterns = []Pattern{
	PatternTokenTransfer, PatternTokenApproval, PatternSwap, PatternLiquidity,
	PatternLending, PatternOracle, PatternBridge, PatternGovernance,
	PatternCallback, PatternFlashLoan, PatternGenericCall,
}

// CommunicationNode: 주소당 요약 + 역할 + 통신량
// 통신량은 증분 유지가 아니라 빌드 시 간선 전체를 훑어 재계산됨
type CommunicationNode struct {
	Address            shareddomain.Address `json:"address"`
	Name               string               `json:"name"`
	Protocol           string               `json:"protocol"`
	Blockchain         string               `json:"blockchain"`
	Role               Role                 `json:"role"`
	Functions          []string             `json:"functions,omitempty"`
	Events             []string             `json:"events,omitempty"`
	InboundCount       int                  `json:"inbound_count"`
	OutboundCount      int                  `json:"outbound_count"`
	CommunicationCount int                  `json:"communication_count"`
}

// CommunicationEdge: 방향 간선. 식별자 = (source, target, pattern)
type CommunicationEdge struct {
	Source          shareddomain.Address `json:"source"`
	Target          shareddomain.Address `json:"target"`
	Pattern         Pattern              `json:"pattern"`
	CalledFunctions []string             `json:"called_functions,omitempty"`
	SourceEvents    []string             `json:"source_events,omitempty"`
	// 이 간선을 추가하는 시점에 역방향 간선이 이미 있었는지 (그 뒤로 재계산 안 함)
	Bidirectional bool `json:"bidirectional"`
}

type CommunicationMetadata struct {
	NodeCount   int       `json:"node_count"`
	EdgeCount   int       `json:"edge_count"`
	Protocols   []string  `json:"protocols"`
	Blockchains []string  `json:"blockchains"`
	GeneratedAt time.Time `json:"generated_at"`
}

// CommunicationGraph: build() 스냅샷
type CommunicationGraph struct {
	Nodes    []CommunicationNode   `json:"nodes"`
	Edges    []CommunicationEdge   `json:"edges"`
	Patterns map[Pattern]int       `json:"patterns"`
	Metadata CommunicationMetadata `json:"metadata"`
}
