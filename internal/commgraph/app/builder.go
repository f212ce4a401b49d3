package app

import (
	"sort"
	"strings"
	"time"

	"github.com/rlaaudgjs5638/contractGraph/internal/extractor"
	shareddomain "github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

const maxSourceEvents = 10

// Builder: 누적형 통신 그래프 빌더
// 간선의 bidirectional 플래그는 추가 시점 기준이라 처리 순서에 의존함 —
// 원 설계의 의도된 의미라서 이후 대칭 재계산을 하지 않는다
type Builder struct {
	contracts map[shareddomain.Address]*shareddomain.FetchedContract
	roles     map[shareddomain.Address]Role
	sources   map[shareddomain.Address]string // 소문자 연결 소스 (단서 검색용)
	nodeOrder []shareddomain.Address

	// 주소 리터럴 → 그 리터럴을 언급한 소스 주소들 (역방향 해석용)
	literalIndex map[shareddomain.Address][]shareddomain.Address
	literals     map[shareddomain.Address][]shareddomain.Address // 소스 → 언급 리터럴

	edges     map[string]*CommunicationEdge
	edgeOrder []string
	pairSeen  map[string]struct{} // source|target — 역방향 존재 체크용
}

func NewBuilder() *Builder {
	return &Builder{
		contracts:    make(map[shareddomain.Address]*shareddomain.FetchedContract),
		roles:        make(map[shareddomain.Address]Role),
		sources:      make(map[shareddomain.Address]string),
		literalIndex: make(map[shareddomain.Address][]shareddomain.Address),
		literals:     make(map[shareddomain.Address][]shareddomain.Address),
		edges:        make(map[string]*CommunicationEdge),
		pairSeen:     make(map[string]struct{}),
	}
}

// AddContracts: 컨트랙트 등록 + 역할 분류 + 신규 기준 간선 생성
func (b *Builder) AddContracts(contracts []*shareddomain.FetchedContract) {
	for _, c := range contracts {
		b.addContract(c)
	}
}

func (b *Builder) addContract(c *shareddomain.FetchedContract) {
	addr := shareddomain.NormalizeAddress(string(c.Address))
	if _, exists := b.contracts[addr]; exists {
		return
	}

	source := c.SourceCode
	if len(c.SourceFiles) > 0 {
		source = extractor.ConcatenatedSource(c.SourceFiles)
	}

	b.contracts[addr] = c
	b.roles[addr] = ClassifyRole(c)
	b.sources[addr] = strings.ToLower(source)
	b.nodeOrder = append(b.nodeOrder, addr)

	// 정방향: 신규 컨트랙트 소스의 리터럴 → 기존 컨트랙트
	for _, literal := range extractor.ExtractAddressLiterals(source) {
		if literal == addr {
			continue
		}
		b.literals[addr] = append(b.literals[addr], literal)
		b.literalIndex[literal] = append(b.literalIndex[literal], addr)
		if _, known := b.contracts[literal]; known {
			b.recordInteraction(addr, literal)
		}
	}

	// 역방향: 기존 컨트랙트 소스가 신규 주소를 언급했던 경우
	for _, source := range b.literalIndex[addr] {
		if source != addr {
			b.recordInteraction(source, addr)
		}
	}
}

// recordInteraction: (source, target) 상호작용 1건을 패턴 분류해 간선으로
func (b *Builder) recordInteraction(source, target shareddomain.Address) {
	lowerSrc := b.sources[source]
	pattern := classifyPattern(lowerSrc, b.roles[target])

	key := string(source) + "|" + string(target) + "|" + string(pattern)
	if _, exists := b.edges[key]; exists {
		return
	}

	// 역방향 간선 존재 여부는 "지금" 기준 — 이후 재계산 없음
	_, reverseExists := b.pairSeen[string(target)+"|"+string(source)]

	edge := &CommunicationEdge{
		Source:          source,
		Target:          target,
		Pattern:         pattern,
		CalledFunctions: b.calledFunctions(lowerSrc, target),
		SourceEvents:    b.sourceEvents(source),
		Bidirectional:   reverseExists,
	}
	b.edges[key] = edge
	b.edgeOrder = append(b.edgeOrder, key)
	b.pairSeen[string(source)+"|"+string(target)] = struct{}{}
}

// calledFunctions: 타깃 ABI 함수 중 소스 텍스트에 호출 형태로 등장하는 것들
func (b *Builder) calledFunctions(lowerSource string, target shareddomain.Address) []string {
	c := b.contracts[target]
	if c == nil {
		return nil
	}
	var called []string
	for _, name := range extractor.FunctionNames(c.ABI) {
		if strings.Contains(lowerSource, "."+strings.ToLower(name)+"(") {
			called = append(called, name)
		}
	}
	return called
}

// sourceEvents: 소스 컨트랙트의 선언 이벤트 앞 10개까지
func (b *Builder) sourceEvents(source shareddomain.Address) []string {
	c := b.contracts[source]
	if c == nil {
		return nil
	}
	events := extractor.EventNames(c.ABI)
	if len(events) > maxSourceEvents {
		events = events[:maxSourceEvents]
	}
	return events
}

// Build: 스냅샷 + 노드 통신량 재계산 + 고정 키 패턴 히스토그램
func (b *Builder) Build() *CommunicationGraph {
	inbound := make(map[shareddomain.Address]int)
	outbound := make(map[shareddomain.Address]int)
	for _, key := range b.edgeOrder {
		e := b.edges[key]
		outbound[e.Source]++
		inbound[e.Target]++
	}

	nodes := make([]CommunicationNode, 0, len(b.nodeOrder))
	protocols := make(map[string]struct{})
	blockchains := make(map[string]struct{})
	for _, addr := range b.nodeOrder {
		c := b.contracts[addr]
		nodes = append(nodes, CommunicationNode{
			Address:            addr,
			Name:               c.ContractName,
			Protocol:           c.Protocol,
			Blockchain:         c.Blockchain,
			Role:               b.roles[addr],
			Functions:          extractor.FunctionNames(c.ABI),
			Events:             extractor.EventNames(c.ABI),
			InboundCount:       inbound[addr],
			OutboundCount:      outbound[addr],
			CommunicationCount: inbound[addr] + outbound[addr],
		})
		protocols[c.Protocol] = struct{}{}
		blockchains[c.Blockchain] = struct{}{}
	}

	edges := make([]CommunicationEdge, 0, len(b.edgeOrder))
	patterns := make(map[Pattern]int, len(AllPatterns))
	for _, p := range AllPatterns {
		patterns[p] = 0
	}
	for _, key := range b.edgeOrder {
		edges = append(edges, *b.edges[key])
		patterns[b.edges[key].Pattern]++
	}

	return &CommunicationGraph{
		Nodes:    nodes,
		Edges:    edges,
		Patterns: patterns,
		Metadata: CommunicationMetadata{
			NodeCount:   len(nodes),
			EdgeCount:   len(edges),
			Protocols:   sortedKeys(protocols),
			Blockchains: sortedKeys(blockchains),
			GeneratedAt: time.Now(),
		},
	}
}

// Hubs: 총 통신량 상위 n개 노드 — 동률이면 등록 순서 유지
func (g *CommunicationGraph) Hubs(n int) []CommunicationNode {
	if n <= 0 {
		return nil
	}
	hubs := append([]CommunicationNode(nil), g.Nodes...)
	sort.SliceStable(hubs, func(i, j int) bool {
		return hubs[i].CommunicationCount > hubs[j].CommunicationCount
	})
	if n > len(hubs) {
		n = len(hubs)
	}
	return hubs[:n]
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
