package app

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rlaaudgjs5638/contractGraph/internal/extractor"
	shareddomain "github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

// analyzed: 컨트랙트 1건의 추출 결과 캐시 (추가 시 1회 계산)
type analyzed struct {
	inheritNames []string
	importNames  []string // `/<Name>.sol`로 끝나는 임포트의 Name만
	calls        []callRef
	ifaceNames   []string
	addrLiterals []shareddomain.Address
}

type callRef struct {
	ifaceName string
	method    string
}

// Builder: 누적형 코드 그래프 빌더
// AddContracts는 여러 번 호출 가능, Build는 호출 시점 상태의 스냅샷
// 내부 맵 키는 전부 소문자 주소 — 컨트랙트 본체는 contracts가 단독 소유
type Builder struct {
	contracts map[shareddomain.Address]*shareddomain.FetchedContract
	analyses  map[shareddomain.Address]*analyzed
	nodeOrder []shareddomain.Address

	// 이름(소문자) → 해당 이름으로 선언된 주소들
	nameIndex map[string][]shareddomain.Address

	// 역방향 해석용 인덱스: 이름(소문자) → 그 이름을 참조하는 소스 주소들
	inheritIndex map[string][]shareddomain.Address
	importIndex  map[string][]shareddomain.Address
	ifaceIndex   map[string][]shareddomain.Address
	callerIndex  map[string][]callerRef
	literalIndex map[shareddomain.Address][]shareddomain.Address

	edges     map[string]*ContractEdge
	edgeOrder []string
}

type callerRef struct {
	source shareddomain.Address
	method string
}

func NewBuilder() *Builder {
	return &Builder{
		contracts:    make(map[shareddomain.Address]*shareddomain.FetchedContract),
		analyses:     make(map[shareddomain.Address]*analyzed),
		nameIndex:    make(map[string][]shareddomain.Address),
		inheritIndex: make(map[string][]shareddomain.Address),
		importIndex:  make(map[string][]shareddomain.Address),
		ifaceIndex:   make(map[string][]shareddomain.Address),
		callerIndex:  make(map[string][]callerRef),
		literalIndex: make(map[shareddomain.Address][]shareddomain.Address),
		edges:        make(map[string]*ContractEdge),
	}
}

// AddContracts: 계약 추가 + 6종 간선 패스 실행
// 추가 순서와 무관하게 같은 집합이면 같은 간선 집합이 되도록
// 신규 컨트랙트 기준 정방향/역방향 해석을 모두 수행한다
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
	an := &analyzed{
		inheritNames: extractor.ExtractInheritance(source),
		ifaceNames:   extractor.ExtractInterfaces(source),
		addrLiterals: extractor.ExtractAddressLiterals(source),
	}
	for _, path := range extractor.ExtractImports(source) {
		if name, ok := importSolName(path); ok {
			an.importNames = append(an.importNames, name)
		}
	}
	for _, pair := range extractor.ExtractExternalCalls(source) {
		if dot := strings.Index(pair, "."); dot > 0 {
			an.calls = append(an.calls, callRef{ifaceName: pair[:dot], method: pair[dot+1:]})
		}
	}

	b.contracts[addr] = c
	b.analyses[addr] = an
	b.nodeOrder = append(b.nodeOrder, addr)

	nameKey := strings.ToLower(c.ContractName)
	b.nameIndex[nameKey] = append(b.nameIndex[nameKey], addr)

	// 1) same_protocol — 현재 알려진 모든 동일 프로토콜 컨트랙트와 양방향
	//    프로토콜이 큰 입력에서는 O(프로토콜 내 컨트랙트 수)만큼 간선이 생김
	if c.Protocol != "" {
		for _, other := range b.nodeOrder {
			if other == addr {
				continue
			}
			if b.contracts[other].Protocol == c.Protocol {
				b.addEdge(addr, other, RelSameProtocol, "")
				b.addEdge(other, addr, RelSameProtocol, "")
			}
		}
	}

	// 2~5) 이름 해석 패스: 정방향(신규 → 기존) + 역방향(기존 → 신규)
	for _, name := range an.inheritNames {
		key := strings.ToLower(name)
		for _, target := range b.nameIndex[key] {
			if target != addr {
				b.addEdge(addr, target, RelInherits, "")
			}
		}
		b.inheritIndex[key] = append(b.inheritIndex[key], addr)
	}
	for _, source := range b.inheritIndex[nameKey] {
		if source != addr {
			b.addEdge(source, addr, RelInherits, "")
		}
	}

	for _, name := range an.importNames {
		key := strings.ToLower(name)
		for _, target := range b.nameIndex[key] {
			if target != addr {
				b.addEdge(addr, target, RelImports, "")
			}
		}
		b.importIndex[key] = append(b.importIndex[key], addr)
	}
	for _, source := range b.importIndex[nameKey] {
		if source != addr {
			b.addEdge(source, addr, RelImports, "")
		}
	}

	for _, call := range an.calls {
		key := strings.ToLower(call.ifaceName)
		for _, target := range b.nameIndex[key] {
			if target != addr {
				b.addEdge(addr, target, RelCalls, call.method)
			}
		}
		b.callerIndex[key] = append(b.callerIndex[key], callerRef{source: addr, method: call.method})
	}
	for _, caller := range b.callerIndex[nameKey] {
		if caller.source != addr {
			b.addEdge(caller.source, addr, RelCalls, caller.method)
		}
	}

	for _, name := range an.ifaceNames {
		key := strings.ToLower(name)
		for _, target := range b.nameIndex[key] {
			if target != addr {
				b.addEdge(addr, target, RelUsesInterface, "")
			}
		}
		b.ifaceIndex[key] = append(b.ifaceIndex[key], addr)
	}
	for _, source := range b.ifaceIndex[nameKey] {
		if source != addr {
			b.addEdge(source, addr, RelUsesInterface, "")
		}
	}

	// 6) 주소 리터럴 → calls (함수 메타데이터 없음)
	for _, literal := range an.addrLiterals {
		if literal == addr {
			continue
		}
		if _, known := b.contracts[literal]; known {
			b.addEdge(addr, literal, RelCalls, "")
		}
		b.literalIndex[literal] = append(b.literalIndex[literal], addr)
	}
	for _, source := range b.literalIndex[addr] {
		if source != addr {
			b.addEdge(source, addr, RelCalls, "")
		}
	}
}

// addEdge: (source, target, type) 키 중복이면 no-op — 최초 메타데이터 승리
func (b *Builder) addEdge(source, target shareddomain.Address, rel RelationshipType, function string) {
	key := string(source) + "|" + string(target) + "|" + string(rel)
	if _, exists := b.edges[key]; exists {
		return
	}
	b.edges[key] = &ContractEdge{
		Source:           source,
		Target:           target,
		RelationshipType: rel,
		Function:         function,
	}
	b.edgeOrder = append(b.edgeOrder, key)
}

// importSolName: "a/b/<Name>.sol" → Name
func importSolName(path string) (string, bool) {
	if !strings.HasSuffix(path, ".sol") {
		return "", false
	}
	base := path
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	name := strings.TrimSuffix(base, ".sol")
	if name == "" {
		return "", false
	}
	return name, true
}

// Build: 현재 상태 스냅샷. 반복 호출 가능
func (b *Builder) Build() *CodeGraph {
	nodes := make([]ContractNode, 0, len(b.nodeOrder))
	protocols := make(map[string]struct{})
	blockchains := make(map[string]struct{})

	for _, addr := range b.nodeOrder {
		c := b.contracts[addr]
		nodes = append(nodes, ContractNode{
			Address:    addr,
			Name:       c.ContractName,
			Protocol:   c.Protocol,
			Blockchain: c.Blockchain,
			Functions:  extractor.FunctionSignatures(c.ABI),
			Events:     extractor.EventSignatures(c.ABI),
			Standards:  extractor.DetectStandards(c.ABI),
			IsProxy:    extractor.IsProxy(c.ABI),
		})
		protocols[c.Protocol] = struct{}{}
		blockchains[c.Blockchain] = struct{}{}
	}

	edges := make([]ContractEdge, 0, len(b.edgeOrder))
	for _, key := range b.edgeOrder {
		edges = append(edges, *b.edges[key])
	}

	return &CodeGraph{
		Nodes: nodes,
		Edges: edges,
		Metadata: GraphMetadata{
			NodeCount:   len(nodes),
			EdgeCount:   len(edges),
			Protocols:   sortedKeys(protocols),
			Blockchains: sortedKeys(blockchains),
			GeneratedAt: time.Now(),
		},
	}
}

// GetStats: 간선 타입 히스토그램 + 노드당 평균 간선 수 (노드 0이면 0)
func (b *Builder) GetStats() GraphStats {
	stats := GraphStats{
		NodeCount: len(b.nodeOrder),
		EdgeCount: len(b.edgeOrder),
		EdgeTypes: make(map[string]int),
	}
	for _, key := range b.edgeOrder {
		stats.EdgeTypes[string(b.edges[key].RelationshipType)]++
	}
	avg := decimal.Zero
	if stats.NodeCount > 0 {
		avg = decimal.NewFromInt(int64(stats.EdgeCount)).
			Div(decimal.NewFromInt(int64(stats.NodeCount))).
			Round(4)
	}
	stats.AvgEdgesPerNode = avg.String()
	return stats
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
