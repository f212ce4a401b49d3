package domain

import "time"

// ContractEntry: 입력 리스트의 한 줄. (blockchain, address)가 식별자
type ContractEntry struct {
	Address      Address `json:"address"`
	Blockchain   string  `json:"blockchain"`
	ContractName string  `json:"contract_name"`
	Protocol     string  `json:"protocol"`
}

// Key: 중복 제거/캐시 키 규칙
func (e ContractEntry) Key() string {
	return e.Blockchain + ":" + string(e.Address)
}

// SourceFile: 이름 붙은 소스 파일 한 개 (멀티파일 응답은 파일별, 단일파일은 합성 1개)
type SourceFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// CompilerMeta: 익스플로러가 주는 컴파일러 부가정보 (없을 수 있음)
type CompilerMeta struct {
	Version          string `json:"version,omitempty"`
	OptimizationUsed bool   `json:"optimization_used,omitempty"`
	Runs             int    `json:"runs,omitempty"`
	LicenseType      string `json:"license_type,omitempty"`
}

// FetchedContract: 검증된 컨트랙트 1건의 수집 결과
// 수집 이후에는 불변이며, 두 그래프 빌더가 읽기 전용으로 공유함
type FetchedContract struct {
	Address      Address       `json:"address"`
	Blockchain   string        `json:"blockchain"`
	ChainID      int64         `json:"chain_id"`
	ContractName string        `json:"contract_name"`
	Protocol     string        `json:"protocol"`
	SourceCode   string        `json:"source_code"`
	ABI          []ABIItem     `json:"abi,omitempty"`
	SourceFiles  []SourceFile  `json:"source_files"`
	FetchedAt    time.Time     `json:"fetched_at"`
	Compiler     *CompilerMeta `json:"compiler,omitempty"`
}

func (c *FetchedContract) Key() string {
	return c.Blockchain + ":" + string(c.Address)
}

// HasABI: ABI는 nullable — 없어도 수집 실패가 아님
func (c *FetchedContract) HasABI() bool { return len(c.ABI) > 0 }
