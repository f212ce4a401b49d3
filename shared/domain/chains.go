package domain

import "strings"

// 체인 이름 → 체인 ID 고정 테이블
// 입력 리스트의 blockchain 키는 반드시 이 테이블에 있어야 함
var chainIDs = map[string]int64{
	"ethereum":  1,
	"bsc":       56,
	"polygon":   137,
	"arbitrum":  42161,
	"optimism":  10,
	"avalanche": 43114,
	"fantom":    250,
	"base":      8453,
	"gnosis":    100,
	"celo":      42220,
}

// ChainID: 체인 이름(대소문자 무관)으로 체인 ID 조회
func ChainID(blockchain string) (int64, bool) {
	id, ok := chainIDs[strings.ToLower(strings.TrimSpace(blockchain))]
	return id, ok
}

// IsSupportedChain: 체인 테이블 등록 여부
func IsSupportedChain(blockchain string) bool {
	_, ok := ChainID(blockchain)
	return ok
}

// SupportedChains: 등록된 체인 이름 목록 (순서 비보장)
func SupportedChains() []string {
	names := make([]string, 0, len(chainIDs))
	for name := range chainIDs {
		names = append(names, name)
	}
	return names
}
