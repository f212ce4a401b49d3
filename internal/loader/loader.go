// Package loader: (address, blockchain, name, protocol) 입력 리스트 적재/정규화
// 엄격 검증이 아니라 best-effort 추출이 목표 — 깨진 항목은 조용히 버림
package loader

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

// LoadError: 파일 단위 입력 오류 (해당 파일만 실패, 다른 파일 로드엔 영향 없음)
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loader: %s 로드 실패: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// rawEntry: 파일의 한 레코드. 필드 누락 허용
type rawEntry struct {
	Address      string `json:"address"`
	Blockchain   string `json:"blockchain"`
	ContractName string `json:"contract_name"`
	Protocol     string `json:"protocol"`
}

// Load: JSON 배열 파일 하나를 읽어 정규화/필터링된 엔트리 목록 리턴
// - 주소: trim + 소문자화, 0x+40hex 아니면 드랍
// - 체인: trim + 소문자화, 체인 테이블에 없으면 드랍
// - 이름/프로토콜: trim, 비면 "Unknown"
func Load(path string) ([]domain.ContractEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var raws []rawEntry
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	entries := make([]domain.ContractEntry, 0, len(raws))
	for _, r := range raws {
		e := normalize(r)
		if !e.Address.IsValid() {
			continue
		}
		if !domain.IsSupportedChain(e.Blockchain) {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// LoadAll: 여러 입력 파일 로드. 한 파일의 실패가 다른 파일을 막지 않음
func LoadAll(paths []string) []domain.ContractEntry {
	var all []domain.ContractEntry
	for _, p := range paths {
		entries, err := Load(p)
		if err != nil {
			log.Printf("⚠️  %v", err)
			continue
		}
		all = append(all, entries...)
	}
	return all
}

func normalize(r rawEntry) domain.ContractEntry {
	name := strings.TrimSpace(r.ContractName)
	if name == "" {
		name = "Unknown"
	}
	protocol := strings.TrimSpace(r.Protocol)
	if protocol == "" {
		protocol = "Unknown"
	}
	return domain.ContractEntry{
		Address:      domain.NormalizeAddress(r.Address),
		Blockchain:   strings.ToLower(strings.TrimSpace(r.Blockchain)),
		ContractName: name,
		Protocol:     protocol,
	}
}

// RemoveDuplicates: (blockchain, address) 기준 첫 항목 유지, 상대 순서 보존
func RemoveDuplicates(entries []domain.ContractEntry) []domain.ContractEntry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]domain.ContractEntry, 0, len(entries))
	for _, e := range entries {
		key := e.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

// FilterByBlockchain: 대소문자 무시 정확 일치
func FilterByBlockchain(entries []domain.ContractEntry, blockchain string) []domain.ContractEntry {
	if blockchain == "" {
		return entries
	}
	var out []domain.ContractEntry
	for _, e := range entries {
		if strings.EqualFold(e.Blockchain, blockchain) {
			out = append(out, e)
		}
	}
	return out
}

// FilterByProtocol: 대소문자 무시 정확 일치
func FilterByProtocol(entries []domain.ContractEntry, protocol string) []domain.ContractEntry {
	if protocol == "" {
		return entries
	}
	var out []domain.ContractEntry
	for _, e := range entries {
		if strings.EqualFold(e.Protocol, protocol) {
			out = append(out, e)
		}
	}
	return out
}

// Limit: 앞에서 n개만 (n<=0 이면 전체)
func Limit(entries []domain.ContractEntry, n int) []domain.ContractEntry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}
