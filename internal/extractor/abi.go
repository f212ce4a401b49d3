// Package extractor: ABI/소스 텍스트에 대한 순수 분석 함수 모음
// 파서가 아니라 휴리스틱 패턴 매칭 — 오탐/누락은 허용 범위
package extractor

import (
	"encoding/json"
	"strings"

	"github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

// ERC-20/721 판정용 필수 함수 이름 집합
// 시그니처 정확 비교가 아니라 이름 포함 여부만 본다
var (
	erc20Required = []string{
		"totalSupply", "balanceOf", "transfer", "allowance", "approve", "transferFrom",
	}
	erc721Required = []string{
		"balanceOf", "ownerOf", "safeTransferFrom", "transferFrom",
		"approve", "setApprovalForAll", "getApproved", "isApprovedForAll",
	}
	// 업그레이드 관련 함수가 하나라도 있으면 프록시로 본다
	proxyMarkers = []string{
		"upgradeto", "upgradetoandcall", "implementation", "admin", "changeadmin",
	}
)

// ParseABI: ABI 문자열 → ABI 배열. 미검증/빈 응답은 nil (에러 아님)
func ParseABI(raw string) []domain.ABIItem {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "[") {
		return nil
	}
	var items []domain.ABIItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

// FunctionNames: ABI의 함수 이름 목록 (중복 제거, 등장 순서 유지)
func FunctionNames(abi []domain.ABIItem) []string {
	return namesOfType(abi, domain.ABIFunction)
}

// EventNames: ABI의 이벤트 이름 목록
func EventNames(abi []domain.ABIItem) []string {
	return namesOfType(abi, domain.ABIEvent)
}

func namesOfType(abi []domain.ABIItem, typ domain.ABIItemType) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, item := range abi {
		if item.Type != typ || item.Name == "" {
			continue
		}
		if _, ok := seen[item.Name]; ok {
			continue
		}
		seen[item.Name] = struct{}{}
		names = append(names, item.Name)
	}
	return names
}

// FunctionSignatures: `name(type name, ...) [mutability] [returns (...)]` 렌더링
func FunctionSignatures(abi []domain.ABIItem) []string {
	var sigs []string
	seen := make(map[string]struct{})
	for _, item := range abi {
		if item.Type != domain.ABIFunction || item.Name == "" {
			continue
		}
		var b strings.Builder
		b.WriteString(item.Name)
		b.WriteString("(")
		b.WriteString(renderParams(item.Inputs, false))
		b.WriteString(")")
		if item.StateMutability != "" && item.StateMutability != "nonpayable" {
			b.WriteString(" " + item.StateMutability)
		}
		if len(item.Outputs) > 0 {
			b.WriteString(" returns (" + renderParams(item.Outputs, false) + ")")
		}
		sig := b.String()
		if _, ok := seen[sig]; ok {
			continue
		}
		seen[sig] = struct{}{}
		sigs = append(sigs, sig)
	}
	return sigs
}

// EventSignatures: `event name(type [indexed] name, ...)` 렌더링
func EventSignatures(abi []domain.ABIItem) []string {
	var sigs []string
	seen := make(map[string]struct{})
	for _, item := range abi {
		if item.Type != domain.ABIEvent || item.Name == "" {
			continue
		}
		sig := "event " + item.Name + "(" + renderParams(item.Inputs, true) + ")"
		if _, ok := seen[sig]; ok {
			continue
		}
		seen[sig] = struct{}{}
		sigs = append(sigs, sig)
	}
	return sigs
}

// renderParams: tuple 타입은 bare `tuple` 대신 컴포넌트 목록으로 재귀 전개
func renderParams(params []domain.ABIParameter, withIndexed bool) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		typ := p.Type
		if strings.HasPrefix(typ, "tuple") && len(p.Components) > 0 {
			// tuple[] 같은 접미사는 전개 결과 뒤에 유지
			suffix := strings.TrimPrefix(typ, "tuple")
			typ = "(" + renderParams(p.Components, false) + ")" + suffix
		}
		piece := typ
		if withIndexed && p.Indexed {
			piece += " indexed"
		}
		if p.Name != "" {
			piece += " " + p.Name
		}
		parts = append(parts, piece)
	}
	return strings.Join(parts, ", ")
}

// hasAllFunctions: 함수 이름 집합이 required를 모두 포함하는지
func hasAllFunctions(abi []domain.ABIItem, required []string) bool {
	have := make(map[string]struct{})
	for _, name := range FunctionNames(abi) {
		have[name] = struct{}{}
	}
	for _, want := range required {
		if _, ok := have[want]; !ok {
			return false
		}
	}
	return true
}

// IsERC20: 펀저블 토큰 표준 필수 함수 전부 보유 여부
func IsERC20(abi []domain.ABIItem) bool { return hasAllFunctions(abi, erc20Required) }

// IsERC721: NFT 표준 필수 함수 전부 보유 여부
func IsERC721(abi []domain.ABIItem) bool { return hasAllFunctions(abi, erc721Required) }

// DetectStandards: 만족하는 표준 인터페이스 이름 목록
func DetectStandards(abi []domain.ABIItem) []string {
	var out []string
	if IsERC20(abi) {
		out = append(out, "ERC20")
	}
	if IsERC721(abi) {
		out = append(out, "ERC721")
	}
	return out
}

// ExtractABIFromResult: 익스플로러 result 페이로드에서 ABI 배열을 best-effort 추출
// 알려진 중첩 형태를 순서대로 시도, 첫 매치 승. 없으면 nil (에러 아님)
//  1. result = [{ "ABI": "<json>" , … }, …]  (etherscan getsourcecode 배열)
//  2. result = { "ABI": "<json>", … }
//  3. result = { "abi": [ … ] }               (이미 배열로 풀린 형태)
func ExtractABIFromResult(result any) []domain.ABIItem {
	switch v := result.(type) {
	case []any:
		if len(v) > 0 {
			if obj, ok := v[0].(map[string]any); ok {
				if abiStr, ok := obj["ABI"].(string); ok {
					if items := ParseABI(abiStr); items != nil {
						return items
					}
				}
			}
		}
	case map[string]any:
		if abiStr, ok := v["ABI"].(string); ok {
			if items := ParseABI(abiStr); items != nil {
				return items
			}
		}
		if arr, ok := v["abi"].([]any); ok {
			data, err := json.Marshal(arr)
			if err == nil {
				var items []domain.ABIItem
				if json.Unmarshal(data, &items) == nil && len(items) > 0 {
					return items
				}
			}
		}
	}
	return nil
}

// IsProxy: 업그레이드 관련 함수 이름(대소문자 무시) 존재 여부
func IsProxy(abi []domain.ABIItem) bool {
	for _, name := range FunctionNames(abi) {
		lower := strings.ToLower(name)
		for _, marker := range proxyMarkers {
			if lower == marker {
				return true
			}
		}
	}
	return false
}
