package extractor

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

var (
	// contract <Name> is <A>, <B> { … — is 뒤부터 여는 중괄호 전까지 캡처
	inheritancePattern = regexp.MustCompile(`contract\s+\w+\s+is\s+([^{]+)\{`)

	// import "path"; / import 'path';
	bareImportPattern = regexp.MustCompile(`import\s+["']([^"']+)["']`)
	// import {A, B} from "path"; / import * as X from "path";
	fromImportPattern = regexp.MustCompile(`import\s+[^"';]+\s+from\s+["']([^"']+)["']`)

	// Identifier(...).method( — Identifier가 인터페이스처럼 보일 때만 수집
	externalCallPattern = regexp.MustCompile(`\b([A-Za-z_]\w*)\s*\([^()]*\)\s*\.\s*(\w+)\s*\(`)

	// 소스에 그대로 박힌 40 hex 주소 리터럴
	AddressLiteralPattern = regexp.MustCompile(`0x[0-9a-fA-F]{40}`)

	// 상속 지정자의 생성자 인자 꼬리 (예: Ownable(msg.sender))
	callSuffixPattern = regexp.MustCompile(`\(.*\)\s*$`)
)

// looksLikeInterface: I 대문자 시작 또는 "Interface" 포함
func looksLikeInterface(name string) bool {
	if strings.Contains(name, "Interface") {
		return true
	}
	return len(name) >= 2 && name[0] == 'I' && name[1] >= 'A' && name[1] <= 'Z'
}

// ExtractInheritance: `contract X is A, B(arg), C {` → [A B C]
func ExtractInheritance(source string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range inheritancePattern.FindAllStringSubmatch(source, -1) {
		for _, part := range strings.Split(m[1], ",") {
			name := strings.TrimSpace(callSuffixPattern.ReplaceAllString(strings.TrimSpace(part), ""))
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// ExtractImports: bare/named import의 경로 문자열 수집
func ExtractImports(source string) []string {
	var out []string
	seen := make(map[string]struct{})
	collect := func(matches [][]string) {
		for _, m := range matches {
			path := m[1]
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}
			out = append(out, path)
		}
	}
	collect(fromImportPattern.FindAllStringSubmatch(source, -1))
	collect(bareImportPattern.FindAllStringSubmatch(source, -1))
	return out
}

// ExtractExternalCalls: `IName(...).method(` 꼴 → "IName.method" 목록
func ExtractExternalCalls(source string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range externalCallPattern.FindAllStringSubmatch(source, -1) {
		iface, method := m[1], m[2]
		if !looksLikeInterface(iface) {
			continue
		}
		pair := iface + "." + method
		if _, ok := seen[pair]; ok {
			continue
		}
		seen[pair] = struct{}{}
		out = append(out, pair)
	}
	return out
}

// ExtractInterfaces: 상속 목록과 import 경로에서 인터페이스처럼 보이는 이름 수집
func ExtractInterfaces(source string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(name string) {
		if !looksLikeInterface(name) {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, name := range ExtractInheritance(source) {
		add(name)
	}
	for _, path := range ExtractImports(source) {
		add(importBaseName(path))
	}
	return out
}

// importBaseName: "…/IERC20.sol" → "IERC20"
func importBaseName(path string) string {
	base := path
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	return strings.TrimSuffix(base, ".sol")
}

// ExtractAddressLiterals: 소스에 박힌 주소 리터럴 (소문자 정규화, 중복 제거)
func ExtractAddressLiterals(source string) []domain.Address {
	var out []domain.Address
	seen := make(map[domain.Address]struct{})
	for _, m := range AddressLiteralPattern.FindAllString(source, -1) {
		addr := domain.NormalizeAddress(m)
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out
}

// ---- 익스플로러 응답 소스 정규화 ----

type sourceEntry struct {
	Content string `json:"content"`
}

type standardJSONInput struct {
	Sources map[string]sourceEntry `json:"sources"`
}

// NormalizeSourceFiles: 익스플로러의 소스 페이로드를 균일한 파일 목록으로
// - {{…}} (standard-json-input 이중 중괄호): 바깥 중괄호 제거 후 sources 파싱
// - {…} (파일명→content 맵): 그대로 파싱
// - 그 외: 합성 단일 파일 <ContractName>.sol
// 파일 이름은 정렬해서 순서를 결정적으로 만든다
func NormalizeSourceFiles(contractName, rawSource string) []domain.SourceFile {
	trimmed := strings.TrimSpace(rawSource)
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, "{{") && strings.HasSuffix(trimmed, "}}") {
		inner := trimmed[1 : len(trimmed)-1]
		var std standardJSONInput
		if err := json.Unmarshal([]byte(inner), &std); err == nil && len(std.Sources) > 0 {
			return sortedFiles(std.Sources)
		}
	}

	if strings.HasPrefix(trimmed, "{") {
		// sources 래핑 없는 파일맵 형태도 시도
		var std standardJSONInput
		if err := json.Unmarshal([]byte(trimmed), &std); err == nil && len(std.Sources) > 0 {
			return sortedFiles(std.Sources)
		}
		var files map[string]sourceEntry
		if err := json.Unmarshal([]byte(trimmed), &files); err == nil && len(files) > 0 {
			ok := true
			for _, f := range files {
				if f.Content == "" {
					ok = false
					break
				}
			}
			if ok {
				return sortedFiles(files)
			}
		}
	}

	name := contractName
	if name == "" || name == "Unknown" {
		name = "Contract"
	}
	return []domain.SourceFile{{Name: name + ".sol", Content: rawSource}}
}

func sortedFiles(m map[string]sourceEntry) []domain.SourceFile {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	// 맵 순회 순서에 기대지 않음
	sort.Strings(names)
	files := make([]domain.SourceFile, 0, len(names))
	for _, name := range names {
		files = append(files, domain.SourceFile{Name: name, Content: m[name].Content})
	}
	return files
}

// ConcatenatedSource: 파일 목록을 순서대로 이어붙인 분석용 텍스트
func ConcatenatedSource(files []domain.SourceFile) string {
	var b strings.Builder
	for _, f := range files {
		b.WriteString(f.Content)
		b.WriteString("\n")
	}
	return b.String()
}
