package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rlaaudgjs5638/contractGraph/internal/extractor"
	fdomain "github.com/rlaaudgjs5638/contractGraph/internal/fetcher/domain"
	shareddomain "github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

// fetchContract: 단일 컨트랙트 수집 → FetchedContract 정규화
// 체인 매핑 실패/미검증 응답은 종결 에러, 그 외는 재시도 대상
func (f *BatchFetcher) fetchContract(ctx context.Context, entry shareddomain.ContractEntry) (*shareddomain.FetchedContract, error) {
	chainID, ok := shareddomain.ChainID(entry.Blockchain)
	if !ok {
		return nil, fmt.Errorf("%w: %q", fdomain.ErrUnsupportedChain, entry.Blockchain)
	}

	resp, err := f.source.FetchOne(ctx, chainID, entry.Address)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s (%s)", fdomain.ErrNotFoundOrUnverified, entry.Address, resp.Message)
	}

	payload, ok := resultPayload(resp.Result)
	sourceCode := ""
	if ok {
		sourceCode, _ = payload["SourceCode"].(string)
	}
	if sourceCode == "" {
		return nil, fmt.Errorf("%w: %s (no source payload)", fdomain.ErrNotFoundOrUnverified, entry.Address)
	}

	contractName := entry.ContractName
	if name, _ := payload["ContractName"].(string); name != "" {
		contractName = name
	}

	return &shareddomain.FetchedContract{
		Address:      entry.Address,
		Blockchain:   entry.Blockchain,
		ChainID:      chainID,
		ContractName: contractName,
		Protocol:     entry.Protocol,
		SourceCode:   sourceCode,
		ABI:          extractor.ExtractABIFromResult(resp.Result),
		SourceFiles:  extractor.NormalizeSourceFiles(contractName, sourceCode),
		FetchedAt:    time.Now(),
		Compiler:     compilerMeta(payload),
	}, nil
}

// resultPayload: result가 배열이면 첫 원소, 오브젝트면 그대로
func resultPayload(result any) (map[string]any, bool) {
	switch v := result.(type) {
	case []any:
		if len(v) > 0 {
			if obj, ok := v[0].(map[string]any); ok {
				return obj, true
			}
		}
	case map[string]any:
		return v, true
	}
	return nil, false
}

// compilerMeta: 컴파일러 부가정보 best-effort 추출 (없으면 nil)
func compilerMeta(payload map[string]any) *shareddomain.CompilerMeta {
	if payload == nil {
		return nil
	}
	version, _ := payload["CompilerVersion"].(string)
	license, _ := payload["LicenseType"].(string)
	if version == "" && license == "" {
		return nil
	}
	meta := &shareddomain.CompilerMeta{
		Version:     version,
		LicenseType: license,
	}
	if opt, _ := payload["OptimizationUsed"].(string); opt == "1" {
		meta.OptimizationUsed = true
	}
	if runs, _ := payload["Runs"].(string); runs != "" {
		if n, err := strconv.Atoi(runs); err == nil {
			meta.Runs = n
		}
	}
	return meta
}
