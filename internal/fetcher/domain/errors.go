package domain

import (
	"errors"
	"strings"
)

var (
	// ErrUnsupportedChain: 체인 테이블에 없는 blockchain 키 — 컨트랙트 단위 종결 실패
	ErrUnsupportedChain = errors.New("unsupported blockchain")

	// ErrNotFoundOrUnverified: 미검증/미존재 — 재시도 금지
	ErrNotFoundOrUnverified = errors.New("contract not found or not verified")
)

// IsTerminalFetchErr: 재시도 없이 즉시 실패 처리할 에러인지 분류
// 익스플로러 메시지 문자열도 같이 본다 (외부 구현이 sentinel을 안 쓸 수 있음)
func IsTerminalFetchErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFoundOrUnverified) || errors.Is(err, ErrUnsupportedChain) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "not verified") ||
		strings.Contains(msg, "unverified")
}
