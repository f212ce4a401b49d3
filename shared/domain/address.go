package domain

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// Address는 0x 접두사 + 40자리 hex, 항상 소문자로 정규화된 컨트랙트 주소입니다.
type Address string

var addressPattern = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

// NormalizeAddress: 공백 제거 + 소문자화. 유효성 검사는 하지 않음.
func NormalizeAddress(raw string) Address {
	return Address(strings.ToLower(strings.TrimSpace(raw)))
}

// IsValid: 정규화된 주소가 0x + 40 hex 형식인지 검사
// (go-ethereum 쪽 검사와 소문자 패턴 검사를 모두 통과해야 함)
func (a Address) IsValid() bool {
	return addressPattern.MatchString(string(a)) && common.IsHexAddress(string(a))
}

func (a Address) String() string { return string(a) }

// Hex: 0x 접두사를 뗀 40자리 hex
func (a Address) Hex() string {
	return strings.TrimPrefix(string(a), "0x")
}

// Short: 로그/디렉토리명용 앞 8자리
func (a Address) Short() string {
	h := a.Hex()
	if len(h) > 8 {
		h = h[:8]
	}
	return h
}

// Checksum: EIP-55 체크섬 표기 (Legacy Keccak-256 기반)
// 리포트 출력용이며, 그래프 내부 키는 항상 소문자 주소를 사용함
func (a Address) Checksum() string {
	hex := a.Hex()
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(hex))
	sum := h.Sum(nil)

	out := make([]byte, len(hex))
	for i := 0; i < len(hex); i++ {
		c := hex[i]
		if c >= 'a' && c <= 'f' {
			// 해시의 해당 니블이 8 이상이면 대문자
			nibble := sum[i/2]
			if i%2 == 0 {
				nibble >>= 4
			}
			if nibble&0x0f >= 8 {
				c = c - 'a' + 'A'
			}
		}
		out[i] = c
	}
	return "0x" + string(out)
}
