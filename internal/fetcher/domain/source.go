package domain

import (
	"context"
	"time"

	shareddomain "github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

// ExplorerResponse: 익스플로러 응답 봉투 {status, message, result}
// result의 내부 형태는 익스플로러마다 달라서 any로 받고 추출기가 해석함
type ExplorerResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  any    `json:"result"`
}

// OK: 성공 플래그 (etherscan 계열은 "1")
func (r *ExplorerResponse) OK() bool {
	return r != nil && r.Status == "1"
}

// ContractSource: 단일 컨트랙트 원격 조회 협력자 (코어 밖, 계약만 고정)
type ContractSource interface {
	FetchOne(ctx context.Context, chainID int64, address shareddomain.Address) (*ExplorerResponse, error)
}

// FetchEvent: 수집 성공 1건당 발행되는 진행 이벤트
type FetchEvent struct {
	Address      shareddomain.Address `json:"address"`
	Blockchain   string               `json:"blockchain"`
	ContractName string               `json:"contract_name"`
	Protocol     string               `json:"protocol"`
	FileCount    int                  `json:"file_count"`
	HasABI       bool                 `json:"has_abi"`
	Index        int                  `json:"index"`
	Total        int                  `json:"total"`
	FetchedAt    time.Time            `json:"fetched_at"`
}
