// Package infra: 수집 파이프라인의 외부 어댑터 (익스플로러 HTTP / badger 캐시)
package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	fdomain "github.com/rlaaudgjs5638/contractGraph/internal/fetcher/domain"
	shareddomain "github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

const defaultExplorerBaseURL = "https://api.etherscan.io/v2/api"

// ExplorerClient: etherscan v2 계열 getsourcecode 호출 구현체
// 코어는 ContractSource 인터페이스만 알고, 전송/디코딩은 여기서 끝냄
type ExplorerClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewExplorerClient(apiKey string) *ExplorerClient {
	return &ExplorerClient{
		baseURL: defaultExplorerBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewExplorerClientWithBaseURL: 테스트/대체 익스플로러용
func NewExplorerClientWithBaseURL(baseURL, apiKey string) *ExplorerClient {
	c := NewExplorerClient(apiKey)
	c.baseURL = baseURL
	return c
}

// FetchOne: (chainId, address) → {status, message, result}
func (c *ExplorerClient) FetchOne(ctx context.Context, chainID int64, address shareddomain.Address) (*fdomain.ExplorerResponse, error) {
	params := url.Values{}
	params.Set("chainid", fmt.Sprintf("%d", chainID))
	params.Set("module", "contract")
	params.Set("action", "getsourcecode")
	params.Set("address", string(address))
	if c.apiKey != "" {
		params.Set("apikey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("explorer request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("explorer returned HTTP %d", httpResp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("explorer body read failed: %w", err)
	}

	var resp fdomain.ExplorerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("explorer payload malformed: %w", err)
	}
	return &resp, nil
}
