// Package persistence: 파이프라인 산출물의 파일 저장소
// 수집 결과/상태 체크포인트와 그래프 아티팩트를 JSON(+GraphML)으로 내려씀
package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	codegraph "github.com/rlaaudgjs5638/contractGraph/internal/codegraph/app"
	commgraph "github.com/rlaaudgjs5638/contractGraph/internal/commgraph/app"
	fdomain "github.com/rlaaudgjs5638/contractGraph/internal/fetcher/domain"
	"github.com/rlaaudgjs5638/contractGraph/shared/computation"
	shareddomain "github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

// 출력 루트 밑 고정 파일 이름
const (
	contractsFile    = "contracts.json"
	statusFile       = "status.json"
	codeGraphFile    = "code_graph.json"
	codeGraphMLFile  = "code_graph.graphml"
	codeGraphVizFile = "code_graph_viz.json"
	commGraphFile    = "communication_graph.json"
	commGraphVizFile = "communication_graph_viz.json"
	summaryFile      = "summary_report.json"
	sourcesDir       = "sources"
)

// Store: 단일 출력 디렉터리에 대한 파일 저장소
// fetcher의 Checkpointer를 만족함
type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if err := computation.EnsureDir(root); err != nil {
		return nil, fmt.Errorf("출력 디렉터리 생성 실패 (%s): %w", root, err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Root() string { return s.root }

// writeJSON: tmp에 쓰고 rename — 중간에 죽어도 기존 파일은 온전함
func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%s 직렬화 실패: %w", name, err)
	}
	path := filepath.Join(s.root, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("%s 쓰기 실패: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%s 교체 실패: %w", name, err)
	}
	return nil
}

func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.root, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s 파싱 실패: %w", name, err)
	}
	return nil
}

// --- fetcher.Checkpointer ---

func (s *Store) SaveContracts(contracts []*shareddomain.FetchedContract) error {
	return s.writeJSON(contractsFile, contracts)
}

// LoadContracts: 파일 없으면 빈 슬라이스 (첫 런과 재개 런을 구분하지 않음)
func (s *Store) LoadContracts() ([]*shareddomain.FetchedContract, error) {
	var contracts []*shareddomain.FetchedContract
	if err := s.readJSON(contractsFile, &contracts); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return contracts, nil
}

func (s *Store) SaveStatus(st *fdomain.ProcessingStatus) error {
	return s.writeJSON(statusFile, st)
}

func (s *Store) LoadStatus() (*fdomain.ProcessingStatus, error) {
	var st fdomain.ProcessingStatus
	if err := s.readJSON(statusFile, &st); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// --- 그래프 아티팩트 ---

func (s *Store) SaveCodeGraph(g *codegraph.CodeGraph) error {
	if err := s.writeJSON(codeGraphFile, g); err != nil {
		return err
	}
	if err := s.writeJSON(codeGraphVizFile, g.ToVizFormat()); err != nil {
		return err
	}
	path := filepath.Join(s.root, codeGraphMLFile)
	if err := os.WriteFile(path, []byte(g.ToGraphML()), 0644); err != nil {
		return fmt.Errorf("%s 쓰기 실패: %w", codeGraphMLFile, err)
	}
	return nil
}

func (s *Store) LoadCodeGraph() (*codegraph.CodeGraph, error) {
	var g codegraph.CodeGraph
	if err := s.readJSON(codeGraphFile, &g); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (s *Store) SaveCommGraph(g *commgraph.CommunicationGraph) error {
	if err := s.writeJSON(commGraphFile, g); err != nil {
		return err
	}
	return s.writeJSON(commGraphVizFile, g.ToVizFormat())
}

func (s *Store) LoadCommGraph() (*commgraph.CommunicationGraph, error) {
	var g commgraph.CommunicationGraph
	if err := s.readJSON(commGraphFile, &g); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (s *Store) SaveSummary(report any) error {
	return s.writeJSON(summaryFile, report)
}

// --- 소스 트리 덤프 ---

// SaveSources: sources/<blockchain>/<protocol>/<이름>_<주소8자>/<파일> 레이아웃으로 덤프
// 선택 기능이라 컨트랙트 하나가 실패해도 나머지는 계속 쓴다
func (s *Store) SaveSources(contracts []*shareddomain.FetchedContract) error {
	var firstErr error
	for _, c := range contracts {
		dir := filepath.Join(s.root, sourcesDir,
			sanitizePathComponent(c.Blockchain),
			sanitizePathComponent(c.Protocol),
			sanitizePathComponent(c.ContractName)+"_"+checksumShort(c.Address))
		if err := computation.EnsureDir(dir); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for _, f := range c.SourceFiles {
			path := filepath.Join(dir, sanitizeFileName(f.Name))
			if err := computation.EnsureDir(filepath.Dir(path)); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			if err := os.WriteFile(path, []byte(f.Content), 0644); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// checksumShort: 디렉터리명용 EIP-55 표기 앞 8자리
func checksumShort(a shareddomain.Address) string {
	h := strings.TrimPrefix(a.Checksum(), "0x")
	if len(h) > 8 {
		h = h[:8]
	}
	return h
}

// sanitizePathComponent: 디렉터리 이름 한 조각으로 안전하게
func sanitizePathComponent(name string) string {
	if name == "" {
		return "Unknown"
	}
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", ":", "_", " ", "_")
	return replacer.Replace(name)
}

// sanitizeFileName: 응답의 파일 이름은 "contracts/Token.sol" 같은 상대 경로일 수 있음
// 하위 디렉터리는 유지하되 루트 밖으로 나가는 조각은 제거
func sanitizeFileName(name string) string {
	parts := strings.Split(filepath.ToSlash(name), "/")
	var kept []string
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return "contract.sol"
	}
	return filepath.Join(kept...)
}
