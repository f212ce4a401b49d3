package computation

import (
	"os"
	"path/filepath"

	"github.com/rlaaudgjs5638/contractGraph/shared/mode"
)

// 프로젝트 루트 경로 리턴 (go.mod 기준 상향 탐색)
func FindProjectRootPath() string {
	cwd, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(cwd, "go.mod")); err == nil {
			return cwd
		}
		parent := filepath.Dir(cwd)
		if parent == cwd { // 루트까지 왔는데 못 찾으면 중단
			break
		}
		cwd = parent
	}
	return ""
}

// StorageRootPath: 모드별 저장소 루트
// 사용 시엔 StorageRootPath(m)+{테스트명}+{각 저장소}로 쓰면 됨
func StorageRootPath(m mode.ProcessingMode) string {
	if m.IsTest() {
		return filepath.Join(FindProjectRootPath(), "testing_enviroment")
	}
	return filepath.Join(FindProjectRootPath(), "production_storage")
}

func FindTestingStorageRootPath() string {
	return StorageRootPath(mode.TestingModeProcess)
}

func FindProductionStorageRootPath() string {
	return StorageRootPath(mode.ProductionModeProcess)
}

// DefaultOutputRootPath: 파이프라인 산출물(수집 결과/그래프/리포트) 기본 루트
func DefaultOutputRootPath() string {
	return filepath.Join(FindProductionStorageRootPath(), "contract_analysis")
}

// DefaultCacheRootPath: badger 수집 캐시 기본 루트
func DefaultCacheRootPath() string {
	return filepath.Join(FindProductionStorageRootPath(), "fetch_cache")
}
