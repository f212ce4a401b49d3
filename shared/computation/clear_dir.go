package computation

import (
	"fmt"
	"os"
	"path/filepath"
)

// SetCleanedDir: 디렉토리를 비우고(없으면 생성) 사용 가능 상태로 만듦
func SetCleanedDir(path string) error {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		// 디렉토리가 없다면 새로 만들기
		if os.IsNotExist(err) {
			return os.MkdirAll(path, 0o755)
		}
		return err
	}
	for _, entry := range dirEntries {
		entryPath := filepath.Join(path, entry.Name())
		if err := os.RemoveAll(entryPath); err != nil {
			return fmt.Errorf("failed to remove %s: %w", entryPath, err)
		}
	}
	return nil
}

// EnsureDir: 존재 보장만 하고 내용은 건드리지 않음
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
