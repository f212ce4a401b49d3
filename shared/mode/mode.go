package mode

type ProcessingMode int

const (
	TestingModeProcess ProcessingMode = iota
	ProductionModeProcess
)

func (m ProcessingMode) IsTest() bool {
	switch m {
	case TestingModeProcess:
		return true
	case ProductionModeProcess:
		return false
	}
	panic("mode: ProcessingMode.IsTest() -> 잘못된 모드 값")
}

// String: 저장소 루트 경로 구성에 쓰이는 모드 이름
func (m ProcessingMode) String() string {
	if m.IsTest() {
		return "testing"
	}
	return "production"
}
