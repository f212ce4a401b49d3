package domain

import "time"

// ProcessingStatus: 재개(resume)용 체크포인트. 배치마다 갱신/저장됨
type ProcessingStatus struct {
	Total           int       `json:"total"`
	Processed       int       `json:"processed"`
	FailedAddresses []string  `json:"failed_addresses"`
	LastIndex       int       `json:"last_index"`
	StartedAt       time.Time `json:"started_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewProcessingStatus(total int) *ProcessingStatus {
	now := time.Now()
	return &ProcessingStatus{
		Total:           total,
		FailedAddresses: []string{},
		StartedAt:       now,
		UpdatedAt:       now,
	}
}

// Snapshot: 진행 콜백에 넘길 값 복사본
func (s *ProcessingStatus) Snapshot() ProcessingStatus {
	cp := *s
	cp.FailedAddresses = append([]string(nil), s.FailedAddresses...)
	return cp
}

func (s *ProcessingStatus) RecordFailure(address string) {
	s.FailedAddresses = append(s.FailedAddresses, address)
}

func (s *ProcessingStatus) Touch(lastIndex, processed int) {
	s.LastIndex = lastIndex
	s.Processed = processed
	s.UpdatedAt = time.Now()
}
