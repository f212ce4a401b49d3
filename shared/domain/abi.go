package domain

// ABIItemType: ABI 항목의 닫힌 enum
// role/pattern 분류 로직이 switch 전수검사를 할 수 있도록 string 상수로 고정
type ABIItemType string

const (
	ABIFunction    ABIItemType = "function"
	ABIEvent       ABIItemType = "event"
	ABIConstructor ABIItemType = "constructor"
	ABIFallback    ABIItemType = "fallback"
	ABIReceive     ABIItemType = "receive"
	ABIError       ABIItemType = "error"
)

// ABIParameter: 함수/이벤트 파라미터. tuple 타입이면 Components가 중첩됨
type ABIParameter struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Indexed    bool           `json:"indexed,omitempty"`
	Components []ABIParameter `json:"components,omitempty"`
}

// ABIItem: ABI 배열의 한 항목 (function | event | constructor | fallback | receive | error)
type ABIItem struct {
	Type            ABIItemType    `json:"type"`
	Name            string         `json:"name,omitempty"`
	Inputs          []ABIParameter `json:"inputs,omitempty"`
	Outputs         []ABIParameter `json:"outputs,omitempty"`
	StateMutability string         `json:"stateMutability,omitempty"`
	Anonymous       bool           `json:"anonymous,omitempty"`
}
