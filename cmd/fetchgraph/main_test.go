package main

import "testing"

func TestMultiFlagAccumulates(t *testing.T) {
	var m multiFlag
	for _, v := range []string{"a.json", "b.json"} {
		if err := m.Set(v); err != nil {
			t.Fatalf("Set(%q): %v", v, err)
		}
	}
	if len(m) != 2 || m[0] != "a.json" || m[1] != "b.json" {
		t.Errorf("반복 지정 누적 실패: %v", m)
	}
	if m.String() != "a.json,b.json" {
		t.Errorf("String(): %q", m.String())
	}
}
