package utils

import (
	"strings"
	"testing"
)

func TestJsonString(t *testing.T) {
	got, err := JsonString(map[string]int{"a": 1})
	if err != nil {
		t.Fatal(err)
	}
	if got != `{"a":1}` {
		t.Errorf("unexpected encoding: %s", got)
	}
}

func TestJsonStringUnsupportedType(t *testing.T) {
	got, err := JsonString(make(chan int))
	if err == nil {
		t.Fatalf("expected error, got %q", got)
	}
	if !strings.Contains(err.Error(), "chan int") {
		t.Errorf("expected type in error, got: %v", err)
	}
}
