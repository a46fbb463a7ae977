package helpers

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTimerLogsNestedStages(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	timer := &Timer{}
	timer.Begin("link")
	timer.Begin("schedule")
	timer.End("schedule")
	timer.End("link")
	timer.Log(zap.New(core))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if stage := entries[0].ContextMap()["stage"]; stage != "link/schedule" {
		t.Fatalf("Unexpected stage %v", stage)
	}
	if stage := entries[1].ContextMap()["stage"]; stage != "link" {
		t.Fatalf("Unexpected stage %v", stage)
	}
}

func TestNilTimer(t *testing.T) {
	var timer *Timer
	timer.Begin("link")
	timer.End("link")
	timer.Log(zap.NewNop())
}
