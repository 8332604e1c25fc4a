package cli

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cyclograph/pkg/pipeline"
)

func newTestTUIModel(t *testing.T, maxNodes int) tuiModel {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	t.Cleanup(func() { runner.Close() })
	return newTUIModel(context.Background(), runner, maxNodes)
}

func setTUIInputs(m *tuiModel, nodes, cycles, target string) {
	m.inputs[fieldNodes].SetValue(nodes)
	m.inputs[fieldCycles].SetValue(cycles)
	m.inputs[fieldTarget].SetValue(target)
}

func TestTUIEnforcesNodeCeiling(t *testing.T) {
	m := newTestTUIModel(t, 100)
	setTUIInputs(&m, "999999999", "1", "1")

	model, cmd := m.startSearch()
	got := model.(tuiModel)

	if cmd != nil {
		t.Error("oversized node count dispatched a background run")
	}
	if got.running {
		t.Error("model reports a running search for rejected input")
	}
	if got.result == nil || got.result.err == nil {
		t.Fatal("oversized node count did not produce an error result")
	}
}

func TestTUIDisabledCeilingStillValidatesSpec(t *testing.T) {
	m := newTestTUIModel(t, 0)
	setTUIInputs(&m, "2", "5", "1")

	model, cmd := m.startSearch()
	got := model.(tuiModel)

	if cmd != nil {
		t.Error("cycles exceeding nodes dispatched a background run")
	}
	if got.result == nil || got.result.err == nil {
		t.Fatal("cycles exceeding nodes did not produce an error result")
	}
}

func TestTUISearchWithinBound(t *testing.T) {
	m := newTestTUIModel(t, 100)
	setTUIInputs(&m, "4", "1", "1")

	model, cmd := m.startSearch()
	got := model.(tuiModel)

	if cmd == nil {
		t.Fatal("valid input did not dispatch a background run")
	}
	if !got.running {
		t.Error("model does not report the search as running")
	}

	raw := cmd()
	msg, ok := raw.(searchDoneMsg)
	if !ok {
		t.Fatalf("background run returned %T, want searchDoneMsg", raw)
	}
	if msg.err != nil {
		t.Fatalf("background run error: %v", msg.err)
	}
	if !msg.result.Found || msg.result.Step != 1 {
		t.Errorf("result = %+v, want found at step 1", msg.result)
	}
	if msg.edges != 4 {
		t.Errorf("edges = %d, want 4", msg.edges)
	}
}

func TestTUIRejectsNonNumericInput(t *testing.T) {
	m := newTestTUIModel(t, 100)
	setTUIInputs(&m, "", "1", "1")

	_, cmd := m.startSearch()
	if cmd != nil {
		t.Error("empty node field dispatched a background run")
	}
}
