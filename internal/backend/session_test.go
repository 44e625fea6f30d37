package backend

import (
	"context"
	"errors"
	"testing"
)

type versionOnlyTool struct {
	Tool
	version Version
	err     error
	calls   int
}

func (t *versionOnlyTool) Version(ctx context.Context) (Version, error) {
	t.calls++
	return t.version, t.err
}

func TestMaxShaderModelFor(t *testing.T) {
	tests := []struct {
		version Version
		want    ShaderModel
	}{
		{Version{1, 5}, ShaderModel{6, 5}},
		{Version{1, 4}, ShaderModel{6, 4}},
		{Version{1, 3}, ShaderModel{6, 1}},
		{Version{1, 2}, ShaderModel{6, 1}},
		{Version{1, 6}, ShaderModel{6, 6}},
		{Version{2, 0}, ShaderModel{6, 6}},
		{Version{1, 1}, ShaderModel{6, 0}},
		{Version{0, 9}, ShaderModel{6, 0}},
	}
	for _, tt := range tests {
		if got := MaxShaderModelFor(tt.version); got != tt.want {
			t.Errorf("MaxShaderModelFor(%s) = %s, want %s", tt.version, got, tt.want)
		}
	}
}

func TestSessionMemoizesVersion(t *testing.T) {
	tool := &versionOnlyTool{version: Version{1, 5}}
	s := NewSession(tool)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		sm, err := s.MaxShaderModel(ctx)
		if err != nil {
			t.Fatalf("MaxShaderModel: %v", err)
		}
		if sm != (ShaderModel{6, 5}) {
			t.Fatalf("MaxShaderModel = %s", sm)
		}
	}
	if v, err := s.Version(ctx); err != nil || v != (Version{1, 5}) {
		t.Fatalf("Version = (%s, %v)", v, err)
	}
	if tool.calls != 1 {
		t.Errorf("tool queried %d times, want 1", tool.calls)
	}
}

func TestSessionRetriesAfterError(t *testing.T) {
	tool := &versionOnlyTool{err: errors.New("tool not loaded")}
	s := NewSession(tool)

	if _, err := s.MaxShaderModel(context.Background()); err == nil {
		t.Fatal("want error from the tool")
	}
	tool.err = nil
	tool.version = Version{1, 4}
	sm, err := s.MaxShaderModel(context.Background())
	if err != nil {
		t.Fatalf("MaxShaderModel after recovery: %v", err)
	}
	if sm != (ShaderModel{6, 4}) {
		t.Errorf("MaxShaderModel = %s, want 6.4", sm)
	}
}

func TestCallErrorKeepsToolOutput(t *testing.T) {
	err := &CallError{Op: "assemble", Output: "error: invalid record", Err: errors.New("exit status 1")}
	var target *CallError
	if !errors.As(error(err), &target) {
		t.Fatal("errors.As must match CallError")
	}
	msg := err.Error()
	if msg != "assemble failed: exit status 1\nerror: invalid record" {
		t.Errorf("Error() = %q", msg)
	}
}
