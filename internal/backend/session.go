package backend

import (
	"context"
	"sync"
)

// Session owns one toolchain instance and caches what is expensive to
// query. The version lookup instantiates a validator inside the tool, so
// it runs once under the lock and the result is reused for the lifetime
// of the session.
type Session struct {
	tool Tool

	mu       sync.Mutex
	resolved bool
	version  Version
	maxSM    ShaderModel
}

func NewSession(tool Tool) *Session {
	return &Session{tool: tool}
}

// Tool exposes the wrapped toolchain for the per-shader calls.
func (s *Session) Tool() Tool {
	return s.tool
}

// Version reports the toolchain version, querying it on first use.
func (s *Session) Version(ctx context.Context) (Version, error) {
	if err := s.resolve(ctx); err != nil {
		return Version{}, err
	}
	return s.version, nil
}

// MaxShaderModel reports the newest shader model the toolchain handles.
func (s *Session) MaxShaderModel(ctx context.Context) (ShaderModel, error) {
	if err := s.resolve(ctx); err != nil {
		return ShaderModel{}, err
	}
	return s.maxSM, nil
}

func (s *Session) resolve(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolved {
		return nil
	}
	v, err := s.tool.Version(ctx)
	if err != nil {
		return err
	}
	s.version = v
	s.maxSM = MaxShaderModelFor(v)
	s.resolved = true
	return nil
}
