package source

import (
	"crypto/sha256"
	"fmt"
)

// ShaderSet owns the IR texts of every shader handled by one remap run and
// hands out stable ShaderIDs for diagnostics to reference.
type ShaderSet struct {
	shaders []Shader
	index   map[string]ShaderID // name -> id
}

// NewShaderSet creates an empty ShaderSet.
func NewShaderSet() *ShaderSet {
	return &ShaderSet{
		shaders: make([]Shader, 0),
		index:   make(map[string]ShaderID),
	}
}

// Add registers a shader's IR text under name and returns its ID. Adding the
// same name twice returns the existing ID without replacing the text.
func (set *ShaderSet) Add(name string, ir []byte) ShaderID {
	if id, ok := set.index[name]; ok {
		return id
	}
	id := ShaderID(len(set.shaders) + 1)
	set.shaders = append(set.shaders, Shader{
		ID:   id,
		Name: name,
		IR:   ir,
		Hash: sha256.Sum256(ir),
	})
	set.index[name] = id
	return id
}

// Get returns the shader for id, or nil if the ID is unknown.
func (set *ShaderSet) Get(id ShaderID) *Shader {
	if id == 0 || int(id) > len(set.shaders) {
		return nil
	}
	return &set.shaders[id-1]
}

// Lookup resolves a shader by name.
func (set *ShaderSet) Lookup(name string) (ShaderID, bool) {
	id, ok := set.index[name]
	return id, ok
}

// Name returns a human-readable name for id, falling back to a numeric form
// for unknown IDs so diagnostics never lose their origin entirely.
func (set *ShaderSet) Name(id ShaderID) string {
	if sh := set.Get(id); sh != nil {
		return sh.Name
	}
	return fmt.Sprintf("shader#%d", id)
}

// Len reports the number of registered shaders.
func (set *ShaderSet) Len() int {
	return len(set.shaders)
}
