package source

// ShaderID uniquely identifies one shader's IR text within a ShaderSet.
type ShaderID uint32

// Shader captures one disassembled shader: its display name (usually the
// container file path) and the IR text all patch offsets refer to.
type Shader struct {
	ID   ShaderID
	Name string
	IR   []byte
	Hash [32]byte
}
