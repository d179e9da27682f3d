//go:build !nogpu

package gpu

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/edge.wgsl
var edgeShaderSource string

//go:embed shaders/node.wgsl
var nodeShaderSource string

// shaderSource returns the module source for a WGSL program, translated to
// SPIR-V when spirv is set.
func shaderSource(wgsl string, spirv bool) (hal.ShaderSource, error) {
	if wgsl == "" {
		return hal.ShaderSource{}, errors.New("shader source is empty")
	}
	if !spirv {
		return hal.ShaderSource{WGSL: wgsl}, nil
	}
	code, err := compileSPIRV(wgsl)
	if err != nil {
		return hal.ShaderSource{}, err
	}
	return hal.ShaderSource{SPIRV: code}, nil
}

// compileSPIRV compiles WGSL to little-endian SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}
