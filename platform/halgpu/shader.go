// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halgpu

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// CompileWGSL compiles WGSL source to SPIR-V words.
func CompileWGSL(source string) ([]uint32, error) {
	spirv, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("halgpu: compile shader: %w", err)
	}
	if len(spirv)%4 != 0 {
		return nil, fmt.Errorf("halgpu: compile shader: SPIR-V size %d is not word aligned", len(spirv))
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirv[i*4:])
	}
	return words, nil
}

// CompileShader compiles WGSL source and creates a shader module on the
// context's device. Call it on the owning thread, after making a client
// context current; release the module with DestroyShader.
func (c *Context) CompileShader(label, source string) (hal.ShaderModule, error) {
	if c.destroyed.Load() {
		return nil, ErrDestroyed
	}
	words, err := CompileWGSL(source)
	if err != nil {
		return nil, err
	}
	module, err := c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create shader module %q: %w", label, err)
	}
	return module, nil
}

// DestroyShader releases a module created by CompileShader.
func (c *Context) DestroyShader(m hal.ShaderModule) {
	if m == nil || c.destroyed.Load() {
		return
	}
	c.device.DestroyShaderModule(m)
}
