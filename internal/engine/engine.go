// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package engine wraps the wgpu HAL device and queue that back a d3d10
// device. It exposes the narrow set of calls the facade needs and
// serializes access to the underlying device.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrOutOfMemory is returned (wrapped) when the backend cannot allocate.
var ErrOutOfMemory = errors.New("engine: out of memory")

// ErrNilDevice is returned by New when no device is supplied.
var ErrNilDevice = errors.New("engine: nil device")

// DefaultTimeout bounds how long a clear submission may wait on its fence.
const DefaultTimeout = 5 * time.Second

// Engine is the backend used by the d3d10 facade.
//
// Create calls return an opaque HAL handle; Destroy releases it. Clears run
// a render pass with a clear load op and wait for completion.
type Engine interface {
	CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error)
	DestroyBuffer(buf hal.Buffer)
	WriteBuffer(buf hal.Buffer, offset uint64, data []byte) error

	CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error)
	DestroyTexture(tex hal.Texture)
	CreateTextureView(tex hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error)
	DestroyTextureView(view hal.TextureView)

	CreateSampler(desc *hal.SamplerDescriptor) (hal.Sampler, error)
	DestroySampler(s hal.Sampler)

	CreateShaderModule(stage Stage, label string) (hal.ShaderModule, error)
	DestroyShaderModule(m hal.ShaderModule)

	ClearColor(view hal.TextureView, c gputypes.Color) error
	ClearDepthStencil(view hal.TextureView, clearDepth, clearStencil bool, depth float32, stencil uint32) error

	// Lock and Unlock guard the device when the facade runs with
	// multithread protection on.
	Lock()
	Unlock()

	// Destroy releases the device and queue. The engine must not be used
	// afterwards.
	Destroy()
}

// HAL is an Engine backed by a hal.Device and hal.Queue.
type HAL struct {
	mu      sync.Mutex
	device  hal.Device
	queue   hal.Queue
	timeout time.Duration

	// owned is true when Destroy should also destroy the device.
	owned bool
}

// New returns an engine over device and queue. When owned is true, Destroy
// also destroys device. A zero timeout selects DefaultTimeout.
func New(device hal.Device, queue hal.Queue, timeout time.Duration, owned bool) (*HAL, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HAL{device: device, queue: queue, timeout: timeout, owned: owned}, nil
}

// Device returns the underlying HAL device.
func (e *HAL) Device() hal.Device { return e.device }

// Queue returns the underlying HAL queue.
func (e *HAL) Queue() hal.Queue { return e.queue }

// Lock acquires the engine lock.
func (e *HAL) Lock() { e.mu.Lock() }

// Unlock releases the engine lock.
func (e *HAL) Unlock() { e.mu.Unlock() }

// CreateBuffer allocates a buffer. A zero size is rejected before reaching
// the backend.
func (e *HAL) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	if desc.Size == 0 {
		return nil, fmt.Errorf("engine: buffer %q: zero size", desc.Label)
	}
	buf, err := e.device.CreateBuffer(desc)
	if err != nil {
		return nil, fmt.Errorf("%w: buffer %q (%d bytes): %v", ErrOutOfMemory, desc.Label, desc.Size, err)
	}
	slogger().Debug("engine: buffer created", "label", desc.Label, "size", desc.Size)
	return buf, nil
}

// DestroyBuffer frees buf. A nil buffer is ignored.
func (e *HAL) DestroyBuffer(buf hal.Buffer) {
	if buf != nil {
		e.device.DestroyBuffer(buf)
	}
}

// WriteBuffer uploads data at offset. It is a no-op without a queue.
func (e *HAL) WriteBuffer(buf hal.Buffer, offset uint64, data []byte) error {
	if e.queue == nil || buf == nil || len(data) == 0 {
		return nil
	}
	if err := e.queue.WriteBuffer(buf, offset, data); err != nil {
		return fmt.Errorf("engine: write %d bytes at %d: %w", len(data), offset, err)
	}
	return nil
}

// CreateTexture allocates a texture.
func (e *HAL) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	tex, err := e.device.CreateTexture(desc)
	if err != nil {
		return nil, fmt.Errorf("%w: texture %q %dx%dx%d: %v", ErrOutOfMemory, desc.Label,
			desc.Size.Width, desc.Size.Height, desc.Size.DepthOrArrayLayers, err)
	}
	slogger().Debug("engine: texture created", "label", desc.Label,
		"width", desc.Size.Width, "height", desc.Size.Height, "mips", desc.MipLevelCount)
	return tex, nil
}

// DestroyTexture frees tex. A nil texture is ignored.
func (e *HAL) DestroyTexture(tex hal.Texture) {
	if tex != nil {
		e.device.DestroyTexture(tex)
	}
}

// CreateTextureView creates a view of tex.
func (e *HAL) CreateTextureView(tex hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error) {
	view, err := e.device.CreateTextureView(tex, desc)
	if err != nil {
		return nil, fmt.Errorf("engine: texture view %q: %w", desc.Label, err)
	}
	return view, nil
}

// DestroyTextureView frees view. A nil view is ignored.
func (e *HAL) DestroyTextureView(view hal.TextureView) {
	if view != nil {
		e.device.DestroyTextureView(view)
	}
}

// CreateSampler creates a sampler.
func (e *HAL) CreateSampler(desc *hal.SamplerDescriptor) (hal.Sampler, error) {
	s, err := e.device.CreateSampler(desc)
	if err != nil {
		return nil, fmt.Errorf("engine: sampler %q: %w", desc.Label, err)
	}
	return s, nil
}

// DestroySampler frees s. A nil sampler is ignored.
func (e *HAL) DestroySampler(s hal.Sampler) {
	if s != nil {
		e.device.DestroySampler(s)
	}
}

// CreateShaderModule creates the placeholder module for stage.
func (e *HAL) CreateShaderModule(stage Stage, label string) (hal.ShaderModule, error) {
	code, err := StageModule(stage)
	if err != nil {
		return nil, err
	}
	m, err := e.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, fmt.Errorf("engine: shader module %q: %w", label, err)
	}
	return m, nil
}

// DestroyShaderModule frees m. A nil module is ignored.
func (e *HAL) DestroyShaderModule(m hal.ShaderModule) {
	if m != nil {
		e.device.DestroyShaderModule(m)
	}
}

// ClearColor clears view to c.
func (e *HAL) ClearColor(view hal.TextureView, c gputypes.Color) error {
	return e.submitPass("d3d10_clear_rtv", &hal.RenderPassDescriptor{
		Label: "d3d10_clear_rtv",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: c,
		}},
	})
}

// ClearDepthStencil clears the depth and/or stencil aspects of view. An
// aspect that is not cleared is loaded and stored unchanged.
func (e *HAL) ClearDepthStencil(view hal.TextureView, clearDepth, clearStencil bool, depth float32, stencil uint32) error {
	ds := &hal.RenderPassDepthStencilAttachment{
		View:              view,
		DepthLoadOp:       gputypes.LoadOpLoad,
		DepthStoreOp:      gputypes.StoreOpStore,
		DepthClearValue:   depth,
		StencilLoadOp:     gputypes.LoadOpLoad,
		StencilStoreOp:    gputypes.StoreOpStore,
		StencilClearValue: stencil,
	}
	if clearDepth {
		ds.DepthLoadOp = gputypes.LoadOpClear
	}
	if clearStencil {
		ds.StencilLoadOp = gputypes.LoadOpClear
	}
	return e.submitPass("d3d10_clear_dsv", &hal.RenderPassDescriptor{
		Label:                  "d3d10_clear_dsv",
		DepthStencilAttachment: ds,
	})
}

// submitPass records an empty render pass described by rp, submits it and
// waits on a fence.
func (e *HAL) submitPass(label string, rp *hal.RenderPassDescriptor) error {
	if e.queue == nil {
		return fmt.Errorf("engine: %s: no queue", label)
	}

	encoder, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("engine: %s: create encoder: %w", label, err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("engine: %s: begin encoding: %w", label, err)
	}

	pass := encoder.BeginRenderPass(rp)
	pass.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("engine: %s: end encoding: %w", label, err)
	}
	defer e.device.FreeCommandBuffer(cmdBuf)

	fence, err := e.device.CreateFence()
	if err != nil {
		return fmt.Errorf("engine: %s: create fence: %w", label, err)
	}
	defer e.device.DestroyFence(fence)

	if err := e.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("engine: %s: submit: %w", label, err)
	}
	ok, err := e.device.Wait(fence, 1, e.timeout)
	if err != nil {
		return fmt.Errorf("engine: %s: wait: %w", label, err)
	}
	if !ok {
		return fmt.Errorf("engine: %s: timed out after %v", label, e.timeout)
	}
	return nil
}

// Destroy releases the device if the engine owns it.
func (e *HAL) Destroy() {
	if e.owned && e.device != nil {
		e.device.Destroy()
	}
	e.device = nil
	e.queue = nil
}
