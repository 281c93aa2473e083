// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import (
	"errors"
	"slices"
	"testing"
)

func TestClearRenderTargetView(t *testing.T) {
	d, rec := newTestDevice(t)
	defer d.Release()

	tex := mustTexture2D(t, d, renderTargetDesc(8, 8))
	defer tex.Release()
	rtv, err := d.CreateRenderTargetView(tex, nil)
	if err != nil {
		t.Fatalf("CreateRenderTargetView failed: %v", err)
	}
	defer rtv.Release()

	if err := d.ClearRenderTargetView(rtv, [4]float32{0.5, 0.25, 0, 1}); err != nil {
		t.Fatalf("ClearRenderTargetView failed: %v", err)
	}
	if len(rec.colors) != 1 {
		t.Fatalf("%d clears recorded, want 1", len(rec.colors))
	}
	c := rec.colors[0]
	if c.R != 0.5 || c.G != 0.25 || c.B != 0 || c.A != 1 {
		t.Errorf("clear color = %+v", c)
	}

	if err := d.ClearRenderTargetView(nil, [4]float32{}); !errors.Is(err, ErrInvalidArg) {
		t.Errorf("nil view error = %v, want ErrInvalidArg", err)
	}
	if err := d.ClearDepthStencilView(nil, ClearDepth, 1, 0); !errors.Is(err, ErrInvalidArg) {
		t.Errorf("nil depth view error = %v, want ErrInvalidArg", err)
	}

	buf, err := d.CreateBuffer(vertexBufferDesc(), nil)
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}
	defer buf.Release()
	bufView, err := d.CreateRenderTargetView(buf, nil)
	if err != nil {
		t.Fatalf("CreateRenderTargetView(buffer) failed: %v", err)
	}
	defer bufView.Release()
	if err := d.ClearRenderTargetView(bufView, [4]float32{}); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("buffer view clear error = %v, want ErrNotImplemented", err)
	}
}

func TestUpdateSubresource(t *testing.T) {
	d, rec := newTestDevice(t)
	defer d.Release()

	buf, err := d.CreateBuffer(&BufferDesc{ByteWidth: 64, BindFlags: BindConstantBuffer}, nil)
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}
	defer buf.Release()

	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i)
	}
	if err := d.UpdateSubresource(buf, 0, nil, data, 0, 0); err != nil {
		t.Fatalf("UpdateSubresource failed: %v", err)
	}
	if err := d.UpdateSubresource(buf, 0, &Box{Left: 16, Right: 24}, data, 0, 0); err != nil {
		t.Fatalf("UpdateSubresource with box failed: %v", err)
	}
	if err := d.UpdateSubresource(buf, 0, &Box{Left: 8, Right: 8}, data, 0, 0); err != nil {
		t.Fatalf("UpdateSubresource with empty box failed: %v", err)
	}

	want := []string{"WriteBuffer@0", "WriteBuffer@16"}
	if got := rec.recorded(); !slices.Equal(got, want) {
		t.Errorf("engine calls = %v, want %v", got, want)
	}
	if len(rec.writes) == 2 && !slices.Equal(rec.writes[1], data[:8]) {
		t.Errorf("boxed write = %v, want %v", rec.writes[1], data[:8])
	}

	tests := []struct {
		name string
		sub  uint32
		box  *Box
		data []byte
	}{
		{"subresource", 1, nil, data},
		{"box past the end", 0, &Box{Left: 0, Right: 65}, data},
		{"inverted box", 0, &Box{Left: 9, Right: 8}, data},
		{"short data", 0, nil, data[:10]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := d.UpdateSubresource(buf, tt.sub, tt.box, tt.data, 0, 0); !errors.Is(err, ErrInvalidArg) {
				t.Errorf("UpdateSubresource error = %v, want ErrInvalidArg", err)
			}
		})
	}

	tex := mustTexture2D(t, d, renderTargetDesc(4, 4))
	defer tex.Release()
	if err := d.UpdateSubresource(tex, 0, nil, data, 16, 0); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("texture update error = %v, want ErrNotImplemented", err)
	}
	if err := d.UpdateSubresource(nil, 0, nil, data, 0, 0); !errors.Is(err, ErrInvalidArg) {
		t.Errorf("nil resource error = %v, want ErrInvalidArg", err)
	}

	immutable, err := d.CreateBuffer(&BufferDesc{ByteWidth: 16, Usage: UsageImmutable, BindFlags: BindVertexBuffer},
		&SubresourceData{Data: data[:16]})
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}
	defer immutable.Release()
	if err := d.UpdateSubresource(immutable, 0, nil, data, 0, 0); !errors.Is(err, ErrInvalidArg) {
		t.Errorf("immutable update error = %v, want ErrInvalidArg", err)
	}
}
