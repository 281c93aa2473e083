// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dxbc

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSignature() Signature {
	return Signature{
		{Name: []byte("POSITION"), SemanticIndex: 0, SystemValue: SystemValueUndefined, ComponentType: ComponentTypeFloat32, Register: 0, Mask: 0x0f0f},
		{Name: []byte("TEXCOORD"), SemanticIndex: 1, SystemValue: SystemValueUndefined, ComponentType: ComponentTypeFloat32, Register: 1, Mask: 0x0303},
		{Name: []byte("SV_VertexID"), SemanticIndex: 0, SystemValue: SystemValueVertexID, ComponentType: ComponentTypeUint32, Register: 2, Mask: 0x0101},
	}
}

func TestSignatureRoundTrip(t *testing.T) {
	for n := 0; n <= 3; n++ {
		t.Run(fmt.Sprintf("%d elements", n), func(t *testing.T) {
			in := sampleSignature()[:n]
			out, err := ParseSignature(EncodeSignature(in))
			require.NoError(t, err)
			require.NotNil(t, out, "an empty signature is still a valid table")
			require.Len(t, out, n)
			for i := range in {
				assert.Equal(t, string(in[i].Name), out[i].SemanticName())
				assert.Equal(t, in[i].SemanticIndex, out[i].SemanticIndex)
				assert.Equal(t, in[i].SystemValue, out[i].SystemValue)
				assert.Equal(t, in[i].ComponentType, out[i].ComponentType)
				assert.Equal(t, in[i].Register, out[i].Register)
				assert.Equal(t, in[i].Mask, out[i].Mask)
			}
		})
	}
}

func TestSignatureNamesAliasPayload(t *testing.T) {
	payload := EncodeSignature(sampleSignature()[:1])
	sig, err := ParseSignature(payload)
	require.NoError(t, err)

	off := binary.LittleEndian.Uint32(payload[signatureHeaderSize:])
	payload[off] = 'p'
	assert.Equal(t, "pOSITION", sig[0].SemanticName(), "names are views into the payload")

	clone := sig.Clone()
	payload[off] = 'X'
	assert.Equal(t, "pOSITION", clone[0].SemanticName(), "clones are detached")
}

func TestSignatureMasks(t *testing.T) {
	e := Element{Mask: 0x0307}
	assert.Equal(t, uint8(0x07), e.ComponentMask())
	assert.Equal(t, uint8(0x03), e.ReadWriteMask())
}

func TestSignatureFind(t *testing.T) {
	sig := sampleSignature()
	e, ok := sig.Find("texcoord", 1)
	require.True(t, ok)
	assert.Equal(t, uint32(1), e.Register)

	_, ok = sig.Find("TEXCOORD", 0)
	assert.False(t, ok)
}

func TestParseSignatureTruncated(t *testing.T) {
	good := EncodeSignature(sampleSignature())

	tests := []struct {
		name    string
		payload func() []byte
	}{
		{"short header", func() []byte { return good[:4] }},
		{"count past end", func() []byte {
			b := append([]byte(nil), good...)
			binary.LittleEndian.PutUint32(b, 1000)
			return b
		}},
		{"name offset past end", func() []byte {
			b := append([]byte(nil), good...)
			binary.LittleEndian.PutUint32(b[signatureHeaderSize:], uint32(len(b)+10))
			return b
		}},
		{"unterminated name", func() []byte {
			b := append([]byte(nil), good...)
			for i := signatureHeaderSize + 3*elementSize; i < len(b); i++ {
				b[i] = 'A'
			}
			return b
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := ParseSignature(tt.payload())
			assert.ErrorIs(t, err, ErrTruncated)
			assert.Nil(t, sig)
		})
	}
}

func TestSystemValueString(t *testing.T) {
	assert.Equal(t, "POS", SystemValuePosition.String())
	assert.Equal(t, "TARGET", SystemValueTarget.String())
	assert.Equal(t, "SystemValue(99)", SystemValue(99).String())
	assert.Equal(t, "float", ComponentTypeFloat32.String())
}
