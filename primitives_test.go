// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package octet_test

import (
	"io"
	"math"
	"testing"

	oc "code.hybscloud.com/octet"
)

func TestPrimitives_ShortRoundTrip(t *testing.T) {
	b := oc.NewBuffer()
	b.WriteShort(-1234)
	v, err := b.ReadShort()
	if err != nil || v != -1234 {
		t.Fatalf("ReadShort = (%d, %v), want (-1234, nil)", v, err)
	}
}

func TestPrimitives_IntBigEndianBytes(t *testing.T) {
	b := oc.NewBuffer()
	b.WriteInt(0x01020304)
	raw := make([]byte, 4)
	_, _ = io.ReadFull(b, raw)
	want := []byte{0x01, 0x02, 0x03, 0x04}
	for i := range want {
		if raw[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, raw[i], want[i])
		}
	}
}

func TestPrimitives_IntLittleEndianBytes(t *testing.T) {
	b := oc.NewBuffer()
	b.WriteIntLe(0x01020304)
	raw := make([]byte, 4)
	_, _ = io.ReadFull(b, raw)
	want := []byte{0x04, 0x03, 0x02, 0x01}
	for i := range want {
		if raw[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, raw[i], want[i])
		}
	}
}

func TestPrimitives_LongRoundTrip(t *testing.T) {
	b := oc.NewBuffer()
	b.WriteLong(math.MinInt64)
	v, err := b.ReadLong()
	if err != nil || v != math.MinInt64 {
		t.Fatalf("ReadLong = (%d, %v), want (MinInt64, nil)", v, err)
	}
}

func TestPrimitives_FloatBitExactNaN(t *testing.T) {
	b := oc.NewBuffer()
	nan := math.Float32frombits(0x7fc00001)
	b.WriteFloat(nan)
	v, err := b.ReadFloat()
	if err != nil {
		t.Fatalf("ReadFloat: %v", err)
	}
	if math.Float32bits(v) != math.Float32bits(nan) {
		t.Fatalf("NaN bit pattern did not round-trip exactly")
	}
}

func TestPrimitives_DoubleRoundTrip(t *testing.T) {
	b := oc.NewBuffer()
	b.WriteDouble(3.14159265358979)
	v, err := b.ReadDouble()
	if err != nil || v != 3.14159265358979 {
		t.Fatalf("ReadDouble = (%v, %v)", v, err)
	}
}

func TestPrimitives_ReadAcrossSegmentBoundary(t *testing.T) {
	b := oc.NewBuffer()
	// Leave exactly 4 bytes of room in the first 8192-byte segment so the
	// 8 bytes written below straddle into a second segment and ReadLong has
	// to assemble the value across the boundary.
	filler := make([]byte, 8188)
	_, _ = b.Write(filler)
	_, _ = b.Write([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})

	if err := b.Skip(8188); err != nil {
		t.Fatalf("Skip filler: %v", err)
	}
	v, err := b.ReadLong()
	if err != nil || v != 0x0102030405060708 {
		t.Fatalf("ReadLong across boundary = (%#x, %v)", v, err)
	}
}

func TestPrimitives_ReadShortOnEmptyFailsWithEOF(t *testing.T) {
	b := oc.NewBuffer()
	if _, err := b.ReadShort(); err != io.EOF {
		t.Fatalf("err = %v, want io.EOF", err)
	}
}
