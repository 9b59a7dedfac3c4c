// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package octet_test

import (
	"errors"
	"math"
	"testing"

	oc "code.hybscloud.com/octet"
)

func TestText_WriteReadStringRoundTrip(t *testing.T) {
	b := oc.NewBuffer()
	b.WriteString("héllo wörld")
	s, err := b.ReadString(b.Size())
	if err != nil || s != "héllo wörld" {
		t.Fatalf("ReadString = (%q, %v)", s, err)
	}
}

func TestText_ReadLine(t *testing.T) {
	b := oc.NewBuffer()
	b.WriteString("first\r\nsecond\nthird")
	line, err := b.ReadLine()
	if err != nil || line != "first" {
		t.Fatalf("ReadLine 1 = (%q, %v)", line, err)
	}
	line, err = b.ReadLine()
	if err != nil || line != "second" {
		t.Fatalf("ReadLine 2 = (%q, %v)", line, err)
	}
	line, err = b.ReadLine()
	if err != nil || line != "third" {
		t.Fatalf("ReadLine 3 (unterminated) = (%q, %v)", line, err)
	}
}

func TestText_ReadLineStrictFailsWithoutTerminator(t *testing.T) {
	b := oc.NewBuffer()
	b.WriteString("no terminator here")
	_, err := b.ReadLineStrict(5)
	var fe *oc.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *FormatError", err)
	}
}

func TestText_ReadCodePointValue(t *testing.T) {
	b := oc.NewBuffer()
	b.WriteString("€x")
	r, err := b.ReadCodePointValue()
	if err != nil || r != '€' {
		t.Fatalf("ReadCodePointValue = (%q, %v), want €", r, err)
	}
	r, err = b.ReadCodePointValue()
	if err != nil || r != 'x' {
		t.Fatalf("ReadCodePointValue 2 = (%q, %v), want x", r, err)
	}
}

func TestText_DecimalRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 1234567890, math.MinInt64, math.MaxInt64}
	for _, v := range cases {
		b := oc.NewBuffer()
		b.WriteDecimalLong(v)
		got, err := b.ReadDecimalLong()
		if err != nil || got != v {
			t.Fatalf("decimal round trip for %d: got (%d, %v)", v, got, err)
		}
	}
}

func TestText_DecimalOverflowFails(t *testing.T) {
	b := oc.NewBuffer()
	b.WriteString("99999999999999999999")
	if _, err := b.ReadDecimalLong(); err == nil {
		t.Fatalf("expected overflow error")
	}
}

func TestText_DecimalStopsAtNonDigit(t *testing.T) {
	b := oc.NewBuffer()
	b.WriteString("42abc")
	v, err := b.ReadDecimalLong()
	if err != nil || v != 42 {
		t.Fatalf("ReadDecimalLong = (%d, %v), want (42, nil)", v, err)
	}
	rest, _ := b.ReadString(b.Size())
	if rest != "abc" {
		t.Fatalf("remaining = %q, want abc", rest)
	}
}

func TestText_HexadecimalRoundTrip(t *testing.T) {
	b := oc.NewBuffer()
	b.WriteHexadecimalUnsignedLong(0xdeadbeef)
	v, err := b.ReadHexadecimalUnsignedLong()
	if err != nil || v != 0xdeadbeef {
		t.Fatalf("ReadHexadecimalUnsignedLong = (%#x, %v)", v, err)
	}
}

func TestText_HexadecimalOverflowFails(t *testing.T) {
	b := oc.NewBuffer()
	b.WriteString("123456789abcdef01") // 17 hex digits
	if _, err := b.ReadHexadecimalUnsignedLong(); err == nil {
		t.Fatalf("expected overflow on the 17th hex digit")
	}
}
