// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package charset_test

import (
	"testing"

	"code.hybscloud.com/octet"
	"code.hybscloud.com/octet/charset"
)

func TestRegistry_UTF8RoundTrip(t *testing.T) {
	r := charset.NewRegistry()
	dst := octet.NewBuffer()
	if err := r.Encode("UTF-8", "héllo", dst); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	raw := make([]byte, dst.Size())
	_, _ = dst.Read(raw)
	got, err := r.Decode("UTF-8", raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "héllo" {
		t.Fatalf("got %q, want héllo", got)
	}
}

func TestRegistry_ISO88591RoundTrip(t *testing.T) {
	r := charset.NewRegistry()
	dst := octet.NewBuffer()
	if err := r.Encode("ISO-8859-1", "café", dst); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if dst.Size() != 4 {
		t.Fatalf("encoded size = %d, want 4 (one byte per rune in Latin-1)", dst.Size())
	}
	raw := make([]byte, dst.Size())
	_, _ = dst.Read(raw)
	got, err := r.Decode("ISO-8859-1", raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "café" {
		t.Fatalf("got %q, want café", got)
	}
}

func TestRegistry_UTF16RoundTrip(t *testing.T) {
	r := charset.NewRegistry()
	dst := octet.NewBuffer()
	if err := r.Encode("UTF-16BE", "hi", dst); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if dst.Size() != 4 {
		t.Fatalf("encoded size = %d, want 4", dst.Size())
	}
	raw := make([]byte, dst.Size())
	_, _ = dst.Read(raw)
	got, err := r.Decode("UTF-16BE", raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "hi" {
		t.Fatalf("got %q, want hi", got)
	}
}

func TestRegistry_UnknownCharsetFails(t *testing.T) {
	r := charset.NewRegistry()
	_, err := r.Lookup("EBCDIC")
	var unknown *charset.UnknownCharsetError
	if err == nil {
		t.Fatalf("expected an error for an unregistered charset")
	}
	if uerr, ok := err.(*charset.UnknownCharsetError); !ok {
		t.Fatalf("err type = %T, want *charset.UnknownCharsetError", err)
	} else {
		unknown = uerr
	}
	if unknown.Name != "EBCDIC" {
		t.Fatalf("Name = %q, want EBCDIC", unknown.Name)
	}
}

func TestRegistry_RegisterOverridesEntry(t *testing.T) {
	r := charset.NewRegistry()
	r.Register("UTF-8", nil)
	enc, err := r.Lookup("UTF-8")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if enc != nil {
		t.Fatalf("expected the override to take effect")
	}
}

func TestDefaultRegistry_IsUsable(t *testing.T) {
	dst := octet.NewBuffer()
	if err := charset.Default.Encode("UTF-8", "ok", dst); err != nil {
		t.Fatalf("Encode via Default: %v", err)
	}
}
