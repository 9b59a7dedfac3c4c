// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package charset supplements octet's UTF-8-only text codec with a
// name-indexed registry of non-UTF-8 encodings, backed by
// golang.org/x/text/encoding. spec.md §1 calls text-encoding support
// beyond UTF-8 optional; this registry is the octet answer to that option.
package charset

import (
	"fmt"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"code.hybscloud.com/octet"
)

// UnknownCharsetError reports a lookup against a name not present in the
// registry.
type UnknownCharsetError struct {
	Name string
}

func (e *UnknownCharsetError) Error() string {
	return fmt.Sprintf("octet/charset: unknown charset %q", e.Name)
}

// Registry is a name-indexed lookup of text encodings. The zero value is
// not usable; construct with NewRegistry.
type Registry struct {
	mu    sync.RWMutex
	byName map[string]encoding.Encoding
}

// NewRegistry returns a Registry pre-populated with UTF-8 plus the common
// encodings this package links against: ISO-8859-1, Shift_JIS, UTF-16BE,
// and UTF-16LE.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]encoding.Encoding, 8)}
	r.Register("UTF-8", encoding.Nop)
	r.Register("ISO-8859-1", charmap.ISO8859_1)
	r.Register("Shift_JIS", japanese.ShiftJIS)
	r.Register("UTF-16BE", unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM))
	r.Register("UTF-16LE", unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM))
	return r
}

// Register adds or replaces the encoding bound to name.
func (r *Registry) Register(name string, enc encoding.Encoding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[name] = enc
}

// Lookup returns the encoding bound to name, or an *UnknownCharsetError.
func (r *Registry) Lookup(name string) (encoding.Encoding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	enc, ok := r.byName[name]
	if !ok {
		return nil, &UnknownCharsetError{Name: name}
	}
	return enc, nil
}

// Decode transcodes raw bytes in the named charset into a UTF-8 string.
func (r *Registry) Decode(name string, raw []byte) (string, error) {
	enc, err := r.Lookup(name)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Encode transcodes a UTF-8 string into raw bytes of the named charset and
// appends them to dst.
func (r *Registry) Encode(name string, s string, dst *octet.Buffer) error {
	enc, err := r.Lookup(name)
	if err != nil {
		return err
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return err
	}
	_, werr := dst.Write(out)
	return werr
}

// Default is a process-wide registry pre-populated the same way NewRegistry
// returns. Callers that need a custom or isolated set of encodings should
// construct their own Registry instead.
var Default = NewRegistry()
