// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"bytes"
	"reflect"
	"sync"
	"unsafe"
)

// Record is a fixed-size, fixed-layout type that can be stored in an account
// buffer. The on-buffer layout is [Discriminator()] followed by the in-memory
// bytes of the record.
//
// Discriminator must be implemented on a value receiver and must return the
// same bytes for every value of the type.
type Record interface {
	Discriminator() []byte
}

// plainData caches whether a reflect.Type may be cast from raw bytes.
var plainData sync.Map

// IsPlainData reports whether every bit pattern of T is a valid T and T
// holds no references the garbage collector must trace.
func IsPlainData[T any]() bool {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if v, ok := plainData.Load(t); ok {
		return v.(bool)
	}
	ok := isPlainData(t)
	plainData.Store(t, ok)
	return ok
}

func isPlainData(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return isPlainData(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !isPlainData(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		// bool is excluded because only 0 and 1 are valid bit patterns.
		return false
	}
}

// DiscriminatorOf returns the discriminator of T.
func DiscriminatorOf[T Record]() []byte {
	var zero T
	return zero.Discriminator()
}

// Size returns the in-memory size of T.
func Size[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Space returns the number of buffer bytes required to hold a T with its
// discriminator.
func Space[T Record]() int {
	return len(DiscriminatorOf[T]()) + Size[T]()
}

// HasDiscriminator reports whether data starts with the discriminator of T.
func HasDiscriminator[T Record](data []byte) bool {
	disc := DiscriminatorOf[T]()
	return len(data) >= len(disc) && bytes.Equal(data[:len(disc)], disc)
}

// Read returns a view of the T stored after the discriminator prefix of data.
// The returned pointer aliases data. Read returns false if data is too short,
// the record bytes are not aligned for T, or T is not plain data.
//
// The value of the discriminator is not checked.
func Read[T Record](data []byte) (*T, bool) {
	return cast[T](data)
}

// ReadMut is [Read] for callers holding exclusive access to data. Writes
// through the returned pointer land directly in data.
func ReadMut[T Record](data []byte) (*T, bool) {
	return cast[T](data)
}

func cast[T Record](data []byte) (*T, bool) {
	if !IsPlainData[T]() {
		return nil, false
	}
	var zero T
	offset := len(zero.Discriminator())
	size := int(unsafe.Sizeof(zero))
	if len(data) < offset+size {
		return nil, false
	}
	if size == 0 {
		return new(T), true
	}
	p := unsafe.Pointer(&data[offset])
	if uintptr(p)%unsafe.Alignof(zero) != 0 {
		return nil, false
	}
	return (*T)(p), true
}

// WriteLayout writes the discriminator of T followed by the bytes of v to the
// start of data.
func WriteLayout[T Record](data []byte, v *T) error {
	if !IsPlainData[T]() {
		return ErrNotPlainData
	}
	disc := (*v).Discriminator()
	size := Size[T]()
	if len(data) < len(disc)+size {
		return ErrInsufficientLength
	}
	copy(data, disc)
	if size > 0 {
		copy(data[len(disc):], unsafe.Slice((*byte)(unsafe.Pointer(v)), size))
	}
	return nil
}

// Decode copies the T stored after the discriminator prefix of data. Unlike
// [Read] it has no alignment requirement.
func Decode[T Record](data []byte) (T, error) {
	var v T
	if !IsPlainData[T]() {
		return v, ErrNotPlainData
	}
	offset := len(v.Discriminator())
	size := Size[T]()
	if len(data) < offset+size {
		return v, ErrInsufficientLength
	}
	if size > 0 {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&v)), size), data[offset:offset+size])
	}
	return v, nil
}
