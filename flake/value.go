/*
 * Copyright 2018 The CovenantSQL Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package flake

import (
	"fmt"
	"time"
)

// Kind discriminates the closed set of literal kinds a flake's object may
// carry, plus the ref/tag case where the object is itself a subject id.
type Kind uint8

// Recognized value kinds. Kept as a small closed enum rather than
// interface{} switching so predicate-type coercion (the schema validator
// and the transactor's literal coercion step) can exhaustively switch on it.
const (
	KindNil Kind = iota
	KindString
	KindBoolean
	KindLong    // int64: covers int/long/instant-as-epoch-millis
	KindBigInt  // arbitrary precision integer, stored as decimal string
	KindFloat   // float32
	KindDouble  // float64
	KindBigDec  // arbitrary precision decimal, stored as decimal string
	KindInstant // time.Time
	KindBytes
	KindRef // subject id of a referenced entity (predicate type ref/tag)
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindLong:
		return "long"
	case KindBigInt:
		return "bigint"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindBigDec:
		return "bigdec"
	case KindInstant:
		return "instant"
	case KindBytes:
		return "bytes"
	case KindRef:
		return "ref"
	default:
		return "unknown"
	}
}

// Value is the polymorphic object of a flake.
type Value struct {
	kind   Kind
	str    string
	b      bool
	i      int64
	f32    float32
	f64    float64
	t      time.Time
	bytes  []byte
	ref    ID
}

// String builds a KindString value.
func String(v string) Value { return Value{kind: KindString, str: v} }

// Boolean builds a KindBoolean value.
func Boolean(v bool) Value { return Value{kind: KindBoolean, b: v} }

// Long builds a KindLong value.
func Long(v int64) Value { return Value{kind: KindLong, i: v} }

// BigInt builds a KindBigInt value from its decimal string form.
func BigInt(decimal string) Value { return Value{kind: KindBigInt, str: decimal} }

// Float builds a KindFloat value.
func Float(v float32) Value { return Value{kind: KindFloat, f32: v} }

// Double builds a KindDouble value.
func Double(v float64) Value { return Value{kind: KindDouble, f64: v} }

// BigDec builds a KindBigDec value from its decimal string form.
func BigDec(decimal string) Value { return Value{kind: KindBigDec, str: decimal} }

// Instant builds a KindInstant value.
func Instant(v time.Time) Value { return Value{kind: KindInstant, t: v.UTC()} }

// Bytes builds a KindBytes value.
func Bytes(v []byte) Value { return Value{kind: KindBytes, bytes: v} }

// Ref builds a KindRef value pointing at another subject.
func Ref(id ID) Value { return Value{kind: KindRef, ref: id} }

// Kind reports the value's discriminant.
func (v Value) Kind() Kind { return v.kind }

// AsString returns the string payload (valid for KindString/BigInt/BigDec).
func (v Value) AsString() string { return v.str }

// AsBool returns the boolean payload.
func (v Value) AsBool() bool { return v.b }

// AsLong returns the int64 payload.
func (v Value) AsLong() int64 { return v.i }

// AsFloat32 returns the float32 payload.
func (v Value) AsFloat32() float32 { return v.f32 }

// AsFloat64 returns the float64 payload.
func (v Value) AsFloat64() float64 { return v.f64 }

// AsTime returns the time.Time payload.
func (v Value) AsTime() time.Time { return v.t }

// AsBytes returns the []byte payload.
func (v Value) AsBytes() []byte { return v.bytes }

// AsRef returns the referenced subject id.
func (v Value) AsRef() ID { return v.ref }

// Less implements the object-component comparison used by post/opst
// ordering: same-kind values compare on payload, cross-kind values compare
// by kind discriminant so the order is still total.
func (v Value) Less(other Value) bool {
	if v.kind != other.kind {
		return v.kind < other.kind
	}
	switch v.kind {
	case KindString, KindBigInt, KindBigDec:
		return v.str < other.str
	case KindBoolean:
		return !v.b && other.b
	case KindLong:
		return v.i < other.i
	case KindFloat:
		return v.f32 < other.f32
	case KindDouble:
		return v.f64 < other.f64
	case KindInstant:
		return v.t.Before(other.t)
	case KindBytes:
		return string(v.bytes) < string(other.bytes)
	case KindRef:
		return v.ref.Less(other.ref)
	default:
		return false
	}
}

// Equal reports exact value equality (required for (s,p,o,t) uniqueness).
func (v Value) Equal(other Value) bool {
	return !v.Less(other) && !other.Less(v)
}

func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindString, KindBigInt, KindBigDec:
		return v.str
	case KindBoolean:
		return fmt.Sprintf("%t", v.b)
	case KindLong:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f32)
	case KindDouble:
		return fmt.Sprintf("%g", v.f64)
	case KindInstant:
		return v.t.Format(time.RFC3339Nano)
	case KindBytes:
		return fmt.Sprintf("%x", v.bytes)
	case KindRef:
		return v.ref.String()
	default:
		return "?"
	}
}
