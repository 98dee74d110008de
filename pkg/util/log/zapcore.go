// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package log

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cihub/seelog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// extraContext holds the rendered context segments of the log line currently
// being written through the zap bridge. seelog custom formatters are global,
// so writes carrying context are serialized.
var (
	extraContext     []string
	extraContextLock sync.Mutex
)

func createExtraTextContext(string) seelog.FormatterFunc {
	return func(_ string, _ seelog.LogLevel, _ seelog.LogContextInterface) interface{} {
		if len(extraContext) == 0 {
			return ""
		}
		return strings.Join(extraContext, " | ") + " | "
	}
}

func init() {
	seelog.RegisterCustomFormatter("ExtraTextContext", createExtraTextContext) //nolint:errcheck
}

// NewZapLogger returns a zap logger routed into the statedb logger, for the
// benefit of libraries that speak zap. fx event logging goes through this.
func NewZapLogger() *zap.Logger {
	return zap.New(&zapCore{enc: &encoder{}}, zap.AddCaller())
}

type zapCore struct {
	enc *encoder
}

var _ zapcore.Core = (*zapCore)(nil)

func zapToSeelogLevel(lvl zapcore.Level) seelog.LogLevel {
	switch lvl {
	case zapcore.DebugLevel:
		return seelog.DebugLvl
	case zapcore.InfoLevel:
		return seelog.InfoLvl
	case zapcore.WarnLevel:
		return seelog.WarnLvl
	case zapcore.ErrorLevel:
		return seelog.ErrorLvl
	default:
		return seelog.CriticalLvl
	}
}

func (c *zapCore) Enabled(lvl zapcore.Level) bool {
	level, err := GetLogLevel()
	if err != nil {
		return true
	}
	return zapToSeelogLevel(lvl) >= level
}

func (c *zapCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &zapCore{enc: c.enc.Clone()}
	for _, field := range fields {
		field.AddTo(clone.enc)
	}
	return clone
}

func (c *zapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *zapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := c.enc.Clone()
	for _, field := range fields {
		field.AddTo(enc)
	}

	var segments []string
	if rendered := enc.render(); rendered != "" {
		segments = append(segments, rendered)
	}
	if ent.Caller.Defined {
		segments = append(segments, "("+ent.Caller.TrimmedPath()+")")
	}

	extraContextLock.Lock()
	extraContext = segments
	defer func() {
		extraContext = nil
		extraContextLock.Unlock()
	}()

	switch ent.Level {
	case zapcore.DebugLevel:
		Debug(ent.Message)
	case zapcore.InfoLevel:
		Info(ent.Message)
	case zapcore.WarnLevel:
		Warn(ent.Message) //nolint:errcheck
	case zapcore.ErrorLevel:
		Error(ent.Message) //nolint:errcheck
	default:
		Critical(ent.Message) //nolint:errcheck
	}
	return nil
}

func (c *zapCore) Sync() error {
	Flush()
	return nil
}

var _ zapcore.ObjectEncoder = (*encoder)(nil)

// encoder accumulates zap fields as alternating key/value pairs.
type encoder struct {
	prefix string
	ctx    []interface{}
}

func (e *encoder) Clone() *encoder {
	var ctx []interface{}
	if e.ctx != nil {
		ctx = make([]interface{}, len(e.ctx))
		copy(ctx, e.ctx)
	}
	return &encoder{prefix: e.prefix, ctx: ctx}
}

func (e *encoder) render() string {
	if len(e.ctx) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i+1 < len(e.ctx); i += 2 {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v:%v", e.ctx[i], e.ctx[i+1])
	}
	return b.String()
}

func (e *encoder) add(k string, v interface{}) {
	e.ctx = append(e.ctx, e.prefix+k, v)
}

// OpenNamespace prefixes every key added afterwards
func (e *encoder) OpenNamespace(ns string) {
	e.prefix = e.prefix + ns + "/"
}

func (e *encoder) AddArray(k string, v zapcore.ArrayMarshaler) error {
	arr := &sliceArrayEncoder{}
	err := v.MarshalLogArray(arr)
	e.add(k, arr.elems)
	return err
}

func (e *encoder) AddObject(_ string, v zapcore.ObjectMarshaler) error {
	return v.MarshalLogObject(e)
}

func (e *encoder) AddReflected(k string, v interface{}) error {
	e.add(k, v)
	return nil
}

func (e *encoder) AddBinary(k string, v []byte)          { e.add(k, v) }
func (e *encoder) AddByteString(k string, v []byte)      { e.add(k, string(v)) }
func (e *encoder) AddBool(k string, v bool)              { e.add(k, v) }
func (e *encoder) AddDuration(k string, v time.Duration) { e.add(k, v) }
func (e *encoder) AddComplex128(k string, v complex128)  { e.add(k, v) }
func (e *encoder) AddComplex64(k string, v complex64)    { e.add(k, v) }
func (e *encoder) AddFloat64(k string, v float64)        { e.add(k, v) }
func (e *encoder) AddFloat32(k string, v float32)        { e.add(k, v) }
func (e *encoder) AddInt(k string, v int)                { e.add(k, v) }
func (e *encoder) AddInt64(k string, v int64)            { e.add(k, v) }
func (e *encoder) AddInt32(k string, v int32)            { e.add(k, v) }
func (e *encoder) AddInt16(k string, v int16)            { e.add(k, v) }
func (e *encoder) AddInt8(k string, v int8)              { e.add(k, v) }
func (e *encoder) AddString(k string, v string)          { e.add(k, v) }
func (e *encoder) AddTime(k string, v time.Time)         { e.add(k, v) }
func (e *encoder) AddUint(k string, v uint)              { e.add(k, v) }
func (e *encoder) AddUint64(k string, v uint64)          { e.add(k, v) }
func (e *encoder) AddUint32(k string, v uint32)          { e.add(k, v) }
func (e *encoder) AddUint16(k string, v uint16)          { e.add(k, v) }
func (e *encoder) AddUint8(k string, v uint8)            { e.add(k, v) }
func (e *encoder) AddUintptr(k string, v uintptr)        { e.add(k, v) }

var _ zapcore.ArrayEncoder = (*sliceArrayEncoder)(nil)

// sliceArrayEncoder collects array elements, mirroring zapcore's in-memory
// encoder.
type sliceArrayEncoder struct {
	elems []interface{}
}

func (s *sliceArrayEncoder) AppendArray(v zapcore.ArrayMarshaler) error {
	enc := &sliceArrayEncoder{}
	err := v.MarshalLogArray(enc)
	s.elems = append(s.elems, enc.elems)
	return err
}

func (s *sliceArrayEncoder) AppendObject(v zapcore.ObjectMarshaler) error {
	m := &encoder{}
	err := v.MarshalLogObject(m)
	s.elems = append(s.elems, m.ctx)
	return err
}

func (s *sliceArrayEncoder) AppendReflected(v interface{}) error {
	s.elems = append(s.elems, v)
	return nil
}

func (s *sliceArrayEncoder) AppendBool(v bool)              { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendByteString(v []byte)      { s.elems = append(s.elems, string(v)) }
func (s *sliceArrayEncoder) AppendComplex128(v complex128)  { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendComplex64(v complex64)    { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendDuration(v time.Duration) { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendFloat64(v float64)        { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendFloat32(v float32)        { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendInt(v int)                { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendInt64(v int64)            { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendInt32(v int32)            { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendInt16(v int16)            { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendInt8(v int8)              { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendString(v string)          { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendTime(v time.Time)         { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendUint(v uint)              { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendUint64(v uint64)          { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendUint32(v uint32)          { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendUint16(v uint16)          { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendUint8(v uint8)            { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendUintptr(v uintptr)        { s.elems = append(s.elems, v) }
