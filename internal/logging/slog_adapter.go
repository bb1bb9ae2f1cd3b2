// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package logging

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
)

// NewSlogLogger bridges slog-speaking dependencies onto the process
// logger. The supervisor tree is the one consumer: sutureslog wants a
// *slog.Logger, and this keeps its restart reports in the same JSON
// stream as the rest of Cinelog.
func NewSlogLogger() *slog.Logger {
	return slog.New(newSlogBridge(Logger()))
}

// slogBridge adapts a zerolog.Logger to the slog.Handler interface.
// Group names become dotted key prefixes, outermost group first.
type slogBridge struct {
	zl     zerolog.Logger
	attrs  []slog.Attr
	prefix string
}

func newSlogBridge(zl zerolog.Logger) *slogBridge {
	return &slogBridge{zl: zl}
}

func (b *slogBridge) Enabled(_ context.Context, level slog.Level) bool {
	switch {
	case level >= slog.LevelError:
		return b.zl.GetLevel() <= zerolog.ErrorLevel
	case level >= slog.LevelWarn:
		return b.zl.GetLevel() <= zerolog.WarnLevel
	case level >= slog.LevelInfo:
		return b.zl.GetLevel() <= zerolog.InfoLevel
	default:
		return b.zl.GetLevel() <= zerolog.DebugLevel
	}
}

//nolint:gocritic // slog.Record is passed by value per the Handler contract
func (b *slogBridge) Handle(_ context.Context, record slog.Record) error {
	var event *zerolog.Event
	switch {
	case record.Level >= slog.LevelError:
		event = b.zl.Error()
	case record.Level >= slog.LevelWarn:
		event = b.zl.Warn()
	case record.Level >= slog.LevelInfo:
		event = b.zl.Info()
	default:
		event = b.zl.Debug()
	}

	for _, attr := range b.attrs {
		event = appendAttr(event, b.prefix, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		event = appendAttr(event, b.prefix, attr)
		return true
	})

	event.Msg(record.Message)
	return nil
}

func (b *slogBridge) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *b
	next.attrs = make([]slog.Attr, 0, len(b.attrs)+len(attrs))
	next.attrs = append(next.attrs, b.attrs...)
	next.attrs = append(next.attrs, attrs...)
	return &next
}

func (b *slogBridge) WithGroup(name string) slog.Handler {
	if name == "" {
		return b
	}
	next := *b
	next.prefix = b.prefix + name + "."
	return &next
}

// appendAttr writes one slog attribute onto a zerolog event under the
// prefixed key, recursing into group values.
func appendAttr(event *zerolog.Event, prefix string, attr slog.Attr) *zerolog.Event {
	if attr.Value.Kind() == slog.KindGroup {
		inner := prefix
		if attr.Key != "" {
			inner += attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			event = appendAttr(event, inner, member)
		}
		return event
	}

	key := prefix + attr.Key
	switch attr.Value.Kind() {
	case slog.KindString:
		return event.Str(key, attr.Value.String())
	case slog.KindBool:
		return event.Bool(key, attr.Value.Bool())
	case slog.KindInt64:
		return event.Int64(key, attr.Value.Int64())
	case slog.KindUint64:
		return event.Uint64(key, attr.Value.Uint64())
	case slog.KindFloat64:
		return event.Float64(key, attr.Value.Float64())
	case slog.KindDuration:
		return event.Dur(key, attr.Value.Duration())
	case slog.KindTime:
		return event.Time(key, attr.Value.Time())
	default:
		return event.Interface(key, attr.Value.Any())
	}
}
