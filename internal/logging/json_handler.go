package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// optionalFields are dropped from JSON lines when empty.
var optionalFields = map[string]struct{}{
	FieldProvider:      {},
	FieldOperation:     {},
	FieldCacheKey:      {},
	FieldCorrelationID: {},
	FieldFailureKind:   {},
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   addSource,
		ReplaceAttr: replaceJSONAttr,
	})
}

func replaceJSONAttr(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) == 0 {
		switch attr.Key {
		case slog.TimeKey:
			if attr.Value.Kind() == slog.KindTime {
				return slog.String("ts", attr.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			attr.Key = "ts"
			return attr
		case slog.LevelKey:
			return slog.String("level", strings.ToLower(attr.Value.String()))
		case slog.SourceKey:
			if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
				return slog.String("source", fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
			}
			return attr
		}
		if _, ok := optionalFields[attr.Key]; ok && attr.Value.Kind() == slog.KindString && strings.TrimSpace(attr.Value.String()) == "" {
			return slog.Attr{}
		}
	}

	switch attr.Value.Kind() {
	case slog.KindDuration:
		attr.Value = slog.StringValue(attr.Value.Duration().String())
	case slog.KindAny:
		switch v := attr.Value.Any().(type) {
		case error:
			attr.Value = slog.StringValue(v.Error())
		case fmt.Stringer:
			attr.Value = slog.StringValue(v.String())
		}
	}
	return attr
}
