package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// errorDetailHandler expands the "error" attribute of a record. It adds the
// cockroachdb/errors stack trace and, when an error in the chain implements
// zerolog.LogObjectMarshaler, its fields as an "error_detail" group. That
// puts the method and condition number of a factorisation failure into the
// same JSON record as the message.
type errorDetailHandler struct {
	next slog.Handler
}

// WithErrorDetail wraps next so that records carrying an ErrAttr also carry
// the error's stack trace and structured fields.
func WithErrorDetail(next slog.Handler) slog.Handler {
	return &errorDetailHandler{next: next}
}

func (h *errorDetailHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *errorDetailHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		err, _ = attr.Value.Any().(error)
		return false
	})
	if err == nil {
		return h.next.Handle(ctx, r)
	}

	if details := errors.GetSafeDetails(err).SafeDetails; len(details) > 0 && details[0] != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, details[0]))
	}
	if fields := marshalerFields(err); len(fields) > 0 {
		r.AddAttrs(slog.Group(ErrDetailAttrKey, fields...))
	}
	return h.next.Handle(ctx, r)
}

func (h *errorDetailHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &errorDetailHandler{next: h.next.WithAttrs(attrs)}
}

func (h *errorDetailHandler) WithGroup(name string) slog.Handler {
	return &errorDetailHandler{next: h.next.WithGroup(name)}
}

// marshalerFields renders the first zerolog.LogObjectMarshaler in err's
// causal chain and returns its fields as slog attributes sorted by key.
func marshalerFields(err error) []any {
	found, ok := errors.If(err, func(e error) (interface{}, bool) {
		m, ok := e.(zerolog.LogObjectMarshaler)
		return m, ok
	})
	if !ok {
		return nil
	}

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Log().EmbedObject(found.(zerolog.LogObjectMarshaler)).Send()

	var decoded map[string]any
	if json.Unmarshal(buf.Bytes(), &decoded) != nil {
		return nil
	}
	keys := make([]string, 0, len(decoded))
	for k := range decoded {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]any, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, slog.Any(k, decoded[k]))
	}
	return fields
}
