package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-static/pkg/interfaces"
)

func TestNewProviderAcceptsKnownFormats(t *testing.T) {
	for _, format := range []string{"", "json", "console", "pretty", " Pretty "} {
		p, err := NewProvider(Config{Level: "warning", Format: format})
		if err != nil {
			t.Fatalf("format %q: NewProvider returned error: %v", format, err)
		}
		if logger := p.GetLogger("static.generator"); logger == nil {
			t.Fatalf("format %q: expected logger, got nil", format)
		}
	}
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestGetLoggerEmptyNameReturnsRoot(t *testing.T) {
	p, err := NewProvider(Config{Format: "console"})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	logger := p.GetLogger("   ")
	if logger == nil {
		t.Fatal("expected root logger, got nil")
	}
	logger.Info("root logger resolved")
}

func TestAdapterRoutesLevelsAndClonesFields(t *testing.T) {
	rec := &recordingLogger{}
	logger := wrap(rec)

	logger.Trace("t")
	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")
	logger.Fatal("f")

	want := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if len(rec.levels) != len(want) {
		t.Fatalf("expected %d level calls, got %d", len(want), len(rec.levels))
	}
	for i, level := range want {
		if rec.levels[i] != level {
			t.Fatalf("call %d: expected %q, got %q", i, level, rec.levels[i])
		}
	}

	fields := map[string]any{"route": "/posts/hello/"}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		t.Fatal("expected wrapped logger to implement interfaces.FieldsLogger")
	}
	if child := fieldsLogger.WithFields(fields); child == nil {
		t.Fatal("expected WithFields to return logger")
	}
	fields["route"] = "/tags/go/"
	if got := rec.fields[0]["route"]; got != "/posts/hello/" {
		t.Fatalf("expected fields cloned before delegation, got %v", got)
	}

	ctx := context.Background()
	if child := logger.WithContext(ctx); child == nil {
		t.Fatal("expected WithContext to return logger")
	}
	if len(rec.contexts) != 1 || rec.contexts[0] != ctx {
		t.Fatalf("expected context forwarded once, got %#v", rec.contexts)
	}
}

type recordingLogger struct {
	levels   []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*recordingLogger)(nil)
var _ glog.FieldsLogger = (*recordingLogger)(nil)

func (r *recordingLogger) Trace(string, ...any) { r.levels = append(r.levels, "trace") }
func (r *recordingLogger) Debug(string, ...any) { r.levels = append(r.levels, "debug") }
func (r *recordingLogger) Info(string, ...any)  { r.levels = append(r.levels, "info") }
func (r *recordingLogger) Warn(string, ...any)  { r.levels = append(r.levels, "warn") }
func (r *recordingLogger) Error(string, ...any) { r.levels = append(r.levels, "error") }
func (r *recordingLogger) Fatal(string, ...any) { r.levels = append(r.levels, "fatal") }

func (r *recordingLogger) WithContext(ctx context.Context) glog.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

func (r *recordingLogger) WithFields(fields map[string]any) glog.Logger {
	r.fields = append(r.fields, fields)
	return r
}
