package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("uploaded") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("request") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("request") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Resolved 3 tags")

	if !strings.Contains(buf.String(), "Resolved 3 tags (") {
		t.Errorf("progress.done() output = %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext should fall back to log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), custom)) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := &logHooks{logger: newLogger(&buf, log.DebugLevel)}
	ctx := context.Background()

	h.OnRequest(ctx, "GET", "www.crifan.org", "/wp-json/wp/v2/tags")
	h.OnResponse(ctx, "GET", "www.crifan.org", "/wp-json/wp/v2/tags", 200, 12*time.Millisecond)
	h.OnError(ctx, "GET", "www.crifan.org", "/wp-json/wp/v2/tags", errors.New("connection refused"))
	h.OnResolved(ctx, "post_tag", "GPU", 13224, true)
	h.OnFailed(ctx, "category", "Mac", errors.New("status 500"))

	out := buf.String()
	for _, want := range []string{"request", "status=200", "connection refused", "id=13224", "created=true", "resolution failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
