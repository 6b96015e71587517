package log

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	reqcontext "github.com/tripstack/tripsearch/context"
)

func TestFormatterStableFieldOrder(t *testing.T) {
	f := &TextFormatter{TimestampFormat: "2006-01-02 15:04:05"}
	entry := &logrus.Entry{
		Logger:  Logger,
		Time:    time.Date(2025, 11, 20, 8, 15, 0, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "upstream call",
		Data:    logrus.Fields{"c": 3, "a": 1, "b": 2},
	}

	first, err := f.Format(entry)
	require.NoError(t, err)
	assert.Contains(t, string(first), "a=1 b=2 c=3")

	// Same entry, same bytes, every time
	for i := 0; i < 10; i++ {
		out, err := f.Format(entry)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(out))
	}
}

func TestRequestIDInOutput(t *testing.T) {
	Init()
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	ctx := reqcontext.WithRequestID(context.Background(), "req-123")
	Infof(ctx, "hello %s", "world")

	assert.Contains(t, buf.String(), "hello world")
	assert.Contains(t, buf.String(), "[req:req-123]")
}
