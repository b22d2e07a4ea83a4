package notify

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleNotify(t *testing.T) {
	tests := []struct {
		name      string
		useEmojis bool
		message   string
		want      string
	}{
		{
			name:    "single line",
			message: "start cleaning up 2 files",
			want:    "start cleaning up 2 files\n",
		},
		{
			name:      "with emoji",
			useEmojis: true,
			message:   "api.md cleaned up",
			want:      "🍅 api.md cleaned up\n",
		},
		{
			name:    "multi line",
			message: "Report finished\n2024-03-10\nhours per tomato: 0.5\n{\"a\":1}",
			want:    "Report finished\n   2024-03-10\n   hours per tomato: 0.5\n   {\"a\":1}\n",
		},
		{
			name:    "trailing newline",
			message: "done\n",
			want:    "done\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewConsole(&buf, tt.useEmojis, false).Notify(tt.message)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestConsoleFailureAndWarning(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, true, false)
	c.Failure(errors.New("boom"))
	c.Warning("skipped a.md")
	assert.Equal(t, "❌ Failed: boom\n⚠️  skipped a.md\n", buf.String())
}

func TestConsoleConcurrentLines(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false, false)

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() { c.Notify("a\nb") })
	}
	wg.Wait()

	// Each notice stays in one piece
	assert.Equal(t, 50, bytes.Count(buf.Bytes(), []byte("a\n   b\n")))
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	rec.Notify("one")
	rec.Notify("two")

	msgs := rec.Messages()
	assert.Equal(t, []string{"one", "two"}, msgs)
	msgs[0] = "changed"
	assert.Equal(t, "one", rec.Messages()[0], "Messages returns a copy")
}
