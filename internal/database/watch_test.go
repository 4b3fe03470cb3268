package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcher_ReportsExternalChangesOnly(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := newTestStore(t)
	ctx := context.Background()

	changes := make(chan Document, 8)
	w := NewWatcher(s, zerolog.Nop(), func(d Document) { changes <- d })
	w.debounce = 20 * time.Millisecond
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, s.Save(ctx, ContentDocument, []byte(`{"users":[]}`)))
	select {
	case d := <-changes:
		t.Fatalf("own write reported as external change: %s", d)
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(s.Path(ExposureDocument), []byte(`{"m1":4}`), 0o644))
	select {
	case d := <-changes:
		assert.Equal(t, ExposureDocument, d)
	case <-time.After(2 * time.Second):
		t.Fatal("external change not reported")
	}
}

func TestDocumentFor(t *testing.T) {
	d, ok := documentFor("/tmp/x/data.json")
	assert.True(t, ok)
	assert.Equal(t, ContentDocument, d)

	_, ok = documentFor("/tmp/x/data.json.tmp123")
	assert.False(t, ok)
	_, ok = documentFor("/tmp/x/notes.txt")
	assert.False(t, ok)
}
