package photoshoot

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quel-photoshoot-server/modules/batch"
)

func TestHubSnapshotThenConcurrentResult(t *testing.T) {
	hub := NewHub()
	registered := make(chan bool, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, "b1", func() *Event {
			// 스냅샷을 만드는 시점에는 이미 구독자로 등록돼 있어야 한다
			registered <- len(hub.rooms["b1"].clients) == 1

			// 스냅샷 직후 도착한 결과도 놓치지 않아야 한다
			go hub.Broadcast("b1", Event{Type: EventShotResult, BatchID: "b1", Result: &batch.ShotResult{ShotID: "styling_front"}})
			return &Event{Type: EventSnapshot, BatchID: "b1", Snapshot: &batch.Snapshot{BatchID: "b1", State: batch.StateRunning}}
		})
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.True(t, <-registered)

	read := func() Event {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var ev Event
		require.NoError(t, conn.ReadJSON(&ev))
		return ev
	}

	first := read()
	assert.Equal(t, EventSnapshot, first.Type)
	second := read()
	require.Equal(t, EventShotResult, second.Type)
	assert.Equal(t, "styling_front", second.Result.ShotID)

	assert.Equal(t, 1, hub.Subscribers("b1"))
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Subscribers("b1") == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestHubNilSnapshotIsSkipped(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, "b2", func() *Event { return nil })
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers("b2") == 1 }, 2*time.Second, 5*time.Millisecond)
	hub.Broadcast("b2", Event{Type: EventBatchFinished, BatchID: "b2"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventBatchFinished, ev.Type)
}
