package ws

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}

func newTestClient(h *Hub, datasource string) *Client {
	return &Client{hub: h, send: make(chan []byte, clientSendBuffer), log: h.log, Datasource: datasource, connectedAt: time.Now()}
}

func startHub(t *testing.T) *Hub {
	t.Helper()

	h := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-h.done
	})

	return h
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", h.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()

	select {
	case msg := <-c.send:
		var evt Event
		if err := json.Unmarshal(msg, &evt); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	return Event{}
}

func expectNothing(t *testing.T, c *Client) {
	t.Helper()

	select {
	case msg := <-c.send:
		t.Fatalf("unexpected message %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_PublishRouting(t *testing.T) {
	h := startHub(t)

	sample := newTestClient(h, "sample")
	other := newTestClient(h, "other")
	all := newTestClient(h, "")
	for _, c := range []*Client{sample, other, all} {
		h.Register(c)
	}
	waitClients(t, h, 3)

	h.Publish(models.ChangeEvent{Type: models.EventVertexCreated, Datasource: "sample", ID: "v01"})

	evt := receive(t, sample)
	if evt.Type != models.EventVertexCreated || evt.Datasource != "sample" || evt.ID != 1 {
		t.Errorf("sample got %+v", evt)
	}

	var payload models.ChangeEvent
	if err := json.Unmarshal(evt.Data, &payload); err != nil || payload.ID != "v01" {
		t.Errorf("payload = %+v, %v", payload, err)
	}

	if evt := receive(t, all); evt.ID != 1 {
		t.Errorf("all got %+v", evt)
	}
	expectNothing(t, other)

	h.Publish(models.ChangeEvent{Type: models.EventReset})
	for _, c := range []*Client{sample, other, all} {
		if evt := receive(t, c); evt.Type != models.EventReset {
			t.Errorf("reset not delivered, got %+v", evt)
		}
	}
}

func TestHub_Unregister(t *testing.T) {
	h := startHub(t)

	c := newTestClient(h, "sample")
	h.Register(c)
	waitClients(t, h, 1)

	h.Unregister(c)
	waitClients(t, h, 0)

	if _, ok := <-c.send; ok {
		t.Error("send channel should be closed")
	}
}

func TestHub_Replay(t *testing.T) {
	h := NewHub(testLogger())
	defer h.buffer.Stop()

	for i := 0; i < 3; i++ {
		h.BroadcastEvent(models.EventVertexCreated, "sample", json.RawMessage(`{}`))
	}
	h.BroadcastEvent(models.EventVertexCreated, "other", json.RawMessage(`{}`))

	c := newTestClient(h, "sample")
	if !h.ReplayEvents(c, 1) {
		t.Fatal("ReplayEvents reported a gap")
	}
	if n := len(c.send); n != 2 {
		t.Errorf("replayed %d events for sample, want 2", n)
	}

	all := newTestClient(h, "")
	h.ReplayEvents(all, 0)
	if n := len(all.send); n != 4 {
		t.Errorf("replayed %d events for all, want 4", n)
	}
}

func TestHub_ReplayAcrossOtherDatasources(t *testing.T) {
	h := NewHub(testLogger())
	defer h.buffer.Stop()

	for i := 0; i < 3; i++ {
		h.BroadcastEvent(models.EventVertexCreated, "other", json.RawMessage(`{}`))
	}
	h.BroadcastEvent(models.EventVertexCreated, "sample", json.RawMessage(`{}`))

	c := newTestClient(h, "sample")
	if !h.ReplayEvents(c, 2) {
		t.Fatal("events of other datasources must not force a reset")
	}
	if evt := receive(t, c); evt.ID != 4 || evt.Datasource != "sample" {
		t.Errorf("replayed %+v, want sample event 4", evt)
	}
}

func TestHub_OversizedPayloadDropped(t *testing.T) {
	h := NewHub(testLogger())
	defer h.buffer.Stop()

	h.send("sample", make([]byte, maxBroadcastPayload+1))
	if n := len(h.broadcast); n != 0 {
		t.Errorf("broadcast queue = %d, want 0", n)
	}
}
