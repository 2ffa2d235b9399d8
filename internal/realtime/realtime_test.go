package realtime

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/versin01/vertical-systems-crm/internal/models"
)

func TestAcceptKey(t *testing.T) {
	// RFC 6455 section 1.3 example.
	got := acceptKey("dGhlIHNhbXBsZSBub25jZQ==")
	if want := "s3pPLMBiTxaQ9kYGzzhZRbK+xOo="; got != want {
		t.Fatalf("acceptKey = %q, want %q", got, want)
	}
}

func TestUpgradeRejectsPlainRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/pipeline/live", nil)
	if _, err := Upgrade(httptest.NewRecorder(), req); err != ErrNotWebSocket {
		t.Fatalf("expected ErrNotWebSocket, got %v", err)
	}
}

// readFrame reads one unmasked server frame.
func readFrame(t *testing.T, r io.Reader) (byte, []byte) {
	t.Helper()
	var header [2]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		t.Fatalf("read header: %v", err)
	}
	n := int(header[1] & 0x7F)
	if n == 126 {
		var ext [2]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			t.Fatalf("read ext: %v", err)
		}
		n = int(ext[0])<<8 | int(ext[1])
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		t.Fatalf("read payload: %v", err)
	}
	return header[0] & 0x0F, payload
}

func maskedFrame(opcode byte, payload []byte) []byte {
	mask := [4]byte{1, 2, 3, 4}
	frame := []byte{0x80 | opcode, 0x80 | byte(len(payload))}
	frame = append(frame, mask[:]...)
	for i, b := range payload {
		frame = append(frame, b^mask[i%4])
	}
	return frame
}

func TestReadMessageAnswersPing(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	conn := &Conn{conn: server}

	go func() {
		_, _ = client.Write(maskedFrame(opPing, []byte("hi")))
		op, payload := readFrame(t, client)
		if op != opPong || string(payload) != "hi" {
			t.Errorf("expected pong echo, got op=%#x payload=%q", op, payload)
		}
		_, _ = client.Write(maskedFrame(opText, []byte(`{"ok":true}`)))
	}()

	msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if string(msg) != `{"ok":true}` {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestBoardHubScopesAndDropsDeadConnections(t *testing.T) {
	hub := NewBoardHub(nil)

	allServer, allClient := net.Pipe()
	defer allClient.Close()
	scopedServer, scopedClient := net.Pipe()
	defer scopedClient.Close()
	deadServer, deadClient := net.Pipe()
	deadClient.Close()

	hub.Register(&Conn{conn: allServer}, Subscription{})
	hub.Register(&Conn{conn: scopedServer}, Subscription{OwnerID: "closer-1"})
	hub.Register(&Conn{conn: deadServer}, Subscription{})

	owner := "closer-2"
	deal := models.Deal{ID: "d1", Name: "Acme", Stage: models.StageContractSigned, OwnerID: &owner, UpdatedAt: time.Now()}

	received := make(chan Event, 1)
	go func() {
		_, payload := readFrame(t, allClient)
		var evt Event
		if err := json.Unmarshal(payload, &evt); err != nil {
			t.Errorf("decode event: %v", err)
		}
		received <- evt
	}()

	hub.DealMoved(context.Background(), deal, models.StageNegotiation)

	select {
	case evt := <-received:
		if evt.Type != EventStageChanged || evt.From != models.StageNegotiation || evt.To != models.StageContractSigned {
			t.Fatalf("unexpected event %+v", evt)
		}
		if evt.Deal.ID != "d1" {
			t.Fatalf("expected deal d1, got %q", evt.Deal.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not receive the event")
	}

	waitForSubscribers(t, hub, 2)
}

func waitForSubscribers(t *testing.T, hub *BoardHub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d subscribers, have %d", want, hub.Subscribers())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBoardHubStalledSubscriberDoesNotBlockMoves(t *testing.T) {
	hub := NewBoardHub(nil)

	// Nobody reads the client side, so the first write blocks.
	stalledServer, stalledClient := net.Pipe()
	defer stalledClient.Close()
	hub.Register(&Conn{conn: stalledServer}, Subscription{})

	deal := models.Deal{ID: "d1", Name: "Acme", Stage: models.StageNegotiation}
	done := make(chan struct{})
	go func() {
		for i := 0; i < sendQueue+2; i++ {
			hub.DealMoved(context.Background(), deal, models.StageProposalSent)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("DealMoved blocked on a stalled subscriber")
	}
	waitForSubscribers(t, hub, 0)
}
