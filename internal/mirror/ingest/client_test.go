package ingest

import (
	"errors"
	"io"
	"net"
	"testing"
	"time"
)

// serveOnce accepts one connection, captures the packet and answers status.
func serveOnce(t *testing.T, status byte, want int) (string, <-chan []byte) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	got := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, want)
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		got <- buf
		_, _ = conn.Write([]byte{status})
	}()
	return ln.Addr().String(), got
}

func TestBuildPacketV1_Header(t *testing.T) {
	pkt := buildPacketV1(AreaHoldingRegisters, 7, 0x0102, 2, []byte{0xAA, 0xBB, 0xCC, 0xDD})

	want := []byte{'R', 'I', 0x01, 0x03, 0x00, 0x07, 0x01, 0x02, 0x00, 0x02, 0xAA, 0xBB, 0xCC, 0xDD}
	if len(pkt) != len(want) {
		t.Fatalf("len=%d want=%d", len(pkt), len(want))
	}
	for i := range want {
		if pkt[i] != want[i] {
			t.Fatalf("byte %d: got=0x%02x want=0x%02x", i, pkt[i], want[i])
		}
	}
}

func TestWriteRegisters_OK(t *testing.T) {
	addr, got := serveOnce(t, respOK, headerLen+4)

	c, err := NewEndpointClient(Config{Endpoint: addr, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewEndpointClient err=%v", err)
	}
	if err := c.WriteRegisters(1, 100, []uint16{0x0102, 0x0304}); err != nil {
		t.Fatalf("WriteRegisters err=%v", err)
	}

	pkt := <-got
	if pkt[3] != AreaHoldingRegisters {
		t.Fatalf("area=%d", pkt[3])
	}
	if pkt[10] != 0x01 || pkt[13] != 0x04 {
		t.Fatalf("payload not big-endian: % x", pkt[10:])
	}
}

func TestWriteRegisters_Rejected(t *testing.T) {
	addr, _ := serveOnce(t, respRejected, headerLen+2)

	c, _ := NewEndpointClient(Config{Endpoint: addr, Timeout: time.Second})
	err := c.WriteRegisters(1, 0, []uint16{1})
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestNewEndpointClient_RequiresEndpoint(t *testing.T) {
	if _, err := NewEndpointClient(Config{}); err == nil {
		t.Fatalf("expected error")
	}
}
