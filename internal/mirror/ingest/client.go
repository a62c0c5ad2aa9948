// internal/mirror/ingest/client.go
package ingest

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

const (
	magicHi byte = 0x52 // 'R'
	magicLo byte = 0x49 // 'I'

	versionV1 byte = 0x01

	// AreaHoldingRegisters is the only area the mirror writes.
	AreaHoldingRegisters byte = 3

	respOK       byte = 0x00
	respRejected byte = 0x01

	headerLen = 10
)

// ErrRejected is returned when the endpoint refuses a packet.
var ErrRejected = errors.New("mirror ingest: rejected")

// EndpointClient is a Raw Ingest v1 client: stateless, 1 packet = 1 connection.
type EndpointClient struct {
	endpoint string
	timeout  time.Duration
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("mirror ingest: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	return &EndpointClient{
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
	}, nil
}

func (c *EndpointClient) Close() error { return nil }

// WriteRegisters sends one holding-register packet.
func (c *EndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	pkt := buildPacketV1(AreaHoldingRegisters, unitID, addr, uint16(len(regs)), packRegisters(regs))

	conn, err := net.DialTimeout("tcp", c.endpoint, c.timeout)
	if err != nil {
		return fmt.Errorf("mirror ingest: dial: %w", err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if err := writeAll(conn, pkt); err != nil {
		return fmt.Errorf("mirror ingest: write: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(c.timeout))
	var resp [1]byte
	if _, err := io.ReadFull(conn, resp[:]); err != nil {
		return fmt.Errorf("mirror ingest: read status: %w", err)
	}

	switch resp[0] {
	case respOK:
		return nil
	case respRejected:
		return ErrRejected
	default:
		return fmt.Errorf("mirror ingest: unknown status 0x%02x", resp[0])
	}
}

//
// ---- Raw Ingest v1 packet (LOCKED) ----
//
// 0-1  Magic "RI"
// 2    Version (0x01)
// 3    Area
// 4-5  UnitID
// 6-7  Address
// 8-9  Count
// 10+  Payload
//

func buildPacketV1(area byte, unitID uint8, addr, count uint16, payload []byte) []byte {
	pkt := make([]byte, headerLen, headerLen+len(payload))

	pkt[0] = magicHi
	pkt[1] = magicLo
	pkt[2] = versionV1
	pkt[3] = area

	putU16(pkt[4:6], uint16(unitID))
	putU16(pkt[6:8], addr)
	putU16(pkt[8:10], count)

	return append(pkt, payload...)
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

func putU16(dst []byte, v uint16) {
	dst[0] = byte(v >> 8)
	dst[1] = byte(v)
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
