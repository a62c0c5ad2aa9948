// internal/mirror/modbus/client.go
package modbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// MaxWriteRegisters is the FC16 quantity limit.
const MaxWriteRegisters = 123

// EndpointClient is the Modbus TCP transport of the register mirror.
// One connection; requests are serialized because the unit id lives on the
// shared handler.
type EndpointClient struct {
	endpoint string

	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// NewEndpointClient connects eagerly so a bad endpoint fails at startup.
func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("mirror modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("mirror modbus: connect %s: %w", cfg.Endpoint, err)
	}

	return &EndpointClient{
		endpoint: cfg.Endpoint,
		handler:  h,
		client:   modbus.NewClient(h),
	}, nil
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// WriteRegisters writes one run of roster slots with FC16.
func (c *EndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if err := checkQuantity(len(regs)); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler.SlaveId = unitID
	if _, err := c.client.WriteMultipleRegisters(addr, uint16(len(regs)), slotBytes(regs)); err != nil {
		return fmt.Errorf("mirror modbus: %s unit %d: write %d regs at %d: %w",
			c.endpoint, unitID, len(regs), addr, err)
	}
	return nil
}

func checkQuantity(n int) error {
	if n == 0 {
		return errors.New("mirror modbus: empty write")
	}
	if n > MaxWriteRegisters {
		return fmt.Errorf("mirror modbus: %d regs exceeds FC16 limit of %d", n, MaxWriteRegisters)
	}
	return nil
}

// slotBytes lays out slot registers in wire order, high byte first.
func slotBytes(regs []uint16) []byte {
	out := make([]byte, 0, len(regs)*2)
	for _, r := range regs {
		out = binary.BigEndian.AppendUint16(out, r)
	}
	return out
}
