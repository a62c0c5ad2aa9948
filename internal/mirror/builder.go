// internal/mirror/builder.go
package mirror

import (
	"fmt"
	"log/slog"

	cfg "github.com/tamzrod/rosterwatch/internal/config"
	"github.com/tamzrod/rosterwatch/internal/mirror/ingest"
	wmodbus "github.com/tamzrod/rosterwatch/internal/mirror/modbus"
)

// Build creates the transport for the configured protocol and the surface
// on top of it. Config must already be validated and normalized.
func Build(m cfg.MirrorConfig, log *slog.Logger) (*Surface, error) {
	var (
		tr  Transport
		err error
	)
	switch m.Protocol {
	case "modbus":
		tr, err = wmodbus.NewEndpointClient(wmodbus.Config{Endpoint: m.Endpoint, Timeout: m.Timeout()})
	case "ingest":
		tr, err = ingest.NewEndpointClient(ingest.Config{Endpoint: m.Endpoint, Timeout: m.Timeout()})
	default:
		return nil, fmt.Errorf("mirror: unsupported protocol %q", m.Protocol)
	}
	if err != nil {
		return nil, err
	}

	s, err := New(tr, Config{UnitID: m.UnitID, BaseAddress: m.BaseAddress, MaxSlots: m.MaxSlots}, log)
	if err != nil {
		_ = tr.Close()
		return nil, err
	}
	return s, nil
}
