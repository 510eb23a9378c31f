// Package volume shows the volume of the default PulseAudio sink when it
// changes.
package volume

import (
	"context"
	"fmt"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
)

const (
	appName     = "simple-osd"
	defaultSink = "@DEFAULT_SINK@"

	// volumeNorm is the raw volume of 100%.
	volumeNorm = 0x10000
)

// Sink is a snapshot of an output device.
type Sink struct {
	Name        string  // unique identifier
	Description string  // human-readable, may be empty
	Volume      float64 // average over channels, 1 = 100%, can go above
	Muted       bool
}

// Source reads the default sink.
type Source interface {
	DefaultSink(ctx context.Context) (Sink, error)
}

// Pulse talks to a PulseAudio (or pipewire-pulse) server.
type Pulse struct {
	client *pulse.Client
}

// NewPulse connects to server, or to the default server when it is empty.
func NewPulse(server string) (*Pulse, error) {
	opts := []pulse.ClientOption{pulse.ClientApplicationName(appName)}
	if server != "" {
		opts = append(opts, pulse.ClientServerString(server))
	}
	c, err := pulse.NewClient(opts...)
	if err != nil {
		return nil, err
	}
	return &Pulse{client: c}, nil
}

// DefaultSink queries the sink currently set as default.
func (p *Pulse) DefaultSink(_ context.Context) (Sink, error) {
	var reply proto.GetSinkInfoReply
	err := p.client.RawRequest(&proto.GetSinkInfo{
		SinkIndex: proto.Undefined,
		SinkName:  defaultSink,
	}, &reply)
	if err != nil {
		return Sink{}, fmt.Errorf("get sink info: %w", err)
	}
	return Sink{
		Name:        reply.SinkName,
		Description: reply.Device,
		Volume:      average(reply.ChannelVolumes),
		Muted:       reply.Mute,
	}, nil
}

// Close disconnects from the server.
func (p *Pulse) Close() {
	p.client.Close()
}

func average(volumes []uint32) float64 {
	if len(volumes) == 0 {
		return 0
	}
	var sum uint64
	for _, v := range volumes {
		sum += uint64(v)
	}
	return float64(sum) / float64(len(volumes)) / volumeNorm
}
