package client

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gen2brain/malgo"

	"dikto/internal/protocol"
)

const (
	captureRate    = 48000
	capturePeriod  = 50 // ms per callback block
	captureBacklog = 64
)

// Record is one block of interleaved capture data.
type Record struct {
	Time float64 // capture wall time, epoch seconds
	Data []float32
}

// Capture owns the microphone device. Blocks are delivered on Records
// only while the capture is switched on; the device itself keeps
// running so switching on is instant.
type Capture struct {
	Channels int

	ctx     *malgo.AllocatedContext
	dev     *malgo.Device
	records chan Record
	on      atomic.Bool
}

// NewCapture opens the default input device at 48 kHz float32.
func NewCapture(channels int) (*Capture, error) {
	if channels < 1 {
		channels = 1
	} else if channels > 2 {
		channels = 2
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}

	c := &Capture{
		Channels: channels,
		ctx:      ctx,
		records:  make(chan Record, captureBacklog),
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatF32
	cfg.Capture.Channels = uint32(channels)
	cfg.SampleRate = captureRate
	cfg.PeriodSizeInMilliseconds = capturePeriod

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, pInput []byte, frameCount uint32) {
			if !c.on.Load() || len(pInput) == 0 {
				return
			}
			rec := Record{Time: epochNow(), Data: protocol.BytesToSamples(pInput)}
			select {
			case c.records <- rec:
			default:
				// The audio thread must never block; an overrun this
				// deep means the consumer died anyway.
			}
		},
	}

	dev, err := malgo.InitDevice(ctx.Context, cfg, callbacks)
	if err != nil {
		ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("open input device: %w", err)
	}
	if err := dev.Start(); err != nil {
		dev.Uninit()
		ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("start input device: %w", err)
	}
	c.dev = dev
	return c, nil
}

// Records delivers capture blocks while the switch is on.
func (c *Capture) Records() <-chan Record { return c.records }

// SetOn flips the capture switch.
func (c *Capture) SetOn(on bool) { c.on.Store(on) }

// Close stops and releases the device.
func (c *Capture) Close() {
	c.on.Store(false)
	if c.dev != nil {
		c.dev.Uninit()
	}
	if c.ctx != nil {
		c.ctx.Uninit()
		c.ctx.Free()
	}
}

func epochNow() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
