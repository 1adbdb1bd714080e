package camera

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tauraamui/dragoneye/pkg/video/videobackend"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
)

type Connection interface {
	UUID() string
	Read(*videoframe.Sample) error
	Title() string
	Device() videoframe.Device
	Format() videoframe.Format
	IsOpen() bool
	IsClosing() bool
	Close() error
}

type connection struct {
	uuid      string
	title     string
	device    videoframe.Device
	mu        sync.Mutex
	isClosing bool
	vc        videobackend.Connection
}

func (c *connection) UUID() string {
	return c.uuid
}

func (c *connection) Read(sample *videoframe.Sample) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.vc.Read(sample); err != nil {
		return fmt.Errorf("unable to read frame from connection: %w", err)
	}
	return nil
}

func (c *connection) Title() string {
	return c.title
}

func (c *connection) Device() videoframe.Device {
	return c.device
}

func (c *connection) Format() videoframe.Format {
	return c.vc.Format()
}

func (c *connection) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vc.IsOpen()
}

func (c *connection) IsClosing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isClosing
}

func (c *connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isClosing = true
	return c.vc.Close()
}

func Connect(ctx context.Context, device videoframe.Device, format videoframe.Format, backend videobackend.Backend) (Connection, error) {
	vc, err := backend.Connect(ctx, device, format)
	if err != nil {
		return nil, fmt.Errorf("Unable to connect to camera [%s]: %w", device.Name, err)
	}
	return &connection{
		uuid:   uuid.NewString(),
		title:  device.Name,
		device: device,
		vc:     vc,
	}, nil
}

// Open finds the device selected by settings and connects to it.
func Open(ctx context.Context, settings Settings, backend videobackend.Backend) (Connection, error) {
	devices, err := backend.Devices()
	if err != nil {
		return nil, fmt.Errorf("unable to list capture devices: %w", err)
	}
	device, err := Find(devices, settings.Number, settings.Name)
	if err != nil {
		return nil, err
	}
	return Connect(ctx, device, settings.Format, backend)
}
