package hw

import (
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

var (
	hostOnce sync.Once
	hostErr  error
)

// initHost loads the periph host drivers once per process.
func initHost() error {
	hostOnce.Do(func() { _, hostErr = host.Init() })
	return hostErr
}

// openEnablePin resolves a named gpio line for the strip supply switch.
func openEnablePin(name string) (gpio.PinOut, error) {
	if name == "" {
		return nil, nil
	}
	if err := initHost(); err != nil {
		return nil, errors.Wrap(err, "host init")
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, errors.Errorf("no gpio pin %q", name)
	}
	return pin, nil
}

// spiChannel clocks NRZ pulse trains out of an SPI port. The nrzled
// device does the bit stretching, so frames arrive here as plain colour
// bytes per pixel in the chip's channel count.
type spiChannel struct {
	*pump
	port   spi.PortCloser
	dev    *nrzled.Dev
	enable gpio.PinOut
}

func openSPI(o Options) (Channel, error) {
	if err := initHost(); err != nil {
		return nil, errors.Wrap(err, "host init")
	}
	port, err := spireg.Open(o.Port)
	if err != nil {
		return nil, errors.Wrapf(err, "open spi port %q", o.Port)
	}
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: o.Pixels,
		Channels:  o.Channels,
		Freq:      2500 * physic.KiloHertz,
	})
	if err != nil {
		port.Close()
		return nil, errors.Wrap(err, "nrzled")
	}
	enable, err := openEnablePin(o.EnablePin)
	if err != nil {
		port.Close()
		return nil, err
	}
	c := &spiChannel{port: port, dev: dev, enable: enable}
	c.pump = newPump(o.QueueDepth(), dev.String(), func(frame []byte) error {
		_, werr := dev.Write(frame)
		return werr
	})
	return c, nil
}

func (c *spiChannel) SetPower(on bool) error {
	if c.enable == nil {
		return nil
	}
	return c.enable.Out(gpio.Level(on))
}

func (c *spiChannel) Close() error {
	c.drain()
	if err := c.dev.Halt(); err != nil {
		c.port.Close()
		return err
	}
	return c.port.Close()
}
