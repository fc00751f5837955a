package hw

import (
	"github.com/pkg/errors"
	"go.bug.st/serial"
	"periph.io/x/conn/v3/gpio"
)

// frameMagic starts every serial frame so the controller can resync
// after a dropped byte.
const frameMagic = 0xA5

// serialChannel ships frames to an external LED controller over a UART
// at 115200 8N1. Each frame goes out as magic byte, big-endian length,
// payload.
type serialChannel struct {
	*pump
	port   serial.Port
	enable gpio.PinOut
}

func openSerial(o Options) (Channel, error) {
	name := o.Port
	if name == "" {
		ports, err := serial.GetPortsList()
		if err != nil {
			return nil, errors.Wrap(err, "list serial ports")
		}
		if len(ports) == 0 {
			return nil, errors.New("no serial ports found")
		}
		name = ports[0]
	}
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open serial port %q", name)
	}
	enable, err := openEnablePin(o.EnablePin)
	if err != nil {
		port.Close()
		return nil, err
	}
	c := &serialChannel{port: port, enable: enable}
	c.pump = newPump(o.QueueDepth(), name, func(frame []byte) error {
		hdr := [3]byte{frameMagic, byte(len(frame) >> 8), byte(len(frame))}
		if _, werr := port.Write(hdr[:]); werr != nil {
			return werr
		}
		_, werr := port.Write(frame)
		return werr
	})
	return c, nil
}

func (c *serialChannel) SetPower(on bool) error {
	if c.enable == nil {
		return nil
	}
	return c.enable.Out(gpio.Level(on))
}

func (c *serialChannel) Close() error {
	c.drain()
	return c.port.Close()
}
