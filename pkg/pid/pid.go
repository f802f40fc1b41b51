// Package pid computes proportional/integral/derivative correction terms.
package pid

// Controller turns a measured error signal into a correction:
//
//	error = value - lastError
//	out   = Kp*value + Ki*(value*error) + Kd*error
//
// By default lastError is only ever changed by Reset, so every call after a
// reset sees lastError == 0 and the same input always yields the same output.
// WithErrorTracking makes Update remember the last value instead.
type Controller struct {
	Kp, Ki, Kd float64

	trackError bool
	lastError  float64
}

type Option func(*Controller)

// WithErrorTracking stores each input as lastError after Update, giving a
// conventional derivative term.
func WithErrorTracking() Option {
	return func(c *Controller) {
		c.trackError = true
	}
}

func New(kp, ki, kd float64, opts ...Option) *Controller {
	c := &Controller{Kp: kp, Ki: ki, Kd: kd}
	for _, o := range opts {
		o(c)
	}
	c.Reset()
	return c
}

func (c *Controller) Reset() {
	c.lastError = 0
}

func (c *Controller) Update(value float64) float64 {
	err := value - c.lastError

	p := c.Kp * value
	i := value * err
	d := err

	if c.trackError {
		c.lastError = value
	}

	return p + c.Ki*i + c.Kd*d
}

// LastError is the reference the next Update subtracts from its input.
func (c *Controller) LastError() float64 {
	return c.lastError
}
