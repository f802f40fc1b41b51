// Package screen drives the brick's LCD through the Linux framebuffer.
package screen

import (
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fogleman/gg"

	"github.com/rcj-soccer/robocup/internal/log"
	"github.com/rcj-soccer/robocup/pkg/errs"
	"github.com/rcj-soccer/robocup/pkg/menu"
)

type Format string

const (
	FormatMono     Format = "mono"
	FormatRGB565   Format = "rgb565"
	FormatXRGB8888 Format = "xrgb8888"
)

const lineSpacing = 1.1

// ParseFormat accepts the names used in the config file.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatMono, FormatRGB565, FormatXRGB8888:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown framebuffer format %q", errs.ErrInvalidInput, s)
}

type framebuffer interface {
	io.WriteSeeker
	io.Closer
}

type Screen struct {
	lock   sync.Mutex
	fb     framebuffer
	format Format
	dc     *gg.Context
}

func Open(device string, width, height int, format Format) (*Screen, error) {
	f, err := os.OpenFile(device, os.O_RDWR, 0666)
	if err != nil {
		return nil, err
	}
	return New(f, width, height, format), nil
}

func New(fb framebuffer, width, height int, format Format) *Screen {
	s := &Screen{
		fb:     fb,
		format: format,
		dc:     gg.NewContext(width, height),
	}
	s.Clear()
	return s
}

func (s *Screen) XRes() int { return s.dc.Width() }
func (s *Screen) YRes() int { return s.dc.Height() }

func (s *Screen) setColor(c menu.Color) {
	if c == menu.Black {
		s.dc.SetRGB(0, 0, 0)
		return
	}
	s.dc.SetRGB(1, 1, 1)
}

func (s *Screen) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.setColor(menu.White)
	s.dc.Clear()
}

// Rectangle fills the box and outlines it in black.
func (s *Screen) Rectangle(x0, y0, x1, y1 float64, fill menu.Color) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	s.setColor(fill)
	s.dc.FillPreserve()
	s.setColor(menu.Black)
	s.dc.SetLineWidth(1)
	s.dc.Stroke()
}

func (s *Screen) Text(x, y float64, text string, fill menu.Color, align menu.Align) {
	s.lock.Lock()
	defer s.lock.Unlock()
	w, _ := s.dc.MeasureMultilineString(text, lineSpacing)
	s.setColor(fill)
	s.dc.DrawStringWrapped(text, x, y, 0, 0, w, lineSpacing, ggAlign(align))
}

func ggAlign(a menu.Align) gg.Align {
	switch a {
	case menu.AlignCenter:
		return gg.AlignCenter
	case menu.AlignRight:
		return gg.AlignRight
	}
	return gg.AlignLeft
}

func (s *Screen) DrawIcon(img image.Image, x, y float64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.dc.DrawImageAnchored(img, int(x), int(y), 0.5, 0.5)
}

// Update copies the drawing to the framebuffer.
func (s *Screen) Update() error {
	s.lock.Lock()
	buf := encodeFrame(s.dc.Image(), s.format)
	s.lock.Unlock()

	if _, err := s.fb.Seek(0, io.SeekStart); err != nil {
		log.Error("Screen failure", "err", err)
		return err
	}
	if _, err := s.fb.Write(buf); err != nil {
		log.Error("Screen failure", "err", err)
		return err
	}
	return nil
}

func (s *Screen) Close() error {
	return s.fb.Close()
}

// encodeFrame packs img in the framebuffer's pixel layout. Mono rows are
// padded to whole bytes with a set bit meaning a black pixel.
func encodeFrame(img image.Image, format Format) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	switch format {
	case FormatMono:
		stride := (w + 7) / 8
		buf := make([]byte, stride*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				if (r+g+bl)/3 < 0x8000 {
					buf[y*stride+x/8] |= 1 << (x % 8)
				}
			}
		}
		return buf
	case FormatRGB565:
		buf := make([]byte, w*h*2)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA() // 16-bit pre-multiplied

				rb := byte(r >> (16 - 5))
				gb := byte(g >> (16 - 6)) // Green has 6 bits
				bb := byte(bl >> (16 - 5))

				i := (y*w + x) * 2
				buf[i] = bb | (gb << 5)
				buf[i+1] = (rb << 3) | (gb >> 3)
			}
		}
		return buf
	default:
		buf := make([]byte, w*h*4)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				i := (y*w + x) * 4
				buf[i] = byte(bl >> 8)
				buf[i+1] = byte(g >> 8)
				buf[i+2] = byte(r >> 8)
				buf[i+3] = 0xff
			}
		}
		return buf
	}
}

var _ menu.Display = (*Screen)(nil)
var _ menu.IconDrawer = (*Screen)(nil)
