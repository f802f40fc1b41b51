// Package camsensor uses a webcam as a colour sensor: the reading is the mean
// colour of the centre of the frame.
package camsensor

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"github.com/rcj-soccer/robocup/pkg/robot"
)

const Driver = "camera"

type Camera struct {
	lock   sync.Mutex
	webcam *gocv.VideoCapture
	img    gocv.Mat

	// CentralPercent is how much of each dimension is averaged.
	CentralPercent int
}

func Open(deviceID int) (*Camera, error) {
	webcam, err := gocv.VideoCaptureDevice(deviceID)
	if err != nil {
		return nil, fmt.Errorf("error opening video capture device: %v", err)
	}
	return &Camera{
		webcam:         webcam,
		img:            gocv.NewMat(),
		CentralPercent: 50,
	}, nil
}

func (c *Camera) Name() string { return Driver }

func (c *Camera) RGB() (r, g, b float64, err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if ok := c.webcam.Read(&c.img); !ok || c.img.Empty() {
		err = fmt.Errorf("cannot read picture from webcam device")
		return
	}
	region := CentralRegion(c.img.Cols(), c.img.Rows(), c.CentralPercent)
	cropped := c.img.Region(region)
	defer cropped.Close()
	mean := cropped.Mean()
	// Frames are BGR.
	return mean.Val3, mean.Val2, mean.Val1, nil
}

// CentralRegion is the centred rectangle covering percent of each dimension.
func CentralRegion(cols, rows, percent int) image.Rectangle {
	w, h := cols/2, rows/2
	dw := (w * percent) / 100
	dh := (h * percent) / 100
	if dw == 0 {
		dw = 1
	}
	if dh == 0 {
		dh = 1
	}
	return image.Rect(w-dw, h-dh, w+dw, h+dh).Intersect(image.Rect(0, 0, cols, rows))
}

func (c *Camera) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	_ = c.img.Close()
	return c.webcam.Close()
}

var _ robot.ColorSensor = (*Camera)(nil)
