package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rcj-soccer/robocup/pkg/config"
	"github.com/rcj-soccer/robocup/pkg/menu"
	"github.com/rcj-soccer/robocup/pkg/screen"
)

// Draws a sample menu on the framebuffer; type a direction (up, down, left,
// right) to move the cursor, or the name of a framebuffer format to switch.
func main() {
	e, err := config.LoadEnv()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	d := config.Default().Display
	format, _ := screen.ParseFormat(d.Format)

	open := func(f screen.Format) *screen.Screen {
		s, err := screen.Open(e.Framebuffer, d.Width, d.Height, f)
		if err != nil {
			fmt.Println("Failed to open screen: ", err)
			os.Exit(1)
		}
		return s
	}
	s := open(format)

	buttons := []*menu.Button{
		menu.NewButton("Run Program", nil),
		menu.NewButton("Calibrate", nil),
		menu.NewButton("Connect Bluetooth", nil),
		menu.NewButton("Exit", nil),
	}
	cursor := menu.Cursor{}
	draw := func() {
		s.Clear()
		w, h := float64(s.XRes())/2, float64(s.YRes())/2
		for i, b := range buttons {
			c := menu.Cursor{Col: i % 2, Row: i / 2}
			r := menu.Rect{X0: w * float64(c.Col), Y0: h * float64(c.Row)}
			r.X1, r.Y1 = r.X0+w, r.Y0+h
			b.Draw(s, r, c == cursor)
		}
		if err := s.Update(); err != nil {
			fmt.Println("Screen failure: ", err)
		}
	}
	draw()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nFailed to read stdin: ", err)
			return
		}
		switch cmd := strings.TrimSpace(line); cmd {
		case "up":
			cursor.Row = 0
		case "down":
			cursor.Row = 1
		case "left":
			cursor.Col = 0
		case "right":
			cursor.Col = 1
		default:
			f, err := screen.ParseFormat(cmd)
			if err != nil {
				fmt.Println(err)
				continue
			}
			_ = s.Close()
			s = open(f)
		}
		draw()
	}
}
