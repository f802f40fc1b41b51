package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rcj-soccer/robocup/pkg/keypad"
)

func main() {
	// Our global context, we cancel it to trigger shutdown.
	ctx, cancel := context.WithCancel(context.Background())

	// Hook Ctrl-C etc.
	registerSignalHandlers(cancel)

	dev := os.Getenv("ROBOCUP_INPUT")
	if dev == "" {
		dev = keypad.DefaultDevice
	}
	k, err := keypad.Open(dev)
	if err != nil {
		fmt.Printf("Failed to open buttons: %v.\n", err)
		os.Exit(1)
	}
	defer k.Close()

	fmt.Printf("Opened %s, press the brick buttons\n", dev)
	for ctx.Err() == nil {
		event, err := k.ReadEvent()
		if err != nil {
			fmt.Printf("Failed to read from buttons: %v.\n", err)
			return
		}
		if key, ok := event.Key(); ok {
			fmt.Printf("%s %s (%s)\n", event.Time.Format(time.StampMilli), key, event)
		} else {
			fmt.Printf("%s other (%s)\n", event.Time.Format(time.StampMilli), event)
		}
	}
}

func registerSignalHandlers(cancelFunc context.CancelFunc) {
	// Hook Ctrl-C to cause shut down.
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-signals
		log.Println("Signal: ", s)
		cancelFunc()
		time.Sleep(2 * time.Second)
		os.Exit(0)
	}()
}
