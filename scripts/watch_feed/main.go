package main

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

// prints the host live feed until interrupted
func main() {
	host := flag.String("host", "localhost:8080", "server host")
	secure := flag.Bool("tls", false, "use wss")
	token := flag.String("token", os.Getenv("TEST_TOKEN"), "host access token")
	flag.Parse()

	if *token == "" {
		fmt.Println("Usage: go run ./scripts/watch_feed -token <jwt>")
		os.Exit(1)
	}

	u := url.URL{Scheme: "ws", Host: *host, Path: "/api/v1/admin/feed"}
	if *secure {
		u.Scheme = "wss"
	}
	q := u.Query()
	q.Set("token", *token)
	u.RawQuery = q.Encode()

	c, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		if resp != nil {
			log.Fatalf("dial: %v (status %d)", err, resp.StatusCode)
		}
		log.Fatal("dial:", err)
	}
	defer c.Close() //nolint:errcheck

	fmt.Println("connected to host feed")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("read:", err)
				return
			}
			fmt.Printf("%s %s\n", time.Now().Format(time.TimeOnly), message)
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Println("write close:", err)
			return
		}

		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}
