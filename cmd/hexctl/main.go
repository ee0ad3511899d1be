// hexctl drives a running hexapod daemon from the command line.
//
// Usage:
//
//	hexctl [-addr host:port] params
//	hexctl [-addr host:port] run | pause | center
//	hexctl [-addr host:port] steer fwd|rev|rotr|rotl
//	hexctl [-addr host:port] steer <angle>
//	hexctl [-addr host:port] speed <pct>
//	hexctl [-addr host:port] stroke <pct>
//	hexctl [-addr host:port] trim <left> <mid> <right>
//	hexctl [-addr host:port] obstacle
//	hexctl [-addr host:port] watch
//
// watch attaches to the control websocket and prints everything the daemon
// pushes, answering protocol pings so the connection stays up.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/fitzterra/micro-hexapod/internal/httpc"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "daemon address")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	base := "http://" + *addr
	cmd, rest := args[0], args[1:]

	var err error
	switch cmd {
	case "params":
		err = get(base + "/get_params")
	case "run":
		err = post(base+"/run", nil)
	case "pause":
		err = post(base+"/pause", nil)
	case "center":
		err = post(base+"/center_servos", map[string]any{"with_trim": true})
	case "steer":
		err = steer(base, rest)
	case "speed":
		err = percent(base+"/speed", "speed", rest)
	case "stroke":
		err = percent(base+"/stroke", "stroke", rest)
	case "trim":
		err = trim(base, rest)
	case "obstacle":
		err = get(base + "/obstacle")
	case "watch":
		err = watch(*addr)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "hexctl:", err)
		os.Exit(1)
	}
}

// get prints the JSON body of a GET endpoint.
func get(url string) error {
	resp, err := httpc.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return dump(resp.Body)
}

// post sends a JSON body and prints the response.
func post(url string, body any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}
	resp, err := httpc.Post(url, "application/json", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return dump(resp.Body)
}

func steer(base string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("steer needs a direction or an angle")
	}
	if angle, err := strconv.Atoi(args[0]); err == nil {
		return post(base+"/steer", map[string]any{"angle": angle})
	}
	return post(base+"/steer", map[string]any{"dir": args[0]})
}

func percent(url, key string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%s needs a percentage", key)
	}
	pct, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%s: not a percentage: %q", key, args[0])
	}
	return post(url, map[string]any{key: pct})
}

func trim(base string, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("trim needs three values (use - to leave a leg unchanged)")
	}
	vals := make([]any, 3)
	for i, a := range args {
		if a == "-" {
			continue
		}
		v, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("trim: not an integer: %q", a)
		}
		vals[i] = v
	}
	return post(base+"/trim", map[string]any{"trim": vals})
}

// watch streams the control websocket to stdout.
func watch(addr string) error {
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer conn.Close()

	fmt.Println("connected, watching (Ctrl+C to stop)")
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		line := string(data)
		if line == "ping" {
			if err := conn.WriteMessage(websocket.TextMessage, []byte("pong")); err != nil {
				return err
			}
			continue
		}
		fmt.Println(line)
	}
}

// dump pretty-prints a JSON response body.
func dump(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	var buf any
	if err := json.Unmarshal(raw, &buf); err != nil {
		fmt.Println(string(raw))
		return nil
	}
	pretty, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(pretty))
	return nil
}
