// ratrak-watch prints companion state from a running ratrak, or sends
// it one input event.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/muesli/termenv"

	"github.com/b/ratrak/pkg/daemon"
)

var (
	sessionName = flag.String("session", "default", "session name")
	socketPath  = flag.String("socket", "", "socket path (overrides -session)")
	click       = flag.String("click", "", "send a click on this element id and exit")
	keyName     = flag.String("key", "", "send a key press and exit")
	keyUp       = flag.String("keyup", "", "send a key release and exit")
	scroll      = flag.Bool("scroll", false, "send a scroll event and exit")
	jsonOut     = flag.Bool("json", false, "print raw views as JSON lines")
)

var stateColors = map[string]string{
	"idle":  "7",
	"blink": "14",
	"move":  "10",
	"work":  "11",
}

func main() {
	flag.Parse()

	path := *socketPath
	if path == "" {
		path = daemon.SocketPath(*sessionName)
	}
	c, err := daemon.Dial(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ratrak-watch: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	if in, ok := inputFromFlags(); ok {
		if err := c.SendInput(in); err != nil {
			fmt.Fprintf(os.Stderr, "ratrak-watch: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := c.Subscribe(); err != nil {
		fmt.Fprintf(os.Stderr, "ratrak-watch: %v\n", err)
		os.Exit(1)
	}
	out := termenv.NewOutput(os.Stdout)
	for {
		msg, err := c.Receive()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ratrak-watch: %v\n", err)
			os.Exit(1)
		}
		switch p := msg.Payload.(type) {
		case *daemon.StatePayload:
			if *jsonOut {
				data, _ := json.Marshal(p)
				fmt.Println(string(data))
				continue
			}
			fmt.Println(formatState(out, p))
		case *daemon.ErrorPayload:
			fmt.Fprintf(os.Stderr, "ratrak-watch: server: %s\n", p.Message)
		}
	}
}

func inputFromFlags() (daemon.InputPayload, bool) {
	switch {
	case *click != "":
		return daemon.InputPayload{Type: daemon.InputClick, Target: *click}, true
	case *keyName != "":
		return daemon.InputPayload{Type: daemon.InputKey, Key: *keyName}, true
	case *keyUp != "":
		return daemon.InputPayload{Type: daemon.InputKeyUp, Key: *keyUp}, true
	case *scroll:
		return daemon.InputPayload{Type: daemon.InputScroll}, true
	}
	return daemon.InputPayload{}, false
}

func formatState(out *termenv.Output, p *daemon.StatePayload) string {
	v := p.View
	state := out.String(fmt.Sprintf("%-5s", v.State))
	if c, ok := stateColors[string(v.State)]; ok {
		state = state.Foreground(out.Color(c))
	}

	parts := []string{fmt.Sprintf("#%d", p.Seq), state.String()}
	if v.DrawerOpen {
		parts = append(parts, "drawer")
	}
	if v.Game {
		parts = append(parts, fmt.Sprintf("game@%.0f,%.0f %s", v.Placement.X, v.Placement.Y, v.Facing))
	}
	if v.Glow {
		parts = append(parts, "glow")
	}
	if v.Bob {
		parts = append(parts, "bob")
	}
	if v.Section != "" {
		parts = append(parts, "section="+v.Section)
	}
	if v.Bubble.Visible {
		parts = append(parts, out.String(fmt.Sprintf("%q", v.Bubble.Text)).Italic().String())
	}
	return strings.Join(parts, " ")
}
