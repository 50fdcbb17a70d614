package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dougsko/musicsyncd/pkg/client"
)

var (
	socketPath = flag.String("socket", "/tmp/musicsyncd.sock", "Unix socket path")
	command    = flag.String("cmd", "", "Command to send (e.g., 'STATUS', 'SINK:01:23:45')")
)

func main() {
	flag.Parse()

	if *socketPath == "" {
		fmt.Fprintf(os.Stderr, "Socket path is required\n")
		os.Exit(1)
	}

	if *command == "" {
		if len(flag.Args()) > 0 {
			*command = strings.Join(flag.Args(), " ")
		} else {
			showHelp()
			return
		}
	}

	c := client.NewSocketClient(*socketPath)

	resp, err := c.SendCommand(*command)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", resp.String())
}

func showHelp() {
	fmt.Println("musicsyncctl - musicsyncd control tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s [options] <command>\n", os.Args[0])
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -socket <path>    Unix socket path (default: /tmp/musicsyncd.sock)")
	fmt.Println("  -cmd <command>    Command to send")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  STATUS             Get pipeline status (algorithm, uptime, frame/onset counts, per-sink health)")
	fmt.Println("  SINK:<name>        Get a single sink's datagram count / last error")
	fmt.Println("  PING               Test the connection")
	fmt.Println("  QUIT               Close this connection")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  %s STATUS\n", os.Args[0])
	fmt.Printf("  %s SINK:192.168.1.40\n", os.Args[0])
	fmt.Printf("  echo 'STATUS' | nc -U /tmp/musicsyncd.sock\n")
}
