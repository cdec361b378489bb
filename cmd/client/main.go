// The client command is a line-oriented probe client for exercising the
// lobby protocol by hand: creating and joining rooms, toggling readiness,
// and relaying moves or chat to the paired peer. The graphical game client
// speaks the same protocol; this tool exists for testing the server.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/fatih/color"
)

var serverAddr = flag.String("server", "localhost:4396", "Server address (host:port)")

var (
	serverColor = color.New(color.FgCyan, color.Bold)
	infoColor   = color.New(color.FgGreen)
	errColor    = color.New(color.FgRed)
)

func main() {
	flag.Parse()

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		errColor.Fprintf(os.Stderr, "failed to connect to %s: %v\n", *serverAddr, err)
		os.Exit(1)
	}
	defer conn.Close()

	infoColor.Printf("connected to %s\n", *serverAddr)
	printHelp()

	go receiveLoop(conn)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		msg, ok := translate(scanner.Text())
		if !ok {
			continue
		}
		if _, err := conn.Write([]byte(msg)); err != nil {
			errColor.Fprintf(os.Stderr, "write failed: %v\n", err)
			return
		}
	}
}

// translate maps an interactive command to its wire message. Unprefixed
// input is sent as-is so raw protocol bytes can be tested directly.
func translate(line string) (string, bool) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch cmd {
	case "":
		return "", false
	case "/help":
		printHelp()
		return "", false
	case "/refresh":
		return "R", true
	case "/create":
		return "C:" + arg, true
	case "/join":
		return "J" + arg, true
	case "/exit":
		return "E", true
	case "/status":
		return "U", true
	case "/ready":
		return "prepare", true
	case "/black":
		return "color1", true
	case "/white":
		return "color0", true
	case "/move":
		return "OM" + arg, true
	case "/chat":
		return "ON" + arg, true
	case "/undo":
		return "OB" + arg, true
	case "/surrender":
		return "OS", true
	default:
		return line, true
	}
}

func receiveLoop(conn net.Conn) {
	buffer := make([]byte, 1024)
	for {
		n, err := conn.Read(buffer)
		if n > 0 {
			serverColor.Printf("<< %s\n", buffer[:n])
		}
		if err != nil {
			errColor.Fprintln(os.Stderr, "server closed the connection")
			os.Exit(0)
		}
	}
}

func printHelp() {
	fmt.Println(`commands:
  /refresh            list online count and open rooms
  /create <name>      create a room
  /join <id>          join the room owned by connection <id>
  /exit               leave the current room
  /status             query opponent presence/readiness
  /ready              toggle readiness
  /black | /white     claim first/second move
  /move <pos>         relay a move to the opponent
  /chat <text>        relay a chat line
  /undo <reply>       relay an undo request/response
  /surrender          relay a surrender
anything else is sent to the server verbatim`)
}
