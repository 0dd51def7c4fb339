package source

import (
	"io"
	"net/url"
	"os"
	"strings"

	"golang.org/x/net/websocket"
)

// Open opens a byte source by name:
//
//	-                 stdin
//	ws://, wss://     WebSocket, binary frames concatenated
//	anything else     a file or character device, e.g. /dev/ttyUSB0
func Open(name string) (io.ReadCloser, error) {
	switch {
	case name == "-":
		return os.Stdin, nil
	case strings.HasPrefix(name, "ws://"), strings.HasPrefix(name, "wss://"):
		return DialWebSocket(name, "")
	}
	return os.OpenFile(name, os.O_RDONLY, 0)
}

// DialWebSocket connects to a WebSocket endpoint and returns the stream of
// received bytes. origin defaults to the endpoint's http(s) URL.
func DialWebSocket(endpoint, origin string) (io.ReadCloser, error) {
	if origin == "" {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, err
		}
		u.Scheme = strings.Replace(u.Scheme, "ws", "http", 1)
		u.Path, u.RawQuery = "/", ""
		origin = u.String()
	}
	conn, err := websocket.Dial(endpoint, "", origin)
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.BinaryFrame
	return conn, nil
}
