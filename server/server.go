// Package server serves a single live view of the simulation's shared
// state: an index page plus a websocket stream of recorder.Snapshot values,
// adapted from the teacher's single-page/single-websocket server onto
// gorilla/mux routing and the generic fastview client publisher instead of
// the teacher's grid-world cell views.
package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"smf/recorder"
	"smf/server/fastview"
)

// Server serves the index page and a websocket endpoint backed by a
// recorder.LiveSink; any number of clients may connect concurrently, each
// getting its own subscribed channel.
type Server struct {
	addr string
	sink *recorder.LiveSink
}

// NewServer builds a Server. sink must already be running (recorder.NewLiveSink).
func NewServer(addr string, sink *recorder.LiveSink) *Server {
	return &Server{addr: addr, sink: sink}
}

// Serve blocks, running the HTTP server until ctx is cancelled or
// ListenAndServe returns an error.
func (s *Server) Serve(ctx context.Context) error {
	r := mux.NewRouter()
	r.HandleFunc("/", s.serveIndex).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.serveWebsocket)

	httpServer := &http.Server{Addr: s.addr, Handler: r}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return httpServer.Shutdown(context.Background())
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}
}

// serveWebsocket upgrades the connection and streams snapshots to it until
// the client disconnects, unsubscribing from the live sink on return.
func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	updates := s.sink.Subscribe()
	defer s.sink.Unsubscribe(updates)

	cli, err := fastview.NewClient[recorder.Snapshot](updates, w, r)
	if err != nil {
		return
	}
	_ = cli.Sync()
}

const indexHTML = `
<!DOCTYPE html>
<html>
<head>
	<title>smf live view</title>
	<link rel="icon" href="data:,">
	<script>
		const ws = new WebSocket("ws://" + location.host + "/ws");
		ws.onmessage = function (event) {
			const snap = JSON.parse(event.data);
			document.getElementById("snapshot").textContent = JSON.stringify(snap, null, 2);
		};
	</script>
</head>
<body>
	<h1>smf</h1>
	<pre id="snapshot">waiting for first snapshot...</pre>
</body>
</html>
`

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_ = indexTemplate.Execute(w, nil)
}
