package recorder

import (
	"sync"
	"time"

	channerics "github.com/niceyeti/channerics/channels"
)

// publishRate throttles the live sink's outbound broadcast, the same role
// root_view.batchify's rate parameter played for view updates: redundant
// snapshots published faster than this are simply overwritten rather than
// queued, so a slow or disconnected client never backs up the simulation.
const publishRate = 100 * time.Millisecond

// Snapshot is one published step's cell state, broadcast to live subscribers.
type Snapshot struct {
	T     time.Duration
	Cells map[string]any
}

// LiveSink buffers the latest snapshot and broadcasts it to all current
// subscribers at a fixed rate, grounded on root_view.go's fanIn/batchify
// (Merge+OrDone+ticker), generalized from N view-update channels down to N
// websocket subscribers of one cell-state stream.
type LiveSink struct {
	in   chan Snapshot
	done <-chan struct{}

	subMu sync.Mutex
	subs  map[chan Snapshot]struct{}
}

// NewLiveSink starts the broadcast loop; it stops when done is closed.
func NewLiveSink(done <-chan struct{}) *LiveSink {
	ls := &LiveSink{
		in:   make(chan Snapshot, 1),
		done: done,
		subs: make(map[chan Snapshot]struct{}),
	}
	go ls.run()
	return ls
}

// Publish stores the latest snapshot, overwriting any snapshot not yet
// picked up by the broadcast tick — last-writer-wins, matching batchify's
// per-key overwrite semantics collapsed to a single whole-state key.
func (ls *LiveSink) Publish(t time.Duration, cells map[string]any) {
	snap := Snapshot{T: t, Cells: cells}
	select {
	case ls.in <- snap:
		return
	default:
	}
	select {
	case <-ls.in:
	default:
	}
	select {
	case ls.in <- snap:
	default:
	}
}

func (ls *LiveSink) run() {
	ticker := channerics.NewTicker(ls.done, publishRate)
	var latest Snapshot
	have := false
	for {
		select {
		case <-ls.done:
			return
		case snap := <-ls.in:
			latest = snap
			have = true
		case <-ticker:
			if !have {
				continue
			}
			ls.broadcast(latest)
			have = false
		}
	}
}

func (ls *LiveSink) broadcast(snap Snapshot) {
	ls.subMu.Lock()
	defer ls.subMu.Unlock()
	for ch := range ls.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Subscribe registers a new per-client channel, for server.go's websocket
// handler to pass into fastview.NewClient.
func (ls *LiveSink) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	ls.subMu.Lock()
	ls.subs[ch] = struct{}{}
	ls.subMu.Unlock()
	return ch
}

// Unsubscribe removes a previously subscribed channel and closes it.
func (ls *LiveSink) Unsubscribe(sub <-chan Snapshot) {
	ls.subMu.Lock()
	defer ls.subMu.Unlock()
	for ch := range ls.subs {
		if ch == sub {
			delete(ls.subs, ch)
			close(ch)
			return
		}
	}
}
