// Package sync polls the mail service in the background for the inbox
// unread count. It never touches the mailbox view's collection; the only
// thing it feeds the UI is a number for the header, so the view state
// stays driven exclusively by user-initiated fetches.
package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MohamedEliwa204/mail/internal/model"
	"github.com/MohamedEliwa204/mail/internal/remote"
	"github.com/MohamedEliwa204/mail/internal/session"
)

// UnreadResultMsg is a tea.Msg sent when an unread poll completes.
type UnreadResultMsg struct {
	Count int
	Err   error
}

// fetchTimeout is the maximum time allowed for a single poll.
const fetchTimeout = 30 * time.Second

// Notifier orchestrates background polling of the inbox unread count.
type Notifier struct {
	remote    remote.Store
	provider  session.Provider
	interval  time.Duration
	resultCh  chan UnreadResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
}

// New creates a Notifier polling at the given interval. Intervals below
// one second fall back to two minutes.
func New(r remote.Store, p session.Provider, interval time.Duration) *Notifier {
	if interval < time.Second {
		interval = 2 * time.Minute
	}
	return &Notifier{
		remote:    r,
		provider:  p,
		interval:  interval,
		resultCh:  make(chan UnreadResultMsg, 4),
		triggerCh: make(chan struct{}, 4),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the polling goroutine and returns a subscription command
// that delivers UnreadResultMsg messages to the Bubble Tea runtime.
func (n *Notifier) Start() tea.Cmd {
	n.mu.Lock()
	if n.running {
		n.mu.Unlock()
		return n.waitForResult()
	}
	n.running = true
	n.mu.Unlock()

	go n.loop()
	return n.waitForResult()
}

// Stop halts the polling goroutine.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.running {
		return
	}
	close(n.stopCh)
	n.running = false
}

// RefreshNow triggers an immediate poll without waiting for the ticker.
func (n *Notifier) RefreshNow() {
	select {
	case n.triggerCh <- struct{}{}:
	default:
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next poll result.
// Call it after processing an UnreadResultMsg to keep listening.
func (n *Notifier) WaitForNextResult() tea.Cmd {
	return n.waitForResult()
}

func (n *Notifier) loop() {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	n.poll()

	for {
		select {
		case <-n.stopCh:
			return
		case <-ticker.C:
			n.poll()
		case <-n.triggerCh:
			n.poll()
		}
	}
}

// poll fetches the inbox and counts unread mail.
func (n *Notifier) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	sess, err := n.provider.Current()
	if err != nil {
		n.sendResult(UnreadResultMsg{Err: err})
		return
	}

	mails, err := n.remote.FetchFolder(ctx, sess.Identity(), model.FolderInbox)
	if err != nil {
		n.sendResult(UnreadResultMsg{Err: err})
		return
	}

	count := 0
	for _, m := range mails {
		if !m.IsRead {
			count++
		}
	}
	n.sendResult(UnreadResultMsg{Count: count})
}

// sendResult sends without blocking; a full channel drops the update, the
// next tick will refresh it anyway.
func (n *Notifier) sendResult(msg UnreadResultMsg) {
	select {
	case n.resultCh <- msg:
	default:
	}
}

func (n *Notifier) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-n.resultCh
		if !ok {
			return nil
		}
		return result
	}
}
