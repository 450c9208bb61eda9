// Package notify posts user-visible notifications and answers whether the
// process is currently allowed to.
package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

type Notification struct {
	Key   string
	Title string
	Body  string
}

type Notifier interface {
	Send(Notification) error
}

// Permission is consulted at fire time only.
type Permission interface {
	Granted() bool
}

type NoopNotifier struct{}

func (NoopNotifier) Send(Notification) error { return nil }

// ExecNotifier shells out to notify-send on Linux and osascript on macOS.
type ExecNotifier struct{}

func (ExecNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", "--app-name=todolist", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// StaticPermission is a switchable permission flag.
type StaticPermission struct {
	mu      sync.RWMutex
	granted bool
}

func NewStaticPermission(granted bool) *StaticPermission {
	return &StaticPermission{granted: granted}
}

func (p *StaticPermission) Granted() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.granted
}

func (p *StaticPermission) Set(granted bool) {
	p.mu.Lock()
	p.granted = granted
	p.mu.Unlock()
}

// DesktopPermission is granted when desktop notifications are enabled and the
// platform helper binary is on PATH.
type DesktopPermission struct {
	Enabled  bool
	LookPath func(string) (string, error)
}

func (p DesktopPermission) Granted() bool {
	if !p.Enabled {
		return false
	}
	look := p.LookPath
	if look == nil {
		look = exec.LookPath
	}
	var bin string
	switch runtime.GOOS {
	case "linux":
		bin = "notify-send"
	case "darwin":
		bin = "osascript"
	default:
		return false
	}
	_, err := look(bin)
	return err == nil
}

// Recorder keeps every notification it is sent. It is safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Send(n Notification) error {
	r.mu.Lock()
	r.sent = append(r.sent, n)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}
