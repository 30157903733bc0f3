// Package nav models where the application has been sent to.
package nav

import "sync"

const (
	Home  = "/"
	Login = "/login"
)

type Navigator interface {
	Navigate(path string)
}

// Func adapts a plain function to Navigator.
type Func func(path string)

func (f Func) Navigate(path string) { f(path) }

// History - потокобезопасный навигатор: текущий путь и весь след переходов
type History struct {
	mu    sync.RWMutex
	trail []string
}

func NewHistory(start string) *History {
	return &History{trail: []string{start}}
}

func (h *History) Navigate(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.trail = append(h.trail, path)
}

func (h *History) Current() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.trail) == 0 {
		return ""
	}
	return h.trail[len(h.trail)-1]
}

// Trail returns a copy of every path visited, oldest first.
func (h *History) Trail() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.trail...)
}

// Visited reports whether path was navigated to at any point.
func (h *History) Visited(path string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, p := range h.trail {
		if p == path {
			return true
		}
	}
	return false
}

func ProfilePath(username string) string {
	return "/profile/" + username
}
