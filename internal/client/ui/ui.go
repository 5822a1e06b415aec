// Package ui is the presentation surface the auth stack talks to: transient
// notifications and navigation. Console renders both on a terminal.
package ui

import (
	"fmt"
	"io"
	"sync"
)

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type Navigator interface {
	// Location is the route currently on screen.
	Location() string
	// Navigate switches to an in-app route.
	Navigate(route string)
	// Redirect leaves the app for an external URL such as the logout page.
	Redirect(url string)
}

// Console writes notifications to w and tracks the current route. A Redirect
// brings the session back to the route given as home.
type Console struct {
	mu       sync.Mutex
	w        io.Writer
	location string
	home     string
}

func NewConsole(w io.Writer, home string) *Console {
	return &Console{w: w, location: home, home: home}
}

func (c *Console) Success(msg string) {
	c.printf("[ok] %s\n", msg)
}

func (c *Console) Error(msg string) {
	c.printf("[error] %s\n", msg)
}

func (c *Console) Location() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.location
}

func (c *Console) Navigate(route string) {
	c.mu.Lock()
	c.location = route
	c.mu.Unlock()
	c.printf("-> %s\n", route)
}

func (c *Console) Redirect(url string) {
	c.mu.Lock()
	c.location = c.home
	c.mu.Unlock()
	c.printf("redirected to %s\n", url)
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
}
