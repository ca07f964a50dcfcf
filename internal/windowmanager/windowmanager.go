// Package windowmanager is the X11/EWMH-backed concrete implementation of
// the activation.Window capability. It finds the gallery window by its
// title convention and drives it with EWMH client messages, the same
// technique used throughout this codebase's X11 integration.
package windowmanager

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// TitlePrefix is the window-title convention used to locate the gallery
// window for a given workspace: "NextGallery — <workspace_key prefix>".
const TitlePrefix = "NextGallery — "

// NavigateAtomName is the custom client-message atom used to ask an
// already-running gallery window to jump to a named view.
const NavigateAtomName = "_NEXTGALLERY_NAVIGATE"

const sourceIndication = 2 // pager/direct action, per EWMH spec section 4

// Connection wraps an X11 connection scoped to one workspace's window.
type Connection struct {
	xu           *xgbutil.XUtil
	root         xproto.Window
	workspaceKey string
}

// Connect establishes a new X11 connection scoped to workspaceKey. The
// gallery window itself is looked up by its title convention on each
// method call, not here, so it is not an error for the window to not (yet)
// exist; IsValid reflects that.
func Connect(workspaceKey string) (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("windowmanager: connect to X11: %w", err)
	}
	return &Connection{xu: xu, root: xu.RootWin(), workspaceKey: workspaceKey}, nil
}

// Close disconnects from the X11 server.
func (c *Connection) Close() {
	c.xu.Conn().Close()
}

func (c *Connection) titleSuffix() string {
	if len(c.workspaceKey) < 8 {
		return c.workspaceKey
	}
	return c.workspaceKey[:8]
}

// findWindow locates the gallery window by title convention. Returns
// (0, false) if no matching window exists.
func (c *Connection) findWindow() (xproto.Window, bool) {
	clients, err := ewmh.ClientListGet(c.xu)
	if err != nil {
		return 0, false
	}
	want := TitlePrefix + c.titleSuffix()
	for _, win := range clients {
		name, err := ewmh.WmNameGet(c.xu, win)
		if err != nil {
			continue
		}
		if strings.HasPrefix(name, want) {
			return win, true
		}
	}
	return 0, false
}

// IsValid reports whether the gallery window for this workspace currently
// exists in the window manager's client list.
func (c *Connection) IsValid() bool {
	_, ok := c.findWindow()
	return ok
}

// IsMinimized reports whether the window carries _NET_WM_STATE_HIDDEN.
func (c *Connection) IsMinimized() bool {
	win, ok := c.findWindow()
	if !ok {
		return false
	}
	states, err := ewmh.WmStateGet(c.xu, win)
	if err != nil {
		return false
	}
	for _, s := range states {
		if s == "_NET_WM_STATE_HIDDEN" {
			return true
		}
	}
	return false
}

// IsForeground reports whether the window is the EWMH active window.
func (c *Connection) IsForeground() bool {
	win, ok := c.findWindow()
	if !ok {
		return false
	}
	active, err := ewmh.ActiveWindowGet(c.xu)
	if err != nil {
		return false
	}
	return active == win
}

// BringToFront sends a _NET_ACTIVE_WINDOW client message to raise and
// focus the window.
func (c *Connection) BringToFront() error {
	win, ok := c.findWindow()
	if !ok {
		return fmt.Errorf("windowmanager: no window to bring to front")
	}
	return c.sendClientMessage(win, "_NET_ACTIVE_WINDOW", []uint32{sourceIndication, 0, 0, 0, 0})
}

// RestoreFromMinimized clears _NET_WM_STATE_HIDDEN and then raises the
// window, per the EWMH _NET_WM_STATE client-message protocol (action 0 =
// remove).
func (c *Connection) RestoreFromMinimized() error {
	win, ok := c.findWindow()
	if !ok {
		return fmt.Errorf("windowmanager: no window to restore")
	}
	const actionRemove = 0
	if err := ewmh.WmStateReq(c.xu, win, actionRemove, "_NET_WM_STATE_HIDDEN"); err != nil {
		return fmt.Errorf("windowmanager: restore from minimized: %w", err)
	}
	return c.BringToFront()
}

// FlashTaskbar requests attention via _NET_WM_STATE_DEMANDS_ATTENTION
// (action 1 = add).
func (c *Connection) FlashTaskbar() error {
	win, ok := c.findWindow()
	if !ok {
		return fmt.Errorf("windowmanager: no window to flash")
	}
	const actionAdd = 1
	if err := ewmh.WmStateReq(c.xu, win, actionAdd, "_NET_WM_STATE_DEMANDS_ATTENTION"); err != nil {
		return fmt.Errorf("windowmanager: flash taskbar: %w", err)
	}
	return nil
}

// NavigateTo sends a custom _NEXTGALLERY_NAVIGATE client message carrying
// the requested view name, encoded across the 32-bit data words since
// EWMH client messages cannot carry arbitrary strings directly.
func (c *Connection) NavigateTo(view string) error {
	win, ok := c.findWindow()
	if !ok {
		return fmt.Errorf("windowmanager: no window to navigate")
	}
	data := encodeViewName(view)
	return c.sendClientMessage(win, NavigateAtomName, data)
}

// encodeViewName packs up to 20 bytes of an ASCII view name into five
// 32-bit little-endian words, matching the shape a client-message data
// payload requires.
func encodeViewName(view string) []uint32 {
	b := []byte(view)
	if len(b) > 20 {
		b = b[:20]
	}
	var words [5]uint32
	for i := 0; i < len(b); i++ {
		words[i/4] |= uint32(b[i]) << (8 * uint(i%4))
	}
	return words[:]
}

func (c *Connection) sendClientMessage(win xproto.Window, atomName string, data []uint32) error {
	atomReply, err := xproto.InternAtom(c.xu.Conn(), false, uint16(len(atomName)), atomName).Reply()
	if err != nil {
		return fmt.Errorf("windowmanager: intern atom %s: %w", atomName, err)
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New(data),
	}

	return xproto.SendEventChecked(
		c.xu.Conn(),
		false,
		c.root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
