package tui

// Key bindings match the external contract in §4.8: arrow/j/k navigate,
// Tab/h/l switch panels, Enter confirms dialogs, Esc closes them, and the
// single-letter mnemonics below dispatch DeviceManager operations.
const (
	keyUp     = "up"
	keyDown   = "down"
	keyJ      = "j"
	keyK      = "k"
	keyTab    = "tab"
	keyH      = "h"
	keyL      = "l"
	keyEnter  = "enter"
	keyEsc    = "esc"
	keyStart  = "s"
	keyStop   = "x"
	keyCreate = "c"
	keyDelete = "d"
	keyWipe   = "w"
	keyRefresh = "r"
	keyQuit   = "q"
	keyCtrlC  = "ctrl+c"
)

const helpText = "↑/↓ j/k:move  tab/h/l:panel  s:start  x:stop  c:create  d:delete  w:wipe  r:refresh  q:quit"
