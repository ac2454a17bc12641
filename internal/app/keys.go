package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/eloud/internal/command"
)

// keystroke is a resolved key event: the operation to invoke and,
// for self-insert, the text being typed.
type keystroke struct {
	op    string
	input string
}

// resolveKey maps a terminal key event to an editor operation.
// Returns false for keys the demo host does not handle.
func resolveKey(ev *tcell.EventKey) (keystroke, bool) {
	alt := ev.Modifiers()&tcell.ModAlt != 0
	ctrl := ev.Modifiers()&tcell.ModCtrl != 0

	switch ev.Key() {
	case tcell.KeyRight:
		if alt {
			return keystroke{op: command.OpForwardWord}, true
		}
		return keystroke{op: command.OpForwardChar}, true
	case tcell.KeyLeft:
		if alt {
			return keystroke{op: command.OpBackwardWord}, true
		}
		return keystroke{op: command.OpBackwardChar}, true
	case tcell.KeyDown:
		return keystroke{op: command.OpNextLine}, true
	case tcell.KeyUp:
		return keystroke{op: command.OpPrevLine}, true
	case tcell.KeyHome:
		if ctrl {
			return keystroke{op: command.OpBufferStart}, true
		}
		return keystroke{op: command.OpLineStart}, true
	case tcell.KeyEnd:
		if ctrl {
			return keystroke{op: command.OpBufferEnd}, true
		}
		return keystroke{op: command.OpLineEnd}, true
	case tcell.KeyCtrlA:
		return keystroke{op: command.OpLineStart}, true
	case tcell.KeyCtrlE:
		return keystroke{op: command.OpLineEnd}, true
	case tcell.KeyCtrlF:
		return keystroke{op: command.OpForwardChar}, true
	case tcell.KeyCtrlB:
		return keystroke{op: command.OpBackwardChar}, true
	case tcell.KeyCtrlN:
		return keystroke{op: command.OpNextLine}, true
	case tcell.KeyCtrlP:
		return keystroke{op: command.OpPrevLine}, true
	case tcell.KeyCtrlK:
		return keystroke{op: command.OpKillLine}, true
	case tcell.KeyDelete, tcell.KeyCtrlD:
		return keystroke{op: command.OpDeleteChar}, true
	case tcell.KeyTab:
		return keystroke{op: command.OpCompleteWord}, true
	case tcell.KeyEnter:
		return keystroke{op: command.OpSelfInsert, input: "\n"}, true
	case tcell.KeyRune:
		if alt {
			switch ev.Rune() {
			case 'f':
				return keystroke{op: command.OpForwardWord}, true
			case 'b':
				return keystroke{op: command.OpBackwardWord}, true
			}
			return keystroke{}, false
		}
		return keystroke{op: command.OpSelfInsert, input: string(ev.Rune())}, true
	}
	return keystroke{}, false
}
