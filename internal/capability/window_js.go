//go:build js && wasm

package capability

import "syscall/js"

func detectWindow() (window, localStorage bool) {
	w := js.Global().Get("window")
	if w.IsUndefined() || w.IsNull() {
		return false, false
	}
	ls := w.Get("localStorage")
	return true, !ls.IsUndefined() && !ls.IsNull()
}
