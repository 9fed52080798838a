//go:build !(js && wasm)

package capability

// Native builds never have a browser window.
func detectWindow() (window, localStorage bool) {
	return false, false
}
