//go:build js && wasm

package main

import (
	"errors"
	"syscall/js"

	"github.com/viewfinder/viewfinder/internal/engine"
)

var eng *engine.Engine

// jsCamera starts the page's video element through the startCamera(front)
// hook the page registers.
type jsCamera struct{}

func (jsCamera) Start(front bool) error {
	hook := js.Global().Get("startCamera")
	if hook.Type() != js.TypeFunction {
		return errors.New("startCamera hook not registered")
	}
	hook.Invoke(front)
	return nil
}

// The video element is sized to cover the window.
func (jsCamera) CurrentFrameSize() (float64, float64) {
	return js.Global().Get("innerWidth").Float(), js.Global().Get("innerHeight").Float()
}

func main() {
	var err error
	eng, err = engine.NewEngine(engine.Options{
		Camera: jsCamera{},
		Width:  js.Global().Get("innerWidth").Float(),
		Height: js.Global().Get("innerHeight").Float(),
	})
	if err != nil {
		js.Global().Get("console").Call("error", "viewfinder: "+err.Error())
		return
	}

	// Create the engine API object
	viewfinderEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	viewfinderEngine.Set("pointerDown", js.FuncOf(pointerDown))
	viewfinderEngine.Set("pointerMove", js.FuncOf(pointerMove))
	viewfinderEngine.Set("pointerUp", js.FuncOf(pointerUp))
	viewfinderEngine.Set("setMode", js.FuncOf(setMode))
	viewfinderEngine.Set("selectRatio", js.FuncOf(selectRatio))
	viewfinderEngine.Set("deleteSelected", js.FuncOf(deleteSelected))
	viewfinderEngine.Set("switchCamera", js.FuncOf(switchCamera))
	viewfinderEngine.Set("resize", js.FuncOf(resize))
	viewfinderEngine.Set("loadSnapshot", js.FuncOf(loadSnapshot))
	viewfinderEngine.Set("tick", js.FuncOf(tick))

	// --- Queries (frontend ← backend) ---
	viewfinderEngine.Set("render", js.FuncOf(render))
	viewfinderEngine.Set("hitTest", js.FuncOf(hitTest))
	viewfinderEngine.Set("getSnapshot", js.FuncOf(getSnapshot))
	viewfinderEngine.Set("hasSelection", js.FuncOf(hasSelection))
	viewfinderEngine.Set("ratios", js.FuncOf(ratios))
	viewfinderEngine.Set("getMode", js.FuncOf(getMode))
	viewfinderEngine.Set("facing", js.FuncOf(facing))

	// Register on global scope
	js.Global().Set("viewfinderEngine", viewfinderEngine)

	// Signal that WASM is ready
	js.Global().Set("viewfinderWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func result(err error) interface{} {
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Command Handlers ---

func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.PointerDown(args[0].Float(), args[1].Float()))
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.PointerMove(args[0].Float(), args[1].Float()))
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.PointerUp())
}

func setMode(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing mode"})
	}
	return result(eng.SetMode(args[0].String()))
}

func selectRatio(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing ratio"})
	}
	return result(eng.SelectRatio(args[0].String()))
}

func deleteSelected(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.DeleteSelected())
}

func switchCamera(this js.Value, args []js.Value) interface{} {
	if err := eng.SwitchCamera(); err != nil {
		js.Global().Get("console").Call("warn", "viewfinder: "+err.Error())
		return result(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "facing": eng.Facing()})
}

func resize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.Resize(args[0].Float(), args[1].Float()))
}

func loadSnapshot(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing snapshot JSON"})
	}
	return result(eng.LoadSnapshot([]byte(args[0].String())))
}

func tick(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Tick())
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float()))
}

func getSnapshot(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSnapshot())
}

func hasSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.HasSelection())
}

func ratios(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetRatios())
}

func getMode(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetMode())
}

func facing(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Facing())
}
