package main

import (
	"flag"
	"fmt"
	"runtime"

	blackholelens "github.com/blackholelens/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	debug := flag.Bool("debug", false, "Enable the on-screen debug overlay")
	quality := flag.Int("quality", 10, "Render quality, 1-20")
	flag.Parse()

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(1280, 720, "Black Hole Lens", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	logger := blackholelens.NewDefaultLogger("blackholelens", *debug)
	lens := blackholelens.NewLens(window, logger)
	lens.SetDebugOverlay(*debug)
	lens.SetQuality(*quality)

	if err := lens.Init(); err != nil {
		panic(err)
	}

	lens.DeviceLost(func(reason string) {
		logger.Errorf("device lost: %s", reason)
	})

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		if err := lens.Resize(width, height); err != nil {
			logger.Errorf("resize failed: %v", err)
		}
	})

	overlayOn := *debug
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
		if key == glfw.KeyD && action == glfw.Press {
			overlayOn = !overlayOn
			lens.SetDebugOverlay(overlayOn)
		}
	})

	for !window.ShouldClose() {
		glfw.PollEvents()
		if _, err := lens.StepFrame(); err != nil {
			logger.Errorf("step frame failed: %v", err)
			break
		}
		if text := lens.DebugText(); text != "" {
			fmt.Print("\r" + text + "   ")
		}
	}
}
