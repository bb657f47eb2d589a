// Package script runs Lua functions as sprout callbacks.
//
// A Lua callback receives a table describing the sprite and may change any
// of its fields; the changes are written back to the sprite when the
// function returns:
//
//	function on_hit(sprite)
//	  sprite.r, sprite.g, sprite.b = 1, 0.2, 0.2
//	  sprite.scale_x = sprite.scale_x * 1.1
//	end
package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/phanxgames/sprout"
)

// Engine wraps a single gopher-lua VM.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine with the standard libraries opened.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	return &Engine{vm: vm, log: log}
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("run lua: %w", err)
	}
	return nil
}

// DoFile loads and runs a Lua file.
func (e *Engine) DoFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// Has reports whether a global Lua function with the given name exists.
func (e *Engine) Has(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Callback returns a sprout.Callback that calls the global Lua function
// name. The function is looked up on every call, so redefining it takes
// effect immediately. Errors are logged, never propagated into the tick.
func (e *Engine) Callback(name string) sprout.Callback {
	return luaCallback{engine: e, name: name}
}

// Register makes each named Lua function available to lib's call actions.
func (e *Engine) Register(lib *sprout.Library, names ...string) error {
	for _, name := range names {
		if !e.Has(name) {
			return fmt.Errorf("lua function %q not defined", name)
		}
		lib.RegisterCallback(name, e.Callback(name))
	}
	return nil
}

type luaCallback struct {
	engine *Engine
	name   string
}

func (c luaCallback) Invoke(s *sprout.Sprite) {
	c.engine.call(c.name, s)
}

func (e *Engine) call(name string, s *sprout.Sprite) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua function not found", zap.String("func", name))
		return
	}

	t := e.spriteTable(s)
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua callback error", zap.String("func", name), zap.Error(err))
		return
	}
	readSprite(t, s)
}

func (e *Engine) spriteTable(s *sprout.Sprite) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("id", lua.LString(s.ID().String()))
	t.RawSetString("name", lua.LString(s.Name))
	t.RawSetString("x", lua.LNumber(s.X))
	t.RawSetString("y", lua.LNumber(s.Y))
	t.RawSetString("rotation", lua.LNumber(s.Rotation))
	t.RawSetString("scale_x", lua.LNumber(s.ScaleX))
	t.RawSetString("scale_y", lua.LNumber(s.ScaleY))
	t.RawSetString("anchor_x", lua.LNumber(s.AnchorX))
	t.RawSetString("anchor_y", lua.LNumber(s.AnchorY))
	t.RawSetString("opacity", lua.LNumber(s.Opacity))
	t.RawSetString("r", lua.LNumber(s.Color.R))
	t.RawSetString("g", lua.LNumber(s.Color.G))
	t.RawSetString("b", lua.LNumber(s.Color.B))
	t.RawSetString("visible", lua.LBool(s.Visible))
	t.RawSetString("flip_x", lua.LBool(s.FlipX))
	t.RawSetString("flip_y", lua.LBool(s.FlipY))
	return t
}

// readSprite copies the table back. Fields of the wrong type are ignored.
func readSprite(t *lua.LTable, s *sprout.Sprite) {
	num := func(key string, dst *float64) {
		if v, ok := t.RawGetString(key).(lua.LNumber); ok {
			*dst = float64(v)
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := t.RawGetString(key).(lua.LBool); ok {
			*dst = bool(v)
		}
	}
	if v, ok := t.RawGetString("name").(lua.LString); ok {
		s.Name = string(v)
	}
	num("x", &s.X)
	num("y", &s.Y)
	num("rotation", &s.Rotation)
	num("scale_x", &s.ScaleX)
	num("scale_y", &s.ScaleY)
	num("anchor_x", &s.AnchorX)
	num("anchor_y", &s.AnchorY)
	num("opacity", &s.Opacity)
	num("r", &s.Color.R)
	num("g", &s.Color.G)
	num("b", &s.Color.B)
	flag("visible", &s.Visible)
	flag("flip_x", &s.FlipX)
	flag("flip_y", &s.FlipY)
}
