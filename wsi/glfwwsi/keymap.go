// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package glfwwsi

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gviegas/pbr/wsi"
)

// keyFrom returns the wsi.Key value that represents a
// GLFW key code.
func keyFrom(code glfw.Key) wsi.Key {
	if code < 0 || int(code) >= len(keymap) {
		return wsi.KeyUnknown
	}
	return keymap[code]
}

var keymap [glfw.KeyLast + 1]wsi.Key

func init() {
	for k, v := range map[glfw.Key]wsi.Key{
		glfw.KeyGraveAccent:  wsi.KeyGrave,
		glfw.Key1:            wsi.Key1,
		glfw.Key2:            wsi.Key2,
		glfw.Key3:            wsi.Key3,
		glfw.Key4:            wsi.Key4,
		glfw.Key5:            wsi.Key5,
		glfw.Key6:            wsi.Key6,
		glfw.Key7:            wsi.Key7,
		glfw.Key8:            wsi.Key8,
		glfw.Key9:            wsi.Key9,
		glfw.Key0:            wsi.Key0,
		glfw.KeyMinus:        wsi.KeyMinus,
		glfw.KeyEqual:        wsi.KeyEqual,
		glfw.KeyBackspace:    wsi.KeyBackspace,
		glfw.KeyTab:          wsi.KeyTab,
		glfw.KeyQ:            wsi.KeyQ,
		glfw.KeyW:            wsi.KeyW,
		glfw.KeyE:            wsi.KeyE,
		glfw.KeyR:            wsi.KeyR,
		glfw.KeyT:            wsi.KeyT,
		glfw.KeyY:            wsi.KeyY,
		glfw.KeyU:            wsi.KeyU,
		glfw.KeyI:            wsi.KeyI,
		glfw.KeyO:            wsi.KeyO,
		glfw.KeyP:            wsi.KeyP,
		glfw.KeyLeftBracket:  wsi.KeyLBracket,
		glfw.KeyRightBracket: wsi.KeyRBracket,
		glfw.KeyBackslash:    wsi.KeyBackslash,
		glfw.KeyCapsLock:     wsi.KeyCapsLock,
		glfw.KeyA:            wsi.KeyA,
		glfw.KeyS:            wsi.KeyS,
		glfw.KeyD:            wsi.KeyD,
		glfw.KeyF:            wsi.KeyF,
		glfw.KeyG:            wsi.KeyG,
		glfw.KeyH:            wsi.KeyH,
		glfw.KeyJ:            wsi.KeyJ,
		glfw.KeyK:            wsi.KeyK,
		glfw.KeyL:            wsi.KeyL,
		glfw.KeySemicolon:    wsi.KeySemicolon,
		glfw.KeyApostrophe:   wsi.KeyApostrophe,
		glfw.KeyEnter:        wsi.KeyReturn,
		glfw.KeyLeftShift:    wsi.KeyLShift,
		glfw.KeyZ:            wsi.KeyZ,
		glfw.KeyX:            wsi.KeyX,
		glfw.KeyC:            wsi.KeyC,
		glfw.KeyV:            wsi.KeyV,
		glfw.KeyB:            wsi.KeyB,
		glfw.KeyN:            wsi.KeyN,
		glfw.KeyM:            wsi.KeyM,
		glfw.KeyComma:        wsi.KeyComma,
		glfw.KeyPeriod:       wsi.KeyDot,
		glfw.KeySlash:        wsi.KeySlash,
		glfw.KeyRightShift:   wsi.KeyRShift,
		glfw.KeyLeftControl:  wsi.KeyLCtrl,
		glfw.KeyLeftAlt:      wsi.KeyLAlt,
		glfw.KeyLeftSuper:    wsi.KeyLMeta,
		glfw.KeySpace:        wsi.KeySpace,
		glfw.KeyRightSuper:   wsi.KeyRMeta,
		glfw.KeyRightAlt:     wsi.KeyRAlt,
		glfw.KeyRightControl: wsi.KeyRCtrl,
		glfw.KeyEscape:       wsi.KeyEsc,
		glfw.KeyF1:           wsi.KeyF1,
		glfw.KeyF2:           wsi.KeyF2,
		glfw.KeyF3:           wsi.KeyF3,
		glfw.KeyF4:           wsi.KeyF4,
		glfw.KeyF5:           wsi.KeyF5,
		glfw.KeyF6:           wsi.KeyF6,
		glfw.KeyF7:           wsi.KeyF7,
		glfw.KeyF8:           wsi.KeyF8,
		glfw.KeyF9:           wsi.KeyF9,
		glfw.KeyF10:          wsi.KeyF10,
		glfw.KeyF11:          wsi.KeyF11,
		glfw.KeyF12:          wsi.KeyF12,
		glfw.KeyInsert:       wsi.KeyInsert,
		glfw.KeyDelete:       wsi.KeyDelete,
		glfw.KeyHome:         wsi.KeyHome,
		glfw.KeyEnd:          wsi.KeyEnd,
		glfw.KeyPageUp:       wsi.KeyPageUp,
		glfw.KeyPageDown:     wsi.KeyPageDown,
		glfw.KeyUp:           wsi.KeyUp,
		glfw.KeyDown:         wsi.KeyDown,
		glfw.KeyLeft:         wsi.KeyLeft,
		glfw.KeyRight:        wsi.KeyRight,
		glfw.KeyPrintScreen:  wsi.KeySysrq,
		glfw.KeyScrollLock:   wsi.KeyScrollLock,
		glfw.KeyPause:        wsi.KeyPause,
		glfw.KeyNumLock:      wsi.KeyPadNumLock,
		glfw.KeyKPDivide:     wsi.KeyPadSlash,
		glfw.KeyKPMultiply:   wsi.KeyPadStar,
		glfw.KeyKPSubtract:   wsi.KeyPadMinus,
		glfw.KeyKPAdd:        wsi.KeyPadPlus,
		glfw.KeyKP1:          wsi.KeyPad1,
		glfw.KeyKP2:          wsi.KeyPad2,
		glfw.KeyKP3:          wsi.KeyPad3,
		glfw.KeyKP4:          wsi.KeyPad4,
		glfw.KeyKP5:          wsi.KeyPad5,
		glfw.KeyKP6:          wsi.KeyPad6,
		glfw.KeyKP7:          wsi.KeyPad7,
		glfw.KeyKP8:          wsi.KeyPad8,
		glfw.KeyKP9:          wsi.KeyPad9,
		glfw.KeyKP0:          wsi.KeyPad0,
		glfw.KeyKPDecimal:    wsi.KeyPadDot,
		glfw.KeyKPEnter:      wsi.KeyPadEnter,
		glfw.KeyKPEqual:      wsi.KeyPadEqual,
		glfw.KeyF13:          wsi.KeyF13,
		glfw.KeyF14:          wsi.KeyF14,
		glfw.KeyF15:          wsi.KeyF15,
		glfw.KeyF16:          wsi.KeyF16,
		glfw.KeyF17:          wsi.KeyF17,
		glfw.KeyF18:          wsi.KeyF18,
		glfw.KeyF19:          wsi.KeyF19,
		glfw.KeyF20:          wsi.KeyF20,
		glfw.KeyF21:          wsi.KeyF21,
		glfw.KeyF22:          wsi.KeyF22,
		glfw.KeyF23:          wsi.KeyF23,
		glfw.KeyF24:          wsi.KeyF24,
	} {
		keymap[k] = v
	}
}
