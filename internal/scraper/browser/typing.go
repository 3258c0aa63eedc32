package browser

import (
	"math/rand"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
)

// TypeHuman types text into an element with human-like timing. It uses
// Element.Type() so proper keydown/keyup events fire, with a small random
// pause (40-140ms) between keystrokes. Login forms watch for paste-speed
// input, so credentials go in this way.
func TypeHuman(el *rod.Element, text string) error {
	for _, char := range text {
		if err := el.Type(input.Key(char)); err != nil {
			return err
		}
		time.Sleep(time.Duration(40+rand.Intn(100)) * time.Millisecond)
	}
	return nil
}

// TypeFast types text without inter-key delays, for values no portal
// scrutinizes for paste-speed input (one-time codes, filter fields).
// Keyboard events still fire per character.
func TypeFast(el *rod.Element, text string) error {
	keys := make([]input.Key, 0, len(text))
	for _, char := range text {
		keys = append(keys, input.Key(char))
	}
	return el.Type(keys...)
}
