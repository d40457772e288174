package websocket

import "errors"

var (
	errInputDisabled = errors.New("input is disabled")
	errBadMessage    = errors.New("malformed message")
	errUnknownButton = errors.New("unknown button")
	errUnknownState  = errors.New("unknown button state, want pressed or released")
)
