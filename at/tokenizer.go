package at

import (
	"bufio"
	"bytes"
	"strings"
)

// Splitter is used for tokenizing ESP-AT module responses. It uses
// the signature of bufio.SplitFunc so it can be directly used with bufio.Scanner.
//
// It splits the input by CRLF line endings and also
// recognizes the raw data input prompt (">"), which the module sends
// without a line ending.
//
// Important: This splitter assumes "No Echo" mode (ATE0). The module turns
// echo back on after every restart, so callers re-send ATE0 once "ready"
// has been seen.
//
// The atEOF parameter indicates whether any more data will be available.
// When true, any remaining data is returned as the final token.
func Splitter(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	// 1. Match data prompt, optionally followed by a space
	if bytes.HasPrefix(data, []byte(Prompt)) {
		n := len(Prompt)
		if len(data) > n && data[n] == ' ' {
			n++
		}
		return n, data[0:len(Prompt)], nil
	}

	// 2. Match standard line ending with CRLF
	if i := bytes.Index(data, []byte(CRLF)); i >= 0 {
		return i + len(CRLF), data[0:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

var _ bufio.SplitFunc = Splitter

// Classify identifies the nature of the module output
func Classify(line string) ResponseType {
	if line == Prompt {
		return TypePrompt
	}

	// Direct matches for final results
	switch line {
	case OK, ERROR, FAIL, SendOK, SendFail:
		return TypeFinal
	case BusyP, BusyS:
		// The module drops a command that arrives while it is busy
		return TypeFinal
	case UrcReady, UrcWifiConnected, UrcWifiGotIP, UrcWifiDisconnect:
		return TypeURC
	}

	// Prefix matches
	switch {
	case strings.HasPrefix(line, UrcStaConnected),
		strings.HasPrefix(line, UrcStaDisconnected),
		strings.HasPrefix(line, UrcDistStaIP):
		return TypeURC
	default:
		return TypeData
	}
}

// IsSuccess reports whether a final result code means the command succeeded.
func IsSuccess(final string) bool {
	return final == OK || final == SendOK
}
