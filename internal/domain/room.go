package domain

import (
	"errors"
	"strings"
	"unicode"
)

const MaxRoomCodeLen = 64

var ErrInvalidRoomCode = errors.New("invalid room code")

// RoomCode identifies a call session. Codes are compared
// case-insensitively, so they are stored normalized.
type RoomCode string

// NormalizeRoomCode trims and lowercases a client-supplied code and
// validates it. Empty codes, oversized codes and codes containing
// control or space characters are rejected.
func NormalizeRoomCode(raw string) (RoomCode, error) {
	code := strings.ToLower(strings.TrimSpace(raw))
	if code == "" || len(code) > MaxRoomCodeLen {
		return "", ErrInvalidRoomCode
	}
	for _, r := range code {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return "", ErrInvalidRoomCode
		}
	}
	return RoomCode(code), nil
}
