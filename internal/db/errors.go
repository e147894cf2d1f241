package db

import "errors"

// ErrKeyNotFound is returned by Get for a missing key.
var ErrKeyNotFound = errors.New("db: key not found")

// Op names the store command that failed.
const (
	OpPing = "PING"
	OpGet  = "GET"
	OpMGet = "MGET"
	OpSet  = "SET"
	OpDel  = "DEL"
)

// Error records the failed command and, for single-key commands, its key.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
