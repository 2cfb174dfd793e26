package trace

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	//ErrNoHops is the cause of a ParseError when a response yields no hops
	ErrNoHops = errors.New("no hops recorded")

	//ErrInvalidIP is the cause of a ParseError when an RTT-bearing token
	//carries an address that does not validate
	ErrInvalidIP = errors.New("invalid IP address")
)

//ParseError describes why a response could not be turned into a Log
type ParseError struct {
	Line  int    // 1-based line of the cleaned response, 0 when not line specific
	Token string // offending token, if any
	Err   error
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("parse failure at line %d (%q): %v", e.Line, e.Token, e.Err)
	}
	return fmt.Sprintf("parse failure: %v", e.Err)
}

//Cause lets errors.Cause reach the sentinel
func (e *ParseError) Cause() error { return e.Err }

//Unwrap lets errors.Is reach the sentinel
func (e *ParseError) Unwrap() error { return e.Err }
