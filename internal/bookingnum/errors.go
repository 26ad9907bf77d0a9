package bookingnum

import (
	"errors"
	"fmt"
)

var (
	ErrExhausted       = errors.New("booking number space exhausted")
	ErrTemplateMissing = errors.New("custom format requires a template")
	ErrYachtRequired   = errors.New("yacht-sequential format requires a yacht id or custom prefix")
	ErrUnknownFormat   = errors.New("unknown booking number format")
)

type UnknownTokenError struct {
	Token string
}

func (e UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown token in custom template: {%s}", e.Token)
}

type ExhaustedError struct {
	Attempts int
	Last     string
}

func (e ExhaustedError) Error() string {
	return fmt.Sprintf("no unique booking number after %d attempts (last candidate %q)", e.Attempts, e.Last)
}

func (e ExhaustedError) Unwrap() error { return ErrExhausted }
