// Package nfc abstracts the wristband-reading hardware behind a small
// capability with three outcomes: a UID, a cancellation, or an error.  The
// core never touches a radio API directly, so every flow that scans a
// wristband is testable without hardware.
package nfc

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

// ErrCancelled is returned when the operator or guest abandons a scan.
var ErrCancelled = errors.New("wristband read cancelled")

// Device is the raw radio contract.  A technology request session opened
// against the device must always be released, whatever the outcome.
type Device interface {
	// RequestTechnology opens a read session.
	RequestTechnology(ctx context.Context) error
	// ReadTag blocks until a tag is present and returns its UID.
	ReadTag(ctx context.Context) (string, error)
	// CancelTechnologyRequest releases the session.
	CancelTechnologyRequest() error
}

// Read performs one wristband read with a guaranteed release of the
// technology session.  Context cancellation surfaces as ErrCancelled.
func Read(ctx context.Context, d Device) (uid string, err error) {
	if err := d.RequestTechnology(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return "", ErrCancelled
		}
		return "", err
	}
	defer func() {
		// Release regardless of outcome; a stuck session blocks every
		// later scan on the device.
		if cerr := d.CancelTechnologyRequest(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	uid, err = d.ReadTag(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", ErrCancelled
		}
		return "", err
	}
	return uid, nil
}

// Simulator is a Device for terminals without a radio.  Each read waits
// briefly and yields a random UID, matching the development behavior of the
// handheld app.
type Simulator struct {
	Delay time.Duration
}

func (s *Simulator) RequestTechnology(ctx context.Context) error { return ctx.Err() }

func (s *Simulator) ReadTag(ctx context.Context) (string, error) {
	delay := s.Delay
	if delay == 0 {
		delay = 500 * time.Millisecond
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(delay):
	}
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "NFC" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

func (s *Simulator) CancelTechnologyRequest() error { return nil }
