// Package delivery sends one-time codes to a subject's device.
package delivery

import "fmt"

// DeliveryError reports that a provider could not send a message.
type DeliveryError struct {
	Provider string
	Status   int
	Err      error
}

func (e *DeliveryError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: delivery failed status=%d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: delivery failed: %v", e.Provider, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
