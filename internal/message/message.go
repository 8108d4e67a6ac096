// Package message carries snapshots and shutdown requests between the
// dispatcher, the renderer and the supervisor.
package message

import "github.com/tatianab/text-adventure/internal/models"

// Message is either a StateUpdate or Terminate.
type Message interface {
	isMessage()
}

// StateUpdate carries a snapshot of the model. The receiver owns it.
type StateUpdate struct {
	Model models.Model
}

// Terminate asks the receiver to stop.
type Terminate struct{}

func (StateUpdate) isMessage() {}
func (Terminate) isMessage()   {}
