// Package action defines the closed set of game effects exchanged between the
// content generator and the dispatcher.
package action

// Kind is the discriminator carried in the `type` field of an encoded action.
type Kind string

const (
	KindNewScene            Kind = "NewScene"
	KindAddToInventory      Kind = "AddToInventory"
	KindRemoveFromInventory Kind = "RemoveFromInventory"
	KindInformation         Kind = "Information"
	KindEndGame             Kind = "EndGame"
)

// Action is one of NewScene, AddToInventory, RemoveFromInventory,
// Information or EndGame. The set is closed; no other type implements it.
type Action interface {
	Kind() Kind
	isAction()
}

// NewScene replaces the current scene.
type NewScene struct {
	Name string
	Desc string
}

// AddToInventory gives the player an item.
type AddToInventory struct {
	Item    string
	Message string
}

// RemoveFromInventory takes an item away from the player.
type RemoveFromInventory struct {
	Item    string
	Message string
}

// Information is narration with no effect on the scene or inventory.
type Information struct {
	Message string
}

// EndGame finishes the session. No further input is accepted afterwards.
type EndGame struct {
	Message string
}

func (NewScene) Kind() Kind            { return KindNewScene }
func (AddToInventory) Kind() Kind      { return KindAddToInventory }
func (RemoveFromInventory) Kind() Kind { return KindRemoveFromInventory }
func (Information) Kind() Kind         { return KindInformation }
func (EndGame) Kind() Kind             { return KindEndGame }

func (NewScene) isAction()            {}
func (AddToInventory) isAction()      {}
func (RemoveFromInventory) isAction() {}
func (Information) isAction()         {}
func (EndGame) isAction()             {}

// Narration returns the line an action contributes to the scene history.
// NewScene contributes none; it replaces the scene instead.
func Narration(a Action) (string, bool) {
	switch a := a.(type) {
	case AddToInventory:
		return a.Message, true
	case RemoveFromInventory:
		return a.Message, true
	case Information:
		return a.Message, true
	case EndGame:
		return a.Message, true
	}
	return "", false
}

// The encoders below keep `type` as the first key so that history entries
// sent back to the model look exactly like the replies it is asked to write.

func (a NewScene) MarshalYAML() (any, error) {
	return struct {
		Type Kind   `yaml:"type"`
		Name string `yaml:"name"`
		Desc string `yaml:"desc"`
	}{KindNewScene, a.Name, a.Desc}, nil
}

func (a AddToInventory) MarshalYAML() (any, error) {
	return itemAction{KindAddToInventory, a.Item, a.Message}, nil
}

func (a RemoveFromInventory) MarshalYAML() (any, error) {
	return itemAction{KindRemoveFromInventory, a.Item, a.Message}, nil
}

func (a Information) MarshalYAML() (any, error) {
	return messageAction{KindInformation, a.Message}, nil
}

func (a EndGame) MarshalYAML() (any, error) {
	return messageAction{KindEndGame, a.Message}, nil
}

type itemAction struct {
	Type    Kind   `yaml:"type"`
	Item    string `yaml:"item"`
	Message string `yaml:"message"`
}

type messageAction struct {
	Type    Kind   `yaml:"type"`
	Message string `yaml:"message"`
}
