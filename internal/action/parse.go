package action

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrParse matches every error returned by Parse.
var ErrParse = errors.New("action: parse failed")

// ParseError describes why a reply could not be turned into an Action.
type ParseError struct {
	Reason string
	Input  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("action: %s: %v", e.Reason, e.Err)
	}
	return "action: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// Label is the leading marker some models put in front of the action body.
const Label = "Action:"

// fields lists the keys each variant requires, besides `type`. Other keys are
// ignored.
var fields = map[Kind][]string{
	KindNewScene:            {"name", "desc"},
	KindAddToInventory:      {"item", "message"},
	KindRemoveFromInventory: {"item", "message"},
	KindInformation:         {"message"},
	KindEndGame:             {"message"},
}

// Parse decodes a single YAML document holding a mapping into exactly one
// Action. More than one document, an unknown `type`, or a missing or
// non-string field is a *ParseError. Keys the variant does not use are
// ignored.
func Parse(text string) (Action, error) {
	dec := yaml.NewDecoder(strings.NewReader(text))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Reason: "empty document", Input: text}
		}
		return nil, &ParseError{Reason: "invalid yaml", Input: text, Err: err}
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Reason: "more than one document", Input: text, Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, &ParseError{Reason: "empty document", Input: text}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ParseError{Reason: "expected a mapping", Input: text}
	}

	nodes := make(map[string]*yaml.Node, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if _, dup := nodes[key.Value]; dup {
			return nil, &ParseError{Reason: fmt.Sprintf("duplicate field %q", key.Value), Input: text}
		}
		nodes[key.Value] = val
	}

	typ, err := stringField(nodes, "type")
	if err != nil {
		return nil, &ParseError{Reason: err.Error(), Input: text}
	}
	kind := Kind(typ)
	required, ok := fields[kind]
	if !ok {
		return nil, &ParseError{Reason: fmt.Sprintf("unknown action type %q", typ), Input: text}
	}
	values := make(map[string]string, len(required))
	for _, f := range required {
		v, err := stringField(nodes, f)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("%s: %v", kind, err), Input: text}
		}
		values[f] = v
	}

	switch kind {
	case KindNewScene:
		return NewScene{Name: values["name"], Desc: values["desc"]}, nil
	case KindAddToInventory:
		return AddToInventory{Item: values["item"], Message: values["message"]}, nil
	case KindRemoveFromInventory:
		return RemoveFromInventory{Item: values["item"], Message: values["message"]}, nil
	case KindInformation:
		return Information{Message: values["message"]}, nil
	default:
		return EndGame{Message: values["message"]}, nil
	}
}

func stringField(nodes map[string]*yaml.Node, name string) (string, error) {
	n, ok := nodes[name]
	if !ok {
		return "", fmt.Errorf("missing field %q", name)
	}
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return "", fmt.Errorf("field %q must be a string", name)
	}
	return n.Value, nil
}

// ParseReply strips a model reply down to its action body and parses it.
func ParseReply(reply string) (Action, error) {
	return Parse(StripLabel(reply))
}

// StripLabel removes code fences and a leading Label from a reply. When the
// body follows the label on indented lines, the indentation is removed too.
// Fences may sit on either side of the label.
func StripLabel(reply string) string {
	s := stripFences(reply)
	if len(s) >= len(Label) && strings.EqualFold(s[:len(Label)], Label) {
		s = strings.TrimLeft(s[len(Label):], " \t")
		s = strings.TrimLeft(s, "\r\n")
		s = stripFences(dedent(s))
	}
	return strings.TrimSpace(s)
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```yaml")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func dedent(s string) string {
	lines := strings.Split(s, "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return s
	}
	for i, line := range lines {
		if len(line) >= indent {
			lines[i] = line[indent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
