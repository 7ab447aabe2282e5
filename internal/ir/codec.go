package ir

import (
	"encoding/json"
	"fmt"
)

// envelope is the flat JSON shape used to journal actions and notifications.
// Kind selects which of the remaining fields are meaningful.
type envelope struct {
	Kind    string          `json:"kind"`
	Model   *Handle         `json:"model,omitempty"`
	View    *Handle         `json:"view,omitempty"`
	Type    ModelKind       `json:"type,omitempty"`
	Text    *string         `json:"text,omitempty"`
	Flag    *bool           `json:"flag,omitempty"`
	Key     Key             `json:"key,omitempty"`
	Width   int             `json:"width,omitempty"`
	Height  int             `json:"height,omitempty"`
	Payload json.RawMessage `json:"action,omitempty"`
}

// EncodeAction returns the JSON envelope of an action.
func EncodeAction(a Action) ([]byte, error) {
	env, err := actionEnvelope(a)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

func actionEnvelope(a Action) (envelope, error) {
	env := envelope{Kind: a.Kind()}
	switch act := a.(type) {
	case Create:
		env.Type, env.Text = act.Model, &act.Text
	case Delete:
		env.Model = &act.Model
	case UpdateText:
		env.Model, env.Text = &act.Model, &act.Text
	case UpdateChecked:
		env.Model, env.Flag = &act.Model, &act.Checked
	case Edit:
		env.Model, env.Flag = &act.Model, &act.Editing
	default:
		return envelope{}, fmt.Errorf("encode action: unknown type %T", a)
	}
	return env, nil
}

// DecodeAction parses an envelope produced by EncodeAction.
func DecodeAction(data []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	return env.action()
}

func (env envelope) action() (Action, error) {
	switch env.Kind {
	case "create":
		if !env.Type.Valid() {
			return nil, fmt.Errorf("decode action: create: invalid model kind %q", env.Type)
		}
		return Create{Model: env.Type, Text: deref(env.Text)}, nil
	case "delete":
		return Delete{Model: derefHandle(env.Model)}, nil
	case "update_text":
		return UpdateText{Model: derefHandle(env.Model), Text: deref(env.Text)}, nil
	case "update_checked":
		return UpdateChecked{Model: derefHandle(env.Model), Checked: derefBool(env.Flag)}, nil
	case "edit":
		return Edit{Model: derefHandle(env.Model), Editing: derefBool(env.Flag)}, nil
	default:
		return nil, fmt.Errorf("decode action: unknown kind %q", env.Kind)
	}
}

// EncodeNotification returns the JSON envelope of a notification.
func EncodeNotification(n Notification) ([]byte, error) {
	env := envelope{Kind: n.Kind()}
	switch note := n.(type) {
	case Pointer:
		env.View, env.Flag = &note.View, &note.Pressed
	case TextChanged:
		env.View, env.Text = &note.View, &note.Text
	case KeyPressed:
		env.Key = note.Key
	case Resize:
		env.Width, env.Height = note.Width, note.Height
	case Dispatch:
		payload, err := EncodeAction(note.Action)
		if err != nil {
			return nil, fmt.Errorf("encode notification: %w", err)
		}
		env.Payload = payload
	default:
		return nil, fmt.Errorf("encode notification: unknown type %T", n)
	}
	return json.Marshal(env)
}

// DecodeNotification parses an envelope produced by EncodeNotification.
func DecodeNotification(data []byte) (Notification, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}
	switch env.Kind {
	case "pointer":
		return Pointer{View: derefHandle(env.View), Pressed: derefBool(env.Flag)}, nil
	case "text_changed":
		return TextChanged{View: derefHandle(env.View), Text: deref(env.Text)}, nil
	case "key_pressed":
		return KeyPressed{Key: env.Key}, nil
	case "resize":
		return Resize{Width: env.Width, Height: env.Height}, nil
	case "dispatch":
		a, err := DecodeAction(env.Payload)
		if err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		return Dispatch{Action: a}, nil
	default:
		return nil, fmt.Errorf("decode notification: unknown kind %q", env.Kind)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBool(b *bool) bool {
	return b != nil && *b
}

func derefHandle(h *Handle) Handle {
	if h == nil {
		return Nil
	}
	return *h
}
