package ir

// ModelState is the observable state of one model record.
type ModelState struct {
	Handle  Handle    `json:"handle"`
	Kind    ModelKind `json:"kind"`
	Text    string    `json:"text"`
	Checked bool      `json:"checked"`
	Editing bool      `json:"editing"`
}

// ViewState is the observable state of one view record.
type ViewState struct {
	Handle   Handle   `json:"handle"`
	Role     Role     `json:"role"`
	Model    Handle   `json:"model"`
	Parent   Parent   `json:"parent"`
	Children []Handle `json:"children,omitempty"`
	Text     string   `json:"text"`
	Style    Style    `json:"style"`
	Editable bool     `json:"editable"`
}

// Snapshot is the complete observable engine state at a tick boundary.
// Models and Views are ordered by handle index.
type Snapshot struct {
	Tick   int64        `json:"tick"`
	Models []ModelState `json:"models"`
	Views  []ViewState  `json:"views"`
	Focus  Handle       `json:"focus"`
}

// Canonical implements Canonicalizer.
func (s Snapshot) Canonical() any {
	models := make([]any, len(s.Models))
	for i, m := range s.Models {
		models[i] = map[string]any{
			"handle":  m.Handle.String(),
			"kind":    string(m.Kind),
			"text":    m.Text,
			"checked": m.Checked,
			"editing": m.Editing,
		}
	}
	views := make([]any, len(s.Views))
	for i, v := range s.Views {
		children := make([]any, len(v.Children))
		for j, c := range v.Children {
			children[j] = c.String()
		}
		views[i] = map[string]any{
			"handle":   v.Handle.String(),
			"role":     string(v.Role),
			"model":    v.Model.String(),
			"parent":   v.Parent.String(),
			"children": children,
			"text":     v.Text,
			"style":    string(v.Style),
			"editable": v.Editable,
		}
	}
	return map[string]any{
		"tick":   s.Tick,
		"models": models,
		"views":  views,
		"focus":  s.Focus.String(),
	}
}

// Digest returns the content digest of the snapshot.
func (s Snapshot) Digest() (string, error) {
	return Digest(DomainSnapshot, s)
}

// Model returns the state of model h, if present.
func (s Snapshot) Model(h Handle) (ModelState, bool) {
	for _, m := range s.Models {
		if m.Handle == h {
			return m, true
		}
	}
	return ModelState{}, false
}

// ViewsOf returns the views whose back-reference is model.
func (s Snapshot) ViewsOf(model Handle) []ViewState {
	var out []ViewState
	for _, v := range s.Views {
		if v.Model == model {
			out = append(out, v)
		}
	}
	return out
}

// Todos returns the todo models in handle order.
func (s Snapshot) Todos() []ModelState {
	var out []ModelState
	for _, m := range s.Models {
		if m.Kind == ModelTodo {
			out = append(out, m)
		}
	}
	return out
}
