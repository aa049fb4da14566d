package form

// Div creates a container node.
func Div(classes ...string) *Node {
	return New("div", classes...)
}

// EditText creates a free-text field. The field class must come first:
// diagnostics name fields by it.
func EditText(class string) *Node {
	n := New("div", class, "edittext")
	n.Editable = true
	return n
}

// FloatText creates a text field guarded by the float grammar.
func FloatText(class string) *Node {
	return EditText(class).AddClass("floattext")
}

// IntegerText creates a text field guarded by the integer grammar.
func IntegerText(class string) *Node {
	return EditText(class).AddClass("integertext")
}

// Selector creates an enum selector bound to the enum at path. Options are
// filled by InitSelector.
func Selector(class, path string) *Node {
	return New("div", class, "selector").SetAttr("data-proto", path)
}

// OptionalBool creates a tri-state boolean selector.
func OptionalBool(class string) *Node {
	return New("div", class, "optional_bool")
}

func Button(class, label string, fn Handler) *Node {
	return New("button", class).SetText(label).OnClick(fn)
}

// MetricGroup creates the value/units/precision fields for a measured
// quantity. An empty enum path omits the units selector.
func MetricGroup(prefix, unitsPath string) *Node {
	g := Div(prefix).Append(FloatText(prefix + "_value"))
	if unitsPath != "" {
		g.Append(Selector(prefix+"_units", unitsPath))
	}
	return g.Append(FloatText(prefix + "_precision"))
}

// Validation creates a diagnostics target: a validate button, a status
// indicator and the error and warning panels.
func Validation(id string, fn Handler) *Node {
	v := Div("validate")
	btn := Button("validate_button", "validate", fn)
	if id != "" {
		v.ID = id
		btn.ID = id + "_button"
	}
	status := New("span", "validate_status").OnClick(func(n *Node) {
		ToggleValidateMessage(n.Parent(), "validate_message")
	})
	msg := Div("validate_message")
	msg.Hidden = true
	wstatus := New("span", "validate_warning_status").OnClick(func(n *Node) {
		ToggleValidateMessage(n.Parent(), "validate_warning_message")
	})
	wstatus.Hidden = true
	wmsg := Div("validate_warning_message")
	wmsg.Hidden = true
	return v.Append(btn, status, msg, wstatus, wmsg)
}

// Fieldset creates a titled field group. The legend holds the group's
// validation controls.
func Fieldset(id, title string, validation *Node, body ...*Node) *Node {
	legend := New("legend").SetText(title)
	if validation != nil {
		legend.Append(validation)
	}
	fs := New("fieldset").WithID(id).Append(legend)
	return fs.Append(body...)
}
