package form

import "strconv"

// InvalidFieldErrors returns one message per live field under scope that
// failed its format guard.
func InvalidFieldErrors(scope *Node) []string {
	var out []string
	for _, n := range scope.FindLive(ClassInvalid) {
		out = append(out, "Value for "+n.FirstClass()+" is invalid")
	}
	return out
}

// RenderDiagnostics writes errors and warnings into a diagnostics target
// built by Validation.
func RenderDiagnostics(target *Node, errs, warnings []string) {
	status := target.First("validate_status")
	message := target.First("validate_message")
	if status != nil {
		status.RemoveClass("fa-check").RemoveClass("fa-exclamation-triangle")
		status.SetText("")
	}
	if message != nil {
		message.Empty()
	}
	if len(errs) > 0 {
		if status != nil {
			status.AddClass("fa").AddClass("fa-exclamation-triangle")
			status.SetAttr("color", "red")
			status.SetText(" " + strconv.Itoa(len(errs)))
		}
		if message != nil {
			message.Append(list(errs))
			message.SetAttr("background-color", "pink")
			message.Hidden = false
		}
	} else {
		if status != nil {
			status.AddClass("fa").AddClass("fa-check")
			status.SetAttr("color", "green")
		}
		if message != nil {
			message.RemoveAttr("background-color")
			message.Hidden = true
		}
	}

	wstatus := target.First("validate_warning_status")
	wmessage := target.First("validate_warning_message")
	if wmessage != nil {
		wmessage.Empty()
	}
	show := len(warnings) > 0
	if wstatus != nil {
		wstatus.Hidden = !show
		wstatus.SetText("")
		if show {
			wstatus.SetText(" " + strconv.Itoa(len(warnings)))
		}
	}
	if wmessage != nil {
		wmessage.Hidden = !show
		if show {
			wmessage.Append(list(warnings))
		}
	}
}

func list(items []string) *Node {
	ul := New("ul")
	for _, s := range items {
		ul.Append(New("li").SetText(s))
	}
	return ul
}

// ToggleValidateMessage flips the visibility of the first selector match
// under n.
func ToggleValidateMessage(n *Node, selector string) {
	if m := n.First(selector); m != nil {
		m.Hidden = !m.Hidden
	}
}

// Items returns the text of the list entries rendered in a panel.
func Items(panel *Node) []string {
	var out []string
	for _, li := range panel.Find("li") {
		out = append(out, li.Text())
	}
	return out
}
