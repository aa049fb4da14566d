package form

import (
	"fmt"
	"strconv"

	"github.com/antonkast-google/ord-editor/internal/models"
)

// Tri-state boolean option values.
const (
	BoolUnspecified = "UNSPECIFIED"
	BoolTrue        = "TRUE"
	BoolFalse       = "FALSE"
)

// selectElement returns the select element of a selector: n itself or its
// first select descendant.
func selectElement(n *Node) *Node {
	if n == nil {
		return nil
	}
	if n.Tag == "select" {
		return n
	}
	return n.First("select")
}

func selected(sel *Node) *Option {
	if sel == nil || len(sel.Options) == 0 {
		return nil
	}
	for _, o := range sel.Options {
		if o.Selected {
			return o
		}
	}
	return sel.Options[0]
}

func selectValue(sel *Node, value string) {
	if sel == nil {
		return
	}
	for _, o := range sel.Options {
		o.Selected = o.Value == value
	}
}

// InitSelector fills n's select element with the options of the enum named
// by its data-proto attribute. An unresolved path leaves the selector
// without options and returns models.ErrUnknownEnum; callers log it and
// carry on.
func InitSelector(n *Node, enums *models.EnumRegistry) error {
	sel := New("select")
	n.Append(sel)
	path := n.Attr("data-proto")
	e, err := enums.Lookup(path)
	if err != nil {
		return fmt.Errorf("form: init selector %s: %w", n.FirstClass(), err)
	}
	for _, v := range e.Values {
		sel.Options = append(sel.Options, &Option{
			Value:    strconv.Itoa(int(v.Number)),
			Label:    v.Name,
			Selected: v.Name == models.Unspecified,
		})
	}
	return nil
}

// SetSelector selects the option whose value is v.
func SetSelector(n *Node, v int32) {
	selectValue(selectElement(n), strconv.Itoa(int(v)))
}

// GetSelector returns the selected option's value, 0 when the selector has
// no usable option.
func GetSelector(n *Node) int32 {
	o := selected(selectElement(n))
	if o == nil {
		return 0
	}
	v, err := strconv.ParseInt(o.Value, 10, 32)
	if err != nil {
		return 0
	}
	return int32(v)
}

// GetSelectorText returns the selected option's label.
func GetSelectorText(n *Node) string {
	o := selected(selectElement(n))
	if o == nil {
		return ""
	}
	return o.Label
}

// InitOptionalBool fills n with the three fixed tri-state options,
// UNSPECIFIED selected.
func InitOptionalBool(n *Node) {
	sel := New("select")
	for _, v := range []string{BoolUnspecified, BoolTrue, BoolFalse} {
		sel.Options = append(sel.Options, &Option{Value: v, Label: v, Selected: v == BoolUnspecified})
	}
	n.Append(sel)
}

// SetOptionalBool maps true, false and nil to TRUE, FALSE and UNSPECIFIED.
func SetOptionalBool(n *Node, v *bool) {
	value := BoolUnspecified
	if v != nil {
		value = BoolFalse
		if *v {
			value = BoolTrue
		}
	}
	selectValue(selectElement(n), value)
}

// GetOptionalBool is the inverse of SetOptionalBool.
func GetOptionalBool(n *Node) *bool {
	o := selected(selectElement(n))
	if o == nil {
		return nil
	}
	switch o.Value {
	case BoolTrue:
		return models.Ptr(true)
	case BoolFalse:
		return models.Ptr(false)
	default:
		return nil
	}
}
