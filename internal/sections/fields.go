package sections

import (
	"strconv"

	"github.com/antonkast-google/ord-editor/internal/form"
	"github.com/antonkast-google/ord-editor/internal/models"
)

func text(scope *form.Node, class string) string {
	if n := scope.First(class); n != nil {
		return n.Text()
	}
	return ""
}

func setText(scope *form.Node, class, s string) {
	if n := scope.First(class); n != nil {
		n.SetText(s)
	}
}

func float(scope *form.Node, class string) *float64 {
	if v, ok := form.ParseFloat(text(scope, class)); ok {
		return &v
	}
	return nil
}

func setFloat(scope *form.Node, class string, v *float64) {
	if v != nil {
		setText(scope, class, form.FormatFloat(*v))
	}
}

func integer(scope *form.Node, class string) *int32 {
	if v, ok := form.ParseInt32(text(scope, class)); ok {
		return &v
	}
	return nil
}

func setInteger(scope *form.Node, class string, v *int32) {
	if v != nil {
		setText(scope, class, strconv.Itoa(int(*v)))
	}
}

func selector(scope *form.Node, class string) int32 {
	return form.GetSelector(scope.First(class))
}

func setSelector(scope *form.Node, class string, v int32) {
	if n := scope.First(class); n != nil {
		form.SetSelector(n, v)
	}
}

func optionalBool(scope *form.Node, class string) *bool {
	return form.GetOptionalBool(scope.First(class))
}

func setOptionalBool(scope *form.Node, class string, v *bool) {
	if n := scope.First(class); n != nil {
		form.SetOptionalBool(n, v)
	}
}

func personFields(prefix string) []*form.Node {
	return []*form.Node{
		form.EditText(prefix + "_username"),
		form.EditText(prefix + "_name"),
		form.EditText(prefix + "_orcid"),
		form.EditText(prefix + "_organization"),
		form.EditText(prefix + "_email"),
	}
}

func loadPerson(prefix string, scope *form.Node, p *models.Person) {
	if p == nil {
		return
	}
	setText(scope, prefix+"_username", p.Username)
	setText(scope, prefix+"_name", p.Name)
	setText(scope, prefix+"_orcid", p.Orcid)
	setText(scope, prefix+"_organization", p.Organization)
	setText(scope, prefix+"_email", p.Email)
}

func unloadPerson(prefix string, scope *form.Node) *models.Person {
	return &models.Person{
		Username:     text(scope, prefix+"_username"),
		Name:         text(scope, prefix+"_name"),
		Orcid:        text(scope, prefix+"_orcid"),
		Organization: text(scope, prefix+"_organization"),
		Email:        text(scope, prefix+"_email"),
	}
}
