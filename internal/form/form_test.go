package form

import (
	"errors"
	"slices"
	"testing"

	"github.com/antonkast-google/ord-editor/internal/models"
)

func newTemperatureGroup(t *testing.T) *Node {
	t.Helper()
	g := MetricGroup("setpoint", models.EnumTemperatureUnit)
	if err := InitSelector(g.First("setpoint_units"), models.DefaultEnums()); err != nil {
		t.Fatalf("init selector: %v", err)
	}
	return Div("scope").Append(g)
}

func TestMetricRoundTrip(t *testing.T) {
	scope := newTemperatureGroup(t)
	src := &models.Temperature{
		Quantity: models.Quantity{Value: models.Ptr(12.3456789), Precision: models.Ptr(0.01)},
		Units:    models.TemperatureUnitCelsius,
	}

	WriteMetric("setpoint", src, scope)

	if *src.Value != 12.3456789 {
		t.Fatalf("source value mutated: %v", *src.Value)
	}
	got := ReadMetric("setpoint", &models.Temperature{}, scope)
	if got.Value == nil || *got.Value != 12.34568 {
		t.Errorf("value = %v, want 12.34568", got.Value)
	}
	if got.Precision == nil || *got.Precision != 0.01 {
		t.Errorf("precision = %v, want 0.01", got.Precision)
	}
	if got.Units != models.TemperatureUnitCelsius {
		t.Errorf("units = %v, want celsius", got.Units)
	}
}

func TestWriteMetricNilIsNoop(t *testing.T) {
	scope := newTemperatureGroup(t)
	scope.First("setpoint_value").SetText("7")
	before := scope.Clone()

	var absent *models.Temperature
	WriteMetric("setpoint", absent, scope)

	if scope.First("setpoint_value").Text() != "7" {
		t.Fatal("nil metric changed value text")
	}
	if GetSelector(scope.First("setpoint_units")) != GetSelector(before.First("setpoint_units")) {
		t.Fatal("nil metric changed units")
	}
}

func TestWriteMetricSkipsUnsetFields(t *testing.T) {
	scope := newTemperatureGroup(t)
	scope.First("setpoint_precision").SetText("0.5")

	WriteMetric("setpoint", &models.Temperature{Quantity: models.Quantity{Value: models.Ptr(0.0)}}, scope)

	if got := scope.First("setpoint_value").Text(); got != "0" {
		t.Errorf("explicit zero should be written, got %q", got)
	}
	if got := scope.First("setpoint_precision").Text(); got != "0.5" {
		t.Errorf("unset precision must not be written, got %q", got)
	}
}

func TestReadMetricIgnoresUnparseableText(t *testing.T) {
	scope := newTemperatureGroup(t)
	scope.First("setpoint_value").SetText("abc")
	scope.First("setpoint_precision").SetText("  ")

	got := ReadMetric("setpoint", &models.Temperature{}, scope)
	if got.Value != nil || got.Precision != nil {
		t.Fatalf("expected unset fields, got %+v", got.Quantity)
	}
}

func TestMetricWithoutUnits(t *testing.T) {
	scope := Div("scope").Append(MetricGroup("yield", ""))
	if scope.First("yield_units") != nil {
		t.Fatal("percentage group must not have a units selector")
	}
	WriteMetric("yield", &models.Percentage{Quantity: models.Quantity{Value: models.Ptr(87.5)}}, scope)
	got := ReadMetric("yield", &models.Percentage{}, scope)
	if got.Value == nil || *got.Value != 87.5 {
		t.Fatalf("yield = %v", got.Value)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12.3456789, "12.34568"},
		{0.1 + 0.2, "0.3"},
		{100, "100"},
		{-2.5e-3, "-0.0025"},
		{12345678, "12345680"},
		{1.5e-7, "1.5e-07"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
		if !IsFloat(FormatFloat(tt.in)) {
			t.Errorf("FormatFloat(%v) output rejected by float guard", tt.in)
		}
	}
}

func TestGuards(t *testing.T) {
	for _, s := range []string{"", "-3", "3.14", "2e10", "-2.5E-3", ".5"} {
		if !IsFloat(s) {
			t.Errorf("IsFloat(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"3.", "abc", "1.2.3", "e5", "--1"} {
		if IsFloat(s) {
			t.Errorf("IsFloat(%q) = true, want false", s)
		}
	}
	for _, s := range []string{"", "-7", "42"} {
		if !IsInteger(s) {
			t.Errorf("IsInteger(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"4.5", "12a"} {
		if IsInteger(s) {
			t.Errorf("IsInteger(%q) = true, want false", s)
		}
	}
}

func TestCheckFloatFlagsField(t *testing.T) {
	n := FloatText("ph")
	n.SetText("1.2.3")
	CheckFloat(n)
	if !n.HasClass(ClassInvalid) {
		t.Fatal("expected invalid flag")
	}
	n.SetText(" 7 ")
	CheckFloat(n)
	if n.HasClass(ClassInvalid) {
		t.Fatal("expected flag cleared")
	}

	i := IntegerText("rpm").SetText("12a")
	CheckInteger(i)
	if !i.HasClass(ClassInvalid) {
		t.Fatal("expected invalid integer flag")
	}
	if errs := InvalidFieldErrors(Div().Append(n, i)); !slices.Equal(errs, []string{"Value for rpm is invalid"}) {
		t.Fatalf("errors = %v", errs)
	}
}

func TestParseAgreesWithGuards(t *testing.T) {
	for _, s := range []string{"3.", "inf", "Infinity", "-Inf", "NaN", "1e999", "0x10", "+5", "1_000"} {
		if v, ok := ParseFloat(s); ok {
			t.Errorf("ParseFloat(%q) = %v, want rejected", s, v)
		}
		n := FloatText("value").SetText(s)
		CheckFloat(n)
		if !n.HasClass(ClassInvalid) {
			t.Errorf("CheckFloat(%q) did not flag the field", s)
		}
	}
	if v, ok := ParseFloat(" -2.5e3 "); !ok || v != -2500 {
		t.Errorf("ParseFloat(-2.5e3) = %v, %v", v, ok)
	}

	for _, s := range []string{"+5", "99999999999", "-2147483649", "0x1f"} {
		if v, ok := ParseInt32(s); ok {
			t.Errorf("ParseInt32(%q) = %v, want rejected", s, v)
		}
		n := IntegerText("count").SetText(s)
		CheckInteger(n)
		if !n.HasClass(ClassInvalid) {
			t.Errorf("CheckInteger(%q) did not flag the field", s)
		}
	}
	if v, ok := ParseInt32("-2147483648"); !ok || v != -2147483648 {
		t.Errorf("ParseInt32(min) = %v, %v", v, ok)
	}
}

func TestSelector(t *testing.T) {
	n := Selector("units", models.EnumTemperatureUnit)
	if err := InitSelector(n, models.DefaultEnums()); err != nil {
		t.Fatal(err)
	}
	if got := GetSelectorText(n); got != models.Unspecified {
		t.Fatalf("default = %q", got)
	}
	SetSelector(n, int32(models.TemperatureUnitKelvin))
	if got := GetSelector(n); got != int32(models.TemperatureUnitKelvin) {
		t.Fatalf("GetSelector = %d", got)
	}
	SetSelector(n, int32(models.TemperatureUnitCelsius))
	count := 0
	for _, o := range n.First("select").Options {
		if o.Selected {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("selected options = %d, want 1", count)
	}
	if got := GetSelectorText(n); got != "CELSIUS" {
		t.Fatalf("text = %q", got)
	}
}

func TestSelectorUnknownEnum(t *testing.T) {
	n := Selector("units", "Does.Not.Exist")
	err := InitSelector(n, models.DefaultEnums())
	if !errors.Is(err, models.ErrUnknownEnum) {
		t.Fatalf("expected ErrUnknownEnum, got %v", err)
	}
	if got := GetSelector(n); got != 0 {
		t.Fatalf("empty selector should read 0, got %d", got)
	}
}

func TestOptionalBool(t *testing.T) {
	n := OptionalBool("flag")
	InitOptionalBool(n)
	if GetOptionalBool(n) != nil {
		t.Fatal("default should be unspecified")
	}
	for _, v := range []*bool{models.Ptr(true), models.Ptr(false), nil} {
		SetOptionalBool(n, v)
		got := GetOptionalBool(n)
		switch {
		case v == nil && got != nil, v != nil && (got == nil || *got != *v):
			t.Fatalf("round trip %v -> %v", v, got)
		}
	}
}

func TestCloneKeepsInlineHandlersOnly(t *testing.T) {
	var inline, delegated int
	tpl := Div("item").Append(Button("remove", "remove", func(*Node) { inline++ }))
	tpl.On(EventClick, "remove", func(*Node) { delegated++ })

	c := tpl.Clone()
	c.First("remove").Trigger(EventClick)
	if inline != 1 || delegated != 0 {
		t.Fatalf("inline=%d delegated=%d", inline, delegated)
	}
	tpl.First("remove").Trigger(EventClick)
	if inline != 2 || delegated != 1 {
		t.Fatalf("inline=%d delegated=%d", inline, delegated)
	}
}

func TestDelegatedBindingMatchesBetweenTargetAndRoot(t *testing.T) {
	root := Div("root")
	sel := Selector("units", models.EnumTimeUnit)
	root.Append(Div("group").Append(sel))
	if err := InitSelector(sel, models.DefaultEnums()); err != nil {
		t.Fatal(err)
	}
	var got []*Node
	root.On(EventChange, "selector", func(n *Node) { got = append(got, n) })

	sel.First("select").Trigger(EventChange)
	if len(got) != 1 || got[0] != sel {
		t.Fatalf("handler got %v", got)
	}
	root.Trigger(EventChange)
	if len(got) != 1 {
		t.Fatal("root itself must not match its own delegated selector")
	}
}

func TestFindLiveSkipsGhosts(t *testing.T) {
	root := Div()
	a := Div("item")
	b := Div("item")
	b.State = PendingUndo
	b.Append(Div("item"))
	root.Append(a, b)

	if got := len(root.Find("item")); got != 3 {
		t.Fatalf("Find = %d, want 3", got)
	}
	live := root.FindLive("item")
	if len(live) != 1 || live[0] != a {
		t.Fatalf("FindLive = %v", live)
	}
	if b.Visible() || !a.Visible() {
		t.Fatal("visibility must follow state")
	}
}

func TestDocumentInstantiate(t *testing.T) {
	d := NewDocument()
	d.DefineTemplate("row_template", Div("row").Append(EditText("cell")))

	n, err := d.Instantiate("row_template")
	if err != nil {
		t.Fatal(err)
	}
	if n.ID != "" || n.State != Live {
		t.Fatalf("clone kept identity: id=%q state=%v", n.ID, n.State)
	}
	if d.Template("row_template").State != Template {
		t.Fatal("template state lost")
	}
	if len(d.Body.Find("row")) != 0 {
		t.Fatal("templates must stay out of the body")
	}
	if _, err := d.Instantiate("missing"); !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
}

func TestInsertAfterAndRemove(t *testing.T) {
	root := Div()
	a, b, c := Div("a"), Div("b"), Div("c")
	root.Append(a, b)
	a.InsertAfter(c)
	var order []string
	for _, ch := range root.Children() {
		order = append(order, ch.FirstClass())
	}
	if !slices.Equal(order, []string{"a", "c", "b"}) {
		t.Fatalf("order = %v", order)
	}
	c.Remove()
	if c.Parent() != nil || len(root.Children()) != 2 {
		t.Fatal("remove did not detach")
	}
}

func TestRenderDiagnostics(t *testing.T) {
	target := Validation("", nil)

	RenderDiagnostics(target, []string{"e1", "e2"}, nil)
	status := target.First("validate_status")
	if !status.HasClass("fa-exclamation-triangle") || status.Text() != " 2" {
		t.Fatalf("status = %v %q", status.Classes(), status.Text())
	}
	msg := target.First("validate_message")
	if msg.Hidden || !slices.Equal(Items(msg), []string{"e1", "e2"}) {
		t.Fatalf("message hidden=%v items=%v", msg.Hidden, Items(msg))
	}
	if !target.First("validate_warning_message").Hidden {
		t.Fatal("warning panel should be hidden")
	}

	RenderDiagnostics(target, nil, []string{"w1"})
	if !status.HasClass("fa-check") || status.HasClass("fa-exclamation-triangle") {
		t.Fatalf("status classes = %v", status.Classes())
	}
	if !msg.Hidden || len(Items(msg)) != 0 {
		t.Fatal("error panel should be cleared and hidden")
	}
	w := target.First("validate_warning_message")
	if w.Hidden || !slices.Equal(Items(w), []string{"w1"}) {
		t.Fatalf("warnings hidden=%v items=%v", w.Hidden, Items(w))
	}
}

func TestRoundFloats(t *testing.T) {
	root := Div().Append(FloatText("a").SetText("0.30000000000000004"), FloatText("b").SetText("x"))
	RoundFloats(root)
	if got := root.First("a").Text(); got != "0.3" {
		t.Errorf("a = %q", got)
	}
	if got := root.First("b").Text(); got != "x" {
		t.Errorf("unparseable text changed: %q", got)
	}
}

func TestStatusClickTogglesMessage(t *testing.T) {
	v := Validation("", nil)
	RenderDiagnostics(v, []string{"bad"}, nil)
	msg := v.First("validate_message")
	if msg.Hidden {
		t.Fatal("message hidden after errors")
	}
	v.First("validate_status").Trigger(EventClick)
	if !msg.Hidden {
		t.Error("status click did not hide the message")
	}
	v.First("validate_status").Trigger(EventClick)
	if msg.Hidden {
		t.Error("second click did not show the message")
	}
}
