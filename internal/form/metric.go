package form

import (
	"reflect"

	"github.com/antonkast-google/ord-editor/internal/models"
)

// ReadMetric fills target from the {prefix}_value, {prefix}_units and
// {prefix}_precision fields under scope and returns it. Text that does not
// parse leaves the corresponding field unset. Units are read only for
// targets that carry them.
func ReadMetric[T models.Metric](prefix string, target T, scope *Node) T {
	if n := scope.First(prefix + "_value"); n != nil {
		if v, ok := ParseFloat(n.Text()); ok {
			target.SetMetricValue(v)
		}
	}
	if u, ok := any(target).(models.UnitMetric); ok {
		if n := scope.First(prefix + "_units"); n != nil {
			u.SetMetricUnits(GetSelector(n))
		}
	}
	if n := scope.First(prefix + "_precision"); n != nil {
		if v, ok := ParseFloat(n.Text()); ok {
			target.SetMetricPrecision(v)
		}
	}
	return target
}

// WriteMetric renders source into the fields under scope. A nil source
// leaves the tree untouched; value and precision are written only when
// present on source. The displayed text is rounded, the source is not.
func WriteMetric(prefix string, source models.Metric, scope *Node) {
	if isNil(source) {
		return
	}
	if v := source.MetricValue(); v != nil {
		if n := scope.First(prefix + "_value"); n != nil {
			n.SetText(FormatFloat(*v))
		}
	}
	if u, ok := source.(models.UnitMetric); ok {
		if n := scope.First(prefix + "_units"); n != nil {
			SetSelector(n, u.MetricUnits())
		}
	}
	if p := source.MetricPrecision(); p != nil {
		if n := scope.First(prefix + "_precision"); n != nil {
			n.SetText(FormatFloat(*p))
		}
	}
}

// isNil catches typed nil pointers hidden in the interface.
func isNil(m models.Metric) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
