package testable

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// cmpOptions compare unexported fields too; Equal methods still take precedence.
var cmpOptions = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

// Equal reports whether got and want are deeply equal.
func Equal(got, want any) bool {
	return cmp.Equal(got, want, cmpOptions...)
}

// Diff renders the difference between want and got as "-want +got".
// It returns "" when the values are equal.
func Diff(want, got any) string {
	return cmp.Diff(want, got, cmpOptions...)
}
