package utils

import (
	"flag"
	"io"
	"reflect"
	"testing"
)

func TestCommaSeparatedFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "default",
			args: nil,
			want: []string{"bin"},
		},
		{
			name: "single",
			args: []string{"-extensions", "exe"},
			want: []string{"exe"},
		},
		{
			name: "multiple with spaces",
			args: []string{"-extensions", "exe, dll ,bin"},
			want: []string{"exe", "dll", "bin"},
		},
		{
			name: "empty entries dropped",
			args: []string{"-extensions", ",exe,,"},
			want: []string{"exe"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			exts := CommaSeparatedFlags("extensions", []string{"bin"}, "extensions")
			exts.InitFlagSet(fs)
			if err := fs.Parse(test.args); err != nil {
				t.Fatalf("Parse() = %v; want nil", err)
			}
			if !reflect.DeepEqual(exts.Values, test.want) {
				t.Errorf("Values = %v; want %v", exts.Values, test.want)
			}
		})
	}
}
