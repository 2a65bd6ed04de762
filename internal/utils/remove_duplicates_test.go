package utils

import (
	"reflect"
	"testing"
)

func TestRemoveDuplicates(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  []string
	}{
		{"nil", nil, nil},
		{"no duplicates", []string{".exe", ".bin"}, []string{".exe", ".bin"}},
		{"keeps first", []string{".bin", ".exe", ".bin", ".dll", ".exe"}, []string{".bin", ".exe", ".dll"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := RemoveDuplicates(test.items); !reflect.DeepEqual(got, test.want) {
				t.Errorf("RemoveDuplicates() = %v; want %v", got, test.want)
			}
		})
	}
}
