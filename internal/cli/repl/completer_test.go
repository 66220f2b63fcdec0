package repl

import (
	"reflect"
	"testing"
)

func TestCompleterComplete(t *testing.T) {
	c := NewCompleter()

	got := c.Complete("/admin")
	want := []string{"/admin", "/admin/users", "/admin/posts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Complete(/admin) = %v, want %v", got, want)
	}

	if got := c.Complete("/zzz"); got != nil {
		t.Errorf("Complete(/zzz) = %v, want nil", got)
	}

	if got := c.Complete("where"); len(got) != 1 || got[0] != "whereami" {
		t.Errorf("Complete(where) = %v", got)
	}

	if got := c.Complete("log"); !reflect.DeepEqual(got, []string{"login", "logout"}) {
		t.Errorf("Complete(log) = %v", got)
	}
}
