package actions

import "testing"

func TestRouterInvoke(t *testing.T) {
	r := NewRouter()
	called := false
	r.RegisterAction("toggle", func() { called = true })

	if !r.HasAction("toggle") {
		t.Fatal("HasAction(toggle) = false")
	}
	r.Invoke("toggle", "")
	if !called {
		t.Error("callback was not invoked")
	}
}

func TestRouterInvokeWithData(t *testing.T) {
	r := NewRouter()
	var got string
	r.RegisterActionWithData("open", func(data string) { got = data })

	r.Invoke("open", "1")
	if got != "1" {
		t.Errorf("data = %q, want %q", got, "1")
	}
}

func TestRouterDuplicateRegistrationPanics(t *testing.T) {
	r := NewRouter()
	r.RegisterAction("dup", func() {})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	r.RegisterAction("dup", func() {})
}

func TestRouterInvokeUnregisteredPanics(t *testing.T) {
	r := NewRouter()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on invoking unregistered action")
		}
	}()
	r.Invoke("missing", "")
}
