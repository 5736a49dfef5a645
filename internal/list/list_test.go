package list

import "testing"

type widget struct {
	name string
	elem Elem[widget]
}

func newWidget(name string) *widget {
	w := &widget{name: name}
	Init(&w.elem, w)
	return w
}

func names(l *List[widget]) []string {
	var out []string
	l.Each(func(w *widget) bool {
		out = append(out, w.name)
		return true
	})
	return out
}

func TestPushBackOrder(t *testing.T) {
	l := New[widget]()
	a, b, c := newWidget("a"), newWidget("b"), newWidget("c")
	l.PushBack(&a.elem)
	l.PushBack(&b.elem)
	l.PushBack(&c.elem)

	if got, want := names(l), []string{"a", "b", "c"}; !equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
	if l.Front().Owner() != a || l.Back().Owner() != c {
		t.Fatalf("Front/Back mismatch")
	}
}

func TestRemoveMiddle(t *testing.T) {
	l := New[widget]()
	a, b, c := newWidget("a"), newWidget("b"), newWidget("c")
	l.PushBack(&a.elem)
	l.PushBack(&b.elem)
	l.PushBack(&c.elem)

	l.Remove(&b.elem)
	if got, want := names(l), []string{"a", "c"}; !equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if b.elem.Linked() {
		t.Fatalf("removed element still reports Linked()")
	}
	// Removing twice must not corrupt the list.
	l.Remove(&b.elem)
	if got, want := names(l), []string{"a", "c"}; !equal(got, want) {
		t.Fatalf("double remove corrupted list: got %v, want %v", got, want)
	}
}

func TestInsertBeforeMaintainsOrder(t *testing.T) {
	l := New[widget]()
	a, c := newWidget("a"), newWidget("c")
	l.PushBack(&a.elem)
	l.PushBack(&c.elem)

	b := newWidget("b")
	l.InsertBefore(&b.elem, &c.elem)

	if got, want := names(l), []string{"a", "b", "c"}; !equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSingleMembershipInvariant(t *testing.T) {
	// A widget may move between lists but never belong to two at once.
	la, lb := New[widget](), New[widget]()
	a := newWidget("a")
	la.PushBack(&a.elem)
	la.Remove(&a.elem)
	lb.PushBack(&a.elem)

	if la.Len() != 0 || lb.Len() != 1 {
		t.Fatalf("element present in more than one list: la=%d lb=%d", la.Len(), lb.Len())
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
