package observe

import (
	"slices"
	"testing"

	errs "github.com/matzehuels/multigraph/pkg/errors"
)

func TestSubject_RegistrationOrder(t *testing.T) {
	var s Subject[int]
	var got []string
	s.Subscribe(func(int) { got = append(got, "a") })
	s.Subscribe(func(int) { got = append(got, "b") })
	s.Subscribe(func(int) { got = append(got, "c") })

	s.Notify(1)

	if want := []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("delivery order = %v, want %v", got, want)
	}
}

func TestSubject_Cancel(t *testing.T) {
	var s Subject[int]
	calls := 0
	cancel := s.Subscribe(func(int) { calls++ })

	s.Notify(1)
	cancel()
	cancel() // idempotent
	s.Notify(2)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if s.HasListeners() {
		t.Error("HasListeners() = true after cancel")
	}
}

func TestSubject_SubscribeDuringDelivery(t *testing.T) {
	var s Subject[int]
	var late []int
	once := false
	s.Subscribe(func(v int) {
		if !once {
			once = true
			s.Subscribe(func(v int) { late = append(late, v) })
		}
	})

	s.Notify(1)
	s.Notify(2)

	if want := []int{2}; !slices.Equal(late, want) {
		t.Errorf("late listener saw %v, want %v", late, want)
	}
}

func TestSubject_CancelDuringDelivery(t *testing.T) {
	var s Subject[int]
	var cancelB func()
	bCalls := 0
	s.Subscribe(func(int) { cancelB() })
	cancelB = s.Subscribe(func(int) { bCalls++ })

	s.Notify(1)

	if bCalls != 0 {
		t.Errorf("cancelled listener called %d times, want 0", bCalls)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSubject_Reentrant(t *testing.T) {
	var s Subject[int]
	var seen []int
	s.Subscribe(func(v int) {
		seen = append(seen, v)
		if v < 3 {
			s.Notify(v + 1)
		}
	})

	s.Notify(0)

	if want := []int{0, 1, 2, 3}; !slices.Equal(seen, want) {
		t.Errorf("seen = %v, want %v", seen, want)
	}
}

func TestSubject_CycleGuard(t *testing.T) {
	var s Subject[int]
	s.Subscribe(func(v int) { s.Notify(v) })

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errs.Is(err, errs.ErrCodeNotifyCycle) {
			t.Errorf("recover() = %v, want %s panic", r, errs.ErrCodeNotifyCycle)
		}
		if s.depth != 0 {
			t.Errorf("depth = %d after unwinding, want 0", s.depth)
		}
	}()
	s.Notify(0)
}

func TestSubject_Clear(t *testing.T) {
	var s Subject[string]
	calls := 0
	s.Subscribe(func(string) { calls++ })
	s.Subscribe(func(string) { calls++ })

	s.Clear()
	s.Notify("x")

	if calls != 0 || s.HasListeners() {
		t.Errorf("calls = %d, HasListeners() = %v after Clear", calls, s.HasListeners())
	}
}
