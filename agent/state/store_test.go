package state

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Booking-Engine/agent/contract"
	slotx "github.com/tanpawarit/Chative-Booking-Engine/agent/slot"
)

func newTestStore(opts ...StoreOption) *MemoryStore {
	return NewMemoryStore(slotx.NewRegistry(), opts...)
}

func TestMemoryStoreStartReturnsFirstPrompt(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	prompt, err := store.Start("s1", contractx.ServiceHotel)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !strings.HasPrefix(prompt, "Which city") {
		t.Fatalf("unexpected first prompt: %q", prompt)
	}
	st := store.Status("s1")
	if !st.Exists || st.Progress != "0/4" || st.IsComplete {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.CurrentPrompt != prompt {
		t.Fatalf("CurrentPrompt = %q, want %q", st.CurrentPrompt, prompt)
	}
}

func TestMemoryStoreStartErrors(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	if _, err := store.Start("s1", contractx.ServiceCab); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := store.Start("s1", contractx.ServiceHotel); !errors.Is(err, contractx.ErrDuplicateSession) {
		t.Fatalf("expected ErrDuplicateSession, got %v", err)
	}
	if _, err := store.Start("s2", contractx.ServiceType("spa")); !errors.Is(err, contractx.ErrUnknownServiceType) {
		t.Fatalf("expected ErrUnknownServiceType, got %v", err)
	}
	if _, err := store.Start("  ", contractx.ServiceCab); !errors.Is(err, contractx.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if store.Status("s1").ServiceType != contractx.ServiceCab {
		t.Fatal("duplicate start replaced the live session")
	}
}

func TestMemoryStoreAnswerAdvances(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	if _, err := store.Start("s1", contractx.ServiceHotel); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	out, err := store.Answer("s1", "Mumbai")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if out.Completed {
		t.Fatal("session completed too early")
	}
	if !strings.HasPrefix(out.Prompt, "Check-in date?") {
		t.Fatalf("unexpected next prompt: %q", out.Prompt)
	}
	if got := store.Status("s1").Progress; got != "1/4" {
		t.Fatalf("progress = %q, want 1/4", got)
	}
}

func TestMemoryStoreAnswerValidationDoesNotMutate(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	if _, err := store.Start("s1", contractx.ServiceHotel); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := store.Answer("s1", "Mumbai"); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	before, err := store.CurrentSlot("s1")
	if err != nil {
		t.Fatalf("CurrentSlot() error = %v", err)
	}

	out, err := store.Answer("s1", "2024-13-40")
	var vErr *contractx.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if out.Prompt != before.Prompt {
		t.Fatalf("repeated prompt = %q, want %q", out.Prompt, before.Prompt)
	}
	if got := store.Status("s1").Progress; got != "1/4" {
		t.Fatalf("progress = %q, want 1/4", got)
	}
	after, _ := store.CurrentSlot("s1")
	if after != before {
		t.Fatalf("current slot moved: %+v -> %+v", before, after)
	}
}

func TestMemoryStoreInvalidDateTimeDoesNotMutate(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	if _, err := store.Start("cab", contractx.ServiceCab); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	for _, raw := range []string{"Mumbai Airport", "Bandra West"} {
		if _, err := store.Answer("cab", raw); err != nil {
			t.Fatalf("Answer(%q) error = %v", raw, err)
		}
	}
	_, err := store.Answer("cab", "2024-06-15 25:00")
	var vErr *contractx.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := store.Status("cab").Progress; got != "2/3" {
		t.Fatalf("progress = %q, want 2/3", got)
	}
}

func TestMemoryStoreCompletesOnce(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	if _, err := store.Start("s1", contractx.ServiceRestaurant); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	completions := 0
	var last AnswerOutcome
	for _, raw := range []string{"Delhi", "2024-06-15", "4", "vegetarian"} {
		out, err := store.Answer("s1", raw)
		if err != nil {
			t.Fatalf("Answer(%q) error = %v", raw, err)
		}
		if out.Completed {
			completions++
			last = out
		}
	}
	if completions != 1 {
		t.Fatalf("completions = %d, want 1", completions)
	}
	if last.Session == nil || last.ServiceType != contractx.ServiceRestaurant {
		t.Fatalf("unexpected completion outcome: %+v", last)
	}
	if v, _ := last.Answers.Get("preference"); v != "vegetarian" {
		t.Fatalf("preference = %q", v)
	}

	if _, err := store.Answer("s1", "extra"); !errors.Is(err, contractx.ErrSessionComplete) {
		t.Fatalf("expected ErrSessionComplete, got %v", err)
	}
	if _, err := store.CurrentSlot("s1"); !errors.Is(err, contractx.ErrSessionComplete) {
		t.Fatalf("expected ErrSessionComplete, got %v", err)
	}
	st := store.Status("s1")
	if !st.IsComplete || st.Progress != "4/4" || st.CurrentPrompt != "" {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestMemoryStoreUnknownSession(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	if _, err := store.Answer("missing", "x"); !errors.Is(err, contractx.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := store.CurrentSlot("missing"); !errors.Is(err, contractx.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if st := store.Status("missing"); st.Exists {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st := store.Status(""); st.Exists {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestMemoryStoreEndIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	if _, err := store.Start("s1", contractx.ServiceTravel); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	sess, _ := store.lookup("s1")

	store.End("s1")
	store.End("s1")
	store.End("never-existed")

	if store.Status("s1").Exists {
		t.Fatal("session still exists after End")
	}
	if sess.Context().Err() == nil {
		t.Fatal("session context not cancelled on End")
	}
	if _, err := store.Start("s1", contractx.ServiceTravel); err != nil {
		t.Fatalf("restart after End error = %v", err)
	}
}

func TestMemoryStoreReleaseOnlyOwnSession(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	if _, err := store.Start("s1", contractx.ServiceCab); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	old, _ := store.lookup("s1")
	store.End("s1")
	if _, err := store.Start("s1", contractx.ServiceHotel); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if store.Release(old) {
		t.Fatal("Release of a replaced session reported success")
	}
	if !store.Status("s1").Exists {
		t.Fatal("Release removed the replacement session")
	}

	cur, _ := store.lookup("s1")
	if !store.Release(cur) {
		t.Fatal("Release of the live session reported failure")
	}
	if store.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", store.Len())
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}

	store := newTestStore(WithTTL(time.Minute), WithClock(clock))
	for _, id := range []string{"a", "b"} {
		if _, err := store.Start(id, contractx.ServiceCab); err != nil {
			t.Fatalf("Start(%s) error = %v", id, err)
		}
	}

	advance(30 * time.Second)
	if _, err := store.Answer("b", "Airport"); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	advance(45 * time.Second)

	if store.Status("a").Exists {
		t.Fatal("idle session a should have expired")
	}
	if !store.Status("b").Exists {
		t.Fatal("recently touched session b should be live")
	}

	advance(2 * time.Minute)
	if removed := store.Sweep(); removed != 1 {
		t.Fatalf("Sweep() = %d, want 1", removed)
	}
	if _, err := store.Start("a", contractx.ServiceCab); err != nil {
		t.Fatalf("restart expired id error = %v", err)
	}
}

func TestMemoryStoreTTLSparesCompletedSessions(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	store := newTestStore(WithTTL(time.Minute), WithClock(clock))
	if _, err := store.Start("cab", contractx.ServiceCab); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	var out AnswerOutcome
	for _, raw := range []string{"Airport", "Bandra", "2024-06-15 14:30"} {
		var err error
		if out, err = store.Answer("cab", raw); err != nil {
			t.Fatalf("Answer(%q) error = %v", raw, err)
		}
	}
	if !out.Completed {
		t.Fatal("session not completed")
	}

	mu.Lock()
	now = now.Add(10 * time.Minute)
	mu.Unlock()

	if removed := store.Sweep(); removed != 0 {
		t.Fatalf("Sweep() = %d, want 0 for a completed session", removed)
	}
	if st := store.Status("cab"); !st.Exists || !st.IsComplete {
		t.Fatalf("completed session expired: %+v", st)
	}
	if out.Session.Ended() {
		t.Fatal("completed session context cancelled by expiry")
	}
	if !store.Release(out.Session) {
		t.Fatal("Release() = false, want true for a live completed session")
	}
}

func TestMemoryStoreSessionsAreIsolated(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	if _, err := store.Start("A", contractx.ServiceHotel); err != nil {
		t.Fatalf("Start(A) error = %v", err)
	}
	if _, err := store.Start("B", contractx.ServiceHotel); err != nil {
		t.Fatalf("Start(B) error = %v", err)
	}

	steps := []struct{ id, raw string }{
		{"A", "Mumbai"},
		{"B", "Goa"},
		{"A", "2024-06-15"},
		{"A", "2024-06-17"},
		{"B", "2024-07-01"},
	}
	for _, s := range steps {
		if _, err := store.Answer(s.id, s.raw); err != nil {
			t.Fatalf("Answer(%s,%q) error = %v", s.id, s.raw, err)
		}
	}

	a, _ := store.lookup("A")
	b, _ := store.lookup("B")
	sa, sb := a.Snapshot(), b.Snapshot()
	if v, _ := sa.Answers.Get("city"); v != "Mumbai" {
		t.Fatalf("A city = %q", v)
	}
	if v, _ := sb.Answers.Get("city"); v != "Goa" {
		t.Fatalf("B city = %q", v)
	}
	if len(sa.Answers) != 3 || len(sb.Answers) != 2 {
		t.Fatalf("answer counts A=%d B=%d", len(sa.Answers), len(sb.Answers))
	}
	if sa.Progress() != "3/4" || sb.Progress() != "2/4" {
		t.Fatalf("progress A=%s B=%s", sa.Progress(), sb.Progress())
	}
}

func TestMemoryStoreConcurrentAnswersSameSession(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	if _, err := store.Start("s1", contractx.ServiceTravel); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		accepted  int
		completed int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every answer is a valid string for slot 0 and 3, and a date for 1 and 2.
			out, err := store.Answer("s1", "2024-06-1"+fmt.Sprint(i%10))
			if err != nil {
				return
			}
			mu.Lock()
			accepted++
			if out.Completed {
				completed++
			}
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	if accepted != 4 {
		t.Fatalf("accepted = %d, want 4", accepted)
	}
	if completed != 1 {
		t.Fatalf("completed = %d, want 1", completed)
	}
	sess, _ := store.lookup("s1")
	snap := sess.Snapshot()
	if len(snap.Answers) != snap.NextIndex || snap.NextIndex != 4 {
		t.Fatalf("invariant broken: answers=%d next=%d", len(snap.Answers), snap.NextIndex)
	}
}

func TestMemoryStoreConcurrentSessions(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s-%d", i)
			if _, err := store.Start(id, contractx.ServiceCab); err != nil {
				t.Errorf("Start(%s) error = %v", id, err)
				return
			}
			for _, raw := range []string{fmt.Sprintf("pickup-%d", i), "drop", "2024-06-15 14:30"} {
				if _, err := store.Answer(id, raw); err != nil {
					t.Errorf("Answer(%s) error = %v", id, err)
					return
				}
			}
			sess, _ := store.lookup(id)
			if v, _ := sess.Snapshot().Answers.Get("pickup"); v != fmt.Sprintf("pickup-%d", i) {
				t.Errorf("session %s leaked pickup %q", id, v)
			}
			store.End(id)
		}(i)
	}
	wg.Wait()

	if store.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", store.Len())
	}
}
