package mailbox

import (
	"sync"
	"testing"
	"time"
)

func TestSlot_OfferPoll(t *testing.T) {
	s := New[int]()

	if _, ok := s.Poll(); ok {
		t.Fatal("Poll on an empty slot should report false")
	}

	if !s.Offer(1) {
		t.Fatal("Offer on an empty slot should succeed")
	}

	v, ok := s.Poll()
	if !ok || v != 1 {
		t.Errorf("Poll() = %d, %v, want 1, true", v, ok)
	}

	if _, ok := s.Poll(); ok {
		t.Error("slot should be empty after Poll")
	}
}

func TestSlot_DropsNewWhenFull(t *testing.T) {
	s := New[string]()

	s.Offer("first")
	if s.Offer("second") {
		t.Error("Offer on a full slot should report false")
	}
	if s.Offer("third") {
		t.Error("Offer on a full slot should report false")
	}

	v, _ := s.Poll()
	if v != "first" {
		t.Errorf("Poll() = %q, want the value that was stored first", v)
	}

	stats := s.Stats()
	want := Stats{Offered: 3, Delivered: 1, Dropped: 2}
	if stats != want {
		t.Errorf("Stats() = %+v, want %+v", stats, want)
	}
}

func TestSlot_OfferNeverBlocks(t *testing.T) {
	s := New[int]()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10000; i++ {
			s.Offer(i)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Offer blocked with no consumer")
	}

	if got := s.Stats().Dropped; got != 9999 {
		t.Errorf("Dropped = %d, want 9999", got)
	}
}

func TestSlot_ConcurrentProducerConsumer(t *testing.T) {
	s := New[int]()
	const n = 5000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			s.Offer(i)
		}
	}()

	stop := make(chan struct{})
	var received []int
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		for {
			select {
			case <-stop:
				return
			default:
			}
			if v, ok := s.Poll(); ok {
				received = append(received, v)
			}
		}
	}()

	wg.Wait()
	close(stop)
	<-consumerDone

	// Drain whatever the consumer missed.
	if v, ok := s.Poll(); ok {
		received = append(received, v)
	}

	stats := s.Stats()
	if stats.Offered != n {
		t.Errorf("Offered = %d, want %d", stats.Offered, n)
	}
	if stats.Delivered+stats.Dropped != n {
		t.Errorf("Delivered+Dropped = %d, want %d", stats.Delivered+stats.Dropped, n)
	}
	if uint64(len(received)) != stats.Delivered {
		t.Errorf("received %d values, Delivered = %d", len(received), stats.Delivered)
	}
	for i := 1; i < len(received); i++ {
		if received[i] <= received[i-1] {
			t.Fatalf("values out of order: %d after %d", received[i], received[i-1])
		}
	}
}
