package shuffle

import (
	"testing"

	"github.com/TLI-1994/Multithreaded-n-gram-Counter/tokenizer"
)

func TestPublishDoesNotBlock(t *testing.T) {
	net := NewNetwork(3)
	for src := 0; src < 3; src++ {
		for dst := 0; dst < 3; dst++ {
			net.Publish(src, dst, tokenizer.Table{"k": uint64(src*10 + dst)})
		}
	}

	for dst := 0; dst < 3; dst++ {
		for src, ch := range net.Inbox(dst) {
			select {
			case bucket := <-ch:
				if got, want := bucket["k"], uint64(src*10+dst); got != want {
					t.Errorf("link %d->%d carried %d, expected %d", src, dst, got, want)
				}
			default:
				t.Errorf("link %d->%d is empty", src, dst)
			}
		}
	}
}

func TestPublishTwicePanics(t *testing.T) {
	net := NewNetwork(2)
	net.Publish(0, 1, tokenizer.Table{})

	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic on the second publish")
		}
	}()
	net.Publish(0, 1, tokenizer.Table{})
}
