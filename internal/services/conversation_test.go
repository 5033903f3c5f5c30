package services

import (
	"context"
	"testing"

	"golang.org/x/sync/errgroup"
)

func TestResolveSymmetry(t *testing.T) {
	convService, _ := newTestServices(t)
	ctx := context.Background()

	first, err := convService.Resolve(ctx, "+1000", "+2000")
	if err != nil {
		t.Fatalf("Resolve(+1000,+2000): %v", err)
	}
	second, err := convService.Resolve(ctx, "+2000", "+1000")
	if err != nil {
		t.Fatalf("Resolve(+2000,+1000): %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("reversed pair resolved to a different conversation: %d vs %d", first.ID, second.ID)
	}
	if first.ParticipantA != "+1000" || first.ParticipantB != "+2000" {
		t.Fatalf("participants not stored in caller order: %q, %q", first.ParticipantA, first.ParticipantB)
	}
}

func TestResolveDistinctPairs(t *testing.T) {
	convService, _ := newTestServices(t)
	ctx := context.Background()

	ab, err := convService.Resolve(ctx, "a@example.com", "b@example.com")
	if err != nil {
		t.Fatalf("Resolve(a,b): %v", err)
	}
	ac, err := convService.Resolve(ctx, "a@example.com", "c@example.com")
	if err != nil {
		t.Fatalf("Resolve(a,c): %v", err)
	}
	if ab.ID == ac.ID {
		t.Fatalf("distinct pairs share conversation %d", ab.ID)
	}
}

func TestResolveSelfConversation(t *testing.T) {
	convService, _ := newTestServices(t)
	ctx := context.Background()

	first, err := convService.Resolve(ctx, "+5550", "+5550")
	if err != nil {
		t.Fatalf("Resolve self pair: %v", err)
	}
	second, err := convService.Resolve(ctx, "+5550", "+5550")
	if err != nil {
		t.Fatalf("Resolve self pair again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("self pair resolved twice: %d vs %d", first.ID, second.ID)
	}
}

func TestResolvePermissiveAddresses(t *testing.T) {
	convService, _ := newTestServices(t)
	ctx := context.Background()

	// Empty addresses are accepted as-is; intake does not validate format.
	conv, err := convService.Resolve(ctx, "", "")
	if err != nil {
		t.Fatalf("Resolve empty pair: %v", err)
	}
	again, err := convService.Resolve(ctx, "", "")
	if err != nil {
		t.Fatalf("Resolve empty pair again: %v", err)
	}
	if conv.ID != again.ID {
		t.Fatalf("empty pair resolved twice: %d vs %d", conv.ID, again.ID)
	}
}

func TestResolveSingleCreationUnderConcurrency(t *testing.T) {
	convService, _ := newTestServices(t)
	ctx := context.Background()

	const workers = 16
	ids := make([]uint, workers)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			conv, err := convService.Resolve(ctx, "+1000", "+2000")
			if err != nil {
				return err
			}
			ids[i] = conv.ID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent Resolve: %v", err)
	}

	for i := 1; i < workers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("worker %d resolved conversation %d, worker 0 resolved %d", i, ids[i], ids[0])
		}
	}

	convs, err := convService.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("expected exactly one conversation after %d concurrent resolves, got %d", workers, len(convs))
	}
}
