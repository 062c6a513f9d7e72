package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
)

type fakeSource struct {
	docs map[string][]byte
}

func (s *fakeSource) Fetch(_ context.Context, key string) ([]byte, error) {
	body, ok := s.docs[key]
	if !ok {
		return nil, fmt.Errorf("no such document: %s", key)
	}
	return body, nil
}

func newTestLoader(t *testing.T, docs map[string][]byte) (*Loader, *SnapshotStore) {
	t.Helper()
	store := NewSnapshotStore()
	loader := NewLoader(&fakeSource{docs: docs}, store, NewResignationService(), LoaderConfig{
		LeagueKey:      "leagueData.json",
		TimeoutKey:     "timeoutData.json",
		ResignationKey: "earlyResignations.json",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return loader, store
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal fixture: %v", err)
	}
	return body
}

func TestRefresh_SecondaryFailuresAreSwallowed(t *testing.T) {
	loader, store := newTestLoader(t, map[string][]byte{
		"leagueData.json": mustMarshal(t, leagueFixture()),
		// timeout and resignation documents are missing on purpose
	})

	if err := loader.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh must succeed without secondary documents: %v", err)
	}

	snapshot, err := store.Current()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.Timeouts != nil || snapshot.Resignations != nil {
		t.Error("missing secondary documents must load as nil")
	}
	if snapshot.ResignationIndex == nil || len(snapshot.ResignationIndex) != 0 {
		t.Errorf("expected an empty resignation index, got %+v", snapshot.ResignationIndex)
	}
}

func TestRefresh_PrimaryFailureKeepsOldSnapshot(t *testing.T) {
	docs := map[string][]byte{
		"leagueData.json": mustMarshal(t, leagueFixture()),
	}
	loader, store := newTestLoader(t, docs)

	if err := loader.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, _ := store.Current()

	// Drop the league document; the next refresh must fail and leave the
	// previous snapshot in place.
	delete(docs, "leagueData.json")
	if err := loader.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh to fail without the league document")
	}

	current, err := store.Current()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.Version != first.Version {
		t.Errorf("failed refresh must not publish a snapshot: version %d -> %d", first.Version, current.Version)
	}
}

func TestRefresh_VersionIncrements(t *testing.T) {
	loader, store := newTestLoader(t, map[string][]byte{
		"leagueData.json":        mustMarshal(t, leagueFixture()),
		"timeoutData.json":       mustMarshal(t, timeoutFixture()),
		"earlyResignations.json": mustMarshal(t, resignationFixture()),
	})

	for want := uint64(1); want <= 3; want++ {
		if err := loader.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh %d failed: %v", want, err)
		}
		snapshot, _ := store.Current()
		if snapshot.Version != want {
			t.Errorf("version: want %d, got %d", want, snapshot.Version)
		}
	}

	snapshot, _ := store.Current()
	if snapshot.Timeouts == nil || snapshot.Resignations == nil {
		t.Error("secondary documents must be present when fetchable")
	}
	if len(snapshot.ResignationIndex) == 0 {
		t.Error("resignation index must be built at load time")
	}
}

// cancellingSource serves the league document immediately, then cancels the
// load and fails the remaining keys the way an abandoned fetch would.
type cancellingSource struct {
	leagueDoc []byte
	cancel    context.CancelFunc
}

func (s *cancellingSource) Fetch(ctx context.Context, key string) ([]byte, error) {
	if key == "leagueData.json" {
		return s.leagueDoc, nil
	}
	s.cancel()
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRefresh_CancelledLoadNeverPublishes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewSnapshotStore()
	loader := NewLoader(&cancellingSource{
		leagueDoc: mustMarshal(t, leagueFixture()),
		cancel:    cancel,
	}, store, NewResignationService(), LoaderConfig{
		LeagueKey:      "leagueData.json",
		TimeoutKey:     "timeoutData.json",
		ResignationKey: "earlyResignations.json",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := loader.Refresh(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("abandoned refresh must surface cancellation, got %v", err)
	}
	if _, err := store.Current(); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("abandoned refresh must not publish a snapshot, got %v", err)
	}
}

func TestRefresh_MalformedLeagueDocument(t *testing.T) {
	loader, store := newTestLoader(t, map[string][]byte{
		"leagueData.json": []byte("{not json"),
	})

	if err := loader.Refresh(context.Background()); err == nil {
		t.Fatal("expected an error for a malformed league document")
	}
	if _, err := store.Current(); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("want ErrDataUnavailable, got %v", err)
	}
}
