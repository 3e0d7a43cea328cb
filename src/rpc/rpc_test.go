package rpc

import (
	"context"
	"net"
	"testing"
	"time"

	"dive-server/src/store"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func startBufServer(t *testing.T, st store.Store) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := NewGRPCServer(NewServer(st))
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	client, err := Dial("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSubmitAndLeaderboard(t *testing.T) {
	mem := store.NewMemory()
	client := startBufServer(t, mem)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, sub := range []store.Submission{
		{Name: "Mina", Phone: "010-1", Depth: 12.5, Character: "longfin"},
		{Name: "Jun", Phone: "010-2", Depth: 30, Character: "shortfin"},
	} {
		score, err := client.Submit(ctx, sub)
		if err != nil {
			t.Fatalf("Submit(%s): %v", sub.Name, err)
		}
		if score.ID == "" || score.CreatedAt.IsZero() {
			t.Fatalf("Submit(%s) = %+v", sub.Name, score)
		}
	}

	entries, err := client.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "Jun" || entries[1].Depth != 12.5 {
		t.Fatalf("entries = %+v", entries)
	}

	entries, err = client.Leaderboard(ctx, 0)
	if err != nil || len(entries) != 1 {
		t.Fatalf("Leaderboard(0) = %+v, %v", entries, err)
	}
}

func TestSubmitInvalidArgument(t *testing.T) {
	mem := store.NewMemory()
	client := startBufServer(t, mem)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.Submit(ctx, store.Submission{Name: "Mina", Phone: "010", Depth: -1, Character: "longfin"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %v (%v)", status.Code(err), err)
	}
	if st, _ := status.FromError(err); st.Message() != store.ErrDepthInvalid.Error() {
		t.Fatalf("message = %q", st.Message())
	}
	if _, total, _ := mem.List(ctx, 1, 20); total != 0 {
		t.Fatalf("invalid score stored")
	}
}
