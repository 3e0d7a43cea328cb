package rpc

import (
	"context"
	"fmt"
	"time"

	"dive-server/src/store"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a remote ScoreService.
type Client struct {
	conn *grpc.ClientConn
}

// Dial creates a client for target. Connections are plaintext unless opts
// supply transport credentials.
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Submit sends one score and returns it as stored.
func (c *Client) Submit(ctx context.Context, sub store.Submission) (store.Score, error) {
	in, err := structpb.NewStruct(map[string]interface{}{
		"name":      sub.Name,
		"phone":     sub.Phone,
		"depth":     sub.Depth,
		"character": sub.Character,
	})
	if err != nil {
		return store.Score{}, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, SubmitMethod, in, out); err != nil {
		return store.Score{}, err
	}
	fields := out.GetFields()
	created, _ := time.Parse(time.RFC3339Nano, fields["created_at"].GetStringValue())
	return store.Score{
		ID:        fields["id"].GetStringValue(),
		Name:      sub.Name,
		Phone:     sub.Phone,
		Depth:     sub.Depth,
		Character: sub.Character,
		CreatedAt: created,
	}, nil
}

// Leaderboard fetches the top limit entries.
func (c *Client) Leaderboard(ctx context.Context, limit int) ([]store.Entry, error) {
	in, err := structpb.NewStruct(map[string]interface{}{"limit": limit})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, LeaderboardMethod, in, out); err != nil {
		return nil, err
	}
	rows := out.GetFields()["data"].GetListValue().GetValues()
	entries := make([]store.Entry, 0, len(rows))
	for _, row := range rows {
		f := row.GetStructValue().GetFields()
		created, _ := time.Parse(time.RFC3339Nano, f["created_at"].GetStringValue())
		entries = append(entries, store.Entry{
			Name:      f["name"].GetStringValue(),
			Depth:     f["depth"].GetNumberValue(),
			Character: f["character"].GetStringValue(),
			CreatedAt: created,
		})
	}
	return entries, nil
}
