package core

import (
	"context"
	"fmt"
	"testing"
)

func benchmarkBroadcast(b *testing.B, participants int) {
	co := newTestCoordinator()
	ctx := context.Background()

	host := NewClient("host", "", nil, 0)
	if err := co.Connect(ctx, host); err != nil {
		b.Fatalf("connect host: %v", err)
	}
	co.CreateGame(host, "bench", GameSettings{MaxPlayers: participants + 1})

	clients := make([]*Client, 0, participants)
	for i := 0; i < participants; i++ {
		c := NewClient(fmt.Sprintf("p%d", i), "", nil, 0)
		if err := co.Connect(ctx, c); err != nil {
			b.Fatalf("connect p%d: %v", i, err)
		}
		co.Join(c, "bench")
		clients = append(clients, c)
	}

	// Drain every queue so the fan-out never hits the drop path.
	stop := make(chan struct{})
	defer close(stop)
	for _, c := range append(clients, host) {
		go func(cl *Client) {
			for {
				select {
				case <-cl.Events:
				case <-stop:
					return
				}
			}
		}(c)
	}

	ev := infoEvent("payload")

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		co.Broadcast("bench", ev)
	}
}

func BenchmarkBroadcast_10(b *testing.B)  { benchmarkBroadcast(b, 10) }
func BenchmarkBroadcast_100(b *testing.B) { benchmarkBroadcast(b, 100) }
func BenchmarkBroadcast_500(b *testing.B) { benchmarkBroadcast(b, 500) }
