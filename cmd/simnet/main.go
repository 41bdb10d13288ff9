//go:build !tinygo && !baremetal

// Command simnet runs a small mesh of host nodes sharing one in-process
// radio medium (driver/stub.Network), to exercise joining and parent
// election without hardware. Every node hears every other on that medium,
// so each node elects the gateway itself as its parent.
package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	meshtransport "github.com/ystepanoff/meshtransport"
	"github.com/ystepanoff/meshtransport/driver/stub"
	"github.com/ystepanoff/meshtransport/zaplog"
)

func main() {
	leaves := flag.Int("leaves", 4, "number of leaf nodes")
	repeaters := flag.Int("repeaters", 1, "number of repeater nodes")
	flag.Parse()

	log, err := zaplog.NewProduction()
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	net := stub.NewNetwork()

	gw := meshtransport.NewHostCore(meshtransport.Config{
		IsGateway: true,
		Repeater:  true,
		Log:       log,
	}, net, nil)
	if err := gw.Initialize(); err != nil {
		log.Error("gateway initialize", "err", err)
		return
	}

	var nodes []*meshtransport.Core
	for i := 0; i < *repeaters; i++ {
		n := meshtransport.NewHostCore(meshtransport.Config{Repeater: true, Log: log}, net, nil)
		nodes = append(nodes, n)
	}
	for i := 0; i < *leaves; i++ {
		n := meshtransport.NewHostCore(meshtransport.Config{Log: log}, net, nil)
		nodes = append(nodes, n)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return run(ctx, gw) })
	for _, n := range nodes {
		n := n
		g.Go(func() error {
			if err := n.Initialize(); err != nil {
				return err
			}
			return run(ctx, n)
		})
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Error("simnet: node exited", "err", err)
	}
}

func run(ctx context.Context, c *meshtransport.Core) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.Process()
		}
	}
}
