//go:build !tinygo && !baremetal

// Command gateway runs the mesh root node: distance 0, hands out node ids,
// and serves a /status observability endpoint. It drives its own private
// stub.Network (in-process only, no IPC) and so is a standalone demo, not
// a peer cmd/node can join over a separate process; use cmd/simnet to run
// a gateway and leaf/repeater nodes sharing one medium.
package main

import (
	"flag"
	"net/http"
	"time"

	meshtransport "github.com/ystepanoff/meshtransport"
	"github.com/ystepanoff/meshtransport/driver/stub"
	"github.com/ystepanoff/meshtransport/monitor"
	"github.com/ystepanoff/meshtransport/signing"
	"github.com/ystepanoff/meshtransport/store"
	"github.com/ystepanoff/meshtransport/zaplog"
)

func main() {
	dbPath := flag.String("db", "", "sqlite path for persistent state (defaults to in-memory)")
	statusAddr := flag.String("status-addr", ":8080", "address to serve /status on")
	signKey := flag.String("sign-key", "", "signing key, used as raw bytes (empty disables signing)")
	flag.Parse()

	log, err := zaplog.NewProduction()
	if err != nil {
		panic(err)
	}

	var st store.Store = store.NewMemory()
	if *dbPath != "" {
		sq, err := store.OpenSQLite(*dbPath)
		if err != nil {
			log.Error("open sqlite store", "err", err)
			return
		}
		defer sq.Close()
		st = sq
	}

	var signer meshtransport.Signer
	if *signKey != "" {
		signer = signing.NewBlake2bSigner([]byte(*signKey))
	}

	net := stub.NewNetwork()
	core := meshtransport.NewHostCoreWithStore(meshtransport.Config{
		IsGateway: true,
		Repeater:  true,
		Log:       log,
	}, net, st, signer)

	if err := core.Initialize(); err != nil {
		log.Error("initialize", "err", err)
		return
	}

	srv := monitor.New(core.GetStatus, log)
	go func() {
		if err := http.ListenAndServe(*statusAddr, srv.Handler()); err != nil {
			log.Error("status server", "err", err)
		}
	}()

	for {
		core.Process()
		time.Sleep(10 * time.Millisecond)
	}
}
