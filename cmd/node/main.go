//go:build !tinygo && !baremetal

// Command node runs a single leaf or repeater mesh node against its own
// private stub.Network, for exercising one node's state machine and
// /status endpoint in isolation (the stub radio is in-process only, so
// this is not a way to talk to a separately run cmd/gateway process; use
// cmd/simnet to run several nodes sharing one medium). Real hardware uses
// the nrf-tagged build.
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
	repeater := flag.Bool("repeater", false, "act as a repeater")
	dbPath := flag.String("db", "", "sqlite path for persistent state (defaults to in-memory)")
	statusAddr := flag.String("status-addr", "", "address to serve /status on (empty disables it)")
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
		Repeater: *repeater,
		Log:      log,
	}, net, st, signer)

	if err := core.Initialize(); err != nil {
		log.Error("initialize", "err", err)
		return
	}

	if *statusAddr != "" {
		srv := monitor.New(core.GetStatus, log)
		go http.ListenAndServe(*statusAddr, srv.Handler())
	}

	for {
		core.Process()
		time.Sleep(10 * time.Millisecond)
	}
}
