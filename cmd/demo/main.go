package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/comalice/promisex"
	"github.com/comalice/promisex/internal/production"
)

// Demo: run a handful of asynchronous jobs as promises, fan their terminal
// outcomes into the production tier, and persist them as JSON and YAML.
func main() {
	outcomes := make(chan production.Outcome, 16)
	publisher := production.NewChannelPublisher(outcomes)
	logPub := production.NewLogPublisher(slog.Default())

	ctx := context.Background()

	jsonPersister, err := production.NewJSONPersister("/tmp/promisex-demo")
	if err != nil {
		panic(err)
	}
	yamlPersister, err := production.NewYAMLPersister("/tmp/promisex-demo")
	if err != nil {
		panic(err)
	}

	jobs := map[string]func(p *promisex.Promise){
		"fetch-ok": func(p *promisex.Promise) {
			time.Sleep(30 * time.Millisecond)
			p.EmitSuccess("200 OK", 1234)
		},
		"fetch-fail": func(p *promisex.Promise) {
			time.Sleep(40 * time.Millisecond)
			p.EmitError("connection reset")
		},
		"fetch-slow": func(p *promisex.Promise) {
			// Never resolves; the timeout rejects it.
		},
		"fetch-aborted": func(p *promisex.Promise) {
			// Cancelled below before it can resolve.
		},
	}

	promises := make(map[string]*promisex.Promise, len(jobs))
	for id, run := range jobs {
		p := promisex.NewPromise().Timeout(200 * time.Millisecond)
		production.Watch(ctx, id, p, publisher)
		production.Watch(ctx, id, p, logPub)
		promises[id] = p
		go run(p)
	}

	promises["fetch-aborted"].Cancel()

	for _, p := range promises {
		<-p.Done()
	}
	publisher.Close()

	fmt.Println()
	for outcome := range outcomes {
		fmt.Printf("%-14s %-8s %v\n", outcome.PromiseID, outcome.Event, outcome.Args)
		if err := jsonPersister.Save(ctx, outcome); err != nil {
			fmt.Fprintln(os.Stderr, "persist json:", err)
		}
		if err := yamlPersister.Save(ctx, outcome); err != nil {
			fmt.Fprintln(os.Stderr, "persist yaml:", err)
		}
	}

	loaded, err := jsonPersister.Load(ctx, "fetch-slow")
	if err != nil {
		panic(err)
	}
	fmt.Printf("\nreloaded %s: %s %v\n", loaded.PromiseID, loaded.Event, loaded.Args)
}
