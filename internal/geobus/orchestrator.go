// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geobus

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrStreamsEnded is returned by Probe if every provider closed its stream before the context
// was done.
var ErrStreamsEnded = errors.New("all geolocation provider streams ended")

// Orchestrator feeds the results of multiple providers into a GeoBus.
type Orchestrator struct {
	Bus       *GeoBus
	Providers []Provider
}

// Probe runs all providers concurrently for the given key and publishes their results to the bus.
// Every provider stream is consumed once. A stream that ends is not restarted. Probe returns the
// context error once ctx is done, or ErrStreamsEnded if all streams ended first.
func (o *Orchestrator) Probe(ctx context.Context, key string) error {
	var wg sync.WaitGroup
	for _, p := range o.Providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()
			o.consume(ctx, p, key)
		}(p)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrStreamsEnded
}

// consume publishes the results of a single provider until its stream ends or ctx is done.
func (o *Orchestrator) consume(ctx context.Context, p Provider, key string) {
	lookupChan := o.safeLookup(ctx, p, key)
	if lookupChan == nil {
		o.Bus.logger.Debug("geolocation provider did not return a stream", slog.String("provider", p.Name()))
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-lookupChan:
			if !ok {
				o.Bus.logger.Debug("geolocation provider stream ended", slog.String("provider", p.Name()))
				return
			}
			o.Bus.Publish(r)
		}
	}
}

// safeLookup invokes LookupStream and turns a panicking provider into a nil stream.
func (o *Orchestrator) safeLookup(ctx context.Context, provider Provider, key string) (ch <-chan Result) {
	defer func() {
		if rec := recover(); rec != nil {
			o.Bus.logger.Error("geolocation provider panicked", slog.String("provider", provider.Name()),
				slog.Any("panic", rec))
			ch = nil
		}
	}()
	return provider.LookupStream(ctx, key)
}
