// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/synadia-io/orbit.go/natscontext"
)

// NatsConnProvider connects to a NATS target, the target is either a named
// context or a server list depending on the provider
type NatsConnProvider interface {
	Connect(target string, opts ...nats.Option) (*nats.Conn, error)
}

type cachingContextProvider struct {
	nc *nats.Conn
	mu sync.Mutex
}

func (m *cachingContextProvider) Connect(target string, opts ...nats.Option) (*nats.Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.nc != nil {
		return m.nc, nil
	}

	var err error

	m.nc, _, err = natscontext.Connect(target, opts...)
	if err != nil {
		return nil, err
	}

	return m.nc, nil
}

type cachingServerProvider struct {
	nc *nats.Conn
	mu sync.Mutex
}

func (m *cachingServerProvider) Connect(target string, opts ...nats.Option) (*nats.Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.nc != nil {
		return m.nc, nil
	}

	var err error

	m.nc, err = nats.Connect(target, opts...)
	if err != nil {
		return nil, err
	}

	return m.nc, nil
}
