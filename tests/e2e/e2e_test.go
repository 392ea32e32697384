// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package e2e_test

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/config"
	"github.com/purpledex/purpledex/consts"
	"github.com/purpledex/purpledex/node"
	"github.com/purpledex/purpledex/rpc"
	"github.com/purpledex/purpledex/tests/e2e"
	"github.com/purpledex/purpledex/tests/workload"

	ginkgo "github.com/onsi/ginkgo/v2"
)

var (
	uri       string
	adminFlag string

	local     *node.Node
	localDir  string
	stopLocal context.CancelFunc
	localDone chan error
)

func init() {
	flag.StringVar(&uri, "uri", "", "base uri of a running node; an in-process node is started when empty")
	flag.StringVar(&adminFlag, "admin", "", "admin address of the node at --uri")
}

func TestE2e(t *testing.T) {
	ginkgo.RunSpecs(t, "purpledex e2e test suites")
}

type network struct {
	uris   []string
	config workload.DefaultTestNetworkConfiguration
}

func (n *network) URIs() []string {
	return n.uris
}

func (n *network) Configuration() workload.TestNetworkConfiguration {
	return n.config
}

type environment struct {
	URI       string        `json:"uri"`
	Admin     codec.Address `json:"admin"`
	Collector codec.Address `json:"collector"`
}

var _ = ginkgo.SynchronizedBeforeSuite(func() []byte {
	// Run only once in the first ginkgo process
	require := require.New(ginkgo.GinkgoT())
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	env := environment{
		URI:       uri,
		Collector: codec.CreateAddress(consts.AccountID, ids.GenerateTestID()),
	}
	if env.URI == "" {
		env.Admin = codec.CreateAddress(consts.AccountID, ids.GenerateTestID())
		startLocal(require, env.Admin)
		env.URI = local.URI()
	} else {
		admin, err := codec.StringToAddress(adminFlag)
		require.NoError(err)
		env.Admin = admin
	}

	require.NoError(rpc.NewJSONRPCClient(env.URI).WaitForHealthy(ctx))
	workload.Initialize(ctx, require, []string{env.URI}, env.Admin, env.Collector)

	envBytes, err := json.Marshal(env)
	require.NoError(err)
	return envBytes
}, func(envBytes []byte) {
	// Run in every ginkgo process
	var env environment
	require.NoError(ginkgo.GinkgoT(), json.Unmarshal(envBytes, &env))
	e2e.SetNetwork(&network{
		uris:   []string{env.URI},
		config: workload.NewDefaultTestNetworkConfiguration(consts.Name, env.Admin, env.Collector),
	})
})

var _ = ginkgo.SynchronizedAfterSuite(func() {}, func() {
	if local == nil {
		return
	}
	stopLocal()
	require.NoError(ginkgo.GinkgoT(), <-localDone)
	require.NoError(ginkgo.GinkgoT(), local.Close())
	require.NoError(ginkgo.GinkgoT(), os.RemoveAll(localDir))
})

func startLocal(require *require.Assertions, admin codec.Address) {
	var err error
	localDir, err = os.MkdirTemp("", "purpledex-e2e")
	require.NoError(err)

	cfg := config.NewDefaultConfig()
	cfg.Admin = admin.String()
	cfg.HTTP.ListenAddress = "127.0.0.1:0"
	cfg.HTTP.ShutdownTimeout = time.Second
	cfg.Log.Directory = localDir
	cfg.Log.DisableDisplay = true
	cfg.InvariantCheckInterval = 100 * time.Millisecond

	local, err = node.New(cfg)
	require.NoError(err)

	var ctx context.Context
	ctx, stopLocal = context.WithCancel(context.Background())
	localDone = make(chan error, 1)
	go func() {
		localDone <- local.Run(ctx)
	}()
}
