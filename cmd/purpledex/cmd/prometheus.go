// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//nolint:gosec
package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/purpledex/purpledex/utils"
)

const fsModeWrite = 0o600

// Panels charted on the generated dashboard, in display order.
var dashboardPanels = []string{
	"increase(exchange_operations{status=\"success\"}[5s])/5",
	"increase(exchange_operations{status=\"failure\"}[5s])/5",
	"histogram_quantile(0.99, sum(rate(exchange_operation_latency_bucket[30s])) by (le, operation))/1000000",
	"exchange_pools_created",
	"increase(exchange_swap_input[5s])/5",
	"increase(exchange_swap_fees[5s])/5",
	"exchange_protocol_fees_collected",
	"go_goroutines",
}

type PrometheusStaticConfig struct {
	Targets []string `yaml:"targets"`
}

type PrometheusScrapeConfig struct {
	JobName       string                    `yaml:"job_name"`
	StaticConfigs []*PrometheusStaticConfig `yaml:"static_configs"`
	MetricsPath   string                    `yaml:"metrics_path"`
}

type PrometheusConfig struct {
	Global struct {
		ScrapeInterval     string `yaml:"scrape_interval"`
		EvaluationInterval string `yaml:"evaluation_interval"`
	} `yaml:"global"`
	ScrapeConfigs []*PrometheusScrapeConfig `yaml:"scrape_configs"`
}

// NewPrometheusConfig scrapes the metrics endpoint of every node in uris.
func NewPrometheusConfig(uris []string) (*PrometheusConfig, error) {
	targets := make([]string, len(uris))
	for i, uri := range uris {
		host, err := utils.GetHost(uri)
		if err != nil {
			return nil, err
		}
		port, err := utils.GetPort(uri)
		if err != nil {
			return nil, err
		}
		targets[i] = fmt.Sprintf("%s:%s", host, port)
	}

	var c PrometheusConfig
	c.Global.ScrapeInterval = "1s"
	c.Global.EvaluationInterval = "1s"
	c.ScrapeConfigs = []*PrometheusScrapeConfig{
		{
			JobName: "purpledex",
			StaticConfigs: []*PrometheusStaticConfig{
				{Targets: targets},
			},
			MetricsPath: "/ext/metrics",
		},
	}
	return &c, nil
}

// DashboardURL links to a prometheus graph page showing panels.
//
// Params are encoded by hand because prometheus skips panels that are not
// numerically sorted and url.Values only sorts lexicographically.
func DashboardURL(baseURI string, panels []string) string {
	dashboard := baseURI + "/graph"
	for i, panel := range panels {
		appendChar := "&"
		if i == 0 {
			appendChar = "?"
		}
		dashboard = fmt.Sprintf("%s%sg%d.expr=%s&g%d.tab=0&g%d.step_input=1&g%d.range_input=5m", dashboard, appendChar, i, url.QueryEscape(panel), i, i, i)
	}
	return dashboard
}

func newPrometheusCmd(h *handler) *cobra.Command {
	var (
		baseURI         string
		configFile      string
		dataDir         string
		binary          string
		openBrowser     bool
		startPrometheus bool
	)
	cmd := &cobra.Command{
		Use:   "prometheus",
		Short: "Generate a prometheus config and dashboard for the node",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := NewPrometheusConfig([]string{h.opts.Endpoint})
			if err != nil {
				return err
			}
			yamlData, err := yaml.Marshal(c)
			if err != nil {
				return err
			}
			if err := os.WriteFile(configFile, yamlData, fsModeWrite); err != nil {
				return err
			}
			dashboard := DashboardURL(baseURI, dashboardPanels)

			if !startPrometheus {
				if !openBrowser {
					utils.Outf("{{orange}}pre-built dashboard:{{/}} %s\n", dashboard)
					utils.Outf("{{green}}prometheus cmd:{{/}} %s --config.file=%s --storage.tsdb.path=%s\n", binary, configFile, dataDir)
					return nil
				}
				return browser.OpenURL(dashboard)
			}
			return runPrometheus(cmd.Context(), binary, configFile, dataDir, dashboard, openBrowser)
		},
	}
	cmd.Flags().StringVar(&baseURI, "prometheus-uri", "http://localhost:9090", "address prometheus serves on")
	cmd.Flags().StringVar(&configFile, "prometheus-file", "/tmp/prometheus.yaml", "where to write the scrape config")
	cmd.Flags().StringVar(&dataDir, "prometheus-data", fmt.Sprintf("/tmp/prometheus-%d", time.Now().Unix()), "prometheus storage directory")
	cmd.Flags().StringVar(&binary, "prometheus-bin", "/tmp/prometheus", "prometheus executable")
	cmd.Flags().BoolVar(&openBrowser, "open", false, "open the dashboard in a browser")
	cmd.Flags().BoolVar(&startPrometheus, "start", false, "run prometheus until interrupted")
	return cmd
}

// runPrometheus blocks until prometheus exits or ctx is cancelled.
func runPrometheus(ctx context.Context, binary, configFile, dataDir, dashboard string, openBrowser bool) error {
	cmd := exec.CommandContext(ctx, binary, "--config.file="+configFile, "--storage.tsdb.path="+dataDir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	errChan := make(chan error, 1)
	go func() {
		select {
		case <-errChan:
			return
		case <-time.After(5 * time.Second):
			if !openBrowser {
				utils.Outf("{{orange}}pre-built dashboard:{{/}} %s\n", dashboard)
				return
			}
			utils.Outf("{{cyan}}opening dashboard{{/}}\n")
			if err := browser.OpenURL(dashboard); err != nil {
				utils.Outf("{{red}}unable to open dashboard:{{/}} %s\n", err.Error())
			}
		}
	}()

	utils.Outf("{{cyan}}starting prometheus (%s) in background{{/}}\n", binary)
	if err := cmd.Run(); err != nil {
		errChan <- err
		if ctx.Err() != nil {
			return nil
		}
		utils.Outf("{{orange}}prometheus exited with error:{{/}} %v\n", err)
		return err
	}
	utils.Outf("{{cyan}}prometheus exited{{/}}\n")
	return nil
}
