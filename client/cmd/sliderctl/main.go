// Command sliderctl queries and updates a slider-server over gRPC.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sliderstack/sliderstack/pkg/client"
	"github.com/sliderstack/sliderstack/pkg/types"
)

const usage = `usage: sliderctl [flags] <command> [args]

commands:
  liveness                    print application liveness
  components                  list components
  component NAME              print one component
  containers                  list live containers
  certstore TYPE FILE         save the keystore or truststore to FILE
  model NAME [SECTION]        print a model document or one section
  push-model NAME FILE        store the aggregate document in FILE as NAME
  report FILE                 push the containers listed in FILE every -interval

flags:
`

func main() {
	configPath := flag.String("config", "", "path to a config file with a client: section")
	endpoint := flag.String("endpoint", "", "server gRPC address (overrides config)")
	keyEnv := flag.String("api-key-env", "", "environment variable holding the API key (enables apikey auth)")
	interval := flag.Duration("interval", 30*time.Second, "report period")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	cfg := client.Defaults()
	if *configPath != "" {
		loaded, err := client.LoadConfig(*configPath)
		if err != nil {
			fatal(err)
		}
		cfg = *loaded
	}
	if *endpoint != "" {
		cfg.Endpoint = *endpoint
	}
	if *keyEnv != "" {
		cfg.Auth.Mode = "apikey"
		cfg.Auth.KeyEnv = *keyEnv
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if args[0] == "report" {
		need(args, 2)
		report(ctx, cfg, args[1], *interval)
		return
	}

	c, err := client.Dial(ctx, cfg)
	if err != nil {
		fatal(err)
	}
	defer c.Close()

	if err := run(ctx, c, args); err != nil {
		fatal(err)
	}
}

func run(ctx context.Context, c *client.Client, args []string) error {
	switch args[0] {
	case "liveness":
		l, err := c.Liveness(ctx)
		if err != nil {
			return err
		}
		return printJSON(l)

	case "components":
		comps, err := c.Components(ctx)
		if err != nil {
			return err
		}
		return printJSON(comps)

	case "component":
		need(args, 2)
		comp, err := c.Component(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(comp)

	case "containers":
		live, err := c.LiveContainers(ctx)
		if err != nil {
			return err
		}
		return printJSON(live)

	case "certstore":
		need(args, 3)
		data, err := c.CertificateStore(ctx, args[1])
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[2], data, 0o600); err != nil {
			return fmt.Errorf("write %s: %w", args[2], err)
		}
		fmt.Printf("wrote %d bytes to %s\n", len(data), args[2])
		return nil

	case "model":
		need(args, 2)
		section := ""
		if len(args) > 2 {
			section = args[2]
		}
		doc, err := c.ModelJSON(ctx, args[1], section)
		if err != nil {
			return err
		}
		fmt.Println(doc)
		return nil

	case "push-model":
		need(args, 3)
		doc, err := os.ReadFile(args[2])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[2], err)
		}
		return c.UpdateModel(ctx, args[1], string(doc))
	}

	flag.Usage()
	os.Exit(2)
	return nil
}

// report re-reads file every interval and queues its containers on a
// Reporter until ctx is cancelled.
func report(ctx context.Context, cfg client.Config, file string, interval time.Duration) {
	r := client.NewReporter(cfg)
	go r.Run(ctx)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		containers, err := readContainers(file)
		if err != nil {
			slog.Error("sliderctl: read containers", "file", file, "err", err)
		}
		for _, c := range containers {
			r.Report(c)
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func readContainers(file string) ([]types.ContainerStatus, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var out []types.ContainerStatus
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	return out, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func need(args []string, n int) {
	if len(args) < n {
		flag.Usage()
		os.Exit(2)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "sliderctl:", err)
	os.Exit(1)
}
