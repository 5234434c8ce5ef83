// Command simulator feeds a running fleetsim service with random job
// submissions over MQTT.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kilianp07/fleetsim/infra/logger"
	"github.com/kilianp07/fleetsim/infra/mqtt"
)

func main() {
	cfg := parseFlags()
	log := logger.New("simulator")
	if err := cfg.Validate(); err != nil {
		log.Errorf("invalid config: %v", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pub, err := dialPublisher(cfg)
	if err != nil {
		log.Errorf("mqtt: %v", err)
		os.Exit(1)
	}
	defer pub.close()

	if cfg.Vehicles > 0 {
		if err := pub.addVehicles(cfg.Vehicles); err != nil {
			log.Errorf("add vehicles: %v", err)
			os.Exit(1)
		}
		log.Infof("requested %d vehicles", cfg.Vehicles)
	}

	gen := NewGenerator(cfg.Seed, cfg.StrictPct, cfg.InvalidPct)
	sent := run(ctx, cfg, func() error {
		payload, err := gen.Payload()
		if err != nil {
			return err
		}
		return pub.submit(payload)
	})
	log.Infof("published %d jobs", sent)
}

// run calls publish Burst times per Interval until Count jobs are sent or
// ctx is done. It returns the number of successful publications.
func run(ctx context.Context, cfg Config, publish func() error) int {
	log := logger.New("simulator")
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()
	sent := 0
	for {
		for i := 0; i < cfg.Burst; i++ {
			if cfg.Count > 0 && sent >= cfg.Count {
				return sent
			}
			if err := publish(); err != nil {
				log.Warnf("publish job: %v", err)
				continue
			}
			sent++
		}
		select {
		case <-ctx.Done():
			return sent
		case <-ticker.C:
		}
	}
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.Broker, "broker", "tcp://localhost:1883", "MQTT broker URL")
	flag.StringVar(&cfg.TopicPrefix, "topic-prefix", mqtt.DefaultTopicPrefix, "MQTT topic prefix")
	flag.IntVar(&cfg.Vehicles, "vehicles", 0, "vehicles to add before publishing jobs")
	flag.IntVar(&cfg.Count, "count", 0, "number of jobs, 0 for unbounded")
	flag.DurationVar(&cfg.Interval, "interval", time.Second, "delay between bursts")
	flag.IntVar(&cfg.Burst, "burst", 1, "jobs per burst")
	flag.Float64Var(&cfg.StrictPct, "strict-pct", 0.5, "ratio of strict jobs")
	flag.Float64Var(&cfg.InvalidPct, "invalid-pct", 0, "ratio of malformed submissions")
	flag.Int64Var(&cfg.Seed, "seed", time.Now().UnixNano(), "random seed")
	flag.Parse()
	return cfg
}
