// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// mount_ramfs mounts a file system of empty in-memory files and serves it
// until unmounted.
package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacobsa/ramfs/internal/config"
	"github.com/jacobsa/ramfs/ramfuse"
	"github.com/jacobsa/timeutil"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Logger()

	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	config.RegisterFlags(flags)
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		log.Fatal().Err(err).Msg("Loading configuration")
	}

	debugLogger := ramfuse.NewDebugLogger(os.Stderr, cfg.Debug)
	rfs, err := ramfuse.NewFileSystem(ramfuse.Config{
		Files:         cfg.Files,
		Clock:         timeutil.RealClock(),
		MaxFileSize:   cfg.MaxFileSize,
		EnableMetrics: cfg.Metrics.Enabled,
		Logger:        &debugLogger,
	})

	if err != nil {
		log.Fatal().Err(err).Msg("NewFileSystem")
	}

	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())

			err := http.ListenAndServe(cfg.Metrics.ListenAddress, mux)
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Serving metrics")
			}
		}()
	}

	server, err := ramfuse.Mount(cfg.MountPoint, rfs, &ramfuse.MountConfig{
		FSName: cfg.FSName,
		Debug:  cfg.Debug,
	})

	if err != nil {
		log.Fatal().Err(err).Msg("Mount")
	}

	log.Info().
		Str("mount_point", cfg.MountPoint).
		Strs("files", cfg.Files).
		Msg("Mounted")

	// Unmount on SIGINT/SIGTERM.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-signals
		log.Info().Str("signal", s.String()).Msg("Unmounting")
		if err := server.Unmount(); err != nil {
			log.Error().Err(err).Msg("Unmount")
		}
	}()

	// Wait for it to be unmounted.
	server.Wait()
}
